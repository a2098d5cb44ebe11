package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"example.com/fittrack/internal/domain"
	"example.com/fittrack/internal/observability"
	"example.com/fittrack/pkg/events"
)

const weightColumns = `entry_id, user_id, weight_kg, measured_at, note, created_at`

// CreateWeight stores a weigh-in and records a body_weight.logged event.
func (r *Repository) CreateWeight(ctx context.Context, entry domain.WeightEntry) error {
	err := r.withUserTx(ctx, entry.UserID, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO weight_entries (`+weightColumns+`) VALUES ($1,$2,$3,$4,$5,$6)`,
			entry.ID, entry.UserID, entry.WeightKg, entry.MeasuredAt, entry.Note, entry.CreatedAt); err != nil {
			return err
		}
		return insertOutbox(ctx, tx, outboxEvent{
			UserID:        entry.UserID,
			AggregateType: "weight_entry",
			AggregateID:   entry.ID,
			EventType:     events.TypeBodyWeightLogged,
			Payload: events.BodyWeightLogged{
				EntryID:    entry.ID,
				UserID:     entry.UserID,
				WeightKg:   entry.WeightKg,
				MeasuredAt: entry.MeasuredAt,
			},
		})
	})
	if err != nil {
		return err
	}
	observability.RecordPersisted("weight_entry", entry.CreatedAt)
	return nil
}

// ListWeights pages through weigh-ins newest first.
func (r *Repository) ListWeights(ctx context.Context, userID string, cursor *domain.Cursor, limit int) ([]domain.WeightEntry, *domain.Cursor, error) {
	args := []any{userID, limit}
	query := `SELECT ` + weightColumns + ` FROM weight_entries WHERE user_id=$1`
	if cursor != nil {
		query += ` AND (measured_at, entry_id) < ($3, $4)`
		args = append(args, cursor.At, cursor.ID)
	}
	query += ` ORDER BY measured_at DESC, entry_id DESC LIMIT $2`

	results, err := r.queryWeights(ctx, userID, query, args...)
	if err != nil {
		return nil, nil, err
	}
	var next *domain.Cursor
	if len(results) == limit {
		last := results[len(results)-1]
		next = &domain.Cursor{At: last.MeasuredAt, ID: last.ID}
	}
	return results, next, nil
}

// WeightsBetween returns weigh-ins in [from, to) oldest first.
func (r *Repository) WeightsBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.WeightEntry, error) {
	return r.queryWeights(ctx, userID, `SELECT `+weightColumns+` FROM weight_entries
        WHERE user_id=$1 AND measured_at >= $2 AND measured_at < $3
        ORDER BY measured_at, entry_id`, userID, from, to)
}

func (r *Repository) queryWeights(ctx context.Context, userID, query string, args ...any) ([]domain.WeightEntry, error) {
	results := make([]domain.WeightEntry, 0)
	err := r.withUserTx(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var e domain.WeightEntry
			if err := rows.Scan(&e.ID, &e.UserID, &e.WeightKg, &e.MeasuredAt, &e.Note, &e.CreatedAt); err != nil {
				return err
			}
			results = append(results, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// DeleteWeight removes a weigh-in.
func (r *Repository) DeleteWeight(ctx context.Context, userID, entryID string) (bool, error) {
	var deleted bool
	err := r.withUserTx(ctx, userID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM weight_entries WHERE user_id=$1 AND entry_id=$2`, userID, entryID)
		if err != nil {
			return err
		}
		deleted = tag.RowsAffected() > 0
		return nil
	})
	return deleted, err
}
