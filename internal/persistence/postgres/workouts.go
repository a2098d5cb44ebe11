package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"example.com/fittrack/internal/domain"
	"example.com/fittrack/internal/observability"
	"example.com/fittrack/pkg/events"
)

const sessionColumns = `session_id, user_id, name, notes, started_at, ended_at, created_at, updated_at`

func scanSession(row pgx.Row, s *domain.WorkoutSession) error {
	return row.Scan(&s.ID, &s.UserID, &s.Name, &s.Notes, &s.StartedAt, &s.EndedAt, &s.CreatedAt, &s.UpdatedAt)
}

// CreateSession inserts a new workout session.
func (r *Repository) CreateSession(ctx context.Context, session domain.WorkoutSession) error {
	err := r.withUserTx(ctx, session.UserID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO workout_sessions (`+sessionColumns+`)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			session.ID, session.UserID, session.Name, session.Notes, session.StartedAt, session.EndedAt, session.CreatedAt, session.UpdatedAt)
		return err
	})
	if err != nil {
		return err
	}
	observability.RecordPersisted("workout_session", session.CreatedAt)
	return nil
}

// GetSession loads a session with its sets.
func (r *Repository) GetSession(ctx context.Context, userID, sessionID string) (*domain.WorkoutSession, error) {
	var result *domain.WorkoutSession
	err := r.withUserTx(ctx, userID, func(tx pgx.Tx) error {
		var session domain.WorkoutSession
		row := tx.QueryRow(ctx, `SELECT `+sessionColumns+` FROM workout_sessions WHERE user_id=$1 AND session_id=$2`, userID, sessionID)
		if err := scanSession(row, &session); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return err
		}

		rows, err := tx.Query(ctx, `SELECT set_id, session_id, user_id, exercise, set_number, reps, weight_kg, completed_at
            FROM workout_sets WHERE user_id=$1 AND session_id=$2
            ORDER BY completed_at, set_number`, userID, sessionID)
		if err != nil {
			return err
		}
		defer rows.Close()
		session.Sets = make([]domain.WorkoutSet, 0)
		for rows.Next() {
			var set domain.WorkoutSet
			if err := rows.Scan(&set.ID, &set.SessionID, &set.UserID, &set.Exercise, &set.SetNumber, &set.Reps, &set.WeightKg, &set.CompletedAt); err != nil {
				return err
			}
			session.Sets = append(session.Sets, set)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		session.SetCount = len(session.Sets)
		result = &session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListSessions returns sessions newest first with their set counts.
func (r *Repository) ListSessions(ctx context.Context, userID string, cursor *domain.Cursor, limit int) ([]domain.WorkoutSession, *domain.Cursor, error) {
	args := []any{userID, limit}
	query := `SELECT s.session_id, s.user_id, s.name, s.notes, s.started_at, s.ended_at, s.created_at, s.updated_at,
            (SELECT COUNT(*) FROM workout_sets ws WHERE ws.session_id = s.session_id)
        FROM workout_sessions s WHERE s.user_id=$1`
	if cursor != nil {
		query += ` AND (s.started_at, s.session_id) < ($3, $4)`
		args = append(args, cursor.At, cursor.ID)
	}
	query += ` ORDER BY s.started_at DESC, s.session_id DESC LIMIT $2`

	results := make([]domain.WorkoutSession, 0, limit)
	err := r.withUserTx(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var s domain.WorkoutSession
			if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Notes, &s.StartedAt, &s.EndedAt, &s.CreatedAt, &s.UpdatedAt, &s.SetCount); err != nil {
				return err
			}
			results = append(results, s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, nil, err
	}

	var next *domain.Cursor
	if len(results) == limit {
		last := results[len(results)-1]
		next = &domain.Cursor{At: last.StartedAt, ID: last.ID}
	}
	return results, next, nil
}

// FinishSession closes the session and records a workout.completed event.
// A session finished concurrently yields domain.ErrSessionFinished.
func (r *Repository) FinishSession(ctx context.Context, session domain.WorkoutSession) error {
	return r.withUserTx(ctx, session.UserID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE workout_sessions SET ended_at=$3, updated_at=$4
            WHERE user_id=$1 AND session_id=$2 AND ended_at IS NULL`,
			session.UserID, session.ID, session.EndedAt, session.UpdatedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrSessionFinished
		}

		return insertOutbox(ctx, tx, outboxEvent{
			UserID:        session.UserID,
			AggregateType: "workout_session",
			AggregateID:   session.ID,
			EventType:     events.TypeWorkoutCompleted,
			Payload: events.WorkoutCompleted{
				SessionID:   session.ID,
				UserID:      session.UserID,
				Name:        session.Name,
				StartedAt:   session.StartedAt,
				EndedAt:     *session.EndedAt,
				DurationSec: int64(session.Duration().Seconds()),
				SetCount:    len(session.Sets),
				VolumeKg:    session.VolumeKg(),
			},
		})
	})
}

// DeleteSession removes the session, its sets, and rebuilds any records the session held.
func (r *Repository) DeleteSession(ctx context.Context, userID, sessionID string) (bool, error) {
	var deleted bool
	err := r.withUserTx(ctx, userID, func(tx pgx.Tx) error {
		exercises, err := collectStrings(ctx, tx, `SELECT exercise FROM personal_records WHERE user_id=$1 AND session_id=$2`, userID, sessionID)
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM workout_sessions WHERE user_id=$1 AND session_id=$2`, userID, sessionID)
		if err != nil {
			return err
		}
		deleted = tag.RowsAffected() > 0
		if !deleted {
			return nil
		}
		for _, exercise := range exercises {
			if err := rebuildRecord(ctx, tx, userID, exercise); err != nil {
				return err
			}
		}
		return nil
	})
	return deleted, err
}

// AddSet stores the set and, when record is non-nil, raises the personal record.
// The record only moves upward; a concurrent heavier set wins. The session row is
// locked first so a concurrent finish either waits or makes the insert fail.
func (r *Repository) AddSet(ctx context.Context, set domain.WorkoutSet, record *domain.PersonalRecord) error {
	err := r.withUserTx(ctx, set.UserID, func(tx pgx.Tx) error {
		var endedAt *time.Time
		err := tx.QueryRow(ctx, `SELECT ended_at FROM workout_sessions WHERE user_id=$1 AND session_id=$2 FOR UPDATE`,
			set.UserID, set.SessionID).Scan(&endedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrWorkoutNotFound
		}
		if err != nil {
			return err
		}
		if endedAt != nil {
			return domain.ErrSessionFinished
		}

		if _, err := tx.Exec(ctx, `INSERT INTO workout_sets (set_id, session_id, user_id, exercise, set_number, reps, weight_kg, completed_at)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			set.ID, set.SessionID, set.UserID, set.Exercise, set.SetNumber, set.Reps, set.WeightKg, set.CompletedAt); err != nil {
			return err
		}
		if record == nil {
			return nil
		}

		tag, err := tx.Exec(ctx, `INSERT INTO personal_records (user_id, exercise, weight_kg, reps, estimated_one_rep_max, session_id, set_id, achieved_at, previous_weight_kg)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
            ON CONFLICT (user_id, exercise) DO UPDATE SET
                weight_kg = EXCLUDED.weight_kg,
                reps = EXCLUDED.reps,
                estimated_one_rep_max = EXCLUDED.estimated_one_rep_max,
                session_id = EXCLUDED.session_id,
                set_id = EXCLUDED.set_id,
                achieved_at = EXCLUDED.achieved_at,
                previous_weight_kg = personal_records.weight_kg
            WHERE EXCLUDED.weight_kg > personal_records.weight_kg
               OR (EXCLUDED.weight_kg = personal_records.weight_kg AND EXCLUDED.reps > personal_records.reps)`,
			record.UserID, record.Exercise, record.WeightKg, record.Reps, record.EstimatedOneRepMax,
			record.SessionID, record.SetID, record.AchievedAt, record.PreviousWeightKg)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		return insertOutbox(ctx, tx, outboxEvent{
			UserID:        record.UserID,
			AggregateType: "workout_set",
			AggregateID:   record.SetID,
			EventType:     events.TypePersonalRecordAchieved,
			Payload: events.PersonalRecordAchieved{
				UserID:             record.UserID,
				Exercise:           record.Exercise,
				SessionID:          record.SessionID,
				SetID:              record.SetID,
				WeightKg:           record.WeightKg,
				Reps:               record.Reps,
				EstimatedOneRepMax: record.EstimatedOneRepMax,
				PreviousWeightKg:   record.PreviousWeightKg,
				AchievedAt:         record.AchievedAt,
			},
		})
	})
	if err != nil {
		return err
	}
	observability.RecordPersisted("workout_set", set.CompletedAt)
	return nil
}

// DeleteSet removes one set and rebuilds the exercise record if the set held it.
func (r *Repository) DeleteSet(ctx context.Context, userID, sessionID, setID string) (bool, error) {
	var deleted bool
	err := r.withUserTx(ctx, userID, func(tx pgx.Tx) error {
		var exercise string
		err := tx.QueryRow(ctx, `DELETE FROM workout_sets WHERE user_id=$1 AND session_id=$2 AND set_id=$3 RETURNING exercise`,
			userID, sessionID, setID).Scan(&exercise)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		deleted = true

		var holder string
		err = tx.QueryRow(ctx, `SELECT set_id FROM personal_records WHERE user_id=$1 AND exercise=$2`, userID, exercise).Scan(&holder)
		if errors.Is(err, pgx.ErrNoRows) || (err == nil && holder != setID) {
			return nil
		}
		if err != nil {
			return err
		}
		return rebuildRecord(ctx, tx, userID, exercise)
	})
	return deleted, err
}

// rebuildRecord recomputes an exercise's record from the remaining sets.
func rebuildRecord(ctx context.Context, tx pgx.Tx, userID, exercise string) error {
	var set domain.WorkoutSet
	err := tx.QueryRow(ctx, `SELECT set_id, session_id, reps, weight_kg, completed_at
        FROM workout_sets WHERE user_id=$1 AND exercise=$2
        ORDER BY weight_kg DESC, reps DESC, completed_at ASC LIMIT 1`, userID, exercise).
		Scan(&set.ID, &set.SessionID, &set.Reps, &set.WeightKg, &set.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		_, err = tx.Exec(ctx, `DELETE FROM personal_records WHERE user_id=$1 AND exercise=$2`, userID, exercise)
		return err
	}
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `UPDATE personal_records SET weight_kg=$3, reps=$4, estimated_one_rep_max=$5,
            session_id=$6, set_id=$7, achieved_at=$8, previous_weight_kg=0
        WHERE user_id=$1 AND exercise=$2`,
		userID, exercise, set.WeightKg, set.Reps, domain.EstimateOneRepMax(set.WeightKg, set.Reps),
		set.SessionID, set.ID, set.CompletedAt)
	return err
}

const recordColumns = `user_id, exercise, weight_kg, reps, estimated_one_rep_max, session_id, set_id, achieved_at, previous_weight_kg`

func scanRecord(row pgx.Row, rec *domain.PersonalRecord) error {
	return row.Scan(&rec.UserID, &rec.Exercise, &rec.WeightKg, &rec.Reps, &rec.EstimatedOneRepMax, &rec.SessionID, &rec.SetID, &rec.AchievedAt, &rec.PreviousWeightKg)
}

// GetPersonalRecord returns the record for one exercise, or nil.
func (r *Repository) GetPersonalRecord(ctx context.Context, userID, exercise string) (*domain.PersonalRecord, error) {
	var result *domain.PersonalRecord
	err := r.withUserTx(ctx, userID, func(tx pgx.Tx) error {
		var rec domain.PersonalRecord
		err := scanRecord(tx.QueryRow(ctx, `SELECT `+recordColumns+` FROM personal_records WHERE user_id=$1 AND exercise=$2`, userID, exercise), &rec)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		result = &rec
		return nil
	})
	return result, err
}

// ListPersonalRecords returns every record ordered by exercise.
func (r *Repository) ListPersonalRecords(ctx context.Context, userID string) ([]domain.PersonalRecord, error) {
	results := make([]domain.PersonalRecord, 0)
	err := r.withUserTx(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT `+recordColumns+` FROM personal_records WHERE user_id=$1 ORDER BY exercise`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var rec domain.PersonalRecord
			if err := scanRecord(rows, &rec); err != nil {
				return err
			}
			results = append(results, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func collectStrings(ctx context.Context, tx pgx.Tx, query string, args ...any) ([]string, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
