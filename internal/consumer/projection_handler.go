package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"example.com/fittrack/internal/observability"
	"example.com/fittrack/pkg/events"
)

// ProjectionHandler records every event in event_log and keeps
// daily_nutrition_totals in step with food events.
type ProjectionHandler struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewProjectionHandler constructs a handler backed by the provided pool.
func NewProjectionHandler(pool *pgxpool.Pool, logger *zap.Logger) *ProjectionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectionHandler{pool: pool, logger: logger}
}

// Handle applies msg once. Redelivered events are recognised by their key and skipped.
func (h *ProjectionHandler) Handle(ctx context.Context, msg Message) error {
	tx, err := h.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT set_config('app.user_id', $1, true)`, msg.UserID); err != nil {
		return err
	}

	receivedAt := msg.Timestamp
	if receivedAt.IsZero() {
		receivedAt = time.Now().UTC()
	}
	tag, err := tx.Exec(ctx,
		`INSERT INTO event_log (event_key, topic, event_type, user_id, aggregate_id, payload, received_at)
         VALUES ($1,$2,$3,$4,$5,$6,$7)
         ON CONFLICT (event_key) DO NOTHING`,
		msg.Key(), msg.Topic, msg.EventType, msg.UserID, msg.AggregateID, msg.Payload, receivedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		duplicateCounter.WithLabelValues(msg.EventType).Inc()
		h.logger.Debug("duplicate event skipped", zap.String("key", msg.Key()))
		return tx.Commit(ctx)
	}

	switch msg.EventType {
	case events.TypeFoodLogged:
		var payload events.FoodLogged
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		if err := applyTotals(ctx, tx, msg.UserID, payload.LoggedAt, payload.Macros, 1); err != nil {
			return err
		}
	case events.TypeFoodDeleted:
		var payload events.FoodDeleted
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		if err := applyTotals(ctx, tx, msg.UserID, payload.LoggedAt, payload.Macros, -1); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	observability.RecordProjected(msg.EventType, receivedAt)
	return nil
}

// applyTotals adds sign × macros to the UTC day of loggedAt. Totals never drop below zero.
func applyTotals(ctx context.Context, tx pgx.Tx, userID string, loggedAt time.Time, m events.Macros, sign float64) error {
	day := loggedAt.UTC().Format(time.DateOnly)
	_, err := tx.Exec(ctx,
		`INSERT INTO daily_nutrition_totals (user_id, day, calories, protein, carbs, fat, entry_count, updated_at)
         VALUES ($1, $2::date, GREATEST($3::float8, 0), GREATEST($4::float8, 0), GREATEST($5::float8, 0), GREATEST($6::float8, 0), GREATEST($7::int, 0), NOW())
         ON CONFLICT (user_id, day) DO UPDATE SET
             calories    = GREATEST(daily_nutrition_totals.calories + $3, 0),
             protein     = GREATEST(daily_nutrition_totals.protein + $4, 0),
             carbs       = GREATEST(daily_nutrition_totals.carbs + $5, 0),
             fat         = GREATEST(daily_nutrition_totals.fat + $6, 0),
             entry_count = GREATEST(daily_nutrition_totals.entry_count + $7, 0),
             updated_at  = NOW()`,
		userID, day, sign*m.Calories, sign*m.Protein, sign*m.Carbs, sign*m.Fat, int(sign),
	)
	return err
}
