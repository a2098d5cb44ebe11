// Package postgres implements the domain repositories on Postgres with
// per-user row level security and a transactional outbox.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/fittrack/pkg/events"
)

// Repository provides Postgres-backed persistence for every aggregate and outbox events.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Connect opens a pool and verifies it parses.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	return pgxpool.NewWithConfig(ctx, cfg)
}

// withUserTx runs fn in a transaction scoped to userID for row level security.
// The transaction commits when fn returns nil.
func (r *Repository) withUserTx(ctx context.Context, userID string, fn func(pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "SELECT set_config('app.user_id', $1, true)", userID); err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type outboxEvent struct {
	UserID        string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       any
}

func insertOutbox(ctx context.Context, tx pgx.Tx, event outboxEvent) error {
	body, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	meta, ok := eventCatalog[event.EventType]
	if !ok {
		return fmt.Errorf("unknown event type: %s", event.EventType)
	}

	dedupeKey := fmt.Sprintf("%s:%s", event.AggregateID, event.EventType)

	const stmt = `INSERT INTO outbox (user_id, aggregate_type, aggregate_id, event_type, topic, partition_key, payload, dedupe_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (dedupe_key) DO NOTHING`

	_, err = tx.Exec(ctx, stmt,
		event.UserID,
		event.AggregateType,
		event.AggregateID,
		event.EventType,
		meta.Topic,
		meta.PartitionKeyFn(event),
		body,
		dedupeKey,
	)
	return err
}

// Kafka topics the outbox publishes to.
const (
	TopicWorkoutEvents   = "workout_events"
	TopicNutritionEvents = "nutrition_events"
	TopicBodyEvents      = "body_events"
	TopicMealPlanEvents  = "meal_plan_events"
)

// eventMetadata describes how to route an outbox event.
type eventMetadata struct {
	Topic          string
	PartitionKeyFn func(outboxEvent) string
}

func byUser(e outboxEvent) string { return e.UserID }

var eventCatalog = map[string]eventMetadata{
	events.TypeWorkoutCompleted:       {Topic: TopicWorkoutEvents, PartitionKeyFn: byUser},
	events.TypePersonalRecordAchieved: {Topic: TopicWorkoutEvents, PartitionKeyFn: byUser},
	events.TypeFoodLogged:             {Topic: TopicNutritionEvents, PartitionKeyFn: byUser},
	events.TypeFoodDeleted:            {Topic: TopicNutritionEvents, PartitionKeyFn: byUser},
	events.TypeBodyWeightLogged:       {Topic: TopicBodyEvents, PartitionKeyFn: byUser},
	events.TypeMealPlanGenerated:      {Topic: TopicMealPlanEvents, PartitionKeyFn: byUser},
}

// Topics lists every topic the outbox writes to.
func Topics() []string {
	return []string{TopicWorkoutEvents, TopicNutritionEvents, TopicBodyEvents, TopicMealPlanEvents}
}
