package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Message represents a row fetched from the outbox.
type Message struct {
	EventID       int64
	UserID        string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	PartitionKey  string
	Payload       json.RawMessage
	RetryCount    int
}

// Store is the dispatcher's view of the outbox tables.
type Store interface {
	Claim(ctx context.Context, limit int) ([]Message, error)
	MarkPublished(ctx context.Context, ids []int64) error
	MoveToDLQ(ctx context.Context, messages []Message, reason string) error
}

// PostgresStore implements Store on the outbox and outbox_dlq tables.
type PostgresStore struct {
	pool    *pgxpool.Pool
	backoff Backoff
}

// NewPostgresStore constructs a PostgresStore. Failed messages that were
// already retried wait backoff.Delay(retries) before the DLQ manager picks them up.
func NewPostgresStore(pool *pgxpool.Pool, backoff Backoff) *PostgresStore {
	return &PostgresStore{pool: pool, backoff: backoff}
}

// Backoff computes exponential retry delays capped at one hour.
type Backoff struct {
	Base time.Duration
}

// Delay returns the wait before retry number attempt. Attempt zero waits nothing.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	base := b.Base
	if base <= 0 {
		base = time.Minute
	}
	if attempt > 12 {
		return time.Hour
	}
	delay := time.Duration(1<<uint(attempt-1)) * base
	if delay > time.Hour {
		delay = time.Hour
	}
	return delay
}

// claimLease is how long a claimed row stays invisible to other dispatchers.
// Rows left unpublished after it expires belong to a dispatcher that died mid-batch.
const claimLease = 5 * time.Minute

// Claim locks a batch of unpublished rows that are not leased to another
// dispatcher and stamps claimed_at.
func (s *PostgresStore) Claim(ctx context.Context, limit int) ([]Message, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `SELECT event_id, user_id, aggregate_type, aggregate_id, event_type, topic, partition_key, payload, retry_count
        FROM outbox
        WHERE published_at IS NULL
          AND (claimed_at IS NULL OR claimed_at < NOW() - $2 * INTERVAL '1 second')
        ORDER BY event_id
        LIMIT $1
        FOR UPDATE SKIP LOCKED`, limit, claimLease.Seconds())
	if err != nil {
		return nil, err
	}

	messages := make([]Message, 0, limit)
	ids := make([]int64, 0, limit)
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.EventID, &msg.UserID, &msg.AggregateType, &msg.AggregateID, &msg.EventType, &msg.Topic, &msg.PartitionKey, &msg.Payload, &msg.RetryCount); err != nil {
			rows.Close()
			return nil, err
		}
		messages = append(messages, msg)
		ids = append(ids, msg.EventID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	if _, err := tx.Exec(ctx, `UPDATE outbox SET claimed_at = NOW() WHERE event_id = ANY($1)`, ids); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkPublished stamps published_at on delivered rows.
func (s *PostgresStore) MarkPublished(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx, `UPDATE outbox SET published_at = NOW() WHERE event_id = ANY($1)`, ids)
	return err
}

// MoveToDLQ records failed messages for a later retry.
func (s *PostgresStore) MoveToDLQ(ctx context.Context, messages []Message, reason string) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, msg := range messages {
		entryReason := fmt.Sprintf("%s (topic=%s)", reason, msg.Topic)
		if _, err := tx.Exec(ctx,
			`INSERT INTO outbox_dlq (event_id, user_id, aggregate_type, aggregate_id, event_type, topic, partition_key, payload, reason, retry_count, next_retry_at)
             VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10, NOW() + $11 * INTERVAL '1 second')`,
			msg.EventID, msg.UserID, msg.AggregateType, msg.AggregateID, msg.EventType, msg.Topic, msg.PartitionKey, msg.Payload, entryReason, msg.RetryCount,
			s.backoff.Delay(msg.RetryCount).Seconds(),
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
