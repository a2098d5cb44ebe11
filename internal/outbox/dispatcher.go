// Package outbox delivers the events recorded in the outbox table to Kafka.
package outbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Header keys set on every published message.
const (
	HeaderEventType   = "event_type"
	HeaderUserID      = "user_id"
	HeaderAggregateID = "aggregate_id"
)

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

// Dispatcher drains the outbox table and delivers events to Kafka.
type Dispatcher struct {
	store            Store
	producer         messageWriter
	logger           *zap.Logger
	pollInterval     time.Duration
	batchSize        int
	shutdownComplete chan struct{}
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(store Store, producer messageWriter, logger *zap.Logger, pollInterval time.Duration, batchSize int) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 25
	}
	return &Dispatcher{
		store:            store,
		producer:         producer,
		logger:           logger,
		pollInterval:     pollInterval,
		batchSize:        batchSize,
		shutdownComplete: make(chan struct{}),
	}
}

// Start runs the polling loop until ctx ends. It should be called in a goroutine.
func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.pollInterval)
	defer func() {
		ticker.Stop()
		close(d.shutdownComplete)
	}()

	for {
		if _, err := d.ProcessBatch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Error("outbox dispatcher error", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Wait blocks until the loop started by Start has returned.
func (d *Dispatcher) Wait() {
	<-d.shutdownComplete
}

// ProcessBatch claims and delivers one batch, returning how many messages it handled.
// Messages whose topic write failed are moved to the DLQ; every claimed row is
// then marked published.
func (d *Dispatcher) ProcessBatch(ctx context.Context) (int, error) {
	start := time.Now()

	messages, err := d.store.Claim(ctx, d.batchSize)
	if err != nil {
		return 0, err
	}
	if len(messages) == 0 {
		return 0, nil
	}
	defer func() { batchDuration.Observe(time.Since(start).Seconds()) }()

	ids := make([]int64, 0, len(messages))
	for _, msg := range messages {
		ids = append(ids, msg.EventID)
	}

	if failed, err := d.deliver(ctx, messages); err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		d.logger.Warn("outbox delivery failure", zap.Error(err), zap.Int("failed", len(failed)), zap.Int("batch", len(messages)))
		failedCounter.Add(float64(len(failed)))
		if dlqErr := d.store.MoveToDLQ(ctx, failed, err.Error()); dlqErr != nil {
			return 0, dlqErr
		}
		for _, msg := range failed {
			dlqCounter.WithLabelValues(msg.Topic).Inc()
		}
	}

	return len(messages), d.store.MarkPublished(ctx, ids)
}

// deliver writes one batch per topic and returns the messages of topics that failed.
func (d *Dispatcher) deliver(ctx context.Context, messages []Message) ([]Message, error) {
	byTopic := make(map[string][]Message)
	order := make([]string, 0)
	for _, msg := range messages {
		if _, ok := byTopic[msg.Topic]; !ok {
			order = append(order, msg.Topic)
		}
		byTopic[msg.Topic] = append(byTopic[msg.Topic], msg)
	}

	var (
		failed []Message
		errs   error
	)
	for _, topic := range order {
		batch := byTopic[topic]
		records := make([]kafka.Message, 0, len(batch))
		for _, msg := range batch {
			records = append(records, toKafkaMessage(msg))
		}
		if err := d.producer.WriteMessages(ctx, topic, records...); err != nil {
			failed = append(failed, batch...)
			errs = errors.Join(errs, fmt.Errorf("topic %s: %w", topic, err))
			continue
		}
		deliveredCounter.WithLabelValues(topic).Add(float64(len(batch)))
	}
	return failed, errs
}

func toKafkaMessage(msg Message) kafka.Message {
	return kafka.Message{
		Key:   []byte(msg.PartitionKey),
		Value: []byte(msg.Payload),
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(msg.EventType)},
			{Key: HeaderUserID, Value: []byte(msg.UserID)},
			{Key: HeaderAggregateID, Value: []byte(msg.AggregateID)},
		},
	}
}
