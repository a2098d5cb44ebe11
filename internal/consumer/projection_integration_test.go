//go:build integration

package consumer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"example.com/fittrack/internal/domain"
	"example.com/fittrack/internal/outbox"
	"example.com/fittrack/internal/persistence/postgres"
	"example.com/fittrack/internal/testsupport"
)

func TestProjectionHandlerAppliesFoodEventsOnce(t *testing.T) {
	ctx := context.Background()
	pool := testsupport.StartPostgres(ctx, t)
	handler := NewProjectionHandler(pool, zaptest.NewLogger(t))

	userID := uuid.NewString()
	logged := Message{
		Topic:       postgres.TopicNutritionEvents,
		Offset:      1,
		EventType:   "food.logged",
		UserID:      userID,
		AggregateID: "entry-1",
		Payload:     []byte(`{"entry_id":"entry-1","user_id":"` + userID + `","macros":{"calories":520,"protein":31,"carbs":48,"fat":21},"logged_at":"2026-03-02T12:30:00Z"}`),
		Timestamp:   time.Now().UTC(),
	}
	require.NoError(t, handler.Handle(ctx, logged))

	// Redelivery at a new offset must not double count.
	logged.Offset = 9
	require.NoError(t, handler.Handle(ctx, logged))

	repo := postgres.NewRepository(pool)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	totals, err := repo.DailyTotals(ctx, userID, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, totals, 1)
	require.Equal(t, "2026-03-02", totals[0].Day)
	require.Equal(t, 520.0, totals[0].Macros.Calories)
	require.Equal(t, 1, totals[0].EntryCount)

	deleted := Message{
		Topic:       postgres.TopicNutritionEvents,
		Offset:      10,
		EventType:   "food.deleted",
		UserID:      userID,
		AggregateID: "entry-1",
		Payload:     []byte(`{"entry_id":"entry-1","user_id":"` + userID + `","macros":{"calories":520,"protein":31,"carbs":48,"fat":21},"logged_at":"2026-03-02T12:30:00Z"}`),
	}
	require.NoError(t, handler.Handle(ctx, deleted))

	totals, err = repo.DailyTotals(ctx, userID, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, totals, 1)
	require.Zero(t, totals[0].Macros.Calories)
	require.Zero(t, totals[0].EntryCount)

	var logCount int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM event_log WHERE user_id = $1`, userID).Scan(&logCount))
	require.Equal(t, 2, logCount)
}

func TestOutboxToProjectionRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool := testsupport.StartPostgres(ctx, t)
	broker := testsupport.StartKafka(ctx, t, postgres.Topics()...)
	logger := zaptest.NewLogger(t)

	repo := postgres.NewRepository(pool)
	nutrition := domain.NewNutritionService(repo, repo, nil)
	userID := uuid.NewString()
	loggedAt := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	_, err := nutrition.LogFood(ctx, domain.LogFoodInput{
		UserID:   userID,
		Name:     "Greek yogurt",
		MealType: "breakfast",
		Macros:   &domain.Macros{Calories: 150, Protein: 15, Carbs: 8, Fat: 4},
		LoggedAt: loggedAt,
	})
	require.NoError(t, err)

	producer := outbox.NewKafkaProducer([]string{broker})
	defer producer.Close()
	dispatcher := outbox.NewDispatcher(outbox.NewPostgresStore(pool, outbox.Backoff{}), producer, logger, 10*time.Millisecond, 10)
	n, err := dispatcher.ProcessBatch(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	reader := NewKafkaReader([]string{broker}, "fittrack-test-"+uuid.NewString(), []string{postgres.TopicNutritionEvents})
	defer reader.Close()

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- NewProcessor(reader, NewProjectionHandler(pool, logger), WithLogger(logger)).Run(runCtx)
	}()

	require.Eventually(t, func() bool {
		totals, err := nutrition.History(ctx, userID, loggedAt, loggedAt)
		return err == nil && len(totals) == 1 && totals[0].Macros.Calories == 150
	}, 90*time.Second, 500*time.Millisecond)

	stop()
	err = <-done
	require.True(t, errors.Is(err, context.Canceled), "unexpected processor error: %v", err)
}
