package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"example.com/fittrack/internal/domain"
	"example.com/fittrack/pkg/auth"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRaceReturnsCallResult(t *testing.T) {
	require.NoError(t, Race(context.Background(), time.Second, func(context.Context) error { return nil }))

	boom := errors.New("boom")
	require.ErrorIs(t, Race(context.Background(), time.Second, func(context.Context) error { return boom }), boom)
}

func TestRaceTimerWinsAndCancelsCall(t *testing.T) {
	cancelled := make(chan struct{})
	err := Race(context.Background(), 10*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		close(cancelled)
		return ctx.Err()
	})
	require.ErrorIs(t, err, ErrTimeout)

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("losing call was not cancelled")
	}
}

func TestRaceHonoursParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Race(ctx, time.Second, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCheckerAuthenticates(t *testing.T) {
	store := &stubProfiles{}
	checker := NewChecker(store, time.Second)
	expires := time.Now().Add(time.Hour).UTC()

	sess, err := checker.Check(context.Background(), &auth.Claims{Subject: "user-1", ExpiresAt: expires})
	require.NoError(t, err)
	require.True(t, sess.Authenticated)
	require.Equal(t, "user-1", sess.UserID)
	require.Equal(t, expires, sess.ExpiresAt)
	require.NotNil(t, sess.Profile)
	require.Equal(t, "user-1", sess.Profile.UserID)
	require.Equal(t, 1, store.calls)
}

func TestCheckerRejectsMissingOrExpiredClaims(t *testing.T) {
	checker := NewChecker(&stubProfiles{}, time.Second)

	sess, err := checker.Check(context.Background(), nil)
	require.ErrorIs(t, err, auth.ErrMissingToken)
	require.False(t, sess.Authenticated)

	_, err = checker.Check(context.Background(), &auth.Claims{Subject: "user-1", ExpiresAt: time.Now().Add(-time.Minute)})
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestCheckerTimesOut(t *testing.T) {
	checker := NewChecker(&stubProfiles{block: true}, 20*time.Millisecond)

	sess, err := checker.Check(context.Background(), &auth.Claims{Subject: "user-2", ExpiresAt: time.Now().Add(time.Hour)})
	require.ErrorIs(t, err, ErrTimeout)
	require.False(t, sess.Authenticated)
	require.Nil(t, sess.Profile)
}

type stubProfiles struct {
	block bool
	calls int
}

func (s *stubProfiles) EnsureProfile(ctx context.Context, userID string, seenAt time.Time) (domain.Profile, error) {
	if s.block {
		<-ctx.Done()
		return domain.Profile{}, ctx.Err()
	}
	s.calls++
	return domain.Profile{UserID: userID, CreatedAt: seenAt, LastSeenAt: seenAt}, nil
}
