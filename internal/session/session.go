// Package session resolves the signed-in user at startup, bounded by a timeout.
package session

import (
	"context"
	"errors"
	"time"

	"example.com/fittrack/internal/domain"
	"example.com/fittrack/pkg/auth"
)

// ErrTimeout is returned when the timer wins the race.
var ErrTimeout = errors.New("session check timed out")

// Race runs fn and a timer concurrently. It returns ErrTimeout if the timer fires
// first, fn's error otherwise. fn's context is cancelled once Race returns.
func Race(ctx context.Context, timeout time.Duration, fn func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn(ctx) }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		return ErrTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Session describes the signed-in user.
type Session struct {
	UserID        string
	Profile       *domain.Profile
	ExpiresAt     time.Time
	Authenticated bool
}

// Checker resolves a Session from verified claims.
type Checker struct {
	profiles domain.ProfileRepository
	timeout  time.Duration
	now      func() time.Time
}

// NewChecker constructs a Checker. A non-positive timeout defaults to five seconds.
func NewChecker(profiles domain.ProfileRepository, timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Checker{profiles: profiles, timeout: timeout, now: time.Now}
}

// Check upserts the caller's profile, racing the lookup against the configured timeout.
// Nil or expired claims yield an unauthenticated session and auth.ErrMissingToken.
func (c *Checker) Check(ctx context.Context, claims *auth.Claims) (Session, error) {
	now := c.now().UTC()
	if claims == nil || claims.UserID() == "" {
		return Session{}, auth.ErrMissingToken
	}
	if !claims.ExpiresAt.IsZero() && !claims.ExpiresAt.After(now) {
		return Session{}, auth.ErrInvalidToken
	}

	var profile domain.Profile
	err := Race(ctx, c.timeout, func(ctx context.Context) error {
		p, err := c.profiles.EnsureProfile(ctx, claims.UserID(), now)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	if err != nil {
		return Session{UserID: claims.UserID()}, err
	}

	return Session{
		UserID:        claims.UserID(),
		Profile:       &profile,
		ExpiresAt:     claims.ExpiresAt,
		Authenticated: true,
	}, nil
}
