package domain

import (
	"context"
	"time"
)

// Profile is the per-user row created the first time a user is seen.
type Profile struct {
	UserID      string
	DisplayName string
	CreatedAt   time.Time
	LastSeenAt  time.Time
}

// ProfileRepository upserts profiles.
type ProfileRepository interface {
	// EnsureProfile creates the profile when missing and refreshes LastSeenAt.
	EnsureProfile(ctx context.Context, userID string, seenAt time.Time) (Profile, error)
}
