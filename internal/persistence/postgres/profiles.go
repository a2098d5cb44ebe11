package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"example.com/fittrack/internal/domain"
)

// EnsureProfile creates the profile on first sight and refreshes last_seen_at.
func (r *Repository) EnsureProfile(ctx context.Context, userID string, seenAt time.Time) (domain.Profile, error) {
	var profile domain.Profile
	err := r.withUserTx(ctx, userID, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `INSERT INTO profiles (user_id, created_at, last_seen_at)
            VALUES ($1, $2, $2)
            ON CONFLICT (user_id) DO UPDATE SET last_seen_at = GREATEST(profiles.last_seen_at, EXCLUDED.last_seen_at)
            RETURNING user_id, display_name, created_at, last_seen_at`, userID, seenAt).
			Scan(&profile.UserID, &profile.DisplayName, &profile.CreatedAt, &profile.LastSeenAt)
	})
	return profile, err
}
