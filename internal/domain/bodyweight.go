package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	minWeightKg = 20
	maxWeightKg = 500
)

// WeightEntry is a single body-weight measurement.
type WeightEntry struct {
	ID         string
	UserID     string
	WeightKg   float64
	MeasuredAt time.Time
	Note       string
	CreatedAt  time.Time
}

// WeightTrend summarises the measurements inside a window.
type WeightTrend struct {
	Window       time.Duration
	Count        int
	Earliest     *WeightEntry
	Latest       *WeightEntry
	AverageKg    float64
	ChangeKg     float64
	WeeklyRateKg float64
}

// WeightRepository captures persistence for body-weight entries.
type WeightRepository interface {
	CreateWeight(ctx context.Context, entry WeightEntry) error
	ListWeights(ctx context.Context, userID string, cursor *Cursor, limit int) ([]WeightEntry, *Cursor, error)
	DeleteWeight(ctx context.Context, userID, entryID string) (bool, error)
	// WeightsBetween returns entries with from <= measured_at < to, oldest first.
	WeightsBetween(ctx context.Context, userID string, from, to time.Time) ([]WeightEntry, error)
}

// BodyWeightService records weigh-ins and derives trends.
type BodyWeightService struct {
	repo WeightRepository
	now  func() time.Time
}

// NewBodyWeightService constructs a BodyWeightService.
func NewBodyWeightService(repo WeightRepository) *BodyWeightService {
	return &BodyWeightService{repo: repo, now: time.Now}
}

// LogWeightInput captures a weigh-in.
type LogWeightInput struct {
	UserID     string
	WeightKg   float64
	MeasuredAt time.Time
	Note       string
}

// LogWeight stores a new measurement.
func (s *BodyWeightService) LogWeight(ctx context.Context, input LogWeightInput) (*WeightEntry, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, invalid("user_id", "is required")
	}
	if input.WeightKg < minWeightKg || input.WeightKg > maxWeightKg {
		return nil, invalid("weight_kg", "must be between 20 and 500")
	}
	if len(input.Note) > 500 {
		return nil, invalid("note", "must be at most 500 characters")
	}

	now := s.now().UTC()
	measuredAt := input.MeasuredAt.UTC()
	if input.MeasuredAt.IsZero() {
		measuredAt = now
	}

	entry := WeightEntry{
		ID:         uuid.NewString(),
		UserID:     input.UserID,
		WeightKg:   round1(input.WeightKg),
		MeasuredAt: measuredAt,
		Note:       strings.TrimSpace(input.Note),
		CreatedAt:  now,
	}
	if err := s.repo.CreateWeight(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListWeights pages through entries newest first.
func (s *BodyWeightService) ListWeights(ctx context.Context, userID string, cursor *Cursor, limit int) ([]WeightEntry, *Cursor, error) {
	return s.repo.ListWeights(ctx, userID, cursor, ClampLimit(limit))
}

// DeleteWeight removes an entry.
func (s *BodyWeightService) DeleteWeight(ctx context.Context, userID, entryID string) error {
	deleted, err := s.repo.DeleteWeight(ctx, userID, entryID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrWeightEntryNotFound
	}
	return nil
}

// Trend summarises entries measured within window before now. An empty window
// yields a zero trend.
func (s *BodyWeightService) Trend(ctx context.Context, userID string, window time.Duration) (WeightTrend, error) {
	if window <= 0 {
		return WeightTrend{}, invalid("window", "must be > 0")
	}
	now := s.now().UTC()
	entries, err := s.repo.WeightsBetween(ctx, userID, now.Add(-window), now.Add(time.Second))
	if err != nil {
		return WeightTrend{}, err
	}
	return computeTrend(entries, window), nil
}

func computeTrend(entries []WeightEntry, window time.Duration) WeightTrend {
	trend := WeightTrend{Window: window, Count: len(entries)}
	if len(entries) == 0 {
		return trend
	}

	earliest, latest := entries[0], entries[len(entries)-1]
	var sum float64
	for _, entry := range entries {
		sum += entry.WeightKg
		if entry.MeasuredAt.Before(earliest.MeasuredAt) {
			earliest = entry
		}
		if !entry.MeasuredAt.Before(latest.MeasuredAt) {
			latest = entry
		}
	}

	trend.Earliest = &earliest
	trend.Latest = &latest
	trend.AverageKg = round1(sum / float64(len(entries)))
	trend.ChangeKg = round1(latest.WeightKg - earliest.WeightKg)

	span := latest.MeasuredAt.Sub(earliest.MeasuredAt)
	if span >= 24*time.Hour {
		weeks := span.Hours() / (24 * 7)
		trend.WeeklyRateKg = round1((latest.WeightKg - earliest.WeightKg) / weeks)
	}
	return trend
}
