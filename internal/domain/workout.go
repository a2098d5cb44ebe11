package domain

import (
	"context"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// WorkoutSession groups the sets performed in one training session.
type WorkoutSession struct {
	ID        string
	UserID    string
	Name      string
	Notes     string
	StartedAt time.Time
	EndedAt   *time.Time
	Sets      []WorkoutSet
	SetCount  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Finished reports whether the session has an end time.
func (s WorkoutSession) Finished() bool {
	return s.EndedAt != nil
}

// VolumeKg is the sum of weight × reps over the loaded sets.
func (s WorkoutSession) VolumeKg() float64 {
	var total float64
	for _, set := range s.Sets {
		total += set.WeightKg * float64(set.Reps)
	}
	return round1(total)
}

// Duration is the elapsed time between start and end, or zero while the session is open.
func (s WorkoutSession) Duration() time.Duration {
	if s.EndedAt == nil {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// WorkoutSet is a single set of one exercise.
type WorkoutSet struct {
	ID          string
	SessionID   string
	UserID      string
	Exercise    string
	SetNumber   int
	Reps        int
	WeightKg    float64
	CompletedAt time.Time
}

// PersonalRecord is the best set a user has logged for an exercise.
type PersonalRecord struct {
	UserID             string
	Exercise           string
	WeightKg           float64
	Reps               int
	EstimatedOneRepMax float64
	SessionID          string
	SetID              string
	AchievedAt         time.Time
	PreviousWeightKg   float64
}

// Beats reports whether set is better than the record: heavier, or equally heavy with more reps.
func (r *PersonalRecord) Beats(set WorkoutSet) bool {
	if r == nil {
		return set.Reps > 0
	}
	if set.WeightKg != r.WeightKg {
		return set.WeightKg > r.WeightKg
	}
	return set.Reps > r.Reps
}

// EstimateOneRepMax applies the Epley formula.
func EstimateOneRepMax(weightKg float64, reps int) float64 {
	if reps <= 0 || weightKg <= 0 {
		return 0
	}
	if reps == 1 {
		return round1(weightKg)
	}
	return round1(weightKg * (1 + float64(reps)/30))
}

// ExerciseCatalog resolves user-entered exercise names to canonical names.
type ExerciseCatalog interface {
	CanonicalExercise(name string) (string, bool)
}

// WorkoutRepository captures persistence operations for sessions, sets and records.
// Lookups return nil, nil when the row does not exist for the user.
type WorkoutRepository interface {
	CreateSession(ctx context.Context, session WorkoutSession) error
	GetSession(ctx context.Context, userID, sessionID string) (*WorkoutSession, error)
	ListSessions(ctx context.Context, userID string, cursor *Cursor, limit int) ([]WorkoutSession, *Cursor, error)
	// FinishSession stores EndedAt and records a workout.completed event.
	FinishSession(ctx context.Context, session WorkoutSession) error
	DeleteSession(ctx context.Context, userID, sessionID string) (bool, error)
	// AddSet stores the set; a non-nil record is upserted in the same transaction
	// and reported through a personal_record.achieved event. It returns
	// ErrSessionFinished when the session was closed before the set landed and
	// ErrWorkoutNotFound when it no longer exists.
	AddSet(ctx context.Context, set WorkoutSet, record *PersonalRecord) error
	DeleteSet(ctx context.Context, userID, sessionID, setID string) (bool, error)
	GetPersonalRecord(ctx context.Context, userID, exercise string) (*PersonalRecord, error)
	ListPersonalRecords(ctx context.Context, userID string) ([]PersonalRecord, error)
}

// WorkoutService orchestrates workout logging and personal-record detection.
type WorkoutService struct {
	repo    WorkoutRepository
	catalog ExerciseCatalog
	now     func() time.Time
}

// NewWorkoutService constructs a WorkoutService. catalog may be nil.
func NewWorkoutService(repo WorkoutRepository, catalog ExerciseCatalog) *WorkoutService {
	return &WorkoutService{repo: repo, catalog: catalog, now: time.Now}
}

// StartSessionInput captures the payload for a new session.
type StartSessionInput struct {
	UserID    string
	Name      string
	Notes     string
	StartedAt time.Time
}

// StartSession opens a new workout session.
func (s *WorkoutService) StartSession(ctx context.Context, input StartSessionInput) (*WorkoutSession, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, invalid("user_id", "is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = "Workout"
	}
	if len(name) > 120 {
		return nil, invalid("name", "must be at most 120 characters")
	}

	now := s.now().UTC()
	startedAt := input.StartedAt.UTC()
	if input.StartedAt.IsZero() {
		startedAt = now
	}
	if startedAt.After(now.Add(5 * time.Minute)) {
		return nil, invalid("started_at", "must not be in the future")
	}

	session := WorkoutSession{
		ID:        uuid.NewString(),
		UserID:    input.UserID,
		Name:      name,
		Notes:     strings.TrimSpace(input.Notes),
		StartedAt: startedAt,
		Sets:      []WorkoutSet{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSession fetches a session with its sets.
func (s *WorkoutService) GetSession(ctx context.Context, userID, sessionID string) (*WorkoutSession, error) {
	session, err := s.repo.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrWorkoutNotFound
	}
	return session, nil
}

// ListSessions pages through sessions newest first.
func (s *WorkoutService) ListSessions(ctx context.Context, userID string, cursor *Cursor, limit int) ([]WorkoutSession, *Cursor, error) {
	return s.repo.ListSessions(ctx, userID, cursor, ClampLimit(limit))
}

// FinishSession closes an open session. endedAt defaults to now.
func (s *WorkoutService) FinishSession(ctx context.Context, userID, sessionID string, endedAt time.Time) (*WorkoutSession, error) {
	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Finished() {
		return nil, ErrSessionFinished
	}

	now := s.now().UTC()
	end := endedAt.UTC()
	if endedAt.IsZero() {
		end = now
	}
	if end.Before(session.StartedAt) {
		return nil, invalid("ended_at", "must not be before started_at")
	}

	session.EndedAt = &end
	session.UpdatedAt = now
	if err := s.repo.FinishSession(ctx, *session); err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSession removes a session and its sets.
func (s *WorkoutService) DeleteSession(ctx context.Context, userID, sessionID string) error {
	deleted, err := s.repo.DeleteSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrWorkoutNotFound
	}
	return nil
}

// AddSetInput captures the payload for a logged set.
type AddSetInput struct {
	UserID      string
	SessionID   string
	Exercise    string
	SetNumber   int
	Reps        int
	WeightKg    float64
	CompletedAt time.Time
}

// AddSet logs a set on an open session. The returned record is non-nil when the
// set became the user's new personal record for the exercise.
func (s *WorkoutService) AddSet(ctx context.Context, input AddSetInput) (*WorkoutSet, *PersonalRecord, error) {
	exercise := s.canonicalExercise(input.Exercise)
	if exercise == "" {
		return nil, nil, invalid("exercise", "is required")
	}
	if input.Reps <= 0 {
		return nil, nil, invalid("reps", "must be > 0")
	}
	if input.Reps > 1000 {
		return nil, nil, invalid("reps", "must be at most 1000")
	}
	if input.WeightKg < 0 || input.WeightKg > 1000 {
		return nil, nil, invalid("weight_kg", "must be between 0 and 1000")
	}
	if input.SetNumber < 0 {
		return nil, nil, invalid("set_number", "must be >= 0")
	}

	session, err := s.GetSession(ctx, input.UserID, input.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.Finished() {
		return nil, nil, ErrSessionFinished
	}

	setNumber := input.SetNumber
	if setNumber == 0 {
		setNumber = nextSetNumber(session.Sets, exercise)
	}
	completedAt := input.CompletedAt.UTC()
	if input.CompletedAt.IsZero() {
		completedAt = s.now().UTC()
	}

	set := WorkoutSet{
		ID:          uuid.NewString(),
		SessionID:   session.ID,
		UserID:      input.UserID,
		Exercise:    exercise,
		SetNumber:   setNumber,
		Reps:        input.Reps,
		WeightKg:    input.WeightKg,
		CompletedAt: completedAt,
	}

	current, err := s.repo.GetPersonalRecord(ctx, input.UserID, exercise)
	if err != nil {
		return nil, nil, err
	}

	var record *PersonalRecord
	if current.Beats(set) {
		record = &PersonalRecord{
			UserID:             set.UserID,
			Exercise:           exercise,
			WeightKg:           set.WeightKg,
			Reps:               set.Reps,
			EstimatedOneRepMax: EstimateOneRepMax(set.WeightKg, set.Reps),
			SessionID:          set.SessionID,
			SetID:              set.ID,
			AchievedAt:         set.CompletedAt,
		}
		if current != nil {
			record.PreviousWeightKg = current.WeightKg
		}
	}

	if err := s.repo.AddSet(ctx, set, record); err != nil {
		return nil, nil, err
	}
	return &set, record, nil
}

// DeleteSet removes a set from a session.
func (s *WorkoutService) DeleteSet(ctx context.Context, userID, sessionID, setID string) error {
	deleted, err := s.repo.DeleteSet(ctx, userID, sessionID, setID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrSetNotFound
	}
	return nil
}

// ListPersonalRecords returns every record of the user ordered by exercise.
func (s *WorkoutService) ListPersonalRecords(ctx context.Context, userID string) ([]PersonalRecord, error) {
	return s.repo.ListPersonalRecords(ctx, userID)
}

// GetPersonalRecord returns the record for one exercise.
func (s *WorkoutService) GetPersonalRecord(ctx context.Context, userID, exercise string) (*PersonalRecord, error) {
	record, err := s.repo.GetPersonalRecord(ctx, userID, s.canonicalExercise(exercise))
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	return record, nil
}

func (s *WorkoutService) canonicalExercise(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}
	if s.catalog != nil {
		if canonical, ok := s.catalog.CanonicalExercise(name); ok {
			return canonical
		}
	}
	return titleWords(name)
}

// titleWords upper-cases the first rune of every word and lower-cases the rest,
// so uncatalogued exercises key their records the same way regardless of input case.
func titleWords(name string) string {
	words := strings.Fields(strings.ToLower(name))
	for i, w := range words {
		first, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(first)) + w[size:]
	}
	return strings.Join(words, " ")
}

func nextSetNumber(sets []WorkoutSet, exercise string) int {
	highest := 0
	for _, set := range sets {
		if strings.EqualFold(set.Exercise, exercise) && set.SetNumber > highest {
			highest = set.SetNumber
		}
	}
	return highest + 1
}
