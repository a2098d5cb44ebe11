package domain

import (
	"context"
	"sort"
	"strings"
	"time"
)

type memWorkouts struct {
	sessions map[string]*WorkoutSession
	records  map[string]PersonalRecord
	finished int
}

func newMemWorkouts() *memWorkouts {
	return &memWorkouts{sessions: map[string]*WorkoutSession{}, records: map[string]PersonalRecord{}}
}

func (m *memWorkouts) CreateSession(_ context.Context, s WorkoutSession) error {
	m.sessions[s.ID] = &s
	return nil
}

func (m *memWorkouts) GetSession(_ context.Context, userID, id string) (*WorkoutSession, error) {
	s, ok := m.sessions[id]
	if !ok || s.UserID != userID {
		return nil, nil
	}
	cp := *s
	cp.Sets = append([]WorkoutSet(nil), s.Sets...)
	return &cp, nil
}

func (m *memWorkouts) ListSessions(_ context.Context, userID string, _ *Cursor, limit int) ([]WorkoutSession, *Cursor, error) {
	var out []WorkoutSession
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil, nil
}

func (m *memWorkouts) FinishSession(_ context.Context, s WorkoutSession) error {
	m.finished++
	m.sessions[s.ID].EndedAt = s.EndedAt
	return nil
}

func (m *memWorkouts) DeleteSession(_ context.Context, userID, id string) (bool, error) {
	s, ok := m.sessions[id]
	if !ok || s.UserID != userID {
		return false, nil
	}
	delete(m.sessions, id)
	return true, nil
}

func (m *memWorkouts) AddSet(_ context.Context, set WorkoutSet, record *PersonalRecord) error {
	s, ok := m.sessions[set.SessionID]
	if !ok || s.UserID != set.UserID {
		return ErrWorkoutNotFound
	}
	if s.Finished() {
		return ErrSessionFinished
	}
	s.Sets = append(s.Sets, set)
	if record != nil {
		m.records[set.UserID+"|"+strings.ToLower(record.Exercise)] = *record
	}
	return nil
}

func (m *memWorkouts) DeleteSet(_ context.Context, userID, sessionID, setID string) (bool, error) {
	s, ok := m.sessions[sessionID]
	if !ok || s.UserID != userID {
		return false, nil
	}
	for i, set := range s.Sets {
		if set.ID == setID {
			s.Sets = append(s.Sets[:i], s.Sets[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memWorkouts) GetPersonalRecord(_ context.Context, userID, exercise string) (*PersonalRecord, error) {
	r, ok := m.records[userID+"|"+strings.ToLower(exercise)]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memWorkouts) ListPersonalRecords(_ context.Context, userID string) ([]PersonalRecord, error) {
	var out []PersonalRecord
	for _, r := range m.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

type memWeights struct {
	entries []WeightEntry
}

func (m *memWeights) CreateWeight(_ context.Context, e WeightEntry) error {
	m.entries = append(m.entries, e)
	return nil
}

func (m *memWeights) ListWeights(_ context.Context, userID string, _ *Cursor, limit int) ([]WeightEntry, *Cursor, error) {
	return m.entries, nil, nil
}

func (m *memWeights) DeleteWeight(_ context.Context, userID, id string) (bool, error) {
	for i, e := range m.entries {
		if e.ID == id && e.UserID == userID {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memWeights) WeightsBetween(_ context.Context, userID string, from, to time.Time) ([]WeightEntry, error) {
	var out []WeightEntry
	for _, e := range m.entries {
		if e.UserID == userID && !e.MeasuredAt.Before(from) && e.MeasuredAt.Before(to) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MeasuredAt.Before(out[j].MeasuredAt) })
	return out, nil
}

type memFoods struct {
	entries []FoodEntry
	goals   map[string]MacroGoals
	totals  []DailyTotal
}

func newMemFoods() *memFoods {
	return &memFoods{goals: map[string]MacroGoals{}}
}

func (m *memFoods) CreateFood(_ context.Context, e FoodEntry) error {
	m.entries = append(m.entries, e)
	return nil
}

func (m *memFoods) GetFood(_ context.Context, userID, id string) (*FoodEntry, error) {
	for _, e := range m.entries {
		if e.ID == id && e.UserID == userID {
			cp := e
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memFoods) FoodBetween(_ context.Context, userID string, from, to time.Time) ([]FoodEntry, error) {
	var out []FoodEntry
	for _, e := range m.entries {
		if e.UserID == userID && !e.LoggedAt.Before(from) && e.LoggedAt.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memFoods) DeleteFood(_ context.Context, userID, id string) (*FoodEntry, error) {
	for i, e := range m.entries {
		if e.ID == id && e.UserID == userID {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return &e, nil
		}
	}
	return nil, nil
}

func (m *memFoods) DailyTotals(_ context.Context, _ string, _, _ time.Time) ([]DailyTotal, error) {
	return m.totals, nil
}

func (m *memFoods) GetGoals(_ context.Context, userID string) (*MacroGoals, error) {
	g, ok := m.goals[userID]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (m *memFoods) UpsertGoals(_ context.Context, g MacroGoals) error {
	m.goals[g.UserID] = g
	return nil
}

type stubEstimator struct {
	estimate NutritionEstimate
	calls    []string
}

func (s *stubEstimator) Estimate(_ context.Context, description string) (NutritionEstimate, error) {
	s.calls = append(s.calls, description)
	return s.estimate, nil
}

type stubCatalog map[string]string

func (c stubCatalog) CanonicalExercise(name string) (string, bool) {
	v, ok := c[strings.ToLower(name)]
	return v, ok
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
