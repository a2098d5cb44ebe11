package api

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"example.com/fittrack/internal/domain"
)

// memoryStore is an in-memory implementation of every repository the handlers reach.
type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]domain.WorkoutSession
	sets     map[string]domain.WorkoutSet
	records  map[string]domain.PersonalRecord
	weights  map[string]domain.WeightEntry
	foods    map[string]domain.FoodEntry
	goals    map[string]domain.MacroGoals
	plans    map[string]domain.MealPlan
	totals   map[string][]domain.DailyTotal
	block    bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		sessions: map[string]domain.WorkoutSession{},
		sets:     map[string]domain.WorkoutSet{},
		records:  map[string]domain.PersonalRecord{},
		weights:  map[string]domain.WeightEntry{},
		foods:    map[string]domain.FoodEntry{},
		goals:    map[string]domain.MacroGoals{},
		plans:    map[string]domain.MealPlan{},
		totals:   map[string][]domain.DailyTotal{},
	}
}

func recordKey(userID, exercise string) string { return userID + "|" + strings.ToLower(exercise) }

func (m *memoryStore) CreateSession(_ context.Context, s domain.WorkoutSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memoryStore) GetSession(_ context.Context, userID, sessionID string) (*domain.WorkoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok || s.UserID != userID {
		return nil, nil
	}
	s.Sets = nil
	for _, set := range m.sets {
		if set.SessionID == sessionID {
			s.Sets = append(s.Sets, set)
		}
	}
	sort.Slice(s.Sets, func(i, j int) bool { return s.Sets[i].CompletedAt.Before(s.Sets[j].CompletedAt) })
	s.SetCount = len(s.Sets)
	return &s, nil
}

func (m *memoryStore) ListSessions(_ context.Context, userID string, _ *domain.Cursor, limit int) ([]domain.WorkoutSession, *domain.Cursor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.WorkoutSession, 0)
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if len(out) > limit {
		last := out[limit-1]
		return out[:limit], &domain.Cursor{At: last.StartedAt, ID: last.ID}, nil
	}
	return out, nil, nil
}

func (m *memoryStore) FinishSession(_ context.Context, s domain.WorkoutSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.sessions[s.ID]
	if stored.EndedAt != nil {
		return domain.ErrSessionFinished
	}
	stored.EndedAt = s.EndedAt
	stored.UpdatedAt = s.UpdatedAt
	m.sessions[s.ID] = stored
	return nil
}

func (m *memoryStore) DeleteSession(_ context.Context, userID, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok || s.UserID != userID {
		return false, nil
	}
	delete(m.sessions, sessionID)
	for id, set := range m.sets {
		if set.SessionID == sessionID {
			delete(m.sets, id)
		}
	}
	return true, nil
}

func (m *memoryStore) AddSet(_ context.Context, set domain.WorkoutSet, record *domain.PersonalRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[set.ID] = set
	if record != nil {
		m.records[recordKey(record.UserID, record.Exercise)] = *record
	}
	return nil
}

func (m *memoryStore) DeleteSet(_ context.Context, userID, sessionID, setID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[setID]
	if !ok || set.UserID != userID || set.SessionID != sessionID {
		return false, nil
	}
	delete(m.sets, setID)
	return true, nil
}

func (m *memoryStore) GetPersonalRecord(_ context.Context, userID, exercise string) (*domain.PersonalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[recordKey(userID, exercise)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *memoryStore) ListPersonalRecords(_ context.Context, userID string) ([]domain.PersonalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.PersonalRecord, 0)
	for _, rec := range m.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Exercise < out[j].Exercise })
	return out, nil
}

func (m *memoryStore) CreateWeight(_ context.Context, e domain.WeightEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.weights[e.ID] = e
	return nil
}

func (m *memoryStore) ListWeights(ctx context.Context, userID string, _ *domain.Cursor, limit int) ([]domain.WeightEntry, *domain.Cursor, error) {
	entries, _ := m.WeightsBetween(ctx, userID, time.Time{}, time.Now().Add(24*time.Hour))
	sort.Slice(entries, func(i, j int) bool { return entries[i].MeasuredAt.After(entries[j].MeasuredAt) })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil, nil
}

func (m *memoryStore) DeleteWeight(_ context.Context, userID, entryID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.weights[entryID]
	if !ok || e.UserID != userID {
		return false, nil
	}
	delete(m.weights, entryID)
	return true, nil
}

func (m *memoryStore) WeightsBetween(_ context.Context, userID string, from, to time.Time) ([]domain.WeightEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.WeightEntry, 0)
	for _, e := range m.weights {
		if e.UserID == userID && !e.MeasuredAt.Before(from) && e.MeasuredAt.Before(to) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MeasuredAt.Before(out[j].MeasuredAt) })
	return out, nil
}

func (m *memoryStore) CreateFood(_ context.Context, e domain.FoodEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.foods[e.ID] = e
	return nil
}

func (m *memoryStore) GetFood(_ context.Context, userID, entryID string) (*domain.FoodEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.foods[entryID]
	if !ok || e.UserID != userID {
		return nil, nil
	}
	return &e, nil
}

func (m *memoryStore) FoodBetween(_ context.Context, userID string, from, to time.Time) ([]domain.FoodEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.FoodEntry, 0)
	for _, e := range m.foods {
		if e.UserID == userID && !e.LoggedAt.Before(from) && e.LoggedAt.Before(to) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LoggedAt.Before(out[j].LoggedAt) })
	return out, nil
}

func (m *memoryStore) DeleteFood(_ context.Context, userID, entryID string) (*domain.FoodEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.foods[entryID]
	if !ok || e.UserID != userID {
		return nil, nil
	}
	delete(m.foods, entryID)
	return &e, nil
}

func (m *memoryStore) DailyTotals(_ context.Context, userID string, _, _ time.Time) ([]domain.DailyTotal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.DailyTotal(nil), m.totals[userID]...), nil
}

func (m *memoryStore) GetGoals(_ context.Context, userID string) (*domain.MacroGoals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.goals[userID]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (m *memoryStore) UpsertGoals(_ context.Context, g domain.MacroGoals) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goals[g.UserID] = g
	return nil
}

func (m *memoryStore) CreateMealPlan(_ context.Context, p domain.MealPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[p.ID] = p
	return nil
}

func (m *memoryStore) GetMealPlan(_ context.Context, userID, planID string) (*domain.MealPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[planID]
	if !ok || p.UserID != userID {
		return nil, nil
	}
	return &p, nil
}

func (m *memoryStore) ListMealPlans(_ context.Context, userID string, _ *domain.Cursor, limit int) ([]domain.MealPlan, *domain.Cursor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.MealPlan, 0)
	for _, p := range m.plans {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil, nil
}

func (m *memoryStore) DeleteMealPlan(_ context.Context, userID, planID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[planID]
	if !ok || p.UserID != userID {
		return false, nil
	}
	delete(m.plans, planID)
	return true, nil
}

func (m *memoryStore) EnsureProfile(ctx context.Context, userID string, seenAt time.Time) (domain.Profile, error) {
	if m.block {
		<-ctx.Done()
		return domain.Profile{}, ctx.Err()
	}
	return domain.Profile{UserID: userID, CreatedAt: seenAt, LastSeenAt: seenAt}, nil
}
