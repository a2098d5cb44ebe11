package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MealType buckets food entries within a day.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// ParseMealType normalises a meal type; empty input maps to snack.
func ParseMealType(value string) (MealType, error) {
	switch MealType(strings.ToLower(strings.TrimSpace(value))) {
	case MealBreakfast:
		return MealBreakfast, nil
	case MealLunch:
		return MealLunch, nil
	case MealDinner:
		return MealDinner, nil
	case MealSnack, "":
		return MealSnack, nil
	}
	return "", invalid("meal_type", "must be one of breakfast, lunch, dinner, snack")
}

// NutritionSource records where an entry's numbers came from.
type NutritionSource string

const (
	SourceManual    NutritionSource = "manual"
	SourceEstimated NutritionSource = "estimated"
	SourceReference NutritionSource = "reference"
	SourceFallback  NutritionSource = "fallback"
)

// FoodEntry is one logged food item.
type FoodEntry struct {
	ID          string
	UserID      string
	Name        string
	MealType    MealType
	ServingSize string
	Servings    float64
	Macros      Macros
	Source      NutritionSource
	LoggedAt    time.Time
	CreatedAt   time.Time
}

// MacroGoals are the user's daily targets.
type MacroGoals struct {
	UserID    string
	Calories  float64
	Protein   float64
	Carbs     float64
	Fat       float64
	UpdatedAt time.Time
}

// Macros returns the goals as a Macros value.
func (g MacroGoals) Macros() Macros {
	return Macros{Calories: g.Calories, Protein: g.Protein, Carbs: g.Carbs, Fat: g.Fat}
}

// NutritionEstimate is the answer to "what is in this food".
type NutritionEstimate struct {
	Description string
	ServingSize string
	Macros      Macros
	Source      NutritionSource
	Notes       string
}

// NutritionEstimator estimates the macros of a free-text food description. It
// substitutes a default estimate on upstream failure and only errors when ctx ends.
type NutritionEstimator interface {
	Estimate(ctx context.Context, description string) (NutritionEstimate, error)
}

// DailyTotal is one projected day of nutrition history.
type DailyTotal struct {
	Day        string
	Macros     Macros
	EntryCount int
}

// DailySummary compares a day's intake with the user's goals.
type DailySummary struct {
	Date      string
	Consumed  Macros
	Goals     *MacroGoals
	Remaining *Macros
	ByMeal    map[MealType]Macros
	Entries   []FoodEntry
}

// FoodRepository captures persistence for food entries.
type FoodRepository interface {
	CreateFood(ctx context.Context, entry FoodEntry) error
	GetFood(ctx context.Context, userID, entryID string) (*FoodEntry, error)
	// FoodBetween returns entries with from <= logged_at < to, oldest first.
	FoodBetween(ctx context.Context, userID string, from, to time.Time) ([]FoodEntry, error)
	// DeleteFood removes the entry and records a food.deleted event. It returns
	// nil, nil when the entry does not exist.
	DeleteFood(ctx context.Context, userID, entryID string) (*FoodEntry, error)
	DailyTotals(ctx context.Context, userID string, from, to time.Time) ([]DailyTotal, error)
}

// GoalsRepository captures persistence for macro goals.
type GoalsRepository interface {
	GetGoals(ctx context.Context, userID string) (*MacroGoals, error)
	UpsertGoals(ctx context.Context, goals MacroGoals) error
}

// NutritionService orchestrates food logging, goals and summaries.
type NutritionService struct {
	foods     FoodRepository
	goals     GoalsRepository
	estimator NutritionEstimator
	now       func() time.Time
}

// NewNutritionService constructs a NutritionService.
func NewNutritionService(foods FoodRepository, goals GoalsRepository, estimator NutritionEstimator) *NutritionService {
	return &NutritionService{foods: foods, goals: goals, estimator: estimator, now: time.Now}
}

// LogFoodInput captures a food entry. A nil Macros asks for an estimate.
type LogFoodInput struct {
	UserID      string
	Name        string
	MealType    string
	ServingSize string
	Servings    float64
	Macros      *Macros
	LoggedAt    time.Time
}

// LogFood stores a food entry, estimating its macros when none were supplied.
func (s *NutritionService) LogFood(ctx context.Context, input LogFoodInput) (*FoodEntry, error) {
	name := strings.TrimSpace(input.Name)
	if strings.TrimSpace(input.UserID) == "" {
		return nil, invalid("user_id", "is required")
	}
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if len(name) > 200 {
		return nil, invalid("name", "must be at most 200 characters")
	}
	mealType, err := ParseMealType(input.MealType)
	if err != nil {
		return nil, err
	}
	servings := input.Servings
	if servings == 0 {
		servings = 1
	}
	if servings < 0 || servings > 100 {
		return nil, invalid("servings", "must be between 0 and 100")
	}

	now := s.now().UTC()
	loggedAt := input.LoggedAt.UTC()
	if input.LoggedAt.IsZero() {
		loggedAt = now
	}

	entry := FoodEntry{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		Name:        name,
		MealType:    mealType,
		ServingSize: strings.TrimSpace(input.ServingSize),
		Servings:    servings,
		LoggedAt:    loggedAt,
		CreatedAt:   now,
	}

	if input.Macros != nil {
		if err := input.Macros.validate(""); err != nil {
			return nil, err
		}
		entry.Macros = input.Macros.Rounded()
		entry.Source = SourceManual
	} else {
		if s.estimator == nil {
			return nil, invalid("macros", "are required")
		}
		estimate, err := s.estimator.Estimate(ctx, describeFood(entry))
		if err != nil {
			return nil, err
		}
		entry.Macros = estimate.Macros.Scale(servings).Rounded()
		entry.Source = estimate.Source
		if entry.ServingSize == "" {
			entry.ServingSize = estimate.ServingSize
		}
	}

	if err := s.foods.CreateFood(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetFood fetches a single entry.
func (s *NutritionService) GetFood(ctx context.Context, userID, entryID string) (*FoodEntry, error) {
	entry, err := s.foods.GetFood(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrFoodEntryNotFound
	}
	return entry, nil
}

// ListFoodByDay returns the entries logged on the calendar day containing day, in day's location.
func (s *NutritionService) ListFoodByDay(ctx context.Context, userID string, day time.Time) ([]FoodEntry, error) {
	from, to := DayBounds(day)
	return s.foods.FoodBetween(ctx, userID, from, to)
}

// DeleteFood removes an entry.
func (s *NutritionService) DeleteFood(ctx context.Context, userID, entryID string) error {
	deleted, err := s.foods.DeleteFood(ctx, userID, entryID)
	if err != nil {
		return err
	}
	if deleted == nil {
		return ErrFoodEntryNotFound
	}
	return nil
}

// EstimateNutrition estimates a free-text description without storing anything.
func (s *NutritionService) EstimateNutrition(ctx context.Context, description string) (NutritionEstimate, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return NutritionEstimate{}, invalid("description", "is required")
	}
	if len(description) > 500 {
		return NutritionEstimate{}, invalid("description", "must be at most 500 characters")
	}
	if s.estimator == nil {
		return NutritionEstimate{}, fmt.Errorf("nutrition estimator not configured")
	}
	return s.estimator.Estimate(ctx, description)
}

// SetGoals validates and upserts the user's macro goals.
func (s *NutritionService) SetGoals(ctx context.Context, goals MacroGoals) (*MacroGoals, error) {
	if strings.TrimSpace(goals.UserID) == "" {
		return nil, invalid("user_id", "is required")
	}
	if err := goals.Macros().validate(""); err != nil {
		return nil, err
	}
	if goals.Calories <= 0 || goals.Calories > 10000 {
		return nil, invalid("calories", "must be between 1 and 10000")
	}
	goals.UpdatedAt = s.now().UTC()
	if err := s.goals.UpsertGoals(ctx, goals); err != nil {
		return nil, err
	}
	return &goals, nil
}

// GetGoals returns the user's macro goals.
func (s *NutritionService) GetGoals(ctx context.Context, userID string) (*MacroGoals, error) {
	goals, err := s.goals.GetGoals(ctx, userID)
	if err != nil {
		return nil, err
	}
	if goals == nil {
		return nil, ErrGoalsNotFound
	}
	return goals, nil
}

// DailySummary totals the day's entries and compares them with the goals.
func (s *NutritionService) DailySummary(ctx context.Context, userID string, day time.Time) (*DailySummary, error) {
	entries, err := s.ListFoodByDay(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	goals, err := s.goals.GetGoals(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &DailySummary{
		Date:    day.Format(time.DateOnly),
		Goals:   goals,
		ByMeal:  make(map[MealType]Macros),
		Entries: entries,
	}
	for _, entry := range entries {
		summary.Consumed = summary.Consumed.Add(entry.Macros)
		summary.ByMeal[entry.MealType] = summary.ByMeal[entry.MealType].Add(entry.Macros)
	}
	summary.Consumed = summary.Consumed.Rounded()
	for meal, totals := range summary.ByMeal {
		summary.ByMeal[meal] = totals.Rounded()
	}
	if goals != nil {
		remaining := goals.Macros().Sub(summary.Consumed).Rounded()
		summary.Remaining = &remaining
	}
	return summary, nil
}

// History returns projected per-day totals for days in [from, to].
func (s *NutritionService) History(ctx context.Context, userID string, from, to time.Time) ([]DailyTotal, error) {
	if to.Before(from) {
		return nil, invalid("to", "must not be before from")
	}
	if to.Sub(from) > 366*24*time.Hour {
		return nil, invalid("range", "must be at most one year")
	}
	start, _ := DayBounds(from)
	_, end := DayBounds(to)
	return s.foods.DailyTotals(ctx, userID, start, end)
}

// DayBounds returns the start of day's calendar day and the start of the next, in day's location.
func DayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

func describeFood(entry FoodEntry) string {
	if entry.ServingSize == "" {
		return entry.Name
	}
	return entry.ServingSize + " " + entry.Name
}
