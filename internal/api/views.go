package api

import (
	"time"

	"example.com/fittrack/internal/catalog"
	"example.com/fittrack/internal/domain"
	"example.com/fittrack/internal/session"
)

// MacrosView is the wire form of domain.Macros.
type MacrosView struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

func toMacrosView(m domain.Macros) MacrosView {
	return MacrosView{Calories: m.Calories, Protein: m.Protein, Carbs: m.Carbs, Fat: m.Fat}
}

func (m MacrosView) toDomain() domain.Macros {
	return domain.Macros{Calories: m.Calories, Protein: m.Protein, Carbs: m.Carbs, Fat: m.Fat}
}

// SessionView answers GET /v1/session.
type SessionView struct {
	UserID        string     `json:"user_id"`
	Authenticated bool       `json:"authenticated"`
	ExpiresAt     time.Time  `json:"expires_at"`
	DisplayName   string     `json:"display_name,omitempty"`
	MemberSince   *time.Time `json:"member_since,omitempty"`
}

func toSessionView(s session.Session) SessionView {
	view := SessionView{UserID: s.UserID, Authenticated: s.Authenticated, ExpiresAt: s.ExpiresAt}
	if s.Profile != nil {
		view.DisplayName = s.Profile.DisplayName
		created := s.Profile.CreatedAt
		view.MemberSince = &created
	}
	return view
}

// StartWorkoutRequest is the payload for POST /v1/workouts.
type StartWorkoutRequest struct {
	Name      string    `json:"name"`
	Notes     string    `json:"notes"`
	StartedAt time.Time `json:"started_at"`
}

// FinishWorkoutRequest is the optional payload for POST /v1/workouts/{id}/finish.
type FinishWorkoutRequest struct {
	EndedAt time.Time `json:"ended_at"`
}

// AddSetRequest is the payload for POST /v1/workouts/{id}/sets.
type AddSetRequest struct {
	Exercise    string    `json:"exercise"`
	SetNumber   int       `json:"set_number"`
	Reps        int       `json:"reps"`
	WeightKg    float64   `json:"weight_kg"`
	CompletedAt time.Time `json:"completed_at"`
}

// SetView exposes a logged set.
type SetView struct {
	SetID       string    `json:"set_id"`
	SessionID   string    `json:"session_id"`
	Exercise    string    `json:"exercise"`
	SetNumber   int       `json:"set_number"`
	Reps        int       `json:"reps"`
	WeightKg    float64   `json:"weight_kg"`
	CompletedAt time.Time `json:"completed_at"`
}

func toSetView(s domain.WorkoutSet) SetView {
	return SetView{
		SetID:       s.ID,
		SessionID:   s.SessionID,
		Exercise:    s.Exercise,
		SetNumber:   s.SetNumber,
		Reps:        s.Reps,
		WeightKg:    s.WeightKg,
		CompletedAt: s.CompletedAt,
	}
}

// WorkoutView exposes a session. Sets is omitted in list responses.
type WorkoutView struct {
	SessionID   string     `json:"session_id"`
	Name        string     `json:"name"`
	Notes       string     `json:"notes,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	Finished    bool       `json:"finished"`
	SetCount    int        `json:"set_count"`
	VolumeKg    float64    `json:"volume_kg"`
	DurationSec int64      `json:"duration_sec"`
	Sets        []SetView  `json:"sets,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toWorkoutView(s domain.WorkoutSession, withSets bool) WorkoutView {
	view := WorkoutView{
		SessionID:   s.ID,
		Name:        s.Name,
		Notes:       s.Notes,
		StartedAt:   s.StartedAt,
		EndedAt:     s.EndedAt,
		Finished:    s.Finished(),
		SetCount:    s.SetCount,
		VolumeKg:    s.VolumeKg(),
		DurationSec: int64(s.Duration().Seconds()),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if view.SetCount < len(s.Sets) {
		view.SetCount = len(s.Sets)
	}
	if withSets {
		view.Sets = make([]SetView, 0, len(s.Sets))
		for _, set := range s.Sets {
			view.Sets = append(view.Sets, toSetView(set))
		}
	}
	return view
}

// RecordView exposes a personal record.
type RecordView struct {
	Exercise           string    `json:"exercise"`
	WeightKg           float64   `json:"weight_kg"`
	Reps               int       `json:"reps"`
	EstimatedOneRepMax float64   `json:"estimated_one_rep_max"`
	SessionID          string    `json:"session_id"`
	SetID              string    `json:"set_id"`
	AchievedAt         time.Time `json:"achieved_at"`
	PreviousWeightKg   float64   `json:"previous_weight_kg,omitempty"`
}

func toRecordView(r domain.PersonalRecord) RecordView {
	return RecordView{
		Exercise:           r.Exercise,
		WeightKg:           r.WeightKg,
		Reps:               r.Reps,
		EstimatedOneRepMax: r.EstimatedOneRepMax,
		SessionID:          r.SessionID,
		SetID:              r.SetID,
		AchievedAt:         r.AchievedAt,
		PreviousWeightKg:   r.PreviousWeightKg,
	}
}

// AddSetResponse reports the stored set and, when one was set, the new record.
type AddSetResponse struct {
	Set            SetView     `json:"set"`
	PersonalRecord *RecordView `json:"personal_record,omitempty"`
}

// LogWeightRequest is the payload for POST /v1/body-weight.
type LogWeightRequest struct {
	WeightKg   float64   `json:"weight_kg"`
	MeasuredAt time.Time `json:"measured_at"`
	Note       string    `json:"note"`
}

// WeightView exposes a weigh-in.
type WeightView struct {
	EntryID    string    `json:"entry_id"`
	WeightKg   float64   `json:"weight_kg"`
	MeasuredAt time.Time `json:"measured_at"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toWeightView(e domain.WeightEntry) WeightView {
	return WeightView{EntryID: e.ID, WeightKg: e.WeightKg, MeasuredAt: e.MeasuredAt, Note: e.Note, CreatedAt: e.CreatedAt}
}

// TrendView summarises a weight window.
type TrendView struct {
	WindowDays   int         `json:"window_days"`
	Count        int         `json:"count"`
	Earliest     *WeightView `json:"earliest,omitempty"`
	Latest       *WeightView `json:"latest,omitempty"`
	AverageKg    float64     `json:"average_kg"`
	ChangeKg     float64     `json:"change_kg"`
	WeeklyRateKg float64     `json:"weekly_rate_kg"`
}

func toTrendView(t domain.WeightTrend) TrendView {
	view := TrendView{
		WindowDays:   int(t.Window.Hours() / 24),
		Count:        t.Count,
		AverageKg:    t.AverageKg,
		ChangeKg:     t.ChangeKg,
		WeeklyRateKg: t.WeeklyRateKg,
	}
	if t.Earliest != nil {
		v := toWeightView(*t.Earliest)
		view.Earliest = &v
	}
	if t.Latest != nil {
		v := toWeightView(*t.Latest)
		view.Latest = &v
	}
	return view
}

// LogFoodRequest is the payload for POST /v1/food. Omitting macros asks the
// server to estimate them from the name and serving size.
type LogFoodRequest struct {
	Name        string      `json:"name"`
	MealType    string      `json:"meal_type"`
	ServingSize string      `json:"serving_size"`
	Servings    float64     `json:"servings"`
	Macros      *MacrosView `json:"macros"`
	LoggedAt    time.Time   `json:"logged_at"`
}

// FoodView exposes a food entry.
type FoodView struct {
	EntryID     string     `json:"entry_id"`
	Name        string     `json:"name"`
	MealType    string     `json:"meal_type"`
	ServingSize string     `json:"serving_size,omitempty"`
	Servings    float64    `json:"servings"`
	Macros      MacrosView `json:"macros"`
	Source      string     `json:"source"`
	LoggedAt    time.Time  `json:"logged_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toFoodView(e domain.FoodEntry) FoodView {
	return FoodView{
		EntryID:     e.ID,
		Name:        e.Name,
		MealType:    string(e.MealType),
		ServingSize: e.ServingSize,
		Servings:    e.Servings,
		Macros:      toMacrosView(e.Macros),
		Source:      string(e.Source),
		LoggedAt:    e.LoggedAt,
		CreatedAt:   e.CreatedAt,
	}
}

func toFoodViews(entries []domain.FoodEntry) []FoodView {
	out := make([]FoodView, 0, len(entries))
	for _, e := range entries {
		out = append(out, toFoodView(e))
	}
	return out
}

// EstimateRequest is the payload for POST /v1/food/estimate.
type EstimateRequest struct {
	Description string `json:"description"`
}

// EstimateView is the nutrition estimate for a description.
type EstimateView struct {
	Description string     `json:"description"`
	ServingSize string     `json:"serving_size,omitempty"`
	Macros      MacrosView `json:"macros"`
	Source      string     `json:"source"`
	Notes       string     `json:"notes,omitempty"`
}

// NewEstimateView converts an estimate for output.
func NewEstimateView(e domain.NutritionEstimate) EstimateView {
	return EstimateView{
		Description: e.Description,
		ServingSize: e.ServingSize,
		Macros:      toMacrosView(e.Macros),
		Source:      string(e.Source),
		Notes:       e.Notes,
	}
}

// GoalsView is both the payload for PUT /v1/goals and its response.
type GoalsView struct {
	Calories  float64    `json:"calories"`
	Protein   float64    `json:"protein"`
	Carbs     float64    `json:"carbs"`
	Fat       float64    `json:"fat"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func toGoalsView(g domain.MacroGoals) GoalsView {
	updated := g.UpdatedAt
	return GoalsView{Calories: g.Calories, Protein: g.Protein, Carbs: g.Carbs, Fat: g.Fat, UpdatedAt: &updated}
}

// SummaryView compares a day's intake with the goals.
type SummaryView struct {
	Date      string                `json:"date"`
	Consumed  MacrosView            `json:"consumed"`
	Goals     *GoalsView            `json:"goals,omitempty"`
	Remaining *MacrosView           `json:"remaining,omitempty"`
	ByMeal    map[string]MacrosView `json:"by_meal"`
	Entries   []FoodView            `json:"entries"`
}

func toSummaryView(s domain.DailySummary) SummaryView {
	view := SummaryView{
		Date:     s.Date,
		Consumed: toMacrosView(s.Consumed),
		ByMeal:   make(map[string]MacrosView, len(s.ByMeal)),
		Entries:  toFoodViews(s.Entries),
	}
	if s.Goals != nil {
		g := toGoalsView(*s.Goals)
		view.Goals = &g
	}
	if s.Remaining != nil {
		r := toMacrosView(*s.Remaining)
		view.Remaining = &r
	}
	for meal, totals := range s.ByMeal {
		view.ByMeal[string(meal)] = toMacrosView(totals)
	}
	return view
}

// DayTotalView is one day of projected history.
type DayTotalView struct {
	Date       string     `json:"date"`
	Macros     MacrosView `json:"macros"`
	EntryCount int        `json:"entry_count"`
}

// GenerateMealPlanRequest is the payload for POST /v1/meal-plans.
type GenerateMealPlanRequest struct {
	Days        int         `json:"days"`
	MealsPerDay int         `json:"meals_per_day"`
	DietType    string      `json:"diet_type"`
	Allergies   []string    `json:"allergies"`
	Preferences string      `json:"preferences"`
	Targets     *MacrosView `json:"targets"`
}

// PlannedFoodView is a suggested food.
type PlannedFoodView struct {
	Name         string     `json:"name"`
	Portion      string     `json:"portion"`
	PortionRatio float64    `json:"portion_ratio"`
	Macros       MacrosView `json:"macros"`
}

// PlannedMealView is one meal of a plan day.
type PlannedMealView struct {
	Name   string            `json:"name"`
	Target MacrosView        `json:"target"`
	Totals MacrosView        `json:"totals"`
	Foods  []PlannedFoodView `json:"foods"`
}

// PlanDayView is one day of a plan.
type PlanDayView struct {
	Day   string            `json:"day"`
	Meals []PlannedMealView `json:"meals"`
}

// MealPlanView exposes a stored plan. Days is omitted in list responses.
type MealPlanView struct {
	PlanID      string        `json:"plan_id"`
	Title       string        `json:"title"`
	Targets     MacrosView    `json:"targets"`
	MealsPerDay int           `json:"meals_per_day"`
	DietType    string        `json:"diet_type,omitempty"`
	Source      string        `json:"source"`
	Model       string        `json:"model,omitempty"`
	Notes       string        `json:"notes,omitempty"`
	DayCount    int           `json:"day_count"`
	Days        []PlanDayView `json:"days,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// NewMealPlanView converts a plan; withDays includes the full day breakdown.
func NewMealPlanView(p domain.MealPlan, withDays bool) MealPlanView {
	view := MealPlanView{
		PlanID:      p.ID,
		Title:       p.Title,
		Targets:     toMacrosView(p.Targets),
		MealsPerDay: p.MealsPerDay,
		DietType:    p.DietType,
		Source:      string(p.Source),
		Model:       p.Model,
		Notes:       p.Notes,
		DayCount:    len(p.Days),
		CreatedAt:   p.CreatedAt,
	}
	if !withDays {
		return view
	}
	view.Days = make([]PlanDayView, 0, len(p.Days))
	for _, day := range p.Days {
		dv := PlanDayView{Day: day.Day, Meals: make([]PlannedMealView, 0, len(day.Meals))}
		for _, meal := range day.Meals {
			mv := PlannedMealView{
				Name:   meal.Name,
				Target: toMacrosView(meal.Target),
				Totals: toMacrosView(meal.Totals()),
				Foods:  make([]PlannedFoodView, 0, len(meal.Foods)),
			}
			for _, food := range meal.Foods {
				mv.Foods = append(mv.Foods, PlannedFoodView{
					Name:         food.Name,
					Portion:      food.Portion,
					PortionRatio: food.PortionRatio,
					Macros:       toMacrosView(food.Macros),
				})
			}
			dv.Meals = append(dv.Meals, mv)
		}
		view.Days = append(view.Days, dv)
	}
	return view
}

// ListResponse packages paginated results.
type ListResponse[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// ExerciseView exposes a reference exercise.
type ExerciseView struct {
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Muscles   []string `json:"muscles"`
	Equipment string   `json:"equipment"`
}

// NewExerciseView converts a catalog exercise.
func NewExerciseView(e catalog.Exercise) ExerciseView {
	return ExerciseView{Name: e.Name, Category: string(e.Category), Muscles: e.Muscles, Equipment: e.Equipment}
}

// ServingView exposes a reference serving.
type ServingView struct {
	Name        string     `json:"name"`
	ServingSize string     `json:"serving_size"`
	Grams       float64    `json:"grams"`
	Macros      MacrosView `json:"macros"`
}

// NewServingView converts a catalog serving.
func NewServingView(s catalog.Serving) ServingView {
	return ServingView{Name: s.Name, ServingSize: s.ServingSize, Grams: s.Grams, Macros: toMacrosView(s.Macros)}
}
