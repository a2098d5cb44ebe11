package domain

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// PlanSource records whether a plan came from the model or the static defaults.
type PlanSource string

const (
	PlanGenerated PlanSource = "generated"
	PlanFallback  PlanSource = "fallback"
)

const (
	defaultPlanDays    = 7
	maxPlanDays        = 7
	defaultMealsPerDay = 3
	maxMealsPerDay     = 6
)

// MealPlan is a stored multi-day plan.
type MealPlan struct {
	ID          string
	UserID      string
	Title       string
	Days        []PlanDay
	Targets     Macros
	MealsPerDay int
	DietType    string
	Source      PlanSource
	Model       string
	Notes       string
	CreatedAt   time.Time
}

// PlanDay is one day of a plan.
type PlanDay struct {
	Day   string
	Meals []PlannedMeal
}

// PlannedMeal is one meal with its foods and per-meal target.
type PlannedMeal struct {
	Name   string
	Foods  []PlannedFood
	Target Macros
}

// PlannedFood is a suggested food. PortionRatio is the share (0-100) of the meal's target it covers.
type PlannedFood struct {
	Name         string
	Portion      string
	PortionRatio float64
	Macros       Macros
}

// Totals sums the foods of a planned meal.
func (m PlannedMeal) Totals() Macros {
	var total Macros
	for _, food := range m.Foods {
		total = total.Add(food.Macros)
	}
	return total.Rounded()
}

// MealPlanRequest is the input to a generation.
type MealPlanRequest struct {
	UserID      string
	Days        int
	MealsPerDay int
	DietType    string
	Allergies   []string
	Preferences string
	Targets     Macros
}

// MealPlanGenerator turns a request into a plan. Implementations substitute a
// fallback plan on upstream failure and only error when ctx ends.
type MealPlanGenerator interface {
	Generate(ctx context.Context, req MealPlanRequest) (MealPlan, error)
}

// MealPlanRepository captures persistence for meal plans.
type MealPlanRepository interface {
	CreateMealPlan(ctx context.Context, plan MealPlan) error
	GetMealPlan(ctx context.Context, userID, planID string) (*MealPlan, error)
	ListMealPlans(ctx context.Context, userID string, cursor *Cursor, limit int) ([]MealPlan, *Cursor, error)
	DeleteMealPlan(ctx context.Context, userID, planID string) (bool, error)
}

// MealPlanService generates and stores meal plans.
type MealPlanService struct {
	plans     MealPlanRepository
	goals     GoalsRepository
	generator MealPlanGenerator
	now       func() time.Time
}

// NewMealPlanService constructs a MealPlanService.
func NewMealPlanService(plans MealPlanRepository, goals GoalsRepository, generator MealPlanGenerator) *MealPlanService {
	return &MealPlanService{plans: plans, goals: goals, generator: generator, now: time.Now}
}

// GenerateMealPlan fills in defaults, asks the generator for a plan and stores it.
// Fallback plans are stored too so the client always has something to show.
func (s *MealPlanService) GenerateMealPlan(ctx context.Context, req MealPlanRequest) (*MealPlan, error) {
	normalized, err := s.normalizeRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	plan, err := s.generator.Generate(ctx, normalized)
	if err != nil {
		return nil, err
	}

	plan.ID = uuid.NewString()
	plan.UserID = normalized.UserID
	plan.CreatedAt = s.now().UTC()
	plan.MealsPerDay = normalized.MealsPerDay
	plan.DietType = normalized.DietType
	if plan.Targets.IsZero() {
		plan.Targets = normalized.Targets
	}
	if strings.TrimSpace(plan.Title) == "" {
		plan.Title = defaultPlanTitle(normalized)
	}

	if err := s.plans.CreateMealPlan(ctx, plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *MealPlanService) normalizeRequest(ctx context.Context, req MealPlanRequest) (MealPlanRequest, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return req, invalid("user_id", "is required")
	}
	if req.Days == 0 {
		req.Days = defaultPlanDays
	}
	if req.Days < 1 || req.Days > maxPlanDays {
		return req, invalid("days", "must be between 1 and 7")
	}
	if req.MealsPerDay == 0 {
		req.MealsPerDay = defaultMealsPerDay
	}
	if req.MealsPerDay < 1 || req.MealsPerDay > maxMealsPerDay {
		return req, invalid("meals_per_day", "must be between 1 and 6")
	}
	if len(req.Preferences) > 1000 {
		return req, invalid("preferences", "must be at most 1000 characters")
	}
	if err := req.Targets.validate("targets."); err != nil {
		return req, err
	}

	req.DietType = strings.ToLower(strings.TrimSpace(req.DietType))
	req.Allergies = normalizeStrings(req.Allergies)

	if req.Targets.IsZero() {
		goals, err := s.goals.GetGoals(ctx, req.UserID)
		if err != nil {
			return req, err
		}
		if goals != nil {
			req.Targets = goals.Macros()
		} else {
			req.Targets = DefaultMacroTargets
		}
	}
	return req, nil
}

// GetMealPlan fetches a stored plan.
func (s *MealPlanService) GetMealPlan(ctx context.Context, userID, planID string) (*MealPlan, error) {
	plan, err := s.plans.GetMealPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrMealPlanNotFound
	}
	return plan, nil
}

// ListMealPlans pages through plans newest first.
func (s *MealPlanService) ListMealPlans(ctx context.Context, userID string, cursor *Cursor, limit int) ([]MealPlan, *Cursor, error) {
	return s.plans.ListMealPlans(ctx, userID, cursor, ClampLimit(limit))
}

// DeleteMealPlan removes a plan.
func (s *MealPlanService) DeleteMealPlan(ctx context.Context, userID, planID string) error {
	deleted, err := s.plans.DeleteMealPlan(ctx, userID, planID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMealPlanNotFound
	}
	return nil
}

func defaultPlanTitle(req MealPlanRequest) string {
	title := "Meal plan"
	if req.DietType != "" {
		first, size := utf8.DecodeRuneInString(req.DietType)
		title = string(unicode.ToUpper(first)) + req.DietType[size:] + " meal plan"
	}
	if req.Days == 1 {
		return title + " (1 day)"
	}
	return title + " (" + strconv.Itoa(req.Days) + " days)"
}

func normalizeStrings(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
