// Package mealplan turns model replies into meal plans and nutrition estimates,
// substituting static defaults whenever the model cannot be used.
package mealplan

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"example.com/fittrack/internal/domain"
	"example.com/fittrack/internal/llm"
)

const plannerAgent = "meal_planner"

var errEmptyPlan = errors.New("model returned no usable days")

// Option configures a Planner or Estimator.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used to report fallbacks.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Planner implements domain.MealPlanGenerator over a TextGenerator.
type Planner struct {
	gen    llm.TextGenerator
	logger *zap.Logger
}

// NewPlanner builds a Planner. A nil generator always yields the fallback plan.
func NewPlanner(gen llm.TextGenerator, opts ...Option) *Planner {
	o := buildOptions(opts)
	return &Planner{gen: gen, logger: o.logger}
}

type rawPlan struct {
	Title string   `json:"title"`
	Days  []rawDay `json:"days"`
}

type rawDay struct {
	Day   string    `json:"day"`
	Meals []rawMeal `json:"meals"`
}

type rawMeal struct {
	Name  string    `json:"name"`
	Foods []rawFood `json:"foods"`
}

type rawFood struct {
	Name         string  `json:"name"`
	Portion      string  `json:"portion"`
	PortionRatio float64 `json:"portion_ratio"`
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein"`
	Carbs        float64 `json:"carbs"`
	Fat          float64 `json:"fat"`
}

// Generate asks the model for a plan. Upstream failures produce the fallback
// plan; only context cancellation is returned as an error.
func (p *Planner) Generate(ctx context.Context, req domain.MealPlanRequest) (domain.MealPlan, error) {
	if p.gen == nil {
		return p.fallback(req, "no model configured"), nil
	}

	prompt, err := buildMealPlanPrompt(req)
	if err != nil {
		return p.fallback(req, "prompt rendering failed"), nil
	}

	start := time.Now()
	resp, err := p.gen.GenerateContent(ctx, llm.Prompt{
		System:      systemPrompt,
		User:        prompt,
		MaxTokens:   8192,
		Temperature: 0.4,
		JSON:        true,
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.MealPlan{}, ctxErr
	}
	meta := AgentMeta{Agent: plannerAgent, Usage: resp.Usage, Latency: time.Since(start)}
	if err != nil {
		recordMeta(meta, "error")
		p.logger.Warn("meal plan generation failed", zap.Error(err))
		return p.fallback(req, describeFailure(err)), nil
	}

	var raw rawPlan
	if err := llm.DecodeJSON(resp.Content, &raw); err != nil {
		recordMeta(meta, "malformed")
		p.logger.Warn("meal plan reply was not valid json", zap.Error(err), zap.Int("reply_bytes", len(resp.Content)))
		return p.fallback(req, describeFailure(err)), nil
	}

	plan, err := normalizePlan(raw, req)
	if err != nil {
		recordMeta(meta, "empty")
		return p.fallback(req, describeFailure(err)), nil
	}
	recordMeta(meta, "ok")

	plan.Model = resp.Usage.Model
	p.logger.Info("meal plan generated",
		zap.Int("days", len(plan.Days)),
		zap.String("model", plan.Model),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("latency", meta.Latency))
	return plan, nil
}

func (p *Planner) fallback(req domain.MealPlanRequest, reason string) domain.MealPlan {
	llmFallbacks.WithLabelValues(plannerAgent, reason).Inc()
	p.logger.Info("serving fallback meal plan", zap.String("reason", reason))
	return FallbackPlan(req, reason)
}

// normalizePlan trims the model's plan to the requested shape and fills gaps from defaults.
func normalizePlan(raw rawPlan, req domain.MealPlanRequest) (domain.MealPlan, error) {
	target := perMealTarget(req.Targets, req.MealsPerDay)
	names := mealNames(req.MealsPerDay)

	days := make([]domain.PlanDay, 0, req.Days)
	for _, rd := range raw.Days {
		if len(days) == req.Days {
			break
		}
		day := domain.PlanDay{Day: strings.TrimSpace(rd.Day), Meals: make([]domain.PlannedMeal, 0, req.MealsPerDay)}
		if day.Day == "" {
			day.Day = dayLabel(len(days))
		}
		for _, rm := range rd.Meals {
			if len(day.Meals) == req.MealsPerDay {
				break
			}
			meal := domain.PlannedMeal{Name: strings.TrimSpace(rm.Name), Target: target}
			if meal.Name == "" {
				meal.Name = unusedMealName(names, day.Meals)
			}
			for _, rf := range rm.Foods {
				if food, ok := toPlannedFood(rf, target); ok {
					meal.Foods = append(meal.Foods, food)
				}
			}
			if len(meal.Foods) == 0 {
				continue
			}
			day.Meals = append(day.Meals, padFoods(meal))
		}
		if len(day.Meals) == 0 {
			continue
		}
		for len(day.Meals) < req.MealsPerDay {
			day.Meals = append(day.Meals, defaultMeal(unusedMealName(names, day.Meals), target))
		}
		days = append(days, day)
	}
	if len(days) == 0 {
		return domain.MealPlan{}, errEmptyPlan
	}
	for len(days) < req.Days {
		days = append(days, defaultDay(len(days), req))
	}

	return domain.MealPlan{
		Title:       strings.TrimSpace(raw.Title),
		Days:        days,
		Targets:     req.Targets,
		MealsPerDay: req.MealsPerDay,
		DietType:    req.DietType,
		Source:      domain.PlanGenerated,
	}, nil
}

// unusedMealName returns the first of names that no meal in meals carries yet.
func unusedMealName(names []string, meals []domain.PlannedMeal) string {
	for _, name := range names {
		taken := false
		for _, m := range meals {
			if strings.EqualFold(m.Name, name) {
				taken = true
				break
			}
		}
		if !taken {
			return name
		}
	}
	return fmt.Sprintf("Meal %d", len(meals)+1)
}

func toPlannedFood(rf rawFood, target domain.Macros) (domain.PlannedFood, bool) {
	name := strings.TrimSpace(rf.Name)
	if name == "" {
		return domain.PlannedFood{}, false
	}
	macros := domain.Macros{Calories: rf.Calories, Protein: rf.Protein, Carbs: rf.Carbs, Fat: rf.Fat}
	if macros.Calories < 0 || macros.Protein < 0 || macros.Carbs < 0 || macros.Fat < 0 {
		return domain.PlannedFood{}, false
	}
	ratio := rf.PortionRatio
	if ratio < 0 || ratio > 100 {
		ratio = 0
	}
	if macros.IsZero() && ratio > 0 {
		macros = target.Scale(ratio / 100)
	}
	return domain.PlannedFood{
		Name:         name,
		Portion:      strings.TrimSpace(rf.Portion),
		PortionRatio: ratio,
		Macros:       macros.Rounded(),
	}, true
}

// describeFailure maps an upstream error onto a short, stable reason.
func describeFailure(err error) string {
	var apiErr *llm.APIError
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		return "missing api key"
	case errors.Is(err, llm.ErrNetwork):
		return "network failure"
	case errors.As(err, &apiErr):
		return "upstream status " + strconv.Itoa(apiErr.StatusCode)
	case errors.Is(err, llm.ErrMalformedJSON):
		return "malformed json"
	case errors.Is(err, llm.ErrEmptyResponse):
		return "empty response"
	case errors.Is(err, errEmptyPlan):
		return "empty plan"
	default:
		return "generation failed"
	}
}
