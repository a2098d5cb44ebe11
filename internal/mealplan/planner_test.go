package mealplan

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"example.com/fittrack/internal/catalog"
	"example.com/fittrack/internal/domain"
	"example.com/fittrack/internal/llm"
)

type stubGenerator struct {
	content string
	err     error
	prompts []llm.Prompt
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt llm.Prompt) (llm.ContentResponse, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return llm.ContentResponse{}, s.err
	}
	return llm.ContentResponse{Content: s.content, Usage: llm.TokenUsage{Model: "stub-model", TotalTokens: 42}}, nil
}

func testRequest() domain.MealPlanRequest {
	return domain.MealPlanRequest{
		UserID:      "user-1",
		Days:        2,
		MealsPerDay: 3,
		DietType:    "vegetarian",
		Allergies:   []string{"peanuts"},
		Targets:     domain.Macros{Calories: 2100, Protein: 150, Carbs: 210, Fat: 72},
	}
}

func TestPlannerPromptCarriesRequest(t *testing.T) {
	gen := &stubGenerator{err: llm.ErrMissingAPIKey}
	_, err := NewPlanner(gen).Generate(context.Background(), testRequest())
	require.NoError(t, err)

	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]
	require.True(t, prompt.JSON)
	require.Contains(t, prompt.User, "Number of Days: 2")
	require.Contains(t, prompt.User, "Diet Type: vegetarian")
	require.Contains(t, prompt.User, "ALLERGIES/FOODS TO AVOID: peanuts")
	require.Contains(t, prompt.User, "Per-Meal Targets: Calories: 700, Protein: 50g, Carbs: 70g, Fat: 24g")
}

func TestPlannerGeneratedPlan(t *testing.T) {
	reply := "Here is your plan:\n```json\n" + `{
  "title": "Green week",
  "days": [
    {"day": "Monday", "meals": [
      {"name": "Breakfast", "foods": [
        {"name": "Tofu Scramble", "portion": "150 g", "portion_ratio": 50, "calories": 350, "protein": 25, "carbs": 10, "fat": 20},
        {"name": "", "portion": "ignored"},
        {"name": "Whole Wheat Toast", "portion": "2 slices", "portion_ratio": 50}
      ]},
      {"name": "Lunch", "foods": []}
    ]}
  ]
}` + "\n```"
	gen := &stubGenerator{content: reply}
	plan, err := NewPlanner(gen).Generate(context.Background(), testRequest())
	require.NoError(t, err)

	require.Equal(t, domain.PlanGenerated, plan.Source)
	require.Equal(t, "Green week", plan.Title)
	require.Equal(t, "stub-model", plan.Model)
	require.Len(t, plan.Days, 2)
	require.Equal(t, "Monday", plan.Days[0].Day)
	require.Equal(t, "Day 2", plan.Days[1].Day)

	perMeal := domain.Macros{Calories: 700, Protein: 50, Carbs: 70, Fat: 24}
	breakfast := plan.Days[0].Meals[0]
	want := []domain.PlannedFood{
		{Name: "Tofu Scramble", Portion: "150 g", PortionRatio: 50, Macros: domain.Macros{Calories: 350, Protein: 25, Carbs: 10, Fat: 20}},
		{Name: "Whole Wheat Toast", Portion: "2 slices", PortionRatio: 50, Macros: domain.Macros{Calories: 350, Protein: 25, Carbs: 35, Fat: 12}},
		{Name: "Oatmeal", Portion: "1 cup cooked", PortionRatio: 40, Macros: domain.Macros{Calories: 280, Protein: 20, Carbs: 28, Fat: 9.6}},
	}
	if diff := cmp.Diff(want, breakfast.Foods); diff != "" {
		t.Fatalf("breakfast foods mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, perMeal, breakfast.Target)

	// The empty lunch is dropped and the day is topped up with default meals.
	require.Len(t, plan.Days[0].Meals, 3)
	require.Equal(t, "Lunch", plan.Days[0].Meals[1].Name)
	require.Equal(t, "Grilled Chicken Breast", plan.Days[0].Meals[1].Foods[0].Name)
	require.Equal(t, "Dinner", plan.Days[0].Meals[2].Name)
}

func TestPlannerFillsTheMealThatWasDropped(t *testing.T) {
	reply := `{"days": [{"day": "Monday", "meals": [
  {"name": "Breakfast", "foods": []},
  {"name": "Lunch", "foods": [{"name": "Lentil Soup", "portion_ratio": 60}, {"name": "Rye Bread", "portion_ratio": 40}]},
  {"name": "", "foods": [{"name": "Paneer Tikka", "portion_ratio": 100}]}
]}]}`
	req := testRequest()
	req.Days = 1
	plan, err := NewPlanner(&stubGenerator{content: reply}).Generate(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, domain.PlanGenerated, plan.Source)

	meals := plan.Days[0].Meals
	require.Len(t, meals, 3)
	names := make([]string, 0, len(meals))
	for _, m := range meals {
		names = append(names, m.Name)
	}
	require.ElementsMatch(t, []string{"Breakfast", "Lunch", "Dinner"}, names)
	require.Equal(t, "Dinner", meals[1].Name)
	require.Equal(t, "Paneer Tikka", meals[1].Foods[0].Name)
	require.Equal(t, "Breakfast", meals[2].Name)
	require.Equal(t, "Oatmeal", meals[2].Foods[0].Name)
}

func TestPlannerFallbacks(t *testing.T) {
	cases := []struct {
		name   string
		gen    llm.TextGenerator
		reason string
	}{
		{name: "no generator", gen: nil, reason: "no model configured"},
		{name: "missing key", gen: &stubGenerator{err: llm.ErrMissingAPIKey}, reason: "missing api key"},
		{name: "network", gen: &stubGenerator{err: errors.Join(llm.ErrNetwork, errors.New("dial tcp"))}, reason: "network failure"},
		{name: "api status", gen: &stubGenerator{err: &llm.APIError{Provider: "anthropic", StatusCode: 529}}, reason: "upstream status 529"},
		{name: "malformed", gen: &stubGenerator{content: "I cannot help with that."}, reason: "malformed json"},
		{name: "empty plan", gen: &stubGenerator{content: `{"days": []}`}, reason: "empty plan"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testRequest()
			plan, err := NewPlanner(tc.gen).Generate(context.Background(), req)
			require.NoError(t, err)
			require.Equal(t, domain.PlanFallback, plan.Source)
			require.True(t, strings.HasSuffix(plan.Notes, tc.reason), plan.Notes)
			require.Len(t, plan.Days, req.Days)
			for _, day := range plan.Days {
				require.Len(t, day.Meals, req.MealsPerDay)
				for _, meal := range day.Meals {
					require.GreaterOrEqual(t, len(meal.Foods), minFoodsPerMeal)
				}
			}
		})
	}
}

func TestPlannerPropagatesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewPlanner(&stubGenerator{err: context.Canceled}).Generate(ctx, testRequest())
	require.ErrorIs(t, err, context.Canceled)
}

func TestFallbackPlanShape(t *testing.T) {
	req := domain.MealPlanRequest{Days: 1, MealsPerDay: 5, Targets: domain.DefaultMacroTargets}
	plan := FallbackPlan(req, "test")

	require.Len(t, plan.Days, 1)
	var names []string
	for _, meal := range plan.Days[0].Meals {
		names = append(names, meal.Name)
	}
	require.Equal(t, []string{"Breakfast", "Lunch", "Dinner", "Snack 1", "Snack 2"}, names)

	breakfast := plan.Days[0].Meals[0]
	require.Equal(t, domain.Macros{Calories: 400, Protein: 30, Carbs: 40, Fat: 13.4}, breakfast.Target)
	require.Equal(t, domain.Macros{Calories: 160, Protein: 12, Carbs: 16, Fat: 5.4}, breakfast.Foods[0].Macros)
}

func TestEstimator(t *testing.T) {
	table := catalog.New()

	t.Run("model", func(t *testing.T) {
		gen := &stubGenerator{content: `Sure: {"name":"ramen","serving_size":"1 bowl","calories":450.44,"protein":18,"carbs":60,"fat":15}`}
		est, err := NewEstimator(gen, table).Estimate(context.Background(), "bowl of ramen")
		require.NoError(t, err)
		require.Equal(t, domain.SourceEstimated, est.Source)
		require.Equal(t, "1 bowl", est.ServingSize)
		require.Equal(t, domain.Macros{Calories: 450.4, Protein: 18, Carbs: 60, Fat: 15}, est.Macros)
		require.Contains(t, gen.prompts[0].User, "FOOD: bowl of ramen")
	})

	t.Run("zero calories falls back to table", func(t *testing.T) {
		gen := &stubGenerator{content: `{"calories":0}`}
		est, err := NewEstimator(gen, table).Estimate(context.Background(), "1 banana")
		require.NoError(t, err)
		require.Equal(t, domain.SourceReference, est.Source)
		require.Equal(t, 105.0, est.Macros.Calories)
	})

	t.Run("default", func(t *testing.T) {
		est, err := NewEstimator(&stubGenerator{err: llm.ErrMissingAPIKey}, table).Estimate(context.Background(), "grandma's casserole")
		require.NoError(t, err)
		require.Equal(t, domain.SourceFallback, est.Source)
		require.Equal(t, DefaultEstimate, est.Macros)
		require.Contains(t, est.Notes, "missing api key")
	})

	t.Run("no dependencies", func(t *testing.T) {
		est, err := NewEstimator(nil, nil).Estimate(context.Background(), "anything")
		require.NoError(t, err)
		require.Equal(t, DefaultEstimate, est.Macros)
		require.Equal(t, "default estimate used: no model configured", est.Notes)
	})

	t.Run("blank description skips the model", func(t *testing.T) {
		gen := &stubGenerator{content: `{"calories":100}`}
		est, err := NewEstimator(gen, table).Estimate(context.Background(), "   ")
		require.NoError(t, err)
		require.Empty(t, gen.prompts)
		require.Equal(t, domain.SourceFallback, est.Source)
		require.Equal(t, "default estimate used: empty description", est.Notes)
	})
}
