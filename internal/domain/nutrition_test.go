package domain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLogFoodEstimatesMissingMacros(t *testing.T) {
	ctx := context.Background()
	foods := newMemFoods()
	estimator := &stubEstimator{estimate: NutritionEstimate{
		ServingSize: "1 cup",
		Macros:      Macros{Calories: 205, Protein: 4.3, Carbs: 44.5, Fat: 0.4},
		Source:      SourceEstimated,
	}}
	svc := NewNutritionService(foods, foods, estimator)

	entry, err := svc.LogFood(ctx, LogFoodInput{UserID: "user-1", Name: "white rice", MealType: "Lunch", ServingSize: "1 cup", Servings: 2})
	require.NoError(t, err)
	require.Equal(t, []string{"1 cup white rice"}, estimator.calls)
	require.Equal(t, MealLunch, entry.MealType)
	require.Equal(t, SourceEstimated, entry.Source)
	require.Equal(t, Macros{Calories: 410, Protein: 8.6, Carbs: 89, Fat: 0.8}, entry.Macros)

	manual, err := svc.LogFood(ctx, LogFoodInput{UserID: "user-1", Name: "Protein shake", Macros: &Macros{Calories: 120, Protein: 24, Carbs: 3, Fat: 1.5}})
	require.NoError(t, err)
	require.Equal(t, SourceManual, manual.Source)
	require.Equal(t, MealSnack, manual.MealType)
	require.Len(t, estimator.calls, 1, "manual macros skip the estimator")
}

func TestLogFoodValidation(t *testing.T) {
	svc := NewNutritionService(newMemFoods(), newMemFoods(), nil)

	_, err := svc.LogFood(context.Background(), LogFoodInput{UserID: "user-1", Name: "Toast", MealType: "brunch"})
	require.True(t, IsValidation(err))

	_, err = svc.LogFood(context.Background(), LogFoodInput{UserID: "user-1", Name: "Toast", Macros: &Macros{Calories: -1}})
	require.True(t, IsValidation(err))

	_, err = svc.LogFood(context.Background(), LogFoodInput{UserID: "user-1", Name: "Toast"})
	require.True(t, IsValidation(err), "no estimator and no macros")
}

func TestDailySummaryComparesWithGoals(t *testing.T) {
	ctx := context.Background()
	foods := newMemFoods()
	svc := NewNutritionService(foods, foods, nil)
	day := time.Date(2026, time.June, 3, 0, 0, 0, 0, time.UTC)

	_, err := svc.SetGoals(ctx, MacroGoals{UserID: "user-1", Calories: 2200, Protein: 160, Carbs: 220, Fat: 70})
	require.NoError(t, err)

	entries := []LogFoodInput{
		{Name: "Oats", MealType: "breakfast", Macros: &Macros{Calories: 300, Protein: 10, Carbs: 54, Fat: 5}, LoggedAt: day.Add(7 * time.Hour)},
		{Name: "Chicken bowl", MealType: "lunch", Macros: &Macros{Calories: 650, Protein: 55, Carbs: 70, Fat: 15}, LoggedAt: day.Add(13 * time.Hour)},
		{Name: "Apple", MealType: "snack", Macros: &Macros{Calories: 95, Protein: 0.5, Carbs: 25, Fat: 0.3}, LoggedAt: day.Add(16 * time.Hour)},
		{Name: "Late pizza", MealType: "dinner", Macros: &Macros{Calories: 800, Protein: 30, Carbs: 90, Fat: 35}, LoggedAt: day.Add(25 * time.Hour)},
	}
	for _, in := range entries {
		in.UserID = "user-1"
		_, err := svc.LogFood(ctx, in)
		require.NoError(t, err)
	}

	summary, err := svc.DailySummary(ctx, "user-1", day.Add(12*time.Hour))
	require.NoError(t, err)
	require.Equal(t, "2026-06-03", summary.Date)
	require.Len(t, summary.Entries, 3)
	require.Equal(t, Macros{Calories: 1045, Protein: 65.5, Carbs: 149, Fat: 20.3}, summary.Consumed)
	require.NotNil(t, summary.Remaining)
	require.Equal(t, Macros{Calories: 1155, Protein: 94.5, Carbs: 71, Fat: 49.7}, *summary.Remaining)
	require.Equal(t, 650.0, summary.ByMeal[MealLunch].Calories)
}

func TestDailySummaryWithoutGoals(t *testing.T) {
	foods := newMemFoods()
	svc := NewNutritionService(foods, foods, nil)

	summary, err := svc.DailySummary(context.Background(), "user-1", time.Now())
	require.NoError(t, err)
	require.Nil(t, summary.Goals)
	require.Nil(t, summary.Remaining)

	_, err = svc.GetGoals(context.Background(), "user-1")
	require.ErrorIs(t, err, ErrGoalsNotFound)
}

func TestSetGoalsValidation(t *testing.T) {
	foods := newMemFoods()
	svc := NewNutritionService(foods, foods, nil)

	_, err := svc.SetGoals(context.Background(), MacroGoals{UserID: "user-1", Calories: 0})
	require.True(t, IsValidation(err))

	_, err = svc.SetGoals(context.Background(), MacroGoals{UserID: "user-1", Calories: 1800, Protein: -5})
	require.True(t, IsValidation(err))
}

func TestDeleteFoodNotFound(t *testing.T) {
	foods := newMemFoods()
	svc := NewNutritionService(foods, foods, nil)
	require.ErrorIs(t, svc.DeleteFood(context.Background(), "user-1", "missing"), ErrFoodEntryNotFound)
}

func TestDayBoundsUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	start, end := DayBounds(time.Date(2026, time.January, 10, 23, 30, 0, 0, loc))
	require.Equal(t, time.Date(2026, time.January, 10, 0, 0, 0, 0, loc), start)
	require.Equal(t, 24*time.Hour, end.Sub(start))
}
