package mealplan

import (
	"fmt"
	"strings"

	"example.com/fittrack/internal/domain"
)

const minFoodsPerMeal = 3

// DefaultEstimate is returned when neither the model nor the serving table can
// describe a food.
var DefaultEstimate = domain.Macros{Calories: 250, Protein: 10, Carbs: 30, Fat: 10}

type defaultFood struct {
	Name         string
	Portion      string
	PortionRatio float64
}

var (
	breakfastFoods = []defaultFood{
		{Name: "Oatmeal", Portion: "1 cup cooked", PortionRatio: 40},
		{Name: "Greek Yogurt", Portion: "170 g", PortionRatio: 25},
		{Name: "Banana", Portion: "1 medium", PortionRatio: 20},
		{Name: "Almonds", Portion: "1 oz", PortionRatio: 15},
	}
	lunchFoods = []defaultFood{
		{Name: "Grilled Chicken Breast", Portion: "150 g", PortionRatio: 40},
		{Name: "Brown Rice", Portion: "1 cup cooked", PortionRatio: 30},
		{Name: "Broccoli", Portion: "1 cup", PortionRatio: 15},
		{Name: "Avocado", Portion: "1/2 fruit", PortionRatio: 15},
	}
	dinnerFoods = []defaultFood{
		{Name: "Salmon", Portion: "150 g", PortionRatio: 40},
		{Name: "Sweet Potato", Portion: "1 medium", PortionRatio: 30},
		{Name: "Spinach", Portion: "2 cups", PortionRatio: 15},
		{Name: "Olive Oil", Portion: "1 tbsp", PortionRatio: 15},
	}
	otherFoods = []defaultFood{
		{Name: "Chicken Breast", Portion: "120 g", PortionRatio: 40},
		{Name: "Brown Rice", Portion: "3/4 cup cooked", PortionRatio: 30},
		{Name: "Broccoli", Portion: "1 cup", PortionRatio: 15},
		{Name: "Avocado", Portion: "1/3 fruit", PortionRatio: 15},
	}
)

func defaultFoodsForMeal(mealName string) []defaultFood {
	name := strings.ToLower(mealName)
	switch {
	case strings.Contains(name, "breakfast"):
		return breakfastFoods
	case strings.Contains(name, "lunch"):
		return lunchFoods
	case strings.Contains(name, "dinner"):
		return dinnerFoods
	default:
		return otherFoods
	}
}

// mealNames labels the meals of one day.
func mealNames(meals int) []string {
	base := []string{"Breakfast", "Lunch", "Dinner"}
	if meals <= len(base) {
		return base[:meals]
	}
	names := append([]string(nil), base...)
	for i := 1; len(names) < meals; i++ {
		names = append(names, fmt.Sprintf("Snack %d", i))
	}
	return names
}

func dayLabel(i int) string {
	return fmt.Sprintf("Day %d", i+1)
}

func plannedFromDefault(food defaultFood, target domain.Macros) domain.PlannedFood {
	return domain.PlannedFood{
		Name:         food.Name,
		Portion:      food.Portion,
		PortionRatio: food.PortionRatio,
		Macros:       target.Scale(food.PortionRatio / 100).Rounded(),
	}
}

func defaultMeal(name string, target domain.Macros) domain.PlannedMeal {
	defaults := defaultFoodsForMeal(name)
	foods := make([]domain.PlannedFood, 0, len(defaults))
	for _, food := range defaults {
		foods = append(foods, plannedFromDefault(food, target))
	}
	return domain.PlannedMeal{Name: name, Foods: foods, Target: target}
}

func defaultDay(index int, req domain.MealPlanRequest) domain.PlanDay {
	target := perMealTarget(req.Targets, req.MealsPerDay)
	names := mealNames(req.MealsPerDay)
	day := domain.PlanDay{Day: dayLabel(index), Meals: make([]domain.PlannedMeal, 0, len(names))}
	for _, name := range names {
		day.Meals = append(day.Meals, defaultMeal(name, target))
	}
	return day
}

// FallbackPlan builds the static plan served when generation fails.
func FallbackPlan(req domain.MealPlanRequest, reason string) domain.MealPlan {
	plan := domain.MealPlan{
		Targets:     req.Targets,
		MealsPerDay: req.MealsPerDay,
		DietType:    req.DietType,
		Source:      domain.PlanFallback,
		Notes:       fmt.Sprintf("default plan used: %s", reason),
		Days:        make([]domain.PlanDay, 0, req.Days),
	}
	for i := 0; i < req.Days; i++ {
		plan.Days = append(plan.Days, defaultDay(i, req))
	}
	return plan
}

// padFoods tops a meal up to minFoodsPerMeal with defaults it does not already contain.
func padFoods(meal domain.PlannedMeal) domain.PlannedMeal {
	if len(meal.Foods) >= minFoodsPerMeal {
		return meal
	}
	have := make(map[string]struct{}, len(meal.Foods))
	for _, f := range meal.Foods {
		have[strings.ToLower(f.Name)] = struct{}{}
	}
	for _, food := range defaultFoodsForMeal(meal.Name) {
		if len(meal.Foods) >= minFoodsPerMeal {
			break
		}
		if _, ok := have[strings.ToLower(food.Name)]; ok {
			continue
		}
		meal.Foods = append(meal.Foods, plannedFromDefault(food, meal.Target))
	}
	return meal
}
