package mealplan

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"

	"example.com/fittrack/internal/domain"
)

const systemPrompt = "You are a careful nutrition assistant. You always answer with valid JSON and nothing else."

var (
	//go:embed meal_plan_prompt.md
	mealPlanPrompt string

	//go:embed nutrition_prompt.md
	nutritionPrompt string

	templates = template.Must(template.New("prompts").Funcs(template.FuncMap{"join": strings.Join}).Parse(""))

	mealPlanTmpl  = template.Must(templates.New("meal_plan").Parse(mealPlanPrompt))
	nutritionTmpl = template.Must(templates.New("nutrition").Parse(nutritionPrompt))
)

type mealPlanPromptData struct {
	domain.MealPlanRequest
	PerMeal domain.Macros
}

func buildMealPlanPrompt(req domain.MealPlanRequest) (string, error) {
	var buf bytes.Buffer
	data := mealPlanPromptData{MealPlanRequest: req, PerMeal: perMealTarget(req.Targets, req.MealsPerDay)}
	if err := mealPlanTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildNutritionPrompt(description string) (string, error) {
	var buf bytes.Buffer
	if err := nutritionTmpl.Execute(&buf, struct{ Description string }{description}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func perMealTarget(daily domain.Macros, meals int) domain.Macros {
	if meals <= 0 {
		meals = 3
	}
	return daily.Scale(1 / float64(meals)).Rounded()
}
