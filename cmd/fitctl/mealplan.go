package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"example.com/fittrack/internal/api"
	"example.com/fittrack/internal/catalog"
	"example.com/fittrack/internal/domain"
	"example.com/fittrack/internal/llm"
	"example.com/fittrack/internal/mealplan"
)

func newMealPlanCmd() *cobra.Command {
	var (
		req     domain.MealPlanRequest
		targets domain.Macros
	)

	cmd := &cobra.Command{
		Use:   "mealplan",
		Short: "Generate a meal plan without storing it",
		Example: `  fitctl mealplan --calories 2200 --protein 160 --carbs 220 --fat 70
  fitctl mealplan --calories 1800 --days 2 --meals 4 --diet vegetarian`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			if targets.Calories <= 0 {
				return errors.New("--calories must be > 0")
			}
			if req.Days < 1 || req.Days > 7 {
				return errors.New("--days must be between 1 and 7")
			}
			if req.MealsPerDay < 1 || req.MealsPerDay > 6 {
				return errors.New("--meals must be between 1 and 6")
			}

			gen, err := llm.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			req.UserID = "fitctl"
			req.Targets = targets
			req.DietType = strings.ToLower(strings.TrimSpace(req.DietType))

			planner := mealplan.NewPlanner(gen, mealplan.WithLogger(loggerFor(cfg)))
			plan, err := planner.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), api.NewMealPlanView(plan, true))
		},
	}

	f := cmd.Flags()
	f.Float64Var(&targets.Calories, "calories", 0, "daily calorie target")
	f.Float64Var(&targets.Protein, "protein", 0, "daily protein target (g)")
	f.Float64Var(&targets.Carbs, "carbs", 0, "daily carbohydrate target (g)")
	f.Float64Var(&targets.Fat, "fat", 0, "daily fat target (g)")
	f.IntVar(&req.Days, "days", 3, "number of days (1-7)")
	f.IntVar(&req.MealsPerDay, "meals", 3, "meals per day (1-6)")
	f.StringVar(&req.DietType, "diet", "", "diet type, e.g. vegetarian")
	f.StringSliceVar(&req.Allergies, "allergies", nil, "foods to avoid")
	return cmd
}

func newEstimateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "estimate <description>",
		Short:   "Estimate the macros of a food description",
		Example: `  fitctl estimate "two eggs and a slice of toast"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			gen, err := llm.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			estimator := mealplan.NewEstimator(gen, catalog.New(), mealplan.WithLogger(loggerFor(cfg)))
			estimate, err := estimator.Estimate(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), api.NewEstimateView(estimate))
		},
	}
}
