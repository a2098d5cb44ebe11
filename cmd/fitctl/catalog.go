package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"example.com/fittrack/internal/api"
	"example.com/fittrack/internal/catalog"
)

func newExercisesCmd() *cobra.Command {
	var (
		category string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "exercises [query]",
		Short: "Search the exercise catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			found := catalog.New().SearchExercises(query, catalog.Category(strings.ToLower(category)))

			if asJSON {
				views := make([]api.ExerciseView, 0, len(found))
				for _, e := range found {
					views = append(views, api.NewExerciseView(e))
				}
				return printJSON(cmd.OutOrStdout(), views)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCATEGORY\tEQUIPMENT\tMUSCLES")
			for _, e := range found {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Name, e.Category, e.Equipment, strings.Join(e.Muscles, ", "))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "strength|cardio|mobility")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newServingsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "servings",
		Short: "List the reference serving table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			servings := catalog.New().Servings()

			if asJSON {
				views := make([]api.ServingView, 0, len(servings))
				for _, s := range servings {
					views = append(views, api.NewServingView(s))
				}
				return printJSON(cmd.OutOrStdout(), views)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSERVING\tKCAL\tPROTEIN\tCARBS\tFAT")
			for _, s := range servings {
				fmt.Fprintf(tw, "%s\t%s\t%.0f\t%.1f\t%.1f\t%.1f\n",
					s.Name, s.ServingSize, s.Macros.Calories, s.Macros.Protein, s.Macros.Carbs, s.Macros.Fat)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
