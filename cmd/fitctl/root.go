package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"example.com/fittrack/internal/config"
	"example.com/fittrack/internal/logging"
	persistence "example.com/fittrack/internal/persistence/postgres"
)

type configKey struct{}

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "fitctl",
		Short: "Operate and exercise a fittrack deployment",
		Long: `fitctl runs migrations, mints development tokens, checks sessions and
calls the meal planner and nutrition estimator directly.

Settings come from defaults, an optional YAML file, FITTRACK_* environment
variables and the flags below, later sources winning.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := config.Load(config.WithFile(cfgFile), config.WithFlags(cmd.Root().PersistentFlags()))
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "YAML config file (default: $FITTRACK_CONFIG)")
	flags.String("postgres-url", "", "Postgres connection string")
	flags.String("jwt-secret", "", "HMAC secret used to sign tokens")
	flags.String("jwt-issuer", "", "Token issuer")
	flags.String("llm-provider", "", "Model provider (anthropic|groq|gemini)")
	flags.String("llm-api-key", "", "Model provider API key")
	flags.String("llm-model", "", "Model name override")
	flags.Duration("session-check-timeout", 0, "Upper bound for session checks")
	flags.String("log-level", "", "Log level (debug|info|warn|error)")

	root.AddCommand(
		newMigrateCmd(),
		newTokenCmd(),
		newSessionCmd(),
		newMealPlanCmd(),
		newEstimateCmd(),
		newExercisesCmd(),
		newServingsCmd(),
		newDLQCmd(),
	)
	return root
}

func configFrom(cmd *cobra.Command) (config.Config, error) {
	cfg, ok := cmd.Context().Value(configKey{}).(config.Config)
	if !ok {
		return config.Config{}, errors.New("configuration not loaded")
	}
	return cfg, nil
}

func loggerFor(cfg config.Config) *zap.Logger {
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func connect(cmd *cobra.Command, cfg config.Config) (*pgxpool.Pool, error) {
	return persistence.Connect(cmd.Context(), cfg.PostgresURL)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
