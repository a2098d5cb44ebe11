package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"example.com/fittrack/internal/outbox"
)

func newDLQCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dlq",
		Short: "Inspect and retry dead-lettered outbox events",
	}

	var (
		watch     bool
		batchSize int
	)
	retry := &cobra.Command{
		Use:   "retry",
		Short: "Requeue due DLQ entries into the outbox",
		Long: `retry moves DLQ entries whose backoff has elapsed back into the outbox.
Entries that reached dlq_max_retries are quarantined instead. With --watch the
command keeps polling every dlq_poll_interval until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			pool, err := connect(cmd, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			logger := loggerFor(cfg)
			defer logger.Sync() //nolint:errcheck

			manager := outbox.NewDLQManager(pool, logger, cfg.DLQMaxRetries, cfg.DLQBaseDelay)
			if watch {
				return manager.Run(cmd.Context(), cfg.DLQPollInterval, batchSize)
			}
			requeued, err := manager.RunOnce(cmd.Context(), batchSize)
			fmt.Fprintf(cmd.OutOrStdout(), "requeued %d entries\n", requeued)
			return err
		},
	}
	retry.Flags().BoolVar(&watch, "watch", false, "keep polling until interrupted")
	retry.Flags().IntVar(&batchSize, "batch-size", 50, "entries handled per pass")

	cmd.AddCommand(retry)
	return cmd
}
