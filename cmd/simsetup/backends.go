package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/simsetup"
	"github.com/zero-day-ai/simsetup/health"
	"github.com/zero-day-ai/simsetup/queue"
)

func newBackendsCmd(a *app) *cobra.Command {
	var (
		redisURL  string
		maxQueued int64
	)

	cmd := &cobra.Command{
		Use:   "backends",
		Short: "List registered simulation backends and their health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := queue.NewRedisClient(queue.RedisOptions{URL: redisURL, Logger: a.logger})
			if err != nil {
				return simsetup.NewNetworkError("backends", err)
			}
			defer simsetup.CloseWithLog(client, a.logger, "queue client")

			ctx := cmd.Context()
			backends, err := client.ListBackends(ctx)
			if err != nil {
				return simsetup.NewNetworkError("backends", err)
			}

			out := cmd.OutOrStdout()
			checks := []health.Status{health.QueueCheck(ctx, client)}
			for _, b := range backends {
				status := health.BackendCheck(ctx, client, b.Name, maxQueued)
				checks = append(checks, status)

				analyses := "any"
				if len(b.Analyses) > 0 {
					analyses = strings.Join(b.Analyses, ",")
				}
				fmt.Fprintf(out, "%-12s %-9s %s %s [%s] %s\n",
					b.Name, status.Status, b.Simulator, b.Version, analyses, status.Message)
			}

			overall := health.Combine(checks...)
			fmt.Fprintf(out, "overall: %s (%s)\n", overall.Status, overall.Message)
			if overall.IsUnhealthy() {
				return simsetup.NewExecutionError("backends", fmt.Errorf("%s", overall.Message))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&redisURL, "redis", defaultRedisURL, "Redis URL of the job queue")
	cmd.Flags().Int64Var(&maxQueued, "max-queued", 0, "report backends with more queued jobs as degraded (0 disables)")
	return cmd
}
