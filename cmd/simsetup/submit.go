package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/simsetup"
	"github.com/zero-day-ai/simsetup/queue"
)

const defaultRedisURL = "redis://localhost:6379"

func newSubmitCmd(a *app) *cobra.Command {
	var (
		redisURL string
		backend  string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "submit [path]",
		Short: "Queue the netlist setup of a spec file for a simulation backend",
		Long: `Builds the setup, pushes it onto the backend's Redis queue and waits for ` +
			`the result. --backend, --redis and --timeout override the submit section ` +
			`of the spec file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, info, err := a.load(cmd, args)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("backend") {
				backend = f.Submit.GetBackend(backend)
			}
			if !cmd.Flags().Changed("redis") && f.Submit != nil && f.Submit.RedisURL != "" {
				redisURL = f.Submit.RedisURL
			}
			if !cmd.Flags().Changed("timeout") {
				timeout = f.Submit.GetTimeout()
			}

			client, err := queue.NewRedisClient(queue.RedisOptions{URL: redisURL, Logger: a.logger})
			if err != nil {
				return simsetup.NewNetworkError("submit", err)
			}
			defer simsetup.CloseWithLog(client, a.logger, "queue client")

			res, err := simsetup.Submit(cmd.Context(), client, info, simsetup.SubmitOptions{
				Backend:   backend,
				Testbench: f.Name,
				Timeout:   timeout,
				Logger:    a.logger,
			})
			if res != nil {
				data, mErr := json.MarshalIndent(res, "", "  ")
				if mErr != nil {
					return fmt.Errorf("failed to encode result: %w", mErr)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			}
			return err
		},
	}

	cmd.Flags().StringVar(&redisURL, "redis", defaultRedisURL, "Redis URL of the job queue")
	cmd.Flags().StringVar(&backend, "backend", "", "simulation backend to submit to")
	cmd.Flags().DurationVar(&timeout, "timeout", simsetup.DefaultSubmitTimeout, "how long to wait for the result")
	return cmd
}
