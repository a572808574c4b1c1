// Package health checks the simulation side of a setup's path: the job
// queue, the registered backends, and simulator binaries on the local host.
//
//	status := health.Combine(
//		health.QueueCheck(ctx, client),
//		health.BackendCheck(ctx, client, "spectre", 100),
//	)
//	if status.IsUnhealthy() {
//		return errors.New(status.Message)
//	}
package health

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/zero-day-ai/simsetup/queue"
)

// QueueCheck verifies the job queue answers and has at least one backend.
func QueueCheck(ctx context.Context, client queue.Client) Status {
	backends, err := client.ListBackends(ctx)
	if err != nil {
		return Unhealthy("job queue unreachable", map[string]any{"error": err.Error()})
	}
	if len(backends) == 0 {
		return Degraded("no simulation backends registered", nil)
	}
	return Healthy(fmt.Sprintf("%d backend(s) registered", len(backends)))
}

// BackendCheck verifies a backend is registered and sending heartbeats.
// A backend whose queue holds more than maxQueued jobs is degraded;
// maxQueued <= 0 disables that limit.
func BackendCheck(ctx context.Context, client queue.Client, backend string, maxQueued int64) Status {
	if backend == "" {
		return Unhealthy("backend name cannot be empty", nil)
	}

	backends, err := client.ListBackends(ctx)
	if err != nil {
		return Unhealthy("job queue unreachable", map[string]any{"backend": backend, "error": err.Error()})
	}
	registered := false
	for _, b := range backends {
		if b.Name == backend {
			registered = true
			break
		}
	}
	if !registered {
		return Unhealthy(fmt.Sprintf("backend '%s' is not registered", backend), map[string]any{"backend": backend})
	}

	alive, err := client.Healthy(ctx, backend)
	if err != nil {
		return Unhealthy(fmt.Sprintf("backend '%s' heartbeat unreadable", backend),
			map[string]any{"backend": backend, "error": err.Error()})
	}
	if !alive {
		return Unhealthy(fmt.Sprintf("backend '%s' missed its heartbeat", backend), map[string]any{"backend": backend})
	}

	queued, err := client.QueueLength(ctx, backend)
	if err != nil {
		return Unhealthy(fmt.Sprintf("backend '%s' queue unreadable", backend),
			map[string]any{"backend": backend, "error": err.Error()})
	}
	details := map[string]any{"backend": backend, "queued": queued}
	if maxQueued > 0 && queued > maxQueued {
		return Degraded(fmt.Sprintf("backend '%s' has %d queued jobs", backend, queued), details)
	}
	return Status{
		Status:  StatusHealthy,
		Message: fmt.Sprintf("backend '%s' alive, %d queued", backend, queued),
		Details: details,
	}
}

// SimulatorCheck verifies a simulator binary (e.g. "spectre", "ngspice")
// is on PATH. Backend workers run it before registering.
func SimulatorCheck(name string) Status {
	if name == "" {
		return Unhealthy("simulator name cannot be empty", nil)
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return Unhealthy(
			fmt.Sprintf("simulator '%s' not found in PATH", name),
			map[string]any{
				"simulator": name,
				"error":     err.Error(),
			},
		)
	}
	return Healthy(fmt.Sprintf("simulator '%s' found at %s", name, path))
}

// Combine aggregates checks: unhealthy if any is unhealthy, degraded if
// any is degraded, healthy otherwise.
func Combine(checks ...Status) Status {
	if len(checks) == 0 {
		return Healthy("no checks provided")
	}

	var unhealthyChecks []string
	var degradedChecks []string
	var healthyCount int

	for _, check := range checks {
		msg := check.Message
		if msg == "" {
			msg = "unnamed check"
		}
		switch check.Status {
		case StatusUnhealthy:
			unhealthyChecks = append(unhealthyChecks, msg)
		case StatusDegraded:
			degradedChecks = append(degradedChecks, msg)
		case StatusHealthy:
			healthyCount++
		}
	}

	if len(unhealthyChecks) > 0 {
		return Unhealthy(
			fmt.Sprintf("%d check(s) failed", len(unhealthyChecks)),
			map[string]any{
				"total":         len(checks),
				"unhealthy":     len(unhealthyChecks),
				"degraded":      len(degradedChecks),
				"healthy":       healthyCount,
				"failed_checks": unhealthyChecks,
			},
		)
	}

	if len(degradedChecks) > 0 {
		return Degraded(
			fmt.Sprintf("%d check(s) degraded", len(degradedChecks)),
			map[string]any{
				"total":           len(checks),
				"degraded":        len(degradedChecks),
				"healthy":         healthyCount,
				"degraded_checks": degradedChecks,
			},
		)
	}

	return Healthy(fmt.Sprintf("all %d check(s) passed", len(checks)))
}
