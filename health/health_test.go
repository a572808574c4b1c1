package health

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/simsetup/queue"
	"github.com/zero-day-ai/simsetup/simdata"
)

func setupClient(t *testing.T) (*queue.RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := queue.NewRedisClient(queue.RedisOptions{URL: fmt.Sprintf("redis://%s", mr.Addr())})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func pushJobs(t *testing.T, client queue.Client, backend string, n int) {
	t.Helper()
	info, err := simdata.FromDict(map[string]any{
		"sim_envs": []any{"tt_25"},
		"analyses": []any{map[string]any{"type": "TRAN", "stop": 1e-9}},
	})
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		job, err := queue.NewJob(context.Background(), backend, "tb", info)
		require.NoError(t, err)
		require.NoError(t, client.Push(context.Background(), job))
	}
}

func TestQueueCheck(t *testing.T) {
	client, mr := setupClient(t)
	ctx := context.Background()

	assert.True(t, QueueCheck(ctx, client).IsDegraded())

	require.NoError(t, client.RegisterBackend(ctx, queue.BackendMeta{Name: "spectre", Version: "1"}))
	status := QueueCheck(ctx, client)
	assert.True(t, status.IsHealthy())
	assert.Equal(t, "1 backend(s) registered", status.Message)

	mr.Close()
	assert.True(t, QueueCheck(ctx, client).IsUnhealthy())
}

func TestBackendCheck(t *testing.T) {
	client, mr := setupClient(t)
	ctx := context.Background()

	status := BackendCheck(ctx, client, "spectre", 2)
	assert.True(t, status.IsUnhealthy())
	assert.Contains(t, status.Message, "not registered")

	require.NoError(t, client.RegisterBackend(ctx, queue.BackendMeta{Name: "spectre", Version: "1"}))
	status = BackendCheck(ctx, client, "spectre", 2)
	assert.True(t, status.IsUnhealthy())
	assert.Contains(t, status.Message, "missed its heartbeat")

	require.NoError(t, client.Heartbeat(ctx, "spectre"))
	status = BackendCheck(ctx, client, "spectre", 2)
	assert.True(t, status.IsHealthy(), status.Message)
	assert.Equal(t, int64(0), status.Details["queued"])

	pushJobs(t, client, "spectre", 3)
	status = BackendCheck(ctx, client, "spectre", 2)
	assert.True(t, status.IsDegraded())
	assert.Equal(t, int64(3), status.Details["queued"])

	assert.True(t, BackendCheck(ctx, client, "spectre", 0).IsHealthy())

	mr.FastForward(queue.HeartbeatTTL * 2)
	assert.True(t, BackendCheck(ctx, client, "spectre", 0).IsUnhealthy())

	assert.True(t, BackendCheck(ctx, client, "", 0).IsUnhealthy())
}

func TestSimulatorCheck(t *testing.T) {
	tests := []struct {
		name          string
		binary        string
		expectHealthy bool
	}{
		{name: "existing binary sh", binary: "sh", expectHealthy: true},
		{name: "missing simulator", binary: "this-simulator-does-not-exist-12345"},
		{name: "empty name", binary: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := SimulatorCheck(tt.binary)
			assert.Equal(t, tt.expectHealthy, status.IsHealthy(), status.Message)
			assert.NotEmpty(t, status.Message)
		})
	}
}

func TestCombine(t *testing.T) {
	tests := []struct {
		name   string
		checks []Status
		want   string
	}{
		{name: "empty", want: StatusHealthy},
		{name: "all healthy", checks: []Status{Healthy("a"), Healthy("b")}, want: StatusHealthy},
		{name: "one degraded", checks: []Status{Healthy("a"), Degraded("b", nil)}, want: StatusDegraded},
		{name: "unhealthy wins", checks: []Status{Degraded("a", nil), Unhealthy("b", nil)}, want: StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Combine(tt.checks...).Status)
		})
	}

	status := Combine(Unhealthy("", nil), Healthy("ok"))
	assert.Equal(t, []string{"unnamed check"}, status.Details["failed_checks"])
	assert.Equal(t, 1, status.Details["healthy"])
}

func ExampleCombine() {
	status := Combine(Healthy("queue reachable"), Degraded("backend busy", nil))
	fmt.Println(status.Status, status.Message)
	// Output: degraded 1 check(s) degraded
}
