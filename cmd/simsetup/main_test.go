package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/simsetup/queue"
)

const tranSpec = `name: inverter_tran
kind: tran
description: Inverter step response
specs:
  sim_envs: [tt_25, ss_125]
  sim_params:
    t_sim: 10n
    t_step: t_sim/100
  env_params:
    temp: {tt_25: 25, ss_125: 125}
  swp_info:
    cload: {type: LIST, values: [10f, 20f]}
  t_step: t_step
`

const dcSpec = `name: vtc
kind: dc
specs:
  sim_envs: [tt_25]
  sim_params: {vdd: 0.9}
  sweep_var: vin
  sweep_options: {type: LINEAR, start: 0, stop: vdd, num: 10}
`

func writeSpec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "simsetup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestKinds(t *testing.T) {
	out, _, err := run(t, "kinds")
	require.NoError(t, err)
	assert.Equal(t, "dc\npss\ntran\n", out)
}

func TestSchema(t *testing.T) {
	out, _, err := run(t, "schema", "transient")
	require.NoError(t, err)

	var s map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	props, ok := s["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "t_step")
	assert.Contains(t, props, "sim_envs")

	_, _, err = run(t, "schema", "noise")
	assert.Error(t, err)
}

func TestBuildJSON(t *testing.T) {
	path := writeSpec(t, tranSpec)

	out, _, err := run(t, "build", path, "--format", "json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []any{"tt_25", "ss_125"}, got["sim_envs"])
	analyses := got["analyses"].([]any)
	require.Len(t, analyses, 1)
	assert.Equal(t, "TRAN", analyses[0].(map[string]any)["type"])
}

func TestBuildYAMLAndProto(t *testing.T) {
	path := writeSpec(t, dcSpec)

	out, _, err := run(t, "build", path)
	require.NoError(t, err)
	assert.Contains(t, out, "sim_envs:")
	assert.Contains(t, out, "type: DC")

	out, _, err = run(t, "build", path, "-f", "proto")
	require.NoError(t, err)
	assert.Contains(t, out, `"analyses"`)

	_, _, err = run(t, "build", path, "-f", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestBuildMissingFile(t *testing.T) {
	_, _, err := run(t, "build", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	path := writeSpec(t, tranSpec)
	out, _, err := run(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok: "+path)
	assert.Contains(t, out, "TRAN")
	assert.Contains(t, out, "2 corners")

	bad := writeSpec(t, strings.Replace(tranSpec, "t_sim: 10n", "t_stop: 10n", 1))
	_, _, err = run(t, "validate", bad)
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	path := writeSpec(t, tranSpec)

	out, _, err := run(t, "describe", path)
	require.NoError(t, err)
	assert.Contains(t, out, "inverter_tran (tran): Inverter step response")
	assert.Contains(t, out, "corners: tt_25, ss_125")
	assert.Contains(t, out, "t_sim = 10 n")
	assert.Contains(t, out, "t_step = t_sim/100 (100 p)")
	assert.Contains(t, out, "temp: tt_25=25 ss_125=125")
	assert.Contains(t, out, "cload: LIST [10 f, 20 f]")
	assert.Contains(t, out, "TRAN 0 to t_sim (10 n), strobe t_step (100 p)")

	out, _, err = run(t, "describe", writeSpec(t, dcSpec))
	require.NoError(t, err)
	assert.Contains(t, out, "DC sweep vin: LINEAR 0 to vdd (900 m), 10 points")
}

func TestDescribePSS(t *testing.T) {
	path := writeSpec(t, `name: osc
kind: pss
specs:
  sim_envs: [tt_25]
  sim_params: {f_ref: 2.5meg}
  fund: f_ref
  p_port: outp
  n_port: outn
`)

	out, _, err := run(t, "describe", path)
	require.NoError(t, err)
	assert.Contains(t, out, "PSS fund f_ref (2.500 MHz), ports outp/outn")

	path = writeSpec(t, `name: osc
kind: pss
specs:
  sim_envs: [tt_25]
  sim_params: {}
  fund: 1G
`)
	out, _, err = run(t, "describe", path)
	require.NoError(t, err)
	assert.Contains(t, out, "PSS fund 1.000 GHz")
}

func TestVerboseLogging(t *testing.T) {
	path := writeSpec(t, dcSpec)
	_, stderr, err := run(t, "build", path, "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stderr, "loaded spec file")
}

func TestSubmit(t *testing.T) {
	mr := miniredis.RunT(t)
	url := fmt.Sprintf("redis://%s", mr.Addr())

	worker, err := queue.NewRedisClient(queue.RedisOptions{URL: url})
	require.NoError(t, err)
	defer worker.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, worker.RegisterBackend(ctx, queue.BackendMeta{Name: "spectre", Version: "1"}))

	go func() {
		job, err := worker.Pop(ctx, "spectre")
		if err != nil || job == nil {
			return
		}
		now := time.Now().UnixMilli()
		_ = worker.Publish(ctx, queue.Result{
			JobID: job.JobID, Status: queue.StatusCompleted, OutputDir: "/sim/" + job.Testbench,
			WorkerID: "w1", StartedAt: now, CompletedAt: now,
		})
	}()

	path := writeSpec(t, tranSpec)
	out, _, err := run(t, "submit", path, "--redis", url, "--backend", "spectre", "--timeout", "3s")
	require.NoError(t, err)

	var res queue.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "/sim/inverter_tran", res.OutputDir)
}

func TestSubmitUnknownBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	path := writeSpec(t, tranSpec)

	_, _, err := run(t, "submit", path, "--redis", fmt.Sprintf("redis://%s", mr.Addr()), "--backend", "hspice")
	assert.ErrorContains(t, err, "backend not found")
}

func TestBackends(t *testing.T) {
	mr := miniredis.RunT(t)
	url := fmt.Sprintf("redis://%s", mr.Addr())

	client, err := queue.NewRedisClient(queue.RedisOptions{URL: url})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.RegisterBackend(ctx, queue.BackendMeta{
		Name: "spectre", Version: "21.1", Simulator: "spectre", Analyses: []string{"DC", "TRAN"},
	}))
	require.NoError(t, client.Heartbeat(ctx, "spectre"))

	out, _, err := run(t, "backends", "--redis", url)
	require.NoError(t, err)
	assert.Contains(t, out, "spectre")
	assert.Contains(t, out, "[DC,TRAN]")
	assert.Contains(t, out, "overall: healthy")

	mr.FastForward(queue.HeartbeatTTL * 2)
	out, _, err = run(t, "backends", "--redis", url)
	assert.Error(t, err)
	assert.Contains(t, out, "missed its heartbeat")
}
