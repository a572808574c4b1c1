package simsetup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/zero-day-ai/simsetup/queue"
	"github.com/zero-day-ai/simsetup/simdata"
	"github.com/zero-day-ai/simsetup/specfile"
	"github.com/zero-day-ai/simsetup/testbench"
)

// DefaultSubmitTimeout bounds Submit when SubmitOptions.Timeout is zero.
const DefaultSubmitTimeout = 10 * time.Minute

// NewTestbench creates the testbench registered under kind.
//
// Example:
//
//	tb, err := simsetup.NewTestbench("tran", specs, simsetup.WithStrict(true))
//	if err != nil {
//		return err
//	}
//	info, err := tb.NetlistInfo(ctx)
func NewTestbench(kind string, specs map[string]any, opts ...Option) (testbench.Testbench, error) {
	tb, err := testbench.New(kind, specs, newConfig(opts))
	if err != nil {
		return nil, classifyBuild("NewTestbench", err).WithContext(map[string]any{"kind": kind})
	}
	return tb, nil
}

// NetlistInfo builds the normalized netlist setup for a spec in one call.
func NetlistInfo(ctx context.Context, kind string, specs map[string]any, opts ...Option) (*simdata.NetlistInfo, error) {
	tb, err := NewTestbench(kind, specs, opts...)
	if err != nil {
		return nil, err
	}
	info, err := tb.NetlistInfo(ctx)
	if err != nil {
		return nil, classifyBuild("NetlistInfo", err).WithContext(map[string]any{"kind": kind})
	}
	return info, nil
}

// LoadTestbench loads a spec file (or the spec file inside a directory) and
// creates its testbench.
func LoadTestbench(path string, opts ...Option) (*specfile.File, testbench.Testbench, error) {
	f, err := specfile.Load(path)
	if err != nil {
		if errors.Is(err, specfile.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, nil, NewNotFoundError("LoadTestbench", err)
		}
		return nil, nil, NewConfigurationError("LoadTestbench", err)
	}
	if err := f.Validate(); err != nil {
		return nil, nil, classifyBuild("LoadTestbench", err).WithContext(map[string]any{"path": f.Path})
	}
	tb, err := f.Testbench(newConfig(opts))
	if err != nil {
		return nil, nil, classifyBuild("LoadTestbench", err).WithContext(map[string]any{"path": f.Path})
	}
	return f, tb, nil
}

// SubmitOptions controls Submit.
type SubmitOptions struct {
	// Backend is the simulation backend queue to submit to
	Backend string

	// Testbench names the spec the setup was built from
	Testbench string

	// Timeout bounds the wait for the result. Default: DefaultSubmitTimeout
	Timeout time.Duration

	// Logger defaults to slog.Default()
	Logger *slog.Logger
}

// Submit queues info for a registered backend and waits for its result.
// A failed simulation is returned together with an error of KindExecution.
func Submit(ctx context.Context, client queue.Client, info *simdata.NetlistInfo, so SubmitOptions) (*queue.Result, error) {
	const op = "Submit"
	logger := so.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := so.Timeout
	if timeout <= 0 {
		timeout = DefaultSubmitTimeout
	}
	if so.Backend == "" {
		return nil, NewConfigurationError(op, errors.New("backend is required"))
	}

	backends, err := client.ListBackends(ctx)
	if err != nil {
		return nil, NewNetworkError(op, err)
	}
	var meta *queue.BackendMeta
	for i := range backends {
		if backends[i].Name == so.Backend {
			meta = &backends[i]
			break
		}
	}
	if meta == nil {
		return nil, NewNotFoundError(op, fmt.Errorf("%w: %s", ErrBackendNotFound, so.Backend))
	}

	job, err := queue.NewJob(ctx, so.Backend, so.Testbench, info)
	if err != nil {
		return nil, NewValidationError(op, err)
	}
	if !meta.Supports(job.Analysis) {
		return nil, NewValidationError(op, fmt.Errorf("%w: %s does not accept %s",
			ErrUnsupportedAnalysis, so.Backend, job.Analysis))
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Subscribe before pushing so the result cannot be missed.
	results, err := client.Subscribe(ctx, job.JobID)
	if err != nil {
		return nil, NewNetworkError(op, err)
	}
	if err := client.Push(ctx, job); err != nil {
		return nil, NewNetworkError(op, err)
	}
	logger.Info("submitted job",
		"job_id", job.JobID,
		"backend", job.Backend,
		"analysis", job.Analysis)

	select {
	case res, ok := <-results:
		if !ok {
			return nil, waitError(ctx, op, job.JobID)
		}
		logger.Debug("received result",
			"job_id", res.JobID,
			"status", res.Status,
			"duration", res.Duration())
		if res.HasError() {
			return &res, NewExecutionError(op, fmt.Errorf("%w: %s", ErrSimulationFailed, res.Error)).
				WithContext(map[string]any{"job_id": job.JobID, "worker_id": res.WorkerID})
		}
		return &res, nil
	case <-ctx.Done():
		return nil, waitError(ctx, op, job.JobID)
	}
}

func waitError(ctx context.Context, op, jobID string) error {
	err := ctx.Err()
	if err == nil {
		err = errors.New("result subscription closed")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(op, err).WithContext(map[string]any{"job_id": jobID})
	}
	return NewNetworkError(op, err).WithContext(map[string]any{"job_id": jobID})
}

func classifyBuild(op string, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, testbench.ErrUnknownKind) {
		return NewNotFoundError(op, err)
	}
	return NewValidationError(op, err)
}
