package queue

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/zero-day-ai/simsetup/simdata"
)

// Result statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Key schema.
const (
	keyPrefix   = "sim"
	BackendsKey = "sim:backends"
)

// QueueKey returns the list key holding jobs for backend.
func QueueKey(backend string) string { return formatKeyName(keyPrefix, backend, "queue") }

// MetaKey returns the hash key holding backend metadata.
func MetaKey(backend string) string { return formatKeyName(keyPrefix, backend, "meta") }

// HealthKey returns the heartbeat key for backend.
func HealthKey(backend string) string { return formatKeyName(keyPrefix, backend, "health") }

// ResultsChannel returns the pub/sub channel results for jobID are published on.
func ResultsChannel(jobID string) string { return formatKeyName("results", jobID) }

// netlistInputType is the message type carried in Job.NetlistJSON.
var netlistInputType = string((&structpb.Struct{}).ProtoReflect().Descriptor().FullName())

// Job is one netlist setup submitted to a simulation backend's queue.
type Job struct {
	// JobID is a UUID identifying the job and its result channel
	JobID string `json:"job_id"`

	// Backend is the simulation backend the job is queued for
	Backend string `json:"backend"`

	// Testbench is the name of the spec the setup was built from
	Testbench string `json:"testbench"`

	// Analysis lists the analysis tags in the setup, comma separated
	Analysis string `json:"analysis"`

	// NetlistJSON is the normalized netlist setup as a protobuf Struct in JSON form
	NetlistJSON string `json:"netlist_json"`

	// InputType is the fully-qualified protobuf message type of NetlistJSON
	InputType string `json:"input_type"`

	// TraceID is the distributed tracing trace ID for observability
	TraceID string `json:"trace_id,omitempty"`

	// SpanID is the distributed tracing span ID for observability
	SpanID string `json:"span_id,omitempty"`

	// SubmittedAt is the Unix timestamp in milliseconds when the job was submitted
	SubmittedAt int64 `json:"submitted_at"`
}

// NewJob packages info for backend. The trace context of ctx, if any, is
// carried along.
func NewJob(ctx context.Context, backend, testbench string, info *simdata.NetlistInfo) (Job, error) {
	if info == nil {
		return Job{}, fmt.Errorf("netlist info is required")
	}
	data, err := info.MarshalProtoJSON()
	if err != nil {
		return Job{}, fmt.Errorf("failed to encode netlist info: %w", err)
	}

	types := make([]string, 0, len(info.Analyses))
	for _, t := range info.AnalysisTypes() {
		types = append(types, string(t))
	}

	job := Job{
		JobID:       uuid.NewString(),
		Backend:     backend,
		Testbench:   testbench,
		Analysis:    strings.Join(types, ","),
		NetlistJSON: string(data),
		InputType:   netlistInputType,
		SubmittedAt: time.Now().UnixMilli(),
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		job.TraceID = sc.TraceID().String()
		job.SpanID = sc.SpanID().String()
	}
	return job, nil
}

// NetlistInfo decodes the job's netlist setup.
func (j *Job) NetlistInfo() (*simdata.NetlistInfo, error) {
	if j.InputType != netlistInputType {
		return nil, fmt.Errorf("unsupported input_type %q", j.InputType)
	}
	return simdata.UnmarshalProtoJSON([]byte(j.NetlistJSON))
}

// IsValid checks if the Job has all required fields populated correctly.
// Returns an error describing any validation failures.
func (j *Job) IsValid() error {
	if j.JobID == "" {
		return fmt.Errorf("job_id is required")
	}
	if _, err := uuid.Parse(j.JobID); err != nil {
		return fmt.Errorf("job_id must be a UUID: %w", err)
	}
	if j.Backend == "" {
		return fmt.Errorf("backend is required")
	}
	if j.NetlistJSON == "" {
		return fmt.Errorf("netlist_json is required")
	}
	if j.InputType == "" {
		return fmt.Errorf("input_type is required")
	}
	if j.SubmittedAt <= 0 {
		return fmt.Errorf("submitted_at must be positive, got %d", j.SubmittedAt)
	}
	return nil
}

// Age returns the duration since this job was submitted.
func (j *Job) Age() time.Duration {
	if j.SubmittedAt <= 0 {
		return 0
	}
	now := time.Now().UnixMilli()
	return time.Duration(now-j.SubmittedAt) * time.Millisecond
}

// Result is the outcome of running a Job, published on ResultsChannel(JobID).
type Result struct {
	// JobID correlates this result with the original job
	JobID string `json:"job_id"`

	// Status is StatusCompleted or StatusFailed
	Status string `json:"status"`

	// OutputDir is where the backend left simulation data
	// Empty if Error is set
	OutputDir string `json:"output_dir,omitempty"`

	// Error is the error message if the simulation failed
	Error string `json:"error,omitempty"`

	// WorkerID is the unique identifier of the worker that ran the job
	WorkerID string `json:"worker_id"`

	// StartedAt is the Unix timestamp in milliseconds when the simulation started
	StartedAt int64 `json:"started_at"`

	// CompletedAt is the Unix timestamp in milliseconds when the simulation completed
	CompletedAt int64 `json:"completed_at"`
}

// HasError returns true if the result represents a failed simulation.
func (r *Result) HasError() bool {
	return r.Status == StatusFailed || r.Error != ""
}

// Duration returns the wall-clock time the worker spent on the job.
func (r *Result) Duration() time.Duration {
	if r.StartedAt <= 0 || r.CompletedAt <= 0 {
		return 0
	}
	return time.Duration(r.CompletedAt-r.StartedAt) * time.Millisecond
}

// IsValid checks if the Result has all required fields populated correctly.
func (r *Result) IsValid() error {
	if r.JobID == "" {
		return fmt.Errorf("job_id is required")
	}
	if r.Status != StatusCompleted && r.Status != StatusFailed {
		return fmt.Errorf("status must be %q or %q, got %q", StatusCompleted, StatusFailed, r.Status)
	}
	if r.WorkerID == "" {
		return fmt.Errorf("worker_id is required")
	}
	if r.StartedAt <= 0 {
		return fmt.Errorf("started_at must be positive, got %d", r.StartedAt)
	}
	if r.CompletedAt <= 0 {
		return fmt.Errorf("completed_at must be positive, got %d", r.CompletedAt)
	}
	if r.CompletedAt < r.StartedAt {
		return fmt.Errorf("completed_at (%d) cannot be before started_at (%d)", r.CompletedAt, r.StartedAt)
	}
	if r.Status == StatusFailed && r.Error == "" {
		return fmt.Errorf("error is required when status is %q", StatusFailed)
	}
	return nil
}

// BackendMeta describes a registered simulation backend.
// It is stored as a Redis hash and used for backend discovery.
type BackendMeta struct {
	// Name is the unique backend identifier and queue name
	Name string `json:"name"`

	// Version is the version of the backend worker
	Version string `json:"version"`

	// Description is a human-readable description of the backend
	Description string `json:"description"`

	// Simulator names the simulator the backend drives (e.g., "spectre", "ngspice")
	Simulator string `json:"simulator"`

	// Analyses lists the analysis tags the backend accepts
	Analyses []string `json:"analyses"`

	// WorkerCount is the number of active workers for this backend
	WorkerCount int `json:"worker_count"`
}

// IsValid checks if the BackendMeta has all required fields populated correctly.
func (b *BackendMeta) IsValid() error {
	if b.Name == "" {
		return fmt.Errorf("backend name is required")
	}
	if strings.Contains(b.Name, ":") {
		return fmt.Errorf("backend name %q must not contain ':'", b.Name)
	}
	if b.Version == "" {
		return fmt.Errorf("version is required")
	}
	if b.WorkerCount < 0 {
		return fmt.Errorf("worker_count must be non-negative, got %d", b.WorkerCount)
	}
	return nil
}

// Supports reports whether the backend accepts every analysis in the
// comma-separated list. A backend without an Analyses list accepts all.
func (b *BackendMeta) Supports(analysis string) bool {
	if len(b.Analyses) == 0 {
		return true
	}
	for _, a := range strings.Split(analysis, ",") {
		if a != "" && !slices.Contains(b.Analyses, a) {
			return false
		}
	}
	return true
}
