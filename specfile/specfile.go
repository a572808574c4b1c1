// Package specfile loads testbench spec files.
//
// A spec file names a testbench kind and carries its spec mapping:
//
//	name: inverter_tran
//	kind: tran
//	description: Inverter step response
//	specs:
//	  sim_envs: [tt_25, ss_125]
//	  sim_params:
//	    t_sim: 10n
//	  t_step: 1p
//
// Files are YAML; JSON documents parse as well.
package specfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zero-day-ai/simsetup/enum"
	"github.com/zero-day-ai/simsetup/input"
	"github.com/zero-day-ai/simsetup/testbench"
)

// ErrNotFound indicates no spec file exists at or above the searched path.
var ErrNotFound = errors.New("spec file not found")

// FileNames lists the names Load looks for inside a directory, in order.
var FileNames = []string{"simsetup.yaml", "simsetup.yml", "simsetup.json"}

// File is a parsed spec file.
type File struct {
	Name        string         `yaml:"name"`
	Kind        string         `yaml:"kind"`
	Description string         `yaml:"description,omitempty"`
	Tags        []string       `yaml:"tags,omitempty"`
	Specs       map[string]any `yaml:"specs"`

	// Submit configures queue submission of the built setup.
	Submit *SubmitConfig `yaml:"submit,omitempty"`

	// Path is the file the spec was loaded from.
	Path string `yaml:"-"`
}

// SubmitConfig defines how a built setup is handed to a simulation backend.
type SubmitConfig struct {
	// Backend is the simulation backend queue name, e.g. "spectre".
	Backend string `yaml:"backend,omitempty"`

	// RedisURL overrides the queue connection URL.
	RedisURL string `yaml:"redis_url,omitempty"`

	// Timeout bounds how long to wait for the job result.
	// Format: Go duration string (e.g., "5m")
	// Default: 10m
	Timeout string `yaml:"timeout,omitempty"`
}

// GetTimeout parses the timeout string and returns a duration.
// Returns the default value if not set or invalid.
func (s *SubmitConfig) GetTimeout() time.Duration {
	if s == nil || s.Timeout == "" {
		return 10 * time.Minute
	}
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 10 * time.Minute
	}
	return d
}

// GetBackend returns the backend or fallback when unset.
func (s *SubmitConfig) GetBackend(fallback string) string {
	if s == nil || s.Backend == "" {
		return fallback
	}
	return s.Backend
}

// Parse decodes a spec file from YAML or JSON.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse spec file: %w", err)
	}
	if f.Specs != nil {
		f.Specs = normalize(f.Specs).(map[string]any)
	}
	return &f, nil
}

// Validate checks that the file names a known kind and carries specs.
func (f *File) Validate() error {
	var errs []error
	if f.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if f.Kind == "" {
		errs = append(errs, errors.New("kind is required"))
	} else if canonical, _ := enum.Normalize("testbench", "kind", f.Kind); !slices.Contains(testbench.Kinds(), canonical) {
		errs = append(errs, fmt.Errorf("%w: %q", testbench.ErrUnknownKind, f.Kind))
	}
	if len(f.Specs) == 0 {
		errs = append(errs, errors.New("specs are required"))
	}
	if f.Submit != nil && f.Submit.Timeout != "" {
		if _, err := time.ParseDuration(f.Submit.Timeout); err != nil {
			errs = append(errs, fmt.Errorf("submit.timeout: %w", err))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	where := f.Path
	if where == "" {
		where = f.Name
	}
	return fmt.Errorf("spec file %s: %w", where, errors.Join(errs...))
}

// Testbench creates the testbench the file describes.
func (f *File) Testbench(cfg *testbench.Config) (testbench.Testbench, error) {
	return testbench.New(f.Kind, f.Specs, cfg)
}

// Load reads and parses a spec file from the given path.
// If the path is a directory, it looks for the names in FileNames.
func Load(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	specPath := path
	if info.IsDir() {
		specPath = ""
		for _, name := range FileNames {
			candidate := filepath.Join(path, name)
			if _, err := os.Stat(candidate); err == nil {
				specPath = candidate
				break
			}
		}
		if specPath == "" {
			return nil, fmt.Errorf("%w in %s", ErrNotFound, path)
		}
	}

	data, err := os.ReadFile(specPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", specPath, err)
	}
	f.Path = specPath
	return f, nil
}

// LoadFromDir searches for a spec file starting from the given directory
// and walking up to parent directories until found or root is reached.
func LoadFromDir(dir string) (*File, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		f, err := Load(absDir)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}

		parent := filepath.Dir(absDir)
		if parent == absDir {
			return nil, fmt.Errorf("%w in %s or parent directories", ErrNotFound, dir)
		}
		absDir = parent
	}
}

// LoadFromCurrentDir loads the spec file for the current working directory.
func LoadFromCurrentDir() (*File, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return LoadFromDir(cwd)
}

// normalize converts nested map[any]any values to map[string]any.
func normalize(v any) any {
	if m, ok := input.AsMap(v); ok {
		out := make(map[string]any, len(m))
		for k, item := range m {
			out[k] = normalize(item)
		}
		return out
	}
	if m, ok := v.(map[any]any); ok {
		out := make(map[string]any, len(m))
		for k, item := range m {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	}
	if items, ok := v.([]any); ok {
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = normalize(item)
		}
		return out
	}
	return v
}
