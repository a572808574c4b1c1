package testbench

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/zero-day-ai/simsetup/enum"
)

// Factory creates a testbench from a spec mapping.
type Factory func(specs map[string]any, cfg *Config) (Testbench, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{
		"dc": func(specs map[string]any, cfg *Config) (Testbench, error) {
			return NewDC(specs, cfg)
		},
		"pss": func(specs map[string]any, cfg *Config) (Testbench, error) {
			return NewPSS(specs, cfg)
		},
		"tran": func(specs map[string]any, cfg *Config) (Testbench, error) {
			return NewTran(specs, cfg)
		},
	}
)

func init() {
	enum.Register("testbench", "kind", map[string]string{
		"dc":           "dc",
		"pss":          "pss",
		"steady_state": "pss",
		"tran":         "tran",
		"transient":    "tran",
	})
}

// Register adds a factory under kind, replacing any existing one. Kinds
// are stored lowercase.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[strings.ToLower(kind)] = f
}

// New creates the testbench registered for kind. Kinds are matched
// case-insensitively and accept aliases such as "transient".
func New(kind string, specs map[string]any, cfg *Config) (Testbench, error) {
	canonical, _ := enum.Normalize("testbench", "kind", kind)
	canonical = strings.ToLower(canonical)

	mu.RLock()
	f, ok := factories[canonical]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownKind, kind, Kinds())
	}
	return f(specs, cfg)
}

// Kinds returns the registered kinds in sorted order.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()

	kinds := make([]string, 0, len(factories))
	for kind := range factories {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
