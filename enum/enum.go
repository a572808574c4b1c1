package enum

import (
	"strings"
	"sync"
)

// registry maps domain -> field -> lowercase alias -> canonical value.
var (
	registry = make(map[string]map[string]map[string]string)
	mu       sync.RWMutex
)

// Register registers alias mappings for a field within a domain.
// domain: the owner of the field (e.g., "sweep", "testbench")
// fieldName: the spec key holding the value (e.g., "type")
// mappings: map of alias values to canonical values (e.g., {"lin": "LINEAR"})
func Register(domain, fieldName string, mappings map[string]string) {
	mu.Lock()
	defer mu.Unlock()

	if registry[domain] == nil {
		registry[domain] = make(map[string]map[string]string)
	}

	if registry[domain][fieldName] == nil {
		registry[domain][fieldName] = make(map[string]string)
	}

	// Store mappings with lowercase keys for case-insensitive lookup
	for alias, canonical := range mappings {
		registry[domain][fieldName][strings.ToLower(alias)] = canonical
	}
}

// RegisterBatch registers multiple field mappings for a domain at once.
func RegisterBatch(domain string, fieldMappings map[string]map[string]string) {
	for fieldName, mappings := range fieldMappings {
		Register(domain, fieldName, mappings)
	}
}

// Normalize returns the canonical value registered for value, matched
// case-insensitively and ignoring surrounding whitespace. The second result
// is false when no mapping exists, in which case value is returned unchanged.
func Normalize(domain, fieldName, value string) (string, bool) {
	mu.RLock()
	defer mu.RUnlock()

	fieldMappings, ok := registry[domain][fieldName]
	if !ok {
		return value, false
	}

	canonical, ok := fieldMappings[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return value, false
	}
	return canonical, true
}

// NormalizeMap returns a shallow copy of m with every registered field of
// domain replaced by its canonical value. Non-string and unknown values are
// left untouched.
func NormalizeMap(domain string, m map[string]any) map[string]any {
	if m == nil {
		return nil
	}

	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}

	mu.RLock()
	domainMappings, exists := registry[domain]
	mu.RUnlock()
	if !exists {
		return out
	}

	for fieldName := range domainMappings {
		str, ok := out[fieldName].(string)
		if !ok {
			continue
		}
		if canonical, found := Normalize(domain, fieldName, str); found {
			out[fieldName] = canonical
		}
	}

	return out
}

// Values returns the distinct canonical values registered for a field.
func Values(domain, fieldName string) []string {
	mu.RLock()
	defer mu.RUnlock()

	seen := make(map[string]bool)
	var values []string
	for _, canonical := range registry[domain][fieldName] {
		if !seen[canonical] {
			seen[canonical] = true
			values = append(values, canonical)
		}
	}
	return values
}

// GetMappings returns all alias mappings for a specific domain.
// Returns nil if the domain has no registered mappings.
func GetMappings(domain string) map[string]map[string]string {
	mu.RLock()
	defer mu.RUnlock()

	domainMappings, exists := registry[domain]
	if !exists {
		return nil
	}

	// Return a deep copy to prevent external modifications
	result := make(map[string]map[string]string)
	for fieldName, fieldMappings := range domainMappings {
		result[fieldName] = make(map[string]string)
		for alias, canonical := range fieldMappings {
			result[fieldName][alias] = canonical
		}
	}

	return result
}

// Clear resets the entire alias registry.
// This is primarily useful for testing.
func Clear() {
	mu.Lock()
	defer mu.Unlock()

	registry = make(map[string]map[string]map[string]string)
}
