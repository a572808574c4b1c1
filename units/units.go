// Package units parses and formats values written in engineering notation.
//
// Simulator specs commonly carry values such as "10n", "2.5meg" or "1e-12".
// Parse turns those into float64; Format renders a float64 back with the
// closest scale suffix for human-readable summaries.
package units

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Suffixes maps engineering suffixes to their multipliers.
// "M" is deliberately absent: SPICE reads it as milli, Spectre as mega.
var Suffixes = map[string]float64{
	"T":   1e12,
	"G":   1e9,
	"meg": 1e6,
	"K":   1e3,
	"k":   1e3,
	"m":   1e-3,
	"u":   1e-6,
	"n":   1e-9,
	"p":   1e-12,
	"f":   1e-15,
	"a":   1e-18,
}

var valueRe = regexp.MustCompile(`^([-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?)(meg|[TGKkmunpfa])?([a-zA-Z]*)$`)

// Parse converts a numeric string with an optional engineering suffix and an
// optional trailing unit name ("10ns", "1.5pF") into a float64.
func Parse(s string) (float64, error) {
	matches := valueRe.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return 0, fmt.Errorf("invalid value format: %q", s)
	}

	if strings.HasPrefix(matches[3], "M") {
		return 0, fmt.Errorf("ambiguous scale suffix M in %q: use m or meg", s)
	}

	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value format: %q: %w", s, err)
	}

	if matches[2] != "" {
		num *= Suffixes[matches[2]]
	}

	return num, nil
}

// Format renders value with the closest engineering prefix followed by unit.
func Format(value float64, unit string) string {
	absValue := math.Abs(value)
	switch {
	case value == 0:
		return fmt.Sprintf("0 %s", unit)
	case absValue >= 1e12:
		return fmt.Sprintf("%.3g T%s", value/1e12, unit)
	case absValue >= 1e9:
		return fmt.Sprintf("%.3g G%s", value/1e9, unit)
	case absValue >= 1e6:
		return fmt.Sprintf("%.3g M%s", value/1e6, unit)
	case absValue >= 1e3:
		return fmt.Sprintf("%.3g k%s", value/1e3, unit)
	case absValue >= 1:
		return fmt.Sprintf("%.3g %s", value, unit)
	case absValue >= 1e-3:
		return fmt.Sprintf("%.3g m%s", value*1e3, unit)
	case absValue >= 1e-6:
		return fmt.Sprintf("%.3g u%s", value*1e6, unit)
	case absValue >= 1e-9:
		return fmt.Sprintf("%.3g n%s", value*1e9, unit)
	case absValue >= 1e-12:
		return fmt.Sprintf("%.3g p%s", value*1e12, unit)
	case absValue >= 1e-15:
		return fmt.Sprintf("%.3g f%s", value*1e15, unit)
	default:
		return fmt.Sprintf("%.3e %s", value, unit)
	}
}

// FormatFrequency renders a frequency in Hz, kHz, MHz or GHz.
func FormatFrequency(freq float64) string {
	switch {
	case freq >= 1e9:
		return fmt.Sprintf("%.3f GHz", freq/1e9)
	case freq >= 1e6:
		return fmt.Sprintf("%.3f MHz", freq/1e6)
	case freq >= 1e3:
		return fmt.Sprintf("%.3f kHz", freq/1e3)
	default:
		return fmt.Sprintf("%.3f Hz", freq)
	}
}
