// Package expr evaluates simulator parameter expressions such as "2*t_per + 1n".
//
// Expressions are compiled with CEL after a light rewrite: integer literals
// become doubles and engineering suffixes expand into multiplications, so the
// arithmetic that spec files use ("t_sim/2", "10n", "3*vdd") evaluates the way
// a simulator would read it. Identifiers are bound as doubles.
package expr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/zero-day-ai/simsetup/units"
)

var (
	// ErrUndefined indicates the expression references an unknown parameter.
	ErrUndefined = errors.New("undefined parameter")

	// ErrInvalid indicates the expression failed to compile or evaluate to a number.
	ErrInvalid = errors.New("invalid expression")
)

var keywords = map[string]bool{
	"true":  true,
	"false": true,
	"null":  true,
	"in":    true,
}

// Eval evaluates src with params bound as double variables.
func Eval(src string, params map[string]float64) (float64, error) {
	rewritten, idents, err := rewrite(src)
	if err != nil {
		return 0, err
	}

	opts := make([]cel.EnvOption, 0, len(idents))
	activation := make(map[string]any, len(idents))
	for _, name := range idents {
		val, ok := params[name]
		if !ok {
			return 0, fmt.Errorf("%w: %s in %q", ErrUndefined, name, src)
		}
		opts = append(opts, cel.Variable(name, cel.DoubleType))
		activation[name] = val
	}

	env, err := cel.NewEnv(opts...)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalid, src, err)
	}

	ast, issues := env.Compile(rewritten)
	if issues != nil && issues.Err() != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalid, src, issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalid, src, err)
	}

	out, _, err := prg.Eval(activation)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalid, src, err)
	}

	var result float64
	switch v := out.Value().(type) {
	case float64:
		result = v
	case int64:
		result = float64(v)
	default:
		return 0, fmt.Errorf("%w: %q evaluates to %T, not a number", ErrInvalid, src, v)
	}

	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, fmt.Errorf("%w: %q evaluates to %v", ErrInvalid, src, result)
	}
	return result, nil
}

// Identifiers returns the parameter names referenced by src, in order of
// first appearance. Function names and engineering suffixes are excluded.
func Identifiers(src string) []string {
	_, idents, err := rewrite(src)
	if err != nil {
		return nil
	}
	return idents
}

// rewrite converts src into CEL source and collects referenced identifiers.
func rewrite(src string) (string, []string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil, fmt.Errorf("%w: empty expression", ErrInvalid)
	}

	var b strings.Builder
	var idents []string
	seen := make(map[string]bool)

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case isIdentStart(c):
			j := i + 1
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			name := src[i:j]
			b.WriteString(name)
			isCall := nextNonSpace(src, j) == '('
			isMember := i > 0 && src[i-1] == '.'
			if !isCall && !isMember && !keywords[name] && !seen[name] {
				seen[name] = true
				idents = append(idents, name)
			}
			i = j

		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			literal, next, err := scanNumber(src, i)
			if err != nil {
				return "", nil, err
			}
			b.WriteString(literal)
			i = next

		default:
			b.WriteByte(c)
			i++
		}
	}

	return b.String(), idents, nil
}

// scanNumber reads a numeric literal with an optional engineering suffix
// starting at src[start] and returns it as a CEL double expression.
func scanNumber(src string, start int) (string, int, error) {
	i := start
	for i < len(src) && isDigit(src[i]) {
		i++
	}
	if i < len(src) && src[i] == '.' {
		i++
		for i < len(src) && isDigit(src[i]) {
			i++
		}
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		if j < len(src) && isDigit(src[j]) {
			for j < len(src) && isDigit(src[j]) {
				j++
			}
			i = j
		}
	}

	num, err := strconv.ParseFloat(src[start:i], 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w: bad number %q", ErrInvalid, src[start:i])
	}

	multiplier := 1.0
	switch {
	case strings.HasPrefix(src[i:], "meg"):
		multiplier = units.Suffixes["meg"]
		i += len("meg")
		i = skipLetters(src, i)
	case i < len(src) && isSuffix(src[i]):
		multiplier = units.Suffixes[string(src[i])]
		i = skipLetters(src, i+1)
	case i < len(src) && isIdentStart(src[i]):
		return "", 0, fmt.Errorf("%w: unknown suffix in %q", ErrInvalid, src[start:skipLetters(src, i)])
	}

	return strconv.FormatFloat(num*multiplier, 'e', -1, 64), i, nil
}

func skipLetters(src string, i int) int {
	for i < len(src) && isLetter(src[i]) {
		i++
	}
	return i
}

func nextNonSpace(src string, i int) byte {
	for i < len(src) && src[i] == ' ' {
		i++
	}
	if i < len(src) {
		return src[i]
	}
	return 0
}

func isSuffix(c byte) bool {
	_, ok := units.Suffixes[string(c)]
	return ok
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return isLetter(c) || c == '_'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
