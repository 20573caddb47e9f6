// Package template expands blackboard references embedded in literal
// input values. Strings may reference blackboard keys as ${name} or
// $name; a string that consists of exactly one ${name} reference
// resolves to the referenced value itself, preserving its type.
package template

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// bracePattern matches ${varname} with an identifier-shaped name.
	bracePattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

	// dollarPattern matches $varname up to a word boundary, so $port
	// does not match inside $portNumber.
	dollarPattern = regexp.MustCompile(`\$([a-zA-Z_][a-zA-Z0-9_]*)(?:\b|$)`)

	// wholePattern matches a string that is exactly one brace reference.
	wholePattern = regexp.MustCompile(`^\$\{([a-zA-Z_][a-zA-Z0-9_]*)\}$`)
)

// MissingAction specifies how to handle unresolved references.
type MissingAction int

const (
	// MissingKeep keeps the placeholder as-is. This is the default.
	MissingKeep MissingAction = iota

	// MissingEmpty replaces the placeholder with an empty string.
	MissingEmpty

	// MissingError fails the expansion.
	MissingError
)

// Option configures an Expander.
type Option func(*Expander)

// WithMissingAction sets how unresolved references are handled.
func WithMissingAction(action MissingAction) Option {
	return func(e *Expander) {
		e.missingAction = action
	}
}

// WithDollarStyle enables or disables bare $var expansion. Brace
// references always expand.
func WithDollarStyle(enabled bool) Option {
	return func(e *Expander) {
		e.dollarStyle = enabled
	}
}

// Expander expands variable references in strings and value trees.
// Safe for concurrent use after construction.
type Expander struct {
	missingAction MissingAction
	dollarStyle   bool
}

// New creates an Expander. Defaults: MissingKeep, both reference
// styles enabled.
func New(opts ...Option) *Expander {
	e := &Expander{
		missingAction: MissingKeep,
		dollarStyle:   true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand replaces variable references in s with values from vars.
// An error is returned only under MissingError when a reference has no
// value.
func (e *Expander) Expand(s string, vars map[string]any) (string, error) {
	if s == "" {
		return "", nil
	}

	var missing []string
	replace := func(match, name string) string {
		if val, ok := vars[name]; ok {
			return fmt.Sprintf("%v", val)
		}
		switch e.missingAction {
		case MissingEmpty:
			return ""
		case MissingError:
			missing = append(missing, name)
			return match
		default:
			return match
		}
	}

	result := bracePattern.ReplaceAllStringFunc(s, func(match string) string {
		return replace(match, match[2:len(match)-1])
	})
	if e.dollarStyle {
		result = dollarPattern.ReplaceAllStringFunc(result, func(match string) string {
			return replace(match, match[1:])
		})
	}

	if len(missing) > 0 {
		return result, &UndefinedVariableError{Names: missing}
	}
	return result, nil
}

// ExpandValue expands a value tree: strings expand, maps and slices
// recurse, everything else passes through untouched.
//
// A string that is exactly one ${name} reference resolves to the
// referenced value itself, so non-string blackboard values survive
// with their type.
func (e *Expander) ExpandValue(v any, vars map[string]any) (any, error) {
	switch val := v.(type) {
	case string:
		if m := wholePattern.FindStringSubmatch(val); m != nil {
			if resolved, ok := vars[m[1]]; ok {
				return resolved, nil
			}
		}
		return e.Expand(val, vars)
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, item := range val {
			expanded, err := e.ExpandValue(item, vars)
			if err != nil {
				return nil, err
			}
			result[k] = expanded
		}
		return result, nil
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			expanded, err := e.ExpandValue(item, vars)
			if err != nil {
				return nil, err
			}
			result[i] = expanded
		}
		return result, nil
	default:
		return v, nil
	}
}

// UndefinedVariableError is returned under MissingError when one or
// more references have no value.
type UndefinedVariableError struct {
	Names []string
}

func (e *UndefinedVariableError) Error() string {
	if len(e.Names) == 1 {
		return fmt.Sprintf("undefined variable: %s", e.Names[0])
	}
	return fmt.Sprintf("undefined variables: %s", strings.Join(e.Names, ", "))
}

// defaultExpander backs the package-level helpers.
var defaultExpander = New()

// Expand expands s with the default expander (MissingKeep, so it never
// fails).
func Expand(s string, vars map[string]any) string {
	result, _ := defaultExpander.Expand(s, vars)
	return result
}

// ExpandValue expands a value tree with the default expander.
func ExpandValue(v any, vars map[string]any) any {
	result, _ := defaultExpander.ExpandValue(v, vars)
	return result
}
