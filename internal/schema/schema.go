// Package schema validates tool arguments against declarative parameter
// descriptions before a handler runs. The MCP tool definitions advertise
// parameter shapes to clients, but nothing enforces them on the way in; this
// package is that enforcement point, so handlers can assume well-typed input.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the JSON-level type a field accepts.
type Type string

const (
	String  Type = "string"
	Integer Type = "integer"
	Number  Type = "number"
	Boolean Type = "boolean"
	Array   Type = "array"
)

// Field constrains a single named argument. Min/Max bound numeric values,
// MinLen bounds string length, MinItems bounds array length. Default is
// applied only when the key is entirely absent from the input.
type Field struct {
	Type     Type
	Required bool
	Min      *float64
	Max      *float64
	MinLen   int
	MinItems int
	Default  any
}

// Object is a named set of field constraints.
type Object map[string]Field

// ValidationError aggregates every violation found in one pass so the caller
// sees all problems at once rather than fixing them one by one.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, ", ")
}

// MinMax is a convenience for pointer-typed numeric bounds.
func MinMax(min, max float64) (*float64, *float64) {
	return &min, &max
}

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 { return &v }

// Validate checks args against the object, mutating args in place: defaults
// are filled in for absent keys and JSON numbers are coerced to int for
// integer fields. All violations are collected; the returned error is nil
// only when every field passes.
func (o Object) Validate(args map[string]any) error {
	var violations []string

	// Deterministic violation order regardless of map iteration.
	names := make([]string, 0, len(o))
	for name := range o {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		field := o[name]
		value, present := args[name]

		if !present {
			if field.Required {
				violations = append(violations, fmt.Sprintf("%s: required parameter is missing", name))
			} else if field.Default != nil {
				args[name] = field.Default
			}
			continue
		}

		if msgs := checkField(name, field, value, args); len(msgs) > 0 {
			violations = append(violations, msgs...)
		}
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

func checkField(name string, field Field, value any, args map[string]any) []string {
	var msgs []string

	switch field.Type {
	case String:
		s, ok := value.(string)
		if !ok {
			return []string{fmt.Sprintf("%s: expected string, got %T", name, value)}
		}
		if field.MinLen > 0 && len(s) < field.MinLen {
			msgs = append(msgs, fmt.Sprintf("%s: must be at least %d characters", name, field.MinLen))
		}

	case Integer:
		n, ok := asNumber(value)
		if !ok {
			return []string{fmt.Sprintf("%s: expected integer, got %T", name, value)}
		}
		if n != float64(int(n)) {
			return []string{fmt.Sprintf("%s: expected integer, got fractional number", name)}
		}
		// JSON decoding hands every number over as float64.
		args[name] = int(n)
		msgs = append(msgs, checkBounds(name, field, n)...)

	case Number:
		n, ok := asNumber(value)
		if !ok {
			return []string{fmt.Sprintf("%s: expected number, got %T", name, value)}
		}
		msgs = append(msgs, checkBounds(name, field, n)...)

	case Boolean:
		if _, ok := value.(bool); !ok {
			return []string{fmt.Sprintf("%s: expected boolean, got %T", name, value)}
		}

	case Array:
		items, ok := value.([]any)
		if !ok {
			return []string{fmt.Sprintf("%s: expected array, got %T", name, value)}
		}
		if len(items) < field.MinItems {
			msgs = append(msgs, fmt.Sprintf("%s: must contain at least %d items", name, field.MinItems))
		}
	}

	return msgs
}

func checkBounds(name string, field Field, n float64) []string {
	var msgs []string
	if field.Min != nil && n < *field.Min {
		msgs = append(msgs, fmt.Sprintf("%s: must be at least %v", name, *field.Min))
	}
	if field.Max != nil && n > *field.Max {
		msgs = append(msgs, fmt.Sprintf("%s: must be at most %v", name, *field.Max))
	}
	return msgs
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
