// Package schema provides declared input shapes and validation for tool and
// prompt parameters.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Kind is the primitive kind a parameter must have.
type Kind string

// Supported parameter kinds.
const (
	String  Kind = "string"
	Number  Kind = "number"
	Boolean Kind = "boolean"
)

// Field declares a single parameter in a Shape.
type Field struct {
	Kind        Kind
	Description string
	Required    bool
}

// Shape maps parameter names to their declared fields. A nil or empty Shape
// means the operation accepts and ignores all parameters.
type Shape map[string]Field

// Values holds parameters that passed validation. Only declared fields are
// present; unknown incoming fields are dropped.
type Values map[string]any

// String returns the named value as a string, or "" if absent.
func (v Values) String(name string) string {
	s, _ := v[name].(string)

	return s
}

// Float returns the named value as a float64, or 0 if absent.
func (v Values) Float(name string) float64 {
	switch n := v[name].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

// Bool returns the named value as a bool, or false if absent.
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)

	return b
}

// FieldError describes a single parameter that failed validation.
type FieldError struct {
	Name     string
	Expected Kind
	Missing  bool
}

func (e FieldError) String() string {
	if e.Missing {
		return fmt.Sprintf("missing required parameter %q (%s)", e.Name, e.Expected)
	}

	return fmt.Sprintf("invalid parameter %q: expected %s", e.Name, e.Expected)
}

// ValidationError reports every field that failed validation for one
// invocation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.String()
	}

	return strings.Join(msgs, "; ")
}

// Validate checks raw parameters against the shape and returns the validated
// values. Validation is pure: it never mutates raw. A nil or empty shape
// skips validation entirely and yields an empty Values.
func Validate(shape Shape, raw map[string]any) (Values, error) {
	if len(shape) == 0 {
		return Values{}, nil
	}

	var failed []FieldError

	values := make(Values, len(shape))

	// Deterministic field order so multi-field errors read stably.
	names := make([]string, 0, len(shape))
	for name := range shape {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		field := shape[name]

		val, ok := raw[name]
		if !ok || val == nil {
			if field.Required {
				failed = append(failed, FieldError{Name: name, Expected: field.Kind, Missing: true})
			}

			continue
		}

		coerced, ok := coerce(field.Kind, val)
		if !ok {
			failed = append(failed, FieldError{Name: name, Expected: field.Kind})

			continue
		}

		values[name] = coerced
	}

	if len(failed) > 0 {
		return nil, &ValidationError{Fields: failed}
	}

	return values, nil
}

// coerce checks that val has the declared primitive kind. JSON decoding
// produces float64 for all numbers, but integers arriving from in-process
// callers are accepted as numbers too.
func coerce(kind Kind, val any) (any, bool) {
	switch kind {
	case String:
		s, ok := val.(string)

		return s, ok
	case Number:
		switch n := val.(type) {
		case float64:
			return n, true
		case int:
			return float64(n), true
		case int64:
			return float64(n), true
		default:
			return nil, false
		}
	case Boolean:
		b, ok := val.(bool)

		return b, ok
	default:
		return nil, false
	}
}

// InputSchema renders the shape as an MCP tool input schema.
func (s Shape) InputSchema() mcp.ToolInputSchema {
	schema := mcp.ToolInputSchema{
		Type:       "object",
		Properties: make(map[string]any, len(s)),
	}

	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		field := s[name]

		schema.Properties[name] = map[string]any{
			"type":        string(field.Kind),
			"description": field.Description,
		}

		if field.Required {
			schema.Required = append(schema.Required, name)
		}
	}

	return schema
}

// PromptArguments renders the shape as MCP prompt arguments.
func (s Shape) PromptArguments() []mcp.PromptArgument {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}

	sort.Strings(names)

	args := make([]mcp.PromptArgument, 0, len(s))
	for _, name := range names {
		field := s[name]

		args = append(args, mcp.PromptArgument{
			Name:        name,
			Description: field.Description,
			Required:    field.Required,
		})
	}

	return args
}
