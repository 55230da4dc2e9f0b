// Package schema declares per-operation input shapes and validates argument
// objects against them before any handler logic runs.
//
// A Shape can be checked two ways: directly, with its own rules and
// field-level messages (Shape.Validate), or through the JSON Schema it
// compiles to (Compiled.Validate). Both return *ValidationError.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// Type is the JSON type a field must carry.
type Type string

const (
	TypeString Type = "string"
	TypeNumber Type = "number"
)

// MessageRequired is reported for an absent required field.
const MessageRequired = "Required"

// Rule is a constraint evaluated after the type check passed.
type Rule struct {
	Message string
	Check   func(v any) bool
}

// Field describes one named argument.
type Field struct {
	Name        string
	Description string
	Type        Type
	Optional    bool
	Rules       []Rule

	minimum *int
}

// String declares a required string field.
func String(name string) Field { return Field{Name: name, Type: TypeString} }

// Number declares a required numeric field.
func Number(name string) Field { return Field{Name: name, Type: TypeNumber} }

// Describe sets the human-readable description presented to clients.
func (f Field) Describe(description string) Field {
	f.Description = description
	return f
}

// Min requires a string of at least n characters, or a number >= n.
func (f Field) Min(n int, message string) Field {
	f.minimum = &n
	check := func(v any) bool {
		switch x := v.(type) {
		case string:
			return len([]rune(x)) >= n
		default:
			num, ok := asNumber(v)
			return ok && num >= float64(n)
		}
	}
	f.Rules = append(append([]Rule(nil), f.Rules...), Rule{Message: message, Check: check})
	return f
}

// Shape is an ordered set of fields making up an argument object.
type Shape struct {
	fields []Field
}

// Object builds a Shape. Field names must be unique.
func Object(fields ...Field) Shape {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.Name]; dup {
			panic(fmt.Sprintf("schema: duplicate field %q", f.Name))
		}
		seen[f.Name] = struct{}{}
	}
	return Shape{fields: append([]Field(nil), fields...)}
}

// Fields returns the declared fields in order.
func (s Shape) Fields() []Field { return append([]Field(nil), s.fields...) }

// Validate checks args against the shape and returns the validated subset:
// only declared fields are kept.
func (s Shape) Validate(args map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(s.fields))
	verr := &ValidationError{}
	for _, f := range s.fields {
		v, ok := args[f.Name]
		if !ok || v == nil {
			if !f.Optional {
				verr.add(f.Name, MessageRequired)
			}
			continue
		}
		if got := typeOf(v); !matches(f.Type, v) {
			verr.add(f.Name, fmt.Sprintf("Expected %s, received %s", f.Type, got))
			continue
		}
		failed := false
		for _, r := range f.Rules {
			if !r.Check(v) {
				verr.add(f.Name, r.Message)
				failed = true
			}
		}
		if !failed {
			out[f.Name] = v
		}
	}
	if !verr.empty() {
		return nil, verr
	}
	return out, nil
}

// JSONSchema renders the shape as an object schema.
func (s Shape) JSONSchema() *jsonschema.Schema {
	root := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(s.fields)),
	}
	for _, f := range s.fields {
		prop := &jsonschema.Schema{Type: string(f.Type), Description: f.Description}
		if f.minimum != nil {
			switch f.Type {
			case TypeString:
				n := *f.minimum
				prop.MinLength = &n
			case TypeNumber:
				n := float64(*f.minimum)
				prop.Minimum = &n
			}
		}
		root.Properties[f.Name] = prop
		if !f.Optional {
			root.Required = append(root.Required, f.Name)
		}
	}
	return root
}

// Compiled is a Shape resolved into a JSON Schema validator.
type Compiled struct {
	shape    Shape
	resolved *jsonschema.Resolved
}

// Compile resolves the shape's JSON Schema once so it can be reused for
// every request.
func (s Shape) Compile() (*Compiled, error) {
	resolved, err := s.JSONSchema().Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve schema: %w", err)
	}
	return &Compiled{shape: s, resolved: resolved}, nil
}

// Validate checks args with the compiled JSON Schema. Failures are reported
// as form errors because the schema validator does not attribute them to a
// single field.
func (c *Compiled) Validate(args map[string]any) (map[string]any, error) {
	instance := make(map[string]any, len(args))
	for k, v := range args {
		instance[k] = v
	}
	if err := c.resolved.Validate(instance); err != nil {
		return nil, &ValidationError{FormErrors: []string{err.Error()}}
	}
	out := make(map[string]any, len(c.shape.fields))
	for _, f := range c.shape.fields {
		if v, ok := args[f.Name]; ok {
			out[f.Name] = v
		}
	}
	return out, nil
}

// ValidationError is the flattened result of a failed validation: errors
// that belong to the whole object, and messages per field in rule order.
type ValidationError struct {
	FormErrors  []string            `json:"formErrors"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

func (e *ValidationError) add(field, msg string) {
	if e.FieldErrors == nil {
		e.FieldErrors = make(map[string][]string)
	}
	e.FieldErrors[field] = append(e.FieldErrors[field], msg)
}

func (e *ValidationError) empty() bool {
	return len(e.FormErrors) == 0 && len(e.FieldErrors) == 0
}

// Field returns the first message reported for name, or "".
func (e *ValidationError) Field(name string) string {
	if e == nil || len(e.FieldErrors[name]) == 0 {
		return ""
	}
	return e.FieldErrors[name][0]
}

func (e *ValidationError) Error() string {
	var parts []string
	parts = append(parts, e.FormErrors...)
	names := make([]string, 0, len(e.FieldErrors))
	for name := range e.FieldErrors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.FieldErrors[name], ", ")))
	}
	if len(parts) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func matches(t Type, v any) bool {
	switch t {
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeNumber:
		_, ok := asNumber(v)
		return ok
	}
	return false
}

func asNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}

func typeOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	if _, ok := asNumber(v); ok {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
