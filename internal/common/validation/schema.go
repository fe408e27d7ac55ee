// internal/common/validation/schema.go
package validation

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

// Schema names a request payload schema.
type Schema string

const (
	SchemaPuppy       Schema = "puppy"
	SchemaTestimonial Schema = "testimonial"
	SchemaStatus      Schema = "status"
	SchemaColumn      Schema = "column"
	SchemaSelection   Schema = "selection"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Problems flattens the errors into "field: message" strings.
func (r *ValidationResult) Problems() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return out
}

// Validator holds compiled payload schemas.
type Validator struct {
	schemas map[Schema]*gojsonschema.Schema
}

// NewValidator compiles every embedded schema.
func NewValidator() (*Validator, error) {
	v := &Validator{schemas: make(map[Schema]*gojsonschema.Schema)}
	for _, name := range []Schema{SchemaPuppy, SchemaTestimonial, SchemaStatus, SchemaColumn, SchemaSelection} {
		raw, err := schemaFiles.ReadFile("schemas/" + string(name) + ".json")
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
		}
		compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		v.schemas[name] = compiled
	}
	return v, nil
}

// Validate checks a raw JSON document against the named schema.
func (v *Validator) Validate(name Schema, document []byte) (*ValidationResult, error) {
	schema, ok := v.schemas[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   fieldName(desc),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	sort.Slice(out.Errors, func(i, j int) bool { return out.Errors[i].Field < out.Errors[j].Field })
	return out, nil
}

// fieldName reports the offending property; "required" errors are raised on
// the parent, so the missing property comes from the error details.
func fieldName(desc gojsonschema.ResultError) string {
	if desc.Type() == "required" {
		if prop, ok := desc.Details()["property"].(string); ok {
			return prop
		}
	}
	field := desc.Field()
	if field == "(root)" {
		return "body"
	}
	return field
}
