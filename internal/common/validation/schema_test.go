package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Validate(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	tests := []struct {
		name       string
		schema     Schema
		body       string
		wantValid  bool
		wantFields []string
	}{
		{
			name:      "valid puppy",
			schema:    SchemaPuppy,
			body:      `{"name":"Rex","gender":"male","available_date":"2024-05-01","image_url":"https://img/rex.jpg"}`,
			wantValid: true,
		},
		{
			name:       "puppy short name and bad gender",
			schema:     SchemaPuppy,
			body:       `{"name":"R","gender":"other","available_date":"2024-05-01","image_url":"x"}`,
			wantFields: []string{"gender", "name"},
		},
		{
			name:       "puppy missing date",
			schema:     SchemaPuppy,
			body:       `{"name":"Rex","gender":"female","image_url":"x"}`,
			wantFields: []string{"available_date"},
		},
		{
			name:      "valid testimonial",
			schema:    SchemaTestimonial,
			body:      `{"name":"Ann","rating":5,"message":"Wonderful little dog!","image_url":"x"}`,
			wantValid: true,
		},
		{
			name:       "testimonial rating out of range and short message",
			schema:     SchemaTestimonial,
			body:       `{"name":"Ann","rating":6,"message":"ok","image_url":"x"}`,
			wantFields: []string{"message", "rating"},
		},
		{
			name:       "testimonial fractional rating",
			schema:     SchemaTestimonial,
			body:       `{"name":"Ann","rating":4.5,"message":"Wonderful little dog!","image_url":"x"}`,
			wantFields: []string{"rating"},
		},
		{
			name:      "status",
			schema:    SchemaStatus,
			body:      `{"status":"Approved"}`,
			wantValid: true,
		},
		{
			name:       "status missing",
			schema:     SchemaStatus,
			body:       `{}`,
			wantFields: []string{"status"},
		},
		{
			name:      "selection by id",
			schema:    SchemaSelection,
			body:      `{"id":"42","selected":true}`,
			wantValid: true,
		},
		{
			name:      "selection of page",
			schema:    SchemaSelection,
			body:      `{"all_on_page":true,"selected":false}`,
			wantValid: true,
		},
		{
			name:      "column visibility",
			schema:    SchemaColumn,
			body:      `{"visible":false}`,
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := v.Validate(tt.schema, []byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, res.Valid)

			var fields []string
			for _, e := range res.Errors {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestValidator_SelectionNeedsTarget(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	res, err := v.Validate(SchemaSelection, []byte(`{"selected":true}`))
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Problems())
}

func TestValidator_MalformedAndUnknown(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	_, err = v.Validate(SchemaPuppy, []byte(`{"name":`))
	assert.Error(t, err)

	_, err = v.Validate(Schema("nope"), []byte(`{}`))
	assert.Error(t, err)
}
