package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/km-arc/go-wiring/framework/validation"
)

func TestValidator_Rules(t *testing.T) {
	tests := []struct {
		name  string
		value string
		rules string
		want  string // first message, "" when passing
	}{
		{"required passes", "x", "required", ""},
		{"required fails", "  ", "required", "The field field is required."},
		{"numeric", "2.5", "numeric", ""},
		{"numeric fails", "two", "numeric", "The field must be a number."},
		{"integer fails", "2.5", "integer", "The field must be an integer."},
		{"min", "ab", "min:3", "The field must be at least 3 characters."},
		{"max", "abcd", "max:3", "The field may not be greater than 3 characters."},
		{"in", "json", "in:json, console", ""},
		{"in fails", "xml", "in:json,console", "The selected field is invalid."},
		{"alpha_dash", "GO-0001_b", "alpha_dash", ""},
		{"alpha_dash fails", "GO 0001", "alpha_dash", "The field may only contain letters, numbers, dashes and underscores."},
		{"regex", "/_container", `regex:^/\w+$`, ""},
		{"regex fails", "container", `regex:^/\w+$`, "The field format is invalid."},
		{"gt", "1", "gt:1", "The field must be greater than 1."},
		{"gte", "1", "gte:1", ""},
		{"lt", "1", "lt:1", "The field must be less than 1."},
		{"lte", "2", "lte:1", "The field must be less than or equal to 1."},
		{"comparison on text", "abc", "gte:0", "The field must be greater than or equal to 0."},
		{"sometimes skips empty", "", "sometimes|required", ""},
		{"bail on first failure", "", "required|min:3", "The field field is required."},
		{"unknown rule passes", "x", "shiny", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validation.Make(map[string]string{"field": tt.value}, validation.Rules{"field": tt.rules})

			if tt.want == "" {
				assert.True(t, v.Passes(), v.Errors().Error())
				return
			}
			assert.True(t, v.Fails())
			assert.Equal(t, tt.want, v.Errors().First("field"))
			assert.Len(t, v.Errors().Bag["field"], 1, "bails after the first failure")
		})
	}
}

func TestErrors_Error(t *testing.T) {
	v := validation.Make(map[string]string{"b": "", "a": ""}, validation.Rules{
		"a": "required",
		"b": "required",
	})

	assert.True(t, v.Fails())
	assert.Equal(t, "The a field is required. The b field is required.", v.Errors().Error())
	assert.Empty(t, v.Errors().First("c"))
}

func TestValidator_FailsIsRepeatable(t *testing.T) {
	v := validation.Make(map[string]string{"a": ""}, validation.Rules{"a": "required"})

	assert.True(t, v.Fails())
	assert.True(t, v.Fails())
	assert.Len(t, v.Errors().Bag["a"], 1)
}
