package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleSchema struct {
	A string `json:"a" description:"Field A"`
	B *int   `json:"b" description:"Optional pointer field"`
	C int    `json:"c,omitempty" description:"Omit empty field"`
}

func TestCreateSchema(t *testing.T) {
	schema := CreateSchema(sampleSchema{})

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "a")
	assert.Contains(t, props, "b")
	assert.Contains(t, props, "c")

	a := props["a"].(map[string]any)
	assert.Equal(t, "string", a["type"])
	assert.Equal(t, "Field A", a["description"])

	// Required only includes non-pointer, non-omitempty exported fields.
	req, _ := schema["required"].([]string)
	assert.ElementsMatch(t, []string{"a"}, req)
}

func TestCreateSchema_NonStruct(t *testing.T) {
	schema := CreateSchema("not a struct")
	assert.Equal(t, "object", schema["type"])
	assert.Empty(t, schema["properties"])
}

func TestValidateParameters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "integer"},
		},
		// []any mirrors the shape of a JSON-decoded schema.
		"required": []any{"x"},
	}

	err := ValidateParameters(map[string]any{"x": 5}, schema)
	assert.NoError(t, err)

	// JSON numbers arrive as float64; whole values still count as integers.
	err = ValidateParameters(map[string]any{"x": float64(5)}, schema)
	assert.NoError(t, err)

	err = ValidateParameters(map[string]any{"x": 5.5}, schema)
	assert.Error(t, err)

	err = ValidateParameters(map[string]any{}, schema)
	require.Error(t, err)
	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "x", vErr.Field)

	err = ValidateParameters(map[string]any{"x": "not-int"}, schema)
	require.Error(t, err)
	vErr, ok = err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Message, "expected type integer")
}

func TestValidateParameters_ExtraFieldsIgnored(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
		},
		"required": []string{"name"},
	}

	err := ValidateParameters(map[string]any{"name": "x", "unexpected": 42}, schema)
	assert.NoError(t, err)
}

func TestValidateParameters_TypeChecks(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"s":   map[string]any{"type": "string"},
			"n":   map[string]any{"type": "number"},
			"b":   map[string]any{"type": "boolean"},
			"arr": map[string]any{"type": "array"},
			"obj": map[string]any{"type": "object"},
		},
	}

	assert.NoError(t, ValidateParameters(map[string]any{
		"s":   "text",
		"n":   1.5,
		"b":   true,
		"arr": []any{"a"},
		"obj": map[string]any{"k": "v"},
	}, schema))

	assert.Error(t, ValidateParameters(map[string]any{"b": "yes"}, schema))
	assert.Error(t, ValidateParameters(map[string]any{"arr": "not-array"}, schema))

	// nil is accepted for any declared type.
	assert.NoError(t, ValidateParameters(map[string]any{"s": nil}, schema))
}
