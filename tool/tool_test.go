package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/callbridge/audit"
)

// -------------------- FunctionTool Tests --------------------

func TestFunctionTool_Success(t *testing.T) {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
			"b": map[string]any{"type": "number"},
		},
		"required": []string{"a", "b"},
	}

	sumTool := NewFunctionTool("sum", "Add numbers", params, func(_ context.Context, args map[string]any) (any, error) {
		a := args["a"].(float64)
		b := args["b"].(float64)
		return a + b, nil
	})

	result, err := sumTool.Call(context.Background(), map[string]any{"a": 2.0, "b": 3.0})
	assert.NoError(t, err)
	assert.Equal(t, 5.0, result)
}

func TestFunctionTool_ValidationError(t *testing.T) {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "integer"},
		},
		"required": []any{"x"},
	}

	tl := NewFunctionTool("needsX", "Requires x", params, func(_ context.Context, _ map[string]any) (any, error) {
		return "never", nil
	})

	_, err := tl.Call(context.Background(), map[string]any{})
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
	assert.Equal(t, "needsX", toolErr.Tool)
}

func TestFunctionTool_ExecutionError(t *testing.T) {
	tl := NewFunctionTool("fails", "Always fails",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (any, error) {
			return nil, errors.New("backend down")
		})

	_, err := tl.Call(context.Background(), map[string]any{})
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Contains(t, toolErr.Message, "backend down")
}

func TestFunctionTool_PreservesCustomToolError(t *testing.T) {
	custom := NewToolError("custom", "quota exceeded", "RATE_LIMITED")

	tl := NewFunctionTool("custom", "Returns custom error",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (any, error) {
			return nil, custom
		})

	_, err := tl.Call(context.Background(), map[string]any{})
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "RATE_LIMITED", toolErr.Code)
}

func TestSchemaOf(t *testing.T) {
	tl := NewFunctionTool("demo", "A demo tool",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (any, error) { return nil, nil })

	schema := SchemaOf(tl)
	assert.Equal(t, "function", schema.Type)
	assert.Equal(t, "demo", schema.Name)
	assert.Equal(t, "A demo tool", schema.Description)
	assert.NotNil(t, schema.Parameters)
}

// -------------------- Registry Tests --------------------

func newNoopTool(name string) Tool {
	return NewFunctionTool(name, "noop",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (any, error) { return "ok", nil })
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(newNoopTool("a")))
	require.NoError(t, r.Register(newNoopTool("b")))

	assert.Error(t, r.Register(newNoopTool("a")), "duplicate registration must fail")

	_, ok := r.Get("a")
	assert.True(t, ok)
	_, ok = r.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"a", "b"}, r.Names())
}

func TestRegistry_Schemas(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(newNoopTool("a"), newNoopTool("b"))

	schemas, err := r.Schemas("b", "a")
	require.NoError(t, err)
	require.Len(t, schemas, 2)
	assert.Equal(t, "b", schemas[0].Name)
	assert.Equal(t, "a", schemas[1].Name)

	_, err = r.Schemas("a", "ghost")
	assert.Error(t, err)
}

func TestRegistry_MustRegisterPanicsOnDuplicate(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(newNoopTool("a"))

	assert.Panics(t, func() { r.MustRegister(newNoopTool("a")) })
}

// -------------------- Builtin Tool Tests --------------------

func TestBuiltinRegistry_CoversDefaultAgentTools(t *testing.T) {
	r := NewBuiltinRegistry(audit.NewWriter(t.TempDir()))

	for _, name := range []string{
		"verifyRecruiterCredentials",
		"lookupCareerInfo",
		"logRecruiterRequest",
		"returnAvailableDateTime",
		"scheduleMeeting",
		"checkCurrentOffer",
		"checkIndustrySalary",
		"logFinalOffer",
	} {
		_, ok := r.Get(name)
		assert.True(t, ok, "missing builtin tool %s", name)
	}
}

func TestVerifyRecruiterCredentials(t *testing.T) {
	tl := NewVerifyRecruiterCredentialsTool()
	ctx := context.Background()

	result, err := tl.Call(ctx, map[string]any{
		"fullName": "Dana Smith",
		"company":  "Acme Recruiting",
		"position": "Platform Engineer",
	})
	require.NoError(t, err)

	m := result.(map[string]any)
	assert.Equal(t, true, m["verified"])
	assert.NotEmpty(t, m["verificationToken"])

	// Same identity yields the same token.
	again, err := tl.Call(ctx, map[string]any{
		"fullName": "Dana Smith",
		"company":  "Acme Recruiting",
		"position": "Other Role",
	})
	require.NoError(t, err)
	assert.Equal(t, m["verificationToken"], again.(map[string]any)["verificationToken"])

	// Whitespace-only identity is rejected without an error.
	rejected, err := tl.Call(ctx, map[string]any{
		"fullName": "  ",
		"company":  "Acme",
		"position": "Role",
	})
	require.NoError(t, err)
	assert.Equal(t, false, rejected.(map[string]any)["verified"])
}

func TestLookupCareerInfo(t *testing.T) {
	tl := NewLookupCareerInfoTool()
	ctx := context.Background()

	result, err := tl.Call(ctx, map[string]any{
		"requestedFields": []any{"role", "location", "not_a_field"},
	})
	require.NoError(t, err)

	m := result.(map[string]any)
	assert.Len(t, m, 2, "unknown fields are skipped")
	assert.Contains(t, m, "role")
	assert.Contains(t, m, "location")

	// Empty request returns the full profile.
	full, err := tl.Call(ctx, map[string]any{"requestedFields": []any{}})
	require.NoError(t, err)
	assert.Contains(t, full.(map[string]any), "skills")
}

func TestReturnAvailableDateTime(t *testing.T) {
	tl := NewReturnAvailableDateTimeTool()
	ctx := context.Background()

	// Suggested dates are echoed back.
	result, err := tl.Call(ctx, map[string]any{
		"suggestedDates": []any{"2026-09-03T10:00:00Z"},
		"duration":       30.0,
		"timeZone":       "UTC",
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"2026-09-03T10:00:00Z"}, result)

	// Without suggestions a non-empty default slot list is offered.
	result, err = tl.Call(ctx, map[string]any{
		"duration": 30.0,
		"timeZone": "UTC",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.([]string))
}

func TestScheduleMeeting(t *testing.T) {
	tl := NewScheduleMeetingTool()
	ctx := context.Background()

	args := map[string]any{
		"dateTime":         "2026-09-03T10:00:00Z",
		"duration":         45.0,
		"format":           "video",
		"participantName":  "Dana Smith",
		"participantOrg":   "Acme",
		"participantEmail": "dana@example.com",
		"meetingType":      "initial_screening",
	}

	result, err := tl.Call(ctx, args)
	require.NoError(t, err)
	assert.Equal(t, true, result.(map[string]any)["scheduled"])

	args["dateTime"] = "next tuesday"
	_, err = tl.Call(ctx, args)
	assert.Error(t, err)
}

func TestCheckIndustrySalary(t *testing.T) {
	tl := NewCheckIndustrySalaryTool()

	result, err := tl.Call(context.Background(), map[string]any{
		"role":              "Senior Software Engineer",
		"location":          "San Francisco",
		"yearsOfExperience": 8.0,
	})
	require.NoError(t, err)

	s := result.(string)
	assert.Contains(t, s, "Senior Software Engineer")
	assert.Contains(t, s, "8 years")
}
