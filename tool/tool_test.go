package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triagekit/triagekit/core"
	"github.com/triagekit/triagekit/internal/util"
	"github.com/triagekit/triagekit/logging"
)

// -------------------- Schema & Validation Tests --------------------

type sampleSchema struct {
	A string `json:"a" description:"Field A"`
	B *int   `json:"b" description:"Optional pointer field"`
	C int    `json:"c,omitempty" description:"Omit empty field"`
}

func TestCreateSchema(t *testing.T) {
	schema := util.CreateSchema(sampleSchema{})
	props, ok := schema["properties"].(map[string]any)
	assert.True(t, ok)
	assert.Contains(t, props, "a")
	assert.Contains(t, props, "b")
	assert.Contains(t, props, "c")
	// Required only includes non-pointer, non-omitempty exported fields
	req, _ := schema["required"].([]string)
	if req == nil { // reflection may produce []any
		ifaceReq, _ := schema["required"].([]any)
		for _, v := range ifaceReq {
			req = append(req, v.(string))
		}
	}
	assert.ElementsMatch(t, []string{"a"}, req)
}

func TestValidateParameters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "integer"},
		},
		"required": []any{"x"},
	}

	assert.NoError(t, util.ValidateParameters(map[string]any{"x": 5}, schema))
	assert.Error(t, util.ValidateParameters(map[string]any{}, schema))
	assert.Error(t, util.ValidateParameters(map[string]any{"x": "not-int"}, schema))
}

// -------------------- FunctionTool Tests --------------------

func sumTool() *FunctionTool {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
			"b": map[string]any{"type": "number"},
		},
		"required": []string{"a", "b"},
	}
	return NewFunctionTool("sum", "Add numbers", params, func(_ context.Context, args map[string]any) (any, error) {
		return args["a"].(float64) + args["b"].(float64), nil
	})
}

func TestFunctionTool_Success(t *testing.T) {
	got, err := sumTool().Call(context.Background(), map[string]any{"a": 2.0, "b": 3.0})
	require.NoError(t, err)
	assert.Equal(t, 5.0, got)
}

func TestFunctionTool_ValidationError(t *testing.T) {
	_, err := sumTool().Call(context.Background(), map[string]any{"a": 2.0})
	require.Error(t, err)
	var terr *ToolError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, CodeValidation, terr.Code)
}

func TestFunctionTool_ExecutionError(t *testing.T) {
	failing := NewFunctionTool("boom", "Always fails",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(context.Context, map[string]any) (any, error) {
			return nil, errors.New("backend offline")
		})
	_, err := failing.Call(context.Background(), map[string]any{})
	require.Error(t, err)
	var terr *ToolError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, CodeExecution, terr.Code)
}

func TestFunctionTool_PreservesCustomCode(t *testing.T) {
	failing := NewFunctionTool("collab", "Collaborator failure",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(context.Context, map[string]any) (any, error) {
			return nil, NewToolError("collab", "store unreachable", CodeCollaborator)
		})
	_, err := failing.Call(context.Background(), map[string]any{})
	var terr *ToolError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, CodeCollaborator, terr.Code)
}

// -------------------- Bridge Tests --------------------

func TestBridge_InvokeSuccess(t *testing.T) {
	bridge := NewBridge(logging.NoOpLogger{}, sumTool())

	res, err := bridge.Invoke(context.Background(), core.ToolCall{
		ID: "c1", Name: "sum", Arguments: `{"a":2,"b":3}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "c1", res.ID)
	assert.Empty(t, res.Error)
	assert.Equal(t, "5", res.Content)
}

func TestBridge_UnknownToolIsResultNotError(t *testing.T) {
	bridge := NewBridge(logging.NoOpLogger{}, sumTool())

	res, err := bridge.Invoke(context.Background(), core.ToolCall{ID: "c1", Name: "nope"})
	require.NoError(t, err)
	assert.Contains(t, res.Error, CodeNotFound)
}

func TestBridge_MalformedArgumentsIsResultNotError(t *testing.T) {
	bridge := NewBridge(logging.NoOpLogger{}, sumTool())

	res, err := bridge.Invoke(context.Background(), core.ToolCall{
		ID: "c1", Name: "sum", Arguments: `{"a":`,
	})
	require.NoError(t, err)
	assert.Contains(t, res.Error, CodeValidation)
}

func TestBridge_PanicRecovered(t *testing.T) {
	panicky := NewFunctionTool("panic", "Panics",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(context.Context, map[string]any) (any, error) {
			panic("boom")
		})
	bridge := NewBridge(logging.NoOpLogger{}, panicky)

	res, err := bridge.Invoke(context.Background(), core.ToolCall{ID: "c1", Name: "panic"})
	require.NoError(t, err)
	assert.Contains(t, res.Error, "panic")
}

func TestBridge_InvokeAllAnswersEveryCall(t *testing.T) {
	bridge := NewBridge(logging.NoOpLogger{}, sumTool())

	results, err := bridge.InvokeAll(context.Background(), []core.ToolCall{
		{ID: "c1", Name: "sum", Arguments: `{"a":2,"b":3}`},
		{ID: "c2", Name: "nope"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "5", results[0].Content)
	assert.Contains(t, results[1].Error, CodeNotFound)
}

func TestBridge_CancelledContextPropagates(t *testing.T) {
	bridge := NewBridge(logging.NoOpLogger{}, sumTool())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := bridge.Invoke(ctx, core.ToolCall{ID: "c1", Name: "sum", Arguments: `{"a":1,"b":2}`})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBridge_Definitions(t *testing.T) {
	bridge := NewBridge(logging.NoOpLogger{}, sumTool(),
		NewFunctionTool("alpha", "First alphabetically",
			map[string]any{"type": "object", "properties": map[string]any{}},
			func(context.Context, map[string]any) (any, error) { return nil, nil }))

	defs := bridge.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "alpha", defs[0].Name)
	assert.Equal(t, "sum", defs[1].Name)
}

func TestMarshalResult(t *testing.T) {
	s, err := marshalResult(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", s)

	s, err = marshalResult("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", s)

	s, err = marshalResult(map[string]any{"k": "v"})
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &decoded))
	assert.Equal(t, "v", decoded["k"])
}
