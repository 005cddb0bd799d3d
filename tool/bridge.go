package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sort"
	"time"

	"github.com/triagekit/triagekit/core"
	"github.com/triagekit/triagekit/logging"
)

// Bridge adapts a set of domain tools into the uniform callable-function
// contract agents invoke during a turn. The bridge itself is stateless and
// performs no caching; any failure of the underlying collaborator is
// converted into an error-carrying result so the issuing agent can react to
// it, never into a turn failure.
type Bridge struct {
	tools  map[string]Tool
	logger logging.Logger
}

// NewBridge constructs a bridge over the given tools. Duplicate names keep
// the last registration.
func NewBridge(logger logging.Logger, tools ...Tool) *Bridge {
	registry := make(map[string]Tool, len(tools))
	for _, t := range tools {
		registry[t.Name()] = t
	}
	return &Bridge{tools: registry, logger: logging.OrNoOp(logger)}
}

// Names returns the registered tool names in sorted order.
func (b *Bridge) Names() []string {
	names := make([]string, 0, len(b.tools))
	for name := range b.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke dispatches one tool call and returns its result. Unknown tool
// names, argument validation failures, collaborator errors and panics all
// surface as an error-carrying ToolResult; the returned error is non-nil
// only when ctx was cancelled, in which case the turn must abort without
// committing history.
func (b *Bridge) Invoke(ctx context.Context, call core.ToolCall) (core.ToolResult, error) {
	result := core.ToolResult{ID: call.ID, Name: call.Name}

	impl, ok := b.tools[call.Name]
	if !ok {
		terr := NewToolError(call.Name, "tool is not registered", CodeNotFound)
		b.logger.Warn("tool.call.unknown", "tool", call.Name)
		result.Error = terr.Error()
		return result, nil
	}

	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			terr := NewToolError(call.Name, fmt.Sprintf("malformed arguments: %v", err), CodeValidation)
			result.Error = terr.Error()
			return result, nil
		}
	}

	b.logger.Debug("tool.call.start", "tool", call.Name, "call_id", call.ID)
	start := time.Now()

	value, err := b.callSafely(ctx, impl, args)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}

	b.logger.Info("tool.call.done",
		"tool", call.Name,
		"duration_ms", time.Since(start).Milliseconds(),
		"error", err != nil,
	)

	if err != nil {
		result.Error = err.Error()
		return result, nil
	}

	content, err := marshalResult(value)
	if err != nil {
		terr := NewToolError(call.Name, fmt.Sprintf("result not serializable: %v", err), CodeExecution)
		result.Error = terr.Error()
		return result, nil
	}
	result.Content = content
	return result, nil
}

// InvokeAll dispatches a batch of calls strictly in order, returning one
// result per call. It stops early only on context cancellation.
func (b *Bridge) InvokeAll(ctx context.Context, calls []core.ToolCall) ([]core.ToolResult, error) {
	results := make([]core.ToolResult, 0, len(calls))
	for _, call := range calls {
		res, err := b.Invoke(ctx, call)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Definitions returns the callable-function declarations for all registered
// tools, sorted by name for deterministic prompts.
func (b *Bridge) Definitions() []Definition {
	defs := make([]Definition, 0, len(b.tools))
	for _, name := range b.Names() {
		t := b.tools[name]
		defs = append(defs, Definition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

// Definition mirrors a tool's callable signature for model declaration.
type Definition struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

func (b *Bridge) callSafely(ctx context.Context, impl Tool, args map[string]any) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("tool.call.panic", "tool", impl.Name(), "recover", r, "stack", string(debug.Stack()))
			err = NewToolError(impl.Name(), fmt.Sprintf("panic: %v", r), CodeExecution)
		}
	}()
	return impl.Call(ctx, args)
}

func marshalResult(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "null", nil
	case string:
		return v, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
