// Package model defines the boundary to the underlying completion
// capability. Given conversation context, agent instructions and declared
// tool signatures, a Model returns exactly one of: a user-facing message or
// a batch of tool-call requests. Hand-off requests travel as a reserved tool
// call and are interpreted by the runtime, not by the model adapter.
package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/triagekit/triagekit/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"` // JSON Schema
}

// Request captures the normalized model input assembled by the runtime.
type Request struct {
	Instructions string           `json:"instructions"`
	Messages     []core.Message   `json:"messages"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// TokenUsage captures token accounting for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the single outcome of one completion call. When ToolCalls is
// non-empty the agent is requesting tool execution; otherwise Text is the
// user-facing message.
type Response struct {
	Text         string          `json:"text,omitempty"`
	ToolCalls    []core.ToolCall `json:"tool_calls,omitempty"`
	FinishReason string          `json:"finish_reason,omitempty"`
	Usage        *TokenUsage     `json:"usage,omitempty"`
}

// HasToolCalls reports whether the response requests tool execution.
func (r *Response) HasToolCalls() bool { return len(r.ToolCalls) > 0 }

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "scripted", ...
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface the runtime needs to drive generation.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// ScriptedModel is a lightweight in-memory Model useful for tests and
// examples. Responses are matched against the latest user or tool message;
// a response may be plain text or a pre-built tool-call batch.
type ScriptedModel struct {
	info      Info
	texts     map[string]string
	toolCalls map[string][]core.ToolCall
}

// NewScriptedModel constructs a ScriptedModel with tool support enabled.
func NewScriptedModel(name string) *ScriptedModel {
	return &ScriptedModel{
		info:      Info{Name: name, Provider: "scripted", SupportsTools: true},
		texts:     make(map[string]string),
		toolCalls: make(map[string][]core.ToolCall),
	}
}

// AddText registers a canned text completion for an input prompt.
func (m *ScriptedModel) AddText(prompt, response string) { m.texts[prompt] = response }

// AddToolCalls registers a canned tool-call batch for an input prompt.
func (m *ScriptedModel) AddToolCalls(prompt string, calls ...core.ToolCall) {
	m.toolCalls[prompt] = calls
}

// Generate implements Model. The last message with non-empty content (or the
// last tool result name) selects the scripted response; unmatched prompts get
// a deterministic echo.
func (m *ScriptedModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("no messages provided")
	}
	key := m.promptKey(req.Messages)
	if calls, ok := m.toolCalls[key]; ok {
		cp := make([]core.ToolCall, len(calls))
		copy(cp, calls)
		for i := range cp {
			if cp[i].ID == "" {
				cp[i].ID = core.NewID()
			}
		}
		return &Response{ToolCalls: cp, FinishReason: "tool_calls"}, nil
	}
	if text, ok := m.texts[key]; ok {
		return &Response{Text: text, FinishReason: "stop"}, nil
	}
	return &Response{Text: "Scripted response to: " + key, FinishReason: "stop"}, nil
}

// Info implements Model.
func (m *ScriptedModel) Info() Info { return m.info }

func (m *ScriptedModel) promptKey(messages []core.Message) string {
	last := messages[len(messages)-1]
	if last.Role == core.RoleTool && len(last.ToolResults) > 0 {
		results := make([]string, 0, len(last.ToolResults))
		for _, tr := range last.ToolResults {
			if tr.Error != "" {
				results = append(results, tr.Name+":error")
				continue
			}
			results = append(results, tr.Name)
		}
		return "tool:" + strings.Join(results, ",")
	}
	return last.Content
}
