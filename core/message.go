package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies the conversational author class of a message.
type Role string

const (
	// RoleUser marks a message authored by the end user.
	RoleUser Role = "user"
	// RoleAssistant marks a message authored by an agent.
	RoleAssistant Role = "assistant"
	// RoleSystem marks synthesized control or instruction messages.
	RoleSystem Role = "system"
	// RoleTool marks a message carrying tool invocation results.
	RoleTool Role = "tool"
)

// ToolCall is a request emitted by an agent to invoke a named tool with
// serialized JSON arguments.
type ToolCall struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"`
}

// ToolResult captures the outcome of a previously issued ToolCall. Exactly
// one of Content or Error is meaningful; an error result is still a normal
// conversational payload, never a turn failure.
type ToolResult struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Message is one entry in a session's conversation history. Messages are
// immutable once appended.
//
// Author is set for assistant messages only and names the agent that
// produced the message. ToolCalls ride on assistant messages; ToolResults
// ride on tool-role messages.
type Message struct {
	ID          string       `json:"id"`
	Role        Role         `json:"role"`
	Author      string       `json:"author,omitempty"`
	Content     string       `json:"content,omitempty"`
	ToolCalls   []ToolCall   `json:"tool_calls,omitempty"`
	ToolResults []ToolResult `json:"tool_results,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
}

// NewID generates a unique identifier for messages and tool calls.
func NewID() string { return uuid.NewString() }

// NewUserMessage builds a user-authored text message.
func NewUserMessage(text string) Message {
	return Message{ID: NewID(), Role: RoleUser, Content: text, Timestamp: time.Now().UTC()}
}

// NewAssistantMessage builds an agent-authored text message.
func NewAssistantMessage(agent, text string) Message {
	return Message{ID: NewID(), Role: RoleAssistant, Author: agent, Content: text, Timestamp: time.Now().UTC()}
}

// NewToolCallMessage builds an assistant message that carries only tool-call
// requests. Author names the issuing agent.
func NewToolCallMessage(agent string, calls []ToolCall) Message {
	return Message{ID: NewID(), Role: RoleAssistant, Author: agent, ToolCalls: calls, Timestamp: time.Now().UTC()}
}

// NewToolResultMessage builds a tool-role message carrying invocation results
// in dispatch order.
func NewToolResultMessage(agent string, results []ToolResult) Message {
	return Message{ID: NewID(), Role: RoleTool, Author: agent, ToolResults: results, Timestamp: time.Now().UTC()}
}

// IsQuestion reports whether the message text reads as a question directed at
// the user. Turn finalization uses this to derive the awaiting-user flag from
// the last captured assistant message.
func (m Message) IsQuestion() bool {
	return strings.HasSuffix(strings.TrimSpace(m.Content), "?")
}
