// Package runtime executes one conversational turn against a hand-off
// graph. A turn is a small state machine: the active agent generates either
// a user-facing message (terminating the turn), a batch of tool calls
// (executed through the tool bridge, results fed back), or a hand-off
// request naming a reachable agent (control transfers along the edge). The
// runtime is read-only over the graph and carries no per-turn state of its
// own, so one runtime serves many sessions concurrently.
package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/triagekit/triagekit/core"
	"github.com/triagekit/triagekit/graph"
	"github.com/triagekit/triagekit/logging"
	"github.com/triagekit/triagekit/model"
	"github.com/triagekit/triagekit/tool"
)

// TransferToolName is the reserved tool an agent calls to request a
// hand-off. The runtime intercepts it before the bridge sees it.
const TransferToolName = "transfer_to_agent"

// DefaultMaxHandoffs bounds the number of hand-off requests within one turn.
const DefaultMaxHandoffs = 5

const handoffLimitApology = "I'm sorry, I wasn't able to route your request to the right specialist. " +
	"Could you rephrase it or add a little more detail?"

// FollowUpMarker builds the routing hint prepended to a user message when a
// specialist handled the previous turn, so the turn resumes with that
// specialist instead of the entry agent.
func FollowUpMarker(agent string) string {
	return fmt.Sprintf("[System: This is a follow-up response for %s. Please continue handling the user's request.]", agent)
}

// Outcome is the result of one executed turn. The transcript holds the
// agent-produced messages only; callers pair it with UserMessage to commit
// a session turn.
type Outcome struct {
	// Text is the final user-facing message of the turn.
	Text string
	// Messages are all user-facing assistant messages in arrival order.
	Messages []string
	// UserMessage is the user message the turn was executed for, including
	// any follow-up marker.
	UserMessage core.Message
	// Transcript holds every agent-produced message of the turn: assistant
	// text, tool calls and tool results, in order.
	Transcript []core.Message
	// FinalAgent is the agent that produced the last user-facing message.
	FinalAgent string
	// AwaitingUser reports whether the final message asks the user a
	// question.
	AwaitingUser bool
}

// Turn converts the outcome into a committable session turn.
func (o *Outcome) Turn() core.Turn {
	return core.Turn{
		UserMessage:  o.UserMessage,
		Transcript:   o.Transcript,
		FinalAgent:   o.FinalAgent,
		AwaitingUser: o.AwaitingUser,
	}
}

// Runtime drives turns over one immutable hand-off graph.
type Runtime struct {
	graph       *graph.Graph
	maxHandoffs int
	logger      logging.Logger
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithMaxHandoffs overrides the per-turn hand-off bound.
func WithMaxHandoffs(n int) Option {
	return func(r *Runtime) {
		if n > 0 {
			r.maxHandoffs = n
		}
	}
}

// WithLogger sets the runtime logger.
func WithLogger(l logging.Logger) Option {
	return func(r *Runtime) { r.logger = l }
}

// New creates a runtime over the given graph.
func New(g *graph.Graph, opts ...Option) *Runtime {
	r := &Runtime{graph: g, maxHandoffs: DefaultMaxHandoffs, logger: logging.NoOpLogger{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute runs one turn for the session. The starting agent is the
// session's last active agent when it still exists in the graph and is not
// the entry agent; in that case the user text is prefixed with a follow-up
// marker so the specialist keeps handling the thread. The session itself is
// not mutated: the caller commits the returned outcome.
func (r *Runtime) Execute(ctx context.Context, sess *core.Session, userText string) (*Outcome, error) {
	start := r.graph.Entry().Name
	text := userText
	if last := sess.LastAgent(); last != "" && last != start {
		if _, ok := r.graph.Agent(last); ok {
			start = last
			text = FollowUpMarker(last) + "\n" + userText
		}
	}
	return r.ExecuteFrom(ctx, sess.ConversationHistory(), start, text)
}

// ExecuteFrom runs one turn beginning at an explicit agent, against the
// given prior conversation history. Used directly by backends that pick the
// starting agent themselves.
func (r *Runtime) ExecuteFrom(ctx context.Context, history []core.Message, startAgent, userText string) (*Outcome, error) {
	agent, ok := r.graph.Agent(startAgent)
	if !ok {
		return nil, fmt.Errorf("start agent %q is not in the graph", startAgent)
	}

	out := &Outcome{UserMessage: core.NewUserMessage(userText)}
	handoffs := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		bridge := tool.NewBridge(r.logger, agent.Tools...)
		res, err := agent.Model.Generate(ctx, r.buildRequest(agent, bridge, history, out))
		if err != nil {
			return nil, fmt.Errorf("agent %s: %w", agent.Name, err)
		}

		if res.Text != "" {
			out.recordAssistant(agent.Name, res.Text)
		}

		if !res.HasToolCalls() {
			if res.Text == "" {
				out.recordAssistant(agent.Name, "I'm sorry, I couldn't produce a response. Could you rephrase your request?")
			}
			break
		}

		next, err := r.dispatchCalls(ctx, agent, bridge, res.ToolCalls, out)
		if err != nil {
			return nil, err
		}
		if next == nil {
			continue // tool results fed back to the same agent
		}

		handoffs++
		if handoffs > r.maxHandoffs {
			limitErr := &core.HandoffLimitError{Limit: r.maxHandoffs}
			r.logger.Warn("turn.handoff.limit", "agent", agent.Name, "error", limitErr)
			out.recordAssistant(agent.Name, handoffLimitApology)
			break
		}
		r.logger.Info("turn.handoff", "from", agent.Name, "to", next.Name, "count", handoffs)
		agent = next
	}

	out.AwaitingUser = len(out.Messages) > 0 &&
		strings.HasSuffix(strings.TrimSpace(out.Messages[len(out.Messages)-1]), "?")
	return out, nil
}

// dispatchCalls answers every tool call in the batch, then reports the
// hand-off target if one was requested. Transfer requests are intercepted
// before the bridge: a valid target yields a confirmation result and the
// target agent; an invalid target yields an error result so the issuing
// agent can pick a valid edge or answer the user directly. A hand-off
// request that exceeds the turn bound is caught by the caller.
func (r *Runtime) dispatchCalls(ctx context.Context, agent *graph.Agent, bridge *tool.Bridge, calls []core.ToolCall, out *Outcome) (*graph.Agent, error) {
	out.Transcript = append(out.Transcript, core.NewToolCallMessage(agent.Name, calls))

	if !requestsTransfer(calls) {
		results, err := bridge.InvokeAll(ctx, calls)
		if err != nil {
			return nil, err
		}
		out.Transcript = append(out.Transcript, core.NewToolResultMessage(agent.Name, results))
		return nil, nil
	}

	var next *graph.Agent
	results := make([]core.ToolResult, 0, len(calls))
	for _, call := range calls {
		if call.Name != TransferToolName {
			res, err := bridge.Invoke(ctx, call)
			if err != nil {
				return nil, err
			}
			results = append(results, res)
			continue
		}

		target := transferTarget(call)
		candidate, exists := r.graph.Agent(target)
		switch {
		case next != nil:
			results = append(results, core.ToolResult{
				ID: call.ID, Name: call.Name,
				Error: "a hand-off is already in progress for this turn",
			})
		case !exists || !r.graph.CanHandoff(agent.Name, target):
			handoffErr := &core.InvalidHandoffError{From: agent.Name, To: target}
			r.logger.Warn("turn.handoff.invalid", "from", agent.Name, "to", target)
			results = append(results, core.ToolResult{
				ID: call.ID, Name: call.Name, Error: handoffErr.Error(),
			})
		default:
			next = candidate
			results = append(results, core.ToolResult{
				ID: call.ID, Name: call.Name,
				Content: fmt.Sprintf("Transferring the conversation to %s.", target),
			})
		}
	}

	out.Transcript = append(out.Transcript, core.NewToolResultMessage(agent.Name, results))
	return next, nil
}

// buildRequest assembles the model input for the active agent: its
// instructions extended with the reachable hand-off targets, the prior
// conversation history plus the turn transcript so far, and the
// declarations for its bound tools and the transfer tool.
func (r *Runtime) buildRequest(agent *graph.Agent, bridge *tool.Bridge, history []core.Message, out *Outcome) model.Request {
	edges := r.graph.EdgesFrom(agent.Name)

	messages := make([]core.Message, 0, len(history)+1+len(out.Transcript))
	messages = append(messages, history...)
	messages = append(messages, out.UserMessage)
	messages = append(messages, out.Transcript...)

	var tools []model.ToolDefinition
	for _, d := range bridge.Definitions() {
		tools = append(tools, model.ToolDefinition{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Parameters,
		})
	}
	if len(edges) > 0 {
		tools = append(tools, transferDefinition(edges))
	}

	return model.Request{
		Instructions: instructionsFor(agent, edges),
		Messages:     messages,
		Tools:        tools,
	}
}

func instructionsFor(agent *graph.Agent, edges []graph.Edge) string {
	if len(edges) == 0 {
		return agent.Instructions
	}
	var b strings.Builder
	b.WriteString(agent.Instructions)
	b.WriteString("\n\nYou can transfer this conversation to another agent by calling ")
	b.WriteString(TransferToolName)
	b.WriteString(" with the target's exact name. Available targets:\n")
	for _, e := range edges {
		fmt.Fprintf(&b, "- %s: %s\n", e.Target, e.Label)
	}
	return b.String()
}

func transferDefinition(edges []graph.Edge) model.ToolDefinition {
	targets := make([]string, 0, len(edges))
	for _, e := range edges {
		targets = append(targets, e.Target)
	}
	return model.ToolDefinition{
		Name:        TransferToolName,
		Description: "Transfer the conversation to another agent when it is better suited to handle the request.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"agent_name": map[string]any{
					"type":        "string",
					"description": "Exact name of the agent to transfer to",
					"enum":        targets,
				},
			},
			"required": []string{"agent_name"},
		},
	}
}

func requestsTransfer(calls []core.ToolCall) bool {
	for _, call := range calls {
		if call.Name == TransferToolName {
			return true
		}
	}
	return false
}

// transferTarget extracts the requested target from a transfer call's JSON
// arguments. Both "agent_name" and the shorter "agent" key are accepted.
func transferTarget(call core.ToolCall) string {
	if call.Arguments == "" {
		return ""
	}
	var parsed struct {
		AgentName string `json:"agent_name"`
		Agent     string `json:"agent"`
	}
	if err := json.Unmarshal([]byte(call.Arguments), &parsed); err != nil {
		return ""
	}
	if parsed.AgentName != "" {
		return parsed.AgentName
	}
	return parsed.Agent
}

func (o *Outcome) recordAssistant(agent, text string) {
	o.Messages = append(o.Messages, text)
	o.Transcript = append(o.Transcript, core.NewAssistantMessage(agent, text))
	o.Text = text
	o.FinalAgent = agent
}
