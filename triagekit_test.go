package triagekit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triagekit/triagekit/backend"
	"github.com/triagekit/triagekit/core"
	"github.com/triagekit/triagekit/graph"
	"github.com/triagekit/triagekit/model"
	"github.com/triagekit/triagekit/runtime"
	"github.com/triagekit/triagekit/tool"
)

func supportHub(t *testing.T) *Hub {
	t.Helper()

	triage := model.NewScriptedModel("triage")
	triage.AddToolCalls("check order ORD-123",
		core.ToolCall{Name: runtime.TransferToolName, Arguments: `{"agent_name":"OrderStatusAgent"}`})

	orders := model.NewScriptedModel("orders")
	orders.AddToolCalls("tool:"+runtime.TransferToolName,
		core.ToolCall{Name: "check_order_status", Arguments: `{"order_id":"ORD-123"}`})
	orders.AddText("tool:check_order_status",
		"I couldn't find an order with id ORD-123. Could you double-check the number?")
	followUp := runtime.FollowUpMarker("OrderStatusAgent") + "\nit is 1001"
	orders.AddText(followUp, "Order 1001 has shipped.")

	statusTool := []tool.Tool{tool.NewFunctionTool("check_order_status", "Check order",
		map[string]any{
			"type":       "object",
			"properties": map[string]any{"order_id": map[string]any{"type": "string"}},
			"required":   []string{"order_id"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{"message": "No order found for id " + args["order_id"].(string)}, nil
		})}

	g, err := graph.NewBuilder().
		AddAgent(&graph.Agent{Name: "TriageAgent", Instructions: "Route.", Model: triage}).
		AddAgent(&graph.Agent{Name: "OrderStatusAgent", Instructions: "Handle orders.", Model: orders, Tools: statusTool}).
		AddHandoffPair("TriageAgent", "OrderStatusAgent", "Order status or tracking questions").
		Build()
	require.NoError(t, err)

	return New([]backend.Backend{
		backend.NewGraphBackend(g),
		backend.NewStaticBackend(""),
	})
}

func TestHub_HandleCommitsTurn(t *testing.T) {
	hub := supportHub(t)

	resp, err := hub.Handle(context.Background(), "conv-1", "check order ORD-123")
	require.NoError(t, err)

	assert.Contains(t, resp.Text, "ORD-123")
	assert.True(t, resp.AwaitingUser)
	assert.Equal(t, "OrderStatusAgent", resp.Agent)

	sess, err := hub.Session("conv-1")
	require.NoError(t, err)
	assert.Equal(t, "OrderStatusAgent", sess.LastAgent())
	assert.True(t, sess.AwaitingUser)
	// user message + transfer call/result + status call/result + answer
	assert.Equal(t, 6, sess.Len())
}

// A declarative not-found reply leaves the turn complete: nothing was asked
// of the user, so the session is not awaiting input.
func TestHub_DeclarativeNotFoundDoesNotAwaitUser(t *testing.T) {
	orders := model.NewScriptedModel("orders")
	orders.AddToolCalls("check order ORD-999",
		core.ToolCall{Name: "check_order_status", Arguments: `{"order_id":"ORD-999"}`})
	orders.AddText("tool:check_order_status", "I couldn't find an order with id ORD-999.")

	statusTool := []tool.Tool{tool.NewFunctionTool("check_order_status", "Check order",
		map[string]any{
			"type":       "object",
			"properties": map[string]any{"order_id": map[string]any{"type": "string"}},
			"required":   []string{"order_id"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{"message": "No order found for id " + args["order_id"].(string)}, nil
		})}

	g, err := graph.NewBuilder().
		AddAgent(&graph.Agent{Name: "OrderStatusAgent", Instructions: "Handle orders.", Model: orders, Tools: statusTool}).
		Build()
	require.NoError(t, err)

	hub := New([]backend.Backend{backend.NewGraphBackend(g)})
	resp, err := hub.Handle(context.Background(), "conv-1", "check order ORD-999")
	require.NoError(t, err)

	assert.Contains(t, resp.Text, "ORD-999")
	assert.False(t, resp.AwaitingUser)

	sess, err := hub.Session("conv-1")
	require.NoError(t, err)
	assert.False(t, sess.AwaitingUser)
}

func TestHub_FollowUpStaysWithSpecialist(t *testing.T) {
	hub := supportHub(t)

	_, err := hub.Handle(context.Background(), "conv-1", "check order ORD-123")
	require.NoError(t, err)

	resp, err := hub.Handle(context.Background(), "conv-1", "it is 1001")
	require.NoError(t, err)
	assert.Equal(t, "OrderStatusAgent", resp.Agent)
	assert.Contains(t, resp.Text, "shipped")
}

func TestHub_CancelledTurnLeavesSessionUnchanged(t *testing.T) {
	hub := supportHub(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := hub.Handle(ctx, "conv-1", "check order ORD-123")
	assert.ErrorIs(t, err, context.Canceled)

	sess, err := hub.Session("conv-1")
	require.NoError(t, err)
	assert.Equal(t, 0, sess.Len())
}

func TestHub_Reset(t *testing.T) {
	hub := supportHub(t)

	_, err := hub.Handle(context.Background(), "conv-1", "check order ORD-123")
	require.NoError(t, err)
	require.NoError(t, hub.Reset("conv-1"))

	sess, err := hub.Session("conv-1")
	require.NoError(t, err)
	assert.Equal(t, 0, sess.Len())
}

func TestHub_ShutdownRejectsNewTurns(t *testing.T) {
	hub := supportHub(t)
	require.NoError(t, hub.Shutdown(context.Background()))

	_, err := hub.Handle(context.Background(), "conv-1", "hello")
	assert.ErrorIs(t, err, ErrShuttingDown)

	// Shutdown is idempotent.
	assert.NoError(t, hub.Shutdown(context.Background()))
}

func TestHub_UnresolvableTurnDegradesToStatic(t *testing.T) {
	hub := New([]backend.Backend{backend.NewStaticBackend("")})

	resp, err := hub.Handle(context.Background(), "conv-1", "anything at all")
	require.NoError(t, err)
	assert.Equal(t, backend.StaticApologyText, resp.Text)
	assert.False(t, resp.AwaitingUser)
}
