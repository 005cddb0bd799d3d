package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_AppendTurn(t *testing.T) {
	sess := NewSession("conv-1")

	turn := Turn{
		UserMessage: NewUserMessage("where is my order?"),
		Transcript: []Message{
			NewAssistantMessage("OrderStatusAgent", "Your order 1001 has shipped."),
		},
		FinalAgent:   "OrderStatusAgent",
		AwaitingUser: false,
	}
	sess.AppendTurn(turn)

	assert.Equal(t, 2, sess.Len())
	assert.Equal(t, "OrderStatusAgent", sess.LastAgent())
	assert.False(t, sess.AwaitingUser)

	// A second turn grows history monotonically and moves the last agent.
	sess.AppendTurn(Turn{
		UserMessage: NewUserMessage("do you have blue paint?"),
		Transcript: []Message{
			NewAssistantMessage("ProductLookupAgent", "We have two blue paints. Which finish do you prefer?"),
		},
		FinalAgent:   "ProductLookupAgent",
		AwaitingUser: true,
	})
	assert.Equal(t, 4, sess.Len())
	assert.Equal(t, "ProductLookupAgent", sess.LastAgent())
	assert.True(t, sess.AwaitingUser)
}

func TestSession_AppendTurn_EmptyFinalAgentKeepsLast(t *testing.T) {
	sess := NewSession("conv-2")
	sess.AppendTurn(Turn{
		UserMessage: NewUserMessage("hi"),
		Transcript:  []Message{NewAssistantMessage("TriageAgent", "Hello!")},
		FinalAgent:  "TriageAgent",
	})

	// A static fallback turn carries no final agent; routing state is kept.
	sess.AppendTurn(Turn{
		UserMessage: NewUserMessage("anything"),
		Transcript:  []Message{NewAssistantMessage("", "I'm sorry, something went wrong.")},
	})
	assert.Equal(t, "TriageAgent", sess.LastAgent())
}

func TestSession_ConversationHistoryFiltersRoles(t *testing.T) {
	sess := NewSession("conv-3")
	sess.AppendTurn(Turn{
		UserMessage: NewUserMessage("check order 1001"),
		Transcript: []Message{
			NewToolCallMessage("OrderStatusAgent", []ToolCall{{ID: "c1", Name: "check_order_status", Arguments: `{"order_id":"1001"}`}}),
			NewToolResultMessage("OrderStatusAgent", []ToolResult{{ID: "c1", Name: "check_order_status", Content: `{"status":"shipped"}`}}),
			NewAssistantMessage("OrderStatusAgent", "Order 1001 has shipped."),
		},
		FinalAgent: "OrderStatusAgent",
	})
	sess.History = append(sess.History, Message{ID: NewID(), Role: RoleSystem, Content: "internal"})

	history := sess.ConversationHistory()
	require.Len(t, history, 4)
	for _, m := range history {
		assert.NotEqual(t, RoleSystem, m.Role)
	}
}

func TestSession_CloneIsIndependent(t *testing.T) {
	sess := NewSession("conv-4")
	sess.AppendTurn(Turn{
		UserMessage: NewUserMessage("hello"),
		Transcript:  []Message{NewAssistantMessage("TriageAgent", "Hi there!")},
		FinalAgent:  "TriageAgent",
	})

	clone := sess.Clone()
	clone.AppendTurn(Turn{
		UserMessage: NewUserMessage("more"),
		Transcript:  []Message{NewAssistantMessage("TriageAgent", "Sure.")},
		FinalAgent:  "TriageAgent",
	})

	assert.Equal(t, 2, sess.Len())
	assert.Equal(t, 4, clone.Len())
}

func TestMessage_IsQuestion(t *testing.T) {
	assert.True(t, NewAssistantMessage("a", "Which finish do you prefer?").IsQuestion())
	assert.True(t, NewAssistantMessage("a", "Anything else?  ").IsQuestion())
	assert.False(t, NewAssistantMessage("a", "Your order has shipped.").IsQuestion())
	assert.False(t, NewAssistantMessage("a", "").IsQuestion())
}
