package graph

import (
	"github.com/triagekit/triagekit/model"
	"github.com/triagekit/triagekit/tool"
)

const triageInstructions = "Handle customer requests. Analyze the customer's message, decide which " +
	"specialist is responsible and hand off to it. Never answer domain questions yourself. " +
	"If no specialist fits, ask the customer to clarify."

const refundInstructions = "Handle refund requests. Use process_refund with the order id and the " +
	"customer's reason. If the request is not refund related, hand back to the triage agent."

const orderStatusInstructions = "Handle order status and tracking requests. If the user supplies an " +
	"order id (numeric or simple token) call check_order_status immediately. " +
	"Return BOTH a concise plain text summary line and then a newline and the JSON object from the tool. " +
	"For partial info (product id, description keywords) call search_orders and return one summary line " +
	"per order followed by a newline and the JSON array. " +
	"For recent orders scenarios call list_recent_orders and use the same pattern (summary lines, newline, JSON array). " +
	"Do NOT wrap or explain beyond that dual-format output."

const orderReturnInstructions = "Handle order return requests. Use process_return with the order id and " +
	"the customer's reason. If the request is not return related, hand back to the triage agent."

const productLookupInstructions = "When the user asks about products, pricing, availability, or specifies a SKU: " +
	"Use get_by_sku if a SKU pattern is detected (alphanumeric token). Otherwise use search_products. " +
	"Respond ONLY with the compact JSON array of products found. Do NOT include any summary, explanation, " +
	"or extra text, just the JSON. If no products are found, return an empty JSON array []."

const referenceLookupInstructions = "For any question about returns, policies, customer support, or reference info, " +
	"ALWAYS call lookup_reference with the user's query. " +
	"Respond ONLY with the compact JSON array of results. Do NOT include any summary, explanation, " +
	"or extra text, just the JSON. If no results are found, return an empty JSON array []."

// SupportTools carries the per-specialist tool sets for the default support
// graph. A nil slice leaves the specialist without tools.
type SupportTools struct {
	Refund  []tool.Tool
	Order   []tool.Tool
	Return  []tool.Tool
	Product []tool.Tool
	Policy  []tool.Tool
}

// NewSupportGraph builds the default customer support hand-off graph: a
// triage agent that routes to refund, order status, order return, product
// lookup and reference lookup specialists, each with a return edge back to
// triage. All agents run on the given model.
func NewSupportGraph(m model.Model, tools SupportTools) (*Graph, error) {
	b := NewBuilder().
		AddAgent(&Agent{
			Name:         "TriageAgent",
			Description:  "A customer support agent that triages issues.",
			Instructions: triageInstructions,
			Mode:         ModeLocal,
			Model:        m,
		}).
		AddAgent(&Agent{
			Name:         "RefundAgent",
			Description:  "A customer support agent that handles refunds.",
			Instructions: refundInstructions,
			Mode:         ModeLocal,
			Tools:        tools.Refund,
			Model:        m,
		}).
		AddAgent(&Agent{
			Name:         "OrderStatusAgent",
			Description:  "A customer support agent that checks order status.",
			Instructions: orderStatusInstructions,
			Mode:         ModeLocal,
			Tools:        tools.Order,
			Model:        m,
		}).
		AddAgent(&Agent{
			Name:         "OrderReturnAgent",
			Description:  "A customer support agent that handles order returns.",
			Instructions: orderReturnInstructions,
			Mode:         ModeLocal,
			Tools:        tools.Return,
			Model:        m,
		}).
		AddAgent(&Agent{
			Name:         "ProductLookupAgent",
			Description:  "Helps users find products by name, description, or SKU.",
			Instructions: productLookupInstructions,
			Mode:         ModeLocal,
			Tools:        tools.Product,
			Model:        m,
		}).
		AddAgent(&Agent{
			Name:         "ReferenceLookupAgent",
			Description:  "Answers questions about returns, policies, and support using the reference index.",
			Instructions: referenceLookupInstructions,
			Mode:         ModeLocal,
			Tools:        tools.Policy,
			Model:        m,
		}).
		WithEntry("TriageAgent")

	b.AddEdge("TriageAgent", "RefundAgent", "Refund related issues")
	b.AddEdge("TriageAgent", "OrderStatusAgent", "Order status or tracking questions")
	b.AddEdge("TriageAgent", "OrderReturnAgent", "Order return related issues")
	b.AddEdge("TriageAgent", "ProductLookupAgent", "Product search, SKU, availability, price")
	b.AddEdge("TriageAgent", "ReferenceLookupAgent", "Returns, policies, support, reference info")

	b.AddEdge("RefundAgent", "TriageAgent", "Back to triage if not refund related")
	b.AddEdge("OrderStatusAgent", "TriageAgent", "Back to triage if not status related")
	b.AddEdge("OrderReturnAgent", "TriageAgent", "Back to triage if not return related")
	b.AddEdge("ProductLookupAgent", "TriageAgent", "Back to triage if not product related")
	b.AddEdge("ReferenceLookupAgent", "TriageAgent", "Back to triage if not reference related")

	return b.Build()
}
