package plugins

import (
	"context"
	"fmt"

	"github.com/triagekit/triagekit/tool"
)

// FulfillmentProcessor is the external collaborator behind the refund and
// return tools.
type FulfillmentProcessor interface {
	ProcessRefund(ctx context.Context, orderID, reason string) error
	ProcessReturn(ctx context.Context, orderID, reason string) error
}

// RefundTools builds the refund tool set over the given processor.
func RefundTools(proc FulfillmentProcessor) []tool.Tool {
	return []tool.Tool{processRefundTool(proc)}
}

// ReturnTools builds the order return tool set over the given processor.
func ReturnTools(proc FulfillmentProcessor) []tool.Tool {
	return []tool.Tool{processReturnTool(proc)}
}

func processRefundTool(proc FulfillmentProcessor) tool.Tool {
	return tool.NewFunctionTool(
		"process_refund",
		"Process a refund for an order. Requires the order id and the customer's reason.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"order_id": map[string]any{"type": "string", "description": "Order identifier"},
				"reason":   map[string]any{"type": "string", "description": "Reason given by the customer"},
			},
			"required": []string{"order_id", "reason"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			id := stringArg(args, "order_id")
			if err := proc.ProcessRefund(ctx, id, stringArg(args, "reason")); err != nil {
				return nil, tool.NewToolError("process_refund",
					fmt.Sprintf("failed to process refund for order %s: %v", id, err), tool.CodeCollaborator)
			}
			return fmt.Sprintf("Refund for order %s has been processed successfully.", id), nil
		},
	)
}

func processReturnTool(proc FulfillmentProcessor) tool.Tool {
	return tool.NewFunctionTool(
		"process_return",
		"Process a return for an order. Requires the order id and the customer's reason.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"order_id": map[string]any{"type": "string", "description": "Order identifier"},
				"reason":   map[string]any{"type": "string", "description": "Reason given by the customer"},
			},
			"required": []string{"order_id", "reason"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			id := stringArg(args, "order_id")
			if err := proc.ProcessReturn(ctx, id, stringArg(args, "reason")); err != nil {
				return nil, tool.NewToolError("process_return",
					fmt.Sprintf("failed to process return for order %s: %v", id, err), tool.CodeCollaborator)
			}
			return fmt.Sprintf("Return for order %s has been processed successfully.", id), nil
		},
	)
}
