package plugins

import (
	"context"
	"fmt"

	"github.com/triagekit/triagekit/tool"
)

// OrderTools builds the order status tool set over the given store.
func OrderTools(store OrderStore) []tool.Tool {
	return []tool.Tool{
		checkOrderStatusTool(store),
		searchOrdersTool(store),
		listRecentOrdersTool(store),
	}
}

func checkOrderStatusTool(store OrderStore) tool.Tool {
	return tool.NewFunctionTool(
		"check_order_status",
		"Look up one order by its id. Returns the order as JSON, or a message when the order does not exist.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"order_id": map[string]any{"type": "string", "description": "Order identifier"},
			},
			"required": []string{"order_id"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			id := stringArg(args, "order_id")
			order, err := store.GetOrder(ctx, id)
			if err != nil {
				return nil, tool.NewToolError("check_order_status",
					fmt.Sprintf("failed to query order %s: %v", id, err), tool.CodeCollaborator)
			}
			if order == nil {
				return map[string]any{"message": fmt.Sprintf("No order found for id %s", id)}, nil
			}
			return order, nil
		},
	)
}

func searchOrdersTool(store OrderStore) tool.Tool {
	return tool.NewFunctionTool(
		"search_orders",
		"Search orders by order id, product id or description keywords. Returns a JSON array of matching orders.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"order_id":    map[string]any{"type": "string", "description": "Exact order id"},
				"product_id":  map[string]any{"type": "string", "description": "Product id on the order"},
				"description": map[string]any{"type": "string", "description": "Keywords matched against the order description"},
				"top":         map[string]any{"type": "integer", "description": "Maximum number of results"},
			},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			q := OrderQuery{
				OrderID:     stringArg(args, "order_id"),
				ProductID:   stringArg(args, "product_id"),
				Description: stringArg(args, "description"),
				Limit:       intArg(args, "top", 5),
			}
			orders, err := store.SearchOrders(ctx, q)
			if err != nil {
				return nil, tool.NewToolError("search_orders",
					fmt.Sprintf("failed to search orders: %v", err), tool.CodeCollaborator)
			}
			if orders == nil {
				orders = []Order{}
			}
			return orders, nil
		},
	)
}

func listRecentOrdersTool(store OrderStore) tool.Tool {
	return tool.NewFunctionTool(
		"list_recent_orders",
		"List the most recent orders for a customer. Returns a JSON array of orders, newest first.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"customer_id": map[string]any{"type": "string", "description": "Customer identifier"},
				"top":         map[string]any{"type": "integer", "description": "Maximum number of results"},
			},
			"required": []string{"customer_id"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			customerID := stringArg(args, "customer_id")
			orders, err := store.ListRecentOrders(ctx, customerID, intArg(args, "top", 5))
			if err != nil {
				return nil, tool.NewToolError("list_recent_orders",
					fmt.Sprintf("failed to list orders for %s: %v", customerID, err), tool.CodeCollaborator)
			}
			if orders == nil {
				orders = []Order{}
			}
			return orders, nil
		},
	)
}
