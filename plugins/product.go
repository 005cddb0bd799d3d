package plugins

import (
	"context"
	"fmt"

	"github.com/triagekit/triagekit/tool"
)

// ProductTools builds the product lookup tool set over the given catalog.
func ProductTools(catalog ProductCatalog) []tool.Tool {
	return []tool.Tool{
		searchProductsTool(catalog),
		getBySKUTool(catalog),
	}
}

func searchProductsTool(catalog ProductCatalog) tool.Tool {
	return tool.NewFunctionTool(
		"search_products",
		"Search products by name, description or keywords. Returns a JSON array of matching products.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string", "description": "Free-text search query"},
				"top":   map[string]any{"type": "integer", "description": "Maximum number of results"},
			},
			"required": []string{"query"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			query := stringArg(args, "query")
			top := intArg(args, "top", 5)
			items, err := catalog.Search(ctx, query, top)
			if err != nil {
				return nil, tool.NewToolError("search_products",
					fmt.Sprintf("failed to search products: %v", err), tool.CodeCollaborator)
			}
			if items == nil {
				items = []Product{}
			}
			return items, nil
		},
	)
}

func getBySKUTool(catalog ProductCatalog) tool.Tool {
	return tool.NewFunctionTool(
		"get_by_sku",
		"Look up a single product by its SKU. Returns the product as JSON, or a message when nothing matches.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"sku": map[string]any{"type": "string", "description": "Product SKU"},
			},
			"required": []string{"sku"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			sku := stringArg(args, "sku")
			prod, err := catalog.GetBySKU(ctx, sku)
			if err != nil {
				return nil, tool.NewToolError("get_by_sku",
					fmt.Sprintf("failed to look up product: %v", err), tool.CodeCollaborator)
			}
			if prod == nil {
				return map[string]any{"message": fmt.Sprintf("No product found for SKU %s", sku)}, nil
			}
			// Trim long descriptions for prompt economy.
			if len(prod.Description) > 240 {
				trimmed := *prod
				trimmed.Description = prod.Description[:240] + "..."
				return trimmed, nil
			}
			return prod, nil
		},
	)
}
