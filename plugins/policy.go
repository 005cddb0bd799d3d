package plugins

import (
	"context"
	"fmt"

	"github.com/triagekit/triagekit/tool"
)

// PolicyTools builds the policy/reference lookup tool set over the given
// index.
func PolicyTools(index PolicyIndex) []tool.Tool {
	return []tool.Tool{lookupReferenceTool(index)}
}

func lookupReferenceTool(index PolicyIndex) tool.Tool {
	return tool.NewFunctionTool(
		"lookup_reference",
		"Search return policies, warranty terms and support reference material. Returns a JSON array of hits.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string", "description": "Question or keywords to search for"},
				"top":   map[string]any{"type": "integer", "description": "Maximum number of results"},
			},
			"required": []string{"query"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			hits, err := index.Search(ctx, stringArg(args, "query"), intArg(args, "top", 3))
			if err != nil {
				return nil, tool.NewToolError("lookup_reference",
					fmt.Sprintf("failed to search reference info: %v", err), tool.CodeCollaborator)
			}
			if hits == nil {
				hits = []PolicyHit{}
			}
			return hits, nil
		},
	)
}
