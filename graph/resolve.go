package graph

import (
	"context"
	"fmt"

	"github.com/triagekit/triagekit/catalog"
	"github.com/triagekit/triagekit/core"
	"github.com/triagekit/triagekit/logging"
	"github.com/triagekit/triagekit/model"
	"github.com/triagekit/triagekit/tool"
)

// Ref names one catalog agent to resolve into the graph, together with the
// forward edge label and the local tools offered to it.
type Ref struct {
	// Reference is the catalog id or agent name.
	Reference string
	// Label is the routing hint on the edge from the entry agent to this
	// specialist. Empty falls back to the resolved definition's description.
	Label string
	// Tools are the local tool bindings offered to the resolved agent. When
	// the definition declares tool names, only matching tools are bound.
	Tools []tool.Tool
}

// ResolveOptions describes a catalog-backed graph: one entry agent and any
// number of specialists, each reachable from the entry via a symmetric edge
// pair.
type ResolveOptions struct {
	Entry       Ref
	Specialists []Ref
	Model       model.Model
	Logger      logging.Logger
}

// Resolve builds a hand-off graph from catalog definitions. The entry agent
// is required: a failure to resolve it aborts construction with an
// AgentResolutionError. Specialists are optional: a specialist that fails to
// resolve is omitted from the graph with a warning, so a partially available
// catalog still yields a working graph.
func Resolve(ctx context.Context, cat catalog.Catalog, opts ResolveOptions) (*Graph, error) {
	logger := logging.OrNoOp(opts.Logger)

	entryDef, err := catalog.ResolveRef(ctx, cat, opts.Entry.Reference)
	if err != nil {
		return nil, &core.AgentResolutionError{Reference: opts.Entry.Reference, Err: err}
	}
	entry := resolvedAgent(entryDef, opts.Entry.Tools, opts.Model)

	b := NewBuilder().AddAgent(entry).WithEntry(entry.Name)

	for _, ref := range opts.Specialists {
		def, err := catalog.ResolveRef(ctx, cat, ref.Reference)
		if err != nil {
			logger.Warn("omitting specialist, resolution failed",
				"reference", ref.Reference, "error", err)
			continue
		}
		spec := resolvedAgent(def, ref.Tools, opts.Model)
		if spec.Name == entry.Name {
			logger.Warn("omitting specialist, name collides with entry agent",
				"reference", ref.Reference)
			continue
		}
		b.AddAgent(spec)
		b.AddHandoffPair(entry.Name, spec.Name, edgeLabel(ref, def))
	}

	return b.Build()
}

func edgeLabel(ref Ref, def *catalog.Definition) string {
	if ref.Label != "" {
		return ref.Label
	}
	if def.Description != "" {
		return def.Description
	}
	return fmt.Sprintf("Hand off to %s", def.Name)
}

func resolvedAgent(def *catalog.Definition, offered []tool.Tool, m model.Model) *Agent {
	return &Agent{
		Name:         def.Name,
		Description:  def.Description,
		Instructions: def.Instructions,
		Mode:         ModeRemote,
		Reference:    def.ID,
		Tools:        bindTools(def, offered),
		Model:        m,
	}
}

// bindTools filters the offered tools by the definition's declared tool
// names. A definition with no declared tools accepts all offered tools.
func bindTools(def *catalog.Definition, offered []tool.Tool) []tool.Tool {
	if len(def.Tools) == 0 {
		return offered
	}
	declared := make(map[string]bool, len(def.Tools))
	for _, name := range def.Tools {
		declared[name] = true
	}
	var bound []tool.Tool
	for _, t := range offered {
		if declared[t.Name()] {
			bound = append(bound, t)
		}
	}
	return bound
}
