// Package catalog defines the boundary to the remote agent catalog: an
// external service that maps agent ids (or names) to agent definitions with
// instructions and declared tools. Graph construction resolves remote agent
// references through this package once per backend activation.
package catalog

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when an id or name does not resolve to an agent.
var ErrNotFound = errors.New("agent not found")

// Definition is an agent description fetched from the catalog.
type Definition struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Instructions string   `json:"instructions"`
	Tools        []string `json:"tools,omitempty"` // declared tool names
}

// Catalog lists and resolves remote agent definitions.
type Catalog interface {
	// GetAgent resolves a definition by its catalog id.
	// Returns ErrNotFound when the id is unknown.
	GetAgent(ctx context.Context, id string) (*Definition, error)

	// ListAgents returns all known definitions, used for name-based
	// fallback resolution.
	ListAgents(ctx context.Context) ([]Definition, error)
}

// ResolveRef resolves a reference by id first, falling back to a scan of all
// agents by name when the id is absent or unknown. Transport failures from
// GetAgent other than ErrNotFound are returned as-is so callers can tell a
// missing agent from an unreachable catalog.
func ResolveRef(ctx context.Context, c Catalog, ref string) (*Definition, error) {
	def, err := c.GetAgent(ctx, ref)
	if err == nil {
		return def, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	defs, err := c.ListAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list agents for name fallback: %w", err)
	}
	for i := range defs {
		if defs[i].Name == ref {
			return &defs[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
}

// Static is an in-memory catalog, useful for tests and fixed local
// deployments.
type Static struct {
	defs map[string]Definition
}

// NewStatic builds a static catalog keyed by definition id.
func NewStatic(defs ...Definition) *Static {
	m := make(map[string]Definition, len(defs))
	for _, d := range defs {
		m[d.ID] = d
	}
	return &Static{defs: m}
}

// GetAgent implements Catalog.
func (s *Static) GetAgent(_ context.Context, id string) (*Definition, error) {
	if d, ok := s.defs[id]; ok {
		return &d, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ListAgents implements Catalog.
func (s *Static) ListAgents(context.Context) ([]Definition, error) {
	defs := make([]Definition, 0, len(s.defs))
	for _, d := range s.defs {
		defs = append(defs, d)
	}
	return defs, nil
}
