// Package graph models the hand-off graph: the named agents participating
// in a conversation and the directed, labeled edges describing which agent
// may transfer control to which. Graphs are built once per backend
// activation, validated, and read-only afterwards, so they may be shared
// across concurrently executing turns.
package graph

import (
	"fmt"

	"github.com/triagekit/triagekit/model"
	"github.com/triagekit/triagekit/tool"
)

// Mode selects how an agent executes: in-process against a locally
// configured model, or as a definition resolved from the remote catalog.
type Mode string

const (
	// ModeLocal marks an agent authored in-process.
	ModeLocal Mode = "local"
	// ModeRemote marks an agent whose definition was resolved from the
	// remote agent catalog.
	ModeRemote Mode = "remote"
)

// Agent is a named participant in the hand-off graph. Agents are immutable
// after the graph is built.
type Agent struct {
	Name         string
	Description  string
	Instructions string
	Mode         Mode
	Reference    string // catalog id for ModeRemote agents
	Tools        []tool.Tool
	Model        model.Model
}

// Edge is a directed hand-off permission from Source to Target with a
// human-readable routing hint surfaced to the source agent.
type Edge struct {
	Source string
	Target string
	Label  string
}

// Graph is a validated, immutable set of agents and hand-off edges with a
// designated entry agent.
type Graph struct {
	agents map[string]*Agent
	names  []string // insertion order
	edges  []Edge
	entry  string
}

// Entry returns the graph's entry agent.
func (g *Graph) Entry() *Agent { return g.agents[g.entry] }

// Agent returns the named agent, if present.
func (g *Graph) Agent(name string) (*Agent, bool) {
	a, ok := g.agents[name]
	return a, ok
}

// AgentNames returns all agent names in insertion order.
func (g *Graph) AgentNames() []string {
	names := make([]string, len(g.names))
	copy(names, g.names)
	return names
}

// Edges returns a copy of all edges.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)
	return edges
}

// EdgesFrom returns the outgoing edges of the named agent in declaration
// order.
func (g *Graph) EdgesFrom(name string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Source == name {
			out = append(out, e)
		}
	}
	return out
}

// CanHandoff reports whether a hand-off from one agent to another is
// declared.
func (g *Graph) CanHandoff(from, to string) bool {
	for _, e := range g.edges {
		if e.Source == from && e.Target == to {
			return true
		}
	}
	return false
}

// Builder accumulates agents and edges for explicit graph construction.
// Validation happens in Build so construction order does not matter.
type Builder struct {
	agents []*Agent
	edges  []Edge
	entry  string
}

// NewBuilder creates an empty graph builder.
func NewBuilder() *Builder { return &Builder{} }

// AddAgent registers an agent. The first added agent becomes the entry
// unless WithEntry overrides it.
func (b *Builder) AddAgent(a *Agent) *Builder {
	b.agents = append(b.agents, a)
	if b.entry == "" {
		b.entry = a.Name
	}
	return b
}

// AddEdge declares that source may hand off to target, with a routing hint.
func (b *Builder) AddEdge(source, target, label string) *Builder {
	b.edges = append(b.edges, Edge{Source: source, Target: target, Label: label})
	return b
}

// AddHandoffPair declares the symmetric edge pair used for specialists: a
// forward edge labeled with the specialist's domain and a return edge back
// to the entry agent.
func (b *Builder) AddHandoffPair(entry, specialist, label string) *Builder {
	b.AddEdge(entry, specialist, label)
	b.AddEdge(specialist, entry, "Back to orchestrator")
	return b
}

// WithEntry selects the entry agent by name.
func (b *Builder) WithEntry(name string) *Builder {
	b.entry = name
	return b
}

// Build validates and returns the graph: agent names must be unique and
// non-empty, every edge endpoint must exist, no edge may target its own
// source, and the entry agent must be present.
func (b *Builder) Build() (*Graph, error) {
	if len(b.agents) == 0 {
		return nil, fmt.Errorf("graph has no agents")
	}

	agents := make(map[string]*Agent, len(b.agents))
	names := make([]string, 0, len(b.agents))
	for _, a := range b.agents {
		if a.Name == "" {
			return nil, fmt.Errorf("agent with empty name")
		}
		if _, dup := agents[a.Name]; dup {
			return nil, fmt.Errorf("duplicate agent name %q", a.Name)
		}
		agents[a.Name] = a
		names = append(names, a.Name)
	}

	for _, e := range b.edges {
		if e.Source == e.Target {
			return nil, fmt.Errorf("self-edge on agent %q", e.Source)
		}
		if _, ok := agents[e.Source]; !ok {
			return nil, fmt.Errorf("edge source %q is not in the graph", e.Source)
		}
		if _, ok := agents[e.Target]; !ok {
			return nil, fmt.Errorf("edge target %q is not in the graph", e.Target)
		}
	}

	if _, ok := agents[b.entry]; !ok {
		return nil, fmt.Errorf("entry agent %q is not in the graph", b.entry)
	}

	edges := make([]Edge, len(b.edges))
	copy(edges, b.edges)

	return &Graph{agents: agents, names: names, edges: edges, entry: b.entry}, nil
}
