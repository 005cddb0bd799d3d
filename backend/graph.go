package backend

import (
	"context"
	"sync"

	"github.com/triagekit/triagekit/catalog"
	"github.com/triagekit/triagekit/core"
	"github.com/triagekit/triagekit/graph"
	"github.com/triagekit/triagekit/runtime"
)

// GraphBackend runs turns over a hand-off graph built once at activation.
// Construction of the graph is deferred into Activate so that backends
// whose build requires network I/O (catalog resolution) fail fast on first
// use instead of at wiring time.
type GraphBackend struct {
	name       string
	configured bool
	build      func(ctx context.Context) (*graph.Graph, error)
	opts       []runtime.Option
	closer     func() error

	once sync.Once
	rt   *runtime.Runtime
	err  error
}

// NewGraphBackend wraps an explicitly constructed graph as the
// "local-handoff-graph" backend.
func NewGraphBackend(g *graph.Graph, opts ...runtime.Option) *GraphBackend {
	return &GraphBackend{
		name:       "local-handoff-graph",
		configured: g != nil,
		build:      func(context.Context) (*graph.Graph, error) { return g, nil },
		opts:       opts,
	}
}

// NewCatalogBackend builds the "remote-agent-platform" backend: its graph
// is resolved from the agent catalog at activation. A failure to resolve
// the entry agent fails the activation, which the selector treats as a
// signal to fall through.
func NewCatalogBackend(cat catalog.Catalog, ropts graph.ResolveOptions, opts ...runtime.Option) *GraphBackend {
	b := &GraphBackend{
		name:       "remote-agent-platform",
		configured: cat != nil && ropts.Entry.Reference != "" && ropts.Model != nil,
		build: func(ctx context.Context) (*graph.Graph, error) {
			return graph.Resolve(ctx, cat, ropts)
		},
		opts: opts,
	}
	if closer, ok := cat.(interface{ Close() }); ok {
		b.closer = func() error { closer.Close(); return nil }
	}
	return b
}

// Name implements Backend.
func (b *GraphBackend) Name() string { return b.name }

// Configured implements Backend.
func (b *GraphBackend) Configured() bool { return b.configured }

// Activate builds the graph and runtime exactly once. The result, success
// or failure, is sticky for the life of the backend.
func (b *GraphBackend) Activate(ctx context.Context) error {
	b.once.Do(func() {
		g, err := b.build(ctx)
		if err != nil {
			b.err = err
			return
		}
		b.rt = runtime.New(g, b.opts...)
	})
	return b.err
}

// Execute implements Backend.
func (b *GraphBackend) Execute(ctx context.Context, sess *core.Session, userText string) (*runtime.Outcome, error) {
	if err := b.Activate(ctx); err != nil {
		return nil, err
	}
	return b.rt.Execute(ctx, sess, userText)
}

// Shutdown implements Backend.
func (b *GraphBackend) Shutdown(context.Context) error {
	if b.closer != nil {
		return b.closer()
	}
	return nil
}
