// Package backend defines the orchestration strategies a turn can be routed
// to and the priority/fallback chain that picks between them. Each backend
// owns one complete strategy: an explicit local hand-off graph, a graph
// resolved from a remote agent catalog, a keyword classifier that picks a
// single specialist, or a static responder. The selector tries them in
// order and degrades instead of failing: its Resolve never returns an
// error to the caller.
package backend

import (
	"context"

	"github.com/triagekit/triagekit/core"
	"github.com/triagekit/triagekit/logging"
	"github.com/triagekit/triagekit/runtime"
)

// StaticApologyText is the response of last resort when every backend in
// the chain has failed.
const StaticApologyText = "I'm sorry, I encountered an error trying to process your request."

// Backend is one complete orchestration strategy.
type Backend interface {
	// Name identifies the backend in logs and configuration.
	Name() string

	// Configured reports whether the backend has the configuration it
	// needs. Unconfigured backends are skipped without being activated.
	Configured() bool

	// Activate performs the one-time build (graph construction, catalog
	// resolution). It must complete or fail fast before any turn is
	// executed; Execute triggers it lazily on first use.
	Activate(ctx context.Context) error

	// Execute runs one turn. The session is read, never mutated; the
	// caller commits the outcome.
	Execute(ctx context.Context, sess *core.Session, userText string) (*runtime.Outcome, error)

	// Shutdown releases backend resources. In-flight turns are awaited by
	// the dispatcher above this layer before Shutdown is called.
	Shutdown(ctx context.Context) error
}

// Chain orders the given backends by the configured name list, highest
// priority first. Names with no matching backend are ignored, and a backend
// whose name is absent from the list is left out of the chain, so the list
// both orders and enables backends.
func Chain(order []string, backends ...Backend) []Backend {
	byName := make(map[string]Backend, len(backends))
	for _, b := range backends {
		byName[b.Name()] = b
	}
	chain := make([]Backend, 0, len(order))
	for _, name := range order {
		if b, ok := byName[name]; ok {
			chain = append(chain, b)
		}
	}
	return chain
}

// Selector tries backends strictly in priority order. Unconfigured backends
// are skipped; a failing backend is logged with its identity and the
// selector falls through to the next one. Exhaustion of the chain yields
// the static apology, so a turn always produces a well-formed response.
type Selector struct {
	backends []Backend
	logger   logging.Logger
}

// NewSelector builds a selector over the given backends, highest priority
// first.
func NewSelector(logger logging.Logger, backends ...Backend) *Selector {
	return &Selector{backends: backends, logger: logging.OrNoOp(logger)}
}

// Resolve routes one turn to the first backend that can handle it. Exactly
// one backend's result is used; there is no merging across backends. A
// cancelled context stops the chain early since every remaining backend
// would fail the same way.
func (s *Selector) Resolve(ctx context.Context, sess *core.Session, userText string) *runtime.Outcome {
	for _, b := range s.backends {
		if !b.Configured() {
			s.logger.Debug("backend.skip.unconfigured", "backend", b.Name())
			continue
		}
		out, err := b.Execute(ctx, sess, userText)
		if err == nil {
			s.logger.Debug("backend.resolved", "backend", b.Name(), "agent", out.FinalAgent)
			return out
		}
		s.logger.Error("backend.execute.failed", "error", &core.BackendError{Backend: b.Name(), Err: err})
		if ctx.Err() != nil {
			break
		}
	}
	return staticOutcome(userText)
}

// Shutdown shuts down every backend in the chain, returning the first
// error encountered.
func (s *Selector) Shutdown(ctx context.Context) error {
	var firstErr error
	for _, b := range s.backends {
		if err := b.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func staticOutcome(userText string) *runtime.Outcome {
	return &runtime.Outcome{
		Text:        StaticApologyText,
		Messages:    []string{StaticApologyText},
		UserMessage: core.NewUserMessage(userText),
		Transcript:  []core.Message{core.NewAssistantMessage("", StaticApologyText)},
	}
}
