// Package triagekit provides a high-level façade over the backend fallback
// chain and session storage for routing conversational support turns across
// cooperating agents. Most applications interact with this package by:
//  1. Creating a Hub via New() with a configured backend chain (optionally
//     overriding the default in-memory session store)
//  2. Handling turns with Handle(ctx, conversationID, userText)
//  3. Calling Shutdown when done
//
// The façade delegates turn routing to backend.Selector while owning the
// session commit: a turn's transcript is appended to its session only after
// the turn completes, so cancellation never leaves partial history behind.
// Concurrency across conversations is unconstrained; per-conversation turns
// are expected to be serialized by the caller.
package triagekit

import (
	"context"
	"errors"
	"sync"

	"github.com/triagekit/triagekit/backend"
	"github.com/triagekit/triagekit/core"
	"github.com/triagekit/triagekit/logging"
	"github.com/triagekit/triagekit/session"
)

// ErrShuttingDown is returned by Handle after Shutdown has begun.
var ErrShuttingDown = errors.New("triagekit: hub is shutting down")

// Options configures the Hub instance.
type Options struct {
	// SessionStore persists conversations. Defaults to an in-memory store.
	SessionStore core.SessionStore

	// Logger defaults to a NoOp logger if nil.
	Logger logging.Logger
}

// Response is the caller-facing result of one handled turn.
type Response struct {
	// Text is the final user-facing message.
	Text string `json:"text"`
	// Messages are all user-facing messages produced during the turn, in
	// arrival order. Text is always the last entry.
	Messages []string `json:"messages"`
	// AwaitingUser reports whether the final message asks the user a
	// question.
	AwaitingUser bool `json:"awaiting_user"`
	// Agent names the agent that produced the final message, when known.
	Agent string `json:"agent,omitempty"`
}

// Hub is the high-level façade aggregating the backend chain and session
// storage.
type Hub struct {
	opts     Options
	selector *backend.Selector

	mu       sync.Mutex
	inflight sync.WaitGroup
	closed   bool
}

// New creates a Hub over the given backends, tried in priority order. Any
// unset service is initialized with an in-memory implementation.
func New(backends []backend.Backend, optFns ...func(o *Options)) *Hub {
	opts := Options{
		SessionStore: session.NewInMemoryStore(),
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Hub{
		opts:     opts,
		selector: backend.NewSelector(opts.Logger, backends...),
	}
}

// Handle routes one conversational turn. The session for the conversation
// id is loaded (created lazily), the backend chain resolves the turn, and
// the completed turn is committed back to the store. A cancelled context
// aborts before commit, leaving the session unchanged. Handle never fails
// on backend errors; those degrade inside the chain.
func (h *Hub) Handle(ctx context.Context, conversationID, userText string) (*Response, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrShuttingDown
	}
	h.inflight.Add(1)
	h.mu.Unlock()
	defer h.inflight.Done()

	sess, err := h.opts.SessionStore.Get(conversationID)
	if err != nil {
		return nil, err
	}

	out := h.selector.Resolve(ctx, sess, userText)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := h.opts.SessionStore.CommitTurn(conversationID, out.Turn()); err != nil {
		return nil, err
	}

	return &Response{
		Text:         out.Text,
		Messages:     out.Messages,
		AwaitingUser: out.AwaitingUser,
		Agent:        out.FinalAgent,
	}, nil
}

// Session returns a snapshot of the stored conversation.
func (h *Hub) Session(conversationID string) (*core.Session, error) {
	return h.opts.SessionStore.Get(conversationID)
}

// Reset discards the stored conversation and starts a fresh one.
func (h *Hub) Reset(conversationID string) error {
	_, err := h.opts.SessionStore.Create(conversationID)
	return err
}

// Shutdown stops accepting new turns, awaits completion of in-flight turns
// and releases backend resources.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		h.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return h.selector.Shutdown(ctx)
}
