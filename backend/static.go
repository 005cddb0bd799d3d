package backend

import (
	"context"

	"github.com/triagekit/triagekit/core"
	"github.com/triagekit/triagekit/runtime"
)

// StaticBackend answers every turn with a fixed message. It is always
// configured and never fails, which makes it a guaranteed terminator when
// placed last in the chain.
type StaticBackend struct {
	text string
}

// NewStaticBackend builds a static responder. An empty text falls back to
// the apology of last resort.
func NewStaticBackend(text string) *StaticBackend {
	if text == "" {
		text = StaticApologyText
	}
	return &StaticBackend{text: text}
}

// Name implements Backend.
func (b *StaticBackend) Name() string { return "static-responder" }

// Configured implements Backend.
func (b *StaticBackend) Configured() bool { return true }

// Activate implements Backend.
func (b *StaticBackend) Activate(context.Context) error { return nil }

// Execute implements Backend.
func (b *StaticBackend) Execute(_ context.Context, _ *core.Session, userText string) (*runtime.Outcome, error) {
	return &runtime.Outcome{
		Text:        b.text,
		Messages:    []string{b.text},
		UserMessage: core.NewUserMessage(userText),
		Transcript:  []core.Message{core.NewAssistantMessage("", b.text)},
	}, nil
}

// Shutdown implements Backend.
func (b *StaticBackend) Shutdown(context.Context) error { return nil }
