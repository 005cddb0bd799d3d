package core

import "fmt"

// AgentResolutionError reports a failure to resolve an agent reference
// against the remote catalog. It is fatal to the build of the backend that
// requested the resolution; the backend selector treats it as a signal to
// fall through to the next backend.
type AgentResolutionError struct {
	Reference string // catalog id or name that failed to resolve
	Err       error
}

func (e *AgentResolutionError) Error() string {
	return fmt.Sprintf("agent resolution failed for %q: %v", e.Reference, e.Err)
}

func (e *AgentResolutionError) Unwrap() error { return e.Err }

// InvalidHandoffError reports a hand-off request naming a target that is not
// reachable via a declared edge from the issuing agent. It is recoverable:
// the runtime rejects it back to the agent as an error tool result.
type InvalidHandoffError struct {
	From, To string
}

func (e *InvalidHandoffError) Error() string {
	return fmt.Sprintf("no handoff edge from %q to %q", e.From, e.To)
}

// HandoffLimitError reports that a turn exceeded the configured maximum
// number of hand-offs. The runtime converts it into a synthesized terminal
// message rather than failing the turn.
type HandoffLimitError struct {
	Limit int
}

func (e *HandoffLimitError) Error() string {
	return fmt.Sprintf("handoff limit of %d exceeded", e.Limit)
}

// BackendError wraps any failure raised while a backend executed a turn.
// The selector logs it with the backend identity and proceeds to the next
// backend in priority order.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %q failed: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
