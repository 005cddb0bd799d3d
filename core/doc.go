// Package core defines the shared data model of triagekit: conversation
// messages with their tool-call and tool-result payloads, per-conversation
// sessions with append-only history, the session store contract, and the
// error taxonomy used across graph construction, turn execution and backend
// selection.
package core
