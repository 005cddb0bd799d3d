// Package session houses concrete implementations of the core.SessionStore.
// The interface itself (and the Session struct) live in the core package to
// centralize domain contracts. Keeping only implementations here prevents
// higher level packages (backends, the hub) from depending on concrete
// storage.
//
// Additional backends (Redis, Postgres, etc.) belong in sub-packages; only
// the wiring layer decides which implementation to instantiate.
package session
