// Package effects defines effect types as data structures representing I/O operations.
// This is the foundation of the Functional Core / Imperative Shell pattern.
// Effects are pure data - they describe what should happen, not how.
package effects

// Effect is the base interface for all effects.
// Effects represent I/O operations as data that can be interpreted by the shell.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// LogEffect represents a logging operation.
type LogEffect struct {
	Level   string // "debug", "info", "warn", "error"
	Message string
	Fields  map[string]any
}

func (e LogEffect) EffectType() string { return "log" }

// PersistEffect represents a database persistence operation.
type PersistEffect struct {
	Entity    string // e.g., "contact"
	Operation string // e.g., "delete"
	Data      any    // The entity data or key
}

func (e PersistEffect) EffectType() string { return "persist" }

// FileEffect represents a file system operation.
type FileEffect struct {
	Operation  string // e.g., "remove"
	Path       string
	BestEffort bool // failures are logged, never returned
}

func (e FileEffect) EffectType() string { return "file" }
