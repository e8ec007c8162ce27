// Package engine defines the pluggable rule-system contract.
//
// A System owns all mutable game state for one table: characters, the current
// encounter, the scene and the action log. Collaborators (a CLI loop, an MCP
// adapter, a play-by-post server) drive it exclusively through this interface
// and externalize the structured results as messages.
//
// Systems are single-writer: callers must not issue two mutating calls
// concurrently against the same instance. Independent instances share no
// mutable state and may run fully in parallel.
package engine

import (
	apperrors "github.com/louisbranch/airlock/internal/errors"
)

// Action is a request submitted to a system on behalf of a character.
type Action struct {
	// Type names the operation (e.g. "roll", "attack", "heal").
	Type string `json:"type"`
	// Character is the acting character's name.
	Character string `json:"character"`
	// Params carries operation-specific arguments.
	Params map[string]any `json:"params,omitempty"`
}

// Result is the structured outcome of a processed action.
//
// Every internal error is mapped onto a stable, collaborator-facing code and
// kind; collaborators render these into user-visible text and never see raw
// internal errors.
type Result struct {
	Success      bool            `json:"success"`
	Summary      string          `json:"summary"`
	Details      map[string]any  `json:"details,omitempty"`
	StateChanged bool            `json:"state_changed"`
	ErrorCode    apperrors.Code  `json:"error_code,omitempty"`
	ErrorKind    apperrors.Kind  `json:"error_kind,omitempty"`
}

// Failure builds a Result for a rejected action from a domain error.
func Failure(err error) Result {
	code := apperrors.GetCode(err)
	return Result{
		Success:      false,
		Summary:      apperrors.Render(err, ""),
		StateChanged: false,
		ErrorCode:    code,
		ErrorKind:    apperrors.KindOf(code),
	}
}

// System is the capability set every rule system implements.
type System interface {
	// Name identifies the rule system (e.g. "mothership", "freeform").
	Name() string

	// CreateCharacter registers a new character and returns its sheet as a
	// document.
	CreateCharacter(name string, opts map[string]any) (map[string]any, error)

	// Character returns a character sheet document by name.
	Character(name string) (map[string]any, bool)

	// Characters lists all character sheet documents in creation order.
	Characters() []map[string]any

	// ProcessAction resolves an action and returns its structured result.
	// It is the single externally exposed mutation entry point.
	ProcessAction(action Action) Result

	// State returns the full game state as a document.
	State() map[string]any

	// AvailableActions lists the action types currently open to a character.
	AvailableActions(character string) []string

	// SaveState serializes the full state as a self-describing document.
	SaveState() ([]byte, error)

	// LoadState restores state from a document produced by SaveState. On a
	// schema mismatch it fails without touching the prior state.
	LoadState(blob []byte) error
}
