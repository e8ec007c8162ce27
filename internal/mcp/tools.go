package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/airlock/internal/engine"
)

// CreateCharacterInput represents the MCP tool input for character creation.
type CreateCharacterInput struct {
	Name    string         `json:"name" jsonschema:"character name, unique per game"`
	Options map[string]any `json:"options,omitempty" jsonschema:"system-specific creation options (e.g. class, controller)"`
}

// CreateCharacterResult represents the MCP tool output for character creation.
type CreateCharacterResult struct {
	Character map[string]any `json:"character" jsonschema:"the created character sheet"`
}

// PerformActionInput represents the MCP tool input for processing an action.
type PerformActionInput struct {
	Type      string         `json:"type" jsonschema:"action type (use available_actions to discover valid types)"`
	Character string         `json:"character,omitempty" jsonschema:"acting character name"`
	Params    map[string]any `json:"params,omitempty" jsonschema:"action-specific parameters"`
}

// PerformActionResult represents the MCP tool output for a processed action.
type PerformActionResult struct {
	Success      bool           `json:"success" jsonschema:"whether the action was accepted and resolved"`
	Summary      string         `json:"summary" jsonschema:"human-readable outcome line"`
	Details      map[string]any `json:"details,omitempty" jsonschema:"structured outcome payload"`
	StateChanged bool           `json:"state_changed" jsonschema:"whether game state was mutated"`
	ErrorCode    string         `json:"error_code,omitempty" jsonschema:"stable error code on rejection"`
	ErrorKind    string         `json:"error_kind,omitempty" jsonschema:"error classification on rejection"`
}

// GetCharacterInput represents the MCP tool input for a character lookup.
type GetCharacterInput struct {
	Name string `json:"name" jsonschema:"character name, case-insensitive"`
}

// GetCharacterResult represents the MCP tool output for a character lookup.
type GetCharacterResult struct {
	Found     bool           `json:"found" jsonschema:"whether the character exists"`
	Character map[string]any `json:"character,omitempty" jsonschema:"character sheet when found"`
}

// ListCharactersResult represents the MCP tool output for a roster listing.
type ListCharactersResult struct {
	Characters []map[string]any `json:"characters" jsonschema:"character sheets in creation order"`
}

// GameStateResult represents the MCP tool output for a state inspection.
type GameStateResult struct {
	State map[string]any `json:"state" jsonschema:"full game state document"`
}

// AvailableActionsInput represents the MCP tool input for action discovery.
type AvailableActionsInput struct {
	Character string `json:"character" jsonschema:"character whose options to list"`
}

// AvailableActionsResult represents the MCP tool output for action discovery.
type AvailableActionsResult struct {
	Actions []string `json:"actions" jsonschema:"action types currently open to the character"`
}

// SaveGameInput represents the MCP tool input for persisting the session.
type SaveGameInput struct {
	Name string `json:"name,omitempty" jsonschema:"optional display name for the saved game"`
}

// SaveGameResult represents the MCP tool output for persisting the session.
type SaveGameResult struct {
	ID string `json:"id" jsonschema:"identifier to pass to load_game"`
}

// LoadGameInput represents the MCP tool input for restoring a saved game.
type LoadGameInput struct {
	ID string `json:"id" jsonschema:"identifier returned by save_game"`
}

// LoadGameResult represents the MCP tool output for restoring a saved game.
type LoadGameResult struct {
	ID      string `json:"id" jsonschema:"identifier of the restored game"`
	Name    string `json:"name,omitempty" jsonschema:"display name of the restored game"`
	System  string `json:"system" jsonschema:"rule system the save belongs to"`
	SavedAt string `json:"saved_at,omitempty" jsonschema:"RFC 3339 timestamp of the save"`
}

// CreateCharacterTool describes the character creation MCP tool.
func CreateCharacterTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "create_character",
		Description: "Creates a character in the current game and returns its sheet",
	}
}

// CreateCharacterHandler creates characters in the session's rule system.
func CreateCharacterHandler(session *Session) mcp.ToolHandlerFor[CreateCharacterInput, CreateCharacterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CreateCharacterInput) (*mcp.CallToolResult, CreateCharacterResult, error) {
		name := strings.TrimSpace(input.Name)
		if name == "" {
			return nil, CreateCharacterResult{}, fmt.Errorf("character name is required")
		}
		session.mu.Lock()
		sheet, err := session.system.CreateCharacter(name, input.Options)
		session.mu.Unlock()
		if err != nil {
			return nil, CreateCharacterResult{}, fmt.Errorf("create character %q: %w", name, err)
		}
		return nil, CreateCharacterResult{Character: sheet}, nil
	}
}

// PerformActionTool describes the action processing MCP tool.
func PerformActionTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "perform_action",
		Description: "Submits a game action (roll, attack, heal, ...) and returns its structured outcome",
	}
}

// PerformActionHandler routes actions into the rule system. Rejected actions
// are reported through the result's error code, not as tool errors, so the
// model can read the rejection and retry.
func PerformActionHandler(session *Session) mcp.ToolHandlerFor[PerformActionInput, PerformActionResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PerformActionInput) (*mcp.CallToolResult, PerformActionResult, error) {
		if strings.TrimSpace(input.Type) == "" {
			return nil, PerformActionResult{}, fmt.Errorf("action type is required")
		}
		result := session.process(ctx, engine.Action{
			Type:      input.Type,
			Character: input.Character,
			Params:    input.Params,
		})
		return nil, PerformActionResult{
			Success:      result.Success,
			Summary:      result.Summary,
			Details:      result.Details,
			StateChanged: result.StateChanged,
			ErrorCode:    string(result.ErrorCode),
			ErrorKind:    string(result.ErrorKind),
		}, nil
	}
}

// GetCharacterTool describes the character lookup MCP tool.
func GetCharacterTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_character",
		Description: "Fetches a character sheet by name",
	}
}

// GetCharacterHandler looks up a character sheet.
func GetCharacterHandler(session *Session) mcp.ToolHandlerFor[GetCharacterInput, GetCharacterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetCharacterInput) (*mcp.CallToolResult, GetCharacterResult, error) {
		session.mu.Lock()
		sheet, ok := session.system.Character(input.Name)
		session.mu.Unlock()
		if !ok {
			return nil, GetCharacterResult{}, nil
		}
		return nil, GetCharacterResult{Found: true, Character: sheet}, nil
	}
}

// ListCharactersTool describes the roster listing MCP tool.
func ListCharactersTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_characters",
		Description: "Lists every character sheet in the current game",
	}
}

// ListCharactersHandler lists the session roster.
func ListCharactersHandler(session *Session) mcp.ToolHandlerFor[struct{}, ListCharactersResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, ListCharactersResult, error) {
		session.mu.Lock()
		sheets := session.system.Characters()
		session.mu.Unlock()
		return nil, ListCharactersResult{Characters: sheets}, nil
	}
}

// GameStateTool describes the state inspection MCP tool.
func GameStateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "game_state",
		Description: "Returns the full game state: scene, roster, encounter and action log",
	}
}

// GameStateHandler returns the full state document.
func GameStateHandler(session *Session) mcp.ToolHandlerFor[struct{}, GameStateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, GameStateResult, error) {
		session.mu.Lock()
		state := session.system.State()
		session.mu.Unlock()
		return nil, GameStateResult{State: state}, nil
	}
}

// AvailableActionsTool describes the action discovery MCP tool.
func AvailableActionsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "available_actions",
		Description: "Lists the action types a character can take right now",
	}
}

// AvailableActionsHandler lists a character's legal action types.
func AvailableActionsHandler(session *Session) mcp.ToolHandlerFor[AvailableActionsInput, AvailableActionsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AvailableActionsInput) (*mcp.CallToolResult, AvailableActionsResult, error) {
		session.mu.Lock()
		actions := session.system.AvailableActions(input.Character)
		session.mu.Unlock()
		return nil, AvailableActionsResult{Actions: actions}, nil
	}
}

// SaveGameTool describes the session persistence MCP tool.
func SaveGameTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "save_game",
		Description: "Persists the full game state and returns an identifier for load_game",
	}
}

// SaveGameHandler snapshots the session into the game store.
func SaveGameHandler(session *Session) mcp.ToolHandlerFor[SaveGameInput, SaveGameResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SaveGameInput) (*mcp.CallToolResult, SaveGameResult, error) {
		id, err := session.saveGame(ctx, input.Name)
		if err != nil {
			return nil, SaveGameResult{}, err
		}
		return nil, SaveGameResult{ID: id}, nil
	}
}

// LoadGameTool describes the session restore MCP tool.
func LoadGameTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "load_game",
		Description: "Replaces the current game state with a previously saved game",
	}
}

// LoadGameHandler restores a saved game into the session.
func LoadGameHandler(session *Session) mcp.ToolHandlerFor[LoadGameInput, LoadGameResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LoadGameInput) (*mcp.CallToolResult, LoadGameResult, error) {
		record, err := session.loadGame(ctx, input.ID)
		if err != nil {
			return nil, LoadGameResult{}, err
		}
		return nil, LoadGameResult{
			ID:      record.ID,
			Name:    record.Name,
			System:  record.System,
			SavedAt: formatTimestamp(record.UpdatedAt),
		}, nil
	}
}
