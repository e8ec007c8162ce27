// Package mcp exposes a running rule system to AI wardens over the Model
// Context Protocol. Every tool operates on a single in-process game session;
// the stdio transport gives the model a private table to run.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/louisbranch/airlock/internal/engine"
	"github.com/louisbranch/airlock/internal/storage"
	"github.com/louisbranch/airlock/internal/telemetry"
)

// Session binds one rule system instance to optional persistence and
// telemetry. Systems are single-writer, so all tool handlers serialize
// through the session mutex.
type Session struct {
	mu        sync.Mutex
	system    engine.System
	games     storage.GameStore
	telemetry *telemetry.Emitter
	gameID    string
	gameName  string
}

// NewSession wraps a rule system for MCP exposure. The game store and
// telemetry emitter may be nil; save_game and load_game then report that
// persistence is not configured.
func NewSession(system engine.System, games storage.GameStore, emitter *telemetry.Emitter) (*Session, error) {
	if system == nil {
		return nil, fmt.Errorf("rule system is required")
	}
	return &Session{
		system:    system,
		games:     games,
		telemetry: emitter,
		gameID:    uuid.NewString(),
	}, nil
}

// GameID returns the identifier save_game persists under.
func (s *Session) GameID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameID
}

func (s *Session) process(ctx context.Context, action engine.Action) engine.Result {
	s.mu.Lock()
	result := s.system.ProcessAction(action)
	s.mu.Unlock()
	_ = s.telemetry.EmitAction(ctx, s.gameID, action.Character, action.Type, result.Success)
	return result
}

func (s *Session) saveGame(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.games == nil {
		return "", fmt.Errorf("game storage is not configured")
	}
	blob, err := s.system.SaveState()
	if err != nil {
		return "", fmt.Errorf("serialize game state: %w", err)
	}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		s.gameName = trimmed
	}
	record := storage.GameRecord{
		ID:       s.gameID,
		Name:     s.gameName,
		System:   s.system.Name(),
		Snapshot: blob,
	}
	if err := s.games.PutGame(ctx, record); err != nil {
		return "", fmt.Errorf("persist game %s: %w", s.gameID, err)
	}
	return s.gameID, nil
}

func (s *Session) loadGame(ctx context.Context, id string) (storage.GameRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.games == nil {
		return storage.GameRecord{}, fmt.Errorf("game storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.GameRecord{}, fmt.Errorf("game id is required")
	}
	record, err := s.games.GetGame(ctx, id)
	if err != nil {
		return storage.GameRecord{}, fmt.Errorf("fetch game %s: %w", id, err)
	}
	if err := s.system.LoadState(record.Snapshot); err != nil {
		return storage.GameRecord{}, fmt.Errorf("restore game %s: %w", id, err)
	}
	s.gameID = record.ID
	s.gameName = record.Name
	return record, nil
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
