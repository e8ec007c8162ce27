// Package storage defines the persistence contracts for games, campaign
// documents and telemetry. Implementations live in subpackages; collaborators
// depend only on these interfaces.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrConflict indicates a write collided with an existing record.
var ErrConflict = errors.New("record conflict")

// GameRecord is a persisted game: identity plus the opaque engine snapshot.
type GameRecord struct {
	ID        string
	Name      string
	System    string
	Snapshot  []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GameStore persists engine snapshots keyed by game id.
type GameStore interface {
	// PutGame inserts or replaces a game record.
	PutGame(ctx context.Context, record GameRecord) error
	// GetGame returns a game record or ErrNotFound.
	GetGame(ctx context.Context, id string) (GameRecord, error)
	// ListGames returns all game records, most recently updated first.
	ListGames(ctx context.Context) ([]GameRecord, error)
	// DeleteGame removes a game record; deleting a missing id returns
	// ErrNotFound.
	DeleteGame(ctx context.Context, id string) error
}

// CampaignRecord is a persisted campaign content document.
type CampaignRecord struct {
	Name      string
	Document  []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CampaignStore persists raw campaign documents by module name.
type CampaignStore interface {
	PutCampaign(ctx context.Context, record CampaignRecord) error
	GetCampaign(ctx context.Context, name string) (CampaignRecord, error)
	ListCampaigns(ctx context.Context) ([]CampaignRecord, error)
}

// TelemetryEvent is an operational audit record.
type TelemetryEvent struct {
	Timestamp time.Time
	EventName string
	Severity  string
	GameID    string
	Actor     string
	// Attributes carries free-form event attributes, serialized as JSON.
	Attributes map[string]string
}

// TelemetryStore appends operational audit events.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, evt TelemetryEvent) error
}
