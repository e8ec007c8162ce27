package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/airlock/internal/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "airlock.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected an error for a blank path")
	}
}

func TestGameRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	record := storage.GameRecord{
		ID:       "game-1",
		Name:     "Derelict Run",
		System:   "mothership",
		Snapshot: []byte(`{"version":1}`),
	}
	if err := store.PutGame(ctx, record); err != nil {
		t.Fatalf("put game: %v", err)
	}

	got, err := store.GetGame(ctx, "game-1")
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if got.Name != record.Name || got.System != record.System {
		t.Errorf("got %+v, want name and system preserved", got)
	}
	if string(got.Snapshot) != string(record.Snapshot) {
		t.Errorf("snapshot = %s, want %s", got.Snapshot, record.Snapshot)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps must be populated")
	}

	// Replacing preserves creation time.
	created := got.CreatedAt
	record.Snapshot = []byte(`{"version":1,"seq":9}`)
	record.CreatedAt = created
	if err := store.PutGame(ctx, record); err != nil {
		t.Fatalf("replace game: %v", err)
	}
	got, err = store.GetGame(ctx, "game-1")
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, created)
	}
	if string(got.Snapshot) != string(record.Snapshot) {
		t.Errorf("snapshot = %s, want replacement", got.Snapshot)
	}
}

func TestGetGameNotFound(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.GetGame(context.Background(), "ghost"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestPutGameValidation(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.PutGame(ctx, storage.GameRecord{System: "mothership"}); err == nil {
		t.Error("expected an error for a missing id")
	}
	if err := store.PutGame(ctx, storage.GameRecord{ID: "game-1"}); err == nil {
		t.Error("expected an error for a missing system")
	}
}

func TestListGamesOrdersByRecency(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	old := time.Now().UTC().Add(-time.Hour)
	for _, id := range []string{"a", "b"} {
		if err := store.PutGame(ctx, storage.GameRecord{
			ID: id, Name: id, System: "freeform",
			Snapshot: []byte("{}"), CreatedAt: old,
		}); err != nil {
			t.Fatalf("put game %s: %v", id, err)
		}
	}
	// Touch "a" so it becomes the most recent.
	if err := store.PutGame(ctx, storage.GameRecord{
		ID: "a", Name: "a", System: "freeform", Snapshot: []byte("{}"),
	}); err != nil {
		t.Fatalf("touch game: %v", err)
	}

	records, err := store.ListGames(ctx)
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}
	if records[0].ID != "a" {
		t.Errorf("first = %s, want most recently updated", records[0].ID)
	}
}

func TestDeleteGame(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.DeleteGame(ctx, "ghost"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := store.PutGame(ctx, storage.GameRecord{
		ID: "game-1", System: "mothership", Snapshot: []byte("{}"),
	}); err != nil {
		t.Fatalf("put game: %v", err)
	}
	if err := store.DeleteGame(ctx, "game-1"); err != nil {
		t.Fatalf("delete game: %v", err)
	}
	if _, err := store.GetGame(ctx, "game-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after delete", err)
	}
}

func TestCampaignRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	record := storage.CampaignRecord{
		Name:     "derelict",
		Document: []byte(`{"name":"derelict"}`),
	}
	if err := store.PutCampaign(ctx, record); err != nil {
		t.Fatalf("put campaign: %v", err)
	}

	got, err := store.GetCampaign(ctx, "derelict")
	if err != nil {
		t.Fatalf("get campaign: %v", err)
	}
	if string(got.Document) != string(record.Document) {
		t.Errorf("document = %s", got.Document)
	}

	if _, err := store.GetCampaign(ctx, "ghost"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	records, err := store.ListCampaigns(ctx)
	if err != nil {
		t.Fatalf("list campaigns: %v", err)
	}
	if len(records) != 1 || records[0].Name != "derelict" {
		t.Errorf("records = %+v", records)
	}
}

func TestTelemetryEvents(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.AppendTelemetryEvent(ctx, storage.TelemetryEvent{}); err == nil {
		t.Error("expected an error for a missing event name")
	}

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		evt := storage.TelemetryEvent{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			EventName: "action.processed",
			Severity:  "info",
			GameID:    "game-1",
			Actor:     "Alice",
			Attributes: map[string]string{
				"action": "roll",
			},
		}
		if err := store.AppendTelemetryEvent(ctx, evt); err != nil {
			t.Fatalf("append event: %v", err)
		}
	}

	events, err := store.ListTelemetryEvents(ctx, "game-1", 2)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len = %d, want limit respected", len(events))
	}
	if !events[0].Timestamp.After(events[1].Timestamp) {
		t.Error("events must be newest first")
	}
	if events[0].Attributes["action"] != "roll" {
		t.Errorf("attributes = %v", events[0].Attributes)
	}

	if empty, err := store.ListTelemetryEvents(ctx, "other", 10); err != nil || len(empty) != 0 {
		t.Errorf("events for another game = %v, %v", empty, err)
	}
}
