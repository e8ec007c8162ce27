package freeform

import (
	"testing"

	"github.com/louisbranch/airlock/internal/engine"
	apperrors "github.com/louisbranch/airlock/internal/errors"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(42)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestCreateCharacterKeepsOpts(t *testing.T) {
	e := newTestEngine(t)

	doc, err := e.CreateCharacter("Alice", map[string]any{"concept": "salvage pilot"})
	if err != nil {
		t.Fatalf("CreateCharacter: %v", err)
	}
	if doc["name"] != "Alice" || doc["concept"] != "salvage pilot" {
		t.Errorf("doc = %v", doc)
	}

	if _, err := e.CreateCharacter("alice", nil); !apperrors.IsCode(err, apperrors.CodeCharacterDuplicateName) {
		t.Errorf("err = %v, want CHARACTER_DUPLICATE_NAME", err)
	}

	if got, ok := e.Character("ALICE"); !ok || got["name"] != "Alice" {
		t.Errorf("Character = %v, %v", got, ok)
	}
}

func TestProcessActionRoll(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.CreateCharacter("Alice", nil); err != nil {
		t.Fatalf("CreateCharacter: %v", err)
	}

	result := e.ProcessAction(engine.Action{
		Type:      ActionRoll,
		Character: "Alice",
		Params:    map[string]any{"dice": "2d6"},
	})
	if !result.Success {
		t.Fatalf("roll failed: %+v", result)
	}
	total, ok := result.Details["total"].(int)
	if !ok || total < 2 || total > 12 {
		t.Errorf("total = %v, want [2, 12]", result.Details["total"])
	}

	result = e.ProcessAction(engine.Action{
		Type:      ActionRoll,
		Character: "Alice",
		Params:    map[string]any{"dice": "d6"},
	})
	if result.Success || result.ErrorCode != apperrors.CodeDiceInvalidExpression {
		t.Errorf("result = %+v, want DICE_INVALID_EXPRESSION", result)
	}
}

func TestProcessActionNarrateAndScene(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.CreateCharacter("Alice", nil); err != nil {
		t.Fatalf("CreateCharacter: %v", err)
	}

	result := e.ProcessAction(engine.Action{
		Type:      ActionNarrate,
		Character: "Alice",
		Params:    map[string]any{"text": "checks the airlock seals"},
	})
	if !result.Success || result.Summary == "" {
		t.Fatalf("narrate result = %+v", result)
	}

	result = e.ProcessAction(engine.Action{
		Type:   ActionScene,
		Params: map[string]any{"text": "Cargo bay, lights flickering"},
	})
	if !result.Success {
		t.Fatalf("scene result = %+v", result)
	}
	if e.State()["scene"] != "Cargo bay, lights flickering" {
		t.Errorf("scene = %v", e.State()["scene"])
	}

	result = e.ProcessAction(engine.Action{Type: "attack", Character: "Alice"})
	if result.Success || result.ErrorCode != apperrors.CodeActionUnknown {
		t.Errorf("result = %+v, want ACTION_UNKNOWN", result)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	a := newTestEngine(t)
	if _, err := a.CreateCharacter("Alice", map[string]any{"concept": "medic"}); err != nil {
		t.Fatalf("CreateCharacter: %v", err)
	}
	a.ProcessAction(engine.Action{
		Type: ActionRoll, Character: "Alice",
		Params: map[string]any{"dice": "3d10"},
	})

	blob, err := a.SaveState()
	if err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	b := newTestEngine(t)
	if err := b.LoadState(blob); err != nil {
		t.Fatalf("LoadState: %v", err)
	}

	// Both engines continue the same roll stream.
	ra := a.ProcessAction(engine.Action{
		Type: ActionRoll, Character: "Alice",
		Params: map[string]any{"dice": "1d100"},
	})
	rb := b.ProcessAction(engine.Action{
		Type: ActionRoll, Character: "Alice",
		Params: map[string]any{"dice": "1d100"},
	})
	if ra.Details["total"] != rb.Details["total"] {
		t.Errorf("streams diverged: %v vs %v", ra.Details["total"], rb.Details["total"])
	}

	if err := b.LoadState([]byte("{}")); !apperrors.IsCode(err, apperrors.CodeStateCorrupt) {
		t.Errorf("err = %v, want STATE_CORRUPT", err)
	}
}

func TestAvailableActions(t *testing.T) {
	e := newTestEngine(t)
	if got := e.AvailableActions("Ghost"); got != nil {
		t.Errorf("actions for unknown character = %v, want none", got)
	}
	if _, err := e.CreateCharacter("Alice", nil); err != nil {
		t.Fatalf("CreateCharacter: %v", err)
	}
	if got := e.AvailableActions("Alice"); len(got) != 2 {
		t.Errorf("actions = %v, want roll and narrate", got)
	}
}
