package mothership

import (
	"encoding/json"
	"reflect"
	"testing"

	apperrors "github.com/louisbranch/airlock/internal/errors"
)

func TestSnapshotRoundTrip(t *testing.T) {
	a := newTestEngine(t, 101)
	mustCreate(t, a, "Alice", ClassMarine)
	mustCreate(t, a, "Bob", ClassScientist)
	a.SetScene("Engine room, red emergency lighting.")
	if _, err := a.StartCombat([]string{"Alice", "Bob"}); err != nil {
		t.Fatalf("StartCombat: %v", err)
	}

	blob, err := a.SaveState()
	if err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	b := newTestEngine(t, 555)
	if err := b.LoadState(blob); err != nil {
		t.Fatalf("LoadState: %v", err)
	}

	restored, err := b.SaveState()
	if err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	// Compare canonically; struct-backed and map-backed documents order
	// object keys differently.
	var want, got any
	if err := json.Unmarshal(blob, &want); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := json.Unmarshal(restored, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Error("save/load/save must reproduce the same state document")
	}

	if b.Scene() != a.Scene() {
		t.Errorf("scene = %q, want %q", b.Scene(), a.Scene())
	}
	if got := b.encounter.Status; got != EncounterActive {
		t.Errorf("status = %q, want active", got)
	}
	if _, err := b.GetCharacter("bob"); err != nil {
		t.Errorf("GetCharacter after load: %v", err)
	}
}

func TestSnapshotResumesDiceStream(t *testing.T) {
	a := newTestEngine(t, 103)
	mustCreate(t, a, "Alice", ClassMarine)
	// Burn through part of the stream before saving.
	for i := 0; i < 7; i++ {
		if _, err := a.RollCheck("Alice", "body", "", false, false); err != nil {
			t.Fatalf("RollCheck: %v", err)
		}
	}

	blob, err := a.SaveState()
	if err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	b := newTestEngine(t, 1)
	if err := b.LoadState(blob); err != nil {
		t.Fatalf("LoadState: %v", err)
	}

	// Both engines now draw the same continuation of the stream.
	for i := 0; i < 10; i++ {
		ra, err := a.RollCheck("Alice", "fear", "", true, false)
		if err != nil {
			t.Fatalf("RollCheck: %v", err)
		}
		rb, err := b.RollCheck("Alice", "fear", "", true, false)
		if err != nil {
			t.Fatalf("RollCheck: %v", err)
		}
		if ra.Draw != rb.Draw || len(ra.Draws) != len(rb.Draws) {
			t.Fatalf("roll %d diverged: %+v vs %+v", i, ra, rb)
		}
	}
}

func TestLoadStateRejectsCorruptBlob(t *testing.T) {
	e := newTestEngine(t, 107)
	mustCreate(t, e, "Alice", ClassMarine)
	before, err := e.SaveState()
	if err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	if err := e.LoadState([]byte("not json")); !apperrors.IsCode(err, apperrors.CodeStateCorrupt) {
		t.Errorf("err = %v, want STATE_CORRUPT", err)
	}

	after, err := e.SaveState()
	if err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if string(before) != string(after) {
		t.Error("a rejected load must leave the engine untouched")
	}
}

func TestLoadStateRejectsVersionAndSystemMismatch(t *testing.T) {
	e := newTestEngine(t, 109)
	blob, err := e.SaveState()
	if err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(blob, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	doc["version"] = 99
	bad, _ := json.Marshal(doc)
	if err := e.LoadState(bad); !apperrors.IsCode(err, apperrors.CodeStateCorrupt) {
		t.Errorf("version mismatch err = %v, want STATE_CORRUPT", err)
	}

	doc["version"] = snapshotVersion
	doc["system"] = "daggerheart"
	bad, _ = json.Marshal(doc)
	if err := e.LoadState(bad); !apperrors.IsCode(err, apperrors.CodeStateCorrupt) {
		t.Errorf("system mismatch err = %v, want STATE_CORRUPT", err)
	}
}

func TestLoadStateRejectsDuplicateCharacters(t *testing.T) {
	e := newTestEngine(t, 113)
	mustCreate(t, e, "Alice", ClassMarine)
	blob, err := e.SaveState()
	if err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	var snap snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	dup := *snap.Characters[0]
	dup.Name = "ALICE"
	snap.Characters = append(snap.Characters, &dup)
	bad, _ := json.Marshal(snap)

	if err := e.LoadState(bad); !apperrors.IsCode(err, apperrors.CodeStateCorrupt) {
		t.Errorf("err = %v, want STATE_CORRUPT", err)
	}
}
