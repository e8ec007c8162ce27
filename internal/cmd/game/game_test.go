package game

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		DBPath: filepath.Join(t.TempDir(), "games.db"),
		System: "mothership",
		Seed:   42,
	}
}

func run(t *testing.T, cfg Config, args ...string) string {
	t.Helper()
	cfg.Args = args
	var out bytes.Buffer
	if err := Run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("run %v: %v", args, err)
	}
	return out.String()
}

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("game", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, []string{"state", "-game", "abc"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.System != "mothership" {
		t.Fatalf("expected default system, got %q", cfg.System)
	}
	if len(cfg.Args) != 3 || cfg.Args[0] != "state" {
		t.Fatalf("args = %v", cfg.Args)
	}
}

func TestRun_UnknownVerb(t *testing.T) {
	cfg := testConfig(t)
	cfg.Args = []string{"explode"}
	if err := Run(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected usage error")
	}
}

func TestGameLifecycle(t *testing.T) {
	cfg := testConfig(t)

	id := strings.TrimSpace(run(t, cfg, "new", "-name", "Distress Signal"))
	if id == "" {
		t.Fatal("expected a game id")
	}

	sheetJSON := run(t, cfg, "character", "-game", id, "-name", "Ripley", "-class", "marine")
	var sheet map[string]any
	if err := json.Unmarshal([]byte(sheetJSON), &sheet); err != nil {
		t.Fatalf("decode sheet: %v\n%s", err, sheetJSON)
	}
	if sheet["name"] != "Ripley" || sheet["class"] != "marine" {
		t.Fatalf("sheet = %v", sheet)
	}

	resultJSON := run(t, cfg, "action",
		"-game", id, "-type", "roll", "-character", "Ripley", "-p", "stat=combat")
	var result map[string]any
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		t.Fatalf("decode result: %v\n%s", err, resultJSON)
	}
	if result["success"] != true {
		t.Fatalf("roll rejected: %v", result)
	}

	stateJSON := run(t, cfg, "state", "-game", id)
	var state map[string]any
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state["system"] != "mothership" {
		t.Fatalf("state system = %v", state["system"])
	}
	characters, ok := state["characters"].([]any)
	if !ok || len(characters) != 1 {
		t.Fatalf("state characters = %v", state["characters"])
	}

	actions := run(t, cfg, "actions", "-game", id, "-character", "Ripley")
	if !strings.Contains(actions, "roll") {
		t.Fatalf("actions = %q, want roll included", actions)
	}

	listing := run(t, cfg, "list")
	if !strings.Contains(listing, id) || !strings.Contains(listing, "Distress Signal") {
		t.Fatalf("listing = %q", listing)
	}

	run(t, cfg, "delete", id)
	cfg.Args = []string{"state", "-game", id}
	if err := Run(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for deleted game")
	}
}

func TestActionPersistsAcrossInvocations(t *testing.T) {
	cfg := testConfig(t)
	id := strings.TrimSpace(run(t, cfg, "new"))
	run(t, cfg, "character", "-game", id, "-name", "Ash")

	// Damage is applied in one invocation and must survive into the next.
	run(t, cfg, "action", "-game", id, "-type", "damage", "-character", "Ash", "-p", "amount=3")

	stateJSON := run(t, cfg, "state", "-game", id)
	var state map[string]any
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	characters := state["characters"].([]any)
	sheet := characters[0].(map[string]any)
	hp := sheet["hp"].(float64)
	maxHP := sheet["max_hp"].(float64)
	if hp != maxHP-3 {
		t.Fatalf("hp = %v, want %v", hp, maxHP-3)
	}
}

func TestRejectedActionDoesNotPersist(t *testing.T) {
	cfg := testConfig(t)
	id := strings.TrimSpace(run(t, cfg, "new"))
	run(t, cfg, "character", "-game", id, "-name", "Ash")

	resultJSON := run(t, cfg, "action", "-game", id, "-type", "roll", "-character", "Nobody")
	var result map[string]any
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result["success"] != false {
		t.Fatalf("expected rejection, got %v", result)
	}
	if result["error_code"] == "" {
		t.Fatal("expected an error code")
	}
}

func TestCharacterRequiresName(t *testing.T) {
	cfg := testConfig(t)
	id := strings.TrimSpace(run(t, cfg, "new"))
	cfg.Args = []string{"character", "-game", id}
	if err := Run(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for missing character name")
	}
}

func TestCampaignImportAndTableRoll(t *testing.T) {
	cfg := testConfig(t)

	modulePath := filepath.Join(t.TempDir(), "dead-planet.json")
	module := `{
		"name": "Dead Planet",
		"random_tables": [{
			"id": "trouble",
			"name": "Trouble",
			"dice": "1d10",
			"entries": [
				{"min": 1, "max": 5, "result": "hull breach"},
				{"min": 6, "max": 10, "result": "power failure"}
			]
		}]
	}`
	if err := os.WriteFile(modulePath, []byte(module), 0o600); err != nil {
		t.Fatalf("write module: %v", err)
	}

	imported := strings.TrimSpace(run(t, cfg, "campaign", "import", modulePath))
	if imported != "Dead Planet" {
		t.Fatalf("imported = %q, want Dead Planet", imported)
	}
	if listing := run(t, cfg, "campaign", "list"); !strings.Contains(listing, "Dead Planet") {
		t.Fatalf("listing = %q", listing)
	}

	// A game created after the import sees the lone module as active.
	id := strings.TrimSpace(run(t, cfg, "new"))
	resultJSON := run(t, cfg, "action", "-game", id, "-type", "roll_table", "-p", "table=trouble")
	var result map[string]any
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result["success"] != true {
		t.Fatalf("roll_table rejected: %v", result)
	}
}

func TestCampaignImport_RejectsInvalidModule(t *testing.T) {
	cfg := testConfig(t)
	modulePath := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(modulePath, []byte(`{"description": "no name"}`), 0o600); err != nil {
		t.Fatalf("write module: %v", err)
	}
	cfg.Args = []string{"campaign", "import", modulePath}
	if err := Run(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for invalid module")
	}
}

func TestParamFlags(t *testing.T) {
	var params paramFlags
	for _, raw := range []string{
		"stat=combat",
		"amount=4",
		"advantage=true",
		"characters=[\"Ripley\",\"Ash\"]",
	} {
		if err := params.Set(raw); err != nil {
			t.Fatalf("set %q: %v", raw, err)
		}
	}
	if params.values["stat"] != "combat" {
		t.Fatalf("stat = %v", params.values["stat"])
	}
	if params.values["amount"] != 4 {
		t.Fatalf("amount = %v", params.values["amount"])
	}
	if params.values["advantage"] != true {
		t.Fatalf("advantage = %v", params.values["advantage"])
	}
	list, ok := params.values["characters"].([]any)
	if !ok || len(list) != 2 {
		t.Fatalf("characters = %v", params.values["characters"])
	}

	if err := params.Set("novalue"); err == nil {
		t.Fatal("expected error for malformed parameter")
	}
}
