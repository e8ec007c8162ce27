package campaign

import (
	"strings"
	"testing"

	apperrors "github.com/louisbranch/airlock/internal/errors"
)

const validModule = `{
  "name": "derelict",
  "version": "1.0",
  "description": "A dead freighter drifting off the shipping lane.",
  "locations": [
    {"id": "airlock", "name": "Airlock", "tags": ["entry"], "connections": ["cargo"]},
    {"id": "cargo", "name": "Cargo Hold", "tags": ["dark"], "connections": ["airlock", "engine"], "entities": ["drone"]},
    {"id": "engine", "name": "Engine Room", "tags": ["dark", "hazard"], "connections": ["cargo"]}
  ],
  "entities": [
    {"id": "drone", "name": "Maintenance Drone", "type": "creature", "tags": ["hostile"], "location": "cargo",
     "stats": {"strength": 40, "speed": 30, "intellect": 10, "combat": 35, "hp": 15, "armor": 2}}
  ],
  "missions": [
    {"id": "salvage", "name": "Salvage Run", "objective": "Recover the flight recorder.",
     "reward": "5kcr", "tags": ["paid"], "locations": ["engine"]}
  ],
  "factions": [
    {"id": "company", "name": "The Company", "disposition": "neutral"}
  ],
  "random_tables": [
    {"id": "trouble", "name": "Trouble", "dice": "1d10", "entries": [
      {"min": 1, "max": 4, "result": "Hull groan"},
      {"min": 5, "max": 9, "result": "Power flicker"},
      {"min": 10, "max": 10, "result": "Something moves"}
    ]}
  ]
}`

func TestIndexLoad_Valid(t *testing.T) {
	index := NewIndex()

	module, err := index.Load([]byte(validModule))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if module.Name != "derelict" {
		t.Errorf("module name = %q, want derelict", module.Name)
	}

	if err := index.Activate("derelict"); err != nil {
		t.Fatalf("Activate() unexpected error: %v", err)
	}
	active, ok := index.Active()
	if !ok || active.Name != "derelict" {
		t.Fatalf("Active() = %v, %v; want derelict module", active, ok)
	}
}

func TestIndexLoad_YAML(t *testing.T) {
	doc := `
name: outpost
version: "1.0"
locations:
  - id: hab
    name: Hab Module
future_field_from_newer_engine: ignored
`
	index := NewIndex()
	module, err := index.Load([]byte(doc))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if module.Name != "outpost" {
		t.Errorf("module name = %q, want outpost", module.Name)
	}
	if len(module.Locations) != 1 || module.Locations[0].ID != "hab" {
		t.Errorf("locations = %+v, want single hab", module.Locations)
	}
}

func TestIndexLoad_EnumeratesEveryViolation(t *testing.T) {
	doc := `{
	  "name": "broken",
	  "locations": [
	    {"id": "a", "connections": ["ghost"]},
	    {"id": "a"}
	  ],
	  "random_tables": [
	    {"id": "gaps", "dice": "1d100", "entries": [
	      {"min": 1, "max": 50, "result": "low"},
	      {"min": 52, "max": 100, "result": "high"}
	    ]},
	    {"id": "laps", "dice": "1d10", "entries": [
	      {"min": 1, "max": 6, "result": "low"},
	      {"min": 5, "max": 10, "result": "high"}
	    ]}
	  ]
	}`

	index := NewIndex()
	_, err := index.Load([]byte(doc))
	if err == nil {
		t.Fatal("Load() succeeded, want validation error")
	}
	if got := apperrors.GetCode(err); got != apperrors.CodeCampaignInvalidDocument {
		t.Fatalf("Load() code = %v, want CAMPAIGN_INVALID_DOCUMENT", got)
	}

	violations := Violations(err)
	wantFragments := []string{
		"duplicate location id a",
		"connects to undeclared location ghost",
		"gap at 51-51",
		"overlaps at 5",
	}
	for _, want := range wantFragments {
		found := false
		for _, v := range violations {
			if strings.Contains(v, want) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("violations %v missing %q", violations, want)
		}
	}

	// A rejected module must not be registered.
	if _, err := index.Module("broken"); !apperrors.IsCode(err, apperrors.CodeCampaignNotLoaded) {
		t.Errorf("rejected module was registered: %v", err)
	}
}

func TestIndexLoad_TableDomainBounds(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		wantErr bool
	}{
		{
			name:  "exact partition",
			table: `{"id": "t", "dice": "2d6", "entries": [{"min": 2, "max": 7, "result": "a"}, {"min": 8, "max": 12, "result": "b"}]}`,
		},
		{
			name:    "missing domain start",
			table:   `{"id": "t", "dice": "2d6", "entries": [{"min": 3, "max": 12, "result": "a"}]}`,
			wantErr: true,
		},
		{
			name:    "exceeds domain",
			table:   `{"id": "t", "dice": "1d6", "entries": [{"min": 1, "max": 7, "result": "a"}]}`,
			wantErr: true,
		},
		{
			name:    "empty table",
			table:   `{"id": "t", "dice": "1d6", "entries": []}`,
			wantErr: true,
		},
		{
			name:    "bad dice",
			table:   `{"id": "t", "dice": "d6", "entries": [{"min": 1, "max": 6, "result": "a"}]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `{"name": "m", "random_tables": [` + tt.table + `]}`
			_, err := NewIndex().Load([]byte(doc))
			if tt.wantErr && err == nil {
				t.Fatal("Load() succeeded, want validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
		})
	}
}

func TestModuleQueries(t *testing.T) {
	index := NewIndex()
	module, err := index.Load([]byte(validModule))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	dark := module.LocationsByTag("dark")
	if len(dark) != 2 {
		t.Errorf("LocationsByTag(dark) returned %d locations, want 2", len(dark))
	}
	all := module.LocationsByTag("")
	if len(all) != 3 {
		t.Errorf("LocationsByTag(\"\") returned %d locations, want 3", len(all))
	}

	entity, err := module.Entity("drone")
	if err != nil {
		t.Fatalf("Entity(drone) unexpected error: %v", err)
	}
	if entity.Stats == nil || entity.Stats.Combat != 35 {
		t.Errorf("Entity(drone) stats = %+v, want combat 35", entity.Stats)
	}

	if _, err := module.Entity("nobody"); !apperrors.IsCode(err, apperrors.CodeCampaignUnknownEntity) {
		t.Errorf("Entity(nobody) error = %v, want CAMPAIGN_UNKNOWN_ENTITY", err)
	}

	mission, err := module.Mission("salvage")
	if err != nil {
		t.Fatalf("Mission(salvage) unexpected error: %v", err)
	}
	if mission.Objective == "" {
		t.Error("Mission(salvage) has empty objective")
	}
}

func TestRollTable(t *testing.T) {
	index := NewIndex()
	module, err := index.Load([]byte(validModule))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	tests := []struct {
		draw    int
		want    string
		wantErr apperrors.Code
	}{
		{draw: 1, want: "Hull groan"},
		{draw: 4, want: "Hull groan"},
		{draw: 5, want: "Power flicker"},
		{draw: 10, want: "Something moves"},
		{draw: 0, wantErr: apperrors.CodeCampaignDrawOutOfRange},
		{draw: 11, wantErr: apperrors.CodeCampaignDrawOutOfRange},
	}

	for _, tt := range tests {
		entry, err := module.RollTable("trouble", tt.draw)
		if tt.wantErr != "" {
			if !apperrors.IsCode(err, tt.wantErr) {
				t.Errorf("RollTable(trouble, %d) error = %v, want %v", tt.draw, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("RollTable(trouble, %d) unexpected error: %v", tt.draw, err)
			continue
		}
		if entry.Result != tt.want {
			t.Errorf("RollTable(trouble, %d) = %q, want %q", tt.draw, entry.Result, tt.want)
		}
	}

	if _, err := module.RollTable("missing", 1); !apperrors.IsCode(err, apperrors.CodeCampaignUnknownTable) {
		t.Errorf("RollTable(missing) error = %v, want CAMPAIGN_UNKNOWN_TABLE", err)
	}
}

func TestActivate_Unknown(t *testing.T) {
	index := NewIndex()
	if err := index.Activate("ghost-ship"); !apperrors.IsCode(err, apperrors.CodeCampaignNotLoaded) {
		t.Errorf("Activate(ghost-ship) error = %v, want CAMPAIGN_NOT_LOADED", err)
	}
}
