// Package campaign loads and queries adventure module documents.
//
// A module is static content: locations, entities, missions, factions, assets
// and random tables. Modules are validated once at load time and never mutated
// by play, so a loaded module is safe to share across engine instances.
package campaign

import (
	"github.com/louisbranch/airlock/internal/core/dice"
)

// Module is a campaign content document.
//
// Documents are parsed from JSON or YAML. Unknown fields are ignored and
// missing optional fields take their zero defaults, so documents written for
// older engine versions keep loading.
type Module struct {
	Name        string   `json:"name" yaml:"name"`
	Version     string   `json:"version" yaml:"version"`
	Description string   `json:"description" yaml:"description"`
	Author      string   `json:"author" yaml:"author"`
	Tags        []string `json:"tags" yaml:"tags"`

	Locations []Location    `json:"locations" yaml:"locations"`
	Entities  []Entity      `json:"entities" yaml:"entities"`
	Missions  []Mission     `json:"missions" yaml:"missions"`
	Factions  []Faction     `json:"factions" yaml:"factions"`
	Assets    []Asset       `json:"assets" yaml:"assets"`
	Tables    []RandomTable `json:"random_tables" yaml:"random_tables"`
}

// Location is a place in the module's directed location graph. Connections
// reference other location IDs; cycles are allowed.
type Location struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags" yaml:"tags"`
	Connections []string `json:"connections" yaml:"connections"`
	Entities    []string `json:"entities" yaml:"entities"`
}

// EntityStats is an optional stat block for a module entity.
type EntityStats struct {
	Strength  int `json:"strength" yaml:"strength"`
	Speed     int `json:"speed" yaml:"speed"`
	Intellect int `json:"intellect" yaml:"intellect"`
	Combat    int `json:"combat" yaml:"combat"`
	HP        int `json:"hp" yaml:"hp"`
	Armor     int `json:"armor" yaml:"armor"`
}

// Entity is an NPC, creature or hazard declared by the module.
type Entity struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Type        string       `json:"type" yaml:"type"`
	Description string       `json:"description" yaml:"description"`
	Stats       *EntityStats `json:"stats,omitempty" yaml:"stats,omitempty"`
	Tags        []string     `json:"tags" yaml:"tags"`
	Location    string       `json:"location" yaml:"location"`
}

// Mission is an objective the party can pursue.
type Mission struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Objective   string   `json:"objective" yaml:"objective"`
	Reward      string   `json:"reward" yaml:"reward"`
	Tags        []string `json:"tags" yaml:"tags"`
	Locations   []string `json:"locations" yaml:"locations"`
}

// Faction is a group with a disposition toward the party.
type Faction struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Disposition string   `json:"disposition" yaml:"disposition"`
	Tags        []string `json:"tags" yaml:"tags"`
}

// Asset is a notable item, ship or facility.
type Asset struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Type        string   `json:"type" yaml:"type"`
	Tags        []string `json:"tags" yaml:"tags"`
}

// TableEntry maps a contiguous draw range to a result.
type TableEntry struct {
	Min    int    `json:"min" yaml:"min"`
	Max    int    `json:"max" yaml:"max"`
	Result string `json:"result" yaml:"result"`
	Effect string `json:"effect" yaml:"effect"`
}

// RandomTable maps a dice domain onto ordered result ranges. The ranges must
// partition the domain exactly: no gap, no overlap.
type RandomTable struct {
	ID      string       `json:"id" yaml:"id"`
	Name    string       `json:"name" yaml:"name"`
	Dice    string       `json:"dice" yaml:"dice"`
	Entries []TableEntry `json:"entries" yaml:"entries"`
}

// Domain returns the inclusive draw range of the table's dice expression.
func (t RandomTable) Domain() (low, high int, err error) {
	expr, err := dice.Parse(t.Dice)
	if err != nil {
		return 0, 0, err
	}
	return expr.Count, expr.Count * expr.Sides, nil
}
