package campaign

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/louisbranch/airlock/internal/errors"
)

// violationSeparator joins individual violations into one error message.
const violationSeparator = "; "

// Index holds loaded campaign modules and marks one of them active.
//
// Loading and activation are setup-time operations; all reads afterwards are
// pure, so a single Index may back many engine instances concurrently as long
// as no further loads happen.
type Index struct {
	modules map[string]*Module
	active  string
}

// NewIndex creates an empty campaign index.
func NewIndex() *Index {
	return &Index{modules: map[string]*Module{}}
}

// Load parses and validates a module document, then registers it by name.
//
// Documents may be JSON or YAML (JSON is parsed by the YAML reader). Every
// schema violation found is reported in a single error rather than stopping at
// the first, so authors can fix a document in one pass. A module that fails
// validation is not registered.
func (x *Index) Load(document []byte) (*Module, error) {
	var module Module
	if err := yaml.Unmarshal(document, &module); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCampaignInvalidDocument,
			"parse campaign document", err)
	}

	if violations := validate(&module); len(violations) > 0 {
		joined := strings.Join(violations, violationSeparator)
		return nil, apperrors.WithMetadata(apperrors.CodeCampaignInvalidDocument,
			"campaign document invalid: "+joined,
			map[string]string{"Violations": joined})
	}

	x.modules[module.Name] = &module
	return &module, nil
}

// Activate marks a loaded module as current. The module is never reloaded.
func (x *Index) Activate(name string) error {
	if _, ok := x.modules[name]; !ok {
		return apperrors.WithMetadata(apperrors.CodeCampaignNotLoaded,
			"campaign not loaded: "+name, map[string]string{"Name": name})
	}
	x.active = name
	return nil
}

// Active returns the currently active module, if any.
func (x *Index) Active() (*Module, bool) {
	if x.active == "" {
		return nil, false
	}
	module, ok := x.modules[x.active]
	return module, ok
}

// ActiveName returns the name of the active module, empty when none is set.
func (x *Index) ActiveName() string {
	return x.active
}

// Module returns a loaded module by name.
func (x *Index) Module(name string) (*Module, error) {
	module, ok := x.modules[name]
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeCampaignNotLoaded,
			"campaign not loaded: "+name, map[string]string{"Name": name})
	}
	return module, nil
}

// Names lists the names of all loaded modules in sorted order.
func (x *Index) Names() []string {
	names := make([]string, 0, len(x.modules))
	for name := range x.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Violations splits the enumerated violations out of a Load error. It returns
// nil for other errors.
func Violations(err error) []string {
	metadata := apperrors.GetMetadata(err)
	if metadata == nil {
		return nil
	}
	joined, ok := metadata["Violations"]
	if !ok || joined == "" {
		return nil
	}
	return strings.Split(joined, violationSeparator)
}

// --- Module queries (pure reads) ---

// LocationsByTag returns locations carrying the tag, or all locations when
// tag is empty. Order follows the document.
func (m *Module) LocationsByTag(tag string) []Location {
	if tag == "" {
		return append([]Location(nil), m.Locations...)
	}
	var matched []Location
	for _, loc := range m.Locations {
		if hasTag(loc.Tags, tag) {
			matched = append(matched, loc)
		}
	}
	return matched
}

// Location returns a location by ID.
func (m *Module) Location(id string) (Location, error) {
	for _, loc := range m.Locations {
		if loc.ID == id {
			return loc, nil
		}
	}
	return Location{}, apperrors.WithMetadata(apperrors.CodeCampaignUnknownLocation,
		"unknown location: "+id, map[string]string{"ID": id})
}

// Entity returns an entity by ID.
func (m *Module) Entity(id string) (Entity, error) {
	for _, entity := range m.Entities {
		if entity.ID == id {
			return entity, nil
		}
	}
	return Entity{}, apperrors.WithMetadata(apperrors.CodeCampaignUnknownEntity,
		"unknown entity: "+id, map[string]string{"ID": id})
}

// EntitiesByTag returns entities carrying the tag, or all when tag is empty.
func (m *Module) EntitiesByTag(tag string) []Entity {
	if tag == "" {
		return append([]Entity(nil), m.Entities...)
	}
	var matched []Entity
	for _, entity := range m.Entities {
		if hasTag(entity.Tags, tag) {
			matched = append(matched, entity)
		}
	}
	return matched
}

// Mission returns a mission by ID.
func (m *Module) Mission(id string) (Mission, error) {
	for _, mission := range m.Missions {
		if mission.ID == id {
			return mission, nil
		}
	}
	return Mission{}, apperrors.WithMetadata(apperrors.CodeCampaignUnknownMission,
		"unknown mission: "+id, map[string]string{"ID": id})
}

// Table returns a random table by ID.
func (m *Module) Table(id string) (RandomTable, error) {
	for _, table := range m.Tables {
		if table.ID == id {
			return table, nil
		}
	}
	return RandomTable{}, apperrors.WithMetadata(apperrors.CodeCampaignUnknownTable,
		"unknown random table: "+id, map[string]string{"ID": id})
}

// RollTable selects the entry whose range contains draw.
func (m *Module) RollTable(id string, draw int) (TableEntry, error) {
	table, err := m.Table(id)
	if err != nil {
		return TableEntry{}, err
	}
	for _, entry := range table.Entries {
		if draw >= entry.Min && draw <= entry.Max {
			return entry, nil
		}
	}
	return TableEntry{}, apperrors.WithMetadata(apperrors.CodeCampaignDrawOutOfRange,
		fmt.Sprintf("draw %d outside table %s", draw, id),
		map[string]string{"Draw": strconv.Itoa(draw), "ID": id})
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// --- Validation ---

// validate checks every schema invariant and returns all violations found.
func validate(m *Module) []string {
	var violations []string

	if strings.TrimSpace(m.Name) == "" {
		violations = append(violations, "module name is required")
	}

	locationIDs := map[string]bool{}
	for i, loc := range m.Locations {
		if loc.ID == "" {
			violations = append(violations, fmt.Sprintf("location %d has no id", i))
			continue
		}
		if locationIDs[loc.ID] {
			violations = append(violations, "duplicate location id "+loc.ID)
		}
		locationIDs[loc.ID] = true
	}

	entityIDs := map[string]bool{}
	for i, entity := range m.Entities {
		if entity.ID == "" {
			violations = append(violations, fmt.Sprintf("entity %d has no id", i))
			continue
		}
		if entityIDs[entity.ID] {
			violations = append(violations, "duplicate entity id "+entity.ID)
		}
		entityIDs[entity.ID] = true
	}

	missionIDs := map[string]bool{}
	for i, mission := range m.Missions {
		if mission.ID == "" {
			violations = append(violations, fmt.Sprintf("mission %d has no id", i))
			continue
		}
		if missionIDs[mission.ID] {
			violations = append(violations, "duplicate mission id "+mission.ID)
		}
		missionIDs[mission.ID] = true
	}

	factionIDs := map[string]bool{}
	for i, faction := range m.Factions {
		if faction.ID == "" {
			violations = append(violations, fmt.Sprintf("faction %d has no id", i))
			continue
		}
		if factionIDs[faction.ID] {
			violations = append(violations, "duplicate faction id "+faction.ID)
		}
		factionIDs[faction.ID] = true
	}

	tableIDs := map[string]bool{}
	for i, table := range m.Tables {
		if table.ID == "" {
			violations = append(violations, fmt.Sprintf("random table %d has no id", i))
			continue
		}
		if tableIDs[table.ID] {
			violations = append(violations, "duplicate random table id "+table.ID)
		}
		tableIDs[table.ID] = true

		violations = append(violations, validateTable(table)...)
	}

	// Graph references resolve against declared locations; cycles are fine,
	// dangling ids are not.
	for _, loc := range m.Locations {
		for _, conn := range loc.Connections {
			if !locationIDs[conn] {
				violations = append(violations,
					fmt.Sprintf("location %s connects to undeclared location %s", loc.ID, conn))
			}
		}
		for _, id := range loc.Entities {
			if !entityIDs[id] {
				violations = append(violations,
					fmt.Sprintf("location %s references undeclared entity %s", loc.ID, id))
			}
		}
	}
	for _, entity := range m.Entities {
		if entity.Location != "" && !locationIDs[entity.Location] {
			violations = append(violations,
				fmt.Sprintf("entity %s placed in undeclared location %s", entity.ID, entity.Location))
		}
	}
	for _, mission := range m.Missions {
		for _, id := range mission.Locations {
			if !locationIDs[id] {
				violations = append(violations,
					fmt.Sprintf("mission %s references undeclared location %s", mission.ID, id))
			}
		}
	}

	return violations
}

// validateTable checks that the table's entries partition its dice domain
// exactly: first entry starts at the minimum draw, each entry follows the
// previous without gap or overlap, and the last entry ends at the maximum.
func validateTable(table RandomTable) []string {
	var violations []string

	low, high, err := table.Domain()
	if err != nil {
		return []string{fmt.Sprintf("table %s has invalid dice %q", table.ID, table.Dice)}
	}
	if len(table.Entries) == 0 {
		return []string{fmt.Sprintf("table %s has no entries", table.ID)}
	}

	entries := append([]TableEntry(nil), table.Entries...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Min < entries[j].Min })

	next := low
	for _, entry := range entries {
		if entry.Min > entry.Max {
			violations = append(violations,
				fmt.Sprintf("table %s entry %d-%d is inverted", table.ID, entry.Min, entry.Max))
			continue
		}
		switch {
		case entry.Min > next:
			violations = append(violations,
				fmt.Sprintf("table %s has a gap at %d-%d", table.ID, next, entry.Min-1))
		case entry.Min < next:
			violations = append(violations,
				fmt.Sprintf("table %s overlaps at %d", table.ID, entry.Min))
		}
		if entry.Max >= next {
			next = entry.Max + 1
		}
	}
	if next != high+1 {
		if next <= high {
			violations = append(violations,
				fmt.Sprintf("table %s has a gap at %d-%d", table.ID, next, high))
		} else {
			violations = append(violations,
				fmt.Sprintf("table %s exceeds its dice domain %d-%d", table.ID, low, high))
		}
	}

	return violations
}
