// Package mothership implements the sci-fi horror rules engine: roll-under
// stat checks, wounds, stress and panic, armor degradation, and a turn-based
// combat encounter state machine.
//
// One Engine owns all mutable state for one table. It performs no I/O and no
// locking; the driving collaborator serializes mutating calls and persists
// snapshots between them.
package mothership

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/louisbranch/airlock/internal/campaign"
	"github.com/louisbranch/airlock/internal/core/check"
	"github.com/louisbranch/airlock/internal/core/dice"
	apperrors "github.com/louisbranch/airlock/internal/errors"
	"github.com/louisbranch/airlock/internal/random"
)

// SystemName identifies this rule system in the engine registry.
const SystemName = "mothership"

// Critical damage policies.
const (
	CritDamageDouble   = "double"
	CritDamageMaximize = "maximize"
)

// Config carries the tunable rules data for an engine instance.
// Zero fields take defaults; the whole config round-trips in snapshots.
type Config struct {
	// Name labels the game in state documents and logs.
	Name string `json:"name"`
	// Seed initializes the engine's random source; 0 draws a crypto seed.
	Seed int64 `json:"seed"`
	// StressCap bounds the stress resource. Default 20.
	StressCap int `json:"stress_cap"`
	// MaxWounds is the wound count at which a character dies. Default 2.
	MaxWounds int `json:"max_wounds"`
	// InitiativeDie is the initiative roll expression. Default "1d20".
	InitiativeDie string `json:"initiative_die"`
	// InitiativeStat is the bonus stat added to initiative. Default "speed".
	InitiativeStat string `json:"initiative_stat"`
	// CritDamage selects the critical damage policy: "double" or
	// "maximize". Default "double".
	CritDamage string `json:"crit_damage"`
	// PanicTable overrides the stock panic table when non-empty.
	PanicTable []PanicEntry `json:"panic_table,omitempty"`
	// ItemEffects overrides the stock item effect table when non-nil.
	ItemEffects map[string]ItemEffect `json:"item_effects,omitempty"`
}

func (c Config) withDefaults() Config {
	if c.Name == "" {
		c.Name = "Untitled Game"
	}
	if c.StressCap == 0 {
		c.StressCap = 20
	}
	if c.MaxWounds == 0 {
		c.MaxWounds = 2
	}
	if c.InitiativeDie == "" {
		c.InitiativeDie = "1d20"
	}
	if c.InitiativeStat == "" {
		c.InitiativeStat = "speed"
	}
	if c.CritDamage == "" {
		c.CritDamage = CritDamageDouble
	}
	return c
}

// startingStress is the stress every new character begins with.
const startingStress = 2

// LogEntry is one audited engine mutation.
type LogEntry struct {
	Seq     int            `json:"seq"`
	Kind    string         `json:"kind"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// Log entry kinds.
const (
	LogSystem   = "system"
	LogAction   = "action"
	LogCombat   = "combat"
	LogScene    = "scene"
	LogCampaign = "campaign"
)

// Engine is the single mutation surface for one game.
type Engine struct {
	cfg Config
	src *countingSource
	rng *rand.Rand

	// characters is keyed by lowercased name; order preserves creation
	// order for deterministic listings and snapshots.
	characters map[string]*Character
	order      []string

	encounter Encounter
	scene     string
	log       []LogEntry
	seq       int

	// campaigns is shared, read-only content; the engine references the
	// active module by name and never mutates it.
	campaigns      *campaign.Index
	activeCampaign string
}

// New creates an engine from config. A zero seed draws a cryptographic one so
// independent instances never share roll streams.
func New(cfg Config) (*Engine, error) {
	cfg = cfg.withDefaults()
	if cfg.Seed == 0 {
		seed, err := random.NewSeed()
		if err != nil {
			return nil, err
		}
		cfg.Seed = seed
	}
	if _, err := dice.Parse(cfg.InitiativeDie); err != nil {
		return nil, err
	}

	src := newCountingSource(cfg.Seed)
	e := &Engine{
		cfg:        cfg,
		src:        src,
		rng:        rand.New(src),
		characters: map[string]*Character{},
		encounter:  Encounter{Status: EncounterInactive, Round: 1},
	}
	e.logf(LogSystem, nil, "Game %q initialized.", cfg.Name)
	return e, nil
}

// AttachCampaigns points the engine at a shared campaign index.
func (e *Engine) AttachCampaigns(index *campaign.Index) {
	e.campaigns = index
}

// SetCampaign marks a loaded campaign module as the active one.
func (e *Engine) SetCampaign(name string) error {
	if e.campaigns == nil {
		return apperrors.WithMetadata(apperrors.CodeCampaignNotLoaded,
			"campaign not loaded: "+name, map[string]string{"Name": name})
	}
	if _, err := e.campaigns.Module(name); err != nil {
		return err
	}
	e.activeCampaign = name
	e.logf(LogCampaign, nil, "Active campaign set to %q.", name)
	return nil
}

// ActiveCampaign returns the active campaign module name, empty when unset.
func (e *Engine) ActiveCampaign() string {
	return e.activeCampaign
}

// logf appends a structured log entry with a monotonically increasing
// sequence number.
func (e *Engine) logf(kind string, data map[string]any, format string, args ...any) {
	e.seq++
	e.log = append(e.log, LogEntry{
		Seq:     e.seq,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Data:    data,
	})
}

// Log returns the action log. The returned slice is shared; callers must not
// mutate it.
func (e *Engine) Log() []LogEntry {
	return e.log
}

// Scene returns the current scene description.
func (e *Engine) Scene() string {
	return e.scene
}

// SetScene replaces the scene description.
func (e *Engine) SetScene(text string) {
	e.scene = text
	e.logf(LogScene, nil, "Scene: %s", text)
}

// Encounter returns a copy of the combat encounter state.
func (e *Engine) Encounter() Encounter {
	enc := e.encounter
	enc.Roster = append([]Combatant(nil), e.encounter.Roster...)
	return enc
}

// resolve finds a character by case-insensitive name.
func (e *Engine) resolve(name string) (*Character, error) {
	c, ok := e.characters[strings.ToLower(name)]
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeCharacterNotFound,
			"character not found: "+name, map[string]string{"Name": name})
	}
	return c, nil
}

// createCharacter registers a character with class-derived starting stats.
//
// Base stats roll 2d10+25 each before class modifiers. Names are unique
// case-insensitively; classes outside the presets are treated as freeform
// with the baseline block.
func (e *Engine) createCharacter(name string, class Class, controller Controller) (*Character, error) {
	key := strings.ToLower(name)
	if _, exists := e.characters[key]; exists {
		return nil, apperrors.WithMetadata(apperrors.CodeCharacterDuplicateName,
			"character already exists: "+name, map[string]string{"Name": name})
	}
	if controller == "" {
		controller = ControllerAI
	}

	preset, ok := classPresets[class]
	if !ok {
		preset = freeformPreset
	}

	base := func() int {
		return dice.Expression{Count: 2, Sides: 10}.Roll(e.rng).Total + 25
	}
	skills := make(map[string]SkillTier, len(preset.Skills))
	for skill, tier := range preset.Skills {
		skills[skill] = tier
	}

	c := &Character{
		Name:       name,
		Class:      class,
		Controller: controller,
		Stats: Stats{
			Strength:  base() + preset.Stats.Strength,
			Speed:     base() + preset.Stats.Speed,
			Intellect: base() + preset.Stats.Intellect,
			Combat:    base() + preset.Stats.Combat,
		},
		Saves:     preset.Saves,
		HP:        preset.MaxHP,
		MaxHP:     preset.MaxHP,
		MaxWounds: e.cfg.MaxWounds,
		Stress:    startingStress,
		Armor:     Armor{Name: "none"},
		Skills:    skills,
		Alive:     true,
	}
	e.characters[key] = c
	e.order = append(e.order, key)
	e.logf(LogSystem, map[string]any{"character": name, "class": string(class)},
		"%s (%s) created.", name, class)
	return c, nil
}

// GetCharacter returns a character sheet by name.
func (e *Engine) GetCharacter(name string) (*Character, error) {
	return e.resolve(name)
}

// ListCharacters returns all characters in creation order.
func (e *Engine) ListCharacters() []*Character {
	list := make([]*Character, 0, len(e.order))
	for _, key := range e.order {
		list = append(list, e.characters[key])
	}
	return list
}

// CheckOutcome reports a resolved stat check.
type CheckOutcome struct {
	Character    string         `json:"character"`
	Stat         string         `json:"stat"`
	Skill        string         `json:"skill,omitempty"`
	Target       int            `json:"target"`
	Draws        []int          `json:"draws"`
	Draw         int            `json:"draw"`
	Success      bool           `json:"success"`
	Critical     check.Critical `json:"critical"`
	StressGained int            `json:"stress_gained,omitempty"`
}

// RollCheck resolves a d100 roll-under check against a stat or save, with an
// optional skill bonus. A failed check adds one stress.
func (e *Engine) RollCheck(name, stat, skill string, advantage, disadvantage bool) (CheckOutcome, error) {
	c, err := e.resolve(name)
	if err != nil {
		return CheckOutcome{}, err
	}

	target, ok := c.statTarget(stat)
	if !ok {
		return CheckOutcome{}, apperrors.WithMetadata(apperrors.CodeCharacterUnknownStat,
			"unknown stat: "+stat, map[string]string{"Stat": stat})
	}

	result := e.runCheck(c, check.Request{
		Target:       target,
		Modifier:     c.skillBonus(skill),
		Direction:    check.DirectionUnder,
		Advantage:    advantage,
		Disadvantage: disadvantage,
	})

	outcome := CheckOutcome{
		Character: c.Name,
		Stat:      strings.ToLower(stat),
		Skill:     skill,
		Target:    result.Target,
		Draws:     result.Draws,
		Draw:      result.Draw,
		Success:   result.Success,
		Critical:  result.Critical,
	}
	if !result.Success {
		outcome.StressGained = 1
	}

	e.logf(LogAction, map[string]any{"check": outcome},
		"%s rolls %s (target %d): %d -> %s.",
		c.Name, outcome.Stat, outcome.Target, outcome.Draw, describeOutcome(result))

	if !result.Success {
		c.modifyStress(1, e.cfg.StressCap)
		e.logf(LogAction, nil, "%s gains 1 stress (now %d).", c.Name, c.Stress)
	}
	return outcome, nil
}

// runCheck evaluates a check, folding in a pending advantage grant (from a
// panic adrenaline surge) which is consumed by the next check.
func (e *Engine) runCheck(c *Character, req check.Request) check.Result {
	if c.CheckAdvantage {
		req.Advantage = true
		c.CheckAdvantage = false
	}
	return check.Evaluate(e.rng, req)
}

func describeOutcome(result check.Result) string {
	switch {
	case result.Critical == check.CriticalSuccess:
		return "critical success"
	case result.Critical == check.CriticalFailure:
		return "critical failure"
	case result.Success:
		return "success"
	default:
		return "failure"
	}
}

// ApplyDamage routes damage through armor and HP, and reports wounds and
// death. Damage to the dead is a no-op, not an error.
func (e *Engine) ApplyDamage(name string, amount int) (DamageReport, error) {
	c, err := e.resolve(name)
	if err != nil {
		return DamageReport{}, err
	}

	report := c.applyDamage(amount)
	switch {
	case !c.Alive && !report.Dead:
		e.logf(LogAction, nil, "%s is already dead; damage has no effect.", c.Name)
	case report.Dead:
		e.logf(LogAction, map[string]any{"damage": report},
			"%s takes %d damage and dies from wounds.", c.Name, report.Taken)
	case report.Wound:
		e.logf(LogAction, map[string]any{"damage": report},
			"%s takes %d damage and gains a wound (%d/%d); HP resets to %d.",
			c.Name, report.Taken, c.Wounds, c.MaxWounds, c.MaxHP)
	default:
		e.logf(LogAction, map[string]any{"damage": report},
			"%s takes %d damage (HP: %d/%d).", c.Name, report.Taken, c.HP, c.MaxHP)
	}
	return report, nil
}

// Heal raises HP up to max and returns the amount healed. Healing the dead is
// a no-op.
func (e *Engine) Heal(name string, amount int) (int, error) {
	c, err := e.resolve(name)
	if err != nil {
		return 0, err
	}
	healed := c.heal(amount)
	e.logf(LogAction, nil, "%s heals %d HP (HP: %d/%d).", c.Name, healed, c.HP, c.MaxHP)
	return healed, nil
}

// ModifyStress shifts stress by delta, clamped to [0, cap], and returns the
// new value.
func (e *Engine) ModifyStress(name string, delta int) (int, error) {
	c, err := e.resolve(name)
	if err != nil {
		return 0, err
	}
	stress := c.modifyStress(delta, e.cfg.StressCap)
	verb := "gains"
	if delta < 0 {
		verb = "loses"
	}
	e.logf(LogAction, nil, "%s %s %d stress (now %d).", c.Name, verb, abs(delta), stress)
	return stress, nil
}

// PanicReport describes a panic check and its applied effects.
type PanicReport struct {
	Character string `json:"character"`
	Roll      int    `json:"roll"`
	Stress    int    `json:"stress"`
	Panicked  bool   `json:"panicked"`
	// TableRoll selects the panic table entry when panicked.
	TableRoll int    `json:"table_roll,omitempty"`
	Text      string `json:"text,omitempty"`
	// Applied numeric effects.
	StressDelta int           `json:"stress_delta,omitempty"`
	Damage      *DamageReport `json:"damage,omitempty"`
	Condition   Condition     `json:"condition,omitempty"`
	Advantage   bool          `json:"advantage,omitempty"`
}

// PanicCheck draws 1d20 against current stress. A draw at or under stress
// panics: a second draw selects a panic table entry, its numeric effects are
// applied through the resource operations, and its text is returned for the
// caller to narrate. A character at zero stress can never panic.
func (e *Engine) PanicCheck(name string) (PanicReport, error) {
	c, err := e.resolve(name)
	if err != nil {
		return PanicReport{}, err
	}

	d20 := dice.Expression{Count: 1, Sides: 20}
	roll := d20.Roll(e.rng).Total
	report := PanicReport{Character: c.Name, Roll: roll, Stress: c.Stress}

	if roll > c.Stress {
		e.logf(LogAction, nil, "%s keeps it together (rolled %d vs stress %d).",
			c.Name, roll, c.Stress)
		return report, nil
	}

	report.Panicked = true
	report.TableRoll = d20.Roll(e.rng).Total
	entry := e.panicEntry(report.TableRoll)
	report.Text = entry.Text

	e.logf(LogAction, map[string]any{"panic_roll": roll, "table_roll": report.TableRoll},
		"%s panics! (rolled %d vs stress %d): %s", c.Name, roll, c.Stress, entry.Text)

	if entry.StressDelta != 0 {
		report.StressDelta = entry.StressDelta
		c.modifyStress(entry.StressDelta, e.cfg.StressCap)
	}
	if entry.DamageDice != "" {
		// Table expressions are validated data; a bad override surfaces
		// as zero damage rather than a crash.
		if result, err := dice.RollExpr(e.rng, entry.DamageDice); err == nil {
			damage := c.applyDamage(result.Total)
			report.Damage = &damage
		}
	}
	if entry.Condition != "" {
		report.Condition = entry.Condition
		c.addCondition(entry.Condition)
	}
	if entry.Advantage {
		report.Advantage = true
		c.CheckAdvantage = true
	}
	return report, nil
}

// panicEntry selects the panic table row for a 1d20 roll.
func (e *Engine) panicEntry(roll int) PanicEntry {
	table := e.cfg.PanicTable
	if len(table) == 0 {
		table = defaultPanicTable
	}
	for _, entry := range table {
		if entry.Roll == roll {
			return entry
		}
	}
	// Clamp to the last row for rolls beyond the table.
	return table[len(table)-1]
}

// AddItem appends an item to a character's ordered inventory.
func (e *Engine) AddItem(name, item string) ([]string, error) {
	c, err := e.resolve(name)
	if err != nil {
		return nil, err
	}
	c.Inventory = append(c.Inventory, item)
	e.logf(LogAction, nil, "%s gains item: %s.", c.Name, item)
	return c.Inventory, nil
}

// RemoveItem removes the first occurrence of an item from the inventory.
func (e *Engine) RemoveItem(name, item string) ([]string, error) {
	c, err := e.resolve(name)
	if err != nil {
		return nil, err
	}
	if !c.removeItem(item) {
		return nil, apperrors.WithMetadata(apperrors.CodeCharacterItemNotFound,
			fmt.Sprintf("%s does not carry %s", c.Name, item),
			map[string]string{"Name": c.Name, "Item": item})
	}
	e.logf(LogAction, nil, "%s loses item: %s.", c.Name, item)
	return c.Inventory, nil
}

// ItemUse describes the applied effect of a consumed item.
type ItemUse struct {
	Character string `json:"character"`
	Item      string `json:"item"`
	Healed    int    `json:"healed,omitempty"`
	// StressDelta is the applied stress change.
	StressDelta int `json:"stress_delta,omitempty"`
	// Armor names armor equipped by the item, if any.
	Armor string `json:"armor,omitempty"`
}

// UseItem consumes one inventory item and applies its declared effect through
// the corresponding resource operation. Items without a declared effect are
// consumed with narration only.
func (e *Engine) UseItem(name, item string) (ItemUse, error) {
	c, err := e.resolve(name)
	if err != nil {
		return ItemUse{}, err
	}
	if !c.removeItem(item) {
		return ItemUse{}, apperrors.WithMetadata(apperrors.CodeCharacterItemNotFound,
			fmt.Sprintf("%s does not carry %s", c.Name, item),
			map[string]string{"Name": c.Name, "Item": item})
	}

	use := ItemUse{Character: c.Name, Item: item}
	effects := e.cfg.ItemEffects
	if effects == nil {
		effects = defaultItemEffects
	}
	effect, ok := effects[item]
	if !ok {
		e.logf(LogAction, nil, "%s uses %s.", c.Name, item)
		return use, nil
	}

	if effect.HealDice != "" {
		if result, err := dice.RollExpr(e.rng, effect.HealDice); err == nil {
			use.Healed = c.heal(result.Total)
		}
	}
	if effect.StressDelta != 0 {
		before := c.Stress
		c.modifyStress(effect.StressDelta, e.cfg.StressCap)
		use.StressDelta = c.Stress - before
	}
	if effect.Armor != nil {
		c.Armor = Armor{Name: effect.Armor.Name, Rating: effect.Armor.Points, Points: effect.Armor.Points}
		use.Armor = effect.Armor.Name
	}
	e.logf(LogAction, map[string]any{"item_use": use}, "%s uses %s.", c.Name, item)
	return use, nil
}

// TableDraw reports a random table roll.
type TableDraw struct {
	Table string              `json:"table"`
	Draw  int                 `json:"draw"`
	Entry campaign.TableEntry `json:"entry"`
}

// RollOnTable draws on a random table from the active campaign module.
func (e *Engine) RollOnTable(tableID string) (TableDraw, error) {
	if e.campaigns == nil || e.activeCampaign == "" {
		return TableDraw{}, apperrors.WithMetadata(apperrors.CodeCampaignNotLoaded,
			"no active campaign", map[string]string{"Name": ""})
	}
	module, err := e.campaigns.Module(e.activeCampaign)
	if err != nil {
		return TableDraw{}, err
	}
	table, err := module.Table(tableID)
	if err != nil {
		return TableDraw{}, err
	}
	// The table's dice were validated at load time.
	result, err := dice.RollExpr(e.rng, table.Dice)
	if err != nil {
		return TableDraw{}, err
	}
	entry, err := module.RollTable(tableID, result.Total)
	if err != nil {
		return TableDraw{}, err
	}
	e.logf(LogCampaign, map[string]any{"table": tableID, "draw": result.Total},
		"Rolled %d on table %q: %s", result.Total, tableID, entry.Result)
	return TableDraw{Table: tableID, Draw: result.Total, Entry: entry}, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
