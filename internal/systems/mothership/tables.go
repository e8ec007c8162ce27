package mothership

// Class presets, skills, the panic table and the equipment catalogs. These are
// rules data, not engine logic: Config can override the panic table and item
// effects without touching code.

// classPreset bundles everything a class contributes at creation time.
type classPreset struct {
	Stats  Stats // modifiers added to the rolled base stats
	Saves  Saves
	MaxHP  int
	Skills map[string]SkillTier
}

var classPresets = map[Class]classPreset{
	ClassTeamster: {
		Stats: Stats{Strength: 5, Speed: 5, Intellect: 5, Combat: 0},
		Saves: Saves{Sanity: 30, Fear: 35, Body: 30},
		MaxHP: 20,
		Skills: map[string]SkillTier{
			"Mechanical Repair": TierTrained,
			"Zero-G":            TierTrained,
		},
	},
	ClassScientist: {
		Stats: Stats{Strength: 0, Speed: 0, Intellect: 10, Combat: 0},
		Saves: Saves{Sanity: 40, Fear: 25, Body: 25},
		MaxHP: 15,
		Skills: map[string]SkillTier{
			"Computers": TierTrained,
			"First Aid": TierTrained,
		},
	},
	ClassAndroid: {
		Stats: Stats{Strength: 5, Speed: 5, Intellect: 5, Combat: 5},
		Saves: Saves{Sanity: 20, Fear: 60, Body: 30},
		MaxHP: 25,
		Skills: map[string]SkillTier{
			"Linguistics": TierTrained,
			"Mathematics": TierTrained,
		},
	},
	ClassMarine: {
		Stats: Stats{Strength: 5, Speed: 0, Intellect: 0, Combat: 10},
		Saves: Saves{Sanity: 25, Fear: 30, Body: 35},
		MaxHP: 25,
		Skills: map[string]SkillTier{
			"Military Training": TierTrained,
			"Athletics":         TierTrained,
		},
	},
}

// freeformPreset is the baseline block for classes outside the presets.
var freeformPreset = classPreset{
	Saves:  Saves{Sanity: 30, Fear: 30, Body: 30},
	MaxHP:  20,
	Skills: map[string]SkillTier{},
}

// SkillTierBonus maps a tier to the bonus added to the check target.
var SkillTierBonus = map[SkillTier]int{
	TierNone:    0,
	TierTrained: 10,
	TierExpert:  15,
	TierMaster:  20,
}

// PanicEntry is one row of the panic table. Numeric effects are applied by the
// engine through the corresponding resource operations; the text is returned
// for the warden to narrate.
type PanicEntry struct {
	Roll        int       `json:"roll"`
	Text        string    `json:"text"`
	StressDelta int       `json:"stress_delta,omitempty"`
	DamageDice  string    `json:"damage_dice,omitempty"`
	Advantage   bool      `json:"advantage,omitempty"`
	Condition   Condition `json:"condition,omitempty"`
}

// defaultPanicTable is the stock panic table, indexed by a 1d20 roll.
var defaultPanicTable = []PanicEntry{
	{Roll: 1, Text: "Adrenaline surge: gain advantage on your next check.", Advantage: true},
	{Roll: 2, Text: "Nervous twitch: minor distraction, no mechanical effect."},
	{Roll: 3, Text: "Shaking hands: disadvantage on fine motor tasks for a round."},
	{Roll: 4, Text: "Tunnel vision: you can only focus on one target this round."},
	{Roll: 5, Text: "Short of breath: you lose your next action catching your breath.", StressDelta: 1},
	{Roll: 6, Text: "Paranoia: you refuse to trust your allies for a while.", StressDelta: 1},
	{Roll: 7, Text: "Overwhelmed: you freeze in place and skip your next turn.", Condition: ConditionStunned},
	{Roll: 8, Text: "Cowardice: you must flee from the source of danger for a round.", StressDelta: 1},
	{Roll: 9, Text: "Scream: every nearby creature now knows where you are.", StressDelta: 1},
	{Roll: 10, Text: "Nausea: you vomit and lose your action this round."},
	{Roll: 11, Text: "Frenzy: you lash out at the nearest creature, friend or foe.", Condition: ConditionPanicked},
	{Roll: 12, Text: "Compulsive behavior: you fixate on one object and can't act otherwise.", Condition: ConditionPanicked},
	{Roll: 13, Text: "Catatonic: unresponsive until shaken out of it.", Condition: ConditionParalyzed},
	{Roll: 14, Text: "Hallucinations: you perceive threats that are not there.", Condition: ConditionPanicked, StressDelta: 2},
	{Roll: 15, Text: "Violent outburst: you smash or throw the nearest object.", StressDelta: 1},
	{Roll: 16, Text: "Phobia: you develop a lasting fear of the current threat.", StressDelta: 2},
	{Roll: 17, Text: "Dissociation: you act on autopilot for the rest of the scene.", Condition: ConditionPanicked, StressDelta: 2},
	{Roll: 18, Text: "Heart attack: the terror takes a physical toll.", DamageDice: "1d10"},
	{Roll: 19, Text: "Collapse: you fall unconscious and must be revived.", Condition: ConditionUnconscious},
	{Roll: 20, Text: "Total psychotic break: the warden determines a severe consequence.", Condition: ConditionPanicked, StressDelta: 3},
}

// Weapon describes an attack option keyed by inventory item name.
type Weapon struct {
	Name   string `json:"name"`
	Damage string `json:"damage"` // dice expression
	Range  string `json:"range"`
	Shots  int    `json:"shots,omitempty"` // 0 = melee
}

// weaponCatalog maps inventory item names to weapon profiles. An attacker
// uses the first inventory item found here; otherwise the attack is unarmed.
var weaponCatalog = map[string]Weapon{
	"Crowbar":      {Name: "Crowbar", Damage: "1d10", Range: "close"},
	"Combat Knife": {Name: "Combat Knife", Damage: "1d10", Range: "close"},
	"Revolver":     {Name: "Revolver", Damage: "2d10", Range: "nearby", Shots: 6},
	"Pulse Rifle":  {Name: "Pulse Rifle", Damage: "3d10", Range: "far", Shots: 30},
	"Shotgun":      {Name: "Shotgun", Damage: "4d10", Range: "close", Shots: 2},
	"Flamethrower": {Name: "Flamethrower", Damage: "2d10", Range: "close", Shots: 4},
	"Stun Baton":   {Name: "Stun Baton", Damage: "1d10", Range: "close"},
	"Laser Cutter": {Name: "Laser Cutter", Damage: "1d10", Range: "close"},
}

// unarmedDamage is the fallback damage expression with no weapon in inventory.
const unarmedDamage = "1d10"

// ItemEffect is the declared mechanical effect of consuming an item. Exactly
// the fields that are set apply; an item absent from the effects table is
// consumed with narration only.
type ItemEffect struct {
	HealDice    string     `json:"heal_dice,omitempty"`
	StressDelta int        `json:"stress_delta,omitempty"`
	Armor       *ArmorSpec `json:"armor,omitempty"`
}

// ArmorSpec declares armor granted by equipping an item.
type ArmorSpec struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// defaultItemEffects covers the stock equipment with mechanical effects.
var defaultItemEffects = map[string]ItemEffect{
	"Medkit":             {HealDice: "1d10"},
	"Stimpak":            {HealDice: "1d10", StressDelta: 1},
	"Sedatives":          {StressDelta: -2},
	"Standard Crew Suit": {Armor: &ArmorSpec{Name: "Standard Crew Suit", Points: 1}},
	"Hazard Suit":        {Armor: &ArmorSpec{Name: "Hazard Suit", Points: 3}},
	"Combat Armor":       {Armor: &ArmorSpec{Name: "Combat Armor", Points: 5}},
	"Power Armor":        {Armor: &ArmorSpec{Name: "Power Armor", Points: 7}},
}

// Skills lists the recognized skill names.
var Skills = []string{
	"Archaeology", "Art", "Athletics", "Botany", "Chemistry", "Climbing",
	"Computers", "Ecology", "Engineering", "Explosives", "First Aid",
	"Geology", "Heavy Machinery", "Linguistics", "Mathematics",
	"Mechanical Repair", "Military Training", "Mycology", "Pathology",
	"Piloting", "Rimwise", "Theology", "Xenobiology", "Zero-G",
}
