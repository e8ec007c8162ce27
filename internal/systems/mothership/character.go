package mothership

import "strings"

// Class is a character archetype. The four presets carry stat modifiers and
// starting skills; any other non-empty value is treated as a freeform class
// with the baseline block.
type Class string

const (
	ClassTeamster  Class = "teamster"
	ClassScientist Class = "scientist"
	ClassAndroid   Class = "android"
	ClassMarine    Class = "marine"
)

// Controller tags who drives a character.
type Controller string

const (
	ControllerAI   Controller = "ai"
	ControllerUser Controller = "user"
	ControllerNPC  Controller = "npc"
)

// SkillTier is a named proficiency level.
type SkillTier string

const (
	TierNone    SkillTier = ""
	TierTrained SkillTier = "trained"
	TierExpert  SkillTier = "expert"
	TierMaster  SkillTier = "master"
)

// Condition is a lingering status effect.
type Condition string

const (
	ConditionBleeding    Condition = "bleeding"
	ConditionBrokenLimb  Condition = "broken_limb"
	ConditionUnconscious Condition = "unconscious"
	ConditionPanicked    Condition = "panicked"
	ConditionStunned     Condition = "stunned"
	ConditionParalyzed   Condition = "paralyzed"
)

// Stats is the core stat block. Values are roll-under targets.
type Stats struct {
	Strength  int `json:"strength"`
	Speed     int `json:"speed"`
	Intellect int `json:"intellect"`
	Combat    int `json:"combat"`
}

// Saves is the save block. Values are roll-under targets.
type Saves struct {
	Sanity int `json:"sanity"`
	Fear   int `json:"fear"`
	Body   int `json:"body"`
}

// Armor tracks the worn armor and its remaining absorption points. Points
// degrade as damage is absorbed; armor is destroyed at zero.
type Armor struct {
	Name   string `json:"name"`
	Rating int    `json:"rating"` // points when new
	Points int    `json:"points"` // current absorption remaining
}

// Character is a full character sheet. Mutation happens only through Engine
// operations so every change lands in the log.
type Character struct {
	Name       string               `json:"name"`
	Class      Class                `json:"class"`
	Controller Controller           `json:"controller"`
	Stats      Stats                `json:"stats"`
	Saves      Saves                `json:"saves"`
	HP         int                  `json:"hp"`
	MaxHP      int                  `json:"max_hp"`
	Wounds     int                  `json:"wounds"`
	MaxWounds  int                  `json:"max_wounds"`
	Stress     int                  `json:"stress"`
	Armor      Armor                `json:"armor"`
	Inventory  []string             `json:"inventory"`
	Skills     map[string]SkillTier `json:"skills"`
	Conditions []Condition          `json:"conditions"`
	Alive      bool                 `json:"alive"`
	// CheckAdvantage marks a one-shot advantage grant (adrenaline surge)
	// consumed by the character's next check.
	CheckAdvantage bool `json:"check_advantage,omitempty"`
}

// statTarget resolves a stat or save name to its roll-under target.
func (c *Character) statTarget(stat string) (int, bool) {
	switch strings.ToLower(stat) {
	case "strength":
		return c.Stats.Strength, true
	case "speed":
		return c.Stats.Speed, true
	case "intellect":
		return c.Stats.Intellect, true
	case "combat":
		return c.Stats.Combat, true
	case "sanity":
		return c.Saves.Sanity, true
	case "fear":
		return c.Saves.Fear, true
	case "body":
		return c.Saves.Body, true
	default:
		return 0, false
	}
}

// skillBonus returns the check bonus for a skill the character holds.
func (c *Character) skillBonus(skill string) int {
	if skill == "" {
		return 0
	}
	return SkillTierBonus[c.Skills[skill]]
}

// hasCondition reports whether the character carries the condition.
func (c *Character) hasCondition(condition Condition) bool {
	for _, have := range c.Conditions {
		if have == condition {
			return true
		}
	}
	return false
}

// addCondition appends a condition once.
func (c *Character) addCondition(condition Condition) {
	if condition == "" || c.hasCondition(condition) {
		return
	}
	c.Conditions = append(c.Conditions, condition)
}

// firstWeapon returns the weapon profile of the first inventory item present
// in the weapon catalog, or false for an unarmed character.
func (c *Character) firstWeapon() (Weapon, bool) {
	for _, item := range c.Inventory {
		if weapon, ok := weaponCatalog[item]; ok {
			return weapon, true
		}
	}
	return Weapon{}, false
}

// DamageReport describes how one packet of damage resolved.
type DamageReport struct {
	Raw      int  `json:"raw"`
	Absorbed int  `json:"absorbed"`
	Taken    int  `json:"taken"`
	Wound    bool `json:"wound"`
	Dead     bool `json:"dead"`
	// ArmorDestroyed marks the hit that reduced armor points to zero.
	ArmorDestroyed bool `json:"armor_destroyed,omitempty"`
}

// applyDamage resolves damage against armor and HP.
//
// Armor absorbs up to its current points first and degrades permanently by
// the amount absorbed. The remainder reduces HP; if HP would drop below zero
// the character gains a wound, HP resets to max and the overflow is
// discarded. Reaching max wounds kills. Damage to the dead is a no-op.
func (c *Character) applyDamage(amount int) DamageReport {
	report := DamageReport{Raw: amount}
	if !c.Alive || amount <= 0 {
		return report
	}

	if c.Armor.Points > 0 {
		absorbed := min(amount, c.Armor.Points)
		c.Armor.Points -= absorbed
		amount -= absorbed
		report.Absorbed = absorbed
		if c.Armor.Points == 0 {
			report.ArmorDestroyed = true
		}
	}

	report.Taken = amount
	if amount == 0 {
		return report
	}

	remaining := c.HP - amount
	if remaining < 0 {
		c.Wounds++
		c.HP = c.MaxHP
		report.Wound = true
		if c.Wounds >= c.MaxWounds {
			c.Wounds = c.MaxWounds
			c.Alive = false
			report.Dead = true
		}
		return report
	}

	c.HP = remaining
	return report
}

// heal raises HP up to the maximum and returns the amount actually healed.
// Healing the dead is a no-op.
func (c *Character) heal(amount int) int {
	if !c.Alive || amount <= 0 {
		return 0
	}
	before := c.HP
	c.HP = min(c.HP+amount, c.MaxHP)
	return c.HP - before
}

// modifyStress shifts stress by delta, clamped to [0, cap], and returns the
// new value.
func (c *Character) modifyStress(delta, cap int) int {
	c.Stress += delta
	if c.Stress < 0 {
		c.Stress = 0
	}
	if c.Stress > cap {
		c.Stress = cap
	}
	return c.Stress
}

// removeItem removes the first occurrence of item, preserving order.
func (c *Character) removeItem(item string) bool {
	for i, have := range c.Inventory {
		if have == item {
			c.Inventory = append(c.Inventory[:i], c.Inventory[i+1:]...)
			return true
		}
	}
	return false
}
