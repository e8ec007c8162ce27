package mothership

import (
	"fmt"
	"sort"
	"strings"

	"github.com/louisbranch/airlock/internal/core/check"
	"github.com/louisbranch/airlock/internal/core/dice"
	apperrors "github.com/louisbranch/airlock/internal/errors"
)

// Combat action kinds.
const (
	ActionAttack  = "attack"
	ActionDefend  = "defend"
	ActionFlee    = "flee"
	ActionUseItem = "use_item"
)

// CombatRequest carries one combat action and its options. Advantage and
// Disadvantage apply to the action's check and merge with situational
// modifiers (a defending target, a panic adrenaline surge); Skill names a
// proficiency folded into an attack's target.
type CombatRequest struct {
	Action       string
	Target       string
	Item         string
	Skill        string
	Advantage    bool
	Disadvantage bool
}

// CombatReport describes one resolved combat turn.
type CombatReport struct {
	Actor  string `json:"actor"`
	Action string `json:"action"`
	Target string `json:"target,omitempty"`

	Check   *CheckOutcome `json:"check,omitempty"`
	Damage  *DamageReport `json:"damage,omitempty"`
	ItemUse *ItemUse      `json:"item_use,omitempty"`

	Fled      bool `json:"fled,omitempty"`
	Defending bool `json:"defending,omitempty"`
	// Complication marks a critical failure on an attack: no damage, and the
	// caller narrates something going wrong for the attacker.
	Complication bool `json:"complication,omitempty"`

	Round int    `json:"round"`
	Next  string `json:"next,omitempty"`
	Ended bool   `json:"ended,omitempty"`
}

// StartCombat opens an encounter with the named characters. Initiative is one
// roll of the configured die plus the configured bonus stat, ordered highest
// first; ties break on the higher raw bonus, then on join order.
func (e *Engine) StartCombat(names []string) (Encounter, error) {
	if e.encounter.Status == EncounterActive {
		return Encounter{}, apperrors.New(apperrors.CodeCombatAlreadyActive,
			"combat is already active")
	}
	if len(names) == 0 {
		return Encounter{}, apperrors.New(apperrors.CodeCombatEmptyRoster,
			"combat needs at least one combatant")
	}

	// Resolve everyone before rolling anything so a bad name leaves the
	// encounter untouched.
	seen := map[string]bool{}
	members := make([]*Character, 0, len(names))
	for _, name := range names {
		c, err := e.resolve(name)
		if err != nil {
			return Encounter{}, err
		}
		key := strings.ToLower(c.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		members = append(members, c)
	}

	die, err := dice.Parse(e.cfg.InitiativeDie)
	if err != nil {
		return Encounter{}, err
	}

	roster := make([]Combatant, 0, len(members))
	for i, c := range members {
		bonus, _ := c.statTarget(e.cfg.InitiativeStat)
		roster = append(roster, Combatant{
			Name:       c.Name,
			Initiative: die.Roll(e.rng).Total + bonus,
			Bonus:      bonus,
			Join:       i,
		})
	}
	sort.SliceStable(roster, func(i, j int) bool {
		a, b := roster[i], roster[j]
		if a.Initiative != b.Initiative {
			return a.Initiative > b.Initiative
		}
		if a.Bonus != b.Bonus {
			return a.Bonus > b.Bonus
		}
		return a.Join < b.Join
	})

	e.encounter = Encounter{Status: EncounterActive, Round: 1, Roster: roster}

	order := make([]string, len(roster))
	for i, c := range roster {
		order[i] = fmt.Sprintf("%s (%d)", c.Name, c.Initiative)
	}
	e.logf(LogCombat, map[string]any{"roster": roster},
		"Combat begins. Initiative: %s.", strings.Join(order, ", "))
	return e.Encounter(), nil
}

// EndCombat closes the active encounter. Wounds and stress persist.
func (e *Engine) EndCombat() error {
	if e.encounter.Status != EncounterActive {
		return apperrors.New(apperrors.CodeCombatNotActive, "combat is not active")
	}
	e.encounter.end()
	e.logf(LogCombat, nil, "Combat ends after %d round(s).", e.encounter.Round)
	return nil
}

// CombatAction resolves one action by the turn-holding combatant and advances
// the turn. All validation happens before any dice are rolled so a rejected
// action leaves every piece of state untouched.
func (e *Engine) CombatAction(actor string, req CombatRequest) (CombatReport, error) {
	if e.encounter.Status != EncounterActive {
		return CombatReport{}, apperrors.New(apperrors.CodeCombatNotActive,
			"combat is not active")
	}
	c, err := e.resolve(actor)
	if err != nil {
		return CombatReport{}, err
	}
	current, ok := e.encounter.Current()
	if !ok || current != c.Name {
		return CombatReport{}, apperrors.WithMetadata(apperrors.CodeCombatNotYourTurn,
			fmt.Sprintf("it is %s's turn, not %s's", current, c.Name),
			map[string]string{"Current": current, "Name": c.Name})
	}

	report := CombatReport{Actor: c.Name, Action: req.Action, Target: req.Target}
	switch req.Action {
	case ActionAttack:
		err = e.resolveAttack(c, req, &report)
	case ActionDefend:
		err = e.resolveDefend(c, &report)
	case ActionFlee:
		err = e.resolveFlee(c, req, &report)
	case ActionUseItem:
		err = e.resolveCombatItem(c, req.Item, &report)
	default:
		err = apperrors.WithMetadata(apperrors.CodeCombatUnknownAction,
			"unknown combat action: "+req.Action, map[string]string{"Action": req.Action})
	}
	if err != nil {
		return CombatReport{}, err
	}

	e.finishTurn(&report)
	return report, nil
}

// resolveAttack rolls the actor's combat stat, plus any skill bonus, against
// a rostered target. A defending target imposes disadvantage on the roll and
// the stance is consumed. Hits deal weapon damage (unarmed otherwise);
// critical hits apply the configured critical damage policy; critical misses
// flag a complication.
func (e *Engine) resolveAttack(c *Character, req CombatRequest, report *CombatReport) error {
	if req.Target == "" {
		return apperrors.New(apperrors.CodeCombatMissingTarget,
			"attack requires a target")
	}
	victim, err := e.resolve(req.Target)
	if err != nil {
		return err
	}
	slot, ok := e.encounter.combatant(victim.Name)
	if !ok {
		return apperrors.WithMetadata(apperrors.CodeCombatUnknownTarget,
			victim.Name+" is not in this encounter", map[string]string{"Name": victim.Name})
	}
	report.Target = victim.Name

	creq := check.Request{
		Target:       c.Stats.Combat,
		Modifier:     c.skillBonus(req.Skill),
		Direction:    check.DirectionUnder,
		Advantage:    req.Advantage,
		Disadvantage: req.Disadvantage,
	}
	if slot.Defending {
		creq.Disadvantage = true
		slot.Defending = false
	}
	result := e.runCheck(c, creq)

	outcome := CheckOutcome{
		Character: c.Name,
		Stat:      "combat",
		Skill:     req.Skill,
		Target:    result.Target,
		Draws:     result.Draws,
		Draw:      result.Draw,
		Success:   result.Success,
		Critical:  result.Critical,
	}
	report.Check = &outcome

	if !result.Success {
		outcome.StressGained = 1
		c.modifyStress(1, e.cfg.StressCap)
		if result.Critical == check.CriticalFailure {
			report.Complication = true
			e.logf(LogCombat, map[string]any{"check": outcome},
				"%s attacks %s and critically misses (%d vs %d); something goes wrong, and gains 1 stress.",
				c.Name, victim.Name, result.Draw, result.Target)
			return nil
		}
		e.logf(LogCombat, map[string]any{"check": outcome},
			"%s attacks %s and misses (%d vs %d); gains 1 stress.",
			c.Name, victim.Name, result.Draw, result.Target)
		return nil
	}

	damageExpr := unarmedDamage
	weaponName := "bare hands"
	if weapon, ok := c.firstWeapon(); ok {
		damageExpr = weapon.Damage
		weaponName = weapon.Name
	}
	// Catalog expressions are validated; parse cannot fail here.
	expr, err := dice.Parse(damageExpr)
	if err != nil {
		return err
	}

	var amount int
	if result.Critical == check.CriticalSuccess && e.cfg.CritDamage == CritDamageMaximize {
		amount = expr.Count * expr.Sides
	} else {
		amount = expr.Roll(e.rng).Total
		if result.Critical == check.CriticalSuccess {
			amount *= 2
		}
	}

	damage := victim.applyDamage(amount)
	report.Damage = &damage

	hit := "hits"
	if result.Critical == check.CriticalSuccess {
		hit = "critically hits"
	}
	switch {
	case damage.Dead:
		e.logf(LogCombat, map[string]any{"check": outcome, "damage": damage},
			"%s %s %s with %s for %d damage. %s dies.",
			c.Name, hit, victim.Name, weaponName, damage.Taken, victim.Name)
	case damage.Wound:
		e.logf(LogCombat, map[string]any{"check": outcome, "damage": damage},
			"%s %s %s with %s for %d damage. %s takes a wound (%d/%d).",
			c.Name, hit, victim.Name, weaponName, damage.Taken,
			victim.Name, victim.Wounds, victim.MaxWounds)
	default:
		e.logf(LogCombat, map[string]any{"check": outcome, "damage": damage},
			"%s %s %s with %s for %d damage (HP: %d/%d).",
			c.Name, hit, victim.Name, weaponName, damage.Taken, victim.HP, victim.MaxHP)
	}
	return nil
}

// resolveDefend takes a defensive stance lasting until the defender's next
// turn or until an attack comes in, whichever is first.
func (e *Engine) resolveDefend(c *Character, report *CombatReport) error {
	slot, ok := e.encounter.combatant(c.Name)
	if !ok {
		return apperrors.WithMetadata(apperrors.CodeCombatUnknownTarget,
			c.Name+" is not in this encounter", map[string]string{"Name": c.Name})
	}
	slot.Defending = true
	slot.DefendRound = e.encounter.Round
	report.Defending = true
	e.logf(LogCombat, nil, "%s takes a defensive stance.", c.Name)
	return nil
}

// resolveFlee rolls speed to escape. Success removes the actor from the
// roster; failure wastes the turn and adds 1 stress.
func (e *Engine) resolveFlee(c *Character, req CombatRequest, report *CombatReport) error {
	result := e.runCheck(c, check.Request{
		Target:       c.Stats.Speed,
		Direction:    check.DirectionUnder,
		Advantage:    req.Advantage,
		Disadvantage: req.Disadvantage,
	})
	outcome := CheckOutcome{
		Character: c.Name,
		Stat:      "speed",
		Target:    result.Target,
		Draws:     result.Draws,
		Draw:      result.Draw,
		Success:   result.Success,
		Critical:  result.Critical,
	}
	report.Check = &outcome

	if result.Success {
		report.Fled = true
		e.encounter.removeCombatant(c.Name)
		e.logf(LogCombat, map[string]any{"check": outcome},
			"%s flees the encounter (%d vs %d).", c.Name, result.Draw, result.Target)
		return nil
	}

	outcome.StressGained = 1
	c.modifyStress(1, e.cfg.StressCap)
	e.logf(LogCombat, map[string]any{"check": outcome},
		"%s fails to flee (%d vs %d); gains 1 stress.", c.Name, result.Draw, result.Target)
	return nil
}

// resolveCombatItem consumes an inventory item as the turn's action.
func (e *Engine) resolveCombatItem(c *Character, item string, report *CombatReport) error {
	if item == "" {
		return apperrors.New(apperrors.CodeCombatMissingTarget,
			"use_item requires an item")
	}
	use, err := e.UseItem(c.Name, item)
	if err != nil {
		return err
	}
	report.ItemUse = &use
	return nil
}

// finishTurn advances the turn pointer past dead and fled combatants, expires
// stale defend stances, and auto-ends the encounter once nobody on the roster
// can act.
func (e *Engine) finishTurn(report *CombatReport) {
	// A successful flee already moved the pointer to the next actor, but
	// that actor may itself be unable to act.
	if !report.Fled {
		e.encounter.advanceTurn(e.combatantAlive)
	} else if name, ok := e.encounter.Current(); ok && !e.combatantAlive(name) {
		e.encounter.advanceTurn(e.combatantAlive)
	}

	if len(e.encounter.Roster) == 0 || e.livingCombatants() == 0 {
		e.encounter.end()
		report.Ended = true
		report.Round = e.encounter.Round
		e.logf(LogCombat, nil, "Combat ends after %d round(s).", e.encounter.Round)
		return
	}

	if next, ok := e.encounter.Current(); ok {
		e.encounter.clearExpiredDefense(next)
		report.Next = next
	}
	report.Round = e.encounter.Round
}

func (e *Engine) combatantAlive(name string) bool {
	c, ok := e.characters[strings.ToLower(name)]
	return ok && c.Alive
}

func (e *Engine) livingCombatants() int {
	n := 0
	for _, slot := range e.encounter.Roster {
		if e.combatantAlive(slot.Name) {
			n++
		}
	}
	return n
}
