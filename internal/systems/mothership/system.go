package mothership

import (
	"encoding/json"
	"strings"

	"github.com/louisbranch/airlock/internal/engine"
	apperrors "github.com/louisbranch/airlock/internal/errors"
)

// Action types accepted by ProcessAction, beyond the combat actions.
const (
	ActionRoll        = "roll"
	ActionDamage      = "damage"
	ActionHeal        = "heal"
	ActionStress      = "stress"
	ActionPanic       = "panic"
	ActionAddItem     = "add_item"
	ActionRemoveItem  = "remove_item"
	ActionStart       = "start_combat"
	ActionEnd         = "end_combat"
	ActionScene       = "scene"
	ActionRollTable   = "roll_table"
	ActionSetCampaign = "set_campaign"
)

// Name implements engine.System.
func (e *Engine) Name() string {
	return SystemName
}

// CreateCharacter implements engine.System. Recognized opts: "class" and
// "controller", both strings.
func (e *Engine) CreateCharacter(name string, opts map[string]any) (map[string]any, error) {
	class := Class(strings.ToLower(strParam(opts, "class")))
	controller := Controller(strParam(opts, "controller"))
	c, err := e.createCharacter(name, class, controller)
	if err != nil {
		return nil, err
	}
	return toDoc(c), nil
}

// Character implements engine.System.
func (e *Engine) Character(name string) (map[string]any, bool) {
	c, err := e.resolve(name)
	if err != nil {
		return nil, false
	}
	return toDoc(c), true
}

// Characters implements engine.System.
func (e *Engine) Characters() []map[string]any {
	list := e.ListCharacters()
	docs := make([]map[string]any, len(list))
	for i, c := range list {
		docs[i] = toDoc(c)
	}
	return docs
}

// State implements engine.System.
func (e *Engine) State() map[string]any {
	return map[string]any{
		"system":          SystemName,
		"name":            e.cfg.Name,
		"scene":           e.scene,
		"characters":      e.Characters(),
		"encounter":       toDoc(e.Encounter()),
		"log":             e.log,
		"active_campaign": e.activeCampaign,
	}
}

// AvailableActions implements engine.System. Dead characters get nothing; in
// active combat only the turn holder may act.
func (e *Engine) AvailableActions(character string) []string {
	c, err := e.resolve(character)
	if err != nil || !c.Alive {
		return nil
	}
	if e.encounter.Status == EncounterActive {
		if _, rostered := e.encounter.combatant(c.Name); rostered {
			if current, ok := e.encounter.Current(); ok && current == c.Name {
				return []string{ActionAttack, ActionDefend, ActionFlee, ActionUseItem}
			}
			return nil
		}
	}
	return []string{ActionRoll, ActionPanic, ActionUseItem}
}

// ProcessAction implements engine.System. It maps action types onto the typed
// operations and folds every domain error into a structured failure result.
func (e *Engine) ProcessAction(action engine.Action) engine.Result {
	switch action.Type {
	case ActionRoll:
		outcome, err := e.RollCheck(action.Character,
			strParam(action.Params, "stat"),
			strParam(action.Params, "skill"),
			boolParam(action.Params, "advantage"),
			boolParam(action.Params, "disadvantage"))
		return e.outcome(err, toDoc(outcome))

	case ActionDamage:
		report, err := e.ApplyDamage(action.Character, intParam(action.Params, "amount"))
		return e.outcome(err, toDoc(report))

	case ActionHeal:
		healed, err := e.Heal(action.Character, intParam(action.Params, "amount"))
		return e.outcome(err, map[string]any{"healed": healed})

	case ActionStress:
		stress, err := e.ModifyStress(action.Character, intParam(action.Params, "delta"))
		return e.outcome(err, map[string]any{"stress": stress})

	case ActionPanic:
		report, err := e.PanicCheck(action.Character)
		return e.outcome(err, toDoc(report))

	case ActionAddItem:
		inventory, err := e.AddItem(action.Character, strParam(action.Params, "item"))
		return e.outcome(err, map[string]any{"inventory": inventory})

	case ActionRemoveItem:
		inventory, err := e.RemoveItem(action.Character, strParam(action.Params, "item"))
		return e.outcome(err, map[string]any{"inventory": inventory})

	case ActionUseItem:
		if e.encounter.Status == EncounterActive {
			report, err := e.CombatAction(action.Character, CombatRequest{
				Action: ActionUseItem,
				Item:   strParam(action.Params, "item"),
			})
			return e.outcome(err, toDoc(report))
		}
		use, err := e.UseItem(action.Character, strParam(action.Params, "item"))
		return e.outcome(err, toDoc(use))

	case ActionStart:
		encounter, err := e.StartCombat(strsParam(action.Params, "characters"))
		return e.outcome(err, toDoc(encounter))

	case ActionAttack, ActionDefend, ActionFlee:
		report, err := e.CombatAction(action.Character, CombatRequest{
			Action:       action.Type,
			Target:       strParam(action.Params, "target"),
			Skill:        strParam(action.Params, "skill"),
			Advantage:    boolParam(action.Params, "advantage"),
			Disadvantage: boolParam(action.Params, "disadvantage"),
		})
		return e.outcome(err, toDoc(report))

	case ActionEnd:
		err := e.EndCombat()
		return e.outcome(err, nil)

	case ActionScene:
		e.SetScene(strParam(action.Params, "text"))
		return e.outcome(nil, nil)

	case ActionRollTable:
		draw, err := e.RollOnTable(strParam(action.Params, "table"))
		return e.outcome(err, toDoc(draw))

	case ActionSetCampaign:
		err := e.SetCampaign(strParam(action.Params, "campaign"))
		return e.outcome(err, nil)

	default:
		return engine.Failure(apperrors.WithMetadata(apperrors.CodeActionUnknown,
			"unknown action: "+action.Type, map[string]string{"Action": action.Type}))
	}
}

// outcome folds an operation result into the engine.Result shape, using the
// last log entry as the human-readable summary.
func (e *Engine) outcome(err error, details map[string]any) engine.Result {
	if err != nil {
		return engine.Failure(err)
	}
	summary := ""
	if len(e.log) > 0 {
		summary = e.log[len(e.log)-1].Message
	}
	return engine.Result{
		Success:      true,
		Summary:      summary,
		Details:      details,
		StateChanged: true,
	}
}

// toDoc converts any JSON-marshalable value into a generic document.
func toDoc(v any) map[string]any {
	blob, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var doc map[string]any
	if err := json.Unmarshal(blob, &doc); err != nil {
		// Non-object values (slices) nest under a single key.
		var alt any
		if err := json.Unmarshal(blob, &alt); err != nil {
			return nil
		}
		return map[string]any{"items": alt}
	}
	return doc
}

func strParam(params map[string]any, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

func boolParam(params map[string]any, key string) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return false
}

func intParam(params map[string]any, key string) int {
	switch v := params[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return 0
}

func strsParam(params map[string]any, key string) []string {
	switch v := params[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
