// Package scenario loads and runs Lua-scripted playthroughs against a rule
// system. A script builds a Scenario value out of engine steps and
// expectations; the runner executes the steps in order through the system's
// action surface.
package scenario

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"

	apperrors "github.com/louisbranch/airlock/internal/errors"
)

const scenarioTypeName = "scenario"

// Scenario is an ordered script of engine steps.
type Scenario struct {
	Name  string
	Seed  int64
	Steps []Step
}

// Step is one scripted engine interaction.
type Step struct {
	Kind string
	Args map[string]any
}

// LoadFile evaluates a Lua script file that returns a Scenario.
func LoadFile(path string) (*Scenario, error) {
	state := newState()
	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeScenarioInvalidScript, "load script", err)
	}
	scenario, err := run(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

// LoadString evaluates Lua source that returns a Scenario.
func LoadString(source string) (*Scenario, error) {
	state := newState()
	if err := lua.LoadString(state, source); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeScenarioInvalidScript, "load script", err)
	}
	return run(state)
}

func newState() *lua.State {
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerScenarioType(state)
	registerScenarioConstructor(state)
	return state
}

func run(state *lua.State) (*Scenario, error) {
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeScenarioInvalidScript, "run script", err)
	}
	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, apperrors.New(apperrors.CodeScenarioInvalidScript,
			"script must return a Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, apperrors.New(apperrors.CodeScenarioInvalidScript,
			"script returned an invalid Scenario")
	}
	return scenario, nil
}

func registerScenarioType(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerScenarioConstructor(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, []lua.RegistryFunction{
		{Name: "new", Function: scenarioNew},
	}, 0)
	state.SetGlobal("Scenario")
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	scenario := &Scenario{Name: name}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "seed", Function: scenarioSeed},
	{Name: "character", Function: scenarioCharacter},
	{Name: "scene", Function: scenarioScene},
	{Name: "roll", Function: scenarioRoll},
	{Name: "damage", Function: scenarioDamage},
	{Name: "heal", Function: scenarioHeal},
	{Name: "stress", Function: scenarioStress},
	{Name: "panic", Function: scenarioPanic},
	{Name: "give", Function: scenarioGive},
	{Name: "use", Function: scenarioUse},
	{Name: "start_combat", Function: scenarioStartCombat},
	{Name: "attack", Function: scenarioAttack},
	{Name: "defend", Function: scenarioDefend},
	{Name: "flee", Function: scenarioFlee},
	{Name: "end_combat", Function: scenarioEndCombat},
	{Name: "roll_table", Function: scenarioRollTable},
	{Name: "action", Function: scenarioAction},
	{Name: "expect", Function: scenarioExpect},
}

func scenarioSeed(state *lua.State) int {
	scenario := checkScenario(state)
	scenario.Seed = int64(lua.CheckNumber(state, 2))
	return 0
}

func scenarioCharacter(state *lua.State) int {
	scenario := checkScenario(state)
	name := lua.CheckString(state, 2)
	data := optionalTable(state, 3)
	data["name"] = name
	appendStep(scenario, "character", data)
	return 0
}

func scenarioScene(state *lua.State) int {
	scenario := checkScenario(state)
	text := lua.CheckString(state, 2)
	appendStep(scenario, "scene", map[string]any{"text": text})
	return 0
}

func scenarioRoll(state *lua.State) int {
	scenario := checkScenario(state)
	character := lua.CheckString(state, 2)
	stat := lua.CheckString(state, 3)
	data := optionalTable(state, 4)
	data["character"] = character
	data["stat"] = stat
	appendStep(scenario, "roll", data)
	return 0
}

func scenarioDamage(state *lua.State) int {
	scenario := checkScenario(state)
	character := lua.CheckString(state, 2)
	amount := lua.CheckInteger(state, 3)
	appendStep(scenario, "damage", map[string]any{
		"character": character, "amount": amount,
	})
	return 0
}

func scenarioHeal(state *lua.State) int {
	scenario := checkScenario(state)
	character := lua.CheckString(state, 2)
	amount := lua.CheckInteger(state, 3)
	appendStep(scenario, "heal", map[string]any{
		"character": character, "amount": amount,
	})
	return 0
}

func scenarioStress(state *lua.State) int {
	scenario := checkScenario(state)
	character := lua.CheckString(state, 2)
	delta := lua.CheckInteger(state, 3)
	appendStep(scenario, "stress", map[string]any{
		"character": character, "delta": delta,
	})
	return 0
}

func scenarioPanic(state *lua.State) int {
	scenario := checkScenario(state)
	character := lua.CheckString(state, 2)
	appendStep(scenario, "panic", map[string]any{"character": character})
	return 0
}

func scenarioGive(state *lua.State) int {
	scenario := checkScenario(state)
	character := lua.CheckString(state, 2)
	item := lua.CheckString(state, 3)
	appendStep(scenario, "add_item", map[string]any{
		"character": character, "item": item,
	})
	return 0
}

func scenarioUse(state *lua.State) int {
	scenario := checkScenario(state)
	character := lua.CheckString(state, 2)
	item := lua.CheckString(state, 3)
	appendStep(scenario, "use_item", map[string]any{
		"character": character, "item": item,
	})
	return 0
}

func scenarioStartCombat(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	names := tableToGo(state, 2)
	appendStep(scenario, "start_combat", map[string]any{"characters": names})
	return 0
}

func scenarioAttack(state *lua.State) int {
	scenario := checkScenario(state)
	actor := lua.CheckString(state, 2)
	target := lua.CheckString(state, 3)
	data := optionalTable(state, 4)
	data["character"] = actor
	data["target"] = target
	appendStep(scenario, "attack", data)
	return 0
}

func scenarioDefend(state *lua.State) int {
	scenario := checkScenario(state)
	actor := lua.CheckString(state, 2)
	appendStep(scenario, "defend", map[string]any{"character": actor})
	return 0
}

func scenarioFlee(state *lua.State) int {
	scenario := checkScenario(state)
	actor := lua.CheckString(state, 2)
	appendStep(scenario, "flee", map[string]any{"character": actor})
	return 0
}

func scenarioEndCombat(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "end_combat", nil)
	return 0
}

func scenarioRollTable(state *lua.State) int {
	scenario := checkScenario(state)
	table := lua.CheckString(state, 2)
	appendStep(scenario, "roll_table", map[string]any{"table": table})
	return 0
}

// action is the generic escape hatch: any action type with raw params.
func scenarioAction(state *lua.State) int {
	scenario := checkScenario(state)
	kind := lua.CheckString(state, 2)
	data := optionalTable(state, 3)
	appendStep(scenario, kind, data)
	return 0
}

func scenarioExpect(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	appendStep(scenario, "expect", data)
	return 0
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func appendStep(scenario *Scenario, kind string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: data})
}

func optionalTable(state *lua.State, index int) map[string]any {
	if state.IsNoneOrNil(index) || state.TypeOf(index) != lua.TypeTable {
		return map[string]any{}
	}
	return tableToMap(state, index)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

// tableToGo converts a table, preserving dense 1-based integer-keyed tables
// as slices.
func tableToGo(state *lua.State, index int) any {
	if state.TypeOf(index) != lua.TypeTable {
		return nil
	}

	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}
	return tableToMap(state, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
