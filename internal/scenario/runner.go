package scenario

import (
	"fmt"
	"strings"

	"github.com/louisbranch/airlock/internal/engine"
	apperrors "github.com/louisbranch/airlock/internal/errors"
)

// StepResult records the outcome of one executed step.
type StepResult struct {
	Index   int
	Kind    string
	Summary string
	Success bool
}

// Report is the outcome of a full scenario run.
type Report struct {
	Scenario string
	Results  []StepResult
}

// Failures returns the failed step results.
func (r *Report) Failures() []StepResult {
	var failed []StepResult
	for _, result := range r.Results {
		if !result.Success {
			failed = append(failed, result)
		}
	}
	return failed
}

// Runner executes scenarios against a rule system.
type Runner struct {
	system engine.System
}

// NewRunner creates a runner over a system instance.
func NewRunner(system engine.System) *Runner {
	return &Runner{system: system}
}

// Run executes every step in order. Steps keep executing after a failure so
// the report shows the whole run; the returned error summarizes failures.
func (r *Runner) Run(scenario *Scenario) (*Report, error) {
	if scenario == nil {
		return nil, apperrors.New(apperrors.CodeScenarioInvalidScript, "scenario is nil")
	}

	report := &Report{Scenario: scenario.Name}
	for i, step := range scenario.Steps {
		result := r.runStep(step)
		result.Index = i + 1
		result.Kind = step.Kind
		report.Results = append(report.Results, result)
	}

	if failed := report.Failures(); len(failed) > 0 {
		return report, apperrors.WithMetadata(apperrors.CodeScenarioInvalidScript,
			fmt.Sprintf("%d of %d steps failed", len(failed), len(report.Results)),
			map[string]string{"Failed": fmt.Sprint(len(failed))})
	}
	return report, nil
}

func (r *Runner) runStep(step Step) StepResult {
	switch step.Kind {
	case "character":
		name, _ := step.Args["name"].(string)
		doc, err := r.system.CreateCharacter(name, step.Args)
		if err != nil {
			return StepResult{Summary: apperrors.Render(err, "")}
		}
		return StepResult{Success: true, Summary: fmt.Sprintf("created %v", doc["name"])}

	case "expect":
		return r.runExpect(step)

	default:
		return r.runAction(step)
	}
}

func (r *Runner) runAction(step Step) StepResult {
	character, _ := step.Args["character"].(string)
	params := make(map[string]any, len(step.Args))
	for key, value := range step.Args {
		if key != "character" && key != "allow_fail" {
			params[key] = value
		}
	}

	result := r.system.ProcessAction(engine.Action{
		Type:      step.Kind,
		Character: character,
		Params:    params,
	})
	if !result.Success {
		if allowed, _ := step.Args["allow_fail"].(bool); allowed {
			return StepResult{Success: true,
				Summary: fmt.Sprintf("failed as allowed (%s)", result.ErrorCode)}
		}
		return StepResult{Summary: result.Summary}
	}
	return StepResult{Success: true, Summary: result.Summary}
}

// runExpect asserts character document fields. Every key besides "character"
// names a field that must match the given value.
func (r *Runner) runExpect(step Step) StepResult {
	name, _ := step.Args["character"].(string)
	doc, ok := r.system.Character(name)
	if !ok {
		return StepResult{Summary: "unknown character: " + name}
	}

	var mismatches []string
	for field, want := range step.Args {
		if field == "character" {
			continue
		}
		got, present := doc[field]
		if !present {
			mismatches = append(mismatches, fmt.Sprintf("%s is unset", field))
			continue
		}
		if !valuesEqual(got, want) {
			mismatches = append(mismatches, fmt.Sprintf("%s = %v, want %v", field, got, want))
		}
	}
	if len(mismatches) > 0 {
		return StepResult{Summary: name + ": " + strings.Join(mismatches, "; ")}
	}
	return StepResult{Success: true, Summary: "expectations hold for " + name}
}

// valuesEqual compares across the numeric representations produced by JSON
// round-trips and Lua conversion.
func valuesEqual(got, want any) bool {
	if g, ok := asFloat(got); ok {
		if w, ok := asFloat(want); ok {
			return g == w
		}
	}
	return fmt.Sprint(got) == fmt.Sprint(want)
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
