package scenario

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleScript = `
local s = Scenario.new("Distress Signal")
s:seed(42)
s:scene("The airlock hisses open.")
s:character("Ripley", {class = "marine"})
s:roll("Ripley", "combat")
s:expect({character = "Ripley", alive = true})
return s
`

func writeScript(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.lua")
	if err := os.WriteFile(path, []byte(source), 0o600); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("scenario", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.System != "mothership" {
		t.Fatalf("expected default system, got %q", cfg.System)
	}
	if cfg.Verbose {
		t.Fatal("expected verbose to default to false")
	}
}

func TestParseConfig_PositionalScenario(t *testing.T) {
	fs := flag.NewFlagSet("scenario", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, []string{"crew.lua"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Scenario != "crew.lua" {
		t.Fatalf("scenario = %q, want crew.lua", cfg.Scenario)
	}
}

func TestRun_RequiresScenarioPath(t *testing.T) {
	err := Run(context.Background(), Config{System: "mothership"}, nil, nil)
	if err == nil {
		t.Fatal("expected error without a scenario path")
	}
}

func TestRun_ExecutesScript(t *testing.T) {
	path := writeScript(t, sampleScript)
	var out, errOut bytes.Buffer

	err := Run(context.Background(), Config{Scenario: path, System: "mothership"}, &out, &errOut)
	if err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, errOut.String())
	}
	if !strings.Contains(out.String(), "Distress Signal") {
		t.Fatalf("report missing scenario name:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "0 failed") {
		t.Fatalf("expected a clean run:\n%s", out.String())
	}
}

func TestRun_ReportsExpectationFailures(t *testing.T) {
	path := writeScript(t, `
local s = Scenario.new("Bad Expectation")
s:seed(42)
s:character("Ripley", {})
s:expect({character = "Ripley", stress = 99})
return s
`)
	var out, errOut bytes.Buffer

	err := Run(context.Background(), Config{Scenario: path, System: "mothership"}, &out, &errOut)
	if err == nil {
		t.Fatal("expected error for failed expectation")
	}
	if !strings.Contains(errOut.String(), "FAIL") {
		t.Fatalf("expected failure line on stderr:\n%s", errOut.String())
	}
}

func TestRun_VerbosePrintsEveryStep(t *testing.T) {
	path := writeScript(t, sampleScript)
	var out bytes.Buffer

	err := Run(context.Background(), Config{Scenario: path, System: "mothership", Verbose: true}, &out, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "step 1") {
		t.Fatalf("expected per-step lines:\n%s", out.String())
	}
}

func TestRun_InvalidScript(t *testing.T) {
	path := writeScript(t, "return 42")
	err := Run(context.Background(), Config{Scenario: path, System: "mothership"}, nil, nil)
	if err == nil {
		t.Fatal("expected error for invalid script")
	}
}
