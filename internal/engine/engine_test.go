package engine

import (
	"reflect"
	"testing"

	apperrors "github.com/louisbranch/airlock/internal/errors"
)

type stubSystem struct {
	name string
}

func (s *stubSystem) Name() string { return s.name }
func (s *stubSystem) CreateCharacter(string, map[string]any) (map[string]any, error) {
	return nil, nil
}
func (s *stubSystem) Character(string) (map[string]any, bool) { return nil, false }
func (s *stubSystem) Characters() []map[string]any            { return nil }
func (s *stubSystem) ProcessAction(Action) Result             { return Result{} }
func (s *stubSystem) State() map[string]any                   { return nil }
func (s *stubSystem) AvailableActions(string) []string        { return nil }
func (s *stubSystem) SaveState() ([]byte, error)              { return nil, nil }
func (s *stubSystem) LoadState([]byte) error                  { return nil }

func TestFailure(t *testing.T) {
	err := apperrors.New(apperrors.CodeCharacterNotFound, "no such character")

	result := Failure(err)
	if result.Success {
		t.Fatal("expected a failed result")
	}
	if result.StateChanged {
		t.Fatal("failed results must not report state changes")
	}
	if result.ErrorCode != apperrors.CodeCharacterNotFound {
		t.Fatalf("code = %s", result.ErrorCode)
	}
	if result.ErrorKind != apperrors.KindOf(apperrors.CodeCharacterNotFound) {
		t.Fatalf("kind = %s", result.ErrorKind)
	}
	if result.Summary == "" {
		t.Fatal("expected a rendered summary")
	}
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	registry.Register("beta", func() (System, error) {
		return &stubSystem{name: "beta"}, nil
	})
	registry.Register("alpha", func() (System, error) {
		return &stubSystem{name: "alpha"}, nil
	})

	system, err := registry.New("alpha")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if system.Name() != "alpha" {
		t.Fatalf("system = %s, want alpha", system.Name())
	}

	// Factories build independent instances.
	other, err := registry.New("alpha")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if system == other {
		t.Fatal("expected a fresh instance per call")
	}

	if got := registry.Names(); !reflect.DeepEqual(got, []string{"alpha", "beta"}) {
		t.Fatalf("names = %v", got)
	}

	_, err = registry.New("gurps")
	if apperrors.GetCode(err) != apperrors.CodeSystemUnknown {
		t.Fatalf("err = %v, want SYSTEM_UNKNOWN", err)
	}
}
