// Package freeform is the rules-light system: no stats, no combat state
// machine, no resource tracking. Characters are free documents and almost
// everything resolves through narration; the only mechanical support is
// rolling arbitrary dice expressions.
package freeform

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	"github.com/louisbranch/airlock/internal/core/dice"
	"github.com/louisbranch/airlock/internal/engine"
	apperrors "github.com/louisbranch/airlock/internal/errors"
	"github.com/louisbranch/airlock/internal/random"
)

// SystemName identifies this rule system in the engine registry.
const SystemName = "freeform"

const snapshotVersion = 1

// Action types.
const (
	ActionRoll    = "roll"
	ActionNarrate = "narrate"
	ActionScene   = "scene"
)

// LogEntry is one recorded narration or roll.
type LogEntry struct {
	Seq     int    `json:"seq"`
	Message string `json:"message"`
}

// countingSource counts raw draws so snapshots can record the exact stream
// position.
type countingSource struct {
	src   rand.Source
	draws uint64
}

func (s *countingSource) Int63() int64 {
	s.draws++
	return s.src.Int63()
}

func (s *countingSource) Seed(seed int64) {
	s.src.Seed(seed)
	s.draws = 0
}

// Engine holds freeform game state: character documents, a scene and a log.
type Engine struct {
	seed int64
	src  *countingSource
	rng  *rand.Rand

	characters map[string]map[string]any
	order      []string
	scene      string
	log        []LogEntry
	seq        int
}

// New creates a freeform engine. A zero seed draws a cryptographic one.
func New(seed int64) (*Engine, error) {
	if seed == 0 {
		s, err := random.NewSeed()
		if err != nil {
			return nil, err
		}
		seed = s
	}
	src := &countingSource{src: rand.NewSource(seed)}
	return &Engine{
		seed:       seed,
		src:        src,
		rng:        rand.New(src),
		characters: map[string]map[string]any{},
	}, nil
}

// Name implements engine.System.
func (e *Engine) Name() string {
	return SystemName
}

func (e *Engine) logf(format string, args ...any) string {
	e.seq++
	message := fmt.Sprintf(format, args...)
	e.log = append(e.log, LogEntry{Seq: e.seq, Message: message})
	return message
}

// CreateCharacter implements engine.System. All opts are kept verbatim on the
// character document.
func (e *Engine) CreateCharacter(name string, opts map[string]any) (map[string]any, error) {
	key := strings.ToLower(name)
	if _, exists := e.characters[key]; exists {
		return nil, apperrors.WithMetadata(apperrors.CodeCharacterDuplicateName,
			"character already exists: "+name, map[string]string{"Name": name})
	}
	doc := map[string]any{"name": name}
	for k, v := range opts {
		if k != "name" {
			doc[k] = v
		}
	}
	e.characters[key] = doc
	e.order = append(e.order, key)
	e.logf("%s joins the story.", name)
	return doc, nil
}

// Character implements engine.System.
func (e *Engine) Character(name string) (map[string]any, bool) {
	doc, ok := e.characters[strings.ToLower(name)]
	return doc, ok
}

// Characters implements engine.System.
func (e *Engine) Characters() []map[string]any {
	docs := make([]map[string]any, 0, len(e.order))
	for _, key := range e.order {
		docs = append(docs, e.characters[key])
	}
	return docs
}

// State implements engine.System.
func (e *Engine) State() map[string]any {
	return map[string]any{
		"system":     SystemName,
		"scene":      e.scene,
		"characters": e.Characters(),
		"log":        e.log,
	}
}

// AvailableActions implements engine.System; every known character may always
// roll or narrate.
func (e *Engine) AvailableActions(character string) []string {
	if _, ok := e.Character(character); !ok {
		return nil
	}
	return []string{ActionRoll, ActionNarrate}
}

// ProcessAction implements engine.System.
func (e *Engine) ProcessAction(action engine.Action) engine.Result {
	switch action.Type {
	case ActionRoll:
		expr, _ := action.Params["dice"].(string)
		result, err := e.roll(expr)
		if err != nil {
			return engine.Failure(err)
		}
		summary := e.logf("%s rolls %s: %v = %d.",
			action.Character, result.Expression, result.Results, result.Total)
		return engine.Result{
			Success:      true,
			Summary:      summary,
			Details:      map[string]any{"rolls": result.Results, "total": result.Total},
			StateChanged: true,
		}

	case ActionNarrate:
		text, _ := action.Params["text"].(string)
		summary := e.logf("%s: %s", action.Character, text)
		return engine.Result{Success: true, Summary: summary, StateChanged: true}

	case ActionScene:
		text, _ := action.Params["text"].(string)
		e.scene = text
		summary := e.logf("Scene: %s", text)
		return engine.Result{Success: true, Summary: summary, StateChanged: true}

	default:
		return engine.Failure(apperrors.WithMetadata(apperrors.CodeActionUnknown,
			"unknown action: "+action.Type, map[string]string{"Action": action.Type}))
	}
}

func (e *Engine) roll(expr string) (dice.Result, error) {
	parsed, err := dice.Parse(expr)
	if err != nil {
		return dice.Result{}, err
	}
	return parsed.Roll(e.rng), nil
}

type snapshot struct {
	Version    int                       `json:"version"`
	System     string                    `json:"system"`
	Seed       int64                     `json:"seed"`
	Draws      uint64                    `json:"draws"`
	Order      []string                  `json:"order"`
	Characters map[string]map[string]any `json:"characters"`
	Scene      string                    `json:"scene,omitempty"`
	Log        []LogEntry                `json:"log"`
	Seq        int                       `json:"seq"`
}

// SaveState implements engine.System.
func (e *Engine) SaveState() ([]byte, error) {
	return json.Marshal(snapshot{
		Version:    snapshotVersion,
		System:     SystemName,
		Seed:       e.seed,
		Draws:      e.src.draws,
		Order:      e.order,
		Characters: e.characters,
		Scene:      e.scene,
		Log:        e.log,
		Seq:        e.seq,
	})
}

// LoadState implements engine.System. The swap is all-or-nothing.
func (e *Engine) LoadState(blob []byte) error {
	var snap snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		return apperrors.Wrap(apperrors.CodeStateCorrupt, "decode snapshot", err)
	}
	if snap.Version != snapshotVersion {
		return apperrors.WithMetadata(apperrors.CodeStateCorrupt,
			fmt.Sprintf("unsupported snapshot version %d", snap.Version),
			map[string]string{"Version": fmt.Sprint(snap.Version)})
	}
	if snap.System != SystemName {
		return apperrors.WithMetadata(apperrors.CodeStateCorrupt,
			"snapshot belongs to system "+snap.System,
			map[string]string{"System": snap.System})
	}

	src := &countingSource{src: rand.NewSource(snap.Seed)}
	rng := rand.New(src)
	for i := uint64(0); i < snap.Draws; i++ {
		src.Int63()
	}

	if snap.Characters == nil {
		snap.Characters = map[string]map[string]any{}
	}
	e.seed = snap.Seed
	e.src = src
	e.rng = rng
	e.characters = snap.Characters
	e.order = snap.Order
	e.scene = snap.Scene
	e.log = snap.Log
	e.seq = snap.Seq
	return nil
}
