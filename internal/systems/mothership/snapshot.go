package mothership

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	apperrors "github.com/louisbranch/airlock/internal/errors"
)

// snapshotVersion is bumped whenever the snapshot shape changes
// incompatibly.
const snapshotVersion = 1

// countingSource wraps a rand source and counts draws so a snapshot can
// record the stream position and LoadState can fast-forward back to it.
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

func newCountingSource(seed int64) *countingSource {
	return &countingSource{src: rand.NewSource(seed)}
}

// snapshot is the self-describing persisted form of an engine. It embeds
// everything needed to resume, including the dice stream position.
type snapshot struct {
	Version        int          `json:"version"`
	System         string       `json:"system"`
	Config         Config       `json:"config"`
	Draws          uint64       `json:"draws"`
	Characters     []*Character `json:"characters"`
	Encounter      Encounter    `json:"encounter"`
	Scene          string       `json:"scene,omitempty"`
	Log            []LogEntry   `json:"log"`
	Seq            int          `json:"seq"`
	ActiveCampaign string       `json:"active_campaign,omitempty"`
}

// SaveState serializes the full engine state as an opaque blob. Saving has no
// side effects and can be called at any point, mid-combat included.
func (e *Engine) SaveState() ([]byte, error) {
	snap := snapshot{
		Version:        snapshotVersion,
		System:         SystemName,
		Config:         e.cfg,
		Draws:          e.src.draws,
		Characters:     e.ListCharacters(),
		Encounter:      e.encounter,
		Scene:          e.scene,
		Log:            e.log,
		Seq:            e.seq,
		ActiveCampaign: e.activeCampaign,
	}
	blob, err := json.Marshal(snap)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnknown, "encode snapshot", err)
	}
	return blob, nil
}

// LoadState replaces the engine's state with a previously saved snapshot.
// The swap is all-or-nothing: a corrupt blob leaves the engine untouched.
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

	characters := make(map[string]*Character, len(snap.Characters))
	order := make([]string, 0, len(snap.Characters))
	for _, c := range snap.Characters {
		if c == nil || c.Name == "" {
			return apperrors.New(apperrors.CodeStateCorrupt,
				"snapshot contains an unnamed character")
		}
		key := strings.ToLower(c.Name)
		if _, dup := characters[key]; dup {
			return apperrors.WithMetadata(apperrors.CodeStateCorrupt,
				"snapshot contains duplicate character: "+c.Name,
				map[string]string{"Name": c.Name})
		}
		characters[key] = c
		order = append(order, key)
	}

	src := newCountingSource(snap.Config.Seed)
	rng := rand.New(src)
	for i := uint64(0); i < snap.Draws; i++ {
		src.Int63()
	}

	e.cfg = snap.Config.withDefaults()
	e.src = src
	e.rng = rng
	e.characters = characters
	e.order = order
	e.encounter = snap.Encounter
	e.scene = snap.Scene
	e.log = snap.Log
	e.seq = snap.Seq
	e.activeCampaign = snap.ActiveCampaign
	if e.encounter.Status == "" {
		e.encounter = Encounter{Status: EncounterInactive, Round: 1}
	}
	return nil
}
