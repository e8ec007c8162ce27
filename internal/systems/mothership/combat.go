package mothership

// EncounterStatus is the combat state machine phase.
type EncounterStatus string

const (
	EncounterInactive EncounterStatus = "inactive"
	EncounterActive   EncounterStatus = "active"
	EncounterEnded    EncounterStatus = "ended"
)

// Combatant is one roster slot in an encounter.
type Combatant struct {
	Name string `json:"name"`
	// Initiative is the rolled total (die + bonus stat).
	Initiative int `json:"initiative"`
	// Bonus is the raw bonus stat value, kept for tie-breaking.
	Bonus int `json:"bonus"`
	// Join is the position in the start() argument list; the final
	// tie-breaker so ordering is fully deterministic given fixed rolls.
	Join int `json:"join"`
	// Defending grants advantage against the next incoming attack.
	Defending bool `json:"defending,omitempty"`
	// DefendRound is the round the defend stance was taken.
	DefendRound int `json:"defend_round,omitempty"`
}

// Encounter is the turn-based combat state machine.
//
// The zero value is an inactive encounter. start reinitializes from inactive
// or ended; every per-call mutation is atomic; a rejected action leaves the
// encounter untouched.
type Encounter struct {
	Status EncounterStatus `json:"status"`
	Round  int             `json:"round"`
	Turn   int             `json:"turn"`
	Roster []Combatant     `json:"roster"`
}

// Current returns the name of the turn-holding combatant.
func (e *Encounter) Current() (string, bool) {
	if e.Status != EncounterActive || len(e.Roster) == 0 || e.Turn >= len(e.Roster) {
		return "", false
	}
	return e.Roster[e.Turn].Name, true
}

// combatant returns the roster slot for a name.
func (e *Encounter) combatant(name string) (*Combatant, bool) {
	for i := range e.Roster {
		if e.Roster[i].Name == name {
			return &e.Roster[i], true
		}
	}
	return nil, false
}

// removeCombatant drops a name from the roster, keeping the turn pointer on
// the same next actor. Returns false if the name is not rostered.
func (e *Encounter) removeCombatant(name string) bool {
	for i := range e.Roster {
		if e.Roster[i].Name == name {
			e.Roster = append(e.Roster[:i], e.Roster[i+1:]...)
			if i < e.Turn {
				e.Turn--
			}
			if e.Turn >= len(e.Roster) {
				e.Turn = 0
				if len(e.Roster) > 0 {
					e.Round++
				}
			}
			return true
		}
	}
	return false
}

// advanceTurn moves to the next living, still-rostered combatant, wrapping to
// a new round when the roster is exhausted. alive reports whether a rostered
// name can still act; combatants it rejects are skipped. With nobody able to
// act the turn pointer stays put.
func (e *Encounter) advanceTurn(alive func(name string) bool) {
	if e.Status != EncounterActive || len(e.Roster) == 0 {
		return
	}

	for step := 0; step < len(e.Roster); step++ {
		e.Turn++
		if e.Turn >= len(e.Roster) {
			e.Turn = 0
			e.Round++
		}
		name := e.Roster[e.Turn].Name
		if alive(name) {
			return
		}
	}
}

// clearExpiredDefense drops a defend stance that survived past the defender's
// next turn.
func (e *Encounter) clearExpiredDefense(name string) {
	c, ok := e.combatant(name)
	if !ok {
		return
	}
	if c.Defending && e.Round > c.DefendRound {
		c.Defending = false
	}
}

// end closes the encounter and clears transient per-round statuses. Character
// resources (wounds, stress) persist beyond combat.
func (e *Encounter) end() {
	e.Status = EncounterEnded
	for i := range e.Roster {
		e.Roster[i].Defending = false
	}
}
