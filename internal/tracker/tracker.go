// Package tracker derives initiative order and turn/round transitions from a
// roster. It holds no state of its own beyond the values callers pass in.
package tracker

import (
	"sort"

	"github.com/dom/combat-tracker/internal/domain"
)

// State is the position in the encounter. Turn indexes the initiative order,
// Round starts at 1.
type State struct {
	Turn  int `json:"turn"`
	Round int `json:"round"`
}

func NewState() State {
	return State{Turn: 0, Round: 1}
}

// Order returns a copy of characters sorted by initiative, highest first.
// Missing initiative counts as 0 and ties keep their input order.
func Order(characters []*domain.Character) []*domain.Character {
	sorted := make([]*domain.Character, len(characters))
	copy(sorted, characters)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].InitiativeValue() > sorted[j].InitiativeValue()
	})
	return sorted
}

// Current returns the acting character, or false when there is nothing to track.
func Current(order []*domain.Character, s State) (*domain.Character, bool) {
	if s.Turn < 0 || s.Turn >= len(order) {
		return nil, false
	}
	return order[s.Turn], true
}

// Next advances one turn; passing the last index starts a new round.
func Next(s State, n int) State {
	if s.Turn >= n-1 {
		return State{Turn: 0, Round: s.Round + 1}
	}
	return State{Turn: s.Turn + 1, Round: s.Round}
}

// Previous steps back one turn. Round 1 turn 0 is the floor.
func Previous(s State, n int) State {
	if s.Turn <= 0 {
		if s.Round > 1 {
			return State{Turn: max(n-1, 0), Round: s.Round - 1}
		}
		return s
	}
	return State{Turn: s.Turn - 1, Round: s.Round}
}

// Clamp pulls the turn back into range after the roster shrank.
func Clamp(s State, n int) State {
	if s.Round < 1 {
		s.Round = 1
	}
	switch {
	case n == 0 || s.Turn < 0:
		s.Turn = 0
	case s.Turn >= n:
		s.Turn = n - 1
	}
	return s
}
