package tracker

import "github.com/dom/combat-tracker/internal/domain"

// Session is a view's copy of the initiative order plus its turn state.
// It is not safe for concurrent use.
type Session struct {
	order []*domain.Character
	state State
}

func NewSession(characters []*domain.Character) *Session {
	return &Session{
		order: Order(characters),
		state: NewState(),
	}
}

// Sync replaces the roster with a freshly fetched one and keeps the turn in range.
func (s *Session) Sync(characters []*domain.Character) {
	s.order = Order(characters)
	s.state = Clamp(s.state, len(s.order))
}

func (s *Session) Order() []*domain.Character {
	return s.order
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Current() (*domain.Character, bool) {
	return Current(s.order, s.state)
}

func (s *Session) Advance() State {
	if len(s.order) == 0 {
		return s.state
	}
	s.state = Next(s.state, len(s.order))
	return s.state
}

func (s *Session) Retreat() State {
	if len(s.order) == 0 {
		return s.state
	}
	s.state = Previous(s.state, len(s.order))
	return s.state
}

// Reset returns to round 1, turn 0.
func (s *Session) Reset() {
	s.state = NewState()
}

// IsActive reports whether the character with id holds the current turn.
func (s *Session) IsActive(id int) bool {
	c, ok := s.Current()
	return ok && c.ID == id
}
