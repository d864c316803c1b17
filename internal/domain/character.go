package domain

import (
	"strings"
)

type CharacterType string

const (
	CharacterTypePC  CharacterType = "PC"
	CharacterTypeNPC CharacterType = "NPC"
)

func (t CharacterType) Valid() bool {
	return t == CharacterTypePC || t == CharacterTypeNPC
}

// Character is a combatant in the encounter. Class and Level are only kept
// for PCs, Description and CR only for NPCs.
type Character struct {
	ID          int           `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string        `json:"name" gorm:"not null"`
	Type        CharacterType `json:"type" gorm:"not null;default:'PC'"`
	Class       *string       `json:"class,omitempty"`
	Level       *int          `json:"level,omitempty"`
	Description *string       `json:"description,omitempty"`
	CR          *float64      `json:"cr,omitempty"`
	AC          *int          `json:"ac,omitempty"`
	Initiative  *int          `json:"initiative,omitempty"`
	MaxHP       int           `json:"maxHp" gorm:"not null"`
	CurrentHP   int           `json:"currentHp" gorm:"not null"`
	Status      string        `json:"status"`
}

// InitiativeValue returns the initiative used for ordering; absent counts as 0.
func (c *Character) InitiativeValue() int {
	if c.Initiative == nil {
		return 0
	}
	return *c.Initiative
}

func (c *Character) IsPC() bool {
	return c.Type == CharacterTypePC
}

// Clone returns a deep copy so callers never share pointer fields with the store.
func (c *Character) Clone() *Character {
	out := *c
	out.Class = cloneString(c.Class)
	out.Level = cloneInt(c.Level)
	out.Description = cloneString(c.Description)
	out.CR = cloneFloat(c.CR)
	out.AC = cloneInt(c.AC)
	out.Initiative = cloneInt(c.Initiative)
	return &out
}

// Validate checks a stored or merged record with the same rules applied on creation.
func (c *Character) Validate() error {
	verr := NewValidationError()
	validateCommon(verr, c.Name, c.Type, c.Level, c.CR, c.AC, c.Status)
	if c.MaxHP < 1 {
		verr.Add("maxHp", "Max HP must be at least 1")
	}
	if c.CurrentHP < 0 {
		verr.Add("currentHp", "Current HP cannot be negative")
	}
	return verr.OrNil()
}

// InsertCharacter is the creation payload before validation.
type InsertCharacter struct {
	Name        string        `json:"name"`
	Type        CharacterType `json:"type"`
	Class       *string       `json:"class,omitempty"`
	Level       *int          `json:"level,omitempty"`
	Description *string       `json:"description,omitempty"`
	CR          *float64      `json:"cr,omitempty"`
	AC          *int          `json:"ac,omitempty"`
	Initiative  *int          `json:"initiative,omitempty"`
	MaxHP       *int          `json:"maxHp"`
	CurrentHP   *int          `json:"currentHp"`
	Status      string        `json:"status,omitempty"`
}

func (in InsertCharacter) Validate() error {
	verr := NewValidationError()
	validateCommon(verr, in.Name, in.Type, in.Level, in.CR, in.AC, in.Status)

	switch {
	case in.MaxHP == nil:
		verr.Add("maxHp", "Max HP is required")
	case *in.MaxHP < 1:
		verr.Add("maxHp", "Max HP must be at least 1")
	}

	switch {
	case in.CurrentHP == nil:
		verr.Add("currentHp", "Current HP is required")
	case *in.CurrentHP < 0:
		verr.Add("currentHp", "Current HP cannot be negative")
	}

	return verr.OrNil()
}

// NewCharacter builds the record to store from a validated payload. The ID is
// left zero for the store to assign.
func NewCharacter(in InsertCharacter) *Character {
	c := &Character{
		Name:        in.Name,
		Type:        in.Type,
		Class:       cloneString(in.Class),
		Level:       cloneInt(in.Level),
		Description: cloneString(in.Description),
		CR:          cloneFloat(in.CR),
		AC:          cloneInt(in.AC),
		Initiative:  cloneInt(in.Initiative),
		Status:      NormalizeStatus(in.Status),
	}
	if in.MaxHP != nil {
		c.MaxHP = *in.MaxHP
	}
	if in.CurrentHP != nil {
		c.CurrentHP = *in.CurrentHP
	}
	c.dropForeignFields()
	return c
}

func (c *Character) dropForeignFields() {
	if c.Type == CharacterTypePC {
		c.Description = nil
		c.CR = nil
	} else {
		c.Class = nil
		c.Level = nil
	}
}

// CharacterPatch carries a partial update. Nil fields are left unchanged.
type CharacterPatch struct {
	Name        *string        `json:"name,omitempty"`
	Type        *CharacterType `json:"type,omitempty"`
	Class       *string        `json:"class,omitempty"`
	Level       *int           `json:"level,omitempty"`
	Description *string        `json:"description,omitempty"`
	CR          *float64       `json:"cr,omitempty"`
	AC          *int           `json:"ac,omitempty"`
	Initiative  *int           `json:"initiative,omitempty"`
	MaxHP       *int           `json:"maxHp,omitempty"`
	CurrentHP   *int           `json:"currentHp,omitempty"`
	Status      *string        `json:"status,omitempty"`
}

func (p CharacterPatch) IsEmpty() bool {
	return p == CharacterPatch{}
}

// Apply shallow-merges the patch over a copy of c. The ID is never touched.
func (p CharacterPatch) Apply(c *Character) *Character {
	out := c.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Type != nil {
		out.Type = *p.Type
	}
	if p.Class != nil {
		out.Class = cloneString(p.Class)
	}
	if p.Level != nil {
		out.Level = cloneInt(p.Level)
	}
	if p.Description != nil {
		out.Description = cloneString(p.Description)
	}
	if p.CR != nil {
		out.CR = cloneFloat(p.CR)
	}
	if p.AC != nil {
		out.AC = cloneInt(p.AC)
	}
	if p.Initiative != nil {
		out.Initiative = cloneInt(p.Initiative)
	}
	if p.MaxHP != nil {
		out.MaxHP = *p.MaxHP
	}
	if p.CurrentHP != nil {
		out.CurrentHP = *p.CurrentHP
	}
	if p.Status != nil {
		out.Status = NormalizeStatus(*p.Status)
	}
	if out.Type.Valid() {
		out.dropForeignFields()
	}
	return out
}

func validateCommon(verr *ValidationError, name string, typ CharacterType, level *int, cr *float64, ac *int, status string) {
	if strings.TrimSpace(name) == "" {
		verr.Add("name", "Name is required")
	}
	if !typ.Valid() {
		verr.Add("type", "Type must be PC or NPC")
	}
	if level != nil && *level < 1 {
		verr.Add("level", "Level must be at least 1")
	}
	if cr != nil && *cr < 0 {
		verr.Add("cr", "CR cannot be negative")
	}
	if ac != nil && *ac < 0 {
		verr.Add("ac", "AC cannot be negative")
	}
	if !IsValidStatus(NormalizeStatus(status)) {
		verr.Add("status", "Unknown condition")
	}
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	s := *v
	return &s
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	i := *v
	return &i
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}
