package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dom/combat-tracker/internal/domain"
	"gopkg.in/yaml.v3"
)

// Encounter is a prepared list of combatants read from a YAML file.
type Encounter struct {
	Name       string          `yaml:"name"`
	Characters []EncounterUnit `yaml:"characters"`
}

type EncounterUnit struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Class       string   `yaml:"class"`
	Level       *int     `yaml:"level"`
	Description string   `yaml:"description"`
	CR          *float64 `yaml:"cr"`
	AC          *int     `yaml:"ac"`
	Initiative  *int     `yaml:"initiative"`
	MaxHP       int      `yaml:"max_hp"`
	CurrentHP   *int     `yaml:"current_hp"`
	Status      string   `yaml:"status"`
	Quantity    int      `yaml:"quantity"`
}

func loadEncounter(path string) (*Encounter, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseEncounter(b)
}

func parseEncounter(b []byte) (*Encounter, error) {
	var enc Encounter
	if err := yaml.Unmarshal(b, &enc); err != nil {
		return nil, fmt.Errorf("parse encounter: %w", err)
	}
	if len(enc.Characters) == 0 {
		return nil, fmt.Errorf("encounter has no characters")
	}
	for i := range enc.Characters {
		if enc.Characters[i].Quantity == 0 {
			enc.Characters[i].Quantity = 1
		}
		if enc.Characters[i].Quantity < 0 {
			return nil, fmt.Errorf("character %d: quantity must be at least 1", i+1)
		}
	}
	return &enc, nil
}

// Insert applies the new character form defaults: level 1 for PCs, CR 1 for
// NPCs, AC 10, initiative 0, and current HP equal to max.
func (u EncounterUnit) Insert() domain.InsertCharacter {
	typ := domain.CharacterType(strings.ToUpper(u.Type))
	if u.Type == "" {
		typ = domain.CharacterTypePC
	}

	in := domain.InsertCharacter{
		Name:       u.Name,
		Type:       typ,
		AC:         intOr(u.AC, 10),
		Initiative: intOr(u.Initiative, 0),
		MaxHP:      intOr(&u.MaxHP, 0),
		CurrentHP:  intOr(u.CurrentHP, u.MaxHP),
		Status:     u.Status,
	}
	if typ == domain.CharacterTypeNPC {
		cr := 1.0
		if u.CR != nil {
			cr = *u.CR
		}
		in.CR = &cr
		if u.Description != "" {
			description := u.Description
			in.Description = &description
		}
	} else {
		in.Level = intOr(u.Level, 1)
		if u.Class != "" {
			class := u.Class
			in.Class = &class
		}
	}
	return in
}

func intOr(v *int, fallback int) *int {
	n := fallback
	if v != nil {
		n = *v
	}
	return &n
}

// addEncounter creates every unit and reports how many characters were added.
// It stops at the first unit the server rejects.
func addEncounter(ctx context.Context, client *APIClient, enc *Encounter) (int, error) {
	added := 0
	for _, unit := range enc.Characters {
		created, err := client.CreateCharacters(ctx, unit.Insert(), unit.Quantity)
		added += len(created)
		if err != nil {
			return added, err
		}
	}
	return added, nil
}
