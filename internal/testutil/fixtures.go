package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/dom/combat-tracker/internal/domain"
	"github.com/dom/combat-tracker/internal/repository"
	"github.com/google/uuid"
)

// CharacterBuilder creates test characters with a builder pattern
type CharacterBuilder struct {
	input domain.InsertCharacter
}

// NewCharacterBuilder starts from a level 1 PC fighter at full health.
func NewCharacterBuilder() *CharacterBuilder {
	class := "Fighter"
	level := 1
	maxHP := 10
	currentHP := 10
	return &CharacterBuilder{
		input: domain.InsertCharacter{
			Name:      fmt.Sprintf("testpc_%s", uuid.New().String()[:8]),
			Type:      domain.CharacterTypePC,
			Class:     &class,
			Level:     &level,
			MaxHP:     &maxHP,
			CurrentHP: &currentHP,
		},
	}
}

// WithName sets the name
func (b *CharacterBuilder) WithName(name string) *CharacterBuilder {
	b.input.Name = name
	return b
}

// WithClass makes the character a PC of the given class and level
func (b *CharacterBuilder) WithClass(class string, level int) *CharacterBuilder {
	b.input.Type = domain.CharacterTypePC
	b.input.Class = &class
	b.input.Level = &level
	b.input.Description = nil
	b.input.CR = nil
	return b
}

// AsNPC turns the character into a named NPC with a challenge rating
func (b *CharacterBuilder) AsNPC(name string, cr float64) *CharacterBuilder {
	b.input.Name = name
	b.input.Type = domain.CharacterTypeNPC
	b.input.CR = &cr
	b.input.Class = nil
	b.input.Level = nil
	return b
}

// WithDescription sets the NPC description
func (b *CharacterBuilder) WithDescription(description string) *CharacterBuilder {
	b.input.Description = &description
	return b
}

// WithInitiative sets the initiative roll
func (b *CharacterBuilder) WithInitiative(initiative int) *CharacterBuilder {
	b.input.Initiative = &initiative
	return b
}

// WithAC sets the armor class
func (b *CharacterBuilder) WithAC(ac int) *CharacterBuilder {
	b.input.AC = &ac
	return b
}

// WithHP sets current and maximum hit points
func (b *CharacterBuilder) WithHP(current, max int) *CharacterBuilder {
	b.input.CurrentHP = &current
	b.input.MaxHP = &max
	return b
}

// WithStatus sets the condition
func (b *CharacterBuilder) WithStatus(status string) *CharacterBuilder {
	b.input.Status = status
	return b
}

// Insert returns the creation payload
func (b *CharacterBuilder) Insert() domain.InsertCharacter {
	return b.input
}

// Character returns an unsaved record built from the payload
func (b *CharacterBuilder) Character() *domain.Character {
	return domain.NewCharacter(b.input)
}

// Build stores the character in repo and returns it with its assigned id
func (b *CharacterBuilder) Build(t *testing.T, repo repository.CharacterRepository) *domain.Character {
	t.Helper()

	c := b.Character()
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("failed to create character: %v", err)
	}
	return c
}

// Create posts the character to the test server's API
func (b *CharacterBuilder) Create(t *testing.T, ts *TestServer) *domain.Character {
	t.Helper()

	resp := DoJSON(t, http.MethodPost, ts.APIURL("/characters"), b.input)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("failed to create character via API: status %d", resp.StatusCode)
	}

	var c domain.Character
	AssertJSONResponse(t, resp, &c)
	return &c
}

// NewJSONRequest creates an HTTP request with a JSON body
func NewJSONRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return req
}

// DoJSON sends a JSON request and returns the response. Callers close the body.
func DoJSON(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(NewJSONRequest(t, method, url, body))
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	return resp
}
