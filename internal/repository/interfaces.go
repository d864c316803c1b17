package repository

import (
	"context"

	"github.com/dom/combat-tracker/internal/domain"
)

// CharacterRepository is the authoritative roster store.
type CharacterRepository interface {
	List(ctx context.Context) ([]*domain.Character, error)
	GetByID(ctx context.Context, id int) (*domain.Character, error)
	// Create assigns the next id to character and stores it.
	Create(ctx context.Context, character *domain.Character) error
	// Update merges patch over the stored record. Returns domain.ErrCharacterNotFound
	// when id is absent.
	Update(ctx context.Context, id int, patch domain.CharacterPatch) (*domain.Character, error)
	// Delete is a no-op for unknown ids.
	Delete(ctx context.Context, id int) error
}

type Repositories struct {
	Character CharacterRepository
}
