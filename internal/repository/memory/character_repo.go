package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dom/combat-tracker/internal/domain"
	"github.com/dom/combat-tracker/internal/repository"
)

type characterRepository struct {
	mu         sync.RWMutex
	characters map[int]*domain.Character
	nextID     int
}

func NewCharacterRepository() *characterRepository {
	return &characterRepository{
		characters: make(map[int]*domain.Character),
		nextID:     1,
	}
}

func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		Character: NewCharacterRepository(),
	}
}

func (r *characterRepository) List(ctx context.Context) ([]*domain.Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	characters := make([]*domain.Character, 0, len(r.characters))
	for _, c := range r.characters {
		characters = append(characters, c.Clone())
	}
	// Map iteration is random; ids give creation order.
	sort.Slice(characters, func(i, j int) bool {
		return characters[i].ID < characters[j].ID
	})
	return characters, nil
}

func (r *characterRepository) GetByID(ctx context.Context, id int) (*domain.Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.characters[id]
	if !ok {
		return nil, domain.ErrCharacterNotFound
	}
	return c.Clone(), nil
}

func (r *characterRepository) Create(ctx context.Context, character *domain.Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	character.ID = r.nextID
	r.nextID++
	r.characters[character.ID] = character.Clone()
	return nil
}

func (r *characterRepository) Update(ctx context.Context, id int, patch domain.CharacterPatch) (*domain.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.characters[id]
	if !ok {
		return nil, domain.ErrCharacterNotFound
	}

	updated := patch.Apply(existing)
	r.characters[id] = updated
	return updated.Clone(), nil
}

func (r *characterRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.characters, id)
	return nil
}
