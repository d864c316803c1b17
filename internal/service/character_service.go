package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dom/combat-tracker/internal/domain"
	"github.com/dom/combat-tracker/internal/repository"
	"github.com/dom/combat-tracker/internal/websocket"
)

// ChangeNotifier is told about every successful roster write so connected
// views can re-fetch.
type ChangeNotifier interface {
	NotifyCharactersChanged(action websocket.ChangeAction, ids ...int)
}

type noopNotifier struct{}

func (noopNotifier) NotifyCharactersChanged(websocket.ChangeAction, ...int) {}

type CharacterService struct {
	characterRepo repository.CharacterRepository
	notifier      ChangeNotifier
}

func NewCharacterService(characterRepo repository.CharacterRepository, notifier ChangeNotifier) *CharacterService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &CharacterService{
		characterRepo: characterRepo,
		notifier:      notifier,
	}
}

func (s *CharacterService) List(ctx context.Context) ([]*domain.Character, error) {
	return s.characterRepo.List(ctx)
}

func (s *CharacterService) Get(ctx context.Context, id int) (*domain.Character, error) {
	return s.characterRepo.GetByID(ctx, id)
}

// Create validates the payload and stores a new character.
func (s *CharacterService) Create(ctx context.Context, input domain.InsertCharacter) (*domain.Character, error) {
	character, err := s.create(ctx, input)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyCharactersChanged(websocket.ChangeCreated, character.ID)
	return character, nil
}

func (s *CharacterService) create(ctx context.Context, input domain.InsertCharacter) (*domain.Character, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	character := domain.NewCharacter(input)
	if err := s.characterRepo.Create(ctx, character); err != nil {
		return nil, fmt.Errorf("failed to create character: %w", err)
	}
	return character, nil
}

// CreateBatch adds quantity NPCs named "<name> 1" .. "<name> N". Each unit is
// validated and stored on its own; a failed unit does not undo the others.
// PCs and a quantity of 1 create a single character under the given name.
// The unsuffixed input must be valid on its own.
func (s *CharacterService) CreateBatch(ctx context.Context, input domain.InsertCharacter, quantity int) ([]*domain.Character, error) {
	if quantity < 1 || quantity > domain.MaxBatchQuantity {
		return nil, domain.ErrInvalidQuantity
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if quantity == 1 || input.Type != domain.CharacterTypeNPC {
		character, err := s.Create(ctx, input)
		if err != nil {
			return nil, err
		}
		return []*domain.Character{character}, nil
	}

	var (
		created []*domain.Character
		ids     []int
		errs    []error
	)
	for i := 1; i <= quantity; i++ {
		unit := input
		unit.Name = fmt.Sprintf("%s %d", input.Name, i)

		character, err := s.create(ctx, unit)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", unit.Name, err))
			continue
		}
		created = append(created, character)
		ids = append(ids, character.ID)
	}

	if len(ids) > 0 {
		s.notifier.NotifyCharactersChanged(websocket.ChangeCreated, ids...)
	}
	return created, errors.Join(errs...)
}

// Update merges patch over the stored character. The merged record must pass
// the creation rules.
func (s *CharacterService) Update(ctx context.Context, id int, patch domain.CharacterPatch) (*domain.Character, error) {
	existing, err := s.characterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := patch.Apply(existing).Validate(); err != nil {
		return nil, err
	}

	updated, err := s.characterRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyCharactersChanged(websocket.ChangeUpdated, id)
	return updated, nil
}

// ApplyHPDelta adds a signed amount to current HP, clamped to [0, maxHp].
func (s *CharacterService) ApplyHPDelta(ctx context.Context, id int, delta int) (*domain.Character, error) {
	existing, err := s.characterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	hp := domain.ClampHP(existing.CurrentHP, delta, existing.MaxHP)
	return s.Update(ctx, id, domain.CharacterPatch{CurrentHP: &hp})
}

// SetStatus sets a condition by name; "none" or "" clears it.
func (s *CharacterService) SetStatus(ctx context.Context, id int, status string) (*domain.Character, error) {
	normalized := domain.NormalizeStatus(status)
	return s.Update(ctx, id, domain.CharacterPatch{Status: &normalized})
}

func (s *CharacterService) Delete(ctx context.Context, id int) error {
	if err := s.characterRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	s.notifier.NotifyCharactersChanged(websocket.ChangeDeleted, id)
	return nil
}
