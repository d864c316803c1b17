package postgres

import (
	"context"
	"errors"

	"github.com/dom/combat-tracker/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type characterRepository struct {
	db *gorm.DB
}

func NewCharacterRepository(db *gorm.DB) *characterRepository {
	return &characterRepository{db: db}
}

func (r *characterRepository) List(ctx context.Context) ([]*domain.Character, error) {
	var characters []*domain.Character
	err := r.db.WithContext(ctx).Order("id ASC").Find(&characters).Error
	if err != nil {
		return nil, err
	}
	return characters, nil
}

func (r *characterRepository) GetByID(ctx context.Context, id int) (*domain.Character, error) {
	var character domain.Character
	err := r.db.WithContext(ctx).First(&character, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCharacterNotFound
		}
		return nil, err
	}
	return &character, nil
}

func (r *characterRepository) Create(ctx context.Context, character *domain.Character) error {
	// The serial column owns id allocation.
	character.ID = 0
	return r.db.WithContext(ctx).Create(character).Error
}

func (r *characterRepository) Update(ctx context.Context, id int, patch domain.CharacterPatch) (*domain.Character, error) {
	var updated *domain.Character
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Character
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&existing, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCharacterNotFound
			}
			return err
		}

		updated = patch.Apply(&existing)
		// Save writes every column so fields dropped by Apply become NULL.
		return tx.Save(updated).Error
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *characterRepository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Delete(&domain.Character{}, "id = ?", id).Error
}
