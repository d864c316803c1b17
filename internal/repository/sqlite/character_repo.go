package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dom/combat-tracker/internal/domain"
)

const characterColumns = `id, name, type, class, level, description, cr, ac, initiative, max_hp, current_hp, status`

type characterRepository struct {
	db *sql.DB
}

func NewCharacterRepository(store *Store) *characterRepository {
	return &characterRepository{db: store.sqlDB}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row rowScanner) (*domain.Character, error) {
	var (
		c           domain.Character
		typ         string
		class       sql.NullString
		level       sql.NullInt64
		description sql.NullString
		cr          sql.NullFloat64
		ac          sql.NullInt64
		initiative  sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.Name, &typ, &class, &level, &description, &cr, &ac, &initiative, &c.MaxHP, &c.CurrentHP, &c.Status); err != nil {
		return nil, err
	}
	c.Type = domain.CharacterType(typ)
	c.Class = fromNullString(class)
	c.Level = fromNullInt(level)
	c.Description = fromNullString(description)
	c.CR = fromNullFloat(cr)
	c.AC = fromNullInt(ac)
	c.Initiative = fromNullInt(initiative)
	return &c, nil
}

func (r *characterRepository) List(ctx context.Context) ([]*domain.Character, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+characterColumns+` FROM characters ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	characters := make([]*domain.Character, 0)
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		characters = append(characters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate characters: %w", err)
	}
	return characters, nil
}

func (r *characterRepository) GetByID(ctx context.Context, id int) (*domain.Character, error) {
	return getCharacter(ctx, r.db, id)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getCharacter(ctx context.Context, q queryRower, id int) (*domain.Character, error) {
	row := q.QueryRowContext(ctx, `SELECT `+characterColumns+` FROM characters WHERE id = ?`, id)
	c, err := scanCharacter(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCharacterNotFound
		}
		return nil, fmt.Errorf("get character %d: %w", id, err)
	}
	return c, nil
}

func (r *characterRepository) Create(ctx context.Context, character *domain.Character) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO characters (name, type, class, level, description, cr, ac, initiative, max_hp, current_hp, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		character.Name,
		string(character.Type),
		toNullString(character.Class),
		toNullInt(character.Level),
		toNullString(character.Description),
		toNullFloat(character.CR),
		toNullInt(character.AC),
		toNullInt(character.Initiative),
		character.MaxHP,
		character.CurrentHP,
		character.Status,
	)
	if err != nil {
		return fmt.Errorf("create character: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read character id: %w", err)
	}
	character.ID = int(id)
	return nil
}

func (r *characterRepository) Update(ctx context.Context, id int, patch domain.CharacterPatch) (*domain.Character, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	existing, err := getCharacter(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	updated := patch.Apply(existing)
	// Every column is written so fields dropped by Apply become NULL.
	_, err = tx.ExecContext(ctx,
		`UPDATE characters
		    SET name = ?, type = ?, class = ?, level = ?, description = ?, cr = ?,
		        ac = ?, initiative = ?, max_hp = ?, current_hp = ?, status = ?
		  WHERE id = ?`,
		updated.Name,
		string(updated.Type),
		toNullString(updated.Class),
		toNullInt(updated.Level),
		toNullString(updated.Description),
		toNullFloat(updated.CR),
		toNullInt(updated.AC),
		toNullInt(updated.Initiative),
		updated.MaxHP,
		updated.CurrentHP,
		updated.Status,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("update character %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return updated, nil
}

func (r *characterRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete character %d: %w", id, err)
	}
	return nil
}

func toNullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func toNullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func toNullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func fromNullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func fromNullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func fromNullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
