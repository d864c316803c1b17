package domain_test

import (
	"errors"
	"testing"

	"github.com/dom/combat-tracker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func typePtr(t domain.CharacterType) *domain.CharacterType { return &t }

func validInsert() domain.InsertCharacter {
	return domain.InsertCharacter{
		Name:      "Fighter",
		Type:      domain.CharacterTypePC,
		Class:     strPtr("Fighter"),
		Level:     intPtr(3),
		MaxHP:     intPtr(20),
		CurrentHP: intPtr(20),
	}
}

func TestInsertCharacter_Validate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*domain.InsertCharacter)
		wantFields []string
	}{
		{
			name:   "valid PC",
			mutate: func(in *domain.InsertCharacter) {},
		},
		{
			name: "valid NPC with zero cr",
			mutate: func(in *domain.InsertCharacter) {
				in.Type = domain.CharacterTypeNPC
				in.CR = floatPtr(0)
				in.CurrentHP = intPtr(0)
			},
		},
		{
			name:       "empty name",
			mutate:     func(in *domain.InsertCharacter) { in.Name = "  " },
			wantFields: []string{"name"},
		},
		{
			name:       "unknown type",
			mutate:     func(in *domain.InsertCharacter) { in.Type = "Monster" },
			wantFields: []string{"type"},
		},
		{
			name:       "missing type",
			mutate:     func(in *domain.InsertCharacter) { in.Type = "" },
			wantFields: []string{"type"},
		},
		{
			name:       "max hp below one",
			mutate:     func(in *domain.InsertCharacter) { in.MaxHP = intPtr(0) },
			wantFields: []string{"maxHp"},
		},
		{
			name:       "negative current hp",
			mutate:     func(in *domain.InsertCharacter) { in.CurrentHP = intPtr(-1) },
			wantFields: []string{"currentHp"},
		},
		{
			name: "missing hp fields",
			mutate: func(in *domain.InsertCharacter) {
				in.MaxHP = nil
				in.CurrentHP = nil
			},
			wantFields: []string{"maxHp", "currentHp"},
		},
		{
			name:       "level below one",
			mutate:     func(in *domain.InsertCharacter) { in.Level = intPtr(0) },
			wantFields: []string{"level"},
		},
		{
			name:       "negative cr",
			mutate:     func(in *domain.InsertCharacter) { in.CR = floatPtr(-0.5) },
			wantFields: []string{"cr"},
		},
		{
			name:       "negative ac",
			mutate:     func(in *domain.InsertCharacter) { in.AC = intPtr(-2) },
			wantFields: []string{"ac"},
		},
		{
			name:       "unknown status",
			mutate:     func(in *domain.InsertCharacter) { in.Status = "Sleepy" },
			wantFields: []string{"status"},
		},
		{
			name:   "current hp above max is accepted on creation",
			mutate: func(in *domain.InsertCharacter) { in.CurrentHP = intPtr(50) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInsert()
			tt.mutate(&in)

			err := in.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Len(t, verr.Fields, len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.Contains(t, verr.Fields, f)
			}
		})
	}
}

func TestNewCharacter_DropsForeignFields(t *testing.T) {
	in := validInsert()
	in.Description = strPtr("should vanish")
	in.CR = floatPtr(2)

	pc := domain.NewCharacter(in)
	assert.Nil(t, pc.Description)
	assert.Nil(t, pc.CR)
	require.NotNil(t, pc.Class)
	assert.Equal(t, "Fighter", *pc.Class)

	in.Type = domain.CharacterTypeNPC
	npc := domain.NewCharacter(in)
	assert.Nil(t, npc.Class)
	assert.Nil(t, npc.Level)
	require.NotNil(t, npc.CR)
	assert.Equal(t, 2.0, *npc.CR)
}

func TestNewCharacter_NormalizesNoneStatus(t *testing.T) {
	in := validInsert()
	in.Status = "none"

	c := domain.NewCharacter(in)
	assert.Equal(t, "", c.Status)
}

func TestCharacterPatch_Apply(t *testing.T) {
	base := domain.NewCharacter(validInsert())
	base.ID = 7
	base.Initiative = intPtr(12)

	t.Run("only set fields change", func(t *testing.T) {
		got := domain.CharacterPatch{CurrentHP: intPtr(5)}.Apply(base)

		assert.Equal(t, 7, got.ID)
		assert.Equal(t, 5, got.CurrentHP)
		assert.Equal(t, base.Name, got.Name)
		assert.Equal(t, 20, got.MaxHP)
		require.NotNil(t, got.Initiative)
		assert.Equal(t, 12, *got.Initiative)
	})

	t.Run("does not alias the original", func(t *testing.T) {
		got := domain.CharacterPatch{Initiative: intPtr(3)}.Apply(base)

		assert.Equal(t, 3, *got.Initiative)
		assert.Equal(t, 12, *base.Initiative)
	})

	t.Run("status none clears the condition", func(t *testing.T) {
		withStatus := domain.CharacterPatch{Status: strPtr("Prone")}.Apply(base)
		assert.Equal(t, "Prone", withStatus.Status)

		cleared := domain.CharacterPatch{Status: strPtr("none")}.Apply(withStatus)
		assert.Equal(t, "", cleared.Status)
	})

	t.Run("switching type drops the other kind's fields", func(t *testing.T) {
		got := domain.CharacterPatch{
			Type: typePtr(domain.CharacterTypeNPC),
			CR:   floatPtr(1),
		}.Apply(base)

		assert.Nil(t, got.Class)
		assert.Nil(t, got.Level)
		require.NotNil(t, got.CR)
		assert.Equal(t, 1.0, *got.CR)
	})

	t.Run("pc patch ignores npc fields", func(t *testing.T) {
		got := domain.CharacterPatch{Description: strPtr("grumpy")}.Apply(base)
		assert.Nil(t, got.Description)
	})
}

func TestCharacter_Validate(t *testing.T) {
	c := domain.NewCharacter(validInsert())
	assert.NoError(t, c.Validate())

	c.MaxHP = 0
	c.CurrentHP = -3
	err := c.Validate()

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "maxHp")
	assert.Contains(t, verr.Fields, "currentHp")
	assert.Contains(t, err.Error(), "currentHp: Current HP cannot be negative")
}

func TestCharacterPatch_IsEmpty(t *testing.T) {
	assert.True(t, domain.CharacterPatch{}.IsEmpty())
	assert.False(t, domain.CharacterPatch{Name: strPtr("x")}.IsEmpty())
}

func TestCharacter_InitiativeValue(t *testing.T) {
	c := &domain.Character{}
	assert.Equal(t, 0, c.InitiativeValue())

	c.Initiative = intPtr(-2)
	assert.Equal(t, -2, c.InitiativeValue())
}
