package postgres_test

import (
	"context"
	"testing"

	"github.com/dom/combat-tracker/internal/domain"
	"github.com/dom/combat-tracker/internal/repository/postgres"
	"github.com/dom/combat-tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharacterRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewCharacterRepository(testDB.DB)
	ctx := context.Background()

	pc := testutil.NewCharacterBuilder().
		WithName("Valeros").
		WithClass("Fighter", 5).
		WithInitiative(14).
		WithAC(18).
		Character()

	require.NoError(t, repo.Create(ctx, pc))
	assert.NotZero(t, pc.ID)

	got, err := repo.GetByID(ctx, pc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Valeros", got.Name)
	assert.Equal(t, domain.CharacterTypePC, got.Type)
	require.NotNil(t, got.Level)
	assert.Equal(t, 5, *got.Level)
	require.NotNil(t, got.Initiative)
	assert.Equal(t, 14, *got.Initiative)
	assert.Nil(t, got.CR)
}

func TestCharacterRepository_GetMissing(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewCharacterRepository(testDB.DB)

	_, err := repo.GetByID(context.Background(), 9999)
	assert.ErrorIs(t, err, domain.ErrCharacterNotFound)
}

func TestCharacterRepository_ListAndDelete(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewCharacterRepository(testDB.DB)
	ctx := context.Background()

	goblin := testutil.NewCharacterBuilder().AsNPC("Goblin", 0.33).Character()
	orc := testutil.NewCharacterBuilder().AsNPC("Orc", 1).Character()
	require.NoError(t, repo.Create(ctx, goblin))
	require.NoError(t, repo.Create(ctx, orc))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Goblin", list[0].Name)

	require.NoError(t, repo.Delete(ctx, goblin.ID))
	require.NoError(t, repo.Delete(ctx, goblin.ID), "delete must be idempotent")

	list, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Orc", list[0].Name)

	// Serial ids are not handed out again after a delete.
	next := testutil.NewCharacterBuilder().Character()
	require.NoError(t, repo.Create(ctx, next))
	assert.Greater(t, next.ID, orc.ID)
}

func TestCharacterRepository_Update(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewCharacterRepository(testDB.DB)
	ctx := context.Background()

	c := testutil.NewCharacterBuilder().WithHP(30, 30).Character()
	require.NoError(t, repo.Create(ctx, c))

	hp := 12
	status := "Prone"
	updated, err := repo.Update(ctx, c.ID, domain.CharacterPatch{CurrentHP: &hp, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, 12, updated.CurrentHP)
	assert.Equal(t, "Prone", updated.Status)

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, got.CurrentHP)
	assert.Equal(t, 30, got.MaxHP)
	assert.Equal(t, "Prone", got.Status)

	_, err = repo.Update(ctx, 9999, domain.CharacterPatch{CurrentHP: &hp})
	assert.ErrorIs(t, err, domain.ErrCharacterNotFound)
}
