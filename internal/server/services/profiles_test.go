package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/resumehub/internal/common"
	"github.com/dmitrijs2005/resumehub/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileService_UpdateRecordsChange(t *testing.T) {
	env := newTestEnv(t)
	id := seedAccount(env.store, models.RoleStandard, "Old")

	env.expectTx()
	res, err := env.profiles.Update(context.Background(), Actor{AccountID: id}, ProfilePatch{Name: strPtr(" New ")})
	require.NoError(t, err)
	env.assertExpectations(t)

	assert.Equal(t, "New", res.Profile.Name)
	require.Len(t, res.Changes, 1)
	rec := res.Changes[0]
	assert.Equal(t, id, rec.AccountID)
	assert.Equal(t, models.TargetProfile, rec.Target)
	assert.Equal(t, "name", rec.Field)
	assert.Equal(t, "Old", rec.OldValue)
	assert.Equal(t, "New", rec.NewValue)
}

func TestProfileService_UpdateSameValue(t *testing.T) {
	env := newTestEnv(t)
	id := seedAccount(env.store, models.RoleStandard, "Ann")

	env.expectTx()
	res, err := env.profiles.Update(context.Background(), Actor{AccountID: id}, ProfilePatch{Name: strPtr("Ann")})
	require.NoError(t, err)

	assert.Empty(t, res.Changes)
	assert.Equal(t, 0, env.store.changeCount())
}

func TestProfileService_UpdateValidation(t *testing.T) {
	env := newTestEnv(t)
	id := seedAccount(env.store, models.RoleStandard, "Ann")

	for _, patch := range []ProfilePatch{{}, {Name: strPtr("  ")}} {
		_, err := env.profiles.Update(context.Background(), Actor{AccountID: id}, patch)
		assert.ErrorIs(t, err, common.ErrValidation)
	}
	env.assertExpectations(t)
	assert.Equal(t, "Ann", env.store.profiles[id].Name)
}

func TestProfileService_Get(t *testing.T) {
	env := newTestEnv(t)
	id := seedAccount(env.store, models.RoleStandard, "Ann")

	p, err := env.profiles.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Ann", p.Name)

	_, err = env.profiles.Get(context.Background(), "6f1d9a63-04f5-4bd3-8f39-3f1bb54e1b02")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
