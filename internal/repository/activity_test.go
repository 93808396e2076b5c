package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityUpsert(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	f := seedCatalog(t, db)
	repo := NewActivityRepo(db)

	created, err := repo.Upsert(context.Background(), f.User.ID, "[1,2]", "cart")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Upsert(context.Background(), f.User.ID, "[1,2,3]", "checkout")
	require.NoError(t, err)
	assert.False(t, created)

	rows, total, err := repo.List(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "[1,2,3]", rows[0].ProductIDs)
	assert.Equal(t, "checkout", rows[0].CurrentStep)
	assert.Equal(t, f.User.Name, rows[0].UserName)
	assert.Equal(t, f.User.Email, rows[0].UserEmail)
}

func TestActivityUserExists(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	f := seedCatalog(t, db)
	repo := NewActivityRepo(db)

	ok, err := repo.UserExists(context.Background(), f.User.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UserExists(context.Background(), 4242)
	require.NoError(t, err)
	assert.False(t, ok)
}
