package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todo-api/internal/models"
)

func TestGormUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t))

	alice := &models.User{ID: "u-alice", Username: "alice", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, alice))

	t.Run("duplicate username", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{ID: "u-other", Username: "alice", PasswordHash: "hash"})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("find by id and username", func(t *testing.T) {
		byID, err := repo.FindByID(ctx, "u-alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", byID.Username)

		byName, err := repo.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "u-alice", byName.ID)

		_, err = repo.FindByUsername(ctx, "Alice")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("rename", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &models.User{ID: "u-bob", Username: "bob", PasswordHash: "hash"}))

		err := repo.UpdateUsername(ctx, "u-bob", "alice", time.Now())
		assert.ErrorIs(t, err, ErrDuplicate)

		require.NoError(t, repo.UpdateUsername(ctx, "u-bob", "robert", time.Now()))
		user, err := repo.FindByID(ctx, "u-bob")
		require.NoError(t, err)
		assert.Equal(t, "robert", user.Username)
	})

	t.Run("password hash", func(t *testing.T) {
		require.NoError(t, repo.UpdatePasswordHash(ctx, "u-alice", "new-hash", time.Now()))
		user, err := repo.FindByID(ctx, "u-alice")
		require.NoError(t, err)
		assert.Equal(t, "new-hash", user.PasswordHash)
	})

	t.Run("unknown user", func(t *testing.T) {
		assert.ErrorIs(t, repo.UpdateUsername(ctx, "missing", "ghost", time.Now()), ErrNotFound)
		assert.ErrorIs(t, repo.UpdatePasswordHash(ctx, "missing", "x", time.Now()), ErrNotFound)
		_, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
