package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todo-api/internal/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *database.Store {
	t.Helper()

	db, err := database.Connect(sqlite.Open(":memory:"), logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	store, err := database.NewGormStore(db)
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close(context.Background())
	})

	return store
}
