package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestAddIndexes_Idempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(AllModels()...))

	require.NoError(t, AddIndexes(db, zap.NewNop()))
	require.NoError(t, AddIndexes(db, zap.NewNop()))

	for _, idx := range lookupIndexes {
		require.True(t, db.Migrator().HasIndex(idx.table, idx.name), idx.name)
	}
}
