package testutils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens an in-memory sqlite database on a single connection so
// every query of the test sees the same schema.
func SetupTestDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if len(models) > 0 {
		err = db.AutoMigrate(models...)
		require.NoError(t, err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

func CleanupTestDB(t *testing.T, db *gorm.DB, tables ...string) {
	for _, table := range tables {
		err := db.Exec("DELETE FROM " + table).Error
		require.NoError(t, err)
	}
}

func AssertErrorType(t *testing.T, expected error, actual error) {
	t.Helper()
	require.Error(t, actual)
	require.ErrorIs(t, actual, expected)
}
