package postgres_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB builds an isolated in-memory database per test. The schema is
// created with portable DDL: sqlite has no native text[] so hair_concerns
// rides as text (pq.StringArray round-trips through its literal format).
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	stmts := []string{
		`CREATE TABLE profiles (
			id TEXT PRIMARY KEY,
			email TEXT,
			full_name TEXT,
			hair_type TEXT,
			scalp_condition TEXT,
			hair_concerns TEXT,
			role TEXT DEFAULT 'user',
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE conversations (
			id TEXT PRIMARY KEY,
			user_id TEXT,
			title TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE messages (
			id TEXT PRIMARY KEY,
			conversation_id TEXT,
			role TEXT,
			content TEXT,
			created_at DATETIME
		)`,
	}
	for _, stmt := range stmts {
		require.NoError(t, db.Exec(stmt).Error)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
