// Package testutil builds throwaway stores and loggers for tests.
package testutil

import (
	"io"
	"testing"

	"hospital-queue/internal/infrastructure/database"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite store closed at test cleanup.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLiteConnection(":memory:", &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("NewSQLiteConnection() failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	return db
}

// NewLogger returns a silent logger and a hook recording its entries.
func NewLogger() (*logrus.Logger, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.DebugLevel)
	return log, hook
}
