// Package db handles database connection, schema migration and demo seeding.
package db

import (
	"fmt"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lexhelp/platform/internal/models"
)

// Connect opens the database described by dsn. A postgres:// (or
// postgresql://) DSN selects the Postgres driver; anything else is treated as
// a SQLite file path. GORM logging stays silent unless DB_DEBUG=1.
func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty database DSN")
	}
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	// TranslateError maps driver-specific unique violations onto
	// gorm.ErrDuplicatedKey, which the services rely on.
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel), TranslateError: true}

	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return gorm.Open(postgres.Open(dsn), cfg)
	}
	return gorm.Open(sqlite.Open(dsn), cfg)
}

// Migrate creates or updates the six platform tables. Safe to run on every
// startup.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Assistant{},
		&models.ChatMessage{},
		&models.KnowledgeEntry{},
		&models.Log{},
		&models.Test{},
	)
}
