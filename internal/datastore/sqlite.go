package datastore

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ng-daniel/depresjon-go/internal/conf"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLiteStore implements DataStore for SQLite
type SQLiteStore struct {
	DataStore
	Settings *conf.Settings
}

func validateSQLiteConfig(settings *conf.Settings) error {
	if strings.TrimSpace(settings.Output.SQLite.Path) == "" {
		return fmt.Errorf("sqlite database path is empty")
	}
	return nil
}

// Open sets up the SQLite database connection
func (store *SQLiteStore) Open() error {
	if err := validateSQLiteConfig(store.Settings); err != nil {
		return err
	}

	path := store.Settings.Output.SQLite.Path
	// In-memory databases are used by tests and need no directory handling
	if path != ":memory:" {
		dir, fileName := filepath.Split(path)
		basePath := conf.GetBasePath(dir)
		path = filepath.Join(basePath, fileName)
	}

	// Create a new GORM logger
	newLogger := createGormLogger(store.Settings.Debug)

	// Open the SQLite database
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: newLogger})
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// An in-memory database exists per connection, keep the pool at one
	if path == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get database handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	store.DB = db
	return performAutoMigration(db, store.Settings.Debug, "SQLite", path)
}
