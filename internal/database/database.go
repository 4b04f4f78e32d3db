package database

import (
	"log"
	"strings"

	"scavenger-hunt-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the game database and runs migrations, exiting the process on failure
func InitDB(path string) *gorm.DB {
	db, err := Open(path, logger.Warn)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	log.Printf("Database %s connected and migrated", path)
	return db
}

// Open connects to a SQLite database file, or to a private in-memory database for ":memory:".
// glebarez/sqlite is a pure Go driver, so no CGO is required.
func Open(path string, level logger.LogLevel) (*gorm.DB, error) {
	dsn := path
	if path != ":memory:" && !strings.Contains(path, "?") {
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate creates or updates the schema (tables are created if they don't exist)
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.Team{},
		&models.Task{},
		&models.Progress{},
		&models.Submission{},
	)
}
