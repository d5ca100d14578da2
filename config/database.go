package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDatabase connects to PostgreSQL when DatabaseURL is a postgres URL
// and to an in-memory SQLite database when it is empty. Any other value is
// treated as a SQLite file path.
func OpenDatabase(cfg *Config, log zerolog.Logger) (*gorm.DB, error) {
	gormConfig := &gorm.Config{Logger: logger.Default.LogMode(gormLogLevel(cfg.LogLevel))}

	url := cfg.DatabaseURL
	var (
		db     *gorm.DB
		err    error
		driver string
	)
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		driver = "postgres"
		db, err = gorm.Open(postgres.Open(url), gormConfig)
	case url == "":
		driver = "sqlite"
		db, err = gorm.Open(sqlite.Open(":memory:"), gormConfig)
	default:
		driver = "sqlite"
		db, err = gorm.Open(sqlite.Open(url), gormConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite" {
		// One connection: SQLite has a single writer and each
		// :memory: connection is its own database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	log.Info().Str("driver", driver).Msg("database connection established")
	return db, nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug", "trace":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	}
	return logger.Silent
}
