// Package db opens, migrates and seeds the relational store.
package db

import (
	"fmt"
	"time"

	"github.com/clubhub/clubhub/internal/config"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectAttempts = 5

// Open connects to the configured database. PostgreSQL connections are
// retried to give the server time to start.
func Open(cfg config.DatabaseConfig, log zerolog.Logger) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gcfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		// Ownership is matched by reference fields, not enforced by the schema.
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	switch cfg.Driver {
	case "sqlite":
		log.Info().Str("path", cfg.SQLitePath).Msg("opening sqlite database")
		db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return db, nil
	case "postgres":
		log.Info().
			Str("host", cfg.Host).
			Int("port", cfg.Port).
			Str("dbname", cfg.DBName).
			Str("user", cfg.User).
			Msg("connecting to database")
		var db *gorm.DB
		var err error
		for i := 0; i < connectAttempts; i++ {
			db, err = gorm.Open(postgres.Open(cfg.DSN()), gcfg)
			if err == nil {
				break
			}
			log.Warn().Err(err).Int("attempt", i+1).Msg("database connection failed, retrying")
			time.Sleep(2 * time.Second)
		}
		if err != nil {
			return nil, fmt.Errorf("connect database after %d attempts: %w", connectAttempts, err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
