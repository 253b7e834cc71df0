package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/clubhub/clubhub/internal/config"
	"github.com/clubhub/clubhub/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	// Registers the postgres database driver for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate brings the schema up to date. With versioned migrations enabled
// on PostgreSQL it applies the embedded SQL files; otherwise it falls back
// to gorm's AutoMigrate.
func Migrate(db *gorm.DB, cfg *config.Config, log zerolog.Logger) error {
	if cfg.App.Migrations && cfg.Database.Driver == "postgres" {
		if err := runSQLMigrations(cfg.Database.URL()); err != nil {
			return fmt.Errorf("sql migrations: %w", err)
		}
		log.Info().Msg("sql migrations applied")
		return nil
	}
	if err := AutoMigrate(db); err != nil {
		return err
	}
	log.Info().Msg("schema auto-migrated")
	return nil
}

// AutoMigrate creates or updates the tables for every model.
func AutoMigrate(db *gorm.DB) error {
	for _, m := range models.All() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

func runSQLMigrations(url string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
