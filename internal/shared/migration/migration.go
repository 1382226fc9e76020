package migration

import (
	"database/sql"
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Up applies every pending migration found at sourceURL
// (e.g. file://migrations) against db.
func Up(db *sql.DB, sourceURL string) error {
	log := zap.L().Named("migration")

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("no new migrations to apply")
		return nil
	}

	version, dirty, vErr := m.Version()
	if vErr != nil {
		return fmt.Errorf("read migration version: %w", vErr)
	}
	if dirty {
		return fmt.Errorf("migration version %d is dirty", version)
	}

	log.Info("migrations applied", zap.Uint("version", version))
	return nil
}
