package database

import (
	"embed"
	"errors"
	"fmt"
	"net/url"

	"medilink-api/config"
	"medilink-api/internal/domain/entity"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate brings the schema up to date. PostgreSQL runs the embedded SQL
// migrations; SQLite is migrated from the entity definitions.
func Migrate(db *gorm.DB, cfg config.DBConfig, log *logrus.Logger) error {
	if db.Dialector.Name() == "sqlite" {
		return AutoMigrate(db)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL(cfg))
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	log.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("Database migrations applied")

	return nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(entity.Models()...)
}

func migrateURL(cfg config.DBConfig) string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
