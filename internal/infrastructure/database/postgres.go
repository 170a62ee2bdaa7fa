package database

import (
	"fmt"
	"time"

	"medilink-api/config"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGormConfig(log *logrus.Logger) *gorm.Config {
	return &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		// Unique and foreign-key violations surface as gorm.ErrDuplicatedKey
		// and gorm.ErrForeignKeyViolated on every driver.
		TranslateError: true,
	}
}

// NewConnection opens the database selected by cfg.Driver.
func NewConnection(cfg config.DBConfig, log *logrus.Logger) (*gorm.DB, error) {
	switch cfg.Driver {
	case "sqlite":
		return NewSQLiteConnection(cfg.Name, log)
	case "", "postgres":
		return NewPostgresConnection(cfg, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func NewPostgresConnection(cfg config.DBConfig, log *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(PostgresDSN(cfg)), newGormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Info("Successfully connected to PostgreSQL database")

	return db, nil
}

// NewSQLiteConnection opens a SQLite database. The pool is limited to one
// connection so in-memory databases are shared by every query.
func NewSQLiteConnection(dsn string, log *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), newGormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	log.Info("Successfully connected to SQLite database")

	return db, nil
}

func PostgresDSN(cfg config.DBConfig) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port,
	)
}
