// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"testing"

	"medilink-api/internal/domain/entity"
	"medilink-api/internal/infrastructure/database"
	"medilink-api/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]`)

// NewLogger returns a logger that discards everything.
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// NewDB opens a private in-memory SQLite database with the full schema and
// the role rows seeded.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", unsafeName.ReplaceAllString(t.Name(), "_"))
	db, err := database.NewSQLiteConnection(dsn, NewLogger())
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, repository.NewRoleRepository().Seed(context.Background(), db))

	return db
}

// CreateUser inserts a user with the given role and password "password123".
func CreateUser(t *testing.T, db *gorm.DB, roleID int, name, email string) *entity.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &entity.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Phone:    "0600000000",
		RoleID:   roleID,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
