package db

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/postline/postline/internal/models"
)

// openTestDB opens an in-memory database with the full schema. The pool
// is pinned to one connection so every query sees the same memory store.
func openTestDB(t *testing.T) *Repository {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Tag{},
		&models.Post{},
		&models.TagPost{},
		&models.Comment{},
		&models.Follow{},
	); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	return NewRepository(gdb)
}

func seedUser(t *testing.T, repo *Repository, username string) *models.User {
	t.Helper()

	user := &models.User{Username: username, PasswordHash: "x"}
	if err := NewUserRepository(repo).Create(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user %q: %v", username, err)
	}
	return user
}
