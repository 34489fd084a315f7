package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/CSES-Open-Source/LowPriceCenter-sub000/models"
)

// newTestDB opens a throwaway in-memory database. Each call gets its own
// named memory db so parallel tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func registerTestUser(t *testing.T, users *UserService, name, email string) *models.User {
	t.Helper()
	u, err := users.Register(name, email, "password123")
	if err != nil {
		t.Fatalf("failed to register %s: %v", email, err)
	}
	return u
}
