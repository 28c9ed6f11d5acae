package repositories

import (
	"testing"

	"postboard/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory database per test. A single connection keeps
// in-memory state alive and serializes concurrent writers.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal("Failed to open test database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal("Failed to get sql.DB:", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Post{}); err != nil {
		t.Fatal("Failed to migrate test database:", err)
	}
	return db
}

func seedUser(t *testing.T, repo UserRepository, name, email string, role models.UserRole) *models.User {
	t.Helper()

	user, err := repo.Create(models.CreateUserRequest{
		Name:     name,
		Email:    email,
		Password: "password123",
		Role:     role,
	}, nil)
	if err != nil {
		t.Fatal("Failed to seed user:", err)
	}
	return user
}

func seedPost(t *testing.T, repo PostRepository, title string, status models.PostStatus, creatorID uint) *models.Post {
	t.Helper()

	post, err := repo.Create(models.CreatePostRequest{
		Title:       title,
		Description: "description of " + title,
		Status:      status,
	}, creatorID)
	if err != nil {
		t.Fatal("Failed to seed post:", err)
	}
	return post
}
