package services

import (
	"testing"

	"postboard/lockout"
	"postboard/models"
	"postboard/policy"
	"postboard/repositories"
	"postboard/storage"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type serviceFixture struct {
	db        *gorm.DB
	userRepo  repositories.UserRepository
	postRepo  repositories.PostRepository
	engine    *lockout.Engine
	blobs     storage.Storage
	auth      AuthService
	users     UserService
	posts     PostService
	dashboard DashboardService
}

func newFixture(t *testing.T) *serviceFixture {
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

	blobs, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal("Failed to initialize test storage:", err)
	}

	userRepo := repositories.NewUserRepository(db)
	postRepo := repositories.NewPostRepository(db)
	engine := lockout.NewEngine()

	return &serviceFixture{
		db:        db,
		userRepo:  userRepo,
		postRepo:  postRepo,
		engine:    engine,
		blobs:     blobs,
		auth:      NewAuthService(db, userRepo, engine),
		users:     NewUserService(db, userRepo, postRepo, engine, blobs),
		posts:     NewPostService(postRepo),
		dashboard: NewDashboardService(userRepo, postRepo),
	}
}

func (f *serviceFixture) createUser(t *testing.T, name, email string, role models.UserRole) *models.User {
	t.Helper()

	user, err := f.userRepo.Create(models.CreateUserRequest{
		Name:     name,
		Email:    email,
		Password: "password123",
		Role:     role,
	}, nil)
	if err != nil {
		t.Fatal("Failed to create user:", err)
	}
	return user
}

func (f *serviceFixture) createPost(t *testing.T, title string, status models.PostStatus, creatorID uint) *models.Post {
	t.Helper()

	post, err := f.postRepo.Create(models.CreatePostRequest{
		Title:       title,
		Description: "description of " + title,
		Status:      status,
	}, creatorID)
	if err != nil {
		t.Fatal("Failed to create post:", err)
	}
	return post
}

func asPrincipal(u *models.User) policy.Principal {
	return policy.Principal{ID: u.ID, Role: u.Role, Authenticated: true}
}
