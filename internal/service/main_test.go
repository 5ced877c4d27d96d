package service

import (
	"os"
	"testing"

	"creatorr/internal/database"
	"creatorr/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

type testRepos struct {
	db         *gorm.DB
	posts      repository.PostRepository
	users      repository.UserRepository
	templates  repository.TemplateRepository
	categories repository.CategoryRepository
}

func setupRepos(t *testing.T) testRepos {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return testRepos{
		db:         db,
		posts:      repository.NewPostRepository(db),
		users:      repository.NewUserRepository(db),
		templates:  repository.NewTemplateRepository(db),
		categories: repository.NewCategoryRepository(db),
	}
}
