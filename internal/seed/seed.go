// Package seed provides helpers to create demo data for the application
// database. Intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"creatorr/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options controls how much demo data Run creates.
type Options struct {
	Users         int
	PostsPerUser  int
	AdminEmail    string
	AdminPassword string
	BcryptCost    int
}

// DefaultOptions seeds a small but browsable site.
func DefaultOptions() Options {
	return Options{
		Users:         5,
		PostsPerUser:  4,
		AdminEmail:    "admin@admin.com",
		AdminPassword: "admin123",
		BcryptCost:    bcrypt.DefaultCost,
	}
}

// templateCatalog is the fixed set of post layouts. EnsureTemplates keeps the
// table aligned with it.
var templateCatalog = []models.Template{
	{Name: "classic", Image: "/images/templates/classic.png"},
	{Name: "banner", Image: "/images/templates/banner.png"},
	{Name: "gallery", Image: "/images/templates/gallery.png"},
	{Name: "minimal", Image: "/images/templates/minimal.png"},
}

var categoryNames = []string{"Technology", "Travel", "Food", "Lifestyle", "Music", "Sports"}

// EnsureTemplates inserts the template catalog when missing. Safe to run on
// every boot.
func EnsureTemplates(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Template{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(&templateCatalog).Error
}

// Run fills the database with demo users, categories and posts.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if err := EnsureTemplates(db); err != nil {
		return fmt.Errorf("seed templates: %w", err)
	}

	var templates []models.Template
	if err := db.Find(&templates).Error; err != nil {
		return err
	}

	categories := make([]models.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		categories = append(categories, models.Category{
			Name:     name,
			ImageURL: fmt.Sprintf("https://picsum.photos/seed/cat-%s/400/300", name),
		})
	}
	if err := db.Create(&categories).Error; err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}

	adminHash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), opts.BcryptCost)
	if err != nil {
		return err
	}
	admin := models.User{
		FirstName: "Site",
		LastName:  "Admin",
		Email:     opts.AdminEmail,
		Password:  string(adminHash),
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Printf("seeded admin account %s", opts.AdminEmail)

	demoHash, err := bcrypt.GenerateFromPassword([]byte("password"), opts.BcryptCost)
	if err != nil {
		return err
	}

	for i := 0; i < opts.Users; i++ {
		user := models.User{
			FirstName:    gofakeit.FirstName(),
			LastName:     gofakeit.LastName(),
			Address:      gofakeit.Address().Address,
			PhoneNumber:  gofakeit.Phone(),
			Occupation:   gofakeit.JobTitle(),
			Email:        gofakeit.Email(),
			Password:     string(demoHash),
			ImageProfile: fmt.Sprintf("https://picsum.photos/seed/u-%d/200/200", i),
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("seed user: %w", err)
		}

		for p := 0; p < opts.PostsPerUser; p++ {
			cat := categories[r.Intn(len(categories))]
			post := models.Post{
				Title:       gofakeit.Sentence(5),
				Content:     gofakeit.Paragraph(2, 4, 8, "\n\n"),
				ImagePost:   fmt.Sprintf("https://picsum.photos/seed/%s/800/500", gofakeit.UUID()),
				AccountID:   user.ID,
				AccountName: user.DisplayName(),
				Categories:  []string{cat.Name},
				TemplateID:  templates[r.Intn(len(templates))].ID,
				ViewsCount:  int64(r.Intn(200)),
			}
			if err := db.Create(&post).Error; err != nil {
				return fmt.Errorf("seed post: %w", err)
			}
		}
	}

	log.Printf("seeded %d users with %d posts each", opts.Users, opts.PostsPerUser)
	return nil
}
