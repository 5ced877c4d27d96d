package repository

import (
	"context"

	"creatorr/internal/cache"
	"creatorr/internal/models"

	"gorm.io/gorm"
)

// TemplateRepository reads the post template catalog. Templates are seed
// data, there is no write path outside seeding.
type TemplateRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Template, error)
	List(ctx context.Context) ([]models.Template, error)
}

type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository creates a new template repository.
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) GetByID(ctx context.Context, id uint) (*models.Template, error) {
	var tpl models.Template
	err := r.db.WithContext(ctx).First(&tpl, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.NewNotFoundError("template not found", err)
		}
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepository) List(ctx context.Context) ([]models.Template, error) {
	return cache.Aside(ctx, cache.TemplateListKey, cache.DefaultTTL, func() ([]models.Template, error) {
		var templates []models.Template
		err := r.db.WithContext(ctx).Order("id ASC").Find(&templates).Error
		return templates, err
	})
}
