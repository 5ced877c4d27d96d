package repository

import (
	"context"
	"strings"

	"creatorr/internal/models"

	"gorm.io/gorm"
)

// PostQuery describes one page of the post feed. The zero value means the
// global feed: no category, no search term, no author scope.
type PostQuery struct {
	Category string // exact category tag
	Search   string // case-insensitive substring, empty matches everything
	AuthorID uint   // restrict to one author's posts
	Page     int    // 1-based, values below 1 are treated as 1
	PerPage  int    // must be positive, callers supply the surface default
}

// PostRepository defines post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	DeleteByAuthor(ctx context.Context, authorID uint) error

	List(ctx context.Context, q PostQuery) ([]models.Post, int64, error)
	ListAll(ctx context.Context) ([]models.Post, error)
	ListReported(ctx context.Context) ([]models.Post, error)
	MostViewed(ctx context.Context) (*models.Post, error)
	Related(ctx context.Context, post *models.Post, limit int) ([]models.Post, error)

	IncrementViews(ctx context.Context, id uint) error
	IncrementReports(ctx context.Context, id uint) error
	ClearReports(ctx context.Context, id uint) error
	AppendComment(ctx context.Context, id uint, comment models.Comment) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// tagPattern matches a JSON-serialized string array element exactly.
func tagPattern(name string) string {
	return `%"` + name + `"%`
}

func (r *postRepository) scoped(ctx context.Context, q PostQuery) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&models.Post{})

	if q.AuthorID != 0 {
		tx = tx.Where("account_id = ?", q.AuthorID)
	}
	if q.Category != "" {
		tx = tx.Where("categories LIKE ?", tagPattern(q.Category))
	}
	if q.Search != "" {
		term := "%" + strings.ToLower(q.Search) + "%"
		cols := []string{"LOWER(title) LIKE ?", "LOWER(content) LIKE ?"}
		args := []any{term, term}
		if q.Category == "" {
			// inside a category the tag list would match the scope's own
			// name on every post
			cols = append(cols, "LOWER(categories) LIKE ?")
			args = append(args, term)
		}
		if q.AuthorID == 0 {
			// only the global search matches on author name; within one
			// author's posts the name is constant
			cols = append(cols, "LOWER(account_name) LIKE ?")
			args = append(args, term)
		}
		tx = tx.Where(strings.Join(cols, " OR "), args...)
	}
	return tx
}

func (r *postRepository) List(ctx context.Context, q PostQuery) ([]models.Post, int64, error) {
	var total int64
	if err := r.scoped(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}

	var posts []models.Post
	err := r.scoped(ctx, q).
		Order("id DESC").
		Limit(q.PerPage).
		Offset((page - 1) * q.PerPage).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) ListAll(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).Order("id DESC").Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListReported(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Where("report_count > 0").
		Order("report_count DESC, id DESC").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.NewNotFoundError("post not found", err)
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("post not found", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *postRepository) DeleteByAuthor(ctx context.Context, authorID uint) error {
	return r.db.WithContext(ctx).
		Where("account_id = ?", authorID).
		Delete(&models.Post{}).Error
}

func (r *postRepository) MostViewed(ctx context.Context) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Order("views_count DESC").First(&post).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Related(ctx context.Context, post *models.Post, limit int) ([]models.Post, error) {
	if len(post.Categories) == 0 {
		return nil, nil
	}

	tx := r.db.WithContext(ctx).Model(&models.Post{}).Where("id <> ?", post.ID)

	conds := make([]string, 0, len(post.Categories))
	args := make([]any, 0, len(post.Categories))
	for _, tag := range post.Categories {
		conds = append(conds, "categories LIKE ?")
		args = append(args, tagPattern(tag))
	}
	tx = tx.Where(strings.Join(conds, " OR "), args...)

	var posts []models.Post
	err := tx.Order("id DESC").Limit(limit).Find(&posts).Error
	return posts, err
}

func (r *postRepository) IncrementViews(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
}

func (r *postRepository) IncrementReports(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("report_count", gorm.Expr("report_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("post not found", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *postRepository) ClearReports(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("report_count", 0)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("post not found", gorm.ErrRecordNotFound)
	}
	return nil
}

// AppendComment loads the post, appends the comment and saves the comment
// column. Comments are append-only so last-writer-wins on the serialized
// column is acceptable here.
func (r *postRepository) AppendComment(ctx context.Context, id uint, comment models.Comment) error {
	post, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	post.Comments = append(post.Comments, comment)
	return r.db.WithContext(ctx).Model(post).
		UpdateColumn("comments", post.Comments).Error
}
