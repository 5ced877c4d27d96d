package service

import (
	"context"
	"math"
	"strings"

	"creatorr/internal/models"
	"creatorr/internal/repository"
)

// RelatedLimit is how many same-category posts accompany a post detail page.
const RelatedLimit = 4

type PostService struct {
	postRepo     repository.PostRepository
	templateRepo repository.TemplateRepository
}

// DraftInput is the first step of post creation: the compose form fields
// before a layout template has been chosen.
type DraftInput struct {
	Title      string
	Content    string
	AudioText  string // dictated text, used when Content is empty
	ImagePost  string
	Categories []string
	AuthorID   uint
	AuthorName string
}

type UpdatePostInput struct {
	PostID      uint
	RequesterID uint
	IsAdmin     bool
	Title       string
	Content     string
	AudioText   string
	Categories  []string
	ImagePost   string // empty keeps the current image
	TemplateID  uint   // zero keeps the current template
}

type CommentInput struct {
	PostID   uint
	Username string
	ImageURL string
	Comment  string
}

func NewPostService(postRepo repository.PostRepository, templateRepo repository.TemplateRepository) *PostService {
	return &PostService{
		postRepo:     postRepo,
		templateRepo: templateRepo,
	}
}

// TotalPages converts a row count into a page count for the given page size.
func TotalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(perPage)))
}

// Feed returns one page of posts plus the page count for the pager.
func (s *PostService) Feed(ctx context.Context, q repository.PostQuery) ([]models.Post, int, error) {
	posts, total, err := s.postRepo.List(ctx, q)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, TotalPages(total, q.PerPage), nil
}

// BuildDraft validates the compose form and produces the draft that rides
// along to the template picker. Nothing is persisted yet.
func (s *PostService) BuildDraft(in DraftInput) (*models.PostDraft, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		content = strings.TrimSpace(in.AudioText)
	}

	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if in.ImagePost == "" {
		return nil, models.NewValidationError("Post image is required")
	}

	return &models.PostDraft{
		Title:       strings.TrimSpace(in.Title),
		Content:     content,
		ImagePost:   in.ImagePost,
		AccountID:   in.AuthorID,
		AccountName: in.AuthorName,
		Categories:  in.Categories,
	}, nil
}

// Publish persists a draft with its chosen layout template. The draft is
// re-validated here: the picker round-trips it through hidden form fields, so
// the compose-step checks alone do not guarantee anything about what comes
// back.
func (s *PostService) Publish(ctx context.Context, draft models.PostDraft, templateID uint) (*models.Post, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Content = strings.TrimSpace(draft.Content)
	if draft.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if draft.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if draft.ImagePost == "" {
		return nil, models.NewValidationError("Post image is required")
	}

	if _, err := s.templateRepo.GetByID(ctx, templateID); err != nil {
		if models.IsNotFound(err) {
			return nil, models.NewValidationError("Unknown post template")
		}
		return nil, models.NewInternalError(err)
	}

	post := &models.Post{
		Title:       draft.Title,
		Content:     draft.Content,
		ImagePost:   draft.ImagePost,
		AccountID:   draft.AccountID,
		AccountName: draft.AccountName,
		Categories:  draft.Categories,
		TemplateID:  templateID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// Detail counts the view, then returns the post with its related posts.
// Every fetch counts, including the author's own.
func (s *PostService) Detail(ctx context.Context, id uint) (*models.Post, []models.Post, error) {
	if err := s.postRepo.IncrementViews(ctx, id); err != nil {
		return nil, nil, models.NewInternalError(err)
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	related, err := s.postRepo.Related(ctx, post, RelatedLimit)
	if err != nil {
		return nil, nil, models.NewInternalError(err)
	}
	return post, related, nil
}

// GetForEdit loads a post and checks the requester may modify it.
func (s *PostService) GetForEdit(ctx context.Context, id, requesterID uint, isAdmin bool) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && post.AccountID != requesterID {
		return nil, models.NewUnauthorizedError("You can only edit your own posts")
	}
	return post, nil
}

func (s *PostService) Update(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.GetForEdit(ctx, in.PostID, in.RequesterID, in.IsAdmin)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		content = strings.TrimSpace(in.AudioText)
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}

	post.Title = strings.TrimSpace(in.Title)
	post.Content = content
	if len(in.Categories) > 0 {
		post.Categories = in.Categories
	}
	if in.ImagePost != "" {
		post.ImagePost = in.ImagePost
	}
	if in.TemplateID != 0 {
		if _, err := s.templateRepo.GetByID(ctx, in.TemplateID); err != nil {
			if models.IsNotFound(err) {
				return nil, models.NewValidationError("Unknown post template")
			}
			return nil, models.NewInternalError(err)
		}
		post.TemplateID = in.TemplateID
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, id, requesterID uint, isAdmin bool) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && post.AccountID != requesterID {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, id)
}

func (s *PostService) AddComment(ctx context.Context, in CommentInput) error {
	if strings.TrimSpace(in.Comment) == "" {
		return models.NewValidationError("Comment text is required")
	}
	return s.postRepo.AppendComment(ctx, in.PostID, models.Comment{
		Username: in.Username,
		ImageURL: in.ImageURL,
		Comment:  strings.TrimSpace(in.Comment),
	})
}

// Report flags a post for moderator review. Repeated reports accumulate.
func (s *PostService) Report(ctx context.Context, id uint) error {
	return s.postRepo.IncrementReports(ctx, id)
}

// ClearReports marks a reported post as reviewed and acceptable.
func (s *PostService) ClearReports(ctx context.Context, id uint) error {
	return s.postRepo.ClearReports(ctx, id)
}

// Featured returns the most viewed post, or nil when the store is empty.
func (s *PostService) Featured(ctx context.Context) (*models.Post, error) {
	return s.postRepo.MostViewed(ctx)
}
