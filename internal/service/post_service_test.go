package service

import (
	"context"
	"fmt"
	"testing"

	"creatorr/internal/models"
	"creatorr/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTemplate(t *testing.T, repos testRepos) uint {
	t.Helper()
	// templates are seed data, insert directly
	tpl := models.Template{Name: "classic", Image: "/images/templates/classic.png"}
	require.NoError(t, repos.db.Create(&tpl).Error)
	return tpl.ID
}

func TestPostService_BuildDraft(t *testing.T) {
	svc := NewPostService(nil, nil)

	t.Run("content falls back to dictated text", func(t *testing.T) {
		draft, err := svc.BuildDraft(DraftInput{
			Title:     "My Day",
			AudioText: "today I planted tomatoes",
			ImagePost: "/images/p.png",
		})
		require.NoError(t, err)
		assert.Equal(t, "today I planted tomatoes", draft.Content)
	})

	t.Run("typed content wins over dictation", func(t *testing.T) {
		draft, err := svc.BuildDraft(DraftInput{
			Title:     "My Day",
			Content:   "typed",
			AudioText: "spoken",
			ImagePost: "/images/p.png",
		})
		require.NoError(t, err)
		assert.Equal(t, "typed", draft.Content)
	})

	t.Run("missing image is rejected", func(t *testing.T) {
		_, err := svc.BuildDraft(DraftInput{Title: "My Day", Content: "text"})
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	})

	t.Run("missing title is rejected", func(t *testing.T) {
		_, err := svc.BuildDraft(DraftInput{Content: "text", ImagePost: "/images/p.png"})
		assert.Error(t, err)
	})

	t.Run("missing content and dictation is rejected", func(t *testing.T) {
		_, err := svc.BuildDraft(DraftInput{Title: "My Day", ImagePost: "/images/p.png"})
		assert.Error(t, err)
	})
}

func TestPostService_PublishPersistsDraftWithTemplate(t *testing.T) {
	repos := setupRepos(t)
	svc := NewPostService(repos.posts, repos.templates)
	ctx := context.Background()

	templateID := seedTemplate(t, repos)

	draft, err := svc.BuildDraft(DraftInput{
		Title:      "My Day",
		Content:    "some content",
		ImagePost:  "/images/post.png",
		Categories: []string{"Tech"},
		AuthorID:   1,
		AuthorName: "Ada Lovelace",
	})
	require.NoError(t, err)

	post, err := svc.Publish(ctx, *draft, templateID)
	require.NoError(t, err)
	require.NotZero(t, post.ID)

	got, err := repos.posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "My Day", got.Title)
	assert.Equal(t, templateID, got.TemplateID)
	assert.Equal(t, "Ada Lovelace", got.AccountName)
	assert.Equal(t, []string{"Tech"}, got.Categories)
}

func TestPostService_PublishValidatesDraft(t *testing.T) {
	repos := setupRepos(t)
	svc := NewPostService(repos.posts, repos.templates)
	ctx := context.Background()

	templateID := seedTemplate(t, repos)

	complete := models.PostDraft{
		Title: "My Day", Content: "text", ImagePost: "/images/p.png",
		AccountID: 1, AccountName: "Ada Lovelace",
	}

	for name, strip := range map[string]func(*models.PostDraft){
		"missing title":   func(d *models.PostDraft) { d.Title = " " },
		"missing content": func(d *models.PostDraft) { d.Content = "" },
		"missing image":   func(d *models.PostDraft) { d.ImagePost = "" },
	} {
		t.Run(name, func(t *testing.T) {
			draft := complete
			strip(&draft)
			_, err := svc.Publish(ctx, draft, templateID)
			require.Error(t, err)
			appErr, ok := err.(*models.AppError)
			require.True(t, ok)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}

	_, total, err := repos.posts.List(ctx, repository.PostQuery{Page: 1, PerPage: 4})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPostService_PublishRejectsUnknownTemplate(t *testing.T) {
	repos := setupRepos(t)
	svc := NewPostService(repos.posts, repos.templates)

	draft := models.PostDraft{
		Title: "My Day", Content: "text", ImagePost: "/images/p.png",
		AccountID: 1, AccountName: "Ada Lovelace",
	}
	_, err := svc.Publish(context.Background(), draft, 42)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestPostService_DetailCountsEveryView(t *testing.T) {
	repos := setupRepos(t)
	svc := NewPostService(repos.posts, repos.templates)
	ctx := context.Background()

	post := &models.Post{
		Title: "My Day", Content: "text", ImagePost: "/images/p.png",
		AccountID: 1, AccountName: "Ada Lovelace", Categories: []string{"Tech"},
	}
	require.NoError(t, repos.posts.Create(ctx, post))

	for i := 0; i < 3; i++ {
		got, _, err := svc.Detail(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), got.ViewsCount)
	}
}

func TestPostService_DetailUnknownPost(t *testing.T) {
	repos := setupRepos(t)
	svc := NewPostService(repos.posts, repos.templates)

	_, _, err := svc.Detail(context.Background(), 9999)
	assert.True(t, models.IsNotFound(err))
}

func TestPostService_DetailRelatedShareCategory(t *testing.T) {
	repos := setupRepos(t)
	svc := NewPostService(repos.posts, repos.templates)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		cats := []string{"Tech"}
		if i == 5 {
			cats = []string{"Life"}
		}
		require.NoError(t, repos.posts.Create(ctx, &models.Post{
			Title: fmt.Sprintf("Post %d", i), Content: "c", ImagePost: "/i.png",
			AccountID: 1, AccountName: "Ada", Categories: cats,
		}))
	}

	first, _, err := repos.posts.List(ctx, repository.PostQuery{Page: 1, PerPage: 1})
	require.NoError(t, err)

	_, related, err := svc.Detail(ctx, first[0].ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(related), RelatedLimit)
	for _, p := range related {
		assert.NotEqual(t, first[0].ID, p.ID)
	}
}

func TestPostService_OwnershipChecks(t *testing.T) {
	repos := setupRepos(t)
	svc := NewPostService(repos.posts, repos.templates)
	ctx := context.Background()

	post := &models.Post{
		Title: "Mine", Content: "text", ImagePost: "/i.png",
		AccountID: 1, AccountName: "Ada Lovelace",
	}
	require.NoError(t, repos.posts.Create(ctx, post))

	t.Run("stranger cannot edit", func(t *testing.T) {
		_, err := svc.GetForEdit(ctx, post.ID, 2, false)
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "UNAUTHORIZED", appErr.Code)
	})

	t.Run("admin can edit anyone's post", func(t *testing.T) {
		got, err := svc.GetForEdit(ctx, post.ID, 2, true)
		require.NoError(t, err)
		assert.Equal(t, post.ID, got.ID)
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		err := svc.Delete(ctx, post.ID, 2, false)
		assert.Error(t, err)
	})

	t.Run("owner can delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, post.ID, 1, false))
		_, err := repos.posts.GetByID(ctx, post.ID)
		assert.True(t, models.IsNotFound(err))
	})
}

func TestPostService_ReportLifecycle(t *testing.T) {
	repos := setupRepos(t)
	svc := NewPostService(repos.posts, repos.templates)
	ctx := context.Background()

	post := &models.Post{
		Title: "Spicy", Content: "text", ImagePost: "/i.png",
		AccountID: 1, AccountName: "Ada Lovelace",
	}
	require.NoError(t, repos.posts.Create(ctx, post))

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Report(ctx, post.ID))
	}
	got, err := repos.posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ReportCount)

	require.NoError(t, svc.ClearReports(ctx, post.ID))
	got, err = repos.posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.ReportCount)

	assert.True(t, models.IsNotFound(svc.Report(ctx, 9999)))
}

func TestPostService_FeedTotalPages(t *testing.T) {
	repos := setupRepos(t)
	svc := NewPostService(repos.posts, repos.templates)
	ctx := context.Background()

	for i := 0; i < 9; i++ {
		require.NoError(t, repos.posts.Create(ctx, &models.Post{
			Title: fmt.Sprintf("Post %d", i), Content: "c", ImagePost: "/i.png",
			AccountID: 1, AccountName: "Ada",
		}))
	}

	posts, totalPages, err := svc.Feed(ctx, repository.PostQuery{Page: 1, PerPage: 4})
	require.NoError(t, err)
	assert.Len(t, posts, 4)
	assert.Equal(t, 3, totalPages)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 4))
	assert.Equal(t, 1, TotalPages(4, 4))
	assert.Equal(t, 2, TotalPages(5, 4))
	assert.Equal(t, 3, TotalPages(9, 4))
	assert.Equal(t, 0, TotalPages(10, 0))
}
