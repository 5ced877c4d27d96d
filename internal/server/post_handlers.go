package server

import (
	"creatorr/internal/models"
	"creatorr/internal/service"
	"creatorr/internal/session"

	"github.com/gofiber/fiber/v2"
)

// PostDetail renders a single post. Every fetch counts a view, and posts
// sharing a category fill the related strip.
func (s *Server) PostDetail(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		s.addFlash(c, session.FlashHome, "Post not found")
		return c.Redirect("/", fiber.StatusFound)
	}

	post, related, err := s.postService.Detail(c.Context(), id)
	if err != nil {
		if models.IsNotFound(err) {
			s.addFlash(c, session.FlashHome, "Post not found")
			return c.Redirect("/", fiber.StatusFound)
		}
		return err
	}

	data := s.viewData(c, session.FlashPost)
	data["post"] = post
	data["relatedPosts"] = related
	return c.Render("user/post", data)
}

// AddComment appends a comment under the signed-in user's name.
func (s *Server) AddComment(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.Redirect("/", fiber.StatusFound)
	}

	sess := s.currentSession(c)
	if sess == nil {
		return c.Redirect("/login", fiber.StatusFound)
	}

	err := s.postService.AddComment(c.Context(), service.CommentInput{
		PostID:   id,
		Username: sess.Name,
		ImageURL: sess.ImageProfile,
		Comment:  c.FormValue("comment"),
	})
	if err != nil {
		s.addFlash(c, session.FlashPost, userMessage(err))
	}
	return c.Redirect("/posts/"+c.Params("id"), fiber.StatusFound)
}

// ReportPost flags a post for moderation. Anyone may report, repeatedly.
func (s *Server) ReportPost(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.Redirect("/", fiber.StatusFound)
	}

	if err := s.postService.Report(c.Context(), id); err != nil {
		if models.IsNotFound(err) {
			s.addFlash(c, session.FlashHome, "Post not found")
			return c.Redirect("/", fiber.StatusFound)
		}
		return err
	}

	s.addFlash(c, session.FlashPost, "Post reported, our moderators will take a look")
	return c.Redirect("/posts/"+c.Params("id"), fiber.StatusFound)
}

// CreateDraft handles the compose form: validate, stash the draft in the
// template-picker page and let the author choose a layout. Nothing persists
// until the picker submits.
func (s *Server) CreateDraft(c *fiber.Ctx) error {
	sess := s.currentSession(c)

	image, err := s.saveUpload(c, "imagePost")
	if err != nil {
		return err
	}

	draft, err := s.postService.BuildDraft(service.DraftInput{
		Title:      c.FormValue("title"),
		Content:    c.FormValue("content"),
		AudioText:  c.FormValue("audioText"),
		ImagePost:  image,
		Categories: formValues(c, "categories"),
		AuthorID:   sess.UserID,
		AuthorName: sess.Name,
	})
	if err != nil {
		s.addFlash(c, session.FlashPost, userMessage(err))
		return c.Redirect("/authUser/dashboard", fiber.StatusFound)
	}

	return s.renderTemplatePicker(c, draft, 0)
}

// TemplateChoice re-opens the template picker for a post being edited.
func (s *Server) TemplateChoice(c *fiber.Ctx) error {
	sess := s.currentSession(c)

	postID, ok := formID(c, "postId")
	if !ok {
		return c.Redirect("/authUser/posts", fiber.StatusFound)
	}

	post, err := s.postService.GetForEdit(c.Context(), postID, sess.UserID, sess.IsAdmin)
	if err != nil {
		s.addFlash(c, session.FlashPost, userMessage(err))
		return c.Redirect("/authUser/posts", fiber.StatusFound)
	}

	draft := &models.PostDraft{
		Title:       post.Title,
		Content:     post.Content,
		ImagePost:   post.ImagePost,
		AccountID:   post.AccountID,
		AccountName: post.AccountName,
		Categories:  post.Categories,
	}
	return s.renderTemplatePicker(c, draft, post.ID)
}

func (s *Server) renderTemplatePicker(c *fiber.Ctx, draft *models.PostDraft, postID uint) error {
	templates, err := s.templateRepo.List(c.Context())
	if err != nil {
		return models.NewInternalError(err)
	}

	data := s.viewData(c, session.FlashPost)
	data["allTemplates"] = templates
	data["newpost"] = draft
	data["postId"] = postID
	return c.Render("authUser/template", data)
}

// PreviewTemplate is the picker's submit: publish a new draft, or restyle an
// existing post when the picker was opened from the editor.
func (s *Server) PreviewTemplate(c *fiber.Ctx) error {
	sess := s.currentSession(c)

	templateID, ok := formID(c, "templateId")
	if !ok {
		s.addFlash(c, session.FlashPost, "Please pick a template")
		return c.Redirect("/authUser/dashboard", fiber.StatusFound)
	}

	if postID, ok := formID(c, "postId"); ok {
		post, err := s.postService.GetForEdit(c.Context(), postID, sess.UserID, sess.IsAdmin)
		if err != nil {
			s.addFlash(c, session.FlashPost, userMessage(err))
			return c.Redirect("/authUser/posts", fiber.StatusFound)
		}
		if _, err := s.postService.Update(c.Context(), service.UpdatePostInput{
			PostID:      post.ID,
			RequesterID: sess.UserID,
			IsAdmin:     sess.IsAdmin,
			Title:       post.Title,
			Content:     post.Content,
			Categories:  post.Categories,
			TemplateID:  templateID,
		}); err != nil {
			s.addFlash(c, session.FlashPost, userMessage(err))
			return c.Redirect("/authUser/posts", fiber.StatusFound)
		}
		s.addFlash(c, session.FlashPost, "Post updated")
		return c.Redirect("/authUser/posts", fiber.StatusFound)
	}

	draft := models.PostDraft{
		Title:       c.FormValue("title"),
		Content:     c.FormValue("content"),
		ImagePost:   c.FormValue("imagePost"),
		AccountID:   sess.UserID,
		AccountName: sess.Name,
		Categories:  formValues(c, "categories"),
	}

	if _, err := s.postService.Publish(c.Context(), draft, templateID); err != nil {
		s.addFlash(c, session.FlashPost, userMessage(err))
		return c.Redirect("/authUser/dashboard", fiber.StatusFound)
	}

	s.addFlash(c, session.FlashPost, "Post published")
	return c.Redirect("/authUser/posts", fiber.StatusFound)
}

// EditPostPage renders the edit form for the author or the admin.
func (s *Server) EditPostPage(c *fiber.Ctx) error {
	sess := s.currentSession(c)

	id, ok := parseID(c, "id")
	if !ok {
		return c.Redirect("/authUser/posts", fiber.StatusFound)
	}

	post, err := s.postService.GetForEdit(c.Context(), id, sess.UserID, sess.IsAdmin)
	if err != nil {
		s.addFlash(c, session.FlashPost, userMessage(err))
		return c.Redirect("/authUser/posts", fiber.StatusFound)
	}

	categories, err := s.categoryRepo.List(c.Context())
	if err != nil {
		return models.NewInternalError(err)
	}

	data := s.viewData(c, session.FlashPost)
	data["post"] = post
	data["categories"] = categories
	return c.Render("authUser/edit", data)
}

// UpdatePost applies the edit form. A new upload replaces the image, no
// upload keeps it.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	sess := s.currentSession(c)

	postID, ok := formID(c, "postId")
	if !ok {
		return c.Redirect("/authUser/posts", fiber.StatusFound)
	}

	image, err := s.saveUpload(c, "imagePost")
	if err != nil {
		return err
	}

	_, err = s.postService.Update(c.Context(), service.UpdatePostInput{
		PostID:      postID,
		RequesterID: sess.UserID,
		IsAdmin:     sess.IsAdmin,
		Title:       c.FormValue("title"),
		Content:     c.FormValue("content"),
		AudioText:   c.FormValue("audioText"),
		Categories:  formValues(c, "categories"),
		ImagePost:   image,
	})
	if err != nil {
		s.addFlash(c, session.FlashPost, userMessage(err))
		return c.Redirect("/authUser/posts", fiber.StatusFound)
	}

	s.addFlash(c, session.FlashPost, "Post updated")
	return c.Redirect("/authUser/posts", fiber.StatusFound)
}

// DeletePost removes one of the signed-in user's posts.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	sess := s.currentSession(c)

	postID, ok := formID(c, "postId")
	if !ok {
		return c.Redirect("/authUser/posts", fiber.StatusFound)
	}

	if err := s.postService.Delete(c.Context(), postID, sess.UserID, sess.IsAdmin); err != nil {
		s.addFlash(c, session.FlashPost, userMessage(err))
	} else {
		s.addFlash(c, session.FlashPost, "Post deleted")
	}
	return c.Redirect("/authUser/posts", fiber.StatusFound)
}
