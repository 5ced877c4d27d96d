package server

import (
	"strings"

	"creatorr/internal/models"
	"creatorr/internal/session"

	"github.com/gofiber/fiber/v2"
)

// AdminHome is the moderation landing page.
func (s *Server) AdminHome(c *fiber.Ctx) error {
	categories, err := s.categoryRepo.ListRecentFirst(c.Context())
	if err != nil {
		return models.NewInternalError(err)
	}

	data := s.viewData(c, session.FlashAdmin)
	data["categories"] = categories
	return c.Render("admin/home", data)
}

// AdminUsers lists every account.
func (s *Server) AdminUsers(c *fiber.Ctx) error {
	users, err := s.userService.List(c.Context())
	if err != nil {
		return models.NewInternalError(err)
	}

	data := s.viewData(c, session.FlashAdminUser)
	data["users"] = users
	return c.Render("admin/users", data)
}

// AdminPosts lists every post, newest first.
func (s *Server) AdminPosts(c *fiber.Ctx) error {
	posts, err := s.postRepo.ListAll(c.Context())
	if err != nil {
		return models.NewInternalError(err)
	}

	data := s.viewData(c, session.FlashAdminPost)
	data["posts"] = posts
	return c.Render("admin/posts", data)
}

// AdminDeletePost removes any post.
func (s *Server) AdminDeletePost(c *fiber.Ctx) error {
	postID, ok := formID(c, "postId")
	if !ok {
		return c.Redirect("/admin/posts", fiber.StatusFound)
	}

	if err := s.postRepo.Delete(c.Context(), postID); err != nil {
		s.addFlash(c, session.FlashAdminPost, userMessage(err))
	} else {
		s.addFlash(c, session.FlashAdminPost, "Post deleted")
	}
	return c.Redirect("/admin/posts", fiber.StatusFound)
}

// AdminDeleteAccount removes a user and all their posts. Deleting the admin's
// own reserved account is refused.
func (s *Server) AdminDeleteAccount(c *fiber.Ctx) error {
	userID, ok := formID(c, "userId")
	if !ok {
		return c.Redirect("/admin/users", fiber.StatusFound)
	}

	user, err := s.userService.GetByID(c.Context(), userID)
	if err != nil {
		s.addFlash(c, session.FlashAdminUser, userMessage(err))
		return c.Redirect("/admin/users", fiber.StatusFound)
	}
	if strings.EqualFold(user.Email, s.config.AdminEmail) {
		s.addFlash(c, session.FlashAdminUser, "The admin account cannot be deleted")
		return c.Redirect("/admin/users", fiber.StatusFound)
	}

	if err := s.userService.DeleteAccount(c.Context(), userID); err != nil {
		s.addFlash(c, session.FlashAdminUser, userMessage(err))
	} else {
		s.addFlash(c, session.FlashAdminUser, "Account and its posts deleted")
	}
	return c.Redirect("/admin/users", fiber.StatusFound)
}

// AdminCategories lists categories for moderation.
func (s *Server) AdminCategories(c *fiber.Ctx) error {
	categories, err := s.categoryRepo.ListRecentFirst(c.Context())
	if err != nil {
		return models.NewInternalError(err)
	}

	data := s.viewData(c, session.FlashAdminCategory)
	data["categories"] = categories
	return c.Render("admin/categories", data)
}

// AdminCategoryEdit renders the edit form for one category.
func (s *Server) AdminCategoryEdit(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.Redirect("/admin/categories", fiber.StatusFound)
	}

	category, err := s.categoryRepo.GetByID(c.Context(), id)
	if err != nil {
		s.addFlash(c, session.FlashAdminCategory, userMessage(err))
		return c.Redirect("/admin/categories", fiber.StatusFound)
	}

	data := s.viewData(c, session.FlashAdminCategory)
	data["category"] = category
	return c.Render("admin/editCategory", data)
}

// AdminAddCategory creates a category from name plus image upload.
func (s *Server) AdminAddCategory(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		s.addFlash(c, session.FlashAdminCategory, "Category name is required")
		return c.Redirect("/admin/categories", fiber.StatusFound)
	}

	image, err := s.saveUpload(c, "imageCategory")
	if err != nil {
		return err
	}

	if err := s.categoryRepo.Create(c.Context(), &models.Category{
		Name:     name,
		ImageURL: image,
	}); err != nil {
		s.addFlash(c, session.FlashAdminCategory, "Could not create category")
	} else {
		s.addFlash(c, session.FlashAdminCategory, "Category created")
	}
	return c.Redirect("/admin/categories", fiber.StatusFound)
}

// AdminUpdateCategory applies the category edit form.
func (s *Server) AdminUpdateCategory(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.Redirect("/admin/categories", fiber.StatusFound)
	}

	category, err := s.categoryRepo.GetByID(c.Context(), id)
	if err != nil {
		s.addFlash(c, session.FlashAdminCategory, userMessage(err))
		return c.Redirect("/admin/categories", fiber.StatusFound)
	}

	if name := strings.TrimSpace(c.FormValue("name")); name != "" {
		category.Name = name
	}
	image, err := s.saveUpload(c, "imageCategory")
	if err != nil {
		return err
	}
	if image != "" {
		category.ImageURL = image
	}

	if err := s.categoryRepo.Update(c.Context(), category); err != nil {
		s.addFlash(c, session.FlashAdminCategory, "Could not update category")
	} else {
		s.addFlash(c, session.FlashAdminCategory, "Category updated")
	}
	return c.Redirect("/admin/categories", fiber.StatusFound)
}

// AdminDeleteCategory removes a category. Posts keep the tag: the reference
// is by name and deliberately not enforced.
func (s *Server) AdminDeleteCategory(c *fiber.Ctx) error {
	id, ok := formID(c, "categoryId")
	if !ok {
		return c.Redirect("/admin/categories", fiber.StatusFound)
	}

	if err := s.categoryRepo.Delete(c.Context(), id); err != nil {
		s.addFlash(c, session.FlashAdminCategory, userMessage(err))
	} else {
		s.addFlash(c, session.FlashAdminCategory, "Category deleted")
	}
	return c.Redirect("/admin/categories", fiber.StatusFound)
}

// AdminReportedPosts lists posts with open reports, most reported first.
func (s *Server) AdminReportedPosts(c *fiber.Ctx) error {
	posts, err := s.postRepo.ListReported(c.Context())
	if err != nil {
		return models.NewInternalError(err)
	}

	data := s.viewData(c, session.FlashAdminReported)
	data["posts"] = posts
	return c.Render("admin/reported", data)
}

// AdminReportDelete upholds the reports and removes the post.
func (s *Server) AdminReportDelete(c *fiber.Ctx) error {
	postID, ok := formID(c, "postId")
	if !ok {
		return c.Redirect("/admin/reportedPosts", fiber.StatusFound)
	}

	if err := s.postRepo.Delete(c.Context(), postID); err != nil {
		s.addFlash(c, session.FlashAdminReported, userMessage(err))
	} else {
		s.addFlash(c, session.FlashAdminReported, "Reported post removed")
	}
	return c.Redirect("/admin/reportedPosts", fiber.StatusFound)
}

// AdminReportVerify dismisses the reports: the count resets to zero and the
// post stays up.
func (s *Server) AdminReportVerify(c *fiber.Ctx) error {
	postID, ok := formID(c, "postId")
	if !ok {
		return c.Redirect("/admin/reportedPosts", fiber.StatusFound)
	}

	if err := s.postService.ClearReports(c.Context(), postID); err != nil {
		s.addFlash(c, session.FlashAdminReported, userMessage(err))
	} else {
		s.addFlash(c, session.FlashAdminReported, "Post verified, reports cleared")
	}
	return c.Redirect("/admin/reportedPosts", fiber.StatusFound)
}
