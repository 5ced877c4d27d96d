package server

import (
	"creatorr/internal/middleware"
	"creatorr/internal/models"
	"creatorr/internal/repository"
	"creatorr/internal/service"
	"creatorr/internal/session"

	"github.com/gofiber/fiber/v2"
)

// Dashboard is the signed-in landing page with the compose form.
func (s *Server) Dashboard(c *fiber.Ctx) error {
	categories, err := s.categoryRepo.List(c.Context())
	if err != nil {
		return models.NewInternalError(err)
	}

	data := s.viewData(c, session.FlashHome)
	data["categories"] = categories

	// compose failures flash into the post bucket
	if msgs := s.flash.Consume(c.Context(), s.flashOwner(c), session.FlashPost); len(msgs) > 0 {
		data["messages"] = append(toStrings(data["messages"]), msgs...)
	}
	return c.Render("authUser/home", data)
}

func toStrings(v interface{}) []string {
	msgs, _ := v.([]string)
	return msgs
}

// MyPosts lists the signed-in user's own posts.
func (s *Server) MyPosts(c *fiber.Ctx) error {
	sess := s.currentSession(c)
	page := parsePage(c)
	limit := pageSize(c, myPostsPageSize)

	posts, totalPages, err := s.postService.Feed(c.Context(), repository.PostQuery{
		AuthorID: sess.UserID, Page: page, PerPage: limit,
	})
	if err != nil {
		return err
	}

	data := s.viewData(c, session.FlashPost)
	data["posts"] = posts
	data["totalPages"] = totalPages
	data["currentPage"] = page
	return c.Render("authUser/posts", data)
}

// MyPostsSearch searches within the signed-in user's posts.
func (s *Server) MyPostsSearch(c *fiber.Ctx) error {
	sess := s.currentSession(c)
	term := c.Query("search")
	page := parsePage(c)
	limit := pageSize(c, myPostsPageSize)

	posts, totalPages, err := s.postService.Feed(c.Context(), repository.PostQuery{
		AuthorID: sess.UserID, Search: term, Page: page, PerPage: limit,
	})
	if err != nil {
		return err
	}

	data := s.viewData(c, session.FlashPost)
	data["posts"] = posts
	data["totalPages"] = totalPages
	data["currentPage"] = page
	data["searchTerm"] = term
	return c.Render("authUser/posts", data)
}

// ProfilePage renders the signed-in user's profile form.
func (s *Server) ProfilePage(c *fiber.Ctx) error {
	return c.Render("authUser/profile", s.viewData(c, session.FlashProfile))
}

// UpdateProfile applies the profile form. A new upload replaces the profile
// picture, no upload keeps it.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	sess := s.currentSession(c)

	image, err := s.saveUpload(c, "imageProfile")
	if err != nil {
		return err
	}

	_, err = s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:       sess.UserID,
		FirstName:    c.FormValue("firstName"),
		LastName:     c.FormValue("lastName"),
		Address:      c.FormValue("address"),
		PhoneNumber:  c.FormValue("phoneNumber"),
		Occupation:   c.FormValue("occupation"),
		ImageProfile: image,
	})
	if err != nil {
		s.addFlash(c, session.FlashProfile, userMessage(err))
		return c.Redirect("/authUser/profile", fiber.StatusFound)
	}

	// pages re-load the display user by id, so the session snapshot may lag
	// until the next login

	s.addFlash(c, session.FlashProfile, "Profile updated")
	return c.Redirect("/authUser/profile", fiber.StatusFound)
}

// DeleteAccount removes the account and all its posts, then signs out.
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	sess := s.currentSession(c)

	if err := s.userService.DeleteAccount(c.Context(), sess.UserID); err != nil {
		s.addFlash(c, session.FlashProfile, userMessage(err))
		return c.Redirect("/authUser/profile", fiber.StatusFound)
	}

	if err := s.sessions.Destroy(c.Context(), c.Cookies(session.CookieName)); err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "session destroy failed", "error", err)
	}
	s.clearSessionCookie(c)
	return c.Redirect("/", fiber.StatusFound)
}
