package server

import (
	"creatorr/internal/mailer"
	"creatorr/internal/middleware"
	"creatorr/internal/models"
	"creatorr/internal/repository"
	"creatorr/internal/session"

	"github.com/gofiber/fiber/v2"
)

// Default page sizes per surface. The limit query parameter overrides them.
const (
	feedPageSize    = 4
	searchPageSize  = 8
	myPostsPageSize = 2
)

// Home renders the global feed: newest posts, the category strip and the
// most-viewed post as the feature slot.
func (s *Server) Home(c *fiber.Ctx) error {
	page := parsePage(c)
	limit := pageSize(c, feedPageSize)

	posts, totalPages, err := s.postService.Feed(c.Context(), repository.PostQuery{
		Page: page, PerPage: limit,
	})
	if err != nil {
		return err
	}

	categories, err := s.categoryRepo.List(c.Context())
	if err != nil {
		return models.NewInternalError(err)
	}

	featured, err := s.postService.Featured(c.Context())
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "featured post lookup failed", "error", err)
	}

	data := s.viewData(c, session.FlashHome)
	data["posts"] = posts
	data["totalPages"] = totalPages
	data["currentPage"] = page
	data["categories"] = categories
	data["featuredPost"] = featured
	return c.Render("user/home", data)
}

// Categories renders the category index page.
func (s *Server) Categories(c *fiber.Ctx) error {
	categories, err := s.categoryRepo.List(c.Context())
	if err != nil {
		return models.NewInternalError(err)
	}

	data := s.viewData(c, session.FlashHome)
	data["categories"] = categories
	return c.Render("user/categories", data)
}

// CategoryFeed renders one category's posts.
func (s *Server) CategoryFeed(c *fiber.Ctx) error {
	name := c.Params("name")
	page := parsePage(c)
	limit := pageSize(c, feedPageSize)

	posts, totalPages, err := s.postService.Feed(c.Context(), repository.PostQuery{
		Category: name, Page: page, PerPage: limit,
	})
	if err != nil {
		return err
	}

	data := s.viewData(c, session.FlashHome)
	data["posts"] = posts
	data["totalPages"] = totalPages
	data["currentPage"] = page
	data["name"] = name
	return c.Render("user/category", data)
}

// CategorySearch searches within one category.
func (s *Server) CategorySearch(c *fiber.Ctx) error {
	name := c.Params("name")
	term := c.Query("search")
	page := parsePage(c)
	limit := pageSize(c, searchPageSize)

	posts, totalPages, err := s.postService.Feed(c.Context(), repository.PostQuery{
		Category: name, Search: term, Page: page, PerPage: limit,
	})
	if err != nil {
		return err
	}

	data := s.viewData(c, session.FlashHome)
	data["posts"] = posts
	data["totalPages"] = totalPages
	data["currentPage"] = page
	data["name"] = name
	data["searchTerm"] = term
	return c.Render("user/category", data)
}

// Search is the site-wide free-text search. An empty term shows everything.
func (s *Server) Search(c *fiber.Ctx) error {
	term := c.Query("search")
	page := parsePage(c)
	limit := pageSize(c, searchPageSize)

	posts, totalPages, err := s.postService.Feed(c.Context(), repository.PostQuery{
		Search: term, Page: page, PerPage: limit,
	})
	if err != nil {
		return err
	}

	data := s.viewData(c, session.FlashHome)
	data["posts"] = posts
	data["totalPages"] = totalPages
	data["currentPage"] = page
	data["searchTerm"] = term
	return c.Render("user/search", data)
}

// About renders the static about page.
func (s *Server) About(c *fiber.Ctx) error {
	return c.Render("user/about", s.viewData(c, session.FlashHome))
}

// ContactPage renders the contact form.
func (s *Server) ContactPage(c *fiber.Ctx) error {
	return c.Render("user/contact", s.viewData(c, session.FlashContact))
}

// ContactSend forwards a contact-form message to the site inbox.
func (s *Server) ContactSend(c *fiber.Ctx) error {
	name := c.FormValue("name")
	email := c.FormValue("email")
	message := c.FormValue("message")

	if message == "" {
		s.addFlash(c, session.FlashContact, "Please write a message")
		return c.Redirect("/contact", fiber.StatusFound)
	}

	body := "From: " + name + " <" + email + ">\n\n" + message
	mailer.SendAsync(s.mail, s.config.ContactInbox, "Creatorr contact form", body)

	s.addFlash(c, session.FlashContact, "Thanks, we received your message")
	return c.Redirect("/contact", fiber.StatusFound)
}
