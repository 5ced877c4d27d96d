package server

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"creatorr/internal/middleware"
	"creatorr/internal/models"
	"creatorr/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// flashCookie identifies visitors without a login session so flash messages
// still reach them across a redirect.
const flashCookie = "flash_sid"

// currentSession resolves the visitor's session from the cookie. A cookie
// holding a token the store no longer knows is cleared so the browser stops
// presenting it.
func (s *Server) currentSession(c *fiber.Ctx) *session.Session {
	token := c.Cookies(session.CookieName)
	if token == "" {
		return nil
	}

	sess, err := s.sessions.Get(c.Context(), token)
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "session lookup failed", "error", err)
		return nil
	}
	if sess == nil {
		s.clearSessionCookie(c)
		return nil
	}

	c.Locals("userID", sess.UserID)
	return sess
}

func (s *Server) setSessionCookie(c *fiber.Ctx, token string) {
	c.Locals("sessionToken", token)
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Expires:  time.Now().Add(s.sessions.TTL()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// flashOwner returns the key flash messages are filed under: the session
// token when signed in, otherwise a per-browser cookie minted on demand. A
// session opened during this request is not in the request cookies yet, so
// its token is checked first.
func (s *Server) flashOwner(c *fiber.Ctx) string {
	if token, ok := c.Locals("sessionToken").(string); ok && token != "" {
		return token
	}
	if token := c.Cookies(session.CookieName); token != "" {
		return token
	}
	if anon := c.Cookies(flashCookie); anon != "" {
		return anon
	}
	anon := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    anon,
		Expires:  time.Now().Add(time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return anon
}

func (s *Server) addFlash(c *fiber.Ctx, bucket, message string) {
	s.flash.Add(c.Context(), s.flashOwner(c), bucket, message)
}

// requireAuth redirects anonymous visitors to the login page. Pages behind it
// never answer with an error status for missing auth.
func (s *Server) requireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if s.currentSession(c) == nil {
			return c.Redirect("/login", fiber.StatusFound)
		}
		return c.Next()
	}
}

// adminRequired admits only the reserved admin identity. Everyone else lands
// on the login page, signed in or not.
func (s *Server) adminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := s.currentSession(c)
		if sess == nil || !strings.EqualFold(sess.Email, s.config.AdminEmail) {
			return c.Redirect("/login", fiber.StatusFound)
		}
		return c.Next()
	}
}

// redirectIfSignedIn keeps signed-in users off the login and register pages.
func (s *Server) redirectIfSignedIn() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sess := s.currentSession(c); sess != nil {
			if sess.IsAdmin {
				return c.Redirect("/admin", fiber.StatusFound)
			}
			return c.Redirect("/authUser/dashboard", fiber.StatusFound)
		}
		return c.Next()
	}
}

// parsePage reads the 1-based page query parameter, defaulting and clamping
// to 1.
func parsePage(c *fiber.Ctx) int {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	return page
}

// pageSize reads the limit override, falling back to the surface's default.
func pageSize(c *fiber.Ctx, def int) int {
	limit := c.QueryInt("limit", def)
	if limit <= 0 {
		limit = def
	}
	return limit
}

// viewData builds the fields every page shares: sign-in state, the freshly
// loaded display user and the page's flash messages.
func (s *Server) viewData(c *fiber.Ctx, bucket string) fiber.Map {
	data := fiber.Map{
		"isSession": false,
		"messages":  s.flash.Consume(c.Context(), s.flashOwner(c), bucket),
	}

	if sess := s.currentSession(c); sess != nil {
		data["isSession"] = true
		user, err := s.userRepo.GetByID(c.Context(), sess.UserID)
		if err != nil {
			// account deleted underneath a live session
			middleware.Logger.WarnContext(c.UserContext(), "session user missing", "user_id", sess.UserID)
		} else {
			data["user"] = user
		}
	}
	return data
}

// saveUpload stores a multipart file field on disk and returns its public
// path. A missing field returns ("", nil), callers decide whether that is an
// error on their surface.
func (s *Server) saveUpload(c *fiber.Ctx, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}

	name := uuid.NewString() + filepath.Ext(fh.Filename)
	if err := c.SaveFile(fh, filepath.Join(s.config.UploadDir, name)); err != nil {
		return "", models.NewInternalError(err)
	}
	return "/images/" + name, nil
}

// formValues reads a repeated form field (multipart or urlencoded).
func formValues(c *fiber.Ctx, field string) []string {
	if form, err := c.MultipartForm(); err == nil && form != nil {
		if vals, ok := form.Value[field]; ok {
			return vals
		}
		return nil
	}

	var vals []string
	for _, v := range c.Request().PostArgs().PeekMulti(field) {
		vals = append(vals, string(v))
	}
	return vals
}

// parseID extracts a route parameter by name as a positive uint.
func parseID(c *fiber.Ctx, param string) (uint, bool) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// formID reads a positive uint from a form field.
func formID(c *fiber.Ctx, field string) (uint, bool) {
	id, err := strconv.Atoi(c.FormValue(field))
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
