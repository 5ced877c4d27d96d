package server

import (
	"strings"

	"creatorr/internal/mailer"
	"creatorr/internal/middleware"
	"creatorr/internal/models"
	"creatorr/internal/otp"
	"creatorr/internal/service"
	"creatorr/internal/session"

	"github.com/gofiber/fiber/v2"
)

// LoginPage renders the sign-in form.
func (s *Server) LoginPage(c *fiber.Ctx) error {
	return c.Render("user/login", s.viewData(c, session.FlashLogin))
}

// Login checks credentials and opens a session. Failures land back on the
// login page with a flash message, never an error status.
func (s *Server) Login(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")

	user, err := s.userService.Authenticate(c.Context(), email, password)
	if err != nil {
		s.addFlash(c, session.FlashLogin, "Invalid email or password!!")
		return c.Redirect("/login", fiber.StatusFound)
	}

	if err := s.openSession(c, user); err != nil {
		s.addFlash(c, session.FlashLogin, "Could not sign you in, please try again")
		return c.Redirect("/login", fiber.StatusFound)
	}

	if strings.EqualFold(user.Email, s.config.AdminEmail) {
		return c.Redirect("/admin", fiber.StatusFound)
	}
	return c.Redirect("/authUser/dashboard", fiber.StatusFound)
}

// openSession stores a session snapshot for the user and sets the cookie.
func (s *Server) openSession(c *fiber.Ctx, user *models.User) error {
	token, err := s.sessions.Create(c.Context(), session.Session{
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.DisplayName(),
		ImageProfile: user.ImageProfile,
		IsAdmin:      strings.EqualFold(user.Email, s.config.AdminEmail),
	})
	if err != nil {
		return err
	}
	s.setSessionCookie(c, token)
	return nil
}

// Logout destroys the session and returns to the public home page.
func (s *Server) Logout(c *fiber.Ctx) error {
	token := c.Cookies(session.CookieName)
	if token != "" {
		if err := s.sessions.Destroy(c.Context(), token); err != nil {
			middleware.Logger.ErrorContext(c.UserContext(), "session destroy failed", "error", err)
		}
		s.clearSessionCookie(c)
	}
	return c.Redirect("/", fiber.StatusFound)
}

// RegisterPage renders the sign-up form.
func (s *Server) RegisterPage(c *fiber.Ctx) error {
	return c.Render("user/register", s.viewData(c, session.FlashRegister))
}

// Register validates the sign-up form, emails a verification code and renders
// the code-entry page. The account is not created yet: the profile fields ride
// along as hidden form fields, password already hashed.
func (s *Server) Register(c *fiber.Ctx) error {
	usernew, err := s.userService.PrepareRegistration(c.Context(), service.RegistrationInput{
		FirstName:   c.FormValue("firstName"),
		LastName:    c.FormValue("lastName"),
		Address:     c.FormValue("address"),
		PhoneNumber: c.FormValue("phoneNumber"),
		Occupation:  c.FormValue("occupation"),
		Email:       c.FormValue("email"),
		Password:    c.FormValue("password"),
	})
	if err != nil {
		if appErr, ok := err.(*models.AppError); ok && strings.Contains(appErr.Message, "already exists") {
			s.addFlash(c, session.FlashLogin, "An account with this email already exists, please log in")
			return c.Redirect("/login", fiber.StatusFound)
		}
		s.addFlash(c, session.FlashRegister, userMessage(err))
		return c.Redirect("/register", fiber.StatusFound)
	}

	return s.sendRegisterOTP(c, usernew)
}

// ResendRegisterOTP re-issues a code for a registration already in flight,
// reading the profile back out of the hidden fields.
func (s *Server) ResendRegisterOTP(c *fiber.Ctx) error {
	usernew := userFromHiddenFields(c)
	if usernew.Email == "" {
		s.addFlash(c, session.FlashRegister, "Please fill in the registration form first")
		return c.Redirect("/register", fiber.StatusFound)
	}
	return s.sendRegisterOTP(c, usernew)
}

func (s *Server) sendRegisterOTP(c *fiber.Ctx, usernew *models.User) error {
	code, err := otp.Generate()
	if err != nil {
		return models.NewInternalError(err)
	}

	mailer.SendAsync(s.mail, usernew.Email, "Creatorr email verification",
		"Your verification code is "+code)

	data := s.viewData(c, session.FlashRegister)
	data["otp"] = code
	data["usernew"] = usernew
	data["email"] = usernew.Email
	return c.Render("user/otp", data)
}

// OTPCheck finalizes registration: a matching code persists the account and
// signs the new user straight in.
func (s *Server) OTPCheck(c *fiber.Ctx) error {
	entered := strings.TrimSpace(c.FormValue("otp"))
	expected := c.FormValue("expectedOtp")

	if entered == "" || entered != expected {
		s.addFlash(c, session.FlashRegister, "Invalid verification code, please register again")
		return c.Redirect("/register", fiber.StatusFound)
	}

	usernew := userFromHiddenFields(c)
	if err := s.userService.FinalizeRegistration(c.Context(), usernew); err != nil {
		s.addFlash(c, session.FlashRegister, "Could not create your account, please try again")
		return c.Redirect("/register", fiber.StatusFound)
	}

	if err := s.openSession(c, usernew); err != nil {
		s.addFlash(c, session.FlashLogin, "Account created, please log in")
		return c.Redirect("/login", fiber.StatusFound)
	}

	s.addFlash(c, session.FlashHome, "Welcome to Creatorr!")
	return c.Redirect("/authUser/dashboard", fiber.StatusFound)
}

// userFromHiddenFields rebuilds the pending registration carried through the
// verification round-trip. The password field already holds the bcrypt hash.
func userFromHiddenFields(c *fiber.Ctx) *models.User {
	return &models.User{
		FirstName:   c.FormValue("firstName"),
		LastName:    c.FormValue("lastName"),
		Address:     c.FormValue("address"),
		PhoneNumber: c.FormValue("phoneNumber"),
		Occupation:  c.FormValue("occupation"),
		Email:       strings.ToLower(strings.TrimSpace(c.FormValue("email"))),
		Password:    c.FormValue("password"),
	}
}

// ResetPasswordPage renders the forgot-password email form.
func (s *Server) ResetPasswordPage(c *fiber.Ctx) error {
	return c.Render("user/resetPass", s.viewData(c, session.FlashLogin))
}

// EmailVerify starts a password reset: a known email gets a code and the
// code-plus-new-password page.
func (s *Server) EmailVerify(c *fiber.Ctx) error {
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))

	user, err := s.userService.GetByEmail(c.Context(), email)
	if err != nil {
		return models.NewInternalError(err)
	}
	if user == nil {
		s.addFlash(c, session.FlashLogin, "No account found for that email")
		return c.Redirect("/resetPass", fiber.StatusFound)
	}

	code, err := otp.Generate()
	if err != nil {
		return models.NewInternalError(err)
	}

	mailer.SendAsync(s.mail, email, "Creatorr password reset",
		"Your password reset code is "+code)

	data := s.viewData(c, session.FlashLogin)
	data["otp"] = code
	data["email"] = email
	return c.Render("user/passOtp", data)
}

// PasswordReset completes the reset: code must match, the two password fields
// must agree, and the account must still exist.
func (s *Server) PasswordReset(c *fiber.Ctx) error {
	entered := strings.TrimSpace(c.FormValue("otp"))
	expected := c.FormValue("expectedOtp")
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	newPassword := c.FormValue("newPassword")
	confirm := c.FormValue("confirmPassword")

	if entered == "" || entered != expected {
		s.addFlash(c, session.FlashLogin, "Invalid reset code")
		return c.Redirect("/resetPass", fiber.StatusFound)
	}
	if newPassword != confirm {
		s.addFlash(c, session.FlashLogin, "Passwords do not match")
		return c.Redirect("/resetPass", fiber.StatusFound)
	}

	if err := s.userService.ChangePassword(c.Context(), email, newPassword); err != nil {
		if models.IsNotFound(err) {
			s.addFlash(c, session.FlashLogin, "No account found for that email")
		} else {
			s.addFlash(c, session.FlashLogin, userMessage(err))
		}
		return c.Redirect("/resetPass", fiber.StatusFound)
	}

	s.addFlash(c, session.FlashLogin, "Password updated, please log in")
	return c.Redirect("/login", fiber.StatusFound)
}

// userMessage extracts the user-facing part of an error.
func userMessage(err error) string {
	if appErr, ok := err.(*models.AppError); ok {
		return appErr.Message
	}
	return "Something went wrong, please try again"
}
