package server

import (
	"net/http"
	"net/url"
	"regexp"
	"testing"

	"creatorr/internal/models"
	"creatorr/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var otpPattern = regexp.MustCompile(`\b1\d{3}\b`)

func TestLogin(t *testing.T) {
	env := setupEnv(t)
	env.createUser(t, "ada@example.com", "hunter22")

	t.Run("wrong password bounces back to login", func(t *testing.T) {
		resp := env.postForm(t, "/login", url.Values{
			"email":    {"ada@example.com"},
			"password": {"wrong"},
		}, "")
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
	})

	t.Run("unknown email bounces back to login", func(t *testing.T) {
		resp := env.postForm(t, "/login", url.Values{
			"email":    {"nobody@example.com"},
			"password": {"hunter22"},
		}, "")
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
	})

	t.Run("valid credentials open a session", func(t *testing.T) {
		token := env.login(t, "ada@example.com", "hunter22")
		sess := env.sessionFor(t, token)
		require.NotNil(t, sess)
		assert.Equal(t, "ada@example.com", sess.Email)
		assert.False(t, sess.IsAdmin)
	})

	t.Run("failure flash shows on the login page once", func(t *testing.T) {
		resp := env.postForm(t, "/login", url.Values{
			"email":    {"ada@example.com"},
			"password": {"wrong"},
		}, "")
		var flashToken string
		for _, c := range resp.Cookies() {
			if c.Name == flashCookie {
				flashToken = c.Value
			}
		}
		require.NotEmpty(t, flashToken)

		first := env.getWithFlash(t, "/login", flashToken)
		assert.Contains(t, first, "Invalid email or password!!")

		second := env.getWithFlash(t, "/login", flashToken)
		assert.NotContains(t, second, "Invalid email or password!!")
	})
}

func TestLoginRedirectsWhenSignedIn(t *testing.T) {
	env := setupEnv(t)
	env.createUser(t, "ada@example.com", "hunter22")
	token := env.login(t, "ada@example.com", "hunter22")

	resp := env.get(t, "/login", token)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/authUser/dashboard", resp.Header.Get("Location"))

	resp = env.get(t, "/register", token)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/authUser/dashboard", resp.Header.Get("Location"))
}

func TestAdminLoginLandsOnAdmin(t *testing.T) {
	env := setupEnv(t)
	env.createUser(t, "admin@admin.com", "hunter22")

	resp := env.postForm(t, "/login", url.Values{
		"email":    {"admin@admin.com"},
		"password": {"hunter22"},
	}, "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))
}

func TestLogout(t *testing.T) {
	env := setupEnv(t)
	env.createUser(t, "ada@example.com", "hunter22")
	token := env.login(t, "ada@example.com", "hunter22")

	resp := env.get(t, "/logout", token)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	assert.Nil(t, env.sessionFor(t, token), "session destroyed server-side")
}

func TestStaleSessionCookieIsCleared(t *testing.T) {
	env := setupEnv(t)

	resp := env.get(t, "/", "token-nobody-issued")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cleared := false
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName && c.Value == "" {
			cleared = true
		}
	}
	assert.True(t, cleared, "stale cookie should be cleared in the response")
}

func TestRegistrationOTPFlow(t *testing.T) {
	env := setupEnv(t)

	resp := env.postForm(t, "/register", url.Values{
		"firstName":   {"Grace"},
		"lastName":    {"Hopper"},
		"address":     {"1 Navy Way"},
		"phoneNumber": {"555-0199"},
		"occupation":  {"Rear Admiral"},
		"email":       {"grace@example.com"},
		"password":    {"hunter22"},
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, "OTP page renders inline")

	page := body(t, resp)
	mail := env.mail.waitForMail(t)
	assert.Equal(t, "grace@example.com", mail.To)

	code := otpPattern.FindString(mail.Body)
	require.NotEmpty(t, code, "mail carries the code")
	assert.Contains(t, page, code, "page carries the same code in its hidden field")

	var count int64
	env.db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(0), count, "no account before verification")

	hidden := url.Values{
		"otp":         {code},
		"expectedOtp": {code},
		"firstName":   {"Grace"},
		"lastName":    {"Hopper"},
		"address":     {"1 Navy Way"},
		"phoneNumber": {"555-0199"},
		"occupation":  {"Rear Admiral"},
		"email":       {"grace@example.com"},
		"password":    {hashedFieldFrom(t, page)},
	}
	resp = env.postForm(t, "/otpCheck", hidden, "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/authUser/dashboard", resp.Header.Get("Location"))

	env.db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count, "exactly one account created")

	var sessToken string
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			sessToken = c.Value
		}
	}
	require.NotEmpty(t, sessToken, "verification signs the user in")
	sess := env.sessionFor(t, sessToken)
	require.NotNil(t, sess)
	assert.Equal(t, "grace@example.com", sess.Email)

	page = body(t, env.get(t, "/authUser/dashboard", sessToken))
	assert.Contains(t, page, "Welcome to Creatorr!", "greeting flash reaches the first signed-in page")
}

// hashedFieldFrom pulls the hidden password hash out of the rendered OTP page.
func hashedFieldFrom(t *testing.T, page string) string {
	t.Helper()
	m := regexp.MustCompile(`name="password" value="([^"]+)"`).FindStringSubmatch(page)
	require.Len(t, m, 2)
	return m[1]
}

func TestRegistrationOTPMismatch(t *testing.T) {
	env := setupEnv(t)

	resp := env.postForm(t, "/otpCheck", url.Values{
		"otp":         {"1234"},
		"expectedOtp": {"1999"},
		"firstName":   {"Grace"},
		"email":       {"grace@example.com"},
		"password":    {"$2a$04$fakehash"},
	}, "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/register", resp.Header.Get("Location"))

	var count int64
	env.db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(0), count, "mismatch creates no account")
}

func TestRegisterDuplicateEmailGoesToLogin(t *testing.T) {
	env := setupEnv(t)
	env.createUser(t, "ada@example.com", "hunter22")

	resp := env.postForm(t, "/register", url.Values{
		"firstName": {"Ada"},
		"email":     {"ada@example.com"},
		"password":  {"hunter22"},
	}, "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestPasswordReset(t *testing.T) {
	env := setupEnv(t)
	env.createUser(t, "ada@example.com", "hunter22")

	t.Run("unknown email bounces", func(t *testing.T) {
		resp := env.postForm(t, "/emailVerify", url.Values{
			"email": {"nobody@example.com"},
		}, "")
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/resetPass", resp.Header.Get("Location"))
	})

	t.Run("full reset flow", func(t *testing.T) {
		resp := env.postForm(t, "/emailVerify", url.Values{
			"email": {"ada@example.com"},
		}, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		mail := env.mail.waitForMail(t)
		code := otpPattern.FindString(mail.Body)
		require.NotEmpty(t, code)

		// confirmation mismatch keeps the old password
		resp = env.postForm(t, "/passwordReset", url.Values{
			"otp":             {code},
			"expectedOtp":     {code},
			"email":           {"ada@example.com"},
			"newPassword":     {"newsecret"},
			"confirmPassword": {"different"},
		}, "")
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/resetPass", resp.Header.Get("Location"))
		env.login(t, "ada@example.com", "hunter22")

		// matching confirmation updates it
		resp = env.postForm(t, "/passwordReset", url.Values{
			"otp":             {code},
			"expectedOtp":     {code},
			"email":           {"ada@example.com"},
			"newPassword":     {"newsecret"},
			"confirmPassword": {"newsecret"},
		}, "")
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))

		env.login(t, "ada@example.com", "newsecret")
	})
}
