package service

import (
	"context"
	"testing"

	"creatorr/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testBcryptCost = bcrypt.MinCost

func registerTestUser(t *testing.T, svc *UserService, email string) *models.User {
	t.Helper()
	user, err := svc.PrepareRegistration(context.Background(), RegistrationInput{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Address:     "12 Analytical Way",
		PhoneNumber: "555-0100",
		Occupation:  "Engineer",
		Email:       email,
		Password:    "hunter22",
	})
	require.NoError(t, err)
	require.NoError(t, svc.FinalizeRegistration(context.Background(), user))
	return user
}

func TestUserService_RegistrationAndLogin(t *testing.T) {
	repos := setupRepos(t)
	svc := NewUserService(repos.users, repos.posts, testBcryptCost)
	ctx := context.Background()

	user := registerTestUser(t, svc, "ada@example.com")
	assert.NotEqual(t, "hunter22", user.Password, "password must be stored hashed")

	got, err := svc.Authenticate(ctx, "ada@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(ctx, "ada@example.com", "wrong")
	require.Error(t, err)
	wrongPass := err.Error()

	_, err = svc.Authenticate(ctx, "nobody@example.com", "hunter22")
	require.Error(t, err)
	assert.Equal(t, wrongPass, err.Error(), "unknown email and bad password look identical")
}

func TestUserService_PrepareRegistrationValidation(t *testing.T) {
	repos := setupRepos(t)
	svc := NewUserService(repos.users, repos.posts, testBcryptCost)
	ctx := context.Background()

	tests := []struct {
		name  string
		input RegistrationInput
	}{
		{"missing first name", RegistrationInput{Email: "a@b.co", Password: "hunter22"}},
		{"bad email", RegistrationInput{FirstName: "Ada", Email: "nope", Password: "hunter22"}},
		{"short password", RegistrationInput{FirstName: "Ada", Email: "a@b.co", Password: "abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PrepareRegistration(ctx, tt.input)
			require.Error(t, err)
			appErr, ok := err.(*models.AppError)
			require.True(t, ok)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}
}

func TestUserService_PrepareRegistrationDuplicateEmail(t *testing.T) {
	repos := setupRepos(t)
	svc := NewUserService(repos.users, repos.posts, testBcryptCost)

	registerTestUser(t, svc, "ada@example.com")

	_, err := svc.PrepareRegistration(context.Background(), RegistrationInput{
		FirstName: "Other", Email: "ada@example.com", Password: "hunter22",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestUserService_ChangePassword(t *testing.T) {
	repos := setupRepos(t)
	svc := NewUserService(repos.users, repos.posts, testBcryptCost)
	ctx := context.Background()

	registerTestUser(t, svc, "ada@example.com")

	require.NoError(t, svc.ChangePassword(ctx, "ada@example.com", "newsecret"))

	_, err := svc.Authenticate(ctx, "ada@example.com", "hunter22")
	assert.Error(t, err, "old password no longer works")

	_, err = svc.Authenticate(ctx, "ada@example.com", "newsecret")
	assert.NoError(t, err)

	err = svc.ChangePassword(ctx, "nobody@example.com", "newsecret")
	assert.True(t, models.IsNotFound(err))
}

func TestUserService_UpdateProfileKeepsImageWhenEmpty(t *testing.T) {
	repos := setupRepos(t)
	svc := NewUserService(repos.users, repos.posts, testBcryptCost)
	ctx := context.Background()

	user := registerTestUser(t, svc, "ada@example.com")

	_, err := svc.UpdateProfile(ctx, UpdateProfileInput{
		UserID: user.ID, FirstName: "Ada", LastName: "King",
		ImageProfile: "/images/ada.png",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, UpdateProfileInput{
		UserID: user.ID, FirstName: "Ada", LastName: "King, Countess of Lovelace",
	})
	require.NoError(t, err)
	assert.Equal(t, "/images/ada.png", updated.ImageProfile)
	assert.Equal(t, "Ada King, Countess of Lovelace", updated.DisplayName())
}

func TestUserService_DeleteAccountCascadesPosts(t *testing.T) {
	repos := setupRepos(t)
	svc := NewUserService(repos.users, repos.posts, testBcryptCost)
	ctx := context.Background()

	victim := registerTestUser(t, svc, "ada@example.com")
	keeper := registerTestUser(t, svc, "grace@example.com")

	for _, authorID := range []uint{victim.ID, victim.ID, keeper.ID} {
		require.NoError(t, repos.posts.Create(ctx, &models.Post{
			Title: "Post", Content: "c", ImagePost: "/i.png",
			AccountID: authorID, AccountName: "x",
		}))
	}

	require.NoError(t, svc.DeleteAccount(ctx, victim.ID))

	_, err := repos.users.GetByID(ctx, victim.ID)
	assert.True(t, models.IsNotFound(err))

	remaining, err := repos.posts.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, keeper.ID, remaining[0].AccountID)
}
