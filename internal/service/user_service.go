package service

import (
	"context"
	"strings"

	"creatorr/internal/models"
	"creatorr/internal/repository"
	"creatorr/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
	bcryptCost int
}

// RegistrationInput is the sign-up form. The password arrives in plain text
// here and leaves hashed: only the hash rides through the OTP round-trip.
type RegistrationInput struct {
	FirstName   string
	LastName    string
	Address     string
	PhoneNumber string
	Occupation  string
	Email       string
	Password    string
}

type UpdateProfileInput struct {
	UserID       uint
	FirstName    string
	LastName     string
	Address      string
	PhoneNumber  string
	Occupation   string
	ImageProfile string // empty keeps the current picture
}

func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository, bcryptCost int) *UserService {
	return &UserService{
		userRepo:   userRepo,
		postRepo:   postRepo,
		bcryptCost: bcryptCost,
	}
}

// Authenticate verifies credentials. Unknown email and wrong password return
// the same error so the login page never reveals which one failed.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid email or password!!")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, models.NewUnauthorizedError("Invalid email or password!!")
	}
	return user, nil
}

// PrepareRegistration validates the sign-up form and returns the user record
// to carry through email verification. The record is not persisted until the
// visitor proves they own the mailbox.
func (s *UserService) PrepareRegistration(ctx context.Context, in RegistrationInput) (*models.User, error) {
	if err := validation.ValidateName(in.FirstName); err != nil {
		return nil, models.NewValidationError("First name is required")
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if existing != nil {
		return nil, models.NewValidationError("An account with this email already exists")
	}

	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &models.User{
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Address:     in.Address,
		PhoneNumber: in.PhoneNumber,
		Occupation:  in.Occupation,
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Password:    hash,
	}, nil
}

// FinalizeRegistration persists a user whose email has been verified.
// The password field already holds a bcrypt hash.
func (s *UserService) FinalizeRegistration(ctx context.Context, user *models.User) error {
	if err := s.userRepo.Create(ctx, user); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.userRepo.GetByEmail(ctx, email)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateName(in.FirstName); err != nil {
		return nil, models.NewValidationError("First name is required")
	}

	user.FirstName = strings.TrimSpace(in.FirstName)
	user.LastName = strings.TrimSpace(in.LastName)
	user.Address = in.Address
	user.PhoneNumber = in.PhoneNumber
	user.Occupation = in.Occupation
	if in.ImageProfile != "" {
		user.ImageProfile = in.ImageProfile
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// ChangePassword hashes and stores a new password for the given email.
func (s *UserService) ChangePassword(ctx context.Context, email, newPassword string) error {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return models.NewValidationError(err.Error())
	}
	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return models.NewInternalError(err)
	}
	return s.userRepo.UpdatePassword(ctx, email, hash)
}

// DeleteAccount removes the user and every post they authored. Posts go
// first so a failure never leaves orphaned posts behind a deleted account.
func (s *UserService) DeleteAccount(ctx context.Context, id uint) error {
	if err := s.postRepo.DeleteByAuthor(ctx, id); err != nil {
		return models.NewInternalError(err)
	}
	return s.userRepo.Delete(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *UserService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
