package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hiyona/orgflow-api/internal/constants"
	"github.com/hiyona/orgflow-api/internal/models"
	"github.com/hiyona/orgflow-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already in use")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrNameRequired         = errors.New("name is required")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateOrg    = errors.New("failed to create organization")
	ErrFailedToCreateUser   = errors.New("failed to create user")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// SignupInput represents the required information to create a new account.
type SignupInput struct {
	Name             string
	Email            string
	Password         string
	OrganizationName string
}

// Signup creates a new organization along with its first admin user. The
// two writes are a single transaction: a signup either fully exists or not
// at all.
func (s *AuthService) Signup(input SignupInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	exists, err := s.userRepo.ExistsByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	orgName := strings.TrimSpace(input.OrganizationName)
	if orgName == "" {
		orgName = fmt.Sprintf("%s's Organization", name)
	}

	org := &models.Organization{
		Name: orgName,
	}

	user := &models.User{
		Name:               name,
		Email:              email,
		PasswordHash:       string(hashedPassword),
		Role:               models.RoleAdmin,
		EmailNotifications: true,
	}

	if err := s.userRepo.CreateWithOrganization(user, org); err != nil {
		switch {
		case errors.Is(err, repository.ErrCreateOrganization):
			return nil, ErrFailedToCreateOrg
		case errors.Is(err, repository.ErrCreateUser):
			return nil, ErrFailedToCreateUser
		default:
			return nil, fmt.Errorf("failed to complete signup: %w", err)
		}
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// UpdateProfileInput holds the profile fields a user may change. Nil fields
// are left untouched.
type UpdateProfileInput struct {
	Name               *string
	EmailNotifications *bool
}

// UpdateProfile applies profile changes for the authenticated user. Toggling
// EmailNotifications off silences the mail channel only; in-app
// notifications keep arriving.
func (s *AuthService) UpdateProfile(actor models.User, input UpdateProfileInput) (*models.User, error) {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		actor.Name = name
	}

	if input.EmailNotifications != nil {
		actor.EmailNotifications = *input.EmailNotifications
	}

	if err := s.userRepo.Update(&actor); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &actor, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
