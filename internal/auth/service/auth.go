package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	autherrors "travelbook/internal/auth/errors"
	"travelbook/internal/auth/repository"
	"travelbook/pkg/config"
	apperrors "travelbook/pkg/errors"
	"travelbook/pkg/model"
	"travelbook/pkg/sanitizer"
	"travelbook/pkg/token"
)

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty" validate:"omitempty"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult pairs the stored user with a fresh access token.
type AuthResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

type AuthService interface {
	Register(ctx context.Context, input *RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input *LoginInput) (*AuthResult, error)
	// LoginGoogle signs in or registers a user from a verified Google
	// profile.
	LoginGoogle(ctx context.Context, email, name string) (*AuthResult, error)
}

type authService struct {
	repo     repository.UserRepository
	tokens   *token.Manager
	validate *validator.Validate
	cfg      *config.Config
}

func NewAuthService(repo repository.UserRepository, tokens *token.Manager, cfg *config.Config) AuthService {
	return &authService{
		repo:     repo,
		tokens:   tokens,
		validate: validator.New(),
		cfg:      cfg,
	}
}

func (s *authService) Register(ctx context.Context, input *RegisterInput) (*AuthResult, error) {
	input.Name = sanitizer.NormalizeName(input.Name)
	input.Email = sanitizer.NormalizeEmail(input.Email)

	if err := s.validate.Struct(input); err != nil {
		s.cfg.Log.Warn("Registration validation failed", "error", err)
		return nil, apperrors.Validation("Registration validation failed", map[string]any{"error": err.Error()})
	}

	phone := ""
	if input.Phone != "" {
		phone = sanitizer.NormalizePhone(input.Phone)
		if phone == "" {
			return nil, apperrors.Validation("Invalid phone number", nil)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	user := &model.User{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		Provider:     model.ProviderLocal,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, autherrors.ErrEmailTaken) {
			return nil, apperrors.Conflict("Email is already registered")
		}
		s.cfg.Log.Error("Failed to create user", "error", err)
		return nil, apperrors.Internal("Failed to register user", err)
	}

	s.cfg.Log.Info("User registered", "id", user.ID, "email", user.Email)
	return s.issueResult(user)
}

func (s *authService) Login(ctx context.Context, input *LoginInput) (*AuthResult, error) {
	input.Email = sanitizer.NormalizeEmail(input.Email)

	if err := s.validate.Struct(input); err != nil {
		return nil, apperrors.Validation("Login validation failed", map[string]any{"error": err.Error()})
	}

	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, autherrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid email or password")
		}
		s.cfg.Log.Error("Failed to look up user", "error", err)
		return nil, apperrors.Internal("Failed to log in", err)
	}

	if user.PasswordHash == "" {
		return nil, apperrors.Unauthorized("This account uses Google sign-in")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	s.cfg.Log.Info("User logged in", "id", user.ID)
	return s.issueResult(user)
}

func (s *authService) LoginGoogle(ctx context.Context, email, name string) (*AuthResult, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return nil, apperrors.Unauthorized("Google profile has no email")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, autherrors.ErrNotFound) {
			s.cfg.Log.Error("Failed to look up user", "error", err)
			return nil, apperrors.Internal("Failed to log in", err)
		}

		user = &model.User{
			Name:     sanitizer.NormalizeName(name),
			Email:    email,
			Role:     model.RoleUser,
			Provider: model.ProviderGoogle,
		}
		if createErr := s.repo.Create(ctx, user); createErr != nil {
			s.cfg.Log.Error("Failed to create Google user", "error", createErr)
			return nil, apperrors.Internal("Failed to register user", createErr)
		}
		s.cfg.Log.Info("User registered via Google", "id", user.ID, "email", user.Email)
	}

	return s.issueResult(user)
}

func (s *authService) issueResult(user *model.User) (*AuthResult, error) {
	signed, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}
	return &AuthResult{User: user, Token: signed}, nil
}
