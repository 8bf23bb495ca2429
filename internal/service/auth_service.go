package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"betaware/internal/model"
	"betaware/internal/repository"
	"betaware/internal/token"
	"betaware/internal/utils"

	"go.uber.org/zap"
)

var (
	ErrDuplicateEmail     = errors.New("a user with this email already exists")
	ErrDuplicateUsername  = errors.New("a user with this username already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AuthService provides registration, login and user listing
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	ListUsers(ctx context.Context, claims *token.Claims) ([]model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	issuer   *token.Issuer
	log      *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, issuer *token.Issuer, log *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		issuer:   issuer,
		log:      log,
	}
}

// Register creates a new account and logs it in (returns an issued token).
// Username defaults to the email address when not supplied.
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error) {
	username := req.Username
	if username == "" {
		username = req.Email
	}

	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing email: %w", err)
	}
	if existing != nil {
		return nil, "", ErrDuplicateEmail
	}

	existing, err = s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing username: %w", err)
	}
	if existing != nil {
		return nil, "", ErrDuplicateUsername
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	userRole := model.RoleUser
	// Initial admin bootstrap via environment variable
	if adminEmail := os.Getenv("INITIAL_ADMIN_EMAIL"); adminEmail != "" && req.Email == adminEmail {
		userRole = model.RoleAdmin
		s.log.Info("registering initial admin account", zap.String("email", req.Email))
	}

	user := &model.User{
		Username:     username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		DisplayName:  req.DisplayName,
		Role:         userRole,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost the race against a concurrent registration.
			return nil, "", ErrDuplicateEmail
		}
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}

	tok, err := s.issuer.Issue(user)
	if err != nil {
		s.log.Error("user created but token issuance failed",
			zap.Int64("user_id", user.ID), zap.Error(err))
		return user, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	return user, tok, nil
}

// Login authenticates a user and returns a session token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	tok, err := s.issuer.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, tok, nil
}

// ListUsers returns every registered user. Admin only.
func (s *authService) ListUsers(ctx context.Context, claims *token.Claims) ([]model.User, error) {
	if claims == nil || claims.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
