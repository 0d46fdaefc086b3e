package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/farmstead/farmstead-backend/internal/auth/jwt"
	"github.com/farmstead/farmstead-backend/internal/auth/repository"
	"github.com/farmstead/farmstead-backend/pkg/errors"
	"github.com/farmstead/farmstead-backend/pkg/logger"
)

// AuthService handles authentication
type AuthService struct {
	userRepo   *repository.UserRepository
	jwtManager *jwt.Manager
	logger     *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, jwtManager *jwt.Manager, log *logger.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		logger:     log,
	}
}

// LoginResult is the outcome of a successful login
type LoginResult struct {
	Token *jwt.Token       `json:"token"`
	User  *repository.User `json:"user"`
}

// Register creates a new user with a bcrypt-hashed password
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*repository.User, error) {
	if len(password) < 8 {
		return nil, errors.Validation(map[string]string{
			"password": "must be at least 8 characters",
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal("failed to hash password")
	}

	user := &repository.User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         name,
		PasswordHash: string(hash),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login verifies credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		// Same response for unknown email and wrong password
		return nil, errors.InvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.InvalidCredentials()
	}

	token, err := s.jwtManager.Generate(&jwt.UserInfo{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	})
	if err != nil {
		return nil, errors.Internal("failed to issue token")
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")

	return &LoginResult{
		Token: token,
		User:  user,
	}, nil
}

// GetUser gets a user by ID
func (s *AuthService) GetUser(ctx context.Context, id string) (*repository.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
