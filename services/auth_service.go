package services

import (
	"context"
	"errors"
	"strings"

	"github.com/SiRoHK/MiniAnazinClone/apperrors"
	"github.com/SiRoHK/MiniAnazinClone/models"
	"github.com/SiRoHK/MiniAnazinClone/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenIssuer issues session tokens for authenticated users.
type TokenIssuer interface {
	Generate(user *models.User) (string, error)
}

// dummyPasswordHash is compared against when the email is unknown, so both
// login failure paths spend a bcrypt comparison and respond in similar time.
var dummyPasswordHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// AuthService registers users and authenticates login attempts.
type AuthService struct {
	userRepo   repository.UserRepository
	tokens     TokenIssuer
	db         *gorm.DB
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService creates an AuthService. bcryptCost controls the password
// hash cost factor.
func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer, db *gorm.DB, bcryptCost int, logger *zap.Logger) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		db:         db,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a new Customer account. Emails are stored lower-cased so
// duplicate-looking accounts cannot coexist.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (uint, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var userID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := repository.NewGormUserRepository(tx)

		_, err := txRepo.FindByEmail(ctx, email)
		if err == nil {
			return apperrors.Conflict("user with this email already exists")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("Failed to look up email", zap.String("email", email), zap.Error(err))
			return apperrors.Internal("failed to create account", err)
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
		if err != nil {
			return apperrors.Internal("failed to hash password", err)
		}

		newUser := &models.User{
			Name:     name,
			Email:    email,
			Password: string(hashedPassword),
			Role:     models.RoleCustomer,
		}
		if err := txRepo.Create(ctx, newUser); err != nil {
			s.logger.Error("Failed to create user", zap.String("email", email), zap.Error(err))
			return apperrors.Internal("failed to create account", err)
		}

		userID = newUser.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("User registered", zap.Uint("user_id", userID))
	return userID, nil
}

// Login verifies credentials and returns a signed session token. Unknown
// email and wrong password produce the same error so callers cannot tell
// which check failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(password))
			return "", apperrors.Unauthenticated("invalid credentials")
		}
		s.logger.Error("Failed to look up user", zap.Error(err))
		return "", apperrors.Internal("login failed", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", apperrors.Unauthenticated("invalid credentials")
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Uint("user_id", user.ID), zap.Error(err))
		return "", apperrors.Internal("login failed", err)
	}
	return token, nil
}
