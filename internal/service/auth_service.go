package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmedhrayyan/phonebook-backend/internal/metrics"
	"github.com/ahmedhrayyan/phonebook-backend/internal/model"
	"github.com/ahmedhrayyan/phonebook-backend/internal/repository"
	"github.com/ahmedhrayyan/phonebook-backend/internal/utils"
	"github.com/ahmedhrayyan/phonebook-backend/internal/validation"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthService provides authentication related services
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.User, string, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
	log      logrus.FieldLogger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, log logrus.FieldLogger) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
		log:      log,
	}
}

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user account and returns a token for it.
// The unique index on users.email has the final say on duplicates.
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error) {
	email := NormalizeEmail(req.Email)

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		metrics.RecordAuth("register", "duplicate")
		return nil, "", ErrDuplicateEmail
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, "", validation.Field("password", "Longer than maximum length 72 bytes.")
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			metrics.RecordAuth("register", "duplicate")
			return nil, "", ErrDuplicateEmail
		}
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}

	token, err := s.jwtUtil.GenerateToken(user.ID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Error("user created, but token generation failed")
		return user, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	metrics.RecordAuth("register", "success")
	s.log.WithField("user_id", user.ID).Info("user registered")
	return user, token, nil
}

// Login authenticates a user and returns a JWT token.
// Unknown emails and wrong passwords fail the same way.
func (s *authService) Login(ctx context.Context, req model.LoginRequest) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		metrics.RecordAuth("login", "failed")
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	metrics.RecordAuth("login", "success")
	return user, token, nil
}
