package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/crudmaker/Bank-REST/internal/errs"
	"github.com/crudmaker/Bank-REST/internal/models"
	"github.com/crudmaker/Bank-REST/internal/repository"
	"github.com/crudmaker/Bank-REST/pkg/crypto"
)

// AuthSvc is an implementation of the service.AuthService interface
type AuthSvc struct {
	repos     *repository.Repository
	logger    *logrus.Logger
	hasher    *crypto.PasswordHasher
	jwtSecret string
	jwtTTL    time.Duration
}

// NewAuthService creates a new AuthSvc
func NewAuthService(deps Dependencies) *AuthSvc {
	return &AuthSvc{
		repos:     deps.Repos,
		logger:    deps.Logger,
		hasher:    crypto.NewPasswordHasher(),
		jwtSecret: deps.Config.JWT.Secret,
		jwtTTL:    time.Duration(deps.Config.JWT.TTL) * time.Hour,
	}
}

// Register registers a new user with the USER role
func (s *AuthSvc) Register(ctx context.Context, reg *models.UserRegistration) (int64, error) {
	if err := reg.Validate(); err != nil {
		return 0, errs.Wrap(errs.InvalidOperation, err.Error(), err)
	}

	_, err := s.repos.User.GetByUsername(ctx, reg.Username)
	if err == nil {
		return 0, errs.New(errs.Conflict, "Username is already taken.")
	}
	if errs.KindOf(err) != errs.NotFound {
		return 0, err
	}

	hash, err := s.hasher.HashPassword(reg.Password)
	if err != nil {
		return 0, errs.Wrap(errs.Internal, "failed to hash password", err)
	}

	user := &models.User{
		Username:     reg.Username,
		OwnerName:    reg.OwnerName,
		Email:        reg.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}

	id, err := s.repos.User.Create(ctx, user)
	if err != nil {
		return 0, err
	}

	s.logger.Infof("User registered: %d (%s)", id, user.Username)
	return id, nil
}

// Login verifies credentials and issues a signed token carrying the user
// id and role
func (s *AuthSvc) Login(ctx context.Context, login *models.UserLogin) (*models.TokenResponse, error) {
	user, err := s.repos.User.GetByUsername(ctx, login.Username)
	if err != nil {
		if errs.KindOf(err) == errs.NotFound {
			return nil, errs.New(errs.AccessDenied, "Invalid username or password.")
		}
		return nil, err
	}

	if user.Locked {
		s.logger.Warnf("Login refused for locked user %d", user.ID)
		return nil, errs.New(errs.AccessDenied, "User account is locked.")
	}

	if !s.hasher.CheckPassword(user.PasswordHash, login.Password) {
		return nil, errs.New(errs.AccessDenied, "Invalid username or password.")
	}

	expiresAt := time.Now().Add(s.jwtTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"exp":     expiresAt.Unix(),
	})

	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to sign token", err)
	}

	s.logger.Infof("User logged in: %d (%s)", user.ID, user.Username)

	return &models.TokenResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}
