package service

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/evergreen-hs/hallpass-api/internal/dto"
	"github.com/evergreen-hs/hallpass-api/internal/models"
	"github.com/evergreen-hs/hallpass-api/internal/repository"
	appErrors "github.com/evergreen-hs/hallpass-api/pkg/errors"
)

type credentialStore interface {
	Load() (string, error)
	Save(secret string) error
}

// AuthConfig defines configuration for the admin session flow.
type AuthConfig struct {
	JWTSecret       string
	TokenExpiry     time.Duration
	DefaultPassword string
}

// AuthService authenticates the single admin account that gates the
// override operations. The stored credential is a bcrypt hash; legacy
// plaintext files are honored and upgraded on the next successful login.
type AuthService struct {
	store    credentialStore
	validate *validator.Validate
	logger   *zap.Logger
	config   AuthConfig
}

// NewAuthService constructs an AuthService.
func NewAuthService(store credentialStore, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.TokenExpiry <= 0 {
		config.TokenExpiry = 8 * time.Hour
	}
	if config.DefaultPassword == "" {
		config.DefaultPassword = "pass"
	}
	return &AuthService{store: store, validate: validator.New(), logger: logger, config: config}
}

// Login verifies the admin password and issues a session token.
func (s *AuthService) Login(req dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login request")
	}
	if err := s.verify(req.Password); err != nil {
		return nil, err
	}

	now := time.Now()
	expiresAt := now.Add(s.config.TokenExpiry)
	claims := models.AdminClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	s.logger.Info("admin logged in")
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.config.TokenExpiry.Seconds()),
	}, nil
}

// ValidateToken parses and verifies a session token.
func (s *AuthService) ValidateToken(token string) (*models.AdminClaims, error) {
	claims := &models.AdminClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !parsed.Valid || claims.Role != "admin" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired session")
	}
	return claims, nil
}

// ChangePassword rotates the admin credential after verifying the current
// one.
func (s *AuthService) ChangePassword(req dto.ChangePasswordRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid change password request")
	}
	if err := s.verify(req.CurrentPassword); err != nil {
		return appErrors.Clone(appErrors.ErrInvalidCredentials, "Current password incorrect.")
	}
	if req.NewPassword != req.ConfirmPassword {
		return appErrors.Clone(appErrors.ErrValidation, "New passwords do not match.")
	}
	if strings.TrimSpace(req.NewPassword) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "New password cannot be empty.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	if err := s.store.Save(string(hash)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store credential")
	}

	s.logger.Info("admin password changed")
	return nil
}

func (s *AuthService) verify(password string) error {
	secret, err := s.store.Load()
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// First run: only the configured bootstrap password works.
			secret = s.config.DefaultPassword
		} else {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load credential")
		}
	}

	if strings.HasPrefix(secret, "$2") {
		if bcrypt.CompareHashAndPassword([]byte(secret), []byte(password)) != nil {
			return appErrors.Clone(appErrors.ErrInvalidCredentials, "Incorrect password.")
		}
		return nil
	}

	// Legacy plaintext credential; compare in constant time and upgrade to
	// a hash on success.
	if subtle.ConstantTimeCompare([]byte(secret), []byte(password)) != 1 {
		return appErrors.Clone(appErrors.ErrInvalidCredentials, "Incorrect password.")
	}
	if hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost); err == nil {
		if err := s.store.Save(string(hash)); err != nil {
			s.logger.Warn("failed to upgrade legacy credential", zap.Error(err))
		}
	}
	return nil
}
