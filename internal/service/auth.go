package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
	"github.com/rkSlalom/ae-infinity-api/internal/realtime"
	"github.com/rkSlalom/ae-infinity-api/internal/repository"
)

// AuthService handles registration, login and profile updates.
type AuthService struct {
	userRepo    repository.UserRepository
	broadcaster realtime.Broadcaster
	jwtSecret   []byte
	jwtExpiry   time.Duration
}

// NewAuthService creates an AuthService. jwtSecretKey must come from config,
// never a literal.
func NewAuthService(userRepo repository.UserRepository, broadcaster realtime.Broadcaster, jwtSecretKey string, jwtExpiryHours int) (*AuthService, error) {
	if userRepo == nil || broadcaster == nil {
		panic("AuthService requires non-nil dependencies")
	}
	if jwtSecretKey == "" {
		return nil, fmt.Errorf("JWT secret key cannot be empty")
	}
	if jwtExpiryHours <= 0 {
		jwtExpiryHours = 24
	}
	return &AuthService{
		userRepo:    userRepo,
		broadcaster: broadcaster,
		jwtSecret:   []byte(jwtSecretKey),
		jwtExpiry:   time.Duration(jwtExpiryHours) * time.Hour,
	}, nil
}

// Register creates a new account. Email uniqueness is case-insensitive: the
// normalized form carries the unique index.
func (s *AuthService) Register(ctx context.Context, username, email, password, displayName string) (*domain.User, error) {
	logCtx := logrus.WithFields(logrus.Fields{"username": username, "email": email})

	if username == "" || email == "" || password == "" {
		return nil, ErrRegistrationFailed
	}

	hashed, err := hashPassword(password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password during registration")
		return nil, ErrInternalServer
	}

	if displayName == "" {
		displayName = username
	}
	user := &domain.User{
		ID:              uuid.New(),
		Username:        username,
		Email:           email,
		EmailNormalized: NormalizeEmail(email),
		Password:        hashed,
		DisplayName:     displayName,
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.Warn("Registration failed: username or email already taken")
			return nil, ErrRegistrationFailed
		}
		logCtx.WithError(err).Error("Database error during user creation")
		return nil, ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User registered")
	user.Password = ""
	return user, nil
}

// Login verifies credentials and returns a signed token. All failure modes
// collapse to ErrAuthenticationFailed so callers cannot probe for accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	logCtx := logrus.WithField("email", email)

	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("Login failed: user not found")
		} else {
			logCtx.WithError(err).Warn("Login failed: error finding user")
		}
		return "", nil, ErrAuthenticationFailed
	}
	if user == nil {
		logCtx.Warn("Login failed: repository returned nil user without error")
		return "", nil, ErrAuthenticationFailed
	}

	if !checkPassword(password, user.Password) {
		logCtx.Warn("Login failed: invalid password")
		return "", nil, ErrAuthenticationFailed
	}

	token, err := s.generateJWT(user.ID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to sign JWT during login")
		return "", nil, ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User logged in")
	user.Password = ""
	return token, user, nil
}

// Profile returns the caller's own account.
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err, ErrUserNotFound)
	}
	user.Password = ""
	return user, nil
}

// UpdateProfile changes the caller's display name and announces it so other
// clients refresh cached names.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, displayName string) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err, ErrUserNotFound)
	}

	user.DisplayName = displayName
	if err := s.userRepo.Save(ctx, user); err != nil {
		logrus.WithField("user_id", userID).WithError(err).Error("UpdateProfile: failed to save user")
		return nil, ErrInternalServer
	}

	s.broadcaster.PublishToAll(realtime.EventProfileUpdated, realtime.ProfileUpdatedEvent{
		UserID: userID, DisplayName: displayName, Timestamp: time.Now().UTC(),
	})
	user.Password = ""
	return user, nil
}

// NormalizeEmail is the canonical form used for lookups and the unique index.
func NormalizeEmail(email string) string {
	return strings.ToUpper(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash from password: %w", err)
	}
	return string(bytes), nil
}

func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *AuthService) generateJWT(userID uuid.UUID) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}
