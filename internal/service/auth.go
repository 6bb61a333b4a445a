package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pageza/reciperoulette/backend/internal/models"
	"github.com/pageza/reciperoulette/backend/internal/types"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenLifetime is how long an issued session token stays valid
const TokenLifetime = 7 * 24 * time.Hour

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
	email     IEmailService
	now       func() time.Time
}

// NewAuthService creates a new AuthService. email may be nil, in which case
// no welcome email is sent.
func NewAuthService(db *gorm.DB, jwtSecret string, email IEmailService) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
		email:     email,
		now:       time.Now,
	}
}

// Signup creates the account and its empty preferences in one transaction
// and returns a fresh session token.
func (s *AuthService) Signup(ctx context.Context, req *types.SignupRequest) (*types.AuthResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.TrimSpace(req.Email)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}
	user.Token = token

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Check if user already exists
		var count int64
		if err := tx.Model(&models.User{}).
			Where("email = ? OR username = ?", email, username).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUserExists
		}

		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(models.NewPreferences(user.ID)).Error
	})
	if err != nil {
		// A concurrent signup can pass the count check and lose on the index.
		if errors.Is(err, ErrUserExists) || isDuplicateKey(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logrus.WithField("user_id", user.ID).Info("user signed up")

	if s.email != nil {
		go func(u models.User) {
			if err := s.email.SendWelcomeEmail(&u); err != nil {
				logrus.WithError(err).WithField("user_id", u.ID).Warn("failed to send welcome email")
			}
		}(*user)
	}

	return authResponse(user), nil
}

// Login checks the password and replaces the stored session token
func (s *AuthService) Login(ctx context.Context, req *types.LoginRequest) (*types.AuthResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Where("username = ?", strings.ToLower(strings.TrimSpace(req.Username))).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	// Compare password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&user).Update("token", token).Error; err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}
	user.Token = token

	return authResponse(&user), nil
}

// Logout clears the stored token, which invalidates every issued token
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("token", "")
	if result.Error != nil {
		return fmt.Errorf("failed to clear token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListUsers returns the public view of every account
func (s *AuthService) ListUsers(ctx context.Context) ([]types.UserSummary, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	summaries := make([]types.UserSummary, len(users))
	for i, u := range users {
		summaries[i] = types.UserSummary{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			CreatedAt: u.CreatedAt,
		}
	}
	return summaries, nil
}

// UserExists reports whether the account exists
func (s *AuthService) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	now := s.now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
			ID:        uuid.NewString(),
		},
		UserID:   user.ID,
		Username: user.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks the signature and expiry, then requires the token to
// be the one currently stored for the user
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	var user models.User
	if err := s.db.Select("id", "token").Where("id = ?", claims.UserID).First(&user).Error; err != nil {
		return nil, ErrInvalidToken
	}
	if user.Token == "" || user.Token != tokenString {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func authResponse(user *models.User) *types.AuthResponse {
	return &types.AuthResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Token:    user.Token,
	}
}

// isDuplicateKey reports whether err is a unique constraint violation. The
// lib/pq check covers handles opened without gorm's error translation.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation"
}
