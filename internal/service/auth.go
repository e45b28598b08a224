package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/recipebook/backend/config"
	"github.com/pageza/recipebook/backend/internal/database"
	"github.com/pageza/recipebook/backend/internal/logger"
	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/types"
)

type AuthService struct {
	db         *gorm.DB
	log        *logger.Logger
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	hashCost   int
}

var _ IAuthService = (*AuthService)(nil)

func NewAuthService(db *gorm.DB, cfg *config.Config, log *logger.Logger) *AuthService {
	return &AuthService{
		db:         db,
		log:        log.With("service", "AuthService"),
		jwtSecret:  []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		hashCost:   bcrypt.DefaultCost,
	}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.hashCost = cost
	return s
}

// Register creates an active account after checking the password policy
// and that neither the email nor the username is taken.
func (s *AuthService) Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error) {
	email := models.NormalizeEmail(req.Email)
	username := strings.TrimSpace(req.Username)

	v := NewValidationError()
	validatePassword(v, "password", req.Password)
	if req.Password != req.ConfirmPassword {
		v.Add("confirm_password", "Passwords do not match.")
	}
	if username == "" {
		v.Add("username", "This field may not be blank.")
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		v.Add("email", "user with this email already exists.")
	}
	if username != "" {
		if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			v.Add("username", "A user with that username already exists.")
		}
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password, s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:        email,
		Username:     username,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, fieldError("email", "user with this email already exists.")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("User registered", "user_id", user.ID)
	return &user, nil
}

// Login checks credentials and issues an access/refresh pair. Unknown
// emails, inactive accounts and wrong passwords are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*types.TokenPair, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("email = ? AND is_active = ?", models.NormalizeEmail(email), true).
		Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !checkPassword(user.PasswordHash, password) {
		s.log.Debug("Login rejected", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}
	return s.GenerateTokenPair(user.ID)
}

func (s *AuthService) GenerateTokenPair(userID uuid.UUID) (*types.TokenPair, error) {
	access, err := s.GenerateAccessToken(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(userID, types.RefreshToken, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &types.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *AuthService) GenerateAccessToken(userID uuid.UUID) (string, error) {
	return s.signToken(userID, types.AccessToken, s.accessTTL)
}

func (s *AuthService) signToken(userID uuid.UUID, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:    userID,
		TokenType: tokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) parseToken(tokenString, tokenType string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.TokenType != tokenType || claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateToken accepts access tokens only.
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	return s.parseToken(tokenString, types.AccessToken)
}

// RefreshToken exchanges a refresh token for a new access token.
func (s *AuthService) RefreshToken(refreshToken string) (string, error) {
	claims, err := s.parseToken(refreshToken, types.RefreshToken)
	if err != nil {
		return "", err
	}
	return s.GenerateAccessToken(claims.UserID)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req *types.ChangePasswordRequest) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	v := NewValidationError()
	if !checkPassword(user.PasswordHash, req.OldPassword) {
		v.Add("old_password", "Old password is not correct.")
	}
	validatePassword(v, "new_password", req.NewPassword)
	if req.NewPassword != req.ConfirmPassword {
		v.Add("confirm_password", "Passwords do not match.")
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	return s.storePassword(ctx, user.ID, req.NewPassword)
}

// SetPassword replaces the password without asking for the old one. It
// backs the confirm step of a password reset.
func (s *AuthService) SetPassword(ctx context.Context, userID uuid.UUID, password, confirm string) error {
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return err
	}

	v := NewValidationError()
	validatePassword(v, "password", password)
	if password != confirm {
		v.Add("confirm_password", "Passwords do not match.")
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	return s.storePassword(ctx, userID, password)
}

func (s *AuthService) storePassword(ctx context.Context, userID uuid.UUID, password string) error {
	hash, err := hashPassword(password, s.hashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	err = s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("password_hash", hash).Error
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.log.Info("Password changed", "user_id", userID)
	return nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
