package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/recipebook/backend/config"
	"github.com/pageza/recipebook/backend/internal/logger"
	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/testhelpers"
	"github.com/pageza/recipebook/backend/internal/types"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}
}

func setupAuth(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	return NewAuthService(db, testAuthConfig(), logger.Nop()).WithHashCost(bcrypt.MinCost), db
}

func validRegistration() *types.RegisterRequest {
	return &types.RegisterRequest{
		Email:           "New.Cook@Example.COM",
		Username:        "newcook",
		FirstName:       "Newt",
		LastName:        "Cook",
		Password:        "Str0ngPass",
		ConfirmPassword: "Str0ngPass",
	}
}

func TestRegister(t *testing.T) {
	svc, _ := setupAuth(t)

	user, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	assert.Equal(t, "New.Cook@example.com", user.Email)
	assert.Equal(t, "newcook", user.Username)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "Str0ngPass", user.PasswordHash)
	assert.True(t, checkPassword(user.PasswordHash, "Str0ngPass"))
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc, db := setupAuth(t)

	req := validRegistration()
	req.Password = "short"
	req.ConfirmPassword = "different"

	_, err := svc.Register(context.Background(), req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "password")
	assert.Contains(t, verr.Fields, "confirm_password")

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, db := setupAuth(t)
	testhelpers.CreateTestUser(t, db, "new.cook@example.com")
	testhelpers.CreateTestUser(t, db, "newcook@example.com")

	req := validRegistration()
	req.Email = "new.cook@EXAMPLE.com"

	_, err := svc.Register(context.Background(), req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "username")
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, db := setupAuth(t)
	user := testhelpers.CreateTestUser(t, db, "chef@example.com")

	pair, err := svc.Login(context.Background(), "chef@EXAMPLE.com", testhelpers.TestPassword)
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	claims, err := svc.ValidateToken(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, types.AccessToken, claims.TokenType)

	_, err = svc.ValidateToken(pair.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken, "refresh tokens are not access tokens")

	access, err := svc.RefreshToken(pair.Refresh)
	require.NoError(t, err)
	claims, err = svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = svc.RefreshToken(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLoginFailures(t *testing.T) {
	svc, db := setupAuth(t)
	testhelpers.CreateTestUser(t, db, "chef@example.com")
	inactive := testhelpers.CreateTestUser(t, db, "retired@example.com")
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	tests := []struct {
		name, email, password string
	}{
		{"wrong password", "chef@example.com", "Wr0ngPassword"},
		{"unknown email", "nobody@example.com", testhelpers.TestPassword},
		{"inactive user", "retired@example.com", testhelpers.TestPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.email, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestValidateTokenRejectsBadTokens(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	cfg := testAuthConfig()
	cfg.AccessTokenTTL = -time.Minute
	expiredSvc := NewAuthService(db, cfg, logger.Nop())
	svc := NewAuthService(db, testAuthConfig(), logger.Nop())

	expired, err := expiredSvc.GenerateAccessToken(uuid.New())
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	assert.ErrorIs(t, err, ErrTokenExpired)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           uuid.New(),
		TokenType:        types.AccessToken,
	})
	signed, err := forged.SignedString([]byte("another-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	svc, db := setupAuth(t)
	user := testhelpers.CreateTestUser(t, db, "chef@example.com")
	ctx := context.Background()

	err := svc.ChangePassword(ctx, user.ID, &types.ChangePasswordRequest{
		OldPassword:     "not-it",
		NewPassword:     "N3wPassword",
		ConfirmPassword: "N3wPassword",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "old_password")

	require.NoError(t, svc.ChangePassword(ctx, user.ID, &types.ChangePasswordRequest{
		OldPassword:     testhelpers.TestPassword,
		NewPassword:     "N3wPassword",
		ConfirmPassword: "N3wPassword",
	}))

	_, err = svc.Login(ctx, "chef@example.com", testhelpers.TestPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "chef@example.com", "N3wPassword")
	assert.NoError(t, err)
}

func TestSetPassword(t *testing.T) {
	svc, db := setupAuth(t)
	user := testhelpers.CreateTestUser(t, db, "chef@example.com")
	ctx := context.Background()

	err := svc.SetPassword(ctx, user.ID, "Res3tPassword", "Res3tPasswordX")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "confirm_password")

	require.NoError(t, svc.SetPassword(ctx, user.ID, "Res3tPassword", "Res3tPassword"))
	_, err = svc.Login(ctx, "chef@example.com", "Res3tPassword")
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.SetPassword(ctx, uuid.New(), "Res3tPassword", "Res3tPassword"), ErrNotFound)
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"Passw0rdOK", true},
		{"Sh0rt", false},
		{"alllowercase1", false},
		{"ALLUPPERCASE1", false},
		{"NoDigitsHere", false},
		{"Has Space1A", false},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			v := NewValidationError()
			validatePassword(v, "password", tt.password)
			assert.Equal(t, !tt.valid, v.HasErrors(), v.Fields)
		})
	}
}
