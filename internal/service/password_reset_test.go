package service

import (
	"context"
	"net/smtp"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/recipebook/backend/internal/logger"
	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/testhelpers"
	"github.com/pageza/recipebook/backend/internal/testhelpers/mocks"
)

var otpPattern = regexp.MustCompile(`^[0-9a-z]{6}$`)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestGenerateOTP(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := generateOTP()
		require.NoError(t, err)
		assert.Regexp(t, otpPattern, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestRedisOTPStore(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewRedisOTPStore(client)
	ctx := context.Background()

	saved, err := store.Save(ctx, "abc123", "cook@example.com", 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = store.Save(ctx, "abc123", "other@example.com", 10*time.Minute)
	require.NoError(t, err)
	assert.False(t, saved, "codes are not overwritten")

	err = store.Consume(ctx, "abc123", "other@example.com")
	assert.ErrorIs(t, err, ErrInvalidOTP)
	assert.True(t, mr.Exists(otpPrefix+"abc123"), "a mismatched email leaves the code in place")

	require.NoError(t, store.Consume(ctx, "abc123", "cook@example.com"))
	assert.False(t, mr.Exists(otpPrefix+"abc123"))

	err = store.Consume(ctx, "abc123", "cook@example.com")
	assert.ErrorIs(t, err, ErrInvalidOTP, "codes are single use")

	_, err = store.Save(ctx, "zzz999", "cook@example.com", time.Minute)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	err = store.Consume(ctx, "zzz999", "cook@example.com")
	assert.ErrorIs(t, err, ErrInvalidOTP, "codes expire")
}

type resetFixture struct {
	svc    *PasswordResetService
	auth   *AuthService
	mailer *mocks.MockEmailSender
	mr     *miniredis.Miniredis
}

func setupPasswordReset(t *testing.T) (*resetFixture, *models.User) {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	auth := NewAuthService(db, testAuthConfig(), logger.Nop()).WithHashCost(bcrypt.MinCost)
	mr, client := setupRedis(t)
	mailer := &mocks.MockEmailSender{}
	svc := NewPasswordResetService(auth, NewRedisOTPStore(client), mailer, 10*time.Minute, "Recipebook", logger.Nop())
	user := testhelpers.CreateTestUser(t, db, "chef@example.com")
	return &resetFixture{svc: svc, auth: auth, mailer: mailer, mr: mr}, user
}

func TestPasswordResetFlow(t *testing.T) {
	f, user := setupPasswordReset(t)
	ctx := context.Background()

	var body string
	f.mailer.On("SendEmail", mock.Anything, []string{"chef@example.com"}, "[Recipebook] Password Reset Code", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { body = args.String(3) }).
		Return(nil).Once()

	require.NoError(t, f.svc.RequestReset(ctx, "chef@EXAMPLE.com"))
	f.mailer.AssertExpectations(t)

	keys := f.mr.Keys()
	require.Len(t, keys, 1)
	code := strings.TrimPrefix(keys[0], otpPrefix)
	assert.Regexp(t, otpPattern, code)
	assert.Contains(t, body, code)
	assert.Contains(t, body, "10 minutes")
	assert.InDelta(t, (10 * time.Minute).Seconds(), f.mr.TTL(keys[0]).Seconds(), 1)

	access, err := f.svc.VerifyCode(ctx, "chef@example.com", strings.ToUpper(code))
	require.NoError(t, err)
	claims, err := f.auth.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = f.svc.VerifyCode(ctx, "chef@example.com", code)
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestPasswordResetUnknownEmailSendsNothing(t *testing.T) {
	f, _ := setupPasswordReset(t)

	require.NoError(t, f.svc.RequestReset(context.Background(), "ghost@example.com"))
	f.mailer.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.mr.Keys())
}

func TestVerifyCodeForOtherEmailFails(t *testing.T) {
	f, _ := setupPasswordReset(t)
	ctx := context.Background()

	f.mailer.On("SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	require.NoError(t, f.svc.RequestReset(ctx, "chef@example.com"))
	code := strings.TrimPrefix(f.mr.Keys()[0], otpPrefix)

	_, err := f.svc.VerifyCode(ctx, "someone@example.com", code)
	assert.ErrorIs(t, err, ErrInvalidOTP)

	_, err = f.svc.VerifyCode(ctx, "chef@example.com", "000000")
	assert.ErrorIs(t, err, ErrInvalidOTP)

	// the owner's code survives a guess with the wrong email
	access, err := f.svc.VerifyCode(ctx, "chef@example.com", code)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
}

func TestEmailSubject(t *testing.T) {
	assert.Equal(t, "[Recipebook] Password Reset Code", emailSubject("Recipebook", "password reset code"))
	assert.Equal(t, "Welcome Aboard", emailSubject("", "welcome aboard"))
}

func TestEmailServiceLogsWithoutSMTP(t *testing.T) {
	svc := &EmailService{log: logger.Nop(), send: func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called without SMTP")
		return nil
	}}
	assert.NoError(t, svc.SendEmail(context.Background(), []string{"a@example.com"}, "Hi", "<p>hi</p>"))
}

func TestEmailServiceSendsMessage(t *testing.T) {
	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
	)
	svc := &EmailService{
		smtpHost:  "smtp.example.com",
		smtpPort:  "587",
		fromEmail: "noreply@example.com",
		fromName:  "Recipebook",
		log:       logger.Nop(),
		send: func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
			gotAddr, gotTo, gotMsg = addr, to, string(msg)
			return nil
		},
	}

	require.NoError(t, svc.SendEmail(context.Background(), []string{"cook@example.com"}, "Hello", "<p>body</p>"))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"cook@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "From: Recipebook <noreply@example.com>\r\n")
	assert.Contains(t, gotMsg, "Subject: Hello\r\n")
	assert.Contains(t, gotMsg, "Content-Type: text/html; charset=UTF-8")
	assert.True(t, strings.HasSuffix(gotMsg, "<p>body</p>\r\n"))
}
