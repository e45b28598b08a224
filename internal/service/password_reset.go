package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pageza/recipebook/backend/internal/logger"
	"github.com/pageza/recipebook/backend/internal/models"
)

const otpSaveAttempts = 5

// PasswordResetService issues one-time codes by email and trades a valid
// code for an access token. Setting the new password is then an ordinary
// authenticated call.
type PasswordResetService struct {
	auth     IAuthService
	store    OTPStore
	mailer   EmailSender
	ttl      time.Duration
	siteName string
	log      *logger.Logger
}

var _ IPasswordResetService = (*PasswordResetService)(nil)

func NewPasswordResetService(auth IAuthService, store OTPStore, mailer EmailSender, ttl time.Duration, siteName string, log *logger.Logger) *PasswordResetService {
	return &PasswordResetService{
		auth:     auth,
		store:    store,
		mailer:   mailer,
		ttl:      ttl,
		siteName: siteName,
		log:      log.With("service", "PasswordResetService"),
	}
}

// RequestReset mails a code to email. Unknown or inactive addresses get no
// mail but the call still succeeds.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.auth.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.log.Debug("Password reset requested for unknown email")
			return nil
		}
		return err
	}
	if !user.IsActive {
		s.log.Debug("Password reset requested for inactive user", "user_id", user.ID)
		return nil
	}

	code, err := s.issueCode(ctx, user.Email)
	if err != nil {
		return err
	}

	subject := emailSubject(s.siteName, "password reset code")
	body, err := renderPasswordReset(passwordResetData{
		Subject: subject,
		Name:    displayName(user),
		Code:    code,
		Minutes: int(s.ttl / time.Minute),
	})
	if err != nil {
		return fmt.Errorf("render reset email: %w", err)
	}
	if err := s.mailer.SendEmail(ctx, []string{user.Email}, subject, body); err != nil {
		return err
	}

	s.log.Info("Password reset code sent", "user_id", user.ID)
	return nil
}

func (s *PasswordResetService) issueCode(ctx context.Context, email string) (string, error) {
	for i := 0; i < otpSaveAttempts; i++ {
		code, err := generateOTP()
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		saved, err := s.store.Save(ctx, code, email, s.ttl)
		if err != nil {
			return "", fmt.Errorf("store code: %w", err)
		}
		if saved {
			return code, nil
		}
	}
	return "", errors.New("could not allocate a unique reset code")
}

// VerifyCode consumes code when it was issued for email and returns an
// access token for that user. A code is usable once; a wrong email does not
// use it up.
func (s *PasswordResetService) VerifyCode(ctx context.Context, email, code string) (string, error) {
	stored := models.NormalizeEmail(email)
	if err := s.store.Consume(ctx, strings.ToLower(strings.TrimSpace(code)), stored); err != nil {
		return "", err
	}

	user, err := s.auth.GetUserByEmail(ctx, stored)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrInvalidOTP
		}
		return "", err
	}
	if !user.IsActive {
		return "", ErrInvalidOTP
	}
	return s.auth.GenerateAccessToken(user.ID)
}

func displayName(u *models.User) string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Username
}
