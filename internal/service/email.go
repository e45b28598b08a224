package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pageza/recipebook/backend/config"
	"github.com/pageza/recipebook/backend/internal/logger"
)

var passwordResetTemplate = template.Must(template.New("password_reset").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>{{.Subject}}</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h2>{{.Subject}}</h2>
	<p>Hi {{.Name}},</p>
	<p>Use the code below to reset your password. It expires in {{.Minutes}} minutes.</p>
	<p style="font-size: 28px; font-weight: bold; letter-spacing: 6px;">{{.Code}}</p>
	<p>If you did not ask for a password reset you can ignore this email.</p>
</body>
</html>
`))

type passwordResetData struct {
	Subject string
	Name    string
	Code    string
	Minutes int
}

type EmailService struct {
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string
	log          *logger.Logger
	send         func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

var _ EmailSender = (*EmailService)(nil)

func NewEmailService(cfg *config.Config, log *logger.Logger) *EmailService {
	return &EmailService{
		smtpHost:     cfg.SMTPHost,
		smtpPort:     cfg.SMTPPort,
		smtpUsername: cfg.SMTPUsername,
		smtpPassword: cfg.SMTPPassword,
		fromEmail:    cfg.EmailFrom,
		fromName:     cfg.EmailName,
		log:          log.With("service", "EmailService"),
		send:         smtp.SendMail,
	}
}

// SendEmail delivers an HTML message. Without an SMTP host the message is
// logged instead.
func (s *EmailService) SendEmail(ctx context.Context, to []string, subject, htmlBody string) error {
	if s.smtpHost == "" || s.smtpPort == "" {
		s.log.Info("SMTP not configured, logging email", "to", to, "subject", subject, "body", htmlBody)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.smtpUsername != "" {
		auth = smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)
	}

	from := s.fromEmail
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}
	msg := []byte("To: " + strings.Join(to, ", ") + "\r\n" +
		"From: " + from + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" +
		htmlBody + "\r\n")

	addr := s.smtpHost + ":" + s.smtpPort
	if err := s.send(addr, auth, s.fromEmail, to, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	s.log.Debug("Email sent", "to", to, "subject", subject)
	return nil
}

// emailSubject title-cases a subject line and prefixes the site name.
func emailSubject(siteName, subject string) string {
	caser := cases.Title(language.English)
	if siteName == "" {
		return caser.String(subject)
	}
	return fmt.Sprintf("[%s] %s", siteName, caser.String(subject))
}

func renderPasswordReset(data passwordResetData) (string, error) {
	var buf bytes.Buffer
	if err := passwordResetTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
