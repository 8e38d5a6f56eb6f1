package service

import (
	"context"
	"fmt"
	"log/slog"
)

// EmailSender delivers the out-of-band messages the password reset and
// email verification flows depend on.
type EmailSender interface {
	SendResetPasswordEmail(ctx context.Context, to, token string) error
	SendVerificationEmail(ctx context.Context, to, token string) error
}

// LogEmailSender writes would-be emails to the log instead of sending
// them. It stands in wherever no SMTP transport is configured.
type LogEmailSender struct {
	baseURL string
}

func NewLogEmailSender(baseURL string) *LogEmailSender {
	return &LogEmailSender{baseURL: baseURL}
}

func (s *LogEmailSender) SendResetPasswordEmail(ctx context.Context, to, token string) error {
	slog.InfoContext(ctx, "password reset email",
		"to", to,
		"link", fmt.Sprintf("%s/v1/auth/reset-password?token=%s", s.baseURL, token),
	)
	return nil
}

func (s *LogEmailSender) SendVerificationEmail(ctx context.Context, to, token string) error {
	slog.InfoContext(ctx, "verification email",
		"to", to,
		"link", fmt.Sprintf("%s/v1/auth/verify-email?token=%s", s.baseURL, token),
	)
	return nil
}
