package service

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"
)

type VerificationNotification struct {
	UserID          string
	Email           string
	Token           string
	ExpiresAt       time.Time
	VerificationURL string
}

type EmailVerificationNotifier interface {
	SendEmailVerification(ctx context.Context, notification VerificationNotification) error
}

type PasswordResetNotification struct {
	UserID    string
	Email     string
	Token     string
	ExpiresAt time.Time
	ResetURL  string
}

type PasswordResetNotifier interface {
	SendPasswordReset(ctx context.Context, notification PasswordResetNotification) error
}

// LogNotifier writes verification and reset links to the log instead of delivering mail.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendEmailVerification(ctx context.Context, notification VerificationNotification) error {
	n.logger.InfoContext(ctx, "email verification token issued",
		"user_id", notification.UserID,
		"email", notification.Email,
		"expires_at", notification.ExpiresAt,
		"verification_url", notification.VerificationURL,
	)
	return nil
}

func (n *LogNotifier) SendPasswordReset(ctx context.Context, notification PasswordResetNotification) error {
	n.logger.InfoContext(ctx, "password reset token issued",
		"user_id", notification.UserID,
		"email", notification.Email,
		"expires_at", notification.ExpiresAt,
		"reset_url", notification.ResetURL,
	)
	return nil
}

// linkWithToken appends token as a query parameter to baseURL+path. An empty
// base yields a relative link so the token still reaches the log notifier.
func linkWithToken(baseURL, path, token string) string {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + path)
	if err != nil {
		u = &url.URL{Path: path}
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
