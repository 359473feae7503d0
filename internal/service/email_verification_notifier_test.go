package service

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestLinkWithToken(t *testing.T) {
	tests := []struct {
		name string
		base string
		want string
	}{
		{"absolute base", "http://localhost:3000", "http://localhost:3000/auth/verify-email?token=abc"},
		{"trailing slash", "https://id.example.com/", "https://id.example.com/auth/verify-email?token=abc"},
		{"empty base falls back to relative", "", "/auth/verify-email?token=abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := linkWithToken(tt.base, "/auth/verify-email", "abc"); got != tt.want {
				t.Fatalf("linkWithToken(%q) = %q, want %q", tt.base, got, tt.want)
			}
		})
	}
}

func TestLogNotifierLogsRelativeLinkWithoutBaseURL(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := n.SendPasswordReset(context.Background(), PasswordResetNotification{
		UserID:   "rec-1",
		Email:    "a@x.com",
		Token:    "reset-token",
		ResetURL: linkWithToken("", "/auth/reset-password/confirm", "reset-token"),
	})
	if err != nil {
		t.Fatalf("send password reset: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["reset_url"] != "/auth/reset-password/confirm?token=reset-token" {
		t.Fatalf("expected a usable reset link in the log, got %v", entry["reset_url"])
	}
}
