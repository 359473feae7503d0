package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/firstrankcoders/credential-service/internal/config"
	"github.com/firstrankcoders/credential-service/internal/database"
	"github.com/firstrankcoders/credential-service/internal/health"
	"github.com/firstrankcoders/credential-service/internal/http/handler"
	"github.com/firstrankcoders/credential-service/internal/http/router"
	"github.com/firstrankcoders/credential-service/internal/repository"
	"github.com/firstrankcoders/credential-service/internal/security"
	"github.com/firstrankcoders/credential-service/internal/service"
)

type apiEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  []json.RawMessage `json:"errors"`
}

// captureNotifier keeps the last token handed out per email.
type captureNotifier struct {
	mu     sync.Mutex
	verify map[string]string
	reset  map[string]string
}

func newCaptureNotifier() *captureNotifier {
	return &captureNotifier{verify: map[string]string{}, reset: map[string]string{}}
}

func (n *captureNotifier) SendEmailVerification(_ context.Context, v service.VerificationNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.verify[v.Email] = v.Token
	return nil
}

func (n *captureNotifier) SendPasswordReset(_ context.Context, r service.PasswordResetNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reset[r.Email] = r.Token
	return nil
}

func (n *captureNotifier) verifyToken(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.verify[email]
}

func (n *captureNotifier) resetToken(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.reset[email]
}

type testServer struct {
	url      string
	client   *http.Client
	db       *gorm.DB
	notifier *captureNotifier
}

func newPostgresServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		DatabaseURL:           startPostgres(t),
		JWTIssuer:             "credential-service-it",
		JWTAccessSecret:       "abcdefghijklmnopqrstuvwxyz123456",
		JWTRefreshSecret:      "abcdefghijklmnopqrstuvwxyz654321",
		JWTAccessTTL:          time.Hour,
		JWTRefreshTTL:         7 * 24 * time.Hour,
		EmailVerifyTokenTTL:   24 * time.Hour,
		PasswordResetTokenTTL: time.Hour,
		PublicBaseURL:         "http://localhost:3000",
	}
	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := newCaptureNotifier()
	jwtMgr := security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAccessSecret, cfg.JWTRefreshSecret)
	authSvc := service.NewAuthService(cfg, logger, security.NewPasswordHasher(bcrypt.MinCost), jwtMgr,
		repository.NewAuthRecordRepository(db), notifier, notifier)
	userSvc := service.NewUserService(repository.NewUserProfileRepository(db), nil, 0, logger)

	srv := httptest.NewServer(router.NewRouter(router.Dependencies{
		AuthHandler:   handler.NewAuthHandler(authSvc),
		UserHandler:   handler.NewUserHandler(userSvc),
		BannerHandler: handler.NewBannerHandler("Credential Service"),
		HealthHandler: handler.NewHealthHandler(health.NewProbeRunner(time.Second, 0, health.NewDBChecker(db))),
		JWTManager:    jwtMgr,
	}))
	t.Cleanup(srv.Close)
	return &testServer{url: srv.URL, client: srv.Client(), db: db, notifier: notifier}
}

func (s *testServer) do(t *testing.T, method, path string, body any, bearer string) (int, apiEnvelope) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.url+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s %s: %v", method, path, err)
	}
	return resp.StatusCode, env
}

func mustData[T any](t *testing.T, env apiEnvelope) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode data %s: %v", string(env.Data), err)
	}
	return out
}

func credentials(email, password string) map[string]string {
	return map[string]string{"email": email, "password": password}
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@x.com", prefix, time.Now().UnixNano())
}
