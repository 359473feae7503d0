package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/firstrankcoders/credential-service/internal/config"
	"github.com/firstrankcoders/credential-service/internal/domain"
	"github.com/firstrankcoders/credential-service/internal/repository"
	repogomock "github.com/firstrankcoders/credential-service/internal/repository/gomock"
	"github.com/firstrankcoders/credential-service/internal/security"
	"github.com/firstrankcoders/credential-service/internal/service"
	servicegomock "github.com/firstrankcoders/credential-service/internal/service/gomock"

	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type authFixture struct {
	db     *gorm.DB
	cfg    *config.Config
	tokens *security.JWTManager
	verify *servicegomock.MockEmailVerificationNotifier
	reset  *servicegomock.MockPasswordResetNotifier
	auth   *service.AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.AuthRecord{}, &domain.UserProfile{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := testAuthConfig()
	ctrl := gomock.NewController(t)
	fx := &authFixture{
		db:     db,
		cfg:    cfg,
		tokens: security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAccessSecret, cfg.JWTRefreshSecret),
		verify: servicegomock.NewMockEmailVerificationNotifier(ctrl),
		reset:  servicegomock.NewMockPasswordResetNotifier(ctrl),
	}
	fx.auth = service.NewAuthService(cfg, nil, security.NewPasswordHasher(bcrypt.MinCost), fx.tokens,
		repository.NewAuthRecordRepository(db), fx.verify, fx.reset)
	return fx
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTIssuer:             "credential-service-test",
		JWTAccessSecret:       "abcdefghijklmnopqrstuvwxyz123456",
		JWTRefreshSecret:      "abcdefghijklmnopqrstuvwxyz654321",
		JWTAccessTTL:          time.Hour,
		JWTRefreshTTL:         7 * 24 * time.Hour,
		EmailVerifyTokenTTL:   24 * time.Hour,
		PasswordResetTokenTTL: time.Hour,
		PublicBaseURL:         "http://localhost:3000",
	}
}

func (fx *authFixture) allowVerificationEmails() {
	fx.verify.EXPECT().SendEmailVerification(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func (fx *authFixture) signup(t *testing.T, email, password string) *service.SignupResult {
	t.Helper()
	res, err := fx.auth.Signup(context.Background(), service.SignupInput{Email: email, Password: password})
	if err != nil {
		t.Fatalf("signup %s: %v", email, err)
	}
	return res
}

func (fx *authFixture) record(t *testing.T, id string) domain.AuthRecord {
	t.Helper()
	var rec domain.AuthRecord
	if err := fx.db.First(&rec, "id = ?", id).Error; err != nil {
		t.Fatalf("load auth record: %v", err)
	}
	return rec
}

func (fx *authFixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	if err := fx.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestAuthServiceSignup(t *testing.T) {
	t.Run("creates record and profile and notifies", func(t *testing.T) {
		fx := newAuthFixture(t)
		var sent service.VerificationNotification
		fx.verify.EXPECT().SendEmailVerification(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, n service.VerificationNotification) error {
				sent = n
				return nil
			}).Times(1)

		res := fx.signup(t, "a@x.com", "Secure123")
		if res.UserID == "" || res.Email != "a@x.com" {
			t.Fatalf("unexpected signup result: %+v", res)
		}

		rec := fx.record(t, res.UserID)
		if rec.PasswordHash == "Secure123" || rec.LoginAttempts != 0 || rec.IsEmailVerified {
			t.Fatalf("unexpected initial record state: %+v", rec)
		}
		if rec.RefreshToken == nil {
			t.Fatal("expected refresh token to be persisted")
		}
		claims, err := fx.tokens.ParseRefreshToken(*rec.RefreshToken)
		if err != nil || claims.Subject != res.UserID {
			t.Fatalf("expected refresh token bound to record id: claims=%+v err=%v", claims, err)
		}

		var profile domain.UserProfile
		if err := fx.db.First(&profile, "auth_record_id = ?", res.UserID).Error; err != nil {
			t.Fatalf("load profile: %v", err)
		}
		if profile.Role != domain.RoleStudent || profile.PasswordHash != rec.PasswordHash {
			t.Fatalf("unexpected profile: %+v", profile)
		}

		if sent.Email != "a@x.com" || sent.UserID != res.UserID {
			t.Fatalf("unexpected notification: %+v", sent)
		}
		if !strings.HasPrefix(sent.VerificationURL, "http://localhost:3000/auth/verify-email?token=") {
			t.Fatalf("unexpected verification url: %s", sent.VerificationURL)
		}
		if _, err := fx.tokens.ParseEmailVerificationToken(sent.Token); err != nil {
			t.Fatalf("expected a verification token: %v", err)
		}
	})

	t.Run("duplicate email has no side effects", func(t *testing.T) {
		fx := newAuthFixture(t)
		fx.verify.EXPECT().SendEmailVerification(gomock.Any(), gomock.Any()).Return(nil).Times(1)
		fx.signup(t, "a@x.com", "Secure123")

		_, err := fx.auth.Signup(context.Background(), service.SignupInput{Email: "a@x.com", Password: "Another123"})
		if !errors.Is(err, service.ErrDuplicateCredential) {
			t.Fatalf("expected ErrDuplicateCredential, got %v", err)
		}
		if n := fx.count(t, &domain.AuthRecord{}); n != 1 {
			t.Fatalf("expected 1 auth record, got %d", n)
		}
		if n := fx.count(t, &domain.UserProfile{}); n != 1 {
			t.Fatalf("expected 1 profile, got %d", n)
		}
	})

	t.Run("validation", func(t *testing.T) {
		fx := newAuthFixture(t)
		cases := []struct {
			name  string
			in    service.SignupInput
			field string
		}{
			{"short password", service.SignupInput{Email: "a@x.com", Password: "short"}, "password"},
			{"long password", service.SignupInput{Email: "a@x.com", Password: strings.Repeat("p", 51)}, "password"},
			{"password over bcrypt byte limit", service.SignupInput{Email: "a@x.com", Password: strings.Repeat("é", 40)}, "password"},
			{"bad email", service.SignupInput{Email: "not-an-email", Password: "Secure123"}, "email"},
			{"missing email", service.SignupInput{Password: "Secure123"}, "email"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := fx.auth.Signup(context.Background(), tc.in)
				var verr *service.ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if verr.Fields[0].Field != tc.field {
					t.Fatalf("expected field %q, got %+v", tc.field, verr.Fields)
				}
			})
		}
		if n := fx.count(t, &domain.AuthRecord{}); n != 0 {
			t.Fatalf("expected no rows after rejected input, got %d", n)
		}
	})

	t.Run("multibyte password at the byte limit", func(t *testing.T) {
		fx := newAuthFixture(t)
		fx.allowVerificationEmails()
		password := strings.Repeat("é", 36)
		res := fx.signup(t, "mb@x.com", password)
		if _, err := fx.auth.Login(context.Background(), service.LoginInput{Email: "mb@x.com", Password: password}); err != nil {
			t.Fatalf("login with multibyte password: %v", err)
		}
		if !fx.auth.VerifyPassword(context.Background(), res.UserID, password) {
			t.Fatal("expected multibyte password to verify")
		}
	})

	t.Run("notifier failure does not fail signup", func(t *testing.T) {
		fx := newAuthFixture(t)
		fx.verify.EXPECT().SendEmailVerification(gomock.Any(), gomock.Any()).Return(errors.New("smtp down")).Times(1)
		res := fx.signup(t, "b@x.com", "Secure123")
		if res.UserID == "" {
			t.Fatal("expected user id")
		}
	})
}

func TestAuthServiceLoginAttempts(t *testing.T) {
	fx := newAuthFixture(t)
	fx.allowVerificationEmails()
	ctx := context.Background()
	res := fx.signup(t, "login@x.com", "Secure123")

	const failures = 3
	for i := 0; i < failures; i++ {
		_, err := fx.auth.Login(ctx, service.LoginInput{Email: "login@x.com", Password: "Wrong1234"})
		if !errors.Is(err, service.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}
	if got := fx.record(t, res.UserID).LoginAttempts; got != failures {
		t.Fatalf("expected %d login attempts, got %d", failures, got)
	}

	out, err := fx.auth.Login(ctx, service.LoginInput{Email: "login@x.com", Password: "Secure123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if out.UserID != res.UserID || out.Email != "login@x.com" || out.AccessToken == "" || out.RefreshToken == "" {
		t.Fatalf("unexpected login result: %+v", out)
	}
	rec := fx.record(t, res.UserID)
	if rec.LoginAttempts != 0 {
		t.Fatalf("expected attempts reset to 0, got %d", rec.LoginAttempts)
	}
	if rec.RefreshToken == nil || *rec.RefreshToken != out.RefreshToken {
		t.Fatal("expected stored refresh token to match the issued one")
	}
	claims, err := fx.tokens.ParseAccessToken(out.AccessToken)
	if err != nil || claims.Subject != res.UserID || claims.Email != "login@x.com" {
		t.Fatalf("unexpected access claims: %+v err=%v", claims, err)
	}

	if _, err := fx.auth.Login(ctx, service.LoginInput{Email: "nobody@x.com", Password: "Secure123"}); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthServiceRefreshTokenSingleActive(t *testing.T) {
	fx := newAuthFixture(t)
	fx.allowVerificationEmails()
	ctx := context.Background()
	signup := fx.signup(t, "refresh@x.com", "Secure123")

	rec := fx.record(t, signup.UserID)
	if _, err := fx.auth.AuthenticateWithRefreshToken(ctx, *rec.RefreshToken); err != nil {
		t.Fatalf("expected signup refresh token to be accepted: %v", err)
	}

	first, err := fx.auth.Login(ctx, service.LoginInput{Email: "refresh@x.com", Password: "Secure123"})
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, err := fx.auth.Login(ctx, service.LoginInput{Email: "refresh@x.com", Password: "Secure123"})
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if first.RefreshToken == second.RefreshToken {
		t.Fatal("expected distinct refresh tokens per login")
	}

	if _, err := fx.auth.AuthenticateWithRefreshToken(ctx, first.RefreshToken); !errors.Is(err, service.ErrInvalidToken) {
		t.Fatalf("expected superseded token to be rejected, got %v", err)
	}
	out, err := fx.auth.AuthenticateWithRefreshToken(ctx, second.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if out.UserID != signup.UserID || out.Email != "refresh@x.com" {
		t.Fatalf("unexpected refresh result: %+v", out)
	}
	if _, err := fx.tokens.ParseAccessToken(out.AccessToken); err != nil {
		t.Fatalf("expected a valid access token: %v", err)
	}
	if fx.record(t, signup.UserID).RefreshToken == nil || *fx.record(t, signup.UserID).RefreshToken != second.RefreshToken {
		t.Fatal("refresh must not rotate the stored refresh token")
	}

	for name, token := range map[string]string{
		"empty":        "",
		"malformed":    "not-a-jwt",
		"access token": second.AccessToken,
	} {
		if _, err := fx.auth.AuthenticateWithRefreshToken(ctx, token); !errors.Is(err, service.ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}

	orphan, err := fx.tokens.SignRefreshToken("missing-id", time.Hour)
	if err != nil {
		t.Fatalf("sign orphan token: %v", err)
	}
	if _, err := fx.auth.AuthenticateWithRefreshToken(ctx, orphan); !errors.Is(err, service.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for unknown subject, got %v", err)
	}
}

func TestAuthServiceChangePassword(t *testing.T) {
	fx := newAuthFixture(t)
	fx.allowVerificationEmails()
	ctx := context.Background()
	res := fx.signup(t, "change@x.com", "Secure123")

	err := fx.auth.ChangePassword(ctx, service.ChangePasswordInput{UserID: "missing", OldPassword: "Secure123", NewPassword: "Changed123"})
	if !errors.Is(err, service.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	err = fx.auth.ChangePassword(ctx, service.ChangePasswordInput{UserID: res.UserID, OldPassword: "Wrong1234", NewPassword: "Changed123"})
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := fx.auth.ChangePassword(ctx, service.ChangePasswordInput{UserID: res.UserID, OldPassword: "Secure123", NewPassword: "Changed123"}); err != nil {
		t.Fatalf("change password: %v", err)
	}

	rec := fx.record(t, res.UserID)
	var profile domain.UserProfile
	if err := fx.db.First(&profile, "auth_record_id = ?", res.UserID).Error; err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if profile.PasswordHash != rec.PasswordHash {
		t.Fatal("expected profile hash mirror to follow the credential hash")
	}
	if !fx.auth.VerifyPassword(ctx, res.UserID, "Changed123") || fx.auth.VerifyPassword(ctx, res.UserID, "Secure123") {
		t.Fatal("expected only the new password to verify")
	}

	err = fx.auth.ChangePassword(ctx, service.ChangePasswordInput{UserID: res.UserID, OldPassword: "Changed123", NewPassword: strings.Repeat("字", 25)})
	var verr *service.ValidationError
	if !errors.As(err, &verr) || verr.Fields[0].Field != "newPassword" {
		t.Fatalf("expected newPassword ValidationError for a 75 byte password, got %v", err)
	}
	_, err = fx.auth.Login(ctx, service.LoginInput{Email: "change@x.com", Password: strings.Repeat("字", 25)})
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for an over-long login password, got %v", err)
	}
}

func TestAuthServiceVerifyEmail(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()
	var token string
	fx.verify.EXPECT().SendEmailVerification(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, n service.VerificationNotification) error {
			token = n.Token
			return nil
		}).Times(1)
	res := fx.signup(t, "verify@x.com", "Secure123")

	ghost, err := fx.tokens.SignEmailVerificationToken("ghost@x.com", time.Hour)
	if err != nil {
		t.Fatalf("sign ghost token: %v", err)
	}
	if err := fx.auth.VerifyEmail(ctx, ghost); !errors.Is(err, service.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := fx.auth.VerifyEmail(ctx, token); err != nil {
			t.Fatalf("verify email call %d: %v", i, err)
		}
		if !fx.record(t, res.UserID).IsEmailVerified {
			t.Fatalf("expected verified after call %d", i)
		}
	}

	access, err := fx.tokens.SignAccessToken(res.UserID, "verify@x.com", time.Hour)
	if err != nil {
		t.Fatalf("sign access token: %v", err)
	}
	for name, bad := range map[string]string{"empty": "", "garbage": "garbage", "access token": access} {
		if err := fx.auth.VerifyEmail(ctx, bad); !errors.Is(err, service.ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestAuthServicePasswordReset(t *testing.T) {
	fx := newAuthFixture(t)
	fx.allowVerificationEmails()
	ctx := context.Background()
	res := fx.signup(t, "reset@x.com", "Secure123")
	login, err := fx.auth.Login(ctx, service.LoginInput{Email: "reset@x.com", Password: "Secure123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := fx.auth.RequestPasswordReset(ctx, "nobody@x.com"); err != nil {
		t.Fatalf("expected ack for unknown email, got %v", err)
	}
	if err := fx.auth.RequestPasswordReset(ctx, ""); err != nil {
		t.Fatalf("expected ack for empty email, got %v", err)
	}

	var sent service.PasswordResetNotification
	fx.reset.EXPECT().SendPasswordReset(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, n service.PasswordResetNotification) error {
			sent = n
			return nil
		}).Times(1)
	if err := fx.auth.RequestPasswordReset(ctx, "reset@x.com"); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if sent.UserID != res.UserID || sent.Token == "" {
		t.Fatalf("unexpected reset notification: %+v", sent)
	}

	var verr *service.ValidationError
	if err := fx.auth.ConfirmPasswordReset(ctx, sent.Token, "short"); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for short password, got %v", err)
	}
	if err := fx.auth.ConfirmPasswordReset(ctx, sent.Token, "Recovered123"); err != nil {
		t.Fatalf("confirm reset: %v", err)
	}
	if err := fx.auth.ConfirmPasswordReset(ctx, sent.Token, "Another123"); !errors.Is(err, service.ErrInvalidToken) {
		t.Fatalf("expected reused reset token to be rejected, got %v", err)
	}
	if _, err := fx.auth.AuthenticateWithRefreshToken(ctx, login.RefreshToken); !errors.Is(err, service.ErrInvalidToken) {
		t.Fatalf("expected refresh token cleared by reset, got %v", err)
	}
	if _, err := fx.auth.Login(ctx, service.LoginInput{Email: "reset@x.com", Password: "Recovered123"}); err != nil {
		t.Fatalf("login with reset password: %v", err)
	}
}

func TestAuthServiceResetNotifierFailureStillAcks(t *testing.T) {
	fx := newAuthFixture(t)
	fx.allowVerificationEmails()
	fx.signup(t, "quiet@x.com", "Secure123")
	fx.reset.EXPECT().SendPasswordReset(gomock.Any(), gomock.Any()).Return(errors.New("queue down")).Times(1)

	if err := fx.auth.RequestPasswordReset(context.Background(), "quiet@x.com"); err != nil {
		t.Fatalf("expected ack despite notifier failure, got %v", err)
	}
}

func TestAuthServiceVerifyPasswordUnknownUser(t *testing.T) {
	fx := newAuthFixture(t)
	if fx.auth.VerifyPassword(context.Background(), "missing", "Secure123") {
		t.Fatal("expected false for unknown user")
	}
}

func TestAuthServiceStoreFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repogomock.NewMockAuthRecordRepository(ctrl)
	cfg := testAuthConfig()
	svc := service.NewAuthService(cfg, nil, security.NewPasswordHasher(bcrypt.MinCost),
		security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAccessSecret, cfg.JWTRefreshSecret), repo,
		servicegomock.NewMockEmailVerificationNotifier(ctrl), servicegomock.NewMockPasswordResetNotifier(ctrl))
	ctx := context.Background()
	down := errors.New("connection refused")

	repo.EXPECT().FindByEmail(gomock.Any(), "a@x.com").Return(nil, down).Times(2)
	if _, err := svc.Login(ctx, service.LoginInput{Email: "a@x.com", Password: "Secure123"}); !errors.Is(err, service.ErrStoreFailure) {
		t.Fatalf("expected ErrStoreFailure from login, got %v", err)
	}
	if err := svc.RequestPasswordReset(ctx, "a@x.com"); !errors.Is(err, service.ErrStoreFailure) {
		t.Fatalf("expected ErrStoreFailure from reset request, got %v", err)
	}

	repo.EXPECT().CreateWithProfile(gomock.Any(), gomock.Any(), gomock.Any()).Return(down)
	if _, err := svc.Signup(ctx, service.SignupInput{Email: "a@x.com", Password: "Secure123"}); !errors.Is(err, service.ErrStoreFailure) {
		t.Fatalf("expected ErrStoreFailure from signup, got %v", err)
	}

	repo.EXPECT().FindByID(gomock.Any(), "id-1").Return(nil, down)
	if svc.VerifyPassword(ctx, "id-1", "Secure123") {
		t.Fatal("expected VerifyPassword to be false on store failure")
	}
}
