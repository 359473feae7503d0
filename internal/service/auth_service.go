package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/firstrankcoders/credential-service/internal/config"
	"github.com/firstrankcoders/credential-service/internal/domain"
	"github.com/firstrankcoders/credential-service/internal/observability"
	"github.com/firstrankcoders/credential-service/internal/repository"
	"github.com/firstrankcoders/credential-service/internal/security"

	"github.com/google/uuid"
)

type AuthService struct {
	cfg                   *config.Config
	logger                *slog.Logger
	hasher                *security.PasswordHasher
	tokens                *security.JWTManager
	records               repository.AuthRecordRepository
	verificationNotifier  EmailVerificationNotifier
	passwordResetNotifier PasswordResetNotifier
	now                   func() time.Time
}

type SignupInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=50,maxbytes=72"`
	Name     string `json:"name" validate:"max=255"`
}

type SignupResult struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RefreshResult struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	AccessToken string `json:"accessToken"`
}

type ChangePasswordInput struct {
	UserID      string `json:"userId" validate:"required"`
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=50,maxbytes=72"`
}

type confirmPasswordResetInput struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=50,maxbytes=72"`
}

func NewAuthService(
	cfg *config.Config,
	logger *slog.Logger,
	hasher *security.PasswordHasher,
	tokens *security.JWTManager,
	records repository.AuthRecordRepository,
	verificationNotifier EmailVerificationNotifier,
	passwordResetNotifier PasswordResetNotifier,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		cfg:                   cfg,
		logger:                logger,
		hasher:                hasher,
		tokens:                tokens,
		records:               records,
		verificationNotifier:  verificationNotifier,
		passwordResetNotifier: passwordResetNotifier,
		now:                   time.Now,
	}
}

// Signup creates the credential and its profile, then hands a verification token to the notifier.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*SignupResult, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	rec := &domain.AuthRecord{ID: uuid.NewString(), Email: in.Email, PasswordHash: hash}
	refresh, err := s.tokens.SignRefreshToken(rec.ID, s.cfg.JWTRefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	rec.RefreshToken = &refresh
	profile := &domain.UserProfile{Name: strings.TrimSpace(in.Name), Role: domain.RoleStudent}

	if err := s.records.CreateWithProfile(ctx, rec, profile); err != nil {
		return nil, storeError(err)
	}
	observability.RecordTokenIssued(ctx, string(security.TokenTypeRefresh))

	s.sendEmailVerification(ctx, rec)
	return &SignupResult{UserID: rec.ID, Email: rec.Email}, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	rec, err := s.records.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAuthRecordNotFound) {
			observability.RecordLoginFailure(ctx, "unknown_email")
			return nil, ErrInvalidCredentials
		}
		return nil, storeError(err)
	}

	ok, err := s.hasher.Verify(rec.PasswordHash, in.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		if err := s.records.IncrementLoginAttempts(ctx, rec.ID); err != nil {
			return nil, storeError(err)
		}
		observability.RecordLoginFailure(ctx, "bad_password")
		return nil, ErrInvalidCredentials
	}

	access, err := s.tokens.SignAccessToken(rec.ID, rec.Email, s.cfg.JWTAccessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.tokens.SignRefreshToken(rec.ID, s.cfg.JWTRefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	if err := s.records.RecordSuccessfulLogin(ctx, rec.ID, refresh); err != nil {
		return nil, storeError(err)
	}
	observability.RecordTokenIssued(ctx, string(security.TokenTypeAccess))
	observability.RecordTokenIssued(ctx, string(security.TokenTypeRefresh))

	return &LoginResult{UserID: rec.ID, Email: rec.Email, AccessToken: access, RefreshToken: refresh}, nil
}

// AuthenticateWithRefreshToken mints a new access token. Only the most recently issued refresh token is accepted.
func (s *AuthService) AuthenticateWithRefreshToken(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, ErrInvalidToken
	}
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	rec, err := s.records.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrAuthRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, storeError(err)
	}
	if rec.RefreshToken == nil || subtle.ConstantTimeCompare([]byte(*rec.RefreshToken), []byte(refreshToken)) != 1 {
		return nil, ErrInvalidToken
	}

	access, err := s.tokens.SignAccessToken(rec.ID, rec.Email, s.cfg.JWTAccessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	observability.RecordTokenIssued(ctx, string(security.TokenTypeAccess))
	return &RefreshResult{UserID: rec.ID, Email: rec.Email, AccessToken: access}, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	if err := validateInput(in); err != nil {
		return err
	}
	rec, err := s.records.FindByID(ctx, in.UserID)
	if err != nil {
		return storeError(err)
	}
	ok, err := s.hasher.Verify(rec.PasswordHash, in.OldPassword)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}
	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return err
	}
	return storeError(s.records.UpdatePasswordHash(ctx, rec.ID, hash, false))
}

// RequestPasswordReset always succeeds for unknown emails so callers cannot probe for accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	rec, err := s.records.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAuthRecordNotFound) {
			return nil
		}
		return storeError(err)
	}

	token, err := s.tokens.SignPasswordResetToken(rec.ID, security.PasswordFingerprint(rec.PasswordHash), s.cfg.PasswordResetTokenTTL)
	if err != nil {
		s.logger.ErrorContext(ctx, "sign password reset token", "user_id", rec.ID, "error", err)
		return nil
	}
	observability.RecordTokenIssued(ctx, string(security.TokenTypePasswordReset))

	err = s.passwordResetNotifier.SendPasswordReset(ctx, PasswordResetNotification{
		UserID:    rec.ID,
		Email:     rec.Email,
		Token:     token,
		ExpiresAt: s.now().Add(s.cfg.PasswordResetTokenTTL),
		ResetURL:  linkWithToken(s.cfg.PublicBaseURL, "/auth/reset-password/confirm", token),
	})
	if err != nil {
		observability.RecordNotificationEvent(ctx, "password_reset", "error")
		s.logger.WarnContext(ctx, "password reset notification failed", "user_id", rec.ID, "error", err)
		return nil
	}
	observability.RecordNotificationEvent(ctx, "password_reset", "sent")
	return nil
}

// ConfirmPasswordReset consumes a reset token. The token stops verifying once the password it was issued against changes.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if err := validateInput(confirmPasswordResetInput{Token: token, NewPassword: newPassword}); err != nil {
		return err
	}
	claims, err := s.tokens.ParsePasswordResetToken(token)
	if err != nil {
		return ErrInvalidToken
	}
	rec, err := s.records.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrAuthRecordNotFound) {
			return ErrInvalidToken
		}
		return storeError(err)
	}
	if subtle.ConstantTimeCompare([]byte(claims.Fingerprint), []byte(security.PasswordFingerprint(rec.PasswordHash))) != 1 {
		return ErrInvalidToken
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return storeError(s.records.UpdatePasswordHash(ctx, rec.ID, hash, true))
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrInvalidToken
	}
	claims, err := s.tokens.ParseEmailVerificationToken(token)
	if err != nil {
		return ErrInvalidToken
	}
	rec, err := s.records.FindByEmail(ctx, claims.Email)
	if err != nil {
		return storeError(err)
	}
	if rec.IsEmailVerified {
		return nil
	}
	return storeError(s.records.MarkEmailVerified(ctx, rec.ID))
}

// VerifyPassword reports whether password matches the stored hash for userID. Lookup failures count as a mismatch.
func (s *AuthService) VerifyPassword(ctx context.Context, userID, password string) bool {
	rec, err := s.records.FindByID(ctx, userID)
	if err != nil {
		return false
	}
	ok, err := s.hasher.Verify(rec.PasswordHash, password)
	return err == nil && ok
}

func (s *AuthService) sendEmailVerification(ctx context.Context, rec *domain.AuthRecord) {
	token, err := s.tokens.SignEmailVerificationToken(rec.Email, s.cfg.EmailVerifyTokenTTL)
	if err != nil {
		s.logger.ErrorContext(ctx, "sign email verification token", "user_id", rec.ID, "error", err)
		return
	}
	observability.RecordTokenIssued(ctx, string(security.TokenTypeEmailVerification))

	err = s.verificationNotifier.SendEmailVerification(ctx, VerificationNotification{
		UserID:          rec.ID,
		Email:           rec.Email,
		Token:           token,
		ExpiresAt:       s.now().Add(s.cfg.EmailVerifyTokenTTL),
		VerificationURL: linkWithToken(s.cfg.PublicBaseURL, "/auth/verify-email", token),
	})
	if err != nil {
		observability.RecordNotificationEvent(ctx, "email_verification", "error")
		s.logger.WarnContext(ctx, "email verification notification failed", "user_id", rec.ID, "error", err)
		return
	}
	observability.RecordNotificationEvent(ctx, "email_verification", "sent")
}
