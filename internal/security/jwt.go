package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	TokenTypeAccess            TokenType = "access"
	TokenTypeRefresh           TokenType = "refresh"
	TokenTypeEmailVerification TokenType = "email_verification"
	TokenTypePasswordReset     TokenType = "password_reset"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

type Claims struct {
	Email       string    `json:"email,omitempty"`
	Type        TokenType `json:"typ"`
	Fingerprint string    `json:"fp,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies HS256 tokens. Access, verification and reset tokens share the
// access secret and are told apart by their typ claim. Refresh tokens use their own secret.
type JWTManager struct {
	issuer        string
	accessSecret  []byte
	refreshSecret []byte
	now           func() time.Time
}

func NewJWTManager(issuer, accessSecret, refreshSecret string) *JWTManager {
	return &JWTManager{
		issuer:        issuer,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		now:           time.Now,
	}
}

func (m *JWTManager) SignAccessToken(subject, email string, ttl time.Duration) (string, error) {
	return m.sign(m.accessSecret, Claims{Email: email, Type: TokenTypeAccess}, subject, ttl)
}

func (m *JWTManager) SignRefreshToken(subject string, ttl time.Duration) (string, error) {
	return m.sign(m.refreshSecret, Claims{Type: TokenTypeRefresh}, subject, ttl)
}

func (m *JWTManager) SignEmailVerificationToken(email string, ttl time.Duration) (string, error) {
	return m.sign(m.accessSecret, Claims{Email: email, Type: TokenTypeEmailVerification}, email, ttl)
}

func (m *JWTManager) SignPasswordResetToken(subject, fingerprint string, ttl time.Duration) (string, error) {
	return m.sign(m.accessSecret, Claims{Type: TokenTypePasswordReset, Fingerprint: fingerprint}, subject, ttl)
}

func (m *JWTManager) ParseAccessToken(raw string) (*Claims, error) {
	return m.parse(m.accessSecret, raw, TokenTypeAccess)
}

func (m *JWTManager) ParseRefreshToken(raw string) (*Claims, error) {
	return m.parse(m.refreshSecret, raw, TokenTypeRefresh)
}

func (m *JWTManager) ParseEmailVerificationToken(raw string) (*Claims, error) {
	claims, err := m.parse(m.accessSecret, raw, TokenTypeEmailVerification)
	if err != nil {
		return nil, err
	}
	if claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *JWTManager) ParsePasswordResetToken(raw string) (*Claims, error) {
	claims, err := m.parse(m.accessSecret, raw, TokenTypePasswordReset)
	if err != nil {
		return nil, err
	}
	if claims.Fingerprint == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *JWTManager) sign(secret []byte, claims Claims, subject string, ttl time.Duration) (string, error) {
	now := m.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    m.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", claims.Type, err)
	}
	return signed, nil
}

func (m *JWTManager) parse(secret []byte, raw string, want TokenType) (*Claims, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Type != want || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
