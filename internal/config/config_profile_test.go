package config

import (
	"strings"
	"testing"
	"time"
)

func baseConfig() *Config {
	return &Config{
		Env:                          "development",
		DatabaseURL:                  "postgres://x",
		JWTAccessSecret:              "abcdefghijklmnopqrstuvwxyz123456",
		JWTRefreshSecret:             "abcdefghijklmnopqrstuvwxyz654321",
		JWTAccessTTL:                 time.Hour,
		JWTRefreshTTL:                7 * 24 * time.Hour,
		EmailVerifyTokenTTL:          24 * time.Hour,
		PasswordResetTokenTTL:        time.Hour,
		PasswordHashCost:             10,
		UserProfileCacheEnabled:      true,
		UserProfileCacheTTL:          5 * time.Minute,
		OTELTraceSamplingRatio:       1.0,
		OTELMetricsExportInterval:    10 * time.Second,
		OTELLogLevel:                 "info",
		ReadinessProbeTimeout:        time.Second,
		ShutdownTimeout:              20 * time.Second,
		ShutdownHTTPDrainTimeout:     10 * time.Second,
		ShutdownObservabilityTimeout: 8 * time.Second,
	}
}

func TestValidateDevelopmentProfileAllowsDefaultSecrets(t *testing.T) {
	cfg := baseConfig()
	cfg.JWTAccessSecret = DefaultJWTAccessSecret
	cfg.JWTRefreshSecret = DefaultJWTRefreshSecret

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected relaxed dev validation to pass: %v", err)
	}
	if !cfg.UsesDefaultJWTSecrets() {
		t.Fatal("expected default secrets to be flagged")
	}
}

func TestValidateProdProfileRejectsDefaultSecrets(t *testing.T) {
	cfg := baseConfig()
	cfg.Env = "production"
	cfg.JWTAccessSecret = DefaultJWTAccessSecret

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected strict prod validation errors")
	}
	if !strings.Contains(err.Error(), "default JWT secrets") {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestValidateProdProfileAcceptsStrongSecrets(t *testing.T) {
	cfg := baseConfig()
	cfg.Env = "production"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected prod validation to pass: %v", err)
	}
}

func TestValidateRejectsSharedSecret(t *testing.T) {
	cfg := baseConfig()
	cfg.JWTRefreshSecret = cfg.JWTAccessSecret
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected identical secrets to be rejected")
	}
}

func TestValidateCollectsMultipleErrors(t *testing.T) {
	cfg := baseConfig()
	cfg.DatabaseURL = ""
	cfg.RedisEnabled = true
	cfg.RedisAddr = ""
	cfg.OTELLogLevel = "verbose"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"DATABASE_URL", "REDIS_ADDR", "OTEL_LOG_LEVEL"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite:file::memory:")
	t.Setenv("JWT_ACCESS_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")
	t.Setenv("PORT", "")
	t.Setenv("HTTP_PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPPort != "3000" {
		t.Fatalf("expected default port 3000, got %s", cfg.HTTPPort)
	}
	if cfg.JWTAccessTTL != time.Hour || cfg.JWTRefreshTTL != 7*24*time.Hour {
		t.Fatalf("unexpected token ttls: access=%v refresh=%v", cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	}
	if cfg.JWTAccessSecret != DefaultJWTAccessSecret || cfg.JWTRefreshSecret != DefaultJWTRefreshSecret {
		t.Fatal("expected literal fallback secrets when env is unset")
	}
	if cfg.PasswordHashCost != 10 {
		t.Fatalf("expected bcrypt cost 10, got %d", cfg.PasswordHashCost)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite:file::memory:")
	t.Setenv("JWT_ACCESS_TTL", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error for JWT_ACCESS_TTL")
	}
}
