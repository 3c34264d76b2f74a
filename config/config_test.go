package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		AppEnv:             "production",
		JWTSecret:          "s3cret",
		TokenTTL:           168 * time.Hour,
		BcryptCost:         12,
		SupabaseURL:        "https://proj.supabase.co",
		SupabaseServiceKey: "service-key",
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateRequiresSecretOutsideDevelopment(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "AUTH_JWT_SECRET") {
		t.Fatalf("expected secret error, got %v", err)
	}
}

func TestSigningSecretFallsBackLocally(t *testing.T) {
	cfg := &Config{AppEnv: "local", TokenTTL: time.Hour, BcryptCost: 12}
	secret, err := cfg.SigningSecret()
	if err != nil {
		t.Fatalf("signing secret: %v", err)
	}
	if secret != DevJWTSecret {
		t.Fatalf("expected dev secret, got %q", secret)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("local config should validate without supabase: %v", err)
	}
}

func TestValidateRejectsBcryptCostOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.BcryptCost = 40
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "AUTH_BCRYPT_COST") {
		t.Fatalf("expected cost error, got %v", err)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("AUTH_APP_ENV", "test")
	t.Setenv("AUTH_JWT_SECRET", "from-env")
	t.Setenv("AUTH_TOKEN_TTL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWTSecret != "from-env" || cfg.TokenTTL != time.Hour {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.BcryptCost != 12 || cfg.DefaultRole != "paciente" {
		t.Fatalf("defaults not applied: cost=%d role=%s", cfg.BcryptCost, cfg.DefaultRole)
	}
}
