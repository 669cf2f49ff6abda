package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "DATABASE_DSN", "JWT_SECRET", "JWT_EXPIRY", "REQUIRE_AUTH",
		"DEFAULT_LENGTH", "MAX_LENGTH", "REQUIRE_SYSTEM_ENTROPY", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.DefaultLength != 16 || cfg.MaxLength != 128 {
		t.Errorf("lengths = %d/%d, want 16/128", cfg.DefaultLength, cfg.MaxLength)
	}
	if cfg.JWTExpiry != 24*time.Hour {
		t.Errorf("JWTExpiry = %v, want %v", cfg.JWTExpiry, 24*time.Hour)
	}
	if cfg.RequireAuth || cfg.RequireSystemEntropy {
		t.Error("auth and strict entropy should be off by default")
	}
	if cfg.DatabaseDSN != "" {
		t.Errorf("DatabaseDSN = %q, want empty", cfg.DatabaseDSN)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "staging")
	t.Setenv("MAX_LENGTH", "256")
	t.Setenv("REQUIRE_SYSTEM_ENTROPY", "true")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("JWT_EXPIRY", "90m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.MaxLength != 256 {
		t.Errorf("MaxLength = %d, want 256", cfg.MaxLength)
	}
	if !cfg.RequireSystemEntropy {
		t.Error("RequireSystemEntropy = false, want true")
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Errorf("RateLimitRPS = %v, want 2.5", cfg.RateLimitRPS)
	}
	if cfg.JWTExpiry != 90*time.Minute {
		t.Errorf("JWTExpiry = %v, want %v", cfg.JWTExpiry, 90*time.Minute)
	}
}

func TestLoadMalformedValuesFallBack(t *testing.T) {
	t.Setenv("MAX_LENGTH", "lots")
	t.Setenv("REQUIRE_AUTH", "maybe")
	t.Setenv("JWT_EXPIRY", "a while")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.MaxLength != 128 {
		t.Errorf("MaxLength = %d, want 128", cfg.MaxLength)
	}
	if cfg.RequireAuth {
		t.Error("RequireAuth = true, want false")
	}
	if cfg.JWTExpiry != 24*time.Hour {
		t.Errorf("JWTExpiry = %v, want %v", cfg.JWTExpiry, 24*time.Hour)
	}
}

func TestLoadProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err != ErrDevSecretInProduction {
		t.Errorf("Load() error = %v, want %v", err, ErrDevSecretInProduction)
	}

	t.Setenv("JWT_SECRET", "a-real-secret")
	if _, err := Load(); err != nil {
		t.Errorf("Load() unexpected error: %v", err)
	}
}

func TestLoadRejectsInvalidLengths(t *testing.T) {
	tests := []struct {
		name          string
		maxLength     string
		defaultLength string
		wantErr       error
	}{
		{name: "zero max", maxLength: "0", wantErr: ErrInvalidMaxLength},
		{name: "negative max", maxLength: "-1", wantErr: ErrInvalidMaxLength},
		{name: "zero default", maxLength: "64", defaultLength: "0", wantErr: ErrInvalidDefaultLength},
		{name: "default above max", maxLength: "8", defaultLength: "16", wantErr: ErrInvalidDefaultLength},
		{name: "default equals max", maxLength: "16", defaultLength: "16"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENV", "")
			t.Setenv("MAX_LENGTH", tt.maxLength)
			t.Setenv("DEFAULT_LENGTH", tt.defaultLength)

			_, err := Load()
			if err != tt.wantErr {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
