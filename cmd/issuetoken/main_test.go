package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/vaultpass/pwgen-go/internal/config"
	"github.com/vaultpass/pwgen-go/internal/crypto"
)

func TestRunIssuesValidToken(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}
	var stdout, stderr bytes.Buffer

	if code := run([]string{"-client", "ci-runner"}, cfg, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, want 0; stderr = %q", code, stderr.String())
	}

	claims, err := crypto.ValidateToken(strings.TrimSpace(stdout.String()), cfg.JWTSecret)
	if err != nil {
		t.Fatalf("ValidateToken() unexpected error: %v", err)
	}
	if claims.Client() != "ci-runner" {
		t.Errorf("Client() = %q, want %q", claims.Client(), "ci-runner")
	}
}

func TestRunRequiresClient(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}
	var stdout, stderr bytes.Buffer

	if code := run(nil, cfg, &stdout, &stderr); code != 2 {
		t.Fatalf("run() = %d, want 2", code)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
}
