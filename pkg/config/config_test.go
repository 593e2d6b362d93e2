package config

import (
	"strings"
	"testing"
)

func TestEnsureDSNKeepsExplicitValue(t *testing.T) {
	cfg := DBConfig{DSN: "postgres://app:secret@db:5432/numerik"}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DSN != "postgres://app:secret@db:5432/numerik" {
		t.Fatalf("DSN rewritten: %s", cfg.DSN)
	}
}

func TestEnsureDSNBuildsFromLegacyParts(t *testing.T) {
	cfg := DBConfig{
		LegacyHost:     "localhost",
		LegacyPort:     5432,
		LegacyUser:     "numerik",
		LegacyPassword: "secret",
		LegacyName:     "printshop",
		LegacySSLMode:  "disable",
	}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, fragment := range []string{"postgres://", "localhost:5432", "printshop", "sslmode=disable"} {
		if !strings.Contains(cfg.DSN, fragment) {
			t.Fatalf("DSN %q missing %q", cfg.DSN, fragment)
		}
	}
}

func TestEnsureDSNRejectsMissingParts(t *testing.T) {
	cfg := DBConfig{LegacyHost: "localhost"}
	if err := cfg.ensureDSN(); err == nil {
		t.Fatal("expected error for incomplete settings")
	}
}

func TestAppEnvHelpers(t *testing.T) {
	app := AppConfig{Env: "DEV"}
	if !app.IsDev() || app.IsProd() {
		t.Fatal("expected dev environment")
	}
	app.Env = "prod"
	if !app.IsProd() || app.IsDev() {
		t.Fatal("expected prod environment")
	}
}
