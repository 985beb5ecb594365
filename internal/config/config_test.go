package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

const validConfig = `
server:
  host: 127.0.0.1
  port: 8080
database:
  host: localhost
  port: 5432
  name: fitforge
  user: fitforge
  password: secret
auth:
  api_key: testkey
`

// TestLoadValid verifies a complete YAML file loads with all sections.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "fitforge" {
		t.Errorf("database.name = %q, want fitforge", cfg.Database.Name)
	}
	if cfg.Tailscale.Enabled {
		t.Error("tailscale should default to disabled")
	}
}

// TestLoadEnvOverrides verifies FITFORGE_* env vars win over file values.
func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FITFORGE_SERVER_PORT", "9090")
	t.Setenv("FITFORGE_DB_PASSWORD", "fromenv")
	t.Setenv("FITFORGE_AUTH_API_KEY", "envkey")

	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Password != "fromenv" {
		t.Errorf("database.password = %q, want fromenv", cfg.Database.Password)
	}
	if cfg.Auth.APIKey != "envkey" {
		t.Errorf("auth.api_key = %q, want envkey", cfg.Auth.APIKey)
	}
}

// TestLoadValidation verifies missing required fields are rejected.
func TestLoadValidation(t *testing.T) {
	missingKey := `
server:
  port: 8080
database:
  host: localhost
  port: 5432
  name: fitforge
  user: fitforge
`
	if _, err := Load(writeConfig(t, missingKey)); err == nil {
		t.Error("expected validation error for missing api_key")
	}

	tsNoHostname := validConfig + `
tailscale:
  enabled: true
`
	if _, err := Load(writeConfig(t, tsNoHostname)); err == nil {
		t.Error("expected validation error for tailscale without hostname")
	}
}

// TestDSN verifies the connection string format and sslmode default.
func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, Name: "ff", User: "u", Password: "p"}
	want := "postgres://u:p@db:5432/ff?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
