package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// validEnv sets the minimum required env vars for a valid config,
// including throwaway TLS cert/key files that exist on disk.
func validEnv(t *testing.T) {
	t.Helper()

	dir := t.TempDir()
	certPath := filepath.Join(dir, "server.crt")
	keyPath := filepath.Join(dir, "server.key")
	for _, p := range []string{certPath, keyPath} {
		if err := os.WriteFile(p, []byte("test pem"), 0o600); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}

	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
	t.Setenv("AUTH_JWT_SECRET", "this-is-a-very-long-jwt-secret-for-testing-32+")
	t.Setenv("SERVER_TLS_CERT_FILE", certPath)
	t.Setenv("SERVER_TLS_KEY_FILE", keyPath)
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAMLTemplate = `
server:
  host: "127.0.0.1"
  port: 9090
  tls_cert_file: "{CERT}"
  tls_key_file: "{KEY}"
  read_timeout: "30s"

database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 10
  min_conns: 2

auth:
  jwt_secret: "this-is-a-very-long-jwt-secret-for-testing-32+"
  jwt_issuer: "figstore-test"
  token_ttl: "30s"

cache:
  capacity: 5
  max_age: "1m"
  sweep_interval: "45s"

notify:
  buffer: 16

log:
  level: "debug"
  format: "text"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()

	certPath := filepath.Join(dir, "server.crt")
	keyPath := filepath.Join(dir, "server.key")
	for _, p := range []string{certPath, keyPath} {
		if err := os.WriteFile(p, []byte("test pem"), 0o600); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}

	yaml := strings.ReplaceAll(validYAMLTemplate, "{CERT}", certPath)
	yaml = strings.ReplaceAll(yaml, "{KEY}", keyPath)
	path := writeYAML(t, dir, yaml)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("server.read_timeout = %v, want %v", cfg.Server.ReadTimeout, 30*time.Second)
	}
	if cfg.Database.MaxConns != 10 {
		t.Errorf("database.max_conns = %d, want 10", cfg.Database.MaxConns)
	}
	if cfg.Auth.JWTIssuer != "figstore-test" {
		t.Errorf("auth.jwt_issuer = %q, want %q", cfg.Auth.JWTIssuer, "figstore-test")
	}
	if cfg.Auth.TokenTTL != 30*time.Second {
		t.Errorf("auth.token_ttl = %v, want 30s", cfg.Auth.TokenTTL)
	}
	if cfg.Cache.Capacity != 5 {
		t.Errorf("cache.capacity = %d, want 5", cfg.Cache.Capacity)
	}
	if cfg.Cache.SweepInterval != 45*time.Second {
		t.Errorf("cache.sweep_interval = %v, want 45s", cfg.Cache.SweepInterval)
	}
	if cfg.Notify.Buffer != 16 {
		t.Errorf("notify.buffer = %d, want 16", cfg.Notify.Buffer)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
}

func TestLoad_EnvOnlyDefaults(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want default 3000", cfg.Server.Port)
	}
	if cfg.Cache.Capacity != 10 {
		t.Errorf("cache.capacity = %d, want default 10", cfg.Cache.Capacity)
	}
	if cfg.Cache.MaxAge != 2*time.Minute {
		t.Errorf("cache.max_age = %v, want default 2m", cfg.Cache.MaxAge)
	}
	if cfg.Auth.TokenTTL != 10*time.Second {
		t.Errorf("auth.token_ttl = %v, want default 10s", cfg.Auth.TokenTTL)
	}
	if cfg.Notify.Buffer != 64 {
		t.Errorf("notify.buffer = %d, want default 64", cfg.Notify.Buffer)
	}
	if cfg.Server.ReadTimeout != 0 {
		t.Errorf("server.read_timeout = %v, want default 0", cfg.Server.ReadTimeout)
	}
}

func TestLoad_ExplicitPathMissingFile(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate_Rejects(t *testing.T) {
	base := func(t *testing.T) *Config {
		t.Helper()

		dir := t.TempDir()
		certPath := filepath.Join(dir, "server.crt")
		keyPath := filepath.Join(dir, "server.key")
		for _, p := range []string{certPath, keyPath} {
			if err := os.WriteFile(p, []byte("test pem"), 0o600); err != nil {
				t.Fatalf("write %s: %v", p, err)
			}
		}

		return &Config{
			Server: ServerConfig{
				Host:        "0.0.0.0",
				Port:        3000,
				TLSCertFile: certPath,
				TLSKeyFile:  keyPath,
			},
			Auth: AuthConfig{
				JWTSecret: "this-is-a-very-long-jwt-secret-for-testing-32+",
				TokenTTL:  10 * time.Second,
			},
			Cache: CacheConfig{
				Capacity:      10,
				MaxAge:        2 * time.Minute,
				SweepInterval: 2 * time.Minute,
			},
			Notify: NotifyConfig{Buffer: 64},
		}
	}

	t.Run("valid", func(t *testing.T) {
		if err := base(t).Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("bad port", func(t *testing.T) {
		cfg := base(t)
		cfg.Server.Port = 0
		if err := cfg.Validate(); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("missing cert file", func(t *testing.T) {
		cfg := base(t)
		cfg.Server.TLSCertFile = "/nonexistent/server.crt"
		if err := cfg.Validate(); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("short jwt secret", func(t *testing.T) {
		cfg := base(t)
		cfg.Auth.JWTSecret = "short"
		if err := cfg.Validate(); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("zero cache capacity", func(t *testing.T) {
		cfg := base(t)
		cfg.Cache.Capacity = 0
		if err := cfg.Validate(); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("zero notify buffer", func(t *testing.T) {
		cfg := base(t)
		cfg.Notify.Buffer = 0
		if err := cfg.Validate(); err == nil {
			t.Fatal("expected error")
		}
	})
}
