package config

import (
	"fmt"
	"os"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if _, err := os.Stat(c.Server.TLSCertFile); err != nil {
		return fmt.Errorf("server.tls_cert_file %s: %w", c.Server.TLSCertFile, err)
	}
	if _, err := os.Stat(c.Server.TLSKeyFile); err != nil {
		return fmt.Errorf("server.tls_key_file %s: %w", c.Server.TLSKeyFile, err)
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be > 0 (got %v)", c.Auth.TokenTTL)
	}

	if c.Cache.Capacity <= 0 {
		return fmt.Errorf("cache.capacity must be > 0 (got %d)", c.Cache.Capacity)
	}
	if c.Cache.MaxAge <= 0 {
		return fmt.Errorf("cache.max_age must be > 0 (got %v)", c.Cache.MaxAge)
	}
	if c.Cache.SweepInterval <= 0 {
		return fmt.Errorf("cache.sweep_interval must be > 0 (got %v)", c.Cache.SweepInterval)
	}

	if c.Notify.Buffer <= 0 {
		return fmt.Errorf("notify.buffer must be > 0 (got %d)", c.Notify.Buffer)
	}

	return nil
}
