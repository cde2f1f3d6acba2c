package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Cache    CacheConfig    `yaml:"cache"`
	Notify   NotifyConfig   `yaml:"notify"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds TLS socket server settings.
type ServerConfig struct {
	Host        string        `yaml:"host"         env:"SERVER_HOST"         env-default:"0.0.0.0"`
	Port        int           `yaml:"port"         env:"SERVER_PORT"         env-default:"3000"`
	TLSCertFile string        `yaml:"tls_cert_file" env:"SERVER_TLS_CERT_FILE" env-required:"true"`
	TLSKeyFile  string        `yaml:"tls_key_file"  env:"SERVER_TLS_KEY_FILE"  env-required:"true"`
	// ReadTimeout bounds the wait for a single request line.
	// Zero disables the deadline.
	ReadTimeout time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"0s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds token issuing settings.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string        `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"figstore"`
	TokenTTL  time.Duration `yaml:"token_ttl"  env:"AUTH_TOKEN_TTL"  env-default:"10s"`
}

// CacheConfig holds figure cache settings.
type CacheConfig struct {
	Capacity      int           `yaml:"capacity"       env:"CACHE_CAPACITY"       env-default:"10"`
	MaxAge        time.Duration `yaml:"max_age"        env:"CACHE_MAX_AGE"        env-default:"2m"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"CACHE_SWEEP_INTERVAL" env-default:"2m"`
}

// NotifyConfig holds notification bus settings.
type NotifyConfig struct {
	// Buffer is the per-subscriber queue size. A subscriber whose queue is
	// full misses events rather than blocking publishers.
	Buffer int `yaml:"buffer" env:"NOTIFY_BUFFER" env-default:"64"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
