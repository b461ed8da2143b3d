package domain

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Drafts      DraftsConfig      `mapstructure:"drafts"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Identifiers IdentifiersConfig `mapstructure:"identifiers"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	// RequestTimeout bounds individual REST request handling. It does not
	// apply to the live websocket channel.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	TLSEnabled   bool          `mapstructure:"tls_enabled"`
	CertFile     string        `mapstructure:"cert_file"`
	KeyFile      string        `mapstructure:"key_file"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// DraftsConfig configures the draft snapshot store used for auto-save and
// form recovery. Backend is "sqlite" for single-node deployments or
// "postgres" to share the main database.
type DraftsConfig struct {
	Backend      string        `mapstructure:"backend"`
	SQLitePath   string        `mapstructure:"sqlite_path"`
	KeepPerDraft int           `mapstructure:"keep_per_draft"`
	SaveInterval time.Duration `mapstructure:"save_interval"`
}

// CacheConfig represents Redis cache configuration for identifier lookups.
type CacheConfig struct {
	RedisURL    string        `mapstructure:"redis_url"`
	DefaultTTL  time.Duration `mapstructure:"default_ttl"`
	MaxRetries  int           `mapstructure:"max_retries"`
	PoolSize    int           `mapstructure:"pool_size"`
	PoolTimeout time.Duration `mapstructure:"pool_timeout"`
	Enabled     bool          `mapstructure:"enabled"`
}

// IdentifiersConfig configures the external identifier validation clients.
type IdentifiersConfig struct {
	HGNC HGNCConfig `mapstructure:"hgnc"`
}

// HGNCConfig represents configuration for the HGNC gene symbol validator.
type HGNCConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RateLimit  int           `mapstructure:"rate_limit"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
