// Package config loads application configuration from a YAML file and
// environment variables. Values are read once at startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix is stripped from environment variables before mapping them onto
// config keys. Double underscore separates levels so single underscores
// survive inside key names, e.g. PAGEKEEP_DATABASE__URL -> database.url,
// PAGEKEEP_SERVER__READ_TIMEOUT -> server.read_timeout.
const envPrefix = "PAGEKEEP_"

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	JWT      JWTConfig      `koanf:"jwt"`
	Storage  StorageConfig  `koanf:"storage"`
	Cache    CacheConfig    `koanf:"cache"`
	Upload   UploadConfig   `koanf:"upload"`
	Login    LoginConfig    `koanf:"login"`
	CORS     CORSConfig     `koanf:"cors"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              string        `koanf:"port"`
	MetricsPort       string        `koanf:"metrics_port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
}

// DatabaseConfig contains PostgreSQL settings.
type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
	ConnectAttempts int           `koanf:"connect_attempts"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// JWTConfig contains token signing settings.
type JWTConfig struct {
	SecretKey     string        `koanf:"secret_key"`
	TokenDuration time.Duration `koanf:"token_duration"`
}

// StorageConfig contains object storage settings for cover images.
type StorageConfig struct {
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Bucket    string `koanf:"bucket"`
	UseSSL    bool   `koanf:"use_ssl"`
	// PublicURL is the externally reachable base URL objects are served
	// from. Defaults to the endpoint when empty.
	PublicURL string `koanf:"public_url"`
}

// CacheConfig contains Redis response cache settings.
type CacheConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
}

// UploadConfig contains file upload limits.
type UploadConfig struct {
	MaxFileSize int64 `koanf:"max_file_size"`
}

// LoginConfig contains login throttling settings.
type LoginConfig struct {
	RatePerMinute int `koanf:"rate_per_minute"`
	Burst         int `koanf:"burst"`
}

// CORSConfig contains CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

var defaults = map[string]interface{}{
	"server.host":                "0.0.0.0",
	"server.port":                "8080",
	"server.metrics_port":        "9090",
	"server.read_timeout":        "15s",
	"server.read_header_timeout": "5s",
	"server.write_timeout":       "15s",
	"server.idle_timeout":        "60s",
	"database.max_open_conns":    10,
	"database.max_idle_conns":    2,
	"database.conn_max_lifetime": "30m",
	"database.connect_timeout":   "30s",
	"database.connect_attempts":  3,
	"log.level":                  "info",
	"log.format":                 "json",
	"jwt.token_duration":         "24h",
	"storage.bucket":             "covers",
	"cache.enabled":              false,
	"cache.addr":                 "localhost:6379",
	"upload.max_file_size":       2 << 20, // 2MB
	"login.rate_per_minute":      10,
	"login.burst":                5,
	"cors.allowed_origins":       []string{"*"},
}

// Load reads configuration from the optional YAML file at path, then
// overlays PAGEKEEP_* environment variables on top of defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("set default %s: %w", key, err)
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if c.JWT.SecretKey == "" {
		return errors.New("jwt.secret_key is required")
	}
	if c.Upload.MaxFileSize <= 0 {
		return errors.New("upload.max_file_size must be positive")
	}
	return nil
}
