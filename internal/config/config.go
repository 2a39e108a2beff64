package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Tonal     TonalConfig     `yaml:"tonal"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Transport string `yaml:"transport"`
}

// Addr returns host:port for net.Listen.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type TonalConfig struct {
	Username          string        `yaml:"username"`
	Password          string        `yaml:"password"`
	BaseURL           string        `yaml:"base_url"`
	AuthURL           string        `yaml:"auth_url"`
	ClientID          string        `yaml:"client_id"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	MovementCacheTTL  time.Duration `yaml:"movement_cache_ttl"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type StorageConfig struct {
	Driver   string         `yaml:"driver"`
	Path     string         `yaml:"path"`
	Database DatabaseConfig `yaml:"database"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// SlogLevel maps the configured level name to a slog.Level. Unknown or empty
// names mean info.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Default returns the configuration used before the file and environment
// are applied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "127.0.0.1",
			Port:      8787,
			Transport: TransportStdio,
		},
		Tonal: TonalConfig{
			BaseURL:           "https://api.tonal.com",
			AuthURL:           "https://tonal.auth0.com",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 5,
			MovementCacheTTL:  time.Hour,
		},
		Tailscale: TailscaleConfig{
			Hostname: "tonalmcp",
		},
		Storage: StorageConfig{
			Driver: DriverSQLite,
			Path:   "tonalmcp.db",
			Database: DatabaseConfig{
				Host: "localhost",
				Port: 5432,
			},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. A missing file is not an error; a stdio
// install usually configures everything through the environment.
//
// Env vars use the prefix TONALMCP_ and underscore-separated paths:
//
//	TONALMCP_SERVER_HOST, TONALMCP_SERVER_PORT, TONALMCP_SERVER_TRANSPORT,
//	TONALMCP_TONAL_BASE_URL, TONALMCP_TONAL_AUTH_URL, TONALMCP_TONAL_CLIENT_ID,
//	TONALMCP_AUTH_API_KEY, TONALMCP_TAILSCALE_ENABLED,
//	TONALMCP_STORAGE_DRIVER, TONALMCP_STORAGE_PATH,
//	TONALMCP_DB_HOST, TONALMCP_DB_PORT, TONALMCP_DB_NAME,
//	TONALMCP_DB_USER, TONALMCP_DB_PASSWORD, TONALMCP_DB_SSLMODE,
//	TONALMCP_LOG_LEVEL
//
// Platform credentials come from TONAL_USERNAME and TONAL_PASSWORD.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString("TONALMCP_SERVER_HOST", &cfg.Server.Host)
	setInt("TONALMCP_SERVER_PORT", &cfg.Server.Port)
	setString("TONALMCP_SERVER_TRANSPORT", &cfg.Server.Transport)

	setString("TONAL_USERNAME", &cfg.Tonal.Username)
	setString("TONAL_PASSWORD", &cfg.Tonal.Password)
	setString("TONALMCP_TONAL_BASE_URL", &cfg.Tonal.BaseURL)
	setString("TONALMCP_TONAL_AUTH_URL", &cfg.Tonal.AuthURL)
	setString("TONALMCP_TONAL_CLIENT_ID", &cfg.Tonal.ClientID)

	setString("TONALMCP_AUTH_API_KEY", &cfg.Auth.APIKey)

	if v := os.Getenv("TONALMCP_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}

	setString("TONALMCP_STORAGE_DRIVER", &cfg.Storage.Driver)
	setString("TONALMCP_STORAGE_PATH", &cfg.Storage.Path)
	setString("TONALMCP_DB_HOST", &cfg.Storage.Database.Host)
	setInt("TONALMCP_DB_PORT", &cfg.Storage.Database.Port)
	setString("TONALMCP_DB_NAME", &cfg.Storage.Database.Name)
	setString("TONALMCP_DB_USER", &cfg.Storage.Database.User)
	setString("TONALMCP_DB_PASSWORD", &cfg.Storage.Database.Password)
	setString("TONALMCP_DB_SSLMODE", &cfg.Storage.Database.SSLMode)

	setString("TONALMCP_LOG_LEVEL", &cfg.Log.Level)
}

// Validate checks the settings Load would reject. Call it again after
// changing a loaded Config.
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case TransportStdio:
	case TransportHTTP:
		if c.Server.Port == 0 {
			return fmt.Errorf("server.port is required for http transport")
		}
		if c.Auth.APIKey == "" {
			return fmt.Errorf("auth.api_key is required for http transport")
		}
	default:
		return fmt.Errorf("server.transport must be %q or %q, got %q", TransportStdio, TransportHTTP, c.Server.Transport)
	}

	if c.Tonal.BaseURL == "" {
		return fmt.Errorf("tonal.base_url is required")
	}
	if c.Tonal.AuthURL == "" {
		return fmt.Errorf("tonal.auth_url is required")
	}
	if c.Tonal.RequestsPerSecond < 0 {
		return fmt.Errorf("tonal.requests_per_second must not be negative")
	}

	switch c.Storage.Driver {
	case DriverNone:
	case DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the sqlite driver")
		}
	case DriverPostgres:
		d := c.Storage.Database
		if d.Host == "" {
			return fmt.Errorf("storage.database.host is required")
		}
		if d.Port == 0 {
			return fmt.Errorf("storage.database.port is required")
		}
		if d.Name == "" {
			return fmt.Errorf("storage.database.name is required")
		}
		if d.User == "" {
			return fmt.Errorf("storage.database.user is required")
		}
	default:
		return fmt.Errorf("storage.driver must be sqlite, postgres or none, got %q", c.Storage.Driver)
	}

	if c.Tailscale.Enabled && c.Server.Transport != TransportHTTP {
		return fmt.Errorf("tailscale requires http transport")
	}
	return nil
}
