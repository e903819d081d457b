package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	TMDB     TMDBConfig     `toml:"tmdb"`
	Cache    CacheConfig    `toml:"cache"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// TMDBConfig contains upstream credentials, endpoints and the request policy.
type TMDBConfig struct {
	APIKey         string   `toml:"api_key"`
	AccessToken    string   `toml:"access_token"`
	BaseURL        string   `toml:"base_url"`
	ImageBaseURL   string   `toml:"image_base_url"`
	RequestTimeout Duration `toml:"request_timeout"`
	ProbeTimeout   Duration `toml:"probe_timeout"`
	ProbeInterval  Duration `toml:"probe_interval"`
	Retries        int      `toml:"retries"`
	Backoff        Duration `toml:"backoff"`
	RateLimit      float64  `toml:"rate_limit"`
	Burst          int      `toml:"burst"`
}

// Configured reports whether any credential is present.
func (c TMDBConfig) Configured() bool {
	return c.APIKey != "" || c.AccessToken != ""
}

// CacheConfig selects the result cache backend and its freshness window.
type CacheConfig struct {
	TTL       Duration `toml:"ttl"`
	Backend   string   `toml:"backend"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	RetainFor Duration `toml:"retain_for"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host      string  `toml:"host"`
	Port      int     `toml:"port"`
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
}

// LogConfig sets the default log level.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration wraps [time.Duration] so TOML values like "30s" decode directly.
type Duration struct {
	time.Duration
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: duration %q: %v", ErrInvalidConfig, text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values from [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfigOrDefault loads path when it exists and falls back to [DefaultConfig] otherwise.
func LoadConfigOrDefault(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate rejects values the services cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.TMDB.BaseURL == "":
		return fmt.Errorf("%w: tmdb.base_url is empty", ErrInvalidConfig)
	case c.TMDB.Retries < 1:
		return fmt.Errorf("%w: tmdb.retries must be at least 1", ErrInvalidConfig)
	case c.TMDB.RequestTimeout.Duration <= 0, c.TMDB.ProbeTimeout.Duration <= 0:
		return fmt.Errorf("%w: tmdb timeouts must be positive", ErrInvalidConfig)
	case c.Cache.TTL.Duration <= 0:
		return fmt.Errorf("%w: cache.ttl must be positive", ErrInvalidConfig)
	}

	switch c.Cache.Backend {
	case "", "memory":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("%w: cache.redis_addr is required for the redis backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown cache backend %q", ErrInvalidConfig, c.Cache.Backend)
	}
	return nil
}

// LoadEnv reads the given dotenv files into the process environment without overriding variables already set.
//
// Missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overlays environment variables onto c.
//
// The REACT_APP_ names are read as a fallback for existing .env files.
func ApplyEnv(c *Config) {
	if v := firstEnv("TMDB_API_KEY", "REACT_APP_TMDB_API_KEY"); v != "" {
		c.TMDB.APIKey = v
	}
	if v := firstEnv("TMDB_ACCESS_TOKEN", "REACT_APP_TMDB_ACCESS_TOKEN"); v != "" {
		c.TMDB.AccessToken = v
	}
	if v := firstEnv("TMDB_BASE_URL", "REACT_APP_TMDB_BASE_URL"); v != "" {
		c.TMDB.BaseURL = v
	}
	if v := os.Getenv("MOVIEPLEX_REDIS_ADDR"); v != "" {
		c.Cache.Backend = "redis"
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv("MOVIEPLEX_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("MOVIEPLEX_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("MOVIEPLEX_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
