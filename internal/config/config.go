package config

import (
	"embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/iadityasingh7/news/internal/news"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

const (
	appName   = "news"
	apiKeyEnv = "NEWSDATA_API_KEY"

	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type APIConfig struct {
	BaseURL           string  `yaml:"base_url"`
	APIKey            string  `yaml:"api_key"`
	Language          string  `yaml:"language"`
	PageSize          int     `yaml:"page_size"`
	Timeout           string  `yaml:"timeout"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

type StorageConfig struct {
	Backend  string `yaml:"backend"`
	Path     string `yaml:"path"`
	RedisURL string `yaml:"redis_url"`
	Key      string `yaml:"key"`
}

type UIConfig struct {
	StartCategory     string `yaml:"start_category"`
	PrefetchThreshold int    `yaml:"prefetch_threshold"`
	NoticeTTL         string `yaml:"notice_ttl"`
}

type Config struct {
	API          APIConfig     `yaml:"api"`
	Storage      StorageConfig `yaml:"storage"`
	UI           UIConfig      `yaml:"ui"`
	LogLevel     string        `yaml:"log_level"`
	CheckUpdates bool          `yaml:"check_updates"`
}

// APIKey returns the configured key, falling back to $NEWSDATA_API_KEY.
func (c *Config) APIKey() string {
	if c.API.APIKey != "" {
		return c.API.APIKey
	}
	return os.Getenv(apiKeyEnv)
}

func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

func (c *Config) PageSize() int {
	if c.API.PageSize <= 0 {
		return 9
	}
	return c.API.PageSize
}

func (c *Config) NoticeTTL() time.Duration {
	d, err := time.ParseDuration(c.UI.NoticeTTL)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// PrefetchThreshold is how many rows from the end of the list the view
// starts loading the next page.
func (c *Config) PrefetchThreshold() int {
	if c.UI.PrefetchThreshold < 0 {
		return 0
	}
	return c.UI.PrefetchThreshold
}

// StartCategory returns the category selected at launch, latest if unset
// or unknown.
func (c *Config) StartCategory() news.Category {
	cat, err := news.ParseCategory(c.UI.StartCategory)
	if err != nil {
		return news.Latest
	}
	return cat
}

// StoragePath returns the sqlite database path.
func (c *Config) StoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	return DataPath()
}

func (c *Config) StorageKey() string {
	if c.Storage.Key == "" {
		return "likedNews"
	}
	return c.Storage.Key
}

func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

func DataPath() string {
	return filepath.Join(xdg.DataHome, appName, "news.db")
}

func LogDir() string {
	return filepath.Join(xdg.StateHome, appName, "logs")
}

// LoadEnv reads .env files from the working directory and the config
// directory. Variables already set in the environment win; missing files
// are ignored.
func LoadEnv() {
	for _, p := range []string{".env", filepath.Join(xdg.ConfigHome, appName, ".env")} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
		}
	}
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path (the xdg default when empty). Keys missing
// from the file keep their default values. A missing file is created from
// the defaults.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Non-fatal: the embedded defaults still apply.
			_ = writeDefaults(path)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url: scheme must be http or https, got %q", u.Scheme)
	}
	if cfg.API.Timeout != "" {
		if _, err := time.ParseDuration(cfg.API.Timeout); err != nil {
			return fmt.Errorf("api.timeout: %w", err)
		}
	}
	if cfg.API.RequestsPerSecond < 0 {
		return fmt.Errorf("api.requests_per_second must not be negative")
	}

	switch strings.ToLower(cfg.Storage.Backend) {
	case "", BackendSQLite:
	case BackendRedis:
		if cfg.Storage.RedisURL == "" {
			return fmt.Errorf("storage.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("storage.backend: unknown backend %q (valid: sqlite, redis)", cfg.Storage.Backend)
	}

	if cfg.UI.StartCategory != "" {
		if _, err := news.ParseCategory(cfg.UI.StartCategory); err != nil {
			return fmt.Errorf("ui.start_category: %w", err)
		}
	}
	if cfg.UI.NoticeTTL != "" {
		if _, err := time.ParseDuration(cfg.UI.NoticeTTL); err != nil {
			return fmt.Errorf("ui.notice_ttl: %w", err)
		}
	}
	return nil
}
