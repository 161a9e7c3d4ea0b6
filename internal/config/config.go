package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"robin/internal/domain"
)

// Config represents the application configuration
type Config struct {
	Version int           `toml:"version"`
	API     APIConfig     `toml:"api"`
	Query   QueryConfig   `toml:"query"`
	Log     LogConfig     `toml:"log"`
	Metrics MetricsConfig `toml:"metrics"`
}

// APIConfig describes the remote statistics service
type APIConfig struct {
	BaseURL          string        `toml:"base_url"`
	Timeout          time.Duration `toml:"-"`
	RawTimeout       string        `toml:"timeout"`
	RepositoriesPath string        `toml:"repositories_path"`
	TeamsPath        string        `toml:"teams_path"`
	PendingPath      string        `toml:"pending_path"`
	ClosedStatsPath  string        `toml:"closed_stats_path"`
	MembersParam     string        `toml:"members_param"` // query parameter carrying comma-joined member ids
}

// QueryConfig holds defaults for the statistics query form
type QueryConfig struct {
	Category            string        `toml:"category"`
	DefaultStatsType    int           `toml:"default_stats_type"`
	NotificationTimeout time.Duration `toml:"-"`
	RawNotification     string        `toml:"notification_timeout"`
}

// LogConfig controls logging output
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig controls metric export
type MetricsConfig struct {
	Textfile string `toml:"textfile"` // written on exit when set
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

type configService struct {
	filePath string
	getenv   func(string) string
}

// NewConfigService creates a config service rooted in the user config directory
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	return &configService{
		filePath: filepath.Join(configDir, "robin", "config.toml"),
		getenv:   os.Getenv,
	}
}

// NewConfigServiceAt creates a config service for an explicit file
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path, getenv: os.Getenv}
}

func (cs *configService) Path() string { return cs.filePath }

// Load reads the config file, falling back to defaults when it does not exist,
// then applies environment overrides
func (cs *configService) Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	var cfg *Config
	if _, err := os.Stat(cs.filePath); errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
	} else {
		cfg, err = cs.LoadFromPath(cs.filePath)
		if err != nil {
			return nil, err
		}
	}

	cfg.applyEnv(cs.getenv)
	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		API: APIConfig{
			BaseURL:          "http://localhost:8000",
			RawTimeout:       "15s",
			Timeout:          15 * time.Second,
			RepositoriesPath: "/api/repositories/",
			TeamsPath:        "/api/teams/",
			PendingPath:      "/api/stats/pending-patchs/",
			ClosedStatsPath:  "/api/stats/closed-patchs",
			MembersParam:     "kerberos_id",
		},
		Query: QueryConfig{
			Category:            string(domain.CategoryClosedPatchs),
			DefaultStatsType:    int(domain.StatsPersonal),
			RawNotification:     "3s",
			NotificationTimeout: 3 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
			File:  defaultLogFile(),
		},
	}
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "robin.log"
	}
	return filepath.Join(dir, "robin", "robin.log")
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv("ROBIN_BASE_URL")); v != "" {
		c.API.BaseURL = v
	}
	if v := strings.TrimSpace(getenv("ROBIN_MEMBERS_PARAM")); v != "" {
		c.API.MembersParam = v
	}
	if v := strings.ToLower(strings.TrimSpace(getenv("ROBIN_LOG_LEVEL"))); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(getenv("ROBIN_LOG_FILE")); v != "" {
		c.Log.File = v
	}
	if v := strings.TrimSpace(getenv("ROBIN_METRICS_TEXTFILE")); v != "" {
		c.Metrics.Textfile = v
	}
}

func (c *Config) setDefaults() error {
	if c.API.RawTimeout == "" {
		c.API.RawTimeout = "15s"
	}
	d, err := time.ParseDuration(c.API.RawTimeout)
	if err != nil {
		return fmt.Errorf("parse api.timeout %q: %w", c.API.RawTimeout, err)
	}
	c.API.Timeout = d

	if c.Query.RawNotification == "" {
		c.Query.RawNotification = "3s"
	}
	d, err = time.ParseDuration(c.Query.RawNotification)
	if err != nil {
		return fmt.Errorf("parse query.notification_timeout %q: %w", c.Query.RawNotification, err)
	}
	c.Query.NotificationTimeout = d

	if c.API.MembersParam == "" {
		c.API.MembersParam = "kerberos_id"
	}
	if c.Query.Category == "" {
		c.Query.Category = string(domain.CategoryClosedPatchs)
	}
	if c.Query.DefaultStatsType == 0 {
		c.Query.DefaultStatsType = int(domain.StatsPersonal)
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.File == "" {
		c.Log.File = defaultLogFile()
	}
	return nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url %q: scheme must be http or https", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.RawTimeout)
	}
	if c.Query.NotificationTimeout <= 0 {
		return fmt.Errorf("query.notification_timeout must be positive, got %s", c.Query.RawNotification)
	}
	switch domain.StatsType(c.Query.DefaultStatsType) {
	case domain.StatsPersonal, domain.StatsTeam:
	default:
		return fmt.Errorf("query.default_stats_type %d: must be 1 (personal) or 2 (team)", c.Query.DefaultStatsType)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: must be debug, info, warn or error", c.Log.Level)
	}
	return nil
}
