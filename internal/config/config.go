package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Catalog sources.
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourceValkey   = "valkey"
	SourceRedis    = "redis"
)

// DefaultSlackBaseURL is the platform Web API root.
const DefaultSlackBaseURL = "https://slack.com/api/"

// Config holds the songsearch application configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
	Slack   SlackConfig   `yaml:"slack"`
	Catalog CatalogConfig `yaml:"catalog"`
	Filters FiltersConfig `yaml:"filters"`
	Details DetailsConfig `yaml:"details"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
	// APIKeys guard the direct query API; empty disables auth.
	APIKeys []string `yaml:"api_keys"`
}

// SlackConfig holds platform credentials and client settings.
type SlackConfig struct {
	BotToken      string `yaml:"bot_token"`
	AppToken      string `yaml:"app_token"`
	SigningSecret string `yaml:"signing_secret"`
	BaseURL       string `yaml:"base_url"`
	TimeoutSec    int    `yaml:"timeout_sec"`
	RetryMax      int    `yaml:"retry_max"` // 0 disables retries; omitted defaults to 3
	SocketMode    bool   `yaml:"socket_mode"`
}

// CatalogConfig selects where the song catalog is loaded from.
type CatalogConfig struct {
	Source           string   `yaml:"source"` // embedded (default), file, valkey, redis
	Path             string   `yaml:"path"`
	Key              string   `yaml:"key"`
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Store reports whether the catalog lives in a key-value store.
func (c CatalogConfig) Store() bool {
	return c.Source == SourceValkey || c.Source == SourceRedis
}

// FiltersConfig lists the filter dimensions offered to clients, in display order.
type FiltersConfig struct {
	Dimensions []DimensionConfig `yaml:"dimensions"`
}

// DimensionConfig describes one filter dimension.
type DimensionConfig struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"display_name"`
	Type        string `yaml:"type"`      // multi_select, toggle
	Attribute   string `yaml:"attribute"` // entity attribute the dimension matches on
}

// DetailsConfig holds the entity details presentation settings.
type DetailsConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	TimeoutSec  int    `yaml:"timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, docker, prod).
func Load(env string) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands env references in raw YAML, decodes it, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	cfg := Config{Slack: SlackConfig{RetryMax: -1}} // -1 marks retry_max as unset
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Slack.BaseURL == "" {
		c.Slack.BaseURL = DefaultSlackBaseURL
	}
	if !strings.HasSuffix(c.Slack.BaseURL, "/") {
		c.Slack.BaseURL += "/"
	}
	if c.Slack.TimeoutSec <= 0 {
		c.Slack.TimeoutSec = 10
	}
	if c.Slack.RetryMax < 0 {
		c.Slack.RetryMax = 3
	}
	if c.Catalog.Source == "" {
		c.Catalog.Source = SourceEmbedded
	}
	if c.Catalog.Key == "" {
		c.Catalog.Key = "songsearch:catalog"
	}
	if c.Catalog.ReadinessTimeout <= 0 {
		c.Catalog.ReadinessTimeout = 10
	}
	if len(c.Filters.Dimensions) == 0 {
		c.Filters.Dimensions = []DimensionConfig{
			{Name: "bands", DisplayName: "Bands", Type: "multi_select", Attribute: "band"},
			{Name: "is_single", DisplayName: "Singles Only", Type: "toggle", Attribute: "is_single"},
		}
	}
	if c.Details.Title == "" {
		c.Details.Title = "hello world"
	}
	if c.Details.Description == "" {
		c.Details.Description = "This is a description"
	}
	if c.Details.TimeoutSec <= 0 {
		c.Details.TimeoutSec = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Catalog.Source {
	case SourceEmbedded:
	case SourceFile:
		if c.Catalog.Path == "" {
			return fmt.Errorf("catalog.path is required for source %q", SourceFile)
		}
	case SourceValkey, SourceRedis:
		if len(c.Catalog.Addrs) == 0 {
			return fmt.Errorf("catalog.addrs is required for source %q", c.Catalog.Source)
		}
	default:
		return fmt.Errorf(
			"catalog.source must be one of embedded, file, valkey, redis, got %q", c.Catalog.Source,
		)
	}

	if c.Slack.SocketMode {
		if c.Slack.AppToken == "" {
			return fmt.Errorf("slack.app_token is required when slack.socket_mode is enabled")
		}
		if c.Slack.BotToken == "" {
			return fmt.Errorf("slack.bot_token is required when slack.socket_mode is enabled")
		}
	}

	seen := make(map[string]struct{}, len(c.Filters.Dimensions))
	for i, d := range c.Filters.Dimensions {
		if d.Name == "" {
			return fmt.Errorf("filters.dimensions[%d].name is required", i)
		}
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("filters.dimensions[%d].name %q is duplicated", i, d.Name)
		}
		seen[d.Name] = struct{}{}
		switch d.Type {
		case "multi_select", "toggle":
		default:
			return fmt.Errorf(
				"filters.dimensions[%d].type must be \"multi_select\" or \"toggle\", got %q", i, d.Type,
			)
		}
	}
	return nil
}

// loadDotEnv populates the process environment from a dotenv file. A missing file is fine;
// variables already set in the environment win.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// relative to the source file: internal/config -> project root
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b)))
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
