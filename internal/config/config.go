package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the full wbsboard configuration
type Config struct {
	API   APIConfig   `json:"api" mapstructure:"api"`
	Board BoardConfig `json:"board" mapstructure:"board"`
	Log   LogConfig   `json:"log" mapstructure:"log"`
}

// APIConfig contains the ERP REST API connection settings
type APIConfig struct {
	BaseURL       string `json:"baseURL" mapstructure:"baseurl"`
	Token         string `json:"token,omitempty" mapstructure:"token"`
	Tenant        string `json:"tenant,omitempty" mapstructure:"tenant"`
	TimeoutMs     int    `json:"timeoutMs" mapstructure:"timeoutms"`
	RetryAttempts int    `json:"retryAttempts" mapstructure:"retryattempts"`
}

// BoardConfig contains board behaviour settings
type BoardConfig struct {
	RefreshIntervalSec int `json:"refreshIntervalSec" mapstructure:"refreshintervalsec"`
	ToastSeconds       int `json:"toastSeconds" mapstructure:"toastseconds"`
	CacheTTLSec        int `json:"cacheTTLSec" mapstructure:"cachettlsec"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level string `json:"level" mapstructure:"level"`
	File  string `json:"file,omitempty" mapstructure:"file"`
}

// Timeout returns the per-request API timeout
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// RefreshInterval returns the period between background refetches
func (c BoardConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSec) * time.Second
}

// ToastDuration returns how long notifications stay on screen
func (c BoardConfig) ToastDuration() time.Duration {
	return time.Duration(c.ToastSeconds) * time.Second
}

// CacheTTL returns how long fetched lists are served from cache
func (c BoardConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSec) * time.Second
}

// EnvPrefix is the prefix of environment overrides, e.g. WBSBOARD_API_TOKEN
const EnvPrefix = "WBSBOARD"

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:       "http://localhost:8080/api",
			TimeoutMs:     10000,
			RetryAttempts: 3,
		},
		Board: BoardConfig{
			RefreshIntervalSec: 30,
			ToastSeconds:       5,
			CacheTTLSec:        10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration with priority:
// 1. WBSBOARD_* environment variables
// 2. .wbsboard.{json,yaml,yml} in projectPath
// 3. Defaults
func LoadConfig(projectPath string) (*Config, error) {
	v := newViper()
	v.SetConfigName(".wbsboard")
	v.AddConfigPath(projectPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return decode(v)
}

// LoadFile loads configuration from an explicit file path, still honouring
// environment overrides
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults register every key so AutomaticEnv applies on Unmarshal
	d := DefaultConfig()
	v.SetDefault("api.baseurl", d.API.BaseURL)
	v.SetDefault("api.token", d.API.Token)
	v.SetDefault("api.tenant", d.API.Tenant)
	v.SetDefault("api.timeoutms", d.API.TimeoutMs)
	v.SetDefault("api.retryattempts", d.API.RetryAttempts)
	v.SetDefault("board.refreshintervalsec", d.Board.RefreshIntervalSec)
	v.SetDefault("board.toastseconds", d.Board.ToastSeconds)
	v.SetDefault("board.cachettlsec", d.Board.CacheTTLSec)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return MergeWithDefaults(&cfg), nil
}

// SaveConfig writes configuration as JSON. The API token is never written.
func SaveConfig(cfg *Config, path string) error {
	out := *cfg
	out.API.Token = ""

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeWithDefaults fills in missing values with defaults
func MergeWithDefaults(cfg *Config) *Config {
	defaults := DefaultConfig()

	// Merge API config
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaults.API.BaseURL
	}
	if cfg.API.TimeoutMs <= 0 {
		cfg.API.TimeoutMs = defaults.API.TimeoutMs
	}
	if cfg.API.RetryAttempts <= 0 {
		cfg.API.RetryAttempts = defaults.API.RetryAttempts
	}

	// Merge Board config
	if cfg.Board.RefreshIntervalSec <= 0 {
		cfg.Board.RefreshIntervalSec = defaults.Board.RefreshIntervalSec
	}
	if cfg.Board.ToastSeconds <= 0 {
		cfg.Board.ToastSeconds = defaults.Board.ToastSeconds
	}
	if cfg.Board.CacheTTLSec < 0 {
		cfg.Board.CacheTTLSec = defaults.Board.CacheTTLSec
	}

	// Merge Log config
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}

	return cfg
}

// Load is a convenience function that loads config from current directory
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return LoadConfig(cwd)
}
