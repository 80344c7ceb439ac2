package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the top-level healthwatch configuration.
type Config struct {
	DBPath     string     `mapstructure:"db_path"`
	Completion Completion `mapstructure:"completion"`
	Prompt     Prompt     `mapstructure:"prompt"`
	Query      Query      `mapstructure:"query"`
	Calories   Calories   `mapstructure:"calories"`
	Output     Output     `mapstructure:"output"`
}

// Completion configures the remote chat-completion endpoint.
type Completion struct {
	Endpoint     string        `mapstructure:"endpoint"`
	APIKey       string        `mapstructure:"api_key"`
	APIKeyHeader string        `mapstructure:"api_key_header"`
	Model        string        `mapstructure:"model"`
	SystemPrompt string        `mapstructure:"system_prompt"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// Prompt configures how the question and health data are framed.
type Prompt struct {
	Template string `mapstructure:"template"`
}

// Query bounds every per-metric query.
type Query struct {
	WindowMonths int `mapstructure:"window_months"`
	SampleLimit  int `mapstructure:"sample_limit"`
}

// Calories configures the daily calorie estimate.
type Calories struct {
	DayLayout string `mapstructure:"day_layout"`
	Timezone  string `mapstructure:"timezone"`
}

// Output defines output preferences.
type Output struct {
	Color  bool   `mapstructure:"color"`
	Locale string `mapstructure:"locale"`
}

// Location resolves the configured calorie timezone.
func (c Calories) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// RequireEndpoint reports a helpful error when no completion endpoint is set.
func (c *Config) RequireEndpoint() error {
	if strings.TrimSpace(c.Completion.Endpoint) == "" {
		return fmt.Errorf("no completion endpoint configured; set completion.endpoint in %s or %s_COMPLETION_ENDPOINT",
			filepath.Join(ConfigDir(), "config.yaml"), EnvPrefix)
	}
	return nil
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location),
// a .env file in the working directory and HEALTHWATCH_* environment
// variables, and returns a Config with all defaults applied.
func Load(cfgFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("db_path", filepath.Join(DefaultConfigDir, DefaultDBName))
	v.SetDefault("completion.endpoint", "")
	v.SetDefault("completion.api_key", "")
	v.SetDefault("completion.api_key_header", DefaultCompletion.APIKeyHeader)
	v.SetDefault("completion.model", "")
	v.SetDefault("completion.system_prompt", DefaultCompletion.SystemPrompt)
	v.SetDefault("completion.timeout", DefaultCompletion.Timeout)
	v.SetDefault("prompt.template", DefaultPrompt.Template)
	v.SetDefault("query.window_months", DefaultQuery.WindowMonths)
	v.SetDefault("query.sample_limit", DefaultQuery.SampleLimit)
	v.SetDefault("calories.day_layout", DefaultCalories.DayLayout)
	v.SetDefault("calories.timezone", DefaultCalories.Timezone)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.locale", DefaultOutput.Locale)

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(expandPath(DefaultConfigDir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Missing config file is not an error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if cfg.Query.WindowMonths <= 0 {
		return nil, fmt.Errorf("query.window_months must be positive, got %d", cfg.Query.WindowMonths)
	}
	if cfg.Query.SampleLimit <= 0 {
		return nil, fmt.Errorf("query.sample_limit must be positive, got %d", cfg.Query.SampleLimit)
	}

	cfg.DBPath = expandPath(cfg.DBPath)
	return &cfg, nil
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
