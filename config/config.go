package config

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/ichika06/ojt-tracker/internal/timeutil"
	"github.com/ichika06/ojt-tracker/metrics"
	"github.com/ichika06/ojt-tracker/remote"
)

const (
	KeyRemoteURL        = "remote.url"
	KeyTimezone         = "timezone"
	KeyGoalDefault      = "goal.default"
	KeyCachePath        = "cache.path"
	KeySyncPollInterval = "sync.poll_interval"
)

type Config struct {
	Remote   RemoteConfig `mapstructure:"remote" validate:"required"`
	Timezone string       `mapstructure:"timezone" validate:"required"`
	Goal     GoalConfig   `mapstructure:"goal"`
	Cache    CacheConfig  `mapstructure:"cache"`
	Sync     SyncConfig   `mapstructure:"sync"`
}

type RemoteConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

type GoalConfig struct {
	Default float64 `mapstructure:"default" validate:"gt=0"`
}

type CacheConfig struct {
	Path string `mapstructure:"path"`
}

type SyncConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# ojt-tracker configuration
remote:
  url: "https://ojt-tracker.example.com"

timezone: "Asia/Manila"

goal:
  default: 486

cache:
  # Leave empty for the default location under ~/.ojt-tracker.
  path: ""

sync:
  poll_interval: 30s
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if _, err := timeutil.LoadZone(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("validation failed: timezone %q: %w", cfg.Timezone, err)
	}
	if cfg.Sync.PollInterval < 0 {
		return nil, fmt.Errorf("validation failed: sync.poll_interval must not be negative")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyRemoteURL, "")
	v.SetDefault(KeyTimezone, timeutil.DefaultZone)
	v.SetDefault(KeyGoalDefault, metrics.DefaultGoal)
	v.SetDefault(KeyCachePath, "")
	v.SetDefault(KeySyncPollInterval, remote.DefaultPollInterval)
}
