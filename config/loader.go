package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults
const (
	DefaultPort               = 16181
	DefaultBaseURL            = "https://ressources.data.sncf.com/api/explore/v2.1"
	DefaultStationsDataset    = "gares-de-voyageurs"
	DefaultConnectionsDataset = "tgvmax"
	DefaultTimeoutMS          = 15000
	DefaultPageSize           = 100
	DefaultStationPages       = 5
	DefaultConnectionPages    = 20
	DefaultRetries            = 3
	DefaultRetryDelayMS       = 1000
	DefaultWindowDays         = 30
	DefaultCacheTTLHours      = 24
	DefaultReloadMinutes      = 60
)

// DefaultPaths are searched in order when no explicit path is given.
var DefaultPaths = []string{"config.yml", "./config/config.yml"}

// Config is the global application configuration
var Config AppConfig

// LoadAppConfig loads config from the first readable path and stores it in Config.
func LoadAppConfig(paths ...string) error {
	cfg, err := Load(paths...)
	if err != nil {
		return err
	}
	Config = cfg
	return nil
}

// Load reads, validates and defaults the configuration from the first readable path.
func Load(paths ...string) (AppConfig, error) {
	if len(paths) == 0 {
		paths = DefaultPaths
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return AppConfig{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse unmarshals, validates and defaults YAML configuration.
func Parse(data []byte) (AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return AppConfig{}, err
	}
	ApplyDefaults(&cfg)
	return cfg, nil
}

// Validate checks struct tags on the whole configuration.
func Validate(cfg AppConfig) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: %s failed %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ApplyDefaults fills zero values.
func ApplyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	if cfg.API.StationsDataset == "" {
		cfg.API.StationsDataset = DefaultStationsDataset
	}
	if cfg.API.ConnectionsDataset == "" {
		cfg.API.ConnectionsDataset = DefaultConnectionsDataset
	}
	if cfg.API.TimeoutMS == 0 {
		cfg.API.TimeoutMS = DefaultTimeoutMS
	}
	if cfg.Fetch.PageSize == 0 {
		cfg.Fetch.PageSize = DefaultPageSize
	}
	if cfg.Fetch.StationPages == 0 {
		cfg.Fetch.StationPages = DefaultStationPages
	}
	if cfg.Fetch.ConnectionPages == 0 {
		cfg.Fetch.ConnectionPages = DefaultConnectionPages
	}
	if cfg.Fetch.Retries == 0 {
		cfg.Fetch.Retries = DefaultRetries
	}
	if cfg.Fetch.RetryDelayMS == 0 {
		cfg.Fetch.RetryDelayMS = DefaultRetryDelayMS
	}
	if cfg.Window.Days == 0 {
		cfg.Window.Days = DefaultWindowDays
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.TTLHours == 0 {
		cfg.Cache.TTLHours = DefaultCacheTTLHours
	}
	if cfg.Cache.Prefix == "" {
		cfg.Cache.Prefix = "tgvmax"
	}
	if cfg.Reload.IntervalMinutes == 0 {
		cfg.Reload.IntervalMinutes = DefaultReloadMinutes
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Default returns a fully defaulted configuration.
func Default() AppConfig {
	var cfg AppConfig
	ApplyDefaults(&cfg)
	return cfg
}
