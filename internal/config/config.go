package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/curbz/notam-composer/pkg/util"
	"github.com/joho/godotenv"
)

const (
	defaultDictionaryFile     = "data/dictionary.yaml"
	defaultAirportsFile       = "data/airports.csv"
	defaultExportDirectory    = "exports"
	defaultSessionIdleTimeout = 30 * time.Minute
)

type Config struct {
	Composer ComposerConfig `yaml:"composer"`
	Log      LogConfig      `yaml:"log"`
}

type ComposerConfig struct {
	DictionaryFile           string        `yaml:"dictionary_file"`
	AirportsFile             string        `yaml:"airports_file"`
	ExportDirectory          string        `yaml:"export_directory"`
	SessionIdleTimeoutStr    string        `yaml:"session_idle_timeout"`
	SessionIdleTimeout       time.Duration `yaml:"-"`
	// cron spec, empty disables reloads
	DictionaryReloadSchedule string `yaml:"dictionary_reload_schedule"`
	MetricsTextfile          string `yaml:"metrics_textfile"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Environment string `yaml:"environment"`
}

// Load reads the YAML file at path (if path is not empty), overlays NOTAM_*
// environment variables, also read from a .env file when present, and fills
// in defaults.
func Load(path string) (*Config, error) {
	// A missing .env file is fine. godotenv does not override variables that are already set.
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		loaded, err := util.LoadConfig[Config](path)
		if err != nil {
			return nil, fmt.Errorf("error loading configuration %s: %w", path, err)
		}
		cfg = loaded
	}

	applyEnv(cfg)

	if err := cfg.finalise(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	overrides := []struct {
		env    string
		target *string
	}{
		{"NOTAM_LOG_LEVEL", &cfg.Log.Level},
		{"NOTAM_ENVIRONMENT", &cfg.Log.Environment},
		{"NOTAM_DICTIONARY_FILE", &cfg.Composer.DictionaryFile},
		{"NOTAM_AIRPORTS_FILE", &cfg.Composer.AirportsFile},
		{"NOTAM_EXPORT_DIR", &cfg.Composer.ExportDirectory},
		{"NOTAM_SESSION_IDLE_TIMEOUT", &cfg.Composer.SessionIdleTimeoutStr},
		{"NOTAM_DICTIONARY_RELOAD", &cfg.Composer.DictionaryReloadSchedule},
		{"NOTAM_METRICS_TEXTFILE", &cfg.Composer.MetricsTextfile},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.env); ok {
			*o.target = v
		}
	}
}

func (cfg *Config) finalise() error {
	c := &cfg.Composer
	if c.DictionaryFile == "" {
		c.DictionaryFile = defaultDictionaryFile
	}
	if c.AirportsFile == "" {
		c.AirportsFile = defaultAirportsFile
	}
	if c.ExportDirectory == "" {
		c.ExportDirectory = defaultExportDirectory
	}

	if c.SessionIdleTimeoutStr != "" {
		d, err := time.ParseDuration(c.SessionIdleTimeoutStr)
		if err != nil {
			return fmt.Errorf("failed to parse session_idle_timeout: %w", err)
		}
		c.SessionIdleTimeout = d
	} else {
		c.SessionIdleTimeout = defaultSessionIdleTimeout
	}

	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	cfg.Log.Environment = strings.ToLower(cfg.Log.Environment)
	if cfg.Log.Environment == "" {
		cfg.Log.Environment = "development"
	}
	return nil
}
