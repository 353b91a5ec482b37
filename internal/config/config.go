// Package config loads fipscore settings from an optional YAML file, a .env
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dshills/fipscore/internal/locale"
	"github.com/dshills/fipscore/internal/usage"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	// DefaultPath is read when CONFIG_PATH is not set.
	DefaultPath = "./fipscore.yaml"
	homeDirName = ".fipscore"
)

// Config is the root configuration. An empty Language defers to the stored
// preference. Lenient drops unknown criteria instead of failing.
type Config struct {
	Language string      `yaml:"language" env:"FIPSCORE_LANG"`
	Lenient  bool        `yaml:"lenient"  env:"FIPSCORE_LENIENT"`
	Stats    StatsConfig `yaml:"stats"`
	Log      LogConfig   `yaml:"log"`
}

// StatsConfig holds the local usage counter settings.
type StatsConfig struct {
	Disabled bool          `yaml:"disabled" env:"FIPSCORE_STATS_DISABLED"`
	Path     string        `yaml:"path"     env:"FIPSCORE_STATS_PATH"`
	Debounce time.Duration `yaml:"debounce" env:"FIPSCORE_STATS_DEBOUNCE"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"FIPSCORE_LOG_LEVEL"  env-default:"warn"`
	Format string `yaml:"format" env:"FIPSCORE_LOG_FORMAT" env-default:"text"`
}

// Load reads configuration. Priority: ENV > YAML > defaults. A .env file in
// the working directory is loaded into the environment first, without
// overriding variables already set.
// The YAML path is CONFIG_PATH, falling back to DefaultPath; a missing
// default file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}

	// Zero is a valid debounce, so its default is seeded here; cleanenv
	// would replace an explicit zero with an env-default.
	cfg := Config{Stats: StatsConfig{Debounce: usage.DefaultDebounce}}
	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = DefaultPath
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if cfg.Stats.Path == "" {
		p, err := DefaultStatsPath()
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		cfg.Stats.Path = p
	}
	cfg.Stats.Path = expandHome(cfg.Stats.Path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	var errs []error
	if c.Language != "" {
		if _, err := locale.ParseLanguage(c.Language); err != nil {
			errs = append(errs, fmt.Errorf("language: %w", err))
		}
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Errorf("log.level: unsupported %q", c.Log.Level))
	}
	if !slices.Contains([]string{"text", "json"}, strings.ToLower(c.Log.Format)) {
		errs = append(errs, fmt.Errorf("log.format: unsupported %q", c.Log.Format))
	}
	if c.Stats.Debounce < 0 {
		errs = append(errs, fmt.Errorf("stats.debounce: must not be negative"))
	}
	if !c.Stats.Disabled && c.Stats.Path == "" {
		errs = append(errs, fmt.Errorf("stats.path: required unless stats are disabled"))
	}
	return errors.Join(errs...)
}

// DefaultStatsPath returns $HOME/.fipscore/stats.db.
func DefaultStatsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, homeDirName, usage.DataFileName), nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
