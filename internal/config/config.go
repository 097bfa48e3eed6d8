// Package config loads civicindex settings from defaults, an optional
// config file, CIVICINDEX_* environment variables and bound CLI flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/katalvlaran/civicindex/internal/logging"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// EnvPrefix is prepended to every environment key.
const EnvPrefix = "CIVICINDEX"

// Source kinds.
const (
	SourceMemory   = "memory"
	SourceFile     = "file"
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
)

type Config struct {
	Source   SourceConfig   `mapstructure:"source"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Log      LogConfig      `mapstructure:"log"`
	Related  RelatedConfig  `mapstructure:"related"`
	Affinity AffinityConfig `mapstructure:"affinity"`
	Build    BuildConfig    `mapstructure:"build"`
}

type SourceConfig struct {
	Kind string `mapstructure:"kind"` // memory, file, sqlite or postgres
	DSN  string `mapstructure:"dsn"`  // sqlite path or postgres URL
	File string `mapstructure:"file"` // fixture path for kind=file
}

type NATSConfig struct {
	URL string `mapstructure:"url"` // empty = no events
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RelatedConfig struct {
	Limit int `mapstructure:"limit"`
}

// AffinityConfig mirrors index.Affinity.
type AffinityConfig struct {
	Base     int64 `mapstructure:"base"`
	Location int64 `mapstructure:"location"`
	Category int64 `mapstructure:"category"`
	Status   int64 `mapstructure:"status"`
	SameDay  int64 `mapstructure:"same_day"`
	Keyword  int64 `mapstructure:"keyword"`
}

type BuildConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// SetDefaults registers every key with its default so that environment
// variables resolve even without a config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("source.kind", SourceFile)
	v.SetDefault("source.dsn", "")
	v.SetDefault("source.file", "requests.yaml")
	v.SetDefault("nats.url", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logging.FormatText)
	v.SetDefault("related.limit", 3)
	v.SetDefault("affinity.base", 10)
	v.SetDefault("affinity.location", 6)
	v.SetDefault("affinity.category", 4)
	v.SetDefault("affinity.status", 1)
	v.SetDefault("affinity.same_day", 2)
	v.SetDefault("affinity.keyword", 1)
	v.SetDefault("build.concurrency", 4)
}

// Load reads configuration into a Config. When path is empty, a
// civicindex.{yaml,toml,json} in the working directory is used if present;
// an explicit path must exist.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("civicindex")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: read config: %w", ErrInvalidConfig, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceMemory:
	case SourceFile:
		if c.Source.File == "" {
			return fmt.Errorf("%w: source.file is required for kind %q", ErrInvalidConfig, c.Source.Kind)
		}
	case SourceSQLite, SourcePostgres:
		if c.Source.DSN == "" {
			return fmt.Errorf("%w: source.dsn is required for kind %q", ErrInvalidConfig, c.Source.Kind)
		}
	default:
		return fmt.Errorf("%w: unknown source.kind %q", ErrInvalidConfig, c.Source.Kind)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if f := c.Log.Format; f != logging.FormatText && f != logging.FormatJSON {
		return fmt.Errorf("%w: unknown log.format %q", ErrInvalidConfig, f)
	}
	if c.Related.Limit < 1 {
		return fmt.Errorf("%w: related.limit must be positive, got %d", ErrInvalidConfig, c.Related.Limit)
	}
	if c.Build.Concurrency < 1 {
		return fmt.Errorf("%w: build.concurrency must be positive, got %d", ErrInvalidConfig, c.Build.Concurrency)
	}

	a := c.Affinity
	if a.Base < 1 {
		return fmt.Errorf("%w: affinity.base must be positive, got %d", ErrInvalidConfig, a.Base)
	}
	for name, w := range map[string]int64{
		"location": a.Location, "category": a.Category, "status": a.Status,
		"same_day": a.SameDay, "keyword": a.Keyword,
	} {
		if w < 0 {
			return fmt.Errorf("%w: affinity.%s must not be negative, got %d", ErrInvalidConfig, name, w)
		}
	}
	return nil
}
