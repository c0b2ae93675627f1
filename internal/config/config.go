// Package config loads configuration of the swiftgrid binary.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/meowmeowcode/swiftgrid"
)

// EnvPrefix is a prefix of environment variables, e.g. SWIFTGRID_HTTP_ADDR.
const EnvPrefix = "SWIFTGRID"

var ErrInvalidConfig = errors.New("invalid configuration")

// Drivers lists supported data sources.
var Drivers = []string{"memory", "sqlite3", "mysql", "postgres", "clickhouse"}

type Config struct {
	HTTP   HTTP   `mapstructure:"http"`
	Log    Log    `mapstructure:"log"`
	Source Source `mapstructure:"source"`
	Grid   Grid   `mapstructure:"grid"`
}

type HTTP struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Source struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Table  string `mapstructure:"table"`
	Seed   int    `mapstructure:"seed"` // number of demo records to create
}

type Grid struct {
	PageSize       int    `mapstructure:"page_size"`
	PaginationMode string `mapstructure:"pagination_mode"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("source.driver", "memory")
	v.SetDefault("source.dsn", "")
	v.SetDefault("source.table", "people")
	v.SetDefault("source.seed", 100)
	v.SetDefault("grid.page_size", swiftgrid.DefaultPageSize)
	v.SetDefault("grid.pagination_mode", swiftgrid.PaginationRemote)
}

// Load reads configuration from defaults, an optional file and
// environment variables, in increasing order of priority.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.HTTP.CORSOrigins = splitOrigins(cfg.HTTP.CORSOrigins)
	return cfg, cfg.Validate()
}

// splitOrigins accepts both lists and comma-separated values
// coming from environment variables.
func splitOrigins(origins []string) []string {
	result := make([]string, 0, len(origins))
	for _, o := range origins {
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
	}
	return result
}

func (c Config) Validate() error {
	if c.HTTP.Addr == "" {
		return fmt.Errorf("%w: http.addr is empty", ErrInvalidConfig)
	}
	if !slices.Contains(Drivers, c.Source.Driver) {
		return fmt.Errorf("%w: unknown source.driver %q", ErrInvalidConfig, c.Source.Driver)
	}
	if c.Source.Driver != "memory" && c.Source.DSN == "" {
		return fmt.Errorf("%w: source.dsn is required for %s", ErrInvalidConfig, c.Source.Driver)
	}
	if c.Source.Driver != "memory" && c.Source.Table == "" {
		return fmt.Errorf("%w: source.table is required for %s", ErrInvalidConfig, c.Source.Driver)
	}
	if c.Source.Seed < 0 {
		return fmt.Errorf("%w: source.seed must not be negative", ErrInvalidConfig)
	}
	if c.Grid.PageSize <= 0 {
		return fmt.Errorf("%w: grid.page_size must be positive", ErrInvalidConfig)
	}
	if err := c.Options().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Options returns grid options based on the configuration.
func (c Config) Options() swiftgrid.Options {
	opts := swiftgrid.DefaultOptions()
	size := c.Grid.PageSize
	opts.Pagination = true
	opts.PaginationSize = &size
	opts.PaginationMode = c.Grid.PaginationMode
	return opts
}
