package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dunglas/go-routematch"
	"github.com/spf13/viper"
)

// Config holds the route table and the settings of the resolve service.
type Config struct {
	Routes   []Route
	Server   ServerConfig
	LogLevel string `mapstructure:"log_level"`
}

// Route is a named matcher string with its options.
type Route struct {
	Name            string
	Pattern         string
	Strict          bool
	CaseInsensitive bool `mapstructure:"case_insensitive"`
	Incomplete      bool
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr string
}

// Load reads configuration from path, or from routes.{yaml,toml,json} in the working directory
// or ~/.config/routematch when path is empty. Env var overrides use prefix ROUTEMATCH_.
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log_level", "info")

	if path == "" {
		path = os.Getenv("ROUTEMATCH_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "routematch"))
		v.SetConfigName("routes")
	}

	v.SetEnvPrefix("ROUTEMATCH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Options returns the matcher options of the route.
func (r Route) Options() routematch.Options {
	return routematch.Options{
		Strict:          r.Strict,
		CaseInsensitive: r.CaseInsensitive,
		Incomplete:      r.Incomplete,
	}
}

// Build compiles the routes of cfg into a table, in declaration order.
// Every invalid route is reported, not only the first one.
func Build(cfg Config) (*routematch.Table, error) {
	var (
		table routematch.Table
		errs  []error
	)
	seen := make(map[string]struct{}, len(cfg.Routes))

	for i, r := range cfg.Routes {
		name := r.Name
		if name == "" {
			name = r.Pattern
		}

		if _, ok := seen[name]; ok {
			errs = append(errs, fmt.Errorf("route #%d: duplicate route name %q", i, name))
			continue
		}
		seen[name] = struct{}{}

		m, err := routematch.Compile(r.Pattern, r.Options())
		if err != nil {
			errs = append(errs, fmt.Errorf("route %q: %w", name, err))
			continue
		}

		table.Add(name, m)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &table, nil
}
