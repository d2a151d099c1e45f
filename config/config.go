// Package config loads the settings of the rackful server from a YAML file
// and RACKFUL_* environment variables, in that order.
package config

import (
	"io"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	rules "github.com/pieterb/rackful/pkg/header-rules"
)

const (
	ProviderMemory = "memory"
	ProviderSQLite = "sqlite"
	ProviderPebble = "pebble"
)

type Config struct {
	Listen               string      `yaml:"listen"`
	Store                Store       `yaml:"store"`
	MaxBodySize          int64       `yaml:"maxBodySize" split_words:"true"`
	MaxURILength         int         `yaml:"maxURILength" envconfig:"MAX_URI_LENGTH"`
	RequirePreconditions bool        `yaml:"requirePreconditions" split_words:"true"`
	AcceptTypes          []string    `yaml:"acceptTypes" split_words:"true"`
	LogFile              string      `yaml:"logFile" split_words:"true"`
	Verbose              bool        `yaml:"verbose"`
	Metrics              bool        `yaml:"metrics"`
	Rules                rules.Rules `yaml:"rules" ignored:"true"`
}

type Store struct {
	// One of memory, sqlite or pebble.
	Provider string `yaml:"provider"`
	// Database file for sqlite, directory for pebble.
	// Empty keeps everything in memory.
	Path string `yaml:"path"`
}

func Default() Config {
	return Config{
		Listen:       ":8080",
		Store:        Store{Provider: ProviderMemory},
		MaxBodySize:  10 << 20,
		MaxURILength: 8192,
		Metrics:      true,
	}
}

// Load reads filename, if given, over the defaults and then applies the
// environment. The result is validated.
func Load(filename string) (Config, error) {
	config := Default()
	if filename != "" {
		file, err := os.Open(filename)
		if err != nil {
			return config, errors.Wrap(err, "reading config")
		}
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		decoder.KnownFields(true)
		if err := decoder.Decode(&config); err != nil && err != io.EOF {
			return config, errors.Wrapf(err, "parsing %s", filename)
		}
	}
	if err := envconfig.Process("rackful", &config); err != nil {
		return config, errors.Wrap(err, "reading environment")
	}
	config.Normalize()
	return config, config.Validate()
}

// Normalize puts values that are matched case-insensitively in canonical
// form. Call it after overriding settings and before Validate.
func (c *Config) Normalize() {
	c.Store.Provider = strings.ToLower(c.Store.Provider)
}

func (c Config) Validate() error {
	switch c.Store.Provider {
	case ProviderMemory, ProviderSQLite, ProviderPebble:
	default:
		return errors.Errorf("unknown store provider %q", c.Store.Provider)
	}
	if c.Listen == "" {
		return errors.New("no listen address")
	}
	if c.MaxBodySize < 0 {
		return errors.New("maxBodySize must not be negative")
	}
	if c.MaxURILength < 0 {
		return errors.New("maxURILength must not be negative")
	}
	return nil
}
