// Package config builds the process-wide configuration once at startup. The
// resulting struct is passed explicitly into the service and gateway
// constructors; nothing reads the environment after Load returns.
package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/notionbridge/internal/foundation/errors"
)

// Defaults applied when neither file nor environment provides a value.
const (
	DefaultPort          = 3000
	DefaultTitleProperty = "Title"
	DefaultSlugProperty  = "Slug"
)

// Config carries everything the service needs to run.
type Config struct {
	// Token authenticates against the remote store. Environment only, never
	// read from the config file.
	Token string `yaml:"-"`

	DatabaseID    string `yaml:"database_id"`
	TitleProperty string `yaml:"title_property"`
	SlugProperty  string `yaml:"slug_property"`
	Port          int    `yaml:"port"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // text|json
}

// Load assembles configuration in ascending precedence: defaults, optional
// YAML file, environment (with .env files loaded first). Validation failures
// are fatal configuration errors.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	cfg := &Config{
		TitleProperty: DefaultTitleProperty,
		SlugProperty:  DefaultSlugProperty,
		Port:          DefaultPort,
		LogLevel:      "info",
		LogFormat:     "text",
	}

	if path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile overlays values from a YAML config file. A missing file is fine;
// a malformed one is not.
func applyFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", path).Build()
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "failed to parse config file").
			WithContext("path", path).Build()
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("NOTION_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("NOTION_DATABASE_ID"); v != "" {
		cfg.DatabaseID = v
	}
	if v := os.Getenv("NOTION_TITLE_PROP"); v != "" {
		cfg.TitleProperty = v
	}
	if v := os.Getenv("NOTION_SLUG_PROP"); v != "" {
		cfg.SlugProperty = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return errors.ConfigError("PORT must be a valid port number").
				WithContext("value", v).Build()
		}
		cfg.Port = port
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	return nil
}

// Validate checks the mandatory settings. Called by Load; exported so tests
// and manual construction can reuse it.
func (c *Config) Validate() error {
	if c.Token == "" {
		return errors.ConfigError("NOTION_TOKEN is required").Build()
	}
	if c.DatabaseID == "" {
		return errors.ConfigError("NOTION_DATABASE_ID is required").Build()
	}
	if c.TitleProperty == "" {
		return errors.ConfigError("title property name must not be empty").Build()
	}
	if c.SlugProperty == "" {
		return errors.ConfigError("slug property name must not be empty").Build()
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.ConfigError("listen port out of range").
			WithContext("port", c.Port).Build()
	}
	return nil
}
