// Package config loads filtertags configuration.
//
// Configuration is loaded from three sources with the following precedence
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (FILTERTAGS_ prefix)
//  3. Config file (.filtertags.yaml)
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Supported log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// DefaultListen is the address the preview server binds by default.
const DefaultListen = "127.0.0.1:8080"

// Config represents the global configuration for filtertags.
type Config struct {
	// LogLevel controls the verbosity of log output.
	// Valid values: debug, info, warn, error.
	LogLevel string `mapstructure:"log-level" json:"logLevel"`

	// LogFormat controls the format of log output.
	// Valid values: text, json.
	LogFormat string `mapstructure:"log-format" json:"logFormat"`

	// Quiet suppresses all log output below error level.
	Quiet bool `mapstructure:"quiet" json:"quiet"`

	// Labels is a label catalog file or a directory of catalogs.
	Labels string `mapstructure:"labels" json:"labels,omitempty"`

	// Messages is a locale -> key -> message file used for translations.
	Messages string `mapstructure:"messages" json:"messages,omitempty"`

	// OpenAPI is a file path or URL of an OpenAPI 3 document whose list
	// operation describes the filter form.
	OpenAPI string `mapstructure:"openapi" json:"openapi,omitempty"`

	// Operation is the operationId read from OpenAPI.
	Operation string `mapstructure:"operation" json:"operation,omitempty"`

	// Locale selects translations.
	Locale string `mapstructure:"locale" json:"locale,omitempty"`

	// Action is the path dismiss links point at.
	Action string `mapstructure:"action" json:"action,omitempty"`

	// Color is the tag color modifier.
	Color string `mapstructure:"color" json:"color,omitempty"`

	// Listen is the preview server address.
	Listen string `mapstructure:"listen" json:"listen"`

	// Watch reloads label catalogs when they change on disk.
	Watch bool `mapstructure:"watch" json:"watch"`

	// Theme names the theme and carries its design tokens.
	Theme Theme `mapstructure:"theme" json:"theme"`

	// ConfigFile is the resolved path to the config file used.
	// Set after Load(); not read from config itself.
	ConfigFile string `mapstructure:"-" json:"-"`
}

// Theme configures the tags' appearance.
type Theme struct {
	Name    string            `mapstructure:"name" json:"name,omitempty"`
	Variant string            `mapstructure:"variant" json:"variant,omitempty"`
	Tokens  map[string]string `mapstructure:"tokens" json:"tokens,omitempty"`
	// Stylesheet is an external stylesheet URL linked instead of the
	// embedded one.
	Stylesheet string `mapstructure:"stylesheet" json:"stylesheet,omitempty"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		LogLevel:  LogLevelInfo,
		LogFormat: LogFormatText,
		Listen:    DefaultListen,
	}
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log format %q: must be one of text, json", c.LogFormat)
	}

	if strings.TrimSpace(c.OpenAPI) != "" && strings.TrimSpace(c.Operation) == "" {
		return fmt.Errorf("openapi %q requires an operation id", c.OpenAPI)
	}

	if c.Watch && strings.TrimSpace(c.Labels) == "" {
		return fmt.Errorf("watch requires a labels path")
	}

	return nil
}

// EffectiveLogLevel returns the log level to use. Quiet overrides the
// configured level with "error".
func (c *Config) EffectiveLogLevel() string {
	if c.Quiet {
		return LogLevelError
	}
	return c.LogLevel
}

// Load initialises configuration from flags, environment variables, and an
// optional config file. A fresh viper instance is used on every call.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	configureEnv(v)

	if err := configureFile(v, configFile); err != nil {
		return nil, err
	}

	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log-level", LogLevelInfo)
	v.SetDefault("log-format", LogFormatText)
	v.SetDefault("quiet", false)
	v.SetDefault("listen", DefaultListen)
	v.SetDefault("watch", false)
}

func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("FILTERTAGS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
}

func configureFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", configFile, err)
		}

		return nil
	}

	v.SetConfigName(".filtertags")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "filtertags"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// bindFlags binds cmd's flags and the persistent flags of every ancestor.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	for c := cmd; c != nil; c = c.Parent() {
		if err := v.BindPFlags(c.PersistentFlags()); err != nil {
			return fmt.Errorf("binding persistent flags: %w", err)
		}
	}

	return nil
}

type ctxKey struct{}

// NewContext returns a child context carrying cfg.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext extracts a Config from ctx, falling back to Default().
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}
	return Default()
}
