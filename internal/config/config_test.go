package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "filtertags"}
	cmd.PersistentFlags().String("log-level", LogLevelInfo, "")
	cmd.PersistentFlags().String("labels", "", "")
	cmd.PersistentFlags().String("locale", "", "")
	return cmd
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, LogLevelInfo, cfg.LogLevel)
	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.Equal(t, DefaultListen, cfg.Listen)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad level", func(c *Config) { c.LogLevel = "trace" }, "invalid log level"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "invalid log format"},
		{"openapi without operation", func(c *Config) { c.OpenAPI = "api.yaml" }, "requires an operation id"},
		{"watch without labels", func(c *Config) { c.Watch = true }, "watch requires a labels path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEffectiveLogLevel_Quiet(t *testing.T) {
	cfg := &Config{LogLevel: LogLevelDebug, Quiet: true}
	assert.Equal(t, LogLevelError, cfg.EffectiveLogLevel())
}

func TestLoad_FilePrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filtertags.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log-level: debug
labels: ./labels
locale: es
theme:
  name: admin
  tokens:
    tag-color: "#0891b2"
`), 0o600))

	cmd := newTestCommand()
	require.NoError(t, cmd.PersistentFlags().Set("locale", "fr"))

	cfg, err := Load(cmd, path)
	require.NoError(t, err)

	assert.Equal(t, LogLevelDebug, cfg.LogLevel)
	assert.Equal(t, "./labels", cfg.Labels)
	assert.Equal(t, "fr", cfg.Locale, "flags override the file")
	assert.Equal(t, "admin", cfg.Theme.Name)
	assert.Equal(t, "#0891b2", cfg.Theme.Tokens["tag-color"])
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("FILTERTAGS_LOG_FORMAT", "json")

	cfg, err := Load(newTestCommand(), "")
	require.NoError(t, err)
	assert.Equal(t, LogFormatJSON, cfg.LogFormat)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(newTestCommand(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestContext(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))

	cfg := &Config{LogLevel: LogLevelWarn}
	assert.Same(t, cfg, FromContext(NewContext(context.Background(), cfg)))
}
