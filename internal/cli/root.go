// Package cli implements the cobra command tree for filtertags.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-filtertags/internal/config"
	"github.com/goliatone/go-filtertags/internal/logging"
)

// ExitError wraps an error with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Execute builds the command tree, runs it, and returns the exit code.
func Execute() int {
	cmd := NewRootCommand()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		return 1
	}
	return 0
}

// NewRootCommand constructs the top-level command with all subcommands
// attached.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "filtertags",
		Short: "Derive dismissible filter tags from list form state",
		Long: `filtertags reads the state of a list filter form (a query string or a
JSON/YAML snapshot), classifies every field value, and prints one tag per
active filter together with the form state each tag's dismissal leads to.

Field labels come from label catalogs and, optionally, from the query
parameters of an OpenAPI list operation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			logger := logging.SetupWithWriter(cfg, cmd.ErrOrStderr())

			ctx := cmd.Context()
			ctx = config.NewContext(ctx, cfg)
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				zap.String("logLevel", cfg.LogLevel),
				zap.String("logFormat", cfg.LogFormat),
				zap.String("configFile", cfg.ConfigFile),
			)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			_ = logging.FromContext(cmd.Context()).Sync()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .filtertags.yaml)")
	pf.String("log-level", config.LogLevelInfo, "log level: debug, info, warn, error")
	pf.String("log-format", config.LogFormatText, "log format: text, json")
	pf.BoolP("quiet", "q", false, "suppress non-essential output")
	pf.String("labels", "", "label catalog file or directory")
	pf.String("messages", "", "translations file (locale -> key -> message)")
	pf.String("openapi", "", "OpenAPI document path or URL describing the filter form")
	pf.String("operation", "", "operationId of the list operation in --openapi")
	pf.String("locale", "", "locale used for labels and chrome")
	pf.String("action", "", "path dismiss links point at")
	pf.String("color", "", "tag color modifier")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Err: err}
	})

	cmd.AddCommand(
		newVersionCommand(),
		newTagsCommand(),
		newDismissCommand(),
		newPickCommand(),
		newServeCommand(),
	)

	return cmd
}
