package cli

import (
	"context"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-filtertags/internal/config"
	"github.com/goliatone/go-filtertags/internal/logging"
	"github.com/goliatone/go-filtertags/internal/server"
	"github.com/goliatone/go-filtertags/internal/watch"
	"github.com/goliatone/go-filtertags/pkg/labels"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a tag preview and a dismiss API over HTTP",
		Long: `Serve starts an HTTP server with:

  GET  /tags         HTML fragment for the form state in the query string
  GET  /api/tags     the render view as JSON
  POST /api/dismiss  {"query": "...", "keys": ["..."]} -> resubmitted query

Query parameters starting with "_" are controls, not form state: _renderer,
_locale, _fields, _kinds, _exclude. With --watch, label catalogs and
messages reload when they change on disk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	f := cmd.Flags()
	f.String("listen", config.DefaultListen, "listen address")
	f.Bool("watch", false, "reload labels and messages on change")
	return cmd
}

func runServe(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	env, err := newEnvironment(ctx, cfg)
	if err != nil {
		return err
	}

	action := strings.TrimSpace(cfg.Action)
	if action == "" {
		action = "/tags"
	}
	srv := server.New(env.orch, server.WithLogger(logger), server.WithAction(action))

	// Either side failing cancels the other.
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return srv.ListenAndServe(gctx, cfg.Listen, nil)
	})
	if cfg.Watch {
		group.Go(func() error {
			return watch.Run(gctx, watchOptions(cfg, logger), reloadLabels(cfg, env))
		})
	}
	return group.Wait()
}

func watchOptions(cfg *config.Config, logger *zap.Logger) watch.Options {
	paths := []string{cfg.Labels}
	if strings.TrimSpace(cfg.Messages) != "" {
		paths = append(paths, cfg.Messages)
	}
	return watch.Options{Paths: paths, Logger: logger}
}

func reloadLabels(cfg *config.Config, env *environment) watch.ReloadFunc {
	return func(_ context.Context, _ string) error {
		catalog, err := loadCatalog(cfg.Labels)
		if err != nil {
			return err
		}
		if path := strings.TrimSpace(cfg.Messages); path != "" {
			messages, err := labels.LoadMessages(path)
			if err != nil {
				return err
			}
			env.orch.SetMessages(messages)
		}
		env.orch.SetCatalog(catalog)
		return nil
	}
}
