package cli

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-filtertags/internal/config"
	"github.com/goliatone/go-filtertags/pkg/render"
	"github.com/goliatone/go-filtertags/pkg/renderers/tui"
	"github.com/goliatone/go-filtertags/pkg/renderers/vanilla"
)

// Output formats of the tags command.
const (
	formatText = "text"
	formatJSON = "json"
	formatHTML = "html"
)

type tagsOptions struct {
	stateOptions
	format string
}

func newTagsCommand() *cobra.Command {
	opts := &tagsOptions{}

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Print the tags of a form state",
		Long: `Tags derives one tag per active filter and prints it with the link its
dismissal leads to.

Formats: text (one "label: value" line per tag), json (the render view),
html (the embeddable tag fragment).`,
		Example: `  filtertags tags --labels labels.yaml --query 'skills=js&skills=go&isActive=1'
  filtertags tags --state state.json --format html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTags(cmd, opts)
		},
	}

	registerStateFlags(cmd, &opts.stateOptions)
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "output format: text, json, html")
	return cmd
}

func runTags(cmd *cobra.Command, opts *tagsOptions) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)

	env, err := newEnvironment(ctx, cfg)
	if err != nil {
		return err
	}
	req, err := opts.request(cmd, env)
	if err != nil {
		return err
	}

	switch opts.format {
	case formatJSON:
		prepared, err := env.orch.Prepare(ctx, req)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(render.BuildView(prepared.Tags, prepared.Options), "", "  ")
		if err != nil {
			return fmt.Errorf("marshal view: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	case formatText:
		req.Renderer = tui.Name
	case formatHTML:
		req.Renderer = vanilla.Name
	default:
		return &ExitError{Code: 2, Err: fmt.Errorf("invalid format %q: must be one of text, json, html", opts.format)}
	}

	out, err := env.orch.Generate(ctx, req)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out.Body)
	return err
}
