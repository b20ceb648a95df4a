package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-filtertags/internal/config"
	"github.com/goliatone/go-filtertags/internal/logging"
	"github.com/goliatone/go-filtertags/pkg/formstate"
	"github.com/goliatone/go-filtertags/pkg/render"
	"github.com/goliatone/go-filtertags/pkg/renderers/tui"
)

// newPromptDriver is swapped in tests.
var newPromptDriver = func(out io.Writer) tui.PromptDriver {
	return tui.NewSurveyDriver(out)
}

type pickOptions struct {
	stateOptions
	yes bool
}

func newPickCommand() *cobra.Command {
	opts := &pickOptions{}

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose tags to dismiss interactively",
		Long: `Pick lists the active tags in a multi-select prompt, dismisses the
chosen ones with a single resubmission, and prints the resulting query.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPick(cmd, opts)
		},
	}

	registerStateFlags(cmd, &opts.stateOptions)
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func runPick(cmd *cobra.Command, opts *pickOptions) error {
	ctx := cmd.Context()
	env, err := newEnvironment(ctx, config.FromContext(ctx))
	if err != nil {
		return err
	}
	req, err := opts.request(cmd, env)
	if err != nil {
		return err
	}
	prepared, err := env.orch.Prepare(ctx, req)
	if err != nil {
		return err
	}

	var query string
	form := formstate.NewMemoryStore(prepared.Snapshot, formstate.WithSubmitHandler(
		func(ctx context.Context, snapshot formstate.Snapshot) error {
			query = formstate.EncodeQuery(snapshot, prepared.Schema)
			logging.FromContext(ctx).Debug("form resubmitted", zap.String("query", query))
			return nil
		}))

	pickerOptions := []tui.Option{tui.WithPromptDriver(newPromptDriver(cmd.ErrOrStderr()))}
	if opts.yes {
		pickerOptions = append(pickerOptions, tui.WithoutConfirm())
	}
	picker := tui.NewPicker(pickerOptions...)

	dismissed, err := picker.Run(ctx, prepared.Translator, form, prepared.Options)
	switch {
	case errors.Is(err, tui.ErrAborted):
		return &ExitError{Code: 130, Err: err}
	case errors.Is(err, tui.ErrNoTags):
		_, err = fmt.Fprintln(cmd.ErrOrStderr(), prepared.Options.Chrome(render.KeyEmpty))
		return err
	case err != nil:
		return err
	}
	if len(dismissed) == 0 {
		query = formstate.EncodeQuery(prepared.Snapshot, prepared.Schema)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), query)
	return err
}
