package cli

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-filtertags/internal/config"
	"github.com/goliatone/go-filtertags/pkg/orchestrator"
)

type dismissOptions struct {
	stateOptions
	jsonOutput bool
}

// dismissOutput is the --json payload of the dismiss command.
type dismissOutput struct {
	Query     string   `json:"query"`
	Dismissed []string `json:"dismissed"`
	Remaining []string `json:"remaining"`
}

func newDismissCommand() *cobra.Command {
	opts := &dismissOptions{}

	cmd := &cobra.Command{
		Use:   "dismiss <tag-key>...",
		Short: "Dismiss tags and print the resulting form state",
		Long: `Dismiss removes the named tags from the form state and prints the query
the form resubmits with. Tag keys are field names, or field[element] for
tags of multi-value fields; "filtertags tags --format json" lists them.`,
		Example: `  filtertags dismiss 'skills[js]' --query 'skills=js&skills=go&isActive=1'`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDismiss(cmd, args, opts)
		},
	}

	registerStateFlags(cmd, &opts.stateOptions)
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "print the result as JSON")
	return cmd
}

func runDismiss(cmd *cobra.Command, keys []string, opts *dismissOptions) error {
	ctx := cmd.Context()
	env, err := newEnvironment(ctx, config.FromContext(ctx))
	if err != nil {
		return err
	}
	req, err := opts.request(cmd, env)
	if err != nil {
		return err
	}

	result, err := env.orch.Dismiss(ctx, req, keys...)
	if err != nil {
		if errors.Is(err, orchestrator.ErrTagNotFound) {
			return &ExitError{Code: 3, Err: err}
		}
		return err
	}

	if !opts.jsonOutput {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Query)
		return err
	}

	payload := dismissOutput{
		Query:     result.Query,
		Dismissed: make([]string, 0, len(result.Dismissed)),
		Remaining: make([]string, 0, len(result.Remaining)),
	}
	for _, tag := range result.Dismissed {
		payload.Dismissed = append(payload.Dismissed, tag.Key)
	}
	for _, tag := range result.Remaining {
		payload.Remaining = append(payload.Remaining, tag.Key)
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
