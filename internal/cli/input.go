package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-filtertags/pkg/formstate"
	"github.com/goliatone/go-filtertags/pkg/orchestrator"
	"github.com/goliatone/go-filtertags/pkg/render"
)

// stateOptions selects the form state a command works on.
type stateOptions struct {
	query   string
	state   string
	fields  string
	kinds   string
	exclude string
}

func registerStateFlags(cmd *cobra.Command, opts *stateOptions) {
	f := cmd.Flags()
	f.StringVar(&opts.query, "query", "", "form state as a URL query string")
	f.StringVar(&opts.state, "state", "", "form state file (.json, .yaml); - reads JSON or YAML from stdin")
	f.StringVar(&opts.fields, "fields", "", "only tags of these fields (comma list or JSON array)")
	f.StringVar(&opts.kinds, "kinds", "", "only tags of these kinds (date-range, primitive-array, boolean, scalar)")
	f.StringVar(&opts.exclude, "exclude", "", "skip tags of these fields")
	cmd.MarkFlagsMutuallyExclusive("query", "state")
}

// request builds an orchestrator request from flags and cfg.
func (o *stateOptions) request(cmd *cobra.Command, env *environment) (orchestrator.Request, error) {
	req := orchestrator.Request{
		Query: o.query,
		RenderOptions: render.RenderOptions{
			Action: env.cfg.Action,
			Color:  env.cfg.Color,
			Subset: render.ParseTagSubset(o.fields, o.kinds, o.exclude),
		},
	}
	if o.state == "" {
		return req, nil
	}

	snapshot, err := readState(cmd.InOrStdin(), o.state)
	if err != nil {
		return req, &ExitError{Code: 2, Err: err}
	}
	req.Snapshot = &snapshot
	return req, nil
}

func readState(stdin io.Reader, path string) (formstate.Snapshot, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return formstate.Snapshot{}, fmt.Errorf("read state: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formstate.ParseJSON(data)
	case ".yaml", ".yml":
		return formstate.ParseYAML(data)
	}
	// JSON is a subset of YAML, but JSON decoding keeps number precision.
	if trimmed := strings.TrimSpace(string(data)); strings.HasPrefix(trimmed, "{") {
		return formstate.ParseJSON(data)
	}
	return formstate.ParseYAML(data)
}
