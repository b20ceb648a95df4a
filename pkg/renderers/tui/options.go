package tui

import "io"

// OutputFormat controls how the renderer serializes tags.
type OutputFormat string

const (
	// OutputFormatPrettyText emits one human-friendly line per tag.
	OutputFormatPrettyText OutputFormat = "pretty"
	// OutputFormatJSON emits the render view as application/json.
	OutputFormatJSON OutputFormat = "json"
)

// Theme captures optional prefixes applied to printed lines.
type Theme struct {
	TagPrefix  string
	InfoPrefix string
}

// Option configures the renderer and picker.
type Option func(*settings)

type settings struct {
	driver       PromptDriver
	out          io.Writer
	outputFormat OutputFormat
	theme        Theme
	showLinks    bool
	confirm      bool
	pageSize     int
}

func newSettings(options []Option) settings {
	s := settings{
		outputFormat: OutputFormatPrettyText,
		theme:        Theme{TagPrefix: "• "},
		confirm:      true,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(s.out)
	}
	return s
}

// WithPromptDriver overrides the prompt driver used by the picker.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *settings) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithOutput directs the default survey driver's messages to out.
func WithOutput(out io.Writer) Option {
	return func(s *settings) {
		s.out = out
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(s *settings) {
		if format != "" {
			s.outputFormat = format
		}
	}
}

// WithTheme applies line prefixes.
func WithTheme(theme Theme) Option {
	return func(s *settings) {
		s.theme = theme
	}
}

// WithDismissLinks appends each tag's dismiss href to pretty output.
func WithDismissLinks() Option {
	return func(s *settings) {
		s.showLinks = true
	}
}

// WithoutConfirm skips the confirmation step of the picker.
func WithoutConfirm() Option {
	return func(s *settings) {
		s.confirm = false
	}
}

// WithPageSize sets the number of options shown at once by the picker.
func WithPageSize(size int) Option {
	return func(s *settings) {
		s.pageSize = size
	}
}
