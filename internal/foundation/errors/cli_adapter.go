package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Process exit codes, one per category.
const (
	ExitOK         = 0
	ExitFailure    = 1 // unclassified error
	ExitUsage      = 2
	ExitDocument   = 3
	ExitConfig     = 7
	ExitInternal   = 10
	ExitFileSystem = 11
)

var exitCodes = map[ErrorCategory]int{
	CategoryValidation: ExitUsage,
	CategoryDocument:   ExitDocument,
	CategoryConfig:     ExitConfig,
	CategoryInternal:   ExitInternal,
	CategoryFileSystem: ExitFileSystem,
}

// CLIErrorAdapter turns the final error of a command into a log record, a
// one-line message for the user and an exit code.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

// NewCLIErrorAdapter writes user messages to stderr. A nil logger means slog.Default().
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger, out: os.Stderr}
}

// WithOutput redirects user-facing messages.
func (a *CLIErrorAdapter) WithOutput(w io.Writer) *CLIErrorAdapter {
	if w != nil {
		a.out = w
	}
	return a
}

// ExitCodeFor maps err to a process exit code.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	classified, ok := AsClassified(err)
	if !ok {
		return ExitFailure
	}
	if code, known := exitCodes[classified.category]; known {
		return code
	}
	return ExitFailure
}

// FormatError renders the message shown to the user. Verbose mode shows the
// full chain; otherwise internal details are hidden.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	switch {
	case !ok:
		return "Error: " + err.Error()
	case a.verbose:
		return classified.Error()
	case classified.IsCategory(CategoryInternal):
		return "Internal error occurred (use -v for details)"
	default:
		return "Error: " + classified.message
	}
}

// Report logs err, prints the user-facing message and returns the exit code.
// It does not exit so callers and tests decide when the process ends.
func (a *CLIErrorAdapter) Report(err error) int {
	if err == nil {
		return ExitOK
	}
	a.log(err)
	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	return a.ExitCodeFor(err)
}

func (a *CLIErrorAdapter) log(err error) {
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", slog.String("error", err.Error()))
		return
	}
	attrs := make([]slog.Attr, 0, len(classified.context)+2)
	attrs = append(attrs, slog.String("category", string(classified.category)))
	for k, v := range classified.context {
		attrs = append(attrs, slog.Any(k, v))
	}
	if classified.cause != nil && a.verbose {
		attrs = append(attrs, slog.String("cause", classified.cause.Error()))
	}
	a.logger.LogAttrs(context.Background(), logLevel(classified.severity), classified.message, attrs...)
}

func logLevel(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
