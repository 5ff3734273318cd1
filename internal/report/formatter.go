package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

// Formatter renders a report.
type Formatter interface {
	Format(w io.Writer, r *Report) error
}

// NewFormatter creates the appropriate formatter based on format string.
func NewFormatter(format string, useColor bool) Formatter {
	switch format {
	case "json":
		return NewJSONFormatter()
	default:
		return NewTextFormatter(useColor)
	}
}

// TextFormatter prints one line per file, grouped by folder, followed by a summary.
type TextFormatter struct {
	useColor bool
}

// NewTextFormatter creates a text formatter.
func NewTextFormatter(useColor bool) *TextFormatter {
	return &TextFormatter{useColor: useColor}
}

func (f *TextFormatter) style(s lipgloss.Style, text string) string {
	if !f.useColor {
		return text
	}
	return s.Render(text)
}

// Format outputs the report in human-readable text.
func (f *TextFormatter) Format(w io.Writer, r *Report) error {
	p := &printer{w: w}

	if r.DryRun {
		p.line("DRY RUN: No changes will be applied")
	}

	folder := ""
	started := false
	for _, e := range r.Entries {
		if !started || e.Folder != folder {
			folder = e.Folder
			started = true
			p.line("")
			p.line(f.style(headerStyle, fmt.Sprintf("Processing %s...", folder)))
		}
		f.formatEntry(p, e)
	}

	p.line("")
	p.line(strings.Repeat("━", 60))
	p.line(fmt.Sprintf("Results (%s):", r.Operation))
	p.line(fmt.Sprintf("  %d file%s processed", r.FilesTotal(), pluralize(r.FilesTotal())))
	for _, s := range []Status{StatusAdded, StatusRemoved, StatusPassed, StatusFlagged, StatusSkipped, StatusMalformed, StatusFailed, StatusWarning} {
		if n := r.Count(s); n > 0 {
			p.line(fmt.Sprintf("  %d %s", n, s))
		}
	}
	if r.Operation == OperationCheck {
		if n := r.IssueCount(SeverityError); n > 0 {
			p.line(fmt.Sprintf("  %d error%s", n, pluralize(n)))
		}
		if n := r.IssueCount(SeverityWarning); n > 0 {
			p.line(fmt.Sprintf("  %d warning%s", n, pluralize(n)))
		}
	}
	p.line("")

	if r.HasErrors() {
		p.line(f.style(errorStyle, "❌ Finished with errors; affected files were left unchanged."))
	} else {
		p.line(f.style(successStyle, "✅ Done!"))
	}
	return p.err
}

func (f *TextFormatter) formatEntry(p *printer, e Entry) {
	name := e.File
	if e.IsFolderLevel() {
		name = e.Folder + "/"
	}

	switch e.Status {
	case StatusAdded:
		p.line(f.style(successStyle, fmt.Sprintf("✓ Added frontmatter to %s (order %d)", name, e.Order)))
	case StatusRemoved:
		p.line(f.style(successStyle, fmt.Sprintf("✓ Removed frontmatter from %s", name)))
	case StatusPassed:
		p.line(f.style(successStyle, fmt.Sprintf("✓ %s", name)))
	case StatusSkipped:
		p.line(f.style(dimStyle, fmt.Sprintf("⏭ Skipping %s (%s)", name, e.Reason)))
	case StatusWarning:
		p.line(f.style(warnStyle, fmt.Sprintf("⚠ %s: %s", name, e.Reason)))
	case StatusFlagged:
		p.line(f.style(warnStyle, fmt.Sprintf("⚠ %s", name)))
	case StatusMalformed, StatusFailed:
		msg := fmt.Sprintf("✗ %s: %s", name, e.Reason)
		if e.Err != nil {
			msg += fmt.Sprintf(" (%v)", e.Err)
		}
		p.line(f.style(errorStyle, msg))
	}

	for _, issue := range e.Issues {
		p.line(fmt.Sprintf("    %s [%s] %s", issue.Severity, issue.Rule, issue.Message))
	}
}

// printer accumulates the first write error so formatting code stays linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, s)
}

// JSONFormatter formats reports as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// JSONOutput is the JSON document produced for a report.
type JSONOutput struct {
	RunID      string         `json:"run_id"`
	Operation  string         `json:"operation"`
	Root       string         `json:"root"`
	DryRun     bool           `json:"dry_run"`
	DurationMS int64          `json:"duration_ms"`
	FilesTotal int            `json:"files_total"`
	Counts     map[string]int `json:"counts"`
	HasErrors  bool           `json:"has_errors"`
	Entries    []JSONEntry    `json:"entries"`
}

// JSONEntry is one report entry in JSON form.
type JSONEntry struct {
	Folder string      `json:"folder"`
	File   string      `json:"file,omitempty"`
	Status string      `json:"status"`
	Reason string      `json:"reason,omitempty"`
	Order  int         `json:"order,omitempty"`
	Error  string      `json:"error,omitempty"`
	Issues []JSONIssue `json:"issues,omitempty"`
}

// JSONIssue is one check issue in JSON form.
type JSONIssue struct {
	Severity string `json:"severity"`
	Rule     string `json:"rule"`
	Message  string `json:"message"`
}

// Format outputs the report as indented JSON.
func (f *JSONFormatter) Format(w io.Writer, r *Report) error {
	out := JSONOutput{
		RunID:      r.RunID,
		Operation:  string(r.Operation),
		Root:       r.Root,
		DryRun:     r.DryRun,
		DurationMS: r.Duration.Milliseconds(),
		FilesTotal: r.FilesTotal(),
		Counts:     make(map[string]int),
		HasErrors:  r.HasErrors(),
		Entries:    make([]JSONEntry, 0, len(r.Entries)),
	}
	for status, n := range r.Counts() {
		out.Counts[string(status)] = n
	}

	for _, e := range r.Entries {
		je := JSONEntry{
			Folder: e.Folder,
			File:   e.File,
			Status: string(e.Status),
			Reason: e.Reason,
			Order:  e.Order,
		}
		if e.Err != nil {
			je.Error = e.Err.Error()
		}
		for _, issue := range e.Issues {
			je.Issues = append(je.Issues, JSONIssue{
				Severity: issue.Severity.String(),
				Rule:     issue.Rule,
				Message:  issue.Message,
			})
		}
		out.Entries = append(out.Entries, je)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
