// Package report collects per-file and per-folder outcomes of a batch run and
// renders them for humans (text) or tools (json).
package report

import (
	"time"
)

// Operation names the batch operation that produced a report.
type Operation string

const (
	OperationInject Operation = "inject"
	OperationStrip  Operation = "strip"
	OperationCheck  Operation = "check"
)

// Status is the outcome of processing one file or folder.
type Status string

const (
	StatusAdded     Status = "added"     // frontmatter added
	StatusRemoved   Status = "removed"   // frontmatter removed
	StatusSkipped   Status = "skipped"   // already present / no frontmatter; informational
	StatusMalformed Status = "malformed" // unterminated block, file left untouched
	StatusFailed    Status = "failed"    // I/O or folder-level failure
	StatusPassed    Status = "passed"    // check found no issues
	StatusFlagged   Status = "flagged"   // check found issues
	StatusWarning   Status = "warning"   // folder-level advisory (order overlap)
)

// IsError reports whether the status should fail the run.
func (s Status) IsError() bool {
	return s == StatusMalformed || s == StatusFailed
}

// Severity indicates the importance of a check issue.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Issue is a single problem found by the check operation.
type Issue struct {
	Severity Severity
	Rule     string
	Message  string
}

// Entry records what happened to one file, or to a whole folder when File is empty.
type Entry struct {
	Folder string
	File   string
	Status Status
	Reason string
	Order  int // assigned order for added entries, 0 otherwise
	Issues []Issue
	Err    error
	DryRun bool
}

// IsFolderLevel reports whether the entry describes a folder rather than a file.
func (e Entry) IsFolderLevel() bool {
	return e.File == ""
}

// Report is the complete outcome of one batch run.
type Report struct {
	RunID     string
	Operation Operation
	Root      string
	DryRun    bool
	Started   time.Time
	Duration  time.Duration
	Entries   []Entry
}

// New creates an empty report for a run.
func New(runID string, op Operation, root string, dryRun bool) *Report {
	return &Report{
		RunID:     runID,
		Operation: op,
		Root:      root,
		DryRun:    dryRun,
		Started:   time.Now(),
		Entries:   []Entry{},
	}
}

// Add appends an entry.
func (r *Report) Add(e Entry) {
	e.DryRun = r.DryRun
	r.Entries = append(r.Entries, e)
}

// Count returns the number of entries with status.
func (r *Report) Count(status Status) int {
	n := 0
	for _, e := range r.Entries {
		if e.Status == status {
			n++
		}
	}
	return n
}

// Counts returns entry counts by status.
func (r *Report) Counts() map[Status]int {
	counts := make(map[Status]int)
	for _, e := range r.Entries {
		counts[e.Status]++
	}
	return counts
}

// FilesTotal counts file-level entries.
func (r *Report) FilesTotal() int {
	n := 0
	for _, e := range r.Entries {
		if !e.IsFolderLevel() {
			n++
		}
	}
	return n
}

// HasErrors returns true if any entry failed the run.
func (r *Report) HasErrors() bool {
	for _, e := range r.Entries {
		if e.Status.IsError() {
			return true
		}
		for _, issue := range e.Issues {
			if issue.Severity == SeverityError {
				return true
			}
		}
	}
	return false
}

// Errors returns the underlying errors of failed entries, in report order.
func (r *Report) Errors() []error {
	var errs []error
	for _, e := range r.Entries {
		if e.Err != nil && e.Status.IsError() {
			errs = append(errs, e.Err)
		}
	}
	return errs
}

// IssueCount counts check issues of the given severity.
func (r *Report) IssueCount(severity Severity) int {
	n := 0
	for _, e := range r.Entries {
		for _, issue := range e.Issues {
			if issue.Severity == severity {
				n++
			}
		}
	}
	return n
}

// Finish stamps the run duration.
func (r *Report) Finish() {
	r.Duration = time.Since(r.Started)
}
