// Package pipeline walks the category folders of an API reference tree and
// applies the frontmatter operations file by file.
//
// Runs are sequential: one folder at a time in table order, one file at a
// time in sorted name order. Every file is read, transformed in memory and
// written back at most once; failures stay local to their file or folder.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"git.home.luguber.info/inful/apidocfm/internal/category"
	"git.home.luguber.info/inful/apidocfm/internal/foundation/errors"
	"git.home.luguber.info/inful/apidocfm/internal/frontmatterops"
	"git.home.luguber.info/inful/apidocfm/internal/logfields"
	"git.home.luguber.info/inful/apidocfm/internal/metrics"
	"git.home.luguber.info/inful/apidocfm/internal/report"
	"github.com/google/uuid"
)

// DefaultRoot is the API reference tree consumed by the docs site.
const DefaultRoot = "content/docs/api"

// MarkdownExt is the only extension the operations touch.
const MarkdownExt = ".md"

// Options configures a Runner.
type Options struct {
	Root      string
	Product   string
	DryRun    bool
	Normalize bool
}

// Runner executes inject, strip and check over the folders of a classification table.
type Runner struct {
	table    *category.Table
	opts     Options
	fs       FileSystem
	logger   *slog.Logger
	recorder metrics.Recorder
	newRunID func() string
}

// NewRunner creates a runner over table using the local filesystem.
func NewRunner(table *category.Table, opts Options) *Runner {
	if opts.Root == "" {
		opts.Root = DefaultRoot
	}
	return &Runner{
		table:    table,
		opts:     opts,
		fs:       OSFileSystem{},
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		newRunID: func() string { return uuid.NewString() },
	}
}

// WithLogger sets the logger used for per-file outcomes.
func (r *Runner) WithLogger(logger *slog.Logger) *Runner {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// WithRecorder sets the metrics recorder.
func (r *Runner) WithRecorder(recorder metrics.Recorder) *Runner {
	if recorder != nil {
		r.recorder = recorder
	}
	return r
}

// WithFileSystem replaces the filesystem implementation.
func (r *Runner) WithFileSystem(fs FileSystem) *Runner {
	if fs != nil {
		r.fs = fs
	}
	return r
}

// Root returns the tree the runner operates on.
func (r *Runner) Root() string {
	return r.opts.Root
}

// Folders returns the category folder paths under the root, in table order.
func (r *Runner) Folders() []string {
	folders := r.table.Folders()
	out := make([]string, len(folders))
	for i, f := range folders {
		out[i] = filepath.Join(r.opts.Root, f)
	}
	return out
}

// fileVisitor handles one markdown file; index is its position among the
// folder's markdown files.
type fileVisitor func(log *slog.Logger, d category.Descriptor, path string, index int) report.Entry

// Inject adds a metadata block to every undecorated markdown file.
func (r *Runner) Inject(ctx context.Context) *report.Report {
	opts := frontmatterops.InjectOptions{Product: r.opts.Product}
	return r.run(ctx, report.OperationInject, r.opts.DryRun, func(log *slog.Logger, d category.Descriptor, path string, index int) report.Entry {
		content, entry, ok := r.read(d, path)
		if !ok {
			return entry
		}
		out, outcome := frontmatterops.Inject(frontmatterops.Document{Path: path, Content: content}, d, index, opts)
		entry.Status = outcome.Status
		entry.Reason = outcome.Reason
		if outcome.Metadata != nil {
			entry.Order = outcome.Metadata.Order
			return r.write(log, entry, path, out.Content)
		}
		return entry
	})
}

// Strip removes the metadata block from every decorated markdown file.
func (r *Runner) Strip(ctx context.Context) *report.Report {
	opts := frontmatterops.StripOptions{Normalize: r.opts.Normalize}
	return r.run(ctx, report.OperationStrip, r.opts.DryRun, func(log *slog.Logger, d category.Descriptor, path string, _ int) report.Entry {
		content, entry, ok := r.read(d, path)
		if !ok {
			return entry
		}
		out, outcome := frontmatterops.Strip(frontmatterops.Document{Path: path, Content: content}, opts)
		entry.Status = outcome.Status
		entry.Reason = outcome.Reason
		entry.Err = outcome.Err
		if outcome.Status == report.StatusRemoved {
			return r.write(log, entry, path, out.Content)
		}
		return entry
	})
}

// Check validates every markdown file without writing anything.
func (r *Runner) Check(ctx context.Context) *report.Report {
	return r.run(ctx, report.OperationCheck, false, func(_ *slog.Logger, d category.Descriptor, path string, _ int) report.Entry {
		content, entry, ok := r.read(d, path)
		if !ok {
			return entry
		}
		outcome := frontmatterops.Check(frontmatterops.Document{Path: path, Content: content}, frontmatterops.Expectation{
			Descriptor: d,
			Capacity:   r.table.Capacity(d.Folder),
			Product:    r.opts.Product,
		})
		entry.Status = outcome.Status
		entry.Issues = outcome.Issues
		return entry
	})
}

func (r *Runner) run(ctx context.Context, op report.Operation, dryRun bool, visit fileVisitor) *report.Report {
	runID := r.newRunID()
	rep := report.New(runID, op, r.opts.Root, dryRun)
	log := r.logger.With(logfields.RunID(runID), logfields.Operation(string(op)))
	log.InfoContext(ctx, "Starting run",
		logfields.Root(r.opts.Root),
		logfields.DryRun(dryRun),
		slog.Int("order_spacing", r.table.Spacing()))

	for _, d := range r.table.Descriptors() {
		if err := ctx.Err(); err != nil {
			rep.Add(report.Entry{Folder: d.Folder, Status: report.StatusFailed, Reason: "run interrupted before folder", Err: err})
			break
		}
		r.runFolder(ctx, rep, log.With(logfields.Folder(d.Folder)), d, visit)
	}

	rep.Finish()
	r.recorder.ObserveRunDuration(string(op), rep.Duration)
	r.recorder.SetLastRun(string(op), time.Now())
	log.InfoContext(ctx, "Run finished",
		logfields.Count(rep.FilesTotal()),
		logfields.DurationMS(float64(rep.Duration.Microseconds())/1000),
		slog.Bool("has_errors", rep.HasErrors()))
	return rep
}

func (r *Runner) runFolder(ctx context.Context, rep *report.Report, log *slog.Logger, d category.Descriptor, visit fileVisitor) {
	dir := filepath.Join(r.opts.Root, d.Folder)
	log.DebugContext(ctx, "Processing folder", slog.String("path", dir))

	files, err := r.listMarkdown(dir)
	if err != nil {
		entry := report.Entry{Folder: d.Folder, Status: report.StatusFailed, Err: err}
		if errors.HasCategory(err, errors.CategoryConfig) {
			entry.Reason = "category folder missing"
		} else {
			entry.Reason = "category folder unreadable"
		}
		log.ErrorContext(ctx, "Folder skipped", logfields.Reason(entry.Reason), logfields.Error(err))
		r.recorder.IncFolderFailure(string(rep.Operation), d.Folder)
		rep.Add(entry)
		return
	}

	if capacity := r.table.Capacity(d.Folder); rep.Operation != report.OperationStrip && len(files) > capacity {
		reason := fmt.Sprintf("%d documents exceed the %d order slots before the next category; orders will overlap", len(files), capacity)
		log.WarnContext(ctx, "Order overlap", logfields.Count(len(files)), slog.Int("capacity", capacity))
		rep.Add(report.Entry{Folder: d.Folder, Status: report.StatusWarning, Reason: reason})
	}

	for index, name := range files {
		if err := ctx.Err(); err != nil {
			rep.Add(report.Entry{Folder: d.Folder, File: name, Status: report.StatusFailed, Reason: "run interrupted", Err: err})
			return
		}
		fileLog := log.With(logfields.File(name))
		entry := visit(fileLog, d, filepath.Join(dir, name), index)
		entry.Folder = d.Folder
		entry.File = name
		r.logEntry(ctx, fileLog, entry)
		r.recorder.IncFileOutcome(string(rep.Operation), d.Folder, string(entry.Status))
		rep.Add(entry)
	}
}

// listMarkdown returns the folder's markdown file names sorted by name, so
// order assignment does not depend on the platform's listing order.
func (r *Runner) listMarkdown(dir string) ([]string, error) {
	entries, err := r.fs.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapError(err, errors.CategoryConfig, "category folder missing").
				WithPath(dir).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read category folder").
			WithPath(dir).
			Build()
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != MarkdownExt {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}

func (r *Runner) read(d category.Descriptor, path string) ([]byte, report.Entry, bool) {
	content, err := r.fs.ReadFile(path)
	if err != nil {
		return nil, report.Entry{
			Status: report.StatusFailed,
			Reason: "read failed",
			Err: errors.FileSystemError("read document").
				WithCause(err).
				WithPath(path).
				WithContext("folder", d.Folder).
				Build(),
		}, false
	}
	return content, report.Entry{}, true
}

// write persists content computed in memory; dry runs report the outcome only.
func (r *Runner) write(log *slog.Logger, entry report.Entry, path string, content []byte) report.Entry {
	if r.opts.DryRun {
		log.Debug("Dry run, not writing")
		return entry
	}
	if err := r.fs.WriteFile(path, content); err != nil {
		entry.Status = report.StatusFailed
		entry.Reason = "write failed"
		entry.Order = 0
		entry.Err = errors.FileSystemError("write document").
			WithCause(err).
			WithPath(path).
			Build()
	}
	return entry
}

func (r *Runner) logEntry(ctx context.Context, log *slog.Logger, e report.Entry) {
	attrs := []any{logfields.Outcome(string(e.Status))}
	if e.Reason != "" {
		attrs = append(attrs, logfields.Reason(e.Reason))
	}
	switch e.Status {
	case report.StatusAdded:
		log.InfoContext(ctx, "Added frontmatter", append(attrs, logfields.Order(e.Order))...)
	case report.StatusRemoved:
		log.InfoContext(ctx, "Removed frontmatter", attrs...)
	case report.StatusSkipped, report.StatusPassed:
		log.DebugContext(ctx, "Skipped", attrs...)
	case report.StatusFlagged:
		log.WarnContext(ctx, "Check issues found", append(attrs, logfields.Count(len(e.Issues)))...)
	case report.StatusMalformed:
		log.WarnContext(ctx, "Malformed frontmatter left unchanged", append(attrs, logfields.Error(e.Err))...)
	default:
		log.ErrorContext(ctx, "File failed", append(attrs, logfields.Error(e.Err))...)
	}
}
