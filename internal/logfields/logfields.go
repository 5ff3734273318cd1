package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyOperation  = "operation"
	KeyRoot       = "root"
	KeyFolder     = "folder"
	KeyFile       = "file"
	KeyOutcome    = "outcome"
	KeyReason     = "reason"
	KeyOrder      = "order"
	KeyCount      = "count"
	KeyDryRun     = "dry_run"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Operation(op string) slog.Attr   { return slog.String(KeyOperation, op) }
func Root(path string) slog.Attr      { return slog.String(KeyRoot, path) }
func Folder(name string) slog.Attr    { return slog.String(KeyFolder, name) }
func File(name string) slog.Attr      { return slog.String(KeyFile, name) }
func Outcome(status string) slog.Attr { return slog.String(KeyOutcome, status) }
func Reason(r string) slog.Attr       { return slog.String(KeyReason, r) }
func Order(n int) slog.Attr           { return slog.Int(KeyOrder, n) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DryRun(b bool) slog.Attr         { return slog.Bool(KeyDryRun, b) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
