package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyMode       = "mode"
	KeySource     = "source"
	KeyRoot       = "root"
	KeyPath       = "path"
	KeyEntries    = "entries"
	KeyFiles      = "files"
	KeyChanged    = "changed"
	KeyReplaced   = "replacements"
	KeyLink       = "link"
	KeyDryRun     = "dry_run"
	KeyDurationMS = "duration_ms"
	KeyStatus     = "status"
	KeyContentLen = "content_length"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Mode(m string) slog.Attr         { return slog.String(KeyMode, m) }
func Source(s string) slog.Attr       { return slog.String(KeySource, s) }
func Root(r string) slog.Attr         { return slog.String(KeyRoot, r) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Entries(n int) slog.Attr         { return slog.Int(KeyEntries, n) }
func Files(n int) slog.Attr           { return slog.Int(KeyFiles, n) }
func Changed(n int) slog.Attr         { return slog.Int(KeyChanged, n) }
func Replacements(n int) slog.Attr    { return slog.Int(KeyReplaced, n) }
func Link(l string) slog.Attr         { return slog.String(KeyLink, l) }
func DryRun(b bool) slog.Attr         { return slog.Bool(KeyDryRun, b) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func ContentLength(n int64) slog.Attr { return slog.Int64(KeyContentLen, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
