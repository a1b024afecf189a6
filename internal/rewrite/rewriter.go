// Package rewrite replaces upstream specification links in Markdown documents
// with cross-reference tokens.
//
// Two modes share one RuleSet. ModeWalk visits every document under the root and
// then drops the index section of the root README. ModePaths visits only the
// files named by the mapping keys and leaves the README alone.
package rewrite

import (
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/xrefsync/internal/config"
	"git.home.luguber.info/inful/xrefsync/internal/document"
	"git.home.luguber.info/inful/xrefsync/internal/foundation/errors"
	"git.home.luguber.info/inful/xrefsync/internal/linkmap"
	"git.home.luguber.info/inful/xrefsync/internal/logfields"
	"git.home.luguber.info/inful/xrefsync/internal/markdown"
	"git.home.luguber.info/inful/xrefsync/internal/metrics"
)

// Mode selects which documents a run visits.
type Mode string

const (
	ModeWalk  Mode = "walk"
	ModePaths Mode = "paths"
)

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithMode sets the traversal mode (default ModeWalk).
func WithMode(m Mode) Option { return func(r *Rewriter) { r.mode = m } }

// WithDryRun computes results without writing any file.
func WithDryRun(dryRun bool) Option { return func(r *Rewriter) { r.dryRun = dryRun } }

// WithLeftovers collects upstream links that remain after rewriting.
func WithLeftovers(enabled bool) Option { return func(r *Rewriter) { r.leftovers = enabled } }

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Rewriter) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(r *Rewriter) {
		if l != nil {
			r.logger = l
		}
	}
}

// Rewriter applies a RuleSet to the documents under a root directory.
type Rewriter struct {
	cfg       *config.Config
	links     *linkmap.LinkMap
	rules     *RuleSet
	mode      Mode
	dryRun    bool
	leftovers bool
	recorder  metrics.Recorder
	logger    *slog.Logger
}

// New creates a Rewriter for a non-empty table.
func New(cfg *config.Config, links *linkmap.LinkMap, opts ...Option) (*Rewriter, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if links.Len() == 0 {
		return nil, errors.ValidationError("mapping table is empty").WithCause(linkmap.ErrEmptyMap).Build()
	}

	r := &Rewriter{
		cfg:      cfg,
		links:    links,
		rules:    NewRuleSet(links, cfg),
		mode:     ModeWalk,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.mode != ModeWalk && r.mode != ModePaths {
		return nil, errors.ValidationError("unknown rewrite mode").WithCause(ErrUnknownMode).
			WithContext("mode", string(r.mode)).Build()
	}
	return r, nil
}

// Rules exposes the rule set, mainly for diagnostics.
func (r *Rewriter) Rules() *RuleSet { return r.rules }

// Run rewrites the documents under root. The first error aborts the run; files
// already written stay written.
func (r *Rewriter) Run(ctx context.Context, root string) (*Result, error) {
	start := time.Now()
	result := &Result{Mode: r.mode, Root: root, DryRun: r.dryRun}

	err := r.run(ctx, root, result)
	result.Duration = time.Since(start)
	r.recorder.ObserveRunDuration(result.Duration)

	switch {
	case err != nil:
		r.recorder.IncRunOutcome(metrics.OutcomeFailed)
		return result, err
	case r.dryRun:
		r.recorder.IncRunOutcome(metrics.OutcomeDryRun)
	default:
		r.recorder.IncRunOutcome(metrics.OutcomeSuccess)
	}
	return result, nil
}

func (r *Rewriter) run(ctx context.Context, root string, result *Result) error {
	root, err := resolveRoot(root)
	if err != nil {
		return err
	}

	switch r.mode {
	case ModePaths:
		return r.runPaths(ctx, root, result)
	default:
		return r.runWalk(ctx, root, result)
	}
}

func (r *Rewriter) runWalk(ctx context.Context, root string, result *Result) error {
	paths, err := r.discover(root)
	if err != nil {
		return err
	}

	readme := filepath.Join(root, r.cfg.Documents.Readme)
	readmeDone := false
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return errors.WrapError(err, errors.CategoryRuntime, "rewrite canceled").Fatal().Build()
		}
		stripIndex := path == readme
		if err := r.processFile(root, path, stripIndex, result); err != nil {
			return err
		}
		readmeDone = readmeDone || stripIndex
	}

	if readmeDone {
		return nil
	}
	// The README is not a document under the configured extension.
	if _, err := os.Stat(readme); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.NotFoundError("readme not found").WithCause(ErrReadmeMissing).
				WithContext("path", readme).Build()
		}
		return errors.FileSystemError("stat readme").WithCause(err).WithContext("path", readme).Build()
	}
	return r.stripOnly(root, readme, result)
}

func (r *Rewriter) runPaths(ctx context.Context, root string, result *Result) error {
	seen := make(map[string]struct{}, r.links.Len())
	for _, key := range r.links.Keys() {
		if err := ctx.Err(); err != nil {
			return errors.WrapError(err, errors.CategoryRuntime, "rewrite canceled").Fatal().Build()
		}
		path, err := resolveKey(root, key)
		if err != nil {
			return err
		}
		// Keys spelled differently may name the same file.
		if _, dup := seen[path]; dup {
			r.logger.Debug("Skipping repeated document", logfields.Path(relPath(root, path)), slog.String("key", key))
			continue
		}
		seen[path] = struct{}{}
		if err := r.processFile(root, path, false, result); err != nil {
			return err
		}
	}
	return nil
}

// discover lists documents under root in lexical order.
func (r *Rewriter) discover(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), r.cfg.Documents.Extension) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.FileSystemError("walk documents").WithCause(err).WithContext("root", root).Build()
	}
	return paths, nil
}

func (r *Rewriter) processFile(root, path string, stripIndex bool, result *Result) error {
	doc, err := document.Read(path)
	if err != nil {
		return err
	}
	r.recorder.IncDocumentsScanned()

	lines, changedLines, counts := r.rules.Apply(doc.Lines)
	fr := FileResult{
		Path:         relPath(root, path),
		LinesChanged: changedLines,
		Replacements: counts,
	}
	if stripIndex {
		var dropped int
		lines, dropped, fr.IndexStripped = StripIndex(lines, r.cfg.Documents.IndexMarker)
		fr.LinesDropped = dropped
	}
	fr.Changed = changedLines > 0 || fr.LinesDropped > 0

	if r.leftovers {
		result.Leftovers = append(result.Leftovers, r.findLeftovers(fr.Path, lines)...)
	}

	return r.commit(doc, lines, fr, result)
}

func (r *Rewriter) stripOnly(root, path string, result *Result) error {
	doc, err := document.Read(path)
	if err != nil {
		return err
	}
	lines, dropped, found := StripIndex(doc.Lines, r.cfg.Documents.IndexMarker)
	fr := FileResult{
		Path:          relPath(root, path),
		Changed:       dropped > 0,
		Replacements:  Counts{},
		IndexStripped: found,
		LinesDropped:  dropped,
	}
	return r.commit(doc, lines, fr, result)
}

// commit records fr and writes the document back. Unchanged documents are
// rewritten too, which normalizes their line endings.
func (r *Rewriter) commit(doc *document.Document, lines []string, fr FileResult, result *Result) error {
	for kind, n := range fr.Replacements {
		r.recorder.AddReplacements(string(kind), n)
	}
	if fr.Changed {
		r.recorder.IncDocumentsChanged()
		r.logger.Debug("Rewrote document",
			logfields.Path(fr.Path),
			logfields.Replacements(fr.Replacements.Total()),
			slog.Int("lines_dropped", fr.LinesDropped))
	}
	result.Files = append(result.Files, fr)

	if r.dryRun {
		return nil
	}
	doc.Lines = lines
	return doc.Write()
}

func (r *Rewriter) findLeftovers(rel string, lines []string) []Leftover {
	body := []byte(strings.Join(lines, ""))
	var out []Leftover
	for _, link := range markdown.ExtractLinks(body) {
		if strings.HasPrefix(link.Destination, r.cfg.Upstream.BlobBase) ||
			strings.HasPrefix(link.Destination, r.cfg.Upstream.TreeBase) {
			out = append(out, Leftover{Path: rel, Line: link.Line, Destination: link.Destination})
		}
	}
	return out
}

// resolveRoot checks that root is a directory and returns it with symlinks
// resolved, so the walk descends into a linked root.
func resolveRoot(root string) (string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return "", errors.NotFoundError("root directory not found").WithCause(err).WithContext("root", root).Build()
		}
		return "", errors.FileSystemError("stat root directory").WithCause(err).WithContext("root", root).Build()
	}
	if !info.IsDir() {
		return "", errors.ValidationError("root is not a directory").WithCause(ErrRootNotDirectory).
			WithContext("root", root).Build()
	}
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", errors.FileSystemError("resolve root directory").WithCause(err).WithContext("root", root).Build()
	}
	return resolved, nil
}

// resolveKey joins a path-list key to root. Keys are slash-separated and may
// carry a leading slash.
func resolveKey(root, key string) (string, error) {
	rel := filepath.FromSlash(strings.TrimLeft(key, "/"))
	if !filepath.IsLocal(rel) {
		return "", errors.ValidationError("mapping key escapes root directory").WithCause(ErrPathOutsideRoot).
			WithContext("key", key).Build()
	}
	return filepath.Join(root, rel), nil
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
