package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/xrefsync/internal/config"
	"git.home.luguber.info/inful/xrefsync/internal/foundation/errors"
	"git.home.luguber.info/inful/xrefsync/internal/linkmap"
	"git.home.luguber.info/inful/xrefsync/internal/logfields"
	"git.home.luguber.info/inful/xrefsync/internal/metrics"
	"git.home.luguber.info/inful/xrefsync/internal/rewrite"
	"git.home.luguber.info/inful/xrefsync/internal/vcs"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// WalkCmd implements the default directory traversal command.
type WalkCmd struct {
	Source string `arg:"" name:"mapping-source" help:"Mapping table: local path, file:// or http(s) URL (CSV, or YAML by extension)"`
	Root   string `arg:"" name:"root-dir" help:"Directory holding the documents"`
}

// Run executes the walk command.
func (w *WalkCmd) Run(g *Global, cli *CLI) error {
	return execute(g, cli, rewrite.ModeWalk, w.Source, w.Root)
}

// PathsCmd implements the explicit path-list command.
type PathsCmd struct {
	Source string `arg:"" name:"mapping-source" help:"Mapping table: local path, file:// or http(s) URL (CSV, or YAML by extension)"`
	Root   string `arg:"" name:"root-dir" help:"Directory the mapping keys are relative to"`
}

// Run executes the paths command.
func (p *PathsCmd) Run(g *Global, cli *CLI) error {
	return execute(g, cli, rewrite.ModePaths, p.Source, p.Root)
}

func execute(g *Global, cli *CLI, mode rewrite.Mode, source, root string) error {
	ctx := g.context()
	logger := g.logger().With(logfields.RunID(uuid.NewString()), logfields.Mode(string(mode)))

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}

	src, err := linkmap.Open(source, linkmap.NewHTTPClient())
	if err != nil {
		return err
	}
	links, err := src.Load(ctx)
	if err != nil {
		return err
	}
	logger.Info("Loaded mapping table", logfields.Source(src.String()), logfields.Entries(links.Len()))

	if cli.RequireClean && !cli.DryRun {
		dirty, err := vcs.DirtyDocuments(root, cfg.Documents.Extension)
		if err != nil {
			return err
		}
		if len(dirty) > 0 {
			return errors.ValidationError("documents have uncommitted changes").
				WithContext("root", root).
				WithContext("files", strings.Join(dirty, ",")).
				Build()
		}
	}

	registry := prometheus.NewRegistry()
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cli.MetricsFile != "" {
		recorder = metrics.NewPrometheusRecorder(registry)
	}

	rw, err := rewrite.New(cfg, links,
		rewrite.WithMode(mode),
		rewrite.WithDryRun(cli.DryRun),
		rewrite.WithLeftovers(cli.ReportLeftovers),
		rewrite.WithRecorder(recorder),
		rewrite.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	result, runErr := rw.Run(ctx, root)

	if cli.MetricsFile != "" {
		if err := metrics.WriteTextfile(cli.MetricsFile, registry); err != nil {
			logger.Warn("Failed to write metrics file", logfields.Path(cli.MetricsFile), logfields.Error(err))
		}
	}
	if runErr != nil {
		if errors.HasCategory(runErr, errors.CategoryRuntime) {
			logger.Warn("Rewrite interrupted, documents already written keep their changes",
				logfields.Files(len(result.Files)),
				logfields.Changed(len(result.ChangedFiles())))
		}
		return runErr
	}

	report(g, logger, result)
	return nil
}

func report(g *Global, logger *slog.Logger, result *rewrite.Result) {
	for _, l := range result.Leftovers {
		logger.Warn("Upstream link not covered by mapping table",
			logfields.Path(l.Path), slog.Int("line", l.Line), logfields.Link(l.Destination))
	}

	changed := result.ChangedFiles()
	if result.DryRun {
		for _, f := range changed {
			_, _ = fmt.Fprintf(g.out(), "would change %s (%d replacements, %d lines dropped)\n",
				f.Path, f.Replacements.Total(), f.LinesDropped)
		}
	}

	logger.Info("Rewrite complete",
		logfields.Root(result.Root),
		logfields.Files(len(result.Files)),
		logfields.Changed(len(changed)),
		logfields.Replacements(result.Replacements().Total()),
		logfields.DryRun(result.DryRun),
		logfields.DurationMS(float64(result.Duration.Microseconds())/1000))
}
