package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

// Global carries process-wide state into command Run methods.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
	Ctx    context.Context
}

func (g *Global) context() context.Context {
	if g.Ctx == nil {
		return context.Background()
	}
	return g.Ctx
}

func (g *Global) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

func (g *Global) out() io.Writer {
	if g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config          string           `short:"c" help:"YAML configuration file overriding the upstream URLs and document names" type:"path" env:"XREFSYNC_CONFIG"`
	Verbose         bool             `short:"v" help:"Enable verbose logging" env:"XREFSYNC_VERBOSE"`
	DryRun          bool             `name:"dry-run" help:"Report which documents would change without writing them" env:"XREFSYNC_DRY_RUN"`
	RequireClean    bool             `name:"require-clean" help:"Refuse to run when documents under the root have uncommitted changes" env:"XREFSYNC_REQUIRE_CLEAN"`
	ReportLeftovers bool             `name:"report-leftovers" help:"Warn about upstream links the mapping table did not cover" env:"XREFSYNC_REPORT_LEFTOVERS"`
	MetricsFile     string           `name:"metrics-file" help:"Write run metrics in Prometheus text format to this file" type:"path" env:"XREFSYNC_METRICS_FILE"`
	Version         kong.VersionFlag `name:"version" help:"Show version and exit"`

	Walk  WalkCmd  `cmd:"" default:"withargs" help:"Rewrite every document under the root and strip the README index"`
	Paths PathsCmd `cmd:"" help:"Rewrite only the documents named by the mapping keys"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}
