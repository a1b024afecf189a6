package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/xrefsync/cmd/xrefsync/commands"
	"git.home.luguber.info/inful/xrefsync/internal/foundation/errors"
	"git.home.luguber.info/inful/xrefsync/internal/version"
	"github.com/alecthomas/kong"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("xrefsync"),
		kong.Description("Replace upstream specification links in Markdown documents with xref tokens."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	global := &commands.Global{
		Logger: slog.Default(),
		Out:    os.Stdout,
		Ctx:    ctx,
	}
	if err := parser.Run(global, cli); err != nil {
		cancel()
		os.Exit(errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Handle(err))
	}
}
