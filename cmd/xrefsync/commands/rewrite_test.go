package commands

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"git.home.luguber.info/inful/xrefsync/internal/config"
	"git.home.luguber.info/inful/xrefsync/internal/foundation/errors"
	"git.home.luguber.info/inful/xrefsync/internal/linkmap"
	"git.home.luguber.info/inful/xrefsync/internal/rewrite"
	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const introLine = "See " + config.DefaultBlobBase + "intro.md for details.\n"

func testGlobal(out io.Writer) *Global {
	return &Global{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Out:    out,
		Ctx:    context.Background(),
	}
}

func fixture(t *testing.T) (mapping, root string) {
	t.Helper()
	dir := t.TempDir()
	mapping = filepath.Join(dir, "links.csv")
	require.NoError(t, os.WriteFile(mapping, []byte("intro.md,qs.intro\n"), 0o644))

	root = filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# Spec\n\n## Index\n- intro\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "intro.md"), []byte(introLine), 0o644))
	return mapping, root
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWalkCmd_Run(t *testing.T) {
	mapping, root := fixture(t)

	cmd := &WalkCmd{Source: mapping, Root: root}
	require.NoError(t, cmd.Run(testGlobal(io.Discard), &CLI{}))

	assert.Equal(t, "See xref:qs.intro for details.\n", read(t, filepath.Join(root, "intro.md")))
	assert.Equal(t, "# Spec\n\n", read(t, filepath.Join(root, "README.md")))
}

func TestPathsCmd_RunKeepsReadme(t *testing.T) {
	mapping, root := fixture(t)

	cmd := &PathsCmd{Source: mapping, Root: root}
	require.NoError(t, cmd.Run(testGlobal(io.Discard), &CLI{}))

	assert.Equal(t, "See xref:qs.intro for details.\n", read(t, filepath.Join(root, "intro.md")))
	assert.Equal(t, "# Spec\n\n## Index\n- intro\n", read(t, filepath.Join(root, "README.md")))
}

func TestWalkCmd_DryRunReportsChanges(t *testing.T) {
	mapping, root := fixture(t)
	var out bytes.Buffer

	cmd := &WalkCmd{Source: mapping, Root: root}
	require.NoError(t, cmd.Run(testGlobal(&out), &CLI{DryRun: true}))

	assert.Equal(t, introLine, read(t, filepath.Join(root, "intro.md")))
	assert.Contains(t, out.String(), "would change README.md")
	assert.Contains(t, out.String(), "would change intro.md (1 replacements, 0 lines dropped)")
}

func TestWalkCmd_HTTPSourceAndMetricsFile(t *testing.T) {
	_, root := fixture(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("intro.md,qs.intro\n"))
	}))
	defer srv.Close()

	metricsFile := filepath.Join(t.TempDir(), "xrefsync.prom")
	cmd := &WalkCmd{Source: srv.URL + "/links.csv", Root: root}
	require.NoError(t, cmd.Run(testGlobal(io.Discard), &CLI{MetricsFile: metricsFile}))

	assert.Equal(t, "See xref:qs.intro for details.\n", read(t, filepath.Join(root, "intro.md")))
	prom := read(t, metricsFile)
	assert.Contains(t, prom, "xrefsync_documents_scanned_total 2")
	assert.Contains(t, prom, `xrefsync_run_outcomes_total{outcome="success"} 1`)
}

func TestWalkCmd_ConfigOverride(t *testing.T) {
	mapping, root := fixture(t)
	cfgPath := filepath.Join(t.TempDir(), "xrefsync.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("documents:\n  index_marker: \"## Contents\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# Spec\n## Contents\n- a\n"), 0o644))

	cmd := &WalkCmd{Source: mapping, Root: root}
	require.NoError(t, cmd.Run(testGlobal(io.Discard), &CLI{Config: cfgPath}))
	assert.Equal(t, "# Spec\n", read(t, filepath.Join(root, "README.md")))
}

func TestWalkCmd_Errors(t *testing.T) {
	mapping, root := fixture(t)

	t.Run("missing mapping file", func(t *testing.T) {
		cmd := &WalkCmd{Source: filepath.Join(t.TempDir(), "none.csv"), Root: root}
		err := cmd.Run(testGlobal(io.Discard), &CLI{})
		require.Error(t, err)
		assert.Equal(t, 3, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
	})

	t.Run("malformed mapping", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.csv")
		require.NoError(t, os.WriteFile(bad, []byte("intro.md,qs.intro,extra\n"), 0o644))
		err := (&WalkCmd{Source: bad, Root: root}).Run(testGlobal(io.Discard), &CLI{})
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, linkmap.ErrMalformedRow))
	})

	t.Run("missing readme", func(t *testing.T) {
		require.NoError(t, os.Remove(filepath.Join(root, "README.md")))
		err := (&WalkCmd{Source: mapping, Root: root}).Run(testGlobal(io.Discard), &CLI{})
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, rewrite.ErrReadmeMissing))
	})
}

func TestCLI_Parse(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		command string
		check   func(t *testing.T, cli *CLI)
	}{
		{
			name:    "walk is the default command",
			args:    []string{"links.csv", "docs"},
			command: "walk <mapping-source> <root-dir>",
			check: func(t *testing.T, cli *CLI) {
				assert.Equal(t, "links.csv", cli.Walk.Source)
				assert.Equal(t, "docs", cli.Walk.Root)
			},
		},
		{
			name:    "paths subcommand with flags",
			args:    []string{"paths", "--dry-run", "--report-leftovers", "https://example.com/links.csv", "docs"},
			command: "paths <mapping-source> <root-dir>",
			check: func(t *testing.T, cli *CLI) {
				assert.True(t, cli.DryRun)
				assert.True(t, cli.ReportLeftovers)
				assert.Equal(t, "https://example.com/links.csv", cli.Paths.Source)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli := &CLI{}
			parser, err := kong.New(cli, kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
			require.NoError(t, err)
			kctx, err := parser.Parse(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.command, kctx.Command())
			tt.check(t, cli)
		})
	}
}

func TestCLI_EnvironmentFlags(t *testing.T) {
	t.Setenv("XREFSYNC_DRY_RUN", "true")
	t.Setenv("XREFSYNC_REQUIRE_CLEAN", "true")

	cli := &CLI{}
	parser, err := kong.New(cli, kong.Vars{"version": "test"})
	require.NoError(t, err)
	_, err = parser.Parse([]string{"links.csv", "docs"})
	require.NoError(t, err)
	assert.True(t, cli.DryRun)
	assert.True(t, cli.RequireClean)
}
