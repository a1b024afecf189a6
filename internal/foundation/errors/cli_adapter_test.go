package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("root is not a directory").Build(), expected: 2},
		{name: "not found", err: NotFoundError("README.md missing").Build(), expected: 3},
		{name: "config", err: ConfigError("bad config").Build(), expected: 7},
		{name: "network", err: NetworkError("fetch failed").Build(), expected: 8},
		{name: "parse", err: ParseError("row has 3 columns").Build(), expected: 9},
		{name: "filesystem", err: FileSystemError("write failed").Build(), expected: 11},
		{
			name:     "wrapped classified error",
			err:      fmt.Errorf("run: %w", EncodingError("invalid utf-8").Build()),
			expected: 9,
		},
		{name: "unclassified error", err: stderrors.New("unknown error"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := WrapError(cause, CategoryFileSystem, "write document").WithContext("path", "a.md").Build()

	quiet := NewCLIErrorAdapter(false, slog.Default())
	assert.Equal(t, "Error: write document: permission denied", quiet.FormatError(err))
	assert.Equal(t, "Error: boom", quiet.FormatError(stderrors.New("boom")))
	assert.Empty(t, quiet.FormatError(nil))

	verbose := NewCLIErrorAdapter(true, slog.Default())
	assert.Equal(t, "Error: [filesystem] write document path=a.md: permission denied", verbose.FormatError(err))
}

func TestCLIErrorAdapter_Handle(t *testing.T) {
	var logs, out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	adapter := NewCLIErrorAdapter(true, logger)
	adapter.out = &out

	code := adapter.Handle(NetworkError("fetch mapping").WithContext("source", "https://example.com/map.csv").Build())

	assert.Equal(t, 8, code)
	assert.Contains(t, out.String(), "fetch mapping")
	assert.Contains(t, logs.String(), "category=network")
	assert.Contains(t, logs.String(), "source=https://example.com/map.csv")
	assert.Equal(t, 0, adapter.Handle(nil))
}
