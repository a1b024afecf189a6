// Package document reads and writes documentation files as UTF-8 lines.
//
// Documents are rewritten line by line, so reading normalizes line endings:
// "\r\n" and a lone "\r" both become "\n". A file without any link to rewrite
// therefore round-trips byte-identical unless it used Windows or classic Mac
// line endings.
package document

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"git.home.luguber.info/inful/xrefsync/internal/foundation/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// ErrInvalidUTF8 is the cause of every encoding failure reported by ReadLines.
var ErrInvalidUTF8 = encoding.ErrInvalidUTF8

// Document is the content of one file, split into lines.
type Document struct {
	Path  string
	Mode  fs.FileMode
	Lines []string
}

// Read loads path, validating that it is UTF-8.
func Read(path string) (*Document, error) {
	f, err := os.Open(path) // #nosec G304 -- path is a discovered document under the root
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.WrapError(err, errors.CategoryNotFound, "document not found").
				Fatal().WithContext("path", path).Build()
		}
		return nil, errors.FileSystemError("open document").WithCause(err).WithContext("path", path).Build()
	}
	defer func() {
		_ = f.Close()
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.FileSystemError("stat document").WithCause(err).WithContext("path", path).Build()
	}

	data, err := io.ReadAll(transform.NewReader(f, encoding.UTF8Validator))
	if err != nil {
		if stderrors.Is(err, encoding.ErrInvalidUTF8) {
			return nil, errors.EncodingError("document is not valid UTF-8").WithCause(err).WithContext("path", path).Build()
		}
		return nil, errors.FileSystemError("read document").WithCause(err).WithContext("path", path).Build()
	}

	return &Document{
		Path:  path,
		Mode:  info.Mode().Perm(),
		Lines: SplitLines(string(data)),
	}, nil
}

// Write truncates the file and writes the lines back.
func (d *Document) Write() error {
	mode := d.Mode
	if mode == 0 {
		mode = 0o644
	}
	if err := os.WriteFile(d.Path, []byte(d.String()), mode); err != nil {
		return errors.FileSystemError("write document").WithCause(err).WithContext("path", d.Path).Build()
	}
	return nil
}

// String joins the lines back into file content.
func (d *Document) String() string {
	return strings.Join(d.Lines, "")
}

// SplitLines normalizes line endings and splits s after every "\n". The final
// element has no terminator when s does not end with a newline.
func SplitLines(s string) []string {
	s = NormalizeNewlines(s)
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// NormalizeNewlines converts "\r\n" and "\r" line endings to "\n".
func NormalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
