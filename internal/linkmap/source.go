package linkmap

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"

	"git.home.luguber.info/inful/xrefsync/internal/foundation/errors"
)

// Source loads a mapping table. It is the only way the rewriter obtains its
// LinkMap, so tests can substitute an in-memory table.
type Source interface {
	Load(ctx context.Context) (*LinkMap, error)
	String() string
}

// Static is an in-memory table.
type Static map[string]string

// Load returns the table as a LinkMap ordered by fragment.
func (s Static) Load(_ context.Context) (*LinkMap, error) {
	if len(s) == 0 {
		return nil, errors.ValidationError("mapping table is empty").WithCause(ErrEmptyMap).Build()
	}
	return FromMap(s), nil
}

func (s Static) String() string { return "static" }

// FileSource reads a table from the local filesystem.
type FileSource struct {
	Path   string
	Format Format
}

// Load reads and parses the file.
func (s *FileSource) Load(_ context.Context) (*LinkMap, error) {
	data, err := os.ReadFile(s.Path) // #nosec G304 -- mapping path supplied by the operator
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NotFoundError("mapping file not found").WithCause(err).WithContext("source", s.Path).Build()
		}
		return nil, errors.FileSystemError("read mapping file").WithCause(err).WithContext("source", s.Path).Build()
	}
	return parseClassified(data, s.format(), s.Path)
}

func (s *FileSource) String() string { return s.Path }

func (s *FileSource) format() Format {
	if s.Format != "" {
		return s.Format
	}
	return FormatFor(s.Path)
}

// Open picks a Source for a user-supplied location: http(s) URLs are fetched,
// file:// URLs and plain paths are read from disk. client may be nil.
func Open(location string, client *http.Client) (Source, error) {
	if strings.TrimSpace(location) == "" {
		return nil, errors.ValidationError("mapping source location is empty").Build()
	}

	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Not a URL, or a Windows drive letter.
		return &FileSource{Path: location}, nil
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return &HTTPSource{URL: location, Client: client}, nil
	case "file":
		p := u.Path
		if p == "" {
			p = u.Opaque
		}
		return &FileSource{Path: p}, nil
	default:
		return nil, errors.ValidationError(fmt.Sprintf("unsupported mapping source scheme %q", u.Scheme)).
			WithContext("source", location).Build()
	}
}

func parseClassified(data []byte, format Format, location string) (*LinkMap, error) {
	m, err := Parse(data, format)
	if err != nil {
		if stderrors.Is(err, ErrEmptyMap) {
			return nil, errors.ValidationError("mapping table is empty").WithCause(err).WithContext("source", location).Build()
		}
		return nil, errors.ParseError("parse mapping table").WithCause(err).WithContext("source", location).Build()
	}
	return m, nil
}
