package linkmap

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"git.home.luguber.info/inful/xrefsync/internal/foundation/errors"
)

const maxMappingResponseBytes = 5 * 1024 * 1024

// NewHTTPClient creates an HTTP client with safe defaults for fetching tables.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) == 0 {
				return nil
			}
			if req.URL.Host != via[0].URL.Host {
				return stderrors.New("redirect to different host blocked")
			}
			if len(via) >= 5 {
				return stderrors.New("too many redirects")
			}
			return nil
		},
	}
}

// HTTPSource fetches a table over HTTP(S). Redirects are followed only within
// the original host.
type HTTPSource struct {
	URL    string
	Format Format
	Client *http.Client
}

// Load fetches and parses the table.
func (s *HTTPSource) Load(ctx context.Context) (*LinkMap, error) {
	client := s.Client
	if client == nil {
		client = NewHTTPClient()
	}

	data, err := fetch(ctx, s.URL, client)
	if err != nil {
		return nil, errors.NetworkError("fetch mapping table").WithCause(err).WithContext("source", s.URL).Build()
	}

	format := s.Format
	if format == "" {
		format = FormatFor(s.URL)
	}
	return parseClassified(data, format, s.URL)
}

func (s *HTTPSource) String() string { return s.URL }

func fetch(ctx context.Context, rawURL string, client *http.Client) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: HTTP %d", rawURL, resp.StatusCode)
	}

	limited := io.LimitReader(resp.Body, maxMappingResponseBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(data) > maxMappingResponseBytes {
		return nil, stderrors.New("response too large")
	}
	return data, nil
}
