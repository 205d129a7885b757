// Package ingest loads the transaction dataset from a file or URL, with
// bounded retries for transport failures.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jask/fraudscope/internal/errs"
)

// Source yields the raw CSV payload.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// FileSource reads a local file.
type FileSource struct {
	Path string
}

func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, errs.Network("open "+s.Path, err)
	}
	return f, nil
}

func (s FileSource) String() string { return s.Path }

// HTTPSource fetches the payload with GET. Each Open is bounded by Timeout
// when set, and the body is read fully before returning.
type HTTPSource struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

func (s HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errs.Network("GET "+s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, errs.Network("GET "+s.URL, fmt.Errorf("unexpected status %s", resp.Status))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Network("read "+s.URL, err)
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

func (s HTTPSource) String() string { return s.URL }

// SourceFor picks a source by location: http(s) URLs are fetched, anything
// else (optionally file://) is read from disk.
func SourceFor(location string, client *http.Client, timeout time.Duration) Source {
	lower := strings.ToLower(location)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return HTTPSource{URL: location, Client: client, Timeout: timeout}
	case strings.HasPrefix(lower, "file://"):
		return FileSource{Path: location[len("file://"):]}
	default:
		return FileSource{Path: location}
	}
}
