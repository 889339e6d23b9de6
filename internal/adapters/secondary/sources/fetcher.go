package sources

import (
	"compress/gzip"
	"compress/zlib"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vibin/news-relay/internal/logger"
)

// maxBodyBytes bounds how much of an upstream page is read
const maxBodyBytes = 8 << 20

// Response is the raw outcome of one upstream request
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the upstream answered with a 2xx status
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Fetcher performs a GET against an upstream source
type Fetcher interface {
	Get(ctx context.Context, url string, header http.Header) (*Response, error)
}

// HTTPFetcher implements Fetcher over net/http with a per-call timeout
type HTTPFetcher struct {
	httpClient *http.Client
	logger     logger.Logger
}

// NewHTTPFetcher creates a new HTTPFetcher. A zero timeout means 10 seconds.
func NewHTTPFetcher(timeout time.Duration, log logger.Logger) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

// Get sends the request and returns the decoded body whatever the status code
func (f *HTTPFetcher) Get(ctx context.Context, url string, header http.Header) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	f.logger.Debug("Upstream response received",
		"url", url,
		"status", resp.StatusCode,
		"encoding", resp.Header.Get("Content-Encoding"),
		"duration", time.Since(start))

	// Setting Accept-Encoding by hand disables the transport's transparent
	// decompression, so the body has to be decoded here.
	var reader io.Reader = resp.Body
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "deflate":
		zr, err := zlib.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create deflate reader: %w", err)
		}
		defer zr.Close()
		reader = zr
	}

	body, err := io.ReadAll(io.LimitReader(reader, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
