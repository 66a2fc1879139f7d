package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/desertthunder/playx/internal/shared"
	"golang.org/x/time/rate"
)

const defaultUserAgent = "playx/0.1"

// HTTPOpts configures the client shared by the HTTP catalogs.
type HTTPOpts struct {
	UserAgent string
	RateLimit float64       // requests per second, <= 0 disables limiting
	Timeout   time.Duration // bounds JSON requests only, never file downloads
	Client    *http.Client
}

// httpClient wraps [http.Client] with a rate limiter and a fixed User-Agent.
type httpClient struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	timeout   time.Duration
}

func newHTTPClient(opts HTTPOpts) *httpClient {
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &httpClient{
		client:    client,
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: opts.UserAgent,
		timeout:   opts.Timeout,
	}
}

func (h *httpClient) get(ctx context.Context, rawURL string) (*http.Response, error) {
	if err := h.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned %s", shared.ErrServiceUnavailable, req.URL.Host, resp.Status)
	}
	return resp, nil
}

// getJSON decodes the body of a GET request into result.
func (h *httpClient) getJSON(ctx context.Context, rawURL string, result any) error {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	resp, err := h.get(ctx, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// saveTo stream-copies the body of a GET request into a new file at path.
//
// The copy is bounded by ctx only, so large files are not cut off by the request timeout.
// A partially written file is removed on failure.
func (h *httpClient) saveTo(ctx context.Context, rawURL, path string) error {
	resp, err := h.get(ctx, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", shared.ErrIO, path, err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("%w: failed to write %s: %v", shared.ErrIO, path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("%w: failed to close %s: %v", shared.ErrIO, path, err)
	}
	return nil
}
