package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/anime-shed/thumbnail-inspector-go/internal/errors"
)

const (
	defaultAttempts = 3
	defaultBackoff  = time.Second
	// DefaultMaxBytes bounds a single downloaded image
	DefaultMaxBytes int64 = 10 * 1024 * 1024
)

// Fetcher downloads the raw bytes behind a source URL
type Fetcher interface {
	Fetch(ctx context.Context, sourceURL string) ([]byte, error)
}

// HTTPFetcher implements Fetcher over plain HTTP(S) with retries
type HTTPFetcher struct {
	client   *http.Client
	backoff  time.Duration
	maxBytes int64
}

// HTTPOption configures an HTTPFetcher
type HTTPOption func(*HTTPFetcher)

// WithBackoff sets the base delay between attempts. Attempt n waits n*d.
func WithBackoff(d time.Duration) HTTPOption {
	return func(h *HTTPFetcher) {
		if d >= 0 {
			h.backoff = d
		}
	}
}

// WithMaxBytes caps the response body size
func WithMaxBytes(n int64) HTTPOption {
	return func(h *HTTPFetcher) {
		if n > 0 {
			h.maxBytes = n
		}
	}
}

// WithTimeout sets the overall client timeout per attempt
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTPFetcher) {
		if d > 0 {
			h.client.Timeout = d
		}
	}
}

// NewHTTPFetcher creates an HTTP fetcher tuned for single image downloads
func NewHTTPFetcher(opts ...HTTPOption) *HTTPFetcher {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}

	h := &HTTPFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		backoff:  defaultBackoff,
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// errClientStatus marks responses that must not be retried
var errClientStatus = errors.New("client error")

// Fetch downloads sourceURL. 5xx responses and transport errors are retried
// up to three attempts in total; 4xx responses fail immediately.
func (h *HTTPFetcher) Fetch(ctx context.Context, sourceURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < defaultAttempts; attempt++ {
		if attempt > 0 {
			if err := h.wait(ctx, attempt); err != nil {
				return nil, apperrors.NewTimeoutError("image fetch cancelled", err)
			}
		}

		data, err := h.fetchOnce(ctx, sourceURL)
		if err == nil {
			return data, nil
		}
		lastErr = err

		if errors.Is(err, errClientStatus) {
			break
		}
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, apperrors.NewTimeoutError("image fetch cancelled", ctx.Err())
		}
	}

	return nil, apperrors.NewNetworkError(
		fmt.Sprintf("failed to fetch image after %d attempts", defaultAttempts), lastErr)
}

func (h *HTTPFetcher) wait(ctx context.Context, attempt int) error {
	if h.backoff == 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(time.Duration(attempt) * h.backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (h *HTTPFetcher) fetchOnce(ctx context.Context, sourceURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid URL", err)
	}

	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/gif, */*")
	req.Header.Set("User-Agent", "Thumbnail-Inspector/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, fmt.Errorf("%w: status code %d", errClientStatus, resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("server error: status code %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	return readCapped(resp.Body, h.maxBytes)
}

// readCapped reads at most max bytes and fails when more are available
func readCapped(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > max {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("image exceeds the %d byte limit", max), nil)
	}
	if len(data) == 0 {
		return nil, apperrors.NewDecodeError("empty image response", nil)
	}
	return data, nil
}
