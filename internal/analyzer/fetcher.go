package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"strings"
	"time"

	"seoAnalyzerGO/internal/config"
)

// DefaultRequestTimeout bounds a fetch when no positive timeout is configured
const DefaultRequestTimeout = 10 * time.Second

var (
	// ErrInvalidURL is returned for input that is not an absolute http(s) URL
	ErrInvalidURL = errors.New("invalid URL")

	// ErrBodyTooLarge is wrapped in a RetrievalError when the page exceeds the size limit
	ErrBodyTooLarge = errors.New("response body too large")
)

// RetrievalError reports a failure to obtain a page's HTML
type RetrievalError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *RetrievalError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the retrieval ran out of time
func (e *RetrievalError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// Page is a retrieved HTML document. URL is where it was served from
// after redirects.
type Page struct {
	URL        string
	HTML       string
	StatusCode int
}

func (p *Page) finalURL(requested string) string {
	if p.URL == "" {
		return requested
	}
	return p.URL
}

// Fetcher retrieves the HTML for a URL
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*Page, error)
}

// HTTPFetcher fetches pages over HTTP with a bounded timeout and body size
type HTTPFetcher struct {
	client       *http.Client
	timeout      time.Duration
	userAgent    string
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewHTTPFetcher creates a fetcher from the analyzer configuration
func NewHTTPFetcher(cfg config.AnalyzerConfig, logger *slog.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		client:       &http.Client{},
		timeout:      requestTimeout(cfg),
		userAgent:    cfg.UserAgent,
		maxBodyBytes: cfg.MaxBodyBytes,
		logger:       logger,
	}
}

// Fetch implements Fetcher. Any non-2xx status is a RetrievalError.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	startTime := time.Now()
	var ttfb time.Duration
	trace := &httptrace.ClientTrace{
		GotFirstResponseByte: func() {
			ttfb = time.Since(startTime)
		},
	}

	req, err := http.NewRequestWithContext(httptrace.WithClientTrace(ctx, trace), http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &RetrievalError{URL: pageURL, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &RetrievalError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RetrievalError{
			URL:        pageURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP error: %s", resp.Status),
		}
	}

	var body io.Reader = resp.Body
	if f.maxBodyBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBodyBytes+1)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, &RetrievalError{URL: pageURL, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	if f.maxBodyBytes > 0 && int64(len(raw)) > f.maxBodyBytes {
		return nil, &RetrievalError{URL: pageURL, Err: ErrBodyTooLarge}
	}

	f.logger.Debug("Fetched page",
		"url", pageURL,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"ttfb", ttfb,
		"duration", time.Since(startTime),
	)

	return &Page{
		URL:        resp.Request.URL.String(),
		HTML:       string(raw),
		StatusCode: resp.StatusCode,
	}, nil
}

func requestTimeout(cfg config.AnalyzerConfig) time.Duration {
	if cfg.RequestTimeout <= 0 {
		return DefaultRequestTimeout
	}
	return cfg.RequestTimeout
}

// NormalizeURL validates raw and returns it in canonical form.
// A missing scheme defaults to https.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	if !strings.Contains(raw, "://") {
		host := raw
		if i := strings.IndexAny(host, "/?#"); i >= 0 {
			host = host[:i]
		}
		// host:port is fine, anything else before a colon is a scheme
		if i := strings.Index(host, ":"); i >= 0 && !isPort(host[i+1:]) {
			return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, host[:i])
		}
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	return u.String(), nil
}

func isPort(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
