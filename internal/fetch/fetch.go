// Package fetch retrieves job posting pages and extracts their readable text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/talentfit/internal/logging"
	"go.uber.org/zap"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; talentfit/1.0)"

// maxBodyBytes caps how much of a page is read.
const maxBodyBytes = 5 << 20

// Result holds the raw content from a page fetch.
type Result struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error represents an error during page fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Client fetches job posting pages.
type Client struct {
	http      *http.Client
	userAgent string
	renderer  Renderer
	logger    *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent overrides the user agent.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRenderer enables headless rendering for pages whose static HTML is too thin.
func WithRenderer(r Renderer) Option {
	return func(c *Client) {
		c.renderer = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logging.OrNop(l)
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves the HTML at rawURL. The result is returned alongside a non-200 error
// so callers can inspect the status.
func (c *Client) Get(ctx context.Context, rawURL string) (*Result, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to read response body", Cause: err}
	}

	result := &Result{
		URL:         rawURL,
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	c.logger.Debug("page fetched",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)))

	if resp.StatusCode != http.StatusOK {
		return result, &Error{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return result, nil
}

// ValidateURL accepts absolute http and https URLs only.
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return &Error{URL: rawURL, Message: "invalid URL", Cause: fmt.Errorf("unsupported scheme %q", parsed.Scheme)}
	}
	return nil
}

// ExtractMainText parses HTML and returns the text of the first element matching
// one of contentSelectors, after removing noise. It falls back to the body.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup").Remove()
	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	var main *goquery.Selection
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			main = sel.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	// Block elements are separated by newlines so list items stay on their own line.
	main.Find("p, li, h1, h2, h3, h4, h5, h6, div").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	main.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("- ")
	})

	return compactLines(main.Text()), nil
}

// JobPostingSelectors returns selectors for generic job board pages.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		".job-content",
		"#job-description",
		"#job-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		".content",
		"#content",
	}
}

// compactLines trims every line and drops blank ones.
func compactLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
