package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/jonathan/talentfit/internal/logging"
	"go.uber.org/zap"
)

// MinContentLength is the shortest extracted text accepted without rendering.
const MinContentLength = 500

// NeedsRendering reports whether extracted text is too short to be a real posting,
// which usually means the page builds its content with JavaScript.
func NeedsRendering(extracted string) bool {
	return len(strings.TrimSpace(extracted)) < MinContentLength
}

// Renderer returns the HTML of a page after scripts have run.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// ChromeRenderer renders pages in headless Chrome. Chrome or Chromium must be installed.
type ChromeRenderer struct {
	Timeout time.Duration
	// Settle is how long to wait after the body is ready.
	Settle time.Duration
	Logger *zap.Logger
}

// NewChromeRenderer returns a renderer with default waits.
func NewChromeRenderer(logger *zap.Logger) *ChromeRenderer {
	return &ChromeRenderer{
		Timeout: DefaultTimeout,
		Settle:  3 * time.Second,
		Logger:  logging.OrNop(logger),
	}
}

// Render navigates to url and returns the rendered document.
func (r *ChromeRenderer) Render(ctx context.Context, url string) (string, error) {
	logger := logging.OrNop(r.Logger)
	logger.Debug("starting headless browser", zap.String("url", url))

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(r.Settle),
		// Cookie banners can hide the posting; a missing button is fine.
		chromedp.ActionFunc(func(ctx context.Context) error {
			_ = chromedp.Click(`button[id*="accept"], button[class*="accept"]`, chromedp.NodeVisible, chromedp.AtLeast(0)).Do(ctx)
			return nil
		}),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	logger.Debug("page rendered", zap.String("url", url), zap.Int("bytes", len(html)))
	return html, nil
}
