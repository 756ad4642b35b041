package fetch

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Posting is the readable text of a job posting page.
type Posting struct {
	URL      string
	Platform Platform
	Text     string
	Rendered bool
}

// JobPosting fetches rawURL and extracts the posting text using platform selectors.
// When a renderer is configured and the static text is too thin, the page is rendered
// and extracted again; a rendering failure keeps the static text.
func (c *Client) JobPosting(ctx context.Context, rawURL string) (*Posting, error) {
	platform := DetectPlatform(rawURL)

	res, err := c.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	content := ContentSelectors(platform)
	noise := NoiseSelectors(platform)

	text, err := ExtractMainText(res.HTML, content, noise...)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "content extraction failed", Cause: err}
	}

	posting := &Posting{URL: rawURL, Platform: platform, Text: text}
	if c.renderer == nil || !NeedsRendering(text) {
		return posting, nil
	}

	c.logger.Info("posting text too short, rendering page",
		zap.String("url", rawURL),
		zap.Int("chars", len(text)))
	html, err := c.renderer.Render(ctx, rawURL)
	if err != nil {
		c.logger.Warn("rendering failed, using static text", zap.Error(err))
		return posting, nil
	}
	rendered, err := ExtractMainText(html, content, noise...)
	if err != nil {
		c.logger.Warn("rendered content extraction failed", zap.Error(err))
		return posting, nil
	}
	if len(rendered) > len(text) {
		posting.Text = rendered
		posting.Rendered = true
	}
	return posting, nil
}

// String describes the posting source.
func (p *Posting) String() string {
	return fmt.Sprintf("%s (%s, %d chars)", p.URL, p.Platform, len(p.Text))
}
