package ingestion

import (
	"context"
	"fmt"

	"github.com/jonathan/talentfit/internal/fetch"
)

// PostingFetcher retrieves the readable text of a job posting page.
type PostingFetcher interface {
	JobPosting(ctx context.Context, rawURL string) (*fetch.Posting, error)
}

// FromURL fetches a job posting page and cleans its text.
func FromURL(ctx context.Context, f PostingFetcher, rawURL string) (*Document, error) {
	posting, err := f.JobPosting(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job posting: %w", err)
	}

	cleaned := CleanText(posting.Text)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: no text found at %s", ErrEmptyContent, rawURL)
	}

	doc := newDocument(cleaned, SourceURL, rawURL)
	doc.Platform = string(posting.Platform)
	return doc, nil
}
