package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// ErrEmptyContent is returned when nothing readable remains after cleaning.
var ErrEmptyContent = errors.New("job description is empty")

// Source says where a document came from.
type Source string

const (
	SourceText Source = "text"
	SourceFile Source = "file"
	SourceURL  Source = "url"
)

// Document is a cleaned job description and its provenance.
type Document struct {
	Text     string    `json:"text"`
	Source   Source    `json:"source"`
	Origin   string    `json:"origin,omitempty"`
	Platform string    `json:"platform,omitempty"`
	Hash     string    `json:"hash"`
	Ingested time.Time `json:"ingested"`
}

func newDocument(text string, source Source, origin string) *Document {
	return &Document{
		Text:     text,
		Source:   source,
		Origin:   origin,
		Hash:     computeHash(text),
		Ingested: time.Now().UTC(),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ShortHash returns the first 12 hex characters of the content hash.
func (d *Document) ShortHash() string {
	if len(d.Hash) > 12 {
		return d.Hash[:12]
	}
	return d.Hash
}
