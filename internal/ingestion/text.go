// Package ingestion turns job description text, files and web pages into clean
// text ready to send to the workflow service.
package ingestion

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxFileBytes is the largest job description file accepted.
const MaxFileBytes = 1 << 20

var (
	innerSpace  = regexp.MustCompile(`[ \t\f\v]+`)
	blankLines  = regexp.MustCompile(`\n{3,}`)
	bulletStart = regexp.MustCompile(`^[•·▪‣◦]\s*`)
)

// CleanText normalizes line endings and whitespace while keeping headings,
// bullets and paragraph breaks. At most one blank line separates paragraphs.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\u00a0", " ")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	out := blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(out)
}

// cleanLine collapses runs of spaces inside a line and keeps its leading indent.
// Unicode bullets are rewritten as "- ".
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "#") {
		return innerSpace.ReplaceAllString(trimmed, " ")
	}

	indent := line[:len(line)-len(trimmed)]
	indent = strings.Repeat(" ", len(strings.ReplaceAll(indent, "\t", "  ")))

	trimmed = bulletStart.ReplaceAllString(trimmed, "- ")
	return indent + innerSpace.ReplaceAllString(trimmed, " ")
}

// FromText cleans pasted job description text.
func FromText(text string) (*Document, error) {
	cleaned := CleanText(text)
	if cleaned == "" {
		return nil, ErrEmptyContent
	}
	return newDocument(cleaned, SourceText, ""), nil
}

// FromFile reads and cleans a plain text job description.
func FromFile(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("failed to read file: %s is a directory", path)
	}
	if info.Size() > MaxFileBytes {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), MaxFileBytes)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("file %s is not UTF-8 text", path)
	}

	cleaned := CleanText(string(content))
	if cleaned == "" {
		return nil, ErrEmptyContent
	}
	return newDocument(cleaned, SourceFile, path), nil
}
