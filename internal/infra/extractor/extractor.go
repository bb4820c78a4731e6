// Package extractor turns uploaded documents into plain text for the
// summarization pipeline. Plain-text uploads pass through after encoding
// validation; HTML uploads go through the Readability algorithm with a
// DOM-walk fallback for pages Readability rejects.
package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

var (
	// ErrUnsupportedType is returned for content types outside the accepted
	// set (text/plain, text/html).
	ErrUnsupportedType = errors.New("unsupported content type")

	// ErrNotUTF8 is returned when a plain-text upload is not valid UTF-8.
	ErrNotUTF8 = errors.New("document is not valid UTF-8")

	// ErrNoContent is returned when extraction yields no text.
	ErrNoContent = errors.New("no extractable text content")
)

// Extractor converts an uploaded document body into plain text.
type Extractor interface {
	Extract(ctx context.Context, contentType string, data []byte) (string, error)
}

// Document extracts text from the supported upload formats.
type Document struct{}

// NewDocument creates a document text extractor.
func NewDocument() *Document {
	return &Document{}
}

// Extract implements Extractor. The content type is matched on its media
// type only; parameters such as charset are ignored.
func (d *Document) Extract(ctx context.Context, contentType string, data []byte) (string, error) {
	mediaType := contentType
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		mediaType = contentType[:idx]
	}
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))

	switch mediaType {
	case "text/plain", "":
		return extractPlain(data)
	case "text/html":
		return extractHTML(ctx, data)
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mediaType)
}

func extractPlain(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrNotUTF8
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", ErrNoContent
	}
	return text, nil
}

// extractHTML extracts readable article text. Readability handles
// article-like pages well; for fragments and pages without a main content
// block it fails, and a plain DOM text walk is used instead.
func extractHTML(ctx context.Context, data []byte) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(data), nil)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return article.TextContent, nil
	}
	if err != nil {
		slog.DebugContext(ctx, "readability extraction failed, falling back to dom walk",
			slog.String("error", err.Error()))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	text := doc.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrNoContent
	}
	return text, nil
}
