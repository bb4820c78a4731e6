// Package pathutil provides helpers for URL path handling: extracting
// document IDs from paths and normalizing dynamic paths for metrics labels.
package pathutil

import (
	"errors"
	"strings"
)

// ErrInvalidDocID is returned when the document ID in the URL path is invalid.
var ErrInvalidDocID = errors.New("invalid document id")

// ExtractDocID extracts a document ID segment from a URL path.
// It removes the specified prefix and returns the remaining single path
// segment.
//
// Parameters:
//   - path: The full URL path (e.g., "/summaries/8f14e45f-...")
//   - prefix: The prefix to remove (e.g., "/summaries/")
//
// Returns ErrInvalidDocID when the segment is empty or spans multiple path
// segments. UUID syntax is validated by the use case layer, not here.
func ExtractDocID(path, prefix string) (string, error) {
	id := strings.TrimPrefix(path, prefix)
	id = strings.TrimSuffix(id, "/")
	if id == "" || id == path || strings.Contains(id, "/") {
		return "", ErrInvalidDocID
	}
	return id, nil
}
