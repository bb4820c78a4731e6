package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// docIDSegment matches the document ID shapes that appear in summary paths.
// Document IDs are UUIDs, but malformed IDs still reach the handlers and
// must be collapsed into one label too.
const docIDSegment = `[0-9a-fA-F-]{8,64}`

// pathPatterns defines the list of patterns for dynamic routes.
// Patterns are evaluated in order from most specific to least specific.
// Pre-compiled at initialization.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/summaries/` + docIDSegment + `$`), Template: "/summaries/:id"},
}

// NormalizePath normalizes dynamic URL paths to prevent metrics label cardinality explosion.
// It converts paths with document IDs (e.g., /summaries/8f14e45f-...) to template
// format (e.g., /summaries/:id). Static paths remain unchanged.
//
// Examples:
//
//	NormalizePath("/summaries/8f14e45f-ceea-4f7a-9c2d-3b1f4a5e6d7c") // "/summaries/:id"
//	NormalizePath("/summaries")                                      // "/summaries" (unchanged)
//	NormalizePath("/summaries/stats")                                // "/summaries/stats" (unchanged)
//	NormalizePath("/healthz")                                        // "/healthz" (unchanged)
//
// Query parameters and trailing slashes are handled:
//
//	NormalizePath("/summaries/8f14e45f-ceea-4f7a-9c2d-3b1f4a5e6d7c?x=1") // "/summaries/:id"
func NormalizePath(path string) string {
	// Strip query parameters if present
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	// Strip trailing slash if present (except for root path)
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}

	// No match found, return original path. Static paths like /healthz,
	// /metrics, /auth/token pass through unchanged.
	return path
}
