package pathutil

import (
	"testing"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		// Summary routes with document IDs (should be normalized)
		{
			name:     "summary with UUID",
			path:     "/summaries/8f14e45f-ceea-4f7a-9c2d-3b1f4a5e6d7c",
			expected: "/summaries/:id",
		},
		{
			name:     "summary with uppercase UUID",
			path:     "/summaries/8F14E45F-CEEA-4F7A-9C2D-3B1F4A5E6D7C",
			expected: "/summaries/:id",
		},
		{
			name:     "summary with ID and trailing slash",
			path:     "/summaries/8f14e45f-ceea-4f7a-9c2d-3b1f4a5e6d7c/",
			expected: "/summaries/:id",
		},
		{
			name:     "summary with ID and query params",
			path:     "/summaries/8f14e45f-ceea-4f7a-9c2d-3b1f4a5e6d7c?preview=1",
			expected: "/summaries/:id",
		},
		{
			name:     "malformed hex ID still collapsed",
			path:     "/summaries/deadbeefdeadbeef",
			expected: "/summaries/:id",
		},

		// Static paths (should remain unchanged)
		{
			name:     "summaries list",
			path:     "/summaries",
			expected: "/summaries",
		},
		{
			name:     "stats",
			path:     "/stats",
			expected: "/stats",
		},
		{
			name:     "templates",
			path:     "/templates",
			expected: "/templates",
		},
		{
			name:     "model info",
			path:     "/model/info",
			expected: "/model/info",
		},
		{
			name:     "healthz",
			path:     "/healthz",
			expected: "/healthz",
		},
		{
			name:     "metrics",
			path:     "/metrics",
			expected: "/metrics",
		},
		{
			name:     "auth token",
			path:     "/auth/token",
			expected: "/auth/token",
		},
		{
			name:     "root",
			path:     "/",
			expected: "/",
		},
		{
			name:     "unknown path passes through",
			path:     "/unknown/path/xyz",
			expected: "/unknown/path/xyz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePath(tt.path)
			if got != tt.expected {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}
