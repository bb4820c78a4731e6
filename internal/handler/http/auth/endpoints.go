package auth

import "strings"

// PublicEndpoints defines endpoints that don't require authentication.
// These endpoints are accessible without a valid JWT token.
//
// Justification for each public endpoint:
// - /healthz: required for orchestration health checks (Kubernetes, Docker, monitoring)
// - /metrics: required for Prometheus scraping
// - /auth/token: token generation endpoint (can't require a token to get a token)
var PublicEndpoints = []string{
	"/healthz",
	"/metrics",
	"/auth/token",
}

// IsPublicEndpoint checks if a given path is a public endpoint.
// Public endpoints can be accessed without authentication.
//
// Matching logic:
//   - Endpoints ending with '/' use prefix matching
//   - Endpoints without '/' require exact match, a trailing slash, or query
//     params only (e.g., /healthz matches /healthz?x=1 but not /healthz/detail)
func IsPublicEndpoint(path string) bool {
	for _, endpoint := range PublicEndpoints {
		// Endpoints ending with '/' use prefix matching (for nested paths)
		if strings.HasSuffix(endpoint, "/") {
			if strings.HasPrefix(path, endpoint) {
				return true
			}
			continue
		}

		// For endpoints without trailing '/', only allow exact match, trailing
		// slash, or query params. This prevents /healthz from matching
		// /healthz/detail or /healthzcheck.
		if path == endpoint {
			return true
		}
		if path == endpoint+"/" {
			return true
		}
		if strings.HasPrefix(path, endpoint+"?") {
			return true
		}
	}
	return false
}
