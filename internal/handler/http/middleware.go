package http

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"docsum/internal/handler/http/requestid"
	"docsum/internal/handler/http/respond"
	"docsum/internal/handler/http/responsewriter"

	"go.opentelemetry.io/otel/trace"
)

// Logging returns middleware that logs HTTP requests with structured logging.
// It captures request details, response status, size, and processing duration,
// plus the OpenTelemetry trace ID for log/trace correlation.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := responsewriter.Wrap(w)
			next.ServeHTTP(wrapped, r)

			reqID := requestid.FromContext(r.Context())
			span := trace.SpanFromContext(r.Context())
			traceID := span.SpanContext().TraceID().String()
			duration := time.Since(start)

			logger.Info("request completed",
				slog.String("request_id", reqID),
				slog.String("trace_id", traceID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("query", r.URL.RawQuery),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.Header.Get("User-Agent")),
				slog.Int("status", wrapped.StatusCode()),
				slog.Int("bytes", wrapped.BytesWritten()),
				slog.Duration("duration", duration),
			)
		})
	}
}

// Recover returns middleware that catches panics, logs them with the stack
// trace, and returns a 500 instead of crashing the server.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					reqID := requestid.FromContext(r.Context())
					stack := string(debug.Stack())

					respond.SafeError(
						w,
						http.StatusInternalServerError,
						fmt.Errorf("internal error"),
					)

					logger.Error("panic recovered",
						slog.String("request_id", reqID),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.Any("panic", rec),
						slog.String("stack", stack),
					)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// LimitRequestBody returns middleware that caps request body size. Uploads
// past the limit fail mid-read with a 413 from MaxBytesReader.
func LimitRequestBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// Clock abstracts time for the rate limiter so window expiry is testable
// without sleeping.
type Clock interface {
	Now() time.Time
}

// systemClock is the production Clock.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// maxRateLimitKeys bounds the number of client entries the limiter tracks.
// When full, the stalest entry is evicted rather than growing the map, so a
// scan across many source addresses cannot exhaust memory.
const maxRateLimitKeys = 10000

// clientWindow stores request timestamps for one client IP.
type clientWindow struct {
	timestamps []time.Time
	lastSeen   time.Time
}

// RateLimiter implements IP-based sliding-window rate limiting with a
// bounded client table. Expired entries are swept inline on access; there is
// no background goroutine to manage.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	limit   int
	window  time.Duration
	clock   Clock
}

// NewRateLimiter creates a rate limiter allowing limit requests per window
// for each client IP.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return NewRateLimiterWithClock(limit, window, systemClock{})
}

// NewRateLimiterWithClock creates a rate limiter with an injected clock.
func NewRateLimiterWithClock(limit int, window time.Duration, clock Clock) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		window:  window,
		clock:   clock,
	}
}

// Limit applies rate limiting based on client IP address.
// Returns 429 Too Many Requests when the window is full.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(extractIP(r)) {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(rl.window.Seconds())))
			respond.SafeError(w, http.StatusTooManyRequests, fmt.Errorf("rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allow reports whether a request from ip is permitted, recording it if so.
func (rl *RateLimiter) allow(ip string) bool {
	now := rl.clock.Now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.sweepLocked(cutoff)

	client, ok := rl.clients[ip]
	if !ok {
		if len(rl.clients) >= maxRateLimitKeys {
			rl.evictStalestLocked()
		}
		client = &clientWindow{timestamps: make([]time.Time, 0, rl.limit)}
		rl.clients[ip] = client
	}

	valid := client.timestamps[:0]
	for _, ts := range client.timestamps {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}
	client.timestamps = valid
	client.lastSeen = now

	if len(client.timestamps) >= rl.limit {
		return false
	}
	client.timestamps = append(client.timestamps, now)
	return true
}

// sweepLocked drops clients whose whole window has expired. Runs on every
// access; the table is bounded so the scan stays cheap.
func (rl *RateLimiter) sweepLocked(cutoff time.Time) {
	for ip, client := range rl.clients {
		if client.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// evictStalestLocked removes the least recently seen client to make room.
func (rl *RateLimiter) evictStalestLocked() {
	var stalest string
	var stalestSeen time.Time
	for ip, client := range rl.clients {
		if stalest == "" || client.lastSeen.Before(stalestSeen) {
			stalest = ip
			stalestSeen = client.lastSeen
		}
	}
	if stalest != "" {
		delete(rl.clients, stalest)
	}
}

// extractIP extracts the client IP address from the HTTP request.
// It checks X-Forwarded-For and X-Real-IP headers before falling back to
// RemoteAddr.
func extractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := parseFirstIP(xff); ip != "" {
			return ip
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip := net.ParseIP(xri); ip != nil {
			return ip.String()
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// parseFirstIP parses the first IP address from a comma-separated list.
func parseFirstIP(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			ip := net.ParseIP(s[:i])
			if ip != nil {
				return ip.String()
			}
			return ""
		}
	}
	if ip := net.ParseIP(s); ip != nil {
		return ip.String()
	}
	return ""
}
