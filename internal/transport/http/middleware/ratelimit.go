package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hrportal/internal/platform/ratelimit"
	"hrportal/internal/transport/http/api"
)

type RateLimitKeyFunc func(r *http.Request) string

type RateLimitOption func(*rateLimiter)

// rateLimiter applies one limit per key and window. name namespaces the
// keys so several limiters can share a counter.
type rateLimiter struct {
	name    string
	limit   int
	window  time.Duration
	keyFn   RateLimitKeyFunc
	counter ratelimit.Counter
}

// WithCounter replaces the in-process counter, e.g. with a Redis-backed one
// shared between instances.
func WithCounter(counter ratelimit.Counter) RateLimitOption {
	return func(rl *rateLimiter) {
		if counter != nil {
			rl.counter = counter
		}
	}
}

func RateLimit(limit int, window time.Duration, opts ...RateLimitOption) func(http.Handler) http.Handler {
	rl := newRateLimiter("global", limit, window, actorOrIPKey, opts...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.enforce(w, r) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SensitiveMutationRateLimit adds tighter limits on login, MFA changes and
// privileged writes. Auth routes are limited by client IP and by the email
// in the body; the rest by actor.
func SensitiveMutationRateLimit(baseLimit int, window time.Duration, opts ...RateLimitOption) func(http.Handler) http.Handler {
	authLimit := max(baseLimit/4, 1)
	mutationLimit := max(baseLimit/2, 1)
	authByIP := newRateLimiter("auth-ip", authLimit, window, clientIPKey, opts...)
	authByEmail := newRateLimiter("auth-email", authLimit, window, AuthEmailOrIPKey("email"), opts...)
	sensitiveByActor := newRateLimiter("sensitive", mutationLimit, window, actorOrIPKey, opts...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch sensitiveRateScope(r) {
			case sensitiveScopeAuth:
				if !authByIP.enforce(w, r) || !authByEmail.enforce(w, r) {
					return
				}
			case sensitiveScopeActor:
				if !sensitiveByActor.enforce(w, r) {
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func AuthEmailOrIPKey(field string) RateLimitKeyFunc {
	normalizedField := strings.TrimSpace(field)
	if normalizedField == "" {
		normalizedField = "email"
	}
	return func(r *http.Request) string {
		email := extractJSONField(r, normalizedField)
		if email == "" {
			return clientIPKey(r)
		}
		return "email:" + strings.ToLower(email)
	}
}

func actorOrIPKey(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok && user.UserID != "" {
		return "user:" + user.UserID
	}
	return clientIPKey(r)
}

func clientIPKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return "ip:" + first
		}
	}
	if host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr)); err == nil && host != "" {
		return "ip:" + host
	}
	return "ip:" + strings.TrimSpace(r.RemoteAddr)
}

func newRateLimiter(name string, limit int, window time.Duration, keyFn RateLimitKeyFunc, opts ...RateLimitOption) *rateLimiter {
	rl := &rateLimiter{
		name:   name,
		limit:  limit,
		window: window,
		keyFn:  keyFn,
	}
	for _, opt := range opts {
		opt(rl)
	}
	if rl.keyFn == nil {
		rl.keyFn = actorOrIPKey
	}
	if rl.counter == nil {
		rl.counter = ratelimit.NewMemory()
	}
	return rl
}

// enforce counts the request and writes a 429 when the key is over its
// limit. A failing counter lets the request through.
func (rl *rateLimiter) enforce(w http.ResponseWriter, r *http.Request) bool {
	if rl.limit <= 0 {
		return true
	}

	key := rl.keyFn(r)
	if key == "" {
		key = clientIPKey(r)
	}
	count, resetAfter, err := rl.counter.Hit(r.Context(), rl.name+":"+key, rl.window)
	if err != nil {
		slog.WarnContext(r.Context(), "rate limit counter failed", "limiter", rl.name, "err", err)
		return true
	}
	resetIn := durationSeconds(resetAfter)

	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(rl.limit-count, 0)))
	w.Header().Set("X-RateLimit-Reset", strconv.Itoa(resetIn))

	if count > rl.limit {
		w.Header().Set("Retry-After", strconv.Itoa(max(resetIn, 1)))
		slog.WarnContext(r.Context(), "rate limit exceeded",
			"limiter", rl.name,
			"key", key,
			"path", r.URL.Path,
			"method", r.Method,
			"limit", rl.limit,
		)
		api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
		return false
	}
	return true
}

func durationSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return max(int(d.Seconds()), 1)
}

func extractJSONField(r *http.Request, field string) string {
	if r == nil || r.Body == nil {
		return ""
	}
	contentType := strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type")))
	if !strings.Contains(contentType, "application/json") {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64*1024))
	if err != nil {
		return ""
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if len(raw) == 0 {
		return ""
	}
	payload := map[string]any{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	value, _ := payload[field].(string)
	return strings.TrimSpace(value)
}

type sensitiveScope string

const (
	sensitiveScopeNone  sensitiveScope = ""
	sensitiveScopeAuth  sensitiveScope = "auth"
	sensitiveScopeActor sensitiveScope = "actor"
)

func sensitiveRateScope(r *http.Request) sensitiveScope {
	if r == nil {
		return sensitiveScopeNone
	}
	method := strings.ToUpper(strings.TrimSpace(r.Method))
	if method != http.MethodPost && method != http.MethodPut && method != http.MethodPatch && method != http.MethodDelete {
		return sensitiveScopeNone
	}

	path := normalizedAPIPath(r.URL.Path)
	switch path {
	case "/auth/login",
		"/auth/mfa/setup",
		"/auth/mfa/enable",
		"/auth/mfa/disable":
		return sensitiveScopeAuth
	case "/apars/draft",
		"/employees":
		return sensitiveScopeActor
	}

	// Admin-only rewrites and deletes of KPI records.
	if strings.HasPrefix(path, "/kpis/") && (method == http.MethodPut || method == http.MethodDelete) {
		return sensitiveScopeActor
	}

	return sensitiveScopeNone
}

func normalizedAPIPath(path string) string {
	cleaned := strings.TrimSpace(path)
	if strings.HasPrefix(cleaned, "/api/v1") {
		cleaned = strings.TrimPrefix(cleaned, "/api/v1")
	}
	if cleaned == "" {
		return "/"
	}
	if !strings.HasPrefix(cleaned, "/") {
		return "/" + cleaned
	}
	return cleaned
}
