package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrportal/internal/domain/auth"
	"hrportal/internal/platform/ratelimit"
)

var noContent = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

type limitedRequest struct {
	method string
	path   string
	body   string
	remote string
	userID string
}

func serveLimited(h http.Handler, lr limitedRequest) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if lr.body != "" {
		body = bytes.NewBufferString(lr.body)
	} else {
		body = &bytes.Buffer{}
	}
	method := lr.method
	if method == "" {
		method = http.MethodPost
	}
	req := httptest.NewRequest(method, lr.path, body)
	if lr.body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.RemoteAddr = lr.remote
	if lr.userID != "" {
		req = req.WithContext(WithUser(req.Context(), auth.UserContext{UserID: lr.userID, Role: auth.RoleEmployee}))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitKeysByUserBeforeIP(t *testing.T) {
	limited := RateLimit(1, time.Minute)(noContent)

	first := serveLimited(limited, limitedRequest{path: "/api/v1/apars/draft", remote: "198.51.100.11:2222", userID: "user-1"})
	assert.Equal(t, http.StatusNoContent, first.Code)

	second := serveLimited(limited, limitedRequest{path: "/api/v1/apars/draft", remote: "198.51.100.12:3333", userID: "user-1"})
	assert.Equal(t, http.StatusTooManyRequests, second.Code, "same user from another IP shares the bucket")

	other := serveLimited(limited, limitedRequest{path: "/api/v1/apars/draft", remote: "198.51.100.12:3333", userID: "user-2"})
	assert.Equal(t, http.StatusNoContent, other.Code)
}

func TestRateLimitFallsBackToIP(t *testing.T) {
	limited := RateLimit(1, time.Minute)(noContent)

	first := serveLimited(limited, limitedRequest{path: "/api/v1/auth/login", body: `{"email":"a@example.com"}`, remote: "203.0.113.10:4444"})
	assert.Equal(t, http.StatusNoContent, first.Code)

	second := serveLimited(limited, limitedRequest{path: "/api/v1/auth/login", body: `{"email":"b@example.com"}`, remote: "203.0.113.10:5555"})
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRateLimitWindowReset(t *testing.T) {
	limited := RateLimit(1, 40*time.Millisecond)(noContent)
	lr := limitedRequest{path: "/api/v1/kpis", remote: "192.0.2.20:1111"}

	assert.Equal(t, http.StatusNoContent, serveLimited(limited, lr).Code)
	assert.Equal(t, http.StatusTooManyRequests, serveLimited(limited, lr).Code)

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, http.StatusNoContent, serveLimited(limited, lr).Code)
}

func TestRateLimitReturnsRetryMetadata(t *testing.T) {
	limited := RateLimit(1, time.Minute)(noContent)
	lr := limitedRequest{path: "/api/v1/kpis", remote: "192.0.2.30:1234"}

	first := serveLimited(limited, lr)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	rec := serveLimited(limited, lr)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
	assert.Contains(t, rec.Body.String(), "rate_limited")
}

func TestRateLimitHonoursForwardedFor(t *testing.T) {
	limited := RateLimit(1, time.Minute)(noContent)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/kpis", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.50, 10.0.0.1")
	req.RemoteAddr = "10.0.0.1:80"
	assert.Equal(t, "ip:203.0.113.50", clientIPKey(req))

	limited.ServeHTTP(httptest.NewRecorder(), req)
	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

type failingCounter struct{}

func (failingCounter) Hit(context.Context, string, time.Duration) (int, time.Duration, error) {
	return 0, 0, errors.New("redis unavailable")
}

func TestRateLimitFailsOpenWhenCounterErrors(t *testing.T) {
	limited := RateLimit(1, time.Minute, WithCounter(failingCounter{}))(noContent)
	lr := limitedRequest{path: "/api/v1/kpis", remote: "192.0.2.40:1234"}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, serveLimited(limited, lr).Code)
	}
}

func TestLimitersSharingACounterDoNotCollide(t *testing.T) {
	shared := ratelimit.NewMemory()
	global := RateLimit(1, time.Minute, WithCounter(shared))(noContent)
	sensitive := SensitiveMutationRateLimit(2, time.Minute, WithCounter(shared))(noContent)
	lr := limitedRequest{path: "/api/v1/apars/draft", remote: "192.0.2.50:1234", userID: "user-9"}

	assert.Equal(t, http.StatusNoContent, serveLimited(global, lr).Code)
	assert.Equal(t, http.StatusNoContent, serveLimited(sensitive, lr).Code)
}

func TestSensitiveMutationRateLimitScope(t *testing.T) {
	limited := SensitiveMutationRateLimit(4, time.Minute)(noContent)

	for i := 0; i < 6; i++ {
		rec := serveLimited(limited, limitedRequest{method: http.MethodGet, path: "/api/v1/reports/dashboard", remote: "198.51.100.40:8888"})
		require.Equal(t, http.StatusNoContent, rec.Code, "read request %d", i+1)
	}

	lr := limitedRequest{path: "/api/v1/apars/draft", remote: "198.51.100.41:9999", userID: "admin-1"}
	assert.Equal(t, http.StatusNoContent, serveLimited(limited, lr).Code)
	assert.Equal(t, http.StatusNoContent, serveLimited(limited, lr).Code)
	assert.Equal(t, http.StatusTooManyRequests, serveLimited(limited, lr).Code)
}

func TestSensitiveLoginLimitedByEmail(t *testing.T) {
	limited := SensitiveMutationRateLimit(4, time.Minute)(noContent)
	body := `{"email":"Victim@Example.com","password":"x"}`

	assert.Equal(t, http.StatusNoContent, serveLimited(limited, limitedRequest{path: "/api/v1/auth/login", body: body, remote: "203.0.113.1:1"}).Code)
	rec := serveLimited(limited, limitedRequest{path: "/api/v1/auth/login", body: body, remote: "203.0.113.2:1"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "second attempt for the same email from a new IP")
}

func TestSensitiveRateScopeRoutes(t *testing.T) {
	cases := []struct {
		method string
		path   string
		want   sensitiveScope
	}{
		{http.MethodPost, "/api/v1/auth/login", sensitiveScopeAuth},
		{http.MethodPost, "/api/v1/auth/mfa/enable", sensitiveScopeAuth},
		{http.MethodPost, "/api/v1/apars/draft", sensitiveScopeActor},
		{http.MethodPost, "/api/v1/employees", sensitiveScopeActor},
		{http.MethodPut, "/api/v1/kpis/k1", sensitiveScopeActor},
		{http.MethodDelete, "/api/v1/kpis/k1", sensitiveScopeActor},
		{http.MethodPatch, "/api/v1/kpis/k1", sensitiveScopeNone},
		{http.MethodGet, "/api/v1/auth/login", sensitiveScopeNone},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		assert.Equal(t, tc.want, sensitiveRateScope(req), "%s %s", tc.method, tc.path)
	}
}
