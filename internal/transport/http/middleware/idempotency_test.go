package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrportal/internal/domain/auth"
)

type memoryIdempotency struct {
	hashes    map[string]string
	responses map[string]json.RawMessage
}

func newMemoryIdempotency() *memoryIdempotency {
	return &memoryIdempotency{hashes: map[string]string{}, responses: map[string]json.RawMessage{}}
}

func (m *memoryIdempotency) Check(_ context.Context, userID, endpoint, key, hash string) (json.RawMessage, bool, error) {
	id := userID + endpoint + key
	stored, ok := m.hashes[id]
	if !ok {
		return nil, false, nil
	}
	if stored != hash {
		return nil, false, ErrIdempotencyConflict
	}
	return m.responses[id], true, nil
}

func (m *memoryIdempotency) Save(_ context.Context, userID, endpoint, key, hash string, response json.RawMessage) error {
	id := userID + endpoint + key
	m.hashes[id] = hash
	m.responses[id] = append(json.RawMessage(nil), response...)
	return nil
}

func TestRequestHashDeterministic(t *testing.T) {
	assert.Equal(t, RequestHash([]byte("payload")), RequestHash([]byte("payload")))
	assert.NotEqual(t, RequestHash([]byte("payload")), RequestHash([]byte("other")))
}

func TestIdempotentReplaysAndConflicts(t *testing.T) {
	calls := 0
	handler := Idempotent("kpis.create", newMemoryIdempotency())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	ctx := WithUser(context.Background(), auth.UserContext{UserID: "u1", Role: auth.RoleEmployee})

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/kpis", strings.NewReader(body)).WithContext(ctx)
		req.Header.Set("Idempotency-Key", "k-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	first := send(`{"metric":"a"}`)
	require.Equal(t, http.StatusCreated, first.Code)

	replay := send(`{"metric":"a"}`)
	assert.Equal(t, http.StatusOK, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("Idempotent-Replay"))
	assert.JSONEq(t, `{"success":true}`, replay.Body.String())
	assert.Equal(t, 1, calls)

	conflict := send(`{"metric":"b"}`)
	assert.Equal(t, http.StatusConflict, conflict.Code)
	assert.Equal(t, 1, calls)
}

func TestIdempotentWithoutHeaderPassesThrough(t *testing.T) {
	calls := 0
	handler := Idempotent("kpis.create", newMemoryIdempotency())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		calls++
	}))
	ctx := WithUser(context.Background(), auth.UserContext{UserID: "u1"})
	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}")).WithContext(ctx))
	}
	assert.Equal(t, 2, calls)
}

func TestIdempotentRejectsOversizedBody(t *testing.T) {
	handler := Idempotent("kpis.create", newMemoryIdempotency())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))
	ctx := WithUser(context.Background(), auth.UserContext{UserID: "u1", Role: auth.RoleEmployee})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/kpis", strings.NewReader(`{"metric":"`+strings.Repeat("x", 64)+`"}`)).WithContext(ctx)
	req.Header.Set("Idempotency-Key", "k-big")
	rec := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(rec, req.Body, 16)

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "payload_too_large")
}
