package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"

	"hrportal/internal/platform/querier"
	"hrportal/internal/transport/http/api"
)

var ErrIdempotencyConflict = errors.New("idempotency key conflicts with existing request")

const maxIdempotencyKeyLength = 200

type IdempotencyStore struct {
	db querier.Querier
}

func NewIdempotencyStore(db querier.Querier) *IdempotencyStore {
	return &IdempotencyStore{db: db}
}

func RequestHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func (s *IdempotencyStore) Check(ctx context.Context, userID, endpoint, key, requestHash string) (json.RawMessage, bool, error) {
	if s == nil || s.db == nil {
		return nil, false, nil
	}
	var storedHash string
	var stored json.RawMessage
	err := s.db.QueryRow(ctx, `
    SELECT request_hash, response_json
    FROM idempotency_keys
    WHERE user_id = $1 AND key = $2 AND endpoint = $3
  `, userID, key, endpoint).Scan(&storedHash, &stored)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if storedHash != requestHash {
		return nil, false, ErrIdempotencyConflict
	}
	return stored, true, nil
}

func (s *IdempotencyStore) Save(ctx context.Context, userID, endpoint, key, requestHash string, response json.RawMessage) error {
	if s == nil || s.db == nil {
		return nil
	}
	tag, err := s.db.Exec(ctx, `
    INSERT INTO idempotency_keys (user_id, key, endpoint, request_hash, response_json)
    VALUES ($1, $2, $3, $4, $5)
    ON CONFLICT (user_id, key, endpoint)
    DO UPDATE SET response_json = EXCLUDED.response_json
    WHERE idempotency_keys.request_hash = EXCLUDED.request_hash
  `, userID, key, endpoint, requestHash, response)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrIdempotencyConflict
	}
	return nil
}

// IdempotencyChecker is the part of IdempotencyStore the middleware needs.
type IdempotencyChecker interface {
	Check(ctx context.Context, userID, endpoint, key, requestHash string) (json.RawMessage, bool, error)
	Save(ctx context.Context, userID, endpoint, key, requestHash string, response json.RawMessage) error
}

type bufferedResponse struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (b *bufferedResponse) WriteHeader(code int) {
	b.status = code
	b.ResponseWriter.WriteHeader(code)
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	b.body.Write(p)
	return b.ResponseWriter.Write(p)
}

// Idempotent replays the stored response when a create is retried with the
// same Idempotency-Key and body. The same key with a different body is a
// 409. Requests without the header run normally.
func Idempotent(endpoint string, store IdempotencyChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
			user, ok := GetUser(r.Context())
			if key == "" || !ok || store == nil {
				next.ServeHTTP(w, r)
				return
			}
			requestID := GetRequestID(r.Context())
			if len(key) > maxIdempotencyKeyLength {
				api.Fail(w, http.StatusBadRequest, "invalid_idempotency_key", "Idempotency-Key is too long", requestID)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				var maxErr *http.MaxBytesError
				if errors.As(err, &maxErr) {
					api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
					return
				}
				api.Fail(w, http.StatusBadRequest, "invalid_payload", "could not read request body", requestID)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			hash := RequestHash(body)

			stored, found, err := store.Check(r.Context(), user.UserID, endpoint, key, hash)
			if errors.Is(err, ErrIdempotencyConflict) {
				api.Fail(w, http.StatusConflict, "idempotency_conflict", "Idempotency-Key was used with a different payload", requestID)
				return
			}
			if err != nil {
				api.Fail(w, http.StatusInternalServerError, "idempotency_error", "idempotency check failed", requestID)
				return
			}
			if found {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Idempotent-Replay", "true")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(stored)
				return
			}

			recorder := &bufferedResponse{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			if recorder.status >= 300 || !json.Valid(recorder.body.Bytes()) {
				return
			}
			if err := store.Save(r.Context(), user.UserID, endpoint, key, hash, recorder.body.Bytes()); err != nil {
				slog.WarnContext(r.Context(), "save idempotent response failed", "endpoint", endpoint, "userId", user.UserID, "err", err)
			}
		})
	}
}
