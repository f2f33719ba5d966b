package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	apperrors "github.com/aditya/worknearby/internal/errors"
	"github.com/aditya/worknearby/pkg/utils"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
	idempotencyLock   = 30 * time.Second
	idempotencyPrefix = "worknearby:idempotency:"
)

// IdempotencyMiddleware replays the stored response for a repeated
// Idempotency-Key, so a retried POST /bookings does not book twice.
type IdempotencyMiddleware struct {
	redis *redis.Client
}

type cachedResponse struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
	RequestHash string `json:"request_hash"`
}

func NewIdempotencyMiddleware(redisClient *redis.Client) *IdempotencyMiddleware {
	return &IdempotencyMiddleware{redis: redisClient}
}

// responseRecorder captures the response for caching
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (rw *responseRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseRecorder) Write(b []byte) (int, error) {
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

func (m *IdempotencyMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
			next.ServeHTTP(w, r)
			return
		}

		idempotencyKey := r.Header.Get(IdempotencyHeader)
		if idempotencyKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			utils.BadRequest(w, "failed to read request body")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(bodyBytes))

		// The same key on a different route or body is a client bug.
		requestHash := hashRequest(r.Method, r.URL.Path, r.Header.Get("Authorization"), bodyBytes)
		cacheKey := idempotencyPrefix + idempotencyKey
		ctx := r.Context()

		cached, err := m.getCachedResponse(ctx, cacheKey)
		switch {
		case err == nil:
			if cached.RequestHash != requestHash {
				utils.Error(w, apperrors.IdempotencyConflict())
				return
			}
			w.Header().Set("Content-Type", cached.ContentType)
			w.Header().Set("Idempotent-Replayed", "true")
			w.WriteHeader(cached.StatusCode)
			w.Write(cached.Body)
			return
		case !errors.Is(err, redis.Nil):
			log.Printf("idempotency lookup failed for %s: %v", idempotencyKey, err)
			next.ServeHTTP(w, r)
			return
		}

		lockKey := cacheKey + ":lock"
		locked, err := m.redis.SetNX(ctx, lockKey, "1", idempotencyLock).Result()
		if err != nil {
			log.Printf("idempotency lock failed for %s: %v", idempotencyKey, err)
			next.ServeHTTP(w, r)
			return
		}
		if !locked {
			utils.Error(w, apperrors.Conflict("a request with this idempotency key is already being processed"))
			return
		}
		defer m.redis.Del(context.WithoutCancel(ctx), lockKey)

		rw := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		// Only successful responses are replayed; a failed attempt may be retried.
		if rw.statusCode < 200 || rw.statusCode >= 300 {
			return
		}

		data, err := json.Marshal(cachedResponse{
			StatusCode:  rw.statusCode,
			ContentType: rw.Header().Get("Content-Type"),
			Body:        rw.body.Bytes(),
			RequestHash: requestHash,
		})
		if err != nil {
			return
		}
		if err := m.redis.Set(context.WithoutCancel(ctx), cacheKey, data, idempotencyTTL).Err(); err != nil {
			log.Printf("idempotency store failed for %s: %v", idempotencyKey, err)
		}
	})
}

func (m *IdempotencyMiddleware) getCachedResponse(ctx context.Context, key string) (*cachedResponse, error) {
	data, err := m.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var cached cachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}

	return &cached, nil
}

func hashRequest(method, path, auth string, body []byte) string {
	h := sha256.New()
	for _, part := range [][]byte{[]byte(method), []byte(path), []byte(auth), body} {
		h.Write(part)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
