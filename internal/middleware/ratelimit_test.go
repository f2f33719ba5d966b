package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func rateLimitedRouter(rl *RateLimiter) http.Handler {
	r := chi.NewRouter()
	r.Use(rl.Handler)
	r.Post("/v1/bookings/{id}/advance", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func send(h http.Handler, method, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = ip + ":40000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiterRejectsOverLimit(t *testing.T) {
	_, client := newTestRedis(t)
	h := rateLimitedRouter(NewRateLimiter(client, 2, time.Minute))

	tests := []struct {
		name      string
		want      int
		remaining string
	}{
		{"first", http.StatusOK, "1"},
		{"second", http.StatusOK, "0"},
		{"third", http.StatusTooManyRequests, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := send(h, http.MethodPost, "/v1/bookings/b-1/advance", "10.0.0.7")
			require.Equal(t, tt.want, rec.Code)
			require.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
			require.Equal(t, tt.remaining, rec.Header().Get("X-RateLimit-Remaining"))
		})
	}

	rec := send(h, http.MethodPost, "/v1/bookings/b-1/advance", "10.0.0.7")
	require.Equal(t, "60", rec.Header().Get("Retry-After"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "rate_limit_exceeded", body["error"])
}

func TestRateLimiterSharesBudgetAcrossIDs(t *testing.T) {
	_, client := newTestRedis(t)
	h := rateLimitedRouter(NewRateLimiter(client, 1, time.Minute))

	require.Equal(t, http.StatusOK, send(h, http.MethodPost, "/v1/bookings/a/advance", "10.0.0.7").Code)
	require.Equal(t, http.StatusTooManyRequests, send(h, http.MethodPost, "/v1/bookings/b/advance", "10.0.0.7").Code)

	// Another client keeps its own budget.
	require.Equal(t, http.StatusOK, send(h, http.MethodPost, "/v1/bookings/b/advance", "10.0.0.8").Code)
}

func TestRateLimiterWindowExpires(t *testing.T) {
	mr, client := newTestRedis(t)
	h := rateLimitedRouter(NewRateLimiter(client, 1, time.Minute))

	require.Equal(t, http.StatusOK, send(h, http.MethodPost, "/v1/bookings/a/advance", "10.0.0.7").Code)
	require.Equal(t, http.StatusTooManyRequests, send(h, http.MethodPost, "/v1/bookings/a/advance", "10.0.0.7").Code)

	mr.FastForward(time.Minute + time.Second)
	require.Equal(t, http.StatusOK, send(h, http.MethodPost, "/v1/bookings/a/advance", "10.0.0.7").Code)
}

func TestRateLimiterFailsOpen(t *testing.T) {
	mr, client := newTestRedis(t)
	h := rateLimitedRouter(NewRateLimiter(client, 1, time.Minute))
	mr.SetError("ERR redis unavailable")

	for i := 0; i < 3; i++ {
		rec := send(h, http.MethodPost, "/v1/bookings/a/advance", "10.0.0.7")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}
