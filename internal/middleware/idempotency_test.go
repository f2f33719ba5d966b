package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// countingHandler answers with status and numbers each call it serves.
func countingHandler(calls *int32, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"call":%d}`, n)
	})
}

func sendKeyed(h http.Handler, method, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/v1/bookings", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer t")
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIdempotencyReplaysSuccess(t *testing.T) {
	_, client := newTestRedis(t)
	var calls int32
	h := NewIdempotencyMiddleware(client).Handler(countingHandler(&calls, http.StatusCreated))

	first := sendKeyed(h, http.MethodPost, "key-1", `{"workerId":"w-1"}`)
	require.Equal(t, http.StatusCreated, first.Code)
	require.Empty(t, first.Header().Get("Idempotent-Replayed"))

	again := sendKeyed(h, http.MethodPost, "key-1", `{"workerId":"w-1"}`)
	require.Equal(t, http.StatusCreated, again.Code)
	require.Equal(t, "true", again.Header().Get("Idempotent-Replayed"))
	require.Equal(t, "application/json", again.Header().Get("Content-Type"))
	require.JSONEq(t, first.Body.String(), again.Body.String())
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestIdempotencyRequests(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		setup     func(t *testing.T, h http.Handler)
		method    string
		key       string
		body      string
		want      int
		wantError string
		wantCalls int32
	}{
		{
			name:   "same key different body",
			status: http.StatusCreated,
			setup: func(t *testing.T, h http.Handler) {
				require.Equal(t, http.StatusCreated, sendKeyed(h, http.MethodPost, "key-1", `{"workerId":"w-1"}`).Code)
			},
			method: http.MethodPost, key: "key-1", body: `{"workerId":"w-2"}`,
			want: http.StatusConflict, wantError: "conflict", wantCalls: 1,
		},
		{
			name:   "failures are not cached",
			status: http.StatusBadRequest,
			setup: func(t *testing.T, h http.Handler) {
				require.Equal(t, http.StatusBadRequest, sendKeyed(h, http.MethodPost, "key-1", `{}`).Code)
			},
			method: http.MethodPost, key: "key-1", body: `{}`,
			want: http.StatusBadRequest, wantCalls: 2,
		},
		{
			name:   "no key",
			status: http.StatusCreated,
			setup: func(t *testing.T, h http.Handler) {
				sendKeyed(h, http.MethodPost, "", `{"workerId":"w-1"}`)
			},
			method: http.MethodPost, key: "", body: `{"workerId":"w-1"}`,
			want: http.StatusCreated, wantCalls: 2,
		},
		{
			name:   "reads pass through",
			status: http.StatusOK,
			setup: func(t *testing.T, h http.Handler) {
				sendKeyed(h, http.MethodGet, "key-1", "")
			},
			method: http.MethodGet, key: "key-1", body: "",
			want: http.StatusOK, wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := newTestRedis(t)
			var calls int32
			h := NewIdempotencyMiddleware(client).Handler(countingHandler(&calls, tt.status))

			tt.setup(t, h)
			rec := sendKeyed(h, tt.method, tt.key, tt.body)

			require.Equal(t, tt.want, rec.Code)
			require.Empty(t, rec.Header().Get("Idempotent-Replayed"))
			require.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
			if tt.wantError != "" {
				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				require.Equal(t, tt.wantError, body["error"])
			}
		})
	}
}

func TestIdempotencyInFlightKey(t *testing.T) {
	mr, client := newTestRedis(t)
	var calls int32
	h := NewIdempotencyMiddleware(client).Handler(countingHandler(&calls, http.StatusCreated))

	require.NoError(t, mr.Set(idempotencyPrefix+"key-1:lock", "1"))

	rec := sendKeyed(h, http.MethodPost, "key-1", `{"workerId":"w-1"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Zero(t, atomic.LoadInt32(&calls))

	mr.Del(idempotencyPrefix + "key-1:lock")
	rec = sendKeyed(h, http.MethodPost, "key-1", `{"workerId":"w-1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.False(t, mr.Exists(idempotencyPrefix+"key-1:lock"))
}

// failingSets makes every SET fail while reads keep working.
type failingSets struct{}

func (failingSets) DialHook(next redis.DialHook) redis.DialHook { return next }

func (failingSets) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() == "set" {
			err := errors.New("set unavailable")
			cmd.SetErr(err)
			return err
		}
		return next(ctx, cmd)
	}
}

func (failingSets) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

var _ redis.Hook = failingSets{}

func TestIdempotencyLockFailureLetsRequestThrough(t *testing.T) {
	_, client := newTestRedis(t)
	client.AddHook(failingSets{})
	var calls int32
	h := NewIdempotencyMiddleware(client).Handler(countingHandler(&calls, http.StatusCreated))

	for i := 1; i <= 2; i++ {
		rec := sendKeyed(h, http.MethodPost, "key-1", `{"workerId":"w-1"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		require.EqualValues(t, i, atomic.LoadInt32(&calls))
	}
}

func TestIdempotencyLookupFailureLetsRequestThrough(t *testing.T) {
	mr, client := newTestRedis(t)
	mr.SetError("ERR redis unavailable")
	var calls int32
	h := NewIdempotencyMiddleware(client).Handler(countingHandler(&calls, http.StatusCreated))

	rec := sendKeyed(h, http.MethodPost, "key-1", `{"workerId":"w-1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}
