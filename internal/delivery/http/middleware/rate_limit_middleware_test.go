package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitMiddleware_PerClientBurst(t *testing.T) {
	rl := NewRateLimitMiddleware(0.001, 2)
	defer rl.Stop()

	h := rl.Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1000"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1002"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2:1000"))
}

func TestRateLimitMiddleware_EvictIdle(t *testing.T) {
	rl := NewRateLimitMiddleware(1, 1)
	defer rl.Stop()

	rl.get("10.0.0.1")
	assert.Equal(t, 0, rl.evictIdle(time.Now().Add(-time.Minute)))
	assert.Equal(t, 1, rl.evictIdle(time.Now().Add(time.Second)))
	assert.Empty(t, rl.clients)
}
