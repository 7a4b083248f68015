package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := rl.Middleware(next)

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/calculate", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:5000"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:5001"), "same host, new port")
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2:5000"), "other clients keep their own bucket")
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	req.RemoteAddr = "192.0.2.7:41234"
	assert.Equal(t, "192.0.2.7", clientIP(req))

	req.RemoteAddr = "192.0.2.7"
	assert.Equal(t, "192.0.2.7", clientIP(req))
}

func TestRateLimiter_DropsIdleClients(t *testing.T) {
	// GIVEN: two clients that used the limiter
	// WHEN: one of them stays idle past the idle window
	// THEN: its bucket is dropped and it starts with a full burst again
	now := time.Date(2025, time.December, 25, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(0.001, 1)
	rl.Idle = time.Minute
	rl.now = func() time.Time { return now }

	assert.True(t, rl.limiterFor("10.0.0.1").Allow())
	assert.True(t, rl.limiterFor("10.0.0.2").Allow())
	assert.Equal(t, 2, rl.Clients())

	now = now.Add(30 * time.Second)
	assert.False(t, rl.limiterFor("10.0.0.2").Allow(), "still inside the window")

	now = now.Add(45 * time.Second)
	assert.True(t, rl.limiterFor("10.0.0.3").Allow())
	assert.Equal(t, 2, rl.Clients(), "10.0.0.1 was idle for 75s")

	assert.True(t, rl.limiterFor("10.0.0.1").Allow(), "fresh bucket after eviction")
}
