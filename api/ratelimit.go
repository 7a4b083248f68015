package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultLimiterIdle is how long a client's bucket is kept after its last
// request.
const DefaultLimiterIdle = 10 * time.Minute

type clientLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per client IP. Buckets idle for
// longer than Idle are dropped, so the map is bounded by the clients seen
// within that window. Idle <= 0 keeps every bucket.
type RateLimiter struct {
	limit rate.Limit
	burst int

	Idle time.Duration
	now  func() time.Time

	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	lastSweep time.Time
}

// NewRateLimiter allows perSecond requests per client with the given burst.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		Idle:     DefaultLimiterIdle,
		now:      time.Now,
		limiters: make(map[string]*clientLimiter),
	}
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if rl.Idle > 0 && now.Sub(rl.lastSweep) >= rl.Idle {
		rl.sweep(now)
	}

	cl, ok := rl.limiters[ip]
	if !ok {
		cl = &clientLimiter{lim: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[ip] = cl
	}
	cl.lastSeen = now
	return cl.lim
}

// sweep drops idle buckets. Caller holds mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for ip, cl := range rl.limiters {
		if now.Sub(cl.lastSeen) >= rl.Idle {
			delete(rl.limiters, ip)
		}
	}
	rl.lastSweep = now
}

// Clients returns the number of buckets currently held.
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.limiterFor(clientIP(r)).Allow() {
			writeError(w, http.StatusTooManyRequests, "Too many requests", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
