package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RealIP prefers X-Real-IP, then the first X-Forwarded-For hop, then RemoteAddr.
func RealIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return strings.TrimSpace(ip)
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i > 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type window struct {
	count   int
	resetAt time.Time
}

// RateLimiter counts requests per key in fixed windows.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow reports whether key is still under limit in the current window, and
// how long until the window resets.
func (rl *RateLimiter) Allow(key string, limit int, period time.Duration) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	if !ok || !now.Before(w.resetAt) {
		rl.windows[key] = &window{count: 1, resetAt: now.Add(period)}
		return true, period
	}
	w.count++
	return w.count <= limit, w.resetAt.Sub(now)
}

// Cleanup drops expired windows. main runs it on a ticker.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, w := range rl.windows {
		if !now.Before(w.resetAt) {
			delete(rl.windows, key)
		}
	}
}

// RateLimit rejects requests over limit per key with 429 and Retry-After.
func RateLimit(limiter *RateLimiter, keyFunc func(*http.Request) string, limit int, period time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, retry := limiter.Allow(keyFunc(r), limit, period)
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(retry.Round(time.Second).Seconds())))
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
