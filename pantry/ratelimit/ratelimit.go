// ratelimit/ratelimit.go
package ratelimit

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// KeyLimiter hands out one token bucket per key (normally a client IP).
// Buckets unused for longer than ttl are dropped by Sweep.
type KeyLimiter struct {
	mu      sync.Mutex
	every   rate.Limit
	burst   int
	ttl     time.Duration
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewKeyLimiter allows perMinute requests per key with the given burst.
func NewKeyLimiter(perMinute, burst int, ttl time.Duration) *KeyLimiter {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &KeyLimiter{
		every:   rate.Every(time.Minute / time.Duration(max(perMinute, 1))),
		burst:   max(burst, 1),
		ttl:     ttl,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow consumes a token for key if one is available.
func (kl *KeyLimiter) Allow(key string) bool {
	kl.mu.Lock()
	b, ok := kl.buckets[key]
	now := kl.now()
	if !ok {
		b = &bucket{lim: rate.NewLimiter(kl.every, kl.burst)}
		kl.buckets[key] = b
	}
	b.lastSeen = now
	kl.mu.Unlock()

	return b.lim.AllowN(now, 1)
}

// Sweep forgets keys idle for longer than ttl and reports how many remain.
func (kl *KeyLimiter) Sweep() int {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	cutoff := kl.now().Add(-kl.ttl)
	for k, b := range kl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(kl.buckets, k)
		}
	}
	return len(kl.buckets)
}

// RunSweeper calls Sweep every ttl until stop is closed.
func (kl *KeyLimiter) RunSweeper(stop <-chan struct{}) {
	t := time.NewTicker(kl.ttl)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			kl.Sweep()
		}
	}
}

// ClientIP is r.RemoteAddr without the port. chi's RealIP middleware has
// already rewritten RemoteAddr from X-Forwarded-For / X-Real-IP.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// Middleware rejects requests over the limit. onLimited writes the
// response; nil gives a plain 429.
func Middleware(kl *KeyLimiter, onLimited http.HandlerFunc) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(max(int(math.Ceil(1/float64(kl.every))), 1))
	if onLimited == nil {
		onLimited = func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Too many requests, please try again shortly.", http.StatusTooManyRequests)
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !kl.Allow(ClientIP(r)) {
				w.Header().Set("Retry-After", retryAfter)
				onLimited(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
