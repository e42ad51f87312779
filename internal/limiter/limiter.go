/*
Package limiter throttles requests per client IP with token buckets.

Buckets of idle clients expire from a TTL cache, so memory stays bounded
without a cleanup goroutine.
*/
package limiter

import (
	"context"
	"net"
	"net/http"
	"time"

	"catalyst/internal/logx"

	"github.com/c-pro/geche"
	"golang.org/x/time/rate"
)

type IPRateLimiter struct {
	limits *geche.Locker[string, *rate.Limiter]
	r      rate.Limit
	b      int
}

// NewIPRateLimiter allows r events per second with bursts of b per IP.
// A bucket is forgotten once its IP has been quiet for idle.
func NewIPRateLimiter(ctx context.Context, r rate.Limit, b int, idle time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		limits: geche.NewLocker[string, *rate.Limiter](geche.NewMapTTLCache[string, *rate.Limiter](ctx, idle, time.Minute)),
		r:      r,
		b:      b,
	}
}

// GetLimiter returns the bucket of ip, creating it on first use.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	tx := i.limits.Lock()
	defer tx.Unlock()

	limiter, err := tx.Get(ip)
	if err != nil {
		limiter = rate.NewLimiter(i.r, i.b)
	}
	// Setting again refreshes the TTL.
	tx.Set(ip, limiter)
	return limiter
}

func (i *IPRateLimiter) Allow(ip string) bool {
	return i.GetLimiter(ip).Allow()
}

// Middleware answers 429 once the caller's bucket is empty.
// It keys on RemoteAddr, which carries a forwarded address only when the
// router trusts its proxy.
func (i *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if ip == "" {
			ip = "unknown_ip"
		}

		if !i.Allow(ip) {
			logx.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
			http.Error(w, "Too many attempts, please wait a moment", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
