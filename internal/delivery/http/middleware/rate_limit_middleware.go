package middleware

import (
	"net"
	"net/http"
	"time"

	"medilink-api/config"
	"medilink-api/pkg/response"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP. Idle buckets expire.
type RateLimiter struct {
	limiters *cache.Cache
	limit    rate.Limit
	burst    int
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		limiters: cache.New(10*time.Minute, 20*time.Minute),
		limit:    rate.Limit(cfg.RPS),
		burst:    cfg.Burst,
	}
}

func (l *RateLimiter) limiterFor(ip string) *rate.Limiter {
	if v, found := l.limiters.Get(ip); found {
		return v.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(l.limit, l.burst)
	if err := l.limiters.Add(ip, limiter, cache.DefaultExpiration); err != nil {
		// Another request created it first
		if v, found := l.limiters.Get(ip); found {
			return v.(*rate.Limiter)
		}
	}
	return limiter
}

func (l *RateLimiter) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !l.limiterFor(ip).Allow() {
			response.Error(w, http.StatusTooManyRequests, "Too many requests", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
