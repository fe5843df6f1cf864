package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/agentstation/stargazer/internal/server/response"
	"github.com/agentstation/stargazer/pkg/constants"
)

// RateLimiter implements fixed-window rate limiting per client IP. Idle
// visitors expire from the store on their own.
type RateLimiter struct {
	visitors *gocache.Cache
	limit    int           // requests per window
	window   time.Duration // window length
	now      func() time.Time
	logger   *zerolog.Logger
}

// visitor tracks rate limit state for a single IP.
type visitor struct {
	mu        sync.Mutex
	tokens    int
	lastReset time.Time
}

// NewRateLimiter creates a new rate limiter.
// limit is requests per minute per IP.
func NewRateLimiter(limit int, logger *zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		visitors: gocache.New(constants.RateLimitVisitorTTL, constants.RateLimitCleanupInterval),
		limit:    limit,
		window:   constants.RateLimitWindow,
		now:      time.Now,
		logger:   logger,
	}
}

// getVisitor returns or creates a visitor for the IP and refreshes its TTL.
func (rl *RateLimiter) getVisitor(ip string) *visitor {
	if v, found := rl.visitors.Get(ip); found {
		rl.visitors.SetDefault(ip, v)
		return v.(*visitor)
	}

	v := &visitor{tokens: rl.limit, lastReset: rl.now()}
	if err := rl.visitors.Add(ip, v, gocache.DefaultExpiration); err != nil {
		// Another request created the visitor first
		if existing, found := rl.visitors.Get(ip); found {
			return existing.(*visitor)
		}
	}
	return v
}

// Allow reports whether a request from ip is within its budget.
func (rl *RateLimiter) Allow(ip string) bool {
	v := rl.getVisitor(ip)

	v.mu.Lock()
	defer v.mu.Unlock()

	now := rl.now()
	if now.Sub(v.lastReset) >= rl.window {
		v.tokens = rl.limit
		v.lastReset = now
	}

	if v.tokens > 0 {
		v.tokens--
		return true
	}
	return false
}

// Visitors returns the number of tracked client IPs.
func (rl *RateLimiter) Visitors() int {
	return rl.visitors.ItemCount()
}

// RateLimit middleware limits requests per IP address.
func RateLimit(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			if !rl.Allow(ip) {
				rl.logger.Warn().
					Str("ip", ip).
					Str("path", r.URL.Path).
					Msg("Rate limit exceeded")

				w.Header().Set("Retry-After", "60")
				response.RateLimited(w, "Too many requests. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the first X-Forwarded-For hop, or the remote address
// without its port.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
