package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/upb/hr-platform/utils"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	visitorCleanupInterval = time.Minute
	visitorTTL             = 3 * time.Minute
)

// visitor tracks the limiter and last seen time of one client IP
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter limits requests per client IP. Used in front of login to slow down
// password guessing.
type IPRateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	rps      rate.Limit
	burst    int
	logger   *zap.Logger
}

// NewIPRateLimiter creates a new per-IP rate limiter. Stale entries are evicted
// until ctx is cancelled.
func NewIPRateLimiter(ctx context.Context, rps float64, burst int, logger *zap.Logger) *IPRateLimiter {
	rl := &IPRateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		logger:   logger,
	}
	go rl.cleanupVisitors(ctx)
	return rl
}

// Allow reports whether a request from ip may proceed
func (rl *IPRateLimiter) Allow(ip string) bool {
	return rl.getVisitor(ip).Allow()
}

func (rl *IPRateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rps, rl.burst)
		rl.visitors[ip] = &visitor{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *IPRateLimiter) cleanupVisitors(ctx context.Context) {
	ticker := time.NewTicker(visitorCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				if time.Since(v.lastSeen) > visitorTTL {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Middleware rejects requests over the limit with 429
func (rl *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !rl.Allow(ip) {
			rl.logger.Warn("rate limit exceeded",
				zap.String("request_id", GetRequestIDFromContext(r.Context())),
				zap.String("client_ip", ip),
				zap.String("path", r.URL.Path))
			w.Header().Set("Retry-After", "1")
			_ = utils.WriteTooManyRequests(w, "Too many attempts, try again later", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from RemoteAddr. Forwarding headers only count when
// chi's RealIP ran earlier, which the router enables for trusted proxies.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = strings.TrimSuffix(strings.TrimPrefix(r.RemoteAddr, "["), "]")
	}
	return ip
}
