package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/AnshRaj112/mindcare-backend/pkg/clientip"
	"github.com/AnshRaj112/mindcare-backend/pkg/utils"
)

const (
	headerXContentTypeOptions     = "X-Content-Type-Options"
	headerXFrameOptions           = "X-Frame-Options"
	headerXXSSProtection          = "X-XSS-Protection"
	headerContentSecurityPolicy   = "Content-Security-Policy"
	headerStrictTransportSecurity = "Strict-Transport-Security"
)

// SecurityHeaders sets security-related response headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(headerXContentTypeOptions, "nosniff")
		w.Header().Set(headerXFrameOptions, "DENY")
		w.Header().Set(headerXXSSProtection, "1; mode=block")
		w.Header().Set(headerContentSecurityPolicy, "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set(headerStrictTransportSecurity, "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// HostCheck returns 403 when r.Host does not match allowedHost. An empty
// allowedHost disables the check.
func HostCheck(allowedHost string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowedHost == "" {
				next.ServeHTTP(w, r)
				return
			}
			reqHost := r.Host
			if host, _, err := net.SplitHostPort(reqHost); err == nil {
				reqHost = host
			}
			if !strings.EqualFold(strings.TrimSpace(reqHost), strings.TrimSpace(allowedHost)) {
				utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

const (
	globalRateLimitRPS   = 5
	globalRateLimitBurst = 20

	loginRateLimitEvery = 5 * time.Second
	loginRateLimitBurst = 3

	limiterCleanupInterval = 5 * time.Minute
	limiterTTL             = 30 * time.Minute
)

// loginPaths get the stricter per-IP limit on top of the global one.
var loginPaths = map[string]bool{
	"/api/auth/login":    true,
	"/api/auth/register": true,
}

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

// ipLimiters hands out one token bucket per client IP and forgets idle ones.
type ipLimiters struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	limit   rate.Limit
	burst   int
	once    sync.Once
}

func newIPLimiters(limit rate.Limit, burst int) *ipLimiters {
	return &ipLimiters{
		entries: make(map[string]*limiterEntry),
		limit:   limit,
		burst:   burst,
	}
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.once.Do(l.startCleanup)

	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[ip] = e
	}
	e.lastUse = time.Now()
	return e.limiter
}

func (l *ipLimiters) startCleanup() {
	go func() {
		ticker := time.NewTicker(limiterCleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			l.sweep(time.Now())
		}
	}()
}

func (l *ipLimiters) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, e := range l.entries {
		if now.Sub(e.lastUse) > limiterTTL {
			delete(l.entries, ip)
		}
	}
}

// GlobalRateLimit limits each IP to globalRateLimitRPS with a small burst.
func GlobalRateLimit(ips clientip.Resolver) func(http.Handler) http.Handler {
	limiters := newIPLimiters(rate.Limit(globalRateLimitRPS), globalRateLimitBurst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiters.get(ips.ClientIP(r)).Allow() {
				utils.RespondWithError(w, http.StatusTooManyRequests, "Too many requests. Please slow down.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoginRateLimit applies a stricter limit to the login and register routes only.
// Use after GlobalRateLimit.
func LoginRateLimit(ips clientip.Resolver) func(http.Handler) http.Handler {
	limiters := newIPLimiters(rate.Every(loginRateLimitEvery), loginRateLimitBurst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !loginPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			if !limiters.get(ips.ClientIP(r)).Allow() {
				utils.RespondWithError(w, http.StatusTooManyRequests, "Too many login attempts. Please try again later.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ProductionSecurity returns middlewares for production: SecurityHeaders → HostCheck → GlobalRateLimit → LoginRateLimit.
func ProductionSecurity(allowedHost string, ips clientip.Resolver) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		SecurityHeaders,
		HostCheck(allowedHost),
		GlobalRateLimit(ips),
		LoginRateLimit(ips),
	}
}
