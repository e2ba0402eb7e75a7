package httpapi

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/tennis-league/internal/usecase"
	"golang.org/x/time/rate"
)

const (
	rateLimiterIdleTTL       = 10 * time.Minute
	rateLimiterPruneInterval = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client address.
type IPRateLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	clock     clockwork.Clock
	visitors  map[string]*visitor
	lastPrune time.Time
}

func NewIPRateLimiter(perSecond float64, burst int, clock clockwork.Clock) *IPRateLimiter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if burst <= 0 {
		burst = 1
	}

	return &IPRateLimiter{
		limit:     rate.Limit(perSecond),
		burst:     burst,
		clock:     clock,
		visitors:  make(map[string]*visitor),
		lastPrune: clock.Now(),
	}
}

func (l *IPRateLimiter) Allow(key string) bool {
	if l == nil || l.limit <= 0 {
		return true
	}

	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastPrune) >= rateLimiterPruneInterval {
		l.pruneLocked(now)
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (l *IPRateLimiter) pruneLocked(now time.Time) {
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > rateLimiterIdleTTL {
			delete(l.visitors, key)
		}
	}
	l.lastPrune = now
}

func (l *IPRateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

func RateLimit(limiter *IPRateLimiter, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.RateLimit")
		defer span.End()

		ip := clientIP(r)
		if !limiter.Allow(ip) {
			writeError(ctx, w, fmt.Errorf("%w: too many requests from %s", usecase.ErrRateLimited, ip))
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
