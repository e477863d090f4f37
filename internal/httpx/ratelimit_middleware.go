package httpx

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const bucketIdleTTL = 5 * time.Minute

type bucket struct {
	*rate.Limiter
	touched time.Time
}

// RateLimitMiddleware throttles /v1 traffic per client address.
type RateLimitMiddleware struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewRateLimitMiddleware keeps one token bucket per client. Idle buckets are
// evicted until ctx is done.
func NewRateLimitMiddleware(ctx context.Context, rps float64, burst int) *RateLimitMiddleware {
	rl := &RateLimitMiddleware{
		limit:   rate.Limit(rps),
		burst:   burst,
		buckets: map[string]*bucket{},
	}
	go rl.evictLoop(ctx)
	return rl
}

func (rl *RateLimitMiddleware) evictLoop(ctx context.Context) {
	t := time.NewTicker(bucketIdleTTL)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			rl.evictIdle(now)
		}
	}
}

func (rl *RateLimitMiddleware) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, b := range rl.buckets {
		if now.Sub(b.touched) > bucketIdleTTL {
			delete(rl.buckets, key)
		}
	}
}

func (rl *RateLimitMiddleware) bucketFor(key string) *bucket {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{Limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.touched = time.Now()
	return b
}

func (rl *RateLimitMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := rl.bucketFor(clientKey(r)).Reserve()
		if wait := res.Delay(); wait > 0 {
			res.Cancel()
			w.Header().Set("Retry-After", retryAfter(wait))
			JSONError(w, r, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many requests", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// retryAfter rounds wait up to whole seconds, capped at a minute.
func retryAfter(wait time.Duration) string {
	secs := int64(wait/time.Second) + 1
	if wait == rate.InfDuration || secs > 60 {
		secs = 60
	}
	return strconv.FormatInt(secs, 10)
}
