package server

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Limiter keeps one token bucket per client. Buckets of clients that go
// quiet for the idle TTL are evicted.
type Limiter struct {
	cache *ttlcache.Cache[string, *rate.Limiter]
	mu    sync.Mutex

	limit rate.Limit
	burst int
}

func NewLimiter(perSecond float64, burst int, idle time.Duration) *Limiter {
	if burst < 1 {
		burst = 1
	}
	if idle <= 0 {
		idle = 10 * time.Minute
	}
	cache := ttlcache.New[string, *rate.Limiter](
		ttlcache.WithTTL[string, *rate.Limiter](idle),
	)
	cache.OnEviction(func(ctx context.Context, er ttlcache.EvictionReason, i *ttlcache.Item[string, *rate.Limiter]) {
		if er == ttlcache.EvictionReasonExpired {
			logrus.WithField("client", i.Key()).Traceln("rate limiter evicted")
		}
	})

	// stopped by Close
	go cache.Start()

	return &Limiter{
		cache: cache,
		limit: rate.Limit(perSecond),
		burst: burst,
	}
}

// Allow takes a token from the client's bucket. Every call also pushes
// back the bucket's expiry.
func (l *Limiter) Allow(client string) bool {
	l.mu.Lock()
	var limiter *rate.Limiter
	item := l.cache.Get(client)
	if item != nil {
		limiter = item.Value()
	} else {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.cache.Set(client, limiter, ttlcache.DefaultTTL)
	}
	l.mu.Unlock()

	return limiter.Allow()
}

// Clients is the number of tracked buckets.
func (l *Limiter) Clients() int {
	return l.cache.Len()
}

func (l *Limiter) Close() {
	l.cache.Stop()
}

// Middleware rejects requests over the client's budget with 429.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientKey(r)
		if !l.Allow(client) {
			logrus.WithField("client", client).Warnln("rate limited")
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "too many requests, slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// r.RemoteAddr has already been rewritten by middleware.RealIP
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
