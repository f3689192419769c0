package middlewares

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"unilance/utils"
)

const (
	rateLimitWindow   = time.Minute
	limiterSweepLimit = 10000
)

type windowCounter struct {
	count       int
	windowStart time.Time
}

// memoryLimiter is the single-process fallback used when Redis is not
// configured. Fixed window per key, swept lazily once the map grows.
type memoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*windowCounter
}

func newMemoryLimiter() *memoryLimiter {
	return &memoryLimiter{entries: make(map[string]*windowCounter)}
}

func (m *memoryLimiter) hit(key string, now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) > limiterSweepLimit {
		for k, e := range m.entries {
			if now.Sub(e.windowStart) >= rateLimitWindow {
				delete(m.entries, k)
			}
		}
	}

	e, ok := m.entries[key]
	if !ok || now.Sub(e.windowStart) >= rateLimitWindow {
		m.entries[key] = &windowCounter{count: 1, windowStart: now}
		return 1
	}
	e.count++
	return e.count
}

// RateLimit applies a fixed per-minute window per client IP and route class.
// Redis keeps the counters shared across replicas when configured; a limiter
// backend failure lets the request through.
func (s *Service) RateLimit(class string, perMinute int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if perMinute <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)
			now := time.Now()

			var count int64
			if s.redis != nil {
				key := fmt.Sprintf("ratelimit:%s:%s:%d", class, ip, now.Unix()/int64(rateLimitWindow.Seconds()))
				n, err := s.redis.IncrWindow(r.Context(), key, rateLimitWindow)
				if err != nil {
					s.logger.Warn("rate limiter backend error", zap.Error(err))
					next.ServeHTTP(w, r)
					return
				}
				count = n
			} else {
				count = int64(s.limiter.hit(class+":"+ip, now))
			}

			if count > int64(perMinute) {
				w.Header().Set("Retry-After", strconv.Itoa(int(rateLimitWindow.Seconds())))
				utils.RespondError(w, http.StatusTooManyRequests, nil, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
