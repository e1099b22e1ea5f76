package http

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"shortlink/pkg/problemdetails"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

const (
	visitorSweepInterval = 10 * time.Minute
	visitorIdleTTL       = time.Hour
)

type visitor struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-client token bucket keyed on the client IP. The
// bucket holds a minute's worth of requests and refills evenly.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	every    rate.Limit
	perMin   int

	done     chan struct{}
	doneOnce sync.Once
}

// NewRateLimiter starts a limiter allowing requestsPerMinute per client.
// A non-positive limit disables limiting. Call Stop to end its
// idle-visitor sweep.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		perMin:   requestsPerMinute,
		done:     make(chan struct{}),
	}
	if requestsPerMinute <= 0 {
		rl.Stop()
		return rl
	}
	rl.every = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	go rl.sweepLoop()
	return rl
}

func (rl *RateLimiter) bucketFor(ip string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{bucket: rate.NewLimiter(rl.every, rl.perMin)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.bucket
}

// Middleware rejects requests over the limit with a 429 problem response.
// It expects chi's RealIP to have run.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	if rl.perMin <= 0 {
		return next
	}
	limit := strconv.Itoa(rl.perMin)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		bucket := rl.bucketFor(clientIP(r), now)
		h := w.Header()
		h.Set("X-RateLimit-Limit", limit)

		if !bucket.AllowN(now, 1) {
			h.Set("X-RateLimit-Remaining", "0")
			h.Set("X-RateLimit-Reset", strconv.FormatInt(now.Add(time.Minute).Unix(), 10))
			h.Set("Retry-After", "60")
			writeProblem(w, problemdetails.New(
				http.StatusTooManyRequests,
				problemdetails.TypeRateLimitExceeded,
				"Rate Limit Exceeded",
				"Request limit of "+limit+" per minute reached for this client.",
			))
			return
		}

		h.Set("X-RateLimit-Remaining", strconv.Itoa(int(bucket.TokensAt(now))))
		next.ServeHTTP(w, r)
	})
}

// Stop ends the sweep goroutine. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.doneOnce.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(visitorSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case now := <-ticker.C:
			rl.forgetIdle(now)
		}
	}
}

func (rl *RateLimiter) forgetIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorIdleTTL {
			delete(rl.visitors, ip)
		}
	}
}

// LoggerMiddleware writes one access log line per request. Server errors
// are logged at error level.
func LoggerMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				level := zapcore.InfoLevel
				if ww.Status() >= http.StatusInternalServerError {
					level = zapcore.ErrorLevel
				}
				logger.Log(level, "http request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("client_ip", clientIP(r)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
