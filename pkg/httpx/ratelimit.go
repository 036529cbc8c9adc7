package httpx

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/aussiebroadwan/easemob/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines the rate limiting parameters.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window
	RequestsPerWindow int
	// Window is the time window for rate limiting
	Window time.Duration
	// Burst allows for temporary bursts above the rate limit
	Burst int
}

// Enabled reports whether the config describes an actual limit.
func (c RateLimitConfig) Enabled() bool {
	return c.RequestsPerWindow > 0 && c.Window > 0
}

func (c RateLimitConfig) limit() rate.Limit {
	return rate.Limit(float64(c.RequestsPerWindow) / c.Window.Seconds())
}

// Disabled is the zero config; the limiter middleware is a no-op for it.
var Disabled = RateLimitConfig{}

// ParseRateLimitFromEnv reads rate limit configuration from environment variables.
// Environment variables follow the pattern: RATELIMIT_{prefix}_{field}
// For example: RATELIMIT_EASEMOB_REQUESTS, RATELIMIT_EASEMOB_WINDOW_SEC, RATELIMIT_EASEMOB_BURST
func ParseRateLimitFromEnv(prefix string, defaultConfig RateLimitConfig) RateLimitConfig {
	config := defaultConfig

	if val := os.Getenv("RATELIMIT_" + prefix + "_REQUESTS"); val != "" {
		if requests, err := strconv.Atoi(val); err == nil && requests > 0 {
			config.RequestsPerWindow = requests
		}
	}

	if val := os.Getenv("RATELIMIT_" + prefix + "_WINDOW_SEC"); val != "" {
		if windowSec, err := strconv.Atoi(val); err == nil && windowSec > 0 {
			config.Window = time.Duration(windowSec) * time.Second
		}
	}

	if val := os.Getenv("RATELIMIT_" + prefix + "_BURST"); val != "" {
		if burst, err := strconv.Atoi(val); err == nil && burst > 0 {
			config.Burst = burst
		}
	}

	// A window without a burst would never admit a request.
	if config.Enabled() && config.Burst <= 0 {
		config.Burst = 1
	}

	return config
}

// KeyExtractor groups outbound requests for rate limiting purposes.
type KeyExtractor func(*http.Request) string

// HostKeyExtractor limits each upstream host independently.
func HostKeyExtractor(r *http.Request) string {
	if r.URL == nil {
		return ""
	}
	return r.URL.Host
}

// GlobalKeyExtractor shares one bucket between every request.
func GlobalKeyExtractor(*http.Request) string { return "*" }

// rateLimiter manages rate limiters for different keys
type rateLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int

	mu          sync.Mutex
	lastCleanup time.Time
}

func (rl *rateLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := rl.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(rl.rate, rl.burst)
	actual, _ := rl.limiters.LoadOrStore(key, limiter)

	rl.maybeCleanup()

	return actual.(*rate.Limiter)
}

// maybeCleanup drops limiters whose bucket is full, i.e. idle keys.
func (rl *rateLimiter) maybeCleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if time.Since(rl.lastCleanup) < 5*time.Minute {
		return
	}
	rl.lastCleanup = time.Now()

	rl.limiters.Range(func(key, value any) bool {
		limiter := value.(*rate.Limiter)
		if limiter.Tokens() >= float64(rl.burst) {
			rl.limiters.Delete(key)
		}
		return true
	})
}

// RateLimitMiddleware delays outbound requests so that each key stays
// within config. Requests block until a token is available or the request
// context is done; nothing is ever rejected locally except on cancellation.
// A disabled config yields a pass-through middleware.
func RateLimitMiddleware(config RateLimitConfig, keyExtractor KeyExtractor) Middleware {
	if !config.Enabled() {
		return func(next http.RoundTripper) http.RoundTripper { return next }
	}
	if keyExtractor == nil {
		keyExtractor = GlobalKeyExtractor
	}

	rl := &rateLimiter{
		rate:        config.limit(),
		burst:       max(config.Burst, 1),
		lastCleanup: time.Now(),
	}

	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			ctx := r.Context()
			key := keyExtractor(r)
			if key == "" {
				slogx.FromContext(ctx).Warn("rate limit: unable to extract key, allowing request")
				return next.RoundTrip(r)
			}

			limiter := rl.getLimiter(key)
			if !limiter.Allow() {
				start := time.Now()
				if err := limiter.Wait(ctx); err != nil {
					return nil, fmt.Errorf("rate limit wait: %w", err)
				}
				slogx.FromContext(ctx).Debug("rate limit: request delayed",
					"key", key,
					"waited_ms", time.Since(start).Milliseconds(),
				)
			}

			return next.RoundTrip(r)
		})
	}
}

// RateLimitByHost is RateLimitMiddleware keyed on the upstream host.
func RateLimitByHost(config RateLimitConfig) Middleware {
	return RateLimitMiddleware(config, HostKeyExtractor)
}
