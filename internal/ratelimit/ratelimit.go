// Package ratelimit throttles public endpoints per client.
package ratelimit

import (
	"context"
	"net/http"

	"github.com/clubhub/clubhub/httpx"
	"github.com/clubhub/clubhub/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/hlog"
)

// Limiter decides whether one more request for key is allowed now.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Unlimited allows everything.
type Unlimited struct{}

func (Unlimited) Allow(context.Context, string) (bool, error) { return true, nil }

// New builds a limiter named name allowing perMinute requests per key
// on the backend selected by cfg.
func New(cfg config.RateLimitConfig, client *redis.Client, name string, perMinute int) Limiter {
	if perMinute <= 0 {
		return Unlimited{}
	}
	switch cfg.Backend {
	case "redis":
		return NewRedis(client, name, perMinute)
	case "off":
		return Unlimited{}
	default:
		return NewMemory(perMinute)
	}
}

// Middleware rejects requests over the limit with 429, keyed by the client
// address res resolves. Limiter failures are logged and let the request through.
func Middleware(l Limiter, res *IPResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := l.Allow(r.Context(), res.ClientIP(r))
			if err != nil {
				hlog.FromRequest(r).Warn().Err(err).Msg("rate limiter unavailable")
				ok = true
			}
			if !ok {
				httpx.JSONError(w, http.StatusTooManyRequests, "rate limit exceeded", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
