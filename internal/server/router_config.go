package server

import (
	"fmt"

	"github.com/clubhub/clubhub/auth"
	"github.com/clubhub/clubhub/internal/botcheck"
	"github.com/clubhub/clubhub/internal/config"
	"github.com/clubhub/clubhub/internal/db"
	"github.com/clubhub/clubhub/internal/handlers"
	"github.com/clubhub/clubhub/internal/media"
	"github.com/clubhub/clubhub/internal/obs"
	"github.com/clubhub/clubhub/internal/policy"
	"github.com/clubhub/clubhub/internal/ratelimit"
	"github.com/clubhub/clubhub/internal/services"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Deps are the collaborators the router is built from.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Log      zerolog.Logger
	Media    media.Store
	BotCheck botcheck.Verifier

	LoginLimiter ratelimit.Limiter
	ApplyLimiter ratelimit.Limiter

	// Metrics is optional; nil disables instrumentation and /metrics.
	Metrics *obs.Metrics
}

// RouterConfig holds the configured handlers and guards.
type RouterConfig struct {
	AuthGate *policy.AuthGate
	Auth     *auth.Middleware
	Codec    *auth.Codec
	ClientIP *ratelimit.IPResolver

	AuthHandler        *handlers.AuthHandler
	ClubHandler        *handlers.ClubHandler
	PostHandler        *handlers.PostHandler
	EventHandler       *handlers.EventHandler
	ApplicationHandler *handlers.ApplicationHandler
	HealthHandler      *handlers.HealthHandler
}

// NewRouterConfig wires the credential codec, the ownership gate and the
// handlers together.
func NewRouterConfig(d Deps) (*RouterConfig, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}

	ips, err := ratelimit.NewIPResolver(d.Config.Server.TrustedProxies)
	if err != nil {
		return nil, err
	}

	codec := auth.NewCodec(d.Config.JWTSecret(), auth.DefaultTokenTTL)
	authSvc := services.NewAuthService(d.DB, codec)
	clubSvc := services.NewClubService(d.DB)
	authGate := policy.NewAuthGate(policy.Options{EventAdminOverride: d.Config.Auth.EventAdminOverride})

	return &RouterConfig{
		AuthGate: authGate,
		Auth:     auth.NewMiddleware(codec, authSvc.AccountExists),
		Codec:    codec,
		ClientIP: ips,

		AuthHandler:        handlers.NewAuthHandler(authSvc),
		ClubHandler:        handlers.NewClubHandler(d.DB, clubSvc, authGate, d.Media),
		PostHandler:        handlers.NewPostHandler(d.DB, authGate, d.Media),
		EventHandler:       handlers.NewEventHandler(d.DB, authGate),
		ApplicationHandler: handlers.NewApplicationHandler(d.DB, authGate, d.BotCheck, ips),
		HealthHandler:      handlers.NewHealthHandler(db.ReadyProbe{DB: sqlDB}),
	}, nil
}
