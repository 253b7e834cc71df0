package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clubhub/clubhub/internal/botcheck"
	"github.com/clubhub/clubhub/internal/db"
	"github.com/clubhub/clubhub/internal/media"
	"github.com/clubhub/clubhub/internal/obs"
	"github.com/clubhub/clubhub/internal/ratelimit"
	"github.com/clubhub/clubhub/internal/server"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type ServeCmd struct {
	Addr string `help:"Listen address, overrides PORT." placeholder:"HOST:PORT"`
}

func (s *ServeCmd) Run(ctx *Context) error {
	cfg, log := ctx.cfg, ctx.log
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	gdb, err := db.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	if err := db.Migrate(gdb, cfg, log); err != nil {
		return err
	}
	if cfg.App.Dev {
		if _, err := db.Seed(context.Background(), gdb, db.SeedOptions{}); err != nil {
			return err
		}
	}

	store, err := media.New(cfg.Media)
	if err != nil {
		return err
	}

	var rdb *redis.Client
	if cfg.RateLimit.Backend == "redis" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
		})
		defer rdb.Close()
	}

	deps := server.Deps{
		Config:       cfg,
		DB:           gdb,
		Log:          log,
		Media:        store,
		BotCheck:     botcheck.New(cfg.BotCheck, cfg.App.Dev),
		LoginLimiter: ratelimit.New(cfg.RateLimit, rdb, "login", cfg.RateLimit.LoginPerMinute),
		ApplyLimiter: ratelimit.New(cfg.RateLimit, rdb, "apply", cfg.RateLimit.ApplyPerMinute),
	}
	if cfg.Server.Metrics {
		deps.Metrics = obs.NewMetrics()
	}
	handler, err := server.New(deps)
	if err != nil {
		return err
	}

	addr := s.Addr
	if addr == "" {
		addr = ":" + cfg.Server.Port
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(sigCtx)

	g.Go(func() error {
		log.Info().Str("addr", addr).Bool("dev", cfg.App.Dev).Str("media", cfg.Media.Driver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
