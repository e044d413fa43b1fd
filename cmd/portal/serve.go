package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"authorportal/internal/backend"
	"authorportal/internal/cache"
	"authorportal/internal/config"
	"authorportal/internal/handlers"
	"authorportal/internal/jobs"
	"authorportal/internal/log"
	"authorportal/internal/metrics"
	"authorportal/internal/middleware"
	"authorportal/internal/server"
	"authorportal/internal/session"
	"authorportal/internal/views"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(load func() (*config.AppConfig, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the portal HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg *config.AppConfig) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := log.New(cfg.Environment, cfg.Logging.Level)

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(promRegistry)

	client := backend.NewClient(cfg.Backend, logger, m)

	var (
		redisClient *redis.Client
		credentials session.CredentialStore = session.NewMemoryCredentials()
		bus         session.LogoutBus       = session.NewLocalBus()
		redisBus    *cache.LogoutBus
	)
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		redisClient = rc
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error().Err(err).Msg("redis close error")
			}
		}()
		credentials = cache.NewCredentials(redisClient, cfg.Redis.KeyPrefix)
		redisBus = cache.NewLogoutBus(redisClient, cfg.Redis.LogoutChannel, logger)
		bus = redisBus
	} else {
		logger.Warn().Msg("redis disabled, credentials and logout signals stay in this process")
	}

	registry := session.NewRegistry(session.Dependencies{
		Backend:     client,
		Credentials: credentials,
		Bus:         bus,
		Metrics:     m,
		Log:         logger.With().Str("component", "session").Logger(),
	}, session.Options{
		LoginURL:      cfg.Backend.LoginURL,
		CredentialTTL: cfg.Session.CredentialTTL,
	}, cfg.Session.IdleTTL)
	defer registry.Close()

	renderer, err := views.New()
	if err != nil {
		return err
	}

	portal := middleware.NewPortal(
		middleware.NewContextStore(cfg.Session),
		cfg.Session.CookieName,
		registry,
		cfg.Backend.LoginURL,
		logger,
	)
	handlerSet := handlers.NewHandlerSet(logger, cfg, client, registry, portal, redisClient)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet, renderer, promRegistry)

	scheduler := jobs.NewScheduler(registry, cfg.Jobs, logger)
	if err := scheduler.Start(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(httpServer.Start)
	if redisBus != nil {
		g.Go(func() error {
			if err := redisBus.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}
		scheduler.Stop(shutdownCtx)
		return nil
	})

	err = g.Wait()
	if err != nil {
		logger.Error().Err(err).Msg("portal stopped with error")
		return err
	}
	logger.Info().Msg("server exited cleanly")
	return nil
}
