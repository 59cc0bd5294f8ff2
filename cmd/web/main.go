package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hbnb_web/internal/adapters/hbnb"
	server "hbnb_web/internal/adapters/http_server"
	"hbnb_web/internal/adapters/memory"
	"hbnb_web/internal/adapters/observability"
	redisad "hbnb_web/internal/adapters/redis"
	"hbnb_web/internal/app"
	"hbnb_web/internal/domain"
	"hbnb_web/internal/shared"
	"hbnb_web/internal/web"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// backend
	api, err := hbnb.New(cfg.APIBaseURL, cfg.APIRPS, cfg.APITimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize HBnB client")
	}

	g, gctx := errgroup.WithContext(ctx)

	// session store
	var store domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
		}
		defer rc.Close()
		store = rc
		log.Info().Str("addr", cfg.RedisAddr).Msg("session store: redis")
	} else {
		mc := memory.New()
		store = mc
		g.Go(func() error {
			t := time.NewTicker(time.Minute)
			defer t.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-t.C:
					if n := mc.Sweep(); n > 0 {
						log.Debug().Int("expired", n).Msg("session sweep")
					}
				}
			}
		})
		log.Info().Msg("session store: memory")
	}

	view, err := web.New()
	if err != nil {
		log.Fatal().Err(err).Msg("parse templates failed")
	}

	// http
	reg := observability.InitRegistry()
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Listings:      app.NewListingService(api, store, cfg.SessionTTL),
		Auth:          app.NewAuthService(api),
		Places:        app.NewPlaceService(api),
		Reviews:       app.NewReviewService(api, store, cfg.FlashTTL),
		View:          view,
		Sessions:      store,
		SessionTTL:    cfg.SessionTTL,
		TokenMaxAge:   cfg.TokenMaxAge,
		CookieSecure:  cfg.CookieSecure,
		RedirectDelay: cfg.RedirectDelay,
		StaticDir:     cfg.StaticDir,
	})

	servers := []*http.Server{{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}}
	if ms := observability.MetricsServer(cfg.MetricsAddr, reg); ms != nil {
		servers = append(servers, ms)
	}

	for _, s := range servers {
		s := s
		g.Go(func() error {
			log.Info().Str("addr", s.Addr).Str("backend", cfg.APIBaseURL).Msg("listening")
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return s.Shutdown(shutCtx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("shutdown complete")
}
