package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/avezina/parley/internal/adapters/http"
	"github.com/avezina/parley/internal/adapters/ws"
	"github.com/avezina/parley/internal/app"
	"github.com/avezina/parley/internal/auth"
	"github.com/avezina/parley/internal/config"
	"github.com/avezina/parley/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Secret == "" {
		log.Fatal().Msg("secret is required to verify credentials")
	}

	authn := auth.NewAuthenticator(auth.NewJWTVerifier([]byte(cfg.Secret)), cfg.AuthTimeout)

	presence := app.NewPresence()
	rooms := app.NewRooms()
	relay := app.NewRelay(presence, rooms, app.SimplePolicy{})

	var msgStore store.Store
	if cfg.Store.PersistMessages {
		switch cfg.Store.Backend {
		case "redis":
			rdb := redis.NewClient(&redis.Options{
				Addr:     cfg.Store.RedisAddr,
				Password: cfg.Store.RedisPassword,
			})
			if err := rdb.Ping(ctx).Err(); err != nil {
				log.Fatal().Err(err).Msg("redis ping")
			}
			msgStore = store.NewRedisStore(rdb, cfg.Store.HistoryLimit)
		default:
			msgStore = store.NewMemoryStore()
		}
		log.Info().Str("backend", cfg.Store.Backend).Msg("persisting messages before relay")
	}

	limiter := ws.NewRateLimiter(cfg.RateLimit.Burst, cfg.RateLimit.Interval)
	ctrl := ws.NewChatWSController(authn, app.SessionDeps{
		Presence: presence,
		Rooms:    rooms,
		Relay:    relay,
		Store:    msgStore,
	}, limiter, ws.Options{
		ReadLimit:    cfg.ReadLimit,
		PingPeriod:   cfg.PingPeriod,
		WriteTimeout: cfg.WriteTimeout,
		SendBuffer:   cfg.SendBuffer,
	})

	r := router.SetupRouter(ctx, cfg, ctrl, presence)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("parley server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
