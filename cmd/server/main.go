package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jp_storefront/internal/auth"
	"jp_storefront/internal/cache"
	"jp_storefront/internal/cart"
	"jp_storefront/internal/config"
	"jp_storefront/internal/database"
	"jp_storefront/internal/events"
	"jp_storefront/internal/handlers"
	"jp_storefront/internal/middleware"
	"jp_storefront/internal/notify"
	"jp_storefront/internal/order"
	"jp_storefront/internal/repository"
	"jp_storefront/internal/routes"
	"jp_storefront/internal/search"
	"jp_storefront/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)
	cfg.LogSubsystems()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clients, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Backend connection failed")
	}
	defer clients.Close()

	var primary repository.Store
	if cfg.MemoryBackend() {
		log.Warn().Msg("⚠️  In-memory store: data is lost on restart")
		primary = repository.NewMemory()
	} else {
		if cfg.ScyllaMigrate {
			if err := database.EnsureSchema(clients.Scylla); err != nil {
				log.Fatal().Err(err).Msg("❌ Schema migration failed")
			}
		}
		primary = repository.NewScylla(clients.Scylla)
	}

	store := cache.NewStore(primary, clients.Redis)
	tokens := cache.NewTokens(clients.Redis)
	carts := cart.NewStore(clients.Redis)

	feed := events.NewHub(cfg.CORSOrigins)
	publishers := events.Multi{feed}
	if cfg.KafkaEnabled() {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
		defer kp.Close()
		publishers = append(publishers, kp)
	}

	whatsapp := notify.NewRelay(cfg.NotifyTimeout, notify.ProvidersFromConfig(cfg)...)
	email := notify.NewEmailRelay(notify.MailerFromConfig(cfg))

	searchSvc := search.NewService(clients.Elastic, store)
	if searchSvc.Enabled() {
		go func() {
			rctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
			defer cancel()
			if err := searchSvc.Reindex(rctx); err != nil {
				log.Warn().Err(err).Msg("⚠️  Initial product reindex failed")
			}
		}()
	}

	var images *storage.Images
	if clients.MinIO != nil {
		images = storage.NewImages(clients.MinIO, cfg.MinIOBucket, cfg.MinIOPublicURL)
	}

	d := &handlers.Deps{
		Config:   cfg,
		Store:    store,
		Tokens:   tokens,
		Carts:    carts,
		Orders:   order.NewService(store, store, carts, whatsapp, email, publishers, cfg.NotifyTimeout),
		Auth:     auth.NewService(store, tokens, email, cfg),
		Search:   searchSvc,
		Images:   images,
		WhatsApp: whatsapp,
		Email:    email,
		Feed:     feed,
	}

	sessionStore := middleware.NewSessionStore(cfg.SessionSecret, cfg.GinMode == gin.ReleaseMode)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.NewRouter(d, sessionStore),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("🚀 JP storefront API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("❌ HTTP server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("🛑 Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("❌ Graceful shutdown failed")
	}
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.GinMode == gin.ReleaseMode {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
}
