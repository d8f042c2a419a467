package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/airrush/charter-api/internal/api"
	"github.com/airrush/charter-api/internal/api/handler"
	"github.com/airrush/charter-api/internal/core/domain"
	"github.com/airrush/charter-api/internal/core/service"
	"github.com/airrush/charter-api/internal/geo"
	"github.com/airrush/charter-api/internal/infrastructure/config"
	mongodb "github.com/airrush/charter-api/internal/infrastructure/db/mongo"
	redisdb "github.com/airrush/charter-api/internal/infrastructure/db/redis"
	"github.com/airrush/charter-api/internal/infrastructure/queue"
	"github.com/airrush/charter-api/internal/notify"
	"github.com/airrush/charter-api/internal/pdf"
	"github.com/airrush/charter-api/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")

	// --- Repositories ---
	cargoRepo := mongodb.NewCargoRepository(db)
	passengerRepo := mongodb.NewPassengerRepository(db)
	if err := cargoRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("cargo index creation failed")
	}
	if err := passengerRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("passenger index creation failed")
	}

	// --- Notifications ---
	mailer, err := notify.NewSMTPMailer(notify.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("smtp client setup failed")
	}
	dedup := redisdb.NewNotificationDedup(rdb, cfg.Notify.DedupTTL)
	delivery := notify.NewService(mailer, dedup, log)

	dispatcher := queue.NewDispatcher(cfg.Notify.Workers, delivery, log)
	dispatcher.Start(ctx)

	// --- Geocoding ---
	providers := []geo.Provider{}
	if cfg.Geo.GoogleAPIKey != "" {
		providers = append(providers, geo.NewGoogleProvider(cfg.Geo.GoogleAPIKey))
	}
	providers = append(providers, geo.NewNominatimProvider(cfg.Geo.NominatimUserAgent))
	geoCache := redisdb.NewGeoCache(rdb, cfg.Geo.CacheTTL)
	resolver := geo.NewResolver(geoCache, log, providers...)

	defaultOrigin := domain.PassengerLocation{
		City:        cfg.Origin.City,
		Country:     cfg.Origin.Country,
		Coordinates: domain.Coordinates{Lat: cfg.Origin.Lat, Lng: cfg.Origin.Lng},
		DisplayName: cfg.Origin.City + ", " + cfg.Origin.Country,
	}

	// --- Services and handlers ---
	cargoService := service.NewCargoService(
		cargoRepo, pdf.NewReceipt(), dispatcher,
		service.ReceiptPolicy(cfg.ReceiptPolicy), log,
	)
	passengerService := service.NewPassengerService(
		passengerRepo, resolver, dispatcher, defaultOrigin, log,
	)

	e := api.NewRouter(api.Deps{
		Cargo:      handler.NewCargoHandler(cargoService),
		Passengers: handler.NewPassengerHandler(passengerService),
		Mongo:      db,
		Redis:      rdb,
		Logger:     log,
	})

	// --- Start server ---
	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	cancel() // stop notification workers

	log.Info().Msg("server exited")
}
