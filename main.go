package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brewery/internal/config"
	"brewery/internal/database"
	"brewery/internal/handlers"
	"brewery/internal/logger"
	"brewery/internal/models"
	"brewery/internal/repositories"
	"brewery/internal/server"
	"brewery/internal/services"
	"brewery/internal/validation"
	"brewery/pkg/rabbitmq"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		// The configured logger does not exist yet.
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	// --- Repository ---
	repo, err := newBeerRepository(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("failed to initialize storage")
	}
	if cfg.SeedData {
		seedBeers(context.Background(), repo, log)
	}

	// --- Service ---
	opts := []services.Option{services.WithLogger(log)}
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize RabbitMQ client")
		}
		defer mqClient.Close()

		if err := mqClient.ConsumeBeerEvents(rabbitmq.LogBeerEvent(log)); err != nil {
			log.Error().Err(err).Msg("failed to start RabbitMQ consumer")
		}
		opts = append(opts, services.WithPublisher(mqClient))
	}
	beerService := services.NewBeerService(repo, opts...)

	// --- HTTP ---
	beerHandler := handlers.NewBeerHandler(beerService, validation.New(), cfg.DefaultPageSize)
	app := server.New(beerHandler, log, cfg.RequestTimeout)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", cfg.AppPort).Msg("starting server")
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}
	log.Info().Msg("server gracefully stopped")
}

// newBeerRepository picks the storage backend named by DATABASE_DRIVER.
func newBeerRepository(cfg *config.Config, log zerolog.Logger) (repositories.BeerRepository, error) {
	if cfg.DatabaseDriver == "memory" {
		return repositories.NewMockBeerRepository(), nil
	}
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN, log)
	if err != nil {
		return nil, err
	}
	return repositories.NewGORMBeerRepository(db), nil
}

// seedBeers loads the sample catalogue into an empty store.
func seedBeers(ctx context.Context, repo repositories.BeerRepository, log zerolog.Logger) {
	count, err := repo.Count(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to count beers before seeding")
		return
	}
	if count > 0 {
		log.Debug().Int64("count", count).Msg("store not empty, skipping seed")
		return
	}

	now := time.Now().UTC()
	beers := []models.Beer{
		{BeerName: "Mango Bobs", BeerStyle: models.BeerStyleAle, UPC: "0631234200036", Price: decimal.RequireFromString("12.95"), QuantityOnHand: 122},
		{BeerName: "Galaxy Cat", BeerStyle: models.BeerStylePaleAle, UPC: "9122089364369", Price: decimal.RequireFromString("11.95"), QuantityOnHand: 96},
		{BeerName: "Pinball Porter", BeerStyle: models.BeerStylePorter, UPC: "0083783375213", Price: decimal.RequireFromString("13.95"), QuantityOnHand: 54},
		{BeerName: "Golden Budnoz", BeerStyle: models.BeerStyleLager, UPC: "4666337557578", Price: decimal.RequireFromString("10.95"), QuantityOnHand: 201},
		{BeerName: "Cage Blond", BeerStyle: models.BeerStyleAle, UPC: "8380495518610", Price: decimal.RequireFromString("9.95"), QuantityOnHand: 144},
		{BeerName: "Dirty Diaper Stout", BeerStyle: models.BeerStyleStout, UPC: "5677465691934", Price: decimal.RequireFromString("12.50"), QuantityOnHand: 37},
	}

	for i := range beers {
		beers[i].CreatedDate = now
		beers[i].LastModifiedDate = now
		if err := repo.Create(ctx, &beers[i]); err != nil {
			log.Error().Err(err).Str("beer", beers[i].BeerName).Msg("error seeding beer")
			continue
		}
		log.Debug().Str("beer", beers[i].BeerName).Uint("id", beers[i].ID).Msg("seeded beer")
	}
	log.Info().Int("count", len(beers)).Msg("seeded beer catalogue")
}
