// Package main runs the HTTP API: catalog, analyzer, Redis cache,
// PostgreSQL snapshot store, search index and the World Bank refresher
// behind a fiber app. Cache and store are optional; the server starts
// without them and serves computed results directly.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Hamid14147/market-analysis/internal/analyzer"
	"github.com/Hamid14147/market-analysis/internal/cache"
	"github.com/Hamid14147/market-analysis/internal/config"
	"github.com/Hamid14147/market-analysis/internal/database"
	"github.com/Hamid14147/market-analysis/internal/dataset"
	"github.com/Hamid14147/market-analysis/internal/provider/worldbank"
	"github.com/Hamid14147/market-analysis/internal/search"
	"github.com/Hamid14147/market-analysis/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandling(cancel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogging(cfg.LogLevel)
	log.Info().Msg("Starting Market Analysis API")

	catalog, err := dataset.Load(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load dataset")
	}
	an := analyzer.New(catalog, cfg.ForecastYears)

	deps := server.Deps{
		Catalog:  catalog,
		Analyzer: an,
		Provider: worldbank.NewClient(worldbank.ClientOptions{
			BaseURL:        cfg.WorldBankBaseURL,
			RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
			RequestsPerSec: cfg.ProviderRateLimit,
		}),
	}

	// Redis is optional: without it every request recomputes.
	assessmentCache, err := cache.New(ctx, cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      time.Duration(cfg.CacheTTLMinutes) * time.Minute,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, running without cache")
	} else {
		deps.Cache = assessmentCache
		defer assessmentCache.Close()
	}

	// PostgreSQL is optional: without it history endpoints are off.
	db, err := database.New(database.ConnectionParams{
		Host:     cfg.DBHost,
		Port:     strconv.Itoa(cfg.DBPort),
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Warn().Err(err).Msg("PostgreSQL unavailable, running without snapshot store")
	} else {
		deps.DB = db
		defer db.Close()
	}

	// Index the catalog with each country's current score.
	scores := make(map[string]float64, catalog.Len())
	for _, country := range catalog.List() {
		assessment := an.Assess(country)
		scores[country.Code] = assessment.Score
	}
	index, err := search.New(catalog.List(), scores)
	if err != nil {
		log.Warn().Err(err).Msg("Search index unavailable")
	} else {
		deps.Search = index
		defer index.Close()
	}

	srv := server.New(deps)
	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	log.Info().Str("addr", addr).Msg("Listening")
	if err := srv.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func setupSignalHandling(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Info().Msg("Shutdown signal received, exiting...")
		cancel()
		os.Exit(0)
	}()
}

func setupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}
