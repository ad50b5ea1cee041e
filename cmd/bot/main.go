// Package main runs the Telegram bot. With -digest it sends the
// ranking digest to active subscribers and exits instead of polling.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Hamid14147/market-analysis/internal/analyzer"
	"github.com/Hamid14147/market-analysis/internal/bot"
	"github.com/Hamid14147/market-analysis/internal/config"
	"github.com/Hamid14147/market-analysis/internal/database"
	"github.com/Hamid14147/market-analysis/internal/dataset"
	"github.com/Hamid14147/market-analysis/internal/payment"
)

func main() {
	digest := flag.Bool("digest", false, "send the ranking digest to active subscribers and exit")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandling(cancel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogging(cfg.LogLevel)

	if cfg.TelegramToken == "" {
		log.Fatal().Msg("TELEGRAM_TOKEN not set in environment")
	}

	catalog, err := dataset.Load(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load dataset")
	}

	db, err := database.New(database.ConnectionParams{
		Host:     cfg.DBHost,
		Port:     strconv.Itoa(cfg.DBPort),
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
	}

	payments := payment.New(payment.Options{
		APIKey:        cfg.StripeSecretKey,
		PriceID:       cfg.StripePriceID,
		WebhookSecret: cfg.StripeWebhookSecret,
		SuccessURL:    "https://t.me/" + api.Self.UserName + "?start=payment_success",
		CancelURL:     "https://t.me/" + api.Self.UserName + "?start=payment_cancel",
	})

	service := bot.New(api, db, catalog, analyzer.New(catalog, cfg.ForecastYears), payments)

	if *digest {
		sent, err := service.BroadcastDigest()
		if err != nil {
			log.Fatal().Err(err).Msg("Digest broadcast failed")
		}
		log.Info().Int("sent", sent).Msg("Digest broadcast done")
		return
	}

	service.Run(ctx)
}

func setupSignalHandling(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Info().Msg("Shutdown signal received, exiting...")
		cancel()
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
