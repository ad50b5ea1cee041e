// Package main runs the Stripe webhook server: it verifies incoming
// events and flips subscription state in the database.
package main

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Hamid14147/market-analysis/internal/config"
	"github.com/Hamid14147/market-analysis/internal/database"
	"github.com/Hamid14147/market-analysis/internal/payment"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogging(cfg.LogLevel)

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

	payments := payment.New(payment.Options{
		APIKey:        cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
	})

	http.HandleFunc("/webhook", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Error reading request body", http.StatusBadRequest)
			return
		}

		signature := r.Header.Get("Stripe-Signature")
		if signature == "" {
			http.Error(w, "Stripe-Signature header required", http.StatusBadRequest)
			return
		}

		event, err := payments.VerifyWebhookSignature(body, signature)
		if err != nil {
			log.Error().Err(err).Msg("Webhook signature verification failed")
			http.Error(w, "Invalid signature", http.StatusBadRequest)
			return
		}

		userID, status, err := payments.ProcessEvent(event)
		if err != nil {
			// Unhandled event types are fine; acknowledge so Stripe
			// stops retrying.
			log.Debug().Str("type", string(event.Type)).Err(err).Msg("Event ignored")
			w.WriteHeader(http.StatusOK)
			return
		}

		if err := db.UpdateSubscriptionStatus(userID, status, event.ID); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("Failed to update subscription")
			http.Error(w, "Error updating subscription", http.StatusInternalServerError)
			return
		}

		log.Info().Int64("user_id", userID).Str("status", status).Str("event", event.ID).Msg("Subscription updated")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	})

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Webhook server is running"))
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}
	log.Info().Str("port", port).Msg("Starting webhook server")
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal().Err(err).Msg("Webhook server stopped")
	}
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
