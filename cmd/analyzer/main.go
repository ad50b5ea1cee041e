package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Hamid14147/market-analysis/internal/analyzer"
	"github.com/Hamid14147/market-analysis/internal/config"
	"github.com/Hamid14147/market-analysis/internal/dataset"
	"github.com/Hamid14147/market-analysis/internal/evaluation"
	"github.com/Hamid14147/market-analysis/internal/history"
	"github.com/Hamid14147/market-analysis/internal/model"
	"github.com/Hamid14147/market-analysis/internal/provider/worldbank"
	"github.com/Hamid14147/market-analysis/internal/report"
)

func main() {
	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	setupSignalHandling(cancel)

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// 2. Configure logging
	setupLogging(cfg.LogLevel)
	log.Info().Msg("Starting Market Entry Analyzer")

	// 3. Print configuration
	printConfig(cfg)

	// 4. Load the country catalog
	catalog, err := dataset.Load(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load dataset")
	}

	// 5. Optional indicator refresh from the World Bank
	if cfg.EnableRefresh {
		refreshCatalog(ctx, catalog, cfg)
	}

	// 6. Assess the requested markets
	an := analyzer.New(catalog, cfg.ForecastYears)
	comparison, err := an.CompareMarkets(selectedCountries(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("Market comparison failed")
	}

	// 7. Print the report
	printComparison(comparison)

	// 8. Write reports to disk
	if err := report.WriteAll(cfg.ReportDir, comparison); err != nil {
		log.Error().Err(err).Msg("Failed to write reports")
	}

	// 9. Record history and print score trends
	recordHistory(comparison, cfg)

	// 10. Forecast accuracy check on held-out history
	if cfg.EnableEvaluation {
		runEvaluation(catalog, comparison, cfg.EvaluationHoldout)
	}
}

// setupSignalHandling configures signal handling for graceful shutdown
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

// setupLogging configures the logger
func setupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}

// printConfig outputs the current configuration
func printConfig(cfg *config.Config) {
	log.Info().
		Str("DataDir", cfg.DataDir).
		Str("ReportDir", cfg.ReportDir).
		Str("HistoryDir", cfg.HistoryDir).
		Str("Countries", cfg.Countries).
		Int("ForecastYears", cfg.ForecastYears).
		Bool("EnableRefresh", cfg.EnableRefresh).
		Bool("EnableEvaluation", cfg.EnableEvaluation).
		Int("EvaluationHoldout", cfg.EvaluationHoldout).
		Msg("Configuration loaded")
}

// selectedCountries parses the configured country list; empty means the
// whole catalog.
func selectedCountries(cfg *config.Config) []string {
	if strings.TrimSpace(cfg.Countries) == "" {
		return nil
	}
	var codes []string
	for _, code := range strings.Split(cfg.Countries, ",") {
		if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// refreshCatalog pulls fresh indicator data for every selected market.
func refreshCatalog(ctx context.Context, catalog *dataset.Catalog, cfg *config.Config) {
	log.Info().Msg("Refreshing indicators from the World Bank...")
	client := worldbank.NewClient(worldbank.ClientOptions{
		BaseURL:        cfg.WorldBankBaseURL,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		RequestsPerSec: cfg.ProviderRateLimit,
	})

	codes := selectedCountries(cfg)
	if len(codes) == 0 {
		codes = catalog.Codes()
	}
	for _, code := range codes {
		country, ok := catalog.Get(code)
		if !ok {
			continue
		}
		refreshed, err := client.Refresh(ctx, country)
		if err != nil {
			log.Warn().Err(err).Str("country", code).Msg("Refresh failed, keeping static data")
			continue
		}
		if err := catalog.Upsert(refreshed); err != nil {
			log.Warn().Err(err).Str("country", code).Msg("Refreshed record invalid, keeping static data")
		}
	}
}

// printComparison outputs the full analysis to the console
func printComparison(r *model.ComparisonReport) {
	fmt.Println("\n===== MARKET ENTRY RANKING =====")
	for _, rank := range r.Rankings {
		fmt.Printf("%d. %-10s %6.1f  %-20s %s\n",
			rank.Rank, rank.Country, rank.Score, rank.Status, rank.RiskRating)
	}
	for _, e := range r.Errors {
		fmt.Printf("   %-10s skipped: %s\n", e.Code, e.Error)
	}

	fmt.Println("\n===== LOWEST RISK FIRST =====")
	for _, rank := range r.RiskRankings {
		fmt.Printf("%d. %-10s risk %5.1f  %s\n",
			rank.Rank, rank.Country, rank.RiskScore, rank.RiskRating)
	}

	for _, a := range r.Assessments {
		fmt.Printf("\n===== %s =====\n", strings.ToUpper(a.Country))
		fmt.Printf("Score: %.1f (%s)\n", a.Score, a.Status)

		fmt.Println("\nKey Metrics:")
		fmt.Printf("GDP: %s | Population: %s\n", a.Metrics.GDP, a.Metrics.Population)
		fmt.Printf("Consumer Spending: %s | Growth: %s\n", a.Metrics.ConsumerSpending, a.Metrics.EconomicGrowth)

		fmt.Printf("\nRisk: %.1f (%s)\n", a.Risk.Composite, a.Risk.Rating)
		for _, cat := range a.Risk.Categories {
			fmt.Printf("- %s: %.0f\n", cat.Name, cat.Score)
		}

		if len(a.Forecasts) > 0 {
			fmt.Println("\n5-Year Outlook:")
			for _, f := range a.Forecasts {
				fmt.Printf("- %s: %+.1f%% (%s)\n", f.Metric, f.GrowthRate, f.Trend)
			}
		}

		if len(a.Strengths) > 0 {
			fmt.Printf("\nStrengths: %s\n", strings.Join(a.Strengths, "; "))
		}
		if len(a.Weaknesses) > 0 {
			fmt.Printf("Weaknesses: %s\n", strings.Join(a.Weaknesses, "; "))
		}
	}
	fmt.Println()
}

// recordHistory snapshots every assessment and prints the move against
// the previous run.
func recordHistory(r *model.ComparisonReport, cfg *config.Config) {
	store := history.NewStore(cfg.HistoryDir, cfg.HistoryLimit)

	fmt.Println("===== TREND VS PREVIOUS RUN =====")
	for i := range r.Assessments {
		trend, err := store.Record(&r.Assessments[i])
		if err != nil {
			log.Error().Err(err).Str("country", r.Assessments[i].Code).Msg("Failed to record history")
			continue
		}
		if trend.Label == history.LabelFirstRun {
			fmt.Printf("%-10s first recorded run (%.1f)\n", r.Assessments[i].Country, trend.To)
		} else {
			fmt.Printf("%-10s %s  %+.2f (%+.2f%%)\n", r.Assessments[i].Country, trend.Label, trend.DeltaScore, trend.DeltaPercent)
		}
	}
	fmt.Println()
}

// runEvaluation scores the forecaster against held-out history
func runEvaluation(catalog *dataset.Catalog, r *model.ComparisonReport, holdout int) {
	fmt.Println("===== FORECAST EVALUATION =====")
	for _, a := range r.Assessments {
		country, ok := catalog.Get(a.Code)
		if !ok {
			continue
		}
		result, err := evaluation.Evaluate(country, holdout)
		if err != nil {
			log.Warn().Err(err).Str("country", a.Code).Msg("Evaluation skipped")
			continue
		}
		fmt.Println(evaluation.FormatResults(result))
	}
}
