// Package server exposes the analyzer over HTTP with fiber. Cache,
// store, search and provider are optional: a nil dependency disables
// its endpoint or its fast path, never the core assessment flow.
package server

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Hamid14147/market-analysis/internal/analyzer"
	"github.com/Hamid14147/market-analysis/internal/cache"
	"github.com/Hamid14147/market-analysis/internal/database"
	"github.com/Hamid14147/market-analysis/internal/dataset"
	"github.com/Hamid14147/market-analysis/internal/forecast"
	"github.com/Hamid14147/market-analysis/internal/provider/worldbank"
	"github.com/Hamid14147/market-analysis/internal/search"
)

// Deps wires the server to the rest of the system.
type Deps struct {
	Catalog  *dataset.Catalog
	Analyzer *analyzer.Analyzer
	Cache    *cache.Cache
	DB       *database.DB
	Search   *search.Index
	Provider *worldbank.Client
}

// Server is the HTTP API.
type Server struct {
	app    *fiber.App
	deps   Deps
	logger zerolog.Logger
}

// New builds the fiber app with logging, CORS and a per-IP rate limit
// on the compute-heavy routes.
func New(deps Deps) *Server {
	app := fiber.New(fiber.Config{
		AppName: "market-analysis",
	})

	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use("/api", limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	s := &Server{
		app:    app,
		deps:   deps,
		logger: log.With().Str("component", "server").Logger(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/health", s.handleHealth)

	api := s.app.Group("/api")
	api.Get("/countries", s.handleListCountries)
	api.Get("/countries/:code", s.handleGetCountry)
	api.Get("/countries/:code/assessment", s.handleAssessment)
	api.Get("/countries/:code/forecast", s.handleForecast)
	api.Get("/countries/:code/history", s.handleHistory)
	api.Get("/compare", s.handleCompare)
	api.Get("/search", s.handleSearch)
	api.Post("/refresh/:code", s.handleRefresh)
}

// Listen starts serving on addr.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "countries": s.deps.Catalog.Len()})
}

func (s *Server) handleListCountries(c *fiber.Ctx) error {
	type summary struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}

	countries := s.deps.Catalog.List()
	out := make([]summary, 0, len(countries))
	for _, country := range countries {
		out = append(out, summary{Code: country.Code, Name: country.Name})
	}
	return c.JSON(out)
}

func (s *Server) handleGetCountry(c *fiber.Ctx) error {
	code := normalizeCode(c.Params("code"))
	country, ok := s.deps.Catalog.Get(code)
	if !ok {
		return apiError(c, fiber.StatusNotFound, "unknown country: "+code)
	}
	return c.JSON(country)
}

func (s *Server) handleAssessment(c *fiber.Ctx) error {
	code := normalizeCode(c.Params("code"))

	if s.deps.Cache != nil {
		if cached, ok := s.deps.Cache.GetAssessment(c.Context(), code); ok {
			return c.JSON(cached)
		}
	}

	assessment, err := s.deps.Analyzer.AssessCountry(code)
	if err != nil {
		if errors.Is(err, analyzer.ErrUnknownCountry) {
			return apiError(c, fiber.StatusNotFound, err.Error())
		}
		return apiError(c, fiber.StatusInternalServerError, err.Error())
	}

	if s.deps.DB != nil {
		if _, err := s.deps.DB.SaveAssessment(assessment); err != nil {
			s.logger.Error().Err(err).Str("country", code).Msg("snapshot save failed")
		}
	}
	if s.deps.Cache != nil {
		s.deps.Cache.SetAssessment(c.Context(), assessment)
	}
	return c.JSON(assessment)
}

func (s *Server) handleForecast(c *fiber.Ctx) error {
	code := normalizeCode(c.Params("code"))
	country, ok := s.deps.Catalog.Get(code)
	if !ok {
		return apiError(c, fiber.StatusNotFound, "unknown country: "+code)
	}

	years := forecast.DefaultHorizon
	if raw := c.Query("years"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return apiError(c, fiber.StatusBadRequest, "years must be a positive integer")
		}
		years = parsed
	}

	forecasts := make([]any, 0, len(country.History))
	for _, series := range country.History {
		projected, err := forecast.Project(series.Metric, series.Years, series.Values, years)
		if err != nil {
			s.logger.Warn().Err(err).Str("country", code).Str("metric", series.Metric).Msg("forecast skipped")
			continue
		}
		forecasts = append(forecasts, projected)
	}
	if len(forecasts) == 0 {
		return apiError(c, fiber.StatusUnprocessableEntity, "no series can be forecast for "+code)
	}
	return c.JSON(fiber.Map{"code": code, "horizon_years": years, "forecasts": forecasts})
}

func (s *Server) handleHistory(c *fiber.Ctx) error {
	if s.deps.DB == nil {
		return apiError(c, fiber.StatusServiceUnavailable, "assessment store not configured")
	}

	code := normalizeCode(c.Params("code"))
	if _, ok := s.deps.Catalog.Get(code); !ok {
		return apiError(c, fiber.StatusNotFound, "unknown country: "+code)
	}

	limit := c.QueryInt("limit", 50)
	records, err := s.deps.DB.AssessmentHistory(code, limit)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(records)
}

func (s *Server) handleCompare(c *fiber.Ctx) error {
	var codes []string
	if raw := c.Query("countries"); raw != "" {
		for _, code := range strings.Split(raw, ",") {
			if code = normalizeCode(code); code != "" {
				codes = append(codes, code)
			}
		}
	}

	if s.deps.Cache != nil && len(codes) > 0 {
		if cached, ok := s.deps.Cache.GetComparison(c.Context(), codes); ok {
			return c.JSON(cached)
		}
	}

	report, err := s.deps.Analyzer.CompareMarkets(codes)
	if err != nil {
		if errors.Is(err, analyzer.ErrUnknownCountry) {
			return apiError(c, fiber.StatusNotFound, err.Error())
		}
		return apiError(c, fiber.StatusInternalServerError, err.Error())
	}

	if s.deps.Cache != nil && len(codes) > 0 {
		s.deps.Cache.SetComparison(c.Context(), codes, report)
	}
	return c.JSON(report)
}

func (s *Server) handleSearch(c *fiber.Ctx) error {
	if s.deps.Search == nil {
		return apiError(c, fiber.StatusServiceUnavailable, "search index not configured")
	}

	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		return apiError(c, fiber.StatusBadRequest, "q parameter required")
	}

	results, err := s.deps.Search.Search(query, c.QueryInt("limit", 10))
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(results)
}

func (s *Server) handleRefresh(c *fiber.Ctx) error {
	if s.deps.Provider == nil {
		return apiError(c, fiber.StatusServiceUnavailable, "indicator provider not configured")
	}

	code := normalizeCode(c.Params("code"))
	country, ok := s.deps.Catalog.Get(code)
	if !ok {
		return apiError(c, fiber.StatusNotFound, "unknown country: "+code)
	}

	refreshed, err := s.deps.Provider.Refresh(c.Context(), country)
	if err != nil {
		return apiError(c, fiber.StatusBadGateway, err.Error())
	}
	if err := s.deps.Catalog.Upsert(refreshed); err != nil {
		return apiError(c, fiber.StatusUnprocessableEntity, err.Error())
	}
	if s.deps.Cache != nil {
		s.deps.Cache.Invalidate(c.Context(), code)
	}

	s.logger.Info().Str("country", code).Msg("catalog refreshed from provider")
	return c.JSON(fiber.Map{"status": "refreshed", "code": code})
}

func apiError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
