// Package analyzer orchestrates market assessment: risk aggregation,
// market-entry scoring, metric forecasts and cross-market comparison.
package analyzer

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Hamid14147/market-analysis/internal/dataset"
	"github.com/Hamid14147/market-analysis/internal/forecast"
	"github.com/Hamid14147/market-analysis/internal/model"
	"github.com/Hamid14147/market-analysis/internal/risk"
	"github.com/Hamid14147/market-analysis/internal/scoring"
)

// ErrUnknownCountry is returned for codes not present in the catalog.
var ErrUnknownCountry = errors.New("unknown country")

// Analyzer assesses markets from a country catalog.
type Analyzer struct {
	catalog *dataset.Catalog
	horizon int
	logger  zerolog.Logger
}

// New builds an analyzer. horizon is the forecast length in years; values
// below 1 fall back to the default.
func New(catalog *dataset.Catalog, horizon int) *Analyzer {
	if horizon < 1 {
		horizon = forecast.DefaultHorizon
	}
	return &Analyzer{
		catalog: catalog,
		horizon: horizon,
		logger:  log.With().Str("component", "analyzer").Logger(),
	}
}

// AssessCountry runs the full assessment for one catalog entry.
func (a *Analyzer) AssessCountry(code string) (*model.MarketAssessment, error) {
	country, ok := a.catalog.Get(code)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCountry, code)
	}
	return a.Assess(country), nil
}

// Assess scores a country record: composite risk, market-entry score and
// best-effort forecasts for every history series. Metrics whose series
// cannot be fitted are skipped with a warning.
func (a *Analyzer) Assess(country model.Country) *model.MarketAssessment {
	riskResult := risk.Assess(country.Risk)
	score, breakdown := scoring.Score(country.Indicators, riskResult.Composite)

	assessment := &model.MarketAssessment{
		Code:        country.Code,
		Country:     country.Name,
		GeneratedAt: time.Now().UTC(),
		Score:       score,
		Status:      scoring.Status(score),
		Breakdown:   breakdown,
		Risk:        riskResult,
		Metrics:     formatMetrics(country.Indicators),
		Strengths:   country.Strengths,
		Weaknesses:  country.Weaknesses,
	}

	for _, metric := range model.Metrics {
		series, ok := country.Series(metric)
		if !ok {
			continue
		}
		projected, err := forecast.Project(metric, series.Years, series.Values, a.horizon)
		if err != nil {
			a.logger.Warn().Err(err).Str("country", country.Code).Str("metric", metric).Msg("forecast skipped")
			continue
		}
		assessment.Forecasts = append(assessment.Forecasts, projected)
	}

	a.logger.Debug().
		Str("country", country.Code).
		Float64("score", assessment.Score).
		Str("status", assessment.Status).
		Msg("market assessed")
	return assessment
}

// CompareMarkets assesses several markets and ranks them by score and
// by risk. An empty code list means the whole catalog. Codes that fail
// to assess become error entries; the rest are still ranked. Only a
// list with no assessable market at all is an error.
func (a *Analyzer) CompareMarkets(codes []string) (*model.ComparisonReport, error) {
	if len(codes) == 0 {
		codes = a.catalog.Codes()
	}
	if len(codes) == 0 {
		return nil, errors.New("catalog is empty")
	}

	assessments := make([]model.MarketAssessment, 0, len(codes))
	var failed []model.ComparisonError
	for _, code := range codes {
		assessment, err := a.AssessCountry(code)
		if err != nil {
			a.logger.Warn().Err(err).Str("country", code).Msg("market skipped in comparison")
			failed = append(failed, model.ComparisonError{Code: code, Error: err.Error()})
			continue
		}
		assessments = append(assessments, *assessment)
	}
	if len(assessments) == 0 {
		return nil, fmt.Errorf("no requested market could be assessed: %w", ErrUnknownCountry)
	}

	// Highest score first; names break ties so ordering is stable.
	sort.SliceStable(assessments, func(i, j int) bool {
		if assessments[i].Score != assessments[j].Score {
			return assessments[i].Score > assessments[j].Score
		}
		return assessments[i].Country < assessments[j].Country
	})

	report := &model.ComparisonReport{
		GeneratedAt: time.Now().UTC(),
		Assessments: assessments,
		Errors:      failed,
	}
	for i, assessment := range assessments {
		report.Rankings = append(report.Rankings, model.MarketRanking{
			Rank:       i + 1,
			Code:       assessment.Code,
			Country:    assessment.Country,
			Score:      assessment.Score,
			Status:     assessment.Status,
			RiskScore:  assessment.Risk.Composite,
			RiskRating: assessment.Risk.Rating,
		})
	}
	report.RiskRankings = rankByRisk(assessments)
	report.Charts = buildComparisonCharts(assessments)

	a.logger.Info().Int("markets", len(assessments)).Int("skipped", len(failed)).Msg("comparison built")
	return report, nil
}

// rankByRisk orders markets by composite risk, least risky first.
func rankByRisk(assessments []model.MarketAssessment) []model.MarketRanking {
	byRisk := make([]model.MarketAssessment, len(assessments))
	copy(byRisk, assessments)
	sort.SliceStable(byRisk, func(i, j int) bool {
		if byRisk[i].Risk.Composite != byRisk[j].Risk.Composite {
			return byRisk[i].Risk.Composite < byRisk[j].Risk.Composite
		}
		return byRisk[i].Country < byRisk[j].Country
	})

	rankings := make([]model.MarketRanking, 0, len(byRisk))
	for i, assessment := range byRisk {
		rankings = append(rankings, model.MarketRanking{
			Rank:       i + 1,
			Code:       assessment.Code,
			Country:    assessment.Country,
			Score:      assessment.Score,
			Status:     assessment.Status,
			RiskScore:  assessment.Risk.Composite,
			RiskRating: assessment.Risk.Rating,
		})
	}
	return rankings
}

func formatMetrics(ind model.EconomicIndicators) model.FormattedMetrics {
	return model.FormattedMetrics{
		GDP:              fmt.Sprintf("$%.2f Trillion USD", ind.GDP),
		Population:       fmt.Sprintf("%.1f Million", ind.Population),
		ConsumerSpending: fmt.Sprintf("$%.2f Trillion USD", ind.ConsumerSpending),
		EconomicGrowth:   fmt.Sprintf("%.1f%%", ind.EconomicGrowth),
	}
}
