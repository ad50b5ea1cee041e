package risk

import (
	"math"

	"github.com/Hamid14147/market-analysis/internal/model"
)

// Category weights for the composite risk score. They sum to 1.0.
const (
	WeightPolitical   = 0.25
	WeightEconomic    = 0.30
	WeightOperational = 0.20
	WeightTechnical   = 0.25
)

// Category display names, in reporting order.
const (
	CategoryPolitical   = "Political"
	CategoryEconomic    = "Economic"
	CategoryOperational = "Operational"
	CategoryTechnical   = "Technical"
)

// Rate maps a composite risk score to its rating label.
func Rate(score float64) string {
	switch {
	case score <= 15:
		return "Very Low Risk"
	case score <= 25:
		return "Low Risk"
	case score <= 35:
		return "Moderate Risk"
	case score <= 45:
		return "High Risk"
	default:
		return "Very High Risk"
	}
}

// Assess computes the weighted composite score for a risk profile and
// labels it. Category scores pass through unchanged so callers can show
// the breakdown.
func Assess(p model.RiskProfile) model.RiskAssessment {
	categories := []model.CategoryScore{
		{Name: CategoryPolitical, Score: p.Political.Score, Weight: WeightPolitical, Factors: p.Political.Factors},
		{Name: CategoryEconomic, Score: p.Economic.Score, Weight: WeightEconomic, Factors: p.Economic.Factors},
		{Name: CategoryOperational, Score: p.Operational.Score, Weight: WeightOperational, Factors: p.Operational.Factors},
		{Name: CategoryTechnical, Score: p.Technical.Score, Weight: WeightTechnical, Factors: p.Technical.Factors},
	}

	var composite float64
	for _, c := range categories {
		composite += c.Score * c.Weight
	}
	composite = round2(composite)

	return model.RiskAssessment{
		Composite:  composite,
		Rating:     Rate(composite),
		Categories: categories,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
