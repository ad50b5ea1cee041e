// Package scoring computes the composite market-entry score: economic
// indicators are normalized against saturation ceilings, blended, then
// discounted by composite risk.
package scoring

import (
	"math"

	"github.com/Hamid14147/market-analysis/internal/model"
)

// Saturation ceilings for indicator normalization. An economy at or above
// a ceiling maxes out that component.
const (
	gdpCeiling        = 4.0   // trillions USD
	spendingCeiling   = 2.5   // trillions USD
	populationCeiling = 150.0 // millions
	growthFloor       = -2.0  // percent, maps to 0
	growthCeiling     = 6.0   // percent, maps to 100
)

// Component weights inside the economic blend. They sum to 1.0.
const (
	weightMarketSize = 0.35
	weightSpending   = 0.25
	weightPopulation = 0.15
	weightGrowth     = 0.25
)

// Final blend between economic attractiveness and risk headroom.
const (
	weightEconomic     = 0.45
	weightRiskHeadroom = 0.55
)

// Score computes the 0-100 market-entry score for a set of indicators
// given the market's composite risk score. The breakdown carries every
// intermediate component for explanation.
func Score(ind model.EconomicIndicators, compositeRisk float64) (float64, model.ScoreBreakdown) {
	b := model.ScoreBreakdown{
		MarketSize:    normalize(ind.GDP, 0, gdpCeiling),
		Spending:      normalize(ind.ConsumerSpending, 0, spendingCeiling),
		Population:    normalize(ind.Population, 0, populationCeiling),
		Growth:        normalize(ind.EconomicGrowth, growthFloor, growthCeiling),
		CompositeRisk: compositeRisk,
	}

	b.Economic = round2(weightMarketSize*b.MarketSize +
		weightSpending*b.Spending +
		weightPopulation*b.Population +
		weightGrowth*b.Growth)
	b.RiskAdjusted = round2(clamp(100-compositeRisk, 0, 100))

	score := weightEconomic*b.Economic + weightRiskHeadroom*b.RiskAdjusted
	return round2(clamp(score, 0, 100)), b
}

// Status maps a market-entry score to its suitability label.
func Status(score float64) string {
	switch {
	case score >= 80:
		return "Highly Suitable"
	case score >= 70:
		return "Very Suitable"
	case score >= 55:
		return "Suitable"
	default:
		return "Moderately Suitable"
	}
}

// normalize maps v from [floor, ceiling] onto [0, 100], clamping outside
// the range.
func normalize(v, floor, ceiling float64) float64 {
	return round2(clamp((v-floor)/(ceiling-floor), 0, 1) * 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
