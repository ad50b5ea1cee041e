package model

import "time"

// ScoreBreakdown itemizes the normalized components behind a market-entry
// score. All values are on a 0-100 scale.
type ScoreBreakdown struct {
	MarketSize    float64 `json:"market_size"`
	Spending      float64 `json:"spending"`
	Population    float64 `json:"population"`
	Growth        float64 `json:"growth"`
	Economic      float64 `json:"economic"`       // weighted blend of the four above
	RiskAdjusted  float64 `json:"risk_adjusted"`  // 100 - composite risk
	CompositeRisk float64 `json:"composite_risk"` // weighted risk score
}

// CategoryScore is one risk category with the weight it carried in the
// composite.
type CategoryScore struct {
	Name    string   `json:"name"`
	Score   float64  `json:"score"`
	Weight  float64  `json:"weight"`
	Factors []string `json:"factors,omitempty"`
}

// RiskAssessment is the aggregated view of a market's risk profile.
type RiskAssessment struct {
	Composite  float64         `json:"composite"`
	Rating     string          `json:"rating"` // Very Low Risk .. Very High Risk
	Categories []CategoryScore `json:"categories"`
}

// MetricForecast is the projected path of one metric.
type MetricForecast struct {
	Metric     string    `json:"metric"`
	Current    float64   `json:"current"`
	Years      []int     `json:"years"`
	Values     []float64 `json:"values"`
	GrowthRate float64   `json:"growth_rate_pct"` // end-of-horizon vs current, percent
	Trend      string    `json:"trend"`           // Increasing / Decreasing
}

// FormattedMetrics carries display strings for the headline indicators.
type FormattedMetrics struct {
	GDP              string `json:"gdp"`
	Population       string `json:"population"`
	ConsumerSpending string `json:"consumer_spending"`
	EconomicGrowth   string `json:"economic_growth"`
}

// MarketAssessment is the full analysis result for one country.
type MarketAssessment struct {
	Code        string           `json:"code"`
	Country     string           `json:"country"`
	GeneratedAt time.Time        `json:"generated_at"`
	Score       float64          `json:"score"`
	Status      string           `json:"status"` // Highly Suitable .. Moderately Suitable
	Breakdown   ScoreBreakdown   `json:"breakdown"`
	Risk        RiskAssessment   `json:"risk"`
	Metrics     FormattedMetrics `json:"metrics"`
	Strengths   []string         `json:"strengths,omitempty"`
	Weaknesses  []string         `json:"weaknesses,omitempty"`
	Forecasts   []MetricForecast `json:"forecasts,omitempty"`
}

// Forecast returns the forecast for the named metric.
func (a MarketAssessment) Forecast(metric string) (MetricForecast, bool) {
	for _, f := range a.Forecasts {
		if f.Metric == metric {
			return f, true
		}
	}
	return MetricForecast{}, false
}

// MarketRanking is one row of a cross-market comparison.
type MarketRanking struct {
	Rank       int     `json:"rank"`
	Code       string  `json:"code"`
	Country    string  `json:"country"`
	Score      float64 `json:"score"`
	Status     string  `json:"status"`
	RiskScore  float64 `json:"risk_score"`
	RiskRating string  `json:"risk_rating"`
}

// ComparisonError marks a requested market that could not be assessed.
type ComparisonError struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// ComparisonReport ranks several markets and carries the chart data a
// frontend needs to plot them side by side. Rankings orders by entry
// score descending, RiskRankings by composite risk ascending.
type ComparisonReport struct {
	GeneratedAt  time.Time          `json:"generated_at"`
	Rankings     []MarketRanking    `json:"rankings"`
	RiskRankings []MarketRanking    `json:"risk_rankings,omitempty"`
	Assessments  []MarketAssessment `json:"assessments"`
	Errors       []ComparisonError  `json:"errors,omitempty"`
	Charts       []ChartConfig      `json:"charts,omitempty"`
}
