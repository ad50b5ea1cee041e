package model

// Metric names used across history series, forecasts and reports.
const (
	MetricGDP              = "gdp"
	MetricPopulation       = "population"
	MetricConsumerSpending = "consumer_spending"
	MetricEconomicGrowth   = "economic_growth"
)

// Metrics lists every forecastable metric in display order.
var Metrics = []string{MetricGDP, MetricPopulation, MetricConsumerSpending, MetricEconomicGrowth}

// EconomicIndicators holds the current headline metrics for a market.
// GDP and consumer spending are in trillions USD, population in millions,
// growth in percent per year.
type EconomicIndicators struct {
	GDP              float64 `json:"gdp"`
	Population       float64 `json:"population"`
	ConsumerSpending float64 `json:"consumer_spending"`
	EconomicGrowth   float64 `json:"economic_growth"`
}

// IndicatorSeries is the annual history of one metric, oldest first.
// Years and Values are parallel slices.
type IndicatorSeries struct {
	Metric string    `json:"metric"`
	Years  []int     `json:"years"`
	Values []float64 `json:"values"`
}

// RiskCategory is one assessed risk dimension: a 0-100 score (higher is
// riskier) and the factors behind it.
type RiskCategory struct {
	Score   float64  `json:"score"`
	Factors []string `json:"factors,omitempty"`
}

// RiskProfile groups the four risk categories assessed per market.
type RiskProfile struct {
	Political   RiskCategory `json:"political"`
	Economic    RiskCategory `json:"economic"`
	Operational RiskCategory `json:"operational"`
	Technical   RiskCategory `json:"technical"`
}

// Country is one analyzable market: identity, current indicators,
// qualitative notes, per-metric history and the risk profile.
type Country struct {
	Code       string             `json:"code"` // ISO 3166-1 alpha-2, upper case
	Name       string             `json:"name"`
	Region     string             `json:"region,omitempty"`
	Indicators EconomicIndicators `json:"indicators"`
	Strengths  []string           `json:"strengths,omitempty"`
	Weaknesses []string           `json:"weaknesses,omitempty"`
	History    []IndicatorSeries  `json:"history,omitempty"`
	Risk       RiskProfile        `json:"risk"`
}

// Series returns the history series for the named metric.
func (c Country) Series(metric string) (IndicatorSeries, bool) {
	for _, s := range c.History {
		if s.Metric == metric {
			return s, true
		}
	}
	return IndicatorSeries{}, false
}

// Indicator returns the current value of the named metric.
func (c Country) Indicator(metric string) (float64, bool) {
	switch metric {
	case MetricGDP:
		return c.Indicators.GDP, true
	case MetricPopulation:
		return c.Indicators.Population, true
	case MetricConsumerSpending:
		return c.Indicators.ConsumerSpending, true
	case MetricEconomicGrowth:
		return c.Indicators.EconomicGrowth, true
	}
	return 0, false
}
