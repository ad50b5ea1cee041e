// Package forecast fits additive-trend exponential smoothing (Holt's
// linear method) to annual indicator series and projects them forward.
package forecast

import (
	"fmt"
	"math"

	"github.com/Hamid14147/market-analysis/internal/model"
)

// MinObservations is the shortest series the smoother accepts. Two points
// pin the initial state, a third gives the fit something to minimize.
const MinObservations = 3

// DefaultHorizon is the projection length used when callers pass none.
const DefaultHorizon = 5

// Grid resolution for the smoothing-parameter search.
const (
	gridStep = 0.05
	gridMin  = 0.05
	gridMax  = 0.95
)

// Fit holds the state of a fitted Holt model.
type Fit struct {
	Alpha float64 // level smoothing
	Beta  float64 // trend smoothing
	Level float64 // final level state
	Trend float64 // final trend state
	SSE   float64 // one-step-ahead squared error over the fit window
}

// Forecast returns the h-step-ahead projection from the fitted state.
func (f Fit) Forecast(h int) []float64 {
	out := make([]float64, h)
	for i := 0; i < h; i++ {
		out[i] = f.Level + float64(i+1)*f.Trend
	}
	return out
}

// Holt fits level and trend smoothing parameters by grid search,
// minimizing one-step-ahead squared error. Initial level is the first
// observation; initial trend is the mean first difference. The search is
// deterministic: ties keep the lowest (alpha, beta).
func Holt(series []float64) (Fit, error) {
	if len(series) < MinObservations {
		return Fit{}, fmt.Errorf("insufficient data: need %d observations, got %d", MinObservations, len(series))
	}

	best := Fit{SSE: math.Inf(1)}
	for alpha := gridMin; alpha <= gridMax+1e-9; alpha += gridStep {
		for beta := gridMin; beta <= gridMax+1e-9; beta += gridStep {
			fit := run(series, alpha, beta)
			if fit.SSE < best.SSE {
				best = fit
			}
		}
	}
	return best, nil
}

// run executes the smoothing recursions for one parameter pair.
func run(series []float64, alpha, beta float64) Fit {
	level := series[0]
	trend := meanDiff(series)

	var sse float64
	for t := 1; t < len(series); t++ {
		predicted := level + trend
		err := series[t] - predicted
		sse += err * err

		prevLevel := level
		level = alpha*series[t] + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
	}

	return Fit{Alpha: alpha, Beta: beta, Level: level, Trend: trend, SSE: sse}
}

func meanDiff(series []float64) float64 {
	var sum float64
	for i := 1; i < len(series); i++ {
		sum += series[i] - series[i-1]
	}
	return sum / float64(len(series)-1)
}

// Project fits the series and builds the metric forecast: projected
// values year by year, end-of-horizon growth versus the current value and
// the direction label.
func Project(metric string, years []int, values []float64, horizon int) (model.MetricForecast, error) {
	if horizon < 1 {
		return model.MetricForecast{}, fmt.Errorf("invalid horizon %d: must be at least 1", horizon)
	}
	if len(years) != len(values) {
		return model.MetricForecast{}, fmt.Errorf("series mismatch: %d years, %d values", len(years), len(values))
	}

	fit, err := Holt(values)
	if err != nil {
		return model.MetricForecast{}, fmt.Errorf("fit %s: %w", metric, err)
	}

	current := values[len(values)-1]
	projected := fit.Forecast(horizon)

	futureYears := make([]int, horizon)
	lastYear := years[len(years)-1]
	for i := range futureYears {
		futureYears[i] = lastYear + i + 1
	}

	growth := 0.0
	if current != 0 {
		growth = (projected[len(projected)-1]/current - 1) * 100
	}

	trend := "Decreasing"
	if projected[len(projected)-1] > current {
		trend = "Increasing"
	}

	return model.MetricForecast{
		Metric:     metric,
		Current:    current,
		Years:      futureYears,
		Values:     projected,
		GrowthRate: round2(growth),
		Trend:      trend,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
