// Package evaluation scores the forecaster against held-out history: the
// tail of each series is hidden from the fit and compared with the
// projection.
package evaluation

import (
	"fmt"
	"math"
	"sort"

	"github.com/Hamid14147/market-analysis/internal/forecast"
	"github.com/Hamid14147/market-analysis/internal/model"
)

// MetricResult holds hold-out accuracy for one metric series.
type MetricResult struct {
	Metric       string  `json:"metric"`
	Holdout      int     `json:"holdout"`
	MAE          float64 `json:"mae"`
	MAPE         float64 `json:"mape"`          // percent, zero actuals skipped
	DirectionHit float64 `json:"direction_hit"` // percent of held-out steps moving the predicted way
}

// Result aggregates per-metric outcomes for one country.
type Result struct {
	Country  string         `json:"country"`
	Metrics  []MetricResult `json:"metrics"`
	MeanMAPE float64        `json:"mean_mape"`
}

// Evaluate hides the last holdout observations of every history series,
// fits on the remainder and scores the projection against what actually
// happened. Series too short to split are skipped; if none qualify an
// error is returned.
func Evaluate(country model.Country, holdout int) (*Result, error) {
	if holdout < 1 {
		return nil, fmt.Errorf("invalid holdout %d: must be at least 1", holdout)
	}

	result := &Result{Country: country.Name}

	for _, series := range country.History {
		if len(series.Values) < forecast.MinObservations+holdout {
			continue
		}

		split := len(series.Values) - holdout
		fit, err := forecast.Holt(series.Values[:split])
		if err != nil {
			continue
		}

		predicted := fit.Forecast(holdout)
		actual := series.Values[split:]
		base := series.Values[split-1]

		result.Metrics = append(result.Metrics, score(series.Metric, holdout, base, predicted, actual))
	}

	if len(result.Metrics) == 0 {
		return nil, fmt.Errorf("no series long enough to evaluate: need %d observations", forecast.MinObservations+holdout)
	}

	var sum float64
	for _, m := range result.Metrics {
		sum += m.MAPE
	}
	result.MeanMAPE = round2(sum / float64(len(result.Metrics)))

	sort.Slice(result.Metrics, func(i, j int) bool { return result.Metrics[i].Metric < result.Metrics[j].Metric })
	return result, nil
}

// score compares one projection with its held-out actuals. base is the
// last observation the fit saw; direction is judged against it.
func score(metric string, holdout int, base float64, predicted, actual []float64) MetricResult {
	var absErr, pctErr float64
	pctCount := 0
	hits := 0

	for i := range actual {
		err := predicted[i] - actual[i]
		absErr += math.Abs(err)

		if actual[i] != 0 {
			pctErr += math.Abs(err/actual[i]) * 100
			pctCount++
		}

		if sameDirection(predicted[i]-base, actual[i]-base) {
			hits++
		}
	}

	out := MetricResult{
		Metric:  metric,
		Holdout: holdout,
		MAE:     round2(absErr / float64(len(actual))),
	}
	if pctCount > 0 {
		out.MAPE = round2(pctErr / float64(pctCount))
	}
	out.DirectionHit = round2(float64(hits) / float64(len(actual)) * 100)
	return out
}

func sameDirection(a, b float64) bool {
	if a > 0 {
		return b > 0
	}
	if a < 0 {
		return b < 0
	}
	return b == 0
}

// FormatResults creates a human-readable summary of an evaluation run.
func FormatResults(r *Result) string {
	if r == nil {
		return "No evaluation results available"
	}

	output := "\n===== FORECAST EVALUATION =====\n"
	output += fmt.Sprintf("Country: %s\n", r.Country)
	output += fmt.Sprintf("Mean MAPE: %.2f%%\n", r.MeanMAPE)

	for _, m := range r.Metrics {
		output += fmt.Sprintf("- %s: MAE %.2f, MAPE %.2f%%, direction hit %.2f%% (holdout %d)\n",
			m.Metric, m.MAE, m.MAPE, m.DirectionHit, m.Holdout)
	}

	return output
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
