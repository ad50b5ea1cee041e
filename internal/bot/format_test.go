package bot

import (
	"strings"
	"testing"

	"github.com/Hamid14147/market-analysis/internal/model"
)

func sampleAssessment() *model.MarketAssessment {
	return &model.MarketAssessment{
		Code:    "JP",
		Country: "Japan",
		Score:   78.4,
		Status:  "Very Suitable",
		Metrics: model.FormattedMetrics{
			GDP:              "$4.23 Trillion USD",
			Population:       "125.2 Million",
			ConsumerSpending: "$2.10 Trillion USD",
			EconomicGrowth:   "1.0%",
		},
		Risk: model.RiskAssessment{
			Composite: 22.5,
			Rating:    "Low Risk",
			Categories: []model.CategoryScore{
				{Name: "Political", Score: 15},
				{Name: "Economic", Score: 30},
			},
		},
		Strengths: []string{"Advanced technology infrastructure"},
		Forecasts: []model.MetricForecast{
			{Metric: model.MetricGDP, GrowthRate: 3.2, Trend: "Increasing"},
		},
	}
}

func TestFormatFreeAssessmentHidesPremiumSections(t *testing.T) {
	text := formatFreeAssessment(sampleAssessment())

	if !strings.Contains(text, "78.4") {
		t.Error("free view missing score")
	}
	if !strings.Contains(text, "Very Suitable") {
		t.Error("free view missing status")
	}
	if strings.Contains(text, "Low Risk") {
		t.Error("free view must not expose the risk rating")
	}
	if strings.Contains(text, "Outlook") {
		t.Error("free view must not expose forecasts")
	}
}

func TestFormatFullAssessment(t *testing.T) {
	text := formatFullAssessment(sampleAssessment())

	for _, want := range []string{
		"Japan", "78.4", "Very Suitable",
		"$4.23 Trillion USD", "Low Risk", "Political",
		"Five-Year Outlook", "GDP: +3.2% (Increasing)",
		"Advanced technology infrastructure",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("full view missing %q", want)
		}
	}
}

func TestMetricLabel(t *testing.T) {
	if got := metricLabel(model.MetricConsumerSpending); got != "Consumer Spending" {
		t.Errorf("metricLabel = %q", got)
	}
	if got := metricLabel("custom"); got != "custom" {
		t.Errorf("unknown metric should pass through, got %q", got)
	}
}
