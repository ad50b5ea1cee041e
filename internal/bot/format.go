package bot

import (
	"fmt"
	"strings"

	"github.com/Hamid14147/market-analysis/internal/model"
)

// formatFreeAssessment renders the free-tier view: score and status.
func formatFreeAssessment(a *model.MarketAssessment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s - Market Entry Assessment*\n\n", a.Country)
	fmt.Fprintf(&b, "*Score:* %.1f / 100\n", a.Score)
	fmt.Fprintf(&b, "*Status:* %s\n\n", a.Status)
	b.WriteString("_Subscribe to unlock the risk breakdown and the five-year outlook._")
	return b.String()
}

// formatFullAssessment renders the subscriber view: metrics, risk
// detail and forecasts.
func formatFullAssessment(a *model.MarketAssessment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s - Market Entry Assessment*\n\n", a.Country)
	fmt.Fprintf(&b, "*Score:* %.1f / 100\n", a.Score)
	fmt.Fprintf(&b, "*Status:* %s\n\n", a.Status)

	b.WriteString("*Key Metrics:*\n")
	fmt.Fprintf(&b, "GDP: %s\n", a.Metrics.GDP)
	fmt.Fprintf(&b, "Population: %s\n", a.Metrics.Population)
	fmt.Fprintf(&b, "Consumer Spending: %s\n", a.Metrics.ConsumerSpending)
	fmt.Fprintf(&b, "Economic Growth: %s\n\n", a.Metrics.EconomicGrowth)

	fmt.Fprintf(&b, "*Risk:* %.1f (%s)\n", a.Risk.Composite, a.Risk.Rating)
	for _, cat := range a.Risk.Categories {
		fmt.Fprintf(&b, "• %s: %.0f\n", cat.Name, cat.Score)
	}
	b.WriteString("\n")

	if len(a.Forecasts) > 0 {
		b.WriteString("*Five-Year Outlook:*\n")
		for _, f := range a.Forecasts {
			fmt.Fprintf(&b, "• %s: %+.1f%% (%s)\n", metricLabel(f.Metric), f.GrowthRate, f.Trend)
		}
		b.WriteString("\n")
	}

	if len(a.Strengths) > 0 {
		b.WriteString("*Strengths:*\n")
		for _, item := range a.Strengths {
			fmt.Fprintf(&b, "• %s\n", item)
		}
	}
	if len(a.Weaknesses) > 0 {
		b.WriteString("\n*Weaknesses:*\n")
		for _, item := range a.Weaknesses {
			fmt.Fprintf(&b, "• %s\n", item)
		}
	}
	return b.String()
}

func metricLabel(metric string) string {
	switch metric {
	case model.MetricGDP:
		return "GDP"
	case model.MetricPopulation:
		return "Population"
	case model.MetricConsumerSpending:
		return "Consumer Spending"
	case model.MetricEconomicGrowth:
		return "Economic Growth"
	}
	return metric
}
