package report

import (
	"fmt"
	"os"

	"github.com/Hamid14147/market-analysis/internal/model"
)

// WriteMarkdown renders the human-readable summary: rankings first, then
// one section per market with risk detail and the metric outlook.
func WriteMarkdown(path string, r *model.ComparisonReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(f, "# Market Entry Analysis\n\n")
	fmt.Fprintf(f, "Generated: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04 UTC"))

	fmt.Fprintf(f, "## Rankings\n\n")
	fmt.Fprintf(f, "| Rank | Country | Score | Status | Risk |\n")
	fmt.Fprintf(f, "|------|---------|-------|--------|------|\n")
	for _, rk := range r.Rankings {
		fmt.Fprintf(f, "| %d | %s | %.2f | %s | %s |\n", rk.Rank, rk.Country, rk.Score, rk.Status, rk.RiskRating)
	}
	fmt.Fprintf(f, "\n")

	for _, a := range r.Assessments {
		fmt.Fprintf(f, "## %s\n\n", a.Country)
		fmt.Fprintf(f, "**Market Entry Score: %.2f (%s)**\n\n", a.Score, a.Status)
		fmt.Fprintf(f, "- GDP: %s\n", a.Metrics.GDP)
		fmt.Fprintf(f, "- Population: %s\n", a.Metrics.Population)
		fmt.Fprintf(f, "- Consumer Spending: %s\n", a.Metrics.ConsumerSpending)
		fmt.Fprintf(f, "- Economic Growth: %s\n\n", a.Metrics.EconomicGrowth)

		fmt.Fprintf(f, "### Risk: %.2f (%s)\n\n", a.Risk.Composite, a.Risk.Rating)
		for _, c := range a.Risk.Categories {
			fmt.Fprintf(f, "- %s: %.0f\n", c.Name, c.Score)
			for _, factor := range c.Factors {
				fmt.Fprintf(f, "  - %s\n", factor)
			}
		}
		fmt.Fprintf(f, "\n")

		if len(a.Strengths) > 0 {
			fmt.Fprintf(f, "### Strengths\n\n")
			for _, s := range a.Strengths {
				fmt.Fprintf(f, "- %s\n", s)
			}
			fmt.Fprintf(f, "\n")
		}
		if len(a.Weaknesses) > 0 {
			fmt.Fprintf(f, "### Weaknesses\n\n")
			for _, w := range a.Weaknesses {
				fmt.Fprintf(f, "- %s\n", w)
			}
			fmt.Fprintf(f, "\n")
		}

		if len(a.Forecasts) > 0 {
			fmt.Fprintf(f, "### Outlook\n\n")
			for _, fc := range a.Forecasts {
				end := fc.Values[len(fc.Values)-1]
				fmt.Fprintf(f, "- %s: %s, %.2f%% over %d years (to %.2f)\n",
					fc.Metric, fc.Trend, fc.GrowthRate, len(fc.Years), end)
			}
			fmt.Fprintf(f, "\n")
		}
	}

	return nil
}
