package analyzer

import (
	"github.com/Hamid14147/market-analysis/internal/model"
	"github.com/Hamid14147/market-analysis/internal/risk"
)

// buildComparisonCharts produces the four standard comparison panels:
// entry scores, composite risk, risk category breakdown and headline
// economic metrics.
func buildComparisonCharts(assessments []model.MarketAssessment) []model.ChartConfig {
	if len(assessments) == 0 {
		return nil
	}
	return []model.ChartConfig{
		buildScoreChart(assessments),
		buildRiskChart(assessments),
		buildRiskCategoryChart(assessments),
		buildMetricsChart(assessments),
	}
}

func buildScoreChart(assessments []model.MarketAssessment) model.ChartConfig {
	points := make([]model.ChartPoint, 0, len(assessments))
	for _, a := range assessments {
		points = append(points, model.ChartPoint{Label: a.Country, Value: a.Score})
	}
	return model.ChartConfig{
		ChartType: model.ChartBar,
		Title:     "Market Entry Score Comparison",
		XAxis:     "Country",
		YAxis:     "Score",
		Series:    []model.ChartSeries{{Name: "Market Entry Score", Data: points}},
	}
}

func buildRiskChart(assessments []model.MarketAssessment) model.ChartConfig {
	points := make([]model.ChartPoint, 0, len(assessments))
	for _, a := range assessments {
		points = append(points, model.ChartPoint{Label: a.Country, Value: a.Risk.Composite})
	}
	return model.ChartConfig{
		ChartType: model.ChartBar,
		Title:     "Overall Risk Score Comparison (Lower is Better)",
		XAxis:     "Country",
		YAxis:     "Risk Score",
		Series:    []model.ChartSeries{{Name: "Composite Risk", Data: points}},
	}
}

func buildRiskCategoryChart(assessments []model.MarketAssessment) model.ChartConfig {
	categories := []string{risk.CategoryPolitical, risk.CategoryEconomic, risk.CategoryOperational, risk.CategoryTechnical}

	series := make([]model.ChartSeries, 0, len(categories))
	for _, category := range categories {
		points := make([]model.ChartPoint, 0, len(assessments))
		for _, a := range assessments {
			points = append(points, model.ChartPoint{Label: a.Country, Value: categoryScore(a.Risk, category)})
		}
		series = append(series, model.ChartSeries{Name: category, Data: points})
	}
	return model.ChartConfig{
		ChartType: model.ChartBar,
		Title:     "Risk Category Breakdown",
		XAxis:     "Country",
		YAxis:     "Risk Score",
		Series:    series,
	}
}

func buildMetricsChart(assessments []model.MarketAssessment) model.ChartConfig {
	gdp := make([]model.ChartPoint, 0, len(assessments))
	spending := make([]model.ChartPoint, 0, len(assessments))
	growth := make([]model.ChartPoint, 0, len(assessments))

	for _, a := range assessments {
		gdp = append(gdp, model.ChartPoint{Label: a.Country, Value: a.Breakdown.MarketSize})
		spending = append(spending, model.ChartPoint{Label: a.Country, Value: a.Breakdown.Spending})
		growth = append(growth, model.ChartPoint{Label: a.Country, Value: a.Breakdown.Growth})
	}
	return model.ChartConfig{
		ChartType: model.ChartBar,
		Title:     "Economic Metrics Comparison",
		XAxis:     "Country",
		YAxis:     "Normalized Value",
		Series: []model.ChartSeries{
			{Name: "GDP", Data: gdp},
			{Name: "Consumer Spending", Data: spending},
			{Name: "Economic Growth", Data: growth},
		},
	}
}

func categoryScore(r model.RiskAssessment, name string) float64 {
	for _, c := range r.Categories {
		if c.Name == name {
			return c.Score
		}
	}
	return 0
}
