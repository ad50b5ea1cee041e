package analyzer

import (
	"errors"
	"math"
	"testing"

	"github.com/Hamid14147/market-analysis/internal/dataset"
	"github.com/Hamid14147/market-analysis/internal/model"
)

func testCatalog(t *testing.T) *dataset.Catalog {
	t.Helper()
	catalog := dataset.NewCatalog()

	japan := model.Country{
		Code: "JP", Name: "Japan",
		Indicators: model.EconomicIndicators{GDP: 4.23, Population: 125.2, ConsumerSpending: 2.88, EconomicGrowth: 1.0},
		Strengths:  []string{"Advanced Infrastructure and Technology"},
		Weaknesses: []string{"Slow Economic Growth"},
		History: []model.IndicatorSeries{
			{
				Metric: model.MetricGDP,
				Years:  []int{2018, 2019, 2020, 2021, 2022},
				Values: []float64{4.95, 5.08, 4.97, 4.94, 4.23},
			},
			{
				Metric: model.MetricPopulation,
				Years:  []int{2018, 2019, 2020, 2021, 2022},
				Values: []float64{126.3, 126.1, 125.8, 125.5, 125.2},
			},
		},
		Risk: model.RiskProfile{
			Political:   model.RiskCategory{Score: 15, Factors: []string{"Stable political environment"}},
			Economic:    model.RiskCategory{Score: 25},
			Operational: model.RiskCategory{Score: 20},
			Technical:   model.RiskCategory{Score: 15},
		},
	}
	canada := model.Country{
		Code: "CA", Name: "Canada",
		Indicators: model.EconomicIndicators{GDP: 2.00, Population: 38.5, ConsumerSpending: 1.18, EconomicGrowth: 3.4},
		Risk: model.RiskProfile{
			Political:   model.RiskCategory{Score: 10},
			Economic:    model.RiskCategory{Score: 20},
			Operational: model.RiskCategory{Score: 15},
			Technical:   model.RiskCategory{Score: 18},
		},
	}

	for _, c := range []model.Country{japan, canada} {
		if err := catalog.Upsert(c); err != nil {
			t.Fatal(err)
		}
	}
	return catalog
}

func TestAssessCountry(t *testing.T) {
	a := New(testCatalog(t), 5)

	assessment, err := a.AssessCountry("JP")
	if err != nil {
		t.Fatalf("AssessCountry() error = %v", err)
	}

	if math.Abs(assessment.Score-81.41) > 0.02 {
		t.Errorf("Score = %v, want ~81.41", assessment.Score)
	}
	if assessment.Status != "Highly Suitable" {
		t.Errorf("Status = %v, want Highly Suitable", assessment.Status)
	}
	if math.Abs(assessment.Risk.Composite-19.0) > 1e-9 {
		t.Errorf("Risk composite = %v, want 19.0", assessment.Risk.Composite)
	}
	if assessment.Risk.Rating != "Low Risk" {
		t.Errorf("Risk rating = %v, want Low Risk", assessment.Risk.Rating)
	}
	if assessment.Metrics.GDP != "$4.23 Trillion USD" {
		t.Errorf("GDP display = %v", assessment.Metrics.GDP)
	}
	if assessment.Metrics.Population != "125.2 Million" {
		t.Errorf("Population display = %v", assessment.Metrics.Population)
	}
	if assessment.Metrics.EconomicGrowth != "1.0%" {
		t.Errorf("Growth display = %v", assessment.Metrics.EconomicGrowth)
	}

	// Two history series, two forecasts, each five years long.
	if len(assessment.Forecasts) != 2 {
		t.Fatalf("Forecasts = %d, want 2", len(assessment.Forecasts))
	}
	gdpForecast, ok := assessment.Forecast(model.MetricGDP)
	if !ok {
		t.Fatal("gdp forecast missing")
	}
	if len(gdpForecast.Values) != 5 {
		t.Errorf("gdp forecast length = %d, want 5", len(gdpForecast.Values))
	}
	if gdpForecast.Years[0] != 2023 {
		t.Errorf("gdp forecast starts %d, want 2023", gdpForecast.Years[0])
	}

	popForecast, _ := assessment.Forecast(model.MetricPopulation)
	if popForecast.Trend != "Decreasing" {
		t.Errorf("population trend = %v, want Decreasing", popForecast.Trend)
	}
}

func TestAssessCountryUnknown(t *testing.T) {
	a := New(testCatalog(t), 5)

	_, err := a.AssessCountry("XX")
	if !errors.Is(err, ErrUnknownCountry) {
		t.Errorf("error = %v, want ErrUnknownCountry", err)
	}
}

func TestAssessWithoutHistory(t *testing.T) {
	a := New(testCatalog(t), 5)

	assessment, err := a.AssessCountry("CA")
	if err != nil {
		t.Fatalf("AssessCountry() error = %v", err)
	}
	if len(assessment.Forecasts) != 0 {
		t.Errorf("Forecasts = %d, want 0 without history", len(assessment.Forecasts))
	}
	if assessment.Status != "Suitable" {
		t.Errorf("Status = %v, want Suitable", assessment.Status)
	}
}

func TestCompareMarkets(t *testing.T) {
	a := New(testCatalog(t), 5)

	report, err := a.CompareMarkets(nil)
	if err != nil {
		t.Fatalf("CompareMarkets() error = %v", err)
	}

	if len(report.Rankings) != 2 {
		t.Fatalf("Rankings = %d, want 2", len(report.Rankings))
	}
	if report.Rankings[0].Code != "JP" || report.Rankings[1].Code != "CA" {
		t.Errorf("ranking order = %v,%v, want JP,CA", report.Rankings[0].Code, report.Rankings[1].Code)
	}
	if report.Rankings[0].Rank != 1 || report.Rankings[1].Rank != 2 {
		t.Errorf("ranks = %d,%d, want 1,2", report.Rankings[0].Rank, report.Rankings[1].Rank)
	}
	if report.Rankings[0].Score < report.Rankings[1].Score {
		t.Error("rankings not sorted by score descending")
	}

	if len(report.Charts) != 4 {
		t.Fatalf("Charts = %d, want 4", len(report.Charts))
	}
	score := report.Charts[0]
	if score.Title != "Market Entry Score Comparison" {
		t.Errorf("chart title = %v", score.Title)
	}
	if len(score.Series) != 1 || len(score.Series[0].Data) != 2 {
		t.Errorf("score chart shape = %d series, want 1 with 2 points", len(score.Series))
	}
	if score.Series[0].Data[0].Label != "Japan" {
		t.Errorf("first point label = %v, want Japan (ranked first)", score.Series[0].Data[0].Label)
	}

	categories := report.Charts[2]
	if len(categories.Series) != 4 {
		t.Errorf("risk category chart series = %d, want 4", len(categories.Series))
	}
	metrics := report.Charts[3]
	if len(metrics.Series) != 3 {
		t.Errorf("metrics chart series = %d, want 3", len(metrics.Series))
	}
}

func TestCompareMarketsSubset(t *testing.T) {
	a := New(testCatalog(t), 5)

	report, err := a.CompareMarkets([]string{"CA"})
	if err != nil {
		t.Fatalf("CompareMarkets() error = %v", err)
	}
	if len(report.Rankings) != 1 || report.Rankings[0].Code != "CA" {
		t.Errorf("Rankings = %+v, want single CA entry", report.Rankings)
	}
}

func TestCompareMarketsRanksByRisk(t *testing.T) {
	a := New(testCatalog(t), 5)

	report, err := a.CompareMarkets(nil)
	if err != nil {
		t.Fatalf("CompareMarkets() error = %v", err)
	}

	if len(report.RiskRankings) != 2 {
		t.Fatalf("RiskRankings = %d, want 2", len(report.RiskRankings))
	}
	// CA carries less composite risk (16.0) than JP (19.0).
	if report.RiskRankings[0].Code != "CA" || report.RiskRankings[1].Code != "JP" {
		t.Errorf("risk order = %v,%v, want CA,JP", report.RiskRankings[0].Code, report.RiskRankings[1].Code)
	}
	if report.RiskRankings[0].RiskScore > report.RiskRankings[1].RiskScore {
		t.Error("risk rankings not sorted ascending")
	}
	if math.Abs(report.RiskRankings[0].RiskScore-16.0) > 1e-9 {
		t.Errorf("CA risk score = %v, want 16.0", report.RiskRankings[0].RiskScore)
	}
}

func TestCompareMarketsUnknownCode(t *testing.T) {
	a := New(testCatalog(t), 5)

	// An unknown code becomes an error entry; the valid markets are
	// still ranked.
	report, err := a.CompareMarkets([]string{"JP", "XX"})
	if err != nil {
		t.Fatalf("CompareMarkets() error = %v", err)
	}
	if len(report.Rankings) != 1 || report.Rankings[0].Code != "JP" {
		t.Errorf("Rankings = %+v, want single JP entry", report.Rankings)
	}
	if len(report.Errors) != 1 || report.Errors[0].Code != "XX" {
		t.Fatalf("Errors = %+v, want single XX entry", report.Errors)
	}
	if report.Errors[0].Error == "" {
		t.Error("error entry missing message")
	}
}

func TestCompareMarketsAllUnknown(t *testing.T) {
	a := New(testCatalog(t), 5)

	if _, err := a.CompareMarkets([]string{"XX", "YY"}); !errors.Is(err, ErrUnknownCountry) {
		t.Errorf("error = %v, want ErrUnknownCountry", err)
	}
}

func TestCompareMarketsEmptyCatalog(t *testing.T) {
	a := New(dataset.NewCatalog(), 5)

	if _, err := a.CompareMarkets(nil); err == nil {
		t.Error("CompareMarkets() on empty catalog expected error")
	}
}
