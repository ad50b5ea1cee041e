package dataset

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Hamid14147/market-analysis/internal/model"
)

const fixtureCountries = `[
  {
    "code": "JP",
    "name": "Japan",
    "indicators": {"gdp": 4.23, "population": 125.2, "consumer_spending": 2.88, "economic_growth": 1.0},
    "strengths": ["Advanced Infrastructure and Technology"],
    "weaknesses": ["Slow Economic Growth"],
    "risk": {
      "political": {"score": 15, "factors": ["Stable political environment"]},
      "economic": {"score": 25},
      "operational": {"score": 20},
      "technical": {"score": 15}
    }
  },
  {
    "code": "CA",
    "name": "Canada",
    "indicators": {"gdp": 2.0, "population": 38.5, "consumer_spending": 1.18, "economic_growth": 3.4},
    "risk": {
      "political": {"score": 10},
      "economic": {"score": 20},
      "operational": {"score": 15},
      "technical": {"score": 18}
    }
  }
]`

const fixtureHistory = `metric,year,value
gdp,2020,4.97
gdp,2021,4.94
gdp,2022,4.23
population,2020,125.8
population,2021,125.5
population,2022,125.2
`

func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "countries.json"), []byte(fixtureCountries), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "history"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "history", "JP.csv"), []byte(fixtureHistory), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoad(t *testing.T) {
	catalog, err := Load(writeFixtures(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if catalog.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", catalog.Len())
	}

	japan, ok := catalog.Get("JP")
	if !ok {
		t.Fatal("Get(JP) not found")
	}
	if japan.Name != "Japan" {
		t.Errorf("Name = %v, want Japan", japan.Name)
	}
	if japan.Indicators.GDP != 4.23 {
		t.Errorf("GDP = %v, want 4.23", japan.Indicators.GDP)
	}
	if japan.Risk.Economic.Score != 25 {
		t.Errorf("economic risk = %v, want 25", japan.Risk.Economic.Score)
	}
	if len(japan.History) != 2 {
		t.Fatalf("History = %d series, want 2", len(japan.History))
	}

	gdp, ok := japan.Series(model.MetricGDP)
	if !ok {
		t.Fatal("gdp series missing")
	}
	if gdp.Years[0] != 2020 || gdp.Values[2] != 4.23 {
		t.Errorf("gdp series = %+v, unexpected content", gdp)
	}

	// Canada has no history file; it loads with none.
	canada, _ := catalog.Get("CA")
	if len(canada.History) != 0 {
		t.Errorf("CA history = %d series, want 0", len(canada.History))
	}
}

func TestLoadMissingCountriesFile(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("Load() on empty dir expected error")
	}
}

func TestCodesPreserveLoadOrder(t *testing.T) {
	catalog, err := Load(writeFixtures(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	codes := catalog.Codes()
	if len(codes) != 2 || codes[0] != "JP" || codes[1] != "CA" {
		t.Errorf("Codes() = %v, want [JP CA]", codes)
	}
}

func TestUpsertReplaces(t *testing.T) {
	catalog := NewCatalog()
	country := model.Country{
		Code: "FR", Name: "France",
		Indicators: model.EconomicIndicators{GDP: 2.78, Population: 67.8, ConsumerSpending: 1.65},
	}

	if err := catalog.Upsert(country); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	country.Indicators.EconomicGrowth = 2.5
	if err := catalog.Upsert(country); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if catalog.Len() != 1 {
		t.Errorf("Len() = %d, want 1", catalog.Len())
	}
	got, _ := catalog.Get("FR")
	if got.Indicators.EconomicGrowth != 2.5 {
		t.Errorf("EconomicGrowth = %v, want 2.5 after replace", got.Indicators.EconomicGrowth)
	}
}

func TestLoadSeriesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "XX.csv")
	// Rows arrive out of order; loading sorts them by year.
	content := "metric,year,value\ngdp,2022,3.0\ngdp,2020,1.0\ngdp,2021,2.0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	series, err := LoadSeriesCSV(path)
	if err != nil {
		t.Fatalf("LoadSeriesCSV() error = %v", err)
	}
	if len(series) != 1 {
		t.Fatalf("series = %d, want 1", len(series))
	}
	wantYears := []int{2020, 2021, 2022}
	for i, y := range wantYears {
		if series[0].Years[i] != y {
			t.Errorf("Years[%d] = %v, want %v", i, series[0].Years[i], y)
		}
	}
	if series[0].Values[2] != 3.0 {
		t.Errorf("Values[2] = %v, want 3.0", series[0].Values[2])
	}
}

func TestLoadSeriesCSVBadRow(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad year", content: "gdp,20x2,1.0\n"},
		{name: "bad value", content: "gdp,2022,abc\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.csv")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadSeriesCSV(path); err == nil {
				t.Error("LoadSeriesCSV() expected error")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := model.Country{
		Code: "JP", Name: "Japan",
		Indicators: model.EconomicIndicators{GDP: 4.23, Population: 125.2, ConsumerSpending: 2.88, EconomicGrowth: 1.0},
		History: []model.IndicatorSeries{
			{Metric: model.MetricGDP, Years: []int{2021, 2022}, Values: []float64{4.94, 4.23}},
		},
	}

	if err := Validate(valid); err != nil {
		t.Fatalf("Validate(valid) = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*model.Country)
	}{
		{name: "empty code", mutate: func(c *model.Country) { c.Code = "" }},
		{name: "long code", mutate: func(c *model.Country) { c.Code = "JPN" }},
		{name: "missing name", mutate: func(c *model.Country) { c.Name = "" }},
		{name: "negative gdp", mutate: func(c *model.Country) { c.Indicators.GDP = -1 }},
		{name: "nan gdp", mutate: func(c *model.Country) { c.Indicators.GDP = math.NaN() }},
		{name: "zero population", mutate: func(c *model.Country) { c.Indicators.Population = 0 }},
		{name: "inf population", mutate: func(c *model.Country) { c.Indicators.Population = math.Inf(1) }},
		{name: "inf spending", mutate: func(c *model.Country) { c.Indicators.ConsumerSpending = math.Inf(1) }},
		{name: "nan growth", mutate: func(c *model.Country) { c.Indicators.EconomicGrowth = math.NaN() }},
		{name: "risk above 100", mutate: func(c *model.Country) { c.Risk.Political.Score = 101 }},
		{name: "negative risk", mutate: func(c *model.Country) { c.Risk.Technical.Score = -5 }},
		{name: "nan risk", mutate: func(c *model.Country) { c.Risk.Economic.Score = math.NaN() }},
		{name: "unknown metric", mutate: func(c *model.Country) { c.History[0].Metric = "inflation" }},
		{name: "length mismatch", mutate: func(c *model.Country) { c.History[0].Values = []float64{1} }},
		{name: "unsorted years", mutate: func(c *model.Country) { c.History[0].Years = []int{2022, 2021} }},
		{name: "duplicate years", mutate: func(c *model.Country) { c.History[0].Years = []int{2022, 2022} }},
		{name: "nan series value", mutate: func(c *model.Country) { c.History[0].Values[1] = math.NaN() }},
		{name: "inf series value", mutate: func(c *model.Country) { c.History[0].Values[0] = math.Inf(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			country := valid
			country.History = []model.IndicatorSeries{{
				Metric: model.MetricGDP,
				Years:  []int{2021, 2022},
				Values: []float64{4.94, 4.23},
			}}
			tt.mutate(&country)
			if err := Validate(country); err == nil {
				t.Error("Validate() expected error")
			}
		})
	}
}
