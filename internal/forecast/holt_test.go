package forecast

import (
	"math"
	"testing"
)

func TestHoltLinearSeries(t *testing.T) {
	// A perfectly linear series is reproduced exactly: level ends at the
	// last observation, trend at the slope.
	series := []float64{10, 12, 14, 16, 18, 20}

	fit, err := Holt(series)
	if err != nil {
		t.Fatalf("Holt() error = %v", err)
	}

	if math.Abs(fit.Level-20) > 1e-6 {
		t.Errorf("Level = %v, want 20", fit.Level)
	}
	if math.Abs(fit.Trend-2) > 1e-6 {
		t.Errorf("Trend = %v, want 2", fit.Trend)
	}
	if fit.SSE > 1e-9 {
		t.Errorf("SSE = %v, want ~0 for linear input", fit.SSE)
	}

	forecast := fit.Forecast(3)
	expected := []float64{22, 24, 26}
	for i, want := range expected {
		if math.Abs(forecast[i]-want) > 1e-6 {
			t.Errorf("Forecast[%d] = %v, want %v", i, forecast[i], want)
		}
	}
}

func TestHoltConstantSeries(t *testing.T) {
	series := []float64{5, 5, 5, 5, 5}

	fit, err := Holt(series)
	if err != nil {
		t.Fatalf("Holt() error = %v", err)
	}

	for i, v := range fit.Forecast(4) {
		if math.Abs(v-5) > 1e-6 {
			t.Errorf("Forecast[%d] = %v, want 5", i, v)
		}
	}
}

func TestHoltInsufficientData(t *testing.T) {
	tests := [][]float64{nil, {1}, {1, 2}}

	for _, series := range tests {
		if _, err := Holt(series); err == nil {
			t.Errorf("Holt(%v) expected error, got nil", series)
		}
	}
}

func TestHoltIsDeterministic(t *testing.T) {
	series := []float64{2.47, 2.46, 1.80, 1.80, 2.06, 1.92, 1.88, 1.45, 1.61, 1.84}

	first, err := Holt(series)
	if err != nil {
		t.Fatalf("Holt() error = %v", err)
	}
	second, _ := Holt(series)

	if first != second {
		t.Errorf("Holt() not deterministic: %+v then %+v", first, second)
	}
}

func TestHoltTracksTrendingSeries(t *testing.T) {
	// Noisy upward series: the projection should continue upward from the
	// neighborhood of the last observations.
	series := []float64{100, 104, 103, 109, 112, 111, 118, 121, 124, 127}

	fit, err := Holt(series)
	if err != nil {
		t.Fatalf("Holt() error = %v", err)
	}
	if fit.Trend <= 0 {
		t.Errorf("Trend = %v, want positive for rising series", fit.Trend)
	}

	forecast := fit.Forecast(5)
	if forecast[4] <= series[len(series)-1] {
		t.Errorf("Forecast end = %v, want above last observation %v", forecast[4], series[len(series)-1])
	}
	if forecast[0] < 110 || forecast[0] > 145 {
		t.Errorf("Forecast start = %v, want near recent level", forecast[0])
	}
}

func TestProject(t *testing.T) {
	years := []int{2013, 2014, 2015, 2016, 2017, 2018}
	values := []float64{10, 12, 14, 16, 18, 20}

	result, err := Project("gdp", years, values, 3)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}

	if result.Metric != "gdp" {
		t.Errorf("Metric = %v, want gdp", result.Metric)
	}
	if result.Current != 20 {
		t.Errorf("Current = %v, want 20", result.Current)
	}
	wantYears := []int{2019, 2020, 2021}
	for i, y := range wantYears {
		if result.Years[i] != y {
			t.Errorf("Years[%d] = %v, want %v", i, result.Years[i], y)
		}
	}
	// 26 versus 20 at the horizon end.
	if math.Abs(result.GrowthRate-30) > 0.1 {
		t.Errorf("GrowthRate = %v, want 30", result.GrowthRate)
	}
	if result.Trend != "Increasing" {
		t.Errorf("Trend = %v, want Increasing", result.Trend)
	}
}

func TestProjectDecreasing(t *testing.T) {
	years := []int{2018, 2019, 2020, 2021, 2022}
	values := []float64{50, 46, 44, 40, 38}

	result, err := Project("gdp", years, values, 5)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if result.Trend != "Decreasing" {
		t.Errorf("Trend = %v, want Decreasing", result.Trend)
	}
	if result.GrowthRate >= 0 {
		t.Errorf("GrowthRate = %v, want negative", result.GrowthRate)
	}
}

func TestProjectFlatSeriesIsNotIncreasing(t *testing.T) {
	years := []int{2019, 2020, 2021, 2022}
	values := []float64{7, 7, 7, 7}

	result, err := Project("population", years, values, 2)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if result.Trend != "Decreasing" {
		t.Errorf("Trend = %v, want Decreasing for flat series", result.Trend)
	}
	if result.GrowthRate != 0 {
		t.Errorf("GrowthRate = %v, want 0", result.GrowthRate)
	}
}

func TestProjectGuards(t *testing.T) {
	years := []int{2020, 2021, 2022}
	values := []float64{1, 2, 3}

	if _, err := Project("gdp", years, values, 0); err == nil {
		t.Error("Project() with zero horizon expected error")
	}
	if _, err := Project("gdp", years[:2], values, 5); err == nil {
		t.Error("Project() with mismatched series expected error")
	}
	if _, err := Project("gdp", []int{2022}, []float64{1}, 5); err == nil {
		t.Error("Project() with short series expected error")
	}
}

func TestProjectZeroCurrentValue(t *testing.T) {
	// Growth rate is undefined against a zero base; it reports as zero
	// instead of dividing by zero.
	years := []int{2019, 2020, 2021, 2022}
	values := []float64{-2, -1, -0.5, 0}

	result, err := Project("economic_growth", years, values, 2)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if result.GrowthRate != 0 {
		t.Errorf("GrowthRate = %v, want 0 for zero base", result.GrowthRate)
	}
}
