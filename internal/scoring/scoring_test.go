package scoring

import (
	"math"
	"testing"

	"github.com/Hamid14147/market-analysis/internal/model"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name          string
		indicators    model.EconomicIndicators
		compositeRisk float64
		expectedScore float64
		expectedState string
	}{
		{
			name: "large mature economy",
			indicators: model.EconomicIndicators{
				GDP: 4.23, Population: 125.2, ConsumerSpending: 2.88, EconomicGrowth: 1.0,
			},
			compositeRisk: 19.0,
			expectedScore: 81.41,
			expectedState: "Highly Suitable",
		},
		{
			name: "mid-size european economy",
			indicators: model.EconomicIndicators{
				GDP: 2.78, Population: 67.8, ConsumerSpending: 1.65, EconomicGrowth: 2.5,
			},
			compositeRisk: 20.5,
			expectedScore: 71.48,
			expectedState: "Very Suitable",
		},
		{
			name: "small stable economy",
			indicators: model.EconomicIndicators{
				GDP: 2.00, Population: 38.5, ConsumerSpending: 1.18, EconomicGrowth: 3.4,
			},
			compositeRisk: 16.0,
			expectedScore: 68.71,
			expectedState: "Suitable",
		},
		{
			name: "large high-risk emerging economy",
			indicators: model.EconomicIndicators{
				GDP: 1.84, Population: 214.3, ConsumerSpending: 1.15, EconomicGrowth: 2.9,
			},
			compositeRisk: 34.5,
			expectedScore: 62.08,
			expectedState: "Suitable",
		},
		{
			name:          "zero everything",
			indicators:    model.EconomicIndicators{EconomicGrowth: -2},
			compositeRisk: 100,
			expectedScore: 0,
			expectedState: "Moderately Suitable",
		},
		{
			name: "everything maxed",
			indicators: model.EconomicIndicators{
				GDP: 10, Population: 500, ConsumerSpending: 5, EconomicGrowth: 8,
			},
			compositeRisk: 0,
			expectedScore: 100,
			expectedState: "Highly Suitable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, _ := Score(tt.indicators, tt.compositeRisk)
			if math.Abs(score-tt.expectedScore) > 0.02 {
				t.Errorf("Score() = %v, want %v", score, tt.expectedScore)
			}
			if got := Status(score); got != tt.expectedState {
				t.Errorf("Status(%v) = %v, want %v", score, got, tt.expectedState)
			}
		})
	}
}

func TestScoreStaysInRange(t *testing.T) {
	extremes := []model.EconomicIndicators{
		{GDP: -5, Population: -10, ConsumerSpending: -3, EconomicGrowth: -50},
		{GDP: 100, Population: 5000, ConsumerSpending: 80, EconomicGrowth: 40},
		{},
	}
	risks := []float64{-10, 0, 50, 100, 250}

	for _, ind := range extremes {
		for _, r := range risks {
			score, _ := Score(ind, r)
			if score < 0 || score > 100 {
				t.Errorf("Score(%+v, %v) = %v, out of [0,100]", ind, r, score)
			}
		}
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	ind := model.EconomicIndicators{GDP: 2.78, Population: 67.8, ConsumerSpending: 1.65, EconomicGrowth: 2.5}

	first, _ := Score(ind, 20.5)
	for i := 0; i < 10; i++ {
		again, _ := Score(ind, 20.5)
		if again != first {
			t.Fatalf("Score() not deterministic: %v then %v", first, again)
		}
	}
}

func TestScoreBreakdown(t *testing.T) {
	ind := model.EconomicIndicators{GDP: 2.0, Population: 75, ConsumerSpending: 1.25, EconomicGrowth: 2.0}

	_, b := Score(ind, 20)

	if math.Abs(b.MarketSize-50) > 1e-9 {
		t.Errorf("MarketSize = %v, want 50", b.MarketSize)
	}
	if math.Abs(b.Spending-50) > 1e-9 {
		t.Errorf("Spending = %v, want 50", b.Spending)
	}
	if math.Abs(b.Population-50) > 1e-9 {
		t.Errorf("Population = %v, want 50", b.Population)
	}
	if math.Abs(b.Growth-50) > 1e-9 {
		t.Errorf("Growth = %v, want 50", b.Growth)
	}
	if math.Abs(b.Economic-50) > 1e-9 {
		t.Errorf("Economic = %v, want 50", b.Economic)
	}
	if math.Abs(b.RiskAdjusted-80) > 1e-9 {
		t.Errorf("RiskAdjusted = %v, want 80", b.RiskAdjusted)
	}
}

func TestHigherRiskLowersScore(t *testing.T) {
	ind := model.EconomicIndicators{GDP: 3, Population: 100, ConsumerSpending: 2, EconomicGrowth: 2}

	low, _ := Score(ind, 10)
	high, _ := Score(ind, 40)
	if low <= high {
		t.Errorf("score with risk 10 (%v) should exceed score with risk 40 (%v)", low, high)
	}
}

func TestStatusBoundaries(t *testing.T) {
	tests := []struct {
		score    float64
		expected string
	}{
		{80, "Highly Suitable"},
		{79.99, "Very Suitable"},
		{70, "Very Suitable"},
		{69.99, "Suitable"},
		{55, "Suitable"},
		{54.99, "Moderately Suitable"},
		{0, "Moderately Suitable"},
	}

	for _, tt := range tests {
		if got := Status(tt.score); got != tt.expected {
			t.Errorf("Status(%v) = %v, want %v", tt.score, got, tt.expected)
		}
	}
}
