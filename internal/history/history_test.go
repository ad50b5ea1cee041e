package history

import (
	"math"
	"testing"

	"github.com/Hamid14147/market-analysis/internal/model"
)

func assessment(code string, score float64) *model.MarketAssessment {
	return &model.MarketAssessment{
		Code:    code,
		Country: "Testland",
		Score:   score,
		Status:  "Suitable",
		Risk:    model.RiskAssessment{Composite: 20, Rating: "Low Risk"},
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name          string
		prev, curr    float64
		expectedDir   Direction
		expectedLabel string
		expectedDelta float64
	}{
		{name: "improving", prev: 60, curr: 66, expectedDir: Up, expectedLabel: LabelImproving, expectedDelta: 6},
		{name: "declining", prev: 66, curr: 60, expectedDir: Down, expectedLabel: LabelDeclining, expectedDelta: -6},
		{name: "same", prev: 70, curr: 70, expectedDir: Flat, expectedLabel: LabelSame, expectedDelta: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.prev, tt.curr)
			if got.Direction != tt.expectedDir {
				t.Errorf("Direction = %v, want %v", got.Direction, tt.expectedDir)
			}
			if got.Label != tt.expectedLabel {
				t.Errorf("Label = %v, want %v", got.Label, tt.expectedLabel)
			}
			if math.Abs(got.DeltaScore-tt.expectedDelta) > 1e-9 {
				t.Errorf("DeltaScore = %v, want %v", got.DeltaScore, tt.expectedDelta)
			}
		})
	}
}

func TestComputePercent(t *testing.T) {
	got := Compute(50, 60)
	if math.Abs(got.DeltaPercent-20) > 1e-9 {
		t.Errorf("DeltaPercent = %v, want 20", got.DeltaPercent)
	}

	// Zero base cannot produce a percentage.
	got = Compute(0, 60)
	if got.DeltaPercent != 0 {
		t.Errorf("DeltaPercent from zero = %v, want 0", got.DeltaPercent)
	}
}

func TestRecordFirstRun(t *testing.T) {
	store := NewStore(t.TempDir(), 0)

	trend, err := store.Record(assessment("JP", 81.4))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if trend.Label != LabelFirstRun {
		t.Errorf("Label = %v, want FIRST_RUN", trend.Label)
	}
	if trend.To != 81.4 {
		t.Errorf("To = %v, want 81.4", trend.To)
	}

	idx, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(idx.Entries) != 1 {
		t.Fatalf("Entries = %d, want 1", len(idx.Entries))
	}
	entry := idx.Entries[0]
	if entry.Code != "JP" || entry.Score != 81.4 || entry.SnapshotFile == "" {
		t.Errorf("entry = %+v", entry)
	}
}

func TestRecordTrendAgainstSameCountry(t *testing.T) {
	store := NewStore(t.TempDir(), 0)

	if _, err := store.Record(assessment("JP", 80)); err != nil {
		t.Fatal(err)
	}
	// A different market in between must not affect Japan's trend.
	if _, err := store.Record(assessment("BR", 60)); err != nil {
		t.Fatal(err)
	}

	trend, err := store.Record(assessment("JP", 82))
	if err != nil {
		t.Fatal(err)
	}
	if trend.Label != LabelImproving {
		t.Errorf("Label = %v, want IMPROVING", trend.Label)
	}
	if trend.From != 80 || trend.To != 82 {
		t.Errorf("From/To = %v/%v, want 80/82", trend.From, trend.To)
	}

	brTrend, err := store.Record(assessment("BR", 60))
	if err != nil {
		t.Fatal(err)
	}
	if brTrend.Label != LabelSame {
		t.Errorf("BR label = %v, want SAME", brTrend.Label)
	}
}

func TestRecordEnforcesLimit(t *testing.T) {
	store := NewStore(t.TempDir(), 3)

	for i := 0; i < 5; i++ {
		if _, err := store.Record(assessment("JP", float64(70+i))); err != nil {
			t.Fatal(err)
		}
	}

	idx, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(idx.Entries) != 3 {
		t.Fatalf("Entries = %d, want 3 (capped)", len(idx.Entries))
	}
	// Oldest entries dropped: the survivors are the last three scores.
	if idx.Entries[0].Score != 72 {
		t.Errorf("oldest surviving score = %v, want 72", idx.Entries[0].Score)
	}
}

func TestForCountry(t *testing.T) {
	store := NewStore(t.TempDir(), 0)

	_, _ = store.Record(assessment("JP", 80))
	_, _ = store.Record(assessment("BR", 60))
	_, _ = store.Record(assessment("JP", 81))

	entries, err := store.ForCountry("JP")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Score != 80 || entries[1].Score != 81 {
		t.Errorf("scores = %v,%v, want 80,81 oldest first", entries[0].Score, entries[1].Score)
	}
}

func TestLoadMissingIndex(t *testing.T) {
	store := NewStore(t.TempDir(), 0)

	idx, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(idx.Entries) != 0 {
		t.Errorf("Entries = %d, want 0", len(idx.Entries))
	}
}
