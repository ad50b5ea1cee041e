// Package history records assessment snapshots on disk and reports how a
// market moved since its previous run.
package history

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Hamid14147/market-analysis/internal/model"
)

// DefaultLimit caps the index length; the oldest entries fall off.
const DefaultLimit = 200

// Direction of a score move between two runs.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
	Flat Direction = "flat"
)

// Trend labels.
const (
	LabelFirstRun  = "FIRST_RUN"
	LabelImproving = "IMPROVING"
	LabelDeclining = "DECLINING"
	LabelSame      = "SAME"
)

// Trend describes the score move against the previous run of the same
// market.
type Trend struct {
	DeltaScore   float64   `json:"delta_score"`
	DeltaPercent float64   `json:"delta_percent"`
	Direction    Direction `json:"direction"`
	From         float64   `json:"from"`
	To           float64   `json:"to"`
	Label        string    `json:"label"`
}

// Compute builds the trend between two scores.
func Compute(prev, curr float64) Trend {
	d := curr - prev

	dir := Flat
	label := LabelSame
	if d > 0.00001 {
		dir = Up
		label = LabelImproving
	} else if d < -0.00001 {
		dir = Down
		label = LabelDeclining
	}

	dp := 0.0
	if math.Abs(prev) > 0.00001 {
		dp = (d / prev) * 100.0
	}

	return Trend{
		DeltaScore:   round2(d),
		DeltaPercent: round2(dp),
		Direction:    dir,
		From:         round2(prev),
		To:           round2(curr),
		Label:        label,
	}
}

// IndexEntry is one recorded assessment run.
type IndexEntry struct {
	TimestampUTC  string  `json:"timestamp_utc"`
	Code          string  `json:"code"`
	Country       string  `json:"country"`
	Score         float64 `json:"score"`
	Status        string  `json:"status"`
	RiskComposite float64 `json:"risk_composite"`
	SnapshotFile  string  `json:"snapshot_file"`
}

// Index is the persisted run log, oldest first.
type Index struct {
	Entries []IndexEntry `json:"entries"`
}

// Store persists snapshots and the index under one directory.
type Store struct {
	dir    string
	limit  int
	logger zerolog.Logger
}

// NewStore builds a store rooted at dir. limit below 1 uses the default.
func NewStore(dir string, limit int) *Store {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Store{
		dir:    dir,
		limit:  limit,
		logger: log.With().Str("component", "history").Logger(),
	}
}

// Record writes the assessment snapshot, appends it to the index and
// returns the trend against the previous run for the same market.
func (s *Store) Record(a *model.MarketAssessment) (Trend, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Trend{}, fmt.Errorf("history: mkdir: %w", err)
	}

	idx, err := s.Load()
	if err != nil {
		return Trend{}, err
	}

	prev := -1.0
	for i := len(idx.Entries) - 1; i >= 0; i-- {
		if idx.Entries[i].Code == a.Code {
			prev = idx.Entries[i].Score
			break
		}
	}

	ts := time.Now().UTC()
	snapshotName := fmt.Sprintf("assessment-%s-%s.json", a.Code, ts.Format("20060102-150405"))
	if err := writeJSON(filepath.Join(s.dir, snapshotName), a); err != nil {
		return Trend{}, fmt.Errorf("history: snapshot: %w", err)
	}

	idx.Entries = append(idx.Entries, IndexEntry{
		TimestampUTC:  ts.Format(time.RFC3339),
		Code:          a.Code,
		Country:       a.Country,
		Score:         a.Score,
		Status:        a.Status,
		RiskComposite: a.Risk.Composite,
		SnapshotFile:  snapshotName,
	})
	if len(idx.Entries) > s.limit {
		idx.Entries = idx.Entries[len(idx.Entries)-s.limit:]
	}

	raw, _ := json.MarshalIndent(idx, "", "  ")
	if err := os.WriteFile(s.indexPath(), raw, 0o644); err != nil {
		return Trend{}, fmt.Errorf("history: index: %w", err)
	}

	if prev < 0 {
		t := Trend{To: round2(a.Score), Label: LabelFirstRun, Direction: Flat}
		s.logger.Debug().Str("country", a.Code).Msg("first recorded run")
		return t, nil
	}

	t := Compute(prev, a.Score)
	s.logger.Debug().Str("country", a.Code).Str("label", t.Label).Float64("delta", t.DeltaScore).Msg("run recorded")
	return t, nil
}

// Load reads the index; a missing file yields an empty index.
func (s *Store) Load() (Index, error) {
	var idx Index
	raw, err := os.ReadFile(s.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return idx, fmt.Errorf("history: read index: %w", err)
	}
	if len(raw) == 0 {
		return idx, nil
	}
	if err := json.Unmarshal(raw, &idx); err != nil {
		return idx, fmt.Errorf("history: parse index: %w", err)
	}
	return idx, nil
}

// ForCountry returns the recorded entries for one market, oldest first.
func (s *Store) ForCountry(code string) ([]IndexEntry, error) {
	idx, err := s.Load()
	if err != nil {
		return nil, err
	}
	var out []IndexEntry
	for _, e := range idx.Entries {
		if e.Code == code {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) indexPath() string {
	return filepath.Join(s.dir, "index.json")
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
