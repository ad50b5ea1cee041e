package report

import (
	"encoding/json"
	"os"

	"github.com/Hamid14147/market-analysis/internal/model"
)

// WriteJSON writes the full report, charts included, as indented JSON.
func WriteJSON(path string, r *model.ComparisonReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
