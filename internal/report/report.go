// Package report renders a comparison report to disk as JSON, CSV and
// Markdown.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/Hamid14147/market-analysis/internal/model"
)

// WriteAll renders every format into outDir: report.json, report.md and
// a csv/ directory with one file per section.
func WriteAll(outDir string, r *model.ComparisonReport) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("report: mkdir: %w", err)
	}

	if err := WriteJSON(filepath.Join(outDir, "report.json"), r); err != nil {
		return err
	}
	if err := WriteCSV(outDir, r); err != nil {
		return err
	}
	if err := WriteMarkdown(filepath.Join(outDir, "report.md"), r); err != nil {
		return err
	}

	log.Info().Str("dir", outDir).Int("markets", len(r.Rankings)).Msg("reports written")
	return nil
}
