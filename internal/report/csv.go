package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Hamid14147/market-analysis/internal/model"
)

// WriteCSV writes one CSV file per report section to outDir/csv/.
// Files are UTF-8 with BOM for clean Excel opening on Windows.
func WriteCSV(outDir string, r *model.ComparisonReport) error {
	dir := filepath.Join(outDir, "csv")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("csv: mkdir: %w", err)
	}
	writers := []func(string, *model.ComparisonReport) error{
		writeRankingsCSV,
		writeRiskCSV,
		writeForecastsCSV,
	}
	for _, fn := range writers {
		if err := fn(dir, r); err != nil {
			return err
		}
	}
	return nil
}

func csvFile(dir, name string) (*os.File, *csv.Writer, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, nil, err
	}
	// UTF-8 BOM for Excel
	_, _ = f.Write([]byte{0xEF, 0xBB, 0xBF})
	return f, csv.NewWriter(f), nil
}

func writeRankingsCSV(dir string, r *model.ComparisonReport) error {
	f, w, err := csvFile(dir, "rankings.csv")
	if err != nil {
		return err
	}
	defer f.Close()
	_ = w.Write([]string{"Rank", "Code", "Country", "Score", "Status", "Risk Rating"})
	for _, rk := range r.Rankings {
		_ = w.Write([]string{
			fmt.Sprintf("%d", rk.Rank),
			rk.Code,
			rk.Country,
			fmt.Sprintf("%.2f", rk.Score),
			rk.Status,
			rk.RiskRating,
		})
	}
	w.Flush()
	return w.Error()
}

func writeRiskCSV(dir string, r *model.ComparisonReport) error {
	f, w, err := csvFile(dir, "risk.csv")
	if err != nil {
		return err
	}
	defer f.Close()
	_ = w.Write([]string{"Country", "Category", "Score", "Weight", "Factors"})
	for _, a := range r.Assessments {
		for _, c := range a.Risk.Categories {
			_ = w.Write([]string{
				a.Country,
				c.Name,
				fmt.Sprintf("%.1f", c.Score),
				fmt.Sprintf("%.2f", c.Weight),
				strings.Join(c.Factors, "; "),
			})
		}
		_ = w.Write([]string{a.Country, "Composite", fmt.Sprintf("%.2f", a.Risk.Composite), "1.00", a.Risk.Rating})
	}
	w.Flush()
	return w.Error()
}

func writeForecastsCSV(dir string, r *model.ComparisonReport) error {
	f, w, err := csvFile(dir, "forecasts.csv")
	if err != nil {
		return err
	}
	defer f.Close()
	_ = w.Write([]string{"Country", "Metric", "Year", "Projected", "Growth %", "Trend"})
	for _, a := range r.Assessments {
		for _, fc := range a.Forecasts {
			for i, year := range fc.Years {
				_ = w.Write([]string{
					a.Country,
					fc.Metric,
					fmt.Sprintf("%d", year),
					fmt.Sprintf("%.3f", fc.Values[i]),
					fmt.Sprintf("%.2f", fc.GrowthRate),
					fc.Trend,
				})
			}
		}
	}
	w.Flush()
	return w.Error()
}
