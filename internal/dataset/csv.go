package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/Hamid14147/market-analysis/internal/model"
)

// LoadSeriesCSV reads annual history rows (metric,year,value) and groups
// them into one series per metric, sorted by year.
func LoadSeriesCSV(path string) ([]model.IndicatorSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	// Skip header row if present
	if len(records) > 0 && records[0][0] == "metric" {
		records = records[1:]
	}

	type point struct {
		year  int
		value float64
	}
	grouped := make(map[string][]point)
	var order []string

	for i, record := range records {
		if len(record) < 3 {
			return nil, fmt.Errorf("%s row %d: want metric,year,value", path, i+1)
		}
		metric := record[0]
		year, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad year %q", path, i+1, record[1])
		}
		value, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad value %q", path, i+1, record[2])
		}

		if _, seen := grouped[metric]; !seen {
			order = append(order, metric)
		}
		grouped[metric] = append(grouped[metric], point{year: year, value: value})
	}

	series := make([]model.IndicatorSeries, 0, len(order))
	for _, metric := range order {
		points := grouped[metric]
		sort.Slice(points, func(i, j int) bool { return points[i].year < points[j].year })

		s := model.IndicatorSeries{Metric: metric}
		for _, p := range points {
			s.Years = append(s.Years, p.year)
			s.Values = append(s.Values, p.value)
		}
		series = append(series, s)
	}
	return series, nil
}
