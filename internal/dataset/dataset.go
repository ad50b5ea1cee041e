// Package dataset loads and validates the country catalog from disk:
// countries.json for identity, indicators and risk, plus one CSV of
// annual history per country.
package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Hamid14147/market-analysis/internal/model"
)

// Catalog is the in-memory country registry. Reads are concurrent;
// refreshes from a provider go through Upsert.
type Catalog struct {
	mu        sync.RWMutex
	countries map[string]model.Country
	order     []string
	logger    zerolog.Logger
}

// NewCatalog builds an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		countries: make(map[string]model.Country),
		logger:    log.With().Str("component", "dataset").Logger(),
	}
}

// Load reads dir/countries.json and the per-country history CSVs from
// dir/history, validates everything and returns the catalog.
func Load(dir string) (*Catalog, error) {
	countries, err := LoadCountries(filepath.Join(dir, "countries.json"))
	if err != nil {
		return nil, fmt.Errorf("load countries: %w", err)
	}

	catalog := NewCatalog()
	for _, c := range countries {
		historyPath := filepath.Join(dir, "history", c.Code+".csv")
		series, err := LoadSeriesCSV(historyPath)
		if err != nil {
			if os.IsNotExist(err) {
				catalog.logger.Warn().Str("country", c.Code).Msg("no history file, forecasts unavailable")
			} else {
				return nil, fmt.Errorf("load history for %s: %w", c.Code, err)
			}
		}
		c.History = series

		if err := catalog.Upsert(c); err != nil {
			return nil, err
		}
	}

	catalog.logger.Info().Int("countries", catalog.Len()).Str("dir", dir).Msg("catalog loaded")
	return catalog, nil
}

// LoadCountries decodes the country records from a JSON file.
func LoadCountries(path string) ([]model.Country, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var countries []model.Country
	if err := json.NewDecoder(f).Decode(&countries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return countries, nil
}

// Upsert validates a country and adds or replaces it in the catalog.
func (c *Catalog) Upsert(country model.Country) error {
	if err := Validate(country); err != nil {
		return fmt.Errorf("invalid country %q: %w", country.Code, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.countries[country.Code]; !exists {
		c.order = append(c.order, country.Code)
	}
	c.countries[country.Code] = country
	return nil
}

// Get returns the country for a code.
func (c *Catalog) Get(code string) (model.Country, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	country, ok := c.countries[code]
	return country, ok
}

// List returns all countries in load order.
func (c *Catalog) List() []model.Country {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Country, 0, len(c.order))
	for _, code := range c.order {
		out = append(out, c.countries[code])
	}
	return out
}

// Codes returns the country codes in load order.
func (c *Catalog) Codes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of countries in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.countries)
}

// Validate checks a country record against the dataset rules: identity
// present, indicators in range, risk scores on the 0-100 scale and
// history series well formed.
func Validate(country model.Country) error {
	if country.Code == "" {
		return fmt.Errorf("missing code")
	}
	if len(country.Code) != 2 {
		return fmt.Errorf("code %q: want 2-letter ISO code", country.Code)
	}
	if country.Name == "" {
		return fmt.Errorf("missing name")
	}

	// NaN and Inf slip through range comparisons; reject them up front
	// so a bad record can never produce a non-finite score.
	ind := country.Indicators
	indicators := map[string]float64{
		"gdp":               ind.GDP,
		"population":        ind.Population,
		"consumer spending": ind.ConsumerSpending,
		"economic growth":   ind.EconomicGrowth,
	}
	for name, value := range indicators {
		if !finite(value) {
			return fmt.Errorf("%s %v: must be finite", name, value)
		}
	}
	if ind.GDP < 0 {
		return fmt.Errorf("gdp %v: cannot be negative", ind.GDP)
	}
	if ind.Population <= 0 {
		return fmt.Errorf("population %v: must be positive", ind.Population)
	}
	if ind.ConsumerSpending < 0 {
		return fmt.Errorf("consumer spending %v: cannot be negative", ind.ConsumerSpending)
	}

	risks := map[string]float64{
		"political":   country.Risk.Political.Score,
		"economic":    country.Risk.Economic.Score,
		"operational": country.Risk.Operational.Score,
		"technical":   country.Risk.Technical.Score,
	}
	for name, score := range risks {
		if !finite(score) || score < 0 || score > 100 {
			return fmt.Errorf("%s risk %v: outside [0,100]", name, score)
		}
	}

	for _, s := range country.History {
		if err := validateSeries(s); err != nil {
			return err
		}
	}
	return nil
}

func validateSeries(s model.IndicatorSeries) error {
	if !knownMetric(s.Metric) {
		return fmt.Errorf("series %q: unknown metric", s.Metric)
	}
	if len(s.Years) != len(s.Values) {
		return fmt.Errorf("series %q: %d years, %d values", s.Metric, len(s.Years), len(s.Values))
	}
	if !sort.IntsAreSorted(s.Years) {
		return fmt.Errorf("series %q: years not ascending", s.Metric)
	}
	for i := 1; i < len(s.Years); i++ {
		if s.Years[i] == s.Years[i-1] {
			return fmt.Errorf("series %q: duplicate year %d", s.Metric, s.Years[i])
		}
	}
	for i, v := range s.Values {
		if !finite(v) {
			return fmt.Errorf("series %q: value %v at index %d must be finite", s.Metric, v, i)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func knownMetric(metric string) bool {
	for _, m := range model.Metrics {
		if m == metric {
			return true
		}
	}
	return false
}
