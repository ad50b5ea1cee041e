// Package worldbank pulls annual indicator series from the World Bank
// open data API (v2, JSON) to refresh the static catalog.
package worldbank

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	platformhttp "github.com/Hamid14147/market-analysis/internal/platform/http"
	"github.com/Hamid14147/market-analysis/internal/model"
)

// DefaultBaseURL is the public World Bank API endpoint.
const DefaultBaseURL = "https://api.worldbank.org/v2"

// Indicator codes per metric. GDP and consumer spending come in current
// USD and are rescaled to trillions, population to millions.
var indicatorCodes = map[string]string{
	model.MetricGDP:              "NY.GDP.MKTP.CD",
	model.MetricPopulation:       "SP.POP.TOTL",
	model.MetricConsumerSpending: "NE.CON.PRVT.CD",
	model.MetricEconomicGrowth:   "NY.GDP.MKTP.KD.ZG",
}

var indicatorScale = map[string]float64{
	model.MetricGDP:              1e12,
	model.MetricPopulation:       1e6,
	model.MetricConsumerSpending: 1e12,
	model.MetricEconomicGrowth:   1,
}

// Client is the World Bank API client.
type Client struct {
	baseURL    string
	httpClient *platformhttp.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new World Bank client.
type ClientOptions struct {
	BaseURL         string
	RequestTimeout  time.Duration
	RequestsPerSec  float64
	MaxRetryTimeout time.Duration
}

// NewClient creates a new World Bank API client.
func NewClient(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: opts.BaseURL,
		httpClient: platformhttp.NewClient(platformhttp.ClientOptions{
			Timeout:         opts.RequestTimeout,
			RequestsPerSec:  opts.RequestsPerSec,
			MaxRetryTimeout: opts.MaxRetryTimeout,
		}),
		logger: log.With().Str("component", "worldbank_client").Logger(),
	}
}

// observation is one annual data point in a World Bank response.
type observation struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// FetchSeries fetches the annual series for one metric of one country.
// Years with no reported value are skipped; points come back oldest
// first.
func (c *Client) FetchSeries(ctx context.Context, countryCode, metric string) (model.IndicatorSeries, error) {
	indicator, ok := indicatorCodes[metric]
	if !ok {
		return model.IndicatorSeries{}, fmt.Errorf("unknown metric %q", metric)
	}

	url := fmt.Sprintf("%s/country/%s/indicator/%s?format=json&per_page=200",
		c.baseURL, countryCode, indicator)
	c.logger.Debug().Str("url", url).Msg("Fetching indicator series")

	// The API wraps results in a two-element array: paging metadata,
	// then the data points.
	var envelope []json.RawMessage
	if err := c.httpClient.GetJSON(ctx, url, &envelope); err != nil {
		return model.IndicatorSeries{}, fmt.Errorf("worldbank request failed: %w", err)
	}
	if len(envelope) < 2 {
		return model.IndicatorSeries{}, fmt.Errorf("unexpected response shape for %s/%s", countryCode, indicator)
	}

	var points []observation
	if err := json.Unmarshal(envelope[1], &points); err != nil {
		return model.IndicatorSeries{}, fmt.Errorf("parsing observations: %w", err)
	}
	if len(points) == 0 {
		return model.IndicatorSeries{}, fmt.Errorf("no data for %s/%s", countryCode, indicator)
	}

	scale := indicatorScale[metric]
	series := model.IndicatorSeries{Metric: metric}
	for _, p := range points {
		if p.Value == nil {
			continue
		}
		year, err := strconv.Atoi(p.Date)
		if err != nil {
			continue
		}
		series.Years = append(series.Years, year)
		series.Values = append(series.Values, *p.Value/scale)
	}
	if len(series.Values) == 0 {
		return model.IndicatorSeries{}, fmt.Errorf("only null values for %s/%s", countryCode, indicator)
	}

	// Oldest first, the order every downstream fit expects.
	sort.Sort(byYear{&series})

	c.logger.Debug().Str("country", countryCode).Str("metric", metric).Int("points", len(series.Values)).Msg("Fetched series")
	return series, nil
}

// Refresh pulls fresh series for every metric of a country and returns
// an updated copy: histories replaced, current indicators set to the
// latest reported values. Metrics the API cannot serve keep their
// previous data. The input record is left untouched; the caller decides
// whether the refreshed copy goes back into the catalog.
func (c *Client) Refresh(ctx context.Context, country model.Country) (model.Country, error) {
	// The History slice header is copied by value but shares its backing
	// array with the caller's record. Clone before replacing entries.
	country.History = append([]model.IndicatorSeries(nil), country.History...)

	refreshed := 0
	for _, metric := range model.Metrics {
		series, err := c.FetchSeries(ctx, country.Code, metric)
		if err != nil {
			c.logger.Warn().Err(err).Str("country", country.Code).Str("metric", metric).Msg("refresh skipped for metric")
			continue
		}

		replaceSeries(&country, series)
		setIndicator(&country.Indicators, metric, series.Values[len(series.Values)-1])
		refreshed++
	}

	if refreshed == 0 {
		return country, fmt.Errorf("no metric could be refreshed for %s", country.Code)
	}
	c.logger.Info().Str("country", country.Code).Int("metrics", refreshed).Msg("country refreshed")
	return country, nil
}

func replaceSeries(country *model.Country, series model.IndicatorSeries) {
	for i, s := range country.History {
		if s.Metric == series.Metric {
			country.History[i] = series
			return
		}
	}
	country.History = append(country.History, series)
}

func setIndicator(ind *model.EconomicIndicators, metric string, value float64) {
	switch metric {
	case model.MetricGDP:
		ind.GDP = value
	case model.MetricPopulation:
		ind.Population = value
	case model.MetricConsumerSpending:
		ind.ConsumerSpending = value
	case model.MetricEconomicGrowth:
		ind.EconomicGrowth = value
	}
}

type byYear struct {
	s *model.IndicatorSeries
}

func (b byYear) Len() int           { return len(b.s.Years) }
func (b byYear) Less(i, j int) bool { return b.s.Years[i] < b.s.Years[j] }
func (b byYear) Swap(i, j int) {
	b.s.Years[i], b.s.Years[j] = b.s.Years[j], b.s.Years[i]
	b.s.Values[i], b.s.Values[j] = b.s.Values[j], b.s.Values[i]
}
