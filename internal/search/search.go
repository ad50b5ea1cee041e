// Package search indexes the country catalog with bleve and answers
// free-text lookups: code, name, region and the qualitative strength/
// weakness notes are all searchable, ranked by text relevance blended
// with the market-entry score.
package search

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Hamid14147/market-analysis/internal/model"
)

// Weights for blending bleve's text relevance with the market-entry
// score (scaled to 0..1). Relevance dominates; the score breaks near
// ties in favor of more attractive markets.
const (
	textWeight  = 0.7
	scoreWeight = 0.3
)

// Result is one search hit.
type Result struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Score     float64 `json:"score"` // market-entry score
	Relevance float64 `json:"relevance"`
}

// Index is an in-memory full-text index over the catalog.
type Index struct {
	index  bleve.Index
	logger zerolog.Logger
}

// countryDoc is the flattened document shape fed to bleve.
type countryDoc struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Region     string  `json:"region"`
	Strengths  string  `json:"strengths"`
	Weaknesses string  `json:"weaknesses"`
	Score      float64 `json:"score"`
}

// New builds an in-memory index over the countries. scores maps country
// code to its computed market-entry score; missing entries rank as 0.
func New(countries []model.Country, scores map[string]float64) (*Index, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	batch := index.NewBatch()
	for _, country := range countries {
		doc := countryDoc{
			Code:       strings.ToLower(country.Code),
			Name:       country.Name,
			Region:     country.Region,
			Strengths:  strings.Join(country.Strengths, ". "),
			Weaknesses: strings.Join(country.Weaknesses, ". "),
			Score:      scores[country.Code],
		}
		if err := batch.Index(country.Code, doc); err != nil {
			return nil, fmt.Errorf("index %s: %w", country.Code, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		return nil, fmt.Errorf("execute batch: %w", err)
	}

	logger := log.With().Str("component", "search").Logger()
	logger.Info().Int("countries", len(countries)).Msg("search index built")
	return &Index{index: index, logger: logger}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()

	textField := bleve.NewTextFieldMapping()
	textField.Store = true
	textField.Index = true
	docMapping.AddFieldMappingsAt("code", textField)
	docMapping.AddFieldMappingsAt("name", textField)
	docMapping.AddFieldMappingsAt("region", textField)
	docMapping.AddFieldMappingsAt("strengths", textField)
	docMapping.AddFieldMappingsAt("weaknesses", textField)

	scoreField := bleve.NewNumericFieldMapping()
	scoreField.Store = true
	scoreField.Index = true
	docMapping.AddFieldMappingsAt("score", scoreField)

	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}

// Search runs a ranked disjunction query: exact code matches outrank
// code prefixes, which outrank name and note matches.
func (ix *Index) Search(query string, limit int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query")
	}
	if limit < 1 {
		limit = 10
	}
	lowered := strings.ToLower(strings.TrimSpace(query))

	exactCode := bleve.NewTermQuery(lowered)
	exactCode.SetField("code")
	exactCode.SetBoost(10.0)

	prefixCode := bleve.NewPrefixQuery(lowered)
	prefixCode.SetField("code")
	prefixCode.SetBoost(5.0)

	nameMatch := bleve.NewMatchQuery(query)
	nameMatch.SetField("name")
	nameMatch.SetBoost(3.0)

	wildcardName := bleve.NewWildcardQuery("*" + lowered + "*")
	wildcardName.SetField("name")
	wildcardName.SetBoost(1.5)

	wildcardRegion := bleve.NewWildcardQuery("*" + lowered + "*")
	wildcardRegion.SetField("region")
	wildcardRegion.SetBoost(1.0)

	strengthsMatch := bleve.NewMatchQuery(query)
	strengthsMatch.SetField("strengths")
	strengthsMatch.SetBoost(1.0)

	weaknessesMatch := bleve.NewMatchQuery(query)
	weaknessesMatch.SetField("weaknesses")
	weaknessesMatch.SetBoost(0.5)

	searchQuery := bleve.NewDisjunctionQuery(
		exactCode,
		prefixCode,
		nameMatch,
		wildcardName,
		wildcardRegion,
		strengthsMatch,
		weaknessesMatch,
	)

	request := bleve.NewSearchRequest(searchQuery)
	request.Fields = []string{"code", "name", "score"}
	request.Size = limit * 4 // overfetch, the blend may reorder

	searchResults, err := ix.index.Search(request)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	results := make([]Result, 0, len(searchResults.Hits))
	for _, hit := range searchResults.Hits {
		score := getFloat(hit.Fields, "score")
		results = append(results, Result{
			Code:      strings.ToUpper(getString(hit.Fields, "code")),
			Name:      getString(hit.Fields, "name"),
			Score:     score,
			Relevance: textWeight*hit.Score + scoreWeight*(score/100),
		})
	}

	// Highest blended relevance first.
	for i := 0; i < len(results); i++ {
		for j := i + 1; j < len(results); j++ {
			if results[j].Relevance > results[i].Relevance {
				results[i], results[j] = results[j], results[i]
			}
		}
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Close releases the index.
func (ix *Index) Close() error {
	return ix.index.Close()
}

func getString(fields map[string]interface{}, key string) string {
	if val, ok := fields[key].(string); ok {
		return val
	}
	return ""
}

func getFloat(fields map[string]interface{}, key string) float64 {
	if val, ok := fields[key].(float64); ok {
		return val
	}
	return 0.0
}
