// Package cache keeps computed assessments in Redis so repeated
// requests skip the scoring pipeline. Every failure degrades to a
// recompute; the cache never fails a request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Hamid14147/market-analysis/internal/model"
)

const (
	assessmentPrefix = "assessment:"
	comparisonPrefix = "comparison:"
)

// Cache is a Redis-backed assessment cache.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// Options holds Redis connection settings.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// New connects to Redis. The connection is verified so a misconfigured
// cache fails at startup, not on the first request.
func New(ctx context.Context, opts Options) (*Cache, error) {
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Cache{
		client: client,
		ttl:    opts.TTL,
		logger: log.With().Str("component", "cache").Logger(),
	}, nil
}

// GetAssessment returns the cached assessment for a country, if any.
func (c *Cache) GetAssessment(ctx context.Context, code string) (*model.MarketAssessment, bool) {
	raw, err := c.client.Get(ctx, assessmentKey(code)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("country", code).Msg("cache read failed")
		}
		return nil, false
	}

	var a model.MarketAssessment
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		c.logger.Warn().Err(err).Str("country", code).Msg("cache entry corrupt, dropping")
		c.client.Del(ctx, assessmentKey(code))
		return nil, false
	}
	return &a, true
}

// SetAssessment caches an assessment under its country code.
func (c *Cache) SetAssessment(ctx context.Context, a *model.MarketAssessment) {
	data, err := json.Marshal(a)
	if err != nil {
		c.logger.Warn().Err(err).Str("country", a.Code).Msg("cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, assessmentKey(a.Code), data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("country", a.Code).Msg("cache write failed")
	}
}

// GetComparison returns the cached comparison for a set of countries.
// The key is order-insensitive.
func (c *Cache) GetComparison(ctx context.Context, codes []string) (*model.ComparisonReport, bool) {
	raw, err := c.client.Get(ctx, comparisonKey(codes)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Msg("cache read failed")
		}
		return nil, false
	}

	var r model.ComparisonReport
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		c.logger.Warn().Err(err).Msg("cache entry corrupt, dropping")
		c.client.Del(ctx, comparisonKey(codes))
		return nil, false
	}
	return &r, true
}

// SetComparison caches a comparison report for a set of countries.
func (c *Cache) SetComparison(ctx context.Context, codes []string, r *model.ComparisonReport) {
	data, err := json.Marshal(r)
	if err != nil {
		c.logger.Warn().Err(err).Msg("cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, comparisonKey(codes), data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("cache write failed")
	}
}

// Invalidate drops the assessment for one country plus every comparison
// it could appear in.
func (c *Cache) Invalidate(ctx context.Context, code string) {
	if err := c.client.Del(ctx, assessmentKey(code)).Err(); err != nil {
		c.logger.Warn().Err(err).Str("country", code).Msg("cache invalidation failed")
	}
	c.deletePattern(ctx, comparisonPrefix+"*")
}

// FlushAll clears every cached entry, for dataset reloads.
func (c *Cache) FlushAll(ctx context.Context) {
	c.deletePattern(ctx, assessmentPrefix+"*")
	c.deletePattern(ctx, comparisonPrefix+"*")
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) deletePattern(ctx context.Context, pattern string) {
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Warn().Err(err).Str("key", iter.Val()).Msg("cache delete failed")
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn().Err(err).Str("pattern", pattern).Msg("cache scan failed")
	}
}

func assessmentKey(code string) string {
	return assessmentPrefix + strings.ToUpper(code)
}

func comparisonKey(codes []string) string {
	sorted := make([]string, len(codes))
	for i, code := range codes {
		sorted[i] = strings.ToUpper(code)
	}
	sort.Strings(sorted)
	return comparisonPrefix + strings.Join(sorted, ",")
}
