package spellcheck

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avelora/catalogsearch/internal/cache"
)

// TermInfo carries the statistics of one analyzed term.
type TermInfo struct {
	DocFreq   int64
	Positions []int
}

// TermVector is the analyzed form of the query text through one index field.
type TermVector struct {
	Field string
	Terms map[string]TermInfo
}

// IndexStats is the per-index sizing the cutoff computation needs.
type IndexStats struct {
	DocCount   int64 `json:"doc_count"`
	ShardCount int   `json:"shard_count"`
}

// TermVectorsProvider exposes the term-statistics primitives of the backing
// index. The Elasticsearch engine implements it over the mtermvectors API.
type TermVectorsProvider interface {
	// IndexStats returns document and shard counts for the index.
	IndexStats(ctx context.Context, indexName string) (IndexStats, error)

	// TermVectors analyzes queryText through the spellcheck fields of the
	// index and returns term statistics from every shard.
	TermVectors(ctx context.Context, indexName, queryText string, shards int) ([]TermVector, error)
}

// DefaultCutoffFrequency is the frequency share above which a term counts as
// a stopword.
const DefaultCutoffFrequency = 0.15

const (
	spellingCacheTTL   = time.Hour
	indexStatsCacheTTL = 10 * time.Minute
)

// Subfield analyzers whose hits count as exact matches. A term only found by
// the language analyzer may have been stemmed into shape.
var exactAnalyzers = map[string]struct{}{
	"whitespace": {},
	"reference":  {},
	"edge_ngram": {},
}

// Checker classifies query texts by spelling quality. Classification is a
// best-effort optimization: any backend trouble degrades to the fuzzy
// classification instead of failing the search.
type Checker struct {
	provider        TermVectorsProvider
	cache           cache.Cache
	cutoffFrequency float64
	logger          *slog.Logger
}

// NewChecker creates a checker. The cache may be nil to disable caching; a
// non-positive cutoff frequency falls back to the default.
func NewChecker(provider TermVectorsProvider, c cache.Cache, cutoffFrequency float64, logger *slog.Logger) *Checker {
	if cutoffFrequency <= 0 {
		cutoffFrequency = DefaultCutoffFrequency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		provider:        provider,
		cache:           c,
		cutoffFrequency: cutoffFrequency,
		logger:          logger,
	}
}

// Check classifies queryText against the index. Results are cached per
// (index, text) pair and invalidated together with the index.
func (c *Checker) Check(ctx context.Context, indexName, queryText string) SpellingType {
	text := strings.TrimSpace(queryText)
	if text == "" {
		return SpellingExact
	}

	key := spellingCacheKey(indexName, text)
	if c.cache != nil {
		if value, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			return SpellingType(value)
		}
	}

	spelling := c.classify(ctx, indexName, text)

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, []byte(spelling), spellingCacheTTL, cache.IndexTag(indexName)); err != nil {
			c.logger.WarnContext(ctx, "spelling cache write failed",
				slog.String("index", indexName),
				slog.String("error", err.Error()),
			)
		}
	}
	return spelling
}

func (c *Checker) classify(ctx context.Context, indexName, text string) SpellingType {
	stats, err := c.indexStats(ctx, indexName)
	if err != nil {
		c.logger.WarnContext(ctx, "spellcheck degraded to fuzzy",
			slog.String("index", indexName),
			slog.String("error", err.Error()),
		)
		return SpellingFuzzy
	}

	vectors, err := c.provider.TermVectors(ctx, indexName, text, stats.ShardCount)
	if err != nil {
		c.logger.WarnContext(ctx, "spellcheck degraded to fuzzy",
			slog.String("index", indexName),
			slog.String("error", err.Error()),
		)
		return SpellingFuzzy
	}

	cutoffLimit := c.cutoffFrequency * float64(stats.DocCount)
	return Classify(aggregateTermStats(vectors, cutoffLimit))
}

// indexStats caches the per-index sizing; it only changes with a reindex and
// the index invalidation tag covers that.
func (c *Checker) indexStats(ctx context.Context, indexName string) (IndexStats, error) {
	key := "spellcheck:index-stats:" + indexName
	if c.cache != nil {
		if value, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			var stats IndexStats
			if err := json.Unmarshal(value, &stats); err == nil {
				return stats, nil
			}
		}
	}

	stats, err := c.provider.IndexStats(ctx, indexName)
	if err != nil {
		return IndexStats{}, fmt.Errorf("spellcheck index stats: %w", err)
	}

	if c.cache != nil {
		if value, err := json.Marshal(stats); err == nil {
			_ = c.cache.Set(ctx, key, value, indexStatsCacheTTL, cache.IndexTag(indexName))
		}
	}
	return stats, nil
}

// aggregateTermStats merges per-shard, per-field term vectors into
// per-position statistics. Shards disagree on document frequency, the
// highest one wins; several analyzed fields may cover the same position and
// each contributes its analyzer when it found the term.
func aggregateTermStats(vectors []TermVector, cutoffLimit float64) TermStats {
	type positionStat struct {
		docFreq   int64
		analyzers map[string]struct{}
	}
	merged := make(map[int]*positionStat)

	for _, vector := range vectors {
		analyzer := fieldAnalyzer(vector.Field)
		for _, info := range vector.Terms {
			for _, position := range info.Positions {
				stat, ok := merged[position]
				if !ok {
					stat = &positionStat{analyzers: make(map[string]struct{})}
					merged[position] = stat
				}
				if info.DocFreq > stat.docFreq {
					stat.docFreq = info.DocFreq
				}
				if info.DocFreq > 0 {
					stat.analyzers[analyzer] = struct{}{}
				}
			}
		}
	}

	stats := TermStats{Total: len(merged)}
	for _, stat := range merged {
		switch {
		case stat.docFreq == 0:
			stats.Missing++
		case float64(stat.docFreq) >= cutoffLimit:
			stats.Stop++
		case hasExactAnalyzer(stat.analyzers):
			stats.Exact++
		default:
			stats.Standard++
		}
	}
	return stats
}

// fieldAnalyzer derives the analyzer name from the field path: the subfield
// suffix, or the standard analyzer for bare fields.
func fieldAnalyzer(field string) string {
	if i := strings.LastIndex(field, "."); i >= 0 {
		return field[i+1:]
	}
	return "standard"
}

func hasExactAnalyzer(analyzers map[string]struct{}) bool {
	for analyzer := range analyzers {
		if _, ok := exactAnalyzers[analyzer]; ok {
			return true
		}
	}
	return false
}

func spellingCacheKey(indexName, text string) string {
	sum := sha256.Sum256([]byte(text))
	return "spellcheck:spelling:" + indexName + ":" + hex.EncodeToString(sum[:8])
}
