package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/avelora/catalogsearch/internal/spellcheck"
)

// Fields the query text is analyzed through for spellchecking. The catch-all
// search and spelling fields carry every searchable property; the subfields
// re-run the text through the exact-match analyzers.
var termVectorFields = []string{
	"search",
	"search.whitespace",
	"search.reference",
	"search.edge_ngram",
	"spelling",
	"spelling.whitespace",
}

var termVectorAnalyzers = map[string]string{
	"search.whitespace":   "whitespace",
	"search.reference":    "reference",
	"search.edge_ngram":   "edge_ngram",
	"spelling.whitespace": "whitespace",
}

type esCountResponse struct {
	Count int64 `json:"count"`
}

type esSettingsResponse map[string]struct {
	Settings struct {
		Index struct {
			NumberOfShards string `json:"number_of_shards"`
		} `json:"index"`
	} `json:"settings"`
}

type esTermVectorsResponse struct {
	Docs []struct {
		TermVectors map[string]struct {
			Terms map[string]struct {
				DocFreq int64 `json:"doc_freq"`
				Tokens  []struct {
					Position int `json:"position"`
				} `json:"tokens"`
			} `json:"terms"`
		} `json:"term_vectors"`
	} `json:"docs"`
}

// IndexStats implements spellcheck.TermVectorsProvider.
func (e *Engine) IndexStats(ctx context.Context, indexName string) (spellcheck.IndexStats, error) {
	var stats spellcheck.IndexStats

	res, err := e.client.Count(
		e.client.Count.WithContext(ctx),
		e.client.Count.WithIndex(indexName),
	)
	if err != nil {
		return stats, fmt.Errorf("elasticsearch count: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return stats, fmt.Errorf("elasticsearch count: unexpected status %s", res.Status())
	}
	var count esCountResponse
	if err := json.NewDecoder(res.Body).Decode(&count); err != nil {
		return stats, fmt.Errorf("elasticsearch count: decode response: %w", err)
	}
	stats.DocCount = count.Count

	shards, err := e.shardCount(ctx, indexName)
	if err != nil {
		return stats, err
	}
	stats.ShardCount = shards
	return stats, nil
}

func (e *Engine) shardCount(ctx context.Context, indexName string) (int, error) {
	res, err := e.client.Indices.GetSettings(
		e.client.Indices.GetSettings.WithContext(ctx),
		e.client.Indices.GetSettings.WithIndex(indexName),
		e.client.Indices.GetSettings.WithName("index.number_of_shards"),
	)
	if err != nil {
		return 0, fmt.Errorf("elasticsearch settings: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return 0, fmt.Errorf("elasticsearch settings: unexpected status %s", res.Status())
	}

	var settings esSettingsResponse
	if err := json.NewDecoder(res.Body).Decode(&settings); err != nil {
		return 0, fmt.Errorf("elasticsearch settings: decode response: %w", err)
	}
	// The index name may be an alias; the response is keyed by the concrete
	// index.
	for _, index := range settings {
		shards, err := strconv.Atoi(index.Settings.Index.NumberOfShards)
		if err != nil {
			return 0, fmt.Errorf("elasticsearch settings: invalid shard count %q", index.Settings.Index.NumberOfShards)
		}
		return shards, nil
	}
	return 0, fmt.Errorf("elasticsearch settings: no settings returned for index %q", indexName)
}

// TermVectors implements spellcheck.TermVectorsProvider. Document frequencies
// are shard-local, so the text is analyzed once per shard: one artificial
// document routed to each shard with the "[index][shard]" routing form.
func (e *Engine) TermVectors(ctx context.Context, indexName, queryText string, shards int) ([]spellcheck.TermVector, error) {
	if shards < 1 {
		shards = 1
	}

	docs := make([]map[string]any, 0, shards)
	for shard := 0; shard < shards; shard++ {
		docs = append(docs, map[string]any{
			"_index": indexName,
			"doc": map[string]any{
				"search":   queryText,
				"spelling": queryText,
			},
			"fields":             termVectorFields,
			"term_statistics":    true,
			"field_statistics":   false,
			"per_field_analyzer": termVectorAnalyzers,
			"routing":            fmt.Sprintf("[%s][%d]", indexName, shard),
		})
	}

	payload, err := json.Marshal(map[string]any{"docs": docs})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch term vectors: marshal body: %w", err)
	}

	res, err := e.client.Mtermvectors(
		e.client.Mtermvectors.WithContext(ctx),
		e.client.Mtermvectors.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch term vectors: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch term vectors: unexpected status %s", res.Status())
	}

	var raw esTermVectorsResponse
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("elasticsearch term vectors: decode response: %w", err)
	}

	var vectors []spellcheck.TermVector
	for _, doc := range raw.Docs {
		for field, fieldVectors := range doc.TermVectors {
			vector := spellcheck.TermVector{
				Field: field,
				Terms: make(map[string]spellcheck.TermInfo, len(fieldVectors.Terms)),
			}
			for term, info := range fieldVectors.Terms {
				positions := make([]int, 0, len(info.Tokens))
				for _, token := range info.Tokens {
					positions = append(positions, token.Position)
				}
				vector.Terms[term] = spellcheck.TermInfo{
					DocFreq:   info.DocFreq,
					Positions: positions,
				}
			}
			vectors = append(vectors, vector)
		}
	}
	return vectors, nil
}
