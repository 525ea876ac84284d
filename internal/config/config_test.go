package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8010, cfg.HTTPPort)
	assert.Equal(t, []string{"http://localhost:9200"}, cfg.ElasticsearchURLs)
	assert.Equal(t, "catalog", cfg.IndexPrefix)
	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "catalogsearch", cfg.KafkaGroupID)
	assert.InDelta(t, 0.15, cfg.SpellcheckCutoffFrequency, 1e-9)
	assert.False(t, cfg.TracingEnabled)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SEARCH_HTTP_PORT", "9100")
	t.Setenv("ELASTICSEARCH_URLS", "http://es-1:9200,http://es-2:9200")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("SPELLCHECK_CUTOFF_FREQUENCY", "0.25")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.HTTPPort)
	assert.Equal(t, []string{"http://es-1:9200", "http://es-2:9200"}, cfg.ElasticsearchURLs)
	assert.Equal(t, "redis", cfg.CacheBackend)
	assert.InDelta(t, 0.25, cfg.SpellcheckCutoffFrequency, 1e-9)
}

func TestLoad_InvalidHTTPPort(t *testing.T) {
	t.Setenv("SEARCH_HTTP_PORT", "0")

	cfg, err := Load()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_InvalidCacheBackend(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "memcached")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cache backend")
}

func TestLoad_InvalidCutoffFrequency(t *testing.T) {
	t.Setenv("SPELLCHECK_CUTOFF_FREQUENCY", "1.5")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cutoff frequency")
}
