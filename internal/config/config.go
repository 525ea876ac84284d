package config

import (
	"fmt"

	pkgconfig "github.com/avelora/catalogsearch/pkg/config"
)

// Config holds all configuration for the search service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"SEARCH_HTTP_PORT" envDefault:"8010"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Elasticsearch
	ElasticsearchURLs []string `env:"ELASTICSEARCH_URLS" envDefault:"http://localhost:9200" envSeparator:","`

	// IndexPrefix is the leading component of every physical index name.
	IndexPrefix string `env:"INDEX_PREFIX" envDefault:"catalog"`

	// Metadata service. Empty URL falls back to the built-in static
	// definitions, which is only useful for local development.
	MetadataServiceURL string `env:"METADATA_SERVICE_URL"`

	// Cache backend selection (redis or memory)
	CacheBackend string `env:"CACHE_BACKEND" envDefault:"memory"`
	RedisAddr    string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaGroupID string   `env:"KAFKA_GROUP_ID" envDefault:"catalogsearch"`

	// Spellcheck
	SpellcheckCutoffFrequency float64 `env:"SPELLCHECK_CUTOFF_FREQUENCY" envDefault:"0.15"`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint    string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSampleRate float64 `env:"TRACE_SAMPLE_RATE" envDefault:"0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load search config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if len(c.ElasticsearchURLs) == 0 {
		return fmt.Errorf("at least one Elasticsearch URL is required")
	}
	if c.IndexPrefix == "" {
		return fmt.Errorf("index prefix is required")
	}
	switch c.CacheBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid cache backend: %q", c.CacheBackend)
	}
	if c.SpellcheckCutoffFrequency <= 0 || c.SpellcheckCutoffFrequency >= 1 {
		return fmt.Errorf("spellcheck cutoff frequency must be in (0, 1), got %g", c.SpellcheckCutoffFrequency)
	}
	return nil
}
