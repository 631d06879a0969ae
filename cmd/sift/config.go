package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/indexing"
	"github.com/urfave/cli/v2"
)

// fileConfig mirrors the TOML config file. Durations are strings in
// time.ParseDuration form.
type fileConfig struct {
	DB         string   `toml:"db"`
	Corpus     string   `toml:"corpus"`
	Extensions []string `toml:"extensions"`

	AI struct {
		EmbeddingHost     string  `toml:"embedding_host"`
		EmbeddingModel    string  `toml:"embedding_model"`
		GeneratorHost     string  `toml:"generator_host"`
		GeneratorModel    string  `toml:"generator_model"`
		RerankHost        string  `toml:"rerank_host"`
		RerankModel       string  `toml:"rerank_model"`
		APIKey            string  `toml:"api_key"`
		RequestsPerSecond float64 `toml:"requests_per_second"`
	} `toml:"ai"`

	Index struct {
		BatchSize      int    `toml:"batch_size"`
		ReportInterval int    `toml:"report_interval"`
		MaxRetries     int    `toml:"max_retries"`
		RetryDelay     string `toml:"retry_delay"`
	} `toml:"index"`

	Search struct {
		CacheTTL        string `toml:"cache_ttl"`
		HistoryLimit    int    `toml:"history_limit"`
		ProviderTimeout string `toml:"provider_timeout"`
	} `toml:"search"`
}

// settings is the effective configuration: built-in defaults, then the
// config file, then any flag given on the command line.
type settings struct {
	DB         string
	Corpus     string
	Extensions []string
	AI         ai.Config
	Index      indexing.Config

	CacheTTL        time.Duration
	HistoryLimit    int
	ProviderTimeout time.Duration
}

func defaultSettings() *settings {
	return &settings{
		Corpus: ".",
		AI:     *ai.DefaultConfig(),
		Index:  *indexing.DefaultConfig(),
	}
}

func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &fc, nil
}

// apply overlays the non-zero values of fc onto s.
func (fc *fileConfig) apply(s *settings) error {
	setString(&s.DB, fc.DB)
	setString(&s.Corpus, fc.Corpus)
	if len(fc.Extensions) > 0 {
		s.Extensions = fc.Extensions
	}

	setString(&s.AI.EmbeddingHost, fc.AI.EmbeddingHost)
	setString(&s.AI.EmbeddingModel, fc.AI.EmbeddingModel)
	setString(&s.AI.GeneratorHost, fc.AI.GeneratorHost)
	setString(&s.AI.GeneratorModel, fc.AI.GeneratorModel)
	setString(&s.AI.RerankHost, fc.AI.RerankHost)
	setString(&s.AI.RerankModel, fc.AI.RerankModel)
	setString(&s.AI.APIKey, fc.AI.APIKey)
	if fc.AI.RequestsPerSecond != 0 {
		s.AI.RequestsPerSecond = fc.AI.RequestsPerSecond
	}

	setInt(&s.Index.BatchSize, fc.Index.BatchSize)
	setInt(&s.Index.ReportInterval, fc.Index.ReportInterval)
	setInt(&s.Index.MaxRetries, fc.Index.MaxRetries)
	if err := setDuration(&s.Index.RetryDelay, fc.Index.RetryDelay, "index.retry_delay"); err != nil {
		return err
	}

	setInt(&s.HistoryLimit, fc.Search.HistoryLimit)
	if err := setDuration(&s.CacheTTL, fc.Search.CacheTTL, "search.cache_ttl"); err != nil {
		return err
	}
	return setDuration(&s.ProviderTimeout, fc.Search.ProviderTimeout, "search.provider_timeout")
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v, key string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = d
	return nil
}

// loadSettings resolves the effective settings for a command.
func loadSettings(c *cli.Context) (*settings, error) {
	s := defaultSettings()

	if path := c.String("config"); path != "" {
		fc, err := loadFileConfig(path)
		if err != nil {
			return nil, err
		}
		if err := fc.apply(s); err != nil {
			return nil, err
		}
	}

	overrideString(c, "db", &s.DB)
	overrideString(c, "corpus", &s.Corpus)
	if c.IsSet("ext") {
		s.Extensions = c.StringSlice("ext")
	}
	overrideString(c, "embedding-host", &s.AI.EmbeddingHost)
	overrideString(c, "embedding-model", &s.AI.EmbeddingModel)
	overrideString(c, "generator-host", &s.AI.GeneratorHost)
	overrideString(c, "generator-model", &s.AI.GeneratorModel)
	overrideString(c, "rerank-host", &s.AI.RerankHost)
	overrideString(c, "rerank-model", &s.AI.RerankModel)
	overrideString(c, "api-key", &s.AI.APIKey)
	if c.IsSet("rps") {
		s.AI.RequestsPerSecond = c.Float64("rps")
	}

	if s.DB == "" {
		return nil, fmt.Errorf("database path is required (--db or db in the config file)")
	}
	if err := s.AI.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func overrideString(c *cli.Context, name string, dst *string) {
	if c.IsSet(name) {
		*dst = c.String(name)
	}
}
