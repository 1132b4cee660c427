package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent iris configuration stored as config.toml
// in the .iris/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version    int              `toml:"version"`
	Storage    StorageConfig    `toml:"storage"`
	API        APIConfig        `toml:"api"`
	Client     ClientConfig     `toml:"client"`
	Embedding  EmbeddingConfig  `toml:"embedding"`
	Generation GenerationConfig `toml:"generation"`
	Classifier ClassifierConfig `toml:"classifier"`
	Search     SearchConfig     `toml:"search"`
	Events     EventsConfig     `toml:"events"`
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	Provider    string `toml:"provider,omitempty"`
	PostgresURL string `toml:"postgres_url,omitempty"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// ClientConfig holds settings for CLI commands that connect to the running
// API server (e.g. iris chat). The value is a full URL (scheme + host + port).
type ClientConfig struct {
	APITarget string `toml:"api_target,omitempty"`
}

// EmbeddingConfig holds embedding backend settings.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Model      string `toml:"model,omitempty"`
	Dimensions uint   `toml:"dimensions,omitempty"`
	CharBudget uint   `toml:"char_budget,omitempty"`
}

// GenerationConfig holds generation backend settings.
type GenerationConfig struct {
	Provider       string  `toml:"provider,omitempty"`
	Target         string  `toml:"target,omitempty"`
	Model          string  `toml:"model,omitempty"`
	MaxTokens      uint    `toml:"max_tokens,omitempty"`
	Temperature    float64 `toml:"temperature,omitempty"`
	Attempts       uint    `toml:"attempts,omitempty"`
	TimeoutSeconds uint    `toml:"timeout_seconds,omitempty"`
}

// ClassifierConfig holds the confidence-blend weights of the axis
// classifier. These are empirically tuned, so they live in config rather
// than code.
type ClassifierConfig struct {
	BlendAbs    float64 `toml:"blend_abs,omitempty"`
	BlendMargin float64 `toml:"blend_margin,omitempty"`
}

// SearchConfig holds the similarity thresholds gating embedding-fallback
// retrieval.
type SearchConfig struct {
	PoliticianThreshold float64 `toml:"politician_threshold,omitempty"`
	DocumentThreshold   float64 `toml:"document_threshold,omitempty"`
}

// EventsConfig holds exchange event publishing settings.
type EventsConfig struct {
	Provider string `toml:"provider,omitempty"`
	Brokers  string `toml:"brokers,omitempty"`
	Topic    string `toml:"topic,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func uintKey(get func(*Config) uint, set func(*Config, uint)) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			if get(c) == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(get(c)), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid uint value %q: %w", v, err)
			}
			set(c, uint(n))
			return nil
		},
	}
}

func floatKey(get func(*Config) float64, set func(*Config, float64)) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			return strconv.FormatFloat(get(c), 'f', -1, 64)
		},
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid float value %q: %w", v, err)
			}
			set(c, f)
			return nil
		},
	}
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"storage.provider": {
		get: func(c *Config) string { return c.Storage.Provider },
		set: func(c *Config, v string) error { c.Storage.Provider = v; return nil },
	},
	"storage.postgres_url": {
		get: func(c *Config) string { return c.Storage.PostgresURL },
		set: func(c *Config, v string) error { c.Storage.PostgresURL = v; return nil },
	},
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"client.api_target": {
		get: func(c *Config) string { return c.Client.APITarget },
		set: func(c *Config, v string) error { c.Client.APITarget = v; return nil },
	},
	"embedding.provider": {
		get: func(c *Config) string { return c.Embedding.Provider },
		set: func(c *Config, v string) error { c.Embedding.Provider = v; return nil },
	},
	"embedding.target": {
		get: func(c *Config) string { return c.Embedding.Target },
		set: func(c *Config, v string) error { c.Embedding.Target = v; return nil },
	},
	"embedding.model": {
		get: func(c *Config) string { return c.Embedding.Model },
		set: func(c *Config, v string) error { c.Embedding.Model = v; return nil },
	},
	"embedding.dimensions": uintKey(
		func(c *Config) uint { return c.Embedding.Dimensions },
		func(c *Config, v uint) { c.Embedding.Dimensions = v },
	),
	"embedding.char_budget": uintKey(
		func(c *Config) uint { return c.Embedding.CharBudget },
		func(c *Config, v uint) { c.Embedding.CharBudget = v },
	),
	"generation.provider": {
		get: func(c *Config) string { return c.Generation.Provider },
		set: func(c *Config, v string) error { c.Generation.Provider = v; return nil },
	},
	"generation.target": {
		get: func(c *Config) string { return c.Generation.Target },
		set: func(c *Config, v string) error { c.Generation.Target = v; return nil },
	},
	"generation.model": {
		get: func(c *Config) string { return c.Generation.Model },
		set: func(c *Config, v string) error { c.Generation.Model = v; return nil },
	},
	"generation.max_tokens": uintKey(
		func(c *Config) uint { return c.Generation.MaxTokens },
		func(c *Config, v uint) { c.Generation.MaxTokens = v },
	),
	"generation.temperature": floatKey(
		func(c *Config) float64 { return c.Generation.Temperature },
		func(c *Config, v float64) { c.Generation.Temperature = v },
	),
	"generation.attempts": uintKey(
		func(c *Config) uint { return c.Generation.Attempts },
		func(c *Config, v uint) { c.Generation.Attempts = v },
	),
	"generation.timeout_seconds": uintKey(
		func(c *Config) uint { return c.Generation.TimeoutSeconds },
		func(c *Config, v uint) { c.Generation.TimeoutSeconds = v },
	),
	"classifier.blend_abs": floatKey(
		func(c *Config) float64 { return c.Classifier.BlendAbs },
		func(c *Config, v float64) { c.Classifier.BlendAbs = v },
	),
	"classifier.blend_margin": floatKey(
		func(c *Config) float64 { return c.Classifier.BlendMargin },
		func(c *Config, v float64) { c.Classifier.BlendMargin = v },
	),
	"search.politician_threshold": floatKey(
		func(c *Config) float64 { return c.Search.PoliticianThreshold },
		func(c *Config, v float64) { c.Search.PoliticianThreshold = v },
	),
	"search.document_threshold": floatKey(
		func(c *Config) float64 { return c.Search.DocumentThreshold },
		func(c *Config, v float64) { c.Search.DocumentThreshold = v },
	),
	"events.provider": {
		get: func(c *Config) string { return c.Events.Provider },
		set: func(c *Config, v string) error { c.Events.Provider = v; return nil },
	},
	"events.brokers": {
		get: func(c *Config) string { return c.Events.Brokers },
		set: func(c *Config, v string) error { c.Events.Brokers = v; return nil },
	},
	"events.topic": {
		get: func(c *Config) string { return c.Events.Topic },
		set: func(c *Config, v string) error { c.Events.Topic = v; return nil },
	},
}
