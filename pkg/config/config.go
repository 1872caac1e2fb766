package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App       AppConfig                 `yaml:"app"`
	Providers map[string]ProviderConfig `yaml:"providers"`
	LLM       LLMConfig                 `yaml:"llm"`
	Pricing   PricingConfig             `yaml:"pricing"`
	Memory    MemoryConfig              `yaml:"memory"`
	Retrieval RetrievalConfig           `yaml:"retrieval"`
}

type AppConfig struct {
	Name      string `yaml:"name"`
	Workspace string `yaml:"workspace"`
}

// ProviderConfig holds credentials for one external data source
// (weather, serpapi, exchange, amadeus, google_places, unsplash).
type ProviderConfig struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret,omitempty"`
}

type LLMConfig struct {
	Provider       string `yaml:"provider"` // openai, openrouter, googleai
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"base_url,omitempty"`
	EmbeddingModel string `yaml:"embedding_model,omitempty"`
}

// PricingConfig converts token counts into dollar cost for the usage log.
type PricingConfig struct {
	InputPer1K  float64 `yaml:"input_per_1k"`
	OutputPer1K float64 `yaml:"output_per_1k"`
}

type MemoryConfig struct {
	CorpusPath string `yaml:"corpus_path"`
	UsageLog   string `yaml:"usage_log"`
}

type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if cfg.Retrieval.TopK <= 0 {
		cfg.Retrieval.TopK = 5
	}
	if cfg.Memory.UsageLog == "" {
		cfg.Memory.UsageLog = "usage_log.csv"
	}
	if cfg.Memory.CorpusPath == "" {
		cfg.Memory.CorpusPath = "corpus.db"
	}

	return &cfg, nil
}

// Provider returns the config for a named data source, zero value if absent.
func (c *Config) Provider(name string) ProviderConfig {
	return c.Providers[name]
}
