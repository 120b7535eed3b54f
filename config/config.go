package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ChatConfig selects and configures the chat completion provider.
type ChatConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
	CacheSize int    `yaml:"cache_size"`
}

// RetrieverConfig selects the vector store implementation.
type RetrieverConfig struct {
	Type     string          `yaml:"type"`
	Postgres *PostgresConfig `yaml:"postgres,omitempty"`
}

// PostgresConfig contains connection details for the pgvector store.
type PostgresConfig struct {
	URL   string `yaml:"url"`
	Table string `yaml:"table"`
}

// ImagesConfig configures optional illustration generation.
type ImagesConfig struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
	Size    string `yaml:"size"`
	Quality string `yaml:"quality"`
}

// SpeechConfig configures text-to-speech and transcription.
type SpeechConfig struct {
	Model           string `yaml:"model"`
	Voice           string `yaml:"voice"`
	TranscribeModel string `yaml:"transcribe_model"`
}

// ModerationConfig selects the input gate: wordlist, openai, or none.
type ModerationConfig struct {
	Type  string `yaml:"type"`
	Model string `yaml:"model"`
}

type ServerConfig struct {
	Address string `yaml:"address"`
}

type Config struct {
	Chat       ChatConfig       `yaml:"chat"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Retriever  RetrieverConfig  `yaml:"retriever"`
	Images     ImagesConfig     `yaml:"images"`
	Speech     SpeechConfig     `yaml:"speech"`
	Moderation ModerationConfig `yaml:"moderation"`
	Server     ServerConfig     `yaml:"server"`
	DataPath   string           `yaml:"data_path"`
	TopK       int              `yaml:"top_k"`
}

// APIKey resolves the configured environment variable for a provider key.
func APIKey(env string) (string, error) {
	key := os.Getenv(env)
	if len(key) == 0 {
		return "", fmt.Errorf("%s not found in the environment", env)
	}
	return key, nil
}

// Load reads a config from path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	return &cfg, nil
}

func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if len(cfg.Chat.Provider) == 0 {
		cfg.Chat.Provider = "openai"
	}
	if len(cfg.Chat.Model) == 0 {
		cfg.Chat.Model = "gpt-4.1-mini"
	}
	if len(cfg.Chat.APIKeyEnv) == 0 {
		cfg.Chat.APIKeyEnv = "OPENAI_API_KEY"
	}

	if len(cfg.Embedding.Provider) == 0 {
		cfg.Embedding.Provider = "openai"
	}
	if len(cfg.Embedding.Model) == 0 {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if len(cfg.Embedding.APIKeyEnv) == 0 {
		cfg.Embedding.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 128
	}

	if len(cfg.Retriever.Type) == 0 {
		cfg.Retriever.Type = "memory"
	}
	if cfg.Retriever.Type == "postgres" && cfg.Retriever.Postgres != nil && len(cfg.Retriever.Postgres.Table) == 0 {
		cfg.Retriever.Postgres.Table = "books"
	}

	if len(cfg.Images.Model) == 0 {
		cfg.Images.Model = "dall-e-3"
	}
	if len(cfg.Images.Size) == 0 {
		cfg.Images.Size = "1024x1024"
	}
	if len(cfg.Images.Quality) == 0 {
		cfg.Images.Quality = "standard"
	}

	if len(cfg.Speech.Model) == 0 {
		cfg.Speech.Model = "tts-1"
	}
	if len(cfg.Speech.Voice) == 0 {
		cfg.Speech.Voice = "alloy"
	}
	if len(cfg.Speech.TranscribeModel) == 0 {
		cfg.Speech.TranscribeModel = "whisper-1"
	}

	if len(cfg.Moderation.Type) == 0 {
		cfg.Moderation.Type = "wordlist"
	}

	if len(cfg.Server.Address) == 0 {
		cfg.Server.Address = ":8080"
	}

	if len(cfg.DataPath) == 0 {
		cfg.DataPath = "data/book_summaries.json"
	}

	if cfg.TopK == 0 {
		cfg.TopK = 3
	}
}
