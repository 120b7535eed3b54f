package librarian

import (
	"fmt"

	"github.com/w-h-a/librarian/completer"
	anthropiccompleter "github.com/w-h-a/librarian/completer/anthropic"
	openaicompleter "github.com/w-h-a/librarian/completer/openai"
	"github.com/w-h-a/librarian/config"
	"github.com/w-h-a/librarian/embedder"
	embeddercache "github.com/w-h-a/librarian/embedder/cache"
	googleembedder "github.com/w-h-a/librarian/embedder/google"
	openaiembedder "github.com/w-h-a/librarian/embedder/openai"
	"github.com/w-h-a/librarian/imagegen"
	openaiimages "github.com/w-h-a/librarian/imagegen/openai"
	"github.com/w-h-a/librarian/moderation"
	openaimoderation "github.com/w-h-a/librarian/moderation/openai"
	"github.com/w-h-a/librarian/moderation/wordlist"
	"github.com/w-h-a/librarian/retriever"
	memoryretriever "github.com/w-h-a/librarian/retriever/memory"
	postgresretriever "github.com/w-h-a/librarian/retriever/postgres"
)

// Config-driven factories for the cmd entry points. Each returns a ready
// provider or an error naming the misconfiguration.

func NewEmbedderFromConfig(cfg *config.Config) (embedder.Embedder, error) {
	key, err := config.APIKey(cfg.Embedding.APIKeyEnv)
	if err != nil {
		return nil, err
	}

	var e embedder.Embedder

	switch cfg.Embedding.Provider {
	case "openai":
		e = openaiembedder.NewEmbedder(
			embedder.WithApiKey(key),
			embedder.WithModel(cfg.Embedding.Model),
		)
	case "google":
		e = googleembedder.NewEmbedder(
			embedder.WithApiKey(key),
			embedder.WithModel(cfg.Embedding.Model),
		)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Embedding.Provider)
	}

	return embeddercache.NewEmbedder(e, cfg.Embedding.CacheSize), nil
}

func NewRetrieverFromConfig(cfg *config.Config) (retriever.Retriever, error) {
	switch cfg.Retriever.Type {
	case "memory", "":
		return memoryretriever.NewRetriever(), nil
	case "postgres":
		if cfg.Retriever.Postgres == nil || len(cfg.Retriever.Postgres.URL) == 0 {
			return nil, fmt.Errorf("postgres retriever config missing")
		}
		return postgresretriever.NewRetriever(
			retriever.WithLocation(cfg.Retriever.Postgres.URL),
			retriever.WithTable(cfg.Retriever.Postgres.Table),
		), nil
	default:
		return nil, fmt.Errorf("unknown retriever: %s", cfg.Retriever.Type)
	}
}

func NewCompleterFromConfig(cfg *config.Config) (completer.Completer, error) {
	key, err := config.APIKey(cfg.Chat.APIKeyEnv)
	if err != nil {
		return nil, err
	}

	switch cfg.Chat.Provider {
	case "openai":
		return openaicompleter.NewCompleter(
			completer.WithApiKey(key),
			completer.WithModel(cfg.Chat.Model),
		), nil
	case "anthropic":
		return anthropiccompleter.NewCompleter(
			completer.WithApiKey(key),
			completer.WithModel(cfg.Chat.Model),
		), nil
	default:
		return nil, fmt.Errorf("unknown chat provider: %s", cfg.Chat.Provider)
	}
}

// NewImageGeneratorFromConfig returns nil when illustration generation is
// disabled; the orchestrator treats a nil generator as "no images".
func NewImageGeneratorFromConfig(cfg *config.Config) (imagegen.Generator, error) {
	if !cfg.Images.Enabled {
		return nil, nil
	}

	key, err := config.APIKey(cfg.Chat.APIKeyEnv)
	if err != nil {
		return nil, err
	}

	return openaiimages.NewGenerator(
		imagegen.WithApiKey(key),
		imagegen.WithModel(cfg.Images.Model),
		imagegen.WithSize(cfg.Images.Size),
		imagegen.WithQuality(cfg.Images.Quality),
	), nil
}

// NewModeratorFromConfig returns nil when moderation is disabled.
func NewModeratorFromConfig(cfg *config.Config) (moderation.Moderator, error) {
	switch cfg.Moderation.Type {
	case "none":
		return nil, nil
	case "wordlist", "":
		return wordlist.NewModerator(), nil
	case "openai":
		key, err := config.APIKey(cfg.Chat.APIKeyEnv)
		if err != nil {
			return nil, err
		}
		return openaimoderation.NewModerator(
			moderation.WithApiKey(key),
			moderation.WithModel(cfg.Moderation.Model),
		), nil
	default:
		return nil, fmt.Errorf("unknown moderation type: %s", cfg.Moderation.Type)
	}
}
