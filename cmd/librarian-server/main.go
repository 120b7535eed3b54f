package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/w-h-a/librarian"
	"github.com/w-h-a/librarian/config"
	"github.com/w-h-a/librarian/library"
	httpserver "github.com/w-h-a/librarian/server/http"
	"github.com/w-h-a/librarian/speech"
	openaispeech "github.com/w-h-a/librarian/speech/openai"
)

var (
	cfg struct {
		Config  string `help:"Path to the YAML config file" default:"config.yaml"`
		Data    string `help:"Path to the book summaries JSON file" default:""`
		Address string `help:"Listen address override" default:""`
	}
)

func main() {
	// Parse inputs
	_ = kong.Parse(&cfg)
	ctx := context.Background()

	_ = godotenv.Load()

	conf, err := config.Load(cfg.Config)
	if err != nil {
		log.Fatalf("❌ failed to load config: %v", err)
	}
	if len(cfg.Data) > 0 {
		conf.DataPath = cfg.Data
	}
	if len(cfg.Address) > 0 {
		conf.Server.Address = cfg.Address
	}

	// Load the book summaries
	lib, err := library.Load(conf.DataPath)
	if err != nil {
		log.Fatalf("❌ failed to load book summaries: %v", err)
	}

	// Create providers
	emb, err := librarian.NewEmbedderFromConfig(conf)
	if err != nil {
		log.Fatalf("❌ failed to create embedder: %v", err)
	}

	ret, err := librarian.NewRetrieverFromConfig(conf)
	if err != nil {
		log.Fatalf("❌ failed to create retriever: %v", err)
	}

	comp, err := librarian.NewCompleterFromConfig(conf)
	if err != nil {
		log.Fatalf("❌ failed to create completer: %v", err)
	}

	images, err := librarian.NewImageGeneratorFromConfig(conf)
	if err != nil {
		log.Fatalf("❌ failed to create image generator: %v", err)
	}

	mod, err := librarian.NewModeratorFromConfig(conf)
	if err != nil {
		log.Fatalf("❌ failed to create moderator: %v", err)
	}

	// The in-memory store starts empty, so index the library on startup
	if conf.Retriever.Type == "memory" {
		if err := librarian.IndexLibrary(ctx, emb, ret, lib); err != nil {
			log.Fatalf("❌ failed to index books: %v", err)
		}
		slog.InfoContext(ctx, "indexed library", "books", lib.Len())
	}

	opts := []librarian.Option{librarian.WithTopK(conf.TopK)}
	if images != nil {
		opts = append(opts, librarian.WithImageGenerator(images))
	}

	l := librarian.New(emb, ret, comp, lib, opts...)

	// Speech endpoints need an OpenAI key; run without them if it is absent
	var sp speech.Speech
	if key, err := config.APIKey("OPENAI_API_KEY"); err != nil {
		slog.WarnContext(ctx, "speech endpoints disabled", "error", err)
	} else {
		sp = openaispeech.NewSpeech(
			speech.WithApiKey(key),
			speech.WithModel(conf.Speech.Model),
			speech.WithVoice(conf.Speech.Voice),
			speech.WithTranscribeModel(conf.Speech.TranscribeModel),
		)
	}

	srv := httpserver.NewServer(
		l, mod, sp,
		httpserver.WithAddress(conf.Server.Address),
	)

	fmt.Printf("🚀 Smart Librarian listening on %s\n", conf.Server.Address)

	if err := srv.Run(); err != nil {
		log.Fatalf("❌ server stopped: %v", err)
	}
}
