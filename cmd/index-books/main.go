package main

import (
	"context"
	"fmt"
	"log"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/w-h-a/librarian"
	"github.com/w-h-a/librarian/config"
	"github.com/w-h-a/librarian/library"
)

var (
	cfg struct {
		Config string `help:"Path to the YAML config file" default:"config.yaml"`
		Data   string `help:"Path to the book summaries JSON file" default:""`
		Query  string `help:"Smoke test query to run after indexing" default:"friendship and adventure"`
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

	// Embed and upsert every record
	if err := librarian.IndexLibrary(ctx, emb, ret, lib); err != nil {
		log.Fatalf("❌ failed to index books: %v", err)
	}

	fmt.Printf("✅ Indexed %d books into the %s store\n", lib.Len(), conf.Retriever.Type)

	// Smoke test the index
	vec, err := emb.Embed(ctx, cfg.Query)
	if err != nil {
		log.Fatalf("❌ failed to embed smoke test query: %v", err)
	}

	docs, err := ret.Retrieve(ctx, vec, conf.TopK)
	if err != nil {
		log.Fatalf("❌ failed to query the index: %v", err)
	}

	fmt.Printf("Top matches for: '%s'\n", cfg.Query)
	for _, doc := range docs {
		fmt.Printf("  %s (distance %.4f)\n", doc.Title, doc.Distance)
	}
}
