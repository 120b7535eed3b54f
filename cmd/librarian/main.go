package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/w-h-a/librarian"
	"github.com/w-h-a/librarian/config"
	"github.com/w-h-a/librarian/library"
	"github.com/w-h-a/librarian/speech"
	openaispeech "github.com/w-h-a/librarian/speech/openai"
)

const refusal = "Please use appropriate language."

var (
	cfg struct {
		Config string `help:"Path to the YAML config file" default:"config.yaml"`
		Data   string `help:"Path to the book summaries JSON file" default:""`
		Speak  bool   `help:"Save each recommendation as speech.mp3" default:"false"`
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
		fmt.Printf("✅ Indexed %d books\n", lib.Len())
	}

	opts := []librarian.Option{librarian.WithTopK(conf.TopK)}
	if images != nil {
		opts = append(opts, librarian.WithImageGenerator(images))
	}

	l := librarian.New(emb, ret, comp, lib, opts...)

	var synth speech.Synthesizer
	if cfg.Speak {
		key, err := config.APIKey("OPENAI_API_KEY")
		if err != nil {
			log.Fatalf("❌ speech requires OPENAI_API_KEY: %v", err)
		}
		synth = openaispeech.NewSpeech(
			speech.WithApiKey(key),
			speech.WithModel(conf.Speech.Model),
			speech.WithVoice(conf.Speech.Voice),
		)
	}

	conv := librarian.NewConversation()
	responses := map[string]librarian.Outcome{}

	fmt.Println("Smart Librarian. Ask for a book by theme. Type 'exit' to quit.")

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("You: ")

		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nGoodbye!")
			return
		}

		input = strings.TrimSpace(input)
		if len(input) == 0 {
			continue
		}
		if input == "exit" || input == "quit" {
			fmt.Println("Goodbye!")
			return
		}

		if mod != nil {
			ok, err := mod.Allowed(ctx, input)
			if err != nil || !ok {
				fmt.Printf("Assistant: %s\n", refusal)
				fmt.Println("---")
				continue
			}
		}

		out, cached := responses[input]
		if !cached {
			out, err = l.Ask(ctx, input, conv)
			if err != nil {
				fmt.Println("Error generating response:", err)
				continue
			}
			responses[input] = out
		}

		fmt.Printf("Assistant: %s\n", out.Text)
		if len(out.ImageURL) > 0 {
			fmt.Printf("🖼 Illustration: %s\n", out.ImageURL)
		}

		if synth != nil && out.Recommended() {
			audio, err := synth.Synthesize(ctx, out.Text)
			if err != nil {
				fmt.Printf("❌ failed to synthesize speech: %v\n", err)
			} else if err := os.WriteFile("speech.mp3", audio, 0o644); err != nil {
				fmt.Printf("❌ failed to save speech.mp3: %v\n", err)
			} else {
				fmt.Println("🔊 Saved speech.mp3")
			}
		}

		fmt.Println("---")
	}
}
