package librarian

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/w-h-a/librarian/completer"
	"github.com/w-h-a/librarian/embedder"
	"github.com/w-h-a/librarian/imagegen"
	"github.com/w-h-a/librarian/library"
	"github.com/w-h-a/librarian/retriever"
	"github.com/w-h-a/librarian/toolhandler/summary"
)

const (
	DefaultTopK = 3

	// Returned without calling the model when retrieval comes back empty.
	// Distinct from the decline sentence the prompt instructs the model
	// to use.
	noMatchApology = "I'm sorry, I couldn't find any books matching your interest. Could you please rephrase?"

	imageSummaryPrefixLen = 500
)

// Librarian orchestrates one retrieval-augmented recommendation turn:
// embed the query, retrieve the nearest summaries, run the two-phase
// tool-calling protocol, and best-effort synthesize an illustration for a
// confirmed recommendation.
type Librarian struct {
	embedder   embedder.Embedder
	retriever  retriever.Retriever
	dispatcher *dispatcher
	library    *library.Library
	images     imagegen.Generator
	topK       int
}

// Outcome is the result of one Ask turn. Title is empty when the turn
// declined; ImageURL is empty when no illustration was produced.
type Outcome struct {
	Text     string `json:"text"`
	Title    string `json:"title,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

func (o Outcome) Recommended() bool {
	return len(o.Title) > 0
}

// Ask runs a single conversation turn. It is internally sequential; callers
// may run independent Ask calls concurrently as long as each Conversation
// has a single writer. Upstream embedding and chat failures propagate;
// image failures are downgraded to "no image".
func (l *Librarian) Ask(ctx context.Context, query string, conv *Conversation) (Outcome, error) {
	if len(strings.TrimSpace(query)) == 0 {
		return Outcome{}, errors.New("query is required")
	}

	vec, err := l.embedder.Embed(ctx, query)
	if err != nil {
		return Outcome{}, fmt.Errorf("embedding error: %w", err)
	}

	docs, err := l.retriever.Retrieve(ctx, vec, l.topK)
	if err != nil {
		return Outcome{}, fmt.Errorf("retrieval error: %w", err)
	}

	if len(docs) == 0 {
		return Outcome{Text: noMatchApology}, nil
	}

	conv.append(completer.Message{
		Role:    completer.RoleUser,
		Content: buildPrompt(query, docs),
	})

	result, err := l.dispatcher.run(ctx, conv)
	if err != nil {
		return Outcome{}, err
	}

	if result.state == stateDeclined {
		return Outcome{Text: result.text}, nil
	}

	out := Outcome{
		Text:  result.text,
		Title: result.title,
	}

	// Illustrate only titles that resolve in the record table; a
	// hallucinated title gets no image.
	if l.images != nil && len(out.Title) > 0 && len(out.Text) > 0 {
		if s, ok := l.library.Summary(out.Title); ok {
			url, err := l.images.Generate(ctx, imagePrompt(out.Title, s))
			if err != nil {
				slog.WarnContext(ctx, "image generation failed", "title", out.Title, "error", err)
			} else {
				out.ImageURL = url
			}
		}
	}

	return out, nil
}

// imagePrompt asks for mood and symbolism rather than a literal scene, and
// only feeds the generator a bounded prefix of the summary.
func imagePrompt(title string, s string) string {
	runes := []rune(s)
	if len(runes) > imageSummaryPrefixLen {
		runes = runes[:imageSummaryPrefixLen]
	}

	return fmt.Sprintf(
		"An evocative, artistic illustration inspired by the book \"%s\". Capture the mood and symbolism of the story rather than depicting a literal scene. Story: %s",
		title,
		string(runes),
	)
}

func New(
	embedder embedder.Embedder,
	retriever retriever.Retriever,
	completer completer.Completer,
	lib *library.Library,
	opts ...Option,
) *Librarian {
	if embedder == nil {
		panic("embedder is required")
	}

	if retriever == nil {
		panic("retriever is required")
	}

	if completer == nil {
		panic("completer is required")
	}

	if lib == nil {
		panic("library is required")
	}

	options := NewOptions(opts...)

	if options.TopK <= 0 {
		options.TopK = DefaultTopK
	}

	return &Librarian{
		embedder:  embedder,
		retriever: retriever,
		dispatcher: &dispatcher{
			completer: completer,
			tool:      summary.NewToolHandler(lib),
		},
		library: lib,
		images:  options.Images,
		topK:    options.TopK,
	}
}
