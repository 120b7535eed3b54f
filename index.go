package librarian

import (
	"context"
	"fmt"

	"github.com/w-h-a/librarian/embedder"
	"github.com/w-h-a/librarian/library"
	"github.com/w-h-a/librarian/retriever"
)

// IndexLibrary embeds every record and upserts it into the vector store.
// The embedded text is "<title>. <summary>" so the title contributes to the
// semantic signal.
func IndexLibrary(ctx context.Context, emb embedder.Embedder, ret retriever.Retriever, lib *library.Library) error {
	docs := make([]retriever.Document, 0, lib.Len())

	for _, title := range lib.Titles() {
		s, _ := lib.Summary(title)
		text := fmt.Sprintf("%s. %s", title, s)

		vec, err := emb.Embed(ctx, text)
		if err != nil {
			return fmt.Errorf("failed to embed %q: %w", title, err)
		}

		docs = append(docs, retriever.Document{
			Title:     title,
			Text:      text,
			Embedding: vec,
		})
	}

	return ret.Upsert(ctx, docs)
}
