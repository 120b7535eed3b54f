package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/w-h-a/librarian/embedder"
)

const DefaultCapacity = 128

// cachingEmbedder memoizes vectors per exact query string. The key is the
// literal text: case and whitespace are significant. Entries are only ever
// evicted under capacity pressure, never invalidated.
type cachingEmbedder struct {
	next    embedder.Embedder
	entries *lru.Cache[string, []float32]
}

func (e *cachingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := e.entries.Get(text); ok {
		return vec, nil
	}

	vec, err := e.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	// Concurrent misses on the same key may duplicate the upstream call;
	// last write wins and both callers get an identical vector.
	e.entries.Add(text, vec)

	return vec, nil
}

func NewEmbedder(next embedder.Embedder, capacity int) embedder.Embedder {
	if next == nil {
		panic("embedder is required")
	}

	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	entries, err := lru.New[string, []float32](capacity)
	if err != nil {
		panic(err)
	}

	return &cachingEmbedder{
		next:    next,
		entries: entries,
	}
}
