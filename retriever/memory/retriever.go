package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/w-h-a/librarian/retriever"
)

// memoryRetriever is a brute-force cosine-distance store. It is the default
// for local runs and tests; larger installs use the postgres retriever.
type memoryRetriever struct {
	options retriever.Options
	docs    []retriever.Document
	mtx     sync.RWMutex
}

func (r *memoryRetriever) Retrieve(ctx context.Context, embedding []float32, k int) ([]retriever.Document, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	if k <= 0 || len(r.docs) == 0 {
		return nil, nil
	}

	scored := make([]retriever.Document, 0, len(r.docs))
	for _, d := range r.docs {
		scored = append(scored, retriever.Document{
			Title:    d.Title,
			Text:     d.Text,
			Distance: cosineDistance(embedding, d.Embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Distance < scored[j].Distance
	})

	if k > len(scored) {
		k = len(scored)
	}

	return scored[:k], nil
}

func (r *memoryRetriever) Upsert(ctx context.Context, docs []retriever.Document) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, d := range docs {
		replaced := false
		for i := range r.docs {
			if r.docs[i].Title == d.Title {
				r.docs[i] = d
				replaced = true
				break
			}
		}
		if !replaced {
			r.docs = append(r.docs, d)
		}
	}

	return nil
}

func cosineDistance(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 1
	}

	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}

	if na == 0 || nb == 0 {
		return 1
	}

	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

func NewRetriever(opts ...retriever.Option) retriever.Retriever {
	options := retriever.NewOptions(opts...)

	return &memoryRetriever{
		options: options,
	}
}
