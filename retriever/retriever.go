package retriever

import "context"

// Retriever wraps a vector index's nearest-neighbor search. An empty
// Retrieve result is valid and means no relevant material, not an error.
type Retriever interface {
	Retrieve(ctx context.Context, embedding []float32, k int) ([]Document, error)
	Upsert(ctx context.Context, docs []Document) error
}
