package librarian

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/librarian/library"
	"github.com/w-h-a/librarian/retriever"
)

type recordingRetriever struct {
	fakeRetriever
	upserted []retriever.Document
}

func (r *recordingRetriever) Upsert(ctx context.Context, docs []retriever.Document) error {
	r.upserted = append(r.upserted, docs...)
	return nil
}

func TestIndexLibraryEmbedsTitleAndSummary(t *testing.T) {
	lib := library.New(map[string]string{
		"Book A": "Summary A",
		"Book B": "Summary B",
	})

	emb := &fakeEmbedder{}
	ret := &recordingRetriever{}

	require.NoError(t, IndexLibrary(context.Background(), emb, ret, lib))

	require.Len(t, ret.upserted, 2)
	assert.Equal(t, "Book A", ret.upserted[0].Title)
	assert.Equal(t, "Book A. Summary A", ret.upserted[0].Text)
	assert.Equal(t, "Book B. Summary B", ret.upserted[1].Text)
	assert.NotEmpty(t, ret.upserted[0].Embedding)
	assert.Equal(t, 2, emb.calls)
}

func TestIndexLibraryEmbedderFailure(t *testing.T) {
	lib := library.New(map[string]string{"Book A": "Summary A"})

	emb := &fakeEmbedder{err: errors.New("quota exceeded")}
	ret := &recordingRetriever{}

	err := IndexLibrary(context.Background(), emb, ret, lib)
	require.Error(t, err)
	assert.Empty(t, ret.upserted)
}
