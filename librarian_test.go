package librarian

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/librarian/completer"
	embeddercache "github.com/w-h-a/librarian/embedder/cache"
	"github.com/w-h-a/librarian/library"
	"github.com/w-h-a/librarian/retriever"
)

type fakeEmbedder struct {
	calls int
	err   error
}

func (e *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return []float32{1, 0, 0}, nil
}

type fakeRetriever struct {
	docs []retriever.Document
	err  error
	gotK int
}

func (r *fakeRetriever) Retrieve(ctx context.Context, embedding []float32, k int) ([]retriever.Document, error) {
	r.gotK = k
	return r.docs, r.err
}

func (r *fakeRetriever) Upsert(ctx context.Context, docs []retriever.Document) error {
	return nil
}

type scriptedCompleter struct {
	replies  []completer.Message
	errs     []error
	calls    int
	requests [][]completer.Message
	options  []completer.CompleteOptions
}

func (c *scriptedCompleter) Complete(ctx context.Context, messages []completer.Message, opts ...completer.CompleteOption) (completer.Message, error) {
	cpy := make([]completer.Message, len(messages))
	copy(cpy, messages)
	c.requests = append(c.requests, cpy)
	c.options = append(c.options, completer.NewCompleteOptions(opts...))

	i := c.calls
	c.calls++

	if i < len(c.errs) && c.errs[i] != nil {
		return completer.Message{}, c.errs[i]
	}
	if i >= len(c.replies) {
		return completer.Message{}, errors.New("unexpected completion call")
	}
	return c.replies[i], nil
}

type fakeImages struct {
	calls   int
	prompts []string
	url     string
	err     error
}

func (g *fakeImages) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.url, nil
}

func toolCallReply(content string, titles ...string) completer.Message {
	msg := completer.Message{
		Role:    completer.RoleAssistant,
		Content: content,
	}
	for i, title := range titles {
		msg.ToolCalls = append(msg.ToolCalls, completer.ToolCall{
			ID:        "call_" + string(rune('a'+i)),
			Name:      "get_summary_by_title",
			Arguments: map[string]any{"title": title},
		})
	}
	return msg
}

func twoDocs() []retriever.Document {
	return []retriever.Document{
		{Title: "Book A", Text: "Book A: a tale of unlikely friendship.", Distance: 0.1},
		{Title: "Book B", Text: "Book B: a sprawling war epic.", Distance: 0.3},
	}
}

func TestAskEmptyRetrievalDeclinesWithoutModelCall(t *testing.T) {
	comp := &scriptedCompleter{}
	l := New(&fakeEmbedder{}, &fakeRetriever{}, comp, library.New(nil))

	out, err := l.Ask(context.Background(), "obscure interest", NewConversation())
	require.NoError(t, err)

	assert.Equal(t, "I'm sorry, I couldn't find any books matching your interest. Could you please rephrase?", out.Text)
	assert.False(t, out.Recommended())
	assert.Zero(t, comp.calls)
}

func TestAskUsesConfiguredTopK(t *testing.T) {
	ret := &fakeRetriever{}
	l := New(&fakeEmbedder{}, ret, &scriptedCompleter{}, library.New(nil))

	_, err := l.Ask(context.Background(), "anything", NewConversation())
	require.NoError(t, err)
	assert.Equal(t, DefaultTopK, ret.gotK)
}

func TestAskEmbeddingCachedAcrossCalls(t *testing.T) {
	emb := &fakeEmbedder{}
	comp := &scriptedCompleter{
		replies: []completer.Message{
			{Role: completer.RoleAssistant, Content: "no match"},
			{Role: completer.RoleAssistant, Content: "no match"},
		},
	}
	l := New(embeddercache.NewEmbedder(emb, 8), &fakeRetriever{docs: twoDocs()}, comp, library.New(nil))

	_, err := l.Ask(context.Background(), "found family", NewConversation())
	require.NoError(t, err)
	_, err = l.Ask(context.Background(), "found family", NewConversation())
	require.NoError(t, err)

	assert.Equal(t, 1, emb.calls)
}

func TestAskNoToolCallReturnsModelTextVerbatim(t *testing.T) {
	decline := "I couldn't find a suitable book in my database for that specific interest. Could I help you with a different theme?"
	comp := &scriptedCompleter{
		replies: []completer.Message{
			{Role: completer.RoleAssistant, Content: decline},
		},
	}
	images := &fakeImages{url: "https://img.example/x.png"}
	l := New(&fakeEmbedder{}, &fakeRetriever{docs: twoDocs()}, comp, library.New(nil), WithImageGenerator(images))

	conv := NewConversation()
	out, err := l.Ask(context.Background(), "underwater basket weaving", conv)
	require.NoError(t, err)

	assert.Equal(t, decline, out.Text)
	assert.False(t, out.Recommended())
	assert.Empty(t, out.ImageURL)
	assert.Equal(t, 1, comp.calls)
	assert.Zero(t, images.calls)

	// No tool result was appended.
	for _, m := range conv.Messages {
		assert.NotEqual(t, completer.RoleTool, m.Role)
	}
}

func TestAskFullRecommendationFlow(t *testing.T) {
	comp := &scriptedCompleter{
		replies: []completer.Message{
			toolCallReply("Book A fits your interest.", "Book A"),
			{Role: completer.RoleAssistant, Content: "You should read Book A. Full summary A, retold."},
		},
	}
	lib := library.New(map[string]string{"Book A": "Full summary A"})
	l := New(&fakeEmbedder{}, &fakeRetriever{docs: twoDocs()}, comp, lib)

	conv := NewConversation()
	out, err := l.Ask(context.Background(), "friendship", conv)
	require.NoError(t, err)

	assert.Equal(t, "Book A", out.Title)
	assert.True(t, out.Recommended())
	assert.Equal(t, "You should read Book A. Full summary A, retold.", out.Text)

	// History after one turn: system, augmented prompt, first reply, tool
	// result. The final reply is the return value and is not appended.
	require.Len(t, conv.Messages, 4)
	assert.Equal(t, completer.RoleSystem, conv.Messages[0].Role)
	assert.Equal(t, completer.RoleUser, conv.Messages[1].Role)
	assert.Contains(t, conv.Messages[1].Content, "Book A: a tale of unlikely friendship.")
	assert.Equal(t, completer.RoleAssistant, conv.Messages[2].Role)
	assert.Equal(t, completer.RoleTool, conv.Messages[3].Role)
	assert.Equal(t, "Full summary A", conv.Messages[3].Content)
	assert.Equal(t, "call_a", conv.Messages[3].ToolCallID)

	// Phase 1 declares the tool; phase 2 declares none and caps tokens.
	require.Len(t, comp.options, 2)
	require.Len(t, comp.options[0].Tools, 1)
	assert.Equal(t, "get_summary_by_title", comp.options[0].Tools[0].Name)
	assert.Empty(t, comp.options[1].Tools)
	assert.Equal(t, 250, comp.options[1].MaxTokens)

	// Phase 2 saw the tool result.
	phase2 := comp.requests[1]
	assert.Equal(t, "Full summary A", phase2[len(phase2)-1].Content)
}

func TestAskUnknownTitleStillRunsPhaseTwo(t *testing.T) {
	comp := &scriptedCompleter{
		replies: []completer.Message{
			toolCallReply("Try Book Z.", "Book Z"),
			{Role: completer.RoleAssistant, Content: "I could not verify that title."},
		},
	}
	lib := library.New(map[string]string{"Book A": "Full summary A"})
	l := New(&fakeEmbedder{}, &fakeRetriever{docs: twoDocs()}, comp, lib)

	conv := NewConversation()
	out, err := l.Ask(context.Background(), "friendship", conv)
	require.NoError(t, err)

	assert.Equal(t, 2, comp.calls)
	assert.Equal(t, "I could not verify that title.", out.Text)

	require.Len(t, conv.Messages, 4)
	assert.Equal(t, completer.RoleTool, conv.Messages[3].Role)
	assert.Equal(t, "The summary for the book 'Book Z' was not found.", conv.Messages[3].Content)
}

func TestAskUnknownTitleGetsNoImage(t *testing.T) {
	comp := &scriptedCompleter{
		replies: []completer.Message{
			toolCallReply("Try Book Z.", "Book Z"),
			{Role: completer.RoleAssistant, Content: "You should read Book Z."},
		},
	}
	lib := library.New(map[string]string{"Book A": "Full summary A"})
	images := &fakeImages{url: "https://img.example/z.png"}
	l := New(&fakeEmbedder{}, &fakeRetriever{docs: twoDocs()}, comp, lib, WithImageGenerator(images))

	out, err := l.Ask(context.Background(), "friendship", NewConversation())
	require.NoError(t, err)

	// The title never resolved in the record table, so no illustration.
	assert.Equal(t, "Book Z", out.Title)
	assert.Empty(t, out.ImageURL)
	assert.Zero(t, images.calls)
}

func TestAskHonorsOnlyFirstToolCall(t *testing.T) {
	comp := &scriptedCompleter{
		replies: []completer.Message{
			toolCallReply("Two at once.", "Book A", "Book B"),
			{Role: completer.RoleAssistant, Content: "Book A it is."},
		},
	}
	lib := library.New(map[string]string{
		"Book A": "Full summary A",
		"Book B": "Full summary B",
	})
	l := New(&fakeEmbedder{}, &fakeRetriever{docs: twoDocs()}, comp, lib)

	conv := NewConversation()
	out, err := l.Ask(context.Background(), "friendship", conv)
	require.NoError(t, err)

	assert.Equal(t, "Book A", out.Title)

	var toolMessages []completer.Message
	for _, m := range conv.Messages {
		if m.Role == completer.RoleTool {
			toolMessages = append(toolMessages, m)
		}
	}
	require.Len(t, toolMessages, 1)
	assert.Equal(t, "Full summary A", toolMessages[0].Content)
}

func TestAskMismatchedToolNameDeclines(t *testing.T) {
	reply := completer.Message{
		Role:    completer.RoleAssistant,
		Content: "calling something else",
		ToolCalls: []completer.ToolCall{
			{ID: "call_a", Name: "some_other_tool", Arguments: map[string]any{}},
		},
	}
	comp := &scriptedCompleter{replies: []completer.Message{reply}}
	l := New(&fakeEmbedder{}, &fakeRetriever{docs: twoDocs()}, comp, library.New(nil))

	out, err := l.Ask(context.Background(), "friendship", NewConversation())
	require.NoError(t, err)

	assert.Equal(t, 1, comp.calls)
	assert.False(t, out.Recommended())
	assert.Equal(t, "calling something else", out.Text)
}

func TestAskEmptyFirstReplyFallsBack(t *testing.T) {
	comp := &scriptedCompleter{
		replies: []completer.Message{
			{Role: completer.RoleAssistant, Content: ""},
		},
	}
	l := New(&fakeEmbedder{}, &fakeRetriever{docs: twoDocs()}, comp, library.New(nil))

	out, err := l.Ask(context.Background(), "friendship", NewConversation())
	require.NoError(t, err)
	assert.Equal(t, "I was unable to generate a response.", out.Text)
}

func TestAskImageFailureDoesNotFailTurn(t *testing.T) {
	comp := &scriptedCompleter{
		replies: []completer.Message{
			toolCallReply("Book A fits.", "Book A"),
			{Role: completer.RoleAssistant, Content: "Read Book A."},
		},
	}
	lib := library.New(map[string]string{"Book A": "Full summary A"})
	images := &fakeImages{err: errors.New("image service down")}
	l := New(&fakeEmbedder{}, &fakeRetriever{docs: twoDocs()}, comp, lib, WithImageGenerator(images))

	out, err := l.Ask(context.Background(), "friendship", NewConversation())
	require.NoError(t, err)

	assert.Equal(t, 1, images.calls)
	assert.NotEmpty(t, out.Text)
	assert.Empty(t, out.ImageURL)
}

func TestAskImagePromptUsesTruncatedSummary(t *testing.T) {
	long := strings.Repeat("x", 480) + "MARKER" + strings.Repeat("y", 100)
	comp := &scriptedCompleter{
		replies: []completer.Message{
			toolCallReply("Book A fits.", "Book A"),
			{Role: completer.RoleAssistant, Content: "Read Book A."},
		},
	}
	lib := library.New(map[string]string{"Book A": long})
	images := &fakeImages{url: "https://img.example/a.png"}
	l := New(&fakeEmbedder{}, &fakeRetriever{docs: twoDocs()}, comp, lib, WithImageGenerator(images))

	out, err := l.Ask(context.Background(), "friendship", NewConversation())
	require.NoError(t, err)

	assert.Equal(t, "https://img.example/a.png", out.ImageURL)
	require.Len(t, images.prompts, 1)
	assert.Contains(t, images.prompts[0], "Book A")
	assert.Contains(t, images.prompts[0], "MARKER")
	assert.NotContains(t, images.prompts[0], "yyyy")
}

func TestAskPhaseOneErrorPropagates(t *testing.T) {
	comp := &scriptedCompleter{errs: []error{errors.New("rate limited")}}
	l := New(&fakeEmbedder{}, &fakeRetriever{docs: twoDocs()}, comp, library.New(nil))

	conv := NewConversation()
	_, err := l.Ask(context.Background(), "friendship", conv)
	require.Error(t, err)

	// The augmented prompt is appended, but no assistant reply.
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, completer.RoleUser, conv.Messages[1].Role)
}

func TestAskEmbeddingErrorPropagates(t *testing.T) {
	emb := &fakeEmbedder{err: errors.New("auth failure")}
	l := New(emb, &fakeRetriever{docs: twoDocs()}, &scriptedCompleter{}, library.New(nil))

	_, err := l.Ask(context.Background(), "friendship", NewConversation())
	assert.Error(t, err)
}

func TestAskRejectsBlankQuery(t *testing.T) {
	l := New(&fakeEmbedder{}, &fakeRetriever{}, &scriptedCompleter{}, library.New(nil))

	_, err := l.Ask(context.Background(), "   ", NewConversation())
	assert.Error(t, err)
}
