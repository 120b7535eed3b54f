package summary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/w-h-a/librarian/library"
	"github.com/w-h-a/librarian/toolhandler"
)

const Name = "get_summary_by_title"

// summaryToolHandler resolves a book title to its full stored summary. An
// unknown title yields a sentinel string, never an error, so the model can
// recover conversationally.
type summaryToolHandler struct {
	lib *library.Library
}

func (h *summaryToolHandler) Spec() toolhandler.ToolSpec {
	return toolhandler.ToolSpec{
		Name:        Name,
		Description: "Get the detailed summary for a specific book title.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{
					"type":        "string",
					"description": "The exact title of the book.",
				},
			},
			"required": []string{"title"},
		},
	}
}

func (h *summaryToolHandler) Invoke(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	title, _ := req.Arguments["title"].(string)

	slog.InfoContext(ctx, "tool called", "tool", Name, "title", title)

	if s, ok := h.lib.Summary(title); ok {
		return toolhandler.ToolResponse{Content: s}, nil
	}

	return toolhandler.ToolResponse{
		Content: fmt.Sprintf("The summary for the book '%s' was not found.", title),
	}, nil
}

func NewToolHandler(lib *library.Library) toolhandler.ToolHandler {
	if lib == nil {
		panic("library is required")
	}

	return &summaryToolHandler{
		lib: lib,
	}
}
