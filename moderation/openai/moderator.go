package openai

import (
	"context"

	"github.com/sashabaranov/go-openai"
	"github.com/w-h-a/librarian/moderation"
)

type openAIModerator struct {
	options moderation.Options
	client  *openai.Client
}

func (m *openAIModerator) Allowed(ctx context.Context, text string) (bool, error) {
	rsp, err := m.client.Moderations(ctx, openai.ModerationRequest{
		Input: text,
		Model: m.options.Model,
	})
	if err != nil {
		// Callers fail closed when the moderation endpoint is unreachable.
		return false, err
	}

	for _, result := range rsp.Results {
		if result.Flagged {
			return false, nil
		}
	}

	return true, nil
}

func NewModerator(opts ...moderation.Option) moderation.Moderator {
	options := moderation.NewOptions(opts...)

	m := &openAIModerator{
		options: options,
	}

	client := openai.NewClient(options.ApiKey)

	m.client = client

	return m
}
