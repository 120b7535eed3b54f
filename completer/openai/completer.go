package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"github.com/w-h-a/librarian/completer"
)

type openAICompleter struct {
	options completer.Options
	client  *openai.Client
}

func (c *openAICompleter) Complete(ctx context.Context, messages []completer.Message, opts ...completer.CompleteOption) (completer.Message, error) {
	options := completer.NewCompleteOptions(opts...)

	req := openai.ChatCompletionRequest{
		Model:    c.options.Model,
		Messages: toOpenAIMessages(messages),
	}

	if options.MaxTokens > 0 {
		req.MaxTokens = options.MaxTokens
	}

	if len(options.Tools) > 0 {
		for _, spec := range options.Tools {
			req.Tools = append(req.Tools, openai.Tool{
				Type: openai.ToolTypeFunction,
				Function: &openai.FunctionDefinition{
					Name:        spec.Name,
					Description: spec.Description,
					Parameters:  spec.InputSchema,
				},
			})
		}
		req.ToolChoice = "auto"
	}

	rsp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return completer.Message{}, err
	}

	if len(rsp.Choices) == 0 {
		return completer.Message{}, errors.New("no response from OpenAI")
	}

	return fromOpenAIMessage(rsp.Choices[0].Message)
}

func toOpenAIMessages(messages []completer.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))

	for _, m := range messages {
		msg := openai.ChatCompletionMessage{
			Role:       m.Role,
			Content:    m.Content,
			Name:       m.Name,
			ToolCallID: m.ToolCallID,
		}

		for _, tc := range m.ToolCalls {
			args, _ := json.Marshal(tc.Arguments)
			msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: string(args),
				},
			})
		}

		out = append(out, msg)
	}

	return out
}

func fromOpenAIMessage(msg openai.ChatCompletionMessage) (completer.Message, error) {
	out := completer.Message{
		Role:    completer.RoleAssistant,
		Content: msg.Content,
	}

	for _, tc := range msg.ToolCalls {
		args := map[string]any{}
		if len(tc.Function.Arguments) > 0 {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				return completer.Message{}, fmt.Errorf("malformed tool arguments from OpenAI: %w", err)
			}
		}
		out.ToolCalls = append(out.ToolCalls, completer.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}

	return out, nil
}

func NewCompleter(opts ...completer.Option) completer.Completer {
	options := completer.NewOptions(opts...)

	c := &openAICompleter{
		options: options,
	}

	client := openai.NewClient(options.ApiKey)

	c.client = client

	return c
}
