package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/w-h-a/librarian/completer"
)

const defaultMaxTokens = 1024

type anthropicCompleter struct {
	options completer.Options
	client  *anthropic.Client
}

func (c *anthropicCompleter) Complete(ctx context.Context, messages []completer.Message, opts ...completer.CompleteOption) (completer.Message, error) {
	options := completer.NewCompleteOptions(opts...)

	maxTokens := options.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	req := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.options.Model),
		MaxTokens: int64(maxTokens),
	}

	for _, m := range messages {
		switch m.Role {
		case completer.RoleSystem:
			req.System = append(req.System, anthropic.TextBlockParam{Text: m.Content})
		case completer.RoleUser:
			req.Messages = append(req.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case completer.RoleTool:
			req.Messages = append(req.Messages, anthropic.NewUserMessage(anthropic.NewToolResultBlock(m.ToolCallID, m.Content, false)))
		case completer.RoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion
			if len(m.Content) > 0 {
				blocks = append(blocks, anthropic.NewTextBlock(m.Content))
			}
			for _, tc := range m.ToolCalls {
				blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, mustRawJSON(tc.Arguments), tc.Name))
			}
			if len(blocks) > 0 {
				req.Messages = append(req.Messages, anthropic.NewAssistantMessage(blocks...))
			}
		default:
			return completer.Message{}, fmt.Errorf("unsupported role: %s", m.Role)
		}
	}

	for _, spec := range options.Tools {
		props, _ := spec.InputSchema["properties"].(map[string]any)
		required, _ := spec.InputSchema["required"].([]string)
		req.Tools = append(req.Tools, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        spec.Name,
				Description: anthropic.String(spec.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: props,
					Required:   required,
				},
			},
		})
	}

	rsp, err := c.client.Messages.New(ctx, req)
	if err != nil {
		return completer.Message{}, err
	}

	out := completer.Message{
		Role: completer.RoleAssistant,
	}

	var b strings.Builder
	for _, content := range rsp.Content {
		switch block := content.AsAny().(type) {
		case anthropic.TextBlock:
			b.WriteString(block.Text)
		case anthropic.ToolUseBlock:
			args := map[string]any{}
			if len(block.Input) > 0 {
				if err := json.Unmarshal(block.Input, &args); err != nil {
					return completer.Message{}, fmt.Errorf("malformed tool arguments from Anthropic: %w", err)
				}
			}
			out.ToolCalls = append(out.ToolCalls, completer.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: args,
			})
		}
	}

	out.Content = b.String()

	if len(out.Content) == 0 && len(out.ToolCalls) == 0 {
		return completer.Message{}, errors.New("no response from Anthropic")
	}

	return out, nil
}

func mustRawJSON(args map[string]any) json.RawMessage {
	raw, err := json.Marshal(args)
	if err != nil {
		return json.RawMessage("{}")
	}
	return raw
}

func NewCompleter(opts ...completer.Option) completer.Completer {
	options := completer.NewOptions(opts...)

	c := &anthropicCompleter{
		options: options,
	}

	client := anthropic.NewClient(
		anthropicopt.WithAPIKey(options.ApiKey),
	)

	c.client = &client

	return c
}
