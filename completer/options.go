package completer

import (
	"context"

	"github.com/w-h-a/librarian/toolhandler"
)

type Option func(*Options)

type Options struct {
	ApiKey  string
	Model   string
	Context context.Context
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

type CompleteOption func(*CompleteOptions)

type CompleteOptions struct {
	Tools     []toolhandler.ToolSpec
	MaxTokens int
}

func WithTools(tools ...toolhandler.ToolSpec) CompleteOption {
	return func(o *CompleteOptions) {
		o.Tools = tools
	}
}

func WithMaxTokens(maxTokens int) CompleteOption {
	return func(o *CompleteOptions) {
		o.MaxTokens = maxTokens
	}
}

func NewCompleteOptions(opts ...CompleteOption) CompleteOptions {
	options := CompleteOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
