package imagegen

import "context"

type Option func(*Options)

type Options struct {
	ApiKey  string
	Model   string
	Size    string
	Quality string
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

func WithSize(size string) Option {
	return func(o *Options) {
		o.Size = size
	}
}

func WithQuality(quality string) Option {
	return func(o *Options) {
		o.Quality = quality
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
