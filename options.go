package librarian

import "github.com/w-h-a/librarian/imagegen"

type Option func(*Options)

type Options struct {
	Images imagegen.Generator
	TopK   int
}

func WithImageGenerator(g imagegen.Generator) Option {
	return func(o *Options) {
		o.Images = g
	}
}

func WithTopK(k int) Option {
	return func(o *Options) {
		o.TopK = k
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		TopK: DefaultTopK,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
