package retriever

import "context"

type Option func(*Options)

type Options struct {
	Location string
	Table    string
	Context  context.Context
}

func WithLocation(location string) Option {
	return func(o *Options) {
		o.Location = location
	}
}

func WithTable(table string) Option {
	return func(o *Options) {
		o.Table = table
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Table:   "books",
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
