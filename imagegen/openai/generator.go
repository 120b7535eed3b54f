package openai

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"
	"github.com/w-h-a/librarian/imagegen"
)

type openAIGenerator struct {
	options imagegen.Options
	client  *openai.Client
}

func (g *openAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	model := g.options.Model
	if len(model) == 0 {
		model = openai.CreateImageModelDallE3
	}

	size := g.options.Size
	if len(size) == 0 {
		size = openai.CreateImageSize1024x1024
	}

	quality := g.options.Quality
	if len(quality) == 0 {
		quality = openai.CreateImageQualityStandard
	}

	rsp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          model,
		Size:           size,
		Quality:        quality,
		N:              1,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return "", err
	}

	if len(rsp.Data) == 0 || len(rsp.Data[0].URL) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	return rsp.Data[0].URL, nil
}

func NewGenerator(opts ...imagegen.Option) imagegen.Generator {
	options := imagegen.NewOptions(opts...)

	g := &openAIGenerator{
		options: options,
	}

	client := openai.NewClient(options.ApiKey)

	g.client = client

	return g
}
