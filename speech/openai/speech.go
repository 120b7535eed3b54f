package openai

import (
	"context"
	"io"

	"github.com/sashabaranov/go-openai"
	"github.com/w-h-a/librarian/speech"
)

type openAISpeech struct {
	options speech.Options
	client  *openai.Client
}

func (s *openAISpeech) Synthesize(ctx context.Context, text string) ([]byte, error) {
	model := s.options.Model
	if len(model) == 0 {
		model = string(openai.TTSModel1)
	}

	voice := s.options.Voice
	if len(voice) == 0 {
		voice = string(openai.VoiceAlloy)
	}

	rsp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.SpeechModel(model),
		Input: text,
		Voice: openai.SpeechVoice(voice),
	})
	if err != nil {
		return nil, err
	}
	defer rsp.Close()

	return io.ReadAll(rsp)
}

func (s *openAISpeech) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	model := s.options.TranscribeModel
	if len(model) == 0 {
		model = openai.Whisper1
	}

	rsp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    model,
		FilePath: filename,
		Reader:   audio,
	})
	if err != nil {
		return "", err
	}

	return rsp.Text, nil
}

func NewSpeech(opts ...speech.Option) speech.Speech {
	options := speech.NewOptions(opts...)

	s := &openAISpeech{
		options: options,
	}

	client := openai.NewClient(options.ApiKey)

	s.client = client

	return s
}
