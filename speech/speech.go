package speech

import (
	"context"
	"io"
)

// Synthesizer turns response text into spoken audio (mp3 bytes).
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Transcriber turns uploaded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

type Speech interface {
	Synthesizer
	Transcriber
}
