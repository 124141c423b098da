package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI transcribes through the hosted audio transcription API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates the hosted backend. The API key is required; the model
// defaults to whisper-1.
func NewOpenAI(apiKey, model string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai backend: API key not set")
	}
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAI{client: openai.NewClient(apiKey), model: model}, nil
}

// Name identifies the backend.
func (o *OpenAI) Name() string { return "openai" }

// Close releases backend resources. The API client holds none.
func (o *OpenAI) Close() error { return nil }

// Initialize is a no-op for the hosted API; there is no model to load.
func (o *OpenAI) Initialize(_ context.Context, onProgress ProgressFunc) error {
	report(onProgress, 100)
	return nil
}

// Transcribe sends the payload to the transcription endpoint. The API
// reports no incremental progress, so only start and completion are
// signaled.
func (o *OpenAI) Transcribe(ctx context.Context, audio []byte, onProgress ProgressFunc) (string, error) {
	report(onProgress, 0)

	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.model,
		FilePath: "recording.mp3",
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		return "", fmt.Errorf("openai transcription: %w", err)
	}

	report(onProgress, 100)
	return strings.TrimSpace(resp.Text), nil
}
