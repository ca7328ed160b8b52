package audio

import (
	"context"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type TranscriptionService struct {
	client   *openai.Client
	language string
}

// NewTranscriptionService builds a Whisper client. baseURL may be empty.
func NewTranscriptionService(apiKey, baseURL string) *TranscriptionService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &TranscriptionService{
		client:   openai.NewClientWithConfig(cfg),
		language: "en",
	}
}

// Transcribe sends the recording to Whisper and returns the trimmed text.
func (t *TranscriptionService) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	if filename == "" {
		filename = "capture.webm"
	}

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filename,
		Reader:   audio,
		Language: t.language,
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcription: %w", err)
	}

	return strings.TrimSpace(resp.Text), nil
}
