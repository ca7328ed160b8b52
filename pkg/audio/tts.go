package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const defaultElevenLabsURL = "https://api.elevenlabs.io/v1/text-to-speech/"

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// TTSService synthesizes speech through the ElevenLabs REST API.
type TTSService struct {
	apiKey  string
	voiceID string
	baseURL string
	client  *http.Client
}

type TTSOption func(*TTSService)

func WithBaseURL(url string) TTSOption {
	return func(t *TTSService) {
		if url != "" {
			t.baseURL = url
		}
	}
}

func WithHTTPClient(c *http.Client) TTSOption {
	return func(t *TTSService) {
		if c != nil {
			t.client = c
		}
	}
}

func NewTTSService(apiKey, voiceID string, opts ...TTSOption) *TTSService {
	t := &TTSService{
		apiKey:  apiKey,
		voiceID: voiceID,
		baseURL: defaultElevenLabsURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Synthesize returns MPEG audio for text.
func (t *TTSService) Synthesize(ctx context.Context, text string) ([]byte, error) {
	body, err := jsoniter.Marshal(ttsRequest{
		Text:    text,
		ModelID: "eleven_multilingual_v2",
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.8,
			UseSpeakerBoost: true,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+t.voiceID, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ElevenLabs API error: %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}
