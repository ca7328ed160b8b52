package audio

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LundyVoice/pkg/voice"
)

var (
	_ voice.Synthesizer = (*TTSService)(nil)
	_ voice.Transcriber = (*TranscriptionService)(nil)
)

func TestTTSService_Synthesize(t *testing.T) {
	var got ttsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/voice-1", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("xi-api-key"))
		assert.Equal(t, "audio/mpeg", r.Header.Get("Accept"))

		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, jsoniter.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	tts := NewTTSService("secret", "voice-1", WithBaseURL(srv.URL+"/"))

	audio, err := tts.Synthesize(context.Background(), "Yes Mr. Lundy")
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3-bytes"), audio)
	assert.Equal(t, "Yes Mr. Lundy", got.Text)
	assert.Equal(t, 0.8, got.VoiceSettings.SimilarityBoost)
}

func TestTTSService_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewTTSService("bad", "v", WithBaseURL(srv.URL+"/")).Synthesize(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestTranscriptionService_Transcribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/audio/transcriptions"))
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "en", r.FormValue("language"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"  go to navigator  "}`))
	}))
	defer srv.Close()

	svc := NewTranscriptionService("key", srv.URL+"/v1")

	text, err := svc.Transcribe(context.Background(), strings.NewReader("fake-audio"), "clip.webm")
	require.NoError(t, err)
	assert.Equal(t, "go to navigator", text)
}
