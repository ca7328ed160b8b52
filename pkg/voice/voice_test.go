package voice

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPronounce(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Navigator is our AI-powered support tool", "Navigator is our artificial intelligence-powered support tool"},
		{"Built with A.I. for every MLS", "Built with artificial intelligence for every M L S"},
		{"Paste a URL or call the API", "Paste a U R L or call the A P I"},
		{"MLSs and the TRAIL", "MLSs and the TRAIL"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Pronounce(tt.in))
		})
	}
}

type echoSynth struct {
	got string
}

func (e *echoSynth) Synthesize(_ context.Context, text string) ([]byte, error) {
	e.got = text
	return []byte(text), nil
}

func TestWithPronunciation(t *testing.T) {
	inner := &echoSynth{}

	out, err := WithPronunciation(inner).Synthesize(context.Background(), "Ask the MLS")
	require.NoError(t, err)
	assert.Equal(t, "Ask the M L S", inner.got)
	assert.Equal(t, []byte("Ask the M L S"), out)
}

func TestTextSpeaker(t *testing.T) {
	var buf bytes.Buffer
	speaker := NewTextSpeaker(&buf, "> ")

	require.NoError(t, speaker.Speak(context.Background(), "Yes Mr. Lundy"))
	assert.Equal(t, "> Yes Mr. Lundy\n", buf.String())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, speaker.Speak(ctx, "late"), context.Canceled)
}

func TestCaptureGate(t *testing.T) {
	gate := NewCaptureGate()

	assert.True(t, gate.Accept("anything"))

	first, superseded := gate.Begin("c1")
	assert.Equal(t, "c1", first)
	assert.Empty(t, superseded)
	assert.Equal(t, "c1", gate.Active())

	second, superseded := gate.Begin("c2")
	assert.Equal(t, "c2", second)
	assert.Equal(t, "c1", superseded)

	assert.False(t, gate.Accept("c1"))
	assert.True(t, gate.Accept("c2"))
	assert.True(t, gate.Accept(""))

	gate.End("c1")
	assert.Equal(t, "c2", gate.Active())
	gate.End("c2")
	assert.Empty(t, gate.Active())
	assert.False(t, gate.Accept("c1"))

	generated, superseded := gate.Begin("")
	assert.NotEmpty(t, generated)
	assert.Empty(t, superseded)
}
