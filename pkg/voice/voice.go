package voice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sync"

	"github.com/google/uuid"
)

var ErrUnavailable = errors.New("voice: speech engine not configured")

// Transcriber turns recorded audio into a final transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Synthesizer turns text into encoded audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Speaker delivers text to the listener by whatever means it has.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

var pronunciations = []struct {
	pattern *regexp.Regexp
	say     string
}{
	{regexp.MustCompile(`(?i)\bA\.I\.`), "artificial intelligence"},
	{regexp.MustCompile(`\bAI\b`), "artificial intelligence"},
	{regexp.MustCompile(`\bMLS\b`), "M L S"},
	{regexp.MustCompile(`\bURL\b`), "U R L"},
	{regexp.MustCompile(`\bAPI\b`), "A P I"},
}

// Pronounce spells out acronyms the speech engines read badly. It is applied
// to synthesized speech only, never to captions.
func Pronounce(text string) string {
	for _, p := range pronunciations {
		text = p.pattern.ReplaceAllString(text, p.say)
	}
	return text
}

type pronouncing struct {
	next Synthesizer
}

// WithPronunciation rewrites text with Pronounce before handing it to s.
func WithPronunciation(s Synthesizer) Synthesizer {
	return pronouncing{next: s}
}

func (p pronouncing) Synthesize(ctx context.Context, text string) ([]byte, error) {
	return p.next.Synthesize(ctx, Pronounce(text))
}

// TextSpeaker writes each utterance as a line of text.
type TextSpeaker struct {
	mu     sync.Mutex
	w      io.Writer
	prefix string
}

func NewTextSpeaker(w io.Writer, prefix string) *TextSpeaker {
	return &TextSpeaker{w: w, prefix: prefix}
}

func (s *TextSpeaker) Speak(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintf(s.w, "%s%s\n", s.prefix, text); err != nil {
		return fmt.Errorf("speak: %w", err)
	}
	return nil
}

// CaptureGate allows one active capture at a time. Results tagged with a
// capture that has since been superseded are refused.
type CaptureGate struct {
	mu     sync.Mutex
	latest string
	open   bool
}

func NewCaptureGate() *CaptureGate {
	return &CaptureGate{}
}

// Begin starts a capture, superseding any other. An empty id gets a fresh one.
func (g *CaptureGate) Begin(id string) (current, superseded string) {
	if id == "" {
		id = uuid.NewString()
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.open && g.latest != id {
		superseded = g.latest
	}
	g.latest = id
	g.open = true
	return id, superseded
}

// Accept reports whether a result from capture id may be processed: only the
// most recent capture is current. Untagged results are accepted.
func (g *CaptureGate) Accept(id string) bool {
	if id == "" {
		return true
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	return g.latest == "" || g.latest == id
}

// End marks capture id as finished if it is still the latest.
func (g *CaptureGate) End(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.latest == id {
		g.open = false
	}
}

// Active returns the capture in progress, or "".
func (g *CaptureGate) Active() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.open {
		return ""
	}
	return g.latest
}
