package knowledge

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const navigatorPage = `Home. About. Contact.
Navigator answers questions from staff and members with citations from your own documents!
It reduces call volume for MLS support teams by handling repetitive questions.
Learn more.
Press and hold the spacebar to talk to the assistant on this page.
2024, 2025.
© 2025 Lundy. All rights reserved.`

func TestBuildIndex(t *testing.T) {
	chunks := BuildIndex(navigatorPage)

	require.Len(t, chunks, 2)
	assert.Equal(t, "Navigator answers questions from staff and members with citations from your own documents", chunks[0].Text)
	assert.Equal(t, "It reduces call volume for MLS support teams by handling repetitive questions", chunks[1].Text)
	assert.Contains(t, chunks[0].Keywords, "citations")

	for _, c := range chunks {
		n := utf8.RuneCountInString(c.Text)
		assert.Greater(t, n, 30)
		assert.Less(t, n, 300)
		assert.False(t, IsBoilerplate(c.Text))
	}
}

func TestBuildIndex_DropsLongSentences(t *testing.T) {
	long := strings.Repeat("navigator ", 40)
	assert.Empty(t, BuildIndex(long+"."))
}

func TestIsBoilerplate(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Home", true},
		{"  customers ", true},
		{"© 2025 Lundy. All rights reserved", true},
		{"Listening... release spacebar when done", true},
		{"Press and hold spacebar", true},
		{"12, 300 - 4.5", true},
		{"Get started", true},
		{"Read the story", true},
		{"Navigator reads your documents", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBoilerplate(tt.text))
		})
	}
}

func TestJaccard(t *testing.T) {
	a := []string{"navigator", "support", "compliance"}
	b := []string{"support", "compliance", "listing", "voice"}

	assert.InDelta(t, 2.0/5.0, Jaccard(a, b), 1e-9)
	assert.Equal(t, Jaccard(a, b), Jaccard(b, a))
	assert.Equal(t, 1.0, Jaccard(a, a))
	assert.Equal(t, 0.0, Jaccard(nil, b))
	assert.Equal(t, 0.0, Jaccard(a, nil))
	assert.InDelta(t, 1.0/3.0, Jaccard([]string{"support", "support"}, []string{"support", "voice", "tool"}), 1e-9)
}

func TestSimilarity_Bounded(t *testing.T) {
	chunk := PageChunk{
		Text:     "Navigator answers support questions",
		Keywords: []string{"navigator", "answers", "support", "questions"},
	}

	queries := []string{
		"navigator answers support questions",
		"does navigator answer questions",
		"listing input",
		"",
	}
	for _, q := range queries {
		score := Similarity(q, chunk)
		assert.GreaterOrEqual(t, score, 0.0, q)
		assert.LessOrEqual(t, score, 1.2, q)
	}
	assert.InDelta(t, 1.2, Similarity("navigator answers support questions", chunk), 1e-9)
}

func TestSearch(t *testing.T) {
	index := BuildIndex(navigatorPage)

	answer, ok := Search("how does navigator handle repetitive questions", index)
	require.True(t, ok)
	assert.Equal(t, "It reduces call volume for MLS support teams by handling repetitive questions", answer)

	_, ok = Search("pricing plans", index)
	assert.False(t, ok)

	_, ok = Search("anything at all", nil)
	assert.False(t, ok)
}

func TestSearch_TiesKeepOriginalOrder(t *testing.T) {
	index := []PageChunk{
		{Text: "First chunk about voice listings", Keywords: []string{"first", "chunk", "voice", "listings"}},
		{Text: "Second chunk about voice listings", Keywords: []string{"second", "chunk", "voice", "listings"}},
	}

	answer, ok := Search("voice listings", index)
	require.True(t, ok)
	assert.Equal(t, "First chunk about voice listings", answer)
}

func TestDetermineAspect(t *testing.T) {
	tests := []struct {
		query string
		want  Aspect
	}{
		{"how does this work", AspectHow},
		{"what process do you follow", AspectHow},
		{"why should I care", AspectWhy},
		{"what is the benefit", AspectWhy},
		{"what is this", AspectWhat},
		{"tell me more", AspectWhat},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineAspect(tt.query))
		})
	}
}

func TestSummaryResolver_Answer(t *testing.T) {
	resolver := NewSummaryResolver([]PageSummary{
		{Path: "/", What: "home what", How: "home how", Why: "home why"},
		{Path: "/navigator", What: "nav what", How: "nav how"},
	})

	tests := []struct {
		name  string
		path  string
		query string
		want  string
	}{
		{"page specific", "/navigator", "what is this", "nav what"},
		{"trailing slash", "/navigator/", "how does it work", "nav how"},
		{"missing aspect falls back to home", "/navigator", "why use this", "home why"},
		{"unknown page falls back to home", "/pricing", "what is this", "home what"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := resolver.Answer(tt.path, tt.query)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := NewSummaryResolver(nil).Answer("/", "what is this")
	assert.False(t, ok)
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/", NormalizePath(""))
	assert.Equal(t, "/", NormalizePath("/"))
	assert.Equal(t, "/", NormalizePath("///"))
	assert.Equal(t, "/navigator", NormalizePath("navigator/"))
	assert.Equal(t, "/add-edit", NormalizePath("/add-edit?ref=nav#top"))
}

func TestStore_NotifyDebounces(t *testing.T) {
	store := NewStore(WithDebounce(30 * time.Millisecond))
	defer store.Close()

	store.Notify("/navigator", "Navigator answers questions from staff with citations.")
	store.Notify("/navigator", "Navigator reduces call volume for every support team.")

	assert.Empty(t, store.Chunks("/navigator"))

	assert.Eventually(t, func() bool {
		chunks := store.Chunks("/navigator")
		return len(chunks) == 1 && chunks[0].Text == "Navigator reduces call volume for every support team"
	}, time.Second, 5*time.Millisecond)

	answer, ok := store.Search("/navigator", "support call volume")
	require.True(t, ok)
	assert.Equal(t, "Navigator reduces call volume for every support team", answer)
}

func TestStore_ReplaceAndClose(t *testing.T) {
	store := NewStore(WithDebounce(20 * time.Millisecond))

	n := store.Replace("/", "Lundy builds voice-first software for real estate teams.")
	assert.Equal(t, 1, n)

	store.Notify("/", "Completely different text that should never be indexed here.")
	store.Close()

	time.Sleep(60 * time.Millisecond)
	chunks := store.Chunks("/")
	require.Len(t, chunks, 1)
	assert.Equal(t, "Lundy builds voice-first software for real estate teams", chunks[0].Text)

	_, ok := store.Search("/unknown", "voice")
	assert.False(t, ok)
}
