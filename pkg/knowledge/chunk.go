package knowledge

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"LundyVoice/pkg/nlp"
)

const (
	minFragmentLen = 20
	minChunkLen    = 30
	maxChunkLen    = 300
)

// PageChunk is a candidate answer sentence taken from page text.
type PageChunk struct {
	Text     string   `json:"text"`
	Keywords []string `json:"keywords"`
}

var (
	sentenceSplitter = regexp.MustCompile(`[.!?]+`)

	boilerplatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(home|about|contact|blog|products|customers|news)$`),
		regexp.MustCompile(`(?i)^©.*rights reserved`),
		regexp.MustCompile(`(?i)listening.*release spacebar`),
		regexp.MustCompile(`(?i)press.*hold.*spacebar`),
		regexp.MustCompile(`^[0-9\s\-.,]+$`),
		regexp.MustCompile(`(?i)^learn more$`),
		regexp.MustCompile(`(?i)^get started$`),
		regexp.MustCompile(`(?i)^read the story$`),
	}
)

// IsBoilerplate reports whether text is a nav label, copyright line, numeric
// line or stock call to action.
func IsBoilerplate(text string) bool {
	text = strings.TrimSpace(text)
	for _, p := range boilerplatePatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// BuildIndex splits page text into sentences and keeps those between 30 and
// 300 characters that are not boilerplate.
func BuildIndex(pageText string) []PageChunk {
	var chunks []PageChunk

	for _, fragment := range sentenceSplitter.Split(pageText, -1) {
		cleaned := strings.TrimSpace(fragment)
		n := utf8.RuneCountInString(cleaned)
		if n <= minFragmentLen {
			continue
		}
		if n <= minChunkLen || n >= maxChunkLen || IsBoilerplate(cleaned) {
			continue
		}

		chunks = append(chunks, PageChunk{
			Text:     cleaned,
			Keywords: nlp.ExtractKeywords(cleaned),
		})
	}

	return chunks
}
