package nlp

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizedQuery is the cleaned form of an utterance. Normalizing Clean again
// yields an equal value.
type NormalizedQuery struct {
	Clean  string   `json:"clean"`
	Tokens []string `json:"tokens"`
}

// Has reports whether token is one of the query tokens.
func (q NormalizedQuery) Has(token string) bool {
	for _, t := range q.Tokens {
		if t == token {
			return true
		}
	}
	return false
}

// HasAny reports whether any of the tokens is present.
func (q NormalizedQuery) HasAny(tokens ...string) bool {
	for _, t := range tokens {
		if q.Has(t) {
			return true
		}
	}
	return false
}

// Contains reports whether phrase occurs anywhere in the cleaned text.
func (q NormalizedQuery) Contains(phrase string) bool {
	return strings.Contains(q.Clean, phrase)
}

// ContainsAny reports whether any phrase occurs in the cleaned text.
func (q NormalizedQuery) ContainsAny(phrases []string) bool {
	return ContainsAny(q.Clean, phrases)
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "have": true, "has": true, "had": true, "will": true,
	"would": true, "could": true, "should": true, "can": true, "may": true,
	"might": true, "this": true, "that": true, "these": true, "those": true,
}

var quoteReplacer = strings.NewReplacer(
	"‘", "'", "’", "'", "‚", "'", "‛", "'",
	"“", "\"", "”", "\"", "„", "\"",
)

func foldAccents(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return result
}

// Normalize lowercases text, folds accents and curly quotes, replaces anything
// outside [a-z0-9'] and whitespace with a space and collapses whitespace.
func Normalize(text string) NormalizedQuery {
	text = quoteReplacer.Replace(strings.ToLower(text))
	text = foldAccents(text)

	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '\'' {
			return r
		}
		return ' '
	}, text)

	words := strings.Fields(cleaned)
	seen := make(map[string]bool, len(words))
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if !seen[w] {
			seen[w] = true
			tokens = append(tokens, w)
		}
	}

	return NormalizedQuery{
		Clean:  strings.Join(words, " "),
		Tokens: tokens,
	}
}

// ExtractKeywords strips all punctuation and returns the words longer than
// three characters that are not stopwords, in order of appearance.
func ExtractKeywords(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '_' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))) {
			return r
		}
		if unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, strings.ToLower(text))

	var keywords []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) > 3 && !stopWords[word] {
			keywords = append(keywords, word)
		}
	}
	return keywords
}

// IsStopWord reports whether word is in the fixed stopword list.
func IsStopWord(word string) bool {
	return stopWords[strings.ToLower(word)]
}

// ContainsAny reports whether text contains any of the phrases as a substring.
func ContainsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
