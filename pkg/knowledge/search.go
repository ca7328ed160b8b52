package knowledge

import (
	"sort"
	"strings"

	"LundyVoice/pkg/nlp"
)

const (
	phraseBonus    = 0.2
	matchThreshold = 0.1
)

func keywordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Jaccard is |a∩b| / |a∪b| over the two keyword sets, 0 when either is empty.
func Jaccard(a, b []string) float64 {
	setA, setB := keywordSet(a), keywordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}

// Similarity scores a query against a chunk: Jaccard over keywords plus a flat
// bonus when any query keyword appears verbatim in the chunk text.
func Similarity(query string, chunk PageChunk) float64 {
	queryKeywords := nlp.ExtractKeywords(query)
	if len(queryKeywords) == 0 || len(chunk.Keywords) == 0 {
		return 0
	}

	score := Jaccard(queryKeywords, chunk.Keywords)

	lowered := strings.ToLower(chunk.Text)
	for _, w := range queryKeywords {
		if strings.Contains(lowered, w) {
			score += phraseBonus
			break
		}
	}

	return score
}

type scoredChunk struct {
	chunk PageChunk
	score float64
}

// Search returns the best scoring chunk text when it clears the threshold.
// Equal scores keep their original order.
func Search(query string, index []PageChunk) (string, bool) {
	if len(index) == 0 {
		return "", false
	}

	scored := make([]scoredChunk, len(index))
	for i, c := range index {
		scored[i] = scoredChunk{chunk: c, score: Similarity(query, c)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	best := scored[0]
	if best.score > matchThreshold {
		return best.chunk.Text, true
	}
	return "", false
}
