package knowledge

import "strings"

// Aspect is the kind of question asked about a page.
type Aspect string

const (
	AspectWhat Aspect = "what"
	AspectHow  Aspect = "how"
	AspectWhy  Aspect = "why"
)

var (
	howMarkers = []string{"how", "work", "process", "function", "operate"}
	whyMarkers = []string{"why", "benefit", "matter", "important", "advantage", "value"}
)

// DetermineAspect looks for how-markers first, then why-markers, and defaults
// to what.
func DetermineAspect(query string) Aspect {
	lowered := strings.ToLower(query)
	for _, m := range howMarkers {
		if strings.Contains(lowered, m) {
			return AspectHow
		}
	}
	for _, m := range whyMarkers {
		if strings.Contains(lowered, m) {
			return AspectWhy
		}
	}
	return AspectWhat
}

// PageSummary holds the curated answers for one route.
type PageSummary struct {
	Path string `yaml:"path" json:"path"`
	What string `yaml:"what" json:"what"`
	How  string `yaml:"how" json:"how"`
	Why  string `yaml:"why" json:"why"`
}

func (p PageSummary) answer(a Aspect) string {
	switch a {
	case AspectHow:
		return p.How
	case AspectWhy:
		return p.Why
	default:
		return p.What
	}
}

type SummaryResolver struct {
	summaries map[string]PageSummary
	fallback  string
}

func NewSummaryResolver(summaries []PageSummary) *SummaryResolver {
	byPath := make(map[string]PageSummary, len(summaries))
	for _, s := range summaries {
		byPath[NormalizePath(s.Path)] = s
	}
	return &SummaryResolver{summaries: byPath, fallback: "/"}
}

// Answer returns the summary for the page and aspect of query, falling back to
// the home page summary for the same aspect.
func (r *SummaryResolver) Answer(path, query string) (string, bool) {
	aspect := DetermineAspect(query)

	if s, ok := r.summaries[NormalizePath(path)]; ok {
		if text := s.answer(aspect); text != "" {
			return text, true
		}
	}
	if s, ok := r.summaries[r.fallback]; ok {
		if text := s.answer(aspect); text != "" {
			return text, true
		}
	}
	return "", false
}

// NormalizePath gives routes a leading slash and no trailing slash.
func NormalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
