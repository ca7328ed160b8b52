package nlp

import "fmt"

// Intent is the classified purpose of an utterance.
type Intent int

const (
	IntentNone Intent = iota
	IntentDialogueAnswer
	IntentCompliance
	IntentNavigate
	IntentCompanyInfo
	IntentNavigatorInfo
	IntentAddEditInfo
	IntentBookDemo
	IntentHelp
	IntentMLSQuery
	IntentPageQuery
	IntentFallback
	IntentBookingConfirmed
	IntentBookingCancelled
)

var intentNames = map[Intent]string{
	IntentNone:             "none",
	IntentDialogueAnswer:   "dialogue_answer",
	IntentCompliance:       "compliance",
	IntentNavigate:         "navigate",
	IntentCompanyInfo:      "company_info",
	IntentNavigatorInfo:    "navigator_info",
	IntentAddEditInfo:      "add_edit_info",
	IntentBookDemo:         "book_demo",
	IntentHelp:             "help",
	IntentMLSQuery:         "mls_query",
	IntentPageQuery:        "page_query",
	IntentFallback:         "fallback",
	IntentBookingConfirmed: "booking_confirmed",
	IntentBookingCancelled: "booking_cancelled",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return "unknown"
}

func (i Intent) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *Intent) UnmarshalText(text []byte) error {
	for intent, name := range intentNames {
		if name == string(text) {
			*i = intent
			return nil
		}
	}
	return fmt.Errorf("nlp: unknown intent %q", text)
}

// Query is a normalized utterance together with the page it was spoken on.
type Query struct {
	NormalizedQuery
	Raw  string
	Path string
}

// NewQuery normalizes raw once for every matcher downstream.
func NewQuery(raw, path string) Query {
	return Query{
		NormalizedQuery: Normalize(raw),
		Raw:             raw,
		Path:            path,
	}
}

// IntentRule pairs a category with its predicate. Target carries the route for
// navigation rules.
type IntentRule struct {
	Intent Intent
	Target string
	Match  func(q Query) bool
}

// Matcher evaluates rules in order; the first match wins.
type Matcher struct {
	rules []IntentRule
}

func NewMatcher(rules ...IntentRule) *Matcher {
	return &Matcher{rules: rules}
}

func (m *Matcher) Classify(q Query) (IntentRule, bool) {
	for _, rule := range m.rules {
		if rule.Match != nil && rule.Match(q) {
			return rule, true
		}
	}
	return IntentRule{Intent: IntentNone}, false
}

func (m *Matcher) Rules() []IntentRule {
	out := make([]IntentRule, len(m.rules))
	copy(out, m.rules)
	return out
}

// PhraseRule matches when the cleaned utterance contains any of the phrases.
func PhraseRule(intent Intent, target string, phrases []string) IntentRule {
	return IntentRule{
		Intent: intent,
		Target: target,
		Match: func(q Query) bool {
			return q.ContainsAny(phrases)
		},
	}
}
