package mls

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"LundyVoice/pkg/nlp"
)

var (
	aggregatePhrases = []string{"how many agents", "agent count", "total agents"}
	livePhrases      = []string{"are you live", "who are you live with", "live partnerships"}
	lookupPhrases    = []string{
		"do you work with", "are you working with", "are you partnered with",
		"do you partner with", "are you with", "work with",
	}

	stateNamePattern = regexp.MustCompile(`\b(?:in|from)\s+(california|texas|florida|new york|georgia|colorado|michigan|oregon|missouri|alabama|tennessee|utah|arizona|new hampshire|new mexico|virginia|nevada)\b`)
	// two-letter codes collide with ordinary words ("in or", "in co"), so
	// they only count next to a partnership cue
	stateCodePattern = regexp.MustCompile(`\b(?:in|from)\s+(ca|tx|fl|ny|ga|co|mi|or|mo|al|tn|ut|az|nh|nm|va|nv)\b`)
	stateCodeCue     = regexp.MustCompile(`\b(?:partners?|partnerships?|partnered|mlss?|work|working|anyone|anybody|agents?|associations?|markets?|boards?)\b`)

	stateCodes = map[string]string{
		"california": "CA", "texas": "TX", "florida": "FL", "new york": "NY",
		"georgia": "GA", "colorado": "CO", "michigan": "MI", "oregon": "OR",
		"missouri": "MO", "alabama": "AL", "tennessee": "TN", "utah": "UT",
		"arizona": "AZ", "new hampshire": "NH", "new mexico": "NM",
		"virginia": "VA", "nevada": "NV",
	}

	genericNameWords = regexp.MustCompile(`(?i)\b(the|mls|association|of|realtors?|board|regional|multiple|listing|service|ltd|inc)\b|®`)
)

type abbreviation struct {
	spoken string
	name   string
}

// Checked in order after direct name matching.
var abbreviations = []abbreviation{
	{"crmls", "California Regional MLS"},
	{"cal reg", "California Regional MLS"},
	{"california regional", "California Regional MLS"},
	{"metrolist", "MetroList"},
	{"stellar", "Stellar MLS"},
	{"realcomp", "Realcomp II Ltd."},
	{"heart land", "Heartland MLS"},
	{"heartland", "Heartland MLS"},
	{"bay east", "Bay East Association of REALTORS®"},
	{"prime", "PRIME MLS"},
	{"bridge", "bridgeMLS"},
	{"somo", "SOMO"},
}

// Resolver answers aggregate, live, state and named-partner questions over a roster.
type Resolver struct {
	roster  *Roster
	printer *message.Printer
	title   cases.Caser
}

func NewResolver(roster *Roster) *Resolver {
	return &Resolver{
		roster:  roster,
		printer: message.NewPrinter(language.English),
		title:   cases.Title(language.English),
	}
}

// Resolve tries the aggregate, live, state and named lookups in that order.
func (r *Resolver) Resolve(text string) (string, bool) {
	q := nlp.Normalize(text).Clean
	if q == "" {
		return "", false
	}

	if nlp.ContainsAny(q, aggregatePhrases) {
		return r.aggregate(), true
	}
	if nlp.ContainsAny(q, livePhrases) {
		return r.live(), true
	}
	if state, ok := spokenState(q); ok {
		return r.byState(state), true
	}
	for _, phrase := range lookupPhrases {
		idx := strings.Index(q, phrase)
		if idx < 0 {
			continue
		}
		candidate := strings.TrimSpace(q[idx+len(phrase):])
		if candidate == "" {
			continue
		}
		return r.lookup(candidate), true
	}

	return "", false
}

func spokenState(q string) (string, bool) {
	if m := stateNamePattern.FindStringSubmatch(q); m != nil {
		return m[1], true
	}
	if m := stateCodePattern.FindStringSubmatch(q); m != nil && stateCodeCue.MatchString(q) {
		return m[1], true
	}
	return "", false
}

func (r *Resolver) aggregate() string {
	active := r.roster.Filter(Partner.Active)
	total := TotalAgents(active)
	if total == 0 {
		return "We don't have any live partnerships yet, but we're working with several MLSs in pilot and discussion phases."
	}

	return fmt.Sprintf("We're currently working with %s agents across %d %s: %s.",
		r.formatCount(total), len(active), pluralMLS(len(active)), joinNames(active, " and "))
}

func (r *Resolver) live() string {
	live := r.roster.Filter(func(p Partner) bool { return p.Status == StatusLive })
	if len(live) == 0 {
		return "We don't have any fully live partnerships yet, but we have pilot programs running and many discussions in progress."
	}
	return fmt.Sprintf("We're live with %s.", joinNames(live, " and "))
}

func (r *Resolver) byState(spoken string) string {
	code, isName := stateCodes[spoken]
	display := strings.ToUpper(spoken)
	if isName {
		display = r.title.String(spoken)
	} else {
		code = display
	}

	partners := r.roster.Filter(func(p Partner) bool { return p.State == code })
	if len(partners) == 0 {
		return fmt.Sprintf("We're not currently working with any MLSs in %s, but we're always open to new partnerships.", display)
	}

	return fmt.Sprintf("In %s, we're working with %d %s: %s.",
		display, len(partners), pluralMLS(len(partners)), joinNames(partners, ", "))
}

func (r *Resolver) lookup(candidate string) string {
	if p, ok := r.FindPartner(candidate); ok {
		return fmt.Sprintf("Yes, we're %s with %s in %s, %s. They serve %s agents.",
			p.Status, p.Name, p.City, p.State, r.formatCount(p.AgentCount))
	}
	return fmt.Sprintf("We're not working with %s yet, but we're open to it.", r.displayName(candidate))
}

// FindPartner matches a spoken name against the roster by whole-word
// containment in either direction, then against the abbreviation table. A
// name made only of generic words such as "the mls" matches nothing.
func (r *Resolver) FindPartner(spoken string) (Partner, bool) {
	q := nlp.Normalize(spoken).Clean
	q = strings.TrimSpace(strings.TrimPrefix(q, "the "))
	core := strings.Join(strings.Fields(genericNameWords.ReplaceAllString(q, " ")), " ")
	if core == "" {
		return Partner{}, false
	}

	padded := " " + q + " "
	for i, p := range r.roster.partners {
		name := " " + r.roster.normalized[i] + " "
		if strings.Contains(name, padded) || strings.Contains(padded, name) {
			return p, true
		}
	}

	for _, a := range abbreviations {
		if strings.Contains(q, a.spoken) {
			return r.roster.ByName(a.name)
		}
	}

	return Partner{}, false
}

func (r *Resolver) displayName(candidate string) string {
	stripped := genericNameWords.ReplaceAllString(candidate, " ")
	words := strings.Fields(stripped)
	if len(words) == 0 {
		return "that MLS"
	}
	for i, w := range words {
		words[i] = r.title.String(w)
	}
	return strings.Join(words, " ")
}

func (r *Resolver) formatCount(n int) string {
	return r.printer.Sprintf("%d", n)
}

func pluralMLS(n int) string {
	if n == 1 {
		return "MLS"
	}
	return "MLSs"
}

func joinNames(partners []Partner, sep string) string {
	names := make([]string, len(partners))
	for i, p := range partners {
		names[i] = p.Name
	}
	return strings.Join(names, sep)
}
