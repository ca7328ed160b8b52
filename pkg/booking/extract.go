package booking

import (
	"regexp"
	"strings"
)

var (
	hasEmailPattern = []*regexp.Regexp{
		regexp.MustCompile(`@`),
		regexp.MustCompile(`\b\w+\s+at\s+\w+\s+dot\s+\w+`),
	}
	hasDatePattern = regexp.MustCompile(`(?i)\b(?:(?:january|february|march|april|june|july|august|september|october|november|december|monday|tuesday|wednesday|thursday|friday|saturday|sunday|today|tomorrow|next\s+week|this\s+week)\b|may\s+\d{1,2}|\d{1,2}(?:st|nd|rd|th)\b|\d{1,2}/\d{1,2}\b)`)
	hasTimePattern = regexp.MustCompile(`(?i)\b(?:\d{1,2}:\d{2}\b|\d{1,2}\s*(?:[ap]m\b|[ap]\.m\.?)|noon\b|midnight\b|\d{1,2}\s*o'?clock\b)`)
	hasNamePattern = []*regexp.Regexp{
		regexp.MustCompile(`\b[A-Z][a-z]+\s+[A-Z][a-z]+\b`),
		regexp.MustCompile(`(?i)name\s+is\s+\w+`),
		regexp.MustCompile(`\b(?i:with)\s+[A-Z][a-z]+`),
		regexp.MustCompile(`(?i)\b(?:i'm|i am|my name is|this is)\s+\w+`),
	}

	emailPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b([a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})\b`),
		regexp.MustCompile(`(?i)\b([a-zA-Z0-9._-]+)\s+at\s+([a-zA-Z0-9.-]+)\s+dot\s+([a-zA-Z]{2,})\b`),
		regexp.MustCompile(`(?i)email\s+is\s+([a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`),
		regexp.MustCompile(`(?i)email\s+is\s+([a-zA-Z0-9._-]+)\s+at\s+([a-zA-Z0-9.-]+)\s+dot\s+([a-zA-Z]{2,})`),
	}

	// capitalized pairs are matched case-sensitively; only lead-ins ignore case
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?i:my\s+name\s+is|with|i'm|i\s+am)\s+([A-Z][a-z]+\s+[A-Z][a-z]+)`),
		regexp.MustCompile(`\b([A-Z][a-z]+\s+[A-Z][a-z]+)(?:\s*,|\s+at\s|\s+email|\s+for)`),
		regexp.MustCompile(`^([A-Z][a-z]+\s+[A-Z][a-z]+)`),
		regexp.MustCompile(`(?i)\b(?:my\s+name\s+is|name\s+is|i'm|i\s+am)\s+([a-z]+(?:\s+[a-z]+)?)`),
		regexp.MustCompile(`\b([A-Z][a-z]+\s+[A-Z][a-z]+)\b`),
	}
	nameStopWords = map[string]bool{
		"and": true, "at": true, "my": true, "email": true, "for": true, "on": true,
		"today": true, "tomorrow": true, "next": true, "this": true, "here": true,
	}

	timePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(\d{1,2}:\d{2}\b(?:\s*(?:[ap]m\b|[ap]\.m\.?))?)`),
		regexp.MustCompile(`(?i)\b(\d{1,2}\s*(?:[ap]m\b|[ap]\.m\.?))`),
		regexp.MustCompile(`(?i)\b(\d{1,2}\s*o'?clock)\b`),
		regexp.MustCompile(`(?i)\b(noon|midnight)\b`),
	}

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2}(?:st|nd|rd|th)?)\b`),
		regexp.MustCompile(`(?i)\b(today|tomorrow|next\s+(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)|this\s+(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday))\b`),
		regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
		regexp.MustCompile(`(?i)\b(next\s+week|this\s+week)\b`),
		regexp.MustCompile(`(?i)\b(\d{1,2}/\d{1,2}|\d{1,2}(?:st|nd|rd|th))\b`),
	}

	dateFiller = regexp.MustCompile(`(?i)\b(on|at|for)\b`)
	timeFiller = regexp.MustCompile(`(?i)\b(at|around)\b`)
)

// ContainsCompleteBookingInfo reports whether text carries an email, a name
// and a date or a time, enough to skip the question-and-answer dialogue.
func ContainsCompleteBookingInfo(text string) bool {
	hasEmail := matchesAny(text, hasEmailPattern)
	hasDate := hasDatePattern.MatchString(text)
	hasTime := hasTimePattern.MatchString(text)
	hasName := matchesAny(text, hasNamePattern)

	return hasEmail && (hasDate || hasTime) && hasName
}

// ExtractBookingInfo pulls all four fields out of a single utterance. Fields
// that cannot be found are left empty.
func ExtractBookingInfo(text string) Fields {
	date, tm := ExtractDateTime(text)
	return Fields{
		Name:  ExtractName(text),
		Email: ExtractEmail(text),
		Date:  date,
		Time:  tm,
	}
}

func ExtractEmail(text string) string {
	for _, p := range emailPatterns {
		m := p.FindStringSubmatch(text)
		switch len(m) {
		case 2:
			return m[1]
		case 4:
			return m[1] + "@" + m[2] + "." + m[3]
		}
	}
	return ""
}

func ExtractName(text string) string {
	for _, p := range namePatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		words := strings.Fields(m[1])
		for len(words) > 0 && nameStopWords[strings.ToLower(words[len(words)-1])] {
			words = words[:len(words)-1]
		}
		if len(words) > 0 {
			return ProcessNameInput(strings.Join(words, " "))
		}
	}
	return ""
}

// ExtractDateTime finds the first time expression and the first date
// expression in text. Either may be empty.
func ExtractDateTime(text string) (date, tm string) {
	for _, p := range timePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			tm = strings.TrimSpace(m[1])
			break
		}
	}

	tm = strings.TrimSpace(timeFiller.ReplaceAllString(tm, ""))
	return extractDate(text), tm
}

func extractDate(text string) string {
	var date string
	for _, p := range datePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if len(m) == 3 {
				date = m[1] + " " + m[2]
			} else {
				date = m[1]
			}
			break
		}
	}
	return strings.TrimSpace(dateFiller.ReplaceAllString(date, ""))
}

func matchesAny(text string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
