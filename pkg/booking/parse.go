package booking

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	answerEmailPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)([a-z0-9._-]+\s*@\s*[a-z0-9.-]+\.[a-z]{2,})`),
		regexp.MustCompile(`(?i)([a-z0-9._-]+(?:\s+(?:dot|underscore|dash)\s+[a-z0-9._-]+)*\s+at\s+[a-z0-9.-]+(?:\s+dot\s+[a-z0-9-]+)*\s+dot\s+[a-z]{2,})`),
		regexp.MustCompile(`(?i)([a-z0-9._-]+\s+at\s+[a-z0-9.-]+\.[a-z]{2,})`),
	}
	answerSeparators = []string{" and ", " email ", " my email is ", " at "}

	nameLeadIn   = regexp.MustCompile(`(?i)^(?:(?:hi|hello|hey)[\s,]+)?(?:my name is|i'm|i am|this is|it's)\s+`)
	nameTrailing = regexp.MustCompile(`(?i)(?:[\s,]+|\b(?:and|my email is|my email|email is|email|it's)\b)+$`)

	answerTimePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d{1,2}:\d{2}\s*(?:am|pm|a\.m\.|p\.m\.)?)`),
		regexp.MustCompile(`(?i)(\d{1,2}\s*(?:am|pm|a\.m\.|p\.m\.))`),
		regexp.MustCompile(`(?i)(\d{1,2}\s*o'?clock)`),
		regexp.MustCompile(`(?i)(noon|midnight)`),
	}
	dateConnectors = regexp.MustCompile(`(?i)\s*\b(?:at|around|on|for)\b\s*`)
	timeSeparators = []string{" at ", " around ", " on ", " for "}

	emailSpoken = []struct {
		pattern *regexp.Regexp
		with    string
	}{
		{regexp.MustCompile(`\s+at\s+`), "@"},
		{regexp.MustCompile(`\s+dot\s+`), "."},
		{regexp.MustCompile(`\s+dash\s+`), "-"},
		{regexp.MustCompile(`\s+underscore\s+`), "_"},
		{regexp.MustCompile(`\s+`), ""},
	}

	nameCorrections = map[string]string{
		"lundy":  "Lundy",
		"justin": "Justin",
	}
)

// ParseNameAndEmail reads the answer to the name-and-email question. The
// email is located first; whatever precedes it, minus lead-in phrases and
// trailing connectors, is the name.
func ParseNameAndEmail(input string) (name, email string) {
	input = strings.TrimSpace(input)

	var emailPart string
	for _, p := range answerEmailPatterns {
		if m := p.FindString(input); m != "" {
			emailPart = m
			break
		}
	}

	switch {
	case emailPart != "":
		name = input[:strings.Index(input, emailPart)]
		email = ProcessEmailInput(emailPart)
	default:
		lowered := strings.ToLower(input)
		split := false
		for _, sep := range answerSeparators {
			if before, after, ok := strings.Cut(lowered, sep); ok {
				name = before
				email = ProcessEmailInput(strings.TrimSpace(after))
				split = true
				break
			}
		}
		if !split {
			words := strings.Fields(input)
			if len(words) >= 3 {
				name = strings.Join(words[:2], " ")
				email = ProcessEmailInput(strings.Join(words[2:], " "))
			} else {
				name = input
			}
		}
	}

	return ProcessNameInput(cleanName(name)), email
}

func cleanName(name string) string {
	name = strings.TrimSpace(name)
	name = nameLeadIn.ReplaceAllString(name, "")
	name = nameTrailing.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

// ParseDateAndTime reads the answer to the day-and-time question. A time
// expression is cut out and the rest becomes the date; otherwise the input is
// split on the first connector word. Failing both, a recognizable date
// phrase is kept, and only then the raw answer.
func ParseDateAndTime(input string) (date, tm string) {
	input = strings.TrimSpace(input)

	for _, p := range answerTimePatterns {
		m := p.FindString(input)
		if m == "" {
			continue
		}
		tm = strings.TrimSpace(m)
		rest := strings.Replace(input, m, "", 1)
		rest = dateConnectors.ReplaceAllString(rest, " ")
		return strings.Join(strings.Fields(rest), " "), tm
	}

	lowered := strings.ToLower(input)
	for _, sep := range timeSeparators {
		if before, after, ok := strings.Cut(lowered, sep); ok {
			return strings.TrimSpace(before), strings.TrimSpace(after)
		}
	}

	if date := extractDate(input); date != "" {
		return date, ""
	}
	return input, ""
}

// ProcessEmailInput turns a spoken address such as
// "jane dot smith at example dot com" into "jane.smith@example.com".
func ProcessEmailInput(input string) string {
	out := strings.ToLower(input)
	for _, r := range emailSpoken {
		out = r.pattern.ReplaceAllString(out, r.with)
	}
	return out
}

// ProcessNameInput title-cases each word and fixes a few known
// misrecognitions.
func ProcessNameInput(input string) string {
	words := strings.Fields(input)
	for i, w := range words {
		lower := strings.ToLower(w)
		if fixed, ok := nameCorrections[lower]; ok {
			words[i] = fixed
			continue
		}
		r, size := utf8.DecodeRuneInString(lower)
		words[i] = string(unicode.ToUpper(r)) + lower[size:]
	}
	return strings.Join(words, " ")
}
