package nlp

import "strings"

const (
	PathHome      = "/"
	PathNavigator = "/navigator"
	PathAddEdit   = "/add-edit"
)

var (
	CompliancePhrases = []string{
		"check centralized knowledge",
		"run a navigator compliance check",
		"run navigator compliance check",
		"navigator compliance check",
		"is centralized knowledge live",
	}

	NavigatorRoutePhrases = []string{
		"take me to navigator", "go to navigator", "open navigator", "show navigator",
		"navigate to navigator", "bring up navigator", "launch navigator", "load navigator",
		"navigator page", "navigator tool", "navigator app",
	}

	// "add edit" also shadows the add/edit info phrases below; the order is intentional.
	AddEditRoutePhrases = []string{
		"show me add", "go to listing", "add edit", "listing input", "show add edit",
		"open add edit", "take me to add edit", "go to add edit", "launch add edit",
		"show listing input", "voice listing", "listing tool", "add edit page",
		"add edit tool", "add edit app",
	}

	HomeRoutePhrases = []string{
		"go home", "take me home", "main page", "homepage", "home page", "go to home",
		"back to home", "return home", "show homepage",
	}

	CompanyPhrases = []string{
		"what does this company do", "who are you", "what does lundy do", "tell me what this is",
		"what is lundy", "what do you do", "tell me about lundy", "what is this company",
		"who is lundy", "what does your company do", "tell me about this company",
		"what kind of company", "what business are you in",
	}

	NavigatorInfoPhrases = []string{
		"what does navigator do", "what is navigator", "tell me about navigator",
		"how does navigator work", "navigator features", "explain navigator",
		"what can navigator do", "navigator capabilities", "about navigator",
	}

	AddEditInfoPhrases = []string{
		"what does add edit do", "what is add edit", "tell me about add edit",
		"how does add edit work", "add edit features", "explain add edit",
		"what can add edit do", "add edit capabilities", "about add edit",
		"voice listing features", "listing input features",
	}

	DemoPhrases = []string{
		"book demo", "schedule demo", "get demo", "request demo", "demo booking",
		"book meeting", "schedule meeting", "set up demo", "arrange demo",
		"book a demo", "schedule a demo", "get a demo", "request a demo",
		"demo appointment", "meeting appointment", "show me demo",
	}

	HelpPhrases = []string{
		"help", "what can you do", "what commands", "how do i use this", "instructions",
		"what can i say", "voice commands", "available commands", "how does this work",
	}

	PageQueryPhrases = []string{
		"what does this tool do", "what does this page do", "what is this tool",
		"tell me about this page", "what can this do", "how does this work",
		"what are the features", "what are the benefits", "how is this different",
		"what makes this special", "why use this", "what problems does this solve",
		"how does it work", "why is this important", "what is this", "how",
		"why", "what", "tell me about", "explain this",
	}
)

// IsComplianceQuery matches the fixed phrases or the token heuristic: the
// navigator is mentioned (or is the current page), compliance or centralized
// knowledge is mentioned, and there is a check verb or a liveness word.
func IsComplianceQuery(q Query) bool {
	if q.Clean == "" {
		return false
	}
	if q.ContainsAny(CompliancePhrases) {
		return true
	}

	onNavigator := q.Path == PathNavigator
	mentionsNavigator := q.Has("navigator") || onNavigator
	mentionsKnowledge := q.Has("knowledge") || q.Has("kb")
	mentionsCentral := q.HasAny("centralized", "centralised", "central")
	mentionsLive := q.HasAny("live", "online", "active")
	checkIntent := q.HasAny("check", "verify", "confirm", "run", "status") || strings.HasPrefix(q.Clean, "is ")

	asked := checkIntent || mentionsLive
	centralKnowledge := mentionsCentral && mentionsKnowledge

	return (mentionsNavigator && (q.Has("compliance") || centralKnowledge) && asked) ||
		(centralKnowledge && asked && onNavigator)
}

// CommandRules returns the stateless rules that precede partner queries, in
// priority order: compliance, navigation, product info, demo booking, help.
func CommandRules() []IntentRule {
	return []IntentRule{
		{Intent: IntentCompliance, Match: IsComplianceQuery},
		PhraseRule(IntentNavigate, PathNavigator, NavigatorRoutePhrases),
		PhraseRule(IntentNavigate, PathAddEdit, AddEditRoutePhrases),
		PhraseRule(IntentNavigate, PathHome, HomeRoutePhrases),
		PhraseRule(IntentCompanyInfo, "", CompanyPhrases),
		PhraseRule(IntentNavigatorInfo, "", NavigatorInfoPhrases),
		PhraseRule(IntentAddEditInfo, "", AddEditInfoPhrases),
		PhraseRule(IntentBookDemo, "", DemoPhrases),
		PhraseRule(IntentHelp, "", HelpPhrases),
	}
}

// PageQueryRule matches the broad page question phrases, bare what/how/why included.
func PageQueryRule() IntentRule {
	return PhraseRule(IntentPageQuery, "", PageQueryPhrases)
}
