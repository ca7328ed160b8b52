package assistant

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"LundyVoice/pkg/booking"
	"LundyVoice/pkg/knowledge"
	"LundyVoice/pkg/nlp"
)

const (
	NavigateReply      = "Yes Mr. Lundy"
	CompanyReply       = "We build voice-first software for the real estate industry."
	NavigatorReply     = "Navigator is our AI-powered support tool for MLSs and associations that provides instant answers and simplifies compliance."
	AddEditReply       = "Add/Edit allows you to input and update MLS listings using voice commands, making data entry faster and more efficient."
	HelpReply          = `You can ask me "what", "how", or "why" questions about any page. Try saying "What is this?", "How does this work?", "Why use this?", or ask about Navigator, Add/Edit, or booking a demo. You can also ask about our MLS partnerships.`
	DefaultReply       = "I'm still learning. Try asking about Navigator, Add/Edit, booking a demo, or ask questions about this page."
	DemoStartReply     = "I'd be happy to book a demo for you!"
	SingleShotReply    = "Perfect! Let me confirm those details."
	DemoConfirmedReply = "Demo confirmed. You'll get a calendar invite shortly."
)

// PageSearcher answers from the indexed text of a page.
type PageSearcher interface {
	Search(path, query string) (string, bool)
}

// PartnerResolver answers partner roster questions.
type PartnerResolver interface {
	Resolve(text string) (string, bool)
}

// Dispatcher routes one utterance through the dialogue intercept and the
// ordered intent rules and turns the outcome into actions.
type Dispatcher struct {
	matcher    *nlp.Matcher
	dialogue   *booking.Dialogue
	summaries  *knowledge.SummaryResolver
	pages      PageSearcher
	partners   PartnerResolver
	compliance []ComplianceItem
	log        *logrus.Logger
}

type Option func(*Dispatcher)

func WithDialogue(d *booking.Dialogue) Option {
	return func(disp *Dispatcher) {
		if d != nil {
			disp.dialogue = d
		}
	}
}

func WithSummaries(s *knowledge.SummaryResolver) Option {
	return func(d *Dispatcher) {
		if s != nil {
			d.summaries = s
		}
	}
}

func WithPageSearch(p PageSearcher) Option {
	return func(d *Dispatcher) {
		if p != nil {
			d.pages = p
		}
	}
}

func WithPartners(p PartnerResolver) Option {
	return func(d *Dispatcher) {
		if p != nil {
			d.partners = p
		}
	}
}

func WithComplianceItems(items []ComplianceItem) Option {
	return func(d *Dispatcher) {
		if len(items) > 0 {
			d.compliance = items
		}
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.log = logger
		}
	}
}

type noPages struct{}

func (noPages) Search(string, string) (string, bool) { return "", false }

type noPartners struct{}

func (noPartners) Resolve(string) (string, bool) { return "", false }

func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		dialogue:   booking.NewDialogue(),
		summaries:  knowledge.NewSummaryResolver(nil),
		pages:      noPages{},
		partners:   noPartners{},
		compliance: DefaultComplianceItems(),
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}

	rules := nlp.CommandRules()
	rules = append(rules,
		nlp.IntentRule{
			Intent: nlp.IntentMLSQuery,
			Match: func(q nlp.Query) bool {
				_, ok := d.partners.Resolve(q.Clean)
				return ok
			},
		},
		nlp.PageQueryRule(),
	)
	d.matcher = nlp.NewMatcher(rules...)

	return d
}

// Classify reports which rule an utterance would hit on path, ignoring any
// dialogue in progress.
func (d *Dispatcher) Classify(utterance, path string) nlp.IntentRule {
	rule, _ := d.matcher.Classify(nlp.NewQuery(strings.TrimSpace(utterance), knowledge.NormalizePath(path)))
	return rule
}

// Process handles one final transcript for sess and returns the updated
// session with the actions to perform.
func (d *Dispatcher) Process(sess Session, utterance string) (Session, Response) {
	text := strings.TrimSpace(utterance)
	if text == "" {
		return sess, Response{Intent: nlp.IntentNone}
	}

	if next, turn, ok := d.dialogue.Answer(sess.Dialogue, text); ok {
		sess.Dialogue = next
		return sess, answerResponse(turn, next)
	}

	q := nlp.NewQuery(text, knowledge.NormalizePath(sess.Path))
	rule, matched := d.matcher.Classify(q)

	d.log.WithFields(logrus.Fields{
		"session_id": sess.ID,
		"path":       q.Path,
		"intent":     rule.Intent.String(),
	}).Debug("Utterance classified")

	if !matched {
		return sess, d.fallback(q, text)
	}

	switch rule.Intent {
	case nlp.IntentCompliance:
		return sess, d.compliancePanel(q.Path)

	case nlp.IntentNavigate:
		return sess, Response{
			Intent: nlp.IntentNavigate,
			Actions: []Action{
				Say(NavigateReply, 0),
				{Kind: ActionNavigate, Target: rule.Target, Delay: NavigateDelay},
			},
		}

	case nlp.IntentCompanyInfo:
		return sess, speak(rule.Intent, CompanyReply)
	case nlp.IntentNavigatorInfo:
		return sess, speak(rule.Intent, NavigatorReply)
	case nlp.IntentAddEditInfo:
		return sess, speak(rule.Intent, AddEditReply)
	case nlp.IntentHelp:
		return sess, speak(rule.Intent, HelpReply)

	case nlp.IntentBookDemo:
		return d.startBooking(sess, text)

	case nlp.IntentMLSQuery:
		if answer, ok := d.partners.Resolve(q.Clean); ok {
			return sess, speak(nlp.IntentMLSQuery, answer)
		}
		return sess, d.fallback(q, text)

	default:
		return sess, d.fallback(q, text)
	}
}

func (d *Dispatcher) startBooking(sess Session, text string) (Session, Response) {
	if booking.ContainsCompleteBookingInfo(text) {
		next, replaced := d.dialogue.SingleShot(sess.Dialogue, text)
		d.logReplaced(sess, replaced)
		sess.Dialogue = next

		form := next.Fields
		return sess, Response{
			Intent: nlp.IntentBookDemo,
			Actions: []Action{
				Say(SingleShotReply, 0),
				{Kind: ActionOpenForm, Form: &form, Delay: NextStepDelay},
			},
		}
	}

	next, replaced := d.dialogue.Start(sess.Dialogue)
	d.logReplaced(sess, replaced)
	sess.Dialogue = next

	question := Say(booking.Steps[0].Question, FirstQuestionDelay)
	question.AwaitReply = true
	return sess, Response{
		Intent:  nlp.IntentBookDemo,
		Actions: []Action{Say(DemoStartReply, 0), question},
	}
}

func (d *Dispatcher) logReplaced(sess Session, replaced bool) {
	if !replaced {
		return
	}
	d.log.WithFields(logrus.Fields{
		"session_id": sess.ID,
		"phase":      sess.Dialogue.Phase.String(),
	}).Info("Discarding booking in flight")
}

func answerResponse(turn booking.Turn, st booking.State) Response {
	resp := Response{
		Intent:  nlp.IntentDialogueAnswer,
		Actions: []Action{Say(turn.Ack, 0)},
	}

	if turn.Review {
		form := st.Fields
		resp.Actions = append(resp.Actions, Action{Kind: ActionOpenForm, Form: &form, Delay: NextStepDelay})
		return resp
	}

	question := Say(turn.Question, NextStepDelay)
	question.AwaitReply = true
	resp.Actions = append(resp.Actions, question)
	return resp
}

func (d *Dispatcher) compliancePanel(path string) Response {
	if path != nlp.PathNavigator {
		return speak(nlp.IntentCompliance, ComplianceOffPageMessage)
	}

	items := make([]ComplianceItem, len(d.compliance))
	copy(items, d.compliance)
	return Response{
		Intent: nlp.IntentCompliance,
		Actions: []Action{{
			Kind:    ActionOpenPanel,
			Speech:  ComplianceOpenMessage,
			Display: ComplianceOpenMessage,
			Panel:   items,
		}},
	}
}

// fallback tries the page summary, then the page index, then the default reply.
func (d *Dispatcher) fallback(q nlp.Query, text string) Response {
	if answer, ok := d.summaries.Answer(q.Path, q.Clean); ok {
		return speak(nlp.IntentPageQuery, answer)
	}
	if answer, ok := d.pages.Search(q.Path, q.Clean); ok {
		return speak(nlp.IntentPageQuery, answer)
	}

	return Response{
		Intent: nlp.IntentFallback,
		Actions: []Action{{
			Kind:    ActionSpeak,
			Speech:  DefaultReply,
			Display: fmt.Sprintf(`"%s" - %s`, text, DefaultReply),
		}},
	}
}

// Confirm closes the review form with the user's edits. The returned fields
// are the booking to persist.
func (d *Dispatcher) Confirm(sess Session, edited booking.Fields) (Session, booking.Fields, Response, error) {
	next, final, err := d.dialogue.Confirm(sess.Dialogue, edited)
	if err != nil {
		return sess, booking.Fields{}, Response{}, err
	}
	sess.Dialogue = next
	return sess, final, speak(nlp.IntentBookingConfirmed, DemoConfirmedReply), nil
}

// Cancel drops the booking in flight without saying anything.
func (d *Dispatcher) Cancel(sess Session) (Session, Response) {
	sess.Dialogue = d.dialogue.Cancel(sess.Dialogue)
	return sess, Response{Intent: nlp.IntentBookingCancelled, Actions: []Action{}}
}

func speak(intent nlp.Intent, text string) Response {
	return Response{Intent: intent, Actions: []Action{Say(text, 0)}}
}
