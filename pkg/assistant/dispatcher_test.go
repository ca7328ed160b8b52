package assistant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LundyVoice/pkg/booking"
	"LundyVoice/pkg/knowledge"
	"LundyVoice/pkg/mls"
	"LundyVoice/pkg/nlp"
)

type firstAck struct{}

func (firstAck) IntN(int) int { return 0 }

func newTestDispatcher(opts ...Option) *Dispatcher {
	base := []Option{WithDialogue(booking.NewDialogue(booking.WithRandomSource(firstAck{})))}
	return NewDispatcher(append(base, opts...)...)
}

func TestDispatcher_NavigationBeatsInformation(t *testing.T) {
	d := newTestDispatcher()

	_, resp := d.Process(NewSession("s1", "/"), "go to navigator, what does navigator do")

	assert.Equal(t, nlp.IntentNavigate, resp.Intent)
	require.Len(t, resp.Actions, 2)
	assert.Equal(t, Say(NavigateReply, 0), resp.Actions[0])
	assert.Equal(t, ActionNavigate, resp.Actions[1].Kind)
	assert.Equal(t, "/navigator", resp.Actions[1].Target)
	assert.Equal(t, NavigateDelay, resp.Actions[1].Delay)
}

func TestDispatcher_CannedReplies(t *testing.T) {
	d := newTestDispatcher()

	tests := []struct {
		utterance string
		intent    nlp.Intent
		reply     string
	}{
		{"What does this company do?", nlp.IntentCompanyInfo, CompanyReply},
		{"Tell me about Navigator", nlp.IntentNavigatorInfo, NavigatorReply},
		{"help", nlp.IntentHelp, HelpReply},
	}

	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			_, resp := d.Process(NewSession("s1", "/"), tt.utterance)
			assert.Equal(t, tt.intent, resp.Intent)
			assert.Equal(t, []Action{Say(tt.reply, 0)}, resp.Actions)
		})
	}
}

func TestDispatcher_DialogueInterceptsEverything(t *testing.T) {
	d := newTestDispatcher()
	sess := NewSession("s1", "/")

	sess, resp := d.Process(sess, "I'd like to book a demo")
	assert.Equal(t, nlp.IntentBookDemo, resp.Intent)
	require.Len(t, resp.Actions, 2)
	assert.Equal(t, Say(DemoStartReply, 0), resp.Actions[0])
	assert.Equal(t, booking.Steps[0].Question, resp.Actions[1].Speech)
	assert.Equal(t, FirstQuestionDelay, resp.Actions[1].Delay)
	assert.True(t, resp.Actions[1].AwaitReply)
	assert.True(t, sess.Dialogue.Collecting())

	sess, resp = d.Process(sess, "go to navigator")
	assert.Equal(t, nlp.IntentDialogueAnswer, resp.Intent)
	require.Len(t, resp.Actions, 2)
	assert.Equal(t, Say("Got it!", 0), resp.Actions[0])
	assert.Equal(t, booking.Steps[1].Question, resp.Actions[1].Speech)
	assert.Equal(t, NextStepDelay, resp.Actions[1].Delay)
	assert.Equal(t, 1, sess.Dialogue.Step)

	sess, resp = d.Process(sess, "what is this")
	assert.Equal(t, nlp.IntentDialogueAnswer, resp.Intent)
	require.Len(t, resp.Actions, 2)
	assert.Equal(t, ActionOpenForm, resp.Actions[1].Kind)
	require.NotNil(t, resp.Actions[1].Form)
	assert.Equal(t, "what is this", resp.Actions[1].Form.Date)
	assert.True(t, sess.Dialogue.InReview())

	_, resp = d.Process(sess, "go to navigator")
	assert.Equal(t, nlp.IntentNavigate, resp.Intent)
}

func TestDispatcher_SingleShotBooking(t *testing.T) {
	d := newTestDispatcher()

	sess, resp := d.Process(NewSession("s1", "/"), "Book a demo, I'm Jane Smith, jane.smith@example.com, next Monday at 2pm")

	assert.Equal(t, nlp.IntentBookDemo, resp.Intent)
	require.Len(t, resp.Actions, 2)
	assert.Equal(t, Say(SingleShotReply, 0), resp.Actions[0])
	assert.Equal(t, ActionOpenForm, resp.Actions[1].Kind)
	assert.Equal(t, NextStepDelay, resp.Actions[1].Delay)
	assert.Equal(t, &booking.Fields{
		Name:  "Jane Smith",
		Email: "jane.smith@example.com",
		Date:  "next Monday",
		Time:  "2pm",
	}, resp.Actions[1].Form)
	assert.True(t, sess.Dialogue.InReview())

	sess, final, resp, err := d.Confirm(sess, booking.Fields{Time: "3pm"})
	require.NoError(t, err)
	assert.Equal(t, "3pm", final.Time)
	assert.Equal(t, "Jane Smith", final.Name)
	assert.Equal(t, nlp.IntentBookingConfirmed, resp.Intent)
	assert.Equal(t, DemoConfirmedReply, resp.Speech())
	assert.False(t, sess.Dialogue.InFlight())

	_, _, _, err = d.Confirm(sess, booking.Fields{})
	assert.ErrorIs(t, err, booking.ErrNotInReview)
}

func TestDispatcher_SingleShotBookingVariants(t *testing.T) {
	tests := []struct {
		text string
		want booking.Fields
	}{
		{
			"Schedule a demo for tomorrow at 3pm, Jane Smith, jane@example.com",
			booking.Fields{Name: "Jane Smith", Email: "jane@example.com", Date: "tomorrow", Time: "3pm"},
		},
		{
			"Book a demo, I'm Jane Smith, jane.smith@example.com, at 2 p.m.",
			booking.Fields{Name: "Jane Smith", Email: "jane.smith@example.com", Time: "2 p.m."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			d := newTestDispatcher()

			sess, resp := d.Process(NewSession("s1", "/"), tt.text)

			assert.Equal(t, nlp.IntentBookDemo, resp.Intent)
			require.Len(t, resp.Actions, 2)
			assert.Equal(t, Say(SingleShotReply, 0), resp.Actions[0])
			assert.Equal(t, &tt.want, resp.Actions[1].Form)
			assert.True(t, sess.Dialogue.InReview())
		})
	}
}

func TestDispatcher_Cancel(t *testing.T) {
	d := newTestDispatcher()

	sess, _ := d.Process(NewSession("s1", "/"), "schedule a demo")
	require.True(t, sess.Dialogue.Collecting())

	sess, resp := d.Cancel(sess)
	assert.Equal(t, nlp.IntentBookingCancelled, resp.Intent)
	assert.Empty(t, resp.Actions)
	assert.False(t, sess.Dialogue.InFlight())
}

func TestDispatcher_Compliance(t *testing.T) {
	d := newTestDispatcher()

	_, resp := d.Process(NewSession("s1", "/"), "run navigator compliance check")
	assert.Equal(t, nlp.IntentCompliance, resp.Intent)
	assert.Equal(t, []Action{Say(ComplianceOffPageMessage, 0)}, resp.Actions)

	_, resp = d.Process(NewSession("s1", "/navigator/"), "is centralized knowledge live")
	assert.Equal(t, nlp.IntentCompliance, resp.Intent)
	require.Len(t, resp.Actions, 1)
	assert.Equal(t, ActionOpenPanel, resp.Actions[0].Kind)
	assert.Equal(t, ComplianceOpenMessage, resp.Actions[0].Speech)
	assert.Equal(t, DefaultComplianceItems(), resp.Actions[0].Panel)
}

func TestDispatcher_PartnerQuery(t *testing.T) {
	roster := mls.NewRoster([]mls.Partner{
		{Name: "MetroList", City: "Sacramento", State: "CA", AgentCount: 22801, Status: mls.StatusLive},
		{Name: "California Regional MLS", City: "Chino Hills", State: "CA", AgentCount: 108000, Status: mls.StatusPilot},
	})
	d := newTestDispatcher(WithPartners(mls.NewResolver(roster)))

	_, resp := d.Process(NewSession("s1", "/"), "How many agents do you work with?")
	assert.Equal(t, nlp.IntentMLSQuery, resp.Intent)
	assert.Equal(t, "We're currently working with 130,801 agents across 2 MLSs: MetroList and California Regional MLS.", resp.Speech())
}

func TestDispatcher_PageAnswers(t *testing.T) {
	summaries := knowledge.NewSummaryResolver([]knowledge.PageSummary{
		{Path: "/navigator", What: "Navigator summary."},
	})

	d := newTestDispatcher(WithSummaries(summaries))
	_, resp := d.Process(NewSession("s1", "/navigator"), "What is this?")
	assert.Equal(t, nlp.IntentPageQuery, resp.Intent)
	assert.Equal(t, "Navigator summary.", resp.Speech())

	store := knowledge.NewStore()
	defer store.Close()
	store.Replace("/add-edit", "Add/Edit maps spoken property details onto the correct listing fields.")

	d = newTestDispatcher(WithPageSearch(store))
	_, resp = d.Process(NewSession("s1", "/add-edit"), "which listing fields get filled")
	assert.Equal(t, nlp.IntentPageQuery, resp.Intent)
	assert.Equal(t, "Add/Edit maps spoken property details onto the correct listing fields", resp.Speech())
}

func TestDispatcher_DefaultReply(t *testing.T) {
	d := newTestDispatcher()

	_, resp := d.Process(NewSession("s1", "/"), "  blorp  ")
	assert.Equal(t, nlp.IntentFallback, resp.Intent)
	require.Len(t, resp.Actions, 1)
	assert.Equal(t, DefaultReply, resp.Actions[0].Speech)
	assert.Equal(t, `"blorp" - `+DefaultReply, resp.Actions[0].Display)

	_, resp = d.Process(NewSession("s1", "/"), "   ")
	assert.Equal(t, nlp.IntentNone, resp.Intent)
	assert.Empty(t, resp.Actions)
}

func TestDispatcher_Classify(t *testing.T) {
	d := newTestDispatcher()

	assert.Equal(t, nlp.IntentNavigate, d.Classify("take me home", "/").Intent)
	assert.Equal(t, "/", d.Classify("take me home", "/").Target)
	assert.Equal(t, nlp.IntentPageQuery, d.Classify("why use this", "/").Intent)
	assert.Equal(t, nlp.IntentNone, d.Classify("blorp", "/").Intent)

	// The add/edit route phrases are checked before the add/edit info phrases.
	rule := d.Classify("what does add edit do", "/")
	assert.Equal(t, nlp.IntentNavigate, rule.Intent)
	assert.Equal(t, "/add-edit", rule.Target)
}

func TestAction_JSON(t *testing.T) {
	raw, err := json.Marshal(Action{Kind: ActionNavigate, Target: "/navigator", Delay: NavigateDelay})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"navigate","target":"/navigator","delay_ms":1500}`, string(raw))

	var back Action
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, NavigateDelay, back.Delay)
}

func TestComplianceReport(t *testing.T) {
	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

	report := ComplianceReport(nil, now)

	assert.Contains(t, report, "# Navigator Compliance Report\n")
	assert.Contains(t, report, "Generated: 2025-03-04T05:06:07Z\n")
	assert.Contains(t, report, "- Documents uploaded: Pass — 12 handbooks + 4 PDFs indexed\n")
	assert.Contains(t, report, "- Web speech active: Pass — Mic + TTS verified\n")
}
