package booking

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRandom int

func (f fixedRandom) IntN(n int) int { return int(f) % n }

func TestContainsCompleteBookingInfo(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Book a demo, I'm Jane Smith, jane.smith@example.com, next Monday at 2pm", true},
		{"book a demo my name is jane, jane at example dot com tomorrow", true},
		{"Book a demo for Jane Smith at noon", false},
		{"book a demo jane.smith@example.com tomorrow", false},
		{"Book a demo, I'm Jane Smith, jane.smith@example.com", false},
		{"book a demo", false},
		{"Book a demo, I'm Jane Smith, jane.smith@example.com, at 2 p.m.", true},
		{"Schedule a demo for tomorrow at 3pm, Jane Smith, jane@example.com", true},
		{"Book a demo, I'm Jane Smith, jane.smith@example.com, room 42", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsCompleteBookingInfo(tt.text))
		})
	}
}

func TestExtractBookingInfo(t *testing.T) {
	got := ExtractBookingInfo("Book a demo, I'm Jane Smith, jane.smith@example.com, next Monday at 2pm")

	assert.Equal(t, Fields{
		Name:  "Jane Smith",
		Email: "jane.smith@example.com",
		Date:  "next Monday",
		Time:  "2pm",
	}, got)
}

func TestExtractBookingInfo_Variants(t *testing.T) {
	tests := []struct {
		text string
		want Fields
	}{
		{
			"Book a demo, I'm Jane Smith, jane.smith@example.com, at 2 p.m.",
			Fields{Name: "Jane Smith", Email: "jane.smith@example.com", Time: "2 p.m."},
		},
		{
			"Book a demo, I'm Jane Smith, jane.smith@example.com, next Monday at 2 p.m.",
			Fields{Name: "Jane Smith", Email: "jane.smith@example.com", Date: "next Monday", Time: "2 p.m."},
		},
		{
			"Schedule a demo for tomorrow at 3pm, Jane Smith, jane@example.com",
			Fields{Name: "Jane Smith", Email: "jane@example.com", Date: "tomorrow", Time: "3pm"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractBookingInfo(tt.text))
		})
	}
}

func TestExtractEmail(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"reach me at bob@lundy.ai please", "bob@lundy.ai"},
		{"it is bob at lundy dot com", "bob@lundy.com"},
		{"no address here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractEmail(tt.text))
		})
	}
}

func TestExtractName(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"my name is justin lundy", "Justin Lundy"},
		{"Demo for Mary Jones, tomorrow", "Mary Jones"},
		{"Mary Jones", "Mary Jones"},
		{"42", ""},
		{"Schedule a demo for tomorrow at 3pm, Jane Smith, jane@example.com", "Jane Smith"},
		{"book a demo for tomorrow", ""},
		{"Book a demo for tomorrow", ""},
		{"my name is jane and my email is jane at example dot com", "Jane"},
		{"I'm Jane Smith", "Jane Smith"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractName(tt.text))
		})
	}
}

func TestExtractDateTime(t *testing.T) {
	tests := []struct {
		text     string
		wantDate string
		wantTime string
	}{
		{"august 6th at 10:30 am", "august 6th", "10:30 am"},
		{"tomorrow around noon", "tomorrow", "noon"},
		{"friday at 3 o'clock", "friday", "3 o'clock"},
		{"sometime next week", "next week", ""},
		{"on 8/6", "8/6", ""},
		{"whenever", "", ""},
		{"next Monday at 2 p.m.", "next Monday", "2 p.m."},
		{"at 2 p.m.", "", "2 p.m."},
		{"10:30 a.m. on friday", "friday", "10:30 a.m."},
		{"today at 9am", "today", "9am"},
		{"room 42", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			date, tm := ExtractDateTime(tt.text)
			assert.Equal(t, tt.wantDate, date)
			assert.Equal(t, tt.wantTime, tm)
		})
	}
}

func TestParseNameAndEmail(t *testing.T) {
	tests := []struct {
		input     string
		wantName  string
		wantEmail string
	}{
		{"my name is jane smith and my email is jane dot smith at example dot com", "Jane Smith", "jane.smith@example.com"},
		{"justin lundy, justin@lundy.ai", "Justin Lundy", "justin@lundy.ai"},
		{"i'm bob stone bob at stone dot io", "Bob Stone", "bob@stone.io"},
		{"bob stone and bobstone", "Bob Stone", "bobstone"},
		{"bob stone bobstone mail", "Bob Stone", "bobstonemail"},
		{"bob", "Bob", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			name, email := ParseNameAndEmail(tt.input)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantEmail, email)
		})
	}
}

func TestParseDateAndTime(t *testing.T) {
	tests := []struct {
		input    string
		wantDate string
		wantTime string
	}{
		{"next monday at 2pm", "next monday", "2pm"},
		{"saturday at 10:15", "saturday", "10:15"},
		{"tomorrow at 3 o'clock", "tomorrow", "3 o'clock"},
		{"friday around lunch", "friday", "lunch"},
		{"whenever works", "whenever works", ""},
		{"um how about next tuesday please", "next tuesday", ""},
		{"maybe friday works", "friday", ""},
		{"thursday at 2 p.m.", "thursday", "2 p.m."},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			date, tm := ParseDateAndTime(tt.input)
			assert.Equal(t, tt.wantDate, date)
			assert.Equal(t, tt.wantTime, tm)
		})
	}
}

func TestProcessEmailInput(t *testing.T) {
	assert.Equal(t, "jane.smith@example.com", ProcessEmailInput("jane dot smith at example dot com"))
	assert.Equal(t, "first_last-1@mail.io", ProcessEmailInput("First underscore Last dash 1 at mail dot io"))
}

func TestProcessNameInput(t *testing.T) {
	assert.Equal(t, "Justin Lundy", ProcessNameInput("JUSTIN lundy"))
	assert.Equal(t, "Élise Durand", ProcessNameInput("élise  durand"))
	assert.Equal(t, "", ProcessNameInput("  "))
}

func TestDialogue_TotalOrder(t *testing.T) {
	d := NewDialogue(WithRandomSource(fixedRandom(1)))

	st, replaced := d.Start(State{})
	assert.False(t, replaced)
	assert.Equal(t, State{Phase: PhaseCollecting}, st)

	st, turn, ok := d.Answer(st, "My name is Jane Smith and my email is jane at example dot com")
	require.True(t, ok)
	assert.Equal(t, "Perfect!", turn.Ack)
	assert.Equal(t, Steps[1].Question, turn.Question)
	assert.False(t, turn.Review)
	assert.Equal(t, PhaseCollecting, st.Phase)
	assert.Equal(t, 1, st.Step)
	assert.Equal(t, "Jane Smith", st.Fields.Name)
	assert.Equal(t, "jane@example.com", st.Fields.Email)

	st, turn, ok = d.Answer(st, "go to navigator")
	require.True(t, ok)
	assert.True(t, turn.Review)
	assert.Empty(t, turn.Question)
	assert.Equal(t, PhaseReviewForm, st.Phase)
	assert.Equal(t, "go to navigator", st.Fields.Date)

	_, _, ok = d.Answer(st, "anything else")
	assert.False(t, ok)
}

func TestDialogue_StartReplacesInFlight(t *testing.T) {
	d := NewDialogue()

	review := State{Phase: PhaseReviewForm, Fields: Fields{Name: "Old Name"}}
	st, replaced := d.Start(review)
	assert.True(t, replaced)
	assert.Empty(t, st.Fields)

	st, replaced = d.SingleShot(State{Phase: PhaseCollecting, Step: 1}, "I'm Jane Smith, jane@x.io, tomorrow")
	assert.True(t, replaced)
	assert.Equal(t, PhaseReviewForm, st.Phase)
	assert.Equal(t, "Jane Smith", st.Fields.Name)
	assert.Equal(t, "jane@x.io", st.Fields.Email)
	assert.Equal(t, "tomorrow", st.Fields.Date)
}

func TestDialogue_ConfirmAndCancel(t *testing.T) {
	d := NewDialogue()

	_, _, err := d.Confirm(State{}, Fields{})
	require.ErrorIs(t, err, ErrNotInReview)

	review := State{Phase: PhaseReviewForm, Fields: Fields{Name: "Jane Smith", Email: "jane@x.io", Date: "friday"}}
	next, final, err := d.Confirm(review, Fields{Time: "2pm", Name: ""})
	require.NoError(t, err)
	assert.Equal(t, State{}, next)
	assert.Equal(t, Fields{Name: "Jane Smith", Email: "jane@x.io", Date: "friday", Time: "2pm"}, final)

	assert.Equal(t, State{}, d.Cancel(review))
}

func TestState_JSON(t *testing.T) {
	st := State{Phase: PhaseReviewForm, Fields: Fields{Name: "Jane"}}

	raw, err := json.Marshal(st)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"phase":"review_form"`)

	var back State
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, st, back)

	var p Phase
	assert.Error(t, p.UnmarshalText([]byte("bogus")))
}
