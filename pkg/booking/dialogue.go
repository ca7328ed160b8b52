package booking

import (
	"math/rand"
	"strings"
)

// Step is one question of the booking conversation.
type Step struct {
	Fields   []string
	Question string
}

var Steps = []Step{
	{
		Fields:   []string{"name", "email"},
		Question: "What's your full name and email address? You can say 'at' for the at symbol.",
	},
	{
		Fields:   []string{"date", "time"},
		Question: "What day and time would work best for your demo?",
	},
}

var Acknowledgements = []string{"Got it!", "Perfect!", "Great!", "Thanks!"}

// RandomSource picks acknowledgements. *rand.Rand from math/rand/v2
// satisfies it.
type RandomSource interface {
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.Intn(n) }

// Turn is what the dialogue wants said after consuming an answer.
type Turn struct {
	Ack string
	// Question is empty once the last step has been answered.
	Question string
	Review   bool
}

// Dialogue is the booking state machine. It holds no session state itself;
// every method takes the current State and returns the next one.
type Dialogue struct {
	random RandomSource
}

type DialogueOption func(*Dialogue)

func WithRandomSource(src RandomSource) DialogueOption {
	return func(d *Dialogue) {
		if src != nil {
			d.random = src
		}
	}
}

func NewDialogue(opts ...DialogueOption) *Dialogue {
	d := &Dialogue{random: globalRandom{}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start begins the question-and-answer flow at step 0 with empty fields. A
// booking already in flight is discarded and replaced reports it.
func (d *Dialogue) Start(st State) (next State, replaced bool) {
	return State{Phase: PhaseCollecting, Step: 0}, st.InFlight()
}

// SingleShot fills every field it can find in utterance and goes straight
// to the review form.
func (d *Dialogue) SingleShot(st State, utterance string) (next State, replaced bool) {
	return State{
		Phase:  PhaseReviewForm,
		Fields: ExtractBookingInfo(strings.TrimSpace(utterance)),
	}, st.InFlight()
}

// Answer consumes utterance as the reply to the current step. ok is false
// when the session is not collecting.
func (d *Dialogue) Answer(st State, utterance string) (next State, turn Turn, ok bool) {
	if !st.Collecting() || st.Step < 0 || st.Step >= len(Steps) {
		return st, Turn{}, false
	}

	input := strings.ToLower(strings.TrimSpace(utterance))
	next = st
	switch st.Step {
	case 0:
		next.Fields.Name, next.Fields.Email = ParseNameAndEmail(input)
	case 1:
		next.Fields.Date, next.Fields.Time = ParseDateAndTime(input)
	}

	turn.Ack = Acknowledgements[d.random.IntN(len(Acknowledgements))]
	next.Step++

	if next.Step < len(Steps) {
		turn.Question = Steps[next.Step].Question
		return next, turn, true
	}

	next.Phase = PhaseReviewForm
	next.Step = 0
	turn.Review = true
	return next, turn, true
}

// Confirm applies the non-empty edited fields over the reviewed ones and
// resets the dialogue. It is only legal while the review form is open.
func (d *Dialogue) Confirm(st State, edited Fields) (next State, final Fields, err error) {
	if !st.InReview() {
		return st, Fields{}, ErrNotInReview
	}
	return State{}, st.Fields.Merge(edited), nil
}

// Cancel drops whatever booking is in flight.
func (d *Dialogue) Cancel(State) State {
	return State{}
}
