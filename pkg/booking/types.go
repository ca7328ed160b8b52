package booking

import (
	"errors"
	"fmt"
)

// Phase is the dialogue position of a session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCollecting
	PhaseReviewForm
)

var phaseNames = map[Phase]string{
	PhaseIdle:       "idle",
	PhaseCollecting: "collecting",
	PhaseReviewForm: "review_form",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "" {
		*p = PhaseIdle
		return nil
	}
	for phase, name := range phaseNames {
		if name == s {
			*p = phase
			return nil
		}
	}
	return fmt.Errorf("booking: unknown phase %q", s)
}

// Fields are the four booking slots. Any of them may be empty after
// extraction; the review form lets the user correct them.
type Fields struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}

// Merge returns f with every non-empty field of other applied on top.
func (f Fields) Merge(other Fields) Fields {
	if other.Name != "" {
		f.Name = other.Name
	}
	if other.Email != "" {
		f.Email = other.Email
	}
	if other.Date != "" {
		f.Date = other.Date
	}
	if other.Time != "" {
		f.Time = other.Time
	}
	return f
}

// State is the per-session booking dialogue. The zero value is Idle.
type State struct {
	Phase  Phase  `json:"phase"`
	Step   int    `json:"step"`
	Fields Fields `json:"fields"`
}

func (s State) Collecting() bool {
	return s.Phase == PhaseCollecting
}

func (s State) InReview() bool {
	return s.Phase == PhaseReviewForm
}

// InFlight reports whether a booking has been started and not yet confirmed
// or cancelled.
func (s State) InFlight() bool {
	return s.Phase != PhaseIdle
}

var ErrNotInReview = errors.New("booking: no booking is waiting for review")
