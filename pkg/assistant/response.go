package assistant

import (
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"LundyVoice/pkg/booking"
	"LundyVoice/pkg/nlp"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type ActionKind string

const (
	ActionSpeak     ActionKind = "speak"
	ActionNavigate  ActionKind = "navigate"
	ActionOpenPanel ActionKind = "open_panel"
	ActionOpenForm  ActionKind = "open_form"
)

const (
	NavigateDelay      = 1500 * time.Millisecond
	FirstQuestionDelay = 2000 * time.Millisecond
	NextStepDelay      = 1500 * time.Millisecond
)

// Action is one side effect of a response. Delay is measured from the start
// of the response, not from the previous action.
type Action struct {
	Kind       ActionKind       `json:"kind"`
	Speech     string           `json:"speech,omitempty"`
	Display    string           `json:"display,omitempty"`
	Target     string           `json:"target,omitempty"`
	Delay      time.Duration    `json:"-"`
	AwaitReply bool             `json:"await_reply,omitempty"`
	Panel      []ComplianceItem `json:"panel,omitempty"`
	Form       *booking.Fields  `json:"form,omitempty"`
}

func (a Action) MarshalJSON() ([]byte, error) {
	type plain Action
	return json.Marshal(struct {
		plain
		DelayMS int64 `json:"delay_ms"`
	}{plain(a), a.Delay.Milliseconds()})
}

func (a *Action) UnmarshalJSON(data []byte) error {
	type plain Action
	var aux struct {
		plain
		DelayMS int64 `json:"delay_ms"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*a = Action(aux.plain)
	a.Delay = time.Duration(aux.DelayMS) * time.Millisecond
	return nil
}

// Say is a speak action whose caption matches the speech.
func Say(text string, delay time.Duration) Action {
	return Action{Kind: ActionSpeak, Speech: text, Display: text, Delay: delay}
}

type Response struct {
	Intent  nlp.Intent `json:"intent"`
	Actions []Action   `json:"actions"`
}

// Speech joins the spoken text of every action in order.
func (r Response) Speech() string {
	parts := make([]string, 0, len(r.Actions))
	for _, a := range r.Actions {
		if a.Speech != "" {
			parts = append(parts, a.Speech)
		}
	}
	return strings.Join(parts, " ")
}

// Session is everything the dispatcher needs to remember between utterances
// of one visitor.
type Session struct {
	ID       string        `json:"id"`
	Path     string        `json:"path"`
	Dialogue booking.State `json:"dialogue"`
}

func NewSession(id, path string) Session {
	return Session{ID: id, Path: path}
}
