package entity

import "time"

// CommandLog is one processed utterance and the assistant's reply.
type CommandLog struct {
	ID         string    `json:"id" db:"id"`
	SessionID  string    `json:"session_id" db:"session_id"`
	CaptureID  string    `json:"capture_id,omitempty" db:"capture_id"`
	Path       string    `json:"path" db:"path"`
	Transcript string    `json:"transcript" db:"transcript"`
	Intent     string    `json:"intent" db:"intent"`
	Response   string    `json:"response" db:"response"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
