package assistant

import (
	"mime/multipart"
	"time"

	"LundyVoice/internal/entity"
	assistantPkg "LundyVoice/pkg/assistant"
	"LundyVoice/pkg/booking"
)

type CommandRequest struct {
	SessionID string `json:"session_id" validate:"required,max=128"`
	Text      string `json:"text" validate:"max=2000"`
	Path      string `json:"path" validate:"omitempty,max=512"`
	CaptureID string `json:"capture_id,omitempty" validate:"omitempty,max=128"`
}

type VoiceRequest struct {
	SessionID string                `validate:"required,max=128"`
	Path      string                `validate:"omitempty,max=512"`
	CaptureID string                `validate:"omitempty,max=128"`
	AudioFile *multipart.FileHeader `validate:"required"`
}

type CommandResponse struct {
	SessionID  string                `json:"session_id"`
	CaptureID  string                `json:"capture_id,omitempty"`
	Transcript string                `json:"transcript"`
	Intent     string                `json:"intent"`
	Speech     string                `json:"speech"`
	Actions    []assistantPkg.Action `json:"actions"`
	Dialogue   booking.State         `json:"dialogue"`
}

type SpeechRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

type ConfirmBookingRequest struct {
	SessionID string `json:"session_id" validate:"required,max=128"`
	Name      string `json:"name" validate:"max=200"`
	Email     string `json:"email" validate:"max=320"`
	Date      string `json:"date" validate:"max=100"`
	Time      string `json:"time" validate:"max=100"`
}

func (r ConfirmBookingRequest) Fields() booking.Fields {
	return booking.Fields{Name: r.Name, Email: r.Email, Date: r.Date, Time: r.Time}
}

type CancelBookingRequest struct {
	SessionID string `json:"session_id" validate:"required,max=128"`
}

type BookingResponse struct {
	Booking  entity.DemoBooking `json:"booking"`
	Response CommandResponse    `json:"response"`
}

type PageContentRequest struct {
	Path      string `json:"path" validate:"required,max=512"`
	Text      string `json:"text" validate:"required,max=200000"`
	Immediate bool   `json:"immediate"`
}

type PageContentResponse struct {
	Path    string `json:"path"`
	Chunks  int    `json:"chunks"`
	Pending bool   `json:"pending"`
}

type HistoryResponse struct {
	History []entity.CommandLog `json:"history"`
	Total   int                 `json:"total"`
	Page    int                 `json:"page"`
	Limit   int                 `json:"limit"`
}

type BookingListResponse struct {
	Bookings []entity.DemoBooking `json:"bookings"`
	Total    int                  `json:"total"`
	Page     int                  `json:"page"`
	Limit    int                  `json:"limit"`
}

type ComplianceReportResponse struct {
	Report      string                        `json:"report"`
	Items       []assistantPkg.ComplianceItem `json:"items"`
	GeneratedAt time.Time                     `json:"generated_at"`
}

type ComplianceArchiveResponse struct {
	Location    string    `json:"location"`
	DownloadURL string    `json:"download_url,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

type OnboardingRequest struct {
	Seen bool `json:"seen"`
}

type OnboardingResponse struct {
	ClientID string `json:"client_id"`
	Seen     bool   `json:"seen"`
}

// Websocket message types.
const (
	MessageCaptureStart   = "capture_start"
	MessageTranscript     = "transcript"
	MessagePageContent    = "page_content"
	MessageReady          = "ready"
	MessageCaptureStarted = "capture_started"
	MessageResponse       = "response"
	MessageAction         = "action"
	MessageDiscarded      = "discarded"
	MessageError          = "error"
)

// ClientMessage is anything a browser sends over the voice channel.
type ClientMessage struct {
	Type      string `json:"type"`
	CaptureID string `json:"capture_id,omitempty"`
	Text      string `json:"text,omitempty"`
	Path      string `json:"path,omitempty"`
}

type ServerMessage struct {
	Type      string               `json:"type"`
	SessionID string               `json:"session_id,omitempty"`
	CaptureID string               `json:"capture_id,omitempty"`
	Intent    string               `json:"intent,omitempty"`
	Action    *assistantPkg.Action `json:"action,omitempty"`
	Dialogue  *booking.State       `json:"dialogue,omitempty"`
	Error     string               `json:"error,omitempty"`
}
