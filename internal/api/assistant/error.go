package assistant

import "LundyVoice/pkg/response"

var (
	ErrNoBookingInReview   = response.NewCodedError(409, "NO_BOOKING_IN_REVIEW", "no booking is waiting for confirmation")
	ErrBookingNotFound     = response.NewCodedError(404, "BOOKING_NOT_FOUND", "no completed booking for this session")
	ErrSpeechUnavailable   = response.NewCodedError(503, "SPEECH_UNAVAILABLE", "speech engine not configured")
	ErrTranscriptionFailed = response.NewCodedError(502, "TRANSCRIPTION_FAILED", "failed to transcribe audio")
	ErrSynthesisFailed     = response.NewCodedError(502, "SYNTHESIS_FAILED", "failed to generate speech")
	ErrEmptyTranscript     = response.NewCodedError(422, "EMPTY_TRANSCRIPT", "no speech detected in recording")
	ErrInvalidAudioFile    = response.NewCodedError(400, "INVALID_AUDIO_FILE", "invalid audio file")
	ErrAudioFileTooLarge   = response.NewCodedError(413, "AUDIO_FILE_TOO_LARGE", "audio file too large")
	ErrUnsupportedFormat   = response.NewCodedError(415, "UNSUPPORTED_AUDIO_FORMAT", "unsupported audio format")
	ErrArchiveUnavailable  = response.NewCodedError(503, "ARCHIVE_UNAVAILABLE", "report archive not configured")
	ErrArchiveFailed       = response.NewCodedError(502, "ARCHIVE_FAILED", "failed to archive compliance report")
	ErrSessionStore        = response.NewCodedError(500, "SESSION_STORE_ERROR", "failed to access session state")
)
