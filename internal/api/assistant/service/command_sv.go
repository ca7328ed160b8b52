package assistantService

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"LundyVoice/internal/api/assistant"
	"LundyVoice/internal/entity"
	assistantPkg "LundyVoice/pkg/assistant"
	contextPkg "LundyVoice/pkg/context"
	"LundyVoice/pkg/knowledge"
	"LundyVoice/pkg/log"
	"LundyVoice/pkg/nlp"
)

func (s *assistantService) ProcessCommand(ctx context.Context, req assistant.CommandRequest) (*assistant.CommandResponse, error) {
	ctx = contextPkg.WithSessionID(ctx, req.SessionID)

	unlock := s.locks.Lock(req.SessionID)
	defer unlock()

	sess, err := s.loadSession(ctx, req.SessionID, req.Path)
	if err != nil {
		return nil, err
	}

	next, resp := s.dispatcher.Process(sess, req.Text)

	if err := s.sessions.SaveSession(ctx, next); err != nil {
		log.WithContext(s.log, ctx).WithError(err).Error("Failed to save session")
		return nil, assistant.ErrSessionStore
	}

	if resp.Intent != nlp.IntentNone {
		s.recordCommand(ctx, next, req, resp)
	}

	log.WithContext(s.log, ctx).WithFields(logrus.Fields{
		"intent": resp.Intent.String(),
		"phase":  next.Dialogue.Phase.String(),
	}).Debug("Command processed")

	return toCommandResponse(next, req.CaptureID, req.Text, resp), nil
}

func (s *assistantService) ProcessVoice(ctx context.Context, req assistant.VoiceRequest) (*assistant.CommandResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if s.transcriber == nil {
		return nil, assistant.ErrSpeechUnavailable
	}

	if err := s.validateAudioFile(req); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Invalid audio file")
		return nil, err
	}

	src, err := req.AudioFile.Open()
	if err != nil {
		return nil, assistant.ErrInvalidAudioFile
	}
	defer src.Close()

	transcript, err := s.transcriber.Transcribe(ctx, src, req.AudioFile.Filename)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to transcribe audio")
		return nil, assistant.ErrTranscriptionFailed
	}
	if strings.TrimSpace(transcript) == "" {
		return nil, assistant.ErrEmptyTranscript
	}

	return s.ProcessCommand(ctx, assistant.CommandRequest{
		SessionID: req.SessionID,
		Text:      transcript,
		Path:      req.Path,
		CaptureID: req.CaptureID,
	})
}

func (s *assistantService) Synthesize(ctx context.Context, req assistant.SpeechRequest) ([]byte, error) {
	if s.synthesizer == nil {
		return nil, assistant.ErrSpeechUnavailable
	}

	audio, err := s.synthesizer.Synthesize(ctx, req.Text)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to synthesize speech")
		return nil, assistant.ErrSynthesisFailed
	}

	return audio, nil
}

func (s *assistantService) GetHistory(ctx context.Context, sessionID string, page, limit int) (*assistant.HistoryResponse, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	logs, total, err := repo.Commands.GetCommandLogsBySession(ctx, sessionID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return &assistant.HistoryResponse{History: logs, Total: total, Page: page, Limit: limit}, nil
}

// loadSession returns the stored session or a fresh one. A non-empty path
// replaces the page the session was last on.
func (s *assistantService) loadSession(ctx context.Context, id, path string) (assistantPkg.Session, error) {
	sess, found, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"session_id": id,
			"error":      err.Error(),
		}).Error("Failed to load session")
		return assistantPkg.Session{}, assistant.ErrSessionStore
	}
	if !found {
		sess = assistantPkg.NewSession(id, "/")
	}
	if path != "" {
		sess.Path = knowledge.NormalizePath(path)
	}
	return sess, nil
}

// recordCommand appends to the command history. Failures are logged only; the
// reply has already been decided.
func (s *assistantService) recordCommand(ctx context.Context, sess assistantPkg.Session, req assistant.CommandRequest, resp assistantPkg.Response) {
	requestID := contextPkg.GetRequestID(ctx)
	now := s.now().UTC()

	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate command log ID")
		return
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return
	}

	err = repo.Commands.CreateCommandLog(ctx, entity.CommandLog{
		ID:         id,
		SessionID:  sess.ID,
		CaptureID:  req.CaptureID,
		Path:       sess.Path,
		Transcript: strings.TrimSpace(req.Text),
		Intent:     resp.Intent.String(),
		Response:   resp.Speech(),
		CreatedAt:  now,
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Command history not recorded")
	}
}

func (s *assistantService) validateAudioFile(req assistant.VoiceRequest) error {
	file := req.AudioFile
	if file == nil || file.Size == 0 {
		return assistant.ErrInvalidAudioFile
	}

	if file.Size > s.config.MaxAudioSize {
		return assistant.ErrAudioFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	for _, allowedExt := range s.config.AllowedFormats {
		if ext == allowedExt {
			return nil
		}
	}

	return assistant.ErrUnsupportedFormat
}

func toCommandResponse(sess assistantPkg.Session, captureID, transcript string, resp assistantPkg.Response) *assistant.CommandResponse {
	actions := resp.Actions
	if actions == nil {
		actions = []assistantPkg.Action{}
	}

	return &assistant.CommandResponse{
		SessionID:  sess.ID,
		CaptureID:  captureID,
		Transcript: strings.TrimSpace(transcript),
		Intent:     resp.Intent.String(),
		Speech:     resp.Speech(),
		Actions:    actions,
		Dialogue:   sess.Dialogue,
	}
}
