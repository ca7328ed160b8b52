package assistantHandler

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"LundyVoice/internal/api/assistant"
	assistantPkg "LundyVoice/pkg/assistant"
	contextPkg "LundyVoice/pkg/context"
	"LundyVoice/pkg/log"
	"LundyVoice/pkg/voice"
)

const (
	defaultWSReadTimeout = 60 * time.Second
	wsWriteTimeout       = 5 * time.Second
)

// voiceChannel is the state of one websocket connection. Writes come from the
// read loop and the action scheduler, so they share a lock.
type voiceChannel struct {
	conn      *websocket.Conn
	sessionID string
	gate      *voice.CaptureGate
	scheduler *assistantPkg.Scheduler
	writeMu   sync.Mutex
}

func (ch *voiceChannel) send(msg assistant.ServerMessage) error {
	ch.writeMu.Lock()
	defer ch.writeMu.Unlock()

	if msg.SessionID == "" {
		msg.SessionID = ch.sessionID
	}
	_ = ch.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return ch.conn.WriteJSON(msg)
}

func (h *AssistantHandler) handleVoiceChannel(conn *websocket.Conn) {
	connID := uuid.NewString()
	sessionID := conn.Query("session_id")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	base := contextPkg.WithSessionID(contextPkg.WithRequestID(context.Background(), connID), sessionID)
	ctx, cancel := context.WithCancel(base)
	ch := &voiceChannel{
		conn:      conn,
		sessionID: sessionID,
		gate:      voice.NewCaptureGate(),
		scheduler: assistantPkg.NewScheduler(),
	}
	defer func() {
		ch.scheduler.CancelPending()
		cancel()
	}()

	fields := log.Fields{"request_id": connID, "session_id": sessionID}
	h.log.WithFields(fields).Info("Voice channel connected")
	defer h.log.WithFields(fields).Info("Voice channel disconnected")

	conn.SetPingHandler(func(data string) error {
		ch.writeMu.Lock()
		defer ch.writeMu.Unlock()
		if err := conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(wsWriteTimeout)); err != nil {
			h.log.WithFields(fields).Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	// pongs answer the server's pings and keep an idle channel open
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.wsReadTimeout))
	})
	go h.keepAlive(ctx, ch)

	if err := ch.send(assistant.ServerMessage{Type: assistant.MessageReady}); err != nil {
		return
	}

	for {
		_ = conn.SetReadDeadline(time.Now().Add(h.wsReadTimeout))

		var msg assistant.ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithFields(fields).Warnf("Voice channel error: %v", err)
			}
			return
		}

		if err := h.handleClientMessage(ctx, ch, msg); err != nil {
			h.log.WithFields(fields).Warnf("Voice channel write failed: %v", err)
			return
		}
	}
}

// keepAlive pings the client until ctx ends or a ping cannot be written.
func (h *AssistantHandler) keepAlive(ctx context.Context, ch *voiceChannel) {
	ticker := time.NewTicker(h.wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ch.writeMu.Lock()
			err := ch.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout))
			ch.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

func (h *AssistantHandler) handleClientMessage(ctx context.Context, ch *voiceChannel, msg assistant.ClientMessage) error {
	switch msg.Type {
	case assistant.MessageCaptureStart:
		current, superseded := ch.gate.Begin(msg.CaptureID)
		// a new capture interrupts whatever is still being spoken
		ch.scheduler.CancelPending()
		if superseded != "" {
			if err := ch.send(assistant.ServerMessage{Type: assistant.MessageDiscarded, CaptureID: superseded}); err != nil {
				return err
			}
		}
		return ch.send(assistant.ServerMessage{Type: assistant.MessageCaptureStarted, CaptureID: current})

	case assistant.MessageTranscript:
		if !ch.gate.Accept(msg.CaptureID) {
			return ch.send(assistant.ServerMessage{Type: assistant.MessageDiscarded, CaptureID: msg.CaptureID})
		}
		ch.gate.End(msg.CaptureID)

		resp, err := h.assistantService.ProcessCommand(ctx, assistant.CommandRequest{
			SessionID: ch.sessionID,
			Text:      msg.Text,
			Path:      msg.Path,
			CaptureID: msg.CaptureID,
		})
		if err != nil {
			return ch.send(assistant.ServerMessage{Type: assistant.MessageError, CaptureID: msg.CaptureID, Error: err.Error()})
		}

		if err := ch.send(assistant.ServerMessage{
			Type:      assistant.MessageResponse,
			CaptureID: msg.CaptureID,
			Intent:    resp.Intent,
			Dialogue:  &resp.Dialogue,
		}); err != nil {
			return err
		}

		captureID := msg.CaptureID
		ch.scheduler.Schedule(ctx, resp.Actions, func(a assistantPkg.Action) {
			action := a
			if err := ch.send(assistant.ServerMessage{
				Type:      assistant.MessageAction,
				CaptureID: captureID,
				Action:    &action,
			}); err != nil {
				h.log.WithFields(log.Fields{
					"request_id": contextPkg.GetRequestID(ctx),
					"error":      err.Error(),
				}).Warn("Failed to deliver action")
			}
		})
		return nil

	case assistant.MessagePageContent:
		if _, err := h.assistantService.UpdatePageContent(ctx, assistant.PageContentRequest{Path: msg.Path, Text: msg.Text}); err != nil {
			return ch.send(assistant.ServerMessage{Type: assistant.MessageError, Error: err.Error()})
		}
		return nil

	default:
		return ch.send(assistant.ServerMessage{Type: assistant.MessageError, Error: "unknown message type " + msg.Type})
	}
}
