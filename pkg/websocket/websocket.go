package websocketPkg

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"LundyVoice/internal/api/assistant"
)

var ErrNotConnected = errors.New("voice channel is not connected")

// IVoiceClient talks to the assistant's voice channel from outside a browser.
type IVoiceClient interface {
	Connect(ctx context.Context) error
	StartCapture(captureID string) error
	SendTranscript(captureID, text, path string) error
	SendPageContent(path, text string) error
	Messages() <-chan assistant.ServerMessage
	IsConnected() bool
	Close() error
}

type voiceClient struct {
	endpoint     string
	conn         *websocket.Conn
	mu           sync.Mutex
	messages     chan assistant.ServerMessage
	log          *logrus.Logger
	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewVoiceClient targets baseURL (http, https, ws or wss) and joins sessionID;
// an empty sessionID lets the server pick one.
func NewVoiceClient(baseURL, sessionID string, logger *logrus.Logger) (IVoiceClient, error) {
	endpoint, err := voiceEndpoint(baseURL, sessionID)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &voiceClient{
		endpoint:     endpoint,
		messages:     make(chan assistant.ServerMessage, 32),
		log:          logger,
		pingInterval: 30 * time.Second,
		readTimeout:  90 * time.Second,
		writeTimeout: 5 * time.Second,
	}, nil
}

func voiceEndpoint(baseURL, sessionID string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}

	u.Path = "/api/v1/assistant/ws"
	q := url.Values{}
	if sessionID != "" {
		q.Set("session_id", sessionID)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *voiceClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.endpoint, err)
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout))
		if err != nil {
			c.log.Debugf("Error sending pong: %v", err)
		}
		return nil
	})
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	})

	c.conn = conn
	go c.readLoop(conn)
	go c.keepAlive(conn)

	return nil
}

func (c *voiceClient) readLoop(conn *websocket.Conn) {
	defer close(c.messages)
	defer c.drop(conn)

	for {
		_ = conn.SetReadDeadline(time.Now().Add(c.readTimeout))

		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warnf("Voice channel closed: %v", err)
			}
			return
		}

		var msg assistant.ServerMessage
		if err := jsoniter.Unmarshal(data, &msg); err != nil {
			c.log.Warnf("Ignoring malformed server message: %v", err)
			continue
		}
		c.messages <- msg
	}
}

func (c *voiceClient) keepAlive(conn *websocket.Conn) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		if c.conn != conn {
			c.mu.Unlock()
			return
		}

		err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(c.writeTimeout))
		c.mu.Unlock()

		if err != nil {
			c.log.Warnf("Ping failed, marking voice channel as dead: %v", err)
			c.drop(conn)
			return
		}
	}
}

func (c *voiceClient) drop(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == conn {
		c.conn = nil
	}
	_ = conn.Close()
}

func (c *voiceClient) send(msg assistant.ClientMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("error sending %s message: %w", msg.Type, err)
	}
	return nil
}

func (c *voiceClient) StartCapture(captureID string) error {
	return c.send(assistant.ClientMessage{Type: assistant.MessageCaptureStart, CaptureID: captureID})
}

func (c *voiceClient) SendTranscript(captureID, text, path string) error {
	return c.send(assistant.ClientMessage{
		Type:      assistant.MessageTranscript,
		CaptureID: captureID,
		Text:      text,
		Path:      path,
	})
}

func (c *voiceClient) SendPageContent(path, text string) error {
	return c.send(assistant.ClientMessage{Type: assistant.MessagePageContent, Path: path, Text: text})
}

// Messages is closed when the connection ends.
func (c *voiceClient) Messages() <-chan assistant.ServerMessage {
	return c.messages
}

func (c *voiceClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *voiceClient) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(c.writeTimeout))
	return conn.Close()
}
