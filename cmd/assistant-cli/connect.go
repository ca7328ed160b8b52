package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"LundyVoice/internal/api/assistant"
	assistantPkg "LundyVoice/pkg/assistant"
	websocketPkg "LundyVoice/pkg/websocket"
)

var (
	connectURL     string
	connectSession string
	connectPath    string
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Talk to a running server over its voice channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		logger := logrus.New()
		logger.SetOutput(cmd.ErrOrStderr())
		logger.SetLevel(logrus.WarnLevel)

		client, err := websocketPkg.NewVoiceClient(connectURL, connectSession, logger)
		if err != nil {
			return err
		}

		spin := newSpinner("connecting to " + connectURL)
		if stdinIsTerminal() {
			spin.Start()
		}
		dialCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		err = client.Connect(dialCtx)
		cancel()
		spin.Stop()
		if err != nil {
			return err
		}
		defer client.Close()

		out := cmd.OutOrStdout()

		var path atomic.Value
		path.Store(connectPath)

		go func() {
			for msg := range client.Messages() {
				switch msg.Type {
				case assistant.MessageReady:
					mutedColor.Fprintf(out, "connected, session %s\n", msg.SessionID)
				case assistant.MessageResponse:
					mutedColor.Fprintf(out, "intent: %s\n", msg.Intent)
				case assistant.MessageAction:
					if msg.Action != nil {
						printAction(out, *msg.Action)
						if msg.Action.Kind == assistantPkg.ActionNavigate {
							path.Store(msg.Action.Target)
						}
					}
				case assistant.MessageDiscarded:
					mutedColor.Fprintf(out, "capture %s discarded\n", msg.CaptureID)
				case assistant.MessageError:
					errorColor.Fprintf(out, "error: %s\n", msg.Error)
				}
			}
			mutedColor.Fprintln(out, "voice channel closed")
			stop()
		}()

		lines := make(chan string)
		go func() {
			defer close(lines)
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				lines <- strings.TrimSpace(scanner.Text())
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok || line == "/quit" {
					return nil
				}
				if line == "" {
					continue
				}
				if err := sendUtterance(client, line, path.Load().(string)); err != nil {
					return err
				}
			}
		}
	},
}

func init() {
	connectCmd.Flags().StringVar(&connectURL, "url", "http://localhost:3000", "server base url")
	connectCmd.Flags().StringVar(&connectSession, "session", "", "session id to resume (default: assigned by the server)")
	connectCmd.Flags().StringVar(&connectPath, "path", "/", "page the utterances are spoken on")
}

// sendUtterance plays one capture: start, then the final transcript.
func sendUtterance(client websocketPkg.IVoiceClient, text, path string) error {
	captureID := uuid.NewString()
	if err := client.StartCapture(captureID); err != nil {
		return fmt.Errorf("start capture: %w", err)
	}
	return client.SendTranscript(captureID, text, path)
}
