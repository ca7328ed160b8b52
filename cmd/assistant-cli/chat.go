package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	assistantPkg "LundyVoice/pkg/assistant"
	"LundyVoice/pkg/booking"
	"LundyVoice/pkg/knowledge"
	"LundyVoice/pkg/voice"
)

var (
	chatFast  bool
	chatSpeak bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the assistant locally, one typed utterance per line",
	Long: `chat runs the dialogue engine in-process over the configured content. Each line
is treated as a final transcript. Commands: /path <route>, /confirm, /cancel, /quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadContent()
		if err != nil {
			return err
		}

		logger := logrus.New()
		logger.SetOutput(io.Discard)

		pages := knowledge.NewStore(knowledge.WithLogger(logger))
		defer pages.Close()
		c.Seed(pages)

		r := &repl{
			dispatcher: c.Dispatcher(pages, assistantPkg.WithLogger(logger)),
			scheduler:  assistantPkg.NewScheduler(),
			session:    assistantPkg.NewSession("cli", "/"),
			out:        cmd.OutOrStdout(),
			fast:       chatFast,
		}
		if chatSpeak {
			r.speaker = voice.NewTextSpeaker(cmd.ErrOrStderr(), "(spoken) ")
		}
		return r.run(cmd.Context(), cmd.InOrStdin())
	},
}

func init() {
	chatCmd.Flags().BoolVar(&chatFast, "fast", false, "perform actions immediately instead of honoring their delays")
	chatCmd.Flags().BoolVar(&chatSpeak, "speak", false, "also print speech as it would be pronounced")
}

type repl struct {
	dispatcher *assistantPkg.Dispatcher
	scheduler  *assistantPkg.Scheduler
	session    assistantPkg.Session
	speaker    voice.Speaker
	out        io.Writer
	fast       bool
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	if ctx == nil {
		ctx = context.Background()
	}

	mutedColor.Fprintf(r.out, "Lundy assistant on %s. Type /quit to leave.\n", r.session.Path)

	scanner := bufio.NewScanner(in)
	for {
		userColor.Fprintf(r.out, "you@%s> ", r.session.Path)
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if done := r.handle(ctx, line); done {
			return nil
		}
	}
}

// handle processes one line and reports whether the session is over.
func (r *repl) handle(ctx context.Context, line string) bool {
	switch {
	case line == "/quit" || line == "/exit":
		return true

	case strings.HasPrefix(line, "/path"):
		r.session.Path = knowledge.NormalizePath(strings.TrimSpace(strings.TrimPrefix(line, "/path")))
		mutedColor.Fprintf(r.out, "now on %s\n", r.session.Path)

	case line == "/confirm":
		next, final, resp, err := r.dispatcher.Confirm(r.session, booking.Fields{})
		if err != nil {
			errorColor.Fprintln(r.out, "nothing to confirm")
			return false
		}
		r.session = next
		r.perform(ctx, resp)
		mutedColor.Fprintf(r.out, "booked %s <%s> for %s %s\n", final.Name, final.Email, final.Date, final.Time)

	case line == "/cancel":
		r.session, _ = r.dispatcher.Cancel(r.session)
		mutedColor.Fprintln(r.out, "booking discarded")

	default:
		var resp assistantPkg.Response
		r.session, resp = r.dispatcher.Process(r.session, line)
		r.perform(ctx, resp)
	}
	return false
}

func (r *repl) perform(ctx context.Context, resp assistantPkg.Response) {
	actions := resp.Actions
	if r.fast {
		actions = make([]assistantPkg.Action, len(resp.Actions))
		for i, a := range resp.Actions {
			a.Delay = 0
			actions[i] = a
		}
	}

	h := r.scheduler.Schedule(ctx, actions, func(a assistantPkg.Action) {
		printAction(r.out, a)
		if a.Kind == assistantPkg.ActionSpeak && r.speaker != nil {
			_ = r.speaker.Speak(ctx, voice.Pronounce(a.Speech))
		}
		if a.Kind == assistantPkg.ActionNavigate {
			r.session.Path = a.Target
		}
	})
	h.Wait()
}

func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
