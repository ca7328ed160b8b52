package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	assistantPkg "LundyVoice/pkg/assistant"
)

var (
	userColor      = color.New(color.FgCyan, color.Bold)
	assistantColor = color.New(color.FgGreen)
	actionColor    = color.New(color.FgYellow)
	mutedColor     = color.New(color.FgHiBlack)
	errorColor     = color.New(color.FgRed, color.Bold)
)

func newSpinner(message string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	s.Writer = os.Stderr
	return s
}

// printAction renders one action the way the browser would perform it.
func printAction(w io.Writer, a assistantPkg.Action) {
	switch a.Kind {
	case assistantPkg.ActionSpeak:
		text := a.Speech
		if a.Display != "" {
			text = a.Display
		}
		assistantColor.Fprintf(w, "assistant> %s\n", text)
	case assistantPkg.ActionNavigate:
		actionColor.Fprintf(w, "[navigate] %s\n", a.Target)
	case assistantPkg.ActionOpenPanel:
		actionColor.Fprintf(w, "[panel] %s\n", a.Target)
		for _, item := range a.Panel {
			fmt.Fprintf(w, "  %-20s %-5s %s\n", item.Label, item.Status, item.Detail)
		}
	case assistantPkg.ActionOpenForm:
		actionColor.Fprintln(w, "[form] please review your booking:")
		if a.Form != nil {
			fmt.Fprintf(w, "  name:  %s\n  email: %s\n  date:  %s\n  time:  %s\n", a.Form.Name, a.Form.Email, a.Form.Date, a.Form.Time)
		}
		mutedColor.Fprintln(w, "  type /confirm to book it or /cancel to discard it")
	}
}
