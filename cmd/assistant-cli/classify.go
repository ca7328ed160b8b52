package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"LundyVoice/pkg/nlp"
)

var classifyPath string

var classifyCmd = &cobra.Command{
	Use:   "classify <utterance>",
	Short: "Print the intent an utterance would be classified as",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadContent()
		if err != nil {
			return err
		}

		rule := c.Dispatcher(nil).Classify(strings.Join(args, " "), classifyPath)

		out := cmd.OutOrStdout()
		if rule.Intent == nlp.IntentNone {
			mutedColor.Fprintln(out, "no rule matched; the page summary or default reply answers")
			return nil
		}

		actionColor.Fprint(out, rule.Intent.String())
		if rule.Target != "" {
			fmt.Fprintf(out, " -> %s", rule.Target)
		}
		fmt.Fprintln(out)
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyPath, "path", "/", "page the utterance is spoken on")
}
