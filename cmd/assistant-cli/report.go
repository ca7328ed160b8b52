package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	assistantPkg "LundyVoice/pkg/assistant"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the Navigator compliance report as markdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadContent()
		if err != nil {
			return err
		}

		report := assistantPkg.ComplianceReport(c.Compliance, time.Now().UTC())

		if reportOutput == "" {
			fmt.Fprint(cmd.OutOrStdout(), report)
			return nil
		}

		if err := os.WriteFile(reportOutput, []byte(report), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		mutedColor.Fprintf(cmd.ErrOrStderr(), "report written to %s\n", reportOutput)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "write the report to a file instead of stdout")
}
