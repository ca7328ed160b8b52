package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"LundyVoice/internal/content"
)

var (
	contentFile string
	noColor     bool
)

var rootCmd = &cobra.Command{
	Use:   "assistant-cli",
	Short: "Operate and demo the Lundy voice assistant from a terminal",
	Long: `assistant-cli runs the voice assistant's dialogue engine locally, talks to a
running server over its voice channel, and prints the compliance report.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&contentFile, "content", os.Getenv("CONTENT_FILE"), "content YAML file (default: embedded)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(chatCmd, connectCmd, classifyCmd, reportCmd, adminTokenCmd)
}

func loadContent() (*content.Content, error) {
	return content.Load(contentFile)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
