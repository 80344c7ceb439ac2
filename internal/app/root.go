// Package app contains the Cobra command tree for healthwatch.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "healthwatch",
	Short: "Ask questions about your own health trends",
	Long: `healthwatch answers natural-language questions about your health data.
It reads samples you have imported into a local database (weight, steps,
active energy, heart rate, VO2 max, flights climbed, distance), summarizes the
last months of data and sends your question together with that summary to a
chat-completion endpoint you configure.

Nothing is read until you grant access on your first question.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("healthwatch", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  import    Load JSON sample exports or FIT activity files")
		fmt.Println("  summary   Show what data the assistant will see")
		fmt.Println("  ask       Ask a single question")
		fmt.Println("  chat      Start an interactive conversation")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/healthwatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
}
