package app

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blackwell-systems/healthwatch/internal/output"
	"github.com/spf13/cobra"
)

var askAllow bool

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a single question about your health data",
	Long: `Collect the last months of health data, send it together with the
question to the configured completion endpoint and print the answer.

Examples:
  healthwatch ask "How has my resting heart rate changed this year?"
  healthwatch ask --allow "Am I walking more than last spring?"
  healthwatch ask --json "What was my busiest week?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askAllow, "allow", false, "Grant read access to health data without asking")
	rootCmd.AddCommand(askCmd)
}

// askResult is the --json output of ask.
type askResult struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	if strings.TrimSpace(question) == "" {
		return errEmptyQuestion
	}

	r, err := setup()
	if err != nil {
		return err
	}
	defer r.close()

	s := session{
		in:          bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		prompt:      os.Stdout,
		allow:       askAllow,
		interactive: output.IsInteractive(os.Stdin),
		echoUser:    true,
	}
	if flagJSON {
		s.out = io.Discard
		s.prompt = os.Stderr
	}

	answer, err := r.askOnce(cmd.Context(), s, question)
	if err != nil {
		return err
	}

	if flagJSON {
		data, err := json.MarshalIndent(askResult{Question: question, Answer: answer}, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding answer: %w", err)
		}
		fmt.Println(string(data))
	}
	return nil
}
