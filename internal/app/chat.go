package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/blackwell-systems/healthwatch/internal/output"
	"github.com/spf13/cobra"
)

var chatAllow bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation about your health data",
	Long: `Read questions line by line and answer each one from a fresh summary of
your health data. Access is requested on the first question. Type 'exit' or
press Ctrl-D to leave.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatAllow, "allow", false, "Grant read access to health data without asking")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	r, err := setup()
	if err != nil {
		return err
	}
	defer r.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	s := session{
		in:          bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		prompt:      os.Stdout,
		allow:       chatAllow,
		interactive: output.IsInteractive(os.Stdin),
	}
	err = r.chatLoop(ctx, s)
	if errors.Is(err, context.Canceled) {
		fmt.Println()
		return nil
	}
	return err
}

// askOnce runs a single question through a fresh conversation.
func (r *runtime) askOnce(ctx context.Context, s session, question string) (string, error) {
	conv, err := r.openConversation(ctx, s)
	if err != nil {
		return "", err
	}
	defer conv.stop()

	answer, ok, err := conv.ask(ctx, question)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errAccessDenied
	}
	return answer, nil
}

// chatLoop reads questions from s.in until EOF or "exit". Access is asked
// for again after a refusal.
func (r *runtime) chatLoop(ctx context.Context, s session) error {
	conv, err := r.openConversation(ctx, s)
	if err != nil {
		return err
	}
	defer conv.stop()

	fmt.Fprintln(s.out, output.Section("healthwatch chat")+" "+output.Status("(type 'exit' or Ctrl-D to quit)"))
	for {
		fmt.Fprint(s.out, output.StyleUser.Render("you: "))
		line, readErr := s.in.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("reading question: %w", readErr)
		}

		text := strings.TrimSpace(line)
		switch {
		case text == "exit" || text == "quit":
			return nil
		case text != "":
			_, ok, err := conv.ask(ctx, text)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(s.out, output.Error("Health data access was not granted."))
			}
		}

		if readErr != nil {
			fmt.Fprintln(s.out)
			return nil
		}
	}
}
