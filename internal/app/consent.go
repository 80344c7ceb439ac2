package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/blackwell-systems/healthwatch/internal/output"
)

// consent asks the user for read access to their health data. It backs
// store.Source authorization for the ask and chat commands.
type consent struct {
	in          *bufio.Reader
	out         io.Writer
	allow       bool // granted up front with --allow
	interactive bool
}

const consentQuestion = "healthwatch would like to read your weight, activity, heart rate, VO2 max and distance samples. Allow? [y/N] "

func (c *consent) authorize(_ context.Context) (bool, error) {
	if c.allow {
		return true, nil
	}
	if !c.interactive {
		return false, nil
	}

	fmt.Fprint(c.out, output.StyleHeader.Render(consentQuestion))
	line, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
