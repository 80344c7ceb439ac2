package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/blackwell-systems/healthwatch/internal/chat"
	"github.com/blackwell-systems/healthwatch/internal/output"
	"github.com/blackwell-systems/healthwatch/internal/store"
)

// view prints conversation changes as they happen. update runs on the
// orchestrator's event loop; idle is signalled every time a request cycle
// returns to Idle.
type view struct {
	out      io.Writer
	printer  *output.Printer
	echoUser bool

	printed     int
	last        chat.State
	weightShown bool
	idle        chan struct{}
}

func newView(out io.Writer, printer *output.Printer, echoUser bool) *view {
	return &view{
		out:      out,
		printer:  printer,
		echoUser: echoUser,
		idle:     make(chan struct{}, 1),
	}
}

func (v *view) update(s chat.Snapshot) {
	for _, m := range s.History[v.printed:] {
		if m.IsUser && !v.echoUser {
			continue
		}
		speaker := "healthwatch"
		if m.IsUser {
			speaker = "you"
		}
		fmt.Fprintln(v.out, output.Message(speaker, m.Text, m.IsUser))
	}
	v.printed = len(s.History)

	if s.LatestWeight != nil && !v.weightShown {
		v.weightShown = true
		fmt.Fprintln(v.out, output.Status(fmt.Sprintf("Latest weight: %s kg (%s)",
			v.printer.Value(s.LatestWeight.Value), s.LatestWeight.Timestamp)))
	}

	if s.State == v.last {
		return
	}
	switch s.State {
	case chat.Aggregating:
		fmt.Fprintln(v.out, output.Status("Reading your health data..."))
	case chat.Requesting:
		fmt.Fprintln(v.out, output.Status("Thinking..."))
	case chat.Idle:
		select {
		case v.idle <- struct{}{}:
		default:
		}
	}
	v.last = s.State
}

// conversation runs an Orchestrator in the background for one command.
type conversation struct {
	orch   *chat.Orchestrator
	view   *view
	cancel context.CancelFunc
	errc   chan error
}

func startConversation(ctx context.Context, opts chat.Options, v *view) *conversation {
	opts.OnChange = v.update
	orch := chat.New(opts)

	ctx, cancel := context.WithCancel(ctx)
	c := &conversation{orch: orch, view: v, cancel: cancel, errc: make(chan error, 1)}
	go func() { c.errc <- orch.Run(ctx) }()
	return c
}

// ask submits question and blocks until the conversation is idle again. It
// reports whether an answer was added, which is false when access to the
// health data was refused. A question the conversation drops returns
// errNotAccepted without waiting.
func (c *conversation) ask(ctx context.Context, question string) (string, bool, error) {
	before, err := c.orch.Snapshot(ctx)
	if err != nil {
		return "", false, err
	}

	accepted, err := c.orch.TrySubmit(ctx, question)
	if err != nil {
		return "", false, err
	}
	if !accepted {
		return "", false, errNotAccepted
	}
	select {
	case <-c.view.idle:
	case <-ctx.Done():
		return "", false, ctx.Err()
	}

	after, err := c.orch.Snapshot(ctx)
	if err != nil {
		return "", false, err
	}
	if len(after.History) <= len(before.History) {
		return "", false, nil
	}
	last := after.History[len(after.History)-1]
	return last.Text, !last.IsUser, nil
}

func (c *conversation) stop() {
	c.cancel()
	<-c.errc
}

// session is the terminal a conversation command talks to.
type session struct {
	in          *bufio.Reader
	out         io.Writer // conversation output
	prompt      io.Writer // consent question
	allow       bool
	interactive bool
	echoUser    bool
}

var (
	errAccessDenied  = errors.New("health data access not granted; answer y when asked or pass --allow")
	errNotAccepted   = errors.New("question not accepted: it is blank or another question is in flight")
	errEmptyQuestion = errors.New("question is empty")
)

// openConversation wires the store-backed source, aggregator and completion
// client into a running conversation.
func (r *runtime) openConversation(ctx context.Context, s session) (*conversation, error) {
	gate := &consent{in: s.in, out: s.prompt, allow: s.allow, interactive: s.interactive}
	src := store.NewSource(r.db, gate.authorize)

	agg, err := r.aggregator(src)
	if err != nil {
		return nil, err
	}
	comp, err := r.completer()
	if err != nil {
		return nil, err
	}

	v := newView(s.out, output.NewPrinter(r.cfg.Output.Locale), s.echoUser)
	return startConversation(ctx, chat.Options{
		Source:         src,
		Collector:      agg,
		Completer:      comp,
		PromptTemplate: r.cfg.Prompt.Template,
		Log:            r.log.Named("chat"),
	}, v), nil
}
