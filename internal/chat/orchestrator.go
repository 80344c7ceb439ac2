package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/blackwell-systems/healthwatch/internal/health"
	"go.uber.org/zap"
)

// Collector builds a fresh health document.
type Collector interface {
	Collect(ctx context.Context) *health.Document
}

// Completer answers a prompt. Failures come back as answer text.
type Completer interface {
	Complete(ctx context.Context, prompt string) string
}

// Options wires an Orchestrator to its collaborators.
type Options struct {
	Source         health.Source
	Collector      Collector
	Completer      Completer
	PromptTemplate string
	Log            *zap.Logger

	// OnChange is called on the event loop after every state change or
	// history append. It must not block or call back into the Orchestrator
	// synchronously.
	OnChange func(Snapshot)
}

// Snapshot is a copy of the conversation at one point in time.
type Snapshot struct {
	State        State
	History      []Message
	Pending      string
	LatestWeight *health.Sample
}

// ErrStopped is returned by Snapshot once Run has exited.
var ErrStopped = errors.New("conversation stopped")

// Orchestrator serializes every conversation mutation onto a single event
// loop. Blocking work runs on helper goroutines that post their result back
// as an event.
type Orchestrator struct {
	source    health.Source
	collector Collector
	completer Completer
	template  string
	log       *zap.Logger
	onChange  func(Snapshot)

	events chan any
	done   chan struct{}

	// Owned by the Run goroutine.
	state        State
	authorized   bool
	history      []Message
	pending      string
	latestWeight *health.Sample
}

// Events.
type (
	submitted       struct {
		text     string
		accepted chan<- bool // optional
	}
	authorizeResult struct{ granted bool }
	aggregated      struct{ data []byte }
	answered        struct{ text string }
	weightRead      struct{ sample health.Sample }
	snapshotRequest struct{ reply chan Snapshot }
)

// New creates an Orchestrator. Call Run to start processing events.
func New(opts Options) *Orchestrator {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	tmpl := opts.PromptTemplate
	if tmpl == "" {
		tmpl = DefaultPromptTemplate
	}
	return &Orchestrator{
		source:    opts.Source,
		collector: opts.Collector,
		completer: opts.Completer,
		template:  tmpl,
		log:       log,
		onChange:  opts.OnChange,
		events:    make(chan any, 16),
		done:      make(chan struct{}),
	}
}

// Run processes events until ctx is cancelled. It must be called once.
func (o *Orchestrator) Run(ctx context.Context) error {
	defer close(o.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-o.events:
			o.handle(ctx, ev)
		}
	}
}

// Submit asks a question. It is dropped silently unless the conversation is
// idle and text is not blank.
func (o *Orchestrator) Submit(text string) {
	o.post(submitted{text: text})
}

// TrySubmit is Submit that waits for the guard's verdict. It reports whether
// the question started a request cycle; false means it was dropped because
// the conversation was busy or the text was blank.
func (o *Orchestrator) TrySubmit(ctx context.Context, text string) (bool, error) {
	accepted := make(chan bool, 1)
	select {
	case o.events <- submitted{text: text, accepted: accepted}:
	case <-o.done:
		return false, ErrStopped
	case <-ctx.Done():
		return false, ctx.Err()
	}
	select {
	case ok := <-accepted:
		return ok, nil
	case <-o.done:
		return false, ErrStopped
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Snapshot returns a copy of the current conversation.
func (o *Orchestrator) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	select {
	case o.events <- snapshotRequest{reply: reply}:
	case <-o.done:
		return Snapshot{}, ErrStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
	select {
	case s := <-reply:
		return s, nil
	case <-o.done:
		return Snapshot{}, ErrStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (o *Orchestrator) post(ev any) {
	select {
	case o.events <- ev:
	case <-o.done:
	}
}

func (o *Orchestrator) handle(ctx context.Context, ev any) {
	switch ev := ev.(type) {
	case submitted:
		ok := o.onSubmitted(ctx, ev.text)
		if ev.accepted != nil {
			ev.accepted <- ok
		}
	case authorizeResult:
		o.onAuthorized(ctx, ev.granted)
	case aggregated:
		o.onAggregated(ctx, ev.data)
	case answered:
		o.onAnswered(ev.text)
	case weightRead:
		s := ev.sample
		o.latestWeight = &s
		o.notify()
	case snapshotRequest:
		ev.reply <- o.snapshot()
	}
}

func (o *Orchestrator) onSubmitted(ctx context.Context, text string) bool {
	if o.state != Idle {
		o.log.Debug("submission dropped: request in flight", zap.Stringer("state", o.state))
		return false
	}
	if strings.TrimSpace(text) == "" {
		o.log.Debug("submission dropped: empty question")
		return false
	}
	o.pending = text

	if !o.authorized {
		o.setState(Authorizing)
		go func() {
			granted, err := o.source.RequestAuthorization(ctx)
			if err != nil {
				o.log.Warn("authorization request failed", zap.Error(err))
				granted = false
			}
			o.post(authorizeResult{granted: granted})
		}()
		return true
	}
	o.startAggregation(ctx)
	return true
}

func (o *Orchestrator) onAuthorized(ctx context.Context, granted bool) {
	if o.state != Authorizing {
		return
	}
	if !granted {
		o.log.Info("health data access denied")
		o.setState(Idle)
		return
	}
	o.authorized = true
	go func() {
		if s, ok := health.LatestSample(ctx, o.source, health.Weight); ok {
			o.post(weightRead{sample: s})
		}
	}()
	o.startAggregation(ctx)
}

func (o *Orchestrator) startAggregation(ctx context.Context) {
	o.setState(Aggregating)
	go func() {
		doc := o.collector.Collect(ctx)
		o.post(aggregated{data: health.Encode(doc)})
	}()
}

func (o *Orchestrator) onAggregated(ctx context.Context, data []byte) {
	if o.state != Aggregating {
		return
	}
	question := o.pending
	o.history = append(o.history, newMessage(question, true))
	prompt := BuildPrompt(o.template, string(data), question)
	o.setState(Requesting)

	go func() {
		o.post(answered{text: o.completer.Complete(ctx, prompt)})
	}()
}

func (o *Orchestrator) onAnswered(text string) {
	if o.state != Requesting {
		return
	}
	o.history = append(o.history, newMessage(text, false))
	o.pending = ""
	o.setState(Idle)
}

func (o *Orchestrator) setState(s State) {
	o.log.Debug("conversation state", zap.Stringer("from", o.state), zap.Stringer("to", s))
	o.state = s
	o.notify()
}

func (o *Orchestrator) notify() {
	if o.onChange != nil {
		o.onChange(o.snapshot())
	}
}

func (o *Orchestrator) snapshot() Snapshot {
	history := make([]Message, len(o.history))
	copy(history, o.history)
	var weight *health.Sample
	if o.latestWeight != nil {
		w := *o.latestWeight
		weight = &w
	}
	return Snapshot{
		State:        o.state,
		History:      history,
		Pending:      o.pending,
		LatestWeight: weight,
	}
}
