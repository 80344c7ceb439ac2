// Package chat owns the conversation: it guards submissions, drives the
// authorize -> aggregate -> request cycle and records the message history.
package chat

import "github.com/google/uuid"

// State is the phase of the conversation.
type State int

const (
	Idle State = iota
	Authorizing
	Aggregating
	Requesting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Authorizing:
		return "authorizing"
	case Aggregating:
		return "aggregating"
	case Requesting:
		return "requesting"
	default:
		return "unknown"
	}
}

// Message is one entry of the conversation history. Messages are never
// modified after they are appended.
type Message struct {
	ID     string
	Text   string
	IsUser bool
}

func newMessage(text string, isUser bool) Message {
	return Message{ID: uuid.NewString(), Text: text, IsUser: isUser}
}
