package conversation

import "github.com/tttuuu13/aeroexpress-bot/internal/menu"

type EventKind int

const (
	EventDocument EventKind = iota + 1
	EventAction
	EventText
)

func (k EventKind) String() string {
	switch k {
	case EventDocument:
		return "document"
	case EventAction:
		return "action"
	case EventText:
		return "text"
	default:
		return "unknown"
	}
}

// Event is one inbound user input. The set of implementations is closed.
type Event interface {
	Kind() EventKind
	sealed()
}

// DocumentEvent carries an uploaded file and the MIME type the client
// declared for it.
type DocumentEvent struct {
	Data        []byte
	ContentType string
	FileName    string
}

// ActionEvent is a menu button press. CallbackID is the transport handle used
// to acknowledge the press; it may be empty.
type ActionEvent struct {
	Action     menu.Action
	CallbackID string
}

// TextEvent is a free-text reply.
type TextEvent struct {
	Text string
}

func (DocumentEvent) Kind() EventKind { return EventDocument }
func (ActionEvent) Kind() EventKind   { return EventAction }
func (TextEvent) Kind() EventKind     { return EventText }

func (DocumentEvent) sealed() {}
func (ActionEvent) sealed()   {}
func (TextEvent) sealed()     {}
