package conversation

import (
	"context"

	"github.com/tttuuu13/aeroexpress-bot/internal/menu"
	"github.com/tttuuu13/aeroexpress-bot/internal/session"
)

type ReplyKind int

const (
	ReplySendMessage ReplyKind = iota + 1
	ReplyEditMessage
	ReplyDeleteMessage
	ReplySendDocument
	ReplyAnswerCallback
)

func (k ReplyKind) String() string {
	switch k {
	case ReplySendMessage:
		return "send_message"
	case ReplyEditMessage:
		return "edit_message"
	case ReplyDeleteMessage:
		return "delete_message"
	case ReplySendDocument:
		return "send_document"
	case ReplyAnswerCallback:
		return "answer_callback"
	default:
		return "unknown"
	}
}

// Reply is one response action for the transport to carry out.
type Reply struct {
	Kind     ReplyKind
	Text     string
	Keyboard menu.Keyboard
	Ref      session.MenuRef
	// Menu marks a sent message that becomes the session's menu.
	Menu     bool
	Document []byte
	Filename string

	CallbackID string
	Alert      bool
}

func SendMessage(text string) Reply {
	return Reply{Kind: ReplySendMessage, Text: text}
}

func SendMenu(text string, kb menu.Keyboard) Reply {
	return Reply{Kind: ReplySendMessage, Text: text, Keyboard: kb, Menu: true}
}

func EditMessage(ref session.MenuRef, text string, kb menu.Keyboard) Reply {
	return Reply{Kind: ReplyEditMessage, Ref: ref, Text: text, Keyboard: kb}
}

func DeleteMessage(ref session.MenuRef) Reply {
	return Reply{Kind: ReplyDeleteMessage, Ref: ref}
}

func SendDocument(data []byte, filename string) Reply {
	return Reply{Kind: ReplySendDocument, Document: data, Filename: filename}
}

func AnswerCallback(callbackID, text string, alert bool) Reply {
	return Reply{Kind: ReplyAnswerCallback, CallbackID: callbackID, Text: text, Alert: alert}
}

// Sink executes replies for one chat. SendMessage returns a reference to the
// sent message so it can later be edited or deleted.
type Sink interface {
	SendMessage(ctx context.Context, userID int64, text string, kb menu.Keyboard) (session.MenuRef, error)
	EditMessage(ctx context.Context, userID int64, ref session.MenuRef, text string, kb menu.Keyboard) error
	DeleteMessage(ctx context.Context, userID int64, ref session.MenuRef) error
	SendDocument(ctx context.Context, userID int64, data []byte, filename string) error
	AnswerCallback(ctx context.Context, callbackID string, text string, alert bool) error
}
