package telegram

import (
	"bytes"
	"context"

	"github.com/tttuuu13/aeroexpress-bot/internal/conversation"
	"github.com/tttuuu13/aeroexpress-bot/internal/menu"
	"github.com/tttuuu13/aeroexpress-bot/internal/session"
)

var _ conversation.Sink = (*Sink)(nil)

// Sink carries out conversation replies through the Bot API. The user id is
// the private chat id.
type Sink struct {
	client *Client
}

func NewSink(client *Client) *Sink {
	return &Sink{client: client}
}

func (s *Sink) SendMessage(ctx context.Context, userID int64, text string, kb menu.Keyboard) (session.MenuRef, error) {
	var markup *InlineKeyboardMarkup
	if kb != menu.KeyboardNone {
		markup = KeyboardMarkup(kb)
	}
	id, err := s.client.SendMessage(ctx, userID, text, markup)
	if err != nil {
		return 0, err
	}
	return session.MenuRef(id), nil
}

func (s *Sink) EditMessage(ctx context.Context, userID int64, ref session.MenuRef, text string, kb menu.Keyboard) error {
	err := s.client.EditMessageText(ctx, userID, int64(ref), text, KeyboardMarkup(kb))
	if IsNotModified(err) {
		return nil
	}
	return err
}

func (s *Sink) DeleteMessage(ctx context.Context, userID int64, ref session.MenuRef) error {
	return s.client.DeleteMessage(ctx, userID, int64(ref))
}

func (s *Sink) SendDocument(ctx context.Context, userID int64, data []byte, filename string) error {
	return s.client.SendDocument(ctx, userID, filename, bytes.NewReader(data), "")
}

func (s *Sink) AnswerCallback(ctx context.Context, callbackID string, text string, alert bool) error {
	return s.client.AnswerCallbackQuery(ctx, callbackID, text, alert)
}

// KeyboardMarkup renders kb as an inline keyboard whose callback data are the
// action codes. KeyboardNone renders as an empty keyboard.
func KeyboardMarkup(kb menu.Keyboard) *InlineKeyboardMarkup {
	rows := kb.Rows()
	out := &InlineKeyboardMarkup{InlineKeyboard: make([][]InlineKeyboardButton, 0, len(rows))}
	for _, row := range rows {
		buttons := make([]InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, InlineKeyboardButton{Text: b.Label, CallbackData: b.Action.Code()})
		}
		out.InlineKeyboard = append(out.InlineKeyboard, buttons)
	}
	return out
}
