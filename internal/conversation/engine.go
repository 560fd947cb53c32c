package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/tttuuu13/aeroexpress-bot/internal/session"
)

// ErrUnhandled wraps a panic recovered while handling one event.
var ErrUnhandled = errors.New("conversation: unhandled error")

type EngineOptions struct {
	Sessions *session.Manager
	Sink     Sink
	Logger   *slog.Logger
}

// Engine applies events to user sessions and carries out the replies.
type Engine struct {
	sessions *session.Manager
	sink     Sink
	logger   *slog.Logger
}

func NewEngine(opts EngineOptions) (*Engine, error) {
	if opts.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if opts.Sink == nil {
		return nil, fmt.Errorf("reply sink is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{sessions: opts.Sessions, sink: opts.Sink, logger: logger}, nil
}

// Handle runs one event for userID to completion. The user's session is
// locked for the whole call, so events of one user never interleave. Reply
// failures are logged and do not stop the transition; a panic is logged,
// nothing is stored, and ErrUnhandled is returned.
func (e *Engine) Handle(ctx context.Context, userID int64, ev Event) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := e.logger.With("event_id", uuid.NewString(), "user_id", userID)
	if ev != nil {
		logger = logger.With("event", ev.Kind().String())
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("conversation_unhandled_error", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			err = fmt.Errorf("%w: %v", ErrUnhandled, r)
		}
	}()

	return e.sessions.Do(userID, func(cur session.Session) (session.Session, error) {
		res := Transition(cur, ev)
		if res.Err != nil {
			logger.Info("conversation_user_error", "state", cur.State.String(), "error", res.Err.Error())
		}

		next := res.Session
		failed := 0
		for _, r := range res.Replies {
			ref, rerr := e.execute(ctx, userID, r)
			if rerr != nil {
				failed++
				logger.Warn("conversation_reply_error", "reply", r.Kind.String(), "error", rerr.Error())
				continue
			}
			if r.Kind == ReplySendMessage && r.Menu {
				next.MenuRef = ref
			}
		}

		logger.Info("conversation_event",
			"from", cur.State.String(),
			"to", next.State.String(),
			"records", len(next.Records),
			"replies", len(res.Replies),
			"failed_replies", failed,
		)
		return next, nil
	})
}

func (e *Engine) execute(ctx context.Context, userID int64, r Reply) (session.MenuRef, error) {
	switch r.Kind {
	case ReplySendMessage:
		return e.sink.SendMessage(ctx, userID, r.Text, r.Keyboard)
	case ReplyEditMessage:
		return r.Ref, e.sink.EditMessage(ctx, userID, r.Ref, r.Text, r.Keyboard)
	case ReplyDeleteMessage:
		return 0, e.sink.DeleteMessage(ctx, userID, r.Ref)
	case ReplySendDocument:
		return 0, e.sink.SendDocument(ctx, userID, r.Document, r.Filename)
	case ReplyAnswerCallback:
		return 0, e.sink.AnswerCallback(ctx, r.CallbackID, r.Text, r.Alert)
	default:
		return 0, fmt.Errorf("unknown reply kind %d", int(r.Kind))
	}
}
