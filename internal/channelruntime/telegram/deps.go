package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tttuuu13/aeroexpress-bot/internal/session"
)

// LogStore is the log file behind the /logs and /clear commands.
type LogStore interface {
	Snapshot() ([]byte, error)
	Clear() error
}

type Dependencies struct {
	Logger     func() (*slog.Logger, error)
	Sessions   *session.Manager
	Logs       LogStore
	HTTPClient *http.Client
}

func loggerFromDeps(d Dependencies) (*slog.Logger, error) {
	if d.Logger == nil {
		return nil, fmt.Errorf("Logger dependency missing")
	}
	return d.Logger()
}

type ErrorStage string

const (
	ErrorStageDownload      ErrorStage = "download"
	ErrorStageHandleEvent   ErrorStage = "handle_event"
	ErrorStageCommand       ErrorStage = "command"
	ErrorStageEnqueue       ErrorStage = "enqueue"
	ErrorStageAckCallback   ErrorStage = "ack_callback"
	ErrorStageNoticeMessage ErrorStage = "notice_message"
)

type InboundEvent struct {
	UserID   int64
	UpdateID int64
	Kind     string
}

type ErrorEvent struct {
	Stage  ErrorStage
	UserID int64
	Err    error
}

// Hooks observe the runtime. They run on worker goroutines and must not
// block.
type Hooks struct {
	OnInbound func(context.Context, InboundEvent)
	OnHandled func(context.Context, InboundEvent)
	OnError   func(context.Context, ErrorEvent)
}

func callInboundHook(ctx context.Context, logger *slog.Logger, hooks Hooks, event InboundEvent) {
	if hooks.OnInbound == nil {
		return
	}
	safeHookCall(logger, "inbound", func() { hooks.OnInbound(ctx, event) })
}

func callHandledHook(ctx context.Context, logger *slog.Logger, hooks Hooks, event InboundEvent) {
	if hooks.OnHandled == nil {
		return
	}
	safeHookCall(logger, "handled", func() { hooks.OnHandled(ctx, event) })
}

func callErrorHook(ctx context.Context, logger *slog.Logger, hooks Hooks, event ErrorEvent) {
	if logger != nil && event.Err != nil {
		logger.Warn("telegram_runtime_error", "stage", string(event.Stage), "user_id", event.UserID, "error", event.Err.Error())
	}
	if hooks.OnError == nil {
		return
	}
	safeHookCall(logger, "error", func() { hooks.OnError(ctx, event) })
}

func safeHookCall(logger *slog.Logger, hook string, fn func()) {
	defer func() {
		if r := recover(); r != nil && logger != nil {
			logger.Error("telegram_hook_panic", "hook", hook, "panic", fmt.Sprint(r))
		}
	}()
	fn()
}
