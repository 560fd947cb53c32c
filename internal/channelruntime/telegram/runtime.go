package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tttuuu13/aeroexpress-bot/internal/channelruntime/worker"
	"github.com/tttuuu13/aeroexpress-bot/internal/conversation"
	"github.com/tttuuu13/aeroexpress-bot/internal/menu"
	"github.com/tttuuu13/aeroexpress-bot/internal/session"
	botapi "github.com/tttuuu13/aeroexpress-bot/internal/telegram"
)

const (
	msgLoadingFile    = "Loading the file..."
	msgFileTooLarge   = "The file is too large."
	msgDownloadFailed = "Could not download the file, try again."
	msgLogsEmpty      = "The log file is empty."
	msgLogsCleared    = "The log file has been cleared."
	logsFilename      = "logs.txt"
)

type telegramJob struct {
	UserID   int64
	UpdateID int64
	Message  *botapi.Message
	Callback *botapi.CallbackQuery
}

func (j telegramJob) kind() string {
	switch {
	case j.Callback != nil:
		return "callback"
	case j.Message != nil && j.Message.Document != nil:
		return "document"
	default:
		return "text"
	}
}

// Run polls Telegram for updates until ctx is done and feeds them to the
// conversation engine, one user at a time.
func Run(ctx context.Context, d Dependencies, opts RunOptions) error {
	return runTelegramLoop(ctx, d, resolveRuntimeLoopOptionsFromRunOptions(opts))
}

type telegramRuntime struct {
	api      *botapi.Client
	engine   *conversation.Engine
	sessions *session.Manager
	logs     LogStore
	logger   *slog.Logger
	opts     runtimeLoopOptions
}

func runTelegramLoop(ctx context.Context, d Dependencies, opts runtimeLoopOptions) error {
	if opts.BotToken == "" {
		return fmt.Errorf("missing telegram.bot_token (set via --telegram-bot-token or AEROEXPRESS_BOT_TELEGRAM_BOT_TOKEN)")
	}
	if d.Sessions == nil {
		return fmt.Errorf("Sessions dependency missing")
	}
	logger, err := loggerFromDeps(d)
	if err != nil {
		return err
	}
	pollCtx := ctx
	if pollCtx == nil {
		pollCtx = context.Background()
	}

	api := botapi.NewClient(d.HTTPClient, opts.BaseURL, opts.BotToken)
	engine, err := conversation.NewEngine(conversation.EngineOptions{
		Sessions: d.Sessions,
		Sink:     botapi.NewSink(api),
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	rt := &telegramRuntime{api: api, engine: engine, sessions: d.Sessions, logs: d.Logs, logger: logger, opts: opts}

	var me *botapi.User
	for {
		me, err = api.GetMe(pollCtx)
		if err == nil {
			break
		}
		if errors.Is(err, context.Canceled) || pollCtx.Err() != nil {
			logger.Info("telegram_stop", "reason", "context_canceled")
			return nil
		}
		logger.Warn("telegram_get_me_error", "error", err.Error())
		select {
		case <-pollCtx.Done():
			logger.Info("telegram_stop", "reason", "context_canceled")
			return nil
		case <-time.After(2 * time.Second):
		}
	}

	workersCtx, stopWorkers := context.WithCancel(pollCtx)
	mailboxes := worker.NewMailboxes[int64, telegramJob](workersCtx, worker.MailboxOptions[telegramJob]{
		Sem:         make(chan struct{}, opts.MaxConcurrency),
		IdleTimeout: opts.WorkerIdleTimeout,
		Handle:      rt.handleJob,
	})
	defer func() {
		stopWorkers()
		mailboxes.Wait()
	}()

	logger.Info("telegram_start",
		"bot_username", me.Username,
		"bot_id", me.ID,
		"poll_timeout", opts.PollTimeout.String(),
		"max_concurrency", opts.MaxConcurrency,
	)

	var offset int64
	for {
		updates, nextOffset, err := api.GetUpdates(pollCtx, offset, opts.PollTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || pollCtx.Err() != nil {
				logger.Info("telegram_stop", "reason", "context_canceled")
				return nil
			}
			if botapi.IsPollTimeoutError(err) {
				logger.Debug("telegram_get_updates_timeout", "error", err.Error())
			} else {
				logger.Warn("telegram_poll_error", "error", err.Error())
			}
			select {
			case <-pollCtx.Done():
				logger.Info("telegram_stop", "reason", "context_canceled")
				return nil
			case <-time.After(time.Second):
			}
			continue
		}
		offset = nextOffset

		for _, u := range updates {
			job, ok := jobFromUpdate(u)
			if !ok {
				logger.Debug("telegram_update_ignored", "update_id", u.UpdateID)
				continue
			}
			if err := mailboxes.Enqueue(pollCtx, job.UserID, job); err != nil {
				if pollCtx.Err() != nil {
					logger.Info("telegram_stop", "reason", "context_canceled")
					return nil
				}
				callErrorHook(pollCtx, logger, opts.Hooks, ErrorEvent{Stage: ErrorStageEnqueue, UserID: job.UserID, Err: err})
				continue
			}
			logger.Debug("telegram_update_enqueued", "update_id", u.UpdateID, "user_id", job.UserID, "kind", job.kind())
		}
	}
}

// jobFromUpdate keys an update by the chat it came from. Updates without a
// chat, and messages from bots, are dropped.
func jobFromUpdate(u botapi.Update) (telegramJob, bool) {
	if cq := u.CallbackQuery; cq != nil {
		var userID int64
		switch {
		case cq.Message != nil && cq.Message.Chat != nil:
			userID = cq.Message.Chat.ID
		case cq.From != nil:
			userID = cq.From.ID
		}
		if userID == 0 {
			return telegramJob{}, false
		}
		return telegramJob{UserID: userID, UpdateID: u.UpdateID, Callback: cq}, true
	}
	msg := u.Message
	if msg == nil || msg.Chat == nil {
		return telegramJob{}, false
	}
	if msg.From != nil && msg.From.IsBot {
		return telegramJob{}, false
	}
	if msg.Document == nil && msg.Text == "" {
		return telegramJob{}, false
	}
	return telegramJob{UserID: msg.Chat.ID, UpdateID: u.UpdateID, Message: msg}, true
}

func (rt *telegramRuntime) handleJob(ctx context.Context, job telegramJob) {
	ctx, cancel := context.WithTimeout(ctx, rt.opts.EventTimeout)
	defer cancel()

	hooks := rt.opts.Hooks
	inbound := InboundEvent{UserID: job.UserID, UpdateID: job.UpdateID, Kind: job.kind()}
	callInboundHook(ctx, rt.logger, hooks, inbound)
	defer callHandledHook(ctx, rt.logger, hooks, inbound)

	ev, ok := rt.eventFromJob(ctx, job)
	if !ok {
		return
	}
	if err := rt.engine.Handle(ctx, job.UserID, ev); err != nil {
		callErrorHook(ctx, rt.logger, hooks, ErrorEvent{Stage: ErrorStageHandleEvent, UserID: job.UserID, Err: err})
		return
	}
	if rt.logger.Enabled(ctx, slog.LevelDebug) {
		s := rt.sessions.Peek(job.UserID)
		rt.logger.Debug("telegram_event_handled",
			"user_id", job.UserID,
			"kind", job.kind(),
			"state", s.State.String(),
			"records", len(s.Records),
		)
	}
}

// eventFromJob turns a job into a conversation event. It returns false when
// the job was fully handled here.
func (rt *telegramRuntime) eventFromJob(ctx context.Context, job telegramJob) (conversation.Event, bool) {
	if cq := job.Callback; cq != nil {
		action, ok := menu.ParseAction(cq.Data)
		if !ok {
			rt.logger.Info("telegram_unknown_callback", "user_id", job.UserID, "data", cq.Data)
			if err := rt.api.AnswerCallbackQuery(ctx, cq.ID, "", false); err != nil {
				callErrorHook(ctx, rt.logger, rt.opts.Hooks, ErrorEvent{Stage: ErrorStageAckCallback, UserID: job.UserID, Err: err})
			}
			return nil, false
		}
		return conversation.ActionEvent{Action: action, CallbackID: cq.ID}, true
	}

	msg := job.Message
	if msg.Document != nil {
		return rt.downloadDocument(ctx, job.UserID, msg.Document)
	}

	cmd, _ := splitCommand(msg.Text)
	switch normalizeSlashCommand(cmd) {
	case "/logs":
		rt.sendLogs(ctx, job.UserID)
		return nil, false
	case "/clear":
		rt.clearLogs(ctx, job.UserID)
		return nil, false
	}
	return conversation.TextEvent{Text: msg.Text}, true
}

func (rt *telegramRuntime) downloadDocument(ctx context.Context, userID int64, doc *botapi.Document) (conversation.Event, bool) {
	hooks := rt.opts.Hooks
	noticeID, err := rt.api.SendMessage(ctx, userID, msgLoadingFile, nil)
	if err != nil {
		callErrorHook(ctx, rt.logger, hooks, ErrorEvent{Stage: ErrorStageNoticeMessage, UserID: userID, Err: err})
	}
	defer func() {
		if noticeID == 0 {
			return
		}
		if err := rt.api.DeleteMessage(ctx, userID, noticeID); err != nil {
			callErrorHook(ctx, rt.logger, hooks, ErrorEvent{Stage: ErrorStageNoticeMessage, UserID: userID, Err: err})
		}
	}()

	if doc.FileSize > rt.opts.MaxFileBytes {
		rt.reply(ctx, userID, msgFileTooLarge)
		return nil, false
	}
	data, err := rt.fetchFile(ctx, doc.FileID)
	if err != nil {
		callErrorHook(ctx, rt.logger, hooks, ErrorEvent{Stage: ErrorStageDownload, UserID: userID, Err: err})
		if errors.Is(err, botapi.ErrFileTooLarge) {
			rt.reply(ctx, userID, msgFileTooLarge)
		} else {
			rt.reply(ctx, userID, msgDownloadFailed)
		}
		return nil, false
	}
	rt.logger.Info("telegram_file_downloaded",
		"user_id", userID,
		"file_name", doc.FileName,
		"mime_type", doc.MimeType,
		"bytes", len(data),
	)
	return conversation.DocumentEvent{Data: data, ContentType: doc.MimeType, FileName: doc.FileName}, true
}

func (rt *telegramRuntime) fetchFile(ctx context.Context, fileID string) ([]byte, error) {
	f, err := rt.api.GetFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if f.FileSize > rt.opts.MaxFileBytes {
		return nil, fmt.Errorf("%w (%d bytes)", botapi.ErrFileTooLarge, f.FileSize)
	}
	return rt.api.Download(ctx, f.FilePath, rt.opts.MaxFileBytes)
}

func (rt *telegramRuntime) sendLogs(ctx context.Context, userID int64) {
	if rt.logs == nil {
		rt.reply(ctx, userID, msgLogsEmpty)
		return
	}
	data, err := rt.logs.Snapshot()
	if err != nil {
		callErrorHook(ctx, rt.logger, rt.opts.Hooks, ErrorEvent{Stage: ErrorStageCommand, UserID: userID, Err: err})
		return
	}
	if len(data) == 0 {
		rt.reply(ctx, userID, msgLogsEmpty)
		return
	}
	if err := rt.api.SendDocument(ctx, userID, logsFilename, bytes.NewReader(data), ""); err != nil {
		callErrorHook(ctx, rt.logger, rt.opts.Hooks, ErrorEvent{Stage: ErrorStageCommand, UserID: userID, Err: err})
		return
	}
	rt.logger.Info("telegram_logs_sent", "user_id", userID, "bytes", len(data))
}

func (rt *telegramRuntime) clearLogs(ctx context.Context, userID int64) {
	if rt.logs != nil {
		if err := rt.logs.Clear(); err != nil {
			callErrorHook(ctx, rt.logger, rt.opts.Hooks, ErrorEvent{Stage: ErrorStageCommand, UserID: userID, Err: err})
			return
		}
	}
	rt.logger.Info("telegram_logs_cleared", "user_id", userID)
	rt.reply(ctx, userID, msgLogsCleared)
}

func (rt *telegramRuntime) reply(ctx context.Context, userID int64, text string) {
	if _, err := rt.api.SendMessage(ctx, userID, text, nil); err != nil {
		callErrorHook(ctx, rt.logger, rt.opts.Hooks, ErrorEvent{Stage: ErrorStageCommand, UserID: userID, Err: err})
	}
}

func splitCommand(text string) (cmd string, rest string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ""
	}
	i := strings.IndexAny(text, " \n\t")
	if i == -1 {
		return text, ""
	}
	return text[:i], strings.TrimSpace(text[i:])
}

func normalizeSlashCommand(cmd string) string {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" || !strings.HasPrefix(cmd, "/") {
		return ""
	}
	// Allow "/cmd@BotName" variants by stripping "@...".
	if at := strings.IndexByte(cmd, '@'); at >= 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd)
}
