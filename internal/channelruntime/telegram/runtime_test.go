package telegram

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tttuuu13/aeroexpress-bot/internal/session"
	botapi "github.com/tttuuu13/aeroexpress-bot/internal/telegram"
)

const testCSV = "origin,destination,departure,arrival\nC,D,10:00,11:00\nA,B,08:00,09:00\n"

type apiCall struct {
	method    string
	chatID    int64
	messageID int64
	text      string
	filename  string
	body      string
	markup    *botapi.InlineKeyboardMarkup
}

type fakeTelegram struct {
	t       *testing.T
	mu      sync.Mutex
	updates []botapi.Update
	files   map[string]string
	nextID  int64
	calls   []apiCall
}

func newFakeTelegram(t *testing.T, updates []botapi.Update, files map[string]string) (*fakeTelegram, *httptest.Server) {
	t.Helper()
	f := &fakeTelegram{t: t, updates: updates, files: files}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeTelegram) serve(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/file/botTOKEN/") {
		content, ok := f.files[strings.TrimPrefix(r.URL.Path, "/file/botTOKEN/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, content)
		return
	}
	method := strings.TrimPrefix(r.URL.Path, "/botTOKEN/")

	switch method {
	case "getMe":
		writeResult(w, `{"id":1,"is_bot":true,"username":"schedule_bot"}`)
	case "getUpdates":
		offset, _ := strconv.ParseInt(r.URL.Query().Get("offset"), 10, 64)
		var out []botapi.Update
		f.mu.Lock()
		for _, u := range f.updates {
			if u.UpdateID >= offset {
				out = append(out, u)
			}
		}
		f.mu.Unlock()
		if len(out) == 0 {
			time.Sleep(10 * time.Millisecond)
		}
		raw, _ := json.Marshal(out)
		if out == nil {
			raw = []byte("[]")
		}
		writeResult(w, string(raw))
	case "getFile":
		id := r.URL.Query().Get("file_id")
		writeResult(w, `{"file_id":"`+id+`","file_path":"documents/`+id+`"}`)
	case "sendDocument":
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			f.t.Errorf("ParseMultipartForm() error = %v", err)
			return
		}
		file, hdr, err := r.FormFile("document")
		if err != nil {
			f.t.Errorf("FormFile() error = %v", err)
			return
		}
		raw, _ := io.ReadAll(file)
		_ = file.Close()
		chatID, _ := strconv.ParseInt(r.FormValue("chat_id"), 10, 64)
		f.record(apiCall{method: method, chatID: chatID, filename: hdr.Filename, body: string(raw)})
		writeResult(w, `{"message_id":999}`)
	default:
		var req struct {
			ChatID    int64                        `json:"chat_id"`
			MessageID int64                        `json:"message_id"`
			Text      string                       `json:"text"`
			Markup    *botapi.InlineKeyboardMarkup `json:"reply_markup"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		call := apiCall{method: method, chatID: req.ChatID, messageID: req.MessageID, text: req.Text, markup: req.Markup}
		if method == "sendMessage" {
			f.mu.Lock()
			f.nextID++
			call.messageID = f.nextID
			f.mu.Unlock()
			f.record(call)
			writeResult(w, `{"message_id":`+strconv.FormatInt(call.messageID, 10)+`}`)
			return
		}
		f.record(call)
		writeResult(w, `true`)
	}
}

func (f *fakeTelegram) record(c apiCall) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
}

func (f *fakeTelegram) snapshot() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.calls...)
}

func writeResult(w http.ResponseWriter, result string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"ok":true,"result":`+result+`}`)
}

type fakeLogs struct {
	mu      sync.Mutex
	data    string
	cleared bool
}

func (l *fakeLogs) Snapshot() ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return []byte(l.data), nil
}

func (l *fakeLogs) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.data = ""
	l.cleared = true
	return nil
}

func chatMessage(chatID int64, text string) *botapi.Message {
	return &botapi.Message{MessageID: 500, Chat: &botapi.Chat{ID: chatID, Type: "private"}, From: &botapi.User{ID: chatID}, Text: text}
}

func callback(chatID int64, id, data string) *botapi.CallbackQuery {
	return &botapi.CallbackQuery{ID: id, Data: data, Message: &botapi.Message{MessageID: 2, Chat: &botapi.Chat{ID: chatID}}}
}

// runUntilHandled runs the loop until n updates were handled, then stops it.
func runUntilHandled(t *testing.T, srv *httptest.Server, deps Dependencies, n int, maxFileBytes int64) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handled := make(chan InboundEvent, n)
	deps.Logger = func() (*slog.Logger, error) {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nil
	}
	deps.HTTPClient = srv.Client()
	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(ctx, deps, RunOptions{
			BotToken:     "TOKEN",
			BaseURL:      srv.URL,
			PollTimeout:  time.Second,
			MaxFileBytes: maxFileBytes,
			Hooks: Hooks{
				OnHandled: func(_ context.Context, ev InboundEvent) { handled <- ev },
			},
		})
	}()

	for i := 0; i < n; i++ {
		select {
		case <-handled:
		case <-time.After(5 * time.Second):
			t.Fatalf("handled %d of %d updates", i, n)
		}
	}
	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run() did not stop after cancel")
	}
}

func TestRunUploadSortAndLogCommands(t *testing.T) {
	t.Parallel()

	const chat int64 = 5
	api, srv := newFakeTelegram(t, []botapi.Update{
		{UpdateID: 1, Message: &botapi.Message{
			MessageID: 10,
			Chat:      &botapi.Chat{ID: chat, Type: "private"},
			Document:  &botapi.Document{FileID: "sched", FileName: "trains.csv", MimeType: "text/csv", FileSize: int64(len(testCSV))},
		}},
		{UpdateID: 2, CallbackQuery: callback(chat, "cb-1", "sort")},
		{UpdateID: 3, CallbackQuery: callback(chat, "cb-2", "timeStart")},
		{UpdateID: 4, Message: chatMessage(chat, "/logs")},
		{UpdateID: 5, Message: chatMessage(chat, "/clear@schedule_bot")},
	}, map[string]string{"documents/sched": testCSV})

	sessions := session.NewManager(session.NewMemoryStore())
	logs := &fakeLogs{data: "msg=conversation_event\n"}
	runUntilHandled(t, srv, Dependencies{Sessions: sessions, Logs: logs}, 5, 0)

	s := sessions.Peek(chat)
	if !s.Loaded || len(s.Records) != 2 || s.Records[0].Origin != "A" {
		t.Fatalf("session = %#v, want sorted record set", s)
	}

	calls := api.snapshot()
	var (
		noticeID    int64
		noticeGone  bool
		menuID      int64
		sawSortMenu bool
		logsDoc     string
		clearedText bool
	)
	for _, c := range calls {
		switch {
		case c.method == "sendMessage" && c.text == msgLoadingFile:
			noticeID = c.messageID
		case c.method == "deleteMessage" && c.messageID == noticeID && noticeID != 0:
			noticeGone = true
		case c.method == "sendMessage" && strings.HasPrefix(c.text, "File opened!"):
			if !noticeGone {
				t.Fatalf("menu sent before the loading notice was removed")
			}
			if c.markup == nil || len(c.markup.InlineKeyboard) == 0 {
				t.Fatalf("file menu sent without keyboard")
			}
			menuID = c.messageID
		case c.method == "editMessageText" && c.messageID == menuID && c.text == "Choose the parameter to sort by:":
			sawSortMenu = true
		case c.method == "sendDocument":
			logsDoc = c.filename + ":" + c.body
		case c.method == "sendMessage" && c.text == msgLogsCleared:
			clearedText = true
		}
	}
	if !noticeGone || menuID == 0 || !sawSortMenu {
		t.Fatalf("calls = %#v", calls)
	}
	if logsDoc != "logs.txt:msg=conversation_event\n" {
		t.Fatalf("logs document = %q", logsDoc)
	}
	if !clearedText || !logs.cleared {
		t.Fatalf("clear command not handled: cleared=%v text=%v", logs.cleared, clearedText)
	}
}

func TestRunRejectsOversizedFile(t *testing.T) {
	t.Parallel()

	const chat int64 = 8
	api, srv := newFakeTelegram(t, []botapi.Update{
		{UpdateID: 1, Message: &botapi.Message{
			MessageID: 10,
			Chat:      &botapi.Chat{ID: chat},
			Document:  &botapi.Document{FileID: "big", MimeType: "text/csv"},
		}},
	}, map[string]string{"documents/big": testCSV})

	sessions := session.NewManager(nil)
	runUntilHandled(t, srv, Dependencies{Sessions: sessions}, 1, 16)

	if s := sessions.Peek(chat); s.Known() || s.Loaded {
		t.Fatalf("session = %#v, want untouched", s)
	}
	var tooLarge bool
	for _, c := range api.snapshot() {
		if c.method == "sendMessage" && c.text == msgFileTooLarge {
			tooLarge = true
		}
	}
	if !tooLarge {
		t.Fatalf("no %q reply", msgFileTooLarge)
	}
}

func TestRunAcknowledgesUnknownCallback(t *testing.T) {
	t.Parallel()

	api, srv := newFakeTelegram(t, []botapi.Update{
		{UpdateID: 7, CallbackQuery: callback(3, "cb-x", "launchRockets")},
	}, nil)

	sessions := session.NewManager(nil)
	runUntilHandled(t, srv, Dependencies{Sessions: sessions}, 1, 0)

	calls := api.snapshot()
	if len(calls) != 1 || calls[0].method != "answerCallbackQuery" {
		t.Fatalf("calls = %#v, want a single callback answer", calls)
	}
	if s := sessions.Peek(3); s.Known() {
		t.Fatalf("session touched by unknown callback: %#v", s)
	}
}

func TestRunRequiresToken(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), Dependencies{Sessions: session.NewManager(nil)}, RunOptions{})
	if err == nil || !strings.Contains(err.Error(), "telegram.bot_token") {
		t.Fatalf("Run() error = %v, want missing token", err)
	}
}

func TestJobFromUpdate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		update botapi.Update
		user   int64
		ok     bool
	}{
		{name: "text", update: botapi.Update{Message: chatMessage(4, "A-B")}, user: 4, ok: true},
		{name: "callback", update: botapi.Update{CallbackQuery: callback(6, "id", "csv")}, user: 6, ok: true},
		{name: "callback_without_message", update: botapi.Update{CallbackQuery: &botapi.CallbackQuery{ID: "id", From: &botapi.User{ID: 9}}}, user: 9, ok: true},
		{name: "bot_message", update: botapi.Update{Message: &botapi.Message{Chat: &botapi.Chat{ID: 1}, From: &botapi.User{ID: 1, IsBot: true}, Text: "x"}}},
		{name: "empty_message", update: botapi.Update{Message: &botapi.Message{Chat: &botapi.Chat{ID: 1}}}},
		{name: "no_payload", update: botapi.Update{UpdateID: 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			job, ok := jobFromUpdate(tc.update)
			if ok != tc.ok {
				t.Fatalf("jobFromUpdate() ok = %v, want %v", ok, tc.ok)
			}
			if ok && job.UserID != tc.user {
				t.Fatalf("jobFromUpdate() user = %d, want %d", job.UserID, tc.user)
			}
		})
	}
}

func TestNormalizeSlashCommand(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"/logs":           "/logs",
		"/Clear@some_bot": "/clear",
		"logs":            "",
		"":                "",
	}
	for in, want := range cases {
		cmd, _ := splitCommand(in)
		if got := normalizeSlashCommand(cmd); got != want {
			t.Fatalf("normalizeSlashCommand(%q) = %q, want %q", in, got, want)
		}
	}
}
