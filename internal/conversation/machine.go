package conversation

import (
	"fmt"

	"github.com/tttuuu13/aeroexpress-bot/internal/codec"
	"github.com/tttuuu13/aeroexpress-bot/internal/menu"
	"github.com/tttuuu13/aeroexpress-bot/internal/query"
	"github.com/tttuuu13/aeroexpress-bot/internal/schedule"
	"github.com/tttuuu13/aeroexpress-bot/internal/session"
)

// Result is the outcome of one transition.
type Result struct {
	Session session.Session
	Replies []Reply
	// Err is a recoverable user error that was already answered with a
	// fixed message. It is for logging only.
	Err error
}

type actionHandler func(s session.Session, ev ActionEvent) Result

type textHandler func(s session.Session, text string) Result

// Indexed by menu.Action and session.State. TestTransitionTablesAreComplete
// fails when a new action or state is added without a handler.
var (
	actionTable = [menu.ActionCount]actionHandler{
		menu.ActionChooseAnotherFile:   onChooseAnotherFile,
		menu.ActionBackToMain:          onBackToMain,
		menu.ActionSelectFilter:        showSubmenu(msgChooseFilter, menu.KeyboardFilter),
		menu.ActionSelectSort:          showSubmenu(msgChooseSort, menu.KeyboardSort),
		menu.ActionSelectExport:        onSelectExport,
		menu.ActionExportCSV:           onExport(codec.FormatCSV),
		menu.ActionExportJSON:          onExport(codec.FormatJSON),
		menu.ActionSortByDeparture:     onSort(query.SortByDeparture),
		menu.ActionSortByArrival:       onSort(query.SortByArrival),
		menu.ActionFilterByOrigin:      askStation(session.StateWaitingForStationStart, msgEnterOrigin),
		menu.ActionFilterByDestination: askStation(session.StateWaitingForStationEnd, msgEnterDestination),
		menu.ActionFilterByRoute:       askStation(session.StateWaitingForStationStartAndEnd, msgEnterRoute),
	}

	textTable = [session.StateCount]textHandler{
		session.StateWaitingForFile:               promptForFile,
		session.StateMainMenu:                     promptForFile,
		session.StateWaitingForStationStart:       filterByStation(schedule.FieldOrigin),
		session.StateWaitingForStationEnd:         filterByStation(schedule.FieldDestination),
		session.StateWaitingForStationStartAndEnd: filterByRoute,
	}
)

// Transition computes the next session and the replies for ev. It performs
// no I/O; the menu reference of a reply marked Menu is filled in by the
// caller once the message is sent.
func Transition(s session.Session, ev Event) Result {
	switch ev := ev.(type) {
	case DocumentEvent:
		return onDocument(s, ev)
	case ActionEvent:
		return onAction(s, ev)
	case TextEvent:
		return onText(s, ev)
	default:
		return Result{Session: s, Err: fmt.Errorf("conversation: unsupported event %T", ev)}
	}
}

func onDocument(s session.Session, ev DocumentEvent) Result {
	c, err := codec.ForContentType(ev.ContentType)
	if err != nil {
		return Result{
			Session: s,
			Replies: []Reply{SendMessage(msgUnsupported), SendMessage(msgSendCSVOrJSON)},
			Err:     err,
		}
	}
	records, err := c.Decode(ev.Data)
	if err != nil {
		return Result{
			Session: s,
			Replies: []Reply{SendMessage(msgCannotRead), SendMessage(msgSendValidFile)},
			Err:     err,
		}
	}

	var replies []Reply
	if s.MenuRef.Present() {
		replies = append(replies, DeleteMessage(s.MenuRef))
	}
	replies = append(replies, SendMenu(msgFileOpened, menu.KeyboardMain))

	s.Records = records
	s.Loaded = true
	s.MenuRef = 0
	s.State = session.StateMainMenu
	return Result{Session: s, Replies: replies}
}

func onAction(s session.Session, ev ActionEvent) Result {
	var res Result
	switch {
	case !s.MenuRef.Present() || !s.Loaded:
		res = Result{Session: s, Replies: []Reply{SendMessage(msgMenuExpired)}}
	case !ev.Action.Valid() || actionTable[ev.Action] == nil:
		res = Result{Session: s, Err: fmt.Errorf("conversation: unknown action %d", int(ev.Action))}
	default:
		res = actionTable[ev.Action](s, ev)
	}
	if ev.CallbackID != "" && !answersCallback(res.Replies) {
		res.Replies = append([]Reply{AnswerCallback(ev.CallbackID, "", false)}, res.Replies...)
	}
	return res
}

func answersCallback(replies []Reply) bool {
	for _, r := range replies {
		if r.Kind == ReplyAnswerCallback {
			return true
		}
	}
	return false
}

func onText(s session.Session, ev TextEvent) Result {
	var greeting []Reply
	if !s.Known() {
		greeting = []Reply{SendMessage(msgHello)}
		s.State = session.StateWaitingForFile
	}
	handler := promptForFile
	if s.State.Valid() && textTable[s.State] != nil {
		handler = textTable[s.State]
	}
	res := handler(s, ev.Text)
	res.Replies = append(greeting, res.Replies...)
	return res
}

func onChooseAnotherFile(s session.Session, ev ActionEvent) Result {
	if ev.CallbackID == "" {
		return Result{Session: s, Replies: []Reply{SendMessage(msgAnotherFile)}}
	}
	return Result{Session: s, Replies: []Reply{AnswerCallback(ev.CallbackID, msgAnotherFile, true)}}
}

func onBackToMain(s session.Session, _ ActionEvent) Result {
	s.State = session.StateMainMenu
	return Result{Session: s, Replies: []Reply{EditMessage(s.MenuRef, msgChooseAction, menu.KeyboardMain)}}
}

func showSubmenu(text string, kb menu.Keyboard) actionHandler {
	return func(s session.Session, _ ActionEvent) Result {
		return Result{Session: s, Replies: []Reply{EditMessage(s.MenuRef, text, kb)}}
	}
}

func onSelectExport(s session.Session, ev ActionEvent) Result {
	if len(s.Records) == 0 {
		return fileIsEmpty(s)
	}
	return showSubmenu(msgChooseFormat, menu.KeyboardFormatChoice)(s, ev)
}

func onExport(format codec.Format) actionHandler {
	return func(s session.Session, _ ActionEvent) Result {
		if len(s.Records) == 0 {
			return fileIsEmpty(s)
		}
		c, err := codec.ForFormat(format)
		if err != nil {
			return Result{Session: s, Err: err}
		}
		data := c.Encode(s.Records)
		replies := []Reply{
			DeleteMessage(s.MenuRef),
			SendDocument(data, format.Filename()),
			SendMenu(msgChooseAction, menu.KeyboardMain),
		}
		s.MenuRef = 0
		s.State = session.StateMainMenu
		return Result{Session: s, Replies: replies}
	}
}

func fileIsEmpty(s session.Session) Result {
	replies := []Reply{
		DeleteMessage(s.MenuRef),
		SendMessage(msgFileEmpty),
		SendMenu(msgChooseAction, menu.KeyboardMain),
	}
	s.MenuRef = 0
	s.State = session.StateMainMenu
	return Result{Session: s, Replies: replies}
}

func onSort(key query.SortKey) actionHandler {
	return func(s session.Session, _ ActionEvent) Result {
		replies := []Reply{
			EditMessage(s.MenuRef, msgSorted, menu.KeyboardNone),
			SendMenu(msgChooseAction, menu.KeyboardMain),
		}
		s.Records = query.Sort(s.Records, key)
		s.MenuRef = 0
		s.State = session.StateMainMenu
		return Result{Session: s, Replies: replies}
	}
}

func askStation(next session.State, prompt string) actionHandler {
	return func(s session.Session, _ ActionEvent) Result {
		s.State = next
		return Result{Session: s, Replies: []Reply{SendMessage(prompt)}}
	}
}

func promptForFile(s session.Session, _ string) Result {
	return Result{Session: s, Replies: []Reply{SendMessage(msgSendSchedule)}}
}

func filterByStation(field schedule.Field) textHandler {
	return func(s session.Session, text string) Result {
		if !s.Loaded {
			return noRecordSet(s)
		}
		return filtered(s, query.Filter(s.Records, field, text))
	}
}

func filterByRoute(s session.Session, text string) Result {
	if !s.Loaded {
		return noRecordSet(s)
	}
	origin, destination, err := query.ParseRoute(text)
	if err != nil {
		return Result{Session: s, Replies: []Reply{SendMessage(msgEnterValidValue)}, Err: err}
	}
	return filtered(s, query.FilterRoute(s.Records, origin, destination))
}

func filtered(s session.Session, records []schedule.TrainRecord) Result {
	var replies []Reply
	if s.MenuRef.Present() {
		replies = append(replies, DeleteMessage(s.MenuRef))
	}
	replies = append(replies, SendMessage(msgFiltered), SendMenu(msgChooseAction, menu.KeyboardMain))
	s.Records = records
	s.MenuRef = 0
	s.State = session.StateMainMenu
	return Result{Session: s, Replies: replies}
}

// noRecordSet resets a session that is waiting for a station without a
// loaded file. The guards above keep query functions from seeing it.
func noRecordSet(s session.Session) Result {
	s.State = session.StateWaitingForFile
	return Result{Session: s, Replies: []Reply{SendMessage(msgSendSchedule)}, Err: query.ErrNoRecordSet}
}
