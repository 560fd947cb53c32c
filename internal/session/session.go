package session

import (
	"time"

	"github.com/tttuuu13/aeroexpress-bot/internal/schedule"
)

// State is the node of the conversation that decides how the next input is
// read.
type State int

const (
	StateWaitingForFile State = iota
	StateMainMenu
	StateWaitingForStationStart
	StateWaitingForStationEnd
	StateWaitingForStationStartAndEnd

	stateCount
)

// StateCount is the number of conversation states. Tables indexed by State
// are sized with it.
const StateCount = int(stateCount)

func (s State) String() string {
	switch s {
	case StateWaitingForFile:
		return "waiting_for_file"
	case StateMainMenu:
		return "main_menu"
	case StateWaitingForStationStart:
		return "waiting_for_station_start"
	case StateWaitingForStationEnd:
		return "waiting_for_station_end"
	case StateWaitingForStationStartAndEnd:
		return "waiting_for_station_start_and_end"
	default:
		return "unknown"
	}
}

func (s State) Valid() bool {
	return s >= 0 && s < stateCount
}

// MenuRef identifies the last menu message shown to the user. Zero means no
// menu is on screen.
type MenuRef int64

func (r MenuRef) Present() bool { return r != 0 }

// Session is the per-user conversation aggregate. It is a value: callers read
// a copy, compute a new one and write it back whole.
type Session struct {
	State State
	// Records is the current record set. It is only meaningful when Loaded is
	// true; an uploaded empty file gives Loaded with no records.
	Records []schedule.TrainRecord
	Loaded  bool
	MenuRef MenuRef

	CreatedAt time.Time
	UpdatedAt time.Time
}

// New returns the session a user starts with.
func New() Session {
	return Session{State: StateWaitingForFile}
}

// Known reports whether the session was ever stored.
func (s Session) Known() bool {
	return !s.CreatedAt.IsZero()
}
