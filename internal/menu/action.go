package menu

// Action is a button press. The set is closed; Code is the callback data sent
// to Telegram and must stay stable across releases because old menus are
// still on users' screens.
type Action int

const (
	ActionChooseAnotherFile Action = iota
	ActionBackToMain
	ActionSelectFilter
	ActionSelectSort
	ActionSelectExport
	ActionExportCSV
	ActionExportJSON
	ActionSortByDeparture
	ActionSortByArrival
	ActionFilterByOrigin
	ActionFilterByDestination
	ActionFilterByRoute

	actionCount
)

// ActionCount is the number of actions. Tables indexed by Action are sized
// with it.
const ActionCount = int(actionCount)

var codes = [actionCount]string{
	ActionChooseAnotherFile:   "chooseAnotherFile",
	ActionBackToMain:          "backToMainMenu",
	ActionSelectFilter:        "select",
	ActionSelectSort:          "sort",
	ActionSelectExport:        "save",
	ActionExportCSV:           "csv",
	ActionExportJSON:          "json",
	ActionSortByDeparture:     "timeStart",
	ActionSortByArrival:       "timeEnd",
	ActionFilterByOrigin:      "stationStart",
	ActionFilterByDestination: "stationEnd",
	ActionFilterByRoute:       "stationStartandEnd",
}

var byCode = func() map[string]Action {
	m := make(map[string]Action, actionCount)
	for a, code := range codes {
		m[code] = Action(a)
	}
	return m
}()

func (a Action) Code() string {
	if !a.Valid() {
		return ""
	}
	return codes[a]
}

func (a Action) String() string {
	if c := a.Code(); c != "" {
		return c
	}
	return "unknown"
}

func (a Action) Valid() bool {
	return a >= 0 && a < actionCount
}

// ParseAction maps callback data back to an Action.
func ParseAction(code string) (Action, bool) {
	a, ok := byCode[code]
	return a, ok
}
