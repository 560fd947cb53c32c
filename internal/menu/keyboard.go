package menu

// Keyboard names one of the fixed inline keyboards.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardMain
	KeyboardFilter
	KeyboardSort
	KeyboardFormatChoice
)

func (k Keyboard) String() string {
	switch k {
	case KeyboardNone:
		return "none"
	case KeyboardMain:
		return "main"
	case KeyboardFilter:
		return "filter"
	case KeyboardSort:
		return "sort"
	case KeyboardFormatChoice:
		return "format_choice"
	default:
		return "unknown"
	}
}

type Button struct {
	Label  string
	Action Action
}

// Rows returns the button rows of k, top to bottom. KeyboardNone has no rows.
// The returned slice is fresh and may be modified.
func (k Keyboard) Rows() [][]Button {
	var rows [][]Button
	switch k {
	case KeyboardMain:
		rows = [][]Button{
			{{Label: "🔍 Filter", Action: ActionSelectFilter}, {Label: "↕️ Sort", Action: ActionSelectSort}},
			{{Label: "💾 Save", Action: ActionSelectExport}},
			{{Label: "📂 Choose another file", Action: ActionChooseAnotherFile}},
		}
	case KeyboardFilter:
		rows = [][]Button{
			{{Label: "Departure station", Action: ActionFilterByOrigin}},
			{{Label: "Arrival station", Action: ActionFilterByDestination}},
			{{Label: "Departure and arrival stations", Action: ActionFilterByRoute}},
			{{Label: "⬅️ Back", Action: ActionBackToMain}},
		}
	case KeyboardSort:
		rows = [][]Button{
			{{Label: "Departure time", Action: ActionSortByDeparture}},
			{{Label: "Arrival time", Action: ActionSortByArrival}},
			{{Label: "⬅️ Back", Action: ActionBackToMain}},
		}
	case KeyboardFormatChoice:
		rows = [][]Button{
			{{Label: "CSV", Action: ActionExportCSV}, {Label: "JSON", Action: ActionExportJSON}},
			{{Label: "⬅️ Back", Action: ActionBackToMain}},
		}
	}
	return rows
}
