package conversation

const (
	msgHello            = "Hello!"
	msgSendSchedule     = "Send a CSV or JSON file with the train schedule."
	msgFileOpened       = "File opened! Choose what to do with it:"
	msgChooseAction     = "Choose what to do with the file:"
	msgChooseFilter     = "Choose the parameter to filter by:"
	msgChooseSort       = "Choose the parameter to sort by:"
	msgChooseFormat     = "Choose the file format:"
	msgMenuExpired      = "The menu is out of date, send a new file."
	msgAnotherFile      = "💡 To process another file, just send it to the chat."
	msgFileEmpty        = "The file is empty."
	msgSorted           = "The data is sorted."
	msgFiltered         = "The data is filtered."
	msgEnterOrigin      = "Enter the departure station:"
	msgEnterDestination = "Enter the arrival station:"
	msgEnterRoute       = "Enter the departure and arrival stations separated by a hyphen:"
	msgEnterValidValue  = "Enter a valid value."
	msgUnsupported      = "This format is not supported."
	msgSendCSVOrJSON    = "Send a file with a .csv or .json extension."
	msgCannotRead       = "Could not read the file."
	msgSendValidFile    = "Send a valid CSV or JSON file."
)
