package app

type ImportStudentsRequest struct {
	ConfigPath string
	FilePath   string
	Subject    string // target subject for spreadsheet rosters; optional for YAML
}

type ImportStudentsResult struct {
	Imported  int
	Updated   int
	RowErrors []string
}

type ImportCalendarRequest struct {
	ConfigPath string
	FilePath   string
	Semester   string
}

type ImportCalendarResult struct {
	Semester string
	Days     int
}

type ImportErrorCode string

const (
	ImportErrConfigLoad     ImportErrorCode = "CONFIG_LOAD"
	ImportErrParse          ImportErrorCode = "PARSE"
	ImportErrUnknownSubject ImportErrorCode = "UNKNOWN_SUBJECT"
	ImportErrWrite          ImportErrorCode = "WRITE"
)

type ImportError struct {
	Code    ImportErrorCode
	Message string
}

func (e *ImportError) Error() string {
	return string(e.Code) + ": " + e.Message
}
