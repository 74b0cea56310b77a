package contract

import "github.com/olabarga/labplan/internal/app"

type ImportStudentsRequest = app.ImportStudentsRequest

type ImportStudentsResult = app.ImportStudentsResult

type ImportCalendarRequest = app.ImportCalendarRequest

type ImportCalendarResult = app.ImportCalendarResult

type ImportErrorCode = app.ImportErrorCode

const (
	ImportErrConfigLoad     ImportErrorCode = app.ImportErrConfigLoad
	ImportErrParse          ImportErrorCode = app.ImportErrParse
	ImportErrUnknownSubject ImportErrorCode = app.ImportErrUnknownSubject
	ImportErrWrite          ImportErrorCode = app.ImportErrWrite
)

type ImportError = app.ImportError
