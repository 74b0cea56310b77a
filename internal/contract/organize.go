package contract

import "github.com/olabarga/labplan/internal/app"

type OrganizeRequest = app.OrganizeRequest

func NewOrganizeRequest(configPath string) OrganizeRequest {
	return app.NewOrganizeRequest(configPath)
}

type OrganizeResult = app.OrganizeResult

type OrganizeErrorCode = app.OrganizeErrorCode

const (
	OrganizeErrConfigLoad   OrganizeErrorCode = app.OrganizeErrConfigLoad
	OrganizeErrNoSubjects   OrganizeErrorCode = app.OrganizeErrNoSubjects
	OrganizeErrResultsExist OrganizeErrorCode = app.OrganizeErrResultsExist
	OrganizeErrPersistence  OrganizeErrorCode = app.OrganizeErrPersistence
	OrganizeErrWriteOutput  OrganizeErrorCode = app.OrganizeErrWriteOutput
	OrganizeErrInternal     OrganizeErrorCode = app.OrganizeErrInternal
)

type OrganizeError = app.OrganizeError
