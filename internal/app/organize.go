package app

import (
	"time"

	"github.com/olabarga/labplan/internal/domain"
)

type OrganizeRequest struct {
	ConfigPath string
	Workers    int
	DryRun     bool
	Force      bool   // overwrite results already present in the document
	OutputPath string // empty writes the updated document back to ConfigPath
	CSVPath    string
	Semesters  []string
}

func NewOrganizeRequest(configPath string) OrganizeRequest {
	return OrganizeRequest{
		ConfigPath: configPath,
		Workers:    1,
	}
}

type OrganizeResult struct {
	RunID         string
	Succeeded     bool
	States        map[domain.Phase]domain.PhaseState
	Diagnostics   domain.DiagnosticList
	Conflicts     []domain.Conflict
	Notices       []string
	GroupCount    int
	ConflictCount int
	Elapsed       time.Duration
	DocumentPath  string
	CSVPath       string
}

type OrganizeErrorCode string

const (
	OrganizeErrConfigLoad   OrganizeErrorCode = "CONFIG_LOAD"
	OrganizeErrNoSubjects   OrganizeErrorCode = "NO_SUBJECTS"
	OrganizeErrResultsExist OrganizeErrorCode = "RESULTS_EXIST"
	OrganizeErrPersistence  OrganizeErrorCode = "PERSISTENCE"
	OrganizeErrWriteOutput  OrganizeErrorCode = "WRITE_OUTPUT"
	OrganizeErrInternal     OrganizeErrorCode = "INTERNAL_ERROR"
)

type OrganizeError struct {
	Code    OrganizeErrorCode
	Message string
}

func (e *OrganizeError) Error() string {
	return string(e.Code) + ": " + e.Message
}
