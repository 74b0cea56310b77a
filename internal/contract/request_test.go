package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- OrganizeRequest constructor defaults ---

func TestNewOrganizeRequest_SetsDefaults(t *testing.T) {
	req := NewOrganizeRequest("lab/configuracion_labs.json")

	assert.Equal(t, "lab/configuracion_labs.json", req.ConfigPath)
	assert.Equal(t, 1, req.Workers)
	assert.False(t, req.DryRun)
	assert.False(t, req.Force)
	assert.Empty(t, req.OutputPath)
	assert.Empty(t, req.CSVPath)
	assert.Nil(t, req.Semesters)
}

func TestNewOrganizeRequest_EmptyPath_Preserved(t *testing.T) {
	// Empty is preserved in the DTO; validation happens in the service layer.
	req := NewOrganizeRequest("")
	assert.Empty(t, req.ConfigPath)
}

// --- ValidateRequest constructor defaults ---

func TestNewValidateRequest_SetsDefaults(t *testing.T) {
	req := NewValidateRequest("configuracion_labs.json")

	assert.Equal(t, "configuracion_labs.json", req.ConfigPath)
	assert.Equal(t, 1, req.Workers)
	assert.Nil(t, req.Semesters)
}

// --- Error types ---

func TestOrganizeError_ErrorString(t *testing.T) {
	err := &OrganizeError{
		Code:    OrganizeErrConfigLoad,
		Message: "open configuracion_labs.json: no such file",
	}
	assert.Equal(t, "CONFIG_LOAD: open configuracion_labs.json: no such file", err.Error())
}

func TestImportError_ErrorString(t *testing.T) {
	err := &ImportError{
		Code:    ImportErrUnknownSubject,
		Message: "subject Redes not present in configuration",
	}
	assert.Equal(t, "UNKNOWN_SUBJECT: subject Redes not present in configuration", err.Error())
}

// --- Error codes are distinct ---

func TestOrganizeErrorCodes_AreDistinct(t *testing.T) {
	codes := []OrganizeErrorCode{
		OrganizeErrConfigLoad,
		OrganizeErrNoSubjects,
		OrganizeErrResultsExist,
		OrganizeErrPersistence,
		OrganizeErrWriteOutput,
		OrganizeErrInternal,
	}
	seen := make(map[OrganizeErrorCode]bool)
	for _, c := range codes {
		assert.False(t, seen[c], "duplicate error code: %s", c)
		seen[c] = true
	}
}

func TestImportErrorCodes_AreDistinct(t *testing.T) {
	codes := []ImportErrorCode{
		ImportErrConfigLoad,
		ImportErrParse,
		ImportErrUnknownSubject,
		ImportErrWrite,
	}
	seen := make(map[ImportErrorCode]bool)
	for _, c := range codes {
		assert.False(t, seen[c], "duplicate error code: %s", c)
		seen[c] = true
	}
}
