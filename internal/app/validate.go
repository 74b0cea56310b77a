package app

import "github.com/olabarga/labplan/internal/domain"

type ValidateRequest struct {
	ConfigPath string
	Workers    int
	Semesters  []string
}

func NewValidateRequest(configPath string) ValidateRequest {
	return ValidateRequest{
		ConfigPath: configPath,
		Workers:    1,
	}
}

type ValidateResult struct {
	OK          bool
	Diagnostics domain.DiagnosticList
	Criticals   int
	Warnings    int
}
