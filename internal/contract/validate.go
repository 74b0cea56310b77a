package contract

import "github.com/olabarga/labplan/internal/app"

type ValidateRequest = app.ValidateRequest

func NewValidateRequest(configPath string) ValidateRequest {
	return app.NewValidateRequest(configPath)
}

type ValidateResult = app.ValidateResult
