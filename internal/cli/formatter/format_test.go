package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/olabarga/labplan/internal/contract"
	"github.com/olabarga/labplan/internal/domain"
)

// ansiPattern matches ANSI escape sequences for stripping, so
// assertions stay terminal-independent.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := stripANSI(RenderTable(
		[]string{"GROUP", "DAY"},
		[][]string{
			{"A401-01", "Lunes"},
			{"B1", "Viernes"},
		},
	))

	assert.Contains(t, out, "GROUP    DAY")
	assert.Contains(t, out, "A401-01  Lunes")
	assert.Contains(t, out, "B1       Viernes")
}

func TestFormatValidation_CleanConfiguration(t *testing.T) {
	out := stripANSI(FormatValidation(&contract.ValidateResult{OK: true}))

	assert.Contains(t, out, "VALIDATION")
	assert.Contains(t, out, "configuration OK")
}

func TestFormatValidation_ListsCriticalsBeforeWarnings(t *testing.T) {
	res := &contract.ValidateResult{
		OK: false,
		Diagnostics: domain.DiagnosticList{
			{Phase: domain.PhaseGrids, Severity: domain.SeverityWarning, Message: "group A402 has no assigned slots in the schedule grid"},
			{Phase: domain.PhaseSubjects, Severity: domain.SeverityCritical, Message: "group A401: semana_inicio 9 is outside [1, 4]"},
		},
		Criticals: 1,
		Warnings:  1,
	}

	out := stripANSI(FormatValidation(res))

	assert.Contains(t, out, "configuration rejected")
	assert.Contains(t, out, "1 critical, 1 warnings")
	critical := "✗ CRITICAL  [FASE_1.2] group A401: semana_inicio 9 is outside [1, 4]"
	warning := "! WARNING  [FASE_1.3] group A402 has no assigned slots in the schedule grid"
	assert.Contains(t, out, critical)
	assert.Contains(t, out, warning)
	assert.Less(t, strings.Index(out, critical), strings.Index(out, warning))
}

func TestFormatOrganizeResult_Success(t *testing.T) {
	res := &contract.OrganizeResult{
		RunID:     "0b7c9a1e-d1ce-4f2b-8a5f-1f2e3d4c5b6a",
		Succeeded: true,
		States: map[domain.Phase]domain.PhaseState{
			domain.PhaseValidation: domain.StateSucceeded,
			domain.PhaseResults:    domain.StateSucceeded,
		},
		GroupCount:   4,
		Elapsed:      120 * time.Millisecond,
		DocumentPath: "configuracion_labs.json",
	}

	out := stripANSI(FormatOrganizeResult(res))

	assert.Contains(t, out, "ORGANIZATION")
	assert.Contains(t, out, "4 groups organized")
	assert.Contains(t, out, "✓ FASE_1")
	assert.Contains(t, out, "· FASE_2", "unreported phases render pending")
	assert.Contains(t, out, "results written to configuracion_labs.json")
	assert.Contains(t, out, "run 0b7c9a1e-d1ce-4f2b-8a5f-1f2e3d4c5b6a")
}

func TestFormatOrganizeResult_FailureShowsDiagnostics(t *testing.T) {
	res := &contract.OrganizeResult{
		Succeeded: false,
		States: map[domain.Phase]domain.PhaseState{
			domain.PhaseValidation: domain.StateFailed,
		},
		Diagnostics: domain.DiagnosticList{
			{Phase: domain.PhaseSubjects, Severity: domain.SeverityCritical, Message: "2 available weeks cannot be split into blocks of 5 sessions"},
		},
	}

	out := stripANSI(FormatOrganizeResult(res))

	assert.Contains(t, out, "✗ FASE_1")
	assert.Contains(t, out, "organization failed")
	assert.Contains(t, out, "blocks of 5 sessions")
	assert.NotContains(t, out, "groups organized")
}

func TestFormatRunList_Empty(t *testing.T) {
	assert.Contains(t, stripANSI(FormatRunList(nil)), "no runs recorded")
}

func TestFormatRunDetail_TablesGroupsAndConflicts(t *testing.T) {
	finished := time.Date(2026, 3, 2, 9, 0, 3, 0, time.UTC)
	run := &domain.Run{
		ID:         "0b7c9a1e-d1ce-4f2b-8a5f-1f2e3d4c5b6a",
		ConfigPath: "configuracion_labs.json",
		State:      domain.RunSucceeded,
		StartedAt:  time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		FinishedAt: &finished,
	}
	groups := []*domain.LabGroup{{
		Label:     "A401-01",
		Subject:   "Redes",
		Weekday:   "Lunes",
		TimeSlot:  "10:00-12:00",
		Classroom: "L-1.1",
		Professor: "Ana Ruiz",
		Students:  []string{"s01", "s02"},
		Dates: []time.Time{
			time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC),
		},
	}}
	conflicts := []domain.Conflict{{
		Category: domain.ConflictProfessors,
		Subject:  "Redes",
		Group:    "A401-02",
		Weekday:  "Lunes",
		TimeSlot: "10:00-12:00",
		Detail:   "no professor available",
	}}

	out := stripANSI(FormatRunDetail(run, groups, conflicts))

	assert.Contains(t, out, "RUN 0B7C9A1E")
	assert.Contains(t, out, "configuracion_labs.json")
	assert.Contains(t, out, "GROUPS")
	assert.Contains(t, out, "╭", "tables sit inside rounded boxes")
	assert.Contains(t, out, "A401-01")
	assert.Contains(t, out, "Ana Ruiz")
	assert.Contains(t, out, "2 (02/02..09/02)")
	assert.Contains(t, out, "profesores")
	assert.Contains(t, out, "no professor available")
}

func TestFormatGroups_UnassignedProfessor(t *testing.T) {
	out := stripANSI(FormatGroups([]*domain.LabGroup{{Label: "A401-01"}}))

	assert.Contains(t, out, "unassigned")
}
