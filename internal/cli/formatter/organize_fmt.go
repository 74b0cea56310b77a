package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/olabarga/labplan/internal/contract"
	"github.com/olabarga/labplan/internal/domain"
)

// FormatValidation renders the standalone validation report.
func FormatValidation(res *contract.ValidateResult) string {
	var b strings.Builder
	b.WriteString(Header("Validation"))
	b.WriteString("\n")
	if len(res.Diagnostics) == 0 {
		b.WriteString(StyleGreen.Render("configuration OK") + "\n")
		return b.String()
	}
	b.WriteString(FormatDiagnostics(res.Diagnostics))
	b.WriteString("\n")
	summary := fmt.Sprintf("%d critical, %d warnings", res.Criticals, res.Warnings)
	if res.OK {
		b.WriteString(StyleGreen.Render("configuration OK") + Dim(" ("+summary+")") + "\n")
	} else {
		b.WriteString(StyleRed.Render("configuration rejected") + Dim(" ("+summary+")") + "\n")
	}
	return b.String()
}

// FormatDiagnostics renders findings one per line, criticals first.
func FormatDiagnostics(diags domain.DiagnosticList) string {
	var b strings.Builder
	for _, d := range append(diags.Criticals(), diags.Warnings()...) {
		fmt.Fprintf(&b, "%s  %s %s\n", SeverityBadge(d.Severity), Dim("["+string(d.Phase)+"]"), d.Message)
	}
	return b.String()
}

// FormatStates renders the phase ladder in execution order. Phases the
// run never reached show as pending.
func FormatStates(states map[domain.Phase]domain.PhaseState) string {
	var b strings.Builder
	phases := append(append([]domain.Phase{}, domain.EnginePhases...), domain.AssignPhases...)
	for _, phase := range phases {
		state, ok := states[phase]
		if !ok {
			state = domain.StatePending
		}
		fmt.Fprintf(&b, "%s %-8s %s\n", PhaseBadge(state), string(phase), Dim(strings.ToLower(string(state))))
	}
	return b.String()
}

// FormatOrganizeResult renders the outcome of a full organization run.
func FormatOrganizeResult(res *contract.OrganizeResult) string {
	var b strings.Builder
	b.WriteString(Header("Organization"))
	b.WriteString("\n")
	b.WriteString(FormatStates(res.States))
	b.WriteString("\n")

	if !res.Succeeded {
		b.WriteString(FormatDiagnostics(res.Diagnostics))
		b.WriteString("\n" + StyleRed.Render("organization failed") + "\n")
		if res.RunID != "" {
			b.WriteString(Dim("run "+res.RunID) + "\n")
		}
		return b.String()
	}

	fmt.Fprintf(&b, "%s %s\n",
		StyleGreen.Render(fmt.Sprintf("%d groups organized", res.GroupCount)),
		Dim(fmt.Sprintf("in %s", res.Elapsed.Round(time.Millisecond))))

	if warnings := res.Diagnostics.Warnings(); len(warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatDiagnostics(warnings))
	}
	for _, notice := range res.Notices {
		fmt.Fprintf(&b, "%s %s\n", StyleYellow.Render("!"), notice)
	}
	if len(res.Conflicts) > 0 {
		b.WriteString("\n" + Header("Conflicts") + "\n")
		b.WriteString(FormatConflicts(res.Conflicts))
	}
	if res.DocumentPath != "" {
		b.WriteString(Dim("results written to "+res.DocumentPath) + "\n")
	}
	if res.CSVPath != "" {
		b.WriteString(Dim("csv written to "+res.CSVPath) + "\n")
	}
	if res.RunID != "" {
		b.WriteString(Dim("run "+res.RunID) + "\n")
	}
	return b.String()
}

// FormatConflicts renders unresolved clashes as a table.
func FormatConflicts(conflicts []domain.Conflict) string {
	rows := make([][]string, 0, len(conflicts))
	for _, c := range conflicts {
		rows = append(rows, []string{
			string(c.Category),
			c.Subject,
			c.Group,
			strings.TrimSpace(c.Weekday + " " + c.TimeSlot),
			c.Date,
			c.Detail,
		})
	}
	return RenderTable([]string{"TYPE", "SUBJECT", "GROUP", "SLOT", "DATE", "DETAIL"}, rows)
}
