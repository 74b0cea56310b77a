package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/olabarga/labplan/internal/domain"
)

const timestampLayout = "2006-01-02 15:04"

// FormatRunList renders the run history, newest first as given.
func FormatRunList(runs []*domain.Run) string {
	if len(runs) == 0 {
		return Dim("no runs recorded") + "\n"
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.ShortID(),
			RunBadge(r.State),
			r.ConfigPath,
			strconv.Itoa(r.GroupCount),
			strconv.Itoa(r.ConflictCount),
			r.StartedAt.Local().Format(timestampLayout),
			runDuration(r),
		})
	}
	return RenderTable(
		[]string{"RUN", "STATE", "CONFIG", "GROUPS", "CONFLICTS", "STARTED", "TOOK"},
		rows,
	)
}

// FormatRunDetail renders one run with its stored groups and conflicts.
func FormatRunDetail(run *domain.Run, groups []*domain.LabGroup, conflicts []domain.Conflict) string {
	var b strings.Builder
	b.WriteString(Header("Run " + run.ShortID()))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", Bold(run.ID), RunBadge(run.State))
	fmt.Fprintf(&b, "%s %s\n", Dim("config"), run.ConfigPath)
	fmt.Fprintf(&b, "%s %s", Dim("started"), run.StartedAt.Local().Format(timestampLayout))
	if d := runDuration(run); d != "" {
		fmt.Fprintf(&b, " %s", Dim("("+d+")"))
	}
	b.WriteString("\n\n")

	if len(groups) > 0 {
		b.WriteString(RenderBox("Groups", FormatGroups(groups)))
		b.WriteString("\n")
	}
	if len(conflicts) > 0 {
		b.WriteString(RenderBox("Conflicts", FormatConflicts(conflicts)))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatGroups renders organized group instances as a table.
func FormatGroups(groups []*domain.LabGroup) string {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		professor := g.Professor
		if professor == "" {
			professor = Dim("unassigned")
		}
		rows = append(rows, []string{
			g.Label,
			g.Subject,
			g.Weekday,
			g.TimeSlot,
			g.Classroom,
			professor,
			strconv.Itoa(len(g.Students)),
			dateSpan(g.Dates),
		})
	}
	return RenderTable(
		[]string{"GROUP", "SUBJECT", "DAY", "SLOT", "ROOM", "PROFESSOR", "STUDENTS", "DATES"},
		rows,
	)
}

func runDuration(r *domain.Run) string {
	if r.FinishedAt == nil {
		return ""
	}
	return r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
}

func dateSpan(dates []time.Time) string {
	if len(dates) == 0 {
		return ""
	}
	first := dates[0].Format("02/01")
	last := dates[len(dates)-1].Format("02/01")
	return fmt.Sprintf("%d (%s..%s)", len(dates), first, last)
}
