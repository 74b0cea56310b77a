package engine

import (
	"fmt"
	"sort"

	"github.com/olabarga/labplan/internal/config"
	"github.com/olabarga/labplan/internal/domain"
)

// Validator runs FASE 1: document structure, per-group session
// arithmetic, and the grid letter bound. It computes each valid group's
// letter capacity, the input every later phase keys on.
type Validator struct {
	store   *config.Store
	workers int
}

func NewValidator(store *config.Store, workers int) *Validator {
	return &Validator{store: store, workers: workers}
}

// Run executes the three sub-checks. A structure failure aborts before
// the arithmetic checks; arithmetic and grid criticals are all reported
// in one pass. ok is true when no critical diagnostic was produced.
func (v *Validator) Run() (ok bool, maxLetters map[domain.GroupKey]int, diags domain.DiagnosticList) {
	diags = v.checkStructure()
	if diags.HasCritical() {
		return false, nil, diags
	}

	subjectDiags, maxLetters := v.checkSubjects()
	diags = append(diags, subjectDiags...)
	diags = append(diags, v.checkGrids(maxLetters)...)
	return !diags.HasCritical(), maxLetters, diags
}

// checkStructure is FASE 1.1: the configuracion block and all six
// sections must exist.
func (v *Validator) checkStructure() domain.DiagnosticList {
	var diags domain.DiagnosticList
	if !v.store.HasConfig() {
		diags = append(diags, domain.Diagnostic{
			Phase:    domain.PhaseStructure,
			Severity: domain.SeverityCritical,
			Message:  "document has no configuracion block",
		})
		return diags
	}
	for _, name := range v.store.MissingSections() {
		diags = append(diags, domain.Diagnostic{
			Phase:    domain.PhaseStructure,
			Severity: domain.SeverityCritical,
			Message:  fmt.Sprintf("configuration section %q is missing", name),
			Detail:   map[string]any{"seccion": name},
		})
	}
	return diags
}

type subjectCheck struct {
	diags      domain.DiagnosticList
	maxLetters map[domain.GroupKey]int
}

// checkSubjects is FASE 1.2. Subjects are independent, so they fan out
// over the worker pool; results merge back in subject-name order.
func (v *Validator) checkSubjects() (domain.DiagnosticList, map[domain.GroupKey]int) {
	entries := v.store.SubjectEntries()
	totalWeeks := v.store.TotalWeeks()

	results := make([]subjectCheck, len(entries))
	runIndexed(v.workers, len(entries), func(i int) {
		results[i] = v.checkSubject(entries[i], totalWeeks)
	})

	var diags domain.DiagnosticList
	maxLetters := map[domain.GroupKey]int{}
	for _, res := range results {
		diags = append(diags, res.diags...)
		for k, m := range res.maxLetters {
			maxLetters[k] = m
		}
	}
	return diags, maxLetters
}

func (v *Validator) checkSubject(entry config.SubjectEntry, totalWeeks int) subjectCheck {
	res := subjectCheck{maxLetters: map[domain.GroupKey]int{}}
	semKey := config.SemesterKey(entry.Subject.Semester.String())

	codes := v.store.GroupCodes(entry.Subject)
	if len(codes) == 0 {
		res.diags = append(res.diags, domain.Diagnostic{
			Phase:    domain.PhaseSubjects,
			Severity: domain.SeverityWarning,
			Message:  fmt.Sprintf("subject %q has no associated groups", entry.Name),
			Detail:   map[string]any{"semestre": semKey, "asignatura": entry.Name},
		})
		return res
	}

	for _, code := range codes {
		group := entry.Subject.Groups[code]
		lab := group.LabConfig
		if lab == nil || lab.StartWeek == nil || lab.Sessions == nil {
			res.diags = append(res.diags, domain.Diagnostic{
				Phase:    domain.PhaseSubjects,
				Severity: domain.SeverityWarning,
				Message:  fmt.Sprintf("group %s skipped: incomplete lab configuration", code),
				Detail:   map[string]any{"semestre": semKey, "asignatura": entry.Name, "grupo": code},
			})
			continue
		}

		start, sessions := *lab.StartWeek, *lab.Sessions
		if start < 1 || start > totalWeeks {
			res.diags = append(res.diags, domain.Diagnostic{
				Phase:    domain.PhaseSubjects,
				Severity: domain.SeverityCritical,
				Message:  fmt.Sprintf("group %s: semana_inicio %d is outside [1, %d]", code, start, totalWeeks),
				Detail: map[string]any{
					"semestre": semKey, "asignatura": entry.Name, "grupo": code,
					"semana_inicio": start, "semanas_total": totalWeeks,
				},
			})
			continue
		}
		if sessions < 1 {
			res.diags = append(res.diags, domain.Diagnostic{
				Phase:    domain.PhaseSubjects,
				Severity: domain.SeverityCritical,
				Message:  fmt.Sprintf("group %s: num_sesiones must be at least 1, got %d", code, sessions),
				Detail: map[string]any{
					"semestre": semKey, "asignatura": entry.Name, "grupo": code,
					"num_sesiones": sessions,
				},
			})
			continue
		}

		available := totalWeeks - start + 1
		if available%sessions != 0 {
			res.diags = append(res.diags, domain.Diagnostic{
				Phase:    domain.PhaseSubjects,
				Severity: domain.SeverityCritical,
				Message: fmt.Sprintf(
					"group %s: %d available weeks cannot be split into blocks of %d sessions; adjust semana_inicio or num_sesiones",
					code, available, sessions),
				Detail: map[string]any{
					"semestre": semKey, "asignatura": entry.Name, "grupo": code,
					"semana_inicio": start, "num_sesiones": sessions,
					"semanas_disponibles": available,
					"formula":             fmt.Sprintf("(%d - %d + 1) %% %d = %d", totalWeeks, start, sessions, available%sessions),
				},
			})
			continue
		}

		res.maxLetters[domain.GroupKey{Semester: semKey, Subject: entry.Name, Group: code}] = available / sessions
	}
	return res
}

// checkGrids is FASE 1.3: the union of distinct letters a group uses
// across the whole grid must not exceed its letter capacity.
func (v *Validator) checkGrids(maxLetters map[domain.GroupKey]int) domain.DiagnosticList {
	var diags domain.DiagnosticList

	keys := make([]domain.GroupKey, 0, len(maxLetters))
	for k := range maxLetters {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	for _, k := range keys {
		letters := map[string]bool{}
		cells := 0
		for _, gs := range v.store.GridSlots(k.Semester, k.Subject) {
			if !containsCode(gs.Cell.Groups, k.Group) {
				continue
			}
			cells++
			for _, l := range gs.Cell.Letters {
				letters[l] = true
			}
		}
		if cells == 0 {
			diags = append(diags, domain.Diagnostic{
				Phase:    domain.PhaseGrids,
				Severity: domain.SeverityWarning,
				Message:  fmt.Sprintf("group %s has no assigned slots in the schedule grid", k.Group),
				Detail:   map[string]any{"semestre": k.Semester, "asignatura": k.Subject, "grupo": k.Group},
			})
			continue
		}
		if max := maxLetters[k]; len(letters) > max {
			diags = append(diags, domain.Diagnostic{
				Phase:    domain.PhaseGrids,
				Severity: domain.SeverityCritical,
				Message: fmt.Sprintf("group %s uses %d distinct letters in the grid but the calendar supports at most %d",
					k.Group, len(letters), max),
				Detail: map[string]any{
					"semestre": k.Semester, "asignatura": k.Subject, "grupo": k.Group,
					"letras": sortedKeys(letters), "max_letras": max,
				},
			})
		}
	}

	diags = append(diags, v.checkUnconfiguredGridGroups()...)
	return diags
}

// checkUnconfiguredGridGroups warns about group codes referenced by grid
// cells that the subject configuration does not know about.
func (v *Validator) checkUnconfiguredGridGroups() domain.DiagnosticList {
	var diags domain.DiagnosticList
	for _, entry := range v.store.SubjectEntries() {
		semKey := config.SemesterKey(entry.Subject.Semester.String())
		known := map[string]bool{}
		for _, code := range v.store.GroupCodes(entry.Subject) {
			known[code] = true
		}

		seen := map[string]bool{}
		for _, gs := range v.store.GridSlots(semKey, entry.Name) {
			for _, code := range gs.Cell.Groups {
				if known[code] || seen[code] {
					continue
				}
				if !domain.IsSimpleCode(code) && !domain.IsDoubleCode(code) {
					continue
				}
				seen[code] = true
				diags = append(diags, domain.Diagnostic{
					Phase:    domain.PhaseGrids,
					Severity: domain.SeverityWarning,
					Message:  fmt.Sprintf("grid references group %s, which is not configured for subject %q", code, entry.Name),
					Detail:   map[string]any{"semestre": semKey, "asignatura": entry.Name, "grupo": code},
				})
			}
		}
	}
	return diags
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
