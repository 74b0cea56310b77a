package importer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/olabarga/labplan/internal/config"
)

// SubjectGroups indexes the group codes associated with each subject,
// the reference roster rows are validated against.
type SubjectGroups map[string]map[string]bool

// SubjectGroupsFromConfig builds the index from the subjects section.
func SubjectGroupsFromConfig(cfg *config.Config) SubjectGroups {
	index := SubjectGroups{}
	if cfg == nil || cfg.Subjects == nil {
		return index
	}
	for name, subject := range cfg.Subjects.Data {
		codes := map[string]bool{}
		for code := range subject.Groups {
			codes[code] = true
		}
		index[name] = codes
	}
	return index
}

// HasSubject reports whether the subject exists in the configuration.
func (sg SubjectGroups) HasSubject(subject string) bool {
	_, ok := sg[subject]
	return ok
}

func (sg SubjectGroups) knownGroup(code string) bool {
	for _, codes := range sg {
		if codes[code] {
			return true
		}
	}
	return false
}

// BuildStudents converts parsed roster rows into student records
// enrolled in one subject. Rows whose group is unknown, or known but
// not associated with the subject, become row errors instead of
// records. Duplicate DNIs keep the first occurrence.
func BuildStudents(roster *Roster, subject string, groups SubjectGroups) (map[string]*config.Student, []string) {
	students := map[string]*config.Student{}
	errs := append([]string{}, roster.RowErrors...)
	associated := groups[subject]

	for _, row := range roster.Rows {
		if !associated[row.GroupCode] {
			if groups.knownGroup(row.GroupCode) {
				errs = append(errs, fmt.Sprintf("row %d: group %s is not associated with subject %s", row.SheetRow, row.GroupCode, subject))
			} else {
				errs = append(errs, fmt.Sprintf("row %d: group %s does not exist", row.SheetRow, row.GroupCode))
			}
			continue
		}
		if _, ok := students[row.DNI]; ok {
			continue
		}
		students[row.DNI] = &config.Student{
			Name:      row.Name,
			Surname:   row.Surname,
			Email:     row.Email,
			ExpCentro: row.ExpCentro,
			ExpAgora:  row.ExpAgora,
			Enrollments: map[string]*config.Enrollment{
				subject: {Enrolled: true, Group: row.GroupCode},
			},
		}
	}
	return students, errs
}

// ConvertYAML converts a YAML roster into student records, validating
// every enrollment against the configured subjects and their groups.
func ConvertYAML(roster *YAMLRoster, groups SubjectGroups) (map[string]*config.Student, []string) {
	students := map[string]*config.Student{}
	var errs []string

	for _, dni := range sortedKeys(roster.Students) {
		entry := roster.Students[dni]
		id := strings.ToUpper(strings.TrimSpace(dni))
		if id == "" {
			errs = append(errs, "student with empty DNI skipped")
			continue
		}
		name := NormalizeName(entry.Name)
		surname := NormalizeName(entry.Surname)
		if name == "" || surname == "" {
			errs = append(errs, fmt.Sprintf("student %s: empty name or surname", id))
			continue
		}

		enrollments := map[string]*config.Enrollment{}
		for _, subject := range sortedKeys(entry.Enrollments) {
			enr := entry.Enrollments[subject]
			if !groups.HasSubject(subject) {
				errs = append(errs, fmt.Sprintf("student %s: unknown subject %q", id, subject))
				continue
			}
			code := strings.ToUpper(strings.TrimSpace(enr.Group))
			if code != "" && !groups[subject][code] {
				errs = append(errs, fmt.Sprintf("student %s: group %s is not associated with subject %s", id, code, subject))
				continue
			}
			enrolled := true
			if enr.Enrolled != nil {
				enrolled = *enr.Enrolled
			}
			enrollments[subject] = &config.Enrollment{
				Enrolled:  enrolled,
				LabPassed: enr.LabPassed,
				Group:     code,
			}
		}
		students[id] = &config.Student{
			Name:        name,
			Surname:     surname,
			Email:       strings.ToLower(strings.TrimSpace(entry.Email)),
			ExpCentro:   strings.TrimSpace(entry.ExpCentro),
			ExpAgora:    strings.TrimSpace(entry.ExpAgora),
			Enrollments: enrollments,
		}
	}
	return students, errs
}

// MergeStudents folds incoming records into the existing set. New DNIs
// are added as-is. For known DNIs empty fields are filled and missing
// enrollments appended; nothing the document already says is
// overwritten. Returns how many students were added and how many
// existing ones changed.
func MergeStudents(existing, incoming map[string]*config.Student) (added, updated int) {
	for dni, inc := range incoming {
		cur, ok := existing[dni]
		if !ok {
			existing[dni] = inc
			added++
			continue
		}

		changed := false
		fill := func(dst *string, src string) {
			if *dst == "" && src != "" {
				*dst = src
				changed = true
			}
		}
		fill(&cur.Name, inc.Name)
		fill(&cur.Surname, inc.Surname)
		fill(&cur.Email, inc.Email)
		fill(&cur.ExpCentro, inc.ExpCentro)
		fill(&cur.ExpAgora, inc.ExpAgora)

		for subject, enr := range inc.Enrollments {
			if cur.Enrollments == nil {
				cur.Enrollments = map[string]*config.Enrollment{}
			}
			if _, have := cur.Enrollments[subject]; !have {
				cur.Enrollments[subject] = enr
				changed = true
			}
		}
		if changed {
			updated++
		}
	}
	return added, updated
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
