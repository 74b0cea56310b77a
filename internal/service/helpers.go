package service

import (
	"github.com/olabarga/labplan/internal/config"
)

// loadStore reads a configuration document and builds the read view
// the organization phases consume. A non-empty semesters list narrows
// the run to those semesters' subjects.
func loadStore(path string, semesters []string) (*config.Store, *config.Document, error) {
	doc, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if len(semesters) > 0 {
		filterSemesters(doc, semesters)
	}
	return config.NewStore(doc), doc, nil
}

// filterSemesters drops subjects outside the requested semesters from
// the typed view. The preserved raw document is untouched, so a later
// Save still writes the full subject list.
func filterSemesters(doc *config.Document, semesters []string) {
	if doc.Config == nil || doc.Config.Subjects == nil {
		return
	}
	want := map[string]bool{}
	for _, s := range semesters {
		want[config.SemesterKey(s)] = true
	}
	for name, subject := range doc.Config.Subjects.Data {
		if !want[config.SemesterKey(subject.Semester.String())] {
			delete(doc.Config.Subjects.Data, name)
		}
	}
}
