// Package results renders an organization run into the document section
// and export files the desktop viewer and office staff consume. Keys
// stay Spanish for viewer compatibility.
package results

import (
	"time"

	"github.com/olabarga/labplan/internal/config"
	"github.com/olabarga/labplan/internal/domain"
)

// EngineTag identifies the generator in the results metadata.
const EngineTag = "labplan v1"

// GroupJSON is the viewer-compatible rendering of one instance. Field
// order follows the section layout viewers already parse.
type GroupJSON struct {
	Professor   string   `json:"profesor"`
	ProfessorID string   `json:"profesor_id"`
	Classroom   string   `json:"aula"`
	Weekday     string   `json:"dia"`
	TimeSlot    string   `json:"franja"`
	Dates       []string `json:"fechas"`
	Students    []string `json:"alumnos"`
	Capacity    int      `json:"capacidad"`
	Mixed       bool     `json:"mixta"`
	SimpleGroup string   `json:"grupo_simple"`
	DoubleGroup string   `json:"grupo_doble"`
}

// SubjectResults wraps a subject's instances keyed by label.
type SubjectResults struct {
	Groups map[string]GroupJSON `json:"grupos"`
}

// ConflictSet splits conflicts into the three viewer categories.
type ConflictSet struct {
	Professors []domain.Conflict `json:"profesores"`
	Classrooms []domain.Conflict `json:"aulas"`
	Students   []domain.Conflict `json:"alumnos"`
}

// Metadata stamps a generated section.
type Metadata struct {
	Generated   string `json:"generado"`
	Engine      string `json:"motor"`
	TotalGroups int    `json:"total_grupos"`
}

// Section is the resultados_organizacion document value: the fixed keys
// plus one semestre_N object per semester carrying instances.
type Section map[string]any

// Builder assembles result sections.
type Builder struct {
	now func() time.Time
}

func NewBuilder() *Builder {
	return &Builder{now: time.Now}
}

// Build renders the plan. Every fixed key is always present, conflict
// categories included, so the viewer never has to probe for them.
func (b *Builder) Build(groups []*domain.LabGroup, conflicts []domain.Conflict, notices []string) Section {
	set := ConflictSet{
		Professors: []domain.Conflict{},
		Classrooms: []domain.Conflict{},
		Students:   []domain.Conflict{},
	}
	for _, c := range conflicts {
		switch c.Category {
		case domain.ConflictProfessors:
			set.Professors = append(set.Professors, c)
		case domain.ConflictClassrooms:
			set.Classrooms = append(set.Classrooms, c)
		case domain.ConflictStudents:
			set.Students = append(set.Students, c)
		}
	}
	if notices == nil {
		notices = []string{}
	}

	now := b.now()
	section := Section{
		"datos_disponibles":   true,
		"fecha_actualizacion": now.Format(time.RFC3339),
		"conflictos":          set,
		"avisos":              notices,
		"_metadata": Metadata{
			Generated:   now.Format(time.RFC3339),
			Engine:      EngineTag,
			TotalGroups: len(groups),
		},
	}

	for _, g := range groups {
		semKey := config.SemesterKey(g.Semester)
		sem, ok := section[semKey].(map[string]*SubjectResults)
		if !ok {
			sem = map[string]*SubjectResults{}
			section[semKey] = sem
		}
		subj := sem[g.Subject]
		if subj == nil {
			subj = &SubjectResults{Groups: map[string]GroupJSON{}}
			sem[g.Subject] = subj
		}
		subj.Groups[g.Label] = groupJSON(g)
	}
	return section
}

func groupJSON(g *domain.LabGroup) GroupJSON {
	students := g.Students
	if students == nil {
		students = []string{}
	}
	return GroupJSON{
		Professor:   g.Professor,
		ProfessorID: g.ProfessorID,
		Classroom:   g.Classroom,
		Weekday:     g.Weekday,
		TimeSlot:    g.TimeSlot,
		Dates:       domain.FormatDisplayDates(g.Dates),
		Students:    students,
		Capacity:    g.Capacity,
		Mixed:       g.Mixed,
		SimpleGroup: g.SimpleGroup,
		DoubleGroup: g.DoubleGroup,
	}
}

// MergeIntoDocument replaces the document's previous results section.
// Unrelated top-level keys keep their bytes.
func MergeIntoDocument(doc *config.Document, section Section) error {
	return doc.SetKey(config.ResultsKey, section)
}
