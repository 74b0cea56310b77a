package config

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/olabarga/labplan/internal/domain"
)

// Document is a full configuration file. The typed Config is the decoded
// view the engine reads; the raw form is preserved untouched so saving
// never loses fields this program does not model.
type Document struct {
	Config *Config `json:"-"`

	raw map[string]json.RawMessage
}

// Config holds the six configuration sections under "configuracion".
// Sections are pointers so a missing section is distinguishable from an
// empty one.
type Config struct {
	Subjects   *SubjectsSection   `json:"asignaturas,omitempty"`
	Schedules  *SchedulesSection  `json:"horarios,omitempty"`
	Students   *StudentsSection   `json:"alumnos,omitempty"`
	Classrooms *ClassroomsSection `json:"aulas,omitempty"`
	Professors *ProfessorsSection `json:"profesores,omitempty"`
	Calendar   *CalendarSection   `json:"calendario,omitempty"`
}

// SectionNames lists the required configuration sections in document
// order, by their JSON keys.
var SectionNames = []string{"asignaturas", "horarios", "alumnos", "aulas", "profesores", "calendario"}

// SubjectsSection maps subject name to its lab configuration.
type SubjectsSection struct {
	Data map[string]*Subject `json:"datos"`
}

// Subject describes one subject's semester and associated lab groups.
type Subject struct {
	Semester FlexString             `json:"semestre"`
	Groups   map[string]*GroupEntry `json:"grupos_asociados"`
}

// GroupEntry is one group code associated to a subject.
type GroupEntry struct {
	LabConfig *LabConfig `json:"configuracion_laboratorio"`
}

// LabConfig carries the per-group session arithmetic. Both fields are
// pointers: absent values degrade the group to a warning instead of
// failing the decode.
type LabConfig struct {
	StartWeek *int `json:"semana_inicio"`
	Sessions  *int `json:"num_sesiones"`
}

// SchedulesSection maps semester key to that semester's subject grids.
type SchedulesSection struct {
	Data map[string]SemesterSchedules `json:"datos"`
}

// SemesterSchedules maps subject name to its weekly grid.
type SemesterSchedules map[string]*SubjectSchedule

// SubjectSchedule is one subject's weekly schedule.
type SubjectSchedule struct {
	Grid Grid `json:"horarios_grid"`
}

// Grid maps time slot, then weekday, to a cell.
type Grid map[string]map[string]*GridCell

// GridCell is one slot of the weekly grid. Documents carry cells either
// as a bare list of group codes or as the full object form; decoding
// accepts both.
type GridCell struct {
	Groups  []string `json:"grupos"`
	Letters []string `json:"letras"`
	Mixed   *bool    `json:"mixta"`
}

func (c *GridCell) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var groups []string
		if err := json.Unmarshal(trimmed, &groups); err != nil {
			return err
		}
		c.Groups = groups
		return nil
	}
	type cellAlias GridCell
	var a cellAlias
	if err := json.Unmarshal(trimmed, &a); err != nil {
		return err
	}
	*c = GridCell(a)
	return nil
}

// IsMixed reports whether the cell holds simple and double-degree codes
// together. An explicit mixta flag wins; otherwise the presence of a
// double code decides.
func (c *GridCell) IsMixed() bool {
	if c.Mixed != nil {
		return *c.Mixed
	}
	_, doubles := domain.SplitCodes(c.Groups)
	return len(doubles) > 0
}

// StudentsSection maps student identifier (DNI) to the student record.
type StudentsSection struct {
	Data map[string]*Student `json:"datos"`
}

// Student is one enrolled student. The optional identifiers come from
// roster imports and ride along unmodified by the organization phases.
type Student struct {
	Name        string                 `json:"nombre"`
	Surname     string                 `json:"apellidos"`
	Email       string                 `json:"email,omitempty"`
	ExpCentro   string                 `json:"exp_centro,omitempty"`
	ExpAgora    string                 `json:"exp_agora,omitempty"`
	Enrollments map[string]*Enrollment `json:"asignaturas_matriculadas"`
}

// Enrollment is a student's status in one subject.
type Enrollment struct {
	Enrolled  bool   `json:"matriculado"`
	LabPassed bool   `json:"lab_aprobado"`
	Group     string `json:"grupo"`
}

// ClassroomsSection maps classroom name to the classroom record.
type ClassroomsSection struct {
	Data map[string]*Classroom `json:"datos"`
}

// Classroom is one laboratory room.
type Classroom struct {
	Capacity         int      `json:"capacidad"`
	Available        bool     `json:"disponible"`
	Subjects         []string `json:"asignaturas_asociadas"`
	UnavailableDates []string `json:"fechas_no_disponibles"`
}

// Serves reports whether the room is available and associated to the
// subject.
func (c *Classroom) Serves(subject string) bool {
	if !c.Available {
		return false
	}
	for _, s := range c.Subjects {
		if strings.EqualFold(strings.TrimSpace(s), subject) {
			return true
		}
	}
	return false
}

// UnavailableOn reports whether the room is blocked on the ISO date.
// Stored dates may be spelled ISO or dd/mm/yyyy.
func (c *Classroom) UnavailableOn(isoDate string) bool {
	return containsDate(c.UnavailableDates, isoDate)
}

// ProfessorsSection maps professor identifier to the professor record.
type ProfessorsSection struct {
	Data map[string]*Professor `json:"datos"`
}

// Professor is one lab professor.
type Professor struct {
	Name             string       `json:"nombre"`
	Surname          string       `json:"apellidos"`
	Teaches          []string     `json:"asignaturas_imparte"`
	WorkDays         []string     `json:"dias_trabajo"`
	BlockedSlots     BlockedSlots `json:"horarios_bloqueados"`
	UnavailableDates []string     `json:"fechas_no_disponibles"`
}

// DisplayName joins name and surname for presentation.
func (p *Professor) DisplayName() string {
	full := strings.TrimSpace(p.Name + " " + p.Surname)
	return full
}

// TeachesSubject reports whether the professor teaches the subject.
func (p *Professor) TeachesSubject(subject string) bool {
	for _, s := range p.Teaches {
		if strings.EqualFold(strings.TrimSpace(s), subject) {
			return true
		}
	}
	return false
}

// WorksOn reports whether the weekday is one of the professor's working
// days. An empty list means every day.
func (p *Professor) WorksOn(weekday string) bool {
	if len(p.WorkDays) == 0 {
		return true
	}
	want := domain.NormalizeWeekday(weekday)
	for _, d := range p.WorkDays {
		if domain.NormalizeWeekday(d) == want {
			return true
		}
	}
	return false
}

// Blocks reports whether the professor has blocked the slot on the
// weekday.
func (p *Professor) Blocks(weekday, slot string) bool {
	day := domain.NormalizeWeekday(weekday)
	want := domain.NormalizeTimeSlot(slot)
	for blockedDay, slots := range p.BlockedSlots {
		if domain.NormalizeWeekday(blockedDay) != day {
			continue
		}
		for _, s := range slots {
			if domain.NormalizeTimeSlot(s) == want {
				return true
			}
		}
	}
	return false
}

// UnavailableOn reports whether the professor is absent on the ISO date.
func (p *Professor) UnavailableOn(isoDate string) bool {
	return containsDate(p.UnavailableDates, isoDate)
}

func containsDate(dates []string, isoDate string) bool {
	for _, d := range dates {
		if iso, ok := domain.ToISODate(d); ok && iso == isoDate {
			return true
		}
	}
	return false
}

// BlockedSlots maps weekday to blocked time slots. Some documents carry
// the field as a list instead of an object; those decode to empty, the
// same as absent.
type BlockedSlots map[string][]string

func (b *BlockedSlots) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		*b = nil
		return nil
	}
	var m map[string][]string
	if err := json.Unmarshal(trimmed, &m); err != nil {
		*b = nil
		return nil
	}
	*b = m
	return nil
}

// CalendarSection holds the dated sessions per semester. Data is kept
// raw because the datos object mixes semester blocks with an optional
// metadata block; Normalize decodes it into Semesters and Metadata.
type CalendarSection struct {
	TotalWeeks *int                       `json:"semanas_total"`
	Data       map[string]json.RawMessage `json:"datos"`

	Semesters map[string]map[string]*CalendarDay `json:"-"`
	Metadata  *CalendarMetadata                  `json:"-"`
}

// CalendarDay is one dated session in the academic calendar.
type CalendarDay struct {
	Date    string `json:"fecha"`
	Weekday string `json:"horario_asignado"`
}

// CalendarMetadata carries editor-written calendar limits.
type CalendarMetadata struct {
	WeekLimit int `mapstructure:"limite_semanas"`
}

// FlexString decodes JSON strings and bare numbers into a string, the
// two spellings editor documents use for semester identifiers.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}
