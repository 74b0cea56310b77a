package domain

// Conflict records a clash the timetabling phase could not repair. The
// JSON field names match the organized results document consumed by the
// desktop viewer.
type Conflict struct {
	Category  ConflictCategory `json:"-"`
	Semester  string           `json:"semestre"`
	Subject   string           `json:"asignatura"`
	Group     string           `json:"grupo"`
	Weekday   string           `json:"dia"`
	TimeSlot  string           `json:"franja"`
	Date      string           `json:"fecha,omitempty"`
	Classroom string           `json:"aula,omitempty"`
	Professor string           `json:"profesor,omitempty"`
	Detail    string           `json:"detalle"`
}
