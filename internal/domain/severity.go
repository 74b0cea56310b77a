package domain

type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityWarning  Severity = "WARNING"
)

type Phase string

const (
	// PhaseValidation is the state-machine node for the whole of FASE 1;
	// its diagnostics report under the three sub-phase tags below.
	PhaseValidation Phase = "FASE_1"
	PhaseStructure  Phase = "FASE_1.1"
	PhaseSubjects   Phase = "FASE_1.2"
	PhaseGrids      Phase = "FASE_1.3"
	PhaseDates      Phase = "FASE_2"
	PhaseClassrooms Phase = "FASE_3"
	PhaseGroups     Phase = "FASE_4"
	PhaseStudents   Phase = "FASE_5"
	PhaseProfessors Phase = "FASE_6"
	PhaseTimetable  Phase = "FASE_7"
	PhaseFinalCheck Phase = "FASE_8"
	PhaseResults    Phase = "FASE_9"
)

// EnginePhases lists the core pipeline's state-machine nodes in
// execution order.
var EnginePhases = []Phase{
	PhaseValidation,
	PhaseDates,
	PhaseClassrooms,
	PhaseGroups,
}

// AssignPhases lists the downstream assignment and results phases in
// execution order.
var AssignPhases = []Phase{
	PhaseStudents,
	PhaseProfessors,
	PhaseTimetable,
	PhaseFinalCheck,
	PhaseResults,
}

type PhaseState string

const (
	StatePending   PhaseState = "PENDING"
	StateRunning   PhaseState = "RUNNING"
	StateSucceeded PhaseState = "SUCCEEDED"
	StateFailed    PhaseState = "FAILED"
)

type ConflictCategory string

const (
	ConflictProfessors ConflictCategory = "profesores"
	ConflictClassrooms ConflictCategory = "aulas"
	ConflictStudents   ConflictCategory = "alumnos"
)
