package domain

// Diagnostic is a single structured finding produced by an organization
// phase. Findings are not Go errors: they accumulate in order and the
// pipeline decides at phase boundaries whether to continue.
type Diagnostic struct {
	Phase    Phase          `json:"fase"`
	Severity Severity       `json:"severidad"`
	Message  string         `json:"mensaje"`
	Detail   map[string]any `json:"detalle,omitempty"`
}

func (d Diagnostic) Critical() bool {
	return d.Severity == SeverityCritical
}

type DiagnosticList []Diagnostic

func (l DiagnosticList) HasCritical() bool {
	for _, d := range l {
		if d.Critical() {
			return true
		}
	}
	return false
}

func (l DiagnosticList) Criticals() DiagnosticList {
	return l.filter(SeverityCritical)
}

func (l DiagnosticList) Warnings() DiagnosticList {
	return l.filter(SeverityWarning)
}

func (l DiagnosticList) filter(s Severity) DiagnosticList {
	var out DiagnosticList
	for _, d := range l {
		if d.Severity == s {
			out = append(out, d)
		}
	}
	return out
}

// ByPhase returns the diagnostics reported under the given phase tag.
func (l DiagnosticList) ByPhase(p Phase) DiagnosticList {
	var out DiagnosticList
	for _, d := range l {
		if d.Phase == p {
			out = append(out, d)
		}
	}
	return out
}
