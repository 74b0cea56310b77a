package importer

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLRoster is the root of a YAML student roster. Students are keyed
// by DNI, mirroring the alumnos.datos section of the configuration
// document so hand-maintained rosters round-trip cleanly.
type YAMLRoster struct {
	Students map[string]YAMLStudent `yaml:"alumnos"`
}

// YAMLStudent mirrors one student record in a YAML roster.
type YAMLStudent struct {
	Name        string                    `yaml:"nombre"`
	Surname     string                    `yaml:"apellidos"`
	Email       string                    `yaml:"email"`
	ExpCentro   string                    `yaml:"exp_centro"`
	ExpAgora    string                    `yaml:"exp_agora"`
	Enrollments map[string]YAMLEnrollment `yaml:"asignaturas_matriculadas"`
}

// YAMLEnrollment is a student's status in one subject. A missing
// matriculado defaults to true: listing the subject is the point of
// the roster.
type YAMLEnrollment struct {
	Enrolled  *bool  `yaml:"matriculado"`
	LabPassed bool   `yaml:"lab_aprobado"`
	Group     string `yaml:"grupo"`
}

// ParseYAMLRoster decodes a YAML roster. Unknown keys are ignored so
// rosters carrying extra bookkeeping fields still import.
func ParseYAMLRoster(r io.Reader) (*YAMLRoster, error) {
	var roster YAMLRoster
	if err := yaml.NewDecoder(r).Decode(&roster); err != nil {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}
	return &roster, nil
}
