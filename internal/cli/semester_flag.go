package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// semesterList is a repeatable --semester flag value. Only the two
// teaching semesters exist, so anything else is rejected at parse time.
type semesterList []string

var _ pflag.Value = (*semesterList)(nil)

func (s *semesterList) String() string {
	return strings.Join(*s, ",")
}

func (s *semesterList) Set(value string) error {
	v := strings.TrimSpace(value)
	if v != "1" && v != "2" {
		return fmt.Errorf("semester must be 1 or 2, got %q", value)
	}
	*s = append(*s, v)
	return nil
}

func (s *semesterList) Type() string {
	return "semester"
}
