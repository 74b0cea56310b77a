package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/olabarga/labplan/internal/config"
	"github.com/olabarga/labplan/internal/contract"
	"github.com/olabarga/labplan/internal/importer"
)

type importService struct {
	observer UseCaseObserver
}

func NewImportService(observers ...UseCaseObserver) ImportService {
	return &importService{observer: useCaseObserverOrNoop(observers)}
}

// ImportStudents merges an external roster into the configuration
// document. Spreadsheets enroll every row in req.Subject; YAML rosters
// carry their own per-student enrollments and ignore req.Subject.
// Rows the roster parser rejected come back in RowErrors, the merged
// rest is written immediately.
func (s *importService) ImportStudents(ctx context.Context, req contract.ImportStudentsRequest) (result *contract.ImportStudentsResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"config": req.ConfigPath,
		"file":   req.FilePath,
	}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-students",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	doc, err := config.Load(req.ConfigPath)
	if err != nil {
		return nil, &contract.ImportError{
			Code:    contract.ImportErrConfigLoad,
			Message: err.Error(),
		}
	}
	groups := importer.SubjectGroupsFromConfig(doc.Config)

	var incoming map[string]*config.Student
	var rowErrs []string
	switch ext := strings.ToLower(filepath.Ext(req.FilePath)); ext {
	case ".yaml", ".yml":
		incoming, rowErrs, err = s.readYAMLRoster(req.FilePath, groups)
	case ".xls":
		incoming, rowErrs, err = s.readSpreadsheetRoster(req.FilePath, req.Subject, groups)
	default:
		err = &contract.ImportError{
			Code:    contract.ImportErrParse,
			Message: fmt.Sprintf("unsupported roster format %q, expected .xls, .yaml or .yml", ext),
		}
	}
	if err != nil {
		return nil, err
	}

	existing := map[string]*config.Student{}
	if doc.Config != nil && doc.Config.Students != nil && doc.Config.Students.Data != nil {
		existing = doc.Config.Students.Data
	}
	added, updated := importer.MergeStudents(existing, incoming)

	if err = doc.ReplaceStudents(existing); err != nil {
		return nil, &contract.ImportError{
			Code:    contract.ImportErrWrite,
			Message: fmt.Sprintf("updating document: %v", err),
		}
	}
	if err = config.Save(doc, req.ConfigPath); err != nil {
		return nil, &contract.ImportError{
			Code:    contract.ImportErrWrite,
			Message: fmt.Sprintf("writing %s: %v", req.ConfigPath, err),
		}
	}

	fields["imported"] = added
	fields["updated"] = updated
	fields["row_errors"] = len(rowErrs)
	return &contract.ImportStudentsResult{
		Imported:  added,
		Updated:   updated,
		RowErrors: rowErrs,
	}, nil
}

func (s *importService) readYAMLRoster(path string, groups importer.SubjectGroups) (map[string]*config.Student, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &contract.ImportError{
			Code:    contract.ImportErrParse,
			Message: fmt.Sprintf("opening %s: %v", path, err),
		}
	}
	defer f.Close()

	roster, err := importer.ParseYAMLRoster(f)
	if err != nil {
		return nil, nil, &contract.ImportError{
			Code:    contract.ImportErrParse,
			Message: err.Error(),
		}
	}
	students, rowErrs := importer.ConvertYAML(roster, groups)
	return students, rowErrs, nil
}

func (s *importService) readSpreadsheetRoster(path, subject string, groups importer.SubjectGroups) (map[string]*config.Student, []string, error) {
	if subject == "" {
		return nil, nil, &contract.ImportError{
			Code:    contract.ImportErrUnknownSubject,
			Message: "a subject is required to import a spreadsheet roster",
		}
	}
	if !groups.HasSubject(subject) {
		return nil, nil, &contract.ImportError{
			Code:    contract.ImportErrUnknownSubject,
			Message: fmt.Sprintf("subject %s not present in configuration", subject),
		}
	}

	rows, err := importer.ReadXLSRows(path)
	if err != nil {
		return nil, nil, &contract.ImportError{
			Code:    contract.ImportErrParse,
			Message: err.Error(),
		}
	}
	roster, err := importer.ParseRoster(rows)
	if err != nil {
		return nil, nil, &contract.ImportError{
			Code:    contract.ImportErrParse,
			Message: err.Error(),
		}
	}
	students, rowErrs := importer.BuildStudents(roster, subject, groups)
	return students, rowErrs, nil
}

// ImportCalendar replaces one semester's dated sessions with the table
// scraped from a published HTML schedule.
func (s *importService) ImportCalendar(ctx context.Context, req contract.ImportCalendarRequest) (result *contract.ImportCalendarResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"config": req.ConfigPath,
		"file":   req.FilePath,
	}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-calendar",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	semester := strings.TrimSpace(req.Semester)
	if semester != "1" && semester != "2" {
		return nil, &contract.ImportError{
			Code:    contract.ImportErrParse,
			Message: fmt.Sprintf("semester must be 1 or 2, got %q", req.Semester),
		}
	}

	doc, err := config.Load(req.ConfigPath)
	if err != nil {
		return nil, &contract.ImportError{
			Code:    contract.ImportErrConfigLoad,
			Message: err.Error(),
		}
	}

	f, err := os.Open(req.FilePath)
	if err != nil {
		return nil, &contract.ImportError{
			Code:    contract.ImportErrParse,
			Message: fmt.Sprintf("opening %s: %v", req.FilePath, err),
		}
	}
	tables, err := importer.ParseCalendarHTML(f)
	f.Close()
	if err != nil {
		return nil, &contract.ImportError{
			Code:    contract.ImportErrParse,
			Message: err.Error(),
		}
	}
	table, err := importer.TableForSemester(tables, semester)
	if err != nil {
		return nil, &contract.ImportError{
			Code:    contract.ImportErrParse,
			Message: err.Error(),
		}
	}

	days := make(map[string]*config.CalendarDay, len(table.Entries))
	for _, e := range table.Entries {
		days[e.Date] = &config.CalendarDay{Date: e.Date, Weekday: e.Weekday}
	}

	semKey := config.SemesterKey(semester)
	if err = doc.ReplaceCalendarSemester(semKey, days); err != nil {
		return nil, &contract.ImportError{
			Code:    contract.ImportErrWrite,
			Message: fmt.Sprintf("updating document: %v", err),
		}
	}
	if err = config.Save(doc, req.ConfigPath); err != nil {
		return nil, &contract.ImportError{
			Code:    contract.ImportErrWrite,
			Message: fmt.Sprintf("writing %s: %v", req.ConfigPath, err),
		}
	}

	fields["semester"] = semKey
	fields["days"] = len(days)
	return &contract.ImportCalendarResult{
		Semester: semKey,
		Days:     len(days),
	}, nil
}
