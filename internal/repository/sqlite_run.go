package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/olabarga/labplan/internal/db"
	"github.com/olabarga/labplan/internal/domain"
)

// SQLiteRunRepo implements RunRepo using a SQLite database.
type SQLiteRunRepo struct {
	db db.DBTX
}

// NewSQLiteRunRepo creates a new SQLiteRunRepo. conn may be a *sql.DB or
// a transaction-scoped DBTX from a UnitOfWork.
func NewSQLiteRunRepo(conn db.DBTX) *SQLiteRunRepo {
	return &SQLiteRunRepo{db: conn}
}

func (r *SQLiteRunRepo) Create(ctx context.Context, run *domain.Run) error {
	query := `INSERT INTO runs (id, config_path, state, workers, group_count, conflict_count, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.ConfigPath,
		string(run.State),
		run.Workers,
		run.GroupCount,
		run.ConflictCount,
		run.StartedAt.UTC().Format(time.RFC3339),
		nullableTimeToString(run.FinishedAt, time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// Finish records the terminal state and counts of a run.
func (r *SQLiteRunRepo) Finish(ctx context.Context, run *domain.Run) error {
	query := `UPDATE runs SET state = ?, group_count = ?, conflict_count = ?, finished_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		string(run.State),
		run.GroupCount,
		run.ConflictCount,
		nullableTimeToString(run.FinishedAt, time.RFC3339),
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	return nil
}

func (r *SQLiteRunRepo) GetByID(ctx context.Context, id string) (*domain.Run, error) {
	query := `SELECT id, config_path, state, workers, group_count, conflict_count, started_at, finished_at
		FROM runs WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanRun(row)
}

func (r *SQLiteRunRepo) ListRecent(ctx context.Context, n int) ([]*domain.Run, error) {
	// started_at has second precision; rowid keeps same-second runs in
	// insertion order.
	query := `SELECT id, config_path, state, workers, group_count, conflict_count, started_at, finished_at
		FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("listing recent runs: %w", err)
	}
	defer rows.Close()
	return r.scanRuns(rows)
}

// Delete removes a run; its groups and conflicts go with it via the
// foreign key cascade.
func (r *SQLiteRunRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM runs WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	return nil
}

func (r *SQLiteRunRepo) SaveGroups(ctx context.Context, runID string, groups []*domain.LabGroup) error {
	query := `INSERT INTO run_groups (id, run_id, semester, subject, group_code, label, letter,
		weekday, time_slot, classroom, capacity, mixed, simple_group, double_group,
		professor, professor_id, dates, students)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, g := range groups {
		dates, err := marshalDates(g.Dates)
		if err != nil {
			return fmt.Errorf("encoding dates for %s: %w", g.Label, err)
		}
		students, err := marshalStrings(g.Students)
		if err != nil {
			return fmt.Errorf("encoding students for %s: %w", g.Label, err)
		}
		if _, err := r.db.ExecContext(ctx, query,
			g.ID,
			runID,
			g.Semester,
			g.Subject,
			g.GroupCode,
			g.Label,
			g.Letter,
			g.Weekday,
			g.TimeSlot,
			g.Classroom,
			g.Capacity,
			boolToInt(g.Mixed),
			g.SimpleGroup,
			g.DoubleGroup,
			g.Professor,
			g.ProfessorID,
			dates,
			students,
		); err != nil {
			return fmt.Errorf("inserting run group %s: %w", g.Label, err)
		}
	}
	return nil
}

func (r *SQLiteRunRepo) GroupsByRun(ctx context.Context, runID string) ([]*domain.LabGroup, error) {
	query := `SELECT id, semester, subject, group_code, label, letter, weekday, time_slot,
		classroom, capacity, mixed, simple_group, double_group, professor, professor_id, dates, students
		FROM run_groups WHERE run_id = ? ORDER BY semester, subject, label`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("listing groups by run: %w", err)
	}
	defer rows.Close()

	var groups []*domain.LabGroup
	for rows.Next() {
		var g domain.LabGroup
		var mixed int
		var datesJSON, studentsJSON string

		err := rows.Scan(
			&g.ID, &g.Semester, &g.Subject, &g.GroupCode, &g.Label, &g.Letter, &g.Weekday, &g.TimeSlot,
			&g.Classroom, &g.Capacity, &mixed, &g.SimpleGroup, &g.DoubleGroup, &g.Professor, &g.ProfessorID,
			&datesJSON, &studentsJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning run group row: %w", err)
		}

		g.Mixed = intToBool(mixed)
		g.Dates, err = unmarshalDates(datesJSON)
		if err != nil {
			return nil, fmt.Errorf("decoding dates for %s: %w", g.Label, err)
		}
		if err := json.Unmarshal([]byte(studentsJSON), &g.Students); err != nil {
			return nil, fmt.Errorf("decoding students for %s: %w", g.Label, err)
		}

		groups = append(groups, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run groups: %w", err)
	}
	return groups, nil
}

func (r *SQLiteRunRepo) SaveConflicts(ctx context.Context, runID string, conflicts []domain.Conflict) error {
	query := `INSERT INTO run_conflicts (run_id, category, semester, subject, group_label,
		weekday, time_slot, date, classroom, professor, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, c := range conflicts {
		if _, err := r.db.ExecContext(ctx, query,
			runID,
			string(c.Category),
			c.Semester,
			c.Subject,
			c.Group,
			c.Weekday,
			c.TimeSlot,
			c.Date,
			c.Classroom,
			c.Professor,
			c.Detail,
		); err != nil {
			return fmt.Errorf("inserting run conflict: %w", err)
		}
	}
	return nil
}

func (r *SQLiteRunRepo) ConflictsByRun(ctx context.Context, runID string) ([]domain.Conflict, error) {
	query := `SELECT category, semester, subject, group_label, weekday, time_slot, date, classroom, professor, detail
		FROM run_conflicts WHERE run_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("listing conflicts by run: %w", err)
	}
	defer rows.Close()

	var conflicts []domain.Conflict
	for rows.Next() {
		var c domain.Conflict
		var category string
		err := rows.Scan(
			&category, &c.Semester, &c.Subject, &c.Group, &c.Weekday, &c.TimeSlot,
			&c.Date, &c.Classroom, &c.Professor, &c.Detail,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning run conflict row: %w", err)
		}
		c.Category = domain.ConflictCategory(category)
		conflicts = append(conflicts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run conflicts: %w", err)
	}
	return conflicts, nil
}

// scanRun scans a single run from a *sql.Row.
func (r *SQLiteRunRepo) scanRun(row *sql.Row) (*domain.Run, error) {
	var run domain.Run
	var state, startedAtStr string
	var finishedAt sql.NullString

	err := row.Scan(
		&run.ID, &run.ConfigPath, &state, &run.Workers,
		&run.GroupCount, &run.ConflictCount, &startedAtStr, &finishedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("run: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	return r.populateRun(&run, state, startedAtStr, finishedAt)
}

// scanRuns scans multiple runs from *sql.Rows.
func (r *SQLiteRunRepo) scanRuns(rows *sql.Rows) ([]*domain.Run, error) {
	var runs []*domain.Run
	for rows.Next() {
		var run domain.Run
		var state, startedAtStr string
		var finishedAt sql.NullString

		err := rows.Scan(
			&run.ID, &run.ConfigPath, &state, &run.Workers,
			&run.GroupCount, &run.ConflictCount, &startedAtStr, &finishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}

		populated, popErr := r.populateRun(&run, state, startedAtStr, finishedAt)
		if popErr != nil {
			return nil, popErr
		}
		runs = append(runs, populated)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// populateRun fills in parsed fields on a Run after scanning raw strings.
func (r *SQLiteRunRepo) populateRun(run *domain.Run, state, startedAtStr string, finishedAt sql.NullString) (*domain.Run, error) {
	run.State = domain.RunState(state)

	var parseErr error
	run.StartedAt, parseErr = time.Parse(time.RFC3339, startedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing started_at: %w", parseErr)
	}
	run.FinishedAt = parseNullableTime(finishedAt, time.RFC3339)

	return run, nil
}

// marshalDates encodes session dates as a JSON array of ISO strings.
func marshalDates(dates []time.Time) (string, error) {
	iso := make([]string, len(dates))
	for i, d := range dates {
		iso[i] = d.Format(domain.ISODateLayout)
	}
	return marshalStrings(iso)
}

func unmarshalDates(raw string) ([]time.Time, error) {
	var iso []string
	if err := json.Unmarshal([]byte(raw), &iso); err != nil {
		return nil, err
	}
	dates := make([]time.Time, 0, len(iso))
	for _, s := range iso {
		d, ok := domain.ParseISODate(s)
		if !ok {
			return nil, fmt.Errorf("malformed stored date %q", s)
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// marshalStrings encodes a string slice, storing nil as "[]" so loads
// round-trip to an empty slice rather than null.
func marshalStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	out, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
