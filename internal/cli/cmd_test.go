package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olabarga/labplan/internal/repository"
	"github.com/olabarga/labplan/internal/service"
	"github.com/olabarga/labplan/internal/testutil"
)

// testApp wires a full App backed by an in-memory DB for CLI
// integration tests. Stdin is never a terminal here, so prompts are
// off and commands fall back to their --yes paths.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	runRepo := repository.NewSQLiteRunRepo(database)

	return &App{
		Organize:      service.NewOrganizeService(runRepo, testutil.NewTestUoW(database), nil),
		Validate:      service.NewValidateService(),
		Runs:          service.NewRunService(runRepo),
		Imports:       service.NewImportService(),
		IsInteractive: func() bool { return false },
	}
}

// writeOrganizableDoc saves a document every phase completes on and
// returns its path.
func writeOrganizableDoc(t *testing.T) string {
	t.Helper()
	return testutil.NewConfigBuilder().
		WithTotalWeeks(4).
		AddSubject("Redes", "1").
		AddGroup("Redes", "A401", 1, 2).
		AddGroup("Redes", "A402", 1, 2).
		AddGridCell("semestre_1", "Redes", "10:00-12:00", "Lunes", []string{"A401"}, []string{"A", "B"}).
		AddCalendarDates("semestre_1", "Lunes", testutil.WeeklyDates("2026-02-02", 4)...).
		AddClassroom("L-1.1", 24, true, "Redes").
		AddProfessor("p01", "Ana Ruiz", []string{"Redes"}, nil).
		AddStudent("s01", "Redes", "A401").
		AddStudent("s02", "Redes", "A401").
		AddStudent("s03", "Redes", "A401").
		WriteTo(t, t.TempDir())
}

// writeBrokenDoc saves a document validation rejects: two usable weeks
// cannot hold a five-session block.
func writeBrokenDoc(t *testing.T) string {
	t.Helper()
	return testutil.NewConfigBuilder().
		WithTotalWeeks(4).
		AddSubject("Redes", "1").
		AddGroup("Redes", "A401", 3, 5).
		AddGridCell("semestre_1", "Redes", "10:00-12:00", "Lunes", []string{"A401"}, []string{"A"}).
		AddCalendarDates("semestre_1", "Lunes", testutil.WeeklyDates("2026-02-02", 4)...).
		AddClassroom("L-1.1", 24, true, "Redes").
		WriteTo(t, t.TempDir())
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// organizeDoc runs a full organization through the CLI and returns the
// recorded run's ID.
func organizeDoc(t *testing.T, app *App, cfgPath string) string {
	t.Helper()
	_, err := executeCmd(t, app, "organize", "--config", cfgPath)
	require.NoError(t, err)

	runs, err := app.Runs.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	return runs[0].ID
}

// --- validate ---

func TestValidateCmd_CleanDocument(t *testing.T) {
	app := testApp(t)
	cfgPath := writeOrganizableDoc(t)

	out, err := executeCmd(t, app, "validate", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "configuration OK")
}

func TestValidateCmd_CriticalsExitNonZero(t *testing.T) {
	app := testApp(t)
	cfgPath := writeBrokenDoc(t)

	out, err := executeCmd(t, app, "validate", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "critical findings")
	assert.Contains(t, out, "configuration rejected")
}

func TestValidateCmd_MissingDocument(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "validate", "--config", "no-such-dir/configuracion_labs.json")
	assert.Error(t, err)
}

func TestValidateCmd_RejectsBadSemester(t *testing.T) {
	app := testApp(t)
	cfgPath := writeOrganizableDoc(t)

	_, err := executeCmd(t, app, "validate", "--config", cfgPath, "--semester", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "semester must be 1 or 2")
}

// --- organize ---

func TestOrganizeCmd_FullRun(t *testing.T) {
	app := testApp(t)
	cfgPath := writeOrganizableDoc(t)

	out, err := executeCmd(t, app, "organize", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "2 groups organized")
	assert.Contains(t, out, "results written to "+cfgPath)

	runs, err := app.Runs.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestOrganizeCmd_DryRunRecordsNothing(t *testing.T) {
	app := testApp(t)
	cfgPath := writeOrganizableDoc(t)

	out, err := executeCmd(t, app, "organize", "--config", cfgPath, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "2 groups organized")
	assert.NotContains(t, out, "results written to")

	runs, err := app.Runs.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestOrganizeCmd_ExistingResultsNeedYes(t *testing.T) {
	app := testApp(t)
	cfgPath := writeOrganizableDoc(t)
	organizeDoc(t, app, cfgPath)

	// Not a terminal and no --yes: the overwrite is refused.
	_, err := executeCmd(t, app, "organize", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RESULTS_EXIST")

	out, err := executeCmd(t, app, "organize", "--config", cfgPath, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "2 groups organized")
}

func TestOrganizeCmd_FailedOrganizationReturnsError(t *testing.T) {
	app := testApp(t)
	cfgPath := writeBrokenDoc(t)

	out, err := executeCmd(t, app, "organize", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "organization failed")
	assert.Contains(t, out, "✗ CRITICAL")
}

func TestOrganizeCmd_WritesCSV(t *testing.T) {
	app := testApp(t)
	cfgPath := writeOrganizableDoc(t)
	csvPath := filepath.Join(t.TempDir(), "grupos.csv")

	_, err := executeCmd(t, app, "organize", "--config", cfgPath, "--csv", csvPath)
	require.NoError(t, err)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "semestre,asignatura,grupo")
	assert.Contains(t, string(data), "A401-01")
}

// --- runs ---

func TestRunsListCmd_Empty(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "runs", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "no runs recorded")
}

func TestRunsListCmd_ShowsRecordedRun(t *testing.T) {
	app := testApp(t)
	cfgPath := writeOrganizableDoc(t)
	runID := organizeDoc(t, app, cfgPath)

	out, err := executeCmd(t, app, "runs", "list")
	require.NoError(t, err)
	assert.Contains(t, out, runID[:8])
	assert.Contains(t, out, cfgPath)
}

func TestRunsShowCmd_ResolvesPrefix(t *testing.T) {
	app := testApp(t)
	cfgPath := writeOrganizableDoc(t)
	runID := organizeDoc(t, app, cfgPath)

	out, err := executeCmd(t, app, "runs", "show", runID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, runID)
	assert.Contains(t, out, "A401-01")
	assert.Contains(t, out, "Ana Ruiz")
}

func TestRunsShowCmd_NotFound(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "runs", "show", "deadbeef")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestRunsRemoveCmd_RefusesWithoutYes(t *testing.T) {
	app := testApp(t)
	cfgPath := writeOrganizableDoc(t)
	runID := organizeDoc(t, app, cfgPath)

	_, err := executeCmd(t, app, "runs", "remove", runID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
}

func TestRunsRemoveCmd_WithYes(t *testing.T) {
	app := testApp(t)
	cfgPath := writeOrganizableDoc(t)
	runID := organizeDoc(t, app, cfgPath)

	out, err := executeCmd(t, app, "runs", "remove", runID, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed run "+runID)

	runs, err := app.Runs.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRunsBrowseCmd_NeedsTerminal(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "runs", "browse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}

// --- export ---

func TestExportCmd_Stdout(t *testing.T) {
	app := testApp(t)
	cfgPath := writeOrganizableDoc(t)
	runID := organizeDoc(t, app, cfgPath)

	out, err := executeCmd(t, app, "export", runID)
	require.NoError(t, err)
	assert.Contains(t, out, "semestre,asignatura,grupo")
	assert.Contains(t, out, "A401-01")
}

func TestExportCmd_ToFile(t *testing.T) {
	app := testApp(t)
	cfgPath := writeOrganizableDoc(t)
	runID := organizeDoc(t, app, cfgPath)
	outPath := filepath.Join(t.TempDir(), "grupos.csv")

	out, err := executeCmd(t, app, "export", runID, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported run "+runID[:8])

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "A401-02")
}

// --- students import ---

const cmdYAMLRoster = `alumnos:
  "00000001a":
    nombre: maría
    apellidos: lópez garcía
    email: Maria.Lopez@alumnos.upm.es
    asignaturas_matriculadas:
      Redes:
        grupo: a401
  "00000002B":
    nombre: juan
    apellidos: ruiz pérez
    asignaturas_matriculadas:
      Redes:
        grupo: A402
`

func TestStudentsImportCmd_YAML(t *testing.T) {
	app := testApp(t)
	cfgPath := writeOrganizableDoc(t)
	rosterPath := filepath.Join(t.TempDir(), "alumnos.yaml")
	require.NoError(t, os.WriteFile(rosterPath, []byte(cmdYAMLRoster), 0o644))

	out, err := executeCmd(t, app, "students", "import", rosterPath, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 students (0 updated)")
}

func TestStudentsImportCmd_UnsupportedFormat(t *testing.T) {
	app := testApp(t)
	cfgPath := writeOrganizableDoc(t)
	rosterPath := filepath.Join(t.TempDir(), "alumnos.csv")
	require.NoError(t, os.WriteFile(rosterPath, []byte("dni;nombre\n"), 0o644))

	_, err := executeCmd(t, app, "students", "import", rosterPath, "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported roster format")
}

// --- calendar import ---

const cmdCalendarHTML = `<html><body>
<h3>Calendario de sesiones</h3>
<table>
<tr><th>Día</th><th>Fecha</th></tr>
<tr><td>Lunes</td><td>02/02/2026</td></tr>
<tr><td>Lunes</td><td>09/02/2026</td></tr>
</table>
</body></html>`

func TestCalendarImportCmd_ReplacesSemester(t *testing.T) {
	app := testApp(t)
	cfgPath := writeOrganizableDoc(t)
	htmlPath := filepath.Join(t.TempDir(), "calendario.html")
	require.NoError(t, os.WriteFile(htmlPath, []byte(cmdCalendarHTML), 0o644))

	out, err := executeCmd(t, app, "calendar", "import", htmlPath, "--config", cfgPath, "--semester", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Replaced semestre_1 with 2 dated sessions")
}

func TestCalendarImportCmd_RejectsBadSemester(t *testing.T) {
	app := testApp(t)
	cfgPath := writeOrganizableDoc(t)
	htmlPath := filepath.Join(t.TempDir(), "calendario.html")
	require.NoError(t, os.WriteFile(htmlPath, []byte(cmdCalendarHTML), 0o644))

	_, err := executeCmd(t, app, "calendar", "import", htmlPath, "--config", cfgPath, "--semester", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "semester must be 1 or 2")
}
