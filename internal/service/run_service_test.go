package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olabarga/labplan/internal/domain"
	"github.com/olabarga/labplan/internal/repository"
	"github.com/olabarga/labplan/internal/testutil"
)

func runServiceSetup(t *testing.T) (RunService, *repository.SQLiteRunRepo) {
	t.Helper()
	repo := repository.NewSQLiteRunRepo(testutil.NewTestDB(t))
	return NewRunService(repo), repo
}

func exportedGroup(label string) *domain.LabGroup {
	return &domain.LabGroup{
		ID:        "id-" + label,
		Semester:  "semestre_1",
		Subject:   "Redes",
		GroupCode: "A401",
		Label:     label,
		Letter:    "A",
		Weekday:   "Lunes",
		TimeSlot:  "10:00-12:00",
		Classroom: "L-1.1",
		Capacity:  24,
		Dates: []time.Time{
			time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC),
		},
		Students: []string{"s01", "s02"},
	}
}

func TestRunService_ListNewestFirstWithDefaultLimit(t *testing.T) {
	svc, repo := runServiceSetup(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		run := testutil.NewTestRun("labs.json", testutil.WithStartedAt(base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, repo.Create(ctx, run))
		ids = append(ids, run.ID)
	}

	two, err := svc.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	assert.Equal(t, ids[2], two[0].ID)
	assert.Equal(t, ids[1], two[1].ID)

	// Zero falls back to the default page size.
	all, err := svc.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRunService_GetByID_Missing(t *testing.T) {
	svc, _ := runServiceSetup(t)

	_, err := svc.GetByID(context.Background(), "nope")

	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRunService_DeleteCascades(t *testing.T) {
	svc, repo := runServiceSetup(t)
	ctx := context.Background()

	run := testutil.NewTestRun("labs.json")
	require.NoError(t, repo.Create(ctx, run))
	require.NoError(t, repo.SaveGroups(ctx, run.ID, []*domain.LabGroup{exportedGroup("A401-01")}))

	require.NoError(t, svc.Delete(ctx, run.ID))

	_, err := repo.GetByID(ctx, run.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
	groups, err := repo.GroupsByRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestRunService_DeleteMissingRun(t *testing.T) {
	svc, _ := runServiceSetup(t)

	err := svc.Delete(context.Background(), "nope")

	require.ErrorIs(t, err, repository.ErrNotFound)
	assert.Contains(t, err.Error(), "loading run nope")
}

func TestRunService_ExportCSV(t *testing.T) {
	svc, repo := runServiceSetup(t)
	ctx := context.Background()

	run := testutil.NewTestRun("labs.json")
	require.NoError(t, repo.Create(ctx, run))
	require.NoError(t, repo.SaveGroups(ctx, run.ID, []*domain.LabGroup{
		exportedGroup("A401-01"),
		exportedGroup("A401-02"),
	}))

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(ctx, run.ID, &buf))

	out := buf.String()
	assert.Contains(t, out, "semestre,asignatura,grupo")
	assert.Contains(t, out, "A401-01")
	assert.Contains(t, out, "A401-02")
	assert.Contains(t, out, "s01;s02")
}

func TestRunService_ExportCSV_MissingRun(t *testing.T) {
	svc, _ := runServiceSetup(t)

	var buf bytes.Buffer
	err := svc.ExportCSV(context.Background(), "nope", &buf)

	require.ErrorIs(t, err, repository.ErrNotFound)
	assert.Zero(t, buf.Len())
}
