package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olabarga/labplan/internal/teatest"
)

func TestBrowseModel_EmptyHistory(t *testing.T) {
	app := testApp(t)

	d := teatest.New(t, newBrowseModel(app))
	d.DrainInit()

	assert.Contains(t, d.View(), "No runs recorded.")
}

func TestBrowseModel_OpensRunAndGoesBack(t *testing.T) {
	app := testApp(t)
	cfgPath := writeOrganizableDoc(t)
	runID := organizeDoc(t, app, cfgPath)

	d := teatest.New(t, newBrowseModel(app))
	d.DrainInit()

	view := d.View()
	assert.Contains(t, view, runID[:8])
	assert.Contains(t, view, cfgPath)
	assert.Contains(t, view, "enter: open")

	d.PressEnter()
	view = d.View()
	assert.Contains(t, view, runID, "detail shows the full ID")
	assert.Contains(t, view, "A401-01")
	assert.Contains(t, view, "Ana Ruiz")

	d.PressEsc()
	assert.Contains(t, d.View(), "enter: open")
	assert.False(t, d.Quitting)

	d.PressEsc()
	assert.True(t, d.Quitting, "esc on the list quits")
}

func TestBrowseModel_CursorNavigatesRuns(t *testing.T) {
	app := testApp(t)
	firstID := organizeDoc(t, app, writeOrganizableDoc(t))
	secondID := organizeDoc(t, app, writeOrganizableDoc(t))

	d := teatest.New(t, newBrowseModel(app))
	d.DrainInit()

	// Newest first: the cursor starts on the second run.
	d.PressDown()
	d.PressEnter()
	assert.Contains(t, d.View(), firstID)

	d.PressEsc()
	d.PressUp()
	d.PressEnter()
	assert.Contains(t, d.View(), secondID)
}

func TestBrowseModel_QuitKey(t *testing.T) {
	app := testApp(t)

	d := teatest.New(t, newBrowseModel(app))
	d.DrainInit()
	d.PressKey('q')

	assert.True(t, d.Quitting)
}

func TestBrowseModel_ListsBothRuns(t *testing.T) {
	app := testApp(t)
	firstID := organizeDoc(t, app, writeOrganizableDoc(t))
	secondID := organizeDoc(t, app, writeOrganizableDoc(t))
	require.NotEqual(t, firstID, secondID)

	d := teatest.New(t, newBrowseModel(app))
	d.DrainInit()

	view := d.View()
	assert.Contains(t, view, firstID[:8])
	assert.Contains(t, view, secondID[:8])
	assert.Contains(t, view, "2 groups, 0 conflicts")
}

func TestBrowseModel_FilterNarrowsRuns(t *testing.T) {
	app := testApp(t)
	firstID := organizeDoc(t, app, writeOrganizableDoc(t))
	secondID := organizeDoc(t, app, writeOrganizableDoc(t))

	d := teatest.New(t, newBrowseModel(app))
	d.DrainInit()
	assert.Contains(t, d.View(), "/: filter")

	d.PressKey('/')
	for _, r := range firstID[:8] {
		d.PressKey(r)
	}
	assert.NotContains(t, d.View(), secondID[:8])

	d.PressEnter()
	view := d.View()
	assert.Contains(t, view, firstID[:8])
	assert.NotContains(t, view, secondID[:8])

	d.PressEnter()
	assert.Contains(t, d.View(), firstID, "enter opens the surviving run")
}

func TestBrowseModel_FilterEscClears(t *testing.T) {
	app := testApp(t)
	firstID := organizeDoc(t, app, writeOrganizableDoc(t))
	secondID := organizeDoc(t, app, writeOrganizableDoc(t))

	d := teatest.New(t, newBrowseModel(app))
	d.DrainInit()

	d.PressKey('/')
	for _, r := range "zzz" {
		d.PressKey(r)
	}
	assert.Contains(t, d.View(), "No runs match.")

	d.PressEsc()
	view := d.View()
	assert.Contains(t, view, firstID[:8])
	assert.Contains(t, view, secondID[:8])
	assert.False(t, d.Quitting, "esc only cleared the filter")
}
