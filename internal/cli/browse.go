package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/olabarga/labplan/internal/cli/formatter"
	"github.com/olabarga/labplan/internal/domain"
)

// runsLoadedMsg signals that the run history has been loaded.
type runsLoadedMsg struct {
	runs []*domain.Run
	err  error
}

// runDetailMsg signals that one run's groups and conflicts have been loaded.
type runDetailMsg struct {
	detail string
	err    error
}

type browseKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Filter key.Binding
	Back   key.Binding
	Quit   key.Binding
}

var browseKeys = browseKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Back:   key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// browseModel is an interactive, navigable view over recorded runs.
// Enter opens a run's groups and conflicts, / filters by id or config
// path, esc goes back, q quits.
type browseModel struct {
	app     *App
	runs    []*domain.Run
	cursor  int
	loading bool
	detail  string
	err     error

	filtering bool
	filter    string
}

func newBrowseModel(app *App) *browseModel {
	return &browseModel{app: app, loading: true}
}

func (m *browseModel) Init() tea.Cmd {
	return m.loadRuns()
}

func (m *browseModel) loadRuns() tea.Cmd {
	app := m.app
	return func() tea.Msg {
		runs, err := app.Runs.List(context.Background(), 100)
		return runsLoadedMsg{runs: runs, err: err}
	}
}

func (m *browseModel) loadDetail(runID string) tea.Cmd {
	app := m.app
	return func() tea.Msg {
		ctx := context.Background()
		run, err := app.Runs.GetByID(ctx, runID)
		if err != nil {
			return runDetailMsg{err: err}
		}
		groups, err := app.Runs.Groups(ctx, runID)
		if err != nil {
			return runDetailMsg{err: err}
		}
		conflicts, err := app.Runs.Conflicts(ctx, runID)
		if err != nil {
			return runDetailMsg{err: err}
		}
		return runDetailMsg{detail: formatter.FormatRunDetail(run, groups, conflicts)}
	}
}

func (m *browseModel) inDetail() bool {
	return m.detail != "" || m.err != nil
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case runsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.runs = msg.runs
		return m, nil

	case runDetailMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.detail = msg.detail
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		visible := m.visibleRuns()
		switch {
		case key.Matches(msg, browseKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, browseKeys.Back):
			if m.inDetail() {
				m.detail = ""
				m.err = nil
				return m, nil
			}
			return m, tea.Quit
		case key.Matches(msg, browseKeys.Up):
			if !m.inDetail() && m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, browseKeys.Down):
			if !m.inDetail() && m.cursor < len(visible)-1 {
				m.cursor++
			}
		case key.Matches(msg, browseKeys.Open):
			if !m.inDetail() && m.cursor < len(visible) {
				m.loading = true
				return m, m.loadDetail(visible[m.cursor].ID)
			}
		case key.Matches(msg, browseKeys.Filter):
			if !m.inDetail() {
				m.filtering = true
				m.filter = ""
				m.cursor = 0
			}
		}
	}
	return m, nil
}

func (m *browseModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filtering = false
		m.filter = ""
		m.cursor = 0
	case tea.KeyEnter:
		m.filtering = false
	case tea.KeyBackspace:
		if len(m.filter) > 0 {
			m.filter = m.filter[:len(m.filter)-1]
			m.cursor = 0
		}
	default:
		if len(msg.String()) == 1 {
			m.filter += msg.String()
			m.cursor = 0
		}
	}
	return m, nil
}

// visibleRuns narrows the history to runs whose short id or config path
// contains the filter text.
func (m *browseModel) visibleRuns() []*domain.Run {
	if m.filter == "" {
		return m.runs
	}
	lf := strings.ToLower(m.filter)
	var filtered []*domain.Run
	for _, r := range m.runs {
		if strings.Contains(strings.ToLower(r.ShortID()), lf) ||
			strings.Contains(strings.ToLower(r.ConfigPath), lf) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func (m *browseModel) View() string {
	if m.loading {
		return "\n  " + formatter.Dim("Loading runs...") + "\n"
	}
	if m.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n\n  " + m.helpLine()
	}
	if m.detail != "" {
		return "\n" + m.detail + "\n  " + m.helpLine()
	}

	var b strings.Builder
	b.WriteString("\n  " + formatter.Header("Runs") + "\n")

	if m.filtering {
		b.WriteString("  " + formatter.StyleYellow.Render("/") + " " + m.filter + "█\n\n")
	}

	if len(m.runs) == 0 {
		b.WriteString("  " + formatter.Dim("No runs recorded.") + "\n")
		return b.String()
	}

	visible := m.visibleRuns()
	if len(visible) == 0 {
		b.WriteString("  " + formatter.Dim("No runs match.") + "\n")
		return b.String()
	}

	for i, r := range visible {
		cursor := "  "
		idStyle := formatter.StyleFg
		if i == m.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			idStyle = formatter.StyleBold
		}
		b.WriteString(fmt.Sprintf("%s%s %s  %s  %s\n",
			cursor,
			idStyle.Render(r.ShortID()),
			formatter.RunBadge(r.State),
			r.ConfigPath,
			formatter.Dim(fmt.Sprintf("%d groups, %d conflicts", r.GroupCount, r.ConflictCount)),
		))
	}

	b.WriteString("\n  " + m.helpLine())
	return b.String()
}

func (m *browseModel) helpLine() string {
	bindings := []key.Binding{browseKeys.Up, browseKeys.Down, browseKeys.Open, browseKeys.Filter, browseKeys.Quit}
	if m.inDetail() {
		bindings = []key.Binding{browseKeys.Back, browseKeys.Quit}
	}
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		hints = append(hints, b.Help().Key+": "+b.Help().Desc)
	}
	return formatter.Dim(strings.Join(hints, "  ")) + "\n"
}

func newRunsBrowseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse runs interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("browse needs an interactive terminal")
			}
			_, err := tea.NewProgram(newBrowseModel(app), tea.WithAltScreen()).Run()
			return err
		},
	}
}
