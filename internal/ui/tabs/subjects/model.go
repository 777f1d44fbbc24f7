// Package subjects provides the character list tab.
package subjects

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"chatstat/internal/app"
	"chatstat/internal/models"
	"chatstat/internal/services"
	"chatstat/internal/ui/components"
	"chatstat/internal/ui/styles"
)

// combinedRowLabel is the display name of the synthetic first row that
// selects the combined view across every character.
const combinedRowLabel = "All characters"

// keyMap defines the key bindings specific to the subjects tab.
type keyMap struct {
	Enter   key.Binding
	Refresh key.Binding
	Up      key.Binding
	Down    key.Binding
}

// defaultKeyMap returns the default key bindings for the subjects tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select character"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// Model represents the subjects tab state.
type Model struct {
	state    *app.State
	services *services.Manager
	table    table.Model
	spinner  components.LoadingSpinner
	keys     keyMap
	width    int
	height   int
}

// New creates a new subjects model.
func New(state *app.State, svc *services.Manager) *Model {
	columns := []table.Column{
		{Title: "Character", Width: 30},
		{Title: "Messages", Width: 10},
		{Title: "Share", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Subtle).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.TextPrimary).
		Background(styles.BgAccent).
		Bold(true)
	t.SetStyles(s)

	return &Model{
		state:    state,
		services: svc,
		table:    t,
		spinner:  components.NewSpinner("Loading characters..."),
		keys:     defaultKeyMap(),
	}
}

// Init initializes the subjects tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the subjects tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Enter):
			if subject := m.selectedSubject(); subject != "" {
				m.state.SetSelectedSubjectIndex(m.table.Cursor())
				return m, func() tea.Msg {
					return app.SubjectSelectedMsg{Subject: subject}
				}
			}

		default:
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			cmds = append(cmds, cmd)
		}

	case app.SubjectsLoadedMsg:
		m.updateTableData()
	}

	return m, tea.Batch(cmds...)
}

// selectedSubject maps the highlighted row back to a subject key.
func (m *Model) selectedSubject() string {
	row := m.table.SelectedRow()
	if len(row) == 0 {
		return ""
	}
	if row[0] == combinedRowLabel {
		return models.SubjectAll
	}
	return row[0]
}

// updateTableData rebuilds the table rows from the current state.
func (m *Model) updateTableData() {
	subjects := m.state.GetSubjects()
	counts, total := m.messageCounts()

	rows := make([]table.Row, 0, len(subjects)+1)
	rows = append(rows, table.Row{
		combinedRowLabel,
		formatMessageCount(total, total > 0),
		"100%",
	})

	for _, subject := range subjects {
		count, known := counts[subject]
		share := "-"
		if known && total > 0 {
			share = formatShare(float64(count) / float64(total) * 100)
		}
		rows = append(rows, table.Row{
			subject,
			formatMessageCount(count, known),
			share,
		})
	}

	m.table.SetRows(rows)
}

// messageCounts reads per-character message counts from the cached
// combined snapshot, without triggering a fetch.
func (m *Model) messageCounts() (map[string]int, int) {
	if m.services == nil {
		return nil, 0
	}
	entry := m.services.GetSnapshot(models.SubjectAll, models.DateRange{})
	if entry == nil || entry.Snapshot == nil {
		return nil, 0
	}
	return entry.Snapshot.CharacterUsage, entry.Snapshot.TotalMessages
}

// formatMessageCount formats a count, showing a dash until data exists.
func formatMessageCount(count int, known bool) string {
	if !known {
		return "-"
	}
	return fmt.Sprintf("%d", count)
}

// formatShare formats a percentage share for display.
func formatShare(p float64) string {
	if p >= 100 {
		return "100%"
	}
	if p < 1 {
		return "<1%"
	}
	return fmt.Sprintf("%.0f%%", p)
}

// SetSize sets the available size for the subjects tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(height-10, 3))

	nameWidth := width - 30
	if nameWidth < 20 {
		nameWidth = 20
	}
	if nameWidth > 40 {
		nameWidth = 40
	}

	columns := []table.Column{
		{Title: "Character", Width: nameWidth},
		{Title: "Messages", Width: 10},
		{Title: "Share", Width: 8},
	}
	m.table.SetColumns(columns)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Enter,
		m.keys.Refresh,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Enter, m.keys.Refresh},
		{m.keys.Up, m.keys.Down},
	}
}
