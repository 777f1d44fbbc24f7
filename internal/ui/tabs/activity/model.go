// Package activity provides the daily and hourly activity charts tab.
package activity

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"chatstat/internal/app"
	"chatstat/internal/models"
)

// timeRange is the preset window the activity charts cover.
type timeRange int

const (
	rangeAll timeRange = iota
	rangeWeek
	rangeMonth
	rangeQuarter
)

// Next cycles to the following preset.
func (r timeRange) Next() timeRange {
	switch r {
	case rangeAll:
		return rangeWeek
	case rangeWeek:
		return rangeMonth
	case rangeMonth:
		return rangeQuarter
	default:
		return rangeAll
	}
}

// String returns the display label for the preset.
func (r timeRange) String() string {
	switch r {
	case rangeWeek:
		return "7 days"
	case rangeMonth:
		return "30 days"
	case rangeQuarter:
		return "90 days"
	default:
		return "All time"
	}
}

// DateRange converts the preset into a concrete day-key filter ending
// today.
func (r timeRange) DateRange(now time.Time) models.DateRange {
	days := 0
	switch r {
	case rangeWeek:
		days = 7
	case rangeMonth:
		days = 30
	case rangeQuarter:
		days = 90
	default:
		return models.DateRange{}
	}

	end := models.DayKey(now)
	start := models.DayKey(now.AddDate(0, 0, -(days - 1)))
	return models.DateRange{Start: start, End: end}
}

// keyMap defines the key bindings specific to the activity tab.
type keyMap struct {
	CycleRange key.Binding
	Refresh    key.Binding
	Up         key.Binding
	Down       key.Binding
}

// defaultKeyMap returns the default key bindings for the activity tab.
func defaultKeyMap() keyMap {
	return keyMap{
		CycleRange: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "cycle date range"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the activity tab state.
type Model struct {
	state     *app.State
	width     int
	height    int
	keys      keyMap
	viewport  viewport.Model
	timeRange timeRange
}

// New creates a new activity model.
func New(state *app.State) *Model {
	return &Model{
		state:     state,
		keys:      defaultKeyMap(),
		viewport:  viewport.New(0, 0),
		timeRange: rangeAll,
	}
}

// Init initializes the activity tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the activity tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.CycleRange):
			m.timeRange = m.timeRange.Next()
			rng := m.timeRange.DateRange(time.Now())
			cmds = append(cmds, func() tea.Msg {
				return app.RangeChangedMsg{Range: rng}
			})

		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(keyMsg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// SetSize sets the available size for the activity tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.CycleRange,
		m.keys.Refresh,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.CycleRange, m.keys.Refresh},
		{m.keys.Up, m.keys.Down},
	}
}
