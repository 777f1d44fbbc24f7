package subjects

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"chatstat/internal/models"
	"chatstat/internal/ui/components"
	"chatstat/internal/ui/styles"
)

// View renders the subjects tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return m.renderLoading()
	}

	var sections []string

	sections = append(sections, m.renderTitle())

	if m.state.GetSubjectCount() == 0 {
		sections = append(sections, m.renderEmptyState())
	} else {
		sections = append(sections, m.renderTable())
	}

	sections = append(sections, m.renderFooter())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

// renderLoading renders the loading state.
func (m *Model) renderLoading() string {
	return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
}

// renderTitle renders the subjects tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Characters")

	selected := m.state.GetSelectedSubject()
	name := selected
	if selected == models.SubjectAll {
		name = combinedRowLabel
	}
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%d characters · showing %s",
		m.state.GetSubjectCount(), name))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// renderTable renders the character table.
func (m *Model) renderTable() string {
	m.updateTableData()

	cardWidth := m.width - 6
	if cardWidth < 50 {
		cardWidth = 50
	}

	return styles.CardStyle.Width(cardWidth).Render(m.table.View())
}

// renderEmptyState renders the empty state when no characters exist.
func (m *Model) renderEmptyState() string {
	cardWidth := m.width - 6
	if cardWidth < 40 {
		cardWidth = 40
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		styles.SubTitleStyle.Render("No Characters Found"),
		"",
		styles.HelpStyle.Render("No chat transcripts were discovered."),
		"",
		styles.InfoTextStyle.Render("Press 'r' to reload the character list"),
		"",
	)

	return styles.CardStyle.Width(cardWidth).Render(content)
}

// renderFooter renders the footer with keyboard shortcuts.
func (m *Model) renderFooter() string {
	shortcuts := []string{
		styles.HelpKeyStyle.Render("Enter") + " select",
		styles.HelpKeyStyle.Render("j/k") + " move",
		styles.HelpKeyStyle.Render("r") + " refresh",
	}

	footer := ""
	for i, s := range shortcuts {
		if i > 0 {
			footer += styles.HelpStyle.Render(" | ")
		}
		footer += s
	}

	return lipgloss.NewStyle().
		MarginTop(1).
		Foreground(styles.TextMuted).
		Render(footer)
}
