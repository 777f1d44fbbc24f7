package overview

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"chatstat/internal/models"
	"chatstat/internal/ui/components"
	"chatstat/internal/ui/styles"
)

// View renders the overview tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return m.renderLoading()
	}

	snap := m.state.GetSnapshot()
	if snap == nil {
		return m.renderEmpty()
	}

	var sections []string

	sections = append(sections,
		m.renderTitle(snap),
		m.renderMessagesCard(snap),
		m.renderVolumeCard(snap),
	)

	if len(snap.ModelUsage) > 0 {
		sections = append(sections, m.renderModelUsageCard(snap))
	}
	if m.state.GetSelectedSubject() == models.SubjectAll && len(snap.CharacterUsage) > 0 {
		sections = append(sections, m.renderCharacterUsageCard(snap))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderLoading renders the loading state.
func (m *Model) renderLoading() string {
	return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
}

func (m *Model) renderEmpty() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Overview"),
		"",
		styles.HelpStyle.Render("No statistics available yet."),
		styles.HelpStyle.Render("Press 'r' to refresh."),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

// renderTitle renders the overview title with the subject and range.
func (m *Model) renderTitle(snap *models.Snapshot) string {
	subject := m.state.GetSelectedSubject()
	name := subject
	if subject == models.SubjectAll {
		name = "All characters"
	}

	title := styles.TitleStyle.Render("Overview: " + name)

	var parts []string
	if !snap.Range.IsZero() {
		parts = append(parts, fmt.Sprintf("Range: %s → %s", snap.Range.Start, snap.Range.End))
	}
	if snap.FirstActiveDay != "" {
		parts = append(parts, fmt.Sprintf("Data: %s → %s", snap.FirstActiveDay, snap.LastActiveDay))
	}
	if computedAt := m.state.GetSnapshotComputedAt(); !computedAt.IsZero() {
		parts = append(parts, "Computed "+computedAt.Format("15:04:05"))
	}

	subtitle := styles.HelpStyle.Render(strings.Join(parts, "  ·  "))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderMessagesCard(snap *models.Snapshot) string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Messages")), "")

	rows = append(rows, m.renderStatRow("Chats", fmt.Sprintf("%d", snap.TotalChats)))
	rows = append(rows, m.renderStatRow("Messages", fmt.Sprintf("%d", snap.TotalMessages)))
	rows = append(rows, m.renderStatRow("Avg per chat", fmt.Sprintf("%d", snap.AvgMessagesPerChat)))
	rows = append(rows, m.renderStatRow("Longest chat", fmt.Sprintf("%d messages", snap.MaxMessagesInOneChat)))

	ratio := "—"
	if snap.AIUserRatio > 0 {
		ratio = fmt.Sprintf("%.2f", snap.AIUserRatio)
	}
	rows = append(rows, m.renderStatRow("AI/user ratio", ratio))

	rows = append(rows, "")

	barWidth := max(cardWidth-10, 20)
	rows = append(rows, "  "+components.RenderRatioBar(snap.UserMessages, snap.AIMessages, barWidth))
	legend := components.RenderLegend([]components.LegendItem{
		{Label: fmt.Sprintf("User %d", snap.UserMessages), Color: styles.UserColor},
		{Label: fmt.Sprintf("AI %d", snap.AIMessages), Color: styles.AIColor},
	})
	rows = append(rows, "  "+legend)

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderVolumeCard(snap *models.Snapshot) string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◎")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Volume & Time")), "")

	rows = append(rows, m.renderStatRow("User tokens", formatCount(snap.UserTokens)))
	rows = append(rows, m.renderStatRow("AI tokens", formatCount(snap.AITokens)))
	rows = append(rows, m.renderStatRow("User chars", formatCount(snap.UserChars)))
	rows = append(rows, m.renderStatRow("AI chars", formatCount(snap.AIChars)))
	rows = append(rows, m.renderStatRow("Reading time", formatMinutes(snap.TotalDurationMin)))
	rows = append(rows, m.renderStatRow("Days active", fmt.Sprintf("%d", snap.DaysActive)))

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderModelUsageCard(snap *models.Snapshot) string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("⬡")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Model Usage")), "")

	values, labels := topCounts(snap.ModelUsage, 5)
	chart := components.RenderBarChart(values, labels, max(cardWidth-8, 30))
	for _, line := range strings.Split(chart, "\n") {
		rows = append(rows, "  "+line)
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderCharacterUsageCard(snap *models.Snapshot) string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◆")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Top Characters")), "")

	values, labels := topCounts(snap.CharacterUsage, 5)
	chart := components.RenderBarChart(values, labels, max(cardWidth-8, 30))
	for _, line := range strings.Split(chart, "\n") {
		rows = append(rows, "  "+line)
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderStatRow renders a label-value row.
func (m *Model) renderStatRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(16).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Bold(true)

	return "  " + labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// topCounts returns the largest n entries of a counter map, sorted
// descending with ties broken by name.
func topCounts(counts map[string]int, n int) ([]float64, []string) {
	type entry struct {
		name  string
		count int
	}

	entries := make([]entry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, entry{name, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})

	if len(entries) > n {
		entries = entries[:n]
	}

	values := make([]float64, len(entries))
	labels := make([]string, len(entries))
	for i, e := range entries {
		values[i] = float64(e.count)
		name := e.name
		if len(name) > 20 {
			name = name[:17] + "..."
		}
		labels[i] = name
	}
	return values, labels
}

func formatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 10_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

func formatMinutes(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}
	h := minutes / 60
	mins := minutes % 60
	if h >= 24 {
		days := h / 24
		return fmt.Sprintf("%dd %02dh", days, h%24)
	}
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}
