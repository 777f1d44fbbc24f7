package activity

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"chatstat/internal/models"
	"chatstat/internal/ui/components"
	"chatstat/internal/ui/styles"
)

// maxChartDays bounds the daily series so a years-long archive still
// renders a readable chart.
const maxChartDays = 365

// View renders the activity tab.
func (m *Model) View() string {
	if m.state.Loading.Snapshot {
		return m.renderLoading()
	}

	snap := m.state.GetSnapshot()
	if snap == nil || snap.TotalMessages == 0 {
		return m.renderEmpty()
	}

	var sections []string

	sections = append(sections,
		m.renderHeader(snap),
		m.renderDailyChart(snap),
		m.renderHourlyHeatmap(snap),
		m.renderWeekdayPattern(snap),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderLoading() string {
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(styles.HelpStyle.Render("Computing statistics..."))
}

func (m *Model) renderEmpty() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Activity"),
		"",
		styles.HelpStyle.Render("No activity recorded for this view."),
		styles.HelpStyle.Render("Press 'd' to widen the date range."),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader(snap *models.Snapshot) string {
	subject := m.state.GetSelectedSubject()
	name := subject
	if subject == models.SubjectAll {
		name = "All characters"
	}

	title := styles.TitleStyle.Render("Activity: " + name)

	rangeStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary)

	rangeIndicator := rangeStyle.Render(fmt.Sprintf("[d] %s", m.timeRange.String()))

	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", rangeIndicator)

	var subtitle string
	if snap.FirstActiveDay != "" {
		subtitle = styles.HelpStyle.Render(fmt.Sprintf("Data: %s → %s (%d active days)",
			snap.FirstActiveDay,
			snap.LastActiveDay,
			snap.DaysActive,
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, subtitle, "")
}

func (m *Model) renderDailyChart(snap *models.Snapshot) string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Daily Activity")), "")

	messages, minutes := dailySeries(snap)
	if len(messages) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No daily data available"))
	} else {
		chartWidth := max(cardWidth-12, 30)
		chartHeight := 8

		chart := components.RenderDualLineChart(messages, minutes, chartWidth, chartHeight,
			fmt.Sprintf("%d days - messages (blue) vs reading minutes (red)", len(messages)))

		for _, line := range strings.Split(chart, "\n") {
			rows = append(rows, "  "+line)
		}

		rows = append(rows, "")
		legend := components.RenderLegend([]components.LegendItem{
			{Label: "Messages", Color: components.ChartUserColor},
			{Label: "Minutes", Color: components.ChartAIColor},
		})
		rows = append(rows, "  "+legend)
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderHourlyHeatmap(snap *models.Snapshot) string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◎")
	rows = append(rows,
		fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Hourly Pattern")),
		"",
	)

	hourly := make([]float64, 24)
	total := 0
	for hour, count := range snap.HourlyActivity {
		hourly[hour] = float64(count)
		total += count
	}

	if total == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No hourly data available"))
	} else {
		rows = append(rows, "  "+components.RenderHourlyHeatmap(hourly))

		peakHour, peakCount := peakOf(snap.HourlyActivity[:])
		rows = append(rows, "")
		rows = append(rows, fmt.Sprintf("  Peak: %s (%d messages)",
			lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).
				Render(fmt.Sprintf("%02d:00-%02d:00", peakHour, (peakHour+1)%24)),
			peakCount,
		))
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderWeekdayPattern(snap *models.Snapshot) string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◆")
	rows = append(rows,
		fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Weekday Pattern")),
		"",
	)

	weekly, names := weekdaySeries(snap.DailyActivity)
	if weekly == nil {
		rows = append(rows, styles.HelpStyle.Render("  No weekly data available"))
	} else {
		chartWidth := max(cardWidth-12, 30)
		barChart := components.RenderBarChart(weekly, names, chartWidth)
		for _, line := range strings.Split(barChart, "\n") {
			rows = append(rows, "  "+line)
		}
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// dailySeries converts the sparse per-day counters into contiguous
// message and duration series between the first and last active day.
func dailySeries(snap *models.Snapshot) (messages, minutes []float64) {
	if snap.FirstActiveDay == "" || snap.LastActiveDay == "" {
		return nil, nil
	}

	first, err := time.ParseInLocation(models.DayKeyLayout, snap.FirstActiveDay, time.Local)
	if err != nil {
		return nil, nil
	}
	last, err := time.ParseInLocation(models.DayKeyLayout, snap.LastActiveDay, time.Local)
	if err != nil || last.Before(first) {
		return nil, nil
	}

	days := int(last.Sub(first).Hours()/24) + 1
	if days > maxChartDays {
		first = last.AddDate(0, 0, -(maxChartDays - 1))
		days = maxChartDays
	}

	messages = make([]float64, days)
	minutes = make([]float64, days)
	for i := 0; i < days; i++ {
		key := first.AddDate(0, 0, i).Format(models.DayKeyLayout)
		messages[i] = float64(snap.DailyActivity[key])
		minutes[i] = float64(snap.DailyDuration[key])
	}
	return messages, minutes
}

// weekdaySeries sums the per-day counters by weekday, Sunday first.
func weekdaySeries(daily map[string]int) ([]float64, []string) {
	if len(daily) == 0 {
		return nil, nil
	}

	sums := make([]float64, 7)
	for key, count := range daily {
		t, err := time.ParseInLocation(models.DayKeyLayout, key, time.Local)
		if err != nil {
			continue
		}
		sums[int(t.Weekday())] += float64(count)
	}

	names := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	return sums, names
}

func peakOf(values []int) (index, peak int) {
	for i, v := range values {
		if v > peak {
			peak = v
			index = i
		}
	}
	return index, peak
}
