// Package components provides reusable UI components.
package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"chatstat/internal/logger"
	"chatstat/internal/ui/styles"
)

type AnimationTickMsg time.Time

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*50, func(t time.Time) tea.Msg {
		return AnimationTickMsg(t)
	})
}

// StatBar renders an animated progress bar with label and percentage,
// used for relative shares such as per-character message counts.
type StatBar struct {
	progress       progress.Model
	label          string
	percent        float64
	animationFrame int
	isAnimating    bool
	targetPercent  float64
	currentPercent float64
}

// NewStatBar creates a new stat bar with gradient colors.
func NewStatBar() StatBar {
	p := progress.New(
		progress.WithScaledGradient("#51cf66", "#ff6b6b"),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)

	return StatBar{
		progress:       p,
		label:          "",
		percent:        0,
		animationFrame: 0,
		isAnimating:    false,
		targetPercent:  0,
		currentPercent: 0,
	}
}

// NewStatBarWithWidth creates a stat bar with a specific width.
func NewStatBarWithWidth(width int) StatBar {
	p := progress.New(
		progress.WithScaledGradient("#51cf66", "#ff6b6b"),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)

	return StatBar{
		progress:       p,
		label:          "",
		percent:        0,
		animationFrame: 0,
		isAnimating:    false,
		targetPercent:  0,
		currentPercent: 0,
	}
}

// Init initializes the progress bar model.
func (s StatBar) Init() tea.Cmd {
	return nil
}

// Update handles progress bar animation messages.
func (s StatBar) Update(msg tea.Msg) (StatBar, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg.(type) {
	case AnimationTickMsg:
		if s.isAnimating {
			s.animationFrame++

			if s.currentPercent < s.targetPercent {
				step := (s.targetPercent - s.currentPercent) / 10
				if step < 0.5 {
					step = 0.5
				}
				s.currentPercent += step
				if s.currentPercent > s.targetPercent {
					s.currentPercent = s.targetPercent
				}
				cmds = append(cmds, animationTick())
			} else if s.currentPercent > s.targetPercent {
				step := (s.currentPercent - s.targetPercent) / 10
				if step < 0.5 {
					step = 0.5
				}
				s.currentPercent -= step
				if s.currentPercent < s.targetPercent {
					s.currentPercent = s.targetPercent
				}
				cmds = append(cmds, animationTick())
			} else {
				s.isAnimating = false
			}
		}
	}

	var cmd tea.Cmd
	model, cmd := s.progress.Update(msg)
	s.progress = model.(progress.Model)
	cmds = append(cmds, cmd)

	return s, tea.Batch(cmds...)
}

// SetPercent sets the current percentage.
func (s *StatBar) SetPercent(percent float64) tea.Cmd {
	s.percent = percent
	s.targetPercent = percent

	if !s.isAnimating {
		s.isAnimating = true
		s.animationFrame = 0
		return tea.Batch(
			s.progress.SetPercent(percent/100),
			animationTick(),
		)
	}

	return s.progress.SetPercent(percent / 100)
}

// SetLabel sets the bar label.
func (s *StatBar) SetLabel(label string) {
	s.label = label
}

// SetWidth sets the progress bar width.
func (s *StatBar) SetWidth(width int) {
	s.progress.Width = width
}

// View renders the stat bar with percentage and label.
func (s StatBar) View(percent float64, label string, width int) string {
	// Update the progress bar width
	barWidth := width - 30 // Reserve space for label and percentage
	if barWidth < 10 {
		barWidth = 10
	}
	s.progress.Width = barWidth

	// Render the progress bar
	bar := s.progress.ViewAs(percent / 100)

	// Format percentage with color
	percentStyle := styles.GetActivityStyle(percent)
	percentStr := percentStyle.Width(6).Align(lipgloss.Right).Render(fmt.Sprintf("%.0f%%", percent))

	// Render label
	labelStr := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Width(15).
		Render(label)

	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		labelStr,
		bar,
		" ",
		percentStr,
	)
}

// ViewCompact renders a compact version without label.
func (s StatBar) ViewCompact(percent float64, width int) string {
	barWidth := width - 8
	if barWidth < 5 {
		barWidth = 5
	}
	s.progress.Width = barWidth

	bar := s.progress.ViewAs(percent / 100)
	percentStyle := styles.GetActivityStyle(percent)
	percentStr := percentStyle.Render(fmt.Sprintf("%.0f%%", percent))

	return lipgloss.JoinHorizontal(lipgloss.Center, bar, " ", percentStr)
}

// RenderGradientBar renders just the bar part with gradient colors.
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := int(float64(width) * percent / 100)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	var barChars []string
	for i := 0; i < width; i++ {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor("#51cf66", "#ff6b6b", t)
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			barChars = append(barChars, style.Render("█"))
		} else {
			style := lipgloss.NewStyle().Foreground(styles.Subtle)
			barChars = append(barChars, style.Render("░"))
		}
	}

	return strings.Join(barChars, "")
}

// SimpleStatBar renders a simple ASCII progress bar with gradient colors.
func SimpleStatBar(percent float64, label string, width int) string {
	labelWidth := len(label) + 1
	percentWidth := 6
	barWidth := width - labelWidth - percentWidth - 4

	if barWidth < 5 {
		barWidth = 5
	}

	bar := RenderGradientBar(percent, barWidth)

	labelStr := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render(label)

	percentStr := styles.GetActivityStyle(percent).
		Width(percentWidth).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f%%", percent))

	return fmt.Sprintf("%s [%s] %s", labelStr, bar, percentStr)
}

// RenderRatioBar renders a split bar showing the user vs AI share of a
// total, e.g. message counts or estimated tokens.
func RenderRatioBar(userCount, aiCount int, width int) string {
	if width < 2 {
		return ""
	}

	total := userCount + aiCount
	if total == 0 {
		return lipgloss.NewStyle().
			Foreground(styles.Subtle).
			Render(strings.Repeat("░", width))
	}

	userWidth := int(float64(width) * float64(userCount) / float64(total))
	if userWidth > width {
		userWidth = width
	}
	if userWidth < 0 {
		userWidth = 0
	}

	userPart := lipgloss.NewStyle().
		Foreground(styles.UserColor).
		Render(strings.Repeat("█", userWidth))
	aiPart := lipgloss.NewStyle().
		Foreground(styles.AIColor).
		Render(strings.Repeat("█", width-userWidth))

	return userPart + aiPart
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}

func StatBarLoading(label string, width int, frame int) string {
	const (
		indentWidth  = 4
		percentWidth = 6
	)

	barWidth := width - indentWidth - percentWidth - 4
	if barWidth < 10 {
		barWidth = 10
	}

	accentColor := styles.Primary
	if strings.Contains(strings.ToLower(label), "user") {
		accentColor = styles.UserColor
	} else if strings.Contains(strings.ToLower(label), "ai") {
		accentColor = styles.AIColor
	}

	cycle := 120

	t := float64(frame%cycle) / float64(cycle)
	var p float64
	if t < 0.5 {
		p = t * 2
	} else {
		p = (1 - t) * 2
	}
	eased := p * p * (3 - 2*p)
	shimmerPos := int(eased * float64(barWidth))
	var barChars []string

	for i := 0; i < barWidth; i++ {
		dist := shimmerPos - i
		if dist < 0 {
			dist = -dist
		}

		var char string
		var style lipgloss.Style

		if dist < 3 {
			char = "▓"
			style = lipgloss.NewStyle().Foreground(accentColor)
		} else if dist < 5 {
			char = "▒"
			style = lipgloss.NewStyle().Foreground(styles.TextSecondary)
		} else {
			char = "░"
			style = lipgloss.NewStyle().Foreground(styles.BgLight)
		}

		barChars = append(barChars, style.Render(char))
	}

	bar := strings.Join(barChars, "")

	indent := "    "

	dots := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	dot := dots[(frame/2)%len(dots)]

	loadingStr := lipgloss.NewStyle().
		Width(percentWidth).
		Align(lipgloss.Right).
		Foreground(accentColor).
		Render(dot)

	return lipgloss.JoinHorizontal(lipgloss.Left,
		indent,
		bar,
		" ",
		loadingStr,
	)
}
