package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// styleFunc is a single-string styling function.
type styleFunc func(string) string

// sf wraps a lipgloss.Style into a styleFunc.
func sf(s lipgloss.Style) styleFunc {
	return func(str string) string { return s.Render(str) }
}

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)
	renderProgressBar(&b, m)
	renderPhases(&b, m)
	renderActivity(&b, m)
	renderFooter(&b, m)

	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	title := fmt.Sprintf("vfxt: %s", m.ClusterName)
	if m.Provider != "" {
		title += fmt.Sprintf(" (%s)", m.Provider)
	}
	b.WriteString(headerStyle.Render(title))

	row, running := m.activeRow()

	status := " "
	switch {
	case m.Done:
		status += okStyle.Render("Done")
	case m.Err != nil:
		status += errStyle.Render(fmt.Sprintf("Error: %v", m.Err))
	case running:
		status += busyStyle.Render(currentSpinner(m.SpinnerFrame)+" ") + warnStyle.Render(row.Name)
	default:
		status += faintStyle.Render("Starting...")
	}
	b.WriteString(status)
	b.WriteString("\n")
}

func renderProgressBar(b *strings.Builder, m Model) {
	progress := calculateProgress(m)
	barWidth := 40
	if m.Width > 0 && m.Width < 80 {
		barWidth = m.Width - 30
		if barWidth < 10 {
			barWidth = 10
		}
	}
	filled := int(float64(barWidth) * progress)
	if filled > barWidth {
		filled = barWidth
	}

	bar := barFilled.Render(strings.Repeat("█", filled)) +
		barEmpty.Render(strings.Repeat("░", barWidth-filled))

	pct := int(progress * 100)
	eta := ""
	if m.EstimatedRemaining > 0 {
		eta = fmt.Sprintf(" ETA %s", formatDuration(m.EstimatedRemaining))
	}
	if m.PerformanceScale != 0 && m.PerformanceScale != 1.0 {
		eta += fmt.Sprintf("  speed x%.2f", m.PerformanceScale)
	}

	fmt.Fprintf(b, "  %s %d%%%s\n", bar, pct, eta)
}

func renderPhases(b *strings.Builder, m Model) {
	if len(m.Phases) == 0 {
		return
	}

	b.WriteString(headingStyle.Render("  Phases"))
	b.WriteString("\n")

	for _, phase := range m.Phases {
		var icon string
		var style styleFunc
		switch {
		case phase.Err != nil:
			icon = markFail
			style = sf(errStyle)
		case phase.Done:
			icon = markDone
			style = sf(okStyle)
		case phase.Active:
			icon = currentSpinner(m.SpinnerFrame)
			style = sf(busyStyle)
		default:
			icon = markIdle
			style = sf(faintStyle)
		}

		counter := ""
		if phase.Active && m.ProgressPhase == phase.Key && m.Total > 0 {
			counter = fmt.Sprintf(" %d/%d", m.Current, m.Total)
		}
		fmt.Fprintf(b, "    %s %-16s%s %s\n",
			style(icon), style(phase.Name), counter, faintStyle.Render(phaseDuration(m, phase.Key)))
	}
}

func renderActivity(b *strings.Builder, m Model) {
	if len(m.Log) == 0 {
		return
	}

	b.WriteString(headingStyle.Render("  Activity"))
	b.WriteString("\n")
	for _, line := range m.Log {
		fmt.Fprintf(b, "    %s\n", faintStyle.Render(line))
	}
}

func renderFooter(b *strings.Builder, m Model) {
	var parts []string
	if m.Operation != "" {
		parts = append(parts, m.Operation)
	}
	parts = append(parts, fmt.Sprintf("elapsed: %s", formatDuration(time.Since(m.StartTime))))
	b.WriteString(helpStyle.Render(fmt.Sprintf("  %s  |  q: quit", strings.Join(parts, "  |  "))))
	b.WriteString("\n")
}

// Helper functions

func phaseDuration(m Model, key string) string {
	for i := len(m.History) - 1; i >= 0; i-- {
		rec := m.History[i]
		if rec.Phase != key {
			continue
		}
		if rec.Ended.IsZero() {
			return formatDuration(time.Since(rec.Started))
		}
		return formatDuration(rec.Ended.Sub(rec.Started))
	}
	return ""
}

func currentSpinner(frame int) string {
	if frame < 0 {
		frame = -frame
	}
	return spinnerFrames[frame%len(spinnerFrames)]
}

// calculateProgress weights each phase by its share of the expected total
// runtime. The active phase contributes its counted fraction when one is
// being reported, otherwise its elapsed-vs-expected fraction.
func calculateProgress(m Model) float64 {
	if m.Done {
		return 1.0
	}

	total := totalEstimate()
	if total == 0 {
		return 0
	}

	var progress float64
	for _, phase := range m.Phases {
		expected, ok := defaultTimings[phase.Key]
		if !ok {
			continue
		}
		share := float64(time.Duration(expected)*time.Second) / float64(total)
		switch {
		case phase.Done:
			progress += share
		case phase.Active:
			progress += share * phaseFraction(m, phase.Key)
		}
	}

	if progress > 1.0 {
		progress = 1.0
	}
	return progress
}

func phaseFraction(m Model, key string) float64 {
	if m.ProgressPhase == key && m.Total > 0 {
		return capFraction(float64(m.Current) / float64(m.Total))
	}

	expected, ok := defaultTimings[key]
	if !ok || expected == 0 {
		return 0
	}
	for i := len(m.History) - 1; i >= 0; i-- {
		if m.History[i].Phase == key && m.History[i].Ended.IsZero() {
			elapsed := time.Since(m.History[i].Started)
			return capFraction(float64(elapsed) / float64(time.Duration(expected)*time.Second))
		}
	}
	return 0
}

// capFraction keeps an in-flight phase from reading as finished.
func capFraction(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 0.95 {
		return 0.95
	}
	return f
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
