package tui

import "github.com/charmbracelet/lipgloss"

var (
	cText  = lipgloss.Color("#e7e5e4")
	cFaint = lipgloss.Color("#78716c")
	cGood  = lipgloss.Color("#4ade80")
	cBad   = lipgloss.Color("#f87171")
	cWarn  = lipgloss.Color("#facc15")
	cInfo  = lipgloss.Color("#38bdf8")

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(cText)
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(cInfo).MarginTop(1)
	okStyle      = lipgloss.NewStyle().Foreground(cGood)
	errStyle     = lipgloss.NewStyle().Foreground(cBad)
	warnStyle    = lipgloss.NewStyle().Foreground(cWarn)
	faintStyle   = lipgloss.NewStyle().Foreground(cFaint)
	busyStyle    = lipgloss.NewStyle().Bold(true).Foreground(cText)
	helpStyle    = lipgloss.NewStyle().Foreground(cFaint).MarginTop(1)

	barFilled = lipgloss.NewStyle().Foreground(cGood)
	barEmpty  = lipgloss.NewStyle().Foreground(cFaint)
)

// Marks are four columns wide so phase rows line up with spinner frames.
const (
	markDone = "[ok]"
	markFail = "[!!]"
	markIdle = "[--]"
)

var spinnerFrames = []string{"[.  ]", "[.. ]", "[...]", "[ ..]", "[  .]"}
