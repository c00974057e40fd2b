// Package ui renders cluster orchestration progress for humans. Printer
// is the line-oriented observer used when stdout is not a terminal or
// the live dashboard is disabled; the tui subpackage holds the full
// dashboard.
package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/SanatPandey22/AvereSDK/internal/cluster"
)

var (
	markStartStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f9fafb"))
	markOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	markFailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	markWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#eab308"))
	markWorkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	detailDimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
)

// Printer writes orchestration progress as styled lines. Styling is
// applied only when the writer is a terminal; otherwise output is plain
// text suitable for logs and pipes.
type Printer struct {
	mu     sync.Mutex
	w      io.Writer
	styled bool

	lastProgress string
}

// NewPrinter builds a Printer for w, enabling color when w is a TTY.
func NewPrinter(w io.Writer) *Printer {
	styled := false
	if f, ok := w.(*os.File); ok {
		styled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Printer{w: w, styled: styled}
}

var _ cluster.Observer = (*Printer)(nil)

// Printf implements cluster.Logger.
func (p *Printer) Printf(format string, v ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format+"\n", v...)
}

// Event implements cluster.Observer.
func (p *Printer) Event(ev cluster.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch ev.Type {
	case cluster.EventPhaseStarted:
		p.line(markStartStyle, "==>", ev.Phase)
	case cluster.EventPhaseCompleted:
		p.line(markOKStyle, "[OK]", fmt.Sprintf("%s %s", ev.Phase, ev.Message))
	case cluster.EventPhaseFailed:
		p.line(markFailStyle, "[!!]", fmt.Sprintf("%s %s", ev.Phase, ev.Message))
	case cluster.EventResourceCreating:
		p.line(markWorkStyle, "[..]", "creating "+ev.Resource)
	case cluster.EventResourceCreated:
		p.line(markOKStyle, "[OK]", "created "+ev.Resource)
	case cluster.EventResourceDeleting:
		p.line(markWorkStyle, "[..]", "deleting "+ev.Resource)
	case cluster.EventResourceDeleted:
		p.line(markOKStyle, "[OK]", "deleted "+ev.Resource)
	case cluster.EventRollback:
		p.line(markWarnStyle, "[??]", ev.Message)
	case cluster.EventStateChanged:
		p.dimline(ev.Message)
	default:
		if ev.Message != "" {
			p.dimline(ev.Message)
		}
	}
}

// Progress implements cluster.Observer. Repeated identical updates are
// collapsed so per-second poll loops do not flood the output.
func (p *Printer) Progress(phase string, current, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var text string
	if total > 0 {
		text = fmt.Sprintf("%s %d/%d", phase, current, total)
	} else {
		text = fmt.Sprintf("%s %d", phase, current)
	}
	if text == p.lastProgress {
		return
	}
	p.lastProgress = text
	p.line(markWorkStyle, "[..]", text)
}

func (p *Printer) line(style lipgloss.Style, mark, text string) {
	if p.styled {
		mark = style.Render(mark)
	}
	fmt.Fprintf(p.w, "%s %s\n", mark, text)
}

func (p *Printer) dimline(text string) {
	if p.styled {
		text = detailDimStyle.Render(text)
	}
	fmt.Fprintf(p.w, "     %s\n", text)
}
