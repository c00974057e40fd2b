package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SanatPandey22/AvereSDK/internal/cluster"
)

// Observer feeds orchestration progress into a running program. Send is
// concurrency safe, so the operation goroutine can report freely.
type Observer struct {
	p *tea.Program
}

// NewObserver wraps a program.
func NewObserver(p *tea.Program) *Observer {
	return &Observer{p: p}
}

var _ cluster.Observer = (*Observer)(nil)

// Printf implements cluster.Logger.
func (o *Observer) Printf(format string, v ...interface{}) {
	o.p.Send(LogMsg{Line: fmt.Sprintf(format, v...)})
}

// Event implements cluster.Observer.
func (o *Observer) Event(event cluster.Event) {
	o.p.Send(EventMsg{Event: event})
}

// Progress implements cluster.Observer.
func (o *Observer) Progress(phase string, current, total int) {
	o.p.Send(ProgressMsg{Phase: phase, Current: current, Total: total})
}
