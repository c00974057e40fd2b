package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SanatPandey22/AvereSDK/internal/cluster"
)

// Run executes op under the live dashboard. The operation receives an
// Observer wired to the display; its error is returned after the program
// exits.
func Run(ctx context.Context, clusterName, provider, operation string, op func(cluster.Observer) error) error {
	m := NewModel(clusterName, provider, operation)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	go func() {
		if err := op(NewObserver(p)); err != nil {
			p.Send(ErrMsg{Err: err})
			return
		}
		p.Send(DoneMsg{})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	fm := finalModel.(Model)
	if fm.Err != nil {
		return fm.Err
	}
	return nil
}
