// Package tui provides a Bubble Tea-based terminal dashboard for cluster
// operations.
package tui

import "github.com/SanatPandey22/AvereSDK/internal/cluster"

// EventMsg carries a structured orchestration event.
type EventMsg struct {
	Event cluster.Event
}

// ProgressMsg reports counted progress within a phase.
type ProgressMsg struct {
	Phase   string
	Current int
	Total   int
}

// LogMsg appends a line to the activity log.
type LogMsg struct{ Line string }

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries an error.
type ErrMsg struct{ Err error }

// DoneMsg signals that the operation is complete.
type DoneMsg struct{}
