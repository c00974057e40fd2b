package cluster

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-logr/logr"
)

// Logger is the minimal printf-style surface operations log through.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Observer receives structured progress from cluster operations. Phase
// transitions, poll milestones, and rollback actions all flow through it.
type Observer interface {
	Logger

	// Event emits a structured event
	Event(event Event)

	// Progress reports progress for a phase
	Progress(phase string, current, total int)
}

// Event represents a structured orchestration event.
type Event struct {
	Type      EventType // Type of event
	Phase     string    // Phase name (e.g., "provisioning", "joining")
	Message   string    // Human-readable message
	Resource  string    // Resource name/ID if applicable
	Timestamp time.Time // When the event occurred
}

// EventType represents the type of orchestration event.
type EventType string

const (
	// EventStateChanged indicates the cluster's lifecycle state moved.
	EventStateChanged EventType = "state.changed"

	// EventPhaseStarted indicates an operation phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates an operation phase completed.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates an operation phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventResourceCreating indicates a resource is being created.
	EventResourceCreating EventType = "resource.creating"
	// EventResourceCreated indicates a resource was created.
	EventResourceCreated EventType = "resource.created"
	// EventResourceDeleting indicates a resource is being deleted.
	EventResourceDeleting EventType = "resource.deleting"
	// EventResourceDeleted indicates a resource was deleted.
	EventResourceDeleted EventType = "resource.deleted"

	// EventRollback indicates partial state is being undone after a
	// failure.
	EventRollback EventType = "rollback"

	// EventProgress indicates progress in a long-running operation.
	EventProgress EventType = "progress"
)

// ConsoleObserver implements Observer using the standard log package.
type ConsoleObserver struct{}

// NewConsoleObserver creates a console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{}
}

// Printf implements Logger.
func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	log.Print(formatEvent(event))
}

// Progress implements Observer.
func (o *ConsoleObserver) Progress(phase string, current, total int) {
	if total == 0 {
		log.Printf("[%s] progress: %d", phase, current)
		return
	}
	log.Printf("[%s] progress: %d/%d (%d%%)", phase, current, total, (current*100)/total)
}

func formatEvent(event Event) string {
	var parts []string
	parts = append(parts, string(event.Type))
	if event.Phase != "" {
		parts = append(parts, fmt.Sprintf("[%s]", event.Phase))
	}
	if event.Resource != "" {
		parts = append(parts, fmt.Sprintf("resource=%s", event.Resource))
	}
	parts = append(parts, event.Message)
	return strings.Join(parts, " ")
}

// NoopObserver discards everything. Used as the default when callers do
// not care about progress.
type NoopObserver struct{}

// Printf implements Logger.
func (NoopObserver) Printf(string, ...interface{}) {}

// Event implements Observer.
func (NoopObserver) Event(Event) {}

// Progress implements Observer.
func (NoopObserver) Progress(string, int, int) {}

// LogrObserver adapts a logr.Logger to the Observer interface so
// embedders can route orchestration progress into their own logging
// stack.
type LogrObserver struct {
	log logr.Logger
}

// NewLogrObserver wraps a logr.Logger.
func NewLogrObserver(log logr.Logger) *LogrObserver {
	return &LogrObserver{log: log}
}

// Printf implements Logger.
func (o *LogrObserver) Printf(format string, v ...interface{}) {
	o.log.Info(fmt.Sprintf(format, v...))
}

// Event implements Observer.
func (o *LogrObserver) Event(event Event) {
	o.log.Info(event.Message, "type", string(event.Type), "phase", event.Phase, "resource", event.Resource)
}

// Progress implements Observer.
func (o *LogrObserver) Progress(phase string, current, total int) {
	o.log.V(1).Info("progress", "phase", phase, "current", current, "total", total)
}

// Helper functions for common events

func logPhaseStart(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Phase:   phase,
		Message: "starting",
	})
}

func logPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

func logPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: fmt.Sprintf("failed: %v", err),
	})
}
