package tui

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SanatPandey22/AvereSDK/internal/cluster"
)

// PhaseRow represents one operation phase for display.
type PhaseRow struct {
	Name   string
	Key    string
	Done   bool
	Active bool
	Err    error
}

// Model is the Bubble Tea model for the operation dashboard. Phase rows
// are appended as the orchestration reports state transitions, so the
// same model serves create, add-nodes and destroy runs.
type Model struct {
	// Cluster info
	ClusterName string
	Provider    string
	Operation   string

	// Phase rows in arrival order
	Phases  []PhaseRow
	History []PhaseRecord

	// Counted progress within a phase
	ProgressPhase string
	Current       int
	Total         int

	// Activity log tail
	Log []string

	// ETA
	EstimatedRemaining time.Duration
	PerformanceScale   float64
	StartTime          time.Time

	// Animation
	SpinnerFrame int

	// UI state
	Width  int
	Height int
	Err    error
	Done   bool
}

const logTail = 6

// displayNames maps lifecycle states to phase row labels. States outside
// the map get a capitalized fallback.
var displayNames = map[string]string{
	"provisioning":   "Provisioning",
	"service-checks": "Service checks",
	"joining":        "Node join",
	"healthcheck":    "Health check",
	"finalizing":     "Finalizing",
}

// NewModel creates a dashboard model for one cluster operation.
func NewModel(clusterName, provider, operation string) Model {
	return Model{
		ClusterName:      clusterName,
		Provider:         provider,
		Operation:        operation,
		StartTime:        time.Now(),
		PerformanceScale: 1.0,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case EventMsg:
		m.applyEvent(msg.Event)

	case ProgressMsg:
		m.ProgressPhase = msg.Phase
		m.Current = msg.Current
		m.Total = msg.Total

	case LogMsg:
		m.appendLog(msg.Line)

	case TickMsg:
		m.SpinnerFrame++
		m.updateETA()
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		m.finishPhases()
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) applyEvent(ev cluster.Event) {
	switch ev.Type {
	case cluster.EventStateChanged:
		m.advanceState(ev.Phase)
	case cluster.EventPhaseFailed:
		m.failPhase(ev.Phase, ev.Message)
		m.appendLog(ev.Phase + " " + ev.Message)
	case cluster.EventResourceCreating:
		m.appendLog("creating " + ev.Resource)
	case cluster.EventResourceCreated:
		m.appendLog("created " + ev.Resource)
	case cluster.EventResourceDeleting:
		m.appendLog("deleting " + ev.Resource)
	case cluster.EventResourceDeleted:
		m.appendLog("deleted " + ev.Resource)
	case cluster.EventRollback:
		m.appendLog(ev.Message)
	default:
		if ev.Message == "" {
			return
		}
		line := ev.Message
		if ev.Phase != "" {
			line = ev.Phase + " " + line
		}
		m.appendLog(line)
	}
}

// advanceState turns lifecycle transitions into phase rows. Terminal
// states close out every open row; the failed state leaves rows alone so
// the failing phase keeps its error mark.
func (m *Model) advanceState(state string) {
	switch state {
	case "ready", "stopped", "shelved", "destroyed":
		m.finishPhases()
		return
	case "failed", "uninitialized":
		return
	}

	now := time.Now()
	m.closeOpenPhases(now)

	for i := range m.Phases {
		if m.Phases[i].Key == state {
			m.Phases[i].Active = true
			m.Phases[i].Done = false
			m.History = append(m.History, PhaseRecord{Phase: state, Started: now})
			return
		}
	}
	m.Phases = append(m.Phases, PhaseRow{Name: phaseDisplayName(state), Key: state, Active: true})
	m.History = append(m.History, PhaseRecord{Phase: state, Started: now})
}

func (m *Model) closeOpenPhases(now time.Time) {
	for i := range m.Phases {
		if m.Phases[i].Active {
			m.Phases[i].Active = false
			m.Phases[i].Done = m.Phases[i].Err == nil
		}
	}
	for i := range m.History {
		if m.History[i].Ended.IsZero() {
			m.History[i].Ended = now
		}
	}
}

func (m *Model) finishPhases() {
	now := time.Now()
	for i := range m.Phases {
		m.Phases[i].Active = false
		if m.Phases[i].Err == nil {
			m.Phases[i].Done = true
		}
	}
	for i := range m.History {
		if m.History[i].Ended.IsZero() {
			m.History[i].Ended = now
		}
	}
}

func (m *Model) failPhase(phase, message string) {
	for i := range m.Phases {
		if m.Phases[i].Key == phase {
			m.Phases[i].Err = errors.New(message)
			m.Phases[i].Active = false
			m.Phases[i].Done = false
			return
		}
	}
}

func (m *Model) appendLog(line string) {
	m.Log = append(m.Log, line)
	if len(m.Log) > logTail {
		m.Log = m.Log[len(m.Log)-logTail:]
	}
}

func (m *Model) updateETA() {
	current := m.activePhase()
	if current == "" {
		m.EstimatedRemaining = 0
		return
	}

	var phaseElapsed time.Duration
	for _, rec := range m.History {
		if rec.Ended.IsZero() && rec.Phase == current {
			phaseElapsed = time.Since(rec.Started)
			break
		}
	}

	m.PerformanceScale = performanceScale(current, phaseElapsed, m.History)
	m.EstimatedRemaining = estimateRemainingWithScale(current, phaseElapsed, m.History, m.PerformanceScale)
}

func (m Model) activeRow() (PhaseRow, bool) {
	for _, p := range m.Phases {
		if p.Active {
			return p, true
		}
	}
	return PhaseRow{}, false
}

func (m Model) activePhase() string {
	if row, ok := m.activeRow(); ok {
		return row.Key
	}
	return ""
}

func phaseDisplayName(key string) string {
	if name, ok := displayNames[key]; ok {
		return name
	}
	if key == "" {
		return key
	}
	return strings.ToUpper(key[:1]) + key[1:]
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
