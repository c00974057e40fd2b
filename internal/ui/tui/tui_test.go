package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SanatPandey22/AvereSDK/internal/cluster"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m30s"},
		{3600 * time.Second, "1h0m"},
		{3661 * time.Second, "1h1m"},
	}
	for _, tt := range tests {
		got := formatDuration(tt.d)
		if got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestEstimateRemaining_NoHistory(t *testing.T) {
	// At provisioning, 60s elapsed, no history
	remaining := estimateRemaining("provisioning", 60*time.Second, nil)

	// Should be: (240-60) + 90 + 480 + 120 + 30 = 900s
	expected := 900 * time.Second
	if remaining != expected {
		t.Errorf("expected %v, got %v", expected, remaining)
	}
}

func TestEstimateRemaining_ElapsedExceedsExpected(t *testing.T) {
	// At provisioning, but already spent 480s (over the 240s estimate)
	remaining := estimateRemaining("provisioning", 480*time.Second, nil)

	// Overrun scales future predictions: 480s/240s = 2x
	// Should be: max(0, 480-480)=0 + (90 + 480 + 120 + 30) * 2 = 1440s
	expected := 1440 * time.Second
	if remaining != expected {
		t.Errorf("expected %v, got %v", expected, remaining)
	}
}

func TestEstimateRemaining_MidwayPhase(t *testing.T) {
	// At healthcheck with every earlier phase having taken twice its
	// estimate, so the scale settles at 2x.
	now := time.Now()
	history := []PhaseRecord{
		{Phase: "provisioning", Started: now.Add(-480 * time.Second), Ended: now},
		{Phase: "service-checks", Started: now.Add(-180 * time.Second), Ended: now},
		{Phase: "joining", Started: now.Add(-960 * time.Second), Ended: now},
		{Phase: "healthcheck", Started: now},
	}

	remaining := estimateRemaining("healthcheck", 60*time.Second, history)

	// (120*2 - 60) + 30*2 = 240s
	expected := 240 * time.Second
	if remaining != expected {
		t.Errorf("expected %v, got %v", expected, remaining)
	}
}

func TestEstimateRemaining_LastPhase(t *testing.T) {
	remaining := estimateRemaining("finalizing", 10*time.Second, nil)

	// Should be: max(0, 30-10) = 20s (no future phases)
	expected := 20 * time.Second
	if remaining != expected {
		t.Errorf("expected %v, got %v", expected, remaining)
	}
}

func TestEstimateRemaining_UnknownPhase(t *testing.T) {
	remaining := estimateRemaining("unknown", 0, nil)
	if remaining != 0 {
		t.Errorf("expected 0 for unknown phase, got %v", remaining)
	}
}

func TestPerformanceScale(t *testing.T) {
	now := time.Now()
	history := []PhaseRecord{
		{Phase: "provisioning", Started: now.Add(-360 * time.Second), Ended: now},
	}

	scale := performanceScale("service-checks", 0, history)
	if scale < 1.49 || scale > 1.51 {
		t.Fatalf("expected ~1.5 scale, got %f", scale)
	}
}

func TestPerformanceScale_Clamped(t *testing.T) {
	now := time.Now()
	history := []PhaseRecord{
		{Phase: "provisioning", Started: now.Add(-1200 * time.Second), Ended: now},
	}

	scale := performanceScale("service-checks", 0, history)
	if scale != 3.0 {
		t.Fatalf("expected scale clamped to 3.0, got %f", scale)
	}
}

func TestTotalEstimate(t *testing.T) {
	total := totalEstimate()

	// Sum of all phase timings: 240 + 90 + 480 + 120 + 30 = 960s
	expected := 960 * time.Second
	if total != expected {
		t.Errorf("expected %v, got %v", expected, total)
	}
}

func TestModelAdvancesPhasesOnStateChange(t *testing.T) {
	m := NewModel("demo", "hetzner", "create")

	m.applyEvent(cluster.Event{Type: cluster.EventStateChanged, Phase: "provisioning"})
	if len(m.Phases) != 1 || !m.Phases[0].Active {
		t.Fatalf("expected one active phase, got %+v", m.Phases)
	}
	if m.Phases[0].Name != "Provisioning" {
		t.Errorf("expected display name Provisioning, got %q", m.Phases[0].Name)
	}

	m.applyEvent(cluster.Event{Type: cluster.EventStateChanged, Phase: "service-checks"})
	if !m.Phases[0].Done || m.Phases[0].Active {
		t.Error("expected provisioning to be done after transition")
	}
	if !m.Phases[1].Active {
		t.Error("expected service-checks to be active")
	}
	if m.History[0].Ended.IsZero() {
		t.Error("expected provisioning history record to be closed")
	}
	if !m.History[1].Ended.IsZero() {
		t.Error("expected service-checks history record to be open")
	}
}

func TestModelTerminalStateFinishesPhases(t *testing.T) {
	m := NewModel("demo", "hetzner", "create")
	m.applyEvent(cluster.Event{Type: cluster.EventStateChanged, Phase: "provisioning"})
	m.applyEvent(cluster.Event{Type: cluster.EventStateChanged, Phase: "joining"})

	m.applyEvent(cluster.Event{Type: cluster.EventStateChanged, Phase: "ready"})

	for _, p := range m.Phases {
		if !p.Done || p.Active {
			t.Errorf("expected phase %s to be finished, got %+v", p.Key, p)
		}
	}
	for _, rec := range m.History {
		if rec.Ended.IsZero() {
			t.Errorf("expected history record %s to be closed", rec.Phase)
		}
	}
}

func TestModelPhaseFailure(t *testing.T) {
	m := NewModel("demo", "hetzner", "create")
	m.applyEvent(cluster.Event{Type: cluster.EventStateChanged, Phase: "provisioning"})

	m.applyEvent(cluster.Event{Type: cluster.EventPhaseFailed, Phase: "provisioning", Message: "failed: instance quota exceeded"})
	if m.Phases[0].Err == nil {
		t.Fatal("expected provisioning to carry an error")
	}
	if m.Phases[0].Done || m.Phases[0].Active {
		t.Error("expected failed phase to be neither done nor active")
	}

	// The failed lifecycle state must not add a row of its own.
	m.applyEvent(cluster.Event{Type: cluster.EventStateChanged, Phase: "failed"})
	if len(m.Phases) != 1 {
		t.Errorf("expected 1 phase, got %d", len(m.Phases))
	}
}

func TestModelResourceEventsFeedActivityLog(t *testing.T) {
	m := NewModel("demo", "hetzner", "create")

	m.applyEvent(cluster.Event{Type: cluster.EventResourceCreating, Resource: "demo-1"})
	m.applyEvent(cluster.Event{Type: cluster.EventResourceCreated, Resource: "demo-1"})
	m.applyEvent(cluster.Event{Type: cluster.EventRollback, Message: "destroying partially created cluster"})

	want := []string{"creating demo-1", "created demo-1", "destroying partially created cluster"}
	if len(m.Log) != len(want) {
		t.Fatalf("expected %d log lines, got %d", len(want), len(m.Log))
	}
	for i, line := range want {
		if m.Log[i] != line {
			t.Errorf("log[%d] = %q, want %q", i, m.Log[i], line)
		}
	}
}

func TestModelLogKeepsTail(t *testing.T) {
	m := NewModel("demo", "hetzner", "create")
	for i := 0; i < 9; i++ {
		m.appendLog(fmt.Sprintf("line-%d", i))
	}

	if len(m.Log) != logTail {
		t.Fatalf("expected %d log lines, got %d", logTail, len(m.Log))
	}
	if m.Log[0] != "line-3" {
		t.Errorf("expected oldest retained line to be line-3, got %q", m.Log[0])
	}
}

func TestUpdateProgressMsg(t *testing.T) {
	m := NewModel("demo", "hetzner", "create")

	updated, _ := m.Update(ProgressMsg{Phase: "joining", Current: 2, Total: 4})
	um := updated.(Model)

	if um.ProgressPhase != "joining" || um.Current != 2 || um.Total != 4 {
		t.Errorf("unexpected progress state: %s %d/%d", um.ProgressPhase, um.Current, um.Total)
	}
}

func TestUpdateTickAdvancesSpinner(t *testing.T) {
	m := NewModel("demo", "hetzner", "create")

	updated, cmd := m.Update(TickMsg{})
	um := updated.(Model)

	if um.SpinnerFrame != 1 {
		t.Errorf("expected spinner frame 1, got %d", um.SpinnerFrame)
	}
	if cmd == nil {
		t.Error("expected tick to reschedule itself")
	}
}

func TestUpdateQuitKeys(t *testing.T) {
	keys := []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	}
	for _, key := range keys {
		m := NewModel("demo", "hetzner", "create")
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Errorf("expected %s to quit", key.String())
		}
	}
}

func TestUpdateErrMsg(t *testing.T) {
	m := NewModel("demo", "hetzner", "create")

	updated, cmd := m.Update(ErrMsg{Err: errors.New("boom")})
	um := updated.(Model)

	if um.Err == nil {
		t.Error("expected error to be recorded")
	}
	if cmd == nil {
		t.Error("expected error to quit the program")
	}
}

func TestUpdateDoneMsgFinishesPhases(t *testing.T) {
	m := NewModel("demo", "hetzner", "create")
	m.applyEvent(cluster.Event{Type: cluster.EventStateChanged, Phase: "provisioning"})

	updated, _ := m.Update(DoneMsg{})
	um := updated.(Model)

	if !um.Done {
		t.Error("expected Done")
	}
	if !um.Phases[0].Done {
		t.Error("expected open phase to be closed on done")
	}
}

func TestCalculateProgress_Done(t *testing.T) {
	m := Model{Done: true}
	p := calculateProgress(m)
	if p != 1.0 {
		t.Errorf("expected 1.0, got %v", p)
	}
}

func TestCalculateProgress_WeightedPhases(t *testing.T) {
	m := NewModel("demo", "hetzner", "create")
	m.Phases = []PhaseRow{
		{Key: "provisioning", Done: true},
		{Key: "service-checks", Done: true},
	}

	p := calculateProgress(m)
	// (240+90)/960
	expected := 330.0 / 960.0
	if p < expected-0.01 || p > expected+0.01 {
		t.Errorf("expected ~%v, got %v", expected, p)
	}
}

func TestCalculateProgress_CountedActivePhase(t *testing.T) {
	m := NewModel("demo", "hetzner", "create")
	m.Phases = []PhaseRow{
		{Key: "provisioning", Done: true},
		{Key: "service-checks", Done: true},
		{Key: "joining", Active: true},
	}
	m.ProgressPhase = "joining"
	m.Current = 2
	m.Total = 4

	p := calculateProgress(m)
	// (240+90)/960 + 480/960 * 0.5
	expected := 330.0/960.0 + 0.25
	if p < expected-0.01 || p > expected+0.01 {
		t.Errorf("expected ~%v, got %v", expected, p)
	}
}

func TestRenderView_Header(t *testing.T) {
	m := NewModel("my-cluster", "hetzner", "create")
	m.StartTime = time.Now()

	output := renderView(m)

	if !strings.Contains(output, "my-cluster") {
		t.Error("expected cluster name in output")
	}
	if !strings.Contains(output, "hetzner") {
		t.Error("expected provider in output")
	}
}

func TestRenderView_PhasesAndActivity(t *testing.T) {
	m := NewModel("demo", "hetzner", "create")
	m.applyEvent(cluster.Event{Type: cluster.EventStateChanged, Phase: "provisioning"})
	m.applyEvent(cluster.Event{Type: cluster.EventStateChanged, Phase: "joining"})
	m.applyEvent(cluster.Event{Type: cluster.EventResourceCreated, Resource: "demo-1"})
	m.ProgressPhase = "joining"
	m.Current = 2
	m.Total = 4

	output := renderView(m)

	if !strings.Contains(output, "Provisioning") {
		t.Error("expected provisioning row in output")
	}
	if !strings.Contains(output, "Node join") {
		t.Error("expected joining row in output")
	}
	if !strings.Contains(output, "2/4") {
		t.Error("expected join counter in output")
	}
	if !strings.Contains(output, "created demo-1") {
		t.Error("expected activity line in output")
	}
}

func TestRenderView_FailedPhase(t *testing.T) {
	m := NewModel("demo", "hetzner", "create")
	m.applyEvent(cluster.Event{Type: cluster.EventStateChanged, Phase: "provisioning"})
	m.applyEvent(cluster.Event{Type: cluster.EventPhaseFailed, Phase: "provisioning", Message: "failed: quota"})
	m.Err = errors.New("quota")

	output := renderView(m)

	if !strings.Contains(output, markFail) {
		t.Error("expected failure mark in output")
	}
	if !strings.Contains(output, "Error:") {
		t.Error("expected error status in header")
	}
}

func TestRenderView_ProgressBar(t *testing.T) {
	m := NewModel("demo", "hetzner", "create")
	m.StartTime = time.Now()

	output := renderView(m)

	// Should have some progress bar characters
	if !strings.Contains(output, "░") && !strings.Contains(output, "█") {
		t.Error("expected progress bar in output")
	}
}

func TestRenderView_Footer(t *testing.T) {
	m := NewModel("demo", "hetzner", "create")
	m.StartTime = time.Now()

	output := renderView(m)

	if !strings.Contains(output, "q: quit") {
		t.Error("expected quit hint in footer")
	}
	if !strings.Contains(output, "create") {
		t.Error("expected operation name in footer")
	}
}

func TestCurrentSpinnerWraps(t *testing.T) {
	first := currentSpinner(0)
	again := currentSpinner(len(spinnerFrames))
	if first != again {
		t.Errorf("expected spinner to wrap, got %q and %q", first, again)
	}
	if currentSpinner(-1) != currentSpinner(1) {
		t.Error("expected negative frames to be folded")
	}
}

func TestPhaseDisplayNameFallback(t *testing.T) {
	if got := phaseDisplayName("joining"); got != "Node join" {
		t.Errorf("expected Node join, got %q", got)
	}
	if got := phaseDisplayName("rebalancing"); got != "Rebalancing" {
		t.Errorf("expected capitalized fallback, got %q", got)
	}
}
