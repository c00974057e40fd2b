package tui

import "time"

// defaultTimings are median phase durations from production create runs
// (seconds).
var defaultTimings = map[string]int{
	"provisioning":   240,
	"service-checks": 90,
	"joining":        480,
	"healthcheck":    120,
	"finalizing":     30,
}

// phaseOrder defines the create phase sequence for ETA calculation.
var phaseOrder = []string{
	"provisioning",
	"service-checks",
	"joining",
	"healthcheck",
	"finalizing",
}

// PhaseRecord tracks one observed phase transition for ETA math.
type PhaseRecord struct {
	Phase   string
	Started time.Time
	Ended   time.Time // zero while the phase is running
}

// estimateRemaining calculates the estimated time remaining based on the
// current phase, elapsed time, and recorded phase history.
func estimateRemaining(currentPhase string, phaseElapsed time.Duration, history []PhaseRecord) time.Duration {
	return estimateRemainingWithScale(currentPhase, phaseElapsed, history, performanceScale(currentPhase, phaseElapsed, history))
}

// estimateRemainingWithScale calculates ETA while applying a performance
// scale factor.
func estimateRemainingWithScale(
	currentPhase string,
	phaseElapsed time.Duration,
	history []PhaseRecord,
	scale float64,
) time.Duration {
	var remaining time.Duration

	currentIdx := -1
	for i, p := range phaseOrder {
		if p == currentPhase {
			currentIdx = i
			break
		}
	}
	if currentIdx < 0 {
		return 0
	}

	// For the current phase: max(0, expected - elapsed)
	if expected, ok := defaultTimings[currentPhase]; ok {
		expectedDur := time.Duration(expected) * time.Second
		expectedDur = time.Duration(float64(expectedDur) * scale)
		if expectedDur > phaseElapsed {
			remaining += expectedDur - phaseElapsed
		}
	}

	// Future phases use defaults unless history shows them finished
	// already.
	completedPhases := make(map[string]bool)
	for _, rec := range history {
		if !rec.Ended.IsZero() {
			completedPhases[rec.Phase] = true
		}
	}

	for i := currentIdx + 1; i < len(phaseOrder); i++ {
		phase := phaseOrder[i]
		if completedPhases[phase] {
			continue
		}
		if expected, ok := defaultTimings[phase]; ok {
			expectedDur := time.Duration(expected) * time.Second
			remaining += time.Duration(float64(expectedDur) * scale)
		}
	}

	return remaining
}

// performanceScale derives a speed multiplier from observed-vs-expected
// durations. Example: expected 4m, observed 6m => scale=1.5 (future ETAs
// are stretched by 50%).
func performanceScale(currentPhase string, phaseElapsed time.Duration, history []PhaseRecord) float64 {
	var expectedTotal time.Duration
	var actualTotal time.Duration

	for _, rec := range history {
		expectedSecs, ok := defaultTimings[rec.Phase]
		if !ok || rec.Ended.IsZero() {
			continue
		}
		expectedTotal += time.Duration(expectedSecs) * time.Second
		actualTotal += rec.Ended.Sub(rec.Started)
	}

	// If the current phase is overrunning, fold it in immediately so the
	// ETA adapts quickly.
	if expectedSecs, ok := defaultTimings[currentPhase]; ok && phaseElapsed > 0 {
		expectedCurrent := time.Duration(expectedSecs) * time.Second
		if phaseElapsed > expectedCurrent {
			expectedTotal += expectedCurrent
			actualTotal += phaseElapsed
		}
	}

	if expectedTotal == 0 || actualTotal == 0 {
		return 1.0
	}

	scale := float64(actualTotal) / float64(expectedTotal)
	if scale < 0.6 {
		return 0.6
	}
	if scale > 3.0 {
		return 3.0
	}
	return scale
}

// totalEstimate returns the expected duration of a full create run.
func totalEstimate() time.Duration {
	var total time.Duration
	for _, phase := range phaseOrder {
		if secs, ok := defaultTimings[phase]; ok {
			total += time.Duration(secs) * time.Second
		}
	}
	return total
}
