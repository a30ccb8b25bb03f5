package lifecycle

import "sync/atomic"

// Phase is the dataset initialization phase of the process.
type Phase int32

const (
	PhaseLoading Phase = iota
	PhaseEnriching
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseEnriching:
		return "enriching"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

var (
	shuttingDown atomic.Bool
	phase        atomic.Int32
)

// SetShuttingDown sets the shutdown flag. Call when SIGTERM/SIGINT received.
// Health handler returns 503 with status shutting-down while true.
func SetShuttingDown(v bool) {
	shuttingDown.Store(v)
}

// IsShuttingDown returns true if the process is draining and should not receive new traffic.
func IsShuttingDown() bool {
	return shuttingDown.Load()
}

// SetPhase records the current initialization phase. Phases only move forward in
// production (load, enrich, ready); tests may reset to PhaseLoading.
func SetPhase(p Phase) {
	phase.Store(int32(p))
}

// CurrentPhase returns the current initialization phase.
func CurrentPhase() Phase {
	return Phase(phase.Load())
}

// IsReady reports whether the dataset has been loaded and enriched.
func IsReady() bool {
	return CurrentPhase() == PhaseReady
}
