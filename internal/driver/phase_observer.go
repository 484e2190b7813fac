package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a pipeline phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary. For the body phase Done and
// Total carry translation progress, so a live UI can render a bar without
// holding any driver state.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
	Done    int
	Total   int
}

// PhaseObserver receives phase events emitted during Run.
type PhaseObserver func(PhaseEvent)
