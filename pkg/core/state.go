package core

import "fmt"

type ReductionState string

const (
	ReductionCreated      ReductionState = "CREATED"
	ReductionPartitioned  ReductionState = "PARTITIONED"
	ReductionTasksRunning ReductionState = "TASKS_RUNNING"
	ReductionAllJoined    ReductionState = "ALL_JOINED"
	ReductionCombined     ReductionState = "COMBINED"
	ReductionFailed       ReductionState = "FAILED"
)

// IsTerminal reports whether no further transition is possible from s.
func (s ReductionState) IsTerminal() bool {
	return s == ReductionCombined || s == ReductionFailed
}

// Transition validates from -> to and returns the new state.
func Transition(from, to ReductionState) (ReductionState, error) {
	if !isAllowedTransition(from, to) {
		return from, fmt.Errorf("disallowed reduction transition: %s -> %s", from, to)
	}
	return to, nil
}

func isAllowedTransition(from, to ReductionState) bool {
	switch from {
	case ReductionCreated:
		return to == ReductionPartitioned
	case ReductionPartitioned:
		return to == ReductionTasksRunning
	case ReductionTasksRunning:
		return to == ReductionAllJoined || to == ReductionFailed
	case ReductionAllJoined:
		return to == ReductionCombined
	default:
		return false
	}
}
