package engine

import "fmt"

// RequestState tracks a family construction request through the pipeline.
type RequestState string

const (
	// StateResolvingSpec indicates the base specification is being resolved
	// from the catalog or a template.
	StateResolvingSpec RequestState = "resolving_spec"

	// StateValidating indicates cross-resource invariants are being checked.
	StateValidating RequestState = "validating"

	// StateCreatingNetwork indicates the network record is being created.
	StateCreatingNetwork RequestState = "creating_network"

	// StateCreatingStorage indicates the storage record is being created.
	StateCreatingStorage RequestState = "creating_storage"

	// StateCreatingVM indicates the vm record is being created.
	StateCreatingVM RequestState = "creating_vm"

	// StateDone indicates the full family was assembled.
	StateDone RequestState = "done"

	// StateFailed is the terminal failure state, reachable from any
	// non-done state.
	StateFailed RequestState = "failed"
)

// IsTerminal reports whether the state is final.
func (s RequestState) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}

// Validate checks that the state is one of the defined states.
func (s RequestState) Validate() error {
	switch s {
	case StateResolvingSpec, StateValidating, StateCreatingNetwork,
		StateCreatingStorage, StateCreatingVM, StateDone, StateFailed:
		return nil
	default:
		return fmt.Errorf("invalid request state: %s", s)
	}
}

// next returns the state that follows s on the success path.
var successPath = map[RequestState]RequestState{
	StateResolvingSpec:   StateValidating,
	StateValidating:      StateCreatingNetwork,
	StateCreatingNetwork: StateCreatingStorage,
	StateCreatingStorage: StateCreatingVM,
	StateCreatingVM:      StateDone,
}

// CanTransition reports whether moving from s to target is a legal
// transition: one step along the success path, or failure from any
// non-terminal state.
func (s RequestState) CanTransition(target RequestState) bool {
	if target == StateFailed {
		return !s.IsTerminal()
	}
	return successPath[s] == target
}
