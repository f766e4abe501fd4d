package engine

import "testing"

func TestSuccessPathTransitions(t *testing.T) {
	path := []RequestState{
		StateResolvingSpec,
		StateValidating,
		StateCreatingNetwork,
		StateCreatingStorage,
		StateCreatingVM,
		StateDone,
	}

	for i := 0; i < len(path)-1; i++ {
		if !path[i].CanTransition(path[i+1]) {
			t.Errorf("%s -> %s should be allowed", path[i], path[i+1])
		}
	}
}

func TestNoSkippingStates(t *testing.T) {
	if StateResolvingSpec.CanTransition(StateCreatingNetwork) {
		t.Error("skipping validation must not be allowed")
	}
	if StateCreatingNetwork.CanTransition(StateCreatingVM) {
		t.Error("skipping storage creation must not be allowed")
	}
	if StateValidating.CanTransition(StateResolvingSpec) {
		t.Error("moving backwards must not be allowed")
	}
}

func TestFailureReachableFromNonTerminalStates(t *testing.T) {
	for _, s := range []RequestState{
		StateResolvingSpec, StateValidating, StateCreatingNetwork,
		StateCreatingStorage, StateCreatingVM,
	} {
		if !s.CanTransition(StateFailed) {
			t.Errorf("%s -> failed should be allowed", s)
		}
	}
}

func TestTerminalStatesDoNotTransition(t *testing.T) {
	for _, s := range []RequestState{StateDone, StateFailed} {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
		if s.CanTransition(StateFailed) {
			t.Errorf("%s -> failed must not be allowed", s)
		}
	}
	if StateDone.CanTransition(StateResolvingSpec) {
		t.Error("done must not restart")
	}
}

func TestStateValidate(t *testing.T) {
	if err := StateCreatingVM.Validate(); err != nil {
		t.Errorf("valid state rejected: %v", err)
	}
	if err := RequestState("bogus").Validate(); err == nil {
		t.Error("invalid state accepted")
	}
}
