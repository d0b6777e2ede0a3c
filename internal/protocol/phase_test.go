package protocol

import "testing"

func TestPhaseTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to Phase
		ok       bool
	}{
		{PhaseLoading, PhaseAwaitingInit, true},
		{PhaseAwaitingInit, PhaseActive, true},
		{PhaseActive, PhaseDestroyed, true},
		{PhaseLoading, PhaseDestroyed, true},
		{PhaseAwaitingInit, PhaseDestroyed, true},
		{PhaseLoading, PhaseActive, false},
		{PhaseActive, PhaseAwaitingInit, false},
		{PhaseDestroyed, PhaseActive, false},
		{PhaseDestroyed, PhaseDestroyed, false},
	}

	for _, tt := range tests {
		got, err := Transition(tt.from, tt.to)
		if tt.ok {
			if err != nil {
				t.Errorf("%s -> %s should be allowed: %v", tt.from, tt.to, err)
			}
			if got != tt.to {
				t.Errorf("%s -> %s returned phase %s", tt.from, tt.to, got)
			}
			continue
		}
		if err == nil {
			t.Errorf("%s -> %s should be rejected", tt.from, tt.to)
		}
		if got != tt.from {
			t.Errorf("rejected transition must keep the prior phase, got %s", got)
		}
	}
}

func TestPhaseTerminal(t *testing.T) {
	t.Parallel()

	if PhaseActive.Terminal() {
		t.Error("active is not terminal")
	}
	if !PhaseDestroyed.Terminal() {
		t.Error("destroyed is terminal")
	}
}
