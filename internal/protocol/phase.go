package protocol

import "fmt"

// Phase is the lifecycle state of a widget instance. It is an explicit
// value, not implicit control flow, so both parties can reason about which
// messages are acceptable.
type Phase string

const (
	// PhaseLoading covers document load up to listener binding.
	PhaseLoading Phase = "loading"
	// PhaseAwaitingInit means READY was sent and INIT has not arrived.
	PhaseAwaitingInit Phase = "awaiting-init"
	// PhaseActive means INIT was applied and the widget processes messages.
	PhaseActive Phase = "active"
	// PhaseDestroyed is terminal; no further messages are processed.
	PhaseDestroyed Phase = "destroyed"
)

// Terminal reports whether the phase is final.
func (p Phase) Terminal() bool {
	return p == PhaseDestroyed
}

// Transition validates a phase change. The lifecycle is strictly forward:
// Loading → AwaitingInit → Active → Destroyed, except that Destroyed is
// reachable from any non-terminal phase (the host may sever at any time).
func Transition(from, to Phase) (Phase, error) {
	if allowedTransition(from, to) {
		return to, nil
	}
	return from, fmt.Errorf("protocol: invalid phase transition %s -> %s", from, to)
}

func allowedTransition(from, to Phase) bool {
	if to == PhaseDestroyed {
		return !from.Terminal()
	}
	switch from {
	case PhaseLoading:
		return to == PhaseAwaitingInit
	case PhaseAwaitingInit:
		return to == PhaseActive
	default:
		return false
	}
}
