// Package runtime interprets a widget spec directly: an Instance holds the
// widget's state, binds its triggers, executes its actions, and speaks the
// runtime protocol over a channel. It is the same execution model the
// generated entry document embeds, expressed host-side so widgets can be
// simulated and tested without a browser sandbox.
package runtime

import (
	"sync"
	"time"

	"github.com/hkcm91/StickerNestV3-sub007/internal/protocol"
	"github.com/hkcm91/StickerNestV3-sub007/internal/spec"
)

// intervalPeriod is the fixed onInterval timer period. Per-trigger
// configurable intervals are not supported.
const intervalPeriod = time.Second

// Instance is one live widget. All message handling runs on a single
// goroutine; parallel actions coordinate through the state mutex only.
type Instance struct {
	spec *spec.WidgetSpec
	ch   protocol.Channel

	mu      sync.Mutex
	phase   protocol.Phase
	state   map[string]any
	pending map[string]any

	done chan struct{}
}

// New builds an instance in the Loading phase with state constructed from
// the spec's declared defaults.
func New(s *spec.WidgetSpec, ch protocol.Channel) *Instance {
	state := make(map[string]any, len(s.State))
	for name, f := range s.State {
		if f.Default != nil {
			state[name] = f.Default
		} else {
			state[name] = f.Type.ZeroValue()
		}
	}
	return &Instance{
		spec:    s,
		ch:      ch,
		phase:   protocol.PhaseLoading,
		state:   state,
		pending: make(map[string]any),
		done:    make(chan struct{}),
	}
}

// Start transitions to AwaitingInit, announces READY, and begins processing
// inbound messages. It returns immediately; processing continues until the
// channel is severed or DESTROY arrives.
func (in *Instance) Start() error {
	next, err := protocol.Transition(in.Phase(), protocol.PhaseAwaitingInit)
	if err != nil {
		return err
	}
	in.setPhase(next)
	in.ch.Send(protocol.MustEnvelope(protocol.TypeReady, protocol.ReadyPayload{
		ID:      in.spec.ID,
		Version: in.spec.Version,
	}))
	go in.loop()
	return nil
}

// Stop severs the channel, which ends the message loop. This is the only
// cancellation semantic; in-flight outbound messages may be dropped.
func (in *Instance) Stop() {
	in.ch.Close()
	<-in.done
}

// Phase returns the current lifecycle phase.
func (in *Instance) Phase() protocol.Phase {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.phase
}

func (in *Instance) setPhase(p protocol.Phase) {
	in.mu.Lock()
	in.phase = p
	in.mu.Unlock()
}

// State returns a snapshot copy of the current state.
func (in *Instance) State() map[string]any {
	in.mu.Lock()
	defer in.mu.Unlock()
	snap := make(map[string]any, len(in.state))
	for k, v := range in.state {
		snap[k] = v
	}
	return snap
}

// Done is closed when the message loop has exited.
func (in *Instance) Done() <-chan struct{} {
	return in.done
}

func (in *Instance) loop() {
	defer close(in.done)

	var tick <-chan time.Time
	if _, ok := in.spec.Events.Triggers[spec.TriggerInterval]; ok {
		ticker := time.NewTicker(intervalPeriod)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case env, ok := <-in.ch.Recv():
			if !ok {
				return
			}
			if !in.handle(env) {
				return
			}
		case <-tick:
			if in.Phase() == protocol.PhaseActive {
				in.fire(spec.TriggerInterval)
			}
		}
	}
}

// handle processes one inbound envelope and reports whether the loop should
// continue. Unknown and malformed messages are silent no-ops.
func (in *Instance) handle(env protocol.Envelope) bool {
	switch env.Type {
	case protocol.TypeInit:
		if in.Phase() != protocol.PhaseAwaitingInit {
			// INIT is applied exactly once; repeats are ignored.
			return true
		}
		var p protocol.InitPayload
		if err := env.DecodePayload(&p); err != nil {
			return true
		}
		in.mergeState(p.State)
		in.setPhase(protocol.PhaseActive)
		in.fire(spec.TriggerMount)

	case protocol.TypeWidgetEvent:
		if in.Phase() != protocol.PhaseActive {
			return true
		}
		var p protocol.EventPayload
		if err := env.DecodePayload(&p); err != nil {
			return true
		}
		for trigger, domEvent := range spec.DOMTriggers {
			if domEvent == p.Type {
				in.fire(trigger)
				break
			}
		}

	case protocol.TypePipelineInput:
		if in.Phase() != protocol.PhaseActive {
			return true
		}
		var p protocol.InputPayload
		if err := env.DecodePayload(&p); err != nil {
			return true
		}
		in.dispatchInput(p.Port, p.Value)

	case protocol.TypeWidgetInvoke:
		if in.Phase() != protocol.PhaseActive {
			return true
		}
		var p protocol.InvokePayload
		if err := env.DecodePayload(&p); err != nil {
			return true
		}
		in.dispatchMethod(p.Method)

	case protocol.TypeStateUpdate:
		if in.Phase() != protocol.PhaseActive {
			return true
		}
		var p map[string]any
		if err := env.DecodePayload(&p); err != nil {
			return true
		}
		in.mergeState(p)
		in.fire(spec.TriggerStateChange)

	case protocol.TypeSettingsUpdate:
		// Reserved.

	case protocol.TypeResize:
		if in.Phase() != protocol.PhaseActive {
			return true
		}
		in.fire(spec.TriggerResize)

	case protocol.TypeDestroy:
		in.fire(spec.TriggerUnmount)
		in.setPhase(protocol.PhaseDestroyed)
		in.ch.Close()
		return false
	}
	return true
}

// fire runs a trigger's declared action list in order, then flushes any
// accumulated state patch as a single STATE_PATCH.
func (in *Instance) fire(trigger string) {
	for _, id := range in.spec.Events.Triggers[trigger] {
		in.runAction(id, 0)
	}
	in.flush()
}

// dispatchInput routes a pipeline value: a state field named after the port
// receives the value, then onInput actions run.
func (in *Instance) dispatchInput(port string, value any) {
	known := false
	for _, p := range in.spec.API.Inputs {
		if p.ID == port {
			known = true
			break
		}
	}
	if !known {
		return
	}
	if _, ok := in.spec.State[port]; ok {
		in.setState(port, value)
	}
	in.fire(spec.TriggerInput)
}

// dispatchMethod runs the like-named action for an exposed method.
func (in *Instance) dispatchMethod(method string) {
	exposed := false
	for _, m := range in.spec.API.Exposed {
		if m.ID == method {
			exposed = true
			break
		}
	}
	if !exposed {
		return
	}
	if _, ok := in.spec.Actions[method]; ok {
		in.runAction(method, 0)
		in.flush()
	}
}

// mergeState applies a host-supplied merge without generating a patch; the
// host already knows these values.
func (in *Instance) mergeState(values map[string]any) {
	in.mu.Lock()
	defer in.mu.Unlock()
	for k, v := range values {
		in.state[k] = v
	}
}

func (in *Instance) getState(key string) any {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.state[key]
}

func (in *Instance) setState(key string, value any) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.state[key] = value
	in.pending[key] = value
}

// flush emits one STATE_PATCH carrying only the fields changed since the
// previous flush. No mutations, no message.
func (in *Instance) flush() {
	in.mu.Lock()
	if len(in.pending) == 0 {
		in.mu.Unlock()
		return
	}
	patch := in.pending
	in.pending = make(map[string]any)
	in.mu.Unlock()

	in.ch.Send(protocol.MustEnvelope(protocol.TypeStatePatch, patch))
}
