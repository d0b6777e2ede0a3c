// Package host runs widget instances on behalf of a dashboard: it launches
// sessions over protocol channels, completes the READY/INIT handshake, keeps
// an eventually-consistent mirror of each widget's state, and fans widget
// emissions out to the embedding application.
package host

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hkcm91/StickerNestV3-sub007/internal/protocol"
	"github.com/hkcm91/StickerNestV3-sub007/internal/runtime"
	"github.com/hkcm91/StickerNestV3-sub007/internal/spec"
	"github.com/hkcm91/StickerNestV3-sub007/internal/telemetry"
)

// ErrNoReady is returned when a launched widget does not announce itself.
var ErrNoReady = errors.New("host: widget did not send READY")

// readyTimeout bounds the READY wait during launch. An in-process instance
// answers immediately; the margin covers loaded machines.
const readyTimeout = 5 * time.Second

// Host owns a set of live widget sessions. Methods are safe for concurrent
// use.
type Host struct {
	trace *telemetry.Emitter

	mu       sync.Mutex
	sessions map[string]*Session
	seq      int
}

// New creates an empty host. The trace emitter may be nil.
func New(trace *telemetry.Emitter) *Host {
	return &Host{
		trace:    trace,
		sessions: make(map[string]*Session),
	}
}

// Launch validates the spec, starts an interpreted instance for it, performs
// the READY/INIT handshake, and returns the live session. The host seeds the
// INIT state with the spec's declared defaults merged with overrides.
func (h *Host) Launch(s *spec.WidgetSpec, overrides map[string]any) (*Session, error) {
	if res := spec.Validate(s); !res.Valid {
		return nil, fmt.Errorf("host: refusing to launch %q: %d validation error(s)", s.ID, len(res.Errors))
	}

	hostEnd, widgetEnd := protocol.NewPair()
	inst := runtime.New(s, widgetEnd)
	if err := inst.Start(); err != nil {
		hostEnd.Close()
		return nil, fmt.Errorf("host: start %q: %w", s.ID, err)
	}

	select {
	case env, ok := <-hostEnd.Recv():
		if !ok || env.Type != protocol.TypeReady {
			hostEnd.Close()
			return nil, ErrNoReady
		}
	case <-time.After(readyTimeout):
		hostEnd.Close()
		return nil, ErrNoReady
	}

	// Mirror starts from what the host sent in INIT; STATE_PATCH messages
	// keep it consistent with the widget from then on.
	mirror := make(map[string]any, len(s.State))
	for name, f := range s.State {
		if f.Default != nil {
			mirror[name] = f.Default
		} else {
			mirror[name] = f.Type.ZeroValue()
		}
	}
	for k, v := range overrides {
		mirror[k] = v
	}

	h.mu.Lock()
	h.seq++
	id := fmt.Sprintf("%s#%d", s.ID, h.seq)
	sess := &Session{
		ID:     id,
		Widget: s.ID,
		host:   h,
		inst:   inst,
		ch:     hostEnd,
		mirror: mirror,
		events: make(chan protocol.Envelope, 64),
	}
	h.sessions[id] = sess
	h.mu.Unlock()

	h.trace.Emit(telemetry.Event{Kind: telemetry.KindSessionStart, WidgetID: s.ID, SessionID: id}) //nolint:errcheck

	initState := make(map[string]any, len(mirror))
	for k, v := range mirror {
		initState[k] = v
	}
	sess.send(protocol.MustEnvelope(protocol.TypeInit, protocol.InitPayload{State: initState}))

	go sess.pump()
	return sess, nil
}

// Session returns a live session by id.
func (h *Host) Session(id string) (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[id]
	return s, ok
}

// Sessions returns a snapshot of all live session ids.
func (h *Host) Sessions() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, 0, len(h.sessions))
	for id := range h.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Shutdown destroys every live session.
func (h *Host) Shutdown() {
	h.mu.Lock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		s.Destroy()
	}
}

func (h *Host) drop(id string) {
	h.mu.Lock()
	delete(h.sessions, id)
	h.mu.Unlock()
}

// Session is one live widget held by the host.
type Session struct {
	ID     string // unique per launch
	Widget string // widget spec id

	host *Host
	inst *runtime.Instance
	ch   protocol.Channel

	mu     sync.Mutex
	mirror map[string]any

	events    chan protocol.Envelope
	destroyed sync.Once
}

// State returns a snapshot of the host-side state mirror. It converges on
// the widget's state as STATE_PATCH messages arrive; immediately after a
// dispatch it may briefly trail the widget.
func (s *Session) State() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := make(map[string]any, len(s.mirror))
	for k, v := range s.mirror {
		snap[k] = v
	}
	return snap
}

// Phase reports the instance's lifecycle phase.
func (s *Session) Phase() protocol.Phase {
	return s.inst.Phase()
}

// Events delivers widget-originated messages other than STATE_PATCH: emits,
// broadcasts, port outputs, and intents. The channel is closed when the
// session ends. A slow consumer drops messages rather than stalling the
// session.
func (s *Session) Events() <-chan protocol.Envelope {
	return s.events
}

// SendEvent forwards a DOM-level event name ("click", "mouseenter", ...).
func (s *Session) SendEvent(domEvent string) {
	s.send(protocol.MustEnvelope(protocol.TypeWidgetEvent, protocol.EventPayload{Type: domEvent}))
}

// SendInput delivers a value to a named pipeline input port.
func (s *Session) SendInput(port string, value any) {
	s.send(protocol.MustEnvelope(protocol.TypePipelineInput, protocol.InputPayload{Port: port, Value: value}))
}

// Invoke calls an exposed method by id.
func (s *Session) Invoke(method string, args ...any) {
	s.send(protocol.MustEnvelope(protocol.TypeWidgetInvoke, protocol.InvokePayload{Method: method, Args: args}))
}

// UpdateState pushes a host-authored state merge to the widget and applies
// it to the mirror directly; the widget does not echo host merges back.
func (s *Session) UpdateState(values map[string]any) {
	s.mu.Lock()
	for k, v := range values {
		s.mirror[k] = v
	}
	s.mu.Unlock()
	s.send(protocol.MustEnvelope(protocol.TypeStateUpdate, values))
}

// Resize notifies the widget of new dimensions.
func (s *Session) Resize(width, height float64) {
	s.send(protocol.MustEnvelope(protocol.TypeResize, protocol.ResizePayload{Width: width, Height: height}))
}

// Destroy tears the session down: DESTROY is sent, the instance loop is
// waited out, and the session leaves the host. Safe to call more than once.
func (s *Session) Destroy() {
	s.destroyed.Do(func() {
		s.send(protocol.Envelope{Type: protocol.TypeDestroy})
		select {
		case <-s.inst.Done():
		case <-time.After(readyTimeout):
			s.ch.Close()
			<-s.inst.Done()
		}
		s.host.drop(s.ID)
		s.host.trace.Emit(telemetry.Event{Kind: telemetry.KindSessionEnd, WidgetID: s.Widget, SessionID: s.ID}) //nolint:errcheck
	})
}

// Done is closed when the underlying instance loop has exited.
func (s *Session) Done() <-chan struct{} {
	return s.inst.Done()
}

func (s *Session) send(env protocol.Envelope) {
	s.host.trace.Emit(telemetry.Event{ //nolint:errcheck
		Kind: telemetry.KindEnvelopeIn, WidgetID: s.Widget, SessionID: s.ID, Message: env.Type,
	})
	s.ch.Send(env) //nolint:errcheck // severed channel means the session is ending anyway
}

// pump consumes widget-originated messages: STATE_PATCH folds into the
// mirror, everything else is offered to the events channel.
func (s *Session) pump() {
	defer close(s.events)
	for env := range s.ch.Recv() {
		s.host.trace.Emit(telemetry.Event{ //nolint:errcheck
			Kind: telemetry.KindEnvelopeOut, WidgetID: s.Widget, SessionID: s.ID, Message: env.Type,
		})
		if env.Type == protocol.TypeStatePatch {
			var patch map[string]any
			if err := env.DecodePayload(&patch); err != nil {
				continue
			}
			s.mu.Lock()
			for k, v := range patch {
				s.mirror[k] = v
			}
			s.mu.Unlock()
			continue
		}
		select {
		case s.events <- env:
		default:
		}
	}
}
