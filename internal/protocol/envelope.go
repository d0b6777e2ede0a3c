// Package protocol defines the host/widget message contract: the two-field
// envelope, the message-type vocabulary, the per-instance lifecycle state
// machine, and the channel abstraction messages travel over. Both parties
// absorb unknown or malformed messages silently; the sandbox boundary must
// survive a hostile or buggy peer.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Message types sent by the host to the widget.
const (
	TypeInit           = "INIT"
	TypeStateUpdate    = "STATE_UPDATE"
	TypeSettingsUpdate = "SETTINGS_UPDATE"
	TypeResize         = "RESIZE"
	TypeDestroy        = "DESTROY"
	TypeWidgetEvent    = "widget:event"
	TypePipelineInput  = "pipeline:input"
	TypeWidgetInvoke   = "widget:invoke"
)

// Message types sent by the widget to the host.
const (
	TypeReady           = "READY"
	TypeStatePatch      = "STATE_PATCH"
	TypeWidgetEmit      = "widget:emit"
	TypeWidgetOutput    = "widget:output"
	TypeWidgetBroadcast = "widget:broadcast"
)

// Envelope is the fixed two-field message shape used for every protocol
// message in both directions. Payload stays raw until a handler that knows
// the type decodes it.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope builds an envelope, marshaling payload to JSON. A nil payload
// produces an envelope with no payload field.
func NewEnvelope(msgType string, payload any) (Envelope, error) {
	env := Envelope{Type: msgType}
	if payload == nil {
		return env, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("protocol: marshal %s payload: %w", msgType, err)
	}
	env.Payload = data
	return env, nil
}

// MustEnvelope is NewEnvelope for payloads known to marshal, such as maps
// of JSON-safe values built by the runtime itself.
func MustEnvelope(msgType string, payload any) Envelope {
	env, err := NewEnvelope(msgType, payload)
	if err != nil {
		return Envelope{Type: msgType}
	}
	return env
}

// DecodePayload unmarshals the payload into v. An empty payload leaves v
// untouched and returns nil; the zero value is the defined fallback.
func (e Envelope) DecodePayload(v any) error {
	if len(e.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(e.Payload, v)
}

// InitPayload carries the initial-state override on INIT.
type InitPayload struct {
	State map[string]any `json:"state,omitempty"`
}

// EventPayload names a simulated DOM event on widget:event.
type EventPayload struct {
	Type string `json:"type"`
}

// InputPayload carries a pipeline port value on pipeline:input.
type InputPayload struct {
	Port  string `json:"port"`
	Value any    `json:"value"`
}

// InvokePayload names an exposed method on widget:invoke.
type InvokePayload struct {
	Method string `json:"method"`
	Args   []any  `json:"args,omitempty"`
}

// EmitPayload carries a local event from an emit action.
type EmitPayload struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// OutputPayload carries a port value from a widget to the host.
type OutputPayload struct {
	Port  string `json:"port"`
	Value any    `json:"value"`
}

// ResizePayload carries the new dimensions on RESIZE.
type ResizePayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ReadyPayload identifies the widget announcing readiness.
type ReadyPayload struct {
	ID      string `json:"id"`
	Version string `json:"version"`
}
