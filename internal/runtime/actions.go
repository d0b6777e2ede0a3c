package runtime

import (
	"reflect"
	"sync"

	"github.com/hkcm91/StickerNestV3-sub007/internal/protocol"
	"github.com/hkcm91/StickerNestV3-sub007/internal/spec"
)

// maxActionDepth bounds sequence/parallel recursion. The validator catches
// dangling references but not reference cycles; a cycle terminates quietly
// instead of overflowing the stack.
const maxActionDepth = 32

// runAction executes one action by id, honoring its guard condition.
// Unknown ids are silent no-ops, matching the generated dispatcher.
func (in *Instance) runAction(id string, depth int) {
	if depth > maxActionDepth {
		return
	}
	a, ok := in.spec.Actions[id]
	if !ok {
		return
	}
	if a.Condition != nil && !in.evalCondition(a.Condition) {
		return
	}

	key, _ := a.Params["stateKey"].(string)

	switch a.Kind {
	case spec.KindSetState:
		in.setState(key, a.Params["value"])

	case spec.KindToggleState:
		current, _ := in.getState(key).(bool)
		in.setState(key, !current)

	case spec.KindIncrementState:
		in.setState(key, toNumber(in.getState(key))+paramAmount(a.Params))

	case spec.KindDecrementState:
		in.setState(key, toNumber(in.getState(key))-paramAmount(a.Params))

	case spec.KindResetState:
		if f, ok := in.spec.State[key]; ok {
			def := f.Default
			if def == nil {
				def = f.Type.ZeroValue()
			}
			in.setState(key, def)
		}

	case spec.KindEmit:
		in.ch.Send(protocol.MustEnvelope(protocol.TypeWidgetEmit, protocol.EmitPayload{
			Event:   paramOr(a.Params, "event", id),
			Payload: a.Params["payload"],
		}))

	case spec.KindBroadcast:
		in.ch.Send(protocol.MustEnvelope(protocol.TypeWidgetBroadcast, protocol.EmitPayload{
			Event:   paramOr(a.Params, "event", id),
			Payload: a.Params["payload"],
		}))

	case spec.KindAnimate:
		// The generated widget applies a fixed scale pulse; host-side there
		// is no element to animate, so the intent is surfaced instead.
		in.ch.Send(protocol.MustEnvelope(protocol.TypeWidgetEmit, protocol.EmitPayload{
			Event:   "intent:animate",
			Payload: map[string]any{"effect": "scale-pulse", "duration": paramNumberOr(a.Params, "duration", 300)},
		}))

	case spec.KindPlaySound:
		in.emitIntent("intent:play-sound", map[string]any{"sound": paramOr(a.Params, "sound", "")})

	case spec.KindNavigate:
		in.emitIntent("intent:navigate", map[string]any{"url": paramOr(a.Params, "url", "")})

	case spec.KindFetch:
		in.emitIntent("intent:fetch", map[string]any{
			"url":    paramOr(a.Params, "url", ""),
			"method": paramOr(a.Params, "method", "GET"),
		})

	case spec.KindCustom:
		// Unresolved custom handlers are labeled no-ops.

	case spec.KindSequence:
		for _, member := range spec.MemberActions(a.Params) {
			in.runAction(member, depth+1)
		}

	case spec.KindParallel:
		var wg sync.WaitGroup
		for _, member := range spec.MemberActions(a.Params) {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				in.runAction(id, depth+1)
			}(member)
		}
		wg.Wait()

	case spec.KindConditional:
		if target, _ := a.Params["action"].(string); target != "" {
			in.runAction(target, depth+1)
		}
	}
}

func (in *Instance) emitIntent(event string, payload map[string]any) {
	in.ch.Send(protocol.MustEnvelope(protocol.TypeWidgetEmit, protocol.EmitPayload{
		Event:   event,
		Payload: payload,
	}))
}

// EmitOutput sends a value out of a named port.
func (in *Instance) EmitOutput(port string, value any) {
	in.ch.Send(protocol.MustEnvelope(protocol.TypeWidgetOutput, protocol.OutputPayload{
		Port:  port,
		Value: value,
	}))
}

func (in *Instance) evalCondition(c *spec.Condition) bool {
	actual := in.getState(c.StateKey)
	op := c.Op
	if op == "" {
		op = spec.OpEq
	}
	switch op {
	case spec.OpEq:
		return looseEqual(actual, c.Value)
	case spec.OpNeq:
		return !looseEqual(actual, c.Value)
	case spec.OpGt:
		return toNumber(actual) > toNumber(c.Value)
	case spec.OpGte:
		return toNumber(actual) >= toNumber(c.Value)
	case spec.OpLt:
		return toNumber(actual) < toNumber(c.Value)
	case spec.OpLte:
		return toNumber(actual) <= toNumber(c.Value)
	default:
		return false
	}
}

// looseEqual compares scalars the way the generated comparator does:
// numbers compare numerically regardless of Go's int/float split.
func looseEqual(a, b any) bool {
	if isNumber(a) && isNumber(b) {
		return toNumber(a) == toNumber(b)
	}
	return reflect.DeepEqual(a, b)
}

func isNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int32, int64:
		return true
	default:
		return false
	}
}

func toNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func paramAmount(params map[string]any) float64 {
	return paramNumberOr(params, "amount", 1)
}

func paramOr(params map[string]any, key, fallback string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func paramNumberOr(params map[string]any, key string, fallback float64) float64 {
	if v, ok := params[key]; ok && isNumber(v) {
		return toNumber(v)
	}
	return fallback
}
