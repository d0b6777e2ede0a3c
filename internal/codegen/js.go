package codegen

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/hkcm91/StickerNestV3-sub007/internal/spec"
)

// jsLiteral renders any JSON-representable value as a JavaScript literal.
// encoding/json sorts map keys, so output is deterministic.
func jsLiteral(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}

// jsString renders a Go string as a quoted JS string literal.
func jsString(s string) string {
	return jsLiteral(s)
}

// sortedFieldNames returns the state field names in deterministic order.
func sortedFieldNames(state map[string]spec.StateField) []string {
	names := make([]string, 0, len(state))
	for n := range state {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// sortedActionIDs returns the action IDs in deterministic order.
func sortedActionIDs(actions map[string]spec.Action) []string {
	ids := make([]string, 0, len(actions))
	for id := range actions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// sortedTriggerNames returns the declared trigger names in deterministic
// order, filtered to the recognized set.
func sortedTriggerNames(triggers map[string][]string) []string {
	names := make([]string, 0, len(triggers))
	for n := range triggers {
		if spec.KnownTriggers[n] {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

// defaultStateLiteral renders the initial-state object constructed from
// each field's declared default (or the type's zero value).
func defaultStateLiteral(s *spec.WidgetSpec) string {
	var b strings.Builder
	b.WriteString("{")
	for i, name := range sortedFieldNames(s.State) {
		if i > 0 {
			b.WriteString(", ")
		}
		f := s.State[name]
		def := f.Default
		if def == nil {
			def = f.Type.ZeroValue()
		}
		fmt.Fprintf(&b, "%s: %s", jsString(name), jsLiteral(def))
	}
	b.WriteString("}")
	return b.String()
}

// paramString reads a string param with a fallback.
func paramString(params map[string]any, key, fallback string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// paramNumber reads a numeric param with a fallback. JSON decoding yields
// float64; hand-built specs may carry int.
func paramNumber(params map[string]any, key string, fallback float64) float64 {
	switch v := params[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return fallback
	}
}

// conditionExpr renders a guard condition as a JS boolean expression over
// the cmp helper emitted alongside the action table.
func conditionExpr(c *spec.Condition) string {
	op := c.Op
	if op == "" {
		op = spec.OpEq
	}
	return fmt.Sprintf("cmp(ctx.getState(%s), %s, %s)", jsString(c.StateKey), jsString(string(op)), jsLiteral(c.Value))
}

// actionBody renders the statements for one action, per its kind. The
// emitted code runs inside an async function receiving ctx.
func actionBody(id string, a spec.Action, s *spec.WidgetSpec) []string {
	var lines []string
	if a.Condition != nil {
		lines = append(lines, fmt.Sprintf("if (!%s) { return; }", conditionExpr(a.Condition)))
	}

	key := paramString(a.Params, "stateKey", "")

	switch a.Kind {
	case spec.KindSetState:
		lines = append(lines, fmt.Sprintf("ctx.setState(%s, %s);", jsString(key), jsLiteral(a.Params["value"])))
	case spec.KindToggleState:
		lines = append(lines, fmt.Sprintf("ctx.setState(%s, !ctx.getState(%s));", jsString(key), jsString(key)))
	case spec.KindIncrementState:
		amt := paramNumber(a.Params, "amount", 1)
		lines = append(lines, fmt.Sprintf("ctx.setState(%s, Number(ctx.getState(%s)) + %s);", jsString(key), jsString(key), jsLiteral(amt)))
	case spec.KindDecrementState:
		amt := paramNumber(a.Params, "amount", 1)
		lines = append(lines, fmt.Sprintf("ctx.setState(%s, Number(ctx.getState(%s)) - %s);", jsString(key), jsString(key), jsLiteral(amt)))
	case spec.KindResetState:
		def := any(nil)
		if f, ok := s.State[key]; ok {
			def = f.Default
			if def == nil {
				def = f.Type.ZeroValue()
			}
		}
		lines = append(lines, fmt.Sprintf("ctx.setState(%s, %s);", jsString(key), jsLiteral(def)))
	case spec.KindEmit:
		event := paramString(a.Params, "event", id)
		lines = append(lines, fmt.Sprintf("ctx.emit(%s, %s);", jsString(event), jsLiteral(a.Params["payload"])))
	case spec.KindBroadcast:
		event := paramString(a.Params, "event", id)
		lines = append(lines, fmt.Sprintf("ctx.broadcast(%s, %s);", jsString(event), jsLiteral(a.Params["payload"])))
	case spec.KindAnimate:
		// Fixed scale pulse regardless of the animation descriptor; a full
		// keyframe DSL is not implemented.
		dur := int(paramNumber(a.Params, "duration", 300))
		lines = append(lines,
			"var el = document.getElementById(\"widget-root\");",
			"if (el) {",
			fmt.Sprintf("  el.style.transition = \"transform %dms ease-out\";", dur),
			"  el.style.transform = \"scale(1.15)\";",
			fmt.Sprintf("  setTimeout(function () { el.style.transform = \"scale(1)\"; }, %d);", dur),
			"}",
		)
	case spec.KindPlaySound:
		lines = append(lines, fmt.Sprintf("ctx.emit(\"intent:play-sound\", {sound: %s});", jsString(paramString(a.Params, "sound", ""))))
	case spec.KindNavigate:
		lines = append(lines, fmt.Sprintf("ctx.emit(\"intent:navigate\", {url: %s});", jsString(paramString(a.Params, "url", ""))))
	case spec.KindFetch:
		lines = append(lines, fmt.Sprintf("ctx.emit(\"intent:fetch\", {url: %s, method: %s});",
			jsString(paramString(a.Params, "url", "")), jsString(paramString(a.Params, "method", "GET"))))
	case spec.KindCustom:
		handler := paramString(a.Params, "handler", id)
		lines = append(lines, fmt.Sprintf("console.warn(\"unresolved custom handler:\", %s);", jsString(handler)))
	case spec.KindSequence:
		for _, member := range spec.MemberActions(a.Params) {
			lines = append(lines, fmt.Sprintf("await runAction(%s, ctx);", jsString(member)))
		}
	case spec.KindParallel:
		members := spec.MemberActions(a.Params)
		lits := make([]string, len(members))
		for i, m := range members {
			lits[i] = jsString(m)
		}
		lines = append(lines, fmt.Sprintf("await Promise.all([%s].map(function (id) { return runAction(id, ctx); }));",
			strings.Join(lits, ", ")))
	case spec.KindConditional:
		// The comparison itself lives in Condition; delegate to the target
		// action when one is named.
		if target := paramString(a.Params, "action", ""); target != "" {
			lines = append(lines, fmt.Sprintf("await runAction(%s, ctx);", jsString(target)))
		}
	}

	if len(lines) == 0 {
		lines = append(lines, "return;")
	}
	return lines
}
