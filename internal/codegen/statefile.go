package codegen

import (
	"fmt"

	"github.com/hkcm91/StickerNestV3-sub007/internal/spec"
)

// emitStateModule renders state.js: the default-state factory and the
// field-rule validator for candidate partial states.
func emitStateModule(s *spec.WidgetSpec, opts Options) string {
	w := newDocWriter(opts)
	if opts.IncludeComments {
		w.line(fmt.Sprintf("// state.js — generated for %s v%s", s.ID, s.Version))
	}

	w.banner("defaults")
	w.line("export const defaultState = " + defaultStateLiteral(s) + ";")
	w.blank()
	w.line("export function createDefaultState() {")
	w.line("  return JSON.parse(JSON.stringify(defaultState));")
	w.line("}")

	w.banner("validation")
	w.line("export function validateState(partial) {")
	w.line("  const errors = [];")
	for _, name := range sortedFieldNames(s.State) {
		f := s.State[name]
		if f.Rule == nil {
			continue
		}
		key := jsString(name)
		w.line(fmt.Sprintf("  if (Object.prototype.hasOwnProperty.call(partial, %s)) {", key))
		w.line(fmt.Sprintf("    const v = partial[%s];", key))
		if f.Rule.Required {
			// Partial states may omit the field; setting a required field
			// to null is the only violation checkable here.
			w.line(fmt.Sprintf("    if (v === null || v === undefined) { errors.push(%s + \" is required\"); }", key))
		}
		if f.Rule.Min != nil {
			w.line(fmt.Sprintf("    if (Number(v) < %s) { errors.push(%s + \" below minimum %g\"); }", jsLiteral(*f.Rule.Min), key, *f.Rule.Min))
		}
		if f.Rule.Max != nil {
			w.line(fmt.Sprintf("    if (Number(v) > %s) { errors.push(%s + \" above maximum %g\"); }", jsLiteral(*f.Rule.Max), key, *f.Rule.Max))
		}
		if f.Rule.Pattern != "" {
			w.line(fmt.Sprintf("    if (!new RegExp(%s).test(String(v))) { errors.push(%s + \" does not match pattern\"); }", jsString(f.Rule.Pattern), key))
		}
		if len(f.Rule.Enum) > 0 {
			w.line(fmt.Sprintf("    if (%s.indexOf(v) < 0) { errors.push(%s + \" not in allowed set\"); }", jsLiteral(f.Rule.Enum), key))
		}
		w.line("  }")
	}
	w.line("  return { valid: errors.length === 0, errors: errors };")
	w.line("}")

	return w.String()
}
