package codegen

import (
	"fmt"

	"github.com/hkcm91/StickerNestV3-sub007/internal/spec"
)

// emitActionsModule renders actions.js: one async function per action plus
// the id → function lookup table and the runAction dispatcher. The context
// value exposes getState/setState/emit/broadcast/emitOutput.
func emitActionsModule(s *spec.WidgetSpec, opts Options) string {
	w := newDocWriter(opts)
	if opts.IncludeComments {
		w.line(fmt.Sprintf("// actions.js — generated for %s v%s", s.ID, s.Version))
	}

	w.banner("comparison helper")
	emitCmpHelper(w, "export ")

	w.banner("actions")
	w.line("export const actions = {")
	for _, id := range sortedActionIDs(s.Actions) {
		a := s.Actions[id]
		if opts.IncludeComments && a.Description != "" {
			w.line("  // " + a.Description)
		}
		w.line(fmt.Sprintf("  %s: async function (ctx) {", jsString(id)))
		for _, stmt := range actionBody(id, a, s) {
			w.line("    " + stmt)
		}
		w.line("  },")
	}
	w.line("};")

	w.banner("dispatch")
	w.line("export async function runAction(id, ctx) {")
	w.line("  const fn = actions[id];")
	w.line("  if (fn) { await fn(ctx); }")
	w.line("}")

	return w.String()
}

// emitCmpHelper writes the guard-condition comparator shared by actions.js
// and the inline entry script.
func emitCmpHelper(w *docWriter, exportPrefix string) {
	w.line(exportPrefix + "function cmp(actual, op, expected) {")
	w.line("  switch (op) {")
	w.line("    case \"eq\": return actual === expected;")
	w.line("    case \"neq\": return actual !== expected;")
	w.line("    case \"gt\": return Number(actual) > Number(expected);")
	w.line("    case \"gte\": return Number(actual) >= Number(expected);")
	w.line("    case \"lt\": return Number(actual) < Number(expected);")
	w.line("    case \"lte\": return Number(actual) <= Number(expected);")
	w.line("    default: return false;")
	w.line("  }")
	w.line("}")
}
