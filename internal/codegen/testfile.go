package codegen

import (
	"fmt"

	"github.com/hkcm91/StickerNestV3-sub007/internal/spec"
)

// emitTestScaffold renders widget.test.js: assertions that the default
// state matches the spec, every action resolves to a callable, and the
// state validator accepts both the full default state and an empty partial.
func emitTestScaffold(s *spec.WidgetSpec) string {
	w := newDocWriter(Options{IncludeComments: true})
	w.line(fmt.Sprintf("// widget.test.js — generated scaffold for %s v%s", s.ID, s.Version))
	w.line("import { defaultState, createDefaultState, validateState } from \"./state.js\";")
	w.line("import { actions } from \"./actions.js\";")
	w.blank()

	w.line("function assert(cond, message) {")
	w.line("  if (!cond) { throw new Error(\"assertion failed: \" + message); }")
	w.line("}")
	w.blank()

	w.banner("default state")
	w.line("const expected = " + defaultStateLiteral(s) + ";")
	w.line("assert(JSON.stringify(createDefaultState()) === JSON.stringify(expected), \"default state matches spec\");")
	w.line("assert(JSON.stringify(defaultState) === JSON.stringify(expected), \"exported defaults match spec\");")

	w.banner("actions resolve")
	for _, id := range sortedActionIDs(s.Actions) {
		w.line(fmt.Sprintf("assert(typeof actions[%s] === \"function\", %s);", jsString(id), jsString("action "+id+" is callable")))
	}

	w.banner("state validator")
	w.line("assert(validateState(createDefaultState()).valid, \"full default state validates\");")
	w.line("assert(validateState({}).valid, \"empty partial state validates\");")
	w.blank()
	w.line("console.log(\"widget.test.js: all assertions passed\");")

	return w.String()
}
