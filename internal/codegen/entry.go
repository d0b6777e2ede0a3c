package codegen

import (
	"fmt"
	"html"

	"github.com/hkcm91/StickerNestV3-sub007/internal/spec"
)

// emitEntry renders index.html: a single self-contained document holding
// the widget's state, actions, trigger bindings, dispatchers, and render
// step, wired to the host through the runtime protocol envelope.
func emitEntry(s *spec.WidgetSpec, opts Options) string {
	w := newDocWriter(opts)

	w.line("<!DOCTYPE html>")
	w.line("<html>")
	w.line("<head>")
	w.line("<meta charset=\"utf-8\">")
	w.line(fmt.Sprintf("<title>%s</title>", html.EscapeString(s.Name)))
	w.line("<style>")
	w.line(emitStyles(s, Options{Minify: opts.Minify}))
	w.line("</style>")
	w.line("</head>")
	w.line("<body>")
	emitRootMarkup(w, s)
	w.line("<script>")
	emitEntryScript(w, s, opts)
	w.line("</script>")
	w.line("</body>")
	w.line("</html>")

	return w.String()
}

// emitRootMarkup writes the widget root element with a visual element per
// rendering mode and one bound span per state field for the render step.
func emitRootMarkup(w *docWriter, s *spec.WidgetSpec) {
	w.line("<div id=\"widget-root\">")

	switch s.Visual.Mode {
	case spec.RenderImage, spec.RenderVector, spec.RenderAnimation:
		src := html.EscapeString(s.Visual.DefaultAsset)
		alt := html.EscapeString(s.Name)
		w.line(fmt.Sprintf("  <img class=\"widget-asset\" src=\"%s\" alt=\"%s\">", src, alt))
	case spec.RenderCanvas:
		w.line("  <canvas id=\"widget-canvas\"></canvas>")
	case spec.RenderMarkup:
		w.line("  <div class=\"widget-markup\"></div>")
	case spec.RenderStylesheet:
		w.line("  <div class=\"widget-visual\"></div>")
	}

	w.line("  <div class=\"widget-content\">")
	for _, name := range sortedFieldNames(s.State) {
		w.line(fmt.Sprintf("    <span data-bind=\"%s\"></span>", html.EscapeString(name)))
	}
	w.line("  </div>")
	w.line("</div>")
}

// emitEntryScript writes the inline execution unit.
func emitEntryScript(w *docWriter, s *spec.WidgetSpec, opts Options) {
	w.line("\"use strict\";")
	w.line("(function () {")

	w.banner("state")
	w.line("var PHASE = {LOADING: \"loading\", AWAITING_INIT: \"awaiting-init\", ACTIVE: \"active\", DESTROYED: \"destroyed\"};")
	w.line("var phase = PHASE.LOADING;")
	w.line("var state = " + defaultStateLiteral(s) + ";")
	w.line("var pending = {};")

	w.banner("protocol")
	w.line("function send(type, payload) {")
	w.line("  window.parent.postMessage({type: type, payload: payload}, \"*\");")
	w.line("}")
	w.line("function setState(key, value) {")
	w.line("  state[key] = value;")
	w.line("  pending[key] = value;")
	w.line("}")
	w.line("function flush() {")
	w.line("  if (Object.keys(pending).length === 0) { return; }")
	w.line("  send(\"STATE_PATCH\", pending);")
	w.line("  pending = {};")
	w.line("  render();")
	w.line("}")

	w.banner("action context")
	w.line("var ctx = {")
	w.line("  getState: function (key) { return state[key]; },")
	w.line("  setState: setState,")
	w.line("  emit: function (event, payload) { send(\"widget:emit\", {event: event, payload: payload}); },")
	w.line("  broadcast: function (event, payload) { send(\"widget:broadcast\", {event: event, payload: payload}); },")
	w.line("  emitOutput: function (port, value) { send(\"widget:output\", {port: port, value: value}); }")
	w.line("};")

	w.banner("actions")
	emitCmpHelper(w, "")
	w.line("var actions = {")
	for _, id := range sortedActionIDs(s.Actions) {
		w.line(fmt.Sprintf("  %s: async function (ctx) {", jsString(id)))
		for _, stmt := range actionBody(id, s.Actions[id], s) {
			w.line("    " + stmt)
		}
		w.line("  },")
	}
	w.line("};")
	w.line("async function runAction(id, ctx) {")
	w.line("  var fn = actions[id];")
	w.line("  if (fn) { await fn(ctx); }")
	w.line("}")

	w.banner("triggers")
	w.line("var triggers = {")
	for _, name := range sortedTriggerNames(s.Events.Triggers) {
		w.line(fmt.Sprintf("  %s: %s,", jsString(name), jsLiteral(s.Events.Triggers[name])))
	}
	w.line("};")
	w.line("async function fire(trigger) {")
	w.line("  var list = triggers[trigger] || [];")
	w.line("  for (var i = 0; i < list.length; i++) {")
	w.line("    await runAction(list[i], ctx);")
	w.line("  }")
	w.line("  flush();")
	w.line("}")

	w.banner("dom bindings")
	w.line("var domTriggers = {")
	for _, name := range sortedTriggerNames(s.Events.Triggers) {
		if domEvent, ok := spec.DOMTriggers[name]; ok {
			w.line(fmt.Sprintf("  %s: %s,", jsString(domEvent), jsString(name)))
		}
	}
	w.line("};")
	w.line("function bindListeners() {")
	w.line("  var root = document.getElementById(\"widget-root\");")
	w.line("  Object.keys(domTriggers).forEach(function (domEvent) {")
	w.line("    var target = (domEvent === \"keydown\" || domEvent === \"keyup\" || domEvent === \"visibilitychange\") ? document : root;")
	w.line("    target.addEventListener(domEvent, function () { fire(domTriggers[domEvent]); });")
	w.line("  });")
	if _, ok := s.Events.Triggers[spec.TriggerInterval]; ok {
		// Fixed one-second period; per-trigger intervals are not supported.
		w.line("  setInterval(function () { fire(\"onInterval\"); }, 1000);")
	}
	w.line("}")

	w.banner("pipeline inputs")
	w.line("var inputPorts = " + jsLiteral(portIDs(s.API.Inputs)) + ";")
	w.line("function dispatchInput(port, value) {")
	w.line("  if (inputPorts.indexOf(port) < 0) { return; }")
	w.line("  if (Object.prototype.hasOwnProperty.call(state, port)) { setState(port, value); }")
	w.line("  fire(\"onInput\");")
	w.line("}")

	w.banner("exposed api")
	w.line("var exposedMethods = " + jsLiteral(methodIDs(s.API.Exposed)) + ";")
	w.line("function dispatchMethod(method, args) {")
	w.line("  if (exposedMethods.indexOf(method) < 0) { return; }")
	w.line("  if (actions[method]) { runAction(method, ctx).then(flush); }")
	w.line("}")

	w.banner("render")
	w.line("function render() {")
	w.line("  var nodes = document.querySelectorAll(\"[data-bind]\");")
	w.line("  for (var i = 0; i < nodes.length; i++) {")
	w.line("    var key = nodes[i].getAttribute(\"data-bind\");")
	w.line("    var value = state[key];")
	w.line("    nodes[i].textContent = (typeof value === \"object\") ? JSON.stringify(value) : String(value);")
	w.line("  }")
	w.line("}")

	w.banner("message loop")
	w.line("window.addEventListener(\"message\", function (evt) {")
	w.line("  var msg = evt.data;")
	w.line("  if (!msg || typeof msg.type !== \"string\") { return; }")
	w.line("  if (phase === PHASE.DESTROYED) { return; }")
	w.line("  switch (msg.type) {")
	w.line("    case \"INIT\":")
	w.line("      if (phase !== PHASE.AWAITING_INIT) { return; }")
	w.line("      Object.assign(state, (msg.payload && msg.payload.state) || {});")
	w.line("      phase = PHASE.ACTIVE;")
	w.line("      fire(\"onMount\");")
	w.line("      render();")
	w.line("      return;")
	w.line("    case \"widget:event\":")
	w.line("      if (phase !== PHASE.ACTIVE) { return; }")
	w.line("      var trig = domTriggers[msg.payload && msg.payload.type];")
	w.line("      if (trig) { fire(trig); }")
	w.line("      return;")
	w.line("    case \"pipeline:input\":")
	w.line("      if (phase !== PHASE.ACTIVE || !msg.payload) { return; }")
	w.line("      dispatchInput(msg.payload.port, msg.payload.value);")
	w.line("      flush();")
	w.line("      return;")
	w.line("    case \"widget:invoke\":")
	w.line("      if (phase !== PHASE.ACTIVE || !msg.payload) { return; }")
	w.line("      dispatchMethod(msg.payload.method, msg.payload.args);")
	w.line("      return;")
	w.line("    case \"STATE_UPDATE\":")
	w.line("      if (phase !== PHASE.ACTIVE) { return; }")
	w.line("      Object.assign(state, msg.payload || {});")
	w.line("      fire(\"onStateChange\");")
	w.line("      render();")
	w.line("      return;")
	w.line("    case \"SETTINGS_UPDATE\":")
	w.line("      return;")
	w.line("    case \"RESIZE\":")
	w.line("      if (phase !== PHASE.ACTIVE) { return; }")
	w.line("      fire(\"onResize\");")
	w.line("      render();")
	w.line("      return;")
	w.line("    case \"DESTROY\":")
	w.line("      fire(\"onUnmount\");")
	w.line("      phase = PHASE.DESTROYED;")
	w.line("      return;")
	w.line("    default:")
	w.line("      return;")
	w.line("  }")
	w.line("});")

	w.banner("startup")
	w.line("function ready() {")
	w.line("  bindListeners();")
	w.line("  render();")
	w.line("  phase = PHASE.AWAITING_INIT;")
	w.line(fmt.Sprintf("  send(\"READY\", {id: %s, version: %s});", jsString(s.ID), jsString(s.Version)))
	w.line("}")
	w.line("if (document.readyState === \"loading\") {")
	w.line("  document.addEventListener(\"DOMContentLoaded\", ready);")
	w.line("} else {")
	w.line("  ready();")
	w.line("}")

	w.line("})();")
}

func portIDs(ports []spec.Port) []string {
	ids := make([]string, 0, len(ports))
	for _, p := range ports {
		ids = append(ids, p.ID)
	}
	return ids
}

func methodIDs(methods []spec.Method) []string {
	ids := make([]string, 0, len(methods))
	for _, m := range methods {
		ids = append(ids, m.ID)
	}
	return ids
}
