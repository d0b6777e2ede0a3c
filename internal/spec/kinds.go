package spec

// Category classifies a widget for the marketplace and library views.
type Category string

const (
	CategoryDecorative   Category = "decorative"
	CategoryInteractive  Category = "interactive"
	CategoryProductivity Category = "productivity"
	CategoryData         Category = "data"
	CategoryMedia        Category = "media"
	CategoryGame         Category = "game"
	CategorySocial       Category = "social"
	CategoryUtility      Category = "utility"
)

// ValidCategories is the set of recognized category values.
var ValidCategories = map[Category]bool{
	CategoryDecorative:   true,
	CategoryInteractive:  true,
	CategoryProductivity: true,
	CategoryData:         true,
	CategoryMedia:        true,
	CategoryGame:         true,
	CategorySocial:       true,
	CategoryUtility:      true,
}

// RenderMode selects how the widget's visual layer is produced.
type RenderMode string

const (
	// RenderImage displays a raster asset.
	RenderImage RenderMode = "image"
	// RenderVector displays a vector asset.
	RenderVector RenderMode = "vector"
	// RenderAnimation plays an animation asset or sprite sheet.
	RenderAnimation RenderMode = "animation"
	// RenderStylesheet renders purely from CSS.
	RenderStylesheet RenderMode = "stylesheet"
	// RenderCanvas draws procedurally into a canvas element.
	RenderCanvas RenderMode = "canvas"
	// RenderMarkup renders arbitrary markup.
	RenderMarkup RenderMode = "markup"
)

// ValidRenderModes is the set of recognized rendering modes.
var ValidRenderModes = map[RenderMode]bool{
	RenderImage:      true,
	RenderVector:     true,
	RenderAnimation:  true,
	RenderStylesheet: true,
	RenderCanvas:     true,
	RenderMarkup:     true,
}

// AssetBackedModes are the rendering modes that normally require a default
// asset. A spec using one without a default asset gets a warning.
var AssetBackedModes = map[RenderMode]bool{
	RenderImage:     true,
	RenderVector:    true,
	RenderAnimation: true,
}

// ValueType is the declared type of a state field or port value.
type ValueType string

const (
	TypeString  ValueType = "string"
	TypeNumber  ValueType = "number"
	TypeBoolean ValueType = "boolean"
	TypeObject  ValueType = "object"
	TypeArray   ValueType = "array"
	TypeAny     ValueType = "any"
)

// ValidValueTypes is the set of recognized value types.
var ValidValueTypes = map[ValueType]bool{
	TypeString:  true,
	TypeNumber:  true,
	TypeBoolean: true,
	TypeObject:  true,
	TypeArray:   true,
	TypeAny:     true,
}

// ZeroValue returns the zero value for a declared type, used when a field is
// reset and no default was declared.
func (t ValueType) ZeroValue() any {
	switch t {
	case TypeString:
		return ""
	case TypeNumber:
		return float64(0)
	case TypeBoolean:
		return false
	case TypeObject:
		return map[string]any{}
	case TypeArray:
		return []any{}
	default:
		return nil
	}
}

// ActionKind is the closed set of behavior primitives an action can perform.
type ActionKind string

const (
	KindSetState       ActionKind = "set-state"
	KindToggleState    ActionKind = "toggle-state"
	KindIncrementState ActionKind = "increment-state"
	KindDecrementState ActionKind = "decrement-state"
	KindResetState     ActionKind = "reset-state"
	KindEmit           ActionKind = "emit"
	KindBroadcast      ActionKind = "broadcast"
	KindAnimate        ActionKind = "animate"
	KindPlaySound      ActionKind = "play-sound"
	KindNavigate       ActionKind = "navigate"
	KindFetch          ActionKind = "fetch"
	KindCustom         ActionKind = "custom"
	KindConditional    ActionKind = "conditional"
	KindSequence       ActionKind = "sequence"
	KindParallel       ActionKind = "parallel"
)

// ValidActionKinds is the set of recognized action kinds.
var ValidActionKinds = map[ActionKind]bool{
	KindSetState:       true,
	KindToggleState:    true,
	KindIncrementState: true,
	KindDecrementState: true,
	KindResetState:     true,
	KindEmit:           true,
	KindBroadcast:      true,
	KindAnimate:        true,
	KindPlaySound:      true,
	KindNavigate:       true,
	KindFetch:          true,
	KindCustom:         true,
	KindConditional:    true,
	KindSequence:       true,
	KindParallel:       true,
}

// MutatesState reports whether the kind writes to a named state field, and
// therefore requires its stateKey param to reference a declared field.
func (k ActionKind) MutatesState() bool {
	switch k {
	case KindSetState, KindToggleState, KindIncrementState, KindDecrementState, KindResetState:
		return true
	default:
		return false
	}
}

// Composite reports whether the kind's params name other actions
// (sequence/parallel member lists).
func (k ActionKind) Composite() bool {
	return k == KindSequence || k == KindParallel
}

// CompareOp is a guard-condition comparison operator.
type CompareOp string

const (
	OpEq  CompareOp = "eq"
	OpNeq CompareOp = "neq"
	OpGt  CompareOp = "gt"
	OpGte CompareOp = "gte"
	OpLt  CompareOp = "lt"
	OpLte CompareOp = "lte"
)

// ValidCompareOps is the set of recognized comparison operators.
var ValidCompareOps = map[CompareOp]bool{
	OpEq: true, OpNeq: true, OpGt: true, OpGte: true, OpLt: true, OpLte: true,
}

// Trigger names recognized by the generator. Unknown names in a spec are a
// warning, not an error.
const (
	TriggerClick            = "onClick"
	TriggerDoubleClick      = "onDoubleClick"
	TriggerHoverStart       = "onHoverStart"
	TriggerHoverEnd         = "onHoverEnd"
	TriggerMount            = "onMount"
	TriggerUnmount          = "onUnmount"
	TriggerResize           = "onResize"
	TriggerFocus            = "onFocus"
	TriggerBlur             = "onBlur"
	TriggerKeyDown          = "onKeyDown"
	TriggerKeyUp            = "onKeyUp"
	TriggerDragStart        = "onDragStart"
	TriggerDrag             = "onDrag"
	TriggerDragEnd          = "onDragEnd"
	TriggerDrop             = "onDrop"
	TriggerContextMenu      = "onContextMenu"
	TriggerWheel            = "onWheel"
	TriggerTouchStart       = "onTouchStart"
	TriggerTouchMove        = "onTouchMove"
	TriggerTouchEnd         = "onTouchEnd"
	TriggerAnimationEnd     = "onAnimationEnd"
	TriggerTransitionEnd    = "onTransitionEnd"
	TriggerInterval         = "onInterval"
	TriggerTimeout          = "onTimeout"
	TriggerIdle             = "onIdle"
	TriggerVisibilityChange = "onVisibilityChange"
	TriggerStateChange      = "onStateChange"
	TriggerInput            = "onInput"
	TriggerOutput           = "onOutput"
	TriggerError            = "onError"
)

// KnownTriggers is the set of trigger names the generator can bind.
var KnownTriggers = map[string]bool{
	TriggerClick: true, TriggerDoubleClick: true,
	TriggerHoverStart: true, TriggerHoverEnd: true,
	TriggerMount: true, TriggerUnmount: true, TriggerResize: true,
	TriggerFocus: true, TriggerBlur: true,
	TriggerKeyDown: true, TriggerKeyUp: true,
	TriggerDragStart: true, TriggerDrag: true, TriggerDragEnd: true, TriggerDrop: true,
	TriggerContextMenu: true, TriggerWheel: true,
	TriggerTouchStart: true, TriggerTouchMove: true, TriggerTouchEnd: true,
	TriggerAnimationEnd: true, TriggerTransitionEnd: true,
	TriggerInterval: true, TriggerTimeout: true, TriggerIdle: true,
	TriggerVisibilityChange: true, TriggerStateChange: true,
	TriggerInput: true, TriggerOutput: true, TriggerError: true,
}

// DOMTriggers maps the triggers with DOM-like semantics to the DOM event
// name the generator binds a listener for. Lifecycle triggers (mount,
// unmount, resize, state-change) are deliberately absent: they fire from
// runtime protocol messages, not listeners.
var DOMTriggers = map[string]string{
	TriggerClick:            "click",
	TriggerDoubleClick:      "dblclick",
	TriggerHoverStart:       "mouseenter",
	TriggerHoverEnd:         "mouseleave",
	TriggerFocus:            "focus",
	TriggerBlur:             "blur",
	TriggerKeyDown:          "keydown",
	TriggerKeyUp:            "keyup",
	TriggerDragStart:        "dragstart",
	TriggerDrag:             "drag",
	TriggerDragEnd:          "dragend",
	TriggerDrop:             "drop",
	TriggerContextMenu:      "contextmenu",
	TriggerWheel:            "wheel",
	TriggerTouchStart:       "touchstart",
	TriggerTouchMove:        "touchmove",
	TriggerTouchEnd:         "touchend",
	TriggerAnimationEnd:     "animationend",
	TriggerTransitionEnd:    "transitionend",
	TriggerVisibilityChange: "visibilitychange",
}
