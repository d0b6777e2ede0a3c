package spec

// WidgetSpec is the declarative description of a widget: its visuals, state,
// events, actions, API surface, and permissions. It is parsed from a SpecJSON
// document and is the compiler's sole input. The compiler never mutates it.
type WidgetSpec struct {
	ID          string                `json:"id"`
	Version     string                `json:"version"`
	Name        string                `json:"name"`
	Category    Category              `json:"category"`
	Description string                `json:"description,omitempty"`
	Visual      Visual                `json:"visual"`
	State       map[string]StateField `json:"state,omitempty"`
	Events      Events                `json:"events,omitempty"`
	Actions     map[string]Action     `json:"actions,omitempty"`
	API         API                   `json:"api,omitempty"`
	Permissions Permissions           `json:"permissions"`
	Size        *Size                 `json:"size,omitempty"`
	Tags        []string              `json:"tags,omitempty"`
	Author      string                `json:"author,omitempty"`
	Moddlets    []ModdletOverride     `json:"moddlets,omitempty"`
	AIHints     *AIHints              `json:"aiHints,omitempty"`
}

// Visual describes how a widget renders.
type Visual struct {
	Mode         RenderMode      `json:"mode"`
	DefaultAsset string          `json:"defaultAsset,omitempty"`
	Skins        []Skin          `json:"skins,omitempty"`
	Sprite       *Sprite         `json:"sprite,omitempty"`
	Variables    []ThemeVariable `json:"variables,omitempty"`
	Background   *Background     `json:"background,omitempty"`
}

// Skin is a named alternate appearance. Variables override the spec-level
// themeable variable defaults for this skin only.
type Skin struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Asset     string            `json:"asset,omitempty"`
	Variables map[string]string `json:"variables,omitempty"`
}

// Sprite describes a sprite sheet for frame-based animation.
type Sprite struct {
	Sheet       string `json:"sheet"`
	FrameWidth  int    `json:"frameWidth"`
	FrameHeight int    `json:"frameHeight"`
	Frames      int    `json:"frames"`
	FPS         int    `json:"fps,omitempty"`
}

// ThemeVariable is a themeable CSS custom property exposed by the widget.
// Name must match the custom-property shape (--kebab-case).
type ThemeVariable struct {
	Name    string `json:"name"`
	Default string `json:"default"`
	Type    string `json:"type,omitempty"` // Semantic hint: color, length, number, text
}

// Background describes the widget's backdrop.
type Background struct {
	Color string `json:"color,omitempty"`
	Image string `json:"image,omitempty"`
	Fit   string `json:"fit,omitempty"` // cover, contain, tile
}

// StateField declares one field of the widget's state record.
type StateField struct {
	Type    ValueType  `json:"type"`
	Default any        `json:"default,omitempty"`
	Persist bool       `json:"persist,omitempty"`
	Rule    *FieldRule `json:"rule,omitempty"`
}

// FieldRule is an optional validation rule attached to a state field.
// Nil pointer bounds mean "unbounded".
type FieldRule struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Pattern  string   `json:"pattern,omitempty"`
	Enum     []any    `json:"enum,omitempty"`
	Required bool     `json:"required,omitempty"`
}

// Events wires triggers to action lists and declares the widget's event
// surface for cross-widget communication.
type Events struct {
	// Triggers maps a trigger name (onClick, onMount, ...) to the ordered
	// list of action IDs it fires. Unknown trigger names are tolerated.
	Triggers      map[string][]string `json:"triggers,omitempty"`
	Custom        []CustomEvent       `json:"custom,omitempty"`
	Broadcasts    []string            `json:"broadcasts,omitempty"`
	Subscriptions []Subscription      `json:"subscriptions,omitempty"`
}

// CustomEvent declares an event type the widget may emit beyond the built-in
// trigger set.
type CustomEvent struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Subscription routes an external event name to a local action.
type Subscription struct {
	Event  string `json:"event"`
	Action string `json:"action"`
}

// Action is a single behavior primitive. Params are interpreted per Kind;
// see the generator's action emission table for the recognized keys.
type Action struct {
	Kind        ActionKind     `json:"kind"`
	Params      map[string]any `json:"params,omitempty"`
	Condition   *Condition     `json:"condition,omitempty"`
	Description string         `json:"description,omitempty"`
}

// Condition guards an action: the action runs only when the comparison
// against the named state field holds.
type Condition struct {
	StateKey string    `json:"stateKey"`
	Op       CompareOp `json:"op"`
	Value    any       `json:"value"`
}

// API declares the widget's external invocation surface and its pipeline
// ports.
type API struct {
	Exposed []Method `json:"exposed,omitempty"` // Methods callable by the host
	Accepts []Method `json:"accepts,omitempty"` // Methods accepted from other widgets
	Inputs  []Port   `json:"inputs,omitempty"`
	Outputs []Port   `json:"outputs,omitempty"`
}

// Method is a named invocable entry point. A method with the same ID as an
// action delegates to that action.
type Method struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Port is a named, typed pipeline connection point. Port IDs must be unique
// across the combined inputs+outputs list.
type Port struct {
	ID          string    `json:"id"`
	Name        string    `json:"name,omitempty"`
	Type        ValueType `json:"type"`
	Required    bool      `json:"required,omitempty"`
	Default     any       `json:"default,omitempty"`
	Description string    `json:"description,omitempty"`
}

// Permissions controls how a widget may be composed, forked, and sold.
type Permissions struct {
	Pipeline     bool          `json:"pipeline"`
	Forkable     bool          `json:"forkable"`
	Marketplace  bool          `json:"marketplace"`
	RevenueShare *RevenueShare `json:"revenueShare,omitempty"`
	License      string        `json:"license,omitempty"`
	Capabilities []string      `json:"capabilities,omitempty"`
}

// RevenueShare splits marketplace revenue. Each fraction is in [0,1] and the
// sum must not exceed 1.
type RevenueShare struct {
	Creator  float64 `json:"creator,omitempty"`
	Platform float64 `json:"platform,omitempty"`
	Referrer float64 `json:"referrer,omitempty"`
}

// Size describes the widget's canvas footprint. Zero-valued min/max bounds
// mean "unset".
type Size struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	MinWidth    float64 `json:"minWidth,omitempty"`
	MinHeight   float64 `json:"minHeight,omitempty"`
	MaxWidth    float64 `json:"maxWidth,omitempty"`
	MaxHeight   float64 `json:"maxHeight,omitempty"`
	AspectRatio float64 `json:"aspectRatio,omitempty"`
	ScaleMode   string  `json:"scaleMode,omitempty"` // fit, fill, stretch, fixed
}

// ModdletOverride declares a moddlet slot override. Opaque to the compiler;
// carried through to the manifest unmodified.
type ModdletOverride struct {
	Slot   string         `json:"slot"`
	Module string         `json:"module"`
	Config map[string]any `json:"config,omitempty"`
}

// AIHints carries free-form guidance for AI-assisted behavior layers.
// Opaque to the compiler.
type AIHints struct {
	Personality string   `json:"personality,omitempty"`
	Behaviors   []string `json:"behaviors,omitempty"`
}
