package spec

// Diagnostic codes are stable, enumerable string constants. Callers branch
// on codes, never on message text.
const (
	CodeMissingField         = "MISSING_FIELD"
	CodeInvalidIDFormat      = "INVALID_ID_FORMAT"
	CodeInvalidVersion       = "INVALID_VERSION"
	CodeInvalidCategory      = "INVALID_CATEGORY"
	CodeInvalidRenderMode    = "INVALID_RENDER_MODE"
	CodeMissingSkinID        = "MISSING_SKIN_ID"
	CodeMissingSkinName      = "MISSING_SKIN_NAME"
	CodeInvalidVariableName  = "INVALID_VARIABLE_NAME"
	CodeMissingDefaultAsset  = "MISSING_DEFAULT_ASSET"
	CodeInvalidStateType     = "INVALID_STATE_TYPE"
	CodeMissingStateDefault  = "MISSING_STATE_DEFAULT"
	CodeUnknownTrigger       = "UNKNOWN_TRIGGER"
	CodeActionNotFound       = "ACTION_NOT_FOUND"
	CodeInvalidActionKind    = "INVALID_ACTION_KIND"
	CodeStateFieldNotFound   = "STATE_FIELD_NOT_FOUND"
	CodeMissingDescription   = "MISSING_ACTION_DESCRIPTION"
	CodeInvalidCondition     = "INVALID_CONDITION"
	CodeDuplicatePortID      = "DUPLICATE_PORT_ID"
	CodeMissingPortID        = "MISSING_PORT_ID"
	CodeInvalidPortType      = "INVALID_PORT_TYPE"
	CodeNoPorts              = "NO_PORTS"
	CodeRevenueShareRange    = "REVENUE_SHARE_OUT_OF_RANGE"
	CodeRevenueShareExceeds  = "REVENUE_SHARE_EXCEEDS_100"
	CodeMissingRevenueShare  = "MISSING_REVENUE_SHARE"
	CodeInvalidSize          = "INVALID_SIZE"
	CodeSizeBoundsInverted   = "SIZE_BOUNDS_INVERTED"
	CodeOversized            = "OVERSIZED"
	CodeTooManyTags          = "TOO_MANY_TAGS"
	CodeInvalidTag           = "INVALID_TAG"
	CodeTagTooLong           = "TAG_TOO_LONG"
	CodeDuplicateTag         = "DUPLICATE_TAG"
)

// Diagnostic is a single validation finding. Path addresses the offending
// value inside the spec using dot/bracket notation, e.g.
// "actions.inc.params.stateKey" or "api.inputs[2].id".
type Diagnostic struct {
	Path       string `json:"path"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"` // Warnings only
}

// Result is the validator's complete output. Errors block generation;
// warnings are advisory and never block.
type Result struct {
	Valid    bool         `json:"valid"`
	Errors   []Diagnostic `json:"errors"`
	Warnings []Diagnostic `json:"warnings"`
}
