package spec

import (
	"fmt"
	"regexp"
	"sort"
)

var (
	idPattern      = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?$`)
	varNamePattern = regexp.MustCompile(`^--[a-z][a-z0-9-]*$`)
	tagPattern     = regexp.MustCompile(`^[a-z0-9-]+$`)
)

const (
	idMinLen  = 2
	idMaxLen  = 64
	maxTags   = 10
	tagMaxLen = 32

	// revenueTolerance absorbs floating-point noise when summing shares.
	revenueTolerance = 1e-9

	// oversizeThreshold is the per-axis size above which a warning is issued.
	oversizeThreshold = 2048
)

// Validate checks a spec for structural and cross-referential correctness.
// It is pure and total: it never panics, checks every rule rather than
// stopping at the first failure, and returns the complete diagnostic list.
func Validate(s *WidgetSpec) Result {
	v := &validator{}
	if s == nil {
		v.errorf("", CodeMissingField, "spec is nil")
		return v.result()
	}

	v.checkIdentity(s)
	v.checkVisual(&s.Visual)
	v.checkState(s.State)
	v.checkEvents(s)
	v.checkActions(s)
	v.checkAPI(&s.API)
	v.checkPermissions(&s.Permissions)
	v.checkSize(s.Size)
	v.checkTags(s.Tags)

	return v.result()
}

type validator struct {
	errors   []Diagnostic
	warnings []Diagnostic
}

func (v *validator) errorf(path, code, format string, args ...any) {
	v.errors = append(v.errors, Diagnostic{Path: path, Code: code, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) warnf(path, code, suggestion, format string, args ...any) {
	v.warnings = append(v.warnings, Diagnostic{Path: path, Code: code, Message: fmt.Sprintf(format, args...), Suggestion: suggestion})
}

func (v *validator) result() Result {
	return Result{
		Valid:    len(v.errors) == 0,
		Errors:   v.errors,
		Warnings: v.warnings,
	}
}

func (v *validator) checkIdentity(s *WidgetSpec) {
	switch {
	case s.ID == "":
		v.errorf("id", CodeMissingField, "id is required")
	case !idPattern.MatchString(s.ID):
		v.errorf("id", CodeInvalidIDFormat, "id %q must be kebab-case (start with a letter, lowercase letters, digits, hyphens)", s.ID)
	case len(s.ID) < idMinLen || len(s.ID) > idMaxLen:
		v.errorf("id", CodeInvalidIDFormat, "id length must be %d-%d characters, got %d", idMinLen, idMaxLen, len(s.ID))
	}

	if s.Version == "" {
		v.errorf("version", CodeMissingField, "version is required")
	} else if !versionPattern.MatchString(s.Version) {
		v.errorf("version", CodeInvalidVersion, "version %q is not a semantic version", s.Version)
	}

	if s.Name == "" {
		v.errorf("name", CodeMissingField, "name is required")
	}

	if s.Category == "" {
		v.errorf("category", CodeMissingField, "category is required")
	} else if !ValidCategories[s.Category] {
		v.errorf("category", CodeInvalidCategory, "unknown category %q", s.Category)
	}
}

func (v *validator) checkVisual(vis *Visual) {
	if vis.Mode == "" {
		v.errorf("visual.mode", CodeMissingField, "visual.mode is required")
	} else if !ValidRenderModes[vis.Mode] {
		v.errorf("visual.mode", CodeInvalidRenderMode, "unknown rendering mode %q", vis.Mode)
	}

	if AssetBackedModes[vis.Mode] && vis.DefaultAsset == "" {
		v.warnf("visual.defaultAsset", CodeMissingDefaultAsset,
			"set visual.defaultAsset so the widget renders before any skin is chosen",
			"rendering mode %q normally requires a default asset", vis.Mode)
	}

	for i, skin := range vis.Skins {
		if skin.ID == "" {
			v.errorf(fmt.Sprintf("visual.skins[%d].id", i), CodeMissingSkinID, "skin id is required")
		}
		if skin.Name == "" {
			v.errorf(fmt.Sprintf("visual.skins[%d].name", i), CodeMissingSkinName, "skin name is required")
		}
	}

	for i, tv := range vis.Variables {
		if !varNamePattern.MatchString(tv.Name) {
			v.errorf(fmt.Sprintf("visual.variables[%d].name", i), CodeInvalidVariableName,
				"variable name %q must be a custom property like --accent-color", tv.Name)
		}
	}
}

func (v *validator) checkState(state map[string]StateField) {
	for _, name := range sortedKeys(state) {
		f := state[name]
		path := "state." + name

		if f.Type == "" {
			v.errorf(path+".type", CodeMissingField, "state field %q has no type", name)
		} else if !ValidValueTypes[f.Type] {
			v.errorf(path+".type", CodeInvalidStateType, "state field %q has unknown type %q", name, f.Type)
		}

		if f.Default == nil {
			v.warnf(path+".default", CodeMissingStateDefault,
				"declare a default so reset-state and initial render are well-defined",
				"state field %q has no default value", name)
		}
	}
}

func (v *validator) checkEvents(s *WidgetSpec) {
	for _, trigger := range sortedKeys(s.Events.Triggers) {
		path := "events.triggers." + trigger
		if !KnownTriggers[trigger] {
			// Unknown triggers are tolerated: the generator skips them.
			v.warnf(path, CodeUnknownTrigger,
				"remove the trigger or use one of the recognized trigger names",
				"trigger %q is not recognized and will not be bound", trigger)
		}
		for i, actionID := range s.Events.Triggers[trigger] {
			if _, ok := s.Actions[actionID]; !ok {
				v.errorf(fmt.Sprintf("%s[%d]", path, i), CodeActionNotFound,
					"trigger %q references action %q which does not exist", trigger, actionID)
			}
		}
	}

	for i, sub := range s.Events.Subscriptions {
		path := fmt.Sprintf("events.subscriptions[%d]", i)
		if sub.Event == "" {
			v.errorf(path+".event", CodeMissingField, "subscription event name is required")
		}
		if _, ok := s.Actions[sub.Action]; !ok {
			v.errorf(path+".action", CodeActionNotFound,
				"subscription to %q references action %q which does not exist", sub.Event, sub.Action)
		}
	}
}

func (v *validator) checkActions(s *WidgetSpec) {
	for _, id := range sortedKeys(s.Actions) {
		a := s.Actions[id]
		path := "actions." + id

		if a.Kind == "" {
			v.errorf(path+".kind", CodeMissingField, "action %q has no kind", id)
			continue
		}
		if !ValidActionKinds[a.Kind] {
			v.errorf(path+".kind", CodeInvalidActionKind, "action %q has unknown kind %q", id, a.Kind)
			continue
		}

		if a.Kind.MutatesState() {
			key, _ := a.Params["stateKey"].(string)
			if key == "" {
				v.errorf(path+".params.stateKey", CodeMissingField,
					"action %q (%s) requires params.stateKey", id, a.Kind)
			} else if _, ok := s.State[key]; !ok {
				v.errorf(path+".params.stateKey", CodeStateFieldNotFound,
					"action %q references state field %q which does not exist", id, key)
			}
		}

		if a.Kind.Composite() {
			for i, member := range MemberActions(a.Params) {
				if _, ok := s.Actions[member]; !ok {
					v.errorf(fmt.Sprintf("%s.params.actions[%d]", path, i), CodeActionNotFound,
						"%s action %q references action %q which does not exist", a.Kind, id, member)
				}
			}
		}

		if a.Kind == KindConditional {
			if target, _ := a.Params["action"].(string); target != "" {
				if _, ok := s.Actions[target]; !ok {
					v.errorf(path+".params.action", CodeActionNotFound,
						"conditional action %q references action %q which does not exist", id, target)
				}
			}
		}

		if a.Condition != nil {
			if _, ok := s.State[a.Condition.StateKey]; !ok {
				v.errorf(path+".condition.stateKey", CodeStateFieldNotFound,
					"action %q condition references state field %q which does not exist", id, a.Condition.StateKey)
			}
			if a.Condition.Op != "" && !ValidCompareOps[a.Condition.Op] {
				v.errorf(path+".condition.op", CodeInvalidCondition,
					"action %q condition has unknown operator %q", id, a.Condition.Op)
			}
		}

		if a.Description == "" {
			v.warnf(path+".description", CodeMissingDescription,
				"describe what the action does; descriptions appear in the editor and manifest",
				"action %q has no description", id)
		}
	}
}

func (v *validator) checkAPI(api *API) {
	seen := make(map[string]string) // port id → path of first declaration
	checkPorts := func(ports []Port, section string) {
		for i, p := range ports {
			path := fmt.Sprintf("api.%s[%d]", section, i)
			if p.ID == "" {
				v.errorf(path+".id", CodeMissingPortID, "port id is required")
				continue
			}
			if p.Type != "" && !ValidValueTypes[p.Type] {
				v.errorf(path+".type", CodeInvalidPortType, "port %q has unknown type %q", p.ID, p.Type)
			}
			if prev, ok := seen[p.ID]; ok {
				v.errorf(path+".id", CodeDuplicatePortID,
					"port id %q already declared at %s", p.ID, prev)
				continue
			}
			seen[p.ID] = path
		}
	}
	checkPorts(api.Inputs, "inputs")
	checkPorts(api.Outputs, "outputs")

	if len(api.Inputs) == 0 && len(api.Outputs) == 0 {
		v.warnf("api", CodeNoPorts,
			"declare input or output ports to make the widget composable in pipelines",
			"widget declares no pipeline ports")
	}
}

func (v *validator) checkPermissions(p *Permissions) {
	if rs := p.RevenueShare; rs != nil {
		shares := []struct {
			name  string
			value float64
		}{
			{"creator", rs.Creator},
			{"platform", rs.Platform},
			{"referrer", rs.Referrer},
		}
		sum := 0.0
		for _, s := range shares {
			if s.value < 0 || s.value > 1 {
				v.errorf("permissions.revenueShare."+s.name, CodeRevenueShareRange,
					"%s share %.4f must be between 0 and 1", s.name, s.value)
			}
			sum += s.value
		}
		if sum > 1+revenueTolerance {
			v.errorf("permissions.revenueShare", CodeRevenueShareExceeds,
				"revenue shares sum to %.4f, which exceeds 1.0", sum)
		}
	} else if p.Marketplace {
		v.warnf("permissions.revenueShare", CodeMissingRevenueShare,
			"configure a revenue share before listing on the marketplace",
			"marketplace listing is allowed but no revenue share is configured")
	}
}

func (v *validator) checkSize(sz *Size) {
	if sz == nil {
		return
	}
	if sz.Width < 1 {
		v.errorf("size.width", CodeInvalidSize, "width must be >= 1, got %g", sz.Width)
	}
	if sz.Height < 1 {
		v.errorf("size.height", CodeInvalidSize, "height must be >= 1, got %g", sz.Height)
	}
	if sz.MinWidth > 0 && sz.MaxWidth > 0 && sz.MinWidth > sz.MaxWidth {
		v.errorf("size.minWidth", CodeSizeBoundsInverted,
			"minWidth %g exceeds maxWidth %g", sz.MinWidth, sz.MaxWidth)
	}
	if sz.MinHeight > 0 && sz.MaxHeight > 0 && sz.MinHeight > sz.MaxHeight {
		v.errorf("size.minHeight", CodeSizeBoundsInverted,
			"minHeight %g exceeds maxHeight %g", sz.MinHeight, sz.MaxHeight)
	}
	if sz.Width > oversizeThreshold || sz.Height > oversizeThreshold {
		v.warnf("size", CodeOversized,
			fmt.Sprintf("keep each axis at or below %d for canvas performance", oversizeThreshold),
			"size %gx%g is unusually large", sz.Width, sz.Height)
	}
}

func (v *validator) checkTags(tags []string) {
	if len(tags) > maxTags {
		v.errorf("tags", CodeTooManyTags, "at most %d tags allowed, got %d", maxTags, len(tags))
	}
	seen := make(map[string]bool)
	for i, tag := range tags {
		path := fmt.Sprintf("tags[%d]", i)
		if !tagPattern.MatchString(tag) {
			v.errorf(path, CodeInvalidTag, "tag %q must contain only lowercase letters, digits, and hyphens", tag)
		}
		if len(tag) > tagMaxLen {
			v.errorf(path, CodeTagTooLong, "tag %q exceeds %d characters", tag, tagMaxLen)
		}
		if seen[tag] {
			v.warnf(path, CodeDuplicateTag, "remove the duplicate entry", "tag %q appears more than once", tag)
		}
		seen[tag] = true
	}
}

// MemberActions extracts the ordered action-id list from a sequence or
// parallel action's params. JSON decoding yields []any; hand-built specs may
// carry []string. Non-string entries are skipped.
func MemberActions(params map[string]any) []string {
	switch raw := params["actions"].(type) {
	case []string:
		return raw
	case []any:
		out := make([]string, 0, len(raw))
		for _, m := range raw {
			if id, ok := m.(string); ok {
				out = append(out, id)
			}
		}
		return out
	default:
		return nil
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
