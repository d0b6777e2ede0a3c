package spec

import (
	"strings"
	"testing"
)

// baseSpec returns a minimal spec that passes validation with no errors.
func baseSpec() *WidgetSpec {
	return &WidgetSpec{
		ID:       "counter-widget",
		Version:  "1.0.0",
		Name:     "Counter",
		Category: CategoryInteractive,
		Visual:   Visual{Mode: RenderStylesheet},
		State: map[string]StateField{
			"count": {Type: TypeNumber, Default: float64(0)},
		},
		Actions: map[string]Action{
			"inc": {
				Kind:        KindIncrementState,
				Params:      map[string]any{"stateKey": "count", "amount": float64(1)},
				Description: "Increment the counter",
			},
		},
		Events: Events{
			Triggers: map[string][]string{TriggerClick: {"inc"}},
		},
		API: API{
			Outputs: []Port{{ID: "count", Type: TypeNumber, Description: "Current count"}},
		},
	}
}

func hasCode(diags []Diagnostic, code string) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestValidateBaseSpecIsValid(t *testing.T) {
	t.Parallel()

	res := Validate(baseSpec())
	if !res.Valid {
		t.Fatalf("base spec should be valid, got errors: %v", res.Errors)
	}
	if len(res.Errors) != 0 {
		t.Errorf("expected no errors, got %d", len(res.Errors))
	}
}

func TestValidateIdentifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		id       string
		wantCode string // "" = no error expected for the id rule
	}{
		{"kebab case ok", "my-widget", ""},
		{"single segment ok", "clock", ""},
		{"uppercase rejected", "MyWidget", CodeInvalidIDFormat},
		{"leading digit rejected", "3d-widget", CodeInvalidIDFormat},
		{"underscore rejected", "my_widget", CodeInvalidIDFormat},
		{"too short rejected", "a", CodeInvalidIDFormat},
		{"too long rejected", strings.Repeat("a", 65), CodeInvalidIDFormat},
		{"empty is missing field", "", CodeMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := baseSpec()
			s.ID = tt.id
			res := Validate(s)
			if tt.wantCode == "" {
				if hasCode(res.Errors, CodeInvalidIDFormat) {
					t.Errorf("id %q should not trigger %s", tt.id, CodeInvalidIDFormat)
				}
				return
			}
			if !hasCode(res.Errors, tt.wantCode) {
				t.Errorf("id %q: expected %s, got %v", tt.id, tt.wantCode, res.Errors)
			}
		})
	}
}

func TestValidateVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		version string
		valid   bool
	}{
		{"1.0.0", true},
		{"0.2.10", true},
		{"2.0.0-beta.1", true},
		{"1.0", false},
		{"v1.0.0", false},
		{"latest", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			t.Parallel()
			s := baseSpec()
			s.Version = tt.version
			res := Validate(s)
			got := !hasCode(res.Errors, CodeInvalidVersion)
			if got != tt.valid {
				t.Errorf("version %q: valid=%v, want %v", tt.version, got, tt.valid)
			}
		})
	}
}

func TestValidateDanglingActionReference(t *testing.T) {
	t.Parallel()

	s := baseSpec()
	s.Events.Triggers[TriggerClick] = []string{"missingAction"}
	res := Validate(s)
	if !hasCode(res.Errors, CodeActionNotFound) {
		t.Fatalf("expected %s for dangling trigger reference, got %v", CodeActionNotFound, res.Errors)
	}

	// Adding the action removes the error.
	s.Actions["missingAction"] = Action{Kind: KindEmit, Params: map[string]any{"event": "ping"}, Description: "ping"}
	res = Validate(s)
	if hasCode(res.Errors, CodeActionNotFound) {
		t.Errorf("error should clear once the action exists, got %v", res.Errors)
	}
}

func TestValidateSubscriptionHandler(t *testing.T) {
	t.Parallel()

	s := baseSpec()
	s.Events.Subscriptions = []Subscription{{Event: "global:tick", Action: "nope"}}
	res := Validate(s)
	if !hasCode(res.Errors, CodeActionNotFound) {
		t.Errorf("expected %s for missing subscription handler", CodeActionNotFound)
	}
}

func TestValidateUnknownTriggerIsWarningOnly(t *testing.T) {
	t.Parallel()

	s := baseSpec()
	s.Events.Triggers["onSneeze"] = []string{"inc"}
	res := Validate(s)
	if !res.Valid {
		t.Fatalf("unknown trigger must not block generation, got errors: %v", res.Errors)
	}
	if !hasCode(res.Warnings, CodeUnknownTrigger) {
		t.Errorf("expected %s warning", CodeUnknownTrigger)
	}
}

func TestValidateStateCrossReferences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		action Action
		want   string
	}{
		{
			"set-state unknown field",
			Action{Kind: KindSetState, Params: map[string]any{"stateKey": "ghost", "value": 1}, Description: "d"},
			CodeStateFieldNotFound,
		},
		{
			"toggle-state missing stateKey",
			Action{Kind: KindToggleState, Params: map[string]any{}, Description: "d"},
			CodeMissingField,
		},
		{
			"sequence unknown member",
			Action{Kind: KindSequence, Params: map[string]any{"actions": []any{"inc", "ghost"}}, Description: "d"},
			CodeActionNotFound,
		},
		{
			"parallel unknown member",
			Action{Kind: KindParallel, Params: map[string]any{"actions": []string{"ghost"}}, Description: "d"},
			CodeActionNotFound,
		},
		{
			"condition unknown field",
			Action{Kind: KindEmit, Params: map[string]any{"event": "e"}, Condition: &Condition{StateKey: "ghost", Op: OpEq, Value: 1}, Description: "d"},
			CodeStateFieldNotFound,
		},
		{
			"condition bad operator",
			Action{Kind: KindEmit, Params: map[string]any{"event": "e"}, Condition: &Condition{StateKey: "count", Op: "approximately", Value: 1}, Description: "d"},
			CodeInvalidCondition,
		},
		{
			"unknown kind",
			Action{Kind: "teleport", Description: "d"},
			CodeInvalidActionKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := baseSpec()
			s.Actions["bad"] = tt.action
			res := Validate(s)
			if !hasCode(res.Errors, tt.want) {
				t.Errorf("expected %s, got %v", tt.want, res.Errors)
			}
		})
	}
}

func TestValidateDuplicatePortIDs(t *testing.T) {
	t.Parallel()

	s := baseSpec()
	s.API.Inputs = []Port{{ID: "value", Type: TypeNumber}}
	s.API.Outputs = []Port{{ID: "value", Type: TypeNumber}}
	res := Validate(s)
	if !hasCode(res.Errors, CodeDuplicatePortID) {
		t.Errorf("duplicate id across inputs+outputs should be an error, got %v", res.Errors)
	}
}

func TestValidateRevenueShare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		share RevenueShare
		want  string // expected error code, "" = none
	}{
		{"sum exceeds one", RevenueShare{Creator: 0.9, Platform: 0.3}, CodeRevenueShareExceeds},
		{"sum exactly one", RevenueShare{Creator: 0.8, Platform: 0.2}, ""},
		{"negative share", RevenueShare{Creator: -0.1}, CodeRevenueShareRange},
		{"share above one", RevenueShare{Platform: 1.5}, CodeRevenueShareRange},
		{"float noise tolerated", RevenueShare{Creator: 0.7, Platform: 0.2, Referrer: 0.1}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := baseSpec()
			share := tt.share
			s.Permissions.RevenueShare = &share
			res := Validate(s)
			if tt.want == "" {
				if hasCode(res.Errors, CodeRevenueShareExceeds) || hasCode(res.Errors, CodeRevenueShareRange) {
					t.Errorf("unexpected revenue-share error: %v", res.Errors)
				}
				return
			}
			if !hasCode(res.Errors, tt.want) {
				t.Errorf("expected %s, got %v", tt.want, res.Errors)
			}
		})
	}
}

func TestValidateMarketplaceWithoutShareWarns(t *testing.T) {
	t.Parallel()

	s := baseSpec()
	s.Permissions.Marketplace = true
	res := Validate(s)
	if !res.Valid {
		t.Fatalf("missing revenue share must only warn, got errors: %v", res.Errors)
	}
	if !hasCode(res.Warnings, CodeMissingRevenueShare) {
		t.Errorf("expected %s warning", CodeMissingRevenueShare)
	}
}

func TestValidateSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size Size
		want string
	}{
		{"zero width", Size{Width: 0, Height: 100}, CodeInvalidSize},
		{"inverted width bounds", Size{Width: 100, Height: 100, MinWidth: 200, MaxWidth: 150}, CodeSizeBoundsInverted},
		{"inverted height bounds", Size{Width: 100, Height: 100, MinHeight: 90, MaxHeight: 50}, CodeSizeBoundsInverted},
		{"valid", Size{Width: 128, Height: 128, MinWidth: 64, MaxWidth: 256}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := baseSpec()
			size := tt.size
			s.Size = &size
			res := Validate(s)
			if tt.want == "" {
				if !res.Valid {
					t.Errorf("unexpected errors: %v", res.Errors)
				}
				return
			}
			if !hasCode(res.Errors, tt.want) {
				t.Errorf("expected %s, got %v", tt.want, res.Errors)
			}
		})
	}
}

func TestValidateOversizeWarns(t *testing.T) {
	t.Parallel()

	s := baseSpec()
	s.Size = &Size{Width: 4096, Height: 128}
	res := Validate(s)
	if !res.Valid {
		t.Fatalf("oversize must only warn, got errors: %v", res.Errors)
	}
	if !hasCode(res.Warnings, CodeOversized) {
		t.Errorf("expected %s warning", CodeOversized)
	}
}

func TestValidateTags(t *testing.T) {
	t.Parallel()

	s := baseSpec()
	s.Tags = []string{"fun", "fun", "UPPER", strings.Repeat("x", 33)}
	res := Validate(s)
	if !hasCode(res.Errors, CodeInvalidTag) {
		t.Errorf("expected %s for uppercase tag", CodeInvalidTag)
	}
	if !hasCode(res.Errors, CodeTagTooLong) {
		t.Errorf("expected %s for long tag", CodeTagTooLong)
	}
	if !hasCode(res.Warnings, CodeDuplicateTag) {
		t.Errorf("duplicate tag should warn, not error")
	}
	if hasCode(res.Errors, CodeDuplicateTag) {
		t.Errorf("duplicate tag must not be an error")
	}

	s = baseSpec()
	s.Tags = make([]string, 11)
	for i := range s.Tags {
		s.Tags[i] = "tag-" + string(rune('a'+i))
	}
	res = Validate(s)
	if !hasCode(res.Errors, CodeTooManyTags) {
		t.Errorf("expected %s for 11 tags", CodeTooManyTags)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	t.Parallel()

	// A spec broken in several independent ways must report all of them.
	s := &WidgetSpec{
		ID:       "X",
		Version:  "nope",
		Category: "alien",
		Visual:   Visual{Mode: "holographic"},
		Events:   Events{Triggers: map[string][]string{TriggerClick: {"ghost"}}},
	}
	res := Validate(s)
	for _, code := range []string{CodeInvalidIDFormat, CodeInvalidVersion, CodeMissingField, CodeInvalidCategory, CodeInvalidRenderMode, CodeActionNotFound} {
		if !hasCode(res.Errors, code) {
			t.Errorf("expected %s among errors, got %v", code, res.Errors)
		}
	}
}

func TestValidateNilSpec(t *testing.T) {
	t.Parallel()

	res := Validate(nil)
	if res.Valid {
		t.Error("nil spec must not validate")
	}
}
