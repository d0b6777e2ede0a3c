package spec

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleSpec = `{
  "id": "bouncy-ball",
  "version": "1.2.0",
  "name": "Bouncy Ball",
  "category": "game",
  "visual": {"mode": "canvas", "variables": [{"name": "--ball-color", "default": "#ff5533", "type": "color"}]},
  "state": {
    "bounces": {"type": "number", "default": 0},
    "paused": {"type": "boolean", "default": false}
  },
  "actions": {
    "bounce": {"kind": "increment-state", "params": {"stateKey": "bounces"}, "description": "Count a bounce"},
    "togglePause": {"kind": "toggle-state", "params": {"stateKey": "paused"}, "description": "Pause or resume"}
  },
  "events": {"triggers": {"onClick": ["togglePause"], "onInterval": ["bounce"]}},
  "api": {"outputs": [{"id": "bounces", "type": "number"}]},
  "permissions": {"pipeline": true, "forkable": true, "marketplace": false}
}`

func TestParseSampleSpec(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte(sampleSpec))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.ID != "bouncy-ball" {
		t.Errorf("id = %q, want bouncy-ball", s.ID)
	}
	if s.Visual.Mode != RenderCanvas {
		t.Errorf("mode = %q, want canvas", s.Visual.Mode)
	}
	if got := s.State["bounces"].Type; got != TypeNumber {
		t.Errorf("bounces type = %q, want number", got)
	}
	if got := s.Actions["bounce"].Kind; got != KindIncrementState {
		t.Errorf("bounce kind = %q, want increment-state", got)
	}
	if res := Validate(s); !res.Valid {
		t.Errorf("sample spec should validate, got %v", res.Errors)
	}
}

func TestParseMalformedJSON(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte(`{"id": `)); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, ErrNoSpec) {
		t.Errorf("expected ErrNoSpec, got %v", err)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "widget.spec.json")
	if err := os.WriteFile(path, []byte(sampleSpec), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "Bouncy Ball" {
		t.Errorf("name = %q", s.Name)
	}
}

func TestHashStableAndSensitive(t *testing.T) {
	t.Parallel()

	a, _ := Parse([]byte(sampleSpec))
	b, _ := Parse([]byte(sampleSpec))
	if Hash(a) != Hash(b) {
		t.Error("identical specs must hash identically")
	}

	b.Version = "1.2.1"
	if Hash(a) == Hash(b) {
		t.Error("a changed spec must hash differently")
	}
}
