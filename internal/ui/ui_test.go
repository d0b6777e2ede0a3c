package ui

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/hkcm91/StickerNestV3-sub007/internal/codegen"
	"github.com/hkcm91/StickerNestV3-sub007/internal/registry"
	"github.com/hkcm91/StickerNestV3-sub007/internal/spec"
)

// captureStderr redirects os.Stderr to a pipe and returns the captured output.
func captureStderr(fn func()) string {
	r, w, _ := os.Pipe()
	orig := os.Stderr
	os.Stderr = w

	fn()

	w.Close()
	os.Stderr = orig

	buf := make([]byte, 16384)
	n, _ := r.Read(buf)
	r.Close()
	return string(buf[:n])
}

func TestValidationResult_Clean(t *testing.T) {
	p := New()
	output := captureStderr(func() {
		p.ValidationResult("counter-widget", spec.Result{Valid: true})
	})

	if !strings.Contains(output, "counter-widget") {
		t.Errorf("missing widget id, got:\n%s", output)
	}
	if !strings.Contains(output, "no warnings") {
		t.Errorf("clean result should say so, got:\n%s", output)
	}
}

func TestValidationResult_ErrorsAndWarnings(t *testing.T) {
	p := New()
	res := spec.Result{
		Valid: false,
		Errors: []spec.Diagnostic{{
			Path:       "actions.inc.params.stateKey",
			Code:       spec.CodeStateFieldNotFound,
			Message:    `state key "cnt" is not declared`,
			Suggestion: `declare "cnt" under state or reference an existing key`,
		}},
		Warnings: []spec.Diagnostic{{
			Path:    "actions.inc",
			Code:    spec.CodeMissingDescription,
			Message: "action has no description",
		}},
	}
	output := captureStderr(func() {
		p.ValidationResult("counter-widget", res)
	})

	checks := []struct {
		name   string
		substr string
	}{
		{"error count", "1 error(s)"},
		{"warning count", "1 warning(s)"},
		{"path", "actions.inc.params.stateKey"},
		{"code", spec.CodeStateFieldNotFound},
		{"suggestion", "declare"},
	}
	for _, c := range checks {
		if !strings.Contains(output, c.substr) {
			t.Errorf("expected output to contain %s (%q), got:\n%s", c.name, c.substr, output)
		}
	}
}

func TestBuildSummary(t *testing.T) {
	p := New()
	pkg := &codegen.Package{
		ID:              "counter-widget",
		TemplateVersion: codegen.TemplateVersion,
		Files: []codegen.File{
			{Path: "manifest.json", Content: "{}", Type: codegen.FileManifest},
			{Path: "index.html", Content: "<!doctype html>", Type: codegen.FileEntry},
		},
	}
	output := captureStderr(func() {
		p.BuildSummary(pkg, "dist")
	})

	for _, substr := range []string{"counter-widget", "manifest.json", "index.html", "dist", codegen.TemplateVersion} {
		if !strings.Contains(output, substr) {
			t.Errorf("expected output to contain %q, got:\n%s", substr, output)
		}
	}
}

func TestRegistryList(t *testing.T) {
	p := New()

	empty := captureStderr(func() { p.RegistryList(nil) })
	if !strings.Contains(empty, "no widgets installed") {
		t.Errorf("empty list output:\n%s", empty)
	}

	output := captureStderr(func() {
		p.RegistryList([]registry.Entry{{
			ID:          "counter-widget",
			Version:     "1.0.0",
			Category:    spec.CategoryInteractive,
			FileCount:   5,
			InstalledAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		}})
	})
	for _, substr := range []string{"counter-widget", "1.0.0", "interactive", "2026-03-01"} {
		if !strings.Contains(output, substr) {
			t.Errorf("expected output to contain %q, got:\n%s", substr, output)
		}
	}
}

func TestWatchEvent(t *testing.T) {
	p := New()

	ok := captureStderr(func() { p.WatchEvent("ball.json", nil) })
	if !strings.Contains(ok, "rebuilt") {
		t.Errorf("rebuild line:\n%s", ok)
	}

	failed := captureStderr(func() { p.WatchEvent("ball.json", os.ErrNotExist) })
	if !strings.Contains(failed, "ball.json") || !strings.Contains(failed, "file does not exist") {
		t.Errorf("failure line:\n%s", failed)
	}
}
