package registry

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/hkcm91/StickerNestV3-sub007/internal/codegen"
	"github.com/hkcm91/StickerNestV3-sub007/internal/spec"
)

// testRegistry creates a temporary SQLite registry and registers cleanup.
func testRegistry(t *testing.T) *Registry {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.registry.db")
	r, err := Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Open(%q): %v", dbPath, err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func buildPackage(t *testing.T, id string) *codegen.Package {
	t.Helper()
	s := &spec.WidgetSpec{
		ID:       id,
		Version:  "1.0.0",
		Name:     "Counter",
		Category: spec.CategoryInteractive,
		Visual:   spec.Visual{Mode: spec.RenderStylesheet},
		State: map[string]spec.StateField{
			"count": {Type: spec.TypeNumber, Default: float64(0)},
		},
		Actions: map[string]spec.Action{
			"inc": {
				Kind:        spec.KindIncrementState,
				Params:      map[string]any{"stateKey": "count"},
				Description: "Increment the counter",
			},
		},
		Events: spec.Events{
			Triggers: map[string][]string{spec.TriggerClick: {"inc"}},
		},
	}
	pkg, err := codegen.Generate(s, codegen.Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return pkg
}

func TestOpenIdempotentSchema(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "reopen.registry.db")
	r1, err := Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	r1.Close()

	r2, err := Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	r2.Close()
}

func TestInstallGetRoundTrip(t *testing.T) {
	t.Parallel()

	r := testRegistry(t)
	ctx := context.Background()
	pkg := buildPackage(t, "counter-widget")

	if err := r.Install(ctx, pkg); err != nil {
		t.Fatalf("Install: %v", err)
	}

	got, err := r.Get(ctx, "counter-widget")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != pkg.ID || got.TemplateVersion != pkg.TemplateVersion || got.GeneratedAt != pkg.GeneratedAt {
		t.Errorf("metadata mismatch: got %q/%s/%d", got.ID, got.TemplateVersion, got.GeneratedAt)
	}
	if len(got.Files) != len(pkg.Files) {
		t.Fatalf("file count = %d, want %d", len(got.Files), len(pkg.Files))
	}
	for i, f := range pkg.Files {
		if got.Files[i].Path != f.Path {
			t.Errorf("file %d path = %q, want %q (order must survive)", i, got.Files[i].Path, f.Path)
		}
		if got.Files[i].Content != f.Content {
			t.Errorf("file %q content changed through the store", f.Path)
		}
	}
	if got.Spec.Name != "Counter" {
		t.Errorf("stored spec name = %q", got.Spec.Name)
	}
	if spec.Hash(got.Spec) != spec.Hash(pkg.Spec) {
		t.Error("stored spec hash differs from original")
	}
}

func TestReinstallReplaces(t *testing.T) {
	t.Parallel()

	r := testRegistry(t)
	ctx := context.Background()

	if err := r.Install(ctx, buildPackage(t, "counter-widget")); err != nil {
		t.Fatalf("first install: %v", err)
	}

	pkg := buildPackage(t, "counter-widget")
	pkg.Spec.Version = "2.0.0"
	pkg.Files = pkg.Files[:2] // rebuilt package with fewer files
	if err := r.Install(ctx, pkg); err != nil {
		t.Fatalf("reinstall: %v", err)
	}

	got, err := r.Get(ctx, "counter-widget")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Spec.Version != "2.0.0" {
		t.Errorf("version = %q, want replacement to win", got.Spec.Version)
	}
	if len(got.Files) != 2 {
		t.Errorf("file count = %d after reinstall, want 2", len(got.Files))
	}

	entries, err := r.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("reinstall must not duplicate entries, got %d", len(entries))
	}
}

func TestListOrderedByID(t *testing.T) {
	t.Parallel()

	r := testRegistry(t)
	ctx := context.Background()

	for _, id := range []string{"zeta-widget", "alpha-widget", "mid-widget"} {
		if err := r.Install(ctx, buildPackage(t, id)); err != nil {
			t.Fatalf("install %q: %v", id, err)
		}
	}

	entries, err := r.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"alpha-widget", "mid-widget", "zeta-widget"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries", len(entries))
	}
	for i, id := range want {
		if entries[i].ID != id {
			t.Errorf("entries[%d].ID = %q, want %q", i, entries[i].ID, id)
		}
	}
	if entries[0].FileCount == 0 {
		t.Error("FileCount not populated")
	}
	if entries[0].Category != spec.CategoryInteractive {
		t.Errorf("Category = %q", entries[0].Category)
	}
}

func TestGetAndRemoveMissing(t *testing.T) {
	t.Parallel()

	r := testRegistry(t)
	ctx := context.Background()

	if _, err := r.Get(ctx, "ghost-widget"); !errors.Is(err, ErrNotInstalled) {
		t.Errorf("Get missing = %v, want ErrNotInstalled", err)
	}
	if err := r.Remove(ctx, "ghost-widget"); !errors.Is(err, ErrNotInstalled) {
		t.Errorf("Remove missing = %v, want ErrNotInstalled", err)
	}
}

func TestRemoveDeletesFiles(t *testing.T) {
	t.Parallel()

	r := testRegistry(t)
	ctx := context.Background()

	if err := r.Install(ctx, buildPackage(t, "counter-widget")); err != nil {
		t.Fatalf("Install: %v", err)
	}
	if err := r.Remove(ctx, "counter-widget"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := r.Get(ctx, "counter-widget"); !errors.Is(err, ErrNotInstalled) {
		t.Errorf("Get after remove = %v, want ErrNotInstalled", err)
	}

	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM widget_files").Scan(&n); err != nil {
		t.Fatalf("count files: %v", err)
	}
	if n != 0 {
		t.Errorf("%d orphaned file rows after remove", n)
	}
}
