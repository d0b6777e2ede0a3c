// Package project handles the on-disk layout of a widget project: the
// widget.toml manifest that pins the spec file and build options, and a
// filesystem watcher that drives rebuild-on-save workflows.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// ManifestFileName is the project manifest looked up in the working
// directory and its ancestors.
const ManifestFileName = "widget.toml"

// ErrNoManifest is returned when no widget.toml exists here or above.
var ErrNoManifest = errors.New("project: no widget.toml found")

// Manifest is the parsed widget.toml.
type Manifest struct {
	Widget WidgetSection `toml:"widget"`
	Build  BuildSection  `toml:"build"`

	// Dir is the directory the manifest was loaded from. Not serialized;
	// relative paths in the manifest resolve against it.
	Dir string `toml:"-"`
}

// WidgetSection names the project's inputs and outputs.
type WidgetSection struct {
	Spec string `toml:"spec"` // path to the spec JSON, relative to the manifest
	Out  string `toml:"out"`  // output directory for generated packages
}

// BuildSection carries default generation options; command-line flags
// override them.
type BuildSection struct {
	Minify   bool `toml:"minify"`
	Tests    bool `toml:"tests"`
	Comments bool `toml:"comments"`
}

// defaults returns a manifest with the conventional layout.
func defaults() Manifest {
	return Manifest{
		Widget: WidgetSection{Spec: "widget.json", Out: "dist"},
		Build:  BuildSection{Tests: true, Comments: true},
	}
}

// Load reads widget.toml from dir. Missing fields fall back to the
// conventional layout.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("project: read %s: %w", path, err)
	}

	m := defaults()
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("project: parse %s: %w", path, err)
	}
	if m.Widget.Spec == "" {
		m.Widget.Spec = "widget.json"
	}
	if m.Widget.Out == "" {
		m.Widget.Out = "dist"
	}
	m.Dir = dir
	return &m, nil
}

// Find walks from start up to the filesystem root looking for widget.toml
// and loads the first one found.
func Find(start string) (*Manifest, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("project: resolve %s: %w", start, err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ManifestFileName)); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, ErrNoManifest
		}
		dir = parent
	}
}

// Save writes the manifest atomically (write temp + rename) into m.Dir.
func Save(m *Manifest) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("project: marshal manifest: %w", err)
	}

	path := filepath.Join(m.Dir, ManifestFileName)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("project: write temp manifest: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("project: rename manifest: %w", err)
	}
	return nil
}

// SpecPath resolves the spec file path against the manifest directory.
func (m *Manifest) SpecPath() string {
	if filepath.IsAbs(m.Widget.Spec) {
		return m.Widget.Spec
	}
	return filepath.Join(m.Dir, m.Widget.Spec)
}

// OutDir resolves the output directory against the manifest directory.
func (m *Manifest) OutDir() string {
	if filepath.IsAbs(m.Widget.Out) {
		return m.Widget.Out
	}
	return filepath.Join(m.Dir, m.Widget.Out)
}
