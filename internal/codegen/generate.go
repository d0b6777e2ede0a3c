// Package codegen turns a validated widget spec into a self-contained
// package of generated files. Generation is deterministic: for a fixed spec
// and template version every file's content is byte-identical across calls;
// only the package-level timestamp varies.
package codegen

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hkcm91/StickerNestV3-sub007/internal/spec"
)

// TemplateVersion tags every generated package. Downstream caches key on
// (spec hash, TemplateVersion), so bump it whenever emitter output changes.
const TemplateVersion = "3.2.0"

// ErrSpecInvalid indicates generation was refused because the spec failed
// validation. The error message aggregates every validation error; no
// partial package is ever emitted.
var ErrSpecInvalid = errors.New("spec failed validation")

// Options controls optional generator behavior.
type Options struct {
	Minify          bool   // Collapse generated markup whitespace
	IncludeTests    bool   // Emit the test-scaffold file
	IncludeComments bool   // Emit human-readable section banners
	TargetFormat    string // Reserved for alternate output shapes
}

// FileType classifies a generated file.
type FileType string

const (
	FileManifest FileType = "manifest"
	FileEntry    FileType = "entry"
	FileState    FileType = "state"
	FileActions  FileType = "actions"
	FileStyles   FileType = "styles"
	FileTest     FileType = "test"
	FileAsset    FileType = "asset"
)

// File is a single generated file.
type File struct {
	Path    string   `json:"path"`
	Content string   `json:"content"`
	Type    FileType `json:"type"`
}

// Package is the complete output of one generation call. It is immutable
// once returned.
type Package struct {
	ID              string           `json:"id"`
	Spec            *spec.WidgetSpec `json:"spec"`
	Files           []File           `json:"files"`
	GeneratedAt     int64            `json:"generatedAt"` // Unix milliseconds
	TemplateVersion string           `json:"templateVersion"`
}

// FileByType returns the first file of the given type, or nil.
func (p *Package) FileByType(t FileType) *File {
	for i := range p.Files {
		if p.Files[i].Type == t {
			return &p.Files[i]
		}
	}
	return nil
}

// Generate compiles a spec into a package. It re-runs the validator first
// and refuses to emit anything when any error-level diagnostic exists.
func Generate(s *spec.WidgetSpec, opts Options) (*Package, error) {
	res := spec.Validate(s)
	if !res.Valid {
		var b strings.Builder
		fmt.Fprintf(&b, "%d validation error(s):", len(res.Errors))
		for _, d := range res.Errors {
			fmt.Fprintf(&b, "\n  %s: %s", d.Path, d.Message)
		}
		return nil, fmt.Errorf("%w: %s", ErrSpecInvalid, b.String())
	}

	files := []File{
		{Path: "manifest.json", Content: emitManifest(s), Type: FileManifest},
		{Path: "index.html", Content: emitEntry(s, opts), Type: FileEntry},
		{Path: "state.js", Content: emitStateModule(s, opts), Type: FileState},
		{Path: "actions.js", Content: emitActionsModule(s, opts), Type: FileActions},
		{Path: "styles.css", Content: emitStyles(s, opts), Type: FileStyles},
	}
	if opts.IncludeTests {
		files = append(files, File{Path: "widget.test.js", Content: emitTestScaffold(s), Type: FileTest})
	}

	return &Package{
		ID:              s.ID,
		Spec:            s,
		Files:           files,
		GeneratedAt:     time.Now().UnixMilli(),
		TemplateVersion: TemplateVersion,
	}, nil
}
