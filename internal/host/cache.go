package host

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hkcm91/StickerNestV3-sub007/internal/codegen"
	"github.com/hkcm91/StickerNestV3-sub007/internal/spec"
	"github.com/hkcm91/StickerNestV3-sub007/internal/telemetry"
)

// defaultCacheSize bounds the number of built packages held in memory.
const defaultCacheSize = 128

// BuildCache memoizes code generation keyed by spec content. Two specs that
// hash identically under the same options produce byte-identical output, so
// the cached package can be reused without regenerating.
type BuildCache struct {
	packages *lru.Cache[string, *codegen.Package]
	trace    *telemetry.Emitter
}

// NewBuildCache creates a cache holding up to size packages. A size of zero
// or less uses the default. The trace emitter may be nil.
func NewBuildCache(size int, trace *telemetry.Emitter) (*BuildCache, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	packages, err := lru.New[string, *codegen.Package](size)
	if err != nil {
		return nil, fmt.Errorf("host: create build cache: %w", err)
	}
	return &BuildCache{packages: packages, trace: trace}, nil
}

// Build returns the generated package for a spec, serving repeat requests
// from the cache. The boolean reports whether the result was cached.
func (c *BuildCache) Build(s *spec.WidgetSpec, opts codegen.Options) (*codegen.Package, bool, error) {
	key := cacheKey(s, opts)
	if pkg, ok := c.packages.Get(key); ok {
		c.trace.Emit(telemetry.Event{Kind: telemetry.KindCacheHit, WidgetID: s.ID}) //nolint:errcheck
		return pkg, true, nil
	}

	c.trace.Emit(telemetry.Event{Kind: telemetry.KindBuildStart, WidgetID: s.ID}) //nolint:errcheck
	pkg, err := codegen.Generate(s, opts)
	if err != nil {
		c.trace.Emit(telemetry.Event{Kind: telemetry.KindBuildRejected, WidgetID: s.ID, Data: err.Error()}) //nolint:errcheck
		return nil, false, err
	}
	c.trace.Emit(telemetry.Event{Kind: telemetry.KindBuildDone, WidgetID: s.ID}) //nolint:errcheck

	c.packages.Add(key, pkg)
	return pkg, false, nil
}

// Len reports the number of cached packages.
func (c *BuildCache) Len() int {
	return c.packages.Len()
}

// cacheKey folds everything that influences generated bytes: the spec
// content hash, the template revision, and the generation options.
func cacheKey(s *spec.WidgetSpec, opts codegen.Options) string {
	return fmt.Sprintf("%s|%s|m%t|t%t|c%t|%s",
		spec.Hash(s), codegen.TemplateVersion,
		opts.Minify, opts.IncludeTests, opts.IncludeComments, opts.TargetFormat)
}
