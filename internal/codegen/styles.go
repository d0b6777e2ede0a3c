package codegen

import (
	"fmt"

	"github.com/hkcm91/StickerNestV3-sub007/internal/spec"
)

// emitStyles renders styles.css: themeable variables, the background
// descriptor, and a small set of structural rules.
func emitStyles(s *spec.WidgetSpec, opts Options) string {
	w := newDocWriter(opts)
	if opts.IncludeComments {
		w.line(fmt.Sprintf("/* styles.css — generated for %s v%s */", s.ID, s.Version))
		w.blank()
	}

	w.line(":root {")
	for _, tv := range s.Visual.Variables {
		w.line(fmt.Sprintf("  %s: %s;", tv.Name, tv.Default))
	}
	w.line("}")
	w.blank()

	w.line("#widget-root {")
	w.line("  width: 100%;")
	w.line("  height: 100%;")
	w.line("  display: flex;")
	w.line("  align-items: center;")
	w.line("  justify-content: center;")
	w.line("  overflow: hidden;")
	w.line("  user-select: none;")
	if bg := s.Visual.Background; bg != nil {
		if bg.Color != "" {
			w.line(fmt.Sprintf("  background-color: %s;", bg.Color))
		}
		if bg.Image != "" {
			w.line(fmt.Sprintf("  background-image: url(%q);", bg.Image))
			switch bg.Fit {
			case "tile":
				w.line("  background-repeat: repeat;")
			case "contain":
				w.line("  background-size: contain;")
				w.line("  background-repeat: no-repeat;")
			default:
				w.line("  background-size: cover;")
			}
		}
	}
	w.line("}")
	w.blank()

	w.line(".widget-content {")
	w.line("  display: flex;")
	w.line("  flex-direction: column;")
	w.line("  align-items: center;")
	w.line("  gap: 4px;")
	w.line("}")
	w.blank()

	w.line("#widget-root[data-disabled=\"true\"] {")
	w.line("  opacity: 0.5;")
	w.line("  pointer-events: none;")
	w.line("}")
	w.blank()

	w.line("@media (max-width: 96px) {")
	w.line("  .widget-content { font-size: 9px; gap: 2px; }")
	w.line("}")

	return w.String()
}
