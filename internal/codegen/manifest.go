package codegen

import (
	"encoding/json"

	"github.com/hkcm91/StickerNestV3-sub007/internal/spec"
)

// IONamespace prefixes every port name in the manifest's io list so port
// names from different widgets never collide on the host bus.
const IONamespace = "stickernest.io."

// Manifest is the registry-facing description of a generated package. Field
// order here fixes the JSON field order in manifest.json.
type Manifest struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Version      string           `json:"version"`
	Kind         string           `json:"kind"`
	Entry        string           `json:"entry"`
	Category     string           `json:"category"`
	Description  string           `json:"description,omitempty"`
	Author       string           `json:"author,omitempty"`
	License      string           `json:"license,omitempty"`
	Tags         []string         `json:"tags,omitempty"`
	Ports        PortSchemas      `json:"ports"`
	IO           []string         `json:"io"`
	Capabilities Capabilities     `json:"capabilities"`
	Assets       []string         `json:"assets"`
	Sandboxed    bool             `json:"sandboxed"`
	Theme        *ThemeDescriptor `json:"theme,omitempty"`
	Events       EventSurface     `json:"events"`
}

// PortSchemas lists the widget's pipeline ports for the registry.
type PortSchemas struct {
	Inputs  []PortSchema `json:"inputs"`
	Outputs []PortSchema `json:"outputs"`
}

// PortSchema is one port's registry-facing shape.
type PortSchema struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Default     any    `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// Capabilities are the host-managed interaction flags. The generator emits
// fixed defaults; the host may override at placement time.
type Capabilities struct {
	Draggable bool `json:"draggable"`
	Resizable bool `json:"resizable"`
	Rotatable bool `json:"rotatable"`
}

// ThemeDescriptor is present when the spec declares skins or themeable
// variables.
type ThemeDescriptor struct {
	Skins     []SkinRef  `json:"skins,omitempty"`
	Variables []ThemeVar `json:"variables,omitempty"`
}

// SkinRef is a skin entry in the theme descriptor.
type SkinRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Asset string `json:"asset,omitempty"`
}

// ThemeVar is a themeable variable entry in the theme descriptor.
type ThemeVar struct {
	Name    string `json:"name"`
	Default string `json:"default"`
	Type    string `json:"type,omitempty"`
}

// EventSurface lists the widget's cross-widget event vocabulary.
type EventSurface struct {
	Broadcasts    []string `json:"broadcasts"`
	Subscriptions []string `json:"subscriptions"`
}

// BuildManifest translates a spec into the registry manifest shape.
func BuildManifest(s *spec.WidgetSpec) Manifest {
	m := Manifest{
		ID:          s.ID,
		Name:        s.Name,
		Version:     s.Version,
		Kind:        registryKind(s.Visual.Mode),
		Entry:       "index.html",
		Category:    string(s.Category),
		Description: s.Description,
		Author:      s.Author,
		License:     s.Permissions.License,
		Tags:        s.Tags,
		Capabilities: Capabilities{
			Draggable: true,
			Resizable: true,
			Rotatable: false,
		},
		Sandboxed: true,
	}

	m.Ports.Inputs = portSchemas(s.API.Inputs)
	m.Ports.Outputs = portSchemas(s.API.Outputs)

	m.IO = make([]string, 0, len(s.API.Inputs)+len(s.API.Outputs))
	for _, p := range s.API.Inputs {
		m.IO = append(m.IO, IONamespace+p.ID)
	}
	for _, p := range s.API.Outputs {
		m.IO = append(m.IO, IONamespace+p.ID)
	}

	m.Assets = collectAssets(&s.Visual)

	if len(s.Visual.Skins) > 0 || len(s.Visual.Variables) > 0 {
		theme := &ThemeDescriptor{}
		for _, skin := range s.Visual.Skins {
			theme.Skins = append(theme.Skins, SkinRef{ID: skin.ID, Name: skin.Name, Asset: skin.Asset})
		}
		for _, tv := range s.Visual.Variables {
			theme.Variables = append(theme.Variables, ThemeVar{Name: tv.Name, Default: tv.Default, Type: tv.Type})
		}
		m.Theme = theme
	}

	m.Events.Broadcasts = append([]string{}, s.Events.Broadcasts...)
	m.Events.Subscriptions = make([]string, 0, len(s.Events.Subscriptions))
	for _, sub := range s.Events.Subscriptions {
		m.Events.Subscriptions = append(m.Events.Subscriptions, sub.Event)
	}

	return m
}

// registryKind maps the rendering mode to the coarse registry kind. Canvas
// and animation-backed widgets load through the hybrid path; everything
// else is a plain 2-D sticker.
func registryKind(mode spec.RenderMode) string {
	switch mode {
	case spec.RenderCanvas, spec.RenderAnimation:
		return "hybrid"
	default:
		return "sticker2d"
	}
}

func portSchemas(ports []spec.Port) []PortSchema {
	out := make([]PortSchema, 0, len(ports))
	for _, p := range ports {
		typ := string(p.Type)
		if typ == "" {
			typ = string(spec.TypeAny)
		}
		out = append(out, PortSchema{
			ID:          p.ID,
			Name:        p.Name,
			Type:        typ,
			Required:    p.Required,
			Default:     p.Default,
			Description: p.Description,
		})
	}
	return out
}

func collectAssets(vis *spec.Visual) []string {
	assets := []string{}
	if vis.DefaultAsset != "" {
		assets = append(assets, vis.DefaultAsset)
	}
	for _, skin := range vis.Skins {
		if skin.Asset != "" {
			assets = append(assets, skin.Asset)
		}
	}
	if vis.Sprite != nil && vis.Sprite.Sheet != "" {
		assets = append(assets, vis.Sprite.Sheet)
	}
	return assets
}

// emitManifest renders manifest.json.
func emitManifest(s *spec.WidgetSpec) string {
	m := BuildManifest(s)
	data, _ := json.MarshalIndent(m, "", "  ")
	return string(data) + "\n"
}
