// Package render builds a card as a list of draw instructions and plays
// that list back onto a backend: a raster at any pixel ratio, or SVG.
package render

import (
	"image"

	"github.com/youruser/cardforge/internal/fonts"
	"github.com/youruser/cardforge/internal/layout"
)

type OpKind string

const (
	OpRect  OpKind = "rect"
	OpImage OpKind = "image"
	OpText  OpKind = "text"
	OpLine  OpKind = "line"
)

// Tag names the card element an op draws. Fallback tags mark ops drawn in
// place of an asset that could not be loaded.
type Tag string

const (
	TagFrame             Tag = "frame"
	TagFrameFallback     Tag = "frame-fallback"
	TagName              Tag = "name"
	TagMana              Tag = "mana"
	TagManaFallback      Tag = "mana-fallback"
	TagArt               Tag = "art"
	TagType              Tag = "type"
	TagRarity            Tag = "rarity"
	TagRules             Tag = "rules"
	TagRulesMana         Tag = "rules-mana"
	TagRulesManaFallback Tag = "rules-mana-fallback"
	TagFlavorSeparator   Tag = "flavor-separator"
	TagFlavor            Tag = "flavor"
	TagPT                Tag = "pt"
	TagPTFallback        Tag = "pt-fallback"
	TagPTText            Tag = "pt-text"
	TagInfo              Tag = "info"
)

type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
)

// Op is one draw instruction in base canvas units.
//
// Rect ops fill (and optionally stroke) Rect with rounded corners. Image
// ops stretch Image over Rect, clipped to Clip when set. Text ops draw Text
// on Baseline, starting at Rect.X or centered within Rect. Line ops stroke
// from the top-left to the bottom-right corner of Rect.
type Op struct {
	Kind        OpKind       `json:"kind"`
	Tag         Tag          `json:"tag"`
	Rect        layout.Rect  `json:"rect"`
	Radius      float64      `json:"radius,omitempty"`
	Fill        string       `json:"fill,omitempty"`
	Stroke      string       `json:"stroke,omitempty"`
	StrokeWidth float64      `json:"strokeWidth,omitempty"`
	Opacity     float64      `json:"opacity,omitempty"`
	Clip        *layout.Rect `json:"clip,omitempty"`

	Image  image.Image `json:"-"`
	Source string      `json:"source,omitempty"`

	Text     string     `json:"text,omitempty"`
	Role     fonts.Role `json:"role,omitempty"`
	Size     float64    `json:"size,omitempty"`
	Baseline float64    `json:"baseline,omitempty"`
	Align    Align      `json:"align,omitempty"`
}

// alpha is the op's opacity, treating the zero value as opaque.
func (op Op) alpha() float64 {
	if op.Opacity <= 0 || op.Opacity > 1 {
		return 1
	}
	return op.Opacity
}

// Scene is an ordered instruction list; later ops draw over earlier ones.
type Scene struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Ops    []Op    `json:"ops"`
}

func NewScene() *Scene {
	return &Scene{Width: layout.Width, Height: layout.Height}
}

func (s *Scene) Add(op Op) {
	s.Ops = append(s.Ops, op)
}

// Tagged returns the ops carrying tag, in draw order.
func (s *Scene) Tagged(tag Tag) []Op {
	var out []Op
	for _, op := range s.Ops {
		if op.Tag == tag {
			out = append(out, op)
		}
	}
	return out
}

func (s *Scene) Has(tag Tag) bool {
	for _, op := range s.Ops {
		if op.Tag == tag {
			return true
		}
	}
	return false
}

// Backend receives a scene's ops in order.
type Backend interface {
	DrawRect(op Op)
	DrawImage(op Op)
	DrawText(op Op)
	DrawLine(op Op)
}

// Play replays every op onto b.
func (s *Scene) Play(b Backend) {
	for _, op := range s.Ops {
		switch op.Kind {
		case OpRect:
			b.DrawRect(op)
		case OpImage:
			if op.Image != nil {
				b.DrawImage(op)
			}
		case OpText:
			b.DrawText(op)
		case OpLine:
			b.DrawLine(op)
		}
	}
}
