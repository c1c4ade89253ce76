// Package layout holds the fixed card geometry. Every position is given in
// base canvas units (750×1050); renderers scale these values and never
// introduce their own.
package layout

import "math"

const (
	Width  = 750
	Height = 1050

	BorderRadius = 30
)

// Rect is an axis-aligned rectangle in base canvas units.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func (r Rect) Scale(f float64) Rect {
	return Rect{X: r.X * f, Y: r.Y * f, W: r.W * f, H: r.H * f}
}

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Inset shrinks r by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// Pixels rounds the scaled edges of r to whole pixels. Rounding edges
// rather than sizes keeps adjacent rectangles seamless at every ratio.
func (r Rect) Pixels(f float64) (x0, y0, x1, y1 int) {
	s := r.Scale(f)
	return round(s.X), round(s.Y), round(s.Right()), round(s.Bottom())
}

func round(v float64) int { return int(math.Round(v)) }

// Canvas is the whole card.
var Canvas = Rect{W: Width, H: Height}

// PixelSize is the raster size of the card at a pixel ratio.
func PixelSize(ratio float64) (w, h int) {
	return round(Width * ratio), round(Height * ratio)
}

// ScaleFor is the factor mapping base units onto a target width.
func ScaleFor(targetWidth int) float64 {
	return float64(targetWidth) / Width
}

// TextBox is a text rectangle plus its nominal font size.
type TextBox struct {
	Rect
	FontSize float64
}

var (
	// ArtBox is where the illustration is drawn, clipped.
	ArtBox = Rect{X: 57, Y: 119, W: 635, H: 465}

	// NameText shares the top bar with the mana cost.
	NameText = TextBox{Rect: Rect{X: 63, Y: 41, W: 624, H: 40}, FontSize: 38}

	TypeText = TextBox{Rect: Rect{X: 63, Y: 632, W: 624, H: 34}, FontSize: 32}

	RulesText = TextBox{Rect: Rect{X: 78, Y: 695, W: 595, H: 280}, FontSize: 28}

	FlavorText = TextBox{Rect: Rect{X: 78, W: 595, H: 80}, FontSize: 26}

	InfoBar = TextBox{Rect: Rect{X: 49, Y: 995, W: 653, H: 20}, FontSize: 15}

	// TextBoxArea is the parchment area holding rules and flavor text.
	TextBoxArea = Rect{X: 68, Y: 685, W: 615, H: 310}
)

const (
	TextBoxRadius        = 5
	TextBoxHeightWithPT  = 290
	TextBoxHeightNoPT    = 310
	FlavorSeparatorY     = 905
	FlavorSeparatorHalf  = 100
	FlavorYWithRules     = 915
	FlavorYWithoutRules  = 695
	RulesLineHeight      = 1.35
	FlavorLineHeight     = 1.25
	RulesMinFontSize     = 18
	NameManaGap          = 20
	TypeRarityGap        = 20
	PlaceholderTextAlpha = 0x66
)

// ManaCost places the cost symbols in the title bar, laid out right to left
// from RightEdge.
var ManaCost = struct {
	Size, Spacing, Y, RightEdge, Step float64
}{Size: 35, Spacing: 4, Y: 43, RightEdge: 658, Step: 39}

// ManaCostWidth is the horizontal extent of n cost symbols.
func ManaCostWidth(n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(n-1)*ManaCost.Step + ManaCost.Size
}

// ManaSymbolRect is the box of the i-th of n cost symbols.
func ManaSymbolRect(i, n int) Rect {
	start := ManaCost.RightEdge - ManaCostWidth(n) + ManaCost.Size/2
	return Rect{X: start + float64(i)*ManaCost.Step, Y: ManaCost.Y, W: ManaCost.Size, H: ManaCost.Size}
}

// RaritySymbol sits at the right end of the type bar.
var RaritySymbol = struct {
	Rect
	Radius float64
}{Rect: Rect{X: 691, Y: 621, W: 36, H: 36}, Radius: 3}

// PTBox is the power/toughness plate and the text area inside it.
var PTBox = struct {
	Rect
	Radius   float64
	Text     Rect
	FontSize float64
}{
	Rect:     Rect{X: 568, Y: 929, W: 141, H: 77},
	Radius:   8,
	Text:     Rect{X: 596, Y: 940, W: 103, H: 52},
	FontSize: 36,
}

// FrameFallbackInset is the width of the dark rim drawn around the flat
// frame used when frame artwork is unavailable.
const FrameFallbackInset = 4

// InlineSymbolScale sizes mana symbols inside running text relative to the
// font size.
const InlineSymbolScale = 0.85
