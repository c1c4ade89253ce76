package imagepkg

import (
	"bytes"
	"fmt"
	"image"
	"regexp"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// GlyphInk is the single color every mana glyph is drawn in.
const GlyphInk = "#1a1a1a"

var (
	fillAttr  = regexp.MustCompile(`fill="#[0-9a-fA-F]+"`)
	fillStyle = regexp.MustCompile(`fill:\s*#[0-9a-fA-F]+`)
)

// RecolorSVG rewrites every hex fill in src, as an attribute or inside a
// style declaration, to ink.
func RecolorSVG(src []byte, ink string) []byte {
	out := fillAttr.ReplaceAll(src, []byte(`fill="`+ink+`"`))
	return fillStyle.ReplaceAll(out, []byte("fill:"+ink))
}

// RasterizeSVG renders src scaled into a w×h image.
func RasterizeSVG(src []byte, w, h int) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("rasterize svg: invalid size %dx%d", w, h)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(src), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("rasterize svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return img, nil
}
