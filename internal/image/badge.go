package imagepkg

import (
	"context"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/sync/singleflight"

	"github.com/youruser/cardforge/internal/assets"
	"github.com/youruser/cardforge/internal/mana"
	"github.com/youruser/cardforge/internal/util"
)

const (
	badgeCanvas = 128
	badgePad    = 8
	// BadgeSize is the side of a synthesized badge, padding included.
	BadgeSize  = badgeCanvas + 2*badgePad
	glyphScale = 0.68
)

var badgeColors = map[mana.Color]color.NRGBA{
	mana.White: util.Hex("#f9f5d7"),
	mana.Blue:  util.Hex("#c1e3f5"),
	mana.Black: util.Hex("#a8a49d"),
	mana.Red:   util.Hex("#f4a587"),
	mana.Green: util.Hex("#9bd3ae"),
}

var (
	colorlessBadge = util.Hex("#cbc4bd")
	snowBadge      = util.Hex("#e0eff5")
	// GenericBadge is the neutral hue for generic, X and tap symbols, and
	// for the flat fallback disc.
	GenericBadge = util.Hex("#cbc4bd")
)

// BackgroundColor returns the disc hue for sym: its first color for
// colored, hybrid and phyrexian symbols, fixed hues for colorless and snow,
// and the neutral hue otherwise.
func BackgroundColor(sym mana.Symbol) color.NRGBA {
	switch sym.Kind {
	case mana.KindColor, mana.KindHybrid, mana.KindPhyrexian:
		if len(sym.Colors) > 0 {
			if c, ok := badgeColors[sym.Colors[0]]; ok {
				return c
			}
		}
	case mana.KindColorless:
		return colorlessBadge
	case mana.KindSnow:
		return snowBadge
	}
	return GenericBadge
}

// BadgeSynth renders mana symbols as embossed coins: a tinted disc with
// the symbol's glyph drawn in GlyphInk. Badges are cached per visual
// identity, so equal symbols share one image.
type BadgeSynth struct {
	assets *assets.Loader

	group  singleflight.Group
	mu     sync.RWMutex
	badges map[string]image.Image
}

func NewBadgeSynth(a *assets.Loader) *BadgeSynth {
	return &BadgeSynth{assets: a, badges: make(map[string]image.Image)}
}

// BadgeKey identifies a badge by glyph key, symbol kind and colors.
func BadgeKey(key string, sym mana.Symbol) string {
	var b strings.Builder
	b.WriteString(key)
	b.WriteString(":")
	b.WriteString(string(sym.Kind))
	b.WriteString(":")
	for _, c := range sym.Colors {
		b.WriteString(string(c))
	}
	return b.String()
}

// Badge returns the badge for sym drawn with the glyph at key. It fails
// when the glyph cannot be loaded or rasterized.
func (s *BadgeSynth) Badge(ctx context.Context, key string, sym mana.Symbol) (image.Image, error) {
	id := BadgeKey(key, sym)
	s.mu.RLock()
	img, ok := s.badges[id]
	s.mu.RUnlock()
	if ok {
		return img, nil
	}

	ch := s.group.DoChan(id, func() (any, error) {
		src, err := s.assets.Glyph(context.WithoutCancel(ctx), key)
		if err != nil {
			return nil, err
		}
		size := int(math.Round(badgeCanvas * glyphScale))
		glyph, err := RasterizeSVG(RecolorSVG(src, GlyphInk), size, size)
		if err != nil {
			return nil, &assets.Error{Path: assets.GlyphPath(key), Err: err}
		}
		img := drawBadge(BackgroundColor(sym), glyph)
		s.mu.Lock()
		s.badges[id] = img
		s.mu.Unlock()
		return img, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(image.Image), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func drawBadge(bg color.NRGBA, glyph image.Image) image.Image {
	dc := gg.NewContext(BadgeSize, BadgeSize)
	cx, cy := BadgeSize/2.0, BadgeSize/2.0
	r := badgeCanvas/2.0 - 2

	// Offset shadow under the coin.
	dc.DrawCircle(cx-2, cy+3, r)
	dc.SetRGBA(0, 0, 0, 0.55)
	dc.Fill()

	grad := gg.NewRadialGradient(cx-r*0.3, cy-r*0.3, r*0.1, cx, cy, r)
	grad.AddColorStop(0, util.Shift(bg, 30))
	grad.AddColorStop(0.7, bg)
	grad.AddColorStop(1, util.Shift(bg, -40))
	dc.DrawCircle(cx, cy, r)
	dc.SetFillStyle(grad)
	dc.FillPreserve()
	dc.SetRGBA(0, 0, 0, 0.4)
	dc.SetLineWidth(2.5)
	dc.Stroke()

	// Bevel along the upper left.
	dc.DrawArc(cx, cy, r-2, -math.Pi*0.75, -math.Pi*0.1)
	dc.SetRGBA(1, 1, 1, 0.25)
	dc.SetLineWidth(1.5)
	dc.Stroke()

	g := glyph.Bounds().Size()
	dc.DrawImage(glyph, (BadgeSize-g.X)/2, (BadgeSize-g.Y)/2)
	return dc.Image()
}
