package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/cardforge/internal/fonts"
	"github.com/youruser/cardforge/internal/layout"
)

// monoMeasurer gives every rune an advance of half the font size.
type monoMeasurer struct{}

func (monoMeasurer) Advance(_ fonts.Role, size float64, s string) float64 {
	return float64(len([]rune(s))) * size / 2
}
func (monoMeasurer) Ascent(_ fonts.Role, size float64) float64  { return size * 0.8 }
func (monoMeasurer) Descent(_ fonts.Role, size float64) float64 { return size * 0.2 }

func TestLayout_WrapsWithinBox(t *testing.T) {
	box := layout.Rect{X: 10, Y: 20, W: 100, H: 200}
	// At size 10 each rune is 5 wide, so 20 runes fit per line.
	blk := Layout(Split("aaaa bbbb cccc dddd eeee ffff"), box, Style{Size: 10, LineHeight: 1.5}, monoMeasurer{})

	require.Equal(t, 2, blk.Lines)
	require.Len(t, blk.Runs, 2)
	assert.Equal(t, "aaaa bbbb cccc dddd", blk.Runs[0].Text)
	assert.Equal(t, "eeee ffff", blk.Runs[1].Text)
	assert.Equal(t, 10.0, blk.Runs[0].X)
	assert.Equal(t, 28.0, blk.Runs[0].Y)
	assert.Equal(t, 43.0, blk.Runs[1].Y)
	for _, r := range blk.Runs {
		assert.LessOrEqual(t, r.X+r.W, box.Right())
	}
	assert.False(t, blk.Overflow)
}

func TestLayout_NewlinesAndSymbols(t *testing.T) {
	box := layout.Rect{W: 500, H: 500}
	blk := Layout(Split("{T}: Add {G}.\n(Reminder)"), box, Style{Size: 20, LineHeight: 1}, monoMeasurer{})

	assert.Equal(t, 2, blk.Lines)
	var symbols, italics int
	for _, r := range blk.Runs {
		switch {
		case r.Kind == RunSymbol:
			symbols++
			assert.Equal(t, 17.0, r.W)
			assert.Equal(t, 0, r.Line)
		case r.Role == fonts.Italic:
			italics++
			assert.Equal(t, 1, r.Line)
		}
	}
	assert.Equal(t, 2, symbols)
	assert.Equal(t, 1, italics)
}

func TestLayout_Empty(t *testing.T) {
	blk := Layout(nil, layout.Rect{W: 10, H: 10}, Style{Size: 10}, monoMeasurer{})
	assert.Zero(t, blk.Lines)
	assert.Zero(t, blk.Height)
}

func TestFit_ShrinksUntilItFits(t *testing.T) {
	box := layout.Rect{W: 100, H: 20}
	segs := Split("aaaa bbbb cccc dddd eeee ffff")

	blk := Fit(segs, box, Style{Size: 10, LineHeight: 1.5}, 4, monoMeasurer{})
	assert.Less(t, blk.Size, 10.0)
	assert.False(t, blk.Overflow)

	blk = Fit(segs, layout.Rect{W: 100, H: 1}, Style{Size: 10, LineHeight: 1.5}, 8, monoMeasurer{})
	assert.Equal(t, 8.0, blk.Size)
	assert.True(t, blk.Overflow)
}

func TestEllipsize(t *testing.T) {
	m := monoMeasurer{}
	assert.Equal(t, "short", Ellipsize("short", 100, fonts.Title, 10, m))
	got := Ellipsize("a very long card name", 50, fonts.Title, 10, m)
	assert.LessOrEqual(t, m.Advance(fonts.Title, 10, got), 50.0)
	assert.Equal(t, "a very lo…", got)
}
