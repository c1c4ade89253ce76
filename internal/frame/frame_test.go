package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/youruser/cardforge/internal/mana"
)

func colors(cs ...mana.Color) []mana.Color { return cs }

func TestSelect_Colorless(t *testing.T) {
	assert.Equal(t, Land, Select(nil, []string{"Land"}))
	assert.Equal(t, Artifact, Select(nil, []string{"Artifact"}))
	assert.Equal(t, Land, Select(nil, []string{"Artifact", "Land"}))
	assert.Equal(t, Colorless, Select(nil, []string{"Creature"}))
	assert.Equal(t, Colorless, Select(nil, nil))
}

func TestSelect_ColoredArtifactUsesColor(t *testing.T) {
	assert.Equal(t, Red, Select(colors(mana.Red), []string{"Artifact", "Creature"}))
	assert.Equal(t, Green, Select(colors(mana.Green), []string{"Land"}))
}

func TestSelect_Mono(t *testing.T) {
	assert.Equal(t, White, Select(colors(mana.White), []string{"Creature"}))
	assert.Equal(t, Blue, Select(colors(mana.Blue), nil))
	assert.Equal(t, Black, Select(colors(mana.Black), nil))
	assert.Equal(t, Red, Select(colors(mana.Red), nil))
	assert.Equal(t, Green, Select(colors(mana.Green), nil))
}

func TestSelect_DualIsOrderIndependent(t *testing.T) {
	types := []string{"Creature"}
	assert.Equal(t, WhiteBlue, Select(colors(mana.White, mana.Blue), types))
	assert.Equal(t, WhiteBlue, Select(colors(mana.Blue, mana.White), types))

	for pair, want := range dualFrames {
		assert.Equal(t, want, Select(colors(pair[0], pair[1]), types))
		assert.Equal(t, want, Select(colors(pair[1], pair[0]), types))
	}
}

func TestSelect_EveryPairHasAFrame(t *testing.T) {
	for i, a := range mana.Order {
		for _, b := range mana.Order[i+1:] {
			k := Select(colors(a, b), nil)
			assert.True(t, k.IsDual(), "%s%s -> %s", a, b, k)
		}
	}
}

func TestSelect_ThreeOrMoreIsGold(t *testing.T) {
	assert.Equal(t, Gold, Select(colors(mana.White, mana.Blue, mana.Black), nil))
	assert.Equal(t, Gold, Select(mana.Order, []string{"Land"}))
}

func TestSelect_DuplicatesAndUnknownColors(t *testing.T) {
	assert.Equal(t, White, Select(colors(mana.White, mana.White), nil))
	assert.Equal(t, Colorless, Select(colors("P"), nil))
}

func TestSelect_Deterministic(t *testing.T) {
	in := colors(mana.Green, mana.Blue)
	first := Select(in, nil)
	for range 10 {
		assert.Equal(t, first, Select(in, nil))
	}
	assert.Equal(t, colors(mana.Green, mana.Blue), in, "input is not mutated")
}

func TestComponents(t *testing.T) {
	assert.Equal(t, []Key{Green, White}, GreenWhite.Components())
	assert.Equal(t, []Key{White, Blue}, WhiteBlue.Components())
	assert.Equal(t, []Key{Gold}, Gold.Components())
	for _, k := range All {
		for _, c := range k.Components() {
			assert.True(t, c.Valid())
			assert.False(t, c.IsDual())
		}
	}
}

func TestPTKey(t *testing.T) {
	assert.Equal(t, Gold, BlackRed.PTKey())
	assert.Equal(t, Land, Land.PTKey())
}

func TestPalette(t *testing.T) {
	assert.Len(t, All, 19)
	for _, k := range All {
		assert.NotZero(t, k.Palette().Primary.A, k)
	}
	assert.Equal(t, Gold.Palette(), Key("nope").Palette())
}
