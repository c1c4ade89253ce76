package mana

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Empty(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Equal(t, 0, CMC(""))
}

func TestParse_GenericAndColors(t *testing.T) {
	syms := Parse("{2}{W}{U}")
	require.Len(t, syms, 3)

	assert.Equal(t, KindGeneric, syms[0].Kind)
	assert.Equal(t, "2", syms[0].Value)
	assert.Equal(t, 2, syms[0].CMC)
	assert.Empty(t, syms[0].Colors)

	assert.Equal(t, KindColor, syms[1].Kind)
	assert.Equal(t, []Color{White}, syms[1].Colors)
	assert.Equal(t, 1, syms[1].CMC)

	assert.Equal(t, KindColor, syms[2].Kind)
	assert.Equal(t, []Color{Blue}, syms[2].Colors)

	assert.Equal(t, 4, CMC("{2}{W}{U}"))
}

func TestParse_Hybrids(t *testing.T) {
	s := Parse("{2/W}")[0]
	assert.Equal(t, KindHybrid, s.Kind)
	assert.Equal(t, []Color{White}, s.Colors)
	assert.Equal(t, 2, s.CMC)

	s = Parse("{W/P}")[0]
	assert.Equal(t, KindPhyrexian, s.Kind)
	assert.Equal(t, []Color{White}, s.Colors)
	assert.Equal(t, 1, s.CMC)

	s = Parse("{W/U}")[0]
	assert.Equal(t, KindHybrid, s.Kind)
	assert.Equal(t, []Color{White, Blue}, s.Colors)
	assert.Equal(t, 1, s.CMC)

	s = Parse("{u/w}")[0]
	assert.Equal(t, []Color{Blue, White}, s.Colors, "hybrid keeps written order")
}

func TestParse_SpecialSymbols(t *testing.T) {
	cases := map[string]struct {
		kind Kind
		cmc  int
	}{
		"{T}":  {KindTap, 0},
		"{q}":  {KindUntap, 0},
		"{S}":  {KindSnow, 1},
		"{C}":  {KindColorless, 1},
		"{X}":  {KindX, 0},
		"{y}":  {KindX, 0},
		"{Z}":  {KindX, 0},
		"{15}": {KindGeneric, 15},
		"{0}":  {KindGeneric, 0},
	}
	for in, want := range cases {
		syms := Parse(in)
		require.Len(t, syms, 1, in)
		assert.Equal(t, want.kind, syms[0].Kind, in)
		assert.Equal(t, want.cmc, syms[0].CMC, in)
	}
}

func TestParse_MalformedDegrades(t *testing.T) {
	for _, in := range []string{"{cost}", "{W/U/B}", "{-1}", "{2/P}", "{H}"} {
		syms := Parse(in)
		require.Len(t, syms, 1, in)
		assert.Equal(t, KindGeneric, syms[0].Kind, in)
		assert.Equal(t, 0, syms[0].CMC, in)
		assert.Empty(t, syms[0].Colors, in)
	}
	assert.Equal(t, "cost", Parse("{cost}")[0].Value)
}

func TestParse_IgnoresTextOutsideBraces(t *testing.T) {
	syms := Parse("pay 3 {1} and {G} or {}")
	require.Len(t, syms, 2)
	assert.Equal(t, 2, CMC("pay 3 {1} and {G} or {}"))
}

func TestCMC_MatchesSymbolSum(t *testing.T) {
	costs := []string{
		"", "{1}{W}{W}", "{X}{X}{R}", "{2/W}{2/U}{2/B}", "{W/P}{G/U}{S}{C}",
		"{10}{T}{Q}", "garbage", "{}{}", "{B}{b}{B/G}{12}",
	}
	for _, cost := range costs {
		sum := 0
		for _, s := range Parse(cost) {
			sum += s.CMC
			assert.GreaterOrEqual(t, s.CMC, 0)
		}
		assert.Equal(t, sum, CMC(cost), cost)
	}
}

func TestSymbolKey(t *testing.T) {
	cases := map[string]string{
		"{W}":   "w",
		"{2}":   "2",
		"{X}":   "x",
		"{T}":   "t",
		"{Q}":   "untap",
		"{C}":   "c",
		"{S}":   "s",
		"{G/P}": "gp",
		"{W/U}": "wu",
		"{2/R}": "r",
	}
	for in, want := range cases {
		assert.Equal(t, want, Parse(in)[0].Key(), in)
	}
}

func TestSymbolKey_GenericHybridSharesGlyph(t *testing.T) {
	hybrid := Parse("{2/W}")[0]
	plain := Parse("{W}")[0]
	assert.Equal(t, plain.Key(), hybrid.Key())
	assert.NotEqual(t, plain.Identity(), hybrid.Identity())
}

func TestSymbolIdentity(t *testing.T) {
	a := Parse("{W}")[0]
	b := Parse("{w}")[0]
	assert.Equal(t, a.Identity(), b.Identity())
	assert.NotEqual(t, Parse("{W/U}")[0].Identity(), Parse("{U/W}")[0].Identity())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "{2}{W}{U/P}", Format(Parse("{2}{w}{u/p}")))
}
