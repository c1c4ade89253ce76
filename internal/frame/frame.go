// Package frame maps a card's colors and types onto one of the fixed
// frame identifiers that select pre-rendered border artwork.
package frame

import (
	"image/color"
	"strings"

	"github.com/youruser/cardforge/internal/mana"
	"github.com/youruser/cardforge/internal/util"
)

// Key identifies a card frame.
type Key string

const (
	White     Key = "white"
	Blue      Key = "blue"
	Black     Key = "black"
	Red       Key = "red"
	Green     Key = "green"
	Gold      Key = "gold"
	Artifact  Key = "artifact"
	Colorless Key = "colorless"
	Land      Key = "land"

	WhiteBlue  Key = "white-blue"
	BlueBlack  Key = "blue-black"
	BlackRed   Key = "black-red"
	RedGreen   Key = "red-green"
	GreenWhite Key = "green-white"
	WhiteBlack Key = "white-black"
	BlueRed    Key = "blue-red"
	BlackGreen Key = "black-green"
	RedWhite   Key = "red-white"
	GreenBlue  Key = "green-blue"
)

// All lists every frame key.
var All = []Key{
	White, Blue, Black, Red, Green,
	WhiteBlue, BlueBlack, BlackRed, RedGreen, GreenWhite,
	WhiteBlack, BlueRed, BlackGreen, RedWhite, GreenBlue,
	Gold, Artifact, Colorless, Land,
}

var monoKeys = map[mana.Color]Key{
	mana.White: White,
	mana.Blue:  Blue,
	mana.Black: Black,
	mana.Red:   Red,
	mana.Green: Green,
}

// Allied pairs first, then enemy pairs. The written direction fixes which
// color is drawn left and which is masked in on the right.
var dualFrames = map[[2]mana.Color]Key{
	{mana.White, mana.Blue}:  WhiteBlue,
	{mana.Blue, mana.Black}:  BlueBlack,
	{mana.Black, mana.Red}:   BlackRed,
	{mana.Red, mana.Green}:   RedGreen,
	{mana.Green, mana.White}: GreenWhite,
	{mana.White, mana.Black}: WhiteBlack,
	{mana.Blue, mana.Red}:    BlueRed,
	{mana.Black, mana.Green}: BlackGreen,
	{mana.Red, mana.White}:   RedWhite,
	{mana.Green, mana.Blue}:  GreenBlue,
}

// pairIndex is dualFrames indexed by the unordered pair, so lookups succeed
// whichever order the two colors arrive in.
var pairIndex = func() map[[2]mana.Color]Key {
	idx := make(map[[2]mana.Color]Key, len(dualFrames))
	for pair, k := range dualFrames {
		idx[normalize(pair[0], pair[1])] = k
	}
	return idx
}()

func normalize(a, b mana.Color) [2]mana.Color {
	if a.Index() > b.Index() {
		a, b = b, a
	}
	return [2]mana.Color{a, b}
}

// Select picks the frame for a card. It is total: unknown colors are
// ignored, duplicate colors count once, and anything it cannot place gets
// the gold frame.
func Select(colors []mana.Color, types []string) Key {
	cs := mana.SortColors(colors)

	switch {
	case len(cs) == 0 && hasType(types, "Land"):
		return Land
	case len(cs) == 0 && hasType(types, "Artifact"):
		return Artifact
	case len(cs) == 0:
		return Colorless
	case len(cs) == 1:
		return monoKeys[cs[0]]
	case len(cs) == 2:
		if k, ok := pairIndex[normalize(cs[0], cs[1])]; ok {
			return k
		}
		return Gold
	default:
		return Gold
	}
}

func hasType(types []string, want string) bool {
	for _, t := range types {
		if strings.EqualFold(strings.TrimSpace(t), want) {
			return true
		}
	}
	return false
}

// Valid reports whether k is one of the known frame keys.
func (k Key) Valid() bool {
	for _, known := range All {
		if k == known {
			return true
		}
	}
	return false
}

// IsDual reports whether k is a two-color frame.
func (k Key) IsDual() bool {
	return strings.Contains(string(k), "-")
}

// Components returns the mono keys a frame is built from: [left, right]
// for dual frames, [k] otherwise.
func (k Key) Components() []Key {
	if left, right, ok := strings.Cut(string(k), "-"); ok {
		return []Key{Key(left), Key(right)}
	}
	return []Key{k}
}

// PTKey returns the frame whose P/T box artwork k uses. Dual frames use gold.
func (k Key) PTKey() Key {
	if k.IsDual() {
		return Gold
	}
	return k
}

// Palette is the flat color scheme of a frame, used for text and for the
// procedural fallback when frame artwork is unavailable.
type Palette struct {
	Primary   color.NRGBA
	Secondary color.NRGBA
	Text      color.NRGBA
}

var palettes = map[Key]Palette{
	White:      {util.Hex("#f8f6d8"), util.Hex("#e8e4c4"), util.Hex("#1a1a1a")},
	Blue:       {util.Hex("#0e68ab"), util.Hex("#1a5c8f"), util.Hex("#e0e0e0")},
	Black:      {util.Hex("#2a2a2a"), util.Hex("#1a1a1a"), util.Hex("#c8c8c0")},
	Red:        {util.Hex("#d3202a"), util.Hex("#a51a22"), util.Hex("#f0e0d0")},
	Green:      {util.Hex("#00733e"), util.Hex("#005a2f"), util.Hex("#e0e8d0")},
	Gold:       {util.Hex("#c9a43d"), util.Hex("#a88830"), util.Hex("#1a1a1a")},
	Artifact:   {util.Hex("#8a919b"), util.Hex("#6e757e"), util.Hex("#1a1a1a")},
	Colorless:  {util.Hex("#9ba0a8"), util.Hex("#7e8490"), util.Hex("#1a1a1a")},
	Land:       {util.Hex("#a08060"), util.Hex("#806848"), util.Hex("#1a1a1a")},
	WhiteBlue:  {util.Hex("#c4d8e8"), util.Hex("#a0b8d0"), util.Hex("#1a1a1a")},
	BlueBlack:  {util.Hex("#1a3858"), util.Hex("#0e2840"), util.Hex("#c8c8d0")},
	BlackRed:   {util.Hex("#4a1a20"), util.Hex("#2a0a10"), util.Hex("#d0c0b8")},
	RedGreen:   {util.Hex("#6a4020"), util.Hex("#4a2810"), util.Hex("#e0d8c0")},
	GreenWhite: {util.Hex("#a8c8a0"), util.Hex("#88b080"), util.Hex("#1a1a1a")},
	WhiteBlack: {util.Hex("#a0a098"), util.Hex("#808078"), util.Hex("#e0e0d8")},
	BlueRed:    {util.Hex("#6a3060"), util.Hex("#4a1848"), util.Hex("#d0c8d8")},
	BlackGreen: {util.Hex("#1a3828"), util.Hex("#0a2818"), util.Hex("#c0c8b8")},
	RedWhite:   {util.Hex("#d8a898"), util.Hex("#c08878"), util.Hex("#1a1a1a")},
	GreenBlue:  {util.Hex("#188878"), util.Hex("#106858"), util.Hex("#d8e8e0")},
}

// Palette returns the color scheme for k; unknown keys get gold.
func (k Key) Palette() Palette {
	if p, ok := palettes[k]; ok {
		return p
	}
	return palettes[Gold]
}
