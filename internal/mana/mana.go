// Package mana parses brace-delimited mana costs such as "{2}{W}{U/P}" into
// typed symbols and derives converted mana cost and color sets from them.
package mana

import (
	"regexp"
	"strconv"
	"strings"
)

// Color is one of the five pip colors, written as its single-letter code.
type Color string

const (
	White Color = "W"
	Blue  Color = "U"
	Black Color = "B"
	Red   Color = "R"
	Green Color = "G"
)

// Order is the canonical WUBRG ordering used for every derived color list.
var Order = []Color{White, Blue, Black, Red, Green}

// ParseColor reports whether s (any case) names one of the five colors.
func ParseColor(s string) (Color, bool) {
	switch c := Color(strings.ToUpper(s)); c {
	case White, Blue, Black, Red, Green:
		return c, true
	}
	return "", false
}

// Index returns the position of c in WUBRG order, or -1 for an unknown color.
func (c Color) Index() int {
	for i, o := range Order {
		if o == c {
			return i
		}
	}
	return -1
}

// SortColors returns the valid colors of cs deduplicated and in WUBRG order.
func SortColors(cs []Color) []Color {
	seen := make(map[Color]bool, len(cs))
	for _, c := range cs {
		if norm, ok := ParseColor(string(c)); ok {
			seen[norm] = true
		}
	}
	out := make([]Color, 0, len(seen))
	for _, c := range Order {
		if seen[c] {
			out = append(out, c)
		}
	}
	return out
}

// Kind classifies a mana symbol.
type Kind string

const (
	KindGeneric   Kind = "generic"
	KindColor     Kind = "color"
	KindHybrid    Kind = "hybrid"
	KindPhyrexian Kind = "phyrexian"
	KindSnow      Kind = "snow"
	KindColorless Kind = "colorless"
	KindX         Kind = "x"
	KindTap       Kind = "tap"
	KindUntap     Kind = "untap"
)

// Symbol is one parsed mana token. CMC is the symbol's non-negative
// contribution to converted mana cost.
type Symbol struct {
	Kind   Kind    `json:"kind"`
	Value  string  `json:"value"`
	Colors []Color `json:"colors"`
	CMC    int     `json:"cmc"`
}

var symbolPattern = regexp.MustCompile(`\{([^}]+)\}`)

// Parse scans cost for brace-delimited tokens and classifies each one.
// Text outside braces is ignored and malformed tokens degrade to a generic
// symbol worth zero, so Parse never fails.
func Parse(cost string) []Symbol {
	if cost == "" {
		return nil
	}
	matches := symbolPattern.FindAllStringSubmatch(cost, -1)
	out := make([]Symbol, 0, len(matches))
	for _, m := range matches {
		out = append(out, ParseSymbol(m[1]))
	}
	return out
}

// ParseSymbol classifies a single token body (the text between the braces).
func ParseSymbol(body string) Symbol {
	upper := strings.ToUpper(body)

	switch upper {
	case "T":
		return Symbol{Kind: KindTap, Value: "T", Colors: []Color{}}
	case "Q":
		return Symbol{Kind: KindUntap, Value: "Q", Colors: []Color{}}
	case "S":
		return Symbol{Kind: KindSnow, Value: "S", Colors: []Color{}, CMC: 1}
	case "C":
		return Symbol{Kind: KindColorless, Value: "C", Colors: []Color{}, CMC: 1}
	case "X", "Y", "Z":
		return Symbol{Kind: KindX, Value: upper, Colors: []Color{}}
	}

	if n, ok := parseCount(upper); ok {
		return Symbol{Kind: KindGeneric, Value: upper, Colors: []Color{}, CMC: n}
	}

	if c, ok := ParseColor(upper); ok {
		return Symbol{Kind: KindColor, Value: upper, Colors: []Color{c}, CMC: 1}
	}

	if parts := strings.Split(upper, "/"); len(parts) == 2 {
		first, firstIsColor := ParseColor(parts[0])
		second, secondIsColor := ParseColor(parts[1])

		if parts[1] == "P" && firstIsColor {
			return Symbol{Kind: KindPhyrexian, Value: upper, Colors: []Color{first}, CMC: 1}
		}
		if n, ok := parseCount(parts[0]); ok && secondIsColor {
			return Symbol{Kind: KindHybrid, Value: upper, Colors: []Color{second}, CMC: n}
		}
		if firstIsColor && secondIsColor {
			return Symbol{Kind: KindHybrid, Value: upper, Colors: []Color{first, second}, CMC: 1}
		}
	}

	return Symbol{Kind: KindGeneric, Value: body, Colors: []Color{}}
}

// parseCount accepts only unsigned decimal integers ("0", "15").
func parseCount(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// CMC returns the converted mana cost of cost: the sum of every parsed
// symbol's contribution.
func CMC(cost string) int {
	total := 0
	for _, s := range Parse(cost) {
		total += s.CMC
	}
	return total
}

// Format writes symbols back out as a cost string.
func Format(symbols []Symbol) string {
	var b strings.Builder
	for _, s := range symbols {
		b.WriteString("{")
		b.WriteString(s.Value)
		b.WriteString("}")
	}
	return b.String()
}

// Key returns the glyph asset key for the symbol: "w", "2", "wu", "wp",
// "x", "t", "untap". A hybrid key names only its colors, so {2/W} shares
// the "w" glyph and differs from {W} by its badge identity.
func (s Symbol) Key() string {
	switch s.Kind {
	case KindColor, KindColorless, KindSnow:
		return strings.ToLower(s.Value)
	case KindX:
		return "x"
	case KindTap:
		return "t"
	case KindUntap:
		return "untap"
	case KindPhyrexian:
		if len(s.Colors) == 0 {
			return "cp"
		}
		return strings.ToLower(string(s.Colors[0])) + "p"
	case KindHybrid:
		var b strings.Builder
		for _, c := range s.Colors {
			b.WriteString(strings.ToLower(string(c)))
		}
		return b.String()
	default:
		return strings.ToLower(s.Value)
	}
}

// Identity is the tuple that determines a symbol's rendered badge.
func (s Symbol) Identity() string {
	var b strings.Builder
	b.WriteString(s.Key())
	b.WriteString(":")
	b.WriteString(string(s.Kind))
	b.WriteString(":")
	for _, c := range s.Colors {
		b.WriteString(string(c))
	}
	return b.String()
}
