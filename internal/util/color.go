package util

import (
	"image/color"
	"strconv"
	"strings"
)

// Hex parses "#rgb", "#rrggbb" or "#rrggbbaa" into an NRGBA color.
// Unparseable input yields opaque black.
func Hex(s string) color.NRGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return color.NRGBA{A: 0xff}
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{A: 0xff}
	}
	return color.NRGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}
}

// HexString formats c as "#rrggbb", or "#rrggbbaa" when not opaque.
func HexString(c color.NRGBA) string {
	const digits = "0123456789abcdef"
	b := []byte{'#'}
	for _, v := range []uint8{c.R, c.G, c.B} {
		b = append(b, digits[v>>4], digits[v&0x0f])
	}
	if c.A != 0xff {
		b = append(b, digits[c.A>>4], digits[c.A&0x0f])
	}
	return string(b)
}

// WithAlpha returns c with its alpha replaced by opacity (0..1).
func WithAlpha(c color.NRGBA, opacity float64) color.NRGBA {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	c.A = uint8(opacity*255 + 0.5)
	return c
}

// Shift adds delta to each color channel, clamped to 0..255.
func Shift(c color.NRGBA, delta int) color.NRGBA {
	clamp := func(v int) uint8 {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return uint8(v)
	}
	return color.NRGBA{R: clamp(int(c.R) + delta), G: clamp(int(c.G) + delta), B: clamp(int(c.B) + delta), A: c.A}
}
