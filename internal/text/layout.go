package text

import (
	"strings"
	"unicode"

	"github.com/youruser/cardforge/internal/fonts"
	"github.com/youruser/cardforge/internal/layout"
)

// Measurer supplies font metrics in base canvas units.
type Measurer interface {
	Advance(role fonts.Role, size float64, s string) float64
	Ascent(role fonts.Role, size float64) float64
	Descent(role fonts.Role, size float64) float64
}

type RunKind string

const (
	RunText   RunKind = "text"
	RunSymbol RunKind = "symbol"
)

// Run is a positioned piece of a laid-out block. Text runs are anchored at
// their baseline (X, Y); symbol runs at their top-left corner.
type Run struct {
	Kind RunKind
	Text string
	Role fonts.Role
	X, Y float64
	W, H float64
	Line int
}

// Block is the result of laying out segments inside a box.
type Block struct {
	Runs     []Run
	Lines    int
	Height   float64
	Size     float64
	Overflow bool
}

// Style controls a layout pass.
type Style struct {
	Size       float64
	LineHeight float64
	// Role is used for plain text; italic segments always use fonts.Italic.
	Role fonts.Role
}

type atomKind int

const (
	atomWord atomKind = iota
	atomSpace
	atomSymbol
	atomBreak
)

type atom struct {
	kind atomKind
	text string
	role fonts.Role
}

func atomize(segs []Segment, base fonts.Role) []atom {
	var out []atom
	for _, s := range segs {
		switch s.Kind {
		case KindNewline:
			out = append(out, atom{kind: atomBreak})
		case KindMana:
			out = append(out, atom{kind: atomSymbol, text: s.Content})
		default:
			role := base
			if s.Kind == KindItalic {
				role = fonts.Italic
			}
			out = append(out, splitWords(s.Content, role)...)
		}
	}
	return out
}

// splitWords separates s into alternating word and whitespace atoms.
func splitWords(s string, role fonts.Role) []atom {
	var out []atom
	start := 0
	inSpace := false
	for i, r := range s {
		space := unicode.IsSpace(r)
		if i > start && space != inSpace {
			out = append(out, wordOrSpace(s[start:i], inSpace, role))
			start = i
		}
		inSpace = space
	}
	if start < len(s) {
		out = append(out, wordOrSpace(s[start:], inSpace, role))
	}
	return out
}

func wordOrSpace(s string, space bool, role fonts.Role) atom {
	if space {
		return atom{kind: atomSpace, text: " ", role: role}
	}
	return atom{kind: atomWord, text: s, role: role}
}

// Layout word-wraps segments into box. Mana segments become inline symbol
// runs sized relative to the font; newlines force a break. Words wider than
// the box are placed on their own line and may overflow horizontally.
func Layout(segs []Segment, box layout.Rect, st Style, m Measurer) Block {
	if st.LineHeight <= 0 {
		st.LineHeight = 1
	}
	pitch := st.Size * st.LineHeight
	ascent := m.Ascent(st.Role, st.Size)
	symSize := st.Size * layout.InlineSymbolScale
	symGap := st.Size * 0.08

	blk := Block{Size: st.Size}
	line := 0
	x := 0.0
	pendingSpace := 0.0
	baseline := func() float64 { return box.Y + ascent + float64(line)*pitch }

	newLine := func() {
		line++
		x = 0
		pendingSpace = 0
	}

	for _, a := range atomize(segs, st.Role) {
		switch a.kind {
		case atomBreak:
			newLine()
		case atomSpace:
			if x > 0 {
				pendingSpace = m.Advance(a.role, st.Size, " ")
			}
		case atomWord, atomSymbol:
			w := symSize + symGap
			if a.kind == atomWord {
				w = m.Advance(a.role, st.Size, a.text)
			}
			if x > 0 && x+pendingSpace+w > box.W {
				newLine()
			}
			x += pendingSpace
			if a.kind == atomWord {
				blk.appendWord(Run{
					Kind: RunText, Text: a.text, Role: a.role,
					X: box.X + x, Y: baseline(), W: w, H: st.Size, Line: line,
				}, pendingSpace > 0)
			} else {
				blk.Runs = append(blk.Runs, Run{
					Kind: RunSymbol, Text: a.text,
					X: box.X + x + symGap/2, Y: baseline() - symSize*0.8, W: symSize, H: symSize, Line: line,
				})
			}
			x += w
			pendingSpace = 0
		}
	}

	blk.Lines = line + 1
	if len(blk.Runs) == 0 && line == 0 {
		blk.Lines = 0
	}
	if blk.Lines > 0 {
		blk.Height = float64(blk.Lines-1)*pitch + ascent + m.Descent(st.Role, st.Size)
	}
	blk.Overflow = blk.Height > box.H
	return blk
}

// appendWord merges a word into the previous run when both sit on the same
// line in the same face and only a space separates them.
func (b *Block) appendWord(r Run, spaced bool) {
	if n := len(b.Runs); n > 0 {
		prev := &b.Runs[n-1]
		if prev.Kind == RunText && prev.Line == r.Line && prev.Role == r.Role {
			sep := ""
			if spaced {
				sep = " "
			}
			prev.Text += sep + r.Text
			prev.W = r.X + r.W - prev.X
			return
		}
	}
	b.Runs = append(b.Runs, r)
}

// Fit lays out segs, shrinking the font one unit at a time down to minSize
// until the block fits the box. The smallest attempt is returned even if it
// still overflows.
func Fit(segs []Segment, box layout.Rect, st Style, minSize float64, m Measurer) Block {
	blk := Layout(segs, box, st, m)
	for blk.Overflow && st.Size-1 >= minSize {
		st.Size--
		blk = Layout(segs, box, st, m)
	}
	return blk
}

// Ellipsize trims s so it fits maxWidth, ending it with "…" when cut.
func Ellipsize(s string, maxWidth float64, role fonts.Role, size float64, m Measurer) string {
	if m.Advance(role, size, s) <= maxWidth {
		return s
	}
	const ellipsis = "…"
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		cut := strings.TrimRightFunc(string(runes[:n]), unicode.IsSpace) + ellipsis
		if m.Advance(role, size, cut) <= maxWidth {
			return cut
		}
	}
	return ellipsis
}
