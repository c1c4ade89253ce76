// Package text turns rules text into typed segments and lays them out into
// positioned runs for drawing.
package text

import (
	"regexp"
	"strings"

	"github.com/youruser/cardforge/internal/cards"
)

type Kind string

const (
	KindText    Kind = "text"
	KindMana    Kind = "mana"
	KindItalic  Kind = "italic"
	KindNewline Kind = "newline"
)

// Segment is a run of rules text. Mana segments hold the token body without
// braces; italic segments keep their parentheses.
type Segment struct {
	Kind    Kind   `json:"kind"`
	Content string `json:"content"`
}

// Self-reference markers replaced by the card's name.
const (
	NameMarker  = "CARDNAME"
	TildeMarker = "~"
)

// ProcessRulesText expands keyword reminder text (when expandReminders is
// set), substitutes the card name for self-references and splits the
// result into segments.
func ProcessRulesText(raw, cardName string, keywords []cards.Keyword, expandReminders bool) []Segment {
	if raw == "" {
		return nil
	}
	s := raw
	if expandReminders {
		s = ExpandKeywords(s, keywords)
	}
	s = SubstituteName(s, cardName)
	return Split(s)
}

// SubstituteName replaces CARDNAME and ~ with name. An empty name leaves the
// markers in place.
func SubstituteName(s, name string) string {
	if name == "" {
		return s
	}
	return strings.NewReplacer(NameMarker, name, TildeMarker, name).Replace(s)
}

var segmentPattern = regexp.MustCompile(`(\{[^}]+\})|(\([^)]*\))|(\n)`)

// Split breaks s into mana, italic, newline and text segments in document
// order. No empty segments are produced.
func Split(s string) []Segment {
	var out []Segment
	last := 0
	for _, m := range segmentPattern.FindAllStringSubmatchIndex(s, -1) {
		if m[0] > last {
			out = append(out, Segment{Kind: KindText, Content: s[last:m[0]]})
		}
		switch {
		case m[2] >= 0:
			out = append(out, Segment{Kind: KindMana, Content: s[m[2]+1 : m[3]-1]})
		case m[4] >= 0:
			out = append(out, Segment{Kind: KindItalic, Content: s[m[4]:m[5]]})
		default:
			out = append(out, Segment{Kind: KindNewline, Content: "\n"})
		}
		last = m[1]
	}
	if last < len(s) {
		out = append(out, Segment{Kind: KindText, Content: s[last:]})
	}
	return out
}

// SegmentsToPlainText reassembles segments, re-wrapping mana in braces.
func SegmentsToPlainText(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		if s.Kind == KindMana {
			b.WriteString("{")
			b.WriteString(s.Content)
			b.WriteString("}")
			continue
		}
		b.WriteString(s.Content)
	}
	return b.String()
}

// ManaTokens returns the bodies of every mana segment, in order.
func ManaTokens(segs []Segment) []string {
	var out []string
	for _, s := range segs {
		if s.Kind == KindMana {
			out = append(out, s.Content)
		}
	}
	return out
}
