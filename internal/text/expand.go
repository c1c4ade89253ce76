package text

import (
	"regexp"
	"sort"
	"strings"

	"github.com/youruser/cardforge/internal/cards"
)

// argumentPattern picks up a keyword's argument: a run of mana symbols
// ("Ward {2}") or a number ("Scry 2").
var argumentPattern = regexp.MustCompile(`^[ \t]+((?:\{[^}]+\})+|\d+)`)

// ExpandKeywords appends each keyword's reminder text after every
// occurrence of the keyword. Longer keyword names are tried first so
// "Double strike" wins over a shorter overlapping name. An occurrence is
// left alone when reminder text already follows it or when it sits inside a
// parenthetical, so expanding twice is the same as expanding once.
func ExpandKeywords(s string, keywords []cards.Keyword) string {
	if s == "" {
		return s
	}
	sorted := make([]cards.Keyword, len(keywords))
	copy(sorted, keywords)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Name) > len(sorted[j].Name)
	})

	for _, kw := range sorted {
		if kw.ReminderText == "" {
			continue
		}
		re, err := matcher(kw)
		if err != nil {
			continue
		}
		s = expandOne(s, re, kw)
	}
	return s
}

func matcher(kw cards.Keyword) (*regexp.Regexp, error) {
	pattern := kw.Match
	if pattern == "" {
		pattern = `\b` + regexp.QuoteMeta(kw.Name) + `\b`
	}
	return regexp.Compile("(?i)" + pattern)
}

func expandOne(s string, re *regexp.Regexp, kw cards.Keyword) string {
	locs := re.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return s
	}
	depth := parenDepth(s)

	var b strings.Builder
	last := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		if start == end || depth[start] > 0 {
			continue
		}
		reminder := kw.ReminderText
		if m := argumentPattern.FindStringSubmatchIndex(s[end:]); m != nil && len(kw.Parameters) > 0 {
			arg := s[end+m[2] : end+m[3]]
			reminder = fillParameters(reminder, kw.Parameters, arg)
			end += m[1]
		}
		if len(kw.Parameters) > 0 {
			reminder = clearParameters(reminder, kw.Parameters)
		}
		if followedByParen(s, end) {
			continue
		}
		b.WriteString(s[last:end])
		b.WriteString(" ")
		b.WriteString(reminder)
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

// fillParameters substitutes arg for the placeholders whose type matches
// it: mana symbols fill cost parameters, digits fill number parameters.
func fillParameters(reminder string, params []cards.Parameter, arg string) string {
	isCost := strings.HasPrefix(arg, "{")
	for _, p := range params {
		if p.Placeholder == "" {
			continue
		}
		if (isCost && p.Type == "cost") || (!isCost && p.Type == "number") {
			reminder = strings.ReplaceAll(reminder, p.Placeholder, arg)
		}
	}
	return reminder
}

// clearParameters replaces placeholders left unfilled with the parameter's
// name so they never read as mana symbols.
func clearParameters(reminder string, params []cards.Parameter) string {
	for _, p := range params {
		if p.Placeholder != "" {
			reminder = strings.ReplaceAll(reminder, p.Placeholder, p.Name)
		}
	}
	return reminder
}

func followedByParen(s string, i int) bool {
	rest := strings.TrimLeft(s[i:], " \t")
	return strings.HasPrefix(rest, "(")
}

// parenDepth returns, for every byte offset, how many parentheses are open
// before it.
func parenDepth(s string) []int {
	depth := make([]int, len(s)+1)
	d := 0
	for i := 0; i < len(s); i++ {
		depth[i] = d
		switch s[i] {
		case '(':
			d++
		case ')':
			if d > 0 {
				d--
			}
		}
	}
	depth[len(s)] = d
	return depth
}
