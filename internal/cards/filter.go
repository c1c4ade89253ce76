package cards

import (
	"strings"

	"github.com/youruser/cardforge/internal/mana"
)

type FilterOptions struct {
	Colors    []mana.Color `json:"colors"`
	Types     []string     `json:"types"`
	Rarities  []Rarity     `json:"rarities"`
	CMCs      []int        `json:"cmcs"`
	FreeWords string       `json:"freeWords"`
	// Colorless keeps only cards without colored pips.
	Colorless bool `json:"colorless"`
}

func (o FilterOptions) Empty() bool {
	return len(o.Colors) == 0 && len(o.Types) == 0 && len(o.Rarities) == 0 &&
		len(o.CMCs) == 0 && strings.TrimSpace(o.FreeWords) == "" && !o.Colorless
}

func containsFold(hay []string, needles []string) bool {
	for _, n := range needles {
		for _, h := range hay {
			if strings.EqualFold(h, n) {
				return true
			}
		}
	}
	return false
}

// Filter returns the cards matching every non-empty option. Colors and
// types match when any listed value is present; free words must all occur
// somewhere in the name, rules text, type line or flavor text.
func Filter(cards []Card, opt FilterOptions) []Card {
	var out []Card
	for _, c := range cards {
		colors := mana.DeriveColors(c.ManaCost)
		if opt.Colorless && len(colors) > 0 {
			continue
		}
		if len(opt.Colors) > 0 {
			ok := false
			for _, want := range mana.SortColors(opt.Colors) {
				for _, have := range colors {
					if want == have {
						ok = true
					}
				}
			}
			if !ok {
				continue
			}
		}
		if len(opt.Types) > 0 && !containsFold(c.TypeList(), opt.Types) {
			continue
		}
		if len(opt.Rarities) > 0 {
			matched := false
			for _, r := range opt.Rarities {
				if c.Rarity == r {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		if len(opt.CMCs) > 0 {
			cmc := mana.CMC(c.ManaCost)
			matched := false
			for _, v := range opt.CMCs {
				if cmc == v {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		if opt.FreeWords != "" {
			hay := strings.ToLower(strings.Join([]string{c.Name, c.RulesText, c.FullTypeLine(), c.FlavorText}, "\n"))
			ok := true
			for _, k := range strings.Fields(opt.FreeWords) {
				if !strings.Contains(hay, strings.ToLower(k)) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}
