package cards

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/youruser/cardforge/internal/mana"
)

// collectorRank orders cards W, U, B, R, G, then multicolor by color count,
// then colorless, then lands.
func collectorRank(c Card) int {
	if containsFold(c.TypeList(), []string{"Land"}) {
		return 800
	}
	colors := mana.DeriveColors(c.ManaCost)
	switch {
	case len(colors) == 0:
		return 700
	case len(colors) > 1:
		return 600 + len(colors)
	default:
		return colors[0].Index() * 100
	}
}

// SortByCollectorNumber returns cards in collector order, by name within
// each group. The input is left untouched.
func SortByCollectorNumber(cards []Card) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := collectorRank(out[i]), collectorRank(out[j])
		if ri != rj {
			return ri < rj
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// AssignCollectorNumbers maps card IDs to "NNN/TOTAL" numbers in collector
// order, zero padded to the width of the total.
func AssignCollectorNumbers(cards []Card) map[string]string {
	sorted := SortByCollectorNumber(cards)
	total := strconv.Itoa(len(sorted))
	out := make(map[string]string, len(sorted))
	for i, c := range sorted {
		out[c.ID] = fmt.Sprintf("%0*d/%s", len(total), i+1, total)
	}
	return out
}
