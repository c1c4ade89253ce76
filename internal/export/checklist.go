package export

import (
	"context"
	"strings"

	"github.com/youruser/cardforge/internal/cards"
)

// Checklist renders a plain-text list of setID in collector order:
//
//	# Dominion (DOM)
//	1/3 Abbey Guard — Creature [Common]
func (x *Exporter) Checklist(ctx context.Context, setID string) (string, error) {
	set, err := x.Store.Set(ctx, setID)
	if err != nil {
		return "", err
	}
	cs, err := x.Store.CardsInSet(ctx, setID)
	if err != nil {
		return "", err
	}
	return ChecklistText(set, cs), nil
}

func ChecklistText(set cards.Set, cs []cards.Card) string {
	lines := []string{}
	header := set.Name
	if set.Code != "" {
		header += " (" + set.Code + ")"
	}
	if header != "" {
		lines = append(lines, "# "+header)
	}
	numbers := cards.AssignCollectorNumbers(cs)
	for _, c := range cards.SortByCollectorNumber(cs) {
		line := numbers[c.ID] + " " + c.Name
		if tl := c.FullTypeLine(); tl != "" {
			line += " — " + tl
		}
		if r := c.Rarity.Title(); r != "" {
			line += " [" + r + "]"
		}
		lines = append(lines, strings.TrimSpace(line))
	}
	return strings.Join(lines, "\n") + "\n"
}
