package store

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/youruser/cardforge/internal/cards"
)

// parseListCell splits "Legendary / Creature" style cells. Empty parts and
// "-" are dropped.
func parseListCell(s string) []string {
	s = strings.ReplaceAll(s, "／", "/")
	parts := strings.Split(s, "/")
	out := []string{}
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" && t != "-" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// optional returns nil for blank and "-" cells.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil
	}
	return &s
}

// parseCSV reads one card per row. Columns are matched by header name and
// unknown columns are ignored; a literal "\n" in text cells is a line break.
func parseCSV(data []byte) ([]cards.Card, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("csv has no header")
	}
	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.TrimSpace(strings.ToLower(h))] = i
	}

	get := func(row []string, name string) string {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return row[idx]
		}
		return ""
	}
	multiline := func(s string) string {
		return strings.ReplaceAll(s, `\n`, "\n")
	}

	out := []cards.Card{}
	for n, row := range rows[1:] {
		c := cards.Card{
			ID:             get(row, "id"),
			SetID:          get(row, "set_id"),
			Name:           get(row, "name"),
			ManaCost:       get(row, "mana_cost"),
			TypeLine:       get(row, "type_line"),
			SubtypeLine:    get(row, "subtype_line"),
			Supertypes:     parseListCell(get(row, "supertypes")),
			Types:          parseListCell(get(row, "types")),
			Subtypes:       parseListCell(get(row, "subtypes")),
			RulesText:      multiline(get(row, "rules_text")),
			FlavorText:     multiline(get(row, "flavor_text")),
			Power:          optional(get(row, "power")),
			Toughness:      optional(get(row, "toughness")),
			Loyalty:        optional(get(row, "loyalty")),
			Rarity:         cards.Rarity(strings.ToLower(get(row, "rarity"))),
			Artist:         get(row, "artist"),
			ArtworkImageID: get(row, "artwork_image_id"),
			FrameOverride:  get(row, "frame_override"),
		}
		if s := strings.TrimSpace(get(row, "sort_order")); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("row %d: sort_order: %w", n+2, err)
			}
			c.SortOrder = v
		}
		out = append(out, c)
	}
	return out, nil
}
