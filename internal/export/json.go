package export

import (
	"context"
	"encoding/json"
	"io"

	"github.com/youruser/cardforge/internal/cards"
	"github.com/youruser/cardforge/internal/mana"
)

const (
	DocumentFormat  = "cardforge"
	DocumentVersion = 1
)

type DocumentSet struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Designer    string `json:"designer"`
	Copyright   string `json:"copyright"`
	Description string `json:"description"`
}

// DocumentCard holds the authorable fields of a card.
type DocumentCard struct {
	Name            string       `json:"name"`
	ManaCost        string       `json:"manaCost"`
	Colors          []mana.Color `json:"colors"`
	TypeLine        string       `json:"typeLine"`
	SubtypeLine     string       `json:"subtypeLine"`
	Supertypes      []string     `json:"supertypes"`
	Types           []string     `json:"types"`
	Subtypes        []string     `json:"subtypes"`
	RulesText       string       `json:"rulesText"`
	FlavorText      string       `json:"flavorText"`
	Power           *string      `json:"power"`
	Toughness       *string      `json:"toughness"`
	Loyalty         *string      `json:"loyalty"`
	Rarity          cards.Rarity `json:"rarity"`
	Artist          string       `json:"artist"`
	CollectorNumber string       `json:"collectorNumber"`
	CMC             int          `json:"cmc"`
}

// Document is the structured export of a set.
type Document struct {
	Format     string         `json:"format"`
	Version    int            `json:"version"`
	ExportDate string         `json:"exportDate"`
	Set        DocumentSet    `json:"set"`
	Cards      []DocumentCard `json:"cards"`
}

// SetDocument projects setID and its cards. Colors and CMC are computed
// from the mana cost; cards without a collector number get one in
// collector order.
func (x *Exporter) SetDocument(ctx context.Context, setID string) (*Document, error) {
	set, err := x.Store.Set(ctx, setID)
	if err != nil {
		return nil, err
	}
	cs, err := x.Store.CardsInSet(ctx, setID)
	if err != nil {
		return nil, err
	}
	numbers := cards.AssignCollectorNumbers(cs)

	doc := &Document{
		Format:     DocumentFormat,
		Version:    DocumentVersion,
		ExportDate: x.now(),
		Set: DocumentSet{
			Name: set.Name, Code: set.Code, Designer: set.Designer,
			Copyright: set.Copyright, Description: set.Description,
		},
		Cards: make([]DocumentCard, 0, len(cs)),
	}
	for _, c := range cs {
		d := c.Derived()
		number := c.CollectorNumber
		if number == "" {
			number = numbers[c.ID]
		}
		doc.Cards = append(doc.Cards, DocumentCard{
			Name:            c.Name,
			ManaCost:        c.ManaCost,
			Colors:          d.Colors,
			TypeLine:        c.TypeLine,
			SubtypeLine:     c.SubtypeLine,
			Supertypes:      c.Supertypes,
			Types:           c.Types,
			Subtypes:        c.Subtypes,
			RulesText:       c.RulesText,
			FlavorText:      c.FlavorText,
			Power:           c.Power,
			Toughness:       c.Toughness,
			Loyalty:         c.Loyalty,
			Rarity:          c.Rarity,
			Artist:          c.Artist,
			CollectorNumber: number,
			CMC:             d.CMC,
		})
	}
	return doc, nil
}

// SetJSON writes SetDocument as indented JSON.
func (x *Exporter) SetJSON(ctx context.Context, w io.Writer, setID string) error {
	doc, err := x.SetDocument(ctx, setID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
