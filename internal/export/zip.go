package export

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/youruser/cardforge/internal/cards"
)

// ManifestCard describes one archived card.
type ManifestCard struct {
	Number int          `json:"number"`
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Type   string       `json:"type"`
	Rarity cards.Rarity `json:"rarity"`
	File   string       `json:"file"`
}

// Manifest is written to manifest.json inside a set archive.
type Manifest struct {
	SetName    string         `json:"setName"`
	SetCode    string         `json:"setCode"`
	CardCount  int            `json:"cardCount"`
	DPI        DPI            `json:"dpi"`
	ExportDate string         `json:"exportDate"`
	Cards      []ManifestCard `json:"cards"`
	Skipped    []Skipped      `json:"skipped,omitempty"`
}

const ManifestName = "manifest.json"

// CardFileName is the archive entry for the number-th card (1-based).
func CardFileName(number int, name string) string {
	return fmt.Sprintf("%03d_%s.png", number, safeName(name))
}

// SetZip renders every card of setID in order, one at a time, and writes a
// zip of the PNGs plus a manifest to w. A card that fails to render is left
// out and listed under "skipped" in the manifest; the archive is still
// written and the returned error is a *BatchError. Cancelling ctx aborts
// the batch and nothing further is written.
func (x *Exporter) SetZip(ctx context.Context, w io.Writer, setID string, dpi DPI, progress Progress) (*Manifest, error) {
	set, err := x.Store.Set(ctx, setID)
	if err != nil {
		return nil, err
	}
	cs, err := x.Store.CardsInSet(ctx, setID)
	if err != nil {
		return nil, err
	}

	m := &Manifest{
		SetName:    set.Name,
		SetCode:    set.Code,
		CardCount:  len(cs),
		DPI:        dpi,
		ExportDate: x.now(),
		Cards:      []ManifestCard{},
	}
	zw := zip.NewWriter(w)
	for i, c := range cs {
		number := i + 1
		data, err := x.CardPNG(ctx, c.ID, dpi)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			x.Log.Warn("card skipped", "set", setID, "card", c.ID, "error", err)
			m.Skipped = append(m.Skipped, Skipped{Number: number, CardID: c.ID, Name: c.Name, Error: err.Error()})
		} else {
			name := CardFileName(number, c.Name)
			f, err := zw.Create(name)
			if err != nil {
				return nil, err
			}
			if _, err := f.Write(data); err != nil {
				return nil, err
			}
			m.Cards = append(m.Cards, ManifestCard{
				Number: number, ID: c.ID, Name: c.Name, Type: c.FullTypeLine(), Rarity: c.Rarity, File: name,
			})
		}
		if progress != nil {
			progress(number, len(cs))
		}
	}

	f, err := zw.Create(ManifestName)
	if err != nil {
		return nil, err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	x.Log.Info("set exported", "set", setID, "dpi", int(dpi), "cards", len(m.Cards), "skipped", len(m.Skipped))
	return m, batchErr(m.Skipped)
}
