package export

import (
	"context"
	"image"

	imagepkg "github.com/youruser/cardforge/internal/image"
)

// ProofSheet renders every card of setID at base resolution and lays them
// out on a sheet stamped with a QR code of "set:<code>". Cards that fail to
// render are left off the sheet and reported through a *BatchError.
func (x *Exporter) ProofSheet(ctx context.Context, setID string, sheet imagepkg.ProofSheet, progress Progress) (image.Image, error) {
	set, err := x.Store.Set(ctx, setID)
	if err != nil {
		return nil, err
	}
	cs, err := x.Store.CardsInSet(ctx, setID)
	if err != nil {
		return nil, err
	}

	var (
		thumbs  []image.Image
		skipped []Skipped
	)
	for i, c := range cs {
		img, err := x.CardImage(ctx, c.ID, DPI300)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			x.Log.Warn("card left off proof sheet", "set", setID, "card", c.ID, "error", err)
			skipped = append(skipped, Skipped{Number: i + 1, CardID: c.ID, Name: c.Name, Error: err.Error()})
		} else {
			thumbs = append(thumbs, img)
		}
		if progress != nil {
			progress(i+1, len(cs))
		}
	}

	var qr image.Image
	code := set.Code
	if code == "" {
		code = set.ID
	}
	if sheet.QRSize > 0 {
		if qr, err = imagepkg.GenerateQRImage("set:"+code, sheet.QRSize); err != nil {
			x.Log.Warn("proof sheet without qr code", "set", setID, "error", err)
			qr = nil
		}
	}
	return sheet.Compose(thumbs, qr), batchErr(skipped)
}
