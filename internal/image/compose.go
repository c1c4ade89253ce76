package imagepkg

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/youruser/cardforge/internal/assets"
	"github.com/youruser/cardforge/internal/frame"
)

// Compositor builds frame rasters, including two-color frames assembled
// from two mono frames and the catalog masks. Results are kept for the life
// of the Compositor.
type Compositor struct {
	assets *assets.Loader
	log    *slog.Logger

	group singleflight.Group
	mu    sync.RWMutex
	duals map[[2]frame.Key]image.Image
}

func NewCompositor(a *assets.Loader, log *slog.Logger) *Compositor {
	if log == nil {
		log = slog.Default()
	}
	return &Compositor{assets: a, log: log, duals: make(map[[2]frame.Key]image.Image)}
}

// Frame returns the raster for any frame key, compositing dual keys.
func (c *Compositor) Frame(ctx context.Context, k frame.Key) (image.Image, error) {
	parts := k.Components()
	if len(parts) == 2 {
		return c.DualFrame(ctx, parts[0], parts[1])
	}
	return c.assets.Frame(ctx, k)
}

// DualFrame draws left over the whole canvas and right through the
// right-half mask, then overlays the gold pinline when its assets load.
// The order matters: the mask always applies to right.
func (c *Compositor) DualFrame(ctx context.Context, left, right frame.Key) (image.Image, error) {
	key := [2]frame.Key{left, right}
	c.mu.RLock()
	img, ok := c.duals[key]
	c.mu.RUnlock()
	if ok {
		return img, nil
	}

	ch := c.group.DoChan(string(left)+"+"+string(right), func() (any, error) {
		img, err := c.composeDual(context.WithoutCancel(ctx), left, right)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.duals[key] = img
		c.mu.Unlock()
		return img, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(image.Image), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Compositor) composeDual(ctx context.Context, left, right frame.Key) (image.Image, error) {
	var leftImg, rightImg, mask image.Image
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { leftImg, err = c.assets.Frame(gctx, left); return })
	g.Go(func() (err error) { rightImg, err = c.assets.Frame(gctx, right); return })
	g.Go(func() (err error) { mask, err = c.assets.Mask(gctx, assets.MaskRightHalf); return })
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dual frame %s+%s: %w", left, right, err)
	}

	size := leftImg.Bounds().Size()
	dst := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.Draw(dst, dst.Bounds(), leftImg, leftImg.Bounds().Min, draw.Src)
	overlayMasked(dst, rightImg, mask)

	gold, err := c.assets.Frame(ctx, frame.Gold)
	if err == nil {
		var pin image.Image
		pin, err = c.assets.Mask(ctx, assets.MaskPinline)
		if err == nil {
			overlayMasked(dst, gold, pin)
		}
	}
	if err != nil {
		c.log.Debug("pinline skipped", "left", left, "right", right, "error", err)
	}
	return dst, nil
}

// overlayMasked draws src over dst wherever mask is opaque, scaling src and
// mask to dst's size when they differ.
func overlayMasked(dst *image.NRGBA, src, mask image.Image) {
	b := dst.Bounds()
	src = fitTo(src, b.Dx(), b.Dy())
	mask = fitTo(mask, b.Dx(), b.Dy())
	draw.DrawMask(dst, b, src, src.Bounds().Min, mask, mask.Bounds().Min, draw.Over)
}

func fitTo(img image.Image, w, h int) image.Image {
	if s := img.Bounds().Size(); s.X == w && s.Y == h {
		return img
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// ProofSheet lays rendered cards out in a grid for review, with an
// optional QR code in the header.
type ProofSheet struct {
	Columns    int
	CardWidth  int
	CardHeight int
	Gap        int
	Margin     int
	QRSize     int
	Background color.NRGBA
}

func DefaultProofSheet() ProofSheet {
	return ProofSheet{
		Columns:    5,
		CardWidth:  250,
		CardHeight: 350,
		Gap:        8,
		Margin:     48,
		QRSize:     200,
		Background: color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff},
	}
}

// Compose places cards row by row under a header band holding qr at the
// right. A nil qr leaves the header empty.
func (p ProofSheet) Compose(cards []image.Image, qr image.Image) *image.NRGBA {
	cols := p.Columns
	if cols < 1 {
		cols = 1
	}
	rows := (len(cards) + cols - 1) / cols
	if rows == 0 {
		rows = 1
	}
	W := 2*p.Margin + cols*p.CardWidth + (cols-1)*p.Gap
	top := p.Margin + p.QRSize + p.Margin
	H := top + rows*p.CardHeight + (rows-1)*p.Gap + p.Margin
	canvas := imaging.New(W, H, p.Background)

	if qr != nil {
		q := imaging.Resize(qr, p.QRSize, p.QRSize, imaging.Lanczos)
		canvas = imaging.Paste(canvas, q, image.Pt(W-p.Margin-p.QRSize, p.Margin))
	}

	for i, card := range cards {
		x := p.Margin + (i%cols)*(p.CardWidth+p.Gap)
		y := top + (i/cols)*(p.CardHeight+p.Gap)
		thumb := imaging.Resize(card, p.CardWidth, p.CardHeight, imaging.Lanczos)
		canvas = imaging.Overlay(canvas, thumb, image.Pt(x, y), 1)
	}
	return canvas
}
