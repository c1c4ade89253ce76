package render

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/youruser/cardforge/internal/fonts"
	"github.com/youruser/cardforge/internal/layout"
	"github.com/youruser/cardforge/internal/util"
)

// Raster flattens a scene into pixels at a fixed ratio of the base canvas.
// Everything is drawn at the target resolution: images are resampled
// straight to their destination size and text is set at the scaled size.
type Raster struct {
	dc    *gg.Context
	ratio float64
	fonts *fonts.Cache
	faces map[faceKey]font.Face
}

type faceKey struct {
	role fonts.Role
	size float64
}

func NewRaster(ratio float64, fc *fonts.Cache) *Raster {
	w, h := layout.PixelSize(ratio)
	return &Raster{
		dc:    gg.NewContext(w, h),
		ratio: ratio,
		fonts: fc,
		faces: make(map[faceKey]font.Face),
	}
}

// Rasterize plays s onto a new raster and returns the image.
func Rasterize(s *Scene, ratio float64, fc *fonts.Cache) image.Image {
	r := NewRaster(ratio, fc)
	s.Play(r)
	return r.Image()
}

func (r *Raster) Image() image.Image { return r.dc.Image() }

func (r *Raster) face(role fonts.Role, size float64) font.Face {
	k := faceKey{role, size}
	f, ok := r.faces[k]
	if !ok {
		f = r.fonts.NewFace(role, size)
		r.faces[k] = f
	}
	return f
}

func (r *Raster) setColor(hex string, opacity float64) {
	c := util.Hex(hex)
	if opacity < 1 {
		c.A = uint8(float64(c.A)*opacity + 0.5)
	}
	r.dc.SetColor(c)
}

func (r *Raster) DrawRect(op Op) {
	s := op.Rect.Scale(r.ratio)
	if op.Radius > 0 {
		r.dc.DrawRoundedRectangle(s.X, s.Y, s.W, s.H, op.Radius*r.ratio)
	} else {
		r.dc.DrawRectangle(s.X, s.Y, s.W, s.H)
	}
	if op.Fill != "" {
		r.setColor(op.Fill, op.alpha())
		r.dc.FillPreserve()
	}
	if op.Stroke != "" && op.StrokeWidth > 0 {
		r.setColor(op.Stroke, op.alpha())
		r.dc.SetLineWidth(op.StrokeWidth * r.ratio)
		r.dc.StrokePreserve()
	}
	r.dc.ClearPath()
}

func (r *Raster) DrawImage(op Op) {
	x0, y0, x1, y1 := op.Rect.Pixels(r.ratio)
	w, h := x1-x0, y1-y0
	if w <= 0 || h <= 0 {
		return
	}
	img := op.Image
	if s := img.Bounds().Size(); s.X != w || s.Y != h {
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}
	if op.Clip != nil {
		c := op.Clip.Scale(r.ratio)
		r.dc.Push()
		r.dc.DrawRectangle(c.X, c.Y, c.W, c.H)
		r.dc.Clip()
		defer r.dc.Pop()
	}
	r.dc.DrawImage(img, x0, y0)
}

func (r *Raster) DrawText(op Op) {
	if op.Text == "" {
		return
	}
	r.dc.SetFontFace(r.face(op.Role, op.Size*r.ratio))
	r.setColor(op.Fill, op.alpha())
	x := op.Rect.X * r.ratio
	if op.Align == AlignCenter {
		w, _ := r.dc.MeasureString(op.Text)
		x = (op.Rect.X+op.Rect.W/2)*r.ratio - w/2
	}
	r.dc.DrawString(op.Text, x, op.Baseline*r.ratio)
}

func (r *Raster) DrawLine(op Op) {
	s := op.Rect.Scale(r.ratio)
	r.dc.DrawLine(s.X, s.Y, s.Right(), s.Bottom())
	r.setColor(op.Stroke, op.alpha())
	r.dc.SetLineWidth(op.StrokeWidth * r.ratio)
	r.dc.Stroke()
}
