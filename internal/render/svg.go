package render

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"image"
	"image/png"
	"io"
	"strconv"
)

// SVG writes a scene as a scalable SVG document in base canvas units.
// Each image source is embedded once as a PNG data URI under <defs> and
// drawn through <use> references.
type SVG struct {
	w      io.Writer
	err    error
	clips  int
	images int
	ids    map[string]string
}

// WriteSVG writes s to w as a standalone SVG document.
func WriteSVG(w io.Writer, s *Scene) error {
	b := &SVG{w: w, ids: make(map[string]string)}
	b.printf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(s.Width), num(s.Height), num(s.Width), num(s.Height))
	s.Play(b)
	b.printf("</svg>\n")
	return b.err
}

func (b *SVG) printf(format string, args ...any) {
	if b.err != nil {
		return
	}
	_, b.err = fmt.Fprintf(b.w, format, args...)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func opacityAttr(op Op) string {
	if a := op.alpha(); a < 1 {
		return fmt.Sprintf(` opacity="%s"`, num(a))
	}
	return ""
}

func (b *SVG) DrawRect(op Op) {
	fill := op.Fill
	if fill == "" {
		fill = "none"
	}
	stroke := ""
	if op.Stroke != "" && op.StrokeWidth > 0 {
		stroke = fmt.Sprintf(` stroke="%s" stroke-width="%s"`, op.Stroke, num(op.StrokeWidth))
	}
	b.printf(`<rect x="%s" y="%s" width="%s" height="%s" rx="%s" fill="%s"%s%s data-tag="%s"/>`+"\n",
		num(op.Rect.X), num(op.Rect.Y), num(op.Rect.W), num(op.Rect.H), num(op.Radius),
		fill, stroke, opacityAttr(op), op.Tag)
}

func (b *SVG) DrawImage(op Op) {
	if op.Image == nil {
		return
	}
	id, err := b.define(op.Source, op.Image)
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return
	}
	size := op.Image.Bounds().Size()
	if size.X == 0 || size.Y == 0 {
		return
	}
	use := fmt.Sprintf(`<use href="#%s" transform="translate(%s %s) scale(%s %s)" data-tag="%s"/>`,
		id, num(op.Rect.X), num(op.Rect.Y), num(op.Rect.W/float64(size.X)), num(op.Rect.H/float64(size.Y)), op.Tag)
	if op.Clip == nil {
		b.printf("%s\n", use)
		return
	}
	b.clips++
	clip := fmt.Sprintf("clip%d", b.clips)
	b.printf(`<clipPath id="%s"><rect x="%s" y="%s" width="%s" height="%s"/></clipPath>`+"\n",
		clip, num(op.Clip.X), num(op.Clip.Y), num(op.Clip.W), num(op.Clip.H))
	b.printf(`<g clip-path="url(#%s)">%s</g>`+"\n", clip, use)
}

// define writes img into a <defs> block the first time source is seen and
// returns the element id later draws reference. Images without a source
// are never shared.
func (b *SVG) define(source string, img image.Image) (string, error) {
	if id, ok := b.ids[source]; ok && source != "" {
		return id, nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("svg: encode image: %w", err)
	}
	b.images++
	id := fmt.Sprintf("img%d", b.images)
	size := img.Bounds().Size()
	b.printf(`<defs><image id="%s" width="%d" height="%d" preserveAspectRatio="none" href="data:image/png;base64,%s"/></defs>`+"\n",
		id, size.X, size.Y, base64.StdEncoding.EncodeToString(buf.Bytes()))
	if source != "" {
		b.ids[source] = id
	}
	return id, nil
}

func (b *SVG) DrawText(op Op) {
	if op.Text == "" {
		return
	}
	x, anchor := op.Rect.X, "start"
	if op.Align == AlignCenter {
		x, anchor = op.Rect.X+op.Rect.W/2, "middle"
	}
	b.printf(`<text x="%s" y="%s" font-family="%s" font-size="%s" font-weight="%s" font-style="%s" fill="%s" text-anchor="%s"%s data-tag="%s">%s</text>`+"\n",
		num(x), num(op.Baseline), op.Role.Family(), num(op.Size), op.Role.Weight(), op.Role.Style(),
		op.Fill, anchor, opacityAttr(op), op.Tag, escape(op.Text))
}

func (b *SVG) DrawLine(op Op) {
	b.printf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" data-tag="%s"/>`+"\n",
		num(op.Rect.X), num(op.Rect.Y), num(op.Rect.Right()), num(op.Rect.Bottom()),
		op.Stroke, num(op.StrokeWidth), op.Tag)
}
