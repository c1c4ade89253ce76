// Package export turns stored cards into deliverables: single-card PNGs,
// whole-set archives, structured JSON, text checklists and proof sheets.
package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"github.com/youruser/cardforge/internal/render"
	"github.com/youruser/cardforge/internal/store"
)

// DPI is a print resolution tier.
type DPI int

const (
	DPI300  DPI = 300
	DPI600  DPI = 600
	DPI1200 DPI = 1200
)

// Ratio is the pixel ratio applied to the base canvas.
func (d DPI) Ratio() float64 {
	switch d {
	case DPI600:
		return 2
	case DPI1200:
		return 4
	default:
		return 1
	}
}

func (d DPI) Valid() bool {
	return d == DPI300 || d == DPI600 || d == DPI1200
}

// ParseDPI accepts "300", "600" or "1200". An empty string is DPI300.
func ParseDPI(s string) (DPI, error) {
	if s == "" {
		return DPI300, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !DPI(n).Valid() {
		return 0, fmt.Errorf("unsupported dpi %q (want 300, 600 or 1200)", s)
	}
	return DPI(n), nil
}

// Exporter renders cards out of a store.
type Exporter struct {
	Engine *render.Engine
	Store  store.Store
	Log    *slog.Logger
	// Now stamps export documents.
	Now func() time.Time
}

func New(e *render.Engine, s store.Store, log *slog.Logger) *Exporter {
	if log == nil {
		log = slog.Default()
	}
	return &Exporter{Engine: e, Store: s, Log: log, Now: time.Now}
}

func (x *Exporter) now() string {
	return x.Now().UTC().Format(time.RFC3339)
}

// CardImage renders one stored card at dpi.
func (x *Exporter) CardImage(ctx context.Context, cardID string, dpi DPI) (image.Image, error) {
	return x.Engine.NewJob(x.Store, cardID, dpi.Ratio()).Run(ctx)
}

// CardPNG renders one stored card at dpi and encodes it as PNG.
func (x *Exporter) CardPNG(ctx context.Context, cardID string, dpi DPI) ([]byte, error) {
	img, err := x.CardImage(ctx, cardID, dpi)
	if err != nil {
		return nil, err
	}
	return EncodePNG(img)
}

func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

// Skipped records a card left out of a batch.
type Skipped struct {
	Number int    `json:"number"`
	CardID string `json:"cardId"`
	Name   string `json:"name"`
	Error  string `json:"error"`
}

// BatchError reports the cards a batch skipped. The batch output is still
// complete for every other card.
type BatchError struct {
	Skipped []Skipped
}

func (e *BatchError) Error() string {
	names := make([]string, len(e.Skipped))
	for i, s := range e.Skipped {
		names[i] = s.CardID
	}
	return fmt.Sprintf("%d card(s) skipped: %s", len(e.Skipped), strings.Join(names, ", "))
}

func batchErr(skipped []Skipped) error {
	if len(skipped) == 0 {
		return nil
	}
	return &BatchError{Skipped: skipped}
}

// Progress is called after each card of a batch with the number of cards
// handled so far.
type Progress func(done, total int)

// safeName keeps ASCII letters and digits, replacing everything else with
// "_".
func safeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "untitled"
	}
	return b.String()
}
