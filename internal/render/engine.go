package render

import (
	"context"
	"image"
	"log/slog"

	"github.com/youruser/cardforge/internal/assets"
	"github.com/youruser/cardforge/internal/cards"
	"github.com/youruser/cardforge/internal/fonts"
	imagepkg "github.com/youruser/cardforge/internal/image"
)

// Engine owns the caches shared by every render: decoded assets, composed
// dual frames, synthesized badges and font faces. One Engine serves any
// number of renders; a fresh Engine starts with empty caches.
type Engine struct {
	Assets *assets.Loader
	Frames *imagepkg.Compositor
	Badges *imagepkg.BadgeSynth
	Fonts  *fonts.Cache
	Log    *slog.Logger

	// ExpandReminders appends keyword reminder text to rules text.
	ExpandReminders bool
}

func NewEngine(a *assets.Loader, fc *fonts.Cache, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	if fc == nil {
		fc = fonts.Default()
	}
	return &Engine{
		Assets: a,
		Frames: imagepkg.NewCompositor(a, log),
		Badges: imagepkg.NewBadgeSynth(a),
		Fonts:  fc,
		Log:    log,
	}
}

// Scene prepares card and builds its instruction list. It fails only when
// ctx ends; unavailable assets are replaced by fallback ops.
func (e *Engine) Scene(ctx context.Context, card cards.Card, art image.Image, kws []cards.Keyword) (*Scene, error) {
	p, err := e.Prepare(ctx, card, art, kws)
	if err != nil {
		return nil, err
	}
	return e.Compose(p), nil
}

// Render builds card's scene and flattens it at ratio.
func (e *Engine) Render(ctx context.Context, card cards.Card, art image.Image, kws []cards.Keyword, ratio float64) (image.Image, error) {
	s, err := e.Scene(ctx, card, art, kws)
	if err != nil {
		return nil, err
	}
	return Rasterize(s, ratio, e.Fonts), nil
}
