package render

import (
	"context"
	"image"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/youruser/cardforge/internal/cards"
	"github.com/youruser/cardforge/internal/frame"
	imagepkg "github.com/youruser/cardforge/internal/image"
	"github.com/youruser/cardforge/internal/mana"
	"github.com/youruser/cardforge/internal/text"
)

// Prepared holds everything a card's scene is built from. A nil image
// means the asset was unavailable and a fallback is drawn.
type Prepared struct {
	Card     cards.Card
	Frame    frame.Key
	Cost     []mana.Symbol
	Segments []text.Segment
	Artwork  image.Image

	FrameImage image.Image
	PTImage    image.Image
	// Badges maps imagepkg.BadgeKey identities to synthesized badges, for
	// both the cost and the symbols inside rules text.
	Badges map[string]image.Image
}

// Badge returns the badge prepared for sym, or nil.
func (p *Prepared) Badge(sym mana.Symbol) image.Image {
	return p.Badges[imagepkg.BadgeKey(sym.Key(), sym)]
}

// Prepare loads the frame, P/T box and every badge card needs
// concurrently and waits for all of them. Load failures are logged and
// leave the slot empty; only a cancelled ctx is an error.
func (e *Engine) Prepare(ctx context.Context, card cards.Card, art image.Image, kws []cards.Keyword) (*Prepared, error) {
	card = card.Derived()
	p := &Prepared{
		Card:     card,
		Frame:    card.Frame(),
		Cost:     mana.Parse(card.ManaCost),
		Segments: text.ProcessRulesText(card.RulesText, card.Name, kws, e.ExpandReminders),
		Artwork:  art,
		Badges:   make(map[string]image.Image),
	}
	log := e.Log.With("card", card.ID, "name", card.Name)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		img, err := e.Frames.Frame(gctx, p.Frame)
		if err != nil {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			log.Warn("frame unavailable, drawing flat frame", "frame", p.Frame, "error", err)
			return nil
		}
		p.FrameImage = img
		return nil
	})

	if card.HasPT() || card.Loyalty != nil {
		g.Go(func() error {
			img, err := e.Assets.PT(gctx, p.Frame.PTKey())
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Warn("P/T box unavailable, drawing flat box", "frame", p.Frame.PTKey(), "error", err)
				return nil
			}
			p.PTImage = img
			return nil
		})
	}

	var mu sync.Mutex
	for _, sym := range badgeSymbols(p) {
		key := sym.Key()
		id := imagepkg.BadgeKey(key, sym)
		g.Go(func() error {
			img, err := e.Badges.Badge(gctx, key, sym)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Warn("mana badge unavailable, drawing plain disc", "symbol", id, "error", err)
				return nil
			}
			mu.Lock()
			p.Badges[id] = img
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return p, nil
}

// badgeSymbols lists each distinct symbol in the cost and the rules text.
func badgeSymbols(p *Prepared) []mana.Symbol {
	seen := make(map[string]bool)
	var out []mana.Symbol
	add := func(sym mana.Symbol) {
		id := imagepkg.BadgeKey(sym.Key(), sym)
		if !seen[id] {
			seen[id] = true
			out = append(out, sym)
		}
	}
	for _, sym := range p.Cost {
		add(sym)
	}
	for _, tok := range text.ManaTokens(p.Segments) {
		add(mana.ParseSymbol(tok))
	}
	return out
}
