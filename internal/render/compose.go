package render

import (
	"fmt"
	"strings"

	"github.com/youruser/cardforge/internal/cards"
	"github.com/youruser/cardforge/internal/fonts"
	"github.com/youruser/cardforge/internal/frame"
	imagepkg "github.com/youruser/cardforge/internal/image"
	"github.com/youruser/cardforge/internal/layout"
	"github.com/youruser/cardforge/internal/mana"
	"github.com/youruser/cardforge/internal/text"
	"github.com/youruser/cardforge/internal/util"
)

const (
	placeholderName = "Untitled"
	placeholderType = "Card Type"

	frameRim           = "#111111"
	rulesInk           = "#1a1a1a"
	flavorInk          = "#444444"
	separatorInk       = "#999999"
	infoInk            = "#ffffff"
	infoOpacity        = 0.7
	fallbackDiscStroke = "#999999"
)

var rarityColors = map[cards.Rarity]string{
	cards.Mythic:   "#dd4444",
	cards.Rare:     "#ddaa44",
	cards.Uncommon: "#aaaacc",
}

const defaultRarityColor = "#666666"

// Compose lays out a prepared card, bottom layer first: frame, name, cost,
// art, type line, rarity, rules, flavor, P/T box and the info bar.
func (e *Engine) Compose(p *Prepared) *Scene {
	s := NewScene()
	pal := p.Frame.Palette()

	e.composeFrame(s, p, pal)
	e.composeName(s, p, pal)
	e.composeCost(s, p)
	composeArt(s, p)
	e.composeType(s, p, pal)
	composeRarity(s, p.Card.Rarity)
	e.composeText(s, p)
	e.composePT(s, p, pal)
	e.composeInfo(s, p.Card)
	return s
}

func (e *Engine) composeFrame(s *Scene, p *Prepared, pal frame.Palette) {
	if p.FrameImage != nil {
		s.Add(Op{Kind: OpImage, Tag: TagFrame, Rect: layout.Canvas, Image: p.FrameImage, Source: "frame:" + string(p.Frame)})
		return
	}
	s.Add(Op{Kind: OpRect, Tag: TagFrameFallback, Rect: layout.Canvas, Radius: layout.BorderRadius, Fill: frameRim})
	s.Add(Op{
		Kind:   OpRect,
		Tag:    TagFrameFallback,
		Rect:   layout.Canvas.Inset(layout.FrameFallbackInset),
		Radius: layout.BorderRadius - 3,
		Fill:   util.HexString(pal.Primary),
	})
}

// middleBaseline centers a single line of text vertically in r.
func (e *Engine) middleBaseline(r layout.Rect, role fonts.Role, size float64) float64 {
	asc, desc := e.Fonts.Ascent(role, size), e.Fonts.Descent(role, size)
	return r.Y + (r.H+asc-desc)/2
}

// textFill is the frame's text color, faded for placeholder text.
func textFill(pal frame.Palette, placeholder bool) string {
	if placeholder {
		return util.HexString(util.WithAlpha(pal.Text, layout.PlaceholderTextAlpha/255.0))
	}
	return util.HexString(pal.Text)
}

func (e *Engine) composeName(s *Scene, p *Prepared, pal frame.Palette) {
	box := layout.NameText
	name, placeholder := p.Card.Name, false
	if strings.TrimSpace(name) == "" {
		name, placeholder = placeholderName, true
	}
	r := box.Rect
	r.W -= layout.ManaCostWidth(len(p.Cost)) + layout.NameManaGap
	s.Add(Op{
		Kind:     OpText,
		Tag:      TagName,
		Rect:     r,
		Text:     text.Ellipsize(name, r.W, fonts.Title, box.FontSize, e.Fonts),
		Role:     fonts.Title,
		Size:     box.FontSize,
		Baseline: e.middleBaseline(r, fonts.Title, box.FontSize),
		Fill:     textFill(pal, placeholder),
	})
}

func (e *Engine) composeCost(s *Scene, p *Prepared) {
	n := len(p.Cost)
	for i, sym := range p.Cost {
		s.Add(badgeOp(p, sym, layout.ManaSymbolRect(i, n), TagMana, TagManaFallback))
	}
}

// badgeOp draws sym's badge in r, or a plain disc when it is missing.
func badgeOp(p *Prepared, sym mana.Symbol, r layout.Rect, tag, fallback Tag) Op {
	if img := p.Badge(sym); img != nil {
		return Op{Kind: OpImage, Tag: tag, Rect: r, Image: img, Source: "badge:" + imagepkg.BadgeKey(sym.Key(), sym)}
	}
	return Op{
		Kind:        OpRect,
		Tag:         fallback,
		Rect:        r,
		Radius:      r.W / 2,
		Fill:        util.HexString(imagepkg.GenericBadge),
		Stroke:      fallbackDiscStroke,
		StrokeWidth: 1,
	}
}

// composeArt places the artwork at its offset and scale inside the art box.
// Rotation is not applied.
func composeArt(s *Scene, p *Prepared) {
	if p.Artwork == nil {
		return
	}
	pos := p.Card.ArtworkPosition
	size := p.Artwork.Bounds().Size()
	clip := layout.ArtBox
	s.Add(Op{
		Kind: OpImage,
		Tag:  TagArt,
		Rect: layout.Rect{
			X: layout.ArtBox.X + pos.X,
			Y: layout.ArtBox.Y + pos.Y,
			W: float64(size.X) * pos.Scale,
			H: float64(size.Y) * pos.Scale,
		},
		Clip:   &clip,
		Image:  p.Artwork,
		Source: "artwork:" + p.Card.ArtworkImageID,
	})
}

func (e *Engine) composeType(s *Scene, p *Prepared, pal frame.Palette) {
	box := layout.TypeText
	line, placeholder := p.Card.FullTypeLine(), false
	if strings.TrimSpace(line) == "" {
		line, placeholder = placeholderType, true
	}
	r := box.Rect
	r.W -= layout.RaritySymbol.W + layout.TypeRarityGap
	s.Add(Op{
		Kind:     OpText,
		Tag:      TagType,
		Rect:     r,
		Text:     text.Ellipsize(line, r.W, fonts.Title, box.FontSize, e.Fonts),
		Role:     fonts.Title,
		Size:     box.FontSize,
		Baseline: e.middleBaseline(r, fonts.Title, box.FontSize),
		Fill:     textFill(pal, placeholder),
	})
}

func composeRarity(s *Scene, r cards.Rarity) {
	fill, ok := rarityColors[r]
	if !ok {
		fill = defaultRarityColor
	}
	s.Add(Op{Kind: OpRect, Tag: TagRarity, Rect: layout.RaritySymbol.Rect, Radius: layout.RaritySymbol.Radius, Fill: fill})
}

// composeText draws rules text, shrunk to fit, then the flavor text.
// With flavor text present the rules stop above the separator.
func (e *Engine) composeText(s *Scene, p *Prepared) {
	flavor := strings.TrimSpace(p.Card.FlavorText)
	hasRules := len(p.Segments) > 0

	if hasRules {
		box := layout.RulesText.Rect
		if flavor != "" {
			box.H = layout.FlavorSeparatorY - box.Y - 10
		}
		blk := text.Fit(p.Segments, box, text.Style{
			Size:       layout.RulesText.FontSize,
			LineHeight: layout.RulesLineHeight,
			Role:       fonts.Body,
		}, layout.RulesMinFontSize, e.Fonts)
		if blk.Overflow {
			e.Log.Debug("rules text overflows at minimum size", "card", p.Card.ID, "lines", blk.Lines)
		}
		e.addBlock(s, p, blk, rulesInk, TagRules)
	}

	if flavor == "" {
		return
	}
	if hasRules {
		mid := layout.Width / 2.0
		s.Add(Op{
			Kind:        OpLine,
			Tag:         TagFlavorSeparator,
			Rect:        layout.Rect{X: mid - layout.FlavorSeparatorHalf, Y: layout.FlavorSeparatorY, W: 2 * layout.FlavorSeparatorHalf},
			Stroke:      separatorInk,
			StrokeWidth: 0.5,
		})
	}
	box := layout.FlavorText.Rect
	box.Y = layout.FlavorYWithoutRules
	if hasRules {
		box.Y = layout.FlavorYWithRules
	}
	segs := text.Split(flavor)
	for i := range segs {
		if segs[i].Kind == text.KindText {
			segs[i].Kind = text.KindItalic
		}
	}
	blk := text.Layout(segs, box, text.Style{
		Size:       layout.FlavorText.FontSize,
		LineHeight: layout.FlavorLineHeight,
		Role:       fonts.Italic,
	}, e.Fonts)
	e.addBlock(s, p, blk, flavorInk, TagFlavor)
}

func (e *Engine) addBlock(s *Scene, p *Prepared, blk text.Block, ink string, tag Tag) {
	for _, run := range blk.Runs {
		r := layout.Rect{X: run.X, Y: run.Y - run.H, W: run.W, H: run.H}
		if run.Kind == text.RunSymbol {
			r = layout.Rect{X: run.X, Y: run.Y, W: run.W, H: run.H}
			s.Add(badgeOp(p, mana.ParseSymbol(run.Text), r, TagRulesMana, TagRulesManaFallback))
			continue
		}
		s.Add(Op{
			Kind:     OpText,
			Tag:      tag,
			Rect:     r,
			Text:     run.Text,
			Role:     run.Role,
			Size:     blk.Size,
			Baseline: run.Y,
			Fill:     ink,
		})
	}
}

// composePT draws the P/T box when the card has power/toughness or
// loyalty; loyalty is shown only when there is no P/T.
func (e *Engine) composePT(s *Scene, p *Prepared, pal frame.Palette) {
	if !p.Card.HasPT() && p.Card.Loyalty == nil {
		return
	}
	value := p.Card.PTText()
	if value == "" {
		value = *p.Card.Loyalty
	}
	box := layout.PTBox
	if p.PTImage != nil {
		s.Add(Op{Kind: OpImage, Tag: TagPT, Rect: box.Rect, Image: p.PTImage, Source: "pt:" + string(p.Frame.PTKey())})
	} else {
		s.Add(Op{
			Kind:        OpRect,
			Tag:         TagPTFallback,
			Rect:        box.Rect,
			Radius:      box.Radius,
			Fill:        util.HexString(pal.Primary),
			Stroke:      util.HexString(pal.Secondary),
			StrokeWidth: 1.5,
		})
	}
	s.Add(Op{
		Kind:     OpText,
		Tag:      TagPTText,
		Rect:     box.Text,
		Text:     value,
		Role:     fonts.PT,
		Size:     box.FontSize,
		Baseline: e.middleBaseline(box.Text, fonts.PT, box.FontSize),
		Align:    AlignCenter,
		Fill:     util.HexString(pal.Text),
	})
}

// InfoLine is the collector bar text: "CMC: 3 • Rare", or just the rarity
// for free cards.
func InfoLine(c cards.Card) string {
	rarity := c.Rarity.Title()
	cmc := mana.CMC(c.ManaCost)
	if cmc <= 0 {
		return rarity
	}
	if rarity == "" {
		return fmt.Sprintf("CMC: %d", cmc)
	}
	return fmt.Sprintf("CMC: %d • %s", cmc, rarity)
}

func (e *Engine) composeInfo(s *Scene, c cards.Card) {
	box := layout.InfoBar
	s.Add(Op{
		Kind:     OpText,
		Tag:      TagInfo,
		Rect:     box.Rect,
		Text:     InfoLine(c),
		Role:     fonts.Info,
		Size:     box.FontSize,
		Baseline: box.Y + e.Fonts.Ascent(fonts.Info, box.FontSize),
		Fill:     infoInk,
		Opacity:  infoOpacity,
	})
}
