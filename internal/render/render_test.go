package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/cardforge/internal/assets"
	"github.com/youruser/cardforge/internal/cards"
	"github.com/youruser/cardforge/internal/fonts"
	"github.com/youruser/cardforge/internal/keywords"
	"github.com/youruser/cardforge/internal/layout"
	"github.com/youruser/cardforge/internal/util"
)

var (
	whiteFrame = color.NRGBA{R: 0xf0, G: 0xe8, B: 0xc0, A: 0xff}
	blueFrame  = color.NRGBA{R: 0x10, G: 0x60, B: 0xa0, A: 0xff}
	ptColor    = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

const glyph = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect x="2" y="2" width="6" height="6" fill="#ffffff"/></svg>`

func solidPNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// catalog holds small stand-ins for the frame, P/T, mask and glyph assets.
func catalog(t *testing.T) fstest.MapFS {
	t.Helper()
	fsys := fstest.MapFS{
		"frames/m15FrameW.png":    {Data: solidPNG(t, 75, 105, whiteFrame)},
		"frames/m15FrameU.png":    {Data: solidPNG(t, 75, 105, blueFrame)},
		"pt/m15PTW.png":           {Data: solidPNG(t, 14, 8, ptColor)},
		"masks/maskRightHalf.png": {Data: solidPNG(t, 75, 105, color.NRGBA{A: 0xff})},
	}
	for _, k := range []string{"1", "w", "u", "g", "t"} {
		fsys["mana-symbols/"+k+".svg"] = &fstest.MapFile{Data: []byte(glyph)}
	}
	return fsys
}

func newEngine(fsys fstest.MapFS) *Engine {
	return NewEngine(assets.New(fsys, nil), fonts.Default(), nil)
}

func knight() cards.Card {
	return cards.Card{
		ID:        "c1",
		SetID:     "s1",
		Name:      "Valiant Knight",
		ManaCost:  "{1}{W}{W}",
		TypeLine:  "Creature",
		Types:     []string{"Creature"},
		RulesText: "First strike",
		Power:     cards.Ptr("3"),
		Toughness: cards.Ptr("2"),
		Rarity:    cards.Uncommon,
	}
}

func nrgba(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func assertNear(t *testing.T, want, got color.NRGBA, tol int) {
	t.Helper()
	diff := func(a, b uint8) int {
		d := int(a) - int(b)
		if d < 0 {
			return -d
		}
		return d
	}
	assert.True(t, diff(want.R, got.R) <= tol && diff(want.G, got.G) <= tol && diff(want.B, got.B) <= tol && diff(want.A, got.A) <= tol,
		"want %v got %v", want, got)
}

func TestRender_RatioScalesExactly(t *testing.T) {
	e := newEngine(catalog(t))
	ctx := context.Background()

	one, err := e.Render(ctx, knight(), nil, nil, 1)
	require.NoError(t, err)
	two, err := e.Render(ctx, knight(), nil, nil, 2)
	require.NoError(t, err)

	assert.Equal(t, image.Pt(layout.Width, layout.Height), one.Bounds().Size())
	assert.Equal(t, image.Pt(2*layout.Width, 2*layout.Height), two.Bounds().Size())

	// The left border shows the white frame at both ratios.
	assertNear(t, whiteFrame, nrgba(one, 10, 500), 2)
	assertNear(t, whiteFrame, nrgba(two, 20, 1000), 2)
	assertNear(t, nrgba(one, 10, 500), nrgba(two, 20, 1000), 2)
}

func TestScene_Layers(t *testing.T) {
	e := newEngine(catalog(t))
	s, err := e.Scene(context.Background(), knight(), nil, nil)
	require.NoError(t, err)

	require.NotEmpty(t, s.Ops)
	assert.Equal(t, TagFrame, s.Ops[0].Tag)
	assert.Equal(t, "frame:white", s.Ops[0].Source)
	assert.Len(t, s.Tagged(TagMana), 3)
	assert.True(t, s.Has(TagPT))
	assert.True(t, s.Has(TagRarity))
	assert.False(t, s.Has(TagFrameFallback))
	assert.False(t, s.Has(TagManaFallback))
	assert.False(t, s.Has(TagArt))

	pt := s.Tagged(TagPTText)
	require.Len(t, pt, 1)
	assert.Equal(t, "3/2", pt[0].Text)
	assert.Equal(t, AlignCenter, pt[0].Align)

	info := s.Tagged(TagInfo)
	require.Len(t, info, 1)
	assert.Equal(t, "CMC: 3 • Uncommon", info[0].Text)
	assert.Equal(t, TagInfo, s.Ops[len(s.Ops)-1].Tag)

	// Equal symbols share one badge.
	mana := s.Tagged(TagMana)
	assert.Same(t, mana[1].Image, mana[2].Image)
	assert.NotSame(t, mana[0].Image, mana[1].Image)
}

func TestScene_FallbacksAreTagged(t *testing.T) {
	e := newEngine(fstest.MapFS{})
	s, err := e.Scene(context.Background(), knight(), nil, nil)
	require.NoError(t, err)

	assert.False(t, s.Has(TagFrame))
	fb := s.Tagged(TagFrameFallback)
	require.Len(t, fb, 2)
	assert.Equal(t, "#111111", fb[0].Fill)
	assert.Len(t, s.Tagged(TagManaFallback), 3)
	assert.True(t, s.Has(TagPTFallback))
	assert.False(t, s.Has(TagPT))

	img := Rasterize(s, 1, e.Fonts)
	assertNear(t, color.NRGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}, nrgba(img, 1, 500), 2)
	assertNear(t, util.Hex("#f8f6d8"), nrgba(img, 10, 500), 2)
}

func TestScene_DualFrame(t *testing.T) {
	e := newEngine(catalog(t))
	c := knight()
	c.ManaCost = "{U}{W}"
	s, err := e.Scene(context.Background(), c, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "frame:white-blue", s.Ops[0].Source)
	// Dual frames use the gold P/T box, which the catalog lacks.
	assert.True(t, s.Has(TagPTFallback))
}

func TestScene_Placeholders(t *testing.T) {
	e := newEngine(catalog(t))
	s, err := e.Scene(context.Background(), cards.Card{ID: "blank"}, nil, nil)
	require.NoError(t, err)

	name := s.Tagged(TagName)
	require.Len(t, name, 1)
	assert.Equal(t, "Untitled", name[0].Text)
	assert.True(t, strings.HasSuffix(name[0].Fill, "66"), name[0].Fill)

	typ := s.Tagged(TagType)
	require.Len(t, typ, 1)
	assert.Equal(t, "Card Type", typ[0].Text)

	assert.False(t, s.Has(TagRules))
	assert.False(t, s.Has(TagPTText))
	assert.Equal(t, "", s.Tagged(TagInfo)[0].Text)
	// The catalog has no colorless frame.
	assert.Equal(t, TagFrameFallback, s.Ops[0].Tag)
}

func TestScene_LongNameIsEllipsized(t *testing.T) {
	e := newEngine(catalog(t))
	c := knight()
	c.Name = strings.Repeat("Extraordinarily ", 6) + "Long"
	s, err := e.Scene(context.Background(), c, nil, nil)
	require.NoError(t, err)

	name := s.Tagged(TagName)[0]
	assert.True(t, strings.HasSuffix(name.Text, "…"))
	assert.LessOrEqual(t, e.Fonts.Advance(fonts.Title, name.Size, name.Text), name.Rect.W)
}

func TestScene_RulesSymbolsAndReminders(t *testing.T) {
	e := newEngine(catalog(t))
	e.ExpandReminders = true
	c := knight()
	c.RulesText = "Flying\n{T}: Add {G}."
	s, err := e.Scene(context.Background(), c, nil, keywords.Default())
	require.NoError(t, err)

	assert.Len(t, s.Tagged(TagRulesMana), 2)
	var italic bool
	for _, op := range s.Tagged(TagRules) {
		if op.Role == fonts.Italic {
			italic = true
		}
		assert.GreaterOrEqual(t, op.Rect.X, layout.RulesText.X)
	}
	assert.True(t, italic, "reminder text is set in italics")
}

func TestScene_RulesShrinkToFit(t *testing.T) {
	e := newEngine(catalog(t))
	c := knight()
	c.RulesText = strings.Repeat("Whenever another creature enters the battlefield under your control, draw a card. ", 8)
	s, err := e.Scene(context.Background(), c, nil, nil)
	require.NoError(t, err)

	rules := s.Tagged(TagRules)
	require.NotEmpty(t, rules)
	assert.Less(t, rules[0].Size, layout.RulesText.FontSize)
	assert.GreaterOrEqual(t, rules[0].Size, float64(layout.RulesMinFontSize))
}

func TestScene_FlavorAndLoyalty(t *testing.T) {
	e := newEngine(catalog(t))
	c := cards.Card{
		ID:          "pw",
		Name:        "Sera",
		ManaCost:    "{W}",
		TypeLine:    "Planeswalker",
		SubtypeLine: "Sera",
		RulesText:   "+1: Gain 2 life.",
		FlavorText:  "Wings over the plains.",
		Loyalty:     cards.Ptr("4"),
		Rarity:      cards.Mythic,
	}
	s, err := e.Scene(context.Background(), c, nil, nil)
	require.NoError(t, err)

	assert.True(t, s.Has(TagFlavorSeparator))
	flavor := s.Tagged(TagFlavor)
	require.NotEmpty(t, flavor)
	assert.Equal(t, fonts.Italic, flavor[0].Role)
	assert.Equal(t, "#444444", flavor[0].Fill)

	pt := s.Tagged(TagPTText)
	require.Len(t, pt, 1)
	assert.Equal(t, "4", pt[0].Text)
	assert.Equal(t, "#dd4444", s.Tagged(TagRarity)[0].Fill)
	assert.Equal(t, "Planeswalker — Sera", s.Tagged(TagType)[0].Text)
}

func TestScene_Artwork(t *testing.T) {
	e := newEngine(catalog(t))
	c := knight()
	c.ArtworkImageID = "art1"
	c.ArtworkPosition = cards.ArtPosition{X: -10, Y: 5, Scale: 2, Rotation: 45}
	art := image.NewNRGBA(image.Rect(0, 0, 400, 300))

	s, err := e.Scene(context.Background(), c, art, nil)
	require.NoError(t, err)
	ops := s.Tagged(TagArt)
	require.Len(t, ops, 1)
	assert.Equal(t, layout.Rect{X: 47, Y: 124, W: 800, H: 600}, ops[0].Rect)
	require.NotNil(t, ops[0].Clip)
	assert.Equal(t, layout.ArtBox, *ops[0].Clip)
}

func TestRaster_ClipsArtwork(t *testing.T) {
	e := newEngine(catalog(t))
	c := knight()
	c.ArtworkImageID = "art1"
	red := color.NRGBA{R: 0xff, A: 0xff}
	art := image.NewNRGBA(image.Rect(0, 0, 2000, 2000))
	for i := 0; i < len(art.Pix); i += 4 {
		art.Pix[i], art.Pix[i+3] = 0xff, 0xff
	}
	c.ArtworkPosition = cards.ArtPosition{X: -500, Y: -100, Scale: 1}

	img, err := e.Render(context.Background(), c, art, nil, 1)
	require.NoError(t, err)
	assertNear(t, red, nrgba(img, 300, 300), 2)
	assertNear(t, whiteFrame, nrgba(img, 30, 300), 2)
}

func TestScene_JSON(t *testing.T) {
	e := newEngine(catalog(t))
	s, err := e.Scene(context.Background(), knight(), nil, nil)
	require.NoError(t, err)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"tag":"frame"`)
	assert.Contains(t, out, `"role":"title"`)
	assert.Contains(t, out, `"width":750`)
	assert.NotContains(t, out, "Pix")
}

func TestWriteSVG(t *testing.T) {
	e := newEngine(catalog(t))
	s, err := e.Scene(context.Background(), knight(), nil, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, s))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" width="750" height="1050"`))
	assert.Contains(t, out, `data-tag="frame"`)
	assert.Contains(t, out, `>Valiant Knight</text>`)
	assert.Contains(t, out, `text-anchor="middle"`)
	// frame, {1}, {W} and the P/T box are embedded once each.
	assert.Equal(t, 4, strings.Count(out, "data:image/png;base64,"))
	assert.Equal(t, 5, strings.Count(out, "<use "))
	mana := svgImageRefs(out, "mana")
	require.Len(t, mana, 3)
	assert.NotEqual(t, mana[0], mana[1])
	assert.Equal(t, mana[1], mana[2])
}

// svgImageRefs lists the image ids referenced by <use> elements tagged tag.
func svgImageRefs(out, tag string) []string {
	var ids []string
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "<use ") || !strings.Contains(line, `data-tag="`+tag+`"`) {
			continue
		}
		_, rest, _ := strings.Cut(line, `href="#`)
		id, _, _ := strings.Cut(rest, `"`)
		ids = append(ids, id)
	}
	return ids
}

func TestInfoLine(t *testing.T) {
	assert.Equal(t, "Rare", InfoLine(cards.Card{Rarity: cards.Rare}))
	assert.Equal(t, "CMC: 5 • Common", InfoLine(cards.Card{ManaCost: "{3}{G}{G}", Rarity: cards.Common}))
	assert.Equal(t, "CMC: 1", InfoLine(cards.Card{ManaCost: "{R}"}))
}

// memSource is an in-memory Source.
type memSource struct {
	cards map[string]cards.Card
	art   map[string][]byte
}

var errMissing = errors.New("missing")

func (m memSource) Card(_ context.Context, id string) (cards.Card, error) {
	c, ok := m.cards[id]
	if !ok {
		return cards.Card{}, errMissing
	}
	return c, nil
}

func (m memSource) Artwork(_ context.Context, id string) ([]byte, error) {
	b, ok := m.art[id]
	if !ok {
		return nil, errMissing
	}
	return b, nil
}

func (m memSource) Keywords(context.Context, string) ([]cards.Keyword, error) {
	return keywords.Default(), nil
}

func TestJob_States(t *testing.T) {
	e := newEngine(catalog(t))
	src := memSource{cards: map[string]cards.Card{"c1": knight()}}
	job := e.NewJob(src, "c1", 2)
	assert.Equal(t, Idle, job.State())

	var states []State
	job.OnState = func(s State) { states = append(states, s) }
	img, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []State{Preparing, Composing, Rasterizing, Done}, states)
	assert.Equal(t, Done, job.State())
	assert.Equal(t, 1500, img.Bounds().Dx())
	assert.NotNil(t, job.Scene())

	_, err = job.Run(context.Background())
	assert.ErrorIs(t, err, ErrJobStarted)
}

func TestJob_MissingCardFails(t *testing.T) {
	e := newEngine(catalog(t))
	job := e.NewJob(memSource{}, "nope", 1)
	img, err := job.Run(context.Background())
	assert.Nil(t, img)
	assert.ErrorIs(t, err, errMissing)
	assert.Equal(t, Failed, job.State())
	assert.ErrorIs(t, job.Err(), errMissing)
	assert.Nil(t, job.Scene())
}

func TestJob_MissingArtworkFails(t *testing.T) {
	e := newEngine(catalog(t))
	c := knight()
	c.ArtworkImageID = "gone"
	job := e.NewJob(memSource{cards: map[string]cards.Card{"c1": c}}, "c1", 1)
	_, err := job.Run(context.Background())
	assert.ErrorIs(t, err, errMissing)
	assert.Equal(t, Failed, job.State())
}

func TestJob_MissingAssetsStillFinish(t *testing.T) {
	e := newEngine(fstest.MapFS{})
	job := e.NewJob(memSource{cards: map[string]cards.Card{"c1": knight()}}, "c1", 1)
	_, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Done, job.State())
	assert.True(t, job.Scene().Has(TagFrameFallback))
}

func TestJob_Cancelled(t *testing.T) {
	e := newEngine(catalog(t))
	job := e.NewJob(memSource{cards: map[string]cards.Card{"c1": knight()}}, "c1", 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := job.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Failed, job.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "rasterizing", Rasterizing.String())
	assert.Equal(t, "state(9)", State(9).String())
}
