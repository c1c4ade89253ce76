package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/youruser/cardforge/internal/cards"
	"github.com/youruser/cardforge/internal/export"
	"github.com/youruser/cardforge/internal/frame"
	imagepkg "github.com/youruser/cardforge/internal/image"
	"github.com/youruser/cardforge/internal/mana"
	"github.com/youruser/cardforge/internal/render"
	"github.com/youruser/cardforge/internal/store"
)

// Handler serves card data, previews and exports.
type Handler struct {
	Store      store.Store
	Engine     *render.Engine
	Export     *export.Exporter
	Log        *slog.Logger
	DefaultDPI export.DPI
}

func NewHandler(s store.Store, e *render.Engine, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		Store:      s,
		Engine:     e,
		Export:     export.New(e, s, log),
		Log:        log,
		DefaultDPI: export.DPI300,
	}
}

// fail maps err to a status: missing records are 404, everything else 500.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, context.Canceled):
		// client went away
		c.Abort()
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) sets(c *gin.Context) {
	ss, err := h.Store.Sets(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(ss), "sets": ss})
}

// filterFromQuery reads ?colors=W,U&types=creature&rarities=rare&cmc=2,3&q=words&colorless=1.
func filterFromQuery(c *gin.Context) (cards.FilterOptions, error) {
	var opt cards.FilterOptions
	for _, s := range splitList(c.Query("colors")) {
		col, ok := mana.ParseColor(s)
		if !ok {
			return opt, fmt.Errorf("unknown color %q", s)
		}
		opt.Colors = append(opt.Colors, col)
	}
	opt.Types = splitList(c.Query("types"))
	for _, s := range splitList(c.Query("rarities")) {
		opt.Rarities = append(opt.Rarities, cards.Rarity(strings.ToLower(s)))
	}
	for _, s := range splitList(c.Query("cmc")) {
		v, err := strconv.Atoi(s)
		if err != nil {
			return opt, fmt.Errorf("bad cmc %q", s)
		}
		opt.CMCs = append(opt.CMCs, v)
	}
	opt.FreeWords = c.Query("q")
	opt.Colorless, _ = strconv.ParseBool(c.DefaultQuery("colorless", "false"))
	return opt, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (h *Handler) setCards(c *gin.Context) {
	opt, err := filterFromQuery(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	h.filtered(c, opt)
}

// filterHandler takes the filter options as a JSON body.
func (h *Handler) filterHandler(c *gin.Context) {
	var opt cards.FilterOptions
	if err := c.BindJSON(&opt); err != nil {
		badRequest(c, err)
		return
	}
	h.filtered(c, opt)
}

func (h *Handler) filtered(c *gin.Context, opt cards.FilterOptions) {
	all, err := h.Store.CardsInSet(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	out := cards.Filter(all, opt)
	c.JSON(http.StatusOK, gin.H{"count": len(out), "cards": out})
}

func (h *Handler) numbers(c *gin.Context) {
	all, err := h.Store.CardsInSet(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cards.AssignCollectorNumbers(all))
}

func (h *Handler) card(c *gin.Context) {
	card, err := h.Store.Card(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, card.Derived())
}

func (h *Handler) scene(c *gin.Context) {
	s, err := h.Engine.SceneFor(c.Request.Context(), h.Store, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// previewPNG renders at ?ratio= (default 1, at most 4).
func (h *Handler) previewPNG(c *gin.Context) {
	ratio, err := strconv.ParseFloat(c.DefaultQuery("ratio", "1"), 64)
	if err != nil || ratio <= 0 || ratio > 4 {
		badRequest(c, fmt.Errorf("ratio must be in (0, 4]"))
		return
	}
	img, err := h.Engine.NewJob(h.Store, c.Param("id"), ratio).Run(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	data, err := export.EncodePNG(img)
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

func (h *Handler) previewSVG(c *gin.Context) {
	s, err := h.Engine.SceneFor(c.Request.Context(), h.Store, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	var buf bytes.Buffer
	if err := render.WriteSVG(&buf, s); err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

func (h *Handler) dpi(c *gin.Context) (export.DPI, bool) {
	q := c.Query("dpi")
	if q == "" {
		return h.DefaultDPI, true
	}
	d, err := export.ParseDPI(q)
	if err != nil {
		badRequest(c, err)
		return 0, false
	}
	return d, true
}

func (h *Handler) exportPNG(c *gin.Context) {
	dpi, ok := h.dpi(c)
	if !ok {
		return
	}
	id := c.Param("id")
	data, err := h.Export.CardPNG(c.Request.Context(), id, dpi)
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-%d.png"`, id, dpi))
	c.Data(http.StatusOK, "image/png", data)
}

// exportZip buffers the archive so a failed batch can still report an
// error status. Skipped cards are counted in X-Skipped-Cards.
func (h *Handler) exportZip(c *gin.Context) {
	dpi, ok := h.dpi(c)
	if !ok {
		return
	}
	id := c.Param("id")
	var buf bytes.Buffer
	_, err := h.Export.SetZip(c.Request.Context(), &buf, id, dpi, nil)
	var be *export.BatchError
	if errors.As(err, &be) {
		c.Header("X-Skipped-Cards", strconv.Itoa(len(be.Skipped)))
	} else if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.zip"`, id))
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

func (h *Handler) exportJSON(c *gin.Context) {
	doc, err := h.Export.SetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) checklist(c *gin.Context) {
	text, err := h.Export.Checklist(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

func (h *Handler) proof(c *gin.Context) {
	img, err := h.Export.ProofSheet(c.Request.Context(), c.Param("id"), imagepkg.DefaultProofSheet(), nil)
	var be *export.BatchError
	if errors.As(err, &be) {
		c.Header("X-Skipped-Cards", strconv.Itoa(len(be.Skipped)))
	} else if err != nil {
		fail(c, err)
		return
	}
	data, err := export.EncodePNG(img)
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

// qrHandler returns a PNG of a QR code for the "text" query param.
func qrHandler(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		badRequest(c, errors.New("text is required"))
		return
	}
	size := 400
	if s := c.Query("size"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 21 || v > 2048 {
			badRequest(c, fmt.Errorf("bad size %q", s))
			return
		}
		size = v
	}
	b, err := imagepkg.GenerateQRPNG(text, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

type manaRequest struct {
	Cost  string   `json:"cost"`
	Rules string   `json:"rules"`
	Types []string `json:"types"`
}

type manaResponse struct {
	Symbols  []mana.Symbol `json:"symbols"`
	CMC      int           `json:"cmc"`
	Colors   []mana.Color  `json:"colors"`
	Identity []mana.Color  `json:"identity"`
	Frame    frame.Key     `json:"frame"`
}

func manaParse(c *gin.Context) {
	var req manaRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	colors := mana.DeriveColors(req.Cost)
	symbols := mana.Parse(req.Cost)
	if symbols == nil {
		symbols = []mana.Symbol{}
	}
	c.JSON(http.StatusOK, manaResponse{
		Symbols:  symbols,
		CMC:      mana.CMC(req.Cost),
		Colors:   colors,
		Identity: mana.DeriveColorIdentity(req.Cost, req.Rules),
		Frame:    frame.Select(colors, req.Types),
	})
}
