package api

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/cardforge/internal/assets"
	"github.com/youruser/cardforge/internal/cards"
	"github.com/youruser/cardforge/internal/fonts"
	"github.com/youruser/cardforge/internal/layout"
	"github.com/youruser/cardforge/internal/render"
	"github.com/youruser/cardforge/internal/store"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := store.NewMemory()
	m.PutSet(cards.Set{ID: "dom", Name: "Dominion", Code: "DOM"})
	m.PutCard(cards.Card{ID: "squire", SetID: "dom", Name: "Zealous Squire", ManaCost: "{1}{W}", TypeLine: "Creature",
		Power: cards.Ptr("2"), Toughness: cards.Ptr("1"), Rarity: cards.Common, SortOrder: 1})
	m.PutCard(cards.Card{ID: "drake", SetID: "dom", Name: "Azure Drake", ManaCost: "{3}{U}", TypeLine: "Creature",
		RulesText: "Flying", Rarity: cards.Uncommon, SortOrder: 2})
	m.PutCard(cards.Card{ID: "ghost", SetID: "dom", Name: "Ghost Art", TypeLine: "Artifact",
		ArtworkImageID: "gone", SortOrder: 3})

	e := render.NewEngine(assets.New(fstest.MapFS{}, nil), fonts.Default(), nil)
	r := gin.New()
	RegisterRoutes(r, NewHandler(m, e, nil))
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealth(t *testing.T) {
	w := do(newRouter(t), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSetCards_Filter(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodGet, "/api/sets/dom/cards", "")
	require.Equal(t, http.StatusOK, w.Code)
	var all struct {
		Count int          `json:"count"`
		Cards []cards.Card `json:"cards"`
	}
	decode(t, w, &all)
	assert.Equal(t, 3, all.Count)
	assert.Equal(t, "squire", all.Cards[0].ID)

	w = do(r, http.MethodGet, "/api/sets/dom/cards?colors=u&q=flying", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &all)
	require.Equal(t, 1, all.Count)
	assert.Equal(t, "drake", all.Cards[0].ID)

	w = do(r, http.MethodGet, "/api/sets/dom/cards?colors=purple", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/sets/nope/cards", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFilterBody(t *testing.T) {
	w := do(newRouter(t), http.MethodPost, "/api/sets/dom/filter", `{"cmcs":[2]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Count int `json:"count"`
	}
	decode(t, w, &got)
	assert.Equal(t, 1, got.Count)
}

func TestNumbers(t *testing.T) {
	w := do(newRouter(t), http.MethodGet, "/api/sets/dom/numbers", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]string
	decode(t, w, &got)
	assert.Equal(t, map[string]string{"squire": "1/3", "drake": "2/3", "ghost": "3/3"}, got)
}

func TestCard(t *testing.T) {
	r := newRouter(t)
	w := do(r, http.MethodGet, "/api/cards/drake", "")
	require.Equal(t, http.StatusOK, w.Code)
	var c cards.Card
	decode(t, w, &c)
	assert.Equal(t, 4, c.CMC)

	w = do(r, http.MethodGet, "/api/cards/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not found")
}

func TestScene(t *testing.T) {
	w := do(newRouter(t), http.MethodGet, "/api/cards/squire/scene", "")
	require.Equal(t, http.StatusOK, w.Code)
	var s struct {
		Width float64 `json:"width"`
		Ops   []struct {
			Tag string `json:"tag"`
		} `json:"ops"`
	}
	decode(t, w, &s)
	assert.Equal(t, float64(layout.Width), s.Width)
	var tags []string
	for _, op := range s.Ops {
		tags = append(tags, op.Tag)
	}
	assert.Contains(t, tags, string(render.TagFrameFallback))
	assert.Contains(t, tags, string(render.TagName))
}

func TestPreviewPNG(t *testing.T) {
	r := newRouter(t)
	w := do(r, http.MethodGet, "/api/cards/squire/preview.png?ratio=0.5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	img, err := imaging.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(layout.Width/2, layout.Height/2), img.Bounds().Size())

	w = do(r, http.MethodGet, "/api/cards/squire/preview.png?ratio=9", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/cards/ghost/preview.png", "")
	assert.Equal(t, http.StatusNotFound, w.Code, "missing artwork is a missing record")
}

func TestPreviewSVG(t *testing.T) {
	w := do(newRouter(t), http.MethodGet, "/api/cards/squire/preview.svg", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(w.Body.String()), "<svg") ||
		strings.HasPrefix(strings.TrimSpace(w.Body.String()), "<?xml"))
	assert.Contains(t, w.Body.String(), "Zealous Squire")
}

func TestExportPNG(t *testing.T) {
	r := newRouter(t)
	w := do(r, http.MethodGet, "/api/cards/squire/export.png?dpi=600", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "squire-600.png")
	img, err := imaging.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(2*layout.Width, 2*layout.Height), img.Bounds().Size())

	w = do(r, http.MethodGet, "/api/cards/squire/export.png?dpi=72", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportZip(t *testing.T) {
	w := do(newRouter(t), http.MethodGet, "/api/sets/dom/export.zip", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-Skipped-Cards"))

	zr, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len()))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"001_Zealous_Squire.png", "002_Azure_Drake.png", "manifest.json"}, names)
}

func TestExportJSONAndChecklist(t *testing.T) {
	r := newRouter(t)
	w := do(r, http.MethodGet, "/api/sets/dom/export.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	var doc struct {
		Format string `json:"format"`
		Cards  []struct {
			Name string `json:"name"`
			CMC  int    `json:"cmc"`
		} `json:"cards"`
	}
	decode(t, w, &doc)
	assert.Equal(t, "cardforge", doc.Format)
	require.Len(t, doc.Cards, 3)
	assert.Equal(t, 2, doc.Cards[0].CMC)

	w = do(r, http.MethodGet, "/api/sets/dom/checklist.txt", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "# Dominion (DOM)\n"))
}

func TestProof(t *testing.T) {
	w := do(newRouter(t), http.MethodGet, "/api/sets/dom/proof.png", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-Skipped-Cards"))
	_, err := imaging.Decode(bytes.NewReader(w.Body.Bytes()))
	assert.NoError(t, err)
}

func TestQR(t *testing.T) {
	r := newRouter(t)
	w := do(r, http.MethodGet, "/api/qr?text=set:DOM&size=128", "")
	require.Equal(t, http.StatusOK, w.Code)
	img, err := imaging.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/qr", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/qr?text=x&size=big", "").Code)
}

func TestManaParse(t *testing.T) {
	r := newRouter(t)
	w := do(r, http.MethodPost, "/api/mana/parse", `{"cost":"{2}{W}{U}","rules":"{B}: Regenerate.","types":["Creature"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Symbols  []map[string]any `json:"symbols"`
		CMC      int              `json:"cmc"`
		Colors   []string         `json:"colors"`
		Identity []string         `json:"identity"`
		Frame    string           `json:"frame"`
	}
	decode(t, w, &got)
	assert.Len(t, got.Symbols, 3)
	assert.Equal(t, 4, got.CMC)
	assert.Equal(t, []string{"W", "U"}, got.Colors)
	assert.Equal(t, []string{"W", "U", "B"}, got.Identity)
	assert.Equal(t, "white-blue", got.Frame)

	w = do(r, http.MethodPost, "/api/mana/parse", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
