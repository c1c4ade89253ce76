// Package fonts loads the card typefaces and hands out sized faces. Each
// role falls back to an embedded Go font when no custom file is configured.
package fonts

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Role is the typographic job a face does on the card.
type Role int

const (
	Body Role = iota
	Italic
	Title
	PT
	Info
)

var roleNames = map[Role]string{Body: "body", Italic: "italic", Title: "title", PT: "pt", Info: "info"}

func (r Role) String() string { return roleNames[r] }

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	for role, name := range roleNames {
		if name == string(b) {
			*r = role
			return nil
		}
	}
	return fmt.Errorf("unknown font role %q", b)
}

// Family is the font-family name used when a role is written out as SVG.
func (r Role) Family() string {
	if r == Info {
		return "Go Medium, sans-serif"
	}
	return "Go, sans-serif"
}

// Weight and Style describe the role for vector backends.
func (r Role) Weight() string {
	if r == Title || r == PT {
		return "bold"
	}
	return "normal"
}

func (r Role) Style() string {
	if r == Italic {
		return "italic"
	}
	return "normal"
}

var embedded = map[Role][]byte{
	Body:   goregular.TTF,
	Italic: goitalic.TTF,
	Title:  gobold.TTF,
	PT:     gobold.TTF,
	Info:   gomedium.TTF,
}

type faceKey struct {
	role Role
	size float64
}

// Cache holds one parsed font per role and memoizes measurement faces.
// Faces from NewFace are owned by the caller; measurement goes through the
// cache's own faces under a lock, since opentype faces are not safe for
// concurrent use.
type Cache struct {
	mu    sync.Mutex
	fonts map[Role]*opentype.Font
	faces map[faceKey]font.Face
}

// New parses the font for every role. paths overrides roles with TTF/OTF
// files; unreadable or invalid overrides are logged and replaced by the
// embedded default.
func New(paths map[Role]string, log *slog.Logger) (*Cache, error) {
	if log == nil {
		log = slog.Default()
	}
	c := &Cache{fonts: make(map[Role]*opentype.Font), faces: make(map[faceKey]font.Face)}
	for role, data := range embedded {
		if p := paths[role]; p != "" {
			custom, err := loadFile(p)
			if err == nil {
				c.fonts[role] = custom
				continue
			}
			log.Warn("font unavailable, using default", "role", role, "path", p, "error", err)
		}
		parsed, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s font: %w", role, err)
		}
		c.fonts[role] = parsed
	}
	return c, nil
}

// Default returns a Cache backed only by the embedded fonts.
func Default() *Cache {
	c, err := New(nil, nil)
	if err != nil {
		panic(err)
	}
	return c
}

func loadFile(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return opentype.Parse(data)
}

// NewFace returns a new face for role at size pixels. Faces are unhinted so
// glyph advances scale linearly with size.
func (c *Cache) NewFace(role Role, size float64) font.Face {
	f, ok := c.fonts[role]
	if !ok {
		f = c.fonts[Body]
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

func (c *Cache) measureFace(role Role, size float64) font.Face {
	key := faceKey{role, size}
	face, ok := c.faces[key]
	if !ok {
		face = c.NewFace(role, size)
		c.faces[key] = face
	}
	return face
}

// Advance is the width of s set in role at size.
func (c *Cache) Advance(role Role, size float64, s string) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return toFloat(font.MeasureString(c.measureFace(role, size), s))
}

// Ascent and Descent are the face's vertical metrics at size.
func (c *Cache) Ascent(role Role, size float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return toFloat(c.measureFace(role, size).Metrics().Ascent)
}

func (c *Cache) Descent(role Role, size float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return toFloat(c.measureFace(role, size).Metrics().Descent)
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
