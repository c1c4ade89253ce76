package cards

import (
	"strings"

	"github.com/youruser/cardforge/internal/frame"
	"github.com/youruser/cardforge/internal/mana"
)

type Rarity string

const (
	Common   Rarity = "common"
	Uncommon Rarity = "uncommon"
	Rare     Rarity = "rare"
	Mythic   Rarity = "mythic"
)

// Title returns the rarity capitalized for display ("Mythic").
func (r Rarity) Title() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

// ArtPosition places artwork inside the art box. Rotation is stored but not
// applied by the renderer.
type ArtPosition struct {
	X        float64 `json:"x" toml:"x"`
	Y        float64 `json:"y" toml:"y"`
	Scale    float64 `json:"scale" toml:"scale"`
	Rotation float64 `json:"rotation" toml:"rotation"`
}

type Card struct {
	ID              string            `json:"id" toml:"id"`
	SetID           string            `json:"setId" toml:"set_id"`
	Name            string            `json:"name" toml:"name"`
	ManaCost        string            `json:"manaCost" toml:"mana_cost"`
	Colors          []mana.Color      `json:"colors" toml:"colors"`
	ColorIdentity   []mana.Color      `json:"colorIdentity" toml:"color_identity"`
	TypeLine        string            `json:"typeLine" toml:"type_line"`
	SubtypeLine     string            `json:"subtypeLine" toml:"subtype_line"`
	Supertypes      []string          `json:"supertypes" toml:"supertypes"`
	Types           []string          `json:"types" toml:"types"`
	Subtypes        []string          `json:"subtypes" toml:"subtypes"`
	RulesText       string            `json:"rulesText" toml:"rules_text"`
	FlavorText      string            `json:"flavorText" toml:"flavor_text"`
	Power           *string           `json:"power" toml:"power"`
	Toughness       *string           `json:"toughness" toml:"toughness"`
	Loyalty         *string           `json:"loyalty" toml:"loyalty"`
	Rarity          Rarity            `json:"rarity" toml:"rarity"`
	Artist          string            `json:"artist" toml:"artist"`
	CollectorNumber string            `json:"collectorNumber" toml:"collector_number"`
	ArtworkImageID  string            `json:"artworkImageId" toml:"artwork_image_id"`
	ArtworkPosition ArtPosition       `json:"artworkPosition" toml:"artwork_position"`
	TemplateID      string            `json:"templateId" toml:"template_id"`
	FrameOverride   string            `json:"frameOverride" toml:"frame_override"`
	CustomFields    map[string]string `json:"customFields,omitempty" toml:"custom_fields"`
	CMC             int               `json:"cmc" toml:"cmc"`
	SortOrder       int               `json:"sortOrder" toml:"sort_order"`
}

// Derived returns a copy of c with Colors, ColorIdentity and CMC recomputed
// from the mana cost and rules text. Stored values may be stale, so the
// renderer always works from a derived copy.
func (c Card) Derived() Card {
	c.Colors = mana.DeriveColors(c.ManaCost)
	c.ColorIdentity = mana.DeriveColorIdentity(c.ManaCost, c.RulesText)
	c.CMC = mana.CMC(c.ManaCost)
	if c.ArtworkPosition.Scale <= 0 {
		c.ArtworkPosition.Scale = 1
	}
	return c
}

// TypeList is Types when set, otherwise the words of TypeLine.
func (c Card) TypeList() []string {
	if len(c.Types) > 0 {
		return c.Types
	}
	return strings.Fields(c.TypeLine)
}

// FullTypeLine joins the type and subtype lines with an em dash.
func (c Card) FullTypeLine() string {
	if c.SubtypeLine == "" {
		return c.TypeLine
	}
	return c.TypeLine + " — " + c.SubtypeLine
}

func (c Card) HasPT() bool {
	return c.Power != nil || c.Toughness != nil
}

// PTText formats power/toughness, substituting "0" for a missing side.
func (c Card) PTText() string {
	if !c.HasPT() {
		return ""
	}
	return deref(c.Power, "0") + "/" + deref(c.Toughness, "0")
}

func deref(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

// Frame selects the card's frame key, honoring a valid FrameOverride.
func (c Card) Frame() frame.Key {
	if k := frame.Key(c.FrameOverride); k.Valid() {
		return k
	}
	return frame.Select(mana.DeriveColors(c.ManaCost), c.TypeList())
}

type Set struct {
	ID          string `json:"id" toml:"id"`
	Name        string `json:"name" toml:"name"`
	Code        string `json:"code" toml:"code"`
	Designer    string `json:"designer" toml:"designer"`
	Copyright   string `json:"copyright" toml:"copyright"`
	Description string `json:"description" toml:"description"`
}

// Parameter is a placeholder inside a keyword's reminder text, such as
// "{cost}" for Ward or "{number}" for Scry.
type Parameter struct {
	Name        string `json:"name" yaml:"name" toml:"name"`
	Placeholder string `json:"placeholder" yaml:"placeholder" toml:"placeholder"`
	Type        string `json:"type" yaml:"type" toml:"type"`
}

type Keyword struct {
	ID           string      `json:"id" yaml:"id" toml:"id"`
	SetID        string      `json:"setId,omitempty" yaml:"set_id,omitempty" toml:"set_id"`
	Name         string      `json:"name" yaml:"name" toml:"name"`
	Match        string      `json:"match" yaml:"match" toml:"match"`
	ReminderText string      `json:"reminderText" yaml:"reminder_text" toml:"reminder_text"`
	Parameters   []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty" toml:"parameters"`
	IsEvergreen  bool        `json:"isEvergreen" yaml:"evergreen" toml:"evergreen"`
	IsCustom     bool        `json:"isCustom" yaml:"custom" toml:"custom"`
}

func Ptr(s string) *string { return &s }
