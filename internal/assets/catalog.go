// Package assets loads the card artwork catalog: frame and P/T box rasters,
// compositing masks and mana glyph vectors. Paths are stable and relative to
// the catalog root.
package assets

import (
	"path"
	"strings"

	"github.com/youruser/cardforge/internal/frame"
)

const (
	FramesDir = "frames"
	PTDir     = "pt"
	MasksDir  = "masks"
	GlyphDir  = "mana-symbols"

	MaskRightHalf = "maskRightHalf.png"
	MaskPinline   = "m15MaskPinline.png"
)

var frameFiles = map[frame.Key]string{
	frame.White:     "m15FrameW.png",
	frame.Blue:      "m15FrameU.png",
	frame.Black:     "m15FrameB.png",
	frame.Red:       "m15FrameR.png",
	frame.Green:     "m15FrameG.png",
	frame.Gold:      "m15FrameM.png",
	frame.Artifact:  "m15FrameA.png",
	frame.Colorless: "eldrazi.png",
	frame.Land:      "m15FrameL.png",
}

var ptFiles = map[frame.Key]string{
	frame.White:     "m15PTW.png",
	frame.Blue:      "m15PTU.png",
	frame.Black:     "m15PTB.png",
	frame.Red:       "m15PTR.png",
	frame.Green:     "m15PTG.png",
	frame.Gold:      "m15PTM.png",
	frame.Artifact:  "m15PTA.png",
	frame.Colorless: "m15PTA.png",
	frame.Land:      "m15PTA.png",
}

const defaultPTFile = "m15PTA.png"

// MonoFrames lists the frame keys that have their own raster.
var MonoFrames = []frame.Key{
	frame.White, frame.Blue, frame.Black, frame.Red, frame.Green,
	frame.Gold, frame.Artifact, frame.Colorless, frame.Land,
}

// FramePath returns the raster path for a mono frame key. Dual keys have no
// raster of their own and report false.
func FramePath(k frame.Key) (string, bool) {
	f, ok := frameFiles[k]
	if !ok {
		return "", false
	}
	return path.Join(FramesDir, f), true
}

// PTPath returns the P/T box raster for k; unknown keys share the artifact box.
func PTPath(k frame.Key) string {
	f, ok := ptFiles[k]
	if !ok {
		f = defaultPTFile
	}
	return path.Join(PTDir, f)
}

func MaskPath(name string) string {
	return path.Join(MasksDir, name)
}

// GlyphPath returns the vector glyph for a mana symbol key such as "w" or "wu".
func GlyphPath(key string) string {
	return path.Join(GlyphDir, strings.ToLower(key)+".svg")
}
