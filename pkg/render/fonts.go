package render

import (
	"github.com/flopp/go-findfont"
	"github.com/fogleman/gg"
)

// fontCandidates are tried in order when loading a label face. The list
// covers the common sans-serif fonts across Linux and macOS installs.
var fontCandidates = []string{
	"DejaVuSans.ttf",
	"LiberationSans-Regular.ttf",
	"FreeSans.ttf",
	"Arial.ttf",
	"Helvetica.ttc",
}

// setFontFace loads the first available system sans-serif face at the given
// point size. When no system font can be found, gg's built-in bitmap face
// stays active, so text rendering still works (at a fixed small size).
func setFontFace(dc *gg.Context, points float64) {
	for _, name := range fontCandidates {
		path, err := findfont.Find(name)
		if err != nil {
			continue
		}
		if err := dc.LoadFontFace(path, points); err == nil {
			return
		}
	}
}
