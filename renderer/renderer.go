// Package renderer defines how laid out pages reach pixels and the final document.
package renderer

import (
	"errors"

	"github.com/ByLCY/magor/layout"
)

// ErrResource reports a missing or unusable font, image or other asset.
var ErrResource = errors.New("missing or invalid resource")

// Backend measures text and opens page canvases. Measurements and drawing of
// one backend always agree.
type Backend interface {
	layout.Measurer
	// LoadFonts resolves every font up front so that a bad font fails the run
	// before any page is written.
	LoadFonts(fonts layout.FontSet) error
	OpenPage() (Canvas, error)
}

// Canvas is one raster page. Save is called exactly once, after which the
// canvas must not be used.
type Canvas interface {
	DrawHeader(hb layout.HeaderBlock) error
	DrawCover(cb layout.CoverBlock) error
	DrawColumn(box layout.TextBox) error
	Save(path string) error
}

// Assembler concatenates saved pages, in the given order, into one document.
type Assembler interface {
	Assemble(pages []string, out string, meta layout.DocumentMeta) error
}
