// Package ggrenderer is a raster backend drawing pages with github.com/fogleman/gg.
// It draws straight to pixels and suits batches where no vector stage is needed.
package ggrenderer

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/ByLCY/magor/fonts"
	"github.com/ByLCY/magor/layout"
	"github.com/ByLCY/magor/renderer"
)

// Renderer keeps parsed fonts and faces per size. It is not safe for concurrent use.
type Renderer struct {
	baseDir     string
	width       int
	height      int
	lineSpacing float64

	fonts map[string]*truetype.Font
	faces map[string]font.Face
}

var _ renderer.Backend = (*Renderer)(nil)

// Options configures the gg renderer.
type Options struct {
	BaseDir     string
	PageWidth   int
	PageHeight  int
	LineSpacing float64
}

// New creates a gg based renderer.
func New(opts Options) *Renderer {
	return &Renderer{
		baseDir:     opts.BaseDir,
		width:       opts.PageWidth,
		height:      opts.PageHeight,
		lineSpacing: opts.LineSpacing,
		fonts:       map[string]*truetype.Font{},
		faces:       map[string]font.Face{},
	}
}

// LoadFonts parses every font of the set.
func (r *Renderer) LoadFonts(set layout.FontSet) error {
	for _, f := range []layout.FontResource{set.Body, set.Title, set.Subtitle, set.Byline, set.CoverDate, set.CoverEntry} {
		if _, err := r.face(f); err != nil {
			return err
		}
	}
	return nil
}

// Measure returns the widest line and the block height of text.
func (r *Renderer) Measure(text string, f layout.FontResource) (float64, float64, error) {
	face, err := r.face(f)
	if err != nil {
		return 0, 0, err
	}
	lines := strings.Split(text, "\n")
	width := 0.0
	for _, line := range lines {
		width = max(width, fixedToFloat(font.MeasureString(face, line)))
	}
	m := face.Metrics()
	height := float64(len(lines)-1)*r.lineAdvance(face) + fixedToFloat(m.Ascent+m.Descent)
	return width, height, nil
}

func (r *Renderer) lineAdvance(face font.Face) float64 {
	return fixedToFloat(face.Metrics().Height) + r.lineSpacing
}

// OpenPage returns a white page.
func (r *Renderer) OpenPage() (renderer.Canvas, error) {
	if r.width <= 0 || r.height <= 0 {
		return nil, fmt.Errorf("invalid page size %dx%d", r.width, r.height)
	}
	dc := gg.NewContext(r.width, r.height)
	dc.SetColor(layout.Color{R: 255, G: 255, B: 255}.NRGBA())
	dc.Clear()
	return &page{r: r, dc: dc}, nil
}

func (r *Renderer) face(f layout.FontResource) (font.Face, error) {
	key := fmt.Sprintf("%s|%s|%g", f.Src, f.Style, f.Size)
	if face, ok := r.faces[key]; ok {
		return face, nil
	}
	ttf, ok := r.fonts[f.Src]
	if !ok {
		data, err := fonts.Load(f.Src, r.baseDir)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", renderer.ErrResource, err)
		}
		ttf, err = truetype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%w: parse font %s: %w", renderer.ErrResource, f.Src, err)
		}
		r.fonts[f.Src] = ttf
	}
	face := truetype.NewFace(ttf, &truetype.Options{Size: f.Size, DPI: 72})
	r.faces[key] = face
	return face, nil
}

type page struct {
	r     *Renderer
	dc    *gg.Context
	saved bool
}

func (p *page) DrawHeader(hb layout.HeaderBlock) error {
	if err := p.check(); err != nil {
		return err
	}
	p.drawImage(hb.Image)
	for _, tb := range []layout.TextBox{hb.Title, hb.Subtitle, hb.Byline} {
		if err := p.drawText(tb); err != nil {
			return err
		}
	}
	if ln := hb.Rule; ln.Width > 0 {
		p.dc.SetColor(ln.Color.NRGBA())
		p.dc.SetLineWidth(ln.Width)
		p.dc.DrawLine(ln.X1, ln.Y1, ln.X2, ln.Y2)
		p.dc.Stroke()
	}
	return nil
}

func (p *page) DrawCover(cb layout.CoverBlock) error {
	if err := p.check(); err != nil {
		return err
	}
	p.drawImage(cb.Image)
	for _, tb := range append([]layout.TextBox{cb.Date}, cb.Entries...) {
		if err := p.drawText(tb); err != nil {
			return err
		}
	}
	return nil
}

func (p *page) DrawColumn(box layout.TextBox) error {
	if err := p.check(); err != nil {
		return err
	}
	return p.drawText(box)
}

func (p *page) Save(path string) error {
	if err := p.check(); err != nil {
		return err
	}
	p.saved = true
	if err := imaging.Save(p.dc.Image(), path); err != nil {
		return fmt.Errorf("save page %s: %w", path, err)
	}
	return nil
}

func (p *page) check() error {
	if p.saved {
		return fmt.Errorf("%w: page already saved", layout.ErrInvariant)
	}
	return nil
}

func (p *page) drawText(tb layout.TextBox) error {
	face, err := p.r.face(tb.Font)
	if err != nil {
		return err
	}
	p.dc.SetFontFace(face)
	p.dc.SetColor(tb.Color.NRGBA())
	baseline := tb.Y + fixedToFloat(face.Metrics().Ascent)
	advance := p.r.lineAdvance(face)
	for _, line := range strings.Split(tb.Content, "\n") {
		if line != "" {
			p.dc.DrawString(line, tb.X, baseline)
		}
		baseline += advance
	}
	return nil
}

func (p *page) drawImage(box layout.ImageBox) {
	if box.Data == nil {
		return
	}
	var img image.Image = box.Data
	if b := img.Bounds(); b.Dx() != int(box.Width) || b.Dy() != int(box.Height) {
		img = imaging.Resize(img, int(box.Width), int(box.Height), imaging.Lanczos)
	}
	p.dc.DrawImage(img, int(box.X), int(box.Y))
}
