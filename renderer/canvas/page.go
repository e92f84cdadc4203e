package canvasrenderer

import (
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/magor/layout"
	"github.com/ByLCY/magor/renderer"
)

// page is one open canvas.
type page struct {
	r     *Renderer
	c     *canvas.Canvas
	ctx   *canvas.Context
	saved bool
}

var _ renderer.Canvas = (*page)(nil)

func (p *page) DrawHeader(hb layout.HeaderBlock) error {
	if err := p.check(); err != nil {
		return err
	}
	p.drawImage(hb.Image)
	for _, tb := range []layout.TextBox{hb.Title, hb.Subtitle, hb.Byline} {
		if err := p.drawTextBox(tb); err != nil {
			return err
		}
	}
	p.drawLine(hb.Rule)
	return nil
}

func (p *page) DrawCover(cb layout.CoverBlock) error {
	if err := p.check(); err != nil {
		return err
	}
	p.drawImage(cb.Image)
	if err := p.drawTextBox(cb.Date); err != nil {
		return err
	}
	for _, tb := range cb.Entries {
		if err := p.drawTextBox(tb); err != nil {
			return err
		}
	}
	return nil
}

func (p *page) DrawColumn(box layout.TextBox) error {
	if err := p.check(); err != nil {
		return err
	}
	return p.drawTextBox(box)
}

// Save 将页面栅格化为 PNG（每毫米一个像素，即页面像素）。
func (p *page) Save(path string) error {
	if err := p.check(); err != nil {
		return err
	}
	p.saved = true
	img := rasterizer.Draw(p.c, canvas.DPMM(1.0), canvas.DefaultColorSpace)
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("保存页面 %s 失败: %w", path, err)
	}
	return nil
}

func (p *page) check() error {
	if p.saved {
		return fmt.Errorf("%w: page already saved", layout.ErrInvariant)
	}
	return nil
}

func (p *page) drawTextBox(tb layout.TextBox) error {
	face, err := p.r.fontFace(tb.Font, tb.Color)
	if err != nil {
		return err
	}
	// 基线位置：以行顶部加上字体上升部
	baseline := tb.Y + face.Metrics().Ascent
	advance := p.r.lineAdvance(face)
	for _, line := range strings.Split(tb.Content, "\n") {
		if line != "" {
			p.ctx.DrawText(tb.X, baseline, canvas.NewTextLine(face, line, canvas.Left))
		}
		baseline += advance
	}
	return nil
}

func (p *page) drawImage(img layout.ImageBox) {
	if img.Data == nil || img.Width <= 0 {
		return
	}
	dpmm := float64(img.Data.Bounds().Dx()) / img.Width
	if dpmm <= 0 {
		dpmm = 1
	}
	p.ctx.DrawImage(img.X, img.Y, img.Data, canvas.DPMM(dpmm))
}

func (p *page) drawLine(ln layout.Line) {
	if ln.Width <= 0 {
		return
	}
	p.ctx.SetStrokeColor(colorFromLayout(ln.Color))
	p.ctx.SetStrokeWidth(ln.Width)
	path := &canvas.Path{}
	path.MoveTo(0, 0)
	path.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
	p.ctx.DrawPath(ln.X1, ln.Y1, path)
}
