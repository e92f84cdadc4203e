package canvasrenderer

import (
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/magor/fonts"
	"github.com/ByLCY/magor/layout"
	"github.com/ByLCY/magor/renderer"
)

// Renderer measures and draws pages via github.com/tdewolff/canvas. One canvas
// unit is one page pixel, font sizes are converted from pixels to points.
type Renderer struct {
	baseDir     string
	width       float64
	height      float64
	lineSpacing float64

	fontMu       sync.Mutex
	fontFamilies map[string]*fontFamilyEntry
}

var (
	_ renderer.Backend = (*Renderer)(nil)
	_ layout.Measurer  = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	// BaseDir resolves relative font paths.
	BaseDir    string
	PageWidth  float64
	PageHeight float64
	// LineSpacing is the extra gap between lines of a text block, in pixels.
	LineSpacing float64
}

// New creates a canvas based renderer.
func New(opts Options) *Renderer {
	return &Renderer{
		baseDir:      opts.BaseDir,
		width:        opts.PageWidth,
		height:       opts.PageHeight,
		lineSpacing:  opts.LineSpacing,
		fontFamilies: map[string]*fontFamilyEntry{},
	}
}

// LoadFonts 预先加载所有字体，字体缺失时返回 renderer.ErrResource。
func (r *Renderer) LoadFonts(set layout.FontSet) error {
	for _, f := range []layout.FontResource{set.Body, set.Title, set.Subtitle, set.Byline, set.CoverDate, set.CoverEntry} {
		if _, _, err := r.ensureFontFamily(f); err != nil {
			return err
		}
	}
	return nil
}

// Measure 实现 layout.Measurer：宽度取最宽一行，高度为各行行高加行距，
// 最后一行只计上升部与下降部。
func (r *Renderer) Measure(text string, font layout.FontResource) (float64, float64, error) {
	face, err := r.fontFace(font, layout.Black)
	if err != nil {
		return 0, 0, err
	}
	lines := strings.Split(text, "\n")
	width := 0.0
	for _, line := range lines {
		width = max(width, face.TextWidth(line))
	}
	return width, r.blockHeight(face, len(lines)), nil
}

func (r *Renderer) blockHeight(face *canvas.FontFace, lines int) float64 {
	m := face.Metrics()
	return float64(lines-1)*r.lineAdvance(face) + m.Ascent + m.Descent
}

func (r *Renderer) lineAdvance(face *canvas.FontFace) float64 {
	return face.Metrics().LineHeight + r.lineSpacing
}

// OpenPage 创建一张白色背景的新页面，坐标原点位于左上角。
func (r *Renderer) OpenPage() (renderer.Canvas, error) {
	if r.width <= 0 || r.height <= 0 {
		return nil, fmt.Errorf("页面尺寸无效: %gx%g", r.width, r.height)
	}
	c := canvas.New(r.width, r.height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)
	ctx.SetFillColor(canvas.White)
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.DrawPath(0, 0, canvas.Rectangle(r.width, r.height))
	return &page{r: r, c: c, ctx: ctx}, nil
}

func (r *Renderer) fontFace(font layout.FontResource, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(layout.PxToPt(font.Size), colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Name
	if familyName == "" {
		familyName = "Body"
	}
	data, err := fonts.Load(font.Src, r.baseDir)
	if err != nil {
		return nil, canvas.FontRegular, fmt.Errorf("%w: %w", renderer.ErrResource, err)
	}
	family := canvas.NewFontFamily(familyName)
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, canvas.FontRegular, fmt.Errorf("%w: 加载字体 %s 失败: %w", renderer.ErrResource, font.Src, err)
	}

	r.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
