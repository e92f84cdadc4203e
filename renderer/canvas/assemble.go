package canvasrenderer

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"go.uber.org/multierr"

	"github.com/ByLCY/magor/layout"
	"github.com/ByLCY/magor/renderer"
)

// Assembler writes saved page images into a single PDF, one image per page.
// Page size follows the image size at DPI.
type Assembler struct {
	DPI float64
}

var _ renderer.Assembler = (*Assembler)(nil)

// NewAssembler creates a PDF assembler for pages rasterized at dpi.
func NewAssembler(dpi float64) *Assembler {
	return &Assembler{DPI: dpi}
}

// Assemble 按给定顺序把页面图片写入 out 指定的 PDF 文件。
func (a *Assembler) Assemble(pages []string, out string, meta layout.DocumentMeta) (err error) {
	if len(pages) == 0 {
		return errors.New("缺少可输出的页面")
	}
	if a.DPI <= 0 {
		return fmt.Errorf("DPI 无效: %g", a.DPI)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("创建 PDF %s 失败: %w", out, err)
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, os.Remove(out))
		}
	}()
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	buf := bufio.NewWriter(f)

	var writer *pdf.PDF
	for i, name := range pages {
		img, err := imaging.Open(name)
		if err != nil {
			return fmt.Errorf("%w: 读取页面 %s 失败: %w", renderer.ErrResource, name, err)
		}
		w := layout.PxToMm(float64(img.Bounds().Dx()), a.DPI)
		h := layout.PxToMm(float64(img.Bounds().Dy()), a.DPI)
		if i == 0 {
			writer = pdf.New(buf, w, h, nil)
			writer.SetInfo(meta.Title, meta.Subject, strings.Join(meta.Keywords, ", "), meta.Author, meta.Creator)
		} else {
			writer.NewPage(w, h)
		}
		c := canvas.New(w, h)
		ctx := canvas.NewContext(c)
		ctx.DrawImage(0, 0, img, canvas.DPI(a.DPI))
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Flush()
}
