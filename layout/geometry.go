package layout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ByLCY/magor/article"
)

// Geometry 描述页面上各栏位、页眉与封面的固定位置（像素）。
type Geometry struct {
	PageWidth   float64    `json:"pageWidth"`
	PageHeight  float64    `json:"pageHeight"`
	ColumnX     [3]float64 `json:"columnX"`
	ColumnWidth float64    `json:"columnWidth"`
	// ShortBudget 用于页眉下方的栏，LongBudget 用于从页面顶部开始的栏。
	ShortBudget float64 `json:"shortBudget"`
	LongBudget  float64 `json:"longBudget"`
	TopY        float64 `json:"topY"`
	BodyY       float64 `json:"bodyY"`
	// Probe 追加在文本后测量高度，用来计入下伸部。
	Probe string `json:"probe"`

	HeaderWidth       float64 `json:"headerWidth"`
	HeaderImageHeight float64 `json:"headerImageHeight"`
	TitleY            float64 `json:"titleY"`
	SubtitleY         float64 `json:"subtitleY"`
	BylineY           float64 `json:"bylineY"`
	RuleY             float64 `json:"ruleY"`
	RuleWidth         float64 `json:"ruleWidth"`

	CoverDateY      float64 `json:"coverDateY"`
	CoverEntryX     float64 `json:"coverEntryX"`
	CoverEntryY     float64 `json:"coverEntryY"`
	CoverEntryStep  float64 `json:"coverEntryStep"`
	CoverEntryLimit float64 `json:"coverEntryLimit"`
	CoverMaxEntries int     `json:"coverMaxEntries"`
	CoverDateLayout string  `json:"coverDateLayout"`
}

// DefaultGeometry 对应 180 DPI 下的 US Letter 页面（1530x1980）。
func DefaultGeometry() Geometry {
	return Geometry{
		PageWidth:   1530,
		PageHeight:  1980,
		ColumnX:     [3]float64{87, 554, 1008},
		ColumnWidth: 437,
		ShortBudget: 1378,
		LongBudget:  1908,
		TopY:        35,
		BodyY:       570,
		Probe:       "pqgy,)",

		HeaderWidth:       900,
		HeaderImageHeight: 415,
		TitleY:            450,
		SubtitleY:         490,
		BylineY:           523,
		RuleY:             560,
		RuleWidth:         5,

		CoverDateY:      450,
		CoverEntryX:     35,
		CoverEntryY:     600,
		CoverEntryStep:  85,
		CoverEntryLimit: 1400,
		CoverMaxEntries: 15,
		CoverDateLayout: "2006 / 01 / 02",
	}
}

// Validate 检查几何参数是否可用于排版。
func (g Geometry) Validate() error {
	var errs []error
	if g.PageWidth <= 0 || g.PageHeight <= 0 {
		errs = append(errs, fmt.Errorf("page size must be positive, got %gx%g", g.PageWidth, g.PageHeight))
	}
	if g.ColumnWidth <= 0 {
		errs = append(errs, fmt.Errorf("column width must be positive, got %g", g.ColumnWidth))
	}
	if g.ShortBudget <= 0 || g.LongBudget <= 0 {
		errs = append(errs, fmt.Errorf("column budgets must be positive, got %g/%g", g.ShortBudget, g.LongBudget))
	}
	if g.Probe == "" {
		errs = append(errs, errors.New("probe text must not be empty"))
	}
	if g.CoverMaxEntries < 0 {
		errs = append(errs, fmt.Errorf("cover entries must not be negative, got %d", g.CoverMaxEntries))
	}
	return errors.Join(errs...)
}

// ColumnSlot 返回栏位的锚点与高度预算。首页的第 1、2 栏位于页眉下方；
// 第 3 栏在新页上从顶部开始，在复用页上仍位于页眉下方；之后各页均从顶部开始。
func (g Geometry) ColumnSlot(firstPage bool, column int, reused bool) (Slot, error) {
	if column < 1 || column > 3 {
		return Slot{}, fmt.Errorf("%w: column %d out of range", ErrInvariant, column)
	}
	x := g.ColumnX[column-1]
	if !firstPage {
		return Slot{Anchor: Point{X: x, Y: g.TopY}, Budget: g.LongBudget}, nil
	}
	if column == 3 && !reused {
		return Slot{Anchor: Point{X: x, Y: g.TopY}, Budget: g.LongBudget}, nil
	}
	return Slot{Anchor: Point{X: x, Y: g.BodyY}, Budget: g.ShortBudget}, nil
}

// HeaderSlot 返回页眉的左边界与分隔线终点。复用页上页眉跨第 2、3 栏。
func (g Geometry) HeaderSlot(reused bool) (x, ruleEnd float64) {
	x = g.ColumnX[0]
	if reused {
		x = g.ColumnX[1]
	}
	return x, x + g.HeaderWidth
}

// Header 排出文章页眉，标题、副标题与署名行超宽时以省略号截断。
func (g Geometry) Header(m Measurer, fonts FontSet, a *article.Article, reused bool) (HeaderBlock, error) {
	x, ruleEnd := g.HeaderSlot(reused)
	hb := HeaderBlock{
		Image: ImageBox{Path: a.Image, X: x, Y: g.TopY, Width: g.HeaderWidth, Height: g.HeaderImageHeight},
		Rule:  Line{X1: x, Y1: g.RuleY, X2: ruleEnd, Y2: g.RuleY, Color: Black, Width: g.RuleWidth},
	}
	rows := []struct {
		dst  *TextBox
		text string
		font FontResource
		y    float64
	}{
		{&hb.Title, a.Title, fonts.Title, g.TitleY},
		{&hb.Subtitle, a.Subtitle, fonts.Subtitle, g.SubtitleY},
		{&hb.Byline, Byline(a.Author, a.Date, a.Source), fonts.Byline, g.BylineY},
	}
	for _, r := range rows {
		s, err := TruncateWithEllipsis(m, r.text, r.font, g.HeaderWidth)
		if err != nil {
			return HeaderBlock{}, err
		}
		*r.dst = TextBox{Content: s, X: x, Y: r.y, Font: r.font, Color: Black}
	}
	return hb, nil
}

// Cover 排出封面：居中的配图与日期，以及最多 CoverMaxEntries 条带序号的标题。
func (g Geometry) Cover(m Measurer, fonts FontSet, titles []string, now time.Time) (CoverBlock, error) {
	cb := CoverBlock{
		Image: ImageBox{
			X:      float64(int(g.PageWidth/2 - g.HeaderWidth/2)),
			Y:      g.TopY,
			Width:  g.HeaderWidth,
			Height: g.HeaderImageHeight,
		},
	}

	date := now.Format(g.CoverDateLayout)
	w, _, err := m.Measure(date, fonts.CoverDate)
	if err != nil {
		return CoverBlock{}, err
	}
	cb.Date = TextBox{Content: date, X: float64(int(g.PageWidth/2 - w/2)), Y: g.CoverDateY, Font: fonts.CoverDate, Color: Black}

	if len(titles) > g.CoverMaxEntries {
		titles = titles[:g.CoverMaxEntries]
	}
	y := g.CoverEntryY
	for i, title := range titles {
		words := strings.Split(title, " ")
		s, err := truncateWords(m, fmt.Sprintf("%2d. %s", i+1, words[0]), words[1:], fonts.CoverEntry, g.CoverEntryLimit)
		if err != nil {
			return CoverBlock{}, err
		}
		cb.Entries = append(cb.Entries, TextBox{Content: s, X: g.CoverEntryX, Y: y, Font: fonts.CoverEntry, Color: Black})
		y += g.CoverEntryStep
	}
	return cb, nil
}
