package layout

import (
	"fmt"
	"image"
	"image/color"
)

// 该文件定义布局事件与可绘制元素，供排版引擎、渲染器与调试 JSON 共用。
// 所有坐标均为页面像素，原点在左上角。

// Point 表示页面上的一个位置。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Black 是所有文字与分隔线使用的颜色。
var Black = Color{}

// NRGBA 转换为标准库颜色。
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 0xff}
}

// FontResource 描述字体资源，src 可以是文件路径或 builtin:* 形式，Size 以像素计。
type FontResource struct {
	Name  string  `json:"name"`
	Src   string  `json:"src"`
	Style string  `json:"style"`
	Size  float64 `json:"size"`
}

func (f FontResource) String() string {
	return fmt.Sprintf("%s(%s %gpx)", f.Name, f.Style, f.Size)
}

// FontSet 汇总排版时使用的全部字体。
type FontSet struct {
	Body       FontResource `json:"body"`
	Title      FontResource `json:"title"`
	Subtitle   FontResource `json:"subtitle"`
	Byline     FontResource `json:"byline"`
	CoverDate  FontResource `json:"coverDate"`
	CoverEntry FontResource `json:"coverEntry"`
}

// TextBox 表示一个已经排好坐标的文本块，(X, Y) 为左上角，多行文本以 \n 分隔。
type TextBox struct {
	Content string       `json:"content"`
	X       float64      `json:"x"`
	Y       float64      `json:"y"`
	Font    FontResource `json:"font"`
	Color   Color        `json:"color"`
}

// ImageBox 用于描述图片位置与尺寸。Data 为空时由渲染器按 Path 取图。
type ImageBox struct {
	Path   string      `json:"path"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Data   image.Image `json:"-"`
}

// Line 表示一条线段，Width 为线宽（像素）。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"`
}

// HeaderBlock 是文章首页的页眉：配图、标题、副标题、署名行与分隔线。
type HeaderBlock struct {
	Image    ImageBox `json:"image"`
	Title    TextBox  `json:"title"`
	Subtitle TextBox  `json:"subtitle"`
	Byline   TextBox  `json:"byline"`
	Rule     Line     `json:"rule"`
}

// CoverBlock 是封面：居中的配图、日期以及文章标题目录。
type CoverBlock struct {
	Image   ImageBox  `json:"image"`
	Date    TextBox   `json:"date"`
	Entries []TextBox `json:"entries"`
}

// Slot 是一个栏位的锚点与高度预算。
type Slot struct {
	Anchor Point   `json:"anchor"`
	Budget float64 `json:"budget"`
}

// EventKind 区分排版引擎输出的事件类型。
type EventKind int

const (
	EventPageOpen EventKind = iota
	EventHeader
	EventColumn
	EventPageBreak
	EventPageSave
)

var eventKindNames = [...]string{
	EventPageOpen:  "page-open",
	EventHeader:    "header",
	EventColumn:    "column",
	EventPageBreak: "page-break",
	EventPageSave:  "page-save",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
	return eventKindNames[k]
}

// MarshalText 让调试 JSON 中的事件类型可读。
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event 是排版引擎输出序列中的一项。Page 为文章内的页码，从 1 开始。
// Phase 为事件发出时引擎所处阶段，栏满提交为 column-full，换页为 page-full。
type Event struct {
	Kind      EventKind    `json:"kind"`
	Phase     Phase        `json:"phase"`
	Article   string       `json:"article"`
	Page      int          `json:"page"`
	Column    int          `json:"column,omitempty"`
	FirstPage bool         `json:"firstPage"`
	Reused    bool         `json:"reused"`
	Slot      *Slot        `json:"slot,omitempty"`
	Box       *TextBox     `json:"box,omitempty"`
	Header    *HeaderBlock `json:"header,omitempty"`
}

func (e Event) String() string {
	switch e.Kind {
	case EventColumn:
		return fmt.Sprintf("%s %s p%d c%d", e.Kind, e.Article, e.Page, e.Column)
	default:
		return fmt.Sprintf("%s %s p%d", e.Kind, e.Article, e.Page)
	}
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
