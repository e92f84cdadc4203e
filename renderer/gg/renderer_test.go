package ggrenderer

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/ByLCY/magor/layout"
	"github.com/ByLCY/magor/renderer"
)

var body = layout.FontResource{Name: "Body", Src: "builtin:goregular", Size: 25}

func TestMeasure(t *testing.T) {
	r := New(Options{PageWidth: 100, PageHeight: 100, LineSpacing: 4})
	w1, h1, err := r.Measure("hello", body)
	if err != nil {
		t.Fatal(err)
	}
	w2, h2, err := r.Measure("hello\nhello world", body)
	if err != nil {
		t.Fatal(err)
	}
	if w2 <= w1 || h2 <= h1 {
		t.Fatalf("expected the two-line block to be larger: %gx%g vs %gx%g", w2, h2, w1, h1)
	}
	if _, _, err := r.Measure("x", layout.FontResource{Src: "builtin:missing", Size: 10}); !errors.Is(err, renderer.ErrResource) {
		t.Fatalf("expected ErrResource, got %v", err)
	}
}

func TestPageSave(t *testing.T) {
	r := New(Options{PageWidth: 120, PageHeight: 80, LineSpacing: 4})
	c, err := r.OpenPage()
	if err != nil {
		t.Fatal(err)
	}
	cb := layout.CoverBlock{
		Image:   layout.ImageBox{X: 10, Y: 5, Width: 30, Height: 15, Data: imaging.New(60, 30, layout.Black.NRGBA())},
		Date:    layout.TextBox{Content: "2024 / 03 / 05", X: 10, Y: 25, Font: body},
		Entries: []layout.TextBox{{Content: " 1. Title", X: 5, Y: 50, Font: body}},
	}
	if err := c.DrawCover(cb); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "000cover.png")
	if err := c.Save(path); err != nil {
		t.Fatal(err)
	}
	img, err := imaging.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 80 {
		t.Fatalf("page size = %v", b)
	}
	// the resized cover image is black
	if r, g, b, _ := img.At(20, 10).RGBA(); r != 0 || g != 0 || b != 0 {
		t.Fatalf("expected black image pixel, got %d %d %d", r, g, b)
	}
	if err := c.DrawColumn(layout.TextBox{Content: "late", Font: body}); !errors.Is(err, layout.ErrInvariant) {
		t.Fatalf("drawing after save should fail, got %v", err)
	}
}
