package layout_test

import (
	"testing"

	"github.com/ByLCY/magor/layout"
)

func TestTruncateWithEllipsis(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth float64
		want     string
	}{
		{"fits", "The Quick Brown Fox", 1000, "The Quick Brown Fox"},
		{"drops tail", "The Quick Brown Fox", 150, "The Quick..."},
		{"keeps first word", "The Quick Brown Fox", 20, "The..."},
		{"single word", "Supercalifragilistic", 10, "Supercalifragilistic"},
		{"empty", "", 100, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := layout.TruncateWithEllipsis(&fakeMeasurer{}, tt.text, layout.FontResource{}, tt.maxWidth)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("TruncateWithEllipsis(%q, %g) = %q, want %q", tt.text, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestTruncateOneWordMeasuresOnce(t *testing.T) {
	m := &fakeMeasurer{}
	if _, err := layout.TruncateWithEllipsis(m, "Hello", layout.FontResource{}, 900); err != nil {
		t.Fatal(err)
	}
	if m.calls != 1 {
		t.Fatalf("expected exactly one measurement, got %d", m.calls)
	}
}

func TestByline(t *testing.T) {
	tests := []struct {
		author, date, source string
		want                 string
	}{
		{"Jane Roe", "march 5", "Example Times", "by Jane Roe   March 5   Example Times   "},
		{"", "MARCH 5", "", "March 5   "},
		{"", "march 3rd", "", "March 3rd   "},
		{"", "o'brien day", "", "O'brien Day   "},
		{"", "", "Wire", "Wire   "},
		{"", "", "", ""},
	}
	for _, tt := range tests {
		if got := layout.Byline(tt.author, tt.date, tt.source); got != tt.want {
			t.Errorf("Byline(%q, %q, %q) = %q, want %q", tt.author, tt.date, tt.source, got, tt.want)
		}
	}
}
