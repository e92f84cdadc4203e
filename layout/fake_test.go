package layout_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ByLCY/magor/layout"
)

// fakeMeasurer sizes text as a fixed-pitch grid: 10px per rune of the widest
// line and 30px per line.
type fakeMeasurer struct {
	calls int
}

func (f *fakeMeasurer) Measure(text string, _ layout.FontResource) (float64, float64, error) {
	f.calls++
	lines := strings.Split(text, "\n")
	widest := 0
	for _, l := range lines {
		widest = max(widest, utf8.RuneCountInString(l))
	}
	return float64(10 * widest), float64(30 * len(lines)), nil
}

// testGeometry fits one 8-letter word per line, three lines in a short column
// and four in a long one.
func testGeometry() layout.Geometry {
	g := layout.DefaultGeometry()
	g.ColumnWidth = 100
	g.ShortBudget = 100
	g.LongBudget = 130
	return g
}

func newTestEngine(t testing.TB) *layout.Engine {
	t.Helper()
	e, err := layout.NewEngine(layout.Options{Measurer: &fakeMeasurer{}, Geometry: testGeometry()})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

// words returns n distinct 8-letter words.
func words(n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = string(rune('a'+i%26)) + strings.Repeat("x", 5) + string(rune('0'+i/10%10)) + string(rune('0'+i%10))
	}
	return strings.Join(out, " ")
}
