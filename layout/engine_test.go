package layout_test

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/magor/article"
	"github.com/ByLCY/magor/layout"
)

// step is the comparable summary of an event.
type step struct {
	Kind    layout.EventKind
	Article string
	Page    int
	Column  int
	Reused  bool
	Anchor  layout.Point
	Content string
}

func summarize(events []layout.Event) []step {
	out := make([]step, 0, len(events))
	for _, ev := range events {
		s := step{Kind: ev.Kind, Article: ev.Article, Page: ev.Page, Column: ev.Column, Reused: ev.Reused}
		if ev.Slot != nil {
			s.Anchor = ev.Slot.Anchor
		}
		if ev.Box != nil {
			s.Content = ev.Box.Content
		}
		if ev.Header != nil {
			s.Anchor = layout.Point{X: ev.Header.Title.X, Y: ev.Header.Title.Y}
		}
		out = append(out, s)
	}
	return out
}

// eventKinds lists event kinds, column events with their column number.
func eventKinds(events []layout.Event) []string {
	var out []string
	for _, ev := range events {
		s := ev.Kind.String()
		if ev.Kind == layout.EventColumn {
			s += string(rune('0' + ev.Column))
		}
		out = append(out, s)
	}
	return out
}

func newArticle(id, body string) *article.Article {
	return &article.Article{ID: id, Title: "Title " + id, Paragraphs: strings.Split(body, "\n")}
}

func TestSingleColumnArticle(t *testing.T) {
	e := newTestEngine(t)
	events, err := e.Layout(newArticle("a", "Hello world"), true)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	want := []step{
		{Kind: layout.EventPageOpen, Article: "a", Page: 1},
		{Kind: layout.EventHeader, Article: "a", Page: 1, Column: 1, Anchor: layout.Point{X: 87, Y: 450}},
		{Kind: layout.EventColumn, Article: "a", Page: 1, Column: 1, Anchor: layout.Point{X: 87, Y: 570}, Content: "Hello\nworld\n"},
		{Kind: layout.EventPageSave, Article: "a", Page: 1},
	}
	if diff := cmp.Diff(want, summarize(events)); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestPageReuse(t *testing.T) {
	e := newTestEngine(t)

	first, err := e.Layout(newArticle("a", words(12)), false)
	if err != nil {
		t.Fatalf("Layout(a) error = %v", err)
	}
	wantA := []string{"page-open", "header", "column1", "column2", "column3", "page-break", "page-save", "page-open", "column1"}
	if diff := cmp.Diff(wantA, eventKinds(first)); diff != "" {
		t.Fatalf("article a events mismatch (-want +got):\n%s", diff)
	}
	if st := e.State(); !st.PageOpen || st.Column != 2 {
		t.Fatalf("page should stay open for reuse, state = %+v", st)
	}

	second, err := e.Layout(newArticle("b", "Hello world"), true)
	if err != nil {
		t.Fatalf("Layout(b) error = %v", err)
	}
	want := []step{
		{Kind: layout.EventHeader, Article: "b", Page: 1, Column: 2, Reused: true, Anchor: layout.Point{X: 554, Y: 450}},
		{Kind: layout.EventColumn, Article: "b", Page: 1, Column: 2, Reused: true, Anchor: layout.Point{X: 554, Y: 570}, Content: "Hello\nworld\n"},
		{Kind: layout.EventPageSave, Article: "b", Page: 1, Reused: true},
	}
	if diff := cmp.Diff(want, summarize(second)); diff != "" {
		t.Fatalf("article b events mismatch (-want +got):\n%s", diff)
	}
	if hdr := second[0].Header; hdr.Rule.X2 != 1454 || hdr.Image.X != 554 {
		t.Fatalf("reused header misplaced: %+v", hdr)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestReusedPageColumnThreeIsShort(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.Layout(newArticle("a", words(12)), false); err != nil {
		t.Fatal(err)
	}
	events, err := e.Layout(newArticle("b", words(8)), true)
	if err != nil {
		t.Fatal(err)
	}
	var cols []step
	for _, s := range summarize(events) {
		if s.Kind == layout.EventColumn {
			cols = append(cols, s)
		}
	}
	if len(cols) != 3 {
		t.Fatalf("expected 3 columns, got %+v", cols)
	}
	// 3 lines in column 2, 3 in the short column 3, the rest on page 2.
	if got := len(strings.Split(cols[1].Content, "\n")); cols[1].Anchor != (layout.Point{X: 1008, Y: 570}) || got != 3 {
		t.Fatalf("column 3 of reused page = %+v", cols[1])
	}
	if cols[2].Page != 2 || cols[2].Reused || cols[2].Anchor != (layout.Point{X: 87, Y: 35}) {
		t.Fatalf("column after break = %+v", cols[2])
	}
}

func TestColumnCyclingAndPageBreaks(t *testing.T) {
	e := newTestEngine(t)
	events, err := e.Layout(newArticle("long", words(60)), true)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	prevCol := 0
	saves := map[int]int{}
	for i, ev := range events {
		switch ev.Kind {
		case layout.EventColumn:
			want := prevCol%3 + 1
			if ev.Column != want {
				t.Fatalf("event %d: column %d after %d", i, ev.Column, prevCol)
			}
			prevCol = ev.Column
		case layout.EventPageBreak:
			if prevCol != 3 {
				t.Fatalf("event %d: page break after column %d", i, prevCol)
			}
		case layout.EventPageSave:
			saves[ev.Page]++
		}
	}
	// 10 words on the first page, 12 on each following one.
	if len(saves) != 6 {
		t.Fatalf("expected 6 pages, got %v", saves)
	}
	for page, n := range saves {
		if n != 1 {
			t.Fatalf("page %d saved %d times", page, n)
		}
	}
	if last := events[len(events)-1]; last.Kind != layout.EventPageSave || last.Page != 6 {
		t.Fatalf("last event = %v", last)
	}
}

func TestCommittedColumnsRespectBounds(t *testing.T) {
	g := testGeometry()
	m := &fakeMeasurer{}
	e, err := layout.NewEngine(layout.Options{Measurer: m, Geometry: g})
	if err != nil {
		t.Fatal(err)
	}
	body := "one two three four five six\n\nseven eight nine\n\n\nten eleven twelve thirteen\n" + words(30)
	var events []layout.Event
	for i, id := range []string{"a", "b", "c"} {
		evs, err := e.Layout(newArticle(id, body), i == 2)
		if err != nil {
			t.Fatalf("Layout(%s) error = %v", id, err)
		}
		events = append(events, evs...)
	}

	for _, ev := range events {
		if ev.Kind != layout.EventColumn {
			continue
		}
		for _, line := range strings.Split(ev.Box.Content, "\n") {
			if w := 10 * utf8.RuneCountInString(line); float64(w) > g.ColumnWidth {
				t.Errorf("%v: line %q is %dpx wide", ev, line, w)
			}
		}
		_, h, _ := m.Measure(strings.TrimRight(ev.Box.Content, "\n")+g.Probe, layout.FontResource{})
		if h >= ev.Slot.Budget {
			t.Errorf("%v: height %g exceeds budget %g", ev, h, ev.Slot.Budget)
		}
	}
}

func TestBlankParagraphs(t *testing.T) {
	e := newTestEngine(t)
	events, err := e.Layout(newArticle("a", "\nHi\n\nthere"), true)
	if err != nil {
		t.Fatal(err)
	}
	for _, ev := range events {
		if ev.Kind == layout.EventColumn {
			if ev.Box.Content != "Hi\n\nthere\n" {
				t.Fatalf("content = %q", ev.Box.Content)
			}
			return
		}
	}
	t.Fatal("no column committed")
}

func TestDeterminism(t *testing.T) {
	run := func() []layout.Event {
		e := newTestEngine(t)
		var out []layout.Event
		for i, id := range []string{"a", "b", "c", "d"} {
			evs, err := e.Layout(newArticle(id, words(7*(i+1))+"\n\n"+words(5)), i == 3)
			if err != nil {
				t.Fatal(err)
			}
			out = append(out, evs...)
		}
		return out
	}
	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Fatalf("runs differ (-first +second):\n%s", diff)
	}
}

func TestEngineRejectsOutOfOrderCalls(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.Feed([]string{"x"}); !errors.Is(err, layout.ErrInvariant) {
		t.Fatalf("Feed before BeginArticle: %v", err)
	}
	if _, err := e.EndArticle(); !errors.Is(err, layout.ErrInvariant) {
		t.Fatalf("EndArticle before BeginArticle: %v", err)
	}
	if _, err := e.BeginArticle(newArticle("a", "x"), true); err != nil {
		t.Fatal(err)
	}
	if _, err := e.BeginArticle(newArticle("b", "x"), true); !errors.Is(err, layout.ErrInvariant) {
		t.Fatalf("nested BeginArticle: %v", err)
	}
}

func TestEngineRejectsMalformedArticle(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Layout(&article.Article{ID: "x", Title: "T", Paragraphs: []string{"", " "}}, true)
	var aerr *article.Error
	if !errors.As(err, &aerr) || aerr.ID != "x" || !errors.Is(err, article.ErrMalformed) {
		t.Fatalf("expected malformed article error, got %v", err)
	}
}

func TestNewEngineValidates(t *testing.T) {
	if _, err := layout.NewEngine(layout.Options{Geometry: testGeometry()}); err == nil {
		t.Fatal("expected error without measurer")
	}
	g := testGeometry()
	g.ShortBudget = 0
	if _, err := layout.NewEngine(layout.Options{Measurer: &fakeMeasurer{}, Geometry: g}); err == nil {
		t.Fatal("expected error for zero budget")
	}
}

func TestArticleEndLeavesPage(t *testing.T) {
	firstPage := []string{"page-open", "header", "column1", "column2", "column3", "page-break", "page-save", "page-open"}
	tests := []struct {
		name   string
		words  int
		last   bool
		want   []string
		reused bool
	}{
		{"first page column 1", 2, false, []string{"page-open", "header", "column1", "page-save"}, false},
		{"first page column 2", 5, false, []string{"page-open", "header", "column1", "column2", "page-save"}, false},
		{"next page column 1", 11, false, append(firstPage[:8:8], "column1"), true},
		{"next page column 1 last", 11, true, append(firstPage[:8:8], "column1", "page-save"), false},
		{"next page column 2", 15, false, append(firstPage[:8:8], "column1", "column2", "page-save"), false},
		{"next page column 3", 19, false, append(firstPage[:8:8], "column1", "column2", "column3", "page-save"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			events, err := e.Layout(newArticle("a", words(tt.words)), tt.last)
			if err != nil {
				t.Fatalf("Layout(a) error = %v", err)
			}
			if diff := cmp.Diff(tt.want, eventKinds(events)); diff != "" {
				t.Fatalf("article a events mismatch (-want +got):\n%s", diff)
			}
			if st := e.State(); st.PageOpen != tt.reused {
				t.Fatalf("page open = %v, want %v", st.PageOpen, tt.reused)
			}
			if tt.last {
				if err := e.Close(); err != nil {
					t.Fatalf("Close() error = %v", err)
				}
				return
			}

			next, err := e.Layout(newArticle("b", "Hello world"), true)
			if err != nil {
				t.Fatalf("Layout(b) error = %v", err)
			}
			want := []string{"page-open", "header", "column1", "page-save"}
			if tt.reused {
				want = []string{"header", "column2", "page-save"}
			}
			if diff := cmp.Diff(want, eventKinds(next)); diff != "" {
				t.Fatalf("article b events mismatch (-want +got):\n%s", diff)
			}
			for _, ev := range next {
				if ev.Reused != tt.reused {
					t.Fatalf("%v: reused = %v, want %v", ev, ev.Reused, tt.reused)
				}
			}
			if err := e.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}
		})
	}
}

func TestOverlongWordTakesOwnLine(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"after a word", "tiny Supercalifragilistic ok", "tiny\nSupercalifragilistic\nok\n"},
		{"empty column", "Supercalifragilistic", "\nSupercalifragilistic\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			events, err := e.Layout(newArticle("a", tt.body), true)
			if err != nil {
				t.Fatalf("Layout() error = %v", err)
			}
			if diff := cmp.Diff([]string{"page-open", "header", "column1", "page-save"}, eventKinds(events)); diff != "" {
				t.Fatalf("events mismatch (-want +got):\n%s", diff)
			}
			if got := events[2].Box.Content; got != tt.want {
				t.Fatalf("content = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNothingFitsColumn(t *testing.T) {
	g := testGeometry()
	g.ShortBudget = 50
	e, err := layout.NewEngine(layout.Options{Measurer: &fakeMeasurer{}, Geometry: g})
	if err != nil {
		t.Fatal(err)
	}
	_, err = e.Layout(newArticle("a", "Supercalifragilistic"), true)
	var aerr *article.Error
	if !errors.Is(err, layout.ErrInvariant) || !errors.As(err, &aerr) || aerr.ID != "a" {
		t.Fatalf("expected invariant error for article a, got %v", err)
	}
}

func TestProbeRefreshedAtParagraphAndColumnStart(t *testing.T) {
	var measured []string
	m := &fakeMeasurer{}
	rec := layout.MeasureFunc(func(text string, f layout.FontResource) (float64, float64, error) {
		measured = append(measured, text)
		return m.Measure(text, f)
	})
	e, err := layout.NewEngine(layout.Options{Measurer: rec, Geometry: testGeometry()})
	if err != nil {
		t.Fatal(err)
	}
	a := newArticle("a", "aaaaaaaa bbbbbbbb\ncccccccc dddddddd")
	if _, err := e.BeginArticle(a, true); err != nil {
		t.Fatal(err)
	}
	measured = nil
	events, err := e.Feed(a.Paragraphs)
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}

	probe := e.Geometry().Probe
	want := []string{
		"aaaaaaaa",
		probe, // paragraph start
		"aaaaaaaa bbbbbbbb",
		"aaaaaaaa\n" + probe,
		"bbbbbbbb",
		"cccccccc",
		"aaaaaaaa\nbbbbbbbb\n" + probe, // paragraph start
		"cccccccc dddddddd",
		"aaaaaaaa\nbbbbbbbb\ncccccccc\n" + probe,
		"dddddddd",
		probe, // column start
	}
	if diff := cmp.Diff(want, measured); diff != "" {
		t.Fatalf("measurements mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"column1"}, eventKinds(events)); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestEventPhases(t *testing.T) {
	e := newTestEngine(t)
	events, err := e.Layout(newArticle("a", words(11)), true)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, ev := range events {
		got = append(got, ev.Kind.String()+":"+ev.Phase.String())
	}
	want := []string{
		"page-open:filling",
		"header:filling",
		"column:column-full",
		"column:column-full",
		"column:column-full",
		"page-break:page-full",
		"page-save:page-full",
		"page-open:page-full",
		"column:filling",
		"page-save:filling",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("phases mismatch (-want +got):\n%s", diff)
	}
	if st := e.State(); st.Phase != layout.PhaseDone {
		t.Fatalf("phase after article = %s", st.Phase)
	}
}
