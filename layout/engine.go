// Package layout flows article text into a three-column page grid.
//
// The engine is fed one article at a time and answers with an ordered list of
// events (page-open, header, column, page-break, page-save) that a renderer
// replays. All measuring goes through a Measurer so the flow stays independent
// of the drawing backend.
package layout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ByLCY/magor/article"
)

// ErrInvariant reports an engine or pipeline inconsistency. It always means a defect.
var ErrInvariant = errors.New("layout invariant violated")

// Engine carries layout state across articles. It is not safe for concurrent use.
type Engine struct {
	m     Measurer
	geo   Geometry
	fonts FontSet
	st    State
	out   []Event
}

// NewEngine checks options and returns an engine positioned before the first article.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Measurer == nil {
		return nil, errors.New("layout: measurer is required")
	}
	if err := opts.Geometry.Validate(); err != nil {
		return nil, fmt.Errorf("layout: invalid geometry: %w", err)
	}
	return &Engine{m: opts.Measurer, geo: opts.Geometry, fonts: opts.Fonts, st: NewState()}, nil
}

// State returns a copy of the current state.
func (e *Engine) State() State { return e.st }

// Geometry returns the page geometry the engine lays out against.
func (e *Engine) Geometry() Geometry { return e.geo }

// BeginArticle starts a new article. The page is reused when the previous
// article left it open with only column 1 filled.
func (e *Engine) BeginArticle(a *article.Article, last bool) ([]Event, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: nil article", ErrInvariant)
	}
	if e.st.Phase != PhaseIdle && e.st.Phase != PhaseDone {
		return nil, fmt.Errorf("%w: begin %s in phase %s", ErrInvariant, a.ID, e.st.Phase)
	}
	if err := a.Validate(); err != nil {
		return nil, &article.Error{ID: a.ID, Err: err}
	}

	col := e.st.Column
	reused := col != 1
	if reused != e.st.PageOpen {
		return nil, fmt.Errorf("%w: column %d carried with page open=%v", ErrInvariant, col, e.st.PageOpen)
	}
	slot, err := e.geo.ColumnSlot(true, col, reused)
	if err != nil {
		return nil, err
	}
	header, err := e.geo.Header(e.m, e.fonts, a, reused)
	if err != nil {
		return nil, &article.Error{ID: a.ID, Err: err}
	}

	e.st = State{
		Phase:          PhaseFilling,
		Article:        a.ID,
		Last:           last,
		Page:           1,
		Column:         col,
		FirstPage:      true,
		Reused:         reused,
		PageOpen:       e.st.PageOpen,
		Slot:           slot,
		ParagraphStart: true,
	}
	if !reused {
		if err := e.openPage(); err != nil {
			return nil, err
		}
	}
	e.emit(Event{Kind: EventHeader, Column: col, Header: &header})
	return e.flush(), nil
}

// Feed flows paragraphs into the current article. A blank paragraph becomes a
// blank line unless the column is still empty.
func (e *Engine) Feed(paragraphs []string) ([]Event, error) {
	if e.st.Phase != PhaseFilling {
		return nil, fmt.Errorf("%w: feed in phase %s", ErrInvariant, e.st.Phase)
	}
	for _, p := range paragraphs {
		if err := e.feedParagraph(p); err != nil {
			e.out = nil
			return nil, err
		}
	}
	return e.flush(), nil
}

// EndArticle commits what is left and decides whether the page stays open for
// the next article.
func (e *Engine) EndArticle() ([]Event, error) {
	if e.st.Phase != PhaseFilling {
		return nil, fmt.Errorf("%w: end article in phase %s", ErrInvariant, e.st.Phase)
	}
	st := &e.st
	if strings.TrimSpace(st.Text) != "" {
		e.commit()
	}
	st.resetBuffer()

	switch {
	case st.FirstPage:
		e.savePage()
		st.Column = 1
	case st.Column == 1 && !st.Last:
		st.Column = 2
	default:
		e.savePage()
		st.Column = 1
	}
	st.Phase = PhaseDone
	st.ProbeValid = false
	return e.flush(), nil
}

// Layout runs one whole article through the engine.
func (e *Engine) Layout(a *article.Article, last bool) ([]Event, error) {
	events, err := e.BeginArticle(a, last)
	if err != nil {
		return nil, err
	}
	body, err := e.Feed(a.Paragraphs)
	if err != nil {
		return nil, &article.Error{ID: a.ID, Err: err}
	}
	end, err := e.EndArticle()
	if err != nil {
		return nil, &article.Error{ID: a.ID, Err: err}
	}
	return append(append(events, body...), end...), nil
}

// Close reports a page that was left open after the last article.
func (e *Engine) Close() error {
	if e.st.PageOpen {
		return fmt.Errorf("%w: page %d of %s left open", ErrInvariant, e.st.Page, e.st.Article)
	}
	return nil
}

func (e *Engine) feedParagraph(p string) error {
	st := &e.st
	words := strings.Split(p, " ")
	if len(words) == 1 && words[0] == "" {
		if st.Text != "" {
			st.breakLine()
		}
		return nil
	}

	for i := 0; i < len(words); {
		word := words[i]
		chunk := " " + word
		if st.ParagraphStart || st.Text == "" {
			chunk = word
			st.ParagraphStart = false
			st.ProbeValid = false
		}
		placed, err := e.place(word, chunk)
		if err != nil {
			return err
		}
		if placed {
			i++
		}
	}
	st.breakLine()
	st.ParagraphStart = true
	return nil
}

// place tries to put one word into the current column. It returns false when
// the column was committed and the word has to be retried.
func (e *Engine) place(word, chunk string) (bool, error) {
	st := &e.st
	body := e.fonts.Body

	w, _, err := e.m.Measure(st.Line+chunk, body)
	if err != nil {
		return false, err
	}
	if !st.ProbeValid {
		_, h, err := e.m.Measure(st.Text+e.geo.Probe, body)
		if err != nil {
			return false, err
		}
		st.ProbeHeight, st.ProbeValid = h, true
	}
	if max(st.Widest, w) <= e.geo.ColumnWidth && st.ProbeHeight < st.Slot.Budget {
		st.Text += chunk
		st.Line += chunk
		st.LineWidth = w
		return true, nil
	}

	_, h, err := e.m.Measure(st.Text+"\n"+e.geo.Probe, body)
	if err != nil {
		return false, err
	}
	if h < st.Slot.Budget {
		lw, _, err := e.m.Measure(word, body)
		if err != nil {
			return false, err
		}
		st.breakLine()
		st.Text += word
		st.Line = word
		st.LineWidth = lw
		return true, nil
	}
	return false, e.advance()
}

// advance commits the full column and moves to the next one, breaking the
// page after column 3.
func (e *Engine) advance() error {
	st := &e.st
	if strings.TrimSpace(st.Text) == "" {
		return fmt.Errorf("%w: nothing fits column %d on page %d", ErrInvariant, st.Column, st.Page)
	}
	st.Phase = PhaseColumnFull
	e.commit()

	if st.Column == 3 {
		st.Phase = PhasePageFull
		e.emit(Event{Kind: EventPageBreak})
		e.savePage()
		st.Page++
		st.FirstPage = false
		st.Reused = false
		st.Column = 1
		if err := e.openPage(); err != nil {
			return err
		}
	} else {
		st.Column++
	}

	slot, err := e.geo.ColumnSlot(st.FirstPage, st.Column, st.Reused)
	if err != nil {
		return err
	}
	st.Slot = slot
	st.Phase = PhaseFilling
	return nil
}

func (e *Engine) commit() {
	st := &e.st
	slot := st.Slot
	e.emit(Event{
		Kind:   EventColumn,
		Column: st.Column,
		Slot:   &slot,
		Box:    &TextBox{Content: st.Text, X: slot.Anchor.X, Y: slot.Anchor.Y, Font: e.fonts.Body, Color: Black},
	})
	st.resetBuffer()
	st.ProbeValid = false
}

func (e *Engine) openPage() error {
	if e.st.PageOpen {
		return fmt.Errorf("%w: page already open", ErrInvariant)
	}
	e.st.PageOpen = true
	e.emit(Event{Kind: EventPageOpen})
	return nil
}

func (e *Engine) savePage() {
	e.emit(Event{Kind: EventPageSave})
	e.st.PageOpen = false
}

func (e *Engine) emit(ev Event) {
	ev.Phase = e.st.Phase
	ev.Article = e.st.Article
	ev.Page = e.st.Page
	ev.FirstPage = e.st.FirstPage
	ev.Reused = e.st.Reused
	e.out = append(e.out, ev)
}

func (e *Engine) flush() []Event {
	out := e.out
	e.out = nil
	return out
}
