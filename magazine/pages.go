package magazine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/ByLCY/magor/article"
	"github.com/ByLCY/magor/layout"
	"github.com/ByLCY/magor/renderer"
)

const (
	coverPage      = "000cover.png"
	coverBlankPage = "000cover_blank.png"
)

// ErrPageNameCollision reports two articles whose pages would share file names.
var ErrPageNameCollision = errors.New("page name collision")

// PageName returns the raster file name of an article page.
func PageName(id string, page int, transliterate bool) string {
	return fmt.Sprintf("%s_%02d.png", pageStem(id, transliterate), page)
}

func pageStem(id string, transliterate bool) string {
	if transliterate {
		return slug.Make(id)
	}
	return id
}

// checkPageNames makes sure no two articles write pages under the same name.
func checkPageNames(articles []*article.Article, transliterate bool) error {
	seen := make(map[string]string, len(articles))
	for _, a := range articles {
		stem := pageStem(a.ID, transliterate)
		if other, ok := seen[stem]; ok {
			return &article.Error{ID: a.ID, Err: fmt.Errorf("%w: '%s' is also used by %s", ErrPageNameCollision, stem, other)}
		}
		seen[stem] = a.ID
	}
	return nil
}

// clearPages removes raster pages left by a previous run.
func clearPages(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("unable to create pages directory '%s': %w", dir, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("unable to read pages directory '%s': %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("unable to clear pages directory: %w", err)
		}
	}
	return nil
}

// pageWriter replays layout events on backend canvases, one canvas at a time.
type pageWriter struct {
	backend       renderer.Backend
	images        *imageSet
	dir           string
	transliterate bool
	log           *zap.Logger

	cur   renderer.Canvas
	saved []string
}

func (w *pageWriter) open() (renderer.Canvas, error) {
	if w.cur != nil {
		return nil, fmt.Errorf("%w: a page canvas is already open", layout.ErrInvariant)
	}
	c, err := w.backend.OpenPage()
	if err != nil {
		return nil, err
	}
	w.cur = c
	return c, nil
}

func (w *pageWriter) save(name string) error {
	if w.cur == nil {
		return fmt.Errorf("%w: no page canvas to save as %s", layout.ErrInvariant, name)
	}
	if slices.Contains(w.saved, name) {
		w.cur = nil
		return fmt.Errorf("%w: page %s saved twice", layout.ErrInvariant, name)
	}
	path := filepath.Join(w.dir, name)
	err := w.cur.Save(path)
	w.cur = nil
	if err != nil {
		return fmt.Errorf("unable to save page '%s': %w", path, err)
	}
	w.saved = append(w.saved, name)
	w.log.Debug("Page saved", zap.String("page", name))
	return nil
}

func (w *pageWriter) cover(cb layout.CoverBlock, blank bool) error {
	c, err := w.open()
	if err != nil {
		return err
	}
	cb.Image.Data = w.images.fallback
	if err := c.DrawCover(cb); err != nil {
		return fmt.Errorf("unable to draw cover: %w", err)
	}
	if err := w.save(coverPage); err != nil {
		return err
	}
	if !blank {
		return nil
	}
	if _, err := w.open(); err != nil {
		return err
	}
	return w.save(coverBlankPage)
}

func (w *pageWriter) apply(a *article.Article, events []layout.Event) error {
	for _, ev := range events {
		if err := w.event(a, ev); err != nil {
			return &article.Error{ID: a.ID, Err: err}
		}
	}
	return nil
}

func (w *pageWriter) event(a *article.Article, ev layout.Event) error {
	if ev.Kind == layout.EventPageOpen {
		_, err := w.open()
		return err
	}
	if ev.Kind == layout.EventPageBreak {
		return nil
	}
	if w.cur == nil {
		return fmt.Errorf("%w: %s without an open page", layout.ErrInvariant, ev)
	}

	switch ev.Kind {
	case layout.EventHeader:
		hb := *ev.Header
		img, err := w.images.header(a)
		if err != nil {
			return err
		}
		hb.Image.Data = img
		return w.cur.DrawHeader(hb)
	case layout.EventColumn:
		return w.cur.DrawColumn(*ev.Box)
	case layout.EventPageSave:
		return w.save(PageName(ev.Article, ev.Page, w.transliterate))
	}
	return fmt.Errorf("%w: unknown event %s", layout.ErrInvariant, ev)
}

// close reports a canvas that was opened and never saved.
func (w *pageWriter) close() error {
	if w.cur != nil {
		w.cur = nil
		return fmt.Errorf("%w: page canvas left unsaved", layout.ErrInvariant)
	}
	return nil
}
