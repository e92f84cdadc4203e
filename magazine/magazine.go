// Package magazine runs a whole batch: articles in, raster pages and one PDF out.
package magazine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ByLCY/magor/article"
	"github.com/ByLCY/magor/binding"
	"github.com/ByLCY/magor/config"
	"github.com/ByLCY/magor/layout"
	"github.com/ByLCY/magor/renderer"
	canvasrenderer "github.com/ByLCY/magor/renderer/canvas"
	ggrenderer "github.com/ByLCY/magor/renderer/gg"
)

// Params are per-run switches coming from the command line.
type Params struct {
	NoInkSaver          bool
	BlankPageAfterCover bool
	// Backend overrides the configured backend when not empty.
	Backend string
	// DebugJSON is where the layout event trace goes, nothing is written when empty.
	DebugJSON string
}

type builder struct {
	backend   renderer.Backend
	assembler renderer.Assembler
	now       func() time.Time
}

// Option adjusts a build.
type Option func(*builder)

// WithBackend replaces the configured drawing backend.
func WithBackend(b renderer.Backend) Option {
	return func(m *builder) { m.backend = b }
}

// WithAssembler replaces the PDF assembler.
func WithAssembler(a renderer.Assembler) Option {
	return func(m *builder) { m.assembler = a }
}

// WithClock sets the time used for the cover date and the output name.
func WithClock(now func() time.Time) Option {
	return func(m *builder) { m.now = now }
}

// NewBackend creates the named drawing backend sized by cfg.
func NewBackend(cfg *config.Config, name string) (renderer.Backend, error) {
	if name == "" {
		name = cfg.Render.Backend
	}
	w, h := cfg.PageSize()
	switch name {
	case "canvas":
		return canvasrenderer.New(canvasrenderer.Options{
			BaseDir:     ".",
			PageWidth:   float64(w),
			PageHeight:  float64(h),
			LineSpacing: cfg.Render.LineSpacing,
		}), nil
	case "gg":
		return ggrenderer.New(ggrenderer.Options{
			BaseDir:     ".",
			PageWidth:   w,
			PageHeight:  h,
			LineSpacing: cfg.Render.LineSpacing,
		}), nil
	}
	return nil, fmt.Errorf("unknown backend '%s'", name)
}

// Build lays out every article of the input directory and assembles the
// magazine. It returns the path of the produced PDF.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger, p Params, opts ...Option) (string, error) {
	b := &builder{now: time.Now}
	for _, o := range opts {
		o(b)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("unable to generate run id: %w", err)
	}
	run := id.String()
	log = log.With(zap.String("run", run))

	geo, err := cfg.Geometry()
	if err != nil {
		return "", err
	}
	fonts := cfg.FontSet()

	articles, err := article.LoadDir(cfg.Input.Dir, cfg.Input.Order)
	if err != nil {
		return "", err
	}
	log.Debug("Articles loaded", zap.Int("count", len(articles)), zap.String("dir", cfg.Input.Dir))

	backend := b.backend
	if backend == nil {
		if backend, err = NewBackend(cfg, p.Backend); err != nil {
			return "", err
		}
	}
	if err := backend.LoadFonts(fonts); err != nil {
		return "", err
	}
	assembler := b.assembler
	if assembler == nil {
		assembler = canvasrenderer.NewAssembler(cfg.Output.DPI)
	}

	images, err := newImageSet(imageOptions{
		InputDir:      cfg.Input.Dir,
		Width:         int(geo.HeaderWidth),
		Height:        int(geo.HeaderImageHeight),
		DefaultImage:  cfg.Render.DefaultImage,
		InkSaver:      cfg.Render.InkSaver && !p.NoInkSaver,
		InkSaverImage: cfg.Render.InkSaverImage,
		Opacity:       cfg.Render.InkSaverOpacity,
	}, log)
	if err != nil {
		return "", err
	}
	if err := images.check(articles); err != nil {
		return "", err
	}
	if err := checkPageNames(articles, cfg.Output.Transliterate); err != nil {
		return "", err
	}

	engine, err := layout.NewEngine(layout.Options{Measurer: backend, Geometry: geo, Fonts: fonts})
	if err != nil {
		return "", err
	}

	if err := clearPages(cfg.Output.PagesDir); err != nil {
		return "", err
	}

	now := b.now()
	w := &pageWriter{
		backend:       backend,
		images:        images,
		dir:           cfg.Output.PagesDir,
		transliterate: cfg.Output.Transliterate,
		log:           log,
	}

	if cfg.Cover.Enabled {
		titles := make([]string, len(articles))
		for i, a := range articles {
			titles[i] = a.Title
		}
		cb, err := geo.Cover(backend, fonts, titles, now)
		if err != nil {
			return "", fmt.Errorf("unable to lay out cover: %w", err)
		}
		if err := w.cover(cb, p.BlankPageAfterCover || cfg.Cover.BlankPageAfter); err != nil {
			return "", err
		}
	}

	var trace *layout.Trace
	if p.DebugJSON != "" {
		trace = &layout.Trace{Run: run, Geometry: geo, Fonts: fonts}
	}
	for i, a := range articles {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("run interrupted: %w", err)
		}
		log.Info(fmt.Sprintf("Processing (%02d/%02d): %s%s", i+1, len(articles), a.ID, article.Ext))

		events, err := engine.Layout(a, i == len(articles)-1)
		if err != nil {
			return "", err
		}
		if trace != nil {
			trace.Events = append(trace.Events, events...)
		}
		if err := w.apply(a, events); err != nil {
			return "", err
		}
	}
	if err := multierr.Combine(engine.Close(), w.close()); err != nil {
		return "", err
	}

	if trace != nil {
		if err := writeDebug(trace, p.DebugJSON); err != nil {
			return "", err
		}
		log.Info("Layout trace written", zap.String("file", p.DebugJSON))
	}

	// Transliterated names no longer sort like the article ids, pages then go
	// in the order they were written.
	pages := append([]string(nil), w.saved...)
	if !cfg.Output.Transliterate {
		article.SortNames(pages, cfg.Input.Order)
	}
	paths := make([]string, len(pages))
	for i, name := range pages {
		paths[i] = filepath.Join(cfg.Output.PagesDir, name)
	}

	name := binding.Interpolate(cfg.Output.NameTemplate, map[string]any{"date": now, "run": run})
	if left := binding.Unresolved(name); len(left) > 0 {
		log.Warn("Output name has unresolved placeholders", zap.Strings("placeholders", left))
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return "", fmt.Errorf("unable to create output directory '%s': %w", cfg.Output.Dir, err)
	}
	out := filepath.Join(cfg.Output.Dir, name)

	meta := layout.DocumentMeta{
		Title:    cfg.Output.Title,
		Author:   cfg.Output.Author,
		Subject:  fmt.Sprintf("%d articles", len(articles)),
		Creator:  config.AppName,
		Keywords: []string{config.AppName, run},
	}
	if err := assembler.Assemble(paths, out, meta); err != nil {
		return "", fmt.Errorf("unable to assemble magazine: %w", err)
	}
	log.Info("Magazine created", zap.String("file", out), zap.Int("pages", len(paths)))
	return out, nil
}

func writeDebug(tr *layout.Trace, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create debug directory: %w", err)
		}
	}
	if err := layout.WriteDebugJSON(tr, path); err != nil {
		return fmt.Errorf("unable to write layout trace: %w", err)
	}
	return nil
}
