package magazine

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"github.com/ByLCY/magor/article"
	"github.com/ByLCY/magor/renderer"
)

var (
	white       = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	placeholder = color.NRGBA{R: 0xd8, G: 0xd8, B: 0xd8, A: 0xff}
)

// imageSet prepares header pictures. Every picture it hands out has the
// header size and no transparency left.
type imageSet struct {
	dir           string
	width, height int
	fallback      image.Image
	ink           image.Image
	opacity       float64
	log           *zap.Logger
}

type imageOptions struct {
	InputDir      string
	Width, Height int
	DefaultImage  string
	InkSaver      bool
	InkSaverImage string
	Opacity       float64
}

func newImageSet(opts imageOptions, log *zap.Logger) (*imageSet, error) {
	s := &imageSet{
		dir:     opts.InputDir,
		width:   opts.Width,
		height:  opts.Height,
		opacity: opts.Opacity,
		log:     log,
	}

	var fallback image.Image = imaging.New(s.width, s.height, placeholder)
	if opts.DefaultImage != "" {
		img, err := imaging.Open(opts.DefaultImage)
		if err != nil {
			return nil, fmt.Errorf("%w: default image '%s': %w", renderer.ErrResource, opts.DefaultImage, err)
		}
		fallback = img
	}
	s.fallback = s.fit(fallback)

	if opts.InkSaver {
		var ink image.Image = imaging.New(s.width, s.height, white)
		if opts.InkSaverImage != "" {
			img, err := imaging.Open(opts.InkSaverImage)
			if err != nil {
				return nil, fmt.Errorf("%w: ink saver image '%s': %w", renderer.ErrResource, opts.InkSaverImage, err)
			}
			ink = img
		}
		s.ink = imaging.Resize(ink, s.width, s.height, imaging.Lanczos)
	}
	return s, nil
}

// fit stretches img to the header size and flattens it onto white.
func (s *imageSet) fit(img image.Image) image.Image {
	img = imaging.Resize(img, s.width, s.height, imaging.Lanczos)
	return imaging.Overlay(imaging.New(s.width, s.height, white), img, image.Pt(0, 0), 1.0)
}

func (s *imageSet) path(ref string) string {
	return filepath.Join(s.dir, filepath.FromSlash(ref))
}

// check makes sure every referenced image file exists.
func (s *imageSet) check(articles []*article.Article) error {
	for _, a := range articles {
		if a.Image == "" {
			continue
		}
		fi, err := os.Stat(s.path(a.Image))
		if err == nil && fi.IsDir() {
			err = fmt.Errorf("'%s' is a directory", a.Image)
		}
		if err != nil {
			return &article.Error{ID: a.ID, Err: fmt.Errorf("%w: image: %w", renderer.ErrResource, err)}
		}
	}
	return nil
}

// header returns the picture for the article header. Content that is not
// png or jpeg falls back to the default picture with a warning.
func (s *imageSet) header(a *article.Article) (image.Image, error) {
	if a.Image == "" {
		return s.fallback, nil
	}
	data, err := os.ReadFile(s.path(a.Image))
	if err != nil {
		return nil, &article.Error{ID: a.ID, Err: fmt.Errorf("%w: image: %w", renderer.ErrResource, err)}
	}
	img, err := decode(data)
	if err != nil {
		s.log.Warn("Using default image", zap.String("article", a.ID), zap.String("image", a.Image),
			zap.Error(fmt.Errorf("%w: %w", article.ErrUnsupportedImage, err)))
		return s.fallback, nil
	}
	img = s.fit(img)
	if s.ink != nil {
		img = imaging.Overlay(img, s.ink, image.Pt(0, 0), s.opacity)
	}
	return img, nil
}

func decode(data []byte) (image.Image, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return nil, err
	}
	switch kind.Extension {
	case "png", "jpg":
	default:
		return nil, fmt.Errorf("content type '%s'", kind.MIME.Value)
	}
	return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
}
