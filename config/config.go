// Package config loads program configuration: embedded defaults overlaid with
// an optional YAML file and validated.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"math"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"github.com/ByLCY/magor/article"
	"github.com/ByLCY/magor/layout"
)

//go:embed config.yaml
var defaultConfig []byte

const AppName = "magor"

type (
	InputConfig struct {
		Dir   string        `yaml:"dir" validate:"required"`
		Order article.Order `yaml:"order" validate:"oneof=lexical natural"`
	}

	OutputConfig struct {
		Dir           string  `yaml:"dir" validate:"required"`
		PagesDir      string  `yaml:"pages_dir" validate:"required"`
		NameTemplate  string  `yaml:"name_template" validate:"required"`
		Transliterate bool    `yaml:"transliterate"`
		DPI           float64 `yaml:"dpi" validate:"gt=0"`
		Title         string  `yaml:"title"`
		Author        string  `yaml:"author"`
	}

	RenderConfig struct {
		Backend         string        `yaml:"backend" validate:"oneof=canvas gg"`
		PageWidth       layout.Length `yaml:"page_width"`
		PageHeight      layout.Length `yaml:"page_height"`
		LineSpacing     float64       `yaml:"line_spacing" validate:"gte=0"`
		InkSaver        bool          `yaml:"ink_saver"`
		DefaultImage    string        `yaml:"default_image"`
		InkSaverImage   string        `yaml:"ink_saver_image"`
		InkSaverOpacity float64       `yaml:"ink_saver_opacity" validate:"gte=0,lte=1"`
	}

	CoverConfig struct {
		Enabled        bool   `yaml:"enabled"`
		BlankPageAfter bool   `yaml:"blank_page_after"`
		MaxEntries     int    `yaml:"max_entries" validate:"gte=0"`
		DateLayout     string `yaml:"date_layout" validate:"required"`
	}

	LayoutConfig struct {
		ColumnWidth float64 `yaml:"column_width" validate:"gt=0"`
		ShortBudget float64 `yaml:"short_budget" validate:"gt=0"`
		LongBudget  float64 `yaml:"long_budget" validate:"gtefield=ShortBudget"`
		Probe       string  `yaml:"probe" validate:"required"`
	}

	FontConfig struct {
		Src   string  `yaml:"src" validate:"required"`
		Style string  `yaml:"style"`
		Size  float64 `yaml:"size" validate:"gt=0"`
	}

	FontsConfig struct {
		Body       FontConfig `yaml:"body"`
		Title      FontConfig `yaml:"title"`
		Subtitle   FontConfig `yaml:"subtitle"`
		Byline     FontConfig `yaml:"byline"`
		CoverDate  FontConfig `yaml:"cover_date"`
		CoverEntry FontConfig `yaml:"cover_entry"`
	}

	Config struct {
		Version int           `yaml:"version" validate:"eq=1"`
		Input   InputConfig   `yaml:"input"`
		Output  OutputConfig  `yaml:"output"`
		Render  RenderConfig  `yaml:"render"`
		Cover   CoverConfig   `yaml:"cover"`
		Layout  LayoutConfig  `yaml:"layout"`
		Fonts   FontsConfig   `yaml:"fonts"`
		Logging LoggingConfig `yaml:"logging"`
	}
)

func unmarshalConfig(data []byte, cfg *Config, validate bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if validate {
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
		if _, err := cfg.Geometry(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of embedded defaults and performs validation.
func LoadConfiguration(path string) (*Config, error) {
	haveFile := len(path) > 0

	cfg, err := unmarshalConfig(defaultConfig, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process default configuration: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, true)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare returns the embedded default configuration.
func Prepare() ([]byte, error) {
	return bytes.Clone(defaultConfig), nil
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}

// PageSize returns the page raster size in pixels.
func (c *Config) PageSize() (width, height int) {
	return int(math.Round(c.Render.PageWidth.ToPX(c.Output.DPI))), int(math.Round(c.Render.PageHeight.ToPX(c.Output.DPI)))
}

// Geometry returns the page geometry with configured sizes applied.
func (c *Config) Geometry() (layout.Geometry, error) {
	g := layout.DefaultGeometry()
	w, h := c.PageSize()
	g.PageWidth, g.PageHeight = float64(w), float64(h)
	g.ColumnWidth = c.Layout.ColumnWidth
	g.ShortBudget = c.Layout.ShortBudget
	g.LongBudget = c.Layout.LongBudget
	g.Probe = c.Layout.Probe
	g.CoverMaxEntries = c.Cover.MaxEntries
	g.CoverDateLayout = c.Cover.DateLayout
	if err := g.Validate(); err != nil {
		return layout.Geometry{}, fmt.Errorf("invalid layout geometry: %w", err)
	}
	return g, nil
}

// FontSet returns the configured fonts.
func (c *Config) FontSet() layout.FontSet {
	res := func(name string, fc FontConfig) layout.FontResource {
		return layout.FontResource{Name: name, Src: fc.Src, Style: fc.Style, Size: fc.Size}
	}
	return layout.FontSet{
		Body:       res("Body", c.Fonts.Body),
		Title:      res("Title", c.Fonts.Title),
		Subtitle:   res("Subtitle", c.Fonts.Subtitle),
		Byline:     res("Byline", c.Fonts.Byline),
		CoverDate:  res("CoverDate", c.Fonts.CoverDate),
		CoverEntry: res("CoverEntry", c.Fonts.CoverEntry),
	}
}
