package article

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	// Tag must come before Text: at the start of a line the first matching rule wins.
	articleLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Tag", Pattern: `(?:title|subtitle|author|date|source|image|body):`},
		{Name: "Text", Pattern: `[^\n]+`},
		{Name: "Newline", Pattern: `\n`},
	})

	sourceParser = participle.MustBuild[Source](
		participle.Lexer(articleLexer),
	)
)

// Source is the line-level AST of an article file.
type Source struct {
	Lines []*Line `parser:"@@*"`
}

// Line is a single source line, optionally starting with a header tag.
type Line struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Tag  string         `parser:"@Tag?"`
	Text string         `parser:"@Text?"`
	EOL  bool           `parser:"@Newline"`
}

// Raw returns the line exactly as written.
func (l *Line) Raw() string { return l.Tag + l.Text }

// Value returns the trimmed text following the tag.
func (l *Line) Value() string { return strings.TrimSpace(l.Text) }

// ParseSource tokenizes article content into lines. The content is trimmed first.
func ParseSource(name, content string) (*Source, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSpace(content) + "\n"
	return sourceParser.ParseString(name, content)
}

// Parse reads one article. id names the article in errors and page names.
// Header tags are read until the first "body:" line, everything after it is body.
func Parse(id string, r io.Reader) (*Article, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	src, err := ParseSource(id, string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	a := &Article{ID: id}
	bodyAt := -1
scan:
	for i, ln := range src.Lines {
		switch ln.Tag {
		case "title:":
			a.Title = ln.Value()
		case "subtitle:":
			a.Subtitle = ln.Value()
		case "author:":
			a.Author = ln.Value()
		case "date:":
			a.Date = ln.Value()
		case "source:":
			a.Source = ln.Value()
		case "image:":
			a.Image = ln.Value()
			if a.Image != "" && !SupportedImage(a.Image) {
				a.Image = ""
			}
		case "body:":
			bodyAt = i + 1
			break scan
		}
	}
	if bodyAt < 0 {
		return nil, fmt.Errorf("%w: missing 'body:'", ErrMalformed)
	}

	for _, ln := range src.Lines[bodyAt:] {
		a.Paragraphs = append(a.Paragraphs, ln.Raw())
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// ParseString parses article content held in memory.
func ParseString(id, content string) (*Article, error) {
	return Parse(id, strings.NewReader(content))
}
