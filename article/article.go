// Package article reads tagged plain-text articles that feed the magazine layout.
package article

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Sentinel errors reported while loading articles.
var (
	// ErrNoArticles is returned when the input directory holds no article files.
	ErrNoArticles = errors.New("no input articles")

	// ErrMalformed is returned for an article without a body marker, title or body text.
	ErrMalformed = errors.New("malformed article")

	// ErrUnsupportedImage marks an image reference that cannot be used. It is never fatal.
	ErrUnsupportedImage = errors.New("unsupported image reference")
)

// Article is one parsed input file. It is not modified after parsing.
type Article struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Author   string `json:"author"`
	Date     string `json:"date"`
	Source   string `json:"source"`
	// Image is relative to the input directory, empty when absent or rejected.
	Image string `json:"image"`
	// Paragraphs holds body lines as written, a blank line separates paragraphs.
	Paragraphs []string `json:"paragraphs"`
}

func (a *Article) String() string {
	return fmt.Sprintf("Article<%s - %s>", a.ID, a.Title)
}

// Validate checks the requirements layout relies on.
func (a *Article) Validate() error {
	if a == nil {
		return fmt.Errorf("%w: nil article", ErrMalformed)
	}
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("%w: missing 'title:'", ErrMalformed)
	}
	for _, p := range a.Paragraphs {
		if strings.TrimSpace(p) != "" {
			return nil
		}
	}
	return fmt.Errorf("%w: no text in body", ErrMalformed)
}

// SupportedImage reports whether ref has an extension the renderer accepts.
func SupportedImage(ref string) bool {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(ref), "."))
	switch ext {
	case "png", "jpg", "jpeg":
		return true
	}
	return false
}

// Error ties a failure to the article it came from.
type Error struct {
	ID  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("article %s: %v", e.ID, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
