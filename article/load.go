package article

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// Order selects how file names are sequenced.
type Order string

const (
	OrderLexical Order = "lexical"
	OrderNatural Order = "natural"
)

// Ext is the extension of article files.
const Ext = ".txt"

// SortNames sorts names in place. Pages are assembled with the same order the
// articles were read in, so both sides go through here.
func SortNames(names []string, order Order) {
	if order == OrderNatural {
		sort.Sort(natural.StringSlice(names))
		return
	}
	sort.Strings(names)
}

// List returns the article file names in dir, sorted. The directory is created
// when it does not exist yet.
func List(dir string, order Order) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create input directory '%s': %w", dir, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read input directory '%s': %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		names = append(names, e.Name())
	}
	SortNames(names, order)
	return names, nil
}

// LoadDir parses every article in dir. It stops at the first malformed article
// so that nothing is laid out from a broken batch.
func LoadDir(dir string, order Order) ([]*Article, error) {
	names, err := List(dir, order)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		abs, _ := filepath.Abs(dir)
		return nil, fmt.Errorf("%w: nothing found in '%s'", ErrNoArticles, abs)
	}

	articles := make([]*Article, 0, len(names))
	for _, name := range names {
		id := strings.TrimSuffix(name, Ext)
		a, err := loadFile(filepath.Join(dir, name), id)
		if err != nil {
			return nil, &Error{ID: id, Err: err}
		}
		articles = append(articles, a)
	}
	return articles, nil
}

func loadFile(path, id string) (*Article, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(id, f)
}
