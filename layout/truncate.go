package layout

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Ellipsis marks a truncated header line.
const Ellipsis = "..."

// TruncateWithEllipsis shortens text word by word to fit maxWidth. The first
// word is always kept, the ellipsis width is reserved up front and appended
// only when a word had to be dropped.
func TruncateWithEllipsis(m Measurer, text string, font FontResource, maxWidth float64) (string, error) {
	dots, _, err := m.Measure(Ellipsis, font)
	if err != nil {
		return "", err
	}
	words := strings.Split(text, " ")
	return truncateWords(m, words[0], words[1:], font, maxWidth-dots)
}

// truncateWords appends words to head while the result stays narrower than
// limit and ends with the ellipsis at the first word that does not fit.
func truncateWords(m Measurer, head string, words []string, font FontResource, limit float64) (string, error) {
	out := head
	for _, w := range words {
		candidate := out + " " + w
		width, _, err := m.Measure(candidate, font)
		if err != nil {
			return "", err
		}
		if width >= limit {
			return out + Ellipsis, nil
		}
		out = candidate
	}
	return out, nil
}

// Byline joins author, date and source the way the header prints them. Every
// present part is followed by three spaces.
func Byline(author, date, source string) string {
	var sb strings.Builder
	if author != "" {
		sb.WriteString("by " + author + "   ")
	}
	if date != "" {
		sb.WriteString(cases.Title(language.English).String(date) + "   ")
	}
	if source != "" {
		sb.WriteString(source + "   ")
	}
	return sb.String()
}
