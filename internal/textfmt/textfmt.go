// Package textfmt prepares feed text for the terminal. Question and option
// text from the feed is occasionally APEX rich text; it is converted to
// Markdown at render time only.
package textfmt

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

var markup = regexp.MustCompile(`(?i)</?(?:p|br|b|i|u|em|strong|span|div|ul|ol|li|sub|sup|code|pre|a|font)\b[^>]*>|&(?:amp|lt|gt|quot|nbsp|#\d+);`)

// LooksLikeHTML reports whether s contains common inline tags or entities.
func LooksLikeHTML(s string) bool {
	return markup.MatchString(s)
}

// Display returns s ready for display. Plain text is returned unchanged.
func Display(s string) string {
	if !LooksLikeHTML(s) {
		return s
	}
	md, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return s
	}
	return strings.TrimSpace(md)
}

// Inline is Display collapsed onto one line, for option labels.
func Inline(s string) string {
	return strings.Join(strings.Fields(Display(s)), " ")
}
