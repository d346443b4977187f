// Package render turns post content into HTML or short plain-text previews.
package render

import (
	"bytes"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Raw HTML in post content is replaced, not passed through; posts come from
// any signed-in user.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Linkify,
	),
)

// Markdown renders post content to HTML. On failure it returns the content
// escaped so callers can always display something.
func Markdown(content string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return "<p>" + html.EscapeString(content) + "</p>"
	}
	return buf.String()
}

// Excerpt returns the first line of content, cut to at most limit runes
// with an ellipsis when shortened. Markdown emphasis markers are dropped.
func Excerpt(content string, limit int) string {
	line, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	line = strings.NewReplacer("**", "", "__", "", "`", "").Replace(strings.TrimSpace(line))
	if limit <= 0 || utf8.RuneCountInString(line) <= limit {
		return line
	}
	if limit == 1 {
		return "…"
	}
	runes := []rune(line)
	return strings.TrimRight(string(runes[:limit-1]), " ") + "…"
}
