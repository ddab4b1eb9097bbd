package sanitizer

import (
	"bytes"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	richPolicy = sync.OnceValue(func() *bluemonday.Policy {
		p := bluemonday.NewPolicy()
		p.AllowStandardURLs()
		p.AllowElements(
			"p", "br", "hr",
			"strong", "b", "em", "i", "del",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
			"table", "thead", "tbody", "tr", "th", "td",
		)
		p.AllowAttrs("href").OnElements("a")
		p.RequireNoFollowOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		return p
	})
	textPolicy = sync.OnceValue(bluemonday.StrictPolicy)
	markdown   = goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Table, extension.Linkify))
)

// Markdown renders product copy written in Markdown and strips anything
// outside basic formatting. The result is safe to embed in a template.
func Markdown(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src)) //nolint:gosec // escaped above
	}
	return template.HTML(richPolicy().SanitizeBytes(buf.Bytes())) //nolint:gosec // sanitized above
}

// Text strips all markup and returns plain text, e.g. for review author
// names and meta descriptions.
func Text(s string) string {
	return strings.TrimSpace(textPolicy().Sanitize(s))
}

// Excerpt returns the first n runes of the plain text of s, followed by an
// ellipsis when it was cut.
func Excerpt(s string, n int) string {
	plain := []rune(strings.Join(strings.Fields(Text(s)), " "))
	if n <= 0 || len(plain) <= n {
		return string(plain)
	}
	return strings.TrimSpace(string(plain[:n])) + "…"
}
