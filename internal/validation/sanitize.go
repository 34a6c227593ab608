package validation

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// strict strips all markup; stored post titles/bodies and chat messages are
// plain text only.
var strict = bluemonday.StrictPolicy()

// display allows the fixed safe tag subset used when rendering markdown for
// display. No attributes are allowed on any tag.
var display = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "br", "ul", "ol", "li", "strong", "b", "i", "em",
		"h1", "h2", "h3", "h4", "h5", "h6",
	)
	return p
}()

var markdown = goldmark.New()

// SanitizePlainText strips all HTML markup and trims surrounding whitespace.
// The result is stable: sanitizing twice yields the same output.
func SanitizePlainText(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// RenderMarkdown converts plain-text markdown to HTML restricted to the safe
// tag subset. Rendering happens at display time; the raw text is what gets
// stored.
func RenderMarkdown(src string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		// Fall back to the sanitized source rather than failing the request.
		return SanitizePlainText(src)
	}
	return display.Sanitize(buf.String())
}
