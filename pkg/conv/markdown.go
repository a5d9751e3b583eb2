package conv

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/inbucket/html2text"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	htmlFlags  = html.CommonFlags
	policy     = bluemonday.UGCPolicy()
)

// MarkdownToText renders model output, which is usually markdown, as plain
// terminal text: markdown to HTML, sanitize, then strip the markup. Falls
// back to the raw input if the HTML cannot be converted.
func MarkdownToText(md []byte) string {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	unsafeHTML := markdown.Render(p.Parse(md), renderer)

	sanitized := policy.SanitizeBytes(unsafeHTML)

	text, err := html2text.FromString(string(sanitized), html2text.Options{TextOnly: true})
	if err != nil {
		return strings.TrimSpace(string(md))
	}
	return strings.TrimSpace(text)
}
