package markdown

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer turns short notification bodies into HTML for the in-app feed and
// email. Output keeps headings, paragraphs, emphasis and inline code; every
// other element and all attributes are stripped.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewRenderer() *Renderer {
	policy := bluemonday.NewPolicy()
	policy.AllowElements("h1", "h2", "h3", "p", "br", "strong", "em", "code")

	return &Renderer{
		md:     goldmark.New(goldmark.WithRendererOptions(html.WithXHTML())),
		policy: policy,
	}
}

// Render converts src and sanitizes the result.
func (r *Renderer) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to render notification body: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}
