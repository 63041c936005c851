// Package markdown renders admin-authored Markdown, such as the help tab
// text, into HTML that is safe to embed.
package markdown

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

type Renderer interface {
	// ToSafeHTML converts Markdown and drops anything outside the allowed HTML subset.
	ToSafeHTML(markdown string) (string, error)
	// PlainText removes all markup and returns escaped text.
	PlainText(s string) string
}

type renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	strict *bluemonday.Policy
}

func NewRenderer() Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	return &renderer{
		md:     md,
		policy: policy,
		strict: bluemonday.StrictPolicy(),
	}
}

func (r *renderer) ToSafeHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}

func (r *renderer) PlainText(s string) string {
	// StrictPolicy escapes what it keeps, so unescape once to avoid &amp;amp; on re-escape.
	return html.EscapeString(html.UnescapeString(strings.TrimSpace(r.strict.Sanitize(s))))
}
