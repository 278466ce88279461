package render

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/clubworks/go-formflow/pkg/model"
)

var linkPattern = regexp.MustCompile(`\[([^\[\]]*)\]\(([^()\s]+)\)`)

var (
	htmlPolicyOnce sync.Once
	htmlPolicy     *bluemonday.Policy
)

// LabelHTML renders a label content field's body as safe HTML. Plain text
// is escaped verbatim; markdown-lite rewrites `[text](url)` links into
// hyperlinks that open in a new tab; raw HTML is sanitised. Malformed link
// syntax is escaped and left in place rather than erroring.
func LabelHTML(content model.ContentAttrs) string {
	switch content.Format {
	case model.ContentMarkdown:
		return renderMarkdownLite(content.Text)
	case model.ContentHTML:
		return sanitizeHTML(content.Text)
	default:
		return html.EscapeString(content.Text)
	}
}

// renderMarkdownLite rewrites `[text](url)` spans into anchors, escaping
// everything else. Links whose target is not an absolute http(s) or mailto
// URL stay as escaped literal text.
func renderMarkdownLite(text string) string {
	var out strings.Builder
	last := 0

	for _, match := range linkPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := match[0], match[1]
		label := text[match[2]:match[3]]
		target := text[match[4]:match[5]]

		out.WriteString(html.EscapeString(text[last:start]))
		last = end

		if safe, ok := safeLinkTarget(target); ok {
			if label == "" {
				label = target
			}
			fmt.Fprintf(&out, `<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`,
				html.EscapeString(safe), html.EscapeString(label))
			continue
		}
		out.WriteString(html.EscapeString(text[start:end]))
	}

	out.WriteString(html.EscapeString(text[last:]))
	return out.String()
}

// safeLinkTarget accepts absolute http, https, and mailto targets only.
func safeLinkTarget(target string) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(target))
	if err != nil {
		return "", false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		if parsed.Host == "" {
			return "", false
		}
		return parsed.String(), true
	case "mailto":
		if parsed.Opaque == "" {
			return "", false
		}
		return parsed.String(), true
	default:
		return "", false
	}
}

func sanitizeHTML(raw string) string {
	htmlPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		htmlPolicy = policy
	})
	return strings.TrimSpace(htmlPolicy.Sanitize(raw))
}
