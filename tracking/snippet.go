package tracking

import (
	"errors"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// Snippet validation errors surfaced to the dashboard editor.
var (
	ErrSnippetEmpty     = errors.New("snippet is empty")
	ErrSnippetNoWrapper = errors.New("snippet must contain a <script> or <noscript> element")
	ErrSnippetBlocked   = errors.New("snippet contains a blocked scheme or inline event handler")
)

// excerptPolicy strips all markup so rejected snippets can be logged
// without re-emitting anything executable.
var excerptPolicy = bluemonday.StrictPolicy()

// ValidateSnippet checks a raw head/body tracking snippet before
// insertion. The snippet must carry a recognizable script or noscript
// wrapper and must not use the javascript: scheme or inline
// onerror/onload handler attributes. A failing snippet is rejected and
// never inserted into the document.
func ValidateSnippet(snippet string) error {
	if strings.TrimSpace(snippet) == "" {
		return ErrSnippetEmpty
	}

	lower := strings.ToLower(snippet)
	if strings.Contains(lower, "javascript:") ||
		strings.Contains(lower, "onerror=") ||
		strings.Contains(lower, "onload=") {
		return ErrSnippetBlocked
	}

	doc, err := html.Parse(strings.NewReader(snippet))
	if err != nil {
		return ErrSnippetNoWrapper
	}

	var hasWrapper, blocked bool
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if n.Data == "script" || n.Data == "noscript" {
				hasWrapper = true
			}
			for _, attr := range n.Attr {
				key := strings.ToLower(attr.Key)
				if key == "onerror" || key == "onload" {
					blocked = true
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if blocked {
		return ErrSnippetBlocked
	}
	if !hasWrapper {
		return ErrSnippetNoWrapper
	}
	return nil
}

// SafeExcerpt returns a short, markup-free slice of a rejected snippet
// suitable for log lines.
func SafeExcerpt(snippet string) string {
	s := strings.TrimSpace(excerptPolicy.Sanitize(snippet))
	if len(s) > 120 {
		s = s[:120] + "..."
	}
	return s
}
